// Package scan implements the parallel document-scanning harness shared by
// all three counting passes: a fixed worker pool pulls documents from a
// Reader by increasing index until an empty document signals end of input,
// each worker accumulates into its own local state, and the per-worker
// results are returned for the caller to merge. Grounded on the original
// KWordDetector::readProc (ThreadPool + per-worker ldByTid slice), rebuilt
// on golang.org/x/sync/errgroup in place of the C++ ThreadPool/future
// machinery.
package scan

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	kworderrors "github.com/standardbeagle/kword/internal/errors"
	"github.com/standardbeagle/kword/internal/tokenize"
)

// Processor is called once per document, given the document's index and a
// pointer to the calling worker's local accumulator. L is the local state
// type (e.g. *counter.Counter); implementations mutate it in place.
type Processor[L any] func(doc string, index int, local L) error

// Harness runs a single pass over a Reader using a fixed number of workers,
// each with its own local accumulator seeded by newLocal.
type Harness[L any] struct {
	NumWorkers int
	NewLocal   func() L
}

// New creates a Harness with numWorkers workers (at least 1), each seeded
// by newLocal.
func New[L any](numWorkers int, newLocal func() L) *Harness[L] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Harness[L]{NumWorkers: numWorkers, NewLocal: newLocal}
}

// Run drives one pass over reader, calling proc for every document from
// index 0 until reader.Read returns the empty string. Documents are
// dispatched to a fixed pool of worker goroutines; order of processing
// across workers is not guaranteed, only that every index up to the first
// empty read is processed exactly once. A reader error or a processor
// error aborts the remaining pass and is returned; a per-document
// tokenize failure (errors.TokenizeError) is instead collected and the
// pass continues.
func (h *Harness[L]) Run(ctx context.Context, reader tokenize.Reader, proc Processor[L]) ([]L, []error, error) {
	locals := make([]L, h.NumWorkers)
	for i := range locals {
		locals[i] = h.NewLocal()
	}

	type job struct {
		doc   string
		index int
	}

	jobs := make(chan job, h.NumWorkers*4)
	skipped := make([][]error, h.NumWorkers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < h.NumWorkers; w++ {
		w := w
		g.Go(func() error {
			local := locals[w]
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case j, ok := <-jobs:
					if !ok {
						return nil
					}
					err := proc(j.doc, j.index, local)
					if err == nil {
						continue
					}
					var tokErr *kworderrors.TokenizeError
					if errors.As(err, &tokErr) {
						skipped[w] = append(skipped[w], err)
						continue
					}
					return err
				}
			}
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for index := 0; ; index++ {
			doc, err := reader.Read(index)
			if err != nil {
				return kworderrors.NewReaderError(index, err)
			}
			if doc == "" {
				return nil
			}
			select {
			case <-gctx.Done():
				return gctx.Err()
			case jobs <- job{doc: doc, index: index}:
			}
		}
	})

	err := g.Wait()

	var allSkipped []error
	for _, s := range skipped {
		allSkipped = append(allSkipped, s...)
	}
	return locals, allSkipped, err
}
