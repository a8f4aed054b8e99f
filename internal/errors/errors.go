// Package errors defines the extractor's minimal error taxonomy:
// config-invalid (fails fast before any pass), reader-raises (propagated to
// the caller untouched), and per-document tokenize failure (always
// non-fatal, skipped by the pass). Each category is a struct implementing
// Error()/Unwrap(), with a Timestamp for diagnostics.
package errors

import (
	"fmt"
	"time"
)

// ErrorType labels which of the three taxonomy buckets an error belongs to.
type ErrorType string

const (
	// ErrorTypeConfig marks a config-invalid error (e.g. maxWordLen < 1).
	// Fails fast before any pass runs.
	ErrorTypeConfig ErrorType = "config"

	// ErrorTypeReader marks an error raised by the reader callable itself.
	// Propagated to the caller; the harness never swallows it.
	ErrorTypeReader ErrorType = "reader"

	// ErrorTypeTokenize marks a per-document tokenization failure. Always
	// non-fatal: the document is skipped and the pass continues.
	ErrorTypeTokenize ErrorType = "tokenize"
)

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a config-invalid error for the given field.
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{Field: field, Value: value, Underlying: err, Timestamp: time.Now()}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: invalid %s=%s: %v", e.Field, e.Value, e.Underlying)
}

func (e *ConfigError) Unwrap() error { return e.Underlying }

// ReaderError wraps an error surfaced by the reader callable at a given
// document index. This propagates to the caller unmodified in
// substance; it is wrapped only to attach the index for diagnostics.
type ReaderError struct {
	Index      int
	Underlying error
	Timestamp  time.Time
}

// NewReaderError wraps a reader failure at the given document index.
func NewReaderError(index int, err error) *ReaderError {
	return &ReaderError{Index: index, Underlying: err, Timestamp: time.Now()}
}

func (e *ReaderError) Error() string {
	return fmt.Sprintf("reader: document %d: %v", e.Index, e.Underlying)
}

func (e *ReaderError) Unwrap() error { return e.Underlying }

// TokenizeError marks a document that failed to tokenize. Constructing one
// is informational only: callers must treat it as non-fatal and skip the
// document, never propagate it as a pass failure.
type TokenizeError struct {
	Index      int
	Underlying error
	Timestamp  time.Time
}

// NewTokenizeError records a skipped, unparseable document.
func NewTokenizeError(index int, err error) *TokenizeError {
	return &TokenizeError{Index: index, Underlying: err, Timestamp: time.Now()}
}

func (e *TokenizeError) Error() string {
	return fmt.Sprintf("tokenize: document %d skipped: %v", e.Index, e.Underlying)
}

func (e *TokenizeError) Unwrap() error { return e.Underlying }

// DictionaryError reports a read or write failure while serializing or
// decoding a token dictionary (e.g. a truncated stream). Declared lengths
// are not checked for plausibility before use.
type DictionaryError struct {
	Operation  string
	Underlying error
}

// NewDictionaryError wraps a dictionary serialization failure.
func NewDictionaryError(op string, err error) *DictionaryError {
	return &DictionaryError{Operation: op, Underlying: err}
}

func (e *DictionaryError) Error() string {
	return fmt.Sprintf("dictionary %s: %v", e.Operation, e.Underlying)
}

func (e *DictionaryError) Unwrap() error { return e.Underlying }

// MultiError aggregates independent errors (e.g. several skipped documents
// collected for a post-run report) into a single error value.
type MultiError struct {
	Errors []error
}

// NewMultiError builds a MultiError from errs, dropping nils.
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	default:
		return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
	}
}

func (e *MultiError) Unwrap() []error { return e.Errors }
