package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the per-episode failure taxonomy. Every per-episode
// failure is local: it removes that episode from the dataset and is recorded
// in the skip manifest, never aborting the whole run.
var (
	// ErrMetadataParse indicates the sidecar file is missing a required
	// field.
	ErrMetadataParse = errors.New("metadata parse failed")

	// ErrExtractionSchema indicates the extraction service responded but
	// the response could not be parsed into the expected schema.
	ErrExtractionSchema = errors.New("extraction response violates schema")

	// ErrExtractionUnavailable indicates the extraction service kept
	// failing transiently until the retry budget was exhausted.
	ErrExtractionUnavailable = errors.New("extraction service unavailable")
)

// MetadataParseError reports which required sidecar fields could not be
// located. It unwraps to ErrMetadataParse.
type MetadataParseError struct {
	// Path is the sidecar file the parser was reading.
	Path string
	// Missing lists the required fields that were not found.
	Missing []string
}

// Error implements the error interface.
func (e *MetadataParseError) Error() string {
	return fmt.Sprintf("metadata parse failed for %s: missing %v", e.Path, e.Missing)
}

// Unwrap supports errors.Is(err, ErrMetadataParse).
func (e *MetadataParseError) Unwrap() error { return ErrMetadataParse }

// ExtractionSchemaError reports a well-received but malformed extraction
// response. It is distinct from the response being schema-valid but
// semantically wrong, which validation handles.
type ExtractionSchemaError struct {
	// Step identifies which extraction call produced the response.
	Step string
	// Reason describes how the response failed the schema.
	Reason string
	// Err is the underlying decode or validation error, if any.
	Err error
}

// Error implements the error interface.
func (e *ExtractionSchemaError) Error() string {
	msg := fmt.Sprintf("extraction %s response violates schema: %s", e.Step, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap supports errors.Is(err, ErrExtractionSchema) and inspection of
// the underlying decode error.
func (e *ExtractionSchemaError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExtractionSchema}
	}
	return []error{ErrExtractionSchema, e.Err}
}

// ExtractionUnavailableError reports retry-budget exhaustion against the
// extraction service. Keeping it distinct from schema errors lets the
// operator tune retry and backoff settings separately.
type ExtractionUnavailableError struct {
	// Attempts is the number of attempts made before giving up.
	Attempts int
	// Err is the last transport error observed.
	Err error
}

// Error implements the error interface.
func (e *ExtractionUnavailableError) Error() string {
	return fmt.Sprintf("extraction service unavailable after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap supports errors.Is(err, ErrExtractionUnavailable) and lets
// callers classify the underlying transport error, which the pipeline
// needs to detect run-fatal credential failures.
func (e *ExtractionUnavailableError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExtractionUnavailable}
	}
	return []error{ErrExtractionUnavailable, e.Err}
}

// ValidationError collects invariant failures for one draft. It is carried
// inside a reject verdict and into the skip manifest.
type ValidationError struct {
	// Episode is the episode identifier the failures belong to.
	Episode string
	// Reasons lists the failed invariants with the offending values.
	Reasons []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Reasons) == 1 {
		return fmt.Sprintf("validation rejected episode %s: %s", e.Episode, e.Reasons[0])
	}
	return fmt.Sprintf("validation rejected episode %s: %v", e.Episode, e.Reasons)
}
