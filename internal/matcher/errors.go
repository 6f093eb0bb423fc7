// Package matcher implements the retrieval-and-rank screening pipeline
// (spec.md §4.4) and the risk/outcome classification ladder (§4.5).
package matcher

import "fmt"

// InvalidQueryError is returned when a ScreeningQuery fails basic
// structural validation (spec.md §7): an empty display name, or an
// unrecognized EntityKind.
type InvalidQueryError struct {
	Reason string
}

func (e *InvalidQueryError) Error() string     { return fmt.Sprintf("invalid query: %s", e.Reason) }
func (e *InvalidQueryError) ErrorKind() string { return "InvalidQuery" }

// InvalidConfigurationError is returned when a Matcher or EngineConfig is
// constructed with out-of-range weights, thresholds, or an unknown
// configuration key.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}
func (e *InvalidConfigurationError) ErrorKind() string { return "InvalidConfiguration" }

// BatchLimitExceededError is returned when a batch request exceeds the
// configured maximum candidate count.
type BatchLimitExceededError struct {
	Requested int
	Limit     int
}

func (e *BatchLimitExceededError) Error() string {
	return fmt.Sprintf("batch limit exceeded: requested %d, limit %d", e.Requested, e.Limit)
}
func (e *BatchLimitExceededError) ErrorKind() string { return "BatchLimitExceeded" }

// CancelledError wraps context.Canceled/DeadlineExceeded when a screen or
// batch run is aborted mid-flight.
type CancelledError struct {
	Cause error
}

func (e *CancelledError) Error() string     { return fmt.Sprintf("cancelled: %v", e.Cause) }
func (e *CancelledError) Unwrap() error      { return e.Cause }
func (e *CancelledError) ErrorKind() string  { return "Cancelled" }
