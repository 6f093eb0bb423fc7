package screeningtypes

import "fmt"

// CorpusError marks a malformed corpus entry. It never aborts a screen or
// a view construction outright: callers downgrade it to a skipped entry
// plus a recorded Warning (spec.md §7).
type CorpusError struct {
	SourceID string
	ListCode string
	Reason   string
}

func (e *CorpusError) Error() string {
	return fmt.Sprintf("corpus: entry %s/%s: %s", e.ListCode, e.SourceID, e.Reason)
}

// ErrorKind lets callers switch on the error family without a type
// assertion.
func (e *CorpusError) ErrorKind() string { return "CorpusError" }
