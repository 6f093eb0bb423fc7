package screeningtypes

import (
	"strings"

	"github.com/rohitsadhu1947/arabiasanctions/screening/internal/normalizer"
)

// CorpusView is an immutable, pre-normalized snapshot of the sanctions
// corpus a Matcher screens against (spec.md §5 Memory). It is built once
// per refresh cycle and shared read-only across concurrent screens and
// batch workers.
type CorpusView struct {
	entries          []*CorpusEntry
	activeListCodes  map[string]bool
	listCodesPresent map[string]bool
	loadWarnings     []Warning
}

// NewCorpusView normalizes every entry once and reports a CorpusError
// (downgraded to a skip plus a recorded Warning, never a hard failure)
// for entries with an empty primary name. A non-nil activeListCodes
// restricts the view to entries on those lists, so entries of other lists
// are never screened or reported in ListsScreened; a nil map means every
// list code found in entries is considered active.
func NewCorpusView(entries []CorpusEntry, activeListCodes map[string]bool) (*CorpusView, error) {
	view := &CorpusView{
		activeListCodes:  activeListCodes,
		listCodesPresent: make(map[string]bool),
	}
	if view.activeListCodes == nil {
		view.activeListCodes = make(map[string]bool)
	}

	for i := range entries {
		e := entries[i]
		if strings.TrimSpace(e.PrimaryName) == "" {
			view.loadWarnings = append(view.loadWarnings, Warning{
				SourceID: e.SourceID,
				ListCode: e.ListCode,
				Reason:   (&CorpusError{SourceID: e.SourceID, ListCode: e.ListCode, Reason: "empty primary name"}).Error(),
			})
			continue
		}

		e.NormalizedPrimary = normalizer.Normalize(e.PrimaryName, false)
		e.Fingerprint = normalizer.Fingerprint(e.PrimaryName)
		e.NormalizedAliases = make([]string, len(e.Aliases))
		for j, alias := range e.Aliases {
			e.NormalizedAliases[j] = normalizer.Normalize(alias, false)
		}

		if activeListCodes == nil {
			view.activeListCodes[e.ListCode] = true
		} else if !activeListCodes[e.ListCode] {
			continue
		}
		view.listCodesPresent[e.ListCode] = true

		entryCopy := e
		view.entries = append(view.entries, &entryCopy)
	}

	return view, nil
}

// HasEntriesForListCode reports whether at least one entry in the view
// carries the given list code. Used to detect a CorpusError when a
// caller explicitly requests a list code that resolves to zero entries
// (spec.md §7).
func (v *CorpusView) HasEntriesForListCode(code string) bool {
	return v.listCodesPresent[code]
}

// Entries returns the view's normalized entries. Callers must not mutate
// the returned slice or its elements.
func (v *CorpusView) Entries() []*CorpusEntry {
	return v.entries
}

// ActiveListCodes reports which list codes this view considers current.
func (v *CorpusView) ActiveListCodes() map[string]bool {
	return v.activeListCodes
}

// LoadWarnings returns the CorpusError downgrades recorded while
// constructing the view.
func (v *CorpusView) LoadWarnings() []Warning {
	return v.loadWarnings
}
