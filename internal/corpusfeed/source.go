// Package corpusfeed defines the boundary between the screening core and
// wherever sanctions/watchlist data actually lives. Parsing a specific
// list format (OFAC XML, EU consolidated CSV, UN XML) is explicitly out
// of scope; this package only describes the interface the core consumes
// and a small in-memory implementation for tests and the cmd/screen demo,
// mirroring the teacher's SanctionsScreener.refreshCache load-then-cache
// shape without any database or file-format parsing.
package corpusfeed

import (
	"context"
	"fmt"
	"sync"

	"github.com/rohitsadhu1947/arabiasanctions/screening/internal/screeningtypes"
)

// Source loads the current set of corpus entries and the list codes
// considered active. The core calls Load once at startup (and again on
// whatever refresh cadence the caller chooses) to build a new
// screeningtypes.CorpusView; Source itself holds no normalized state.
type Source interface {
	Load(ctx context.Context) (entries []screeningtypes.CorpusEntry, activeListCodes map[string]bool, err error)
}

// StaticSource is a Source backed by an in-memory entry set, supplied
// whole at construction time and swapped wholesale only by Replace. Load
// is safe to call concurrently with Replace and returns whichever
// snapshot is current.
type StaticSource struct {
	mu              sync.RWMutex
	entries         []screeningtypes.CorpusEntry
	activeListCodes map[string]bool
}

// NewStaticSource constructs a StaticSource from a fixed entry set. A
// nil activeListCodes means every list present in entries is active.
func NewStaticSource(entries []screeningtypes.CorpusEntry, activeListCodes map[string]bool) *StaticSource {
	return &StaticSource{entries: entries, activeListCodes: activeListCodes}
}

// Load returns the source's fixed snapshot. It never returns an error;
// the signature matches Source so callers can swap in a real,
// fallible implementation without changing call sites.
func (s *StaticSource) Load(ctx context.Context) ([]screeningtypes.CorpusEntry, map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]screeningtypes.CorpusEntry, len(s.entries))
	copy(entries, s.entries)
	return entries, s.activeListCodes, nil
}

// Replace swaps the source's snapshot wholesale, e.g. after an external
// refresh job has fetched and parsed a new list. Concurrent Load calls
// either see the old or the new snapshot in full, never a mix.
func (s *StaticSource) Replace(entries []screeningtypes.CorpusEntry, activeListCodes map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = entries
	s.activeListCodes = activeListCodes
}

// LoadView is a convenience wrapper: load from src, then build a
// screeningtypes.CorpusView from the result in one call.
func LoadView(ctx context.Context, src Source) (*screeningtypes.CorpusView, error) {
	entries, activeListCodes, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("corpusfeed: load: %w", err)
	}
	return screeningtypes.NewCorpusView(entries, activeListCodes)
}
