package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohitsadhu1947/arabiasanctions/screening/internal/screeningtypes"
)

type fakeScreener struct {
	mu       sync.Mutex
	calls    int32
	scoreFor map[string]float64
	panicFor map[string]bool
	errFor   map[string]error
}

func (f *fakeScreener) Screen(ctx context.Context, query screeningtypes.ScreeningQuery, view *screeningtypes.CorpusView, referenceID string, threshold *float64, listCodes []string) (*screeningtypes.ScreeningResponse, error) {
	atomic.AddInt32(&f.calls, 1)

	if f.panicFor[referenceID] {
		panic("boom")
	}
	if err, ok := f.errFor[referenceID]; ok {
		return nil, err
	}

	score := f.scoreFor[referenceID]
	var matches []screeningtypes.MatchResult
	if score > 0 {
		matches = []screeningtypes.MatchResult{{MatchedName: query.DisplayName}}
	}
	return &screeningtypes.ScreeningResponse{
		ReferenceID:  referenceID,
		ScreenedName: query.DisplayName,
		HighestScore: score,
		Matches:      matches,
	}, nil
}

type fakePriorStore struct {
	mu     sync.Mutex
	scores map[string]float64
}

func newFakePriorStore() *fakePriorStore {
	return &fakePriorStore{scores: make(map[string]float64)}
}

func (s *fakePriorStore) Get(ctx context.Context, referenceID string) (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	score, ok := s.scores[referenceID]
	return score, ok, nil
}

func (s *fakePriorStore) Set(ctx context.Context, referenceID string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[referenceID] = score
	return nil
}

func TestScreenBulkPreservesOrder(t *testing.T) {
	screener := &fakeScreener{scoreFor: map[string]float64{"a": 0.9, "b": 0.1, "c": 0.5}}
	engine := New(screener, nil, 2, nil, nil)

	queries := []BulkQuery{
		{ReferenceID: "a", Query: screeningtypes.ScreeningQuery{DisplayName: "Alpha"}},
		{ReferenceID: "b", Query: screeningtypes.ScreeningQuery{DisplayName: "Beta"}},
		{ReferenceID: "c", Query: screeningtypes.ScreeningQuery{DisplayName: "Gamma"}},
	}

	results := engine.ScreenBulk(context.Background(), queries, nil)
	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].ReferenceID)
	assert.Equal(t, "b", results[1].ReferenceID)
	assert.Equal(t, "c", results[2].ReferenceID)
	assert.Equal(t, int32(3), screener.calls)
}

func TestScreenBulkIsolatesPanicToOneResult(t *testing.T) {
	screener := &fakeScreener{
		scoreFor: map[string]float64{"a": 0.9, "c": 0.5},
		panicFor: map[string]bool{"b": true},
	}
	engine := New(screener, nil, 4, nil, nil)

	queries := []BulkQuery{
		{ReferenceID: "a", Query: screeningtypes.ScreeningQuery{DisplayName: "Alpha"}},
		{ReferenceID: "b", Query: screeningtypes.ScreeningQuery{DisplayName: "Beta"}},
		{ReferenceID: "c", Query: screeningtypes.ScreeningQuery{DisplayName: "Gamma"}},
	}

	results := engine.ScreenBulk(context.Background(), queries, nil)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.Nil(t, results[1].Response)
}

func TestScreenBulkIsolatesErrorToOneResult(t *testing.T) {
	boom := errors.New("boom")
	screener := &fakeScreener{
		scoreFor: map[string]float64{"a": 0.9},
		errFor:   map[string]error{"b": boom},
	}
	engine := New(screener, nil, 2, nil, nil)

	queries := []BulkQuery{
		{ReferenceID: "a", Query: screeningtypes.ScreeningQuery{DisplayName: "Alpha"}},
		{ReferenceID: "b", Query: screeningtypes.ScreeningQuery{DisplayName: "Beta"}},
	}

	results := engine.ScreenBulk(context.Background(), queries, nil)
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, boom)
}

func TestScreenBulkEmptyInput(t *testing.T) {
	engine := New(&fakeScreener{}, nil, 4, nil, nil)
	results := engine.ScreenBulk(context.Background(), nil, nil)
	assert.Empty(t, results)
}

func TestScreenBulkCancelledContextStopsDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	screener := &fakeScreener{scoreFor: map[string]float64{"a": 0.9}}
	engine := New(screener, nil, 1, nil, nil)

	queries := []BulkQuery{
		{ReferenceID: "a", Query: screeningtypes.ScreeningQuery{DisplayName: "Alpha"}},
		{ReferenceID: "b", Query: screeningtypes.ScreeningQuery{DisplayName: "Beta"}},
	}

	results := engine.ScreenBulk(ctx, queries, nil)
	require.Len(t, results, 2)
	// At least the tail should be cancellation errors; the pool may have
	// already claimed index 0 before cancellation was observed.
	assert.Error(t, results[len(results)-1].Err)
}

func TestDailyDiffClassifiesNewClearedUnchanged(t *testing.T) {
	prior := newFakePriorStore()
	prior.scores["had-match"] = 0.9
	prior.scores["still-matching"] = 0.8

	engine := New(&fakeScreener{}, prior, 1, nil, nil)

	results := []BulkResult{
		{ReferenceID: "new-match", Response: &screeningtypes.ScreeningResponse{HighestScore: 0.9, Matches: []screeningtypes.MatchResult{{}}}},
		{ReferenceID: "had-match", Response: &screeningtypes.ScreeningResponse{HighestScore: 0, Matches: nil}},
		{ReferenceID: "still-matching", Response: &screeningtypes.ScreeningResponse{HighestScore: 0.85, Matches: []screeningtypes.MatchResult{{}}}},
		{ReferenceID: "never-matched", Response: &screeningtypes.ScreeningResponse{HighestScore: 0, Matches: nil}},
		{ReferenceID: "broken", Err: errors.New("boom")},
	}

	summary, err := engine.DailyDiff(context.Background(), "run-1", results)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalScreened)
	assert.ElementsMatch(t, []string{"new-match"}, summary.NewMatches)
	assert.ElementsMatch(t, []string{"had-match"}, summary.ClearedMatches)
	assert.ElementsMatch(t, []string{"still-matching", "never-matched"}, summary.UnchangedMatches)

	score, found, err := prior.Get(context.Background(), "new-match")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0.9, score)
}

func TestDailyDiffTreatsStoredZeroPriorAsNoMatch(t *testing.T) {
	prior := newFakePriorStore()
	prior.scores["ref-1"] = 0 // a prior run recorded this reference with no match

	engine := New(&fakeScreener{}, prior, 1, nil, nil)

	results := []BulkResult{
		{ReferenceID: "ref-1", Response: &screeningtypes.ScreeningResponse{HighestScore: 0.9, Matches: []screeningtypes.MatchResult{{}}}},
	}

	summary, err := engine.DailyDiff(context.Background(), "run-3", results)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ref-1"}, summary.NewMatches)
	assert.Empty(t, summary.UnchangedMatches)
}

func TestDailyDiffWithoutPriorStoreTreatsEverythingAsNew(t *testing.T) {
	engine := New(&fakeScreener{}, nil, 1, nil, nil)

	results := []BulkResult{
		{ReferenceID: "a", Response: &screeningtypes.ScreeningResponse{HighestScore: 0.9, Matches: []screeningtypes.MatchResult{{}}}},
	}

	summary, err := engine.DailyDiff(context.Background(), "run-2", results)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a"}, summary.NewMatches)
}

func TestWorkerPoolSizeClampedToQueryCount(t *testing.T) {
	screener := &fakeScreener{scoreFor: map[string]float64{"a": 0.5}}
	engine := New(screener, nil, 100, nil, nil)

	results := engine.ScreenBulk(context.Background(), []BulkQuery{
		{ReferenceID: "a", Query: screeningtypes.ScreeningQuery{DisplayName: "Alpha"}},
	}, nil)
	require.Len(t, results, 1)
}

func TestScreenBulkDefaultsWorkerPoolWhenZero(t *testing.T) {
	screener := &fakeScreener{scoreFor: map[string]float64{"a": 0.5, "b": 0.5}}
	engine := New(screener, nil, 0, nil, nil)

	results := engine.ScreenBulk(context.Background(), []BulkQuery{
		{ReferenceID: "a", Query: screeningtypes.ScreeningQuery{DisplayName: "Alpha"}},
		{ReferenceID: "b", Query: screeningtypes.ScreeningQuery{DisplayName: "Beta"}},
	}, nil)
	require.Len(t, results, 2)
}

func TestScreenBulkRunsWithinReasonableTime(t *testing.T) {
	screener := &fakeScreener{scoreFor: map[string]float64{}}
	engine := New(screener, nil, 4, nil, nil)

	queries := make([]BulkQuery, 50)
	for i := range queries {
		queries[i] = BulkQuery{ReferenceID: "ref", Query: screeningtypes.ScreeningQuery{DisplayName: "Name"}}
	}

	start := time.Now()
	results := engine.ScreenBulk(context.Background(), queries, nil)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Len(t, results, 50)
}
