// Package batch implements the re-screening orchestrator (spec.md §4.6):
// bounded worker-pool fan-out over a CorpusView, and a daily-diff against
// a prior-scores baseline.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rohitsadhu1947/arabiasanctions/screening/internal/screeningtypes"
)

// Screener is the subset of matcher.Matcher the batch engine drives.
// Defined here (not imported from internal/matcher) to keep this
// package's dependency surface narrow and testable with a fake.
type Screener interface {
	Screen(ctx context.Context, query screeningtypes.ScreeningQuery, view *screeningtypes.CorpusView, referenceID string, threshold *float64, listCodes []string) (*screeningtypes.ScreeningResponse, error)
}

// Metrics is the instrumentation surface the batch package emits against;
// *observability.Metrics satisfies it by duck typing, same pattern as
// matcher.Metrics. nil-safe throughout.
type Metrics interface {
	ObserveBatchQuery(ok bool)
	ObserveBatchDuration(d time.Duration)
	ObservePriorStoreOp(operation string, err error)
	SetCircuitBreakerState(name string, state int)
	ObserveNATSPublish(subject string, err error)
}

// BulkQuery pairs a caller-supplied reference ID with the query to screen.
type BulkQuery struct {
	ReferenceID string
	Query       screeningtypes.ScreeningQuery
}

// BulkResult is one BulkQuery's outcome. Exactly one of Response/Err is
// set; a panic recovered mid-screen is converted into Err rather than
// crashing the pool (spec.md §5).
type BulkResult struct {
	ReferenceID string
	Response    *screeningtypes.ScreeningResponse
	Err         error
}

// Engine runs ScreenBulk/DailyDiff over a Screener.
type Engine struct {
	screener       Screener
	priorScores    PriorScoreStore
	workerPoolSize int
	logger         *zap.Logger
	metrics        Metrics
}

// New constructs an Engine. workerPoolSize <= 0 defaults to
// runtime.NumCPU() (spec.md §5 Concurrency, EngineConfig.Batch.WorkerPoolSize).
// priorScores may be nil; DailyDiff then treats every reference ID as
// having no prior score (everything above threshold reports as new).
func New(screener Screener, priorScores PriorScoreStore, workerPoolSize int, logger *zap.Logger, metrics Metrics) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{screener: screener, priorScores: priorScores, workerPoolSize: workerPoolSize, logger: logger, metrics: metrics}
}

// ScreenBulk screens every query against view using a fixed-size worker
// pool, preserving input order in the returned slice. A per-query
// failure (panic or error) is isolated to that query's BulkResult; it
// never aborts the batch.
func (e *Engine) ScreenBulk(ctx context.Context, queries []BulkQuery, view *screeningtypes.CorpusView) []BulkResult {
	start := time.Now()
	results := make([]BulkResult, len(queries))
	if len(queries) == 0 {
		return results
	}

	poolSize := e.workerPoolSize
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
	}
	if poolSize > len(queries) {
		poolSize = len(queries)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < poolSize; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.screenOne(ctx, queries[i], view)
			}
		}()
	}

dispatch:
	for i := range queries {
		if ctx.Err() == nil {
			select {
			case <-ctx.Done():
			case jobs <- i:
				continue
			}
		}
		for j := i; j < len(queries); j++ {
			results[j] = BulkResult{ReferenceID: queries[j].ReferenceID, Err: ctx.Err()}
		}
		break dispatch
	}
	close(jobs)
	wg.Wait()

	if e.metrics != nil {
		e.metrics.ObserveBatchDuration(time.Since(start))
	}
	e.logger.Info("batch screen completed", zap.Int("count", len(queries)), zap.Duration("elapsed", time.Since(start)))

	return results
}

// screenOne screens a single query, recovering from a panic and
// converting it into a BulkResult error rather than crashing the worker.
func (e *Engine) screenOne(ctx context.Context, bq BulkQuery, view *screeningtypes.CorpusView) (result BulkResult) {
	result.ReferenceID = bq.ReferenceID
	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("batch: panic screening %s: %v", bq.ReferenceID, r)
		}
		if e.metrics != nil {
			e.metrics.ObserveBatchQuery(result.Err == nil)
		}
	}()

	resp, err := e.screener.Screen(ctx, bq.Query, view, bq.ReferenceID, nil, nil)
	if err != nil {
		result.Err = err
		return result
	}
	result.Response = resp
	return result
}

// DailyDiff classifies each result's highest combined score against its
// prior run's baseline in priorScores, then overwrites the baseline with
// today's score (spec.md §4.6). A result with an Err is skipped — it
// contributes to neither bucket, since there is no score to compare.
// A reference ID absent from priorScores (including when the store is
// nil or its circuit is open) is treated as having no prior match.
func (e *Engine) DailyDiff(ctx context.Context, runID string, results []BulkResult) (DiffSummary, error) {
	summary := DiffSummary{RunID: runID}

	for _, result := range results {
		if result.Err != nil || result.Response == nil {
			continue
		}
		summary.TotalScreened++

		current := result.Response.HighestScore

		var prior float64
		if e.priorScores != nil {
			var err error
			prior, _, err = e.priorScores.Get(ctx, result.ReferenceID)
			if err != nil {
				e.logger.Warn("prior score lookup failed, treating as no prior match", zap.String("reference_id", result.ReferenceID), zap.Error(err))
			}
		}

		switch {
		case prior == 0 && current > 0:
			summary.NewMatches = append(summary.NewMatches, result.ReferenceID)
		case prior > 0 && current == 0:
			summary.ClearedMatches = append(summary.ClearedMatches, result.ReferenceID)
		default:
			summary.UnchangedMatches = append(summary.UnchangedMatches, result.ReferenceID)
		}

		if e.priorScores != nil {
			if err := e.priorScores.Set(ctx, result.ReferenceID, current); err != nil {
				e.logger.Warn("prior score write failed", zap.String("reference_id", result.ReferenceID), zap.Error(err))
			}
		}
	}

	return summary, nil
}
