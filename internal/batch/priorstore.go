package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rohitsadhu1947/arabiasanctions/screening/internal/resilience"
)

// PriorScoreStore records the highest combined score seen for a
// reference ID on its previous screening run, so DailyDiff can classify
// a result as new/cleared/unchanged (spec.md §4.6).
type PriorScoreStore interface {
	Get(ctx context.Context, referenceID string) (score float64, found bool, err error)
	Set(ctx context.Context, referenceID string, score float64) error
}

const priorScoreKeyPrefix = "priorscore:"

type priorScoreRecord struct {
	Score float64 `json:"score"`
}

// priorStoreRetryConfig retries a Get/Set once on a transient Redis
// failure before the circuit breaker's own failure count takes over;
// a permanent failure (e.g. a corrupt stored record) just burns one
// extra round trip rather than needing separate classification, since
// priorstore.go treats every error the same way once retries are spent.
var priorStoreRetryConfig = &resilience.RetryConfig{
	MaxAttempts:  1,
	InitialDelay: 20 * time.Millisecond,
	MaxDelay:     100 * time.Millisecond,
	Multiplier:   2.0,
	Jitter:       true,
}

// RedisPriorScoreStore is a PriorScoreStore backed by Redis, adapted
// from the teacher's session cache (fmt.Sprintf key + JSON marshal +
// Set/Get). Calls are retried once and wrapped in a circuit breaker so
// a blip or a down Redis degrades a batch run to "no prior score"
// rather than failing it.
type RedisPriorScoreStore struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *resilience.CircuitBreaker
	metrics Metrics
	logger  *zap.Logger
}

// NewRedisPriorScoreStore constructs a RedisPriorScoreStore. ttl <= 0
// means entries never expire. logger may be nil.
func NewRedisPriorScoreStore(client *redis.Client, ttl time.Duration, metrics Metrics, logger *zap.Logger) *RedisPriorScoreStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	breakerConfig := resilience.DefaultConfig("prior_score_store")
	breakerConfig.OnStateChange = func(name string, from, to resilience.State) {
		logger.Warn("prior score store circuit breaker state change",
			zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
	}
	breaker := resilience.NewCircuitBreaker(breakerConfig)
	return &RedisPriorScoreStore{client: client, ttl: ttl, breaker: breaker, metrics: metrics, logger: logger}
}

// Get returns the previously recorded score for referenceID. found is
// false both when the key is absent and when the circuit is open; in
// either case the caller should treat the reference as having no prior
// score rather than fail the batch.
func (s *RedisPriorScoreStore) Get(ctx context.Context, referenceID string) (float64, bool, error) {
	var record priorScoreRecord
	var found bool

	err := resilience.RetryContextWithCircuitBreaker(ctx, func(ctx context.Context) error {
		raw, err := s.client.Get(ctx, priorScoreKeyPrefix+referenceID).Result()
		if errors.Is(err, redis.Nil) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return fmt.Errorf("priorstore: decode %s: %w", referenceID, err)
		}
		found = true
		return nil
	}, priorStoreRetryConfig, s.breaker)

	s.observe("get", err)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return record.Score, found, nil
}

// Set records referenceID's latest combined score for the next run's
// comparison. A circuit-open error is swallowed: losing one day's
// baseline write is preferable to failing the whole batch.
func (s *RedisPriorScoreStore) Set(ctx context.Context, referenceID string, score float64) error {
	err := resilience.RetryContextWithCircuitBreaker(ctx, func(ctx context.Context) error {
		payload, err := json.Marshal(priorScoreRecord{Score: score})
		if err != nil {
			return fmt.Errorf("priorstore: encode %s: %w", referenceID, err)
		}
		return s.client.Set(ctx, priorScoreKeyPrefix+referenceID, payload, s.ttl).Err()
	}, priorStoreRetryConfig, s.breaker)

	s.observe("set", err)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return nil
	}
	return err
}

func (s *RedisPriorScoreStore) observe(operation string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObservePriorStoreOp(operation, err)
	s.metrics.SetCircuitBreakerState("prior_score_store", int(s.breaker.State()))
}
