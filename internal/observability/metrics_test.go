package observability

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

var testMetricsSeq int

// newTestMetrics uses a fresh namespace per call: NewMetrics registers on
// the default Prometheus registry, which rejects a second registration of
// the same metric names.
func newTestMetrics() *Metrics {
	testMetricsSeq++
	return NewMetrics(fmt.Sprintf("screening_test_%d", testMetricsSeq), "engine")
}

func TestObserveScreenIncrementsCounterAndHistogram(t *testing.T) {
	m := newTestMetrics()
	m.ObserveScreen("high", 0.042)

	assert.Equal(t, 1, testutil.CollectAndCount(m.ScreeningsTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ScreeningsTotal.WithLabelValues("high")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ScreeningDuration))
}

func TestObserveBatchQueryLabelsOutcome(t *testing.T) {
	m := newTestMetrics()
	m.ObserveBatchQuery(true)
	m.ObserveBatchQuery(false)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.BatchQueriesTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BatchQueriesTotal.WithLabelValues("failed")))
}

func TestObservePriorStoreOpLabelsStatus(t *testing.T) {
	m := newTestMetrics()
	m.ObservePriorStoreOp("get", nil)
	m.ObservePriorStoreOp("get", assertError())

	assert.Equal(t, float64(1), testutil.ToFloat64(m.PriorStoreOpsTotal.WithLabelValues("get", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PriorStoreOpsTotal.WithLabelValues("get", "error")))
}

func TestSetCircuitBreakerState(t *testing.T) {
	m := newTestMetrics()
	m.SetCircuitBreakerState("prior_scores", 2)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CircuitBreakerState.WithLabelValues("prior_scores")))
}

func TestObserveBatchDuration(t *testing.T) {
	m := newTestMetrics()
	m.ObserveBatchDuration(250 * time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(m.BatchDuration))
}

func assertError() error {
	return &testError{}
}

type testError struct{}

func (e *testError) Error() string { return "boom" }
