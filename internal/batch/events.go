package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// DiffSummary is the outcome of a daily-diff run: every reference ID
// screened, bucketed against its prior combined score (spec.md §4.6).
type DiffSummary struct {
	RunID            string   `json:"run_id"`
	TotalScreened    int      `json:"total_screened"`
	NewMatches       []string `json:"new_matches"`
	ClearedMatches   []string `json:"cleared_matches"`
	UnchangedMatches []string `json:"unchanged_matches"`
}

// EventPublisher publishes a DiffSummary to NATS JetStream once a batch
// run completes. Adapted from the teacher's bus.Producer.publish:
// JSON-marshal the payload, attach headers, publish with a bounded
// context timeout. The DLQ/isReprocessable half of the teacher's
// producer has no batch-completion analogue and was not ported.
type EventPublisher struct {
	js      nats.JetStreamContext
	logger  *zap.Logger
	metrics Metrics
}

// NewEventPublisher wraps an established JetStream context. nc may be
// nil in tests/demo mode; PublishBatchCompleted then becomes a no-op
// that still logs, so callers don't need a live NATS connection to
// exercise the rest of the batch pipeline.
func NewEventPublisher(nc *nats.Conn, logger *zap.Logger, metrics Metrics) (*EventPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if nc == nil {
		return &EventPublisher{logger: logger, metrics: metrics}, nil
	}
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("batch: jetstream context: %w", err)
	}
	return &EventPublisher{js: js, logger: logger, metrics: metrics}, nil
}

// PublishBatchCompleted publishes summary to subject (typically
// EngineConfig.NATS.Subject, "screening.batch.completed").
func (p *EventPublisher) PublishBatchCompleted(ctx context.Context, subject string, summary DiffSummary) error {
	if p.js == nil {
		p.logger.Debug("nats disabled, skipping batch-completion publish", zap.String("subject", subject), zap.String("run_id", summary.RunID))
		return nil
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		p.observe(subject, err)
		return fmt.Errorf("batch: encode diff summary: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	msg := &nats.Msg{
		Subject: subject,
		Data:    payload,
		Header: nats.Header{
			"Nats-Msg-Id": []string{summary.RunID},
			"Timestamp":   []string{time.Now().UTC().Format(time.RFC3339)},
		},
	}

	_, err = p.js.PublishMsg(msg, nats.Context(ctx))
	p.observe(subject, err)
	if err != nil {
		return fmt.Errorf("batch: publish %s: %w", subject, err)
	}

	p.logger.Info("batch completion published", zap.String("subject", subject), zap.String("run_id", summary.RunID), zap.Int("total_screened", summary.TotalScreened))
	return nil
}

func (p *EventPublisher) observe(subject string, err error) {
	if p.metrics == nil {
		return
	}
	p.metrics.ObserveNATSPublish(subject, err)
}
