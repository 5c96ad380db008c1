// Package analytics is the write-only event sink. Events are pushed to
// a Redis stream and drained into Postgres by a background worker, so a
// slow or unavailable sink never blocks a user request.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/readstash/readstash/internal/metrics"
	"github.com/readstash/readstash/internal/model"
)

const (
	// StreamKey is the Redis stream carrying analytics events.
	StreamKey = "stream:events"

	// maxStreamLen caps the stream so an idle worker cannot grow it
	// unbounded. Approximate trimming keeps XADD cheap.
	maxStreamLen = 100_000

	// publishTimeout bounds the detached async publish.
	publishTimeout = 500 * time.Millisecond
)

// Publisher pushes events onto the analytics stream.
type Publisher struct {
	client  *redis.Client
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewPublisher creates a Publisher over an existing Redis client.
func NewPublisher(client *redis.Client, logger *slog.Logger, recorder metrics.Recorder) *Publisher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Publisher{
		client:  client,
		logger:  logger.With("component", "analytics"),
		metrics: recorder,
	}
}

// Publish appends one event to the stream. Missing ID and timestamp are
// filled in here so callers only supply the payload fields.
func (p *Publisher) Publish(ctx context.Context, event *model.Event) error {
	if event.ID == "" {
		event.ID = ulid.Make().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]interface{}{"payload": payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd event: %w", err)
	}

	p.metrics.IncEventPublished("success")
	return nil
}

// PublishAsync publishes without blocking the caller. Failures are
// logged and counted, never surfaced; the sink is best effort.
func (p *Publisher) PublishAsync(event *model.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			p.metrics.IncEventPublished("dropped")
			p.logger.Warn("analytics event dropped",
				"event_type", event.EventType,
				"error", err,
			)
		}
	}()
}
