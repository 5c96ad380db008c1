package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/readstash/readstash/internal/model"
)

const (
	consumerGroup = "analytics-workers"

	defaultBatchSize = 100
	defaultBlock     = 5 * time.Second

	// retryBackoff paces the loop after a transient read or insert
	// failure so a down dependency is not hammered.
	retryBackoff = time.Second
)

// EventStore persists drained events.
type EventStore interface {
	InsertEvents(ctx context.Context, events []*model.Event) error
}

// Worker drains the analytics stream into the event store. Entries are
// acked only after a successful insert; the insert is idempotent on
// event ID, so redelivery after a crash is safe.
type Worker struct {
	client   *redis.Client
	store    EventStore
	consumer string
	logger   *slog.Logger
}

// NewWorker creates a stream worker. consumer names this instance
// within the group.
func NewWorker(client *redis.Client, store EventStore, consumer string, logger *slog.Logger) *Worker {
	return &Worker{
		client:   client,
		store:    store,
		consumer: consumer,
		logger:   logger.With("component", "analytics_worker"),
	}
}

// Run consumes the stream until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.ensureGroup(ctx); err != nil {
		return err
	}

	w.logger.Info("analytics worker started", "consumer", w.consumer)

	for {
		if err := w.drainOnce(ctx); err != nil {
			if ctx.Err() != nil {
				w.logger.Info("analytics worker stopped")
				return nil
			}
			w.logger.Warn("drain failed", "error", err)

			select {
			case <-ctx.Done():
				w.logger.Info("analytics worker stopped")
				return nil
			case <-time.After(retryBackoff):
			}
		}
	}
}

func (w *Worker) ensureGroup(ctx context.Context) error {
	err := w.client.XGroupCreateMkStream(ctx, StreamKey, consumerGroup, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group: %w", err)
	}
	return nil
}

// drainOnce reads one batch, inserts it and acks the entries.
func (w *Worker) drainOnce(ctx context.Context) error {
	streams, err := w.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    consumerGroup,
		Consumer: w.consumer,
		Streams:  []string{StreamKey, ">"},
		Count:    defaultBatchSize,
		Block:    defaultBlock,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("read stream: %w", err)
	}

	var (
		events []*model.Event
		ids    []string
	)
	for _, stream := range streams {
		for _, entry := range stream.Messages {
			event, err := decodeEntry(entry.Values)
			if err != nil {
				// Poison entries are acked away, not retried forever.
				w.logger.Warn("dropping undecodable entry", "entry_id", entry.ID, "error", err)
				ids = append(ids, entry.ID)
				continue
			}
			events = append(events, event)
			ids = append(ids, entry.ID)
		}
	}

	if len(events) > 0 {
		if err := w.store.InsertEvents(ctx, events); err != nil {
			return fmt.Errorf("insert events: %w", err)
		}
	}

	if len(ids) > 0 {
		if err := w.client.XAck(ctx, StreamKey, consumerGroup, ids...).Err(); err != nil {
			return fmt.Errorf("ack entries: %w", err)
		}
	}

	return nil
}

// decodeEntry unpacks the payload field written by the Publisher.
func decodeEntry(values map[string]interface{}) (*model.Event, error) {
	raw, ok := values["payload"]
	if !ok {
		return nil, errors.New("entry has no payload field")
	}

	payload, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("payload has unexpected type %T", raw)
	}

	var event model.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if event.ID == "" || event.EventType == "" {
		return nil, errors.New("event missing id or type")
	}

	return &event, nil
}
