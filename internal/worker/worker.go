package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"todolist/internal/models"
	"todolist/pkg/logger"
)

// Reader is the subset of *kafka.Reader the worker consumes from.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Invalidator drops cached payloads for a todo.
type Invalidator interface {
	InvalidateTodo(ctx context.Context, id int64)
}

// Run consumes todo change events and invalidates the matching cache keys until ctx is done.
// Scale by running more replicas (consumer group shares partitions).
func Run(ctx context.Context, reader Reader, cache Invalidator) error {
	defer reader.Close()

	logger.Info(ctx, "Kafka consumer started")
	var processed int64
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info(ctx, "Kafka consumer stopped", "processed", processed)
				return nil
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		if err := handleMessage(ctx, cache, msg.Value); err != nil {
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
			// Commit anyway to avoid poison pill blocking the partition
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
			continue
		}
		processed++
	}
}

func handleMessage(ctx context.Context, cache Invalidator, payload []byte) error {
	var ev models.TodoEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("decoding todo event: %w", err)
	}
	switch ev.Action {
	case models.EventCreated, models.EventUpdated, models.EventDeleted:
		cache.InvalidateTodo(ctx, ev.ID)
		logger.Debug(ctx, "Cache invalidated from event", "action", ev.Action, "id", ev.ID)
		return nil
	default:
		return fmt.Errorf("unknown todo event action %q", ev.Action)
	}
}
