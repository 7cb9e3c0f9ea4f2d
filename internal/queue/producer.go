package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// streamMaxLen caps the stream; compaction tasks are idempotent so trimming
// very old entries loses nothing a later task would not redo.
const streamMaxLen = 10_000

type Producer interface {
	Enqueue(ctx context.Context, task Task) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
}

func NewRedisProducer(client *redis.Client, stream string) Producer {
	return &redisProducer{
		client: client,
		stream: stream,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, task Task) error {
	if task.TaskType == "" {
		task.TaskType = TaskTypeCompactThread
	}
	if task.Attempt <= 0 {
		task.Attempt = 1
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: TaskValues(task),
	}).Err(); err != nil {
		return fmt.Errorf("enqueue task: %w", err)
	}

	slog.DebugContext(ctx, "enqueued compaction task",
		"thread_id", task.ThreadID,
		"trigger", task.Trigger,
		"attempt", task.Attempt)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

// TaskValues is the stream entry layout shared by the producer, requeue and DLQ.
func TaskValues(task Task) map[string]any {
	values := map[string]any{
		"task_type": string(task.TaskType),
		"thread_id": task.ThreadID,
		"attempt":   task.Attempt,
	}
	if task.Trigger != "" {
		values["trigger"] = string(task.Trigger)
	}
	if task.TraceID != "" {
		values["trace_id"] = task.TraceID
	}
	return values
}
