package worker

import (
	"context"

	"classbot.app/tutor/internal/queue"
	"classbot.app/tutor/internal/tutor"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// Compactor abstracts tutor.Compactor for testability.
type Compactor interface {
	Compact(ctx context.Context, threadID int64) (tutor.CompactResult, error)
}
