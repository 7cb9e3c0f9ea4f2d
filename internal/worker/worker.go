package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"classbot.app/tutor/common/logger"
	"classbot.app/tutor/internal/metrics"
	"classbot.app/tutor/internal/queue"
	"classbot.app/tutor/internal/tutor"
)

// conflictRetries bounds inline re-runs after losing a summary race.
const conflictRetries = 2

type Config struct {
	MaxAttempts int
}

// Worker drains compaction tasks from the stream. Compaction is idempotent,
// so redelivery and duplicate tasks for one thread are harmless.
type Worker struct {
	consumer  Consumer
	compactor Compactor
	cfg       Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, compactor Compactor, cfg Config) *Worker {
	return &Worker{
		consumer:  consumer,
		compactor: compactor,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "tutor.worker",
	})
	slog.InfoContext(ctx, "worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				// Brief backoff on error
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		w.HandleMessage(ctx, msg)
	}

	return nil
}

// HandleMessage processes msg and routes a failure to requeue or the DLQ.
func (w *Worker) HandleMessage(ctx context.Context, msg queue.Message) {
	if err := w.processMessageSafe(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "message processing failed",
			"error", err,
			"message_id", msg.ID,
			"thread_id", msg.Task.ThreadID)
		w.handleFailedMessage(ctx, msg, err)
	}
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing",
				"panic", r,
				"message_id", msg.ID,
				"thread_id", msg.Task.ThreadID)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.ProcessMessage(ctx, msg)
}

// ProcessMessage runs one compaction and acks on any settled outcome.
// A returned error means the message is still unacked.
// Exported so it can be reused by the reclaimer.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	msgID := msg.ID
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		ThreadID: logger.Ptr(msg.Task.ThreadID),
		TaskID:   &msgID,
	})
	sc := logger.StartSpanFromTraceID(ctx, msg.Task.TraceID, "worker.compact_thread")
	defer sc.End()
	ctx = sc.Context()

	slog.InfoContext(ctx, "processing compaction task",
		"trigger", msg.Task.Trigger,
		"attempt", msg.Task.Attempt)

	start := time.Now()
	result, err := w.compact(ctx, msg.Task.ThreadID)
	switch {
	case err == nil:
		if result.Warning != nil {
			slog.WarnContext(ctx, "compaction finished with warning", "warning", result.Warning.Error())
		}
		slog.InfoContext(ctx, "compaction task done",
			"skipped", result.Skipped,
			"reason", result.Reason,
			"high_water_mark", result.HighWaterMark,
			"pruned", result.Pruned,
			"duration_ms", time.Since(start).Milliseconds())
	case errors.Is(err, tutor.ErrCompactionConflict):
		slog.WarnContext(ctx, "compaction kept losing the summary race, leaving it to the winner")
	case errors.Is(err, tutor.ErrNotFound):
		slog.WarnContext(ctx, "compaction task for unknown thread dropped")
	default:
		sc.RecordError(err)
		return err
	}

	metrics.QueueTasks.WithLabelValues("done").Inc()
	if err := w.consumer.Ack(ctx, msg); err != nil {
		// Log but don't fail - message will be reclaimed but that's safe
		slog.WarnContext(ctx, "failed to ACK message",
			"error", err,
			"message_id", msg.ID)
	}
	return nil
}

func (w *Worker) compact(ctx context.Context, threadID int64) (tutor.CompactResult, error) {
	var result tutor.CompactResult
	var err error
	for i := 0; i <= conflictRetries; i++ {
		result, err = w.compactor.Compact(ctx, threadID)
		if !errors.Is(err, tutor.ErrCompactionConflict) {
			return result, err
		}
	}
	return result, err
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if msg.Task.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "max attempts reached, sending to DLQ",
			"message_id", msg.ID,
			"thread_id", msg.Task.ThreadID,
			"attempts", msg.Task.Attempt)
		metrics.QueueTasks.WithLabelValues("dlq").Inc()
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		return
	}

	slog.WarnContext(ctx, "requeuing failed message",
		"message_id", msg.ID,
		"thread_id", msg.Task.ThreadID,
		"attempt", msg.Task.Attempt)
	metrics.QueueTasks.WithLabelValues("requeued").Inc()
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
	}
}
