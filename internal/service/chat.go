package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"classbot.app/tutor/common/logger"
	"classbot.app/tutor/internal/metrics"
	"classbot.app/tutor/internal/model"
	"classbot.app/tutor/internal/queue"
	"classbot.app/tutor/internal/tutor"
)

const maxContextWindow = 100

// ContextAssembler is the read side of the context core.
type ContextAssembler interface {
	Assemble(ctx context.Context, threadID int64, n int, newUserText string) (*tutor.Prompt, error)
	Window(ctx context.Context, threadID int64, n int) (*model.Summary, []model.Message, error)
}

type Compactor interface {
	Compact(ctx context.Context, threadID int64) (tutor.CompactResult, error)
}

// TaskEnqueuer is satisfied by queue.Producer.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, task queue.Task) error
}

type ChatConfig struct {
	ContextLimit     int
	Temperature      float64
	MaxMessageLength int
}

// ChatReply is the assistant side of one turn. Failed replies carry the
// user-visible error text in Content. PersistErr is set when the reply could
// not be stored; the reply is still returned.
type ChatReply struct {
	Content    string
	Failed     bool
	Message    *model.Message
	PersistErr error
}

type ContextView struct {
	Summary       string
	HighWaterMark int64
	Recent        []model.Message
}

type ChatService interface {
	Send(ctx context.Context, session *model.Session, threadID int64, text string) (*ChatReply, error)
	Context(ctx context.Context, session *model.Session, threadID int64, n int) (*ContextView, error)
	Summarize(ctx context.Context, session *model.Session, threadID int64) (tutor.CompactResult, error)
}

type chatService struct {
	threads   ThreadService
	assembler ContextAssembler
	gateway   tutor.Gateway
	compactor Compactor
	enqueuer  TaskEnqueuer
	txRunner  TxRunner
	cfg       ChatConfig
}

func NewChatService(
	threads ThreadService,
	assembler ContextAssembler,
	gateway tutor.Gateway,
	compactor Compactor,
	enqueuer TaskEnqueuer,
	txRunner TxRunner,
	cfg ChatConfig,
) ChatService {
	return &chatService{
		threads:   threads,
		assembler: assembler,
		gateway:   gateway,
		compactor: compactor,
		enqueuer:  enqueuer,
		txRunner:  txRunner,
		cfg:       cfg,
	}
}

// Send runs one chat turn. The prompt is assembled before the user message is
// stored so the new question is not repeated inside the history block.
func (s *chatService) Send(ctx context.Context, session *model.Session, threadID int64, text string) (*ChatReply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message is required", tutor.ErrValidation)
	}
	if s.cfg.MaxMessageLength > 0 && utf8.RuneCountInString(text) > s.cfg.MaxMessageLength {
		return nil, fmt.Errorf("%w: message longer than %d characters", tutor.ErrValidation, s.cfg.MaxMessageLength)
	}

	thread, err := s.threads.ResolveOwned(ctx, session, threadID)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		ThreadID:  logger.Ptr(thread.ID),
		Component: "service.chat",
	})
	sc := logger.StartSpan(ctx, "chat.turn")
	defer sc.End()
	ctx = sc.Context()

	prompt, err := s.assembler.Assemble(ctx, thread.ID, s.cfg.ContextLimit, text)
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("assembling prompt: %w", err)
	}

	if _, err := appendMessage(ctx, s.txRunner, thread.ID, model.RoleUser, text); err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("%w: append user message: %w", tutor.ErrStoreUnavailable, err)
	}

	reply := &ChatReply{}
	content, err := s.gateway.Complete(ctx, prompt.Request(s.cfg.Temperature))
	if err != nil {
		reply.Failed = true
		reply.Content = tutor.FailedReplyPrefix + failureDetail(err)
		slog.WarnContext(ctx, "chat completion failed, recording error reply", "error", err)
	} else {
		reply.Content = content
	}

	msg, err := appendMessage(ctx, s.txRunner, thread.ID, model.RoleAssistant, reply.Content)
	if err != nil {
		reply.PersistErr = fmt.Errorf("%w: append assistant message: %w", tutor.ErrStoreUnavailable, err)
		sc.RecordError(reply.PersistErr)
		slog.ErrorContext(ctx, "assistant reply not persisted", "error", err)
	} else {
		reply.Message = msg
	}

	switch {
	case reply.Failed:
		metrics.ChatTurns.WithLabelValues("completion_failed").Inc()
	case reply.PersistErr != nil:
		metrics.ChatTurns.WithLabelValues("persist_failed").Inc()
	default:
		metrics.ChatTurns.WithLabelValues("ok").Inc()
	}

	s.enqueueCompaction(ctx, thread.ID)

	slog.InfoContext(ctx, "chat turn completed",
		"failed", reply.Failed,
		"persisted", reply.PersistErr == nil,
		"prior_turns", len(prompt.PriorTurns),
		"estimated_tokens", prompt.EstimatedTokens,
		"reply_preview", logger.Truncate(reply.Content, 120))

	return reply, nil
}

func (s *chatService) enqueueCompaction(ctx context.Context, threadID int64) {
	if s.enqueuer == nil {
		return
	}
	err := s.enqueuer.Enqueue(ctx, queue.Task{
		TaskType: queue.TaskTypeCompactThread,
		ThreadID: threadID,
		Trigger:  queue.TriggerChatTurn,
		TraceID:  logger.TraceIDFromContext(ctx),
	})
	if err != nil {
		// The next turn enqueues again; compaction is only delayed.
		slog.WarnContext(ctx, "failed to enqueue compaction", "error", err)
	}
}

func (s *chatService) Context(ctx context.Context, session *model.Session, threadID int64, n int) (*ContextView, error) {
	thread, err := s.threads.ResolveOwned(ctx, session, threadID)
	if err != nil {
		return nil, err
	}

	if n <= 0 {
		n = s.cfg.ContextLimit
	}
	n = min(n, maxContextWindow)

	summary, recent, err := s.assembler.Window(ctx, thread.ID, n)
	if err != nil {
		return nil, err
	}
	return &ContextView{
		Summary:       summary.Text,
		HighWaterMark: summary.HighWaterMark,
		Recent:        recent,
	}, nil
}

func (s *chatService) Summarize(ctx context.Context, session *model.Session, threadID int64) (tutor.CompactResult, error) {
	thread, err := s.threads.ResolveOwned(ctx, session, threadID)
	if err != nil {
		return tutor.CompactResult{}, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		ThreadID: logger.Ptr(thread.ID),
	})
	return s.compactor.Compact(ctx, thread.ID)
}

func failureDetail(err error) string {
	var failed *tutor.CompletionFailedError
	if errors.As(err, &failed) && failed.Detail != "" {
		return failed.Detail
	}
	return err.Error()
}
