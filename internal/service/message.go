package service

import (
	"context"
	"fmt"
	"strings"

	"classbot.app/tutor/internal/model"
	"classbot.app/tutor/internal/store"
	"classbot.app/tutor/internal/tutor"
)

const (
	DefaultTranscriptLimit = 50
	maxTranscriptLimit     = 500
)

// MessageService exposes the raw transcript of a thread.
type MessageService interface {
	List(ctx context.Context, session *model.Session, threadID int64, limit int) ([]model.Message, error)
	Append(ctx context.Context, session *model.Session, threadID int64, role model.Role, content string) (*model.Message, error)
}

type messageService struct {
	threads      ThreadService
	messageStore store.MessageStore
	txRunner     TxRunner
}

func NewMessageService(threads ThreadService, messageStore store.MessageStore, txRunner TxRunner) MessageService {
	return &messageService{
		threads:      threads,
		messageStore: messageStore,
		txRunner:     txRunner,
	}
}

func (s *messageService) List(ctx context.Context, session *model.Session, threadID int64, limit int) ([]model.Message, error) {
	thread, err := s.threads.ResolveOwned(ctx, session, threadID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultTranscriptLimit
	}
	limit = min(limit, maxTranscriptLimit)

	messages, err := s.messageStore.ListAscending(ctx, thread.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list messages: %w", tutor.ErrStoreUnavailable, err)
	}
	return messages, nil
}

func (s *messageService) Append(ctx context.Context, session *model.Session, threadID int64, role model.Role, content string) (*model.Message, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", tutor.ErrValidation, role)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", tutor.ErrValidation)
	}

	thread, err := s.threads.ResolveOwned(ctx, session, threadID)
	if err != nil {
		return nil, err
	}

	msg, err := appendMessage(ctx, s.txRunner, thread.ID, role, content)
	if err != nil {
		return nil, fmt.Errorf("%w: append message: %w", tutor.ErrStoreUnavailable, err)
	}
	return msg, nil
}
