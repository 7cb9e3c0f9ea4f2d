package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"classbot.app/tutor/common/id"
	"classbot.app/tutor/internal/model"
	"classbot.app/tutor/internal/store"
	"classbot.app/tutor/internal/tutor"
)

const (
	maxTitleLength   = 80
	maxThreadsListed = 100
)

type ThreadService interface {
	Create(ctx context.Context, session *model.Session, title string) (*model.Thread, error)
	ListOwn(ctx context.Context, session *model.Session) ([]model.Thread, error)
	// ResolveOwned returns the thread if session's student owns it, ErrNotFound
	// if it does not exist and ErrAuthorization otherwise.
	ResolveOwned(ctx context.Context, session *model.Session, threadID int64) (*model.Thread, error)
}

type threadService struct {
	threadStore store.ThreadStore
}

func NewThreadService(threadStore store.ThreadStore) ThreadService {
	return &threadService{threadStore: threadStore}
}

func (s *threadService) Create(ctx context.Context, session *model.Session, title string) (*model.Thread, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = model.DefaultThreadTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, fmt.Errorf("%w: title longer than %d characters", tutor.ErrValidation, maxTitleLength)
	}

	thread := &model.Thread{
		ID:       id.New(),
		Class:    session.Class,
		Nickname: session.Nickname,
		Title:    title,
	}
	if err := s.threadStore.Create(ctx, thread); err != nil {
		return nil, fmt.Errorf("creating thread: %w", err)
	}
	return thread, nil
}

func (s *threadService) ListOwn(ctx context.Context, session *model.Session) ([]model.Thread, error) {
	threads, err := s.threadStore.ListByOwner(ctx, session.Class, session.Nickname, maxThreadsListed)
	if err != nil {
		return nil, fmt.Errorf("listing threads: %w", err)
	}
	return threads, nil
}

func (s *threadService) ResolveOwned(ctx context.Context, session *model.Session, threadID int64) (*model.Thread, error) {
	if threadID <= 0 {
		return nil, fmt.Errorf("%w: threadId is required", tutor.ErrValidation)
	}
	if session == nil {
		return nil, tutor.ErrAuthorization
	}

	thread, err := s.threadStore.GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, tutor.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get thread: %w", tutor.ErrStoreUnavailable, err)
	}
	if !thread.OwnedBy(*session) {
		return nil, tutor.ErrAuthorization
	}
	return thread, nil
}
