package service_test

import (
	"context"

	"classbot.app/tutor/internal/model"
	"classbot.app/tutor/internal/queue"
	"classbot.app/tutor/internal/service"
	"classbot.app/tutor/internal/store"
	"classbot.app/tutor/internal/tutor"
)

type mockSessionStore struct {
	createFn        func(ctx context.Context, session *model.Session) error
	getValidFn      func(ctx context.Context, id int64) (*model.Session, error)
	deleteExpiredFn func(ctx context.Context) (int64, error)
	createCalls     int
}

func (m *mockSessionStore) Create(ctx context.Context, session *model.Session) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionStore) GetValid(ctx context.Context, id int64) (*model.Session, error) {
	if m.getValidFn != nil {
		return m.getValidFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return 0, nil
}

type mockThreadStore struct {
	createFn      func(ctx context.Context, thread *model.Thread) error
	getByIDFn     func(ctx context.Context, id int64) (*model.Thread, error)
	listByOwnerFn func(ctx context.Context, class, nickname string, limit int) ([]model.Thread, error)
	touchFn       func(ctx context.Context, id int64) error
}

func (m *mockThreadStore) Create(ctx context.Context, thread *model.Thread) error {
	if m.createFn != nil {
		return m.createFn(ctx, thread)
	}
	return nil
}

func (m *mockThreadStore) GetByID(ctx context.Context, id int64) (*model.Thread, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockThreadStore) ListByOwner(ctx context.Context, class, nickname string, limit int) ([]model.Thread, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, class, nickname, limit)
	}
	return nil, nil
}

func (m *mockThreadStore) Touch(ctx context.Context, id int64) error {
	if m.touchFn != nil {
		return m.touchFn(ctx, id)
	}
	return nil
}

type mockMessageStore struct {
	appendFn        func(ctx context.Context, threadID int64, role model.Role, content string) (*model.Message, error)
	listAscendingFn func(ctx context.Context, threadID int64, limit int) ([]model.Message, error)
	appended        []model.Message
}

func (m *mockMessageStore) Append(ctx context.Context, threadID int64, role model.Role, content string) (*model.Message, error) {
	if m.appendFn != nil {
		return m.appendFn(ctx, threadID, role, content)
	}
	msg := model.Message{Seq: int64(len(m.appended) + 1), ThreadID: threadID, Role: role, Content: content}
	m.appended = append(m.appended, msg)
	return &msg, nil
}

func (m *mockMessageStore) FetchRecent(_ context.Context, _ int64, _ int) ([]model.Message, error) {
	return nil, nil
}

func (m *mockMessageStore) FetchOlderThan(_ context.Context, _ int64, _ int64) ([]model.Message, error) {
	return nil, nil
}

func (m *mockMessageStore) ListAscending(ctx context.Context, threadID int64, limit int) ([]model.Message, error) {
	if m.listAscendingFn != nil {
		return m.listAscendingFn(ctx, threadID, limit)
	}
	return nil, nil
}

func (m *mockMessageStore) DeleteUpTo(_ context.Context, _ int64, _ int64) (int64, error) {
	return 0, nil
}

func (m *mockMessageStore) Count(_ context.Context, _ int64) (int64, error) {
	return int64(len(m.appended)), nil
}

type mockStoreProvider struct {
	messages *mockMessageStore
	threads  *mockThreadStore
}

func (m *mockStoreProvider) Messages() store.MessageStore {
	return m.messages
}

func (m *mockStoreProvider) Threads() store.ThreadStore {
	return m.threads
}

type mockTxRunner struct {
	stores *mockStoreProvider
	calls  int
}

func (m *mockTxRunner) WithTx(_ context.Context, fn func(stores service.StoreProvider) error) error {
	m.calls++
	return fn(m.stores)
}

type mockThreadService struct {
	resolveOwnedFn func(ctx context.Context, session *model.Session, threadID int64) (*model.Thread, error)
}

func (m *mockThreadService) Create(_ context.Context, session *model.Session, title string) (*model.Thread, error) {
	return &model.Thread{ID: 1, Class: session.Class, Nickname: session.Nickname, Title: title}, nil
}

func (m *mockThreadService) ListOwn(_ context.Context, _ *model.Session) ([]model.Thread, error) {
	return nil, nil
}

func (m *mockThreadService) ResolveOwned(ctx context.Context, session *model.Session, threadID int64) (*model.Thread, error) {
	if m.resolveOwnedFn != nil {
		return m.resolveOwnedFn(ctx, session, threadID)
	}
	return &model.Thread{ID: threadID, Class: session.Class, Nickname: session.Nickname}, nil
}

type mockAssembler struct {
	assembleFn func(ctx context.Context, threadID int64, n int, text string) (*tutor.Prompt, error)
	windowFn   func(ctx context.Context, threadID int64, n int) (*model.Summary, []model.Message, error)
	calls      int
}

func (m *mockAssembler) Assemble(ctx context.Context, threadID int64, n int, text string) (*tutor.Prompt, error) {
	m.calls++
	if m.assembleFn != nil {
		return m.assembleFn(ctx, threadID, n, text)
	}
	return &tutor.Prompt{SystemPrompt: tutor.TutorSystemPrompt, NewTurn: "새 질문: " + text}, nil
}

func (m *mockAssembler) Window(ctx context.Context, threadID int64, n int) (*model.Summary, []model.Message, error) {
	if m.windowFn != nil {
		return m.windowFn(ctx, threadID, n)
	}
	return &model.Summary{ThreadID: threadID}, nil, nil
}

type mockGateway struct {
	completeFn func(ctx context.Context, req tutor.CompletionRequest) (string, error)
	requests   []tutor.CompletionRequest
}

func (m *mockGateway) Complete(ctx context.Context, req tutor.CompletionRequest) (string, error) {
	m.requests = append(m.requests, req)
	if m.completeFn != nil {
		return m.completeFn(ctx, req)
	}
	return "setup.gs / code.gs / index.html", nil
}

type mockCompactor struct {
	compactFn func(ctx context.Context, threadID int64) (tutor.CompactResult, error)
}

func (m *mockCompactor) Compact(ctx context.Context, threadID int64) (tutor.CompactResult, error) {
	if m.compactFn != nil {
		return m.compactFn(ctx, threadID)
	}
	return tutor.CompactResult{Skipped: true, Reason: tutor.ReasonBelowThreshold}, nil
}

type mockEnqueuer struct {
	enqueueFn func(ctx context.Context, task queue.Task) error
	tasks     []queue.Task
}

func (m *mockEnqueuer) Enqueue(ctx context.Context, task queue.Task) error {
	m.tasks = append(m.tasks, task)
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, task)
	}
	return nil
}
