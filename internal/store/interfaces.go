package store

import (
	"context"
	"errors"

	"classbot.app/tutor/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a compare-and-swap write lost to a concurrent writer
var ErrConflict = errors.New("conflict")

// MessageStore is the append-only live log of a thread.
type MessageStore interface {
	Append(ctx context.Context, threadID int64, role model.Role, content string) (*model.Message, error)
	// FetchRecent returns up to limit messages ordered newest-first.
	FetchRecent(ctx context.Context, threadID int64, limit int) ([]model.Message, error)
	// FetchOlderThan returns every message with seq < cutoff ordered oldest-first.
	FetchOlderThan(ctx context.Context, threadID int64, cutoff int64) ([]model.Message, error)
	// ListAscending returns up to limit messages ordered oldest-first.
	ListAscending(ctx context.Context, threadID int64, limit int) ([]model.Message, error)
	// DeleteUpTo removes every message with seq <= seq and reports how many went.
	DeleteUpTo(ctx context.Context, threadID int64, seq int64) (int64, error)
	Count(ctx context.Context, threadID int64) (int64, error)
}

// SummaryStore holds one rolling summary per thread.
type SummaryStore interface {
	// Get returns ErrNotFound when the thread has never been compacted.
	Get(ctx context.Context, threadID int64) (*model.Summary, error)
	// Upsert replaces the summary only if the stored high-water mark still equals
	// expectedMark (0 for a thread without a summary). Returns ErrConflict otherwise.
	Upsert(ctx context.Context, threadID int64, text string, highWaterMark, expectedMark int64) error
}

type ThreadStore interface {
	Create(ctx context.Context, thread *model.Thread) error
	GetByID(ctx context.Context, id int64) (*model.Thread, error)
	ListByOwner(ctx context.Context, class, nickname string, limit int) ([]model.Thread, error)
	Touch(ctx context.Context, id int64) error
}

type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	// GetValid returns ErrNotFound for unknown or expired sessions.
	GetValid(ctx context.Context, id int64) (*model.Session, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
