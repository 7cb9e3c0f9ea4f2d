package store

import (
	"context"
	"errors"

	"classbot.app/tutor/core/db/sqlc"
	"classbot.app/tutor/internal/model"
	"github.com/jackc/pgx/v5"
)

type threadStore struct {
	queries *sqlc.Queries
}

func newThreadStore(queries *sqlc.Queries) ThreadStore {
	return &threadStore{queries: queries}
}

func (s *threadStore) Create(ctx context.Context, thread *model.Thread) error {
	row, err := s.queries.CreateThread(ctx, sqlc.CreateThreadParams{
		ID:       thread.ID,
		Class:    thread.Class,
		Nickname: thread.Nickname,
		Title:    thread.Title,
	})
	if err != nil {
		return err
	}
	*thread = *toThreadModel(row)
	return nil
}

func (s *threadStore) GetByID(ctx context.Context, id int64) (*model.Thread, error) {
	row, err := s.queries.GetThread(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toThreadModel(row), nil
}

func (s *threadStore) ListByOwner(ctx context.Context, class, nickname string, limit int) ([]model.Thread, error) {
	rows, err := s.queries.ListThreadsByOwner(ctx, sqlc.ListThreadsByOwnerParams{
		Class:    class,
		Nickname: nickname,
		Limit:    clampLimit(limit),
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.Thread, len(rows))
	for i, row := range rows {
		result[i] = *toThreadModel(row)
	}
	return result, nil
}

func (s *threadStore) Touch(ctx context.Context, id int64) error {
	return s.queries.TouchThread(ctx, id)
}

func toThreadModel(row sqlc.Thread) *model.Thread {
	return &model.Thread{
		ID:        row.ID,
		Class:     row.Class,
		Nickname:  row.Nickname,
		Title:     row.Title,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
