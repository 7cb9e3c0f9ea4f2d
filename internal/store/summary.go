package store

import (
	"context"
	"errors"

	"classbot.app/tutor/core/db/sqlc"
	"classbot.app/tutor/internal/model"
	"github.com/jackc/pgx/v5"
)

type summaryStore struct {
	queries *sqlc.Queries
}

func newSummaryStore(queries *sqlc.Queries) SummaryStore {
	return &summaryStore{queries: queries}
}

func (s *summaryStore) Get(ctx context.Context, threadID int64) (*model.Summary, error) {
	row, err := s.queries.GetSummary(ctx, threadID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &model.Summary{
		ThreadID:      row.ThreadID,
		Text:          row.Summary,
		HighWaterMark: row.HighWaterMark,
		UpdatedAt:     row.UpdatedAt.Time,
	}, nil
}

func (s *summaryStore) Upsert(ctx context.Context, threadID int64, text string, highWaterMark, expectedMark int64) error {
	affected, err := s.queries.UpsertSummary(ctx, sqlc.UpsertSummaryParams{
		ThreadID:      threadID,
		Summary:       text,
		HighWaterMark: highWaterMark,
		ExpectedMark:  expectedMark,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrConflict
	}
	return nil
}
