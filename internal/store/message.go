package store

import (
	"context"
	"math"

	"classbot.app/tutor/core/db/sqlc"
	"classbot.app/tutor/internal/model"
)

type messageStore struct {
	queries *sqlc.Queries
}

func newMessageStore(queries *sqlc.Queries) MessageStore {
	return &messageStore{queries: queries}
}

func (s *messageStore) Append(ctx context.Context, threadID int64, role model.Role, content string) (*model.Message, error) {
	row, err := s.queries.AppendMessage(ctx, sqlc.AppendMessageParams{
		ThreadID: threadID,
		Role:     string(role),
		Content:  content,
	})
	if err != nil {
		return nil, err
	}
	return toMessageModel(row), nil
}

func (s *messageStore) FetchRecent(ctx context.Context, threadID int64, limit int) ([]model.Message, error) {
	rows, err := s.queries.ListRecentMessages(ctx, sqlc.ListRecentMessagesParams{
		ThreadID: threadID,
		Limit:    clampLimit(limit),
	})
	if err != nil {
		return nil, err
	}
	return toMessageModels(rows), nil
}

func (s *messageStore) FetchOlderThan(ctx context.Context, threadID int64, cutoff int64) ([]model.Message, error) {
	rows, err := s.queries.ListMessagesOlderThan(ctx, sqlc.ListMessagesOlderThanParams{
		ThreadID: threadID,
		ID:       cutoff,
	})
	if err != nil {
		return nil, err
	}
	return toMessageModels(rows), nil
}

func (s *messageStore) ListAscending(ctx context.Context, threadID int64, limit int) ([]model.Message, error) {
	rows, err := s.queries.ListMessagesAscending(ctx, sqlc.ListMessagesAscendingParams{
		ThreadID: threadID,
		Limit:    clampLimit(limit),
	})
	if err != nil {
		return nil, err
	}
	return toMessageModels(rows), nil
}

func (s *messageStore) DeleteUpTo(ctx context.Context, threadID int64, seq int64) (int64, error) {
	return s.queries.DeleteMessagesUpTo(ctx, sqlc.DeleteMessagesUpToParams{
		ThreadID: threadID,
		ID:       seq,
	})
}

func (s *messageStore) Count(ctx context.Context, threadID int64) (int64, error) {
	return s.queries.CountMessages(ctx, threadID)
}

func clampLimit(limit int) int32 {
	if limit < 0 {
		return 0
	}
	if limit > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(limit)
}

func toMessageModel(row sqlc.Message) *model.Message {
	return &model.Message{
		Seq:       row.ID,
		ThreadID:  row.ThreadID,
		Role:      model.Role(row.Role),
		Content:   row.Content,
		CreatedAt: row.CreatedAt.Time,
	}
}

func toMessageModels(rows []sqlc.Message) []model.Message {
	result := make([]model.Message, len(rows))
	for i, row := range rows {
		result[i] = *toMessageModel(row)
	}
	return result
}
