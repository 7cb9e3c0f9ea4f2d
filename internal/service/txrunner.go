package service

import (
	"context"

	"classbot.app/tutor/core/db"
	"classbot.app/tutor/core/db/sqlc"
	"classbot.app/tutor/internal/model"
	"classbot.app/tutor/internal/store"
)

// StoreProvider exposes only the stores needed by a transactional operation.
type StoreProvider interface {
	Messages() store.MessageStore
	Threads() store.ThreadStore
}

// TxRunner runs functions within a transaction and provides stores bound to that transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

// NewTxRunner builds a TxRunner backed by the core DB.
func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(q *sqlc.Queries) error {
		stores := store.NewStores(q)
		return fn(stores)
	})
}

// appendMessage records a message and bumps the thread's updated_at atomically.
func appendMessage(ctx context.Context, tx TxRunner, threadID int64, role model.Role, content string) (*model.Message, error) {
	var msg *model.Message
	err := tx.WithTx(ctx, func(sp StoreProvider) error {
		var err error
		msg, err = sp.Messages().Append(ctx, threadID, role, content)
		if err != nil {
			return err
		}
		return sp.Threads().Touch(ctx, threadID)
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}
