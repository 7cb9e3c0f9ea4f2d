package store

import (
	"classbot.app/tutor/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Messages() MessageStore {
	return newMessageStore(s.queries)
}

func (s *Stores) Summaries() SummaryStore {
	return newSummaryStore(s.queries)
}

func (s *Stores) Threads() ThreadStore {
	return newThreadStore(s.queries)
}

func (s *Stores) Sessions() SessionStore {
	return newSessionStore(s.queries)
}
