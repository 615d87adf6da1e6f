package ports

import (
	"context"

	"github.com/renato0307/farol/internal/domain"
)

// HistoryReader reads archived sessions
type HistoryReader interface {
	Get(ctx context.Context, id string) (*domain.SessionRecord, error)
	List(ctx context.Context, limit int) ([]domain.SessionRecord, error)
}

// HistoryWriter stores and deletes archived sessions
type HistoryWriter interface {
	Delete(ctx context.Context, id string) error
	Save(ctx context.Context, record domain.SessionRecord) error
}

// SessionRepository is the composite interface
type SessionRepository interface {
	HistoryReader
	HistoryWriter
	Close() error
}
