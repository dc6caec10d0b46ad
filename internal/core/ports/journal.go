package ports

import (
	"context"
	"time"

	"github.com/olusolaa/arrayctl/internal/core/domain"
)

// JournalEntry is one persisted reconciliation outcome.
type JournalEntry struct {
	RunID      string
	RecordedAt time.Time
	Kind       domain.ResourceKind
	Key        string
	Verdict    domain.Verdict
	Changed    bool
	Message    string
	ErrorCode  string
	Changes    []domain.FieldChange
}

//go:generate mockery --name Journal --output ./mocks --outpkg mocks --case underscore
type Journal interface {
	Record(ctx context.Context, runID string, outcome domain.Outcome) error
	Recent(ctx context.Context, limit int) ([]JournalEntry, error)
	Close() error
}
