package ports

import (
	"context"

	"github.com/olusolaa/arrayctl/internal/core/domain"
)

//go:generate mockery --name ArrayClient --output ./mocks --outpkg mocks --case underscore

// ArrayClient is the capability-scoped view of a storage array. Implementations
// own transport concerns (sessions, TLS, retries of idempotent reads); callers
// treat every method as at-most-once.
type ArrayClient interface {
	// GetResource returns nil, nil when no resource matches key.
	GetResource(ctx context.Context, kind domain.ResourceKind, key domain.ResourceKey) (*domain.CurrentState, error)
	CreateResource(ctx context.Context, kind domain.ResourceKind, fields map[string]any) (domain.ApplyResult, error)
	ModifyResource(ctx context.Context, kind domain.ResourceKind, key domain.ResourceKey, changed map[string]any) (domain.ApplyResult, error)
	DeleteResource(ctx context.Context, kind domain.ResourceKind, key domain.ResourceKey) (domain.ApplyResult, error)
	GetJob(ctx context.Context, jobID string) (domain.JobRecord, error)
}
