package ports

import (
	"context"

	"github.com/olusolaa/arrayctl/internal/core/domain"
)

type Reporter interface {
	Report(ctx context.Context, outcomes []domain.Outcome) error
}
