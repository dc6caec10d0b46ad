package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/core/ports"
	"github.com/olusolaa/arrayctl/internal/errors"
)

const defaultConcurrency = 4

// Batch reconciles many specs. Specs with distinct keys run concurrently;
// specs sharing a key run in input order on one worker.
type Batch struct {
	reconciler  *Reconciler
	journal     ports.Journal
	logger      ports.Logger
	concurrency int
}

// NewBatch accepts a nil journal.
func NewBatch(reconciler *Reconciler, journal ports.Journal, logger ports.Logger, concurrency int) (*Batch, error) {
	if reconciler == nil {
		return nil, errors.New(errors.CodeInternal, "batch requires a reconciler")
	}
	if logger == nil {
		return nil, errors.New(errors.CodeInternal, "batch requires a logger")
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Batch{
		reconciler:  reconciler,
		journal:     journal,
		logger:      logger,
		concurrency: concurrency,
	}, nil
}

// Run returns one outcome per spec, in input order.
func (b *Batch) Run(ctx context.Context, runID string, client ports.ArrayClient, specs []domain.ResourceSpec) []domain.Outcome {
	outcomes := make([]domain.Outcome, len(specs))
	groups, order := groupByKey(specs)

	logger := b.logger.WithFields(map[string]any{"run_id": runID})
	b.logger.Infof(ctx, "Reconciling %d spec(s) in %d group(s) with concurrency %d", len(specs), len(order), b.concurrency)

	g := new(errgroup.Group)
	g.SetLimit(b.concurrency)
	for _, groupKey := range order {
		indexes := groups[groupKey]
		g.Go(func() error {
			for _, i := range indexes {
				if ctx.Err() != nil {
					outcomes[i] = cancelledOutcome(specs[i])
					continue
				}
				outcomes[i] = b.reconciler.Reconcile(ctx, client, specs[i])
			}
			return nil
		})
	}
	// workers report through outcomes, never through the group error
	_ = g.Wait()

	if b.journal != nil {
		for _, out := range outcomes {
			if err := b.journal.Record(ctx, runID, out); err != nil {
				logger.Warnf(ctx, "Failed to journal outcome for %s %s: %v", out.Kind, out.Key, err)
			}
		}
	}
	return outcomes
}

// groupByKey buckets spec indexes by kind and identifying key, keeping the
// first-seen order of buckets.
func groupByKey(specs []domain.ResourceSpec) (map[string][]int, []string) {
	groups := make(map[string][]int)
	var order []string
	for i, s := range specs {
		k := fmt.Sprintf("%s|%s|%s", s.Kind, strings.TrimSpace(s.Key.ID), strings.ToLower(strings.TrimSpace(s.Key.Name)))
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}
	return groups, order
}

func cancelledOutcome(spec domain.ResourceSpec) domain.Outcome {
	failure := errors.New(errors.CodeTimeout, "reconciliation cancelled before it started")
	return domain.Outcome{
		Kind:    spec.Kind,
		Key:     spec.Key,
		Source:  spec.Source,
		Message: failure.Message,
		Failure: failure,
	}
}
