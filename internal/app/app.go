package app

import (
	"context"
	"fmt"

	"github.com/olusolaa/arrayctl/internal/adapters/manifest"
	"github.com/olusolaa/arrayctl/internal/config"
	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/core/ports"
	"github.com/olusolaa/arrayctl/internal/core/service"
	"github.com/olusolaa/arrayctl/internal/errors"
	"github.com/olusolaa/arrayctl/internal/metrics"
)

// Application holds the components of one CLI invocation.
type Application struct {
	RunID      string
	Config     *config.Config
	Logger     ports.Logger
	Policies   *service.PolicyRegistry
	Loader     *manifest.Loader
	Client     ports.ArrayClient
	Translator *service.ErrorTranslator
	Tracker    *service.JobTracker
	Batch      *service.Batch
	Reporter   ports.Reporter
	// Journal and Metrics are nil unless configured.
	Journal ports.Journal
	Metrics *metrics.Metrics

	closers []func() error
}

// Summary counts outcomes the way the reporters do.
type Summary struct {
	OK      int
	Changed int
	Failed  int
}

func Summarize(outcomes []domain.Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch {
		case o.Failed():
			s.Failed++
		case o.Changed:
			s.Changed++
		default:
			s.OK++
		}
	}
	return s
}

// Apply loads the manifests, reconciles every spec and reports the outcomes.
// Failed outcomes are reported, not returned as an error.
func (a *Application) Apply(ctx context.Context, paths []string) ([]domain.Outcome, error) {
	specs, err := a.Loader.Load(ctx, paths)
	if err != nil {
		return nil, err
	}
	a.Logger.Infof(ctx, "Loaded %d resource spec(s) from %d manifest path(s)", len(specs), len(paths))

	outcomes := a.Batch.Run(ctx, a.RunID, a.Client, specs)

	if err := a.Reporter.Report(ctx, outcomes); err != nil {
		return outcomes, errors.Wrap(err, errors.CodeInternal, "failed to write report")
	}
	a.writeMetrics(ctx)

	s := Summarize(outcomes)
	a.Logger.Infof(ctx, "Reconciliation finished: %d ok, %d changed, %d failed", s.OK, s.Changed, s.Failed)
	return outcomes, nil
}

// Job fetches a job record, optionally waiting for it to finish.
func (a *Application) Job(ctx context.Context, jobID string, wait bool) (domain.JobRecord, error) {
	if jobID == "" {
		return domain.JobRecord{}, errors.NewUserFacing(errors.CodeValidation, "job id is required", "Pass the id printed by an asynchronous apply.")
	}
	if !wait {
		rec, err := a.Client.GetJob(ctx, jobID)
		if err != nil {
			return domain.JobRecord{}, a.Translator.Translate(err)
		}
		return rec, nil
	}
	rec, err := a.Tracker.AwaitTerminal(ctx, a.Client, domain.JobHandle{ID: jobID})
	a.writeMetrics(ctx)
	return rec, err
}

func (a *Application) History(ctx context.Context, limit int) ([]ports.JournalEntry, error) {
	if a.Journal == nil {
		return nil, errors.NewUserFacing(errors.CodeJournalError, "no journal configured", "Set journal.path in the configuration file.")
	}
	return a.Journal.Recent(ctx, limit)
}

func (a *Application) writeMetrics(ctx context.Context) {
	if a.Metrics == nil || a.Config.Metrics.TextfilePath == "" {
		return
	}
	if err := a.Metrics.WriteTextfile(a.Config.Metrics.TextfilePath); err != nil {
		a.Logger.Warnf(ctx, "Could not write metrics textfile %s: %v", a.Config.Metrics.TextfilePath, err)
	}
}

// Close releases the journal and the array session.
func (a *Application) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close: %w", err)
		}
	}
	a.closers = nil
	return firstErr
}
