package service

import (
	"context"
	"fmt"
	"time"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/core/ports"
	"github.com/olusolaa/arrayctl/internal/errors"
)

const (
	defaultPollInterval    = 2 * time.Second
	defaultMaxPollInterval = 30 * time.Second
	defaultPollMultiplier  = 1.5
	defaultJobTimeout      = 10 * time.Minute
)

// TrackerConfig bounds job polling. Zero values fall back to defaults.
type TrackerConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	Timeout         time.Duration
}

func (c TrackerConfig) withDefaults() TrackerConfig {
	if c.InitialInterval <= 0 {
		c.InitialInterval = defaultPollInterval
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = defaultMaxPollInterval
	}
	if c.MaxInterval < c.InitialInterval {
		c.MaxInterval = c.InitialInterval
	}
	if c.Multiplier < 1 {
		c.Multiplier = defaultPollMultiplier
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultJobTimeout
	}
	return c
}

// JobTracker polls an asynchronous array job until it reaches a terminal
// phase, the timeout elapses, or the context is cancelled.
type JobTracker struct {
	cfg        TrackerConfig
	translator *ErrorTranslator
	logger     ports.Logger
	metrics    ports.Metrics
}

func NewJobTracker(cfg TrackerConfig, translator *ErrorTranslator, logger ports.Logger, metrics ports.Metrics) (*JobTracker, error) {
	if translator == nil {
		return nil, errors.New(errors.CodeInternal, "job tracker requires an error translator")
	}
	if logger == nil {
		return nil, errors.New(errors.CodeInternal, "job tracker requires a logger")
	}
	return &JobTracker{
		cfg:        cfg.withDefaults(),
		translator: translator,
		logger:     logger,
		metrics:    metrics,
	}, nil
}

// AwaitTerminal returns the Completed record, or the last record seen along
// with a JOB_FAILED, TIMEOUT or TRANSPORT_ERROR failure.
func (t *JobTracker) AwaitTerminal(ctx context.Context, client ports.ArrayClient, handle domain.JobHandle) (domain.JobRecord, error) {
	started := time.Now()
	defer func() {
		if t.metrics != nil {
			t.metrics.ObserveJobWait(time.Since(started))
		}
	}()

	pollCtx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	logger := t.logger.WithFields(map[string]any{"job_id": handle.ID})
	last := domain.JobRecord{ID: handle.ID, Phase: domain.JobPending}
	seen := false
	interval := t.cfg.InitialInterval

	for {
		if pollCtx.Err() != nil {
			return last, t.timeoutError(ctx, handle, started)
		}

		rec, err := client.GetJob(pollCtx, handle.ID)
		if err != nil {
			if pollCtx.Err() != nil {
				return last, t.timeoutError(ctx, handle, started)
			}
			return last, errors.Reclassify(t.translator.Translate(err), errors.CodeTransport,
				fmt.Sprintf("polling job %s failed", handle.ID))
		}
		if t.metrics != nil {
			t.metrics.ObserveJobPoll(rec.Phase)
		}

		if seen && !last.Phase.CanTransitionTo(rec.Phase) {
			logger.Warnf(ctx, "Job reported illegal phase change %s -> %s, keeping %s", last.Phase, rec.Phase, last.Phase)
			rec.Phase = last.Phase
		}
		seen = true
		last = rec

		switch rec.Phase {
		case domain.JobCompleted:
			logger.Debugf(ctx, "Job completed after %s", time.Since(started).Round(time.Millisecond))
			return rec, nil
		case domain.JobFailed:
			return rec, jobFailure(rec)
		case domain.JobPending, domain.JobRunning:
		default:
			logger.Warnf(ctx, "Job reported unknown phase '%s'", rec.Phase)
		}

		logger.Debugf(ctx, "Job in phase %s (%d%%), next poll in %s", rec.Phase, rec.Progress, interval)
		timer := time.NewTimer(interval)
		select {
		case <-pollCtx.Done():
			timer.Stop()
			return last, t.timeoutError(ctx, handle, started)
		case <-timer.C:
		}
		interval = nextInterval(interval, t.cfg)
	}
}

func nextInterval(current time.Duration, cfg TrackerConfig) time.Duration {
	next := time.Duration(float64(current) * cfg.Multiplier)
	if next > cfg.MaxInterval {
		return cfg.MaxInterval
	}
	return next
}

func (t *JobTracker) timeoutError(parent context.Context, handle domain.JobHandle, started time.Time) error {
	msg := fmt.Sprintf("job %s did not reach a terminal phase within %s", handle.ID, t.cfg.Timeout)
	if parent.Err() != nil {
		msg = fmt.Sprintf("waiting for job %s cancelled after %s", handle.ID, time.Since(started).Round(time.Millisecond))
	}
	return errors.New(errors.CodeTimeout, msg).WithDetail("job_id", handle.ID)
}

func jobFailure(rec domain.JobRecord) error {
	msg := fmt.Sprintf("job %s failed", rec.ID)
	appErr := errors.New(errors.CodeJobFailed, msg).WithDetail("job_id", rec.ID)
	if rec.Error != nil {
		if rec.Error.Message != "" {
			appErr.Message = fmt.Sprintf("%s: %s", msg, rec.Error.Message)
		}
		if rec.Error.Code != "" {
			appErr.WithDetail("vendor_code", rec.Error.Code)
		}
		if rec.Error.Payload != nil {
			appErr.WithDetail("payload", rec.Error.Payload)
		}
	}
	return appErr
}
