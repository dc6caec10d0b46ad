package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/olusolaa/arrayctl/internal/adapters/array/memory"
	"github.com/olusolaa/arrayctl/internal/adapters/array/rest"
	"github.com/olusolaa/arrayctl/internal/adapters/journal/sqlite"
	"github.com/olusolaa/arrayctl/internal/adapters/manifest"
	"github.com/olusolaa/arrayctl/internal/config"
	"github.com/olusolaa/arrayctl/internal/core/ports"
	"github.com/olusolaa/arrayctl/internal/core/service"
	"github.com/olusolaa/arrayctl/internal/errors"
	"github.com/olusolaa/arrayctl/internal/log"
	"github.com/olusolaa/arrayctl/internal/metrics"
	"github.com/olusolaa/arrayctl/internal/reporting/json"
	"github.com/olusolaa/arrayctl/internal/reporting/text"
)

// Options carries what the CLI supplies besides configuration.
type Options struct {
	// Out receives the report; defaults to stdout.
	Out io.Writer
	// LogOut receives log lines; defaults to stderr.
	LogOut io.Writer
	// Client replaces the configured array client, mainly for tests.
	Client ports.ArrayClient
}

func BuildApplicationFromViper(ctx context.Context, v *viper.Viper, opts Options) (*Application, error) {
	cfg, err := config.Load(ctx, v)
	if err != nil {
		return nil, err
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.LogOut == nil {
		opts.LogOut = os.Stderr
	}

	baseLogger, err := log.NewLoggerWithWriter(cfg.LogConfig(), opts.LogOut)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}
	runID := uuid.NewString()
	logger := baseLogger.WithFields(map[string]any{"run_id": runID})
	if v.ConfigFileUsed() != "" {
		logger.Debugf(ctx, "Using configuration file: %s", v.ConfigFileUsed())
	} else {
		logger.Debugf(ctx, "No configuration file found, using defaults/env/flags.")
	}

	a := &Application{RunID: runID, Config: cfg, Logger: logger}
	built := false
	defer func() {
		if !built {
			_ = a.Close()
		}
	}()

	if err := a.buildMetrics(ctx); err != nil {
		return nil, err
	}
	if err := a.buildJournal(ctx); err != nil {
		return nil, err
	}
	if err := a.buildClient(ctx, opts.Client); err != nil {
		return nil, err
	}
	if err := a.buildReporter(ctx, opts.Out); err != nil {
		return nil, err
	}
	if err := a.buildServices(ctx); err != nil {
		return nil, err
	}

	a.Loader, err = manifest.NewLoader(logger.WithFields(map[string]any{"component": "manifest"}))
	if err != nil {
		return nil, err
	}

	built = true
	logger.Infof(ctx, "Application bootstrap complete (check mode: %t, simulate: %t)", cfg.Settings.CheckMode, cfg.Settings.Simulate)
	return a, nil
}

func (a *Application) buildMetrics(ctx context.Context) error {
	m, err := metrics.New(metrics.Config{Namespace: a.Config.Metrics.Namespace})
	if err != nil {
		return errors.Wrap(err, errors.CodeConfigValidation, "failed to initialize metrics")
	}
	a.Metrics = m
	if a.Config.Metrics.TextfilePath != "" {
		a.Logger.Debugf(ctx, "Metrics will be written to %s", a.Config.Metrics.TextfilePath)
	}
	return nil
}

func (a *Application) buildJournal(ctx context.Context) error {
	if a.Config.Journal.Path == "" {
		return nil
	}
	j, err := sqlite.Open(a.Config.Journal.Path)
	if err != nil {
		return err
	}
	a.Journal = j
	a.closers = append(a.closers, j.Close)
	a.Logger.Debugf(ctx, "Recording outcomes in journal %s", a.Config.Journal.Path)
	return nil
}

func (a *Application) buildClient(ctx context.Context, override ports.ArrayClient) error {
	switch {
	case override != nil:
		a.Client = override
	case a.Config.Settings.Simulate:
		opts := []memory.Option{memory.WithSeed(memory.FactorySeed()...)}
		if a.Config.Array.Async {
			opts = append(opts, memory.WithAsync())
		}
		a.Client = memory.New(opts...)
		a.Logger.Infof(ctx, "Using simulated array")
	default:
		arr := a.Config.Array
		client, err := rest.NewClient(rest.Config{
			Endpoint:          arr.Endpoint,
			Username:          arr.Username,
			Password:          arr.Password,
			VerifyCert:        arr.VerifyCert,
			Timeout:           arr.Timeout,
			RequestsPerSecond: arr.RequestsPerSecond,
			ReadRetries:       arr.ReadRetries,
			MaxRetryBackoff:   arr.MaxRetryBackoff,
			Async:             arr.Async,
		}, a.Logger.WithFields(map[string]any{"component": "array"}))
		if err != nil {
			return errors.Wrap(err, errors.CodeConfigValidation, "failed to initialize array client")
		}
		a.Client = client
		a.closers = append(a.closers, func() error { client.Close(); return nil })
		a.Logger.Infof(ctx, "Using array at %s (verify certificate: %t)", arr.Endpoint, arr.VerifyCert)
	}
	return nil
}

func (a *Application) buildReporter(ctx context.Context, out io.Writer) error {
	reportLog := a.Logger.WithFields(map[string]any{"component": "reporter", "type": a.Config.Settings.ReporterType})
	var err error
	switch a.Config.Settings.ReporterType {
	case text.ReporterTypeText:
		a.Reporter, err = text.NewReporterWithWriter(*a.Config.Settings.Reporter.Text, reportLog, out)
	case json.ReporterTypeJSON:
		a.Reporter, err = json.NewReporterWithWriter(json.Config{}, reportLog, out)
	default:
		return errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unsupported reporter type: %s", a.Config.Settings.ReporterType), "Supported: text, json")
	}
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to initialize reporter")
	}
	reportLog.Debugf(ctx, "Reporter ready")
	return nil
}

func (a *Application) buildServices(ctx context.Context) error {
	overrides, err := a.Config.VendorCodeOverrides()
	if err != nil {
		return errors.Wrap(err, errors.CodeConfigValidation, "invalid vendor_codes")
	}
	a.Translator = service.NewErrorTranslator(overrides)
	a.Policies = service.NewDefaultPolicyRegistry()

	jobs := a.Config.Jobs
	a.Tracker, err = service.NewJobTracker(service.TrackerConfig{
		InitialInterval: jobs.PollInterval,
		MaxInterval:     jobs.MaxPollInterval,
		Multiplier:      jobs.Multiplier,
		Timeout:         jobs.Timeout,
	}, a.Translator, a.Logger.WithFields(map[string]any{"component": "jobs"}), a.Metrics)
	if err != nil {
		return err
	}

	reconciler, err := service.NewReconciler(a.Policies, a.Tracker, a.Translator,
		a.Logger.WithFields(map[string]any{"component": "reconciler"}),
		service.ReconcilerOptions{CheckMode: a.Config.Settings.CheckMode, Metrics: a.Metrics})
	if err != nil {
		return err
	}

	a.Batch, err = service.NewBatch(reconciler, a.Journal, a.Logger.WithFields(map[string]any{"component": "batch"}), a.Config.Settings.Concurrency)
	if err != nil {
		return err
	}
	a.Logger.Debugf(ctx, "Services initialized for %d resource kind(s)", len(a.Policies.Kinds()))
	return nil
}
