package json

import (
	"context"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/core/ports"
)

const ReporterTypeJSON = "json"

type Config struct{}

type Reporter struct {
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	return NewReporterWithWriter(cfg, logger, os.Stdout)
}

func NewReporterWithWriter(_ Config, logger ports.Logger, w io.Writer) (*Reporter, error) {
	if w == nil || logger == nil {
		return nil, fmt.Errorf("json reporter requires a writer and a logger")
	}
	return &Reporter{writer: w, logger: logger}, nil
}

type jsonReport struct {
	Summary jsonSummary `json:"summary"`
	Items   []jsonItem  `json:"items"`
}

type jsonSummary struct {
	Total   int `json:"total"`
	OK      int `json:"ok"`
	Changed int `json:"changed"`
	Failed  int `json:"failed"`
}

type jsonItem struct {
	Kind    domain.ResourceKind  `json:"kind"`
	ID      string               `json:"id,omitempty"`
	Name    string               `json:"name,omitempty"`
	Source  string               `json:"source,omitempty"`
	Verdict domain.Verdict       `json:"verdict,omitempty"`
	Changed bool                 `json:"changed"`
	Message string               `json:"message,omitempty"`
	Changes []domain.FieldChange `json:"changes,omitempty"`
	JobID   string               `json:"job_id,omitempty"`
	State   map[string]any       `json:"state,omitempty"`
	Error   *jsonError           `json:"error,omitempty"`
}

type jsonError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (r *Reporter) Report(ctx context.Context, outcomes []domain.Outcome) error {
	report := jsonReport{
		Summary: jsonSummary{Total: len(outcomes)},
		Items:   make([]jsonItem, 0, len(outcomes)),
	}

	for _, o := range outcomes {
		if ctx.Err() != nil {
			r.logger.Warnf(ctx, "JSON report generation cancelled.")
			return ctx.Err()
		}

		switch {
		case o.Failed():
			report.Summary.Failed++
		case o.Changed:
			report.Summary.Changed++
		default:
			report.Summary.OK++
		}

		item := jsonItem{
			Kind:    o.Kind,
			ID:      o.Key.ID,
			Name:    o.Key.Name,
			Source:  o.Source,
			Verdict: o.Verdict,
			Changed: o.Changed,
			Message: o.Message,
			Changes: o.Changes,
		}
		if o.Job != nil {
			item.JobID = o.Job.ID
		}
		if o.State != nil {
			item.State = o.State.Fields
		}
		if o.Failure != nil {
			item.Error = &jsonError{
				Code:    string(o.Failure.Code),
				Message: o.Failure.Message,
				Details: o.Failure.Details,
			}
		}
		report.Items = append(report.Items, item)
	}

	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		r.logger.Errorf(ctx, err, "Failed to encode JSON report")
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}

	r.logger.Debugf(ctx, "JSON report written with %d item(s).", len(outcomes))
	return nil
}
