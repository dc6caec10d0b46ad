package text

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/core/ports"
)

const ReporterTypeText = "text"

type Config struct {
	NoColor bool `mapstructure:"no_color"`
}

type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	if !isTerminal(os.Stdout) {
		cfg.NoColor = true
	}
	return NewReporterWithWriter(cfg, logger, os.Stdout)
}

func NewReporterWithWriter(cfg Config, logger ports.Logger, w io.Writer) (*Reporter, error) {
	if w == nil {
		return nil, fmt.Errorf("text reporter requires a writer")
	}
	if cfg.NoColor {
		color.NoColor = true
	}
	return &Reporter{config: cfg, writer: w, logger: logger}, nil
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// Report prints outcomes in the order they were produced, followed by a summary.
func (r *Reporter) Report(ctx context.Context, outcomes []domain.Outcome) error {
	if len(outcomes) == 0 {
		fmt.Fprintln(r.writer, "No resources in manifest.")
		return nil
	}

	tw := tabwriter.NewWriter(r.writer, 0, 8, 2, ' ', 0)
	defer tw.Flush()

	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Fprintln(tw, "Reconciliation Report")
	fmt.Fprintln(tw, "=====================")
	fmt.Fprintln(tw, "Status\tKind\tResource\tDetails")
	fmt.Fprintln(tw, "------\t----\t--------\t-------")

	var ok, changed, failed int
	for _, o := range outcomes {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		identifier := o.Key.String()
		if identifier == "" {
			identifier = "<unknown>"
		}

		var status, details string
		switch {
		case o.Failed():
			failed++
			status = red("[FAILED]")
			details = formatFailure(o)
			if o.Changed {
				details += " (array was modified)"
			}
		case o.Changed:
			changed++
			status = yellow("[CHANGED]")
			details = formatChanges(o)
		default:
			ok++
			status = green("[OK]")
			details = o.Message
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", status, o.Kind, identifier, details)
	}

	fmt.Fprintln(tw, "\nSummary:")
	fmt.Fprintln(tw, "-------")
	fmt.Fprintf(tw, "Total:\t%d\n", len(outcomes))
	fmt.Fprintf(tw, "OK:\t%s\n", green(ok))
	fmt.Fprintf(tw, "Changed:\t%s\n", yellow(changed))
	fmt.Fprintf(tw, "Failed:\t%s\n", red(failed))
	return nil
}

func formatFailure(o domain.Outcome) string {
	msg := fmt.Sprintf("%s: %s", o.Failure.Code, o.Failure.Message)
	if o.Failure.IsUserFacing && o.Failure.SuggestedAction != "" {
		msg += fmt.Sprintf(" (%s)", o.Failure.SuggestedAction)
	}
	return msg
}

func formatChanges(o domain.Outcome) string {
	var b strings.Builder
	b.WriteString(o.Message)
	if o.Job != nil {
		fmt.Fprintf(&b, " [job %s]", o.Job.ID)
	}
	for i, c := range o.Changes {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s=%s -> %s", c.Field, formatValue(c.Old), formatValue(c.New))
	}
	return b.String()
}

func formatValue(value any) string {
	const maxLen = 80
	if value == nil {
		return "<unset>"
	}
	str := fmt.Sprintf("%v", value)
	if len(str) > maxLen {
		return str[:maxLen-3] + "..."
	}
	return str
}
