package ports

import (
	"time"

	"github.com/olusolaa/arrayctl/internal/core/domain"
)

// Metrics receives reconciliation telemetry. Implementations must be safe for
// concurrent use.
type Metrics interface {
	ObserveReconcile(kind domain.ResourceKind, verdict domain.Verdict, result string)
	ObserveArrayCall(operation string, result string)
	ObserveJobPoll(phase domain.JobPhase)
	ObserveJobWait(d time.Duration)
}
