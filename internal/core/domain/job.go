package domain

type JobPhase string

const (
	JobPending   JobPhase = "Pending"
	JobRunning   JobPhase = "Running"
	JobCompleted JobPhase = "Completed"
	JobFailed    JobPhase = "Failed"
)

func (p JobPhase) Terminal() bool {
	return p == JobCompleted || p == JobFailed
}

// CanTransitionTo reports whether next is a legal successor of p. Staying in
// the same phase is always legal.
func (p JobPhase) CanTransitionTo(next JobPhase) bool {
	if p == next {
		return true
	}
	switch p {
	case JobPending:
		return next == JobRunning || next == JobCompleted || next == JobFailed
	case JobRunning:
		return next == JobCompleted || next == JobFailed
	default:
		return false
	}
}

type JobHandle struct {
	ID string `json:"id"`
}

type JobError struct {
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

type JobRecord struct {
	ID           string       `json:"id"`
	Phase        JobPhase     `json:"phase"`
	Progress     int          `json:"progress_percentage"`
	ResourceKind ResourceKind `json:"resource_kind,omitempty"`
	ResourceID   string       `json:"resource_id,omitempty"`
	// Error is only set when Phase is JobFailed.
	Error *JobError `json:"error,omitempty"`
}
