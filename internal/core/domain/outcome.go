package domain

import "github.com/olusolaa/arrayctl/internal/errors"

// Outcome is the result of one reconciliation. Failure is nil on success.
type Outcome struct {
	Kind    ResourceKind
	Key     ResourceKey
	Source  string
	Changed bool
	State   *CurrentState
	Message string
	Verdict Verdict
	Changes []FieldChange
	Job     *JobRecord
	Failure *errors.AppError
}

func (o Outcome) Failed() bool {
	return o.Failure != nil
}

// Err returns the failure as an error, or nil.
func (o Outcome) Err() error {
	if o.Failure == nil {
		return nil
	}
	return o.Failure
}

// FailureCode returns the failure's code, or an empty code on success.
func (o Outcome) FailureCode() errors.Code {
	if o.Failure == nil {
		return ""
	}
	return o.Failure.Code
}
