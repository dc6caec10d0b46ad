package service

import (
	"fmt"
	"sort"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/errors"
	"github.com/olusolaa/arrayctl/pkg/compare"
)

// DiffEngine decides what, if anything, must change for current to satisfy
// spec. It performs no I/O.
type DiffEngine struct{}

func (DiffEngine) Compute(policy domain.KindPolicy, spec domain.ResourceSpec, current *domain.CurrentState) (domain.ChangeSet, error) {
	if current == nil {
		if spec.State == domain.StateAbsent {
			return domain.ChangeSet{Verdict: domain.VerdictNoOp}, nil
		}
		if !policy.AllowCreate {
			return domain.ChangeSet{
				Verdict: domain.VerdictUnsupported,
				Message: policy.CreateDeniedMessage(spec.Key),
				Code:    policy.CreateDeniedCode,
			}, nil
		}
		changes := make([]domain.FieldChange, 0, len(spec.Fields))
		for _, name := range sortedKeys(spec.Fields) {
			changes = append(changes, domain.FieldChange{Field: name, New: spec.Fields[name]})
		}
		return domain.ChangeSet{Verdict: domain.VerdictCreate, Changes: changes}, nil
	}

	if spec.State == domain.StateAbsent {
		if !policy.AllowDelete {
			return domain.ChangeSet{
				Verdict: domain.VerdictUnsupported,
				Message: policy.DeleteDeniedMessage(),
				Code:    errors.CodeUnsupportedOperation,
			}, nil
		}
		return domain.ChangeSet{Verdict: domain.VerdictDelete}, nil
	}

	var changes []domain.FieldChange
	for _, name := range sortedKeys(spec.Fields) {
		desired := spec.Fields[name]
		observed, exists := current.Fields[name]
		schema := policy.Fields[name]

		equal := false
		if exists {
			var err error
			equal, err = compare.Values(desired, observed, compare.Options{
				Ordered:         schema.Ordered,
				CaseInsensitive: schema.CaseInsensitive,
			})
			if err != nil {
				return domain.ChangeSet{}, errors.Wrap(err, errors.CodeValidation,
					fmt.Sprintf("cannot compare field '%s' of %s %s", name, policy.Kind, spec.Key))
			}
		}
		if !equal {
			changes = append(changes, domain.FieldChange{Field: name, Old: observed, New: desired})
		}
	}

	if len(changes) == 0 {
		return domain.ChangeSet{Verdict: domain.VerdictNoOp}, nil
	}
	if !policy.AllowModify {
		return domain.ChangeSet{
			Verdict: domain.VerdictUnsupported,
			Changes: changes,
			Message: policy.ModifyDeniedMessage(),
			Code:    errors.CodeUnsupportedOperation,
		}, nil
	}
	return domain.ChangeSet{Verdict: domain.VerdictModify, Changes: changes}, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
