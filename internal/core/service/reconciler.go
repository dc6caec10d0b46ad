package service

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/core/ports"
	"github.com/olusolaa/arrayctl/internal/errors"
)

const (
	resultOK      = "ok"
	resultChanged = "changed"
	resultFailed  = "failed"
)

type ReconcilerOptions struct {
	// CheckMode computes and reports the change without mutating the array.
	CheckMode bool
	Metrics   ports.Metrics
}

// Reconciler drives one desired-state spec through
// fetch, diff, apply and verify against an injected ArrayClient.
type Reconciler struct {
	policies   *PolicyRegistry
	validator  *SpecValidator
	diff       DiffEngine
	tracker    *JobTracker
	translator *ErrorTranslator
	logger     ports.Logger
	opts       ReconcilerOptions
}

func NewReconciler(
	policies *PolicyRegistry,
	tracker *JobTracker,
	translator *ErrorTranslator,
	logger ports.Logger,
	opts ReconcilerOptions,
) (*Reconciler, error) {
	if policies == nil {
		return nil, errors.New(errors.CodeInternal, "reconciler requires a policy registry")
	}
	if tracker == nil {
		return nil, errors.New(errors.CodeInternal, "reconciler requires a job tracker")
	}
	if translator == nil {
		return nil, errors.New(errors.CodeInternal, "reconciler requires an error translator")
	}
	if logger == nil {
		return nil, errors.New(errors.CodeInternal, "reconciler requires a logger")
	}
	return &Reconciler{
		policies:   policies,
		validator:  NewSpecValidator(),
		tracker:    tracker,
		translator: translator,
		logger:     logger,
		opts:       opts,
	}, nil
}

func (r *Reconciler) CheckMode() bool {
	return r.opts.CheckMode
}

// Reconcile never panics and never returns an error: every failure is
// carried by the returned Outcome.
func (r *Reconciler) Reconcile(ctx context.Context, client ports.ArrayClient, spec domain.ResourceSpec) (out domain.Outcome) {
	out = domain.Outcome{Kind: spec.Kind, Key: spec.Key, Source: spec.Source}
	logger := r.logger.WithFields(map[string]any{
		"resource_kind": spec.Kind,
		"resource_key":  spec.Key.String(),
	})

	defer func() {
		if rec := recover(); rec != nil {
			out.Changed = false
			out.Failure = errors.New(errors.CodeTransport, fmt.Sprintf("reconciliation aborted: %v", rec))
			out.Failure.InternalDetails = string(debug.Stack())
			out.Message = out.Failure.Message
		}
		r.observe(ctx, logger, out)
	}()

	policy, err := r.policies.Policy(spec.Kind)
	if err != nil {
		return r.fail(out, errors.Wrap(err, errors.CodeValidation, "unknown resource kind"))
	}
	if err := r.validator.Validate(ctx, policy, spec); err != nil {
		return r.fail(out, errors.Wrap(err, errors.CodeValidation, "invalid spec"))
	}
	if client == nil {
		return r.fail(out, errors.New(errors.CodeTransport, "no array client available"))
	}

	current, err := r.fetch(ctx, client, spec.Kind, spec.Key)
	if err != nil {
		return r.fail(out, err)
	}
	out.State = current.Clone()

	cs, err := r.diff.Compute(policy, spec, current)
	if err != nil {
		return r.fail(out, errors.Wrap(err, errors.CodeValidation, "cannot compute changes"))
	}
	out.Verdict = cs.Verdict
	out.Changes = cs.Changes
	logger.Debugf(ctx, "Computed verdict %s with %d field change(s)", cs.Verdict, len(cs.Changes))

	switch cs.Verdict {
	case domain.VerdictNoOp:
		out.Message = fmt.Sprintf("%s %s: no changes required", spec.Kind, spec.Key)
		return out
	case domain.VerdictUnsupported:
		return r.fail(out, errors.New(cs.Code, cs.Message))
	}

	if cs.Verdict == domain.VerdictCreate && spec.Key.Name == "" {
		return r.fail(out, errors.New(errors.CodeValidation,
			fmt.Sprintf("creating %s requires a name", spec.Kind)))
	}

	if r.opts.CheckMode {
		out.Changed = true
		out.Message = fmt.Sprintf("%s would be performed (check mode)", cs.Verdict)
		return out
	}

	result, err := r.apply(ctx, client, spec, cs)
	if err != nil {
		out.Message = fmt.Sprintf("%s of %s %s failed", cs.Verdict, spec.Kind, spec.Key)
		return r.fail(out, err)
	}

	key := spec.Key
	if result.IsAsync() {
		logger.Infof(ctx, "Waiting for job %s", result.Job.ID)
		rec, err := r.tracker.AwaitTerminal(ctx, client, *result.Job)
		out.Job = &rec
		if err != nil {
			// A Failed job did no work; a timeout or lost poll leaves the
			// accepted mutation in flight.
			if errors.Is(err, errors.CodeJobFailed) {
				return r.fail(out, errors.Wrap(err, errors.CodeTransport, "job did not complete"))
			}
			return r.failApplied(out, err)
		}
		if key.ID == "" && rec.ResourceID != "" {
			key.ID = rec.ResourceID
		}
	}

	out.Changed = true
	out.Message = fmt.Sprintf("%s of %s %s succeeded", cs.Verdict, spec.Kind, spec.Key)

	switch {
	case cs.Verdict == domain.VerdictDelete:
		out.State = nil
		if result.IsAsync() {
			if _, err := r.verify(ctx, logger, client, policy, spec, key); err != nil {
				return r.failApplied(out, err)
			}
		}
	case result.State != nil && !result.IsAsync():
		out.State = result.State.Clone()
	default:
		state, err := r.verify(ctx, logger, client, policy, spec, key)
		if err != nil {
			return r.failApplied(out, err)
		}
		out.State = state
	}
	return out
}

func (r *Reconciler) fetch(ctx context.Context, client ports.ArrayClient, kind domain.ResourceKind, key domain.ResourceKey) (*domain.CurrentState, error) {
	current, err := client.GetResource(ctx, kind, key)
	r.observeCall("get", err)
	if err != nil {
		translated := r.translator.Translate(err)
		if translated.Code == errors.CodeNotFound {
			return nil, nil
		}
		return nil, translated
	}
	return current, nil
}

func (r *Reconciler) apply(ctx context.Context, client ports.ArrayClient, spec domain.ResourceSpec, cs domain.ChangeSet) (domain.ApplyResult, error) {
	var (
		result domain.ApplyResult
		err    error
		op     string
	)
	switch cs.Verdict {
	case domain.VerdictCreate:
		op = "create"
		payload := cs.Fields()
		payload[domain.KeyName] = spec.Key.Name
		result, err = client.CreateResource(ctx, spec.Kind, payload)
	case domain.VerdictModify:
		op = "modify"
		result, err = client.ModifyResource(ctx, spec.Kind, spec.Key, cs.Fields())
	case domain.VerdictDelete:
		op = "delete"
		result, err = client.DeleteResource(ctx, spec.Kind, spec.Key)
	default:
		return result, errors.New(errors.CodeInternal, fmt.Sprintf("verdict %s is not applicable", cs.Verdict))
	}
	r.observeCall(op, err)
	if err != nil {
		return result, r.translator.Translate(err)
	}
	return result, nil
}

// verify re-reads the resource after a mutation. Drift that survives the
// mutation is logged; the array is the authority on the final state.
func (r *Reconciler) verify(
	ctx context.Context,
	logger ports.Logger,
	client ports.ArrayClient,
	policy domain.KindPolicy,
	spec domain.ResourceSpec,
	key domain.ResourceKey,
) (*domain.CurrentState, error) {
	state, err := r.fetch(ctx, client, spec.Kind, key)
	if err != nil {
		return nil, errors.Reclassify(err, errors.CodeTransport,
			fmt.Sprintf("%s %s changed but could not be re-read", spec.Kind, key))
	}

	if spec.State == domain.StateAbsent {
		if state != nil {
			logger.Warnf(ctx, "Resource still present after delete")
		}
		return nil, nil
	}
	if state == nil {
		logger.Warnf(ctx, "Resource not found after %s", spec.State)
		return nil, nil
	}
	if cs, err := r.diff.Compute(policy, spec, state); err == nil && cs.Verdict != domain.VerdictNoOp {
		logger.Warnf(ctx, "Resource still differs after apply on fields %v", changedFields(cs.Changes))
	}
	return state.Clone(), nil
}

func (r *Reconciler) fail(out domain.Outcome, err error) domain.Outcome {
	appErr := r.translator.Translate(err)
	out.Changed = false
	out.Failure = appErr
	if out.Message == "" {
		out.Message = appErr.Message
	}
	return out
}

// failApplied records a failure that happened after the mutation was
// accepted, so Changed stays true.
func (r *Reconciler) failApplied(out domain.Outcome, err error) domain.Outcome {
	out.Message = ""
	out = r.fail(out, err)
	out.Changed = true
	return out
}

func (r *Reconciler) observe(ctx context.Context, logger ports.Logger, out domain.Outcome) {
	result := resultOK
	switch {
	case out.Failed():
		result = resultFailed
		logger.Errorf(ctx, out.Failure, "Reconciliation failed")
	case out.Changed:
		result = resultChanged
		logger.Infof(ctx, "%s", out.Message)
	default:
		logger.Debugf(ctx, "%s", out.Message)
	}
	if r.opts.Metrics != nil {
		r.opts.Metrics.ObserveReconcile(out.Kind, out.Verdict, result)
	}
}

func (r *Reconciler) observeCall(op string, err error) {
	if r.opts.Metrics == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	r.opts.Metrics.ObserveArrayCall(op, result)
}

func changedFields(changes []domain.FieldChange) []string {
	out := make([]string, 0, len(changes))
	for _, c := range changes {
		out = append(out, c.Field)
	}
	return out
}
