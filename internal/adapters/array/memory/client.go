// Package memory provides an in-memory ArrayClient that simulates a storage
// array, including asynchronous jobs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/core/ports"
	"github.com/olusolaa/arrayctl/internal/errors"
)

const (
	OpGet    = "get"
	OpCreate = "create"
	OpModify = "modify"
	OpDelete = "delete"
	OpGetJob = "get_job"
)

var _ ports.ArrayClient = (*Client)(nil)

type job struct {
	record domain.JobRecord
	script []domain.JobPhase
	polls  int
	// commit applies the mutation once the job completes.
	commit func()
	failed *domain.JobError
}

// Client is safe for concurrent use.
type Client struct {
	mu        sync.Mutex
	resources map[domain.ResourceKind]map[string]*domain.CurrentState
	jobs      map[string]*job
	calls     map[string]int
	failures  map[string]error
	async     bool
	script    []domain.JobPhase
	jobError  *domain.JobError
	nextID    int
	nextJob   int
}

type Option func(*Client)

// WithAsync makes every mutation answer with a job handle. Successive polls
// walk through script and then repeat its last phase.
func WithAsync(script ...domain.JobPhase) Option {
	return func(c *Client) {
		c.async = true
		if len(script) == 0 {
			script = []domain.JobPhase{domain.JobRunning, domain.JobCompleted}
		}
		c.script = append([]domain.JobPhase(nil), script...)
	}
}

// WithJobError sets the vendor error attached to jobs that end Failed.
func WithJobError(jobErr domain.JobError) Option {
	return func(c *Client) {
		c.jobError = &jobErr
	}
}

// WithFailure makes every call of op return err.
func WithFailure(op string, err error) Option {
	return func(c *Client) {
		c.failures[op] = err
	}
}

func WithSeed(states ...domain.CurrentState) Option {
	return func(c *Client) {
		for _, s := range states {
			seeded := s.Clone()
			if seeded.Key.ID == "" {
				c.nextID++
				seeded.Key.ID = fmt.Sprintf("%s-%d", strings.ToLower(string(seeded.Kind)), c.nextID)
			}
			c.put(seeded)
		}
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		resources: make(map[domain.ResourceKind]map[string]*domain.CurrentState),
		jobs:      make(map[string]*job),
		calls:     make(map[string]int),
		failures:  make(map[string]error),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calls returns how many times op was invoked.
func (c *Client) Calls(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[op]
}

// Snapshot returns a copy of the stored resource, or nil.
func (c *Client) Snapshot(kind domain.ResourceKind, key domain.ResourceKey) *domain.CurrentState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.find(kind, key).Clone()
}

func (c *Client) GetResource(ctx context.Context, kind domain.ResourceKind, key domain.ResourceKey) (*domain.CurrentState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.enter(ctx, OpGet); err != nil {
		return nil, err
	}
	return c.find(kind, key).Clone(), nil
}

func (c *Client) CreateResource(ctx context.Context, kind domain.ResourceKind, fields map[string]any) (domain.ApplyResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.enter(ctx, OpCreate); err != nil {
		return domain.ApplyResult{}, err
	}

	fields = domain.CloneFields(fields)
	name, _ := fields[domain.KeyName].(string)
	delete(fields, domain.KeyName)
	if name != "" && c.find(kind, domain.ResourceKey{Name: name}) != nil {
		return domain.ApplyResult{}, errors.New(errors.CodeValidation,
			fmt.Sprintf("%s named '%s' already exists", kind, name))
	}

	c.nextID++
	state := &domain.CurrentState{
		Kind:   kind,
		Key:    domain.ResourceKey{ID: fmt.Sprintf("%s-%d", strings.ToLower(string(kind)), c.nextID), Name: name},
		Fields: fields,
	}
	return c.finish(kind, state.Key.ID, func() { c.put(state) }, state)
}

func (c *Client) ModifyResource(ctx context.Context, kind domain.ResourceKind, key domain.ResourceKey, changed map[string]any) (domain.ApplyResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.enter(ctx, OpModify); err != nil {
		return domain.ApplyResult{}, err
	}
	existing := c.find(kind, key)
	if existing == nil {
		return domain.ApplyResult{}, notFound(kind, key)
	}

	updated := existing.Clone()
	if updated.Fields == nil {
		updated.Fields = make(map[string]any, len(changed))
	}
	for k, v := range domain.CloneFields(changed) {
		updated.Fields[k] = v
	}
	return c.finish(kind, updated.Key.ID, func() { c.put(updated) }, updated)
}

func (c *Client) DeleteResource(ctx context.Context, kind domain.ResourceKind, key domain.ResourceKey) (domain.ApplyResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.enter(ctx, OpDelete); err != nil {
		return domain.ApplyResult{}, err
	}
	existing := c.find(kind, key)
	if existing == nil {
		return domain.ApplyResult{}, notFound(kind, key)
	}
	id := existing.Key.ID
	return c.finish(kind, id, func() { delete(c.resources[kind], id) }, nil)
}

func (c *Client) GetJob(ctx context.Context, jobID string) (domain.JobRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.enter(ctx, OpGetJob); err != nil {
		return domain.JobRecord{}, err
	}
	j, ok := c.jobs[jobID]
	if !ok {
		return domain.JobRecord{}, errors.New(errors.CodeNotFound, fmt.Sprintf("job %s not found", jobID))
	}

	idx := j.polls
	if idx >= len(j.script) {
		idx = len(j.script) - 1
	}
	j.polls++
	phase := j.script[idx]

	if j.record.Phase.Terminal() {
		return j.record, nil
	}
	j.record.Phase = phase
	switch phase {
	case domain.JobRunning:
		j.record.Progress = 50
	case domain.JobCompleted:
		j.record.Progress = 100
		if j.commit != nil {
			j.commit()
			j.commit = nil
		}
	case domain.JobFailed:
		j.record.Progress = 100
		if j.failed != nil {
			e := *j.failed
			e.Payload = domain.CloneFields(e.Payload)
			j.record.Error = &e
		}
	}
	return j.record, nil
}

// finish commits immediately, or parks the mutation behind a job in async
// mode. Callers hold c.mu.
func (c *Client) finish(kind domain.ResourceKind, id string, commit func(), state *domain.CurrentState) (domain.ApplyResult, error) {
	if !c.async {
		commit()
		return domain.ApplyResult{State: state.Clone()}, nil
	}

	c.nextJob++
	jobID := fmt.Sprintf("job-%d", c.nextJob)
	c.jobs[jobID] = &job{
		record: domain.JobRecord{ID: jobID, Phase: domain.JobPending, ResourceKind: kind, ResourceID: id},
		script: c.script,
		commit: commit,
		failed: c.jobError,
	}
	return domain.ApplyResult{Job: &domain.JobHandle{ID: jobID}}, nil
}

func (c *Client) enter(ctx context.Context, op string) error {
	c.calls[op]++
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.failures[op]
}

func (c *Client) find(kind domain.ResourceKind, key domain.ResourceKey) *domain.CurrentState {
	byID := c.resources[kind]
	if key.ID != "" {
		return byID[key.ID]
	}
	if key.Name == "" {
		return nil
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if strings.EqualFold(byID[id].Key.Name, key.Name) {
			return byID[id]
		}
	}
	return nil
}

func (c *Client) put(state *domain.CurrentState) {
	if c.resources[state.Kind] == nil {
		c.resources[state.Kind] = make(map[string]*domain.CurrentState)
	}
	c.resources[state.Kind][state.Key.ID] = state
}

func notFound(kind domain.ResourceKind, key domain.ResourceKey) error {
	return errors.New(errors.CodeNotFound, fmt.Sprintf("%s %s not found", kind, key))
}
