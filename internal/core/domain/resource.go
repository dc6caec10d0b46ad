package domain

import (
	"fmt"
	"strings"
)

type LifecycleState string

const (
	StatePresent LifecycleState = "present"
	StateAbsent  LifecycleState = "absent"
)

func (s LifecycleState) Valid() bool {
	return s == StatePresent || s == StateAbsent
}

// ResourceKey identifies one remote resource. Which member is meaningful
// depends on the kind's policy.
type ResourceKey struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

func (k ResourceKey) IsZero() bool {
	return strings.TrimSpace(k.ID) == "" && strings.TrimSpace(k.Name) == ""
}

// String prefers the id, which is what the array reports in its messages.
func (k ResourceKey) String() string {
	switch {
	case k.ID != "" && k.Name != "":
		return fmt.Sprintf("%s (%s)", k.ID, k.Name)
	case k.ID != "":
		return k.ID
	default:
		return k.Name
	}
}

// ResourceSpec is the desired state of one resource. Fields not present in
// the map are left unmanaged.
type ResourceSpec struct {
	Kind   ResourceKind
	Key    ResourceKey
	Fields map[string]any
	State  LifecycleState
	// Source records where the spec was declared, e.g. "ntp.yaml:resources[0]".
	Source string
}

// CurrentState is a snapshot of a remote resource. A nil *CurrentState means
// the resource is absent.
type CurrentState struct {
	Kind   ResourceKind   `json:"kind"`
	Key    ResourceKey    `json:"key"`
	Fields map[string]any `json:"fields"`
}

// Clone returns a deep copy so a captured snapshot cannot be altered through
// a value handed to the caller.
func (c *CurrentState) Clone() *CurrentState {
	if c == nil {
		return nil
	}
	return &CurrentState{
		Kind:   c.Kind,
		Key:    c.Key,
		Fields: CloneFields(c.Fields),
	}
}

func CloneFields(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneFields(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}

// ApplyResult is what a mutating array call returns: a finalized state, a job
// handle for asynchronous work, or neither (a bare acknowledgement).
type ApplyResult struct {
	State *CurrentState
	Job   *JobHandle
}

func (r ApplyResult) IsAsync() bool {
	return r.Job != nil
}
