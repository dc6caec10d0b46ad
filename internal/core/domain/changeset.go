package domain

import "github.com/olusolaa/arrayctl/internal/errors"

type Verdict string

const (
	VerdictNoOp        Verdict = "no-op"
	VerdictCreate      Verdict = "create"
	VerdictModify      Verdict = "modify"
	VerdictDelete      Verdict = "delete"
	VerdictUnsupported Verdict = "unsupported"
)

func (v Verdict) Mutating() bool {
	return v == VerdictCreate || v == VerdictModify || v == VerdictDelete
}

type FieldChange struct {
	Field string `json:"field"`
	Old   any    `json:"old"`
	New   any    `json:"new"`
}

// ChangeSet holds the field changes sorted by field name plus the verdict.
// For VerdictUnsupported, Code and Message describe the refusal.
type ChangeSet struct {
	Verdict Verdict
	Changes []FieldChange
	Message string
	Code    errors.Code
}

func (c ChangeSet) Empty() bool {
	return len(c.Changes) == 0
}

// Fields returns the changes as field -> new value, the payload of a
// create or modify call.
func (c ChangeSet) Fields() map[string]any {
	out := make(map[string]any, len(c.Changes))
	for _, ch := range c.Changes {
		out[ch.Field] = ch.New
	}
	return out
}
