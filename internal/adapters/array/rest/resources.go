package rest

import (
	"sort"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/pkg/convert"
)

// resource describes where a kind lives in the REST API and how its fields
// are named on the wire.
type resource struct {
	path string
	// named kinds carry a user-visible name attribute.
	named bool
	// wireNames maps field names to attribute names where they differ.
	wireNames map[string]string
}

var resources = map[domain.ResourceKind]resource{
	domain.KindNTP:                  {path: "ntp"},
	domain.KindSMTP:                 {path: "smtp_config"},
	domain.KindDNS:                  {path: "dns"},
	domain.KindRemoteSupportContact: {path: "remote_support_contact"},
	domain.KindSnapshotRule:         {path: "snapshot_rule", named: true},
	domain.KindProtectionPolicy: {
		path:  "policy",
		named: true,
		wireNames: map[string]string{
			domain.PolicySnapshotRulesKey:    "snapshot_rule_ids",
			domain.PolicyReplicationRulesKey: "replication_rule_ids",
		},
	},
	domain.KindNetwork: {path: "network", named: true},
}

func (r resource) toWire(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if w, ok := r.wireNames[k]; ok {
			k = w
		}
		out[k] = v
	}
	return out
}

// fromWire builds a CurrentState, keeping only the fields it knows.
func (r resource) fromWire(kind domain.ResourceKind, managed []string, attrs map[string]any) *domain.CurrentState {
	state := &domain.CurrentState{Kind: kind, Fields: make(map[string]any, len(managed))}
	if id, ok := attrs[domain.KeyID]; ok && id != nil {
		state.Key.ID = convert.Scalar(id)
	}
	if name, ok := attrs[domain.KeyName].(string); ok {
		state.Key.Name = name
	}
	for _, f := range managed {
		w := f
		if mapped, ok := r.wireNames[f]; ok {
			w = mapped
		}
		if v, ok := attrs[w]; ok {
			state.Fields[f] = v
		}
	}
	return state
}

// selectList is the PowerStore-style select parameter listing every
// attribute the client reads back.
func (r resource) selectList(managed []string) []string {
	var attrs []string
	for _, f := range managed {
		if w, ok := r.wireNames[f]; ok {
			f = w
		}
		attrs = append(attrs, f)
	}
	sort.Strings(attrs)
	head := []string{domain.KeyID}
	if r.named {
		head = append(head, domain.KeyName)
	}
	return append(head, attrs...)
}
