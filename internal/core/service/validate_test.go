package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/errors"
)

func TestSpecValidator(t *testing.T) {
	registry := NewDefaultPolicyRegistry()
	v := NewSpecValidator()

	tests := []struct {
		name    string
		spec    domain.ResourceSpec
		wantErr string
	}{
		{
			name: "valid ntp with mixed hosts",
			spec: domain.ResourceSpec{Kind: domain.KindNTP, Key: domain.ResourceKey{ID: "NTP1"}, State: domain.StatePresent,
				Fields: map[string]any{domain.NTPAddressesKey: []any{"10.0.0.1", "Pool.NTP.org"}}},
		},
		{
			name:    "ntp addressed by name",
			spec:    domain.ResourceSpec{Kind: domain.KindNTP, Key: domain.ResourceKey{Name: "primary"}, State: domain.StatePresent},
			wantErr: "cannot be identified by name",
		},
		{
			name:    "missing key",
			spec:    domain.ResourceSpec{Kind: domain.KindNTP, State: domain.StatePresent},
			wantErr: "requires one of: id",
		},
		{
			name:    "bad state",
			spec:    domain.ResourceSpec{Kind: domain.KindNTP, Key: domain.ResourceKey{ID: "NTP1"}, State: "gone"},
			wantErr: "state 'gone'",
		},
		{
			name: "unmanaged field",
			spec: domain.ResourceSpec{Kind: domain.KindNTP, Key: domain.ResourceKey{ID: "NTP1"}, State: domain.StatePresent,
				Fields: map[string]any{"color": "blue"}},
			wantErr: "field 'color' is not managed",
		},
		{
			name: "too many dns servers",
			spec: domain.ResourceSpec{Kind: domain.KindDNS, Key: domain.ResourceKey{ID: "DNS1"}, State: domain.StatePresent,
				Fields: map[string]any{domain.DNSAddressesKey: []any{"1.1.1.1", "8.8.8.8", "9.9.9.9", "8.8.4.4"}}},
			wantErr: "fails 'max' rule",
		},
		{
			name: "smtp port out of range",
			spec: domain.ResourceSpec{Kind: domain.KindSMTP, Key: domain.ResourceKey{ID: "0"}, State: domain.StatePresent,
				Fields: map[string]any{domain.SMTPPortKey: 70000}},
			wantErr: "field 'port'",
		},
		{
			name: "smtp port as numeric string",
			spec: domain.ResourceSpec{Kind: domain.KindSMTP, Key: domain.ResourceKey{ID: "0"}, State: domain.StatePresent,
				Fields: map[string]any{domain.SMTPPortKey: "25", domain.SMTPSourceEmailKey: "Array@Example.com"}},
		},
		{
			name: "number given a word",
			spec: domain.ResourceSpec{Kind: domain.KindSMTP, Key: domain.ResourceKey{ID: "0"}, State: domain.StatePresent,
				Fields: map[string]any{domain.SMTPPortKey: "twenty-five"}},
			wantErr: "expected a number",
		},
		{
			name: "snapshot interval and time of day together",
			spec: domain.ResourceSpec{Kind: domain.KindSnapshotRule, Key: domain.ResourceKey{Name: "hourly"}, State: domain.StatePresent,
				Fields: map[string]any{domain.SnapshotIntervalKey: "One_Hour", domain.SnapshotTimeOfDayKey: "10:30"}},
			wantErr: "mutually exclusive",
		},
		{
			name: "snapshot days are case-insensitive",
			spec: domain.ResourceSpec{Kind: domain.KindSnapshotRule, Key: domain.ResourceKey{Name: "daily"}, State: domain.StatePresent,
				Fields: map[string]any{domain.SnapshotTimeOfDayKey: "10:30", domain.SnapshotDaysOfWeekKey: []any{"Monday", "FRIDAY"}}},
		},
		{
			name: "snapshot bad time of day",
			spec: domain.ResourceSpec{Kind: domain.KindSnapshotRule, Key: domain.ResourceKey{Name: "daily"}, State: domain.StatePresent,
				Fields: map[string]any{domain.SnapshotTimeOfDayKey: "25:00"}},
			wantErr: "fails 'datetime' rule",
		},
		{
			name: "null value",
			spec: domain.ResourceSpec{Kind: domain.KindNetwork, Key: domain.ResourceKey{Name: "mgmt"}, State: domain.StatePresent,
				Fields: map[string]any{domain.NetworkGatewayKey: nil}},
			wantErr: "cannot be null",
		},
		{
			name: "list given to a scalar field",
			spec: domain.ResourceSpec{Kind: domain.KindNetwork, Key: domain.ResourceKey{Name: "mgmt"}, State: domain.StatePresent,
				Fields: map[string]any{domain.NetworkGatewayKey: []any{"10.0.0.1"}}},
			wantErr: "expected a scalar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := registry.Policy(tt.spec.Kind)
			require.NoError(t, err)

			err = v.Validate(context.Background(), policy, tt.spec)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.CodeValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
