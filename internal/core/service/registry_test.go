package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/errors"
)

func TestDefaultPolicyRegistry(t *testing.T) {
	r := NewDefaultPolicyRegistry()
	assert.ElementsMatch(t, domain.AllKinds(), r.Kinds())

	p, err := r.Policy(domain.KindSnapshotRule)
	require.NoError(t, err)
	assert.True(t, p.AllowCreate)
	assert.True(t, p.AllowDelete)

	_, err = r.Policy("Volume")
	assert.True(t, errors.Is(err, errors.CodeValidation))
}

func TestRegisterPolicyRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		policy domain.KindPolicy
	}{
		{name: "empty kind", policy: domain.KindPolicy{KeyFields: []string{domain.KeyID}, AllowCreate: true}},
		{name: "no key fields", policy: domain.KindPolicy{Kind: "Volume", AllowCreate: true}},
		{name: "create denied without code", policy: domain.KindPolicy{Kind: "Volume", KeyFields: []string{domain.KeyID}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewPolicyRegistry().RegisterPolicy(tt.policy)
			assert.True(t, errors.Is(err, errors.CodeInternal))
		})
	}
}

func TestRegisterPolicyDuplicate(t *testing.T) {
	r := NewPolicyRegistry()
	p := domain.KindPolicy{Kind: "Volume", KeyFields: []string{domain.KeyName}, AllowCreate: true}
	require.NoError(t, r.RegisterPolicy(p))
	assert.Error(t, r.RegisterPolicy(p))
}
