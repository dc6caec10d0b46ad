package service

import (
	"fmt"
	"sort"
	"sync"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/errors"
)

// PolicyRegistry holds the mutability policy of every managed kind.
type PolicyRegistry struct {
	mu       sync.RWMutex
	policies map[domain.ResourceKind]domain.KindPolicy
}

func NewPolicyRegistry() *PolicyRegistry {
	return &PolicyRegistry{
		policies: make(map[domain.ResourceKind]domain.KindPolicy),
	}
}

// NewDefaultPolicyRegistry returns a registry loaded with the built-in table.
func NewDefaultPolicyRegistry() *PolicyRegistry {
	r := NewPolicyRegistry()
	for _, p := range domain.DefaultPolicies() {
		// built-in policies are unique per kind
		_ = r.RegisterPolicy(p)
	}
	return r
}

func (r *PolicyRegistry) RegisterPolicy(policy domain.KindPolicy) error {
	if policy.Kind == "" {
		return errors.New(errors.CodeInternal, "policy kind cannot be empty")
	}
	if len(policy.KeyFields) == 0 {
		return errors.New(errors.CodeInternal, fmt.Sprintf("policy for kind '%s' declares no key fields", policy.Kind))
	}
	if !policy.AllowCreate && !policy.CreateDeniedCode.IsTaxonomy() {
		return errors.New(errors.CodeInternal, fmt.Sprintf("policy for kind '%s' forbids creation without a failure code", policy.Kind))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.policies[policy.Kind]; exists {
		return errors.New(errors.CodeInternal, fmt.Sprintf("policy for kind '%s' already registered", policy.Kind))
	}
	r.policies[policy.Kind] = policy
	return nil
}

func (r *PolicyRegistry) Policy(kind domain.ResourceKind) (domain.KindPolicy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	policy, exists := r.policies[kind]
	if !exists {
		return domain.KindPolicy{}, errors.New(errors.CodeValidation, fmt.Sprintf("resource kind '%s' is not managed", kind))
	}
	return policy, nil
}

func (r *PolicyRegistry) Kinds() []domain.ResourceKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]domain.ResourceKind, 0, len(r.policies))
	for k := range r.policies {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
