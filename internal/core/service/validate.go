package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/errors"
	"github.com/olusolaa/arrayctl/pkg/compare"
	"github.com/olusolaa/arrayctl/pkg/convert"
	"github.com/olusolaa/arrayctl/pkg/reflectutil"
)

// SpecValidator checks a ResourceSpec against its kind policy before any
// array call is made.
type SpecValidator struct {
	validate *validator.Validate
}

func NewSpecValidator() *SpecValidator {
	return &SpecValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate returns a VALIDATION_ERROR listing every problem found, or nil.
func (v *SpecValidator) Validate(ctx context.Context, policy domain.KindPolicy, spec domain.ResourceSpec) error {
	var problems []string

	if spec.Kind != policy.Kind {
		problems = append(problems, fmt.Sprintf("kind '%s' does not match policy '%s'", spec.Kind, policy.Kind))
	}
	if !spec.State.Valid() {
		problems = append(problems, fmt.Sprintf("state '%s' must be one of present, absent", spec.State))
	}
	problems = append(problems, v.checkKey(policy, spec.Key)...)

	names := make([]string, 0, len(spec.Fields))
	for name := range spec.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		schema, managed := policy.Fields[name]
		if !managed {
			problems = append(problems, fmt.Sprintf("field '%s' is not managed for %s", name, policy.Kind))
			continue
		}
		if err := v.checkField(schema, spec.Fields[name]); err != nil {
			problems = append(problems, fmt.Sprintf("field '%s': %v", name, err))
		}
	}

	for _, group := range policy.Exclusive {
		var set []string
		for _, f := range group {
			if val, ok := spec.Fields[f]; ok && !reflectutil.IsEmptyValue(val) {
				set = append(set, f)
			}
		}
		if len(set) > 1 {
			problems = append(problems, fmt.Sprintf("fields %s are mutually exclusive", strings.Join(set, ", ")))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New(errors.CodeValidation,
		fmt.Sprintf("invalid %s spec %s: %s", policy.Kind, spec.Key, strings.Join(problems, "; "))).
		WithDetail("problems", problems)
}

func (v *SpecValidator) checkKey(policy domain.KindPolicy, key domain.ResourceKey) []string {
	if key.IsZero() {
		return []string{fmt.Sprintf("%s requires one of: %s", policy.Kind, strings.Join(policy.KeyFields, ", "))}
	}
	var problems []string
	if key.ID != "" && !policy.AcceptsKey(domain.KeyID) {
		problems = append(problems, fmt.Sprintf("%s cannot be identified by id", policy.Kind))
	}
	if key.Name != "" && !policy.AcceptsKey(domain.KeyName) {
		problems = append(problems, fmt.Sprintf("%s cannot be identified by name", policy.Kind))
	}
	return problems
}

func (v *SpecValidator) checkField(schema domain.FieldSchema, value any) error {
	normalized, err := normalizeForValidation(schema, value)
	if err != nil {
		return err
	}
	if schema.Validate == "" {
		return nil
	}
	if err := v.validate.Var(normalized, schema.Validate); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("value %v fails '%s' rule", fe.Value(), fe.Tag())
		}
		return err
	}
	return nil
}

// normalizeForValidation coerces a manifest value into the Go type its
// validator tag expects: []string for lists, float64 for numbers.
func normalizeForValidation(schema domain.FieldSchema, value any) (any, error) {
	if value == nil {
		return nil, fmt.Errorf("value cannot be null")
	}
	switch schema.Type {
	case domain.FieldList:
		return compare.NormalizeList(value, compare.Options{Ordered: true, CaseInsensitive: schema.CaseInsensitive})
	case domain.FieldNumber:
		f, ok := reflectutil.ToFloat64(reflect.ValueOf(value))
		if !ok {
			return nil, fmt.Errorf("expected a number, got %T", value)
		}
		return f, nil
	case domain.FieldBool:
		switch t := value.(type) {
		case bool:
			return t, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(t))
			if err != nil {
				return nil, fmt.Errorf("expected a boolean, got %q", t)
			}
			return b, nil
		}
		return nil, fmt.Errorf("expected a boolean, got %T", value)
	default:
		if reflectutil.IsCollection(value) {
			return nil, fmt.Errorf("expected a scalar, got %T", value)
		}
		s := strings.TrimSpace(convert.Scalar(value))
		if schema.CaseInsensitive {
			s = strings.ToLower(s)
		}
		return s, nil
	}
}
