package compare

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/olusolaa/arrayctl/pkg/convert"
	"github.com/olusolaa/arrayctl/pkg/reflectutil"
)

// Options controls how two field values are compared.
type Options struct {
	// Ordered makes list comparison order-sensitive.
	Ordered bool
	// CaseInsensitive folds case of strings and list elements.
	CaseInsensitive bool
}

// Values reports whether desired and current are equal under opts. Lists are
// compared as sets unless opts.Ordered is set; scalars are coerced across
// numeric, boolean and string representations.
func Values(desired, current any, opts Options) (bool, error) {
	if isList(desired) || isList(current) {
		a, err := NormalizeList(desired, opts)
		if err != nil {
			return false, fmt.Errorf("desired value: %w", err)
		}
		b, err := NormalizeList(current, opts)
		if err != nil {
			return false, fmt.Errorf("current value: %w", err)
		}
		return cmp.Equal(a, b, cmpopts.EquateEmpty()), nil
	}

	if opts.CaseInsensitive {
		ds, dok := desired.(string)
		cs, cok := current.(string)
		if dok && cok {
			return strings.EqualFold(strings.TrimSpace(ds), strings.TrimSpace(cs)), nil
		}
	}
	return scalarsEqual(desired, current), nil
}

// NormalizeList renders a list value as canonical strings. Unordered lists
// are de-duplicated and sorted so set-equal inputs normalize identically.
func NormalizeList(v any, opts Options) ([]string, error) {
	if v != nil && !isList(v) {
		v = []any{v}
	}
	raw, err := convert.ToSliceOfString(v)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if opts.CaseInsensitive {
			s = strings.ToLower(s)
		}
		if !opts.Ordered {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
		}
		out = append(out, s)
	}
	if !opts.Ordered {
		sort.Strings(out)
	}
	return out, nil
}

func isList(v any) bool {
	return reflectutil.IsList(v)
}

// scalarsEqual coerces across the representations a manifest and the array
// use for the same value: 25, 25.0 and "25"; true and "true". Maps compare
// key by key and nested lists element by element.
func scalarsEqual(desired, current any) bool {
	if desired == nil || current == nil {
		return desired == nil && current == nil
	}

	dm, dIsMap := desired.(map[string]any)
	cm, cIsMap := current.(map[string]any)
	if dIsMap || cIsMap {
		if !dIsMap || !cIsMap || len(dm) != len(cm) {
			return false
		}
		for k, dv := range dm {
			cv, ok := cm[k]
			if !ok || !scalarsEqual(dv, cv) {
				return false
			}
		}
		return true
	}

	if isList(desired) && isList(current) {
		dv, cv := reflect.ValueOf(desired), reflect.ValueOf(current)
		if dv.Len() != cv.Len() {
			return false
		}
		for i := 0; i < dv.Len(); i++ {
			if !scalarsEqual(dv.Index(i).Interface(), cv.Index(i).Interface()) {
				return false
			}
		}
		return true
	}

	_, dIsBool := desired.(bool)
	_, cIsBool := current.(bool)
	if dIsBool || cIsBool {
		db, dok := asBool(desired)
		cb, cok := asBool(current)
		return dok && cok && db == cb
	}

	dv := reflectutil.DerefValue(reflect.ValueOf(desired))
	cv := reflectutil.DerefValue(reflect.ValueOf(current))
	if reflectutil.IsNumberOrNumericString(dv) && reflectutil.IsNumberOrNumericString(cv) {
		df, _ := reflectutil.ToFloat64(dv)
		cf, _ := reflectutil.ToFloat64(cv)
		return math.Abs(df-cf) < 1e-9
	}

	ds, dIsString := desired.(string)
	cs, cIsString := current.(string)
	if dIsString && cIsString {
		return strings.TrimSpace(ds) == strings.TrimSpace(cs)
	}
	return reflect.DeepEqual(desired, current)
}

// asBool accepts real booleans and their string spellings.
func asBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return parsed, err == nil
	}
	return false, false
}
