// Package reflectutil inspects the loosely typed values that arrive from
// manifests (YAML, JSON, HCL) and array responses.
package reflectutil

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// DerefValue follows pointers and interfaces down to the concrete value.
func DerefValue(v reflect.Value) reflect.Value {
	for (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

// IsEmptyValue reports whether v is nil, an empty string or collection, or
// the zero value of its type.
func IsEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	val := DerefValue(reflect.ValueOf(v))
	switch val.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Chan, reflect.String:
		return val.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return val.IsNil()
	case reflect.Invalid:
		return true
	default:
		return val.IsZero()
	}
}

// IsList reports whether v holds a slice or array.
func IsList(v any) bool {
	if v == nil {
		return false
	}
	k := DerefValue(reflect.ValueOf(v)).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// IsCollection is IsList extended to maps.
func IsCollection(v any) bool {
	if IsList(v) {
		return true
	}
	return v != nil && DerefValue(reflect.ValueOf(v)).Kind() == reflect.Map
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// IsNumberOrNumericString accepts numbers and strings such as "25" or " 1.5 ".
// The array reports some numeric settings as strings.
func IsNumberOrNumericString(v reflect.Value) bool {
	_, ok := ToFloat64(v)
	return ok
}

// ToFloat64 converts numbers and finite numeric strings.
func ToFloat64(v reflect.Value) (float64, bool) {
	v = DerefValue(v)
	if isNumberKind(v.Kind()) {
		switch v.Kind() {
		case reflect.Float32, reflect.Float64:
			return v.Float(), true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return float64(v.Uint()), true
		default:
			return float64(v.Int()), true
		}
	}
	if v.Kind() != reflect.String {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
