package convert

import (
	"fmt"
	"reflect"
	"strconv"
)

var errNotSlice = fmt.Errorf("input data is not a slice")

// ToSliceOfString converts various slice types to []string.
// Handles []string and []any (converting elements via Scalar).
// Returns an error if the input is not a slice.
func ToSliceOfString(data any) ([]string, error) {
	if data == nil {
		return []string{}, nil
	}

	if slice, ok := data.([]string); ok {
		return slice, nil
	}

	val := reflect.ValueOf(data)
	if val.Kind() != reflect.Slice && val.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: input type %T", errNotSlice, data)
	}

	result := make([]string, 0, val.Len())
	for i := 0; i < val.Len(); i++ {
		result = append(result, Scalar(val.Index(i).Interface()))
	}
	return result, nil
}

// Scalar renders a scalar as a string. Whole floats print without a
// fractional part so 25 and 25.0 render alike.
func Scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", v)
	}
}
