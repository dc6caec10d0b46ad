package reflectutil

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmptyValue(t *testing.T) {
	var nilSlice []string
	s := ""
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"pointer to empty string", &s, true},
		{"nil slice", nilSlice, true},
		{"empty list", []any{}, true},
		{"zero number", 0, true},
		{"false", false, true},
		{"text", "One_Hour", false},
		{"list", []any{"a"}, false},
		{"number", int64(24), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEmptyValue(tt.value))
		})
	}
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		value  any
		want   float64
		wantOK bool
	}{
		{int64(25), 25, true},
		{uint8(3), 3, true},
		{1.5, 1.5, true},
		{" 587 ", 587, true},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"pool.ntp.org", 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToFloat64(reflect.ValueOf(tt.value))
		assert.Equal(t, tt.wantOK, ok, "%v", tt.value)
		assert.Equal(t, tt.want, got, "%v", tt.value)
	}
	assert.True(t, IsNumberOrNumericString(reflect.ValueOf("10")))
}

func TestCollections(t *testing.T) {
	assert.True(t, IsList([]string{"a"}))
	assert.True(t, IsList([2]int{}))
	assert.False(t, IsList(map[string]any{}))
	assert.False(t, IsList(nil))
	assert.True(t, IsCollection(map[string]any{}))
	assert.False(t, IsCollection("a"))
}
