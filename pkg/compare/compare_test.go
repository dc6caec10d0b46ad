package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValues(t *testing.T) {
	tests := []struct {
		name    string
		desired any
		current any
		opts    Options
		want    bool
	}{
		{"set equal ignoring order", []any{"XX.XX.XX.XX", "YY.YY.YY.YY"}, []string{"YY.YY.YY.YY", "XX.XX.XX.XX"}, Options{}, true},
		{"set equal ignoring duplicates", []string{"a", "a", "b"}, []string{"b", "a"}, Options{}, true},
		{"ordered list differs on order", []string{"10.0.0.1", "10.0.0.2"}, []string{"10.0.0.2", "10.0.0.1"}, Options{Ordered: true}, false},
		{"ordered list equal", []string{"10.0.0.1", "10.0.0.2"}, []any{"10.0.0.1", "10.0.0.2"}, Options{Ordered: true}, true},
		{"set differs", []string{"ZZ.ZZ.ZZ.ZZ"}, []string{"XX.XX.XX.XX", "YY.YY.YY.YY"}, Options{}, false},
		{"case folded list", []string{"NTP.Example.com"}, []string{"ntp.example.com"}, Options{CaseInsensitive: true}, true},
		{"case sensitive list", []string{"NTP.Example.com"}, []string{"ntp.example.com"}, Options{}, false},
		{"empty list equals nil", []string{}, nil, Options{}, true},
		{"scalar against single element list", "a", []string{"a"}, Options{}, true},
		{"int vs float", 25, float64(25), Options{}, true},
		{"int vs numeric string", 25, "25", Options{}, true},
		{"bool vs string", true, "true", Options{}, true},
		{"case folded scalar", "Admin@Example.com", "admin@example.com", Options{CaseInsensitive: true}, true},
		{"case sensitive scalar", "Admin", "admin", Options{}, false},
		{"nested maps", map[string]any{"a": 1}, map[string]any{"a": float64(1)}, Options{}, true},
		{"nil vs value", nil, "x", Options{}, false},
		{"numeric strings are not booleans", "1", "true", Options{}, false},
		{"bool vs unparsable string", true, "yes", Options{}, false},
		{"padded strings", " One_Hour ", "One_Hour", Options{}, true},
		{"map missing key", map[string]any{"a": 1}, map[string]any{"b": 1}, Options{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Values(tt.desired, tt.current, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeList(t *testing.T) {
	got, err := NormalizeList([]any{"B", "a", float64(3), "b"}, Options{CaseInsensitive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "a", "b"}, got)

	ordered, err := NormalizeList([]any{"B", "a"}, Options{Ordered: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "a"}, ordered)
}
