package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalar(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"NTP1", "NTP1"},
		{float64(25), "25"},
		{1.5, "1.5"},
		{int64(7), "7"},
		{true, "true"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Scalar(tt.in), "%v", tt.in)
	}
}

func TestToSliceOfString(t *testing.T) {
	got, err := ToSliceOfString([]any{"10.0.0.1", float64(53)})
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "53"}, got)

	got, err = ToSliceOfString(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ToSliceOfString("10.0.0.1")
	assert.ErrorIs(t, err, errNotSlice)
}
