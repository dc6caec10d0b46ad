package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsExistingClassification(t *testing.T) {
	inner := New(CodeNotFound, "ntp NTP2 not found")
	wrapped := Wrap(fmt.Errorf("lookup: %w", inner), CodeTransport, "array call failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, CodeNotFound, wrapped.Code)
	assert.Nil(t, Wrap(nil, CodeTransport, "nothing"))
}

func TestReclassify(t *testing.T) {
	inner := New(CodeTransport, "connection refused")
	out := Reclassify(inner, CodeJobFailed, "job failed")

	assert.Equal(t, CodeJobFailed, out.Code)
	assert.True(t, stderrors.Is(out, inner))
	assert.Contains(t, out.InternalDetails, "connection refused")
}

func TestGetUserFacingMessage(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		err := NewUserFacing(CodeConfigValidation, "bad config", "fix it")
		msg, suggestion, ok := GetUserFacingMessage(err)
		assert.True(t, ok)
		assert.Equal(t, "bad config", msg)
		assert.Equal(t, "fix it", suggestion)
	})

	t.Run("nested", func(t *testing.T) {
		inner := NewUserFacing(CodeManifestParseError, "manifest broken", "check line 3")
		outer := &AppError{Code: CodeInternal, Message: "load failed", WrappedError: inner}
		msg, _, ok := GetUserFacingMessage(outer)
		assert.True(t, ok)
		assert.Equal(t, "manifest broken", msg)
	})

	t.Run("generic", func(t *testing.T) {
		_, _, ok := GetUserFacingMessage(stderrors.New("plain"))
		assert.False(t, ok)
	})
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		in   string
		want Code
		ok   bool
	}{
		{"NotFound", CodeNotFound, true},
		{"not_found", CodeNotFound, true},
		{"UNSUPPORTED_OPERATION", CodeUnsupportedOperation, true},
		{"transport", CodeTransport, true},
		{"JobFailed", CodeJobFailed, true},
		{"timeout", CodeTimeout, true},
		{"ValidationError", CodeValidation, true},
		{"bogus", CodeUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCode(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithDetail(t *testing.T) {
	err := New(CodeJobFailed, "job failed").WithDetail("vendor_code", "0xE0101001000C")
	assert.Equal(t, "0xE0101001000C", err.Details["vendor_code"])
	assert.True(t, Is(err, CodeJobFailed))
	assert.True(t, CodeJobFailed.IsTaxonomy())
	assert.False(t, CodeInternal.IsTaxonomy())
}

type statusErr int

func (s statusErr) Error() string       { return "status" }
func (s statusErr) HTTPStatusCode() int { return int(s) }

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "throttled", err: statusErr(429), want: true},
		{name: "request timeout", err: statusErr(408), want: true},
		{name: "unavailable", err: statusErr(503), want: true},
		{name: "not implemented", err: statusErr(501), want: false},
		{name: "bad request", err: statusErr(400), want: false},
		{name: "network", err: &net.OpError{Op: "dial", Err: stderrors.New("refused")}, want: true},
		{name: "cancelled", err: context.Canceled, want: false},
		{name: "plain", err: stderrors.New("boom"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Retryable(tt.err))
		})
	}
}
