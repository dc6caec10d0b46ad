package log

import (
	"bytes"
	"context"
	"testing"

	apperrors "github.com/olusolaa/arrayctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerJSONIncludesErrorCode(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLoggerWithWriter(Config{Level: LevelDebug, Format: FormatJSON}, &buf)
	require.NoError(t, err)

	logger.WithFields(map[string]any{"resource_kind": "NTP"}).
		Errorf(context.Background(), apperrors.New(apperrors.CodeTransport, "connection refused"), "get %s failed", "NTP1")

	out := buf.String()
	assert.Contains(t, out, `"error_code":"TRANSPORT_ERROR"`)
	assert.Contains(t, out, `"resource_kind":"NTP"`)
	assert.Contains(t, out, "get NTP1 failed")
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLoggerWithWriter(Config{Level: LevelWarn, Format: FormatText}, &buf)
	require.NoError(t, err)

	logger.Debugf(context.Background(), "hidden")
	logger.Infof(context.Background(), "hidden too")
	logger.Warnf(context.Background(), "visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestNilWriterRejected(t *testing.T) {
	_, err := NewLoggerWithWriter(DefaultConfig(), nil)
	assert.Error(t, err)
}
