package json

import (
	"bytes"
	"context"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/errors"
	"github.com/olusolaa/arrayctl/internal/log"
)

func TestReportDocument(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewReporterWithWriter(Config{}, log.Discard(), &buf)
	require.NoError(t, err)

	failure := errors.New(errors.CodeJobFailed, "job job-9 failed").WithDetail("job_id", "job-9")
	outcomes := []domain.Outcome{
		{Kind: domain.KindDNS, Key: domain.ResourceKey{ID: "DNS1"}, Verdict: domain.VerdictNoOp},
		{
			Kind: domain.KindNTP, Key: domain.ResourceKey{ID: "NTP1"}, Verdict: domain.VerdictModify, Changed: true,
			Changes: []domain.FieldChange{{Field: "addresses", Old: []any{"a"}, New: []any{"b"}}},
			State:   &domain.CurrentState{Kind: domain.KindNTP, Key: domain.ResourceKey{ID: "NTP1"}, Fields: map[string]any{"addresses": []any{"b"}}},
		},
		{Kind: domain.KindSnapshotRule, Key: domain.ResourceKey{Name: "daily"}, Verdict: domain.VerdictCreate, Changed: true, Failure: failure},
	}
	require.NoError(t, r.Report(context.Background(), outcomes))

	var doc jsonReport
	require.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, jsonSummary{Total: 3, OK: 1, Changed: 1, Failed: 1}, doc.Summary)
	require.Len(t, doc.Items, 3)

	assert.Equal(t, "DNS1", doc.Items[0].ID)
	assert.Nil(t, doc.Items[0].Error)

	assert.Equal(t, "addresses", doc.Items[1].Changes[0].Field)
	assert.Equal(t, []any{"b"}, doc.Items[1].State["addresses"])

	require.NotNil(t, doc.Items[2].Error)
	assert.Equal(t, "JOB_FAILED", doc.Items[2].Error.Code)
	assert.Equal(t, "job-9", doc.Items[2].Error.Details["job_id"])
	assert.True(t, doc.Items[2].Changed)
}

func TestReportCancelled(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewReporterWithWriter(Config{}, log.Discard(), &buf)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = r.Report(ctx, []domain.Outcome{{Kind: domain.KindDNS}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}
