package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/errors"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "state", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return j
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	j := openTemp(t)

	require.NoError(t, j.Record(ctx, "run-1", domain.Outcome{
		Kind:    domain.KindNTP,
		Key:     domain.ResourceKey{ID: "NTP1"},
		Changed: true,
		Verdict: domain.VerdictModify,
		Message: "modify of NTP NTP1 succeeded",
		Changes: []domain.FieldChange{{Field: "addresses", Old: "10.0.0.1", New: "10.0.0.2"}},
	}))
	require.NoError(t, j.Record(ctx, "run-1", domain.Outcome{
		Kind:    domain.KindNTP,
		Key:     domain.ResourceKey{ID: "NTP2"},
		Verdict: domain.VerdictUnsupported,
		Failure: errors.New(errors.CodeNotFound, "NTP instance NTP2 not found"),
	}))

	entries, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	latest := entries[0]
	assert.Equal(t, "NTP2", latest.Key)
	assert.Equal(t, string(errors.CodeNotFound), latest.ErrorCode)
	assert.Equal(t, "NTP instance NTP2 not found", latest.Message)
	assert.False(t, latest.Changed)
	assert.Empty(t, latest.Changes)

	first := entries[1]
	assert.Equal(t, "run-1", first.RunID)
	assert.Equal(t, domain.KindNTP, first.Kind)
	assert.Equal(t, domain.VerdictModify, first.Verdict)
	assert.True(t, first.Changed)
	assert.Empty(t, first.ErrorCode)
	assert.Equal(t, []domain.FieldChange{{Field: "addresses", Old: "10.0.0.1", New: "10.0.0.2"}}, first.Changes)
	assert.True(t, first.RecordedAt.Before(latest.RecordedAt))
}

func TestRecentLimit(t *testing.T) {
	ctx := context.Background()
	j := openTemp(t)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, j.Record(ctx, "run-2", domain.Outcome{
			Kind: domain.KindSnapshotRule, Key: domain.ResourceKey{Name: id}, Verdict: domain.VerdictNoOp,
		}))
	}

	entries, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Key)
	assert.Equal(t, "b", entries[1].Key)
}

func TestReopenKeepsEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Record(ctx, "run-3", domain.Outcome{Kind: domain.KindDNS, Key: domain.ResourceKey{ID: "DNS1"}, Verdict: domain.VerdictNoOp}))
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()
	entries, err := j.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "DNS1", entries[0].Key)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	assert.True(t, errors.Is(err, errors.CodeJournalError))
}
