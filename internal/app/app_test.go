package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/arrayctl/internal/adapters/array/memory"
	"github.com/olusolaa/arrayctl/internal/config"
	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/errors"
)

const manifestYAML = `
resources:
  - kind: NTP
    id: NTP1
    fields:
      addresses: [10.0.0.1, 10.0.0.2]
  - kind: SnapshotRule
    name: hourly
    fields:
      interval: One_Hour
      desired_retention: 24
  - kind: NTP
    id: NTP2
    fields:
      addresses: [10.0.0.3]
`

func testViper(t *testing.T, settings map[string]any) *viper.Viper {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	v.Set("settings.simulate", true)
	v.Set("settings.reporter", "json")
	for k, val := range settings {
		v.Set(k, val)
	}
	return v
}

func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "array.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifestYAML), 0o600))
	return path
}

func build(t *testing.T, v *viper.Viper, client *memory.Client, out io.Writer) *Application {
	t.Helper()
	opts := Options{Out: out, LogOut: io.Discard}
	if client != nil {
		opts.Client = client
	}
	a, err := BuildApplicationFromViper(context.Background(), v, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	client := memory.New(memory.WithSeed(memory.FactorySeed()...))
	path := writeManifest(t)
	journalPath := filepath.Join(t.TempDir(), "journal.db")

	var out bytes.Buffer
	first := build(t, testViper(t, map[string]any{"journal.path": journalPath}), client, &out)
	outcomes, err := first.Apply(ctx, []string{path})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.Equal(t, Summary{Changed: 2, Failed: 1}, Summarize(outcomes))
	assert.Equal(t, domain.VerdictModify, outcomes[0].Verdict)
	assert.Equal(t, domain.VerdictCreate, outcomes[1].Verdict)
	assert.Equal(t, errors.CodeNotFound, outcomes[2].FailureCode())

	var report struct {
		Summary struct {
			Changed int `json:"changed"`
			Failed  int `json:"failed"`
		} `json:"summary"`
	}
	require.NoError(t, jsoniter.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 2, report.Summary.Changed)
	assert.Equal(t, 1, report.Summary.Failed)
	require.NoError(t, first.Close())

	second := build(t, testViper(t, map[string]any{"journal.path": journalPath}), client, io.Discard)
	outcomes, err = second.Apply(ctx, []string{path})
	require.NoError(t, err)
	assert.Equal(t, Summary{OK: 2, Failed: 1}, Summarize(outcomes))

	entries, err := second.History(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 6)
	assert.NotEqual(t, entries[0].RunID, entries[5].RunID)
}

func TestApplyCheckModeLeavesArrayUntouched(t *testing.T) {
	client := memory.New(memory.WithSeed(memory.FactorySeed()...))
	a := build(t, testViper(t, map[string]any{"settings.check_mode": true}), client, io.Discard)

	outcomes, err := a.Apply(context.Background(), []string{writeManifest(t)})
	require.NoError(t, err)
	assert.Equal(t, "modify would be performed (check mode)", outcomes[0].Message)
	assert.True(t, outcomes[1].Changed)
	assert.Zero(t, client.Calls(memory.OpModify))
	assert.Zero(t, client.Calls(memory.OpCreate))
}

func TestApplyAgainstSimulatedArrayWithJobs(t *testing.T) {
	a := build(t, testViper(t, map[string]any{
		"array.async":        true,
		"jobs.poll_interval": "1ms",
	}), nil, io.Discard)

	outcomes, err := a.Apply(context.Background(), []string{writeManifest(t)})
	require.NoError(t, err)
	require.NotNil(t, outcomes[0].Job)
	assert.Equal(t, domain.JobCompleted, outcomes[0].Job.Phase)
	assert.True(t, outcomes[0].Changed)

	rec, err := a.Job(context.Background(), outcomes[0].Job.ID, false)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, rec.Phase)
}

func TestHistoryWithoutJournal(t *testing.T) {
	a := build(t, testViper(t, nil), nil, io.Discard)
	_, err := a.History(context.Background(), 5)
	assert.True(t, errors.Is(err, errors.CodeJournalError))
}

func TestJobRequiresID(t *testing.T) {
	a := build(t, testViper(t, nil), nil, io.Discard)
	_, err := a.Job(context.Background(), "", true)
	assert.True(t, errors.Is(err, errors.CodeValidation))
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	v := testViper(t, map[string]any{"settings.simulate": false})
	_, err := BuildApplicationFromViper(context.Background(), v, Options{Out: io.Discard, LogOut: io.Discard})
	assert.True(t, errors.Is(err, errors.CodeConfigValidation))
}
