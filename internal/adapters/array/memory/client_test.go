package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/errors"
)

func TestGetResourceByIDAndName(t *testing.T) {
	c := New(WithSeed(FactorySeed()...))
	ctx := context.Background()

	ntp, err := c.GetResource(ctx, domain.KindNTP, domain.ResourceKey{ID: "NTP1"})
	require.NoError(t, err)
	require.NotNil(t, ntp)
	assert.Equal(t, []any{"pool.ntp.org"}, ntp.Fields[domain.NTPAddressesKey])

	nw, err := c.GetResource(ctx, domain.KindNetwork, domain.ResourceKey{Name: "default management network"})
	require.NoError(t, err)
	require.NotNil(t, nw)
	assert.Equal(t, "NW1", nw.Key.ID)

	missing, err := c.GetResource(ctx, domain.KindNTP, domain.ResourceKey{ID: "NTP2"})
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.Equal(t, 3, c.Calls(OpGet))
}

func TestReturnedStateIsACopy(t *testing.T) {
	c := New(WithSeed(FactorySeed()...))
	ctx := context.Background()

	got, err := c.GetResource(ctx, domain.KindNTP, domain.ResourceKey{ID: "NTP1"})
	require.NoError(t, err)
	got.Fields[domain.NTPAddressesKey] = []any{"tampered"}

	again := c.Snapshot(domain.KindNTP, domain.ResourceKey{ID: "NTP1"})
	assert.Equal(t, []any{"pool.ntp.org"}, again.Fields[domain.NTPAddressesKey])
}

func TestCreateModifyDeleteSync(t *testing.T) {
	c := New()
	ctx := context.Background()

	res, err := c.CreateResource(ctx, domain.KindSnapshotRule, map[string]any{
		domain.KeyName:             "hourly",
		domain.SnapshotIntervalKey: "One_Hour",
	})
	require.NoError(t, err)
	require.NotNil(t, res.State)
	assert.False(t, res.IsAsync())
	assert.Equal(t, "hourly", res.State.Key.Name)
	assert.NotContains(t, res.State.Fields, domain.KeyName)

	key := domain.ResourceKey{Name: "hourly"}
	_, err = c.CreateResource(ctx, domain.KindSnapshotRule, map[string]any{domain.KeyName: "hourly"})
	assert.True(t, errors.Is(err, errors.CodeValidation))

	res, err = c.ModifyResource(ctx, domain.KindSnapshotRule, key, map[string]any{domain.SnapshotDesiredRetentionKey: 48})
	require.NoError(t, err)
	assert.Equal(t, 48, res.State.Fields[domain.SnapshotDesiredRetentionKey])
	assert.Equal(t, "One_Hour", res.State.Fields[domain.SnapshotIntervalKey])

	res, err = c.DeleteResource(ctx, domain.KindSnapshotRule, key)
	require.NoError(t, err)
	assert.Nil(t, res.State)
	assert.Nil(t, c.Snapshot(domain.KindSnapshotRule, key))

	_, err = c.DeleteResource(ctx, domain.KindSnapshotRule, key)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestAsyncMutationCommitsOnCompletion(t *testing.T) {
	c := New(WithSeed(FactorySeed()...), WithAsync(domain.JobRunning, domain.JobCompleted))
	ctx := context.Background()
	key := domain.ResourceKey{ID: "NTP1"}

	res, err := c.ModifyResource(ctx, domain.KindNTP, key, map[string]any{domain.NTPAddressesKey: []any{"10.1.1.1"}})
	require.NoError(t, err)
	require.True(t, res.IsAsync())

	rec, err := c.GetJob(ctx, res.Job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobRunning, rec.Phase)
	assert.Equal(t, []any{"pool.ntp.org"}, c.Snapshot(domain.KindNTP, key).Fields[domain.NTPAddressesKey])

	rec, err = c.GetJob(ctx, res.Job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, rec.Phase)
	assert.Equal(t, "NTP1", rec.ResourceID)
	assert.Equal(t, []any{"10.1.1.1"}, c.Snapshot(domain.KindNTP, key).Fields[domain.NTPAddressesKey])

	rec, err = c.GetJob(ctx, res.Job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, rec.Phase)
}

func TestAsyncFailedJobLeavesStateUntouched(t *testing.T) {
	c := New(
		WithSeed(FactorySeed()...),
		WithAsync(domain.JobFailed),
		WithJobError(domain.JobError{Code: "0xE0", Message: "bad address", Payload: map[string]any{"arg": "x"}}),
	)
	ctx := context.Background()
	key := domain.ResourceKey{ID: "NTP1"}

	res, err := c.ModifyResource(ctx, domain.KindNTP, key, map[string]any{domain.NTPAddressesKey: []any{"x"}})
	require.NoError(t, err)

	rec, err := c.GetJob(ctx, res.Job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobFailed, rec.Phase)
	require.NotNil(t, rec.Error)
	assert.Equal(t, "bad address", rec.Error.Message)
	assert.Equal(t, []any{"pool.ntp.org"}, c.Snapshot(domain.KindNTP, key).Fields[domain.NTPAddressesKey])
}

func TestInjectedFailureAndCancellation(t *testing.T) {
	boom := errors.New(errors.CodeTransport, "connection reset")
	c := New(WithFailure(OpGet, boom))

	_, err := c.GetResource(context.Background(), domain.KindNTP, domain.ResourceKey{ID: "NTP1"})
	assert.Equal(t, boom, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.GetJob(ctx, "job-1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, c.Calls(OpGetJob))
}

func TestUnknownJob(t *testing.T) {
	c := New()
	_, err := c.GetJob(context.Background(), "nope")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}
