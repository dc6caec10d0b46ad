package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersByLabel(t *testing.T) {
	m, err := New(Config{})
	require.NoError(t, err)

	m.ObserveReconcile("NTP", "modify", "changed")
	m.ObserveReconcile("NTP", "modify", "changed")
	m.ObserveReconcile("DNS", "no-op", "ok")
	m.ObserveArrayCall("get", "ok")
	m.ObserveJobPoll("Running")
	m.ObserveJobWait(3 * time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reconciliations.WithLabelValues("NTP", "modify", "changed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reconciliations.WithLabelValues("DNS", "no-op", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.arrayCalls.WithLabelValues("get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobPolls.WithLabelValues("Running")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.jobWait))
}

func TestWriteTextfile(t *testing.T) {
	m, err := New(Config{Namespace: "lab"})
	require.NoError(t, err)
	m.ObserveReconcile("SnapshotRule", "create", "changed")

	path := filepath.Join(t.TempDir(), "arrayctl.prom")
	require.NoError(t, m.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.True(t, strings.Contains(out, `lab_reconciliations_total{kind="SnapshotRule",result="changed",verdict="create"} 1`), out)
}
