package service

import (
	"sync"
	"time"

	"github.com/olusolaa/arrayctl/internal/core/domain"
)

type recordingMetrics struct {
	mu         sync.Mutex
	reconciles map[string]int
	calls      map[string]int
	polls      map[domain.JobPhase]int
	waits      int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		reconciles: make(map[string]int),
		calls:      make(map[string]int),
		polls:      make(map[domain.JobPhase]int),
	}
}

func (m *recordingMetrics) ObserveReconcile(kind domain.ResourceKind, verdict domain.Verdict, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconciles[string(kind)+"/"+string(verdict)+"/"+result]++
}

func (m *recordingMetrics) ObserveArrayCall(operation string, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[operation+"/"+result]++
}

func (m *recordingMetrics) ObserveJobPoll(phase domain.JobPhase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls[phase]++
}

func (m *recordingMetrics) ObserveJobWait(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waits++
}

func fastTracker() TrackerConfig {
	return TrackerConfig{
		InitialInterval: time.Millisecond,
		MaxInterval:     4 * time.Millisecond,
		Multiplier:      2,
		Timeout:         2 * time.Second,
	}
}
