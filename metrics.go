package oracle

import "sync/atomic"

// Metrics tracks matrix-wide run statistics, exactly the
// atomic-counters-on-a-struct shape the teacher uses for device metrics,
// retargeted at runs instead of I/O operations.
type Metrics struct {
	RunsStarted        atomic.Uint64
	RunsOK             atomic.Uint64
	RunsFailed         atomic.Uint64
	CommandsSubmitted  atomic.Uint64
	CommandsCompleted  atomic.Uint64
	FaultsInjected     atomic.Uint64
	ResetsInjected     atomic.Uint64
}

// NewMetrics returns a zeroed Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordRunStart increments RunsStarted.
func (m *Metrics) RecordRunStart() {
	m.RunsStarted.Add(1)
}

// RecordRunOutcome increments RunsOK or RunsFailed.
func (m *Metrics) RecordRunOutcome(ok bool) {
	if ok {
		m.RunsOK.Add(1)
	} else {
		m.RunsFailed.Add(1)
	}
}

// RecordFault increments FaultsInjected, and ResetsInjected if the
// fault was a RESET.
func (m *Metrics) RecordFault(isReset bool) {
	m.FaultsInjected.Add(1)
	if isReset {
		m.ResetsInjected.Add(1)
	}
}

// MetricsSnapshot is a point-in-time read of Metrics, for the matrix
// driver's end-of-run summary.
type MetricsSnapshot struct {
	RunsStarted       uint64
	RunsOK            uint64
	RunsFailed        uint64
	CommandsSubmitted uint64
	CommandsCompleted uint64
	FaultsInjected    uint64
	ResetsInjected    uint64
}

// Snapshot reads all counters without resetting them.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		RunsStarted:       m.RunsStarted.Load(),
		RunsOK:            m.RunsOK.Load(),
		RunsFailed:        m.RunsFailed.Load(),
		CommandsSubmitted: m.CommandsSubmitted.Load(),
		CommandsCompleted: m.CommandsCompleted.Load(),
		FaultsInjected:    m.FaultsInjected.Load(),
		ResetsInjected:    m.ResetsInjected.Load(),
	}
}
