package oracle

import "testing"

func TestMetricsRecordRunOutcome(t *testing.T) {
	m := NewMetrics()
	m.RecordRunStart()
	m.RecordRunStart()
	m.RecordRunOutcome(true)
	m.RecordRunOutcome(false)

	snap := m.Snapshot()
	if snap.RunsStarted != 2 {
		t.Errorf("RunsStarted = %d, want 2", snap.RunsStarted)
	}
	if snap.RunsOK != 1 || snap.RunsFailed != 1 {
		t.Errorf("RunsOK=%d RunsFailed=%d, want 1, 1", snap.RunsOK, snap.RunsFailed)
	}
}

func TestMetricsRecordFaultAndReset(t *testing.T) {
	m := NewMetrics()
	m.RecordFault(false)
	m.RecordFault(true)

	snap := m.Snapshot()
	if snap.FaultsInjected != 2 {
		t.Errorf("FaultsInjected = %d, want 2", snap.FaultsInjected)
	}
	if snap.ResetsInjected != 1 {
		t.Errorf("ResetsInjected = %d, want 1", snap.ResetsInjected)
	}
}

func TestMetricsSubmitComplete(t *testing.T) {
	m := NewMetrics()
	m.CommandsSubmitted.Add(5)
	m.CommandsCompleted.Add(3)

	snap := m.Snapshot()
	if snap.CommandsSubmitted != 5 || snap.CommandsCompleted != 3 {
		t.Errorf("snap = %+v", snap)
	}
}
