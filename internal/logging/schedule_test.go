package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestScheduleRecordStepsAppendInOrder(t *testing.T) {
	r := NewScheduleRecord("s1", 42, "RANDOM", "2", "TIMEOUT")
	r.AddCompletePick(1)
	r.AddCompletePick(0)
	r.AddFault("TIMEOUT", 2)

	if len(r.Steps) != 3 {
		t.Fatalf("len(Steps) = %d, want 3", len(r.Steps))
	}
	if r.Steps[0].Type != "CompletePick" || r.Steps[0].PickIndex != 1 {
		t.Errorf("step 0 = %+v", r.Steps[0])
	}
	if r.Steps[2].Type != "FAULT" || r.Steps[2].FaultType != "TIMEOUT" || r.Steps[2].AtStep != 2 {
		t.Errorf("step 2 = %+v", r.Steps[2])
	}
}

func TestScheduleRecordFlushIsValidJSON(t *testing.T) {
	r := NewScheduleRecord("s1", 0, "FIFO", "inf", "NONE")
	r.AddCompletePick(0)

	var buf bytes.Buffer
	if err := r.Flush(&buf); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}

	var decoded ScheduleRecord
	if err := scheduleJSON.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("flushed output did not round-trip: %v", err)
	}
	if decoded.SeedID != "s1" || len(decoded.Steps) != 1 {
		t.Errorf("decoded record = %+v", decoded)
	}
	if decoded.Steps[0].Type != "CompletePick" || decoded.Steps[0].PickIndex != 0 {
		t.Errorf("decoded step 0 = %+v, want CompletePick/0", decoded.Steps[0])
	}
}

// TestScheduleStepZeroValuesAreNotOmitted guards against omitempty tags
// silently dropping pick_index=0 (the oldest candidate) and at_step=0
// (a fault on the very first step) from the serialized bytes.
func TestScheduleStepZeroValuesAreNotOmitted(t *testing.T) {
	r := NewScheduleRecord("s1", 0, "FIFO", "inf", "TIMEOUT")
	r.AddCompletePick(0)
	r.AddFault("TIMEOUT", 0)

	var buf bytes.Buffer
	if err := r.Flush(&buf); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}
	out := buf.String()
	// Steps are embedded as their MarshalJSON output, which json-iterator
	// does not re-indent, so compare with all whitespace removed.
	compact := strings.Join(strings.Fields(out), "")

	if !strings.Contains(compact, `"pick_index":0`) {
		t.Errorf("flushed output is missing pick_index for a zero pick:\n%s", out)
	}
	if !strings.Contains(compact, `"at_step":0`) {
		t.Errorf("flushed output is missing at_step for a zero-step fault:\n%s", out)
	}
}

func TestScheduleStepMarshalUnmarshalFault(t *testing.T) {
	step := ScheduleStep{Type: "FAULT", FaultType: "RESET", AtStep: 3}
	data, err := step.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON returned error: %v", err)
	}
	if strings.Contains(string(data), "pick_index") {
		t.Errorf("FAULT step should not serialize pick_index: %s", data)
	}

	var got ScheduleStep
	if err := got.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON returned error: %v", err)
	}
	if got != step {
		t.Errorf("round trip = %+v, want %+v", got, step)
	}
}
