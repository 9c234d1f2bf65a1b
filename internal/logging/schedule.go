package logging

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var scheduleJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// ScheduleStep is one entry of a ScheduleRecord: either a completion
// pick or an injected fault. Exactly one of the two shapes is
// populated per spec.md §4.5's tagged step format. MarshalJSON emits
// only the fields that belong to Type's shape, explicitly — pick_index
// and at_step are both meaningful at 0 (the oldest candidate, a fault
// on the very first step), so they cannot be left to omitempty.
type ScheduleStep struct {
	Type      string // "CompletePick" | "FAULT"
	PickIndex int
	FaultType string // "TIMEOUT" | "RESET"
	AtStep    int
}

// completePickWire and faultWire are the two on-wire shapes a
// ScheduleStep can take; MarshalJSON picks one by Type.
type completePickWire struct {
	Type      string `json:"type"`
	PickIndex int    `json:"pick_index"`
}

type faultWire struct {
	Type      string `json:"type"`
	FaultType string `json:"fault_type"`
	AtStep    int    `json:"at_step"`
}

// MarshalJSON implements the tagged-union wire format, emitting
// pick_index only for CompletePick steps and fault_type/at_step only
// for FAULT steps.
func (s ScheduleStep) MarshalJSON() ([]byte, error) {
	switch s.Type {
	case "CompletePick":
		return scheduleJSON.Marshal(completePickWire{Type: s.Type, PickIndex: s.PickIndex})
	case "FAULT":
		return scheduleJSON.Marshal(faultWire{Type: s.Type, FaultType: s.FaultType, AtStep: s.AtStep})
	default:
		return nil, fmt.Errorf("unknown schedule step type: %q", s.Type)
	}
}

// UnmarshalJSON implements the tagged-union wire format.
func (s *ScheduleStep) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type string `json:"type"`
	}
	if err := scheduleJSON.Unmarshal(data, &probe); err != nil {
		return err
	}
	switch probe.Type {
	case "CompletePick":
		var w completePickWire
		if err := scheduleJSON.Unmarshal(data, &w); err != nil {
			return err
		}
		*s = ScheduleStep{Type: w.Type, PickIndex: w.PickIndex}
	case "FAULT":
		var w faultWire
		if err := scheduleJSON.Unmarshal(data, &w); err != nil {
			return err
		}
		*s = ScheduleStep{Type: w.Type, FaultType: w.FaultType, AtStep: w.AtStep}
	default:
		return fmt.Errorf("unknown schedule step type: %q", probe.Type)
	}
	return nil
}

// ScheduleRecord is the optional parallel JSON artifact recording every
// completion pick and fault event of one run, for debugging and
// cross-implementation diffing.
type ScheduleRecord struct {
	SeedID       string         `json:"seed_id"`
	ScheduleSeed uint64         `json:"schedule_seed"`
	Policy       string         `json:"policy"`
	BoundK       string         `json:"bound_k"`
	FaultMode    string         `json:"fault_mode"`
	Steps        []ScheduleStep `json:"steps"`
}

// NewScheduleRecord returns an empty record for the given run identity.
func NewScheduleRecord(seedID string, scheduleSeed uint64, policy, boundK, faultMode string) *ScheduleRecord {
	return &ScheduleRecord{
		SeedID:       seedID,
		ScheduleSeed: scheduleSeed,
		Policy:       policy,
		BoundK:       boundK,
		FaultMode:    faultMode,
	}
}

// AddCompletePick appends a completion-pick step.
func (r *ScheduleRecord) AddCompletePick(pickIndex int) {
	r.Steps = append(r.Steps, ScheduleStep{Type: "CompletePick", PickIndex: pickIndex})
}

// AddFault appends a fault step.
func (r *ScheduleRecord) AddFault(faultType string, atStep int) {
	r.Steps = append(r.Steps, ScheduleStep{Type: "FAULT", FaultType: faultType, AtStep: atStep})
}

// Flush writes the record as indented JSON to w.
func (r *ScheduleRecord) Flush(w io.Writer) error {
	data, err := scheduleJSON.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
