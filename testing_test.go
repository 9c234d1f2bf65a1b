package oracle

import "testing"

func TestSeedBuilderAssemblesCommands(t *testing.T) {
	seed := NewSeedBuilder("s1").
		Write(0, 4, 123).
		Read(0, 4).
		Fence().
		WriteVisible(0, 4).
		Build()

	if seed.SeedID != "s1" {
		t.Errorf("SeedID = %q, want s1", seed.SeedID)
	}
	if len(seed.Commands) != 4 {
		t.Fatalf("len(Commands) = %d, want 4", len(seed.Commands))
	}
	wantKinds := []CommandKind{CmdWrite, CmdRead, CmdFence, CmdWriteVisible}
	for i, k := range wantKinds {
		if seed.Commands[i].Kind != k {
			t.Errorf("Commands[%d].Kind = %v, want %v", i, seed.Commands[i].Kind, k)
		}
	}
}

func TestSeedBuilderRepeat(t *testing.T) {
	seed := NewSeedBuilder("reads").
		Repeat(6, func(b *SeedBuilder) { b.Read(0, 4) }).
		Build()
	if len(seed.Commands) != 6 {
		t.Fatalf("len(Commands) = %d, want 6", len(seed.Commands))
	}
}

func TestMockEventSinkCapturesWrites(t *testing.T) {
	sink := NewMockEventSink()
	sink.Write([]byte("SUBMIT(cmd_id=0, cmd_type=WRITE)\n"))
	sink.Write([]byte("RUN_END(pending_left=0, pending_peak=1)\n"))

	want := "SUBMIT(cmd_id=0, cmd_type=WRITE)\nRUN_END(pending_left=0, pending_peak=1)\n"
	if got := sink.String(); got != want {
		t.Errorf("sink.String() = %q, want %q", got, want)
	}
}

func TestMockScheduleSinkCapturesBytes(t *testing.T) {
	sink := NewMockScheduleSink()
	sink.Write([]byte(`{"seed_id":"s1"}`))
	if got := string(sink.Bytes()); got != `{"seed_id":"s1"}` {
		t.Errorf("sink.Bytes() = %q", got)
	}
}
