package oracle

import "testing"

func TestCommandKindStringRoundTrip(t *testing.T) {
	for _, kind := range []CommandKind{CmdWrite, CmdRead, CmdFence, CmdWriteVisible} {
		parsed, err := parseCommandKind(kind.String())
		if err != nil {
			t.Fatalf("parseCommandKind(%q) returned error: %v", kind.String(), err)
		}
		if parsed != kind {
			t.Errorf("parseCommandKind(%q) = %v, want %v", kind.String(), parsed, kind)
		}
	}
}

func TestParseCommandKindUnknown(t *testing.T) {
	if _, err := parseCommandKind("NOPE"); err == nil {
		t.Error("parseCommandKind(\"NOPE\") should return an error")
	}
}

func TestCommandMarshalUnmarshalWrite(t *testing.T) {
	want := Command{Kind: CmdWrite, LBA: 7, Len: 4, Pattern: 99}
	data, err := want.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON returned error: %v", err)
	}

	var got Command
	if err := got.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON returned error: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestCommandMarshalFenceOmitsPayload(t *testing.T) {
	data, err := (Command{Kind: CmdFence}).MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON returned error: %v", err)
	}
	got := string(data)
	if got != `{"type":"FENCE"}` {
		t.Errorf("MarshalJSON(FENCE) = %s, want {\"type\":\"FENCE\"}", got)
	}
}

func TestCommandMarshalReadOmitsPattern(t *testing.T) {
	data, err := (Command{Kind: CmdRead, LBA: 1, Len: 2}).MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON returned error: %v", err)
	}
	got := string(data)
	want := `{"type":"READ","lba":1,"len":2}`
	if got != want {
		t.Errorf("MarshalJSON(READ) = %s, want %s", got, want)
	}
}

func TestSeedMarshalUnmarshalRoundTrip(t *testing.T) {
	seed := Seed{
		SeedID: "s1",
		Commands: []Command{
			{Kind: CmdWrite, LBA: 0, Len: 4, Pattern: 1},
			{Kind: CmdFence},
			{Kind: CmdRead, LBA: 0, Len: 4},
		},
	}

	data, err := wireJSON.Marshal(seed)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}

	var got Seed
	if err := wireJSON.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if got.SeedID != seed.SeedID {
		t.Errorf("SeedID = %q, want %q", got.SeedID, seed.SeedID)
	}
	if len(got.Commands) != len(seed.Commands) {
		t.Fatalf("len(Commands) = %d, want %d", len(got.Commands), len(seed.Commands))
	}
	for i := range seed.Commands {
		if got.Commands[i] != seed.Commands[i] {
			t.Errorf("Commands[%d] = %+v, want %+v", i, got.Commands[i], seed.Commands[i])
		}
	}
}

func TestUnmarshalInvalidJSONFails(t *testing.T) {
	var c Command
	if err := c.UnmarshalJSON([]byte(`not json`)); err == nil {
		t.Error("UnmarshalJSON with malformed JSON should return an error")
	}
}
