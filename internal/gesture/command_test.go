package gesture

import (
	"encoding/json"
	"testing"
)

func TestCommand_Catalog(t *testing.T) {
	all := All()
	if len(all) != 8 {
		t.Fatalf("All() returned %d commands, want 8", len(all))
	}

	seenHighlight := map[string]bool{}
	for _, c := range all {
		if !c.Valid() {
			t.Errorf("%v should be valid", c)
		}
		if c.Label() == "" {
			t.Errorf("%v has no label", c)
		}
		if seenHighlight[c.HighlightID()] {
			t.Errorf("duplicate highlight id %q", c.HighlightID())
		}
		seenHighlight[c.HighlightID()] = true

		parsed, err := ParseCommand(c.String())
		if err != nil || parsed != c {
			t.Errorf("ParseCommand(%q) = %v, %v", c.String(), parsed, err)
		}
	}

	if None.Valid() || None.HighlightID() != "" {
		t.Error("None should be invalid and have no highlight")
	}
	if Rotate360Left.HighlightID() != "g-360i" || Advance.HighlightID() != "g-avanzar" {
		t.Error("unexpected highlight ids")
	}
	if Command(42).String() != "command(42)" {
		t.Errorf("out of range String() = %q", Command(42).String())
	}
}

func TestParseCommand_Unknown(t *testing.T) {
	if _, err := ParseCommand("fly"); err == nil {
		t.Error("expected error")
	}
	if _, err := ParseCommand("none"); err == nil {
		t.Error("none is not a command")
	}
}

func TestCommand_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		C Command `json:"c"`
	}{TurnLeft})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"c":"turn-left"}` {
		t.Errorf("got %s", data)
	}

	var c Command
	if err := json.Unmarshal([]byte(`"rotate-90-right"`), &c); err != nil || c != Rotate90Right {
		t.Errorf("unmarshal = %v, %v", c, err)
	}
	if err := json.Unmarshal([]byte(`""`), &c); err != nil || c != None {
		t.Errorf("empty name = %v, %v", c, err)
	}
	if err := json.Unmarshal([]byte(`"jump"`), &c); err == nil {
		t.Error("expected error for unknown name")
	}
}

func TestResult(t *testing.T) {
	if NoHand().Ok() || Unrecognized().Ok() {
		t.Error("empty results should not be Ok")
	}
	r := Recognized(Stop, RuleFourFingers)
	if !r.Ok() || r.Kind.String() != "recognized" {
		t.Errorf("Recognized = %+v", r)
	}
	if KindNoHand.String() != "no-hand" || KindUnrecognized.String() != "unrecognized" {
		t.Error("unexpected kind names")
	}
}
