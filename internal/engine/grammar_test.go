package engine

import "testing"

func TestParseToolMarker(t *testing.T) {
	cases := []struct {
		frag  string
		index int
		name  string
		ok    bool
	}{
		{"<|tool:0:get_weather|>", 0, "get_weather", true},
		{"<|tool:12:fn|>", 12, "fn", true},
		{ToolMarker(3, "calc"), 3, "calc", true},
		{"<|tool_end|>", 0, "", false},
		{"plain text", 0, "", false},
		{"<|tool:abc:fn|>", 0, "", false}, // non-numeric index
		{"<|tool:-1:fn|>", 0, "", false},  // negative index
		{"<|tool:5|>", 0, "", false},      // missing name
		{"<|tool:5:|>", 0, "", false},     // empty name
		{"<|tool:5:fn", 0, "", false},     // unterminated
	}
	for _, c := range cases {
		idx, name, ok := ParseToolMarker(c.frag)
		if ok != c.ok || idx != c.index || name != c.name {
			t.Fatalf("ParseToolMarker(%q) = (%d, %q, %v), want (%d, %q, %v)",
				c.frag, idx, name, ok, c.index, c.name, c.ok)
		}
	}
}

func TestToolMarkerRoundTrip(t *testing.T) {
	frag := ToolMarker(7, "lookup")
	idx, name, ok := ParseToolMarker(frag)
	if !ok || idx != 7 || name != "lookup" {
		t.Fatalf("round trip failed: (%d, %q, %v)", idx, name, ok)
	}
}

func TestEndMarkerIsNotOpenMarker(t *testing.T) {
	if _, _, ok := ParseToolMarker(ToolEndMarker); ok {
		t.Fatalf("end marker parsed as an open marker")
	}
}
