package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Pass", KeyPass, "font_syntax", Pass("font_syntax")},
		{"Component", KeyComponent, "Card", Component("Card")},
		{"Group", KeyGroup, "Logo", Group("Logo")},
		{"Breakpoint", KeyBreakpoint, "max-md", Breakpoint("max-md")},
		{"Step", KeyStep, "correspondence", Step("correspondence")},
		{"Asset", KeyAsset, "assets/a.svg", Asset("assets/a.svg")},
		{"Input", KeyInput, "card.tsx", Input("card.tsx")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Node", KeyNode, "1:2", Node("1:2")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, got)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Priority(40); a.Key != KeyPriority || a.Value.Int64() != 40 {
		t.Fatalf("unexpected priority attr %v", a)
	}
	if a := Count(3); a.Key != KeyCount || a.Value.Int64() != 3 {
		t.Fatalf("unexpected count attr %v", a)
	}
	if a := DurationMS(1.5); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Fatalf("unexpected duration attr %v", a)
	}
}

func TestErrorHelper(t *testing.T) {
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("nil error should yield empty value, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Fatalf("unexpected error value %q", a.Value.String())
	}
}
