package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/elements/pkg/proposition"
	"github.com/chazu/elements/pkg/selector"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/google/go-cmp/cmp"
)

const dragI2 = `
proposition = "I.2"

[positions.C]
x = 5.0
y = -2.0

[positions.A]
x = -1.0
y = 0.5

[[free]]
kind = "point"
x = 7.0
y = 7.0
label = "P"

[[free]]
kind = "segment"
from = "A"
to = "P"

[[free]]
kind = "circle"
center = "A"
through = "P"

[[free]]
kind = "intersect"
a = { circle = ["A", "P"] }
b = { segment = ["A", "F"] }
beyond = "F"

[[free]]
kind = "apply"
prop = "I.1"
inputs = ["A", "P"]
labels = ["Q"]
`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(dragI2))
	if err != nil {
		t.Fatalf("Parse() returned unexpected error: %v", err)
	}
	if sc.Proposition != "I.2" {
		t.Errorf("proposition = %q", sc.Proposition)
	}

	wantPos := map[string]v2.Vec{
		"pt-A": {X: -1, Y: 0.5},
		"pt-C": {X: 5, Y: -2},
	}
	if diff := cmp.Diff(wantPos, sc.PositionsByID()); diff != "" {
		t.Errorf("positions (-want +got):\n%s", diff)
	}
	if got := sc.Labels(); len(got) != 2 || got[0] != "A" || got[1] != "C" {
		t.Errorf("labels = %v", got)
	}

	actions, err := sc.Actions()
	if err != nil {
		t.Fatalf("Actions() returned unexpected error: %v", err)
	}
	want := []proposition.Action{
		proposition.PlacePoint{X: 7, Y: 7, Label: "P"},
		proposition.DrawSegment{FromID: "pt-A", ToID: "pt-P"},
		proposition.DrawCircle{CenterID: "pt-A", RadiusPointID: "pt-P"},
		proposition.MarkIntersection{
			A:        selector.CircleThrough("pt-A", "pt-P"),
			B:        selector.SegmentBetween("pt-A", "pt-F"),
			BeyondID: "pt-F",
		},
		proposition.ApplyMacro{PropID: "I.1", Inputs: []string{"pt-A", "pt-P"}, Labels: []string{"Q"}},
	}
	if diff := cmp.Diff(want, actions); diff != "" {
		t.Errorf("actions (-want +got):\n%s", diff)
	}
}

func TestParseMinimal(t *testing.T) {
	sc, err := Parse([]byte(`proposition = "I.1"`))
	if err != nil {
		t.Fatalf("Parse() returned unexpected error: %v", err)
	}
	if len(sc.PositionsByID()) != 0 || len(sc.Free) != 0 {
		t.Errorf("expected no overrides, got %+v", sc)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"not toml", `proposition = `, "parsing scenario"},
		{"no proposition", `[positions.A]` + "\nx = 1.0\ny = 2.0", "proposition is required"},
		{"unknown kind", "proposition = \"I.1\"\n[[free]]\nkind = \"ellipse\"", "unknown kind"},
		{"segment endpoints", "proposition = \"I.1\"\n[[free]]\nkind = \"segment\"\nfrom = \"A\"", "from and to"},
		{"bad selector", "proposition = \"I.1\"\n[[free]]\nkind = \"intersect\"\na = { circle = [\"A\"] }\nb = { id = \"seg-0\" }", "a: selector"},
		{"apply prop", "proposition = \"I.1\"\n[[free]]\nkind = \"apply\"", "apply needs prop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "drag.toml")
	if err := os.WriteFile(path, []byte(dragI2), 0o644); err != nil {
		t.Fatal(err)
	}
	sc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if len(sc.Free) != 5 {
		t.Errorf("expected 5 free actions, got %d", len(sc.Free))
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, ErrNoScenario) {
		t.Errorf("missing file: err = %v, want ErrNoScenario", err)
	}
}
