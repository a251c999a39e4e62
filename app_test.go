package main

import (
	"math"
	"os"
	"strings"
	"testing"

	"github.com/chazu/elements/pkg/config"
	"github.com/chazu/elements/pkg/construction"
	"github.com/chazu/elements/pkg/tessellate"
)

func testApp() *App {
	return NewApp(config.Config{GhostDepth: 3, CircleSegments: 32}, nil)
}

func evalFile(t *testing.T, app *App, path string) EvalResult {
	t.Helper()
	source, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d, step %d): %s", e.Line, e.Step, e.Message)
		}
		t.FailNow()
	}
	return result
}

func marker(sc *tessellate.Scene, label string) (tessellate.Marker, bool) {
	for _, m := range sc.Markers {
		if m.Label == label && m.Depth == 0 {
			return m, true
		}
	}
	return tessellate.Marker{}, false
}

// TestE2EPlaceLineExample exercises the full pipeline: source, engine,
// validation, replay, tessellation.
func TestE2EPlaceLineExample(t *testing.T) {
	result := evalFile(t, testApp(), "examples/i2_place_line.elem")

	if result.Proposition != "I.2" {
		t.Errorf("proposition = %q", result.Proposition)
	}
	if result.Steps != 6 || result.StepsCompleted != 6 {
		t.Errorf("steps = %d/%d, want 6/6", result.StepsCompleted, result.Steps)
	}
	if len(result.Instructions) != 6 {
		t.Errorf("expected 6 instructions, got %d", len(result.Instructions))
	}
	if result.Conclusion == nil || !result.Conclusion.Holds {
		t.Fatalf("conclusion = %+v, want AF = BC to hold", result.Conclusion)
	}
	if result.Conclusion.Statement != "AF = BC" {
		t.Errorf("statement = %q", result.Conclusion.Statement)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	cites := make(map[string]int)
	for _, f := range result.Facts {
		cites[f.Citation]++
	}
	if cites["Prop. I.1"] == 0 {
		t.Errorf("expected a fact citing Prop. I.1, got %v", cites)
	}

	if result.Scene == nil {
		t.Fatal("expected a scene")
	}
	f, ok := marker(result.Scene, "F")
	if !ok {
		t.Fatal("no marker for F")
	}
	if math.Abs(f.Pos.X+1.118034) > 1e-3 || math.Abs(f.Pos.Y+1.936492) > 1e-3 {
		t.Errorf("F at %v, want (-1.118, -1.936)", f.Pos)
	}
	if result.GhostDepth != 1 {
		t.Errorf("ghost depth = %d, want 1", result.GhostDepth)
	}
	if len(result.Scene.Ghosts(1)) == 0 {
		t.Error("expected ghost lines for the I.1 application")
	}
}

func TestE2ESideAngleSideExample(t *testing.T) {
	result := evalFile(t, testApp(), "examples/i4_sas.elem")

	if result.StepsCompleted != 2 {
		t.Errorf("steps completed = %d, want 2", result.StepsCompleted)
	}
	if result.Conclusion == nil || !result.Conclusion.Holds {
		t.Fatalf("conclusion = %+v, want BC = EF to hold", result.Conclusion)
	}
	if len(result.Conclusion.Added) != 3 {
		t.Errorf("expected 3 facts from superposition, got %d", len(result.Conclusion.Added))
	}
	given := 0
	for _, f := range result.Facts {
		if f.Citation == "Given" {
			given++
		}
	}
	if given != 3 {
		t.Errorf("expected 3 given facts, got %d", given)
	}
}

func TestE2ETwinTrianglesExample(t *testing.T) {
	result := evalFile(t, testApp(), "examples/twin_triangles.elem")

	if result.StepsCompleted != 2 {
		t.Errorf("steps completed = %d, want 2", result.StepsCompleted)
	}
	if result.Conclusion != nil {
		t.Errorf("a proposition without a conclusion rule should conclude nothing, got %+v", result.Conclusion)
	}
	if len(result.Facts) != 4 {
		t.Fatalf("expected 4 facts, got %d: %v", len(result.Facts), result.Facts)
	}
	for _, f := range result.Facts {
		if f.Citation != "Prop. I.1" {
			t.Errorf("fact %q cites %q", f.Statement, f.Citation)
		}
	}
	d, ok := marker(result.Scene, "D")
	if !ok {
		t.Fatal("no marker for D")
	}
	if math.Abs(d.Pos.X+2) > 1e-3 || math.Abs(d.Pos.Y-2*math.Sqrt(3)) > 1e-3 {
		t.Errorf("D at %v, want (-2, 3.464)", d.Pos)
	}
}

// TestE2EEmptySource ensures empty input is reported, not fatal.
func TestE2EEmptySource(t *testing.T) {
	result := testApp().Evaluate("")

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0].Message, "no proposition") {
		t.Errorf("errors = %v", result.Errors)
	}
	if result.Scene != nil {
		t.Error("expected no scene for empty source")
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	result := testApp().Evaluate(`(proposition "x"`)

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if result.Scene != nil {
		t.Error("expected no scene on error")
	}
}

func TestList(t *testing.T) {
	got := testApp().List()
	want := []Summary{
		{ID: "I.1", Title: "On a given finite straight line to construct an equilateral triangle.", Steps: 5, Macro: true, Concludes: true},
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 propositions, got %d", len(got))
	}
	if got[0] != want[0] {
		t.Errorf("first = %+v, want %+v", got[0], want[0])
	}
	if got[3].ID != "I.4" || got[3].Macro {
		t.Errorf("last = %+v, want I.4 and not a macro", got[3])
	}
	for _, s := range got {
		if !s.Concludes {
			t.Errorf("%s should have a conclusion rule", s.ID)
		}
	}
}

func TestShow(t *testing.T) {
	app := testApp()
	for _, id := range []string{"I.1", "I.2", "I.3", "I.4"} {
		t.Run(id, func(t *testing.T) {
			result, err := app.Show(id)
			if err != nil {
				t.Fatalf("Show(%s) returned unexpected error: %v", id, err)
			}
			if result.StepsCompleted != result.Steps {
				t.Errorf("steps = %d/%d", result.StepsCompleted, result.Steps)
			}
			if result.Conclusion == nil || !result.Conclusion.Holds {
				t.Errorf("conclusion = %+v", result.Conclusion)
			}
			if result.Scene == nil || len(result.Scene.Lines) == 0 {
				t.Error("expected scene lines")
			}
		})
	}

	if _, err := app.Show("I.47"); err == nil {
		t.Error("expected an error for an unknown proposition")
	}
}

func TestShowMarkers(t *testing.T) {
	result, err := testApp().Show("I.1")
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range []string{"A", "B", "C"} {
		m, ok := marker(result.Scene, l)
		if !ok {
			t.Errorf("no marker for %s", l)
			continue
		}
		if m.ID != construction.PointID(l) {
			t.Errorf("marker %s has id %q", l, m.ID)
		}
	}
}
