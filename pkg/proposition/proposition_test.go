package proposition

import (
	"strings"
	"testing"

	"github.com/chazu/elements/pkg/facts"
	"github.com/chazu/elements/pkg/selector"
)

func TestBuiltinValidates(t *testing.T) {
	lib := Builtin()
	for _, id := range lib.IDs() {
		t.Run(id, func(t *testing.T) {
			d, _ := lib.Lookup(id)
			res := ValidateAll(d, lib)
			if !res.OK() {
				t.Errorf("errors: %v", res.Errors)
			}
			if len(res.Warnings) != 0 {
				t.Errorf("warnings: %v", res.Warnings)
			}
		})
	}
}

func TestLibraryLookup(t *testing.T) {
	lib := Builtin()
	if got := lib.IDs(); strings.Join(got, ",") != "I.1,I.2,I.3,I.4" {
		t.Errorf("IDs = %v", got)
	}
	if _, err := lib.Get("I.47"); err != ErrUnknownProposition {
		t.Errorf("Get(I.47) err = %v", err)
	}
	extra := &Def{ID: "X.1"}
	more := lib.With(extra)
	if _, ok := more.Lookup("X.1"); !ok {
		t.Error("With did not add")
	}
	if _, ok := lib.Lookup("X.1"); ok {
		t.Error("With modified the receiver")
	}
}

func TestInputIDs(t *testing.T) {
	d, _ := Builtin().Lookup("I.2")
	got := d.InputIDs()
	want := []string{"pt-A", "pt-B", "pt-C"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("InputIDs = %v, want %v", got, want)
	}
	if pos := d.Positions()["pt-C"]; pos.X != 5 || pos.Y != -1 {
		t.Errorf("position of C = %v", pos)
	}
}

func TestIntroducedLabels(t *testing.T) {
	lib := Builtin()
	tests := []struct {
		id   string
		want []string // per step, comma-joined
	}{
		{"I.1", []string{"", "", "pt-C", "", ""}},
		{"I.2", []string{"", "pt-D", "", "pt-E", "", "pt-F"}},
		{"I.3", []string{"pt-E", "", "pt-F"}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			d, _ := lib.Lookup(tt.id)
			got := Introduced(d, lib)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d steps, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if s := strings.Join(got[i], ","); s != tt.want[i] {
					t.Errorf("step %d introduces %q, want %q", i, s, tt.want[i])
				}
			}
		})
	}
}

func TestExplicitLabelAdvancesCursor(t *testing.T) {
	d := &Def{
		ID:     "T",
		Givens: []GivenElement{GivenPoint("A", 0, 0), GivenPoint("B", 1, 0)},
		Steps: []Step{
			{Action: PlacePoint{X: 2, Y: 2, Label: "P"}},
			{Action: PlacePoint{X: 3, Y: 3}},
		},
	}
	got := Introduced(d, nil)
	if got[0][0] != "pt-P" || got[1][0] != "pt-Q" {
		t.Errorf("introduced %v, want P then Q", got)
	}
}

func TestValidateStructural(t *testing.T) {
	lib := Builtin()
	base := func() *Def {
		return &Def{
			ID: "T",
			Givens: []GivenElement{
				GivenPoint("A", 0, 0),
				GivenPoint("B", 3, 0),
			},
		}
	}
	tests := []struct {
		name  string
		steps []Step
		want  string
	}{
		{
			name:  "point before introduction",
			steps: []Step{{Action: DrawCircle{CenterID: "pt-A", RadiusPointID: "pt-C"}}},
			want:  "point C is referenced before",
		},
		{
			name: "point used one step early",
			steps: []Step{
				{Action: DrawCircle{CenterID: "pt-A", RadiusPointID: "pt-B"}},
				{Action: DrawSegment{FromID: "pt-A", ToID: "pt-C"}},
				{Action: MarkIntersection{A: selector.ByID("cir-0"), B: selector.ByID("seg-0")}},
			},
			want: "point C is referenced before",
		},
		{
			name:  "undrawn circle",
			steps: []Step{{Action: MarkIntersection{A: selector.CircleThrough("pt-A", "pt-B"), B: selector.CircleThrough("pt-B", "pt-A")}}},
			want:  "first element circle(A, B) has not been drawn",
		},
		{
			name:  "unknown element id",
			steps: []Step{{Action: MarkIntersection{A: selector.ByID("cir-3"), B: selector.ByID("seg-0")}}},
			want:  "has not been drawn",
		},
		{
			name:  "unknown macro",
			steps: []Step{{Action: ApplyMacro{PropID: "I.99", Inputs: []string{"pt-A", "pt-B"}}}},
			want:  `unknown proposition "I.99"`,
		},
		{
			name:  "non-macro",
			steps: []Step{{Action: ApplyMacro{PropID: "I.4", Inputs: []string{"pt-A", "pt-B"}}}},
			want:  "cannot be applied as a macro",
		},
		{
			name:  "arity",
			steps: []Step{{Action: ApplyMacro{PropID: "I.1", Inputs: []string{"pt-A"}}}},
			want:  "I.1 takes 2 points, got 1",
		},
		{
			name:  "repeated input",
			steps: []Step{{Action: ApplyMacro{PropID: "I.1", Inputs: []string{"pt-A", "pt-A"}}}},
			want:  "passed to I.1 twice",
		},
		{
			name:  "zero radius",
			steps: []Step{{Action: DrawCircle{CenterID: "pt-A", RadiusPointID: "pt-A"}}},
			want:  "through itself",
		},
		{
			name:  "label clash",
			steps: []Step{{Action: PlacePoint{Label: "B"}}},
			want:  "label B is already in use",
		},
		{
			name:  "missing action",
			steps: []Step{{Citation: "Post.1"}},
			want:  "step has no action",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base()
			d.Steps = tt.steps
			errs := Validate(d, lib)
			found := false
			for _, e := range errs {
				if strings.Contains(e.Error(), tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("want an error containing %q, got %v", tt.want, errs)
			}
		})
	}
}

func TestValidateMacroAfterOutput(t *testing.T) {
	d := &Def{
		ID:     "T",
		Givens: []GivenElement{GivenPoint("A", 0, 0), GivenPoint("B", 3, 0)},
		Steps: []Step{
			{Action: ApplyMacro{PropID: "I.1", Inputs: []string{"pt-A", "pt-B"}, Labels: []string{"X"}}},
			{Action: DrawCircle{CenterID: "pt-X", RadiusPointID: "pt-A"}},
			{Action: MarkIntersection{A: selector.CircleThrough("pt-X", "pt-A"), B: selector.SegmentBetween("pt-X", "pt-B")}},
		},
	}
	if errs := Validate(d, Builtin()); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestValidateGivens(t *testing.T) {
	d := &Def{
		ID: "T",
		Givens: []GivenElement{
			GivenPoint("A", 0, 0),
			GivenPoint("A", 1, 0),
			GivenPoint("B", 0, 0),
			GivenSegment("pt-A", "pt-Z"),
		},
		GivenFacts: []GivenFact{{Left: facts.Distance("pt-A", "pt-B"), Right: facts.Distance("pt-A", "pt-Q")}},
	}
	res := ValidateAll(d, nil)
	want := []string{
		"duplicate given point A",
		"given segment refers to Z",
		"refers to Q",
		"given points A and B coincide",
	}
	for _, w := range want {
		found := false
		for _, e := range res.Errors {
			if strings.Contains(e.Error(), w) {
				found = true
			}
		}
		if !found {
			t.Errorf("missing error %q in %v", w, res.Errors)
		}
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a warning for an empty step list")
	}
}

func TestValidateUnusedGiven(t *testing.T) {
	d := &Def{
		ID:     "T",
		Givens: []GivenElement{GivenPoint("A", 0, 0), GivenPoint("B", 3, 0), GivenPoint("C", 9, 9)},
		Steps:  []Step{{Action: DrawSegment{FromID: "pt-A", ToID: "pt-B"}}},
	}
	res := ValidateAll(d, nil)
	if !res.OK() {
		t.Fatalf("errors: %v", res.Errors)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0].Message, "C is never used") {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestValidationErrorString(t *testing.T) {
	tests := []struct {
		e    ValidationError
		want string
	}{
		{ValidationError{Step: DefinitionLevel, Message: "m", Severity: SeverityError}, "[error] m"},
		{ValidationError{Step: 2, Message: "m", Severity: SeverityWarning}, "[warning] step 3: m"},
	}
	for _, tt := range tests {
		if got := tt.e.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestInstructions(t *testing.T) {
	lib := Builtin()
	d, _ := lib.Lookup("I.2")
	got := Instructions(d, lib)
	want := []string{
		"Join AB (Post.1)",
		"Apply Prop. I.1 to A, B to obtain D (Prop. I.1)",
		"Draw the circle with centre B through C (Post.3)",
		"Mark E where circle(B, C) meets line DB, beyond B (Post.2)",
		"Draw the circle with centre D through E (Post.3)",
		"Mark F where circle(D, E) meets line DA, beyond A (Post.2)",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines: %v", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
