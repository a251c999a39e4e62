package proposition

import (
	"fmt"
	"math"

	"github.com/chazu/elements/pkg/construction"
	"github.com/chazu/elements/pkg/facts"
)

// ValidationSeverity indicates whether a validation finding makes the
// definition unusable or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // definition cannot be replayed
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// DefinitionLevel is the Step of findings that concern the definition as
// a whole rather than one step.
const DefinitionLevel = -1

// ValidationError describes a single validation finding.
type ValidationError struct {
	Step     int                // zero-based step index, or DefinitionLevel
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Step == DefinitionLevel {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] step %d: %s", e.Severity, e.Step+1, e.Message)
}

// ValidationResult bundles errors and warnings from all tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether there are no errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the Tier 1 structural checks: every point, element and
// macro a step refers to must exist by the time the step runs. It never
// modifies d.
func Validate(d *Def, lib Library) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateGivens(d)...)
	errs = append(errs, validateSteps(d, lib)...)
	return errs
}

// ValidateAll runs every tier and separates errors from warnings.
func ValidateAll(d *Def, lib Library) ValidationResult {
	var result ValidationResult
	all := Validate(d, lib)
	all = append(all, validateGeometry(d)...)
	all = append(all, validateUsage(d)...)
	for _, e := range all {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, e)
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

func errorf(step int, format string, args ...any) ValidationError {
	return ValidationError{Step: step, Message: fmt.Sprintf(format, args...), Severity: SeverityError}
}

func warnf(step int, format string, args ...any) ValidationError {
	return ValidationError{Step: step, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning}
}

func label(id string) string { return construction.LabelOf(id) }

// validateGivens checks that given points are uniquely labelled and that
// given segments, circles and facts only mention given points.
func validateGivens(d *Def) []ValidationError {
	var errs []ValidationError
	if d.ID == "" {
		errs = append(errs, errorf(DefinitionLevel, "proposition has no id"))
	}
	points := make(map[string]bool)
	for _, g := range d.Givens {
		if g.Kind != construction.KindPoint {
			continue
		}
		if g.Label == "" {
			errs = append(errs, errorf(DefinitionLevel, "given point has no label"))
			continue
		}
		id := construction.PointID(g.Label)
		if points[id] {
			errs = append(errs, errorf(DefinitionLevel, "duplicate given point %s", g.Label))
		}
		points[id] = true
	}
	for _, g := range d.Givens {
		var refs []string
		switch g.Kind {
		case construction.KindSegment:
			refs = []string{g.FromID, g.ToID}
		case construction.KindCircle:
			refs = []string{g.CenterID, g.RadiusPointID}
		}
		for _, id := range refs {
			if !points[id] {
				errs = append(errs, errorf(DefinitionLevel, "given %s refers to %s, which is not a given point", g.Kind, label(id)))
			}
		}
	}
	for _, f := range d.GivenFacts {
		if f.Left == nil || f.Right == nil {
			errs = append(errs, errorf(DefinitionLevel, "given fact is incomplete"))
			continue
		}
		for _, id := range append(termPoints(f.Left), termPoints(f.Right)...) {
			if !points[id] {
				errs = append(errs, errorf(DefinitionLevel, "given fact %s = %s refers to %s, which is not a given point", f.Left, f.Right, label(id)))
			}
		}
	}
	return errs
}

func termPoints(t facts.Term) []string {
	switch v := t.(type) {
	case facts.DistancePair:
		return []string{v.A, v.B}
	case facts.AngleMeasure:
		return []string{v.Ray1, v.Vertex, v.Ray2}
	default:
		return nil
	}
}

// validateSteps walks the steps in order, reporting any point used before
// it is given or introduced, unresolvable selectors, and bad macro calls.
func validateSteps(d *Def, lib Library) []ValidationError {
	var errs []ValidationError
	w := newWalker(lib)
	w.given(d)

	for i, st := range d.Steps {
		if st.Action == nil {
			errs = append(errs, errorf(i, "step has no action"))
			continue
		}
		for _, id := range st.Action.PointIDs() {
			if !w.points[id] {
				errs = append(errs, errorf(i, "point %s is referenced before it is given or introduced", label(id)))
			}
		}
		switch a := st.Action.(type) {
		case DrawCircle:
			if a.CenterID == a.RadiusPointID {
				errs = append(errs, errorf(i, "circle about %s through itself", label(a.CenterID)))
			}
		case DrawSegment:
			if a.FromID == a.ToID {
				errs = append(errs, errorf(i, "segment from %s to itself", label(a.FromID)))
			}
		case MarkIntersection:
			for _, sel := range []struct {
				name string
				ok   bool
				desc string
			}{
				{"first", w.resolves(a.A), a.A.String()},
				{"second", w.resolves(a.B), a.B.String()},
			} {
				if !sel.ok {
					errs = append(errs, errorf(i, "%s element %s has not been drawn", sel.name, sel.desc))
				}
			}
			if a.Label != "" && w.points[construction.PointID(a.Label)] {
				errs = append(errs, errorf(i, "label %s is already in use", a.Label))
			}
		case ApplyMacro:
			errs = append(errs, validateMacroCall(i, a, w)...)
		case PlacePoint:
			if a.Label != "" && w.points[construction.PointID(a.Label)] {
				errs = append(errs, errorf(i, "label %s is already in use", a.Label))
			}
		}
		w.apply(st.Action)
	}

	if d.Macro != nil {
		for _, id := range d.Macro.Outputs {
			if !w.points[id] {
				errs = append(errs, errorf(DefinitionLevel, "macro output %s is never introduced", label(id)))
			}
		}
		for _, seg := range d.Macro.OutputSegments {
			for _, id := range seg {
				if !w.points[id] {
					errs = append(errs, errorf(DefinitionLevel, "macro output segment refers to unknown point %s", label(id)))
				}
			}
		}
		for _, r := range d.Macro.Results {
			for _, id := range append(termPoints(r.Left), termPoints(r.Right)...) {
				if !w.points[id] {
					errs = append(errs, errorf(DefinitionLevel, "macro result %s refers to unknown point %s", r, label(id)))
				}
			}
		}
	}
	return errs
}

func validateMacroCall(i int, a ApplyMacro, w *walker) []ValidationError {
	macro, ok := w.lib.Lookup(a.PropID)
	if !ok {
		return []ValidationError{errorf(i, "unknown proposition %q", a.PropID)}
	}
	if !macro.IsMacro() {
		return []ValidationError{errorf(i, "proposition %s cannot be applied as a macro", a.PropID)}
	}
	var errs []ValidationError
	if want := len(macro.InputIDs()); len(a.Inputs) != want {
		errs = append(errs, errorf(i, "%s takes %d points, got %d", a.PropID, want, len(a.Inputs)))
	}
	if len(a.Labels) > len(macro.Macro.Outputs) {
		errs = append(errs, errorf(i, "%s yields %d points, got %d labels", a.PropID, len(macro.Macro.Outputs), len(a.Labels)))
	}
	seen := make(map[string]bool)
	for _, id := range a.Inputs {
		if seen[id] {
			errs = append(errs, errorf(i, "point %s is passed to %s twice", label(id), a.PropID))
		}
		seen[id] = true
	}
	for _, l := range a.Labels {
		if l != "" && w.points[construction.PointID(l)] {
			errs = append(errs, errorf(i, "label %s is already in use", l))
		}
	}
	return errs
}

// validateGeometry checks the default positions: given points must be
// distinct, so no given segment or circle is degenerate.
func validateGeometry(d *Def) []ValidationError {
	const eps = 1e-3
	var errs []ValidationError
	var pts []GivenElement
	for _, g := range d.Givens {
		if g.Kind == construction.KindPoint {
			pts = append(pts, g)
		}
	}
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			if math.Abs(pts[i].X-pts[j].X) < eps && math.Abs(pts[i].Y-pts[j].Y) < eps {
				errs = append(errs, errorf(DefinitionLevel, "given points %s and %s coincide", pts[i].Label, pts[j].Label))
			}
		}
	}
	return errs
}

// validateUsage warns about given points that no step, given element or
// fact ever uses.
func validateUsage(d *Def) []ValidationError {
	used := make(map[string]bool)
	for _, g := range d.Givens {
		used[g.FromID] = true
		used[g.ToID] = true
		used[g.CenterID] = true
		used[g.RadiusPointID] = true
	}
	for _, f := range d.GivenFacts {
		for _, id := range append(termPoints(f.Left), termPoints(f.Right)...) {
			used[id] = true
		}
	}
	for _, st := range d.Steps {
		if st.Action == nil {
			continue
		}
		for _, id := range st.Action.PointIDs() {
			used[id] = true
		}
	}
	var warns []ValidationError
	for _, id := range d.InputIDs() {
		if !used[id] {
			warns = append(warns, warnf(DefinitionLevel, "given point %s is never used", label(id)))
		}
	}
	if len(d.Steps) == 0 {
		warns = append(warns, warnf(DefinitionLevel, "proposition has no steps"))
	}
	return warns
}
