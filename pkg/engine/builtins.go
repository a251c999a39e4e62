package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/elements/pkg/construction"
	"github.com/chazu/elements/pkg/facts"
	"github.com/chazu/elements/pkg/proposition"
	"github.com/chazu/elements/pkg/selector"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms proposition source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: given-point -> given_point
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only when the hyphen sits between identifier characters; otherwise
		// it is the minus operator or a negative literal.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSelector wraps a selector.Selector so it can be passed to intersect.
type sexpSelector struct {
	sel selector.Selector
}

func (s *sexpSelector) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(selector %q)", s.sel.String())
}
func (s *sexpSelector) Type() *zygo.RegisteredType { return nil }

// sexpTerm wraps a facts.Term so it can be passed to given-equal and result.
type sexpTerm struct {
	term facts.Term
}

func (t *sexpTerm) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(term %q)", t.term.String())
}
func (t *sexpTerm) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toPointID reads a point label and returns its id.
func toPointID(s zygo.Sexp) (string, error) {
	label, err := toString(s)
	if err != nil {
		return "", err
	}
	if label == "" {
		return "", errors.New("empty point label")
	}
	return construction.PointID(label), nil
}

func toSelector(s zygo.Sexp) (selector.Selector, error) {
	if v, ok := s.(*sexpSelector); ok {
		return v.sel, nil
	}
	// A bare string names an element id directly.
	if str, ok := s.(*zygo.SexpStr); ok {
		return selector.ByID(str.S), nil
	}
	return selector.Selector{}, fmt.Errorf("expected selector, got %T (%s)", s, s.SexpString(nil))
}

func toTerm(s zygo.Sexp) (facts.Term, error) {
	if v, ok := s.(*sexpTerm); ok {
		return v.term, nil
	}
	return nil, fmt.Errorf("expected dist or angle, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

func toStrings(s zygo.Sexp) ([]string, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(items))
	for i, item := range items {
		if out[i], err = toString(item); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func toPointIDs(s zygo.Sexp) ([]string, error) {
	labels, err := toStrings(s)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = construction.PointID(l)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Definition builder
// ---------------------------------------------------------------------------

// builder accumulates the definition while the source runs.
type builder struct {
	def     proposition.Def
	defined bool
}

func newBuilder() *builder {
	return &builder{}
}

func (b *builder) macro() *proposition.MacroSpec {
	if b.def.Macro == nil {
		b.def.Macro = &proposition.MacroSpec{}
	}
	return b.def.Macro
}

// step appends a step, reading the :cite and :highlight keywords common to
// every step form.
func (b *builder) step(form string, a proposition.Action, defaultCite string, pa kwArgs) error {
	st := proposition.Step{Action: a, Citation: defaultCite}
	if v, ok := pa.kw["cite"]; ok {
		c, err := toString(v)
		if err != nil {
			return fmt.Errorf("%s: cite: %w", form, err)
		}
		st.Citation = c
	}
	if v, ok := pa.kw["highlight"]; ok {
		ids, err := toPointIDs(v)
		if err != nil {
			return fmt.Errorf("%s: highlight: %w", form, err)
		}
		st.HighlightIDs = ids
	}
	b.def.Steps = append(b.def.Steps, st)
	return nil
}

func (b *builder) finish() (*proposition.Def, error) {
	if !b.defined {
		return nil, errors.New("source defines no proposition")
	}
	d := b.def
	return &d, nil
}

// twoPoints reads the first two positional arguments of form as point ids.
func twoPoints(form string, pa kwArgs) (string, string, error) {
	if len(pa.positional) < 2 {
		return "", "", fmt.Errorf("%s requires two point labels", form)
	}
	a, err := toPointID(pa.positional[0])
	if err != nil {
		return "", "", fmt.Errorf("%s: first point: %w", form, err)
	}
	c, err := toPointID(pa.positional[1])
	if err != nil {
		return "", "", fmt.Errorf("%s: second point: %w", form, err)
	}
	return a, c, nil
}

// twoTerms reads the two positional terms of an equality form.
func twoTerms(form string, args []zygo.Sexp) (facts.Term, facts.Term, error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("%s requires exactly 2 terms, got %d", form, len(args))
	}
	l, err := toTerm(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%s: left: %w", form, err)
	}
	r, err := toTerm(args[1])
	if err != nil {
		return nil, nil, fmt.Errorf("%s: right: %w", form, err)
	}
	return l, r, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the proposition DSL into a zygomys environment.
// The builtins populate b during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (proposition "I.2" :title "..." :extend true :conclusion "I.2")
	// -----------------------------------------------------------------------
	env.AddFunction("proposition", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if b.defined {
			return zygo.SexpNull, fmt.Errorf("proposition: already defined as %q", b.def.ID)
		}
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("proposition requires an id argument")
		}
		id, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("proposition: id: %w", err)
		}
		if id == "" {
			return zygo.SexpNull, fmt.Errorf("proposition: empty id")
		}
		b.def.ID = id

		if v, ok := pa.kw["title"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("proposition: title: %w", err)
			}
			b.def.Title = s
		}
		if v, ok := pa.kw["extend"]; ok {
			e, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("proposition: extend: %w", err)
			}
			b.def.Extend = e
		}
		if v, ok := pa.kw["conclusion"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("proposition: conclusion: %w", err)
			}
			b.def.ConclusionID = s
		}
		b.defined = true
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (given-point "A" 0 0)
	// -----------------------------------------------------------------------
	env.AddFunction("given_point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("given-point requires a label and 2 coordinates, got %d arguments", len(args))
		}
		label, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("given-point: label: %w", err)
		}
		x, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("given-point: x: %w", err)
		}
		y, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("given-point: y: %w", err)
		}
		b.def.Givens = append(b.def.Givens, proposition.GivenPoint(label, x, y))
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (given-segment "A" "B")
	// -----------------------------------------------------------------------
	env.AddFunction("given_segment", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		from, to, err := twoPoints("given-segment", parseArgs(args))
		if err != nil {
			return zygo.SexpNull, err
		}
		b.def.Givens = append(b.def.Givens, proposition.GivenSegment(from, to))
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (given-circle "A" "B")
	// -----------------------------------------------------------------------
	env.AddFunction("given_circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		center, through, err := twoPoints("given-circle", parseArgs(args))
		if err != nil {
			return zygo.SexpNull, err
		}
		b.def.Givens = append(b.def.Givens, proposition.GivenCircle(center, through))
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (join "A" "B" :cite "Post.1" :highlight (list "A" "B"))
	// -----------------------------------------------------------------------
	env.AddFunction("join", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		from, to, err := twoPoints("join", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, b.step("join", proposition.DrawSegment{FromID: from, ToID: to}, "Post.1", pa)
	})

	// -----------------------------------------------------------------------
	// (circle "A" "B" :cite "Post.3")
	// -----------------------------------------------------------------------
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		center, through, err := twoPoints("circle", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, b.step("circle", proposition.DrawCircle{CenterID: center, RadiusPointID: through}, "Post.3", pa)
	})

	// -----------------------------------------------------------------------
	// (circle-sel "A" "B") and (segment-sel "D" "B")
	// -----------------------------------------------------------------------
	env.AddFunction("circle_sel", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		center, through, err := twoPoints("circle-sel", parseArgs(args))
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSelector{sel: selector.CircleThrough(center, through)}, nil
	})
	env.AddFunction("segment_sel", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		from, to, err := twoPoints("segment-sel", parseArgs(args))
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSelector{sel: selector.SegmentBetween(from, to)}, nil
	})

	// -----------------------------------------------------------------------
	// (intersect (circle-sel "B" "C") (segment-sel "D" "B") :beyond "B" :label "E")
	// -----------------------------------------------------------------------
	env.AddFunction("intersect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("intersect requires exactly 2 selectors, got %d", len(pa.positional))
		}
		sa, err := toSelector(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("intersect: first: %w", err)
		}
		sb, err := toSelector(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("intersect: second: %w", err)
		}
		mark := proposition.MarkIntersection{A: sa, B: sb}
		cite := "Def.15"
		if v, ok := pa.kw["beyond"]; ok {
			id, err := toPointID(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("intersect: beyond: %w", err)
			}
			mark.BeyondID = id
			cite = "Post.2"
		}
		if v, ok := pa.kw["label"]; ok {
			l, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("intersect: label: %w", err)
			}
			mark.Label = l
		}
		return zygo.SexpNull, b.step("intersect", mark, cite, pa)
	})

	// -----------------------------------------------------------------------
	// (apply-prop "I.1" (list "A" "B") :labels (list "D"))
	//
	// zygomys already defines apply, hence the longer name.
	// -----------------------------------------------------------------------
	env.AddFunction("apply_prop", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("apply-prop requires a proposition id and an input list")
		}
		id, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("apply-prop: proposition: %w", err)
		}
		inputs, err := toPointIDs(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("apply-prop: inputs: %w", err)
		}
		m := proposition.ApplyMacro{PropID: id, Inputs: inputs}
		if v, ok := pa.kw["labels"]; ok {
			labels, err := toStrings(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("apply-prop: labels: %w", err)
			}
			m.Labels = labels
		}
		return zygo.SexpNull, b.step("apply-prop", m, "Prop. "+id, pa)
	})

	// -----------------------------------------------------------------------
	// (dist "A" "B") and (angle "B" "A" "C")
	// -----------------------------------------------------------------------
	env.AddFunction("dist", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		p, q, err := twoPoints("dist", parseArgs(args))
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpTerm{term: facts.Distance(p, q)}, nil
	})
	env.AddFunction("angle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("angle requires exactly 3 points, got %d", len(args))
		}
		ids := make([]string, 3)
		for i, a := range args {
			id, err := toPointID(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("angle: point %d: %w", i+1, err)
			}
			ids[i] = id
		}
		return &sexpTerm{term: facts.Angle(ids[0], ids[1], ids[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (given-equal (dist "A" "B") (dist "D" "E"))
	// -----------------------------------------------------------------------
	env.AddFunction("given_equal", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		l, r, err := twoTerms("given-equal", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		b.def.GivenFacts = append(b.def.GivenFacts, proposition.GivenFact{Left: l, Right: r})
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// Macro interface: (output "F"), (output-segment "A" "F"),
	// (result (dist "A" "F") (dist "B" "C"))
	// -----------------------------------------------------------------------
	env.AddFunction("output", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("output requires exactly 1 point label, got %d", len(args))
		}
		id, err := toPointID(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("output: %w", err)
		}
		m := b.macro()
		m.Outputs = append(m.Outputs, id)
		return zygo.SexpNull, nil
	})
	env.AddFunction("output_segment", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		from, to, err := twoPoints("output-segment", parseArgs(args))
		if err != nil {
			return zygo.SexpNull, err
		}
		m := b.macro()
		m.OutputSegments = append(m.OutputSegments, [2]string{from, to})
		return zygo.SexpNull, nil
	})
	env.AddFunction("result", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		l, r, err := twoTerms("result", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		m := b.macro()
		m.Results = append(m.Results, facts.Equality{Left: l, Right: r})
		return zygo.SexpNull, nil
	})
}
