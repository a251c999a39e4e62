package facts

import "fmt"

// CitationKind enumerates the justifications the engine can cite.
type CitationKind int

const (
	CiteDef15    CitationKind = iota // points on a circle are equidistant from its centre
	CiteCN1                          // things equal to the same thing are equal
	CiteCN3                          // equals subtracted from equals
	CiteCN3Angle                     // C.N.3 over angles
	CiteCN4                          // coincidence (superposition)
	CiteGiven                        // hypothesis of the proposition
	CiteProp                         // a previously proved proposition
)

func (k CitationKind) String() string {
	switch k {
	case CiteDef15:
		return "def15"
	case CiteCN1:
		return "cn1"
	case CiteCN3:
		return "cn3"
	case CiteCN3Angle:
		return "cn3-angle"
	case CiteCN4:
		return "cn4"
	case CiteGiven:
		return "given"
	case CiteProp:
		return "prop"
	default:
		return fmt.Sprintf("CitationKind(%d)", int(k))
	}
}

// MarshalText encodes a CitationKind by name.
func (k CitationKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Citation is the closed set of justifications attached to a fact.
type Citation interface {
	Kind() CitationKind
	String() string
	citation() // marker method restricting implementations to this package
}

// Equality is an unjustified pair of terms, used inside citations that
// refer to other equalities.
type Equality struct {
	Left  Term `json:"left"`
	Right Term `json:"right"`
}

func (e Equality) String() string {
	return fmt.Sprintf("%s = %s", e.Left, e.Right)
}

// Def15 cites Definition 15 for the circle CircleID.
type Def15 struct {
	CircleID string `json:"circle_id"`
}

// CN1 cites transitivity through Via.
type CN1 struct {
	Via Term `json:"via"`
}

// CN3 cites subtraction of the equal parts Part from the equal wholes Whole.
type CN3 struct {
	Whole Equality `json:"whole"`
	Part  Equality `json:"part"`
}

// CN3Angle is CN3 over angles.
type CN3Angle struct {
	Whole Equality `json:"whole"`
	Part  Equality `json:"part"`
}

// CN4 cites superposition of triangle First onto triangle Second.
type CN4 struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// Given cites the hypothesis.
type Given struct{}

// Prop cites a previously proved proposition.
type Prop struct {
	ID string `json:"id"`
}

func (Def15) Kind() CitationKind    { return CiteDef15 }
func (CN1) Kind() CitationKind      { return CiteCN1 }
func (CN3) Kind() CitationKind      { return CiteCN3 }
func (CN3Angle) Kind() CitationKind { return CiteCN3Angle }
func (CN4) Kind() CitationKind      { return CiteCN4 }
func (Given) Kind() CitationKind    { return CiteGiven }
func (Prop) Kind() CitationKind     { return CiteProp }

func (Def15) String() string    { return "Def.15" }
func (CN1) String() string      { return "C.N.1" }
func (CN3) String() string      { return "C.N.3" }
func (CN3Angle) String() string { return "C.N.3" }
func (CN4) String() string      { return "C.N.4" }
func (Given) String() string    { return "Given" }
func (p Prop) String() string   { return "Prop. " + p.ID }

func (Def15) citation()    {}
func (CN1) citation()      {}
func (CN3) citation()      {}
func (CN3Angle) citation() {}
func (CN4) citation()      {}
func (Given) citation()    {}
func (Prop) citation()     {}
