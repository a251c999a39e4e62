package construction

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestLabelRoundTrip(t *testing.T) {
	tests := []struct {
		index int
		label string
	}{
		{0, "A"},
		{25, "Z"},
		{26, "A1"},
		{27, "B1"},
		{52, "A2"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := LabelAt(tt.index); got != tt.label {
				t.Errorf("LabelAt(%d) = %q, want %q", tt.index, got, tt.label)
			}
			idx, ok := LabelIndex(tt.label)
			if !ok || idx != tt.index {
				t.Errorf("LabelIndex(%q) = %d, %v; want %d, true", tt.label, idx, ok, tt.index)
			}
		})
	}

	for _, bad := range []string{"", "a", "A0", "A'", "AB"} {
		if _, ok := LabelIndex(bad); ok {
			t.Errorf("LabelIndex(%q) should not parse", bad)
		}
	}
}

func TestAddPointDoesNotMutateInput(t *testing.T) {
	s0 := New()
	s1, a := AddPoint(s0, 0, 0, OriginGiven, "")
	s2, b := AddPoint(s1, 3, 0, OriginGiven, "")

	if s0.Len() != 0 {
		t.Fatalf("input state mutated: len %d", s0.Len())
	}
	if s1.Len() != 1 || s2.Len() != 2 {
		t.Fatalf("lengths = %d, %d; want 1, 2", s1.Len(), s2.Len())
	}
	if a.ID != "pt-A" || b.ID != "pt-B" {
		t.Errorf("ids = %s, %s; want pt-A, pt-B", a.ID, b.ID)
	}
	if _, ok := s1.Point("pt-B"); ok {
		t.Error("earlier state sees a later point")
	}
}

func TestAppendDoesNotAliasSiblings(t *testing.T) {
	// Two branches from the same parent must not overwrite each other even
	// when the parent slice has spare capacity.
	base := New()
	for i := 0; i < 3; i++ {
		base, _ = AddPoint(base, float64(i), 0, OriginGiven, "")
	}
	left, _ := AddSegment(base, "pt-A", "pt-B", OriginStraightedge)
	right, _ := AddCircle(base, "pt-A", "pt-C", OriginCompass)

	if _, ok := left.Segment("seg-0"); !ok {
		t.Error("left branch lost its segment")
	}
	if _, ok := right.Segment("seg-0"); ok {
		t.Error("right branch sees the left branch's segment")
	}
	if _, ok := right.Circle("cir-0"); !ok {
		t.Error("right branch lost its circle")
	}
}

func TestElementCountsAndIDs(t *testing.T) {
	s := New()
	s, _ = AddPoint(s, 0, 0, OriginGiven, "")
	s, _ = AddPoint(s, 1, 0, OriginGiven, "")

	var seg Segment
	var cir Circle
	for i := 0; i < 2; i++ {
		before := s.Len()
		s, seg = AddSegment(s, "pt-A", "pt-B", OriginStraightedge)
		if s.Len() != before+1 {
			t.Fatalf("segment add changed len by %d", s.Len()-before)
		}
		before = s.Len()
		s, cir = AddCircle(s, "pt-A", "pt-B", OriginCompass)
		if s.Len() != before+1 {
			t.Fatalf("circle add changed len by %d", s.Len()-before)
		}
	}
	if seg.ID != "seg-1" || cir.ID != "cir-1" {
		t.Errorf("ids = %s, %s; want seg-1, cir-1", seg.ID, cir.ID)
	}
	if n := len(s.Segments()); n != 2 {
		t.Errorf("segments = %d, want 2", n)
	}
	if n := len(s.Circles()); n != 2 {
		t.Errorf("circles = %d, want 2", n)
	}
}

func TestExplicitLabelAdvancesCursor(t *testing.T) {
	s := New()
	s, _ = AddPoint(s, 0, 0, OriginGiven, "")
	s, d := AddPoint(s, 1, 1, OriginIntersection, "D")
	if d.ID != "pt-D" {
		t.Fatalf("explicit label ignored: %s", d.ID)
	}
	if got := s.NextLabel(); got != "E" {
		t.Errorf("NextLabel = %q, want E", got)
	}

	// An explicit label behind the cursor leaves the cursor alone.
	s, _ = AddPoint(s, 2, 2, OriginIntersection, "B")
	if got := s.NextLabel(); got != "E" {
		t.Errorf("NextLabel after back-label = %q, want E", got)
	}

	// Non-allocator labels never move the cursor.
	s, _ = AddPoint(s, 3, 3, OriginFree, "P'")
	if got := s.NextLabel(); got != "E" {
		t.Errorf("NextLabel after custom label = %q, want E", got)
	}
}

func TestColorAllocation(t *testing.T) {
	s := New()
	s, a := AddPoint(s, 0, 0, OriginGiven, "")
	s, f := AddPoint(s, 1, 0, OriginFree, "")
	if a.Color != GivenColor || f.Color != GivenColor {
		t.Errorf("given/free colours = %s, %s; want %s", a.Color, f.Color, GivenColor)
	}
	if s.NextColorIndex() != 0 {
		t.Fatalf("given points consumed palette slots: %d", s.NextColorIndex())
	}

	s, c := AddCircle(s, "pt-A", "pt-B", OriginCompass)
	s, p := AddPoint(s, 2, 2, OriginIntersection, "")
	if c.Color != Palette[0] || p.Color != Palette[1] {
		t.Errorf("palette colours = %s, %s; want %s, %s", c.Color, p.Color, Palette[0], Palette[1])
	}
	for i := 0; i < len(Palette); i++ {
		s, _ = AddSegment(s, "pt-A", "pt-B", OriginStraightedge)
	}
	if s.NextColorIndex() != len(Palette)+2 {
		t.Errorf("colour cursor = %d, want %d", s.NextColorIndex(), len(Palette)+2)
	}
}

func TestSkipPointLabelMatchesAddPoint(t *testing.T) {
	s := New()
	s, _ = AddPoint(s, 0, 0, OriginGiven, "")
	s, _ = AddPoint(s, 3, 0, OriginGiven, "")

	added, _ := AddPoint(s, 1, 1, OriginIntersection, "")
	skipped := SkipPointLabel(s, "")

	if added.NextLabel() != skipped.NextLabel() {
		t.Errorf("next label after add %q != after skip %q", added.NextLabel(), skipped.NextLabel())
	}
	if added.NextColorIndex() != skipped.NextColorIndex() {
		t.Errorf("colour cursor after add %d != after skip %d", added.NextColorIndex(), skipped.NextColorIndex())
	}
	if skipped.Len() != s.Len() {
		t.Errorf("skip added an element")
	}

	explicit := SkipPointLabel(s, "F")
	if explicit.NextLabel() != "G" {
		t.Errorf("skip with explicit label: next = %q, want G", explicit.NextLabel())
	}
}

func TestLookupsAreTotal(t *testing.T) {
	s := New()
	s, _ = AddPoint(s, 0, 0, OriginGiven, "")
	s, _ = AddPoint(s, 3, 4, OriginGiven, "")
	s, c := AddCircle(s, "pt-A", "pt-B", OriginCompass)

	if _, ok := s.Point("pt-Z"); ok {
		t.Error("missing point reported present")
	}
	if _, ok := s.Point(c.ID); ok {
		t.Error("circle id resolved as point")
	}
	if _, ok := s.Segment("seg-0"); ok {
		t.Error("missing segment reported present")
	}
	if _, ok := s.Circle("cir-9"); ok {
		t.Error("missing circle reported present")
	}
	r, ok := s.Radius(c)
	if !ok || r != 5 {
		t.Errorf("Radius = %v, %v; want 5, true", r, ok)
	}
	if _, ok := s.Radius(Circle{CenterID: "pt-Q", RadiusPointID: "pt-A"}); ok {
		t.Error("radius of circle with unknown centre reported ok")
	}
}

func TestPointJSONNamesOrigin(t *testing.T) {
	tests := []struct {
		origin Origin
		want   string
	}{
		{OriginGiven, `"origin":"given"`},
		{OriginCompass, `"origin":"compass"`},
		{OriginStraightedge, `"origin":"straightedge"`},
		{OriginIntersection, `"origin":"intersection"`},
		{OriginFree, `"origin":"free"`},
	}
	for _, tt := range tests {
		t.Run(tt.origin.String(), func(t *testing.T) {
			_, p := AddPoint(New(), 1, 2, tt.origin, "")
			data, err := json.Marshal(p)
			if err != nil {
				t.Fatalf("Marshal() returned unexpected error: %v", err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("json = %s, want it to contain %s", data, tt.want)
			}
		})
	}
}
