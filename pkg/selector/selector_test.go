package selector

import (
	"testing"

	"github.com/chazu/elements/pkg/construction"
)

func TestResolve(t *testing.T) {
	s := construction.New()
	s, _ = construction.AddPoint(s, 0, 0, construction.OriginGiven, "")
	s, _ = construction.AddPoint(s, 3, 0, construction.OriginGiven, "")
	s, _ = construction.AddCircle(s, "pt-A", "pt-B", construction.OriginCompass)
	s, _ = construction.AddSegment(s, "pt-B", "pt-A", construction.OriginStraightedge)

	tests := []struct {
		name   string
		sel    Selector
		wantID string
		wantOK bool
	}{
		{"raw point id", ByID("pt-A"), "pt-A", true},
		{"raw circle id", ByID("cir-0"), "cir-0", true},
		{"unknown id", ByID("cir-7"), "", false},
		{"circle", CircleThrough("pt-A", "pt-B"), "cir-0", true},
		{"circle swapped is a different circle", CircleThrough("pt-B", "pt-A"), "", false},
		{"segment as drawn", SegmentBetween("pt-B", "pt-A"), "seg-0", true},
		{"segment reversed", SegmentBetween("pt-A", "pt-B"), "seg-0", true},
		{"segment missing", SegmentBetween("pt-A", "pt-C"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := Resolve(s, tt.sel)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("Resolve(%s) = %q, %v; want %q, %v", tt.sel, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestSelectorString(t *testing.T) {
	if got := CircleThrough("pt-A", "pt-B").String(); got != "circle(A, B)" {
		t.Errorf("circle string = %q", got)
	}
	if got := SegmentBetween("pt-D", "pt-B").String(); got != "line DB" {
		t.Errorf("segment string = %q", got)
	}
	if got := ByID("seg-2").String(); got != "seg-2" {
		t.Errorf("id string = %q", got)
	}
}
