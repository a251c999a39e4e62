package sdfx

import (
	"math"
	"testing"

	"github.com/chazu/elements/pkg/kernel"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

const eps = 1e-9

func near(a, b v2.Vec) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6
}

func TestCircleCircleTwoRoots(t *testing.T) {
	k := New()
	a := kernel.Circle{Center: v2.Vec{X: 0, Y: 0}, Radius: 3}
	b := kernel.Circle{Center: v2.Vec{X: 3, Y: 0}, Radius: 3}

	roots := k.CircleCircle(a, b)
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	h := 3 * math.Sqrt(3) / 2
	if !near(roots[0], v2.Vec{X: 1.5, Y: -h}) {
		t.Errorf("root 0 = %v, want (1.5, %.4f)", roots[0], -h)
	}
	if !near(roots[1], v2.Vec{X: 1.5, Y: h}) {
		t.Errorf("root 1 = %v, want (1.5, %.4f)", roots[1], h)
	}

	// Same inputs, same order.
	again := k.CircleCircle(a, b)
	if !near(again[0], roots[0]) || !near(again[1], roots[1]) {
		t.Error("root order is not reproducible")
	}
}

func TestCircleCircleDegenerate(t *testing.T) {
	k := New()
	tests := []struct {
		name string
		a, b kernel.Circle
		want int
	}{
		{"disjoint", kernel.Circle{Center: v2.Vec{}, Radius: 1}, kernel.Circle{Center: v2.Vec{X: 5}, Radius: 1}, 0},
		{"nested", kernel.Circle{Center: v2.Vec{}, Radius: 5}, kernel.Circle{Center: v2.Vec{X: 1}, Radius: 1}, 0},
		{"concentric", kernel.Circle{Center: v2.Vec{}, Radius: 2}, kernel.Circle{Center: v2.Vec{}, Radius: 2}, 0},
		{"zero radius", kernel.Circle{Center: v2.Vec{}, Radius: 0}, kernel.Circle{Center: v2.Vec{X: 1}, Radius: 1}, 0},
		{"external tangent", kernel.Circle{Center: v2.Vec{}, Radius: 1}, kernel.Circle{Center: v2.Vec{X: 2}, Radius: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(k.CircleCircle(tt.a, tt.b)); got != tt.want {
				t.Errorf("roots = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCircleLine(t *testing.T) {
	k := New()
	c := kernel.Circle{Center: v2.Vec{X: 0, Y: 0}, Radius: 2}
	l := kernel.Line{P: v2.Vec{X: -4, Y: 0}, Q: v2.Vec{X: 4, Y: 0}}

	roots := k.CircleLine(c, l)
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].T >= roots[1].T {
		t.Errorf("roots not ordered by T: %v, %v", roots[0].T, roots[1].T)
	}
	if !near(roots[0].Pos, v2.Vec{X: -2}) || !near(roots[1].Pos, v2.Vec{X: 2}) {
		t.Errorf("roots = %v, %v", roots[0].Pos, roots[1].Pos)
	}
	if math.Abs(roots[0].T-0.25) > eps || math.Abs(roots[1].T-0.75) > eps {
		t.Errorf("parameters = %v, %v; want 0.25, 0.75", roots[0].T, roots[1].T)
	}

	tangent := kernel.Line{P: v2.Vec{X: -4, Y: 2}, Q: v2.Vec{X: 4, Y: 2}}
	if got := len(k.CircleLine(c, tangent)); got != 1 {
		t.Errorf("tangent roots = %d, want 1", got)
	}
	miss := kernel.Line{P: v2.Vec{X: -4, Y: 3}, Q: v2.Vec{X: 4, Y: 3}}
	if got := len(k.CircleLine(c, miss)); got != 0 {
		t.Errorf("miss roots = %d, want 0", got)
	}
	point := kernel.Line{P: v2.Vec{X: 1}, Q: v2.Vec{X: 1}}
	if got := len(k.CircleLine(c, point)); got != 0 {
		t.Errorf("zero-length line roots = %d, want 0", got)
	}
}

func TestLineLine(t *testing.T) {
	k := New()
	a := kernel.Line{P: v2.Vec{X: 0, Y: 0}, Q: v2.Vec{X: 2, Y: 2}}
	b := kernel.Line{P: v2.Vec{X: 0, Y: 2}, Q: v2.Vec{X: 2, Y: 0}}

	root, ok := k.LineLine(a, b)
	if !ok {
		t.Fatal("expected crossing")
	}
	if !near(root.Pos, v2.Vec{X: 1, Y: 1}) {
		t.Errorf("crossing = %v, want (1,1)", root.Pos)
	}
	if math.Abs(root.T-0.5) > eps || math.Abs(root.U-0.5) > eps {
		t.Errorf("parameters = %v, %v; want 0.5, 0.5", root.T, root.U)
	}

	parallel := kernel.Line{P: v2.Vec{X: 0, Y: 1}, Q: v2.Vec{X: 2, Y: 3}}
	if _, ok := k.LineLine(a, parallel); ok {
		t.Error("parallel lines reported crossing")
	}
}

func TestBounds(t *testing.T) {
	k := New()
	box := k.Bounds(
		[]v2.Vec{{X: 0, Y: 0}, {X: 3, Y: 1}},
		[]kernel.Circle{{Center: v2.Vec{X: 3, Y: 0}, Radius: 2}},
	)
	if !near(box.Min, v2.Vec{X: 0, Y: -2}) || !near(box.Max, v2.Vec{X: 5, Y: 2}) {
		t.Errorf("bounds = %v..%v", box.Min, box.Max)
	}
}
