// Package sdfx implements the kernel.Kernel interface on top of the
// github.com/deadsy/sdfx vector and box types.
package sdfx

import (
	"math"

	"github.com/chazu/elements/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// tolerance separates tangency from a near miss and rejects degenerate
// (zero-length, concentric, parallel) inputs.
const tolerance = 1e-9

// SdfxKernel implements kernel.Kernel using sdfx vectors.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

func cross(a, b v2.Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

// CircleCircle intersects two circles through their radical line. With
// d = |b.Center - a.Center|, the foot of the radical line sits at distance
// (ra² - rb² + d²) / 2d from a.Center and the roots lie ±h off it.
// Root 0 is on the right of the a→b direction, root 1 on the left.
func (k *SdfxKernel) CircleCircle(a, b kernel.Circle) []v2.Vec {
	delta := b.Center.Sub(a.Center)
	d := delta.Length()
	if d < tolerance || a.Radius < tolerance || b.Radius < tolerance {
		return nil
	}
	if d > a.Radius+b.Radius+tolerance || d < math.Abs(a.Radius-b.Radius)-tolerance {
		return nil
	}

	along := (a.Radius*a.Radius - b.Radius*b.Radius + d*d) / (2 * d)
	h2 := a.Radius*a.Radius - along*along
	if h2 < 0 {
		h2 = 0
	}
	h := math.Sqrt(h2)

	unit := delta.MulScalar(1 / d)
	foot := a.Center.Add(unit.MulScalar(along))
	if h < tolerance {
		return []v2.Vec{foot}
	}

	normal := v2.Vec{X: unit.Y, Y: -unit.X}
	return []v2.Vec{
		foot.Add(normal.MulScalar(h)),
		foot.Sub(normal.MulScalar(h)),
	}
}

// CircleLine solves |P + t(Q-P) - C|² = r² for t.
func (k *SdfxKernel) CircleLine(c kernel.Circle, l kernel.Line) []kernel.LineRoot {
	dir := l.Q.Sub(l.P)
	qa := dir.Dot(dir)
	if qa < tolerance || c.Radius < tolerance {
		return nil
	}
	rel := l.P.Sub(c.Center)
	qb := 2 * rel.Dot(dir)
	qc := rel.Dot(rel) - c.Radius*c.Radius

	disc := qb*qb - 4*qa*qc
	if disc < -tolerance*qa {
		return nil
	}
	if disc <= tolerance*qa {
		t := -qb / (2 * qa)
		return []kernel.LineRoot{{Pos: l.At(t), T: t}}
	}

	sq := math.Sqrt(disc)
	t0 := (-qb - sq) / (2 * qa)
	t1 := (-qb + sq) / (2 * qa)
	return []kernel.LineRoot{
		{Pos: l.At(t0), T: t0},
		{Pos: l.At(t1), T: t1},
	}
}

// LineLine intersects two lines given in two-point form.
func (k *SdfxKernel) LineLine(a, b kernel.Line) (kernel.CrossRoot, bool) {
	da := a.Q.Sub(a.P)
	db := b.Q.Sub(b.P)
	denom := cross(da, db)
	if math.Abs(denom) < tolerance {
		return kernel.CrossRoot{}, false
	}
	rel := b.P.Sub(a.P)
	t := cross(rel, db) / denom
	u := cross(rel, da) / denom
	return kernel.CrossRoot{Pos: a.At(t), T: t, U: u}, true
}

// Bounds encloses the points and circles using sdf.Box2.
func (k *SdfxKernel) Bounds(points []v2.Vec, circles []kernel.Circle) kernel.Box {
	var box sdf.Box2
	first := true
	grow := func(b sdf.Box2) {
		if first {
			box = b
			first = false
			return
		}
		box = box.Extend(b)
	}

	for _, p := range points {
		grow(sdf.Box2{Min: p, Max: p})
	}
	for _, c := range circles {
		r := v2.Vec{X: c.Radius, Y: c.Radius}
		grow(sdf.Box2{Min: c.Center.Sub(r), Max: c.Center.Add(r)})
	}
	return kernel.Box{Min: box.Min, Max: box.Max}
}
