package gridtet

import (
	"math"

	"github.com/soypat/gridtet/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sphere (exact distance field)

type sphere struct {
	radius float64
	bb     r3.Box
}

// Sphere returns a Field for a sphere centered at the origin.
func Sphere(radius float64) Field {
	if radius <= 0 {
		panic("radius <= 0")
	}
	d := d3.Elem(radius)
	return &sphere{
		radius: radius,
		bb:     r3.Box{Min: r3.Scale(-1, d), Max: d},
	}
}

// Evaluate returns the minimum distance to a sphere.
func (s *sphere) Evaluate(p r3.Vec) float64 {
	return r3.Norm(p) - s.radius
}

// Bounds returns the bounding box for a sphere.
func (s *sphere) Bounds() r3.Box {
	return s.bb
}

// box is a 3d box centered at the origin.
type box struct {
	size  r3.Vec
	round float64
	bb    r3.Box
}

// Box returns a Field for a 3d box (rounded corners with round > 0).
func Box(size r3.Vec, round float64) Field {
	if d3.LTEZero(size) {
		panic("size <= 0")
	}
	if round < 0 {
		panic("round < 0")
	}
	size = r3.Scale(0.5, size)
	return &box{
		size:  r3.Sub(size, d3.Elem(round)),
		round: round,
		bb:    r3.Box{Min: r3.Scale(-1, size), Max: size},
	}
}

// Evaluate returns the minimum distance to a 3d box.
func (s *box) Evaluate(p r3.Vec) float64 {
	return sdfBox3d(p, s.size) - s.round
}

// Bounds returns the bounding box for a 3d box.
func (s *box) Bounds() r3.Box {
	return s.bb
}

func sdfBox3d(p, s r3.Vec) float64 {
	d := r3.Sub(d3.AbsElem(p), s)
	if d.X > 0 && d.Y > 0 && d.Z > 0 {
		return r3.Norm(d)
	}
	if d.X > 0 && d.Y > 0 {
		return math.Hypot(d.X, d.Y)
	}
	if d.X > 0 && d.Z > 0 {
		return math.Hypot(d.X, d.Z)
	}
	if d.Y > 0 && d.Z > 0 {
		return math.Hypot(d.Y, d.Z)
	}
	if d.X > 0 {
		return d.X
	}
	if d.Y > 0 {
		return d.Y
	}
	if d.Z > 0 {
		return d.Z
	}
	return d3.Max(d)
}

// plane is a half space bounded by a plane through a point.
type plane struct {
	a r3.Vec // point on plane
	n r3.Vec // unit normal, pointing out of the solid
}

// Plane returns a Field for the half space behind the plane through a with normal n.
// Points on the side n points to are outside (positive distance).
func Plane(a, n r3.Vec) Field {
	if r3.Norm(n) == 0 {
		panic("zero plane normal")
	}
	return &plane{a: a, n: r3.Unit(n)}
}

func (s *plane) Evaluate(p r3.Vec) float64 {
	return r3.Dot(r3.Sub(p, s.a), s.n)
}

// Bounds of a plane is unbounded. An infinite box is returned.
func (s *plane) Bounds() r3.Box {
	inf := math.Inf(1)
	return r3.Box{Min: d3.Elem(-inf), Max: d3.Elem(inf)}
}

// empty is a field with no zero set.
type empty struct{}

// Empty returns a Field that is positive and far from every point.
func Empty() Field { return empty{} }

func (empty) Evaluate(r3.Vec) float64 { return math.MaxFloat64 }

func (empty) Bounds() r3.Box { return r3.Box{} }
