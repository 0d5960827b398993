// Package gridtet holds the scalar field interface and the integer vector
// shared by the grid to tetrahedral mesh conversion, plus a few analytic
// fields to test it with.
package gridtet

import (
	"math"
	"strconv"

	"github.com/soypat/gridtet/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Field is the interface to a 3d scalar field whose zero set is the
// surface the mesh must resolve, typically a signed distance field.
type Field interface {
	// Evaluate takes a point in 3D space as input and returns
	// the signed distance of the surface to the point. The distance
	// is negative if the point is contained within the surface.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the zero set of the field.
	Bounds() r3.Box
}

// union is a union of Fields.
type union struct {
	fields []Field
	min    func(a, b float64) float64
	bb     r3.Box
}

// Union returns the union of multiple fields.
// Union will panic if arguments list has less than two fields or if
// an argument Field is nil.
func Union(fields ...Field) Field {
	if len(fields) < 2 {
		panic("union require at least 2 fields")
	}
	for i, x := range fields {
		if x == nil {
			panic("nil field argument (" + strconv.Itoa(i) + ") to Union")
		}
	}
	s := union{
		fields: fields,
		min:    math.Min,
	}
	bb := d3.Box(s.fields[0].Bounds())
	for _, x := range s.fields[1:] {
		bb = bb.Extend(d3.Box(x.Bounds()))
	}
	s.bb = r3.Box(bb)
	return &s
}

// Evaluate returns the minimum distance to a field union.
func (s *union) Evaluate(p r3.Vec) float64 {
	d := s.fields[0].Evaluate(p)
	for _, x := range s.fields[1:] {
		d = s.min(d, x.Evaluate(p))
	}
	return d
}

// Bounds returns the bounding box of a field union.
func (s *union) Bounds() r3.Box {
	return s.bb
}

// diff is the difference of two Fields, s0 - s1.
type diff struct {
	s0  Field
	s1  Field
	max func(a, b float64) float64
}

// Difference returns the difference of two fields, s0 - s1.
// Difference will panic if one any of the arguments is nil.
func Difference(s0, s1 Field) Field {
	if s1 == nil || s0 == nil {
		panic("nil argument to Difference")
	}
	return &diff{s0: s0, s1: s1, max: math.Max}
}

// Evaluate returns the minimum distance to the field difference.
func (s *diff) Evaluate(p r3.Vec) float64 {
	return s.max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// Bounds returns the bounding box of the field difference.
func (s *diff) Bounds() r3.Box {
	return s.s0.Bounds()
}

// translate moves a field by an offset.
type translate struct {
	f   Field
	off r3.Vec
	bb  r3.Box
}

// Translate returns the field f displaced by off.
func Translate(f Field, off r3.Vec) Field {
	if f == nil {
		panic("nil argument to Translate")
	}
	bb := f.Bounds()
	return &translate{
		f:   f,
		off: off,
		bb:  r3.Box{Min: r3.Add(bb.Min, off), Max: r3.Add(bb.Max, off)},
	}
}

func (s *translate) Evaluate(p r3.Vec) float64 {
	return s.f.Evaluate(r3.Sub(p, s.off))
}

func (s *translate) Bounds() r3.Box {
	return s.bb
}
