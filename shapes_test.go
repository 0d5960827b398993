package gridtet

import (
	"math"
	"testing"

	"github.com/soypat/gridtet/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestShapes(t *testing.T) {
	const tol = 1e-12
	for _, test := range []struct {
		name string
		f    Field
		p    r3.Vec
		want float64
	}{
		{name: "sphere center", f: Sphere(2), p: r3.Vec{}, want: -2},
		{name: "sphere outside", f: Sphere(2), p: r3.Vec{X: 3}, want: 1},
		{name: "box face", f: Box(d3.Elem(2), 0), p: r3.Vec{Y: 3}, want: 2},
		{name: "box inside", f: Box(d3.Elem(2), 0), p: r3.Vec{X: 0.5}, want: -0.5},
		{name: "box edge", f: Box(d3.Elem(2), 0), p: r3.Vec{X: 2, Y: 2}, want: math.Sqrt2},
		{name: "plane", f: Plane(r3.Vec{Z: 1}, r3.Vec{Z: 2}), p: r3.Vec{X: 5, Z: 4}, want: 3},
		{name: "union", f: Union(Sphere(1), Translate(Sphere(1), r3.Vec{X: 4})), p: r3.Vec{X: 2}, want: 1},
		{name: "difference", f: Difference(Sphere(2), Sphere(1)), p: r3.Vec{}, want: 1},
		{name: "translate", f: Translate(Sphere(1), r3.Vec{Y: -1}), p: r3.Vec{Y: -1}, want: -1},
	} {
		got := test.f.Evaluate(test.p)
		if math.Abs(got-test.want) > tol {
			t.Errorf("%s: got %g, want %g", test.name, got, test.want)
		}
	}
}

func TestFieldBounds(t *testing.T) {
	u := Union(Sphere(1), Translate(Box(d3.Elem(2), 0), r3.Vec{X: 3}))
	want := d3.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 4, Y: 1, Z: 1}}
	if !d3.Box(u.Bounds()).Equals(want, 1e-12) {
		t.Errorf("got union bounds %v, want %v", u.Bounds(), want)
	}
	if v := Empty().Evaluate(r3.Vec{}); v <= 0 || math.IsInf(v, 0) {
		t.Errorf("empty field must be positive and finite, got %g", v)
	}
}

func TestUnionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on single field union")
		}
	}()
	Union(Sphere(1))
}

func TestV3i(t *testing.T) {
	a := V3i{1, -2, 3}
	if got := a.Add(V3i{1, 1, 1}).Sub(V3i{2, 0, 0}).Scale(2); got != (V3i{0, -2, 8}) {
		t.Errorf("got %v", got)
	}
	if a.Max() != 3 {
		t.Errorf("max got %d", a.Max())
	}
	if a.InRange(0, 4) || !a.AddScalar(2).InRange(0, 6) {
		t.Error("bad InRange")
	}
}
