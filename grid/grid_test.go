package grid

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/soypat/gridtet"
	"github.com/soypat/gridtet/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestDepthMax(t *testing.T) {
	for _, test := range []struct {
		cells [3]int
		want  int
	}{
		{cells: [3]int{5, 5, 5}, want: 2},
		{cells: [3]int{9, 5, 5}, want: 3},
		{cells: [3]int{10, 5, 5}, want: 4},
		{cells: [3]int{5, 10, 3}, want: 4},
		{cells: [3]int{2, 1, 1}, want: 0},
		{cells: [3]int{3, 1, 1}, want: 1},
		{cells: [3]int{17, 2, 2}, want: 4},
		{cells: [3]int{18, 2, 2}, want: 5},
	} {
		got, err := DepthMax(test.cells)
		if err != nil {
			t.Errorf("%v: %s", test.cells, err)
			continue
		}
		if got != test.want {
			t.Errorf("%v: got depth %d, want %d", test.cells, got, test.want)
		}
	}
}

func TestDepthMaxDegenerate(t *testing.T) {
	for _, cells := range [][3]int{{1, 1, 1}, {0, 0, 0}, {1, 0, 1}} {
		_, err := DepthMax(cells)
		if !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("%v: expected ErrInvalidGrid, got %v", cells, err)
		}
	}
}

func TestDepthMaxLimit(t *testing.T) {
	depth, err := DepthMax([3]int{1<<MaxDepth + 1, 2, 2})
	if err != nil || depth != MaxDepth {
		t.Fatalf("got depth %d err %v, want %d", depth, err, MaxDepth)
	}
	_, err = DepthMax([3]int{1<<MaxDepth + 2, 2, 2})
	if !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid beyond MaxDepth, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	good := Grid{Cells: [3]int{4, 4, 4}, Spacing: d3.Elem(1)}
	if err := good.Validate(); err != nil {
		t.Fatal(err)
	}
	bad := []Grid{
		{Cells: [3]int{4, 0, 4}, Spacing: d3.Elem(1)},
		{Cells: [3]int{1, 1, 1}, Spacing: d3.Elem(1)},
		{Cells: [3]int{4, 4, 4}, Spacing: r3.Vec{X: 1, Y: 0, Z: 1}},
		{Cells: [3]int{4, 4, 4}, Spacing: r3.Vec{X: 1, Y: math.NaN(), Z: 1}},
		{Cells: [3]int{4, 4, 4}, Spacing: d3.Elem(1), Origin: r3.Vec{X: math.Inf(1)}},
	}
	for _, g := range bad {
		if err := g.Validate(); !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("%+v: expected ErrInvalidGrid, got %v", g, err)
		}
	}
}

func TestNodeMapping(t *testing.T) {
	g := Grid{
		Cells:   [3]int{5, 3, 2},
		Origin:  r3.Vec{X: -1, Y: 2, Z: 0},
		Spacing: r3.Vec{X: 0.5, Y: 1, Z: 2},
	}
	// First dual node is the first centroid.
	got := g.Node(gridtet.V3i{})
	want := r3.Vec{X: -0.75, Y: 2.5, Z: 1}
	if !d3.EqualWithin(got, want, 1e-12) {
		t.Errorf("node 0: got %v, want %v", got, want)
	}
	if c := g.Centroid(gridtet.V3i{}); c != got {
		t.Errorf("centroid 0 %v differs from node 0 %v", c, got)
	}
	// Odd half unit coordinates sit between centroids.
	got = g.Node(gridtet.V3i{1, 1, 1})
	want = r3.Vec{X: -0.5, Y: 3, Z: 2}
	if !d3.EqualWithin(got, want, 1e-12) {
		t.Errorf("node 1: got %v, want %v", got, want)
	}
	bb := d3.Box(g.Bounds())
	wantSize := r3.Vec{X: 2, Y: 2, Z: 2}
	if !d3.EqualWithin(bb.Size(), wantSize, 1e-12) {
		t.Errorf("bounds size got %v, want %v", bb.Size(), wantSize)
	}
	if n := g.DualCells(); n != (gridtet.V3i{4, 2, 1}) {
		t.Errorf("dual cells got %v", n)
	}
}

func TestMaxDistance(t *testing.T) {
	g := Grid{Cells: [3]int{3, 3, 3}, Spacing: r3.Vec{X: 2, Y: 2, Z: 2}}
	if got := g.MaxDistance(); math.Abs(got-math.Sqrt(3)) > 1e-12 {
		t.Errorf("got %g, want sqrt(3)", got)
	}
	if g.LegacyMaxDistance() != g.MaxDistance() {
		t.Error("legacy distance must match when dx == dz")
	}
	g.Spacing = r3.Vec{X: 1, Y: 1, Z: 4}
	want := math.Sqrt(0.25 + 0.25 + 0.5*2)
	if got := g.LegacyMaxDistance(); math.Abs(got-want) > 1e-12 {
		t.Errorf("legacy got %g, want %g", got, want)
	}
	if g.LegacyMaxDistance() == g.MaxDistance() {
		t.Error("legacy distance should differ when dx != dz")
	}
}

func TestSampledLinear(t *testing.T) {
	g := Grid{Cells: [3]int{4, 3, 5}, Origin: r3.Vec{X: 1}, Spacing: r3.Vec{X: 1, Y: 2, Z: 0.5}}
	lin := func(p r3.Vec) float64 { return 2*p.X - p.Y + 3*p.Z - 1 }
	var values []float64
	for k := 0; k < g.Cells[2]; k++ {
		for j := 0; j < g.Cells[1]; j++ {
			for i := 0; i < g.Cells[0]; i++ {
				values = append(values, lin(g.Centroid(gridtet.V3i{i, j, k})))
			}
		}
	}
	s, err := NewSampled(g, values)
	if err != nil {
		t.Fatal(err)
	}
	bb := d3.Box(s.Bounds())
	for i := 0; i <= 10; i++ {
		f := float64(i) / 10
		p := r3.Add(bb.Min, d3.MulElem(d3.Elem(f), bb.Size()))
		p.Y = bb.Min.Y + (1-f)*bb.Size().Y
		got := s.Evaluate(p)
		if math.Abs(got-lin(p)) > 1e-9 {
			t.Errorf("at %v: got %g, want %g", p, got, lin(p))
		}
	}
	// Clamped outside the centroid box.
	out := r3.Sub(bb.Min, d3.Elem(10))
	if got, want := s.Evaluate(out), lin(bb.Min); math.Abs(got-want) > 1e-9 {
		t.Errorf("clamped: got %g, want %g", got, want)
	}
}

func TestReadValues(t *testing.T) {
	g := Grid{Cells: [3]int{2, 2, 1}, Spacing: d3.Elem(1)}
	vals, err := ReadValues(strings.NewReader("1 2\n3\t-4.5\n"), g)
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 4 || vals[3] != -4.5 {
		t.Errorf("unexpected values %v", vals)
	}
	_, err = ReadValues(strings.NewReader("1 2 3"), g)
	if err == nil {
		t.Error("expected error for missing values")
	}
	_, err = ReadValues(strings.NewReader("1 2 3 4 5"), g)
	if err == nil {
		t.Error("expected error for extra values")
	}
	_, err = ReadValues(strings.NewReader("1 2 x 4"), g)
	if err == nil {
		t.Error("expected parse error")
	}
}
