package octree

import (
	"testing"

	"github.com/soypat/gridtet"
	"gonum.org/v1/gonum/spatial/r3"
)

// constField is a field with the same value everywhere.
type constField float64

func (f constField) Evaluate(r3.Vec) float64 { return float64(f) }
func (f constField) Bounds() r3.Box           { return r3.Box{} }

// fullTree returns a tree refined down to depth at every cell. The extent
// covers the whole root.
func fullTree(t testing.TB, depth int) *Octree {
	t.Helper()
	side := 1 << depth
	o, err := New(depth, gridtet.V3i{side, side, side})
	if err != nil {
		t.Fatal(err)
	}
	splitAll(o, o.Root())
	return o
}

func splitAll(o *Octree, c *Cell) {
	if c.Depth == o.DepthMax() {
		return
	}
	if c.IsLeaf() {
		c.split(o.DepthMax())
	}
	for i := range c.children {
		splitAll(o, &c.children[i])
	}
}

type leafKey struct {
	Origin gridtet.V3i
	Depth  int
	Field  bool
}

func snapshot(o *Octree) []leafKey {
	var keys []leafKey
	for _, c := range o.Leaves() {
		keys = append(keys, leafKey{Origin: c.Origin, Depth: c.Depth, Field: c.TouchesField})
	}
	return keys
}

// markField flags the finest leaves containing the given points.
func markField(t testing.TB, o *Octree, points ...gridtet.V3i) {
	t.Helper()
	for _, p := range points {
		c := o.leafAt(p)
		if c == nil || c.Depth != o.DepthMax() {
			t.Fatalf("no finest leaf at %v", p)
		}
		c.TouchesField = true
	}
}

// checkCoarsened verifies the properties every coarsened tree must have.
func checkCoarsened(t *testing.T, o *Octree) {
	t.Helper()
	if err := o.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := o.CheckBalance(); err != nil {
		t.Fatal(err)
	}
	for _, c := range o.Leaves() {
		if c.TouchesField && c.Depth != o.DepthMax() {
			t.Fatalf("merged leaf %v at depth %d touches field", c.Origin, c.Depth)
		}
		if !o.Interior(c) && !o.Exterior(c) {
			t.Fatalf("leaf %v at depth %d straddles extent %v", c.Origin, c.Depth, o.Extent())
		}
	}
}
