/*

Integer 3D Vectors

*/

package gridtet

import "gonum.org/v1/gonum/spatial/r3"

// V3i is a 3D integer vector. Octree cell origins and mesh lattice
// points are expressed as V3i.
type V3i [3]int

// AddScalar adds a scalar to each component of the vector.
func (a V3i) AddScalar(b int) V3i {
	return V3i{a[0] + b, a[1] + b, a[2] + b}
}

// Add adds two vectors. Return v = a + b.
func (a V3i) Add(b V3i) V3i {
	return V3i{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub subtracts two vectors. Return v = a - b.
func (a V3i) Sub(b V3i) V3i {
	return V3i{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale multiplies each component by k.
func (a V3i) Scale(k int) V3i {
	return V3i{a[0] * k, a[1] * k, a[2] * k}
}

// ToV3 converts V3i (integer) to r3.Vec (float).
func (a V3i) ToV3() r3.Vec {
	return r3.Vec{X: float64(a[0]), Y: float64(a[1]), Z: float64(a[2])}
}

// Max returns the largest component.
func (a V3i) Max() int {
	m := a[0]
	if a[1] > m {
		m = a[1]
	}
	if a[2] > m {
		m = a[2]
	}
	return m
}

// InRange returns true if every component c satisfies lo <= c < hi.
func (a V3i) InRange(lo, hi int) bool {
	return a[0] >= lo && a[0] < hi &&
		a[1] >= lo && a[1] < hi &&
		a[2] >= lo && a[2] < hi
}
