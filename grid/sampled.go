package grid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/soypat/gridtet/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sampled is a scalar field defined by values at grid cell centroids.
// It is evaluated by trilinear interpolation and clamps outside the grid.
type Sampled struct {
	g      Grid
	values []float64
}

// NewSampled returns a field over g with one value per cell, x varying fastest.
func NewSampled(g Grid, values []float64) (*Sampled, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	want := g.Cells[0] * g.Cells[1] * g.Cells[2]
	if len(values) != want {
		return nil, fmt.Errorf("grid %v needs %d values, got %d", g.Cells, want, len(values))
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non finite value at index %d", i)
		}
	}
	return &Sampled{g: g, values: values}, nil
}

func (s *Sampled) at(i, j, k int) float64 {
	c := s.g.Cells
	return s.values[i+c[0]*(j+c[1]*k)]
}

// Evaluate interpolates the sampled values at p.
func (s *Sampled) Evaluate(p r3.Vec) float64 {
	c := s.g.Cells
	// Continuous centroid index.
	u := d3.DivElem(r3.Sub(p, s.g.Origin), s.g.Spacing)
	u = r3.Sub(u, d3.Elem(0.5))
	u = d3.Clamp(u, r3.Vec{}, r3.Vec{X: float64(c[0] - 1), Y: float64(c[1] - 1), Z: float64(c[2] - 1)})
	i0, tx := split(u.X, c[0])
	j0, ty := split(u.Y, c[1])
	k0, tz := split(u.Z, c[2])
	i1, j1, k1 := min(i0+1, c[0]-1), min(j0+1, c[1]-1), min(k0+1, c[2]-1)

	c00 := lerp(s.at(i0, j0, k0), s.at(i1, j0, k0), tx)
	c10 := lerp(s.at(i0, j1, k0), s.at(i1, j1, k0), tx)
	c01 := lerp(s.at(i0, j0, k1), s.at(i1, j0, k1), tx)
	c11 := lerp(s.at(i0, j1, k1), s.at(i1, j1, k1), tx)
	return lerp(lerp(c00, c10, ty), lerp(c01, c11, ty), tz)
}

// Bounds returns the extent of the sampled centroids.
func (s *Sampled) Bounds() r3.Box { return s.g.Bounds() }

// split returns the lower interpolation index and the fractional weight.
func split(u float64, n int) (int, float64) {
	if n < 2 {
		return 0, 0
	}
	i := int(math.Floor(u))
	if i > n-2 {
		i = n - 2
	}
	return i, u - float64(i)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// ReadValues reads whitespace separated centroid values for g, x varying fastest.
func ReadValues(r io.Reader, g Grid) ([]float64, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	want := g.Cells[0] * g.Cells[1] * g.Cells[2]
	values := make([]float64, 0, want)
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		if len(values) == want {
			return nil, errors.New("more values than grid cells")
		}
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", len(values), err)
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(values) != want {
		return nil, fmt.Errorf("got %d values, grid %v needs %d", len(values), g.Cells, want)
	}
	return values, nil
}
