package tetra

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// WriteMedit writes the mesh in the ASCII Medit format read by mmg.
// Node indices are written one based.
func (m *Mesh) WriteMedit(w io.Writer) error {
	if len(m.Tetras) == 0 {
		return errors.New("empty tetrahedron slice")
	}
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "MeshVersionFormatted 2\n\nDimension 3\n\n")
	fmt.Fprintf(bw, "Vertices\n%d\n", len(m.Nodes))
	for _, n := range m.Nodes {
		bw.WriteString(ftoa(n.X))
		bw.WriteByte(' ')
		bw.WriteString(ftoa(n.Y))
		bw.WriteByte(' ')
		bw.WriteString(ftoa(n.Z))
		bw.WriteString(" 0\n")
	}
	fmt.Fprintf(bw, "\nTetrahedra\n%d\n", len(m.Tetras))
	for i, t := range m.Tetras {
		fmt.Fprintf(bw, "%d %d %d %d %d\n", t[0]+1, t[1]+1, t[2]+1, t[3]+1, m.Refs[i])
	}
	fmt.Fprint(bw, "\nEnd\n")
	return bw.Flush()
}

// WriteSol writes the field values at the nodes as a scalar Medit
// solution file.
func (m *Mesh) WriteSol(w io.Writer) error {
	if m.Sol == nil {
		return errors.New("mesh has no solution")
	}
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "MeshVersionFormatted 2\n\nDimension 3\n\n")
	fmt.Fprintf(bw, "SolAtVertices\n%d\n1 1\n\n", len(m.Sol))
	for _, v := range m.Sol {
		bw.WriteString(ftoa(v))
		bw.WriteByte('\n')
	}
	fmt.Fprint(bw, "\nEnd\n")
	return bw.Flush()
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
