package tetra

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zstd"
	"github.com/qmuntal/gltf"
	"github.com/soypat/gridtet"
	"github.com/soypat/gridtet/internal/d3"
	"github.com/soypat/gridtet/octree"
)

func testMesh(t *testing.T) *Mesh {
	t.Helper()
	g := unitGrid([3]int{9, 9, 9})
	f := gridtet.Translate(gridtet.Sphere(2), d3.Elem(4.5))
	o := buildTree(t, g, f, octree.RefineFull, true)
	m, err := Tetrahedralize(o, g, f)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// readSection returns the count and the lines following a Medit keyword.
func readSection(t *testing.T, text, keyword string) (int, []string) {
	t.Helper()
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		if sc.Text() != keyword {
			continue
		}
		sc.Scan()
		n, err := strconv.Atoi(sc.Text())
		if err != nil {
			t.Fatal(err)
		}
		var lines []string
		for len(lines) < n && sc.Scan() {
			if sc.Text() == "" || sc.Text() == "1 1" {
				continue
			}
			lines = append(lines, sc.Text())
		}
		return n, lines
	}
	t.Fatalf("keyword %q not found", keyword)
	return 0, nil
}

func TestWriteMedit(t *testing.T) {
	m := testMesh(t)
	var buf bytes.Buffer
	if err := m.WriteMedit(&buf); err != nil {
		t.Fatal(err)
	}
	text := buf.String()
	if !strings.HasPrefix(text, "MeshVersionFormatted 2\n") || !strings.HasSuffix(text, "End\n") {
		t.Fatalf("bad medit framing:\n%.200s", text)
	}
	nv, verts := readSection(t, text, "Vertices")
	if nv != len(m.Nodes) || len(verts) != nv {
		t.Fatalf("got %d vertices, want %d", nv, len(m.Nodes))
	}
	nt, tets := readSection(t, text, "Tetrahedra")
	if nt != len(m.Tetras) || len(tets) != nt {
		t.Fatalf("got %d tetrahedra, want %d", nt, len(m.Tetras))
	}
	for i, line := range tets {
		fields := strings.Fields(line)
		if len(fields) != 5 {
			t.Fatalf("tetrahedron line %q", line)
		}
		for j := 0; j < 4; j++ {
			v, _ := strconv.Atoi(fields[j])
			if v != m.Tetras[i][j]+1 {
				t.Fatalf("tetrahedron %d: node %d written as %d", i, m.Tetras[i][j], v)
			}
		}
		if ref, _ := strconv.Atoi(fields[4]); ref != m.Refs[i] {
			t.Fatalf("tetrahedron %d: ref %d written as %d", i, m.Refs[i], ref)
		}
	}
	x, _ := strconv.ParseFloat(strings.Fields(verts[0])[0], 64)
	if x != m.Nodes[0].X {
		t.Errorf("first node x written as %g, want %g", x, m.Nodes[0].X)
	}
}

func TestWriteSol(t *testing.T) {
	m := testMesh(t)
	var buf bytes.Buffer
	if err := m.WriteSol(&buf); err != nil {
		t.Fatal(err)
	}
	n, values := readSection(t, buf.String(), "SolAtVertices")
	if n != len(m.Sol) || len(values) != n {
		t.Fatalf("got %d values, want %d", n, len(m.Sol))
	}
	for i, s := range values {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v != m.Sol[i] {
			t.Fatalf("value %d written as %q, want %g", i, s, m.Sol[i])
		}
	}
	m.Sol = nil
	if err := m.WriteSol(io.Discard); err == nil {
		t.Error("expected error for mesh without solution")
	}
}

func TestWriteSTL(t *testing.T) {
	m := testMesh(t)
	var buf bytes.Buffer
	if err := m.WriteSTL(&buf); err != nil {
		t.Fatal(err)
	}
	tris := m.BoundaryTriangles()
	if want := 84 + 50*len(tris); buf.Len() != want {
		t.Errorf("got %d bytes, want %d", buf.Len(), want)
	}
	if len(tris) == 0 {
		t.Error("no boundary triangles")
	}
}

func TestWriteGLB(t *testing.T) {
	m := testMesh(t)
	var buf bytes.Buffer
	if err := m.WriteGLB(&buf); err != nil {
		t.Fatal(err)
	}
	var doc gltf.Document
	if err := gltf.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Meshes) != 1 || len(doc.Meshes[0].Primitives) != 1 {
		t.Fatalf("unexpected meshes %v", doc.Meshes)
	}
	prim := doc.Meshes[0].Primitives[0]
	if got, want := int(doc.Accessors[*prim.Indices].Count), 3*len(m.BoundaryTriangles()); got != want {
		t.Errorf("got %d indices, want %d", got, want)
	}
	if got := int(doc.Accessors[prim.Attributes[gltf.POSITION]].Count); got != len(m.Nodes) {
		t.Errorf("got %d positions, want %d", got, len(m.Nodes))
	}
}

func TestSaveFileCompressed(t *testing.T) {
	m := testMesh(t)
	dir := t.TempDir()
	plain := filepath.Join(dir, "out.mesh")
	packed := filepath.Join(dir, "out.mesh.zst")
	if err := m.SaveFile(plain); err != nil {
		t.Fatal(err)
	}
	if err := m.SaveFile(packed); err != nil {
		t.Fatal(err)
	}
	want, err := os.ReadFile(plain)
	if err != nil {
		t.Fatal(err)
	}
	fp, err := os.Open(packed)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	dec, err := zstd.NewReader(fp)
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()
	got, err := io.ReadAll(dec)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Errorf("decompressed output differs (-want +got):\n%.500s", diff)
	}
}

func TestFormatOf(t *testing.T) {
	for _, test := range []struct {
		name string
		want Format
		fail bool
	}{
		{name: "a.mesh", want: FormatMedit},
		{name: "dir/a.MESH.zst", want: FormatMedit},
		{name: "a.stl", want: FormatSTL},
		{name: "a.glb.zst", want: FormatGLB},
		{name: "a.obj", fail: true},
		{name: "a", fail: true},
	} {
		got, err := FormatOf(test.name)
		if (err != nil) != test.fail {
			t.Errorf("%s: unexpected error %v", test.name, err)
		} else if !test.fail && got != test.want {
			t.Errorf("%s: got format %d, want %d", test.name, got, test.want)
		}
	}
}
