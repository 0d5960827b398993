package tetra

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/multierr"
)

// Format is a mesh output format.
type Format int

const (
	FormatMedit Format = iota
	FormatSTL
	FormatGLB
)

// FormatOf returns the format matching the extension of name. A trailing
// .zst extension is ignored.
func FormatOf(name string) (Format, error) {
	name = strings.TrimSuffix(name, ".zst")
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".mesh":
		return FormatMedit, nil
	case ".stl":
		return FormatSTL, nil
	case ".glb":
		return FormatGLB, nil
	default:
		return 0, fmt.Errorf("unknown mesh format %q", ext)
	}
}

// Write writes the mesh in format f.
func (m *Mesh) Write(w io.Writer, f Format) error {
	switch f {
	case FormatMedit:
		return m.WriteMedit(w)
	case FormatSTL:
		return m.WriteSTL(w)
	case FormatGLB:
		return m.WriteGLB(w)
	}
	return fmt.Errorf("unknown mesh format %d", f)
}

// CreateFile creates the named file for writing. Names ending in .zst are
// compressed with zstandard. Close must be called to flush the output.
func CreateFile(name string) (io.WriteCloser, error) {
	fp, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(name, ".zst") {
		return fp, nil
	}
	enc, err := zstd.NewWriter(fp, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		fp.Close()
		return nil, err
	}
	return &zstdFile{enc: enc, fp: fp}, nil
}

type zstdFile struct {
	enc *zstd.Encoder
	fp  *os.File
}

func (z *zstdFile) Write(b []byte) (int, error) { return z.enc.Write(b) }

func (z *zstdFile) Close() error {
	return multierr.Combine(z.enc.Close(), z.fp.Close())
}

// SaveFile writes the mesh to the named file, choosing the format from its
// extension.
func (m *Mesh) SaveFile(name string) error {
	f, err := FormatOf(name)
	if err != nil {
		return err
	}
	fp, err := CreateFile(name)
	if err != nil {
		return err
	}
	if err := m.Write(fp, f); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
