package render_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deadsy/sdfx/obj"
	sdfxrender "github.com/deadsy/sdfx/render"
	"github.com/fogleman/fauxgl"
	"github.com/hschendel/stl"
	"github.com/max-flug/optics-ring-generator/mesh"
	"github.com/max-flug/optics-ring-generator/profile"
	"github.com/max-flug/optics-ring-generator/render"
	"github.com/max-flug/optics-ring-generator/ring"
	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/plot/cmpimg"
)

func ringMesh(t testing.TB, v ring.Variant, outer, inner float32) mesh.Mesh {
	t.Helper()
	p, err := ring.New(v, outer, inner)
	if err != nil {
		t.Fatal(err)
	}
	sec, err := profile.Build(p, profile.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	m, err := mesh.Build(sec)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestWriteSTLLayout(t *testing.T) {
	for _, v := range ring.Variants() {
		m := ringMesh(t, v, 50, 25)
		var b bytes.Buffer
		n, err := render.WriteSTL(&b, "optics ring "+v.Code(), m.Triangles)
		if err != nil {
			t.Fatal(err)
		}
		if int64(n) != render.FileSize(m.Len()) || int64(b.Len()) != 84+50*int64(m.Len()) {
			t.Errorf("%v: wrote %d bytes (buffer %d), want %d", v, n, b.Len(), 84+50*m.Len())
		}
		header, count, err := render.ReadHeader(bytes.NewReader(b.Bytes()))
		if err != nil {
			t.Fatal(err)
		}
		if int(count) != m.Len() {
			t.Errorf("%v: header count %d, want %d", v, count, m.Len())
		}
		if got := string(bytes.TrimRight(header[:], "\x00")); got != "optics ring "+v.Code() {
			t.Errorf("%v: header text %q", v, got)
		}
		// Attribute byte count of every record is zero.
		raw := b.Bytes()[84:]
		for i := 0; i < m.Len(); i++ {
			if raw[50*i+48] != 0 || raw[50*i+49] != 0 {
				t.Fatalf("%v: triangle %d has attribute bytes set", v, i)
			}
		}
	}
}

func TestWriteSTLHeaderNeverSolid(t *testing.T) {
	m := ringMesh(t, ring.Convex, 50, 25)
	long := strings.Repeat("x", 100)
	for _, text := range []string{"solid ring", "  SOLID", "Solid", long, ""} {
		var b bytes.Buffer
		if _, err := render.WriteSTL(&b, text, m.Triangles); err != nil {
			t.Fatal(err)
		}
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(b.String()[:80])), "solid") {
			t.Errorf("header for %q starts with solid", text)
		}
		if b.Len() != 84+50*m.Len() {
			t.Errorf("header %q changed file size", text)
		}
	}
}

func TestWriteSTLEmpty(t *testing.T) {
	var b bytes.Buffer
	if _, err := render.WriteSTL(&b, "", nil); err == nil {
		t.Fatal("expected error writing no triangles")
	}
}

func TestReadSTLRoundTrip(t *testing.T) {
	for _, v := range ring.Variants() {
		m := ringMesh(t, v, 3, 1)
		var b bytes.Buffer
		if _, err := render.WriteSTL(&b, "", m.Triangles); err != nil {
			t.Fatal(err)
		}
		tris, normals, err := render.ReadSTL(&b)
		if err != nil {
			t.Fatalf("%v: %s", v, err)
		}
		if len(tris) != m.Len() || len(normals) != m.Len() {
			t.Fatalf("%v: read %d triangles, want %d", v, len(tris), m.Len())
		}
		for i, tri := range tris {
			want := m.Triangles[i]
			for j := range tri {
				w := ms3.Vec{X: float32(want.V[j].X), Y: float32(want.V[j].Y), Z: float32(want.V[j].Z)}
				if tri[j] != w {
					t.Fatalf("%v: triangle %d vertex %d got %v, want %v", v, i, j, tri[j], w)
				}
			}
			n := ms3.Vec{X: float32(want.N.X), Y: float32(want.N.Y), Z: float32(want.N.Z)}
			if normals[i] != n {
				t.Fatalf("%v: triangle %d normal got %v, want %v", v, i, normals[i], n)
			}
		}
	}
}

func TestReadSTLFlippedNormal(t *testing.T) {
	m := ringMesh(t, ring.Convex, 50, 25)
	var b bytes.Buffer
	if _, err := render.WriteSTL(&b, "", m.Triangles); err != nil {
		t.Fatal(err)
	}
	raw := b.Bytes()
	// Negate the stored normal of the first triangle, record starts at byte 84.
	for i := 0; i < 3; i++ {
		off := 84 + 4*i
		f := math.Float32frombits(binary.LittleEndian.Uint32(raw[off:]))
		binary.LittleEndian.PutUint32(raw[off:], math.Float32bits(-f))
	}
	tris, normals, err := render.ReadSTL(bytes.NewReader(raw))
	if err == nil {
		t.Fatal("expected normal mismatch error")
	}
	if !strings.Contains(err.Error(), "normal") {
		t.Errorf("unexpected error %v", err)
	}
	if len(tris) != m.Len() || len(normals) != m.Len() {
		t.Fatalf("read %d triangles with mismatch, want all %d", len(tris), m.Len())
	}
	want := ms3.Vec{X: -float32(m.Triangles[0].N.X), Y: -float32(m.Triangles[0].N.Y), Z: -float32(m.Triangles[0].N.Z)}
	if normals[0] != want {
		t.Errorf("stored normal got %v, want %v", normals[0], want)
	}
}

func TestReadSTLTruncated(t *testing.T) {
	m := ringMesh(t, ring.Concave, 50, 25)
	var b bytes.Buffer
	if _, err := render.WriteSTL(&b, "", m.Triangles); err != nil {
		t.Fatal(err)
	}
	if _, _, err := render.ReadSTL(bytes.NewReader(b.Bytes()[:b.Len()-10])); err == nil {
		t.Error("expected error reading truncated file")
	}
	if _, _, err := render.ReadHeader(bytes.NewReader(b.Bytes()[:40])); err == nil {
		t.Error("expected error reading truncated header")
	}
}

func TestCreateSTL(t *testing.T) {
	m := ringMesh(t, ring.ThreePoint, 40, 20.5)
	for _, atomic := range []bool{false, true} {
		dir := t.TempDir()
		path := filepath.Join(dir, "3P-20.5.stl")
		// Overwrites existing files in both modes.
		if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := render.CreateSTL(path, "3P", m, atomic); err != nil {
			t.Fatal(err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() != render.FileSize(m.Len()) {
			t.Errorf("atomic=%v: file size %d, want %d", atomic, info.Size(), render.FileSize(m.Len()))
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("atomic=%v: left %d files in output directory", atomic, len(entries))
		}
	}
}

func TestCreateSTLMissingDirectory(t *testing.T) {
	m := ringMesh(t, ring.Convex, 50, 25)
	path := filepath.Join(t.TempDir(), "missing", "CX-25.0.stl")
	for _, atomic := range []bool{false, true} {
		err := render.CreateSTL(path, "", m, atomic)
		var werr *render.WriteError
		if !errors.As(err, &werr) {
			t.Fatalf("atomic=%v: got %v, want *WriteError", atomic, err)
		}
		if werr.Path != path {
			t.Errorf("atomic=%v: error path %q, want %q", atomic, werr.Path, path)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("atomic=%v: got %v, want wrapped fs.ErrNotExist", atomic, err)
		}
	}
}

func TestThirdPartyReaders(t *testing.T) {
	for _, v := range ring.Variants() {
		m := ringMesh(t, v, 50, 25)
		path := filepath.Join(t.TempDir(), v.Code()+".stl")
		if err := render.CreateSTL(path, "solid ring", m, false); err != nil {
			t.Fatal(err)
		}
		solid, err := stl.ReadFile(path)
		if err != nil {
			t.Fatalf("%v: hschendel/stl: %s", v, err)
		}
		if solid.IsAscii || len(solid.Triangles) != m.Len() {
			t.Errorf("%v: hschendel/stl read %d triangles (ascii=%v), want %d binary", v, len(solid.Triangles), solid.IsAscii, m.Len())
		}
		for i, tri := range solid.Triangles {
			if tri.Vertices[0][2] != float32(m.Triangles[i].V[0].Z) {
				t.Fatalf("%v: hschendel/stl triangle %d differs", v, i)
			}
		}
		fm, err := fauxgl.LoadSTL(path)
		if err != nil {
			t.Fatalf("%v: fauxgl: %s", v, err)
		}
		if len(fm.Triangles) != m.Len() {
			t.Errorf("%v: fauxgl read %d triangles, want %d", v, len(fm.Triangles), m.Len())
		}
	}
}

func TestThumbnailDeterministic(t *testing.T) {
	dir := t.TempDir()
	stlPath := filepath.Join(dir, "CC-25.0.stl")
	if err := render.CreateSTL(stlPath, "", ringMesh(t, ring.Concave, 50, 25), false); err != nil {
		t.Fatal(err)
	}
	var pngs [2][]byte
	for i := range pngs {
		pngPath := filepath.Join(dir, "thumb"+string(rune('a'+i))+".png")
		if err := render.Thumbnail(stlPath, pngPath, 96, 64); err != nil {
			t.Fatal(err)
		}
		b, err := os.ReadFile(pngPath)
		if err != nil {
			t.Fatal(err)
		}
		pngs[i] = b
	}
	// Depth ties on shared edges are resolved by whichever raster worker
	// gets there first.
	const imgDelta = 0.25
	equal, err := cmpimg.EqualApprox("png", pngs[0], pngs[1], imgDelta)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("thumbnail rendering is not deterministic")
	}
	if err := render.Thumbnail(stlPath, filepath.Join(dir, "bad.png"), 0, 10); err == nil {
		t.Error("expected error for empty thumbnail")
	}
}

func TestWriteReport(t *testing.T) {
	var b bytes.Buffer
	err := render.WriteReport(&b, render.Report{
		Code:        "3P",
		Label:       "Three-point",
		Triangles:   828,
		Material:    "PLA",
		ScaleFactor: 1.002,
		Notes:       []string{"3 contact pads"},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Three-point (3P)", "828", "PLA", "Model scale (PLA):", "1.0020", "3 contact pads"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("report missing %q:\n%s", want, b.String())
		}
	}
}

func BenchmarkSDFXWasher(b *testing.B) {
	stdout := os.Stdout
	defer func() {
		os.Stdout = stdout // pesky sdfx prints out stuff
	}()
	os.Stdout, _ = os.Open(os.DevNull)
	output := filepath.Join(b.TempDir(), "sdfx_washer.stl")
	object, err := obj.Washer3D(&obj.WasherParms{
		Thickness:   6.25,
		InnerRadius: 12.5,
		OuterRadius: 25,
	})
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < b.N; i++ {
		sdfxrender.ToSTL(object, 300, output, &sdfxrender.MarchingCubesOctree{})
	}
}

func BenchmarkRingSTL(b *testing.B) {
	output := filepath.Join(b.TempDir(), "CX-25.0.stl")
	p, err := ring.New(ring.Convex, 50, 25)
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < b.N; i++ {
		sec, err := profile.Build(p, profile.DefaultConfig())
		if err != nil {
			b.Fatal(err)
		}
		m, err := mesh.Build(sec)
		if err != nil {
			b.Fatal(err)
		}
		if err := render.CreateSTL(output, "", m, false); err != nil {
			b.Fatal(err)
		}
	}
}
