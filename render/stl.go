// Package render writes ring meshes as binary STL files and renders
// their manufacturing summaries and thumbnails.
package render

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/chewxy/math32"
	"github.com/max-flug/optics-ring-generator/mesh"
	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	headerSize   = 80
	triangleSize = 50
)

// FileSize returns the size in bytes of a binary STL file holding n triangles.
func FileSize(n int) int64 {
	return headerSize + 4 + triangleSize*int64(n)
}

// WriteSTL writes triangles to a writer in binary STL file format. header
// fills the 80 byte free-form header; it is truncated or zero padded to fit
// and never begins with "solid", which readers take as the mark of an ASCII
// STL file. It returns the number of bytes written.
func WriteSTL(w io.Writer, header string, model []mesh.Triangle) (int, error) {
	if len(model) == 0 {
		return 0, errors.New("empty triangle slice")
	}
	nt := int64(len(model)) // int64 cast so that next line works correctly on 32bit machines.
	if nt > math.MaxUint32 {
		return 0, errors.New("amount of triangles in model exceeds STL design limits")
	}
	h := stlHeader{
		Text:  headerText(header),
		Count: uint32(nt),
	}
	var buf [headerSize + 4]byte
	h.put(buf[:])
	n, err := w.Write(buf[:])
	if err != nil {
		return n, err
	} else if n != len(buf) {
		return n, io.ErrShortWrite
	}
	var d stlTriangle
	for _, triangle := range model {
		d.Normal = vec32(triangle.N)
		for i, v := range triangle.V {
			d.V[i] = vec32(v)
		}
		d.put(buf[:])
		ngot, err := w.Write(buf[:triangleSize])
		n += ngot
		if err != nil {
			return n, err
		} else if ngot != triangleSize {
			return n, io.ErrShortWrite
		}
	}
	return n, nil
}

func headerText(s string) (h [headerSize]byte) {
	if bytes.HasPrefix(bytes.ToLower(bytes.TrimLeft([]byte(s), " \t\r\n")), []byte("solid")) {
		s = "binary " + s
	}
	copy(h[:], s)
	return h
}

// ReadHeader reads the header and triangle count of a binary STL file.
func ReadHeader(r io.Reader) (header [headerSize]byte, count uint32, err error) {
	var buf [headerSize + 4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return header, 0, errors.New("encountered EOF while reading STL header")
		}
		return header, 0, errors.New("STL header read failed: " + err.Error())
	}
	var h stlHeader
	h.get(buf[:])
	return h.Text, h.Count, nil
}

// ReadSTL reads a binary STL file and returns its triangles and the normals
// stored alongside them. Triangles whose stored normal disagrees with
// their winding are returned along with a non-nil error.
func ReadSTL(r io.Reader) (output []ms3.Triangle, normals []ms3.Vec, readErr error) {
	_, count, err := ReadHeader(r)
	if err != nil {
		return nil, nil, err
	}
	if count == 0 {
		return nil, nil, errors.New("STL header indicates 0 triangles present")
	}
	var (
		buf            [triangleSize]byte
		d              stlTriangle
		i              int
		normMismatches int
	)
	defer func() {
		if readErr != nil && !errors.Is(readErr, errCalculatedNormalMismatch) {
			readErr = fmt.Errorf("%d/%d STL triangles read: %w", i+1, count, readErr)
		}
	}()
	output = make([]ms3.Triangle, 0, count)
	normals = make([]ms3.Vec, 0, count)
	for i = 0; i < int(count); i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, nil, err
		}
		d.get(buf[:])
		if err := d.validate(); err != nil {
			if !errors.Is(err, errCalculatedNormalMismatch) {
				return nil, nil, err
			}
			normMismatches++
			readErr = fmt.Errorf("%w (%d triangles)", errCalculatedNormalMismatch, normMismatches)
		}
		output = append(output, ms3.Triangle(d.V))
		normals = append(normals, d.Normal)
	}
	return output, normals, readErr
}

// stlHeader defines the STL file header.
type stlHeader struct {
	Text  [headerSize]byte
	Count uint32 // Number of triangles
}

func (h stlHeader) put(b []byte) {
	_ = b[83] // early bounds check
	copy(b, h.Text[:])
	binary.LittleEndian.PutUint32(b[headerSize:], h.Count)
}

func (h *stlHeader) get(b []byte) {
	_ = b[83] // early bounds check
	copy(h.Text[:], b)
	h.Count = binary.LittleEndian.Uint32(b[headerSize:])
}

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal ms3.Vec
	V      [3]ms3.Vec
	_      uint16 // Attribute byte count
}

func (t stlTriangle) put(b []byte) {
	if len(b) < triangleSize {
		panic("need length 50 to marshal stlTriangle")
	}
	put3F32(b, t.Normal)
	put3F32(b[12:], t.V[0])
	put3F32(b[24:], t.V[1])
	put3F32(b[36:], t.V[2])
	binary.LittleEndian.PutUint16(b[48:], 0) // Zero out attributes.
}

func (t *stlTriangle) get(b []byte) {
	if len(b) < triangleSize {
		panic("need length 50 to unmarshal stlTriangle")
	}
	t.Normal = get3F32(b)
	t.V[0] = get3F32(b[12:])
	t.V[1] = get3F32(b[24:])
	t.V[2] = get3F32(b[36:])
	// attributes are ignored.
}

func put3F32(b []byte, v ms3.Vec) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v.Z))
}

func get3F32(b []byte) ms3.Vec {
	_ = b[11] // early bounds check
	return ms3.Vec{
		X: math.Float32frombits(binary.LittleEndian.Uint32(b)),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		Z: math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}

func vec32(v r3.Vec) ms3.Vec {
	return ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

func badVec(v ms3.Vec) bool {
	return math32.IsNaN(v.X) || math32.IsInf(v.X, 0) ||
		math32.IsNaN(v.Y) || math32.IsInf(v.Y, 0) ||
		math32.IsNaN(v.Z) || math32.IsInf(v.Z, 0)
}

var errCalculatedNormalMismatch = errors.New("stored normal disagrees with triangle winding")

func (t stlTriangle) validate() error {
	const epsilon = 1e-12
	const normTol = 5e-2
	if badVec(t.Normal) {
		return errors.New("inf/NaN STL triangle normal")
	}
	if badVec(t.V[0]) || badVec(t.V[1]) || badVec(t.V[2]) {
		return errors.New("inf/NaN STL triangle vertex")
	}
	if ms3.Triangle(t.V).IsDegenerate(epsilon) {
		return errors.New("triangle is degenerate")
	}
	if !equalWithin3F32(t.normalFromVertices(), t.Normal, normTol) {
		return errCalculatedNormalMismatch
	}
	return nil
}

func equalWithin3F32(a, b ms3.Vec, tol float32) bool {
	d := ms3.AbsElem(ms3.Sub(a, b))
	return d.X <= tol && d.Y <= tol && d.Z <= tol
}

func (t stlTriangle) normalFromVertices() ms3.Vec {
	v1 := ms3.Scale(10, t.V[0])
	v2 := ms3.Scale(10, t.V[1])
	v3 := ms3.Scale(10, t.V[2])
	e1 := ms3.Sub(v2, v1)
	e2 := ms3.Sub(v3, v1)
	return ms3.Unit(ms3.Cross(e1, e2))
}
