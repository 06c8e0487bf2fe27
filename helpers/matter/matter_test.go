package matter

import (
	"errors"
	"math"
	"testing"

	"github.com/max-flug/optics-ring-generator/mesh"
	"github.com/max-flug/optics-ring-generator/profile"
	"github.com/max-flug/optics-ring-generator/ring"
)

func mustRing(t *testing.T, v ring.Variant, outer, inner float32) ring.Parameters {
	t.Helper()
	p, err := ring.New(v, outer, inner)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func codes(vs Violations) []string {
	var c []string
	for _, v := range vs {
		c = append(c, v.Code)
	}
	return c
}

func TestCheck(t *testing.T) {
	l := DefaultLimits()
	for _, test := range []struct {
		outer, inner float32
		want         []string
	}{
		{50, 25, nil},
		{3, 1, []string{BoreTooSmall}},
		{230, 200, []string{ExceedsBed}},
		{220, 218, nil},
		{221, 1.5, []string{BoreTooSmall, ExceedsBed}},
	} {
		vs := Check(mustRing(t, ring.Convex, test.outer, test.inner), l)
		got := codes(vs)
		if len(got) != len(test.want) {
			t.Errorf("%g/%g: got violations %v, want %v", test.outer, test.inner, got, test.want)
			continue
		}
		for i := range got {
			if got[i] != test.want[i] {
				t.Errorf("%g/%g: got violations %v, want %v", test.outer, test.inner, got, test.want)
			}
		}
	}
}

func TestCheckOrderedWithStricterLimits(t *testing.T) {
	l := DefaultLimits()
	l.MinWallThicknessMM = 15
	l.MinInnerDiameterMM = 30
	l.BedDepthMM = 40
	vs := Check(mustRing(t, ring.ThreePoint, 50, 25), l)
	want := []string{WallTooThin, BoreTooSmall, ExceedsBed}
	got := codes(vs)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if vs[0].Actual != 12.5 || vs[0].Limit != 15 {
		t.Errorf("wall violation %+v", vs[0])
	}
	if vs[2].Limit != 40 {
		t.Errorf("bed limit %g, want smaller bed side 40", vs[2].Limit)
	}
	err := vs.Err()
	if !errors.Is(err, ErrNotPrintable) {
		t.Errorf("violations do not match ErrNotPrintable: %v", err)
	}
	var asVs Violations
	if !errors.As(err, &asVs) || len(asVs) != 3 {
		t.Errorf("errors.As did not recover violations from %v", err)
	}
	if Violations(nil).Err() != nil {
		t.Error("empty violations should not be an error")
	}
}

func TestCheckMesh(t *testing.T) {
	p := mustRing(t, ring.ThreePoint, 50, 25)
	sec, err := profile.Build(p, profile.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	m, err := mesh.Build(sec)
	if err != nil {
		t.Fatal(err)
	}
	if vs := CheckMesh(m, DefaultLimits()); len(vs) != 0 {
		t.Fatalf("unexpected violations: %v", vs)
	}

	small := DefaultLimits()
	small.BedWidthMM = 40
	small.BedHeightMM = 2
	got := codes(CheckMesh(m, small))
	if len(got) != 2 || got[0] != ExceedsBed || got[1] != ExceedsBedZ {
		t.Errorf("got %v, want bed footprint then height", got)
	}

	holed := mesh.Mesh{Triangles: m.Triangles[2:]}
	got = codes(CheckMesh(holed, DefaultLimits()))
	if len(got) == 0 || got[0] != NotClosed {
		t.Errorf("got %v, want %s first", got, NotClosed)
	}

	flat := mesh.Mesh{Triangles: append([]mesh.Triangle(nil), m.Triangles...)}
	flat.Triangles[0].V[2] = flat.Triangles[0].V[1]
	got = codes(CheckMesh(flat, DefaultLimits()))
	if !contains(got, DegenerateFaces) {
		t.Errorf("got %v, want %s", got, DegenerateFaces)
	}

	if got := codes(CheckMesh(mesh.Mesh{}, DefaultLimits())); len(got) != 1 || got[0] != NoVolume {
		t.Errorf("empty mesh: got %v", got)
	}
}

func contains(s []string, x string) bool {
	for _, v := range s {
		if v == x {
			return true
		}
	}
	return false
}

func TestLimitsValidate(t *testing.T) {
	if err := DefaultLimits().Validate(); err != nil {
		t.Fatal(err)
	}
	l := DefaultLimits()
	l.BedHeightMM = 0
	if l.Validate() == nil {
		t.Error("expected error for zero bed height")
	}
	l = DefaultLimits()
	l.MinWallThicknessMM = float32(math.NaN())
	if l.Validate() == nil {
		t.Error("expected error for NaN wall limit")
	}
}

func TestMaterials(t *testing.T) {
	const bore = 25.0
	for _, m := range []Material{PLA, PETG} {
		got := m.InternalDimScale(bore)
		if got <= bore {
			t.Errorf("%s: compensated bore %g not larger than %g", m.Name(), got, bore)
		}
		found, err := MaterialByName(" " + m.Name() + " ")
		if err != nil || found.Name() != m.Name() {
			t.Errorf("%s: lookup got %v, %v", m.Name(), found, err)
		}
	}
	if got := PLA.InternalDimScale(bore); math.Abs(got-(bore*1.002+0.45)) > 1e-12 {
		t.Errorf("PLA bore %g", got)
	}
	if got := MassG(PLA, 1000); math.Abs(got-1.24) > 1e-12 {
		t.Errorf("1cm³ of PLA weighs %gg, want 1.24g", got)
	}
	if PLA.ScaleFactor() <= 1 {
		t.Error("scale factor must enlarge the model")
	}
	if _, err := MaterialByName("ABS"); err == nil {
		t.Error("expected unknown material error")
	}
}
