package structure_test

import (
	"errors"
	"math"
	"testing"

	"github.com/andrew-torda/cmap/geom"
	. "github.com/andrew-torda/cmap/structure"
	"github.com/andrew-torda/cmap/structure/structtest"
)

func TestPdbID(t *testing.T) {
	var tests = []struct {
		s   string
		p   PdbID
		bad bool
	}{
		{"A42", PdbID{Chain: "A", Num: 42}, false},
		{"B17B", PdbID{Chain: "B", Num: 17, ICode: 'B'}, false},
		{"C-3", PdbID{Chain: "C", Num: -3}, false},
		{"A", PdbID{}, true},
		{"Axx", PdbID{}, true},
	}
	for _, tt := range tests {
		p, err := ParsePdbID(tt.s)
		if tt.bad {
			if err == nil {
				t.Errorf("%s should fail", tt.s)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tt.s, err)
		}
		if p != tt.p {
			t.Errorf("%s: got %+v want %+v", tt.s, p, tt.p)
		}
		if p.String() != tt.s {
			t.Errorf("round trip %s gave %s", tt.s, p.String())
		}
	}
}

func TestConverter(t *testing.T) {
	ids := []PdbID{{Chain: "A", Num: 1}, {Chain: "A", Num: 2}, {Chain: "B", Num: 1}}
	c, err := NewConverter(ids)
	if err != nil {
		t.Fatal(err)
	}
	if c.MaxInd() != 3 {
		t.Errorf("MaxInd %d", c.MaxInd())
	}
	for i, p := range ids {
		ind, err := c.Ind(p)
		if err != nil || ind != i+1 {
			t.Errorf("%s got ind %d err %v", p, ind, err)
		}
		q, err := c.PdbID(ind)
		if err != nil || q != p {
			t.Errorf("ind %d back to %s", ind, q)
		}
	}
	if _, err := c.Ind(PdbID{Chain: "C", Num: 1}); !errors.Is(err, ErrLookupMiss) {
		t.Errorf("want lookup miss, got %v", err)
	}
	if _, err := c.PdbID(0); !errors.Is(err, ErrLookupMiss) {
		t.Errorf("ind 0 should not exist")
	}
	if _, err := NewConverter(append(ids, ids[0])); !errors.Is(err, ErrDupID) {
		t.Error("duplicate id not caught")
	}
}

func TestResolve(t *testing.T) {
	s := structtest.Line(t, 4, 5)
	for _, ref := range []any{2, PdbID{Chain: "A", Num: 2}, "A2", s.At(1)} {
		m, err := s.Resolve(ref)
		if err != nil {
			t.Fatalf("%v: %v", ref, err)
		}
		if m.Ind != 2 {
			t.Errorf("%v resolved to ind %d", ref, m.Ind)
		}
	}
	for _, ref := range []any{0, 5, "B1", 2.0} {
		if _, err := s.Resolve(ref); !errors.Is(err, ErrLookupMiss) {
			t.Errorf("%v: want lookup miss got %v", ref, err)
		}
	}
}

func TestSubsetAndSelections(t *testing.T) {
	mers := []*Mer{
		structtest.Residue("A", 1, geom.Xyz{}),
		structtest.Residue("A", 2, geom.Xyz{X: 4}),
		structtest.Ion("B", 1, "ZN", geom.Xyz{Y: 3}),
		structtest.Residue("B", 2, geom.Xyz{Z: 4}),
	}
	s := structtest.Build(t, mers...)
	var tests = []struct {
		sel  Selection
		inds []int
	}{
		{Everything{}, []int{1, 2, 3, 4}},
		{MerTypes{Ion}, []int{3}},
		{Chains{"B"}, []int{3, 4}},
		{Inds{4, 1}, []int{1, 4}},
		{Intersect(Chains{"B"}, MerTypes{Residue}), []int{4}},
		{Intersect(Everything{}, Everything{}), []int{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		sub := tt.sel.Select(s)
		if sub.Root() != s {
			t.Errorf("%s: lost root", tt.sel)
		}
		if sub.MaxInd() != 4 {
			t.Errorf("%s: sub-structure ind space %d", tt.sel, sub.MaxInd())
		}
		if sub.Len() != len(tt.inds) {
			t.Fatalf("%s: got %d mers want %d", tt.sel, sub.Len(), len(tt.inds))
		}
		for i, ind := range tt.inds {
			if sub.At(i).Ind != ind {
				t.Errorf("%s: position %d has ind %d want %d", tt.sel, i, sub.At(i).Ind, ind)
			}
		}
	}
	if _, ok := Intersect(Everything{}).(Everything); !ok {
		t.Error("intersection of everything should be everything")
	}
}

func TestMer(t *testing.T) {
	r := structtest.Residue("A", 1, geom.Xyz{X: 1})
	ca, err := r.CA()
	if err != nil || ca != (geom.Xyz{X: 1}) {
		t.Errorf("CA %v %v", ca, err)
	}
	cb, _ := r.Atom("CB")
	cbx, err := r.CBX(1)
	if err != nil {
		t.Fatal(err)
	}
	if d := geom.Dist(cb.Xyz, cbx); math.Abs(float64(d-1)) > 1e-5 {
		t.Errorf("cbx is %v from cb", d)
	}
	if d := geom.Dist(ca, cbx); d < geom.Dist(ca, cb.Xyz) {
		t.Errorf("cbx should be further from ca than cb")
	}
	gly := structtest.Residue("A", 2, geom.Xyz{})
	gly.Name = "GLY"
	gly.Atoms = gly.Atoms[:4]
	if cbx, err := gly.CBX(1); err != nil || cbx != (geom.Xyz{}) {
		t.Errorf("glycine cbx should be ca, got %v %v", cbx, err)
	}
	ion := structtest.Ion("A", 3, "MG", geom.Xyz{})
	if _, err := ion.CA(); !errors.Is(err, ErrNoAtom) {
		t.Errorf("ion has no CA, got %v", err)
	}
	if ion.HasRing() || !structtest.Phe("A", 4, geom.Xyz{}, false).HasRing() {
		t.Error("HasRing confused")
	}
	c := geom.Xyz{X: 2, Y: 2, Z: 2}
	phe := structtest.Phe("A", 4, c, false)
	rc, err := phe.RingCenter()
	if err != nil || geom.Dist(rc, c) > 1e-4 {
		t.Errorf("ring center %v want %v (%v)", rc, c, err)
	}
	pl, err := phe.RingPlane()
	if err != nil {
		t.Fatal(err)
	}
	if n := pl.Norm; math.Abs(float64(n.Z)) < 0.999 {
		t.Errorf("ring normal %v should be along z", n)
	}
	if _, err := structtest.Nucleotide("A", 5, c).RingPlane(); err != nil {
		t.Errorf("base plane: %v", err)
	}
	for i := range phe.Atoms {
		if phe.Atoms[i].Name == "CZ" {
			phe.Atoms[i].Xyz.Z += 1
		}
	}
	if _, err := phe.RingPlane(); !errors.Is(err, ErrBentRing) {
		t.Errorf("bent ring gave %v", err)
	}
}

func TestClassify(t *testing.T) {
	var tests = []struct {
		name  string
		natom int
		want  MerType
	}{
		{"ALA", 5, Residue},
		{"MSE", 8, Residue},
		{"DG", 20, Nucleotide},
		{"ZN", 1, Ion},
		{"CA", 1, Ion},
		{"HEM", 40, Ligand},
		{"XXX", 0, Unknown},
	}
	for _, tt := range tests {
		if got := Classify(tt.name, tt.natom); got != tt.want {
			t.Errorf("%s got %s want %s", tt.name, got, tt.want)
		}
	}
}

func TestFrames(t *testing.T) {
	s := structtest.Line(t, 3, 2)
	sub := Inds{2, 3}.Select(s)
	f0 := s.Frame()
	if sub.Frame() != f0 {
		t.Error("sub-structure should share frame token")
	}
	n := s.NAtom()
	moved := make([]geom.Xyz, n)
	for i := range moved {
		moved[i] = geom.Xyz{X: float32(i) * 10}
	}
	if err := s.LinkTrajectory([][]geom.Xyz{moved}); err != nil {
		t.Fatal(err)
	}
	if err := s.LinkTrajectory([][]geom.Xyz{moved[:1]}); !errors.Is(err, ErrBadFrame) {
		t.Errorf("short frame should be refused, got %v", err)
	}
	if err := s.LinkTrajectory([][]geom.Xyz{moved}); err != nil {
		t.Fatal(err)
	}
	if s.NFrames() != 2 {
		t.Errorf("want 2 frames, got %d", s.NFrames())
	}
	if err := sub.NextFrame(); err != nil {
		t.Fatal(err)
	}
	if sub.Frame() == f0 {
		t.Error("frame token did not change")
	}
	if x := s.At(2).Atoms[0].Xyz.X; x != 20 {
		t.Errorf("frame not loaded, x = %v", x)
	}
	if err := s.NextFrame(); !errors.Is(err, ErrNoFrame) {
		t.Errorf("ran past end, got %v", err)
	}
	f1 := s.Frame()
	trt := geom.NewTRT()
	trt.AddTranslation(geom.Xyz{Y: 1})
	sub.Transform(trt)
	if s.Frame() == f1 {
		t.Error("transform should change frame token")
	}
	if y := s.At(0).Atoms[0].Xyz.Y; y != 0 {
		t.Error("transform of sub-structure moved a mer outside it")
	}
	if y := s.At(1).Atoms[0].Xyz.Y; y != 1 {
		t.Errorf("transform did not move mer, y = %v", y)
	}
}

func TestAttach(t *testing.T) {
	s := structtest.Line(t, 2, 1)
	type key struct{}
	if _, ok := s.Attached(key{}); ok {
		t.Error("nothing attached yet")
	}
	n := 0
	mk := func() any { n++; return n }
	a := s.AttachedOrNew(key{}, mk)
	b := s.AttachedOrNew(key{}, mk)
	if a != b || n != 1 {
		t.Errorf("AttachedOrNew made %d values", n)
	}
	s.Attach(key{}, "x")
	if v, _ := s.Attached(key{}); v != "x" {
		t.Errorf("got %v", v)
	}
}

func TestSkip(t *testing.T) {
	var tests = []struct {
		res, elem string
		alt       byte
		skip      bool
	}{
		{"ALA", "C", ' ', false},
		{"ALA", "C", 'A', false},
		{"ALA", "C", '.', false},
		{"ALA", "C", 'B', true},
		{"ALA", "H", ' ', true},
		{"ALA", "D", ' ', true},
		{"HOH", "O", ' ', true},
		{"ZN", "ZN", '1', false},
	}
	for _, tt := range tests {
		if got := Skip(tt.res, tt.elem, tt.alt); got != tt.skip {
			t.Errorf("Skip(%s, %s, %c) = %v", tt.res, tt.elem, tt.alt, got)
		}
	}
}

func TestBuilder(t *testing.T) {
	at := func(name string, x float32) Atom { return Atom{Name: name, Element: name[:1], Xyz: geom.Xyz{X: x}} }
	a1, z := PdbID{Chain: "A", Num: 1}, PdbID{Chain: "B", Num: 9}
	var b Builder
	for m := 0; m < 3; m++ {
		if err := b.StartModel(); err != nil {
			t.Fatal(err)
		}
		off := float32(10 * m)
		for _, err := range []error{
			b.Add(a1, "ALA", at("N", off)),
			b.Add(a1, "ALA", at("CA", off+1)),
			b.Add(z, "ZN", at("ZN", off+2)),
		} {
			if err != nil {
				t.Fatal(err)
			}
		}
	}
	if b.NMer() != 2 || b.NModel() != 3 {
		t.Errorf("%d mers %d models", b.NMer(), b.NModel())
	}
	s, err := b.Finish("built")
	if err != nil {
		t.Fatal(err)
	}
	if s.NFrames() != 3 || s.At(1).Type != Ion || s.At(0).Type != Residue {
		t.Errorf("%d frames, types %v %v", s.NFrames(), s.At(0).Type, s.At(1).Type)
	}
	if err := s.SetFrame(2); err != nil {
		t.Fatal(err)
	}
	if ca, _ := s.At(0).CA(); ca.X != 21 {
		t.Errorf("frame 2 CA at %v", ca)
	}

	var short Builder
	short.StartModel()
	short.Add(a1, "ALA", at("N", 0))
	short.Add(a1, "ALA", at("CA", 0))
	short.StartModel()
	short.Add(a1, "ALA", at("N", 0))
	if _, err := short.Finish("short"); !errors.Is(err, ErrModelMismatch) {
		t.Errorf("short model: got %v", err)
	}
	var renamed Builder
	renamed.StartModel()
	renamed.Add(a1, "ALA", at("N", 0))
	renamed.StartModel()
	if err := renamed.Add(a1, "ALA", at("CB", 0)); !errors.Is(err, ErrModelMismatch) {
		t.Errorf("renamed atom: got %v", err)
	}
}
