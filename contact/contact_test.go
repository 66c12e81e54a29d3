package contact_test

import (
	"errors"
	"math/rand"
	"testing"

	. "github.com/andrew-torda/cmap/contact"
	"github.com/andrew-torda/cmap/geom"
	"github.com/andrew-torda/cmap/structure"
	"github.com/andrew-torda/cmap/structure/structtest"
)

// fixed always gives the same answer.
type fixed struct {
	s    Score
	err  error
	d    float32 // MaxRCDist, negative for none
	name string
}

func (f *fixed) Selections() (structure.Selection, structure.Selection) {
	return structure.Everything{}, structure.Everything{}
}
func (f *fixed) SetSelections(_, _ structure.Selection) {}
func (f *fixed) MaxRCDist() (float32, bool)             { return f.d, f.d >= 0 }
func (f *fixed) String() string                         { return f.name }

func (f *fixed) ScorePair(_, _ *structure.Mer, _ float32) (Score, error) { return f.s, f.err }

func fix(s Score) *fixed { return &fixed{s: s, d: -1, name: "fixed" + s.String()} }

// bare can neither score pairs nor fill matrices.
type bare struct{}

func (bare) Selections() (structure.Selection, structure.Selection) {
	return structure.Everything{}, structure.Everything{}
}
func (bare) SetSelections(_, _ structure.Selection) {}
func (bare) MaxRCDist() (float32, bool)             { return 0, false }
func (bare) String() string                         { return "bare" }

var pair = [2]*structure.Mer{
	structtest.Point("A", 1, geom.Xyz{}),
	structtest.Point("A", 2, geom.Xyz{X: 3}),
}

func score(t *testing.T, c Criterion) Score {
	t.Helper()
	s, err := ScorePair(c, pair[0], pair[1], -1)
	if err != nil {
		t.Fatalf("%s: %v", c, err)
	}
	return s
}

func TestCutoff(t *testing.T) {
	c := Cutoff{Threshold: 6, Margin: 0.5}
	var tests = []struct {
		d    float32
		want Score
	}{
		{0, Certain}, {5.5, Certain}, {5.6, Uncertain}, {6.5, Uncertain}, {6.51, NoContact}, {100, NoContact},
	}
	for _, tt := range tests {
		if got := c.Score(tt.d); got != tt.want {
			t.Errorf("distance %v got %v want %v", tt.d, got, tt.want)
		}
	}
}

// TestThreeAngstrom has two mers 3 A apart. A generous cutoff sees a
// contact and a tight one does not.
func TestThreeAngstrom(t *testing.T) {
	loose, tight := NewRCDistance(), NewRCDistance()
	loose.Cutoff = Cutoff{Threshold: 8, Margin: 0.5}
	tight.Cutoff = Cutoff{Threshold: 1, Margin: 0.5}
	if s := score(t, loose); s == NoContact {
		t.Error("8 A cutoff should see a contact at 3 A")
	}
	if s := score(t, tight); s != NoContact {
		t.Errorf("1 A cutoff gave %v at 3 A", s)
	}
}

func TestCombinators(t *testing.T) {
	all := []Score{NoContact, Uncertain, Certain}
	for _, a := range all {
		for _, b := range all {
			and, _ := And(fix(a), fix(b))
			or, _ := Or(fix(a), fix(b))
			if got := score(t, and); got != min(a, b) {
				t.Errorf("%v and %v gave %v", a, b, got)
			}
			if got := score(t, or); got != max(a, b) {
				t.Errorf("%v or %v gave %v", a, b, got)
			}
		}
		if got := score(t, Not(Not(fix(a)))); got != a {
			t.Errorf("not not %v gave %v", a, got)
		}
		if got := score(t, Not(fix(a))); got != Certain-a {
			t.Errorf("not %v gave %v", a, got)
		}
	}
}

func TestXor(t *testing.T) {
	var tests = []struct {
		in   []Score
		want Score
	}{
		{[]Score{0, 0}, NoContact},
		{[]Score{2, 0}, Certain},
		{[]Score{2, 2}, Uncertain},
		{[]Score{2, 1}, Uncertain},
		{[]Score{1, 0}, Uncertain},
		{[]Score{0, 0, 2}, Certain},
		{[]Score{2, 2, 2}, Uncertain},
	}
	for _, tt := range tests {
		crits := make([]Criterion, len(tt.in))
		for i, s := range tt.in {
			crits[i] = fix(s)
		}
		x, err := Xor(crits...)
		if err != nil {
			t.Fatal(err)
		}
		if got := score(t, x); got != tt.want {
			t.Errorf("xor %v gave %v want %v", tt.in, got, tt.want)
		}
	}
}

// TestTwoOneZero has three criteria giving 2, 1 and 0 for a pair.
func TestTwoOneZero(t *testing.T) {
	crits := []Criterion{fix(Certain), fix(Uncertain), fix(NoContact)}
	or, _ := Or(crits...)
	and, _ := And(crits...)
	xor, _ := Xor(crits...)
	if s := score(t, or); s != Certain {
		t.Errorf("or gave %v", s)
	}
	if s := score(t, and); s != NoContact {
		t.Errorf("and gave %v", s)
	}
	if s := score(t, xor); s != Uncertain {
		t.Errorf("xor gave %v", s)
	}
}

func TestNotApplicable(t *testing.T) {
	na := &fixed{s: Certain, err: ErrNotApplicable, d: -1, name: "na"}
	if s, err := ScorePair(Not(na), pair[0], pair[1], -1); err != nil || s != Certain {
		t.Errorf("negated inapplicable criterion gave %v %v", s, err)
	}
	or, _ := Or(na, fix(Uncertain))
	if s := score(t, or); s != Uncertain {
		t.Errorf("inapplicable child should count as zero, got %v", s)
	}
	ion := NewIonContact()
	if _, err := ScorePair(ion, pair[0], pair[1], -1); !errors.Is(err, ErrNotApplicable) {
		t.Errorf("ion contact between ligands gave %v", err)
	}
}

func TestErrors(t *testing.T) {
	if _, err := Or(fix(1)); !errors.Is(err, ErrConfiguration) {
		t.Error("or of one criterion should fail")
	}
	if _, err := And(); !errors.Is(err, ErrConfiguration) {
		t.Error("and of nothing should fail")
	}
	if _, err := Xor(fix(1), nil); !errors.Is(err, ErrConfiguration) {
		t.Error("nil criterion should fail")
	}
	b := bare{}
	if _, err := ScorePair(b, pair[0], pair[1], -1); !errors.Is(err, ErrUnimplemented) {
		t.Errorf("bare criterion scored a pair, err %v", err)
	}
	s := structtest.Build(t, pair[0], pair[1])
	if _, err := CalculateContacts(b, s); !errors.Is(err, ErrUnimplemented) {
		t.Errorf("bare criterion filled a matrix, err %v", err)
	}
	if CanScorePairs(Not(b)) || !CanScorePairs(Default()) {
		t.Error("CanScorePairs confused")
	}
}

func TestMaxRCDist(t *testing.T) {
	a := &fixed{d: 4, name: "a"}
	b := &fixed{d: 9, name: "b"}
	none := fix(1)
	var tests = []struct {
		name string
		c    Criterion
		d    float32
		ok   bool
	}{
		{"and", must(And(a, b)), 4, true},
		{"and with none", must(And(none, b)), 9, true},
		{"or", must(Or(a, b)), 9, true},
		{"or with none", must(Or(a, none)), 0, false},
		{"xor", must(Xor(a, b)), 9, true},
		{"not", Not(a), 0, false},
		{"all", &Always{}, 0, false},
	}
	for _, tt := range tests {
		d, ok := tt.c.MaxRCDist()
		if ok != tt.ok || (ok && d != tt.d) {
			t.Errorf("%s: got %v %v want %v %v", tt.name, d, ok, tt.d, tt.ok)
		}
	}
}

func must(c Criterion, err error) Criterion {
	if err != nil {
		panic(err)
	}
	return c
}

func TestConjunctionSelections(t *testing.T) {
	ca, cbx := NewCaDistance(), NewCbxDistance()
	ca.SetSelections(structure.Chains{"A"}, structure.Everything{})
	cbx.SetSelections(structure.MerTypes{structure.Residue}, structure.Chains{"B"})
	and, _ := And(ca, cbx)
	s1, s2 := and.Selections()
	s := structtest.Build(t,
		structtest.Residue("A", 1, geom.Xyz{}),
		structtest.Ion("A", 2, "ZN", geom.Xyz{X: 2}),
		structtest.Residue("B", 1, geom.Xyz{X: 4}),
	)
	if n := s1.Select(s).Len(); n != 1 {
		t.Errorf("first selection has %d mers", n)
	}
	if n := s2.Select(s).Len(); n != 1 {
		t.Errorf("second selection has %d mers", n)
	}
	or, _ := Or(ca, cbx)
	if s1, _ := or.Selections(); s1.Select(s).Len() != 3 {
		t.Error("alternative should select everything")
	}
}

// randomStructure is residues, ions, rings, bases and ligands of all
// lengths scattered in a box. Ions are dropped next to the ends of
// ligands now and then, since that is where a bad bound shows up.
func randomStructure(t *testing.T, seed int64, n int, box float32) *structure.Structure {
	rng := rand.New(rand.NewSource(seed))
	pt := func() geom.Xyz {
		return geom.Xyz{X: rng.Float32() * box, Y: rng.Float32() * box, Z: rng.Float32() * box}
	}
	steps := []geom.Xyz{{X: 1.5}, {Y: 1.5}, {Z: -1.5}}
	var lastEnd geom.Xyz
	mers := make([]*structure.Mer, n)
	for i := range mers {
		switch i % 7 {
		case 3:
			mers[i] = structtest.Ion("A", i+1, "ZN", pt())
		case 4:
			mers[i] = structtest.Phe("A", i+1, pt(), rng.Intn(2) == 0)
		case 5:
			mers[i] = structtest.Nucleotide("A", i+1, pt())
		case 6:
			l := structtest.Ligand("A", i+1, pt(), steps[rng.Intn(len(steps))], 2+rng.Intn(15))
			lastEnd = l.Atoms[len(l.Atoms)-1].Xyz
			mers[i] = l
		default:
			if i > 7 && rng.Intn(3) == 0 {
				mers[i] = structtest.Ion("A", i+1, "MG", lastEnd.Add(geom.Xyz{X: 2.1, Y: 2.1}))
				continue
			}
			mers[i] = structtest.Residue("A", i+1, pt())
		}
	}
	return structtest.Build(t, mers...)
}

// pairwise fills a matrix the slow way.
func pairwise(t *testing.T, c Criterion, s *structure.Structure) *Matrix {
	m := NewMatrix(s.MaxInd() + 1)
	for _, m1 := range s.Mers() {
		for _, m2 := range s.Mers() {
			if m1 == m2 {
				continue
			}
			sc, err := ScorePair(c, m1, m2, -1)
			if errors.Is(err, ErrNotApplicable) {
				continue
			}
			if err != nil {
				t.Fatal(err)
			}
			m.Set(m1.Ind, m2.Ind, sc)
		}
	}
	return m
}

func sameMatrix(t *testing.T, name string, a, b *Matrix) {
	t.Helper()
	if a.Len() != b.Len() {
		t.Errorf("%s: %d entries vs %d", name, a.Len(), b.Len())
	}
	a.Each(func(i, j int, s Score) {
		if b.At(i, j) != s {
			t.Errorf("%s: %d,%d is %v and %v", name, i, j, s, b.At(i, j))
		}
	})
}

// TestMatrixAgreesWithPairs checks the matrix code paths against pair
// by pair scoring, and that doing it twice gives the same answer.
func TestMatrixAgreesWithPairs(t *testing.T) {
	s := randomStructure(t, 1, 40, 20)
	res := structure.MerTypes{structure.Residue}.Select(s)
	ca, rc := NewCaDistance(), NewRCDistance()
	var tests = []struct {
		name string
		c    Criterion
		s    *structure.Structure
	}{
		{"rc", rc, s},
		{"default", Default(), s},
		{"xor", must(Xor(ca, rc)), s},
		{"and", must(And(ca, NewCbxDistance())), s},
		{"not", Not(ca), res},
		{"not ca", Not(ca), s},
		{"not ion", Not(NewIonContact()), s},
		{"not ring", Not(NewRingCenterContact()), s},
	}
	for _, tt := range tests {
		got, err := CalculateContacts(tt.c, tt.s)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got.Size() != s.MaxInd()+1 {
			t.Errorf("%s: matrix size %d", tt.name, got.Size())
		}
		sameMatrix(t, tt.name, got, pairwise(t, tt.c, tt.s))
		again, _ := CalculateContacts(tt.c, tt.s)
		sameMatrix(t, tt.name+" again", got, again)
		got.Each(func(i, j int, sc Score) {
			if i == j {
				t.Errorf("%s: %d in contact with itself", tt.name, i)
			}
			if sc > Certain {
				t.Errorf("%s: score %d", tt.name, sc)
			}
		})
	}
}

// TestPrefilterSound checks that nothing beyond MaxRCDist is a contact.
func TestPrefilterSound(t *testing.T) {
	for seed := int64(1); seed < 4; seed++ {
		s := randomStructure(t, seed, 60, 25)
		for _, c := range []Criterion{Default(), NewRCDistance(), NewCaDistance(), NewCbxDistance(), NewIonContact(), NewRingCenterContact()} {
			bound, ok := c.MaxRCDist()
			if !ok {
				t.Fatalf("%s has no bound", c)
			}
			m := pairwise(t, c, s)
			m.Each(func(i, j int, _ Score) {
				m1, _ := s.Mer(i)
				m2, _ := s.Mer(j)
				if d := geom.Dist(m1.RC(), m2.RC()); d > bound {
					t.Errorf("%s: contact %d %d at rc distance %v beyond %v", c, i, j, d, bound)
				}
			})
		}
	}
}

// TestSpread checks that a pair is not judged when the point a leaf
// measures from is further from the rc than MaxRCDist allows for.
func TestSpread(t *testing.T) {
	stretch := func(m *structure.Mer) *structure.Mer {
		for i := range 12 {
			m.Atoms = append(m.Atoms, structure.Atom{Name: "X", Element: "C", Xyz: geom.Xyz{X: 30 + float32(i)}})
		}
		return m
	}
	r1 := structtest.Residue("A", 1, geom.Xyz{})
	r2 := structtest.Residue("A", 2, geom.Xyz{X: 4})
	long := stretch(structtest.Residue("A", 3, geom.Xyz{X: 4}))
	f1 := structtest.Phe("A", 4, geom.Xyz{Z: 20}, false)
	f2 := stretch(structtest.Phe("A", 5, geom.Xyz{Z: 24}, false))
	short := structtest.Ligand("A", 6, geom.Xyz{}, geom.Xyz{X: 1.5}, 4)
	lig := structtest.Ligand("A", 7, geom.Xyz{}, geom.Xyz{X: 1.5}, 16)
	zn1 := structtest.Ion("B", 8, "ZN", short.Atoms[3].Xyz.Add(geom.Xyz{X: 2.5}))
	zn2 := structtest.Ion("B", 9, "ZN", lig.Atoms[15].Xyz.Add(geom.Xyz{X: 2.5}))
	dg := structtest.Nucleotide("A", 10, geom.Xyz{Z: 23.4})
	var tests = []struct {
		c      Criterion
		m1, m2 *structure.Mer
		na     bool
	}{
		{NewCaDistance(), r1, r2, false},
		{NewCaDistance(), r1, long, true},
		{NewCbxDistance(), r1, long, true},
		{NewRingCenterContact(), f1, dg, false},
		{NewRingCenterContact(), f1, f2, true},
		{NewIonContact(), zn1, short, false},
		{NewIonContact(), zn2, lig, true},
		{NewIonContact(), lig, zn2, true},
	}
	for i, tt := range tests {
		sc, err := ScorePair(tt.c, tt.m1, tt.m2, -1)
		if tt.na {
			if !errors.Is(err, ErrNotApplicable) {
				t.Errorf("%d %s: wanted not applicable, got %v %v", i, tt.c, sc, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%d %s: %v", i, tt.c, err)
			continue
		}
		if sc != Certain {
			t.Errorf("%d %s: got %v", i, tt.c, sc)
		}
		bound, _ := tt.c.MaxRCDist()
		if d := geom.Dist(tt.m1.RC(), tt.m2.RC()); d > bound {
			t.Errorf("%d %s: contact at rc distance %v beyond %v", i, tt.c, d, bound)
		}
	}
}

func TestLeaves(t *testing.T) {
	r1 := structtest.Residue("A", 1, geom.Xyz{})
	r2 := structtest.Residue("A", 2, geom.Xyz{X: 5})
	zn := structtest.Ion("A", 3, "ZN", geom.Xyz{Y: 3})
	f1 := structtest.Phe("A", 4, geom.Xyz{Z: 20}, false)
	f2 := structtest.Phe("A", 5, geom.Xyz{Z: 25}, false)
	f3 := structtest.Phe("A", 6, geom.Xyz{X: 5, Z: 20}, true)
	tilt := NewRingCenterContact()
	tilt.MaxAngle = 0.5
	var tests = []struct {
		c      Criterion
		m1, m2 *structure.Mer
		want   Score
		na     bool
	}{
		{NewCaDistance(), r1, r2, Certain, false},
		{NewCbxDistance(), r1, r2, Certain, false},
		{NewCaDistance(), r1, zn, 0, true},
		{NewIonContact(), zn, r1, Certain, false},
		{NewIonContact(), r2, zn, NoContact, false},
		{NewIonContact(), r1, r2, 0, true},
		{NewRingCenterContact(), f1, f2, Certain, false},
		{NewRingCenterContact(), f1, r1, 0, true},
		{NewRingCenterContact(), f1, f3, Certain, false},
		{tilt, f1, f2, Certain, false},
		{tilt, f1, f3, Uncertain, false},
		{&Always{}, r1, zn, Certain, false},
	}
	for _, tt := range tests {
		got, err := ScorePair(tt.c, tt.m1, tt.m2, -1)
		if tt.na {
			if !errors.Is(err, ErrNotApplicable) {
				t.Errorf("%s %s %s: want not applicable, got %v", tt.c, tt.m1.Pid, tt.m2.Pid, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", tt.c, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s %s %s: got %v want %v", tt.c, tt.m1.Pid, tt.m2.Pid, got, tt.want)
		}
	}
}

func TestValidating(t *testing.T) {
	r1 := structtest.Residue("A", 1, geom.Xyz{})
	r2 := structtest.Residue("A", 2, geom.Xyz{X: 5})
	far := structtest.Residue("A", 3, geom.Xyz{X: 50})
	zn := structtest.Ion("A", 4, "ZN", geom.Xyz{Y: 3})
	def := Default()
	var tests = []struct {
		m1, m2 *structure.Mer
		want   string
	}{
		{r1, r2, "(ca distance 6/0.5 and cbx distance 6.5/0.5)"},
		{r1, zn, "ion contact 3.2/0.3"},
		{r1, far, ""},
	}
	for _, tt := range tests {
		v, err := Validating(def, tt.m1, tt.m2)
		if err != nil {
			t.Fatal(err)
		}
		got := ""
		if v != nil {
			got = v.String()
		}
		if got != tt.want {
			t.Errorf("%s %s: got %q want %q", tt.m1.Pid, tt.m2.Pid, got, tt.want)
		}
	}
	and, _ := And(fix(2), fix(1))
	if v, _ := Validating(and, r1, r2); v != Criterion(and) {
		t.Error("a conjunction validates itself")
	}
	or, _ := Or(fix(0), fix(1), fix(2))
	if v, _ := Validating(or, r1, r2); v.String() != "fixed1" {
		t.Errorf("first child in contact should win, got %s", v)
	}
}

func TestParse(t *testing.T) {
	var tests = []struct {
		expr string
		want string
	}{
		{"rc", "rc distance 7.5/1"},
		{"CA", "ca distance 6/0.5"},
		{"ca(7, 1)", "ca distance 7/1"},
		{"ca & cbx | ion", "((ca distance 6/0.5 and cbx distance 6.5/0.5) or ion contact 3.2/0.3)"},
		{"ca | cbx | rc", "(ca distance 6/0.5 or cbx distance 6.5/0.5 or rc distance 7.5/1)"},
		{"!ion ^ (rc)", "(not ion contact 3.2/0.3 xor rc distance 7.5/1)"},
		{"ring(6,1,30)", "ring center contact 6/1 max angle 30.0"},
		{"all", "all"},
		{"cacbx", "(ca distance 6/0.5 and cbx distance 6.5/0.5)"},
		{"default", Default().String()},
	}
	for _, tt := range tests {
		c, err := Parse(tt.expr)
		if err != nil {
			t.Errorf("%s: %v", tt.expr, err)
			continue
		}
		if c.String() != tt.want {
			t.Errorf("%s: got %s want %s", tt.expr, c, tt.want)
		}
	}
	for _, bad := range []string{"", "ca &", "(ca", "ca)", "bogus", "ca(1)", "ca(1,2)", "rc(8,1,2)", "all(1,1)", "ca cbx", "!"} {
		if _, err := Parse(bad); !errors.Is(err, ErrConfiguration) {
			t.Errorf("%q should fail with configuration error, got %v", bad, err)
		}
	}
	p := Parser{Cutoffs: map[string]Cutoff{"ca": {Threshold: 9, Margin: 1}}}
	c, err := p.Parse("ca")
	if err != nil || c.String() != "ca distance 9/1" {
		t.Errorf("parser cutoffs ignored: %v %v", c, err)
	}
}

func TestMatrix(t *testing.T) {
	a, b := NewMatrix(4), NewMatrix(4)
	a.Set(1, 2, Certain)
	a.Set(2, 3, Uncertain)
	b.Set(1, 2, Uncertain)
	b.Set(3, 1, Certain)
	if n := a.Minimum(b).Len(); n != 1 || a.Minimum(b).At(1, 2) != Uncertain {
		t.Errorf("minimum wrong, %d entries", n)
	}
	mx := a.Maximum(b)
	if mx.Len() != 3 || mx.At(1, 2) != Certain || mx.At(3, 1) != Certain {
		t.Errorf("maximum wrong")
	}
	a.Set(1, 2, NoContact)
	if a.Len() != 1 {
		t.Error("setting zero should remove")
	}
	var order [][2]int
	mx.Each(func(i, j int, _ Score) { order = append(order, [2]int{i, j}) })
	if order[0] != [2]int{1, 2} || order[2] != [2]int{3, 1} {
		t.Errorf("Each out of order %v", order)
	}
}
