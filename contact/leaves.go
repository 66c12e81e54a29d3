package contact

import (
	"fmt"
	"math"

	"github.com/andrew-torda/cmap/geom"
	"github.com/andrew-torda/cmap/structure"
)

// Cutoff turns a distance into a score. Up to Threshold-Margin is a
// certain contact, up to Threshold+Margin is uncertain.
type Cutoff struct {
	Threshold float32
	Margin    float32
}

// Score applies the cutoff to a distance.
func (c Cutoff) Score(d float32) Score {
	switch {
	case d <= c.Threshold-c.Margin:
		return Certain
	case d <= c.Threshold+c.Margin:
		return Uncertain
	}
	return NoContact
}

func (c Cutoff) String() string { return fmt.Sprintf("%g/%g", c.Threshold, c.Margin) }

// reach is the largest distance giving a contact.
func (c Cutoff) reach() float32 { return c.Threshold + c.Margin }

// notApplicable wraps the reason a pair cannot be scored.
func notApplicable(err error) error { return fmt.Errorf("%w: %v", ErrNotApplicable, err) }

// nearRC checks that x, a point standing in for m, is no more than
// spread from m's rc. MaxRCDist relies on it.
func nearRC(m *structure.Mer, x geom.Xyz, spread float32, what string) error {
	rc := m.RC()
	if !rc.Ok() {
		return nil
	}
	if d := geom.Dist(rc, x); d > spread {
		return fmt.Errorf("%w: %s of %s is %.1f from its rc, more than %g", ErrNotApplicable, what, m.Pid, d, spread)
	}
	return nil
}

// RCDistance compares representative centers.
type RCDistance struct {
	selections
	Cutoff
}

// NewRCDistance has a cutoff of 7.5 +/- 1.
func NewRCDistance() *RCDistance { return &RCDistance{Cutoff: Cutoff{7.5, 1}} }

func (c *RCDistance) String() string             { return "rc distance " + c.Cutoff.String() }
func (c *RCDistance) MaxRCDist() (float32, bool) { return c.reach(), true }

func (c *RCDistance) ScorePair(m1, m2 *structure.Mer, rcDist float32) (Score, error) {
	if rcDist < 0 {
		rc1, rc2 := m1.RC(), m2.RC()
		if !rc1.Ok() || !rc2.Ok() {
			return NoContact, fmt.Errorf("%w: no atoms in %s or %s", ErrNotApplicable, m1.Pid, m2.Pid)
		}
		rcDist = geom.Dist(rc1, rc2)
	}
	return c.Score(rcDist), nil
}

// FillMatrix does all the distances at once.
func (c *RCDistance) FillMatrix(mers1, mers2 []*structure.Mer, m *Matrix) error {
	rcs := func(mers []*structure.Mer) []geom.Xyz {
		ret := make([]geom.Xyz, len(mers))
		for i, mr := range mers {
			ret[i] = mr.RC()
		}
		return ret
	}
	rc1, rc2 := rcs(mers1), rcs(mers2)
	dm := geom.DistMatrix(rc1, rc2, nil)
	for i, m1 := range mers1 {
		if !rc1[i].Ok() {
			continue
		}
		for j, m2 := range mers2 {
			if m1.Ind == m2.Ind || !rc2[j].Ok() {
				continue
			}
			m.Set(m1.Ind, m2.Ind, c.Score(dm.Mat[i][j]))
		}
	}
	return nil
}

// CaDistance compares alpha carbons of residues.
type CaDistance struct {
	selections
	Cutoff
	Spread float32 // how far a CA can be from its mer's rc
}

// NewCaDistance has a cutoff of 6 +/- 0.5.
func NewCaDistance() *CaDistance { return &CaDistance{Cutoff: Cutoff{6, 0.5}, Spread: 5} }

func (c *CaDistance) String() string             { return "ca distance " + c.Cutoff.String() }
func (c *CaDistance) MaxRCDist() (float32, bool) { return c.reach() + 2*c.Spread, true }

func (c *CaDistance) ScorePair(m1, m2 *structure.Mer, _ float32) (Score, error) {
	if m1.Type != structure.Residue || m2.Type != structure.Residue {
		return NoContact, ErrNotApplicable
	}
	x1, err := c.ca(m1)
	if err != nil {
		return NoContact, err
	}
	x2, err := c.ca(m2)
	if err != nil {
		return NoContact, err
	}
	return c.Score(geom.Dist(x1, x2)), nil
}

func (c *CaDistance) ca(m *structure.Mer) (geom.Xyz, error) {
	x, err := m.CA()
	if err != nil {
		return x, notApplicable(err)
	}
	return x, nearRC(m, x, c.Spread, "CA")
}

// CbxDistance compares CBX pseudo atoms of residues.
type CbxDistance struct {
	selections
	Cutoff
	Ext    float32 // how far past CB the pseudo atom goes
	Spread float32
}

// NewCbxDistance has a cutoff of 6.5 +/- 0.5.
func NewCbxDistance() *CbxDistance {
	return &CbxDistance{Cutoff: Cutoff{6.5, 0.5}, Ext: 1, Spread: 6.5}
}

func (c *CbxDistance) String() string             { return "cbx distance " + c.Cutoff.String() }
func (c *CbxDistance) MaxRCDist() (float32, bool) { return c.reach() + 2*c.Spread, true }

func (c *CbxDistance) ScorePair(m1, m2 *structure.Mer, _ float32) (Score, error) {
	if m1.Type != structure.Residue || m2.Type != structure.Residue {
		return NoContact, ErrNotApplicable
	}
	x1, err := c.cbx(m1)
	if err != nil {
		return NoContact, err
	}
	x2, err := c.cbx(m2)
	if err != nil {
		return NoContact, err
	}
	return c.Score(geom.Dist(x1, x2)), nil
}

func (c *CbxDistance) cbx(m *structure.Mer) (geom.Xyz, error) {
	x, err := m.CBX(c.Ext)
	if err != nil {
		return x, notApplicable(err)
	}
	return x, nearRC(m, x, c.Spread, "CBX")
}

// IonContact looks for the closest atom of any mer to an ion. A partner
// with atoms further than Spread from its rc cannot be judged.
type IonContact struct {
	selections
	Cutoff
	Spread float32 // how far an atom can be from its mer's rc
}

// NewIonContact has a cutoff of 3.2 +/- 0.3.
func NewIonContact() *IonContact { return &IonContact{Cutoff: Cutoff{3.2, 0.3}, Spread: 8} }

func (c *IonContact) String() string             { return "ion contact " + c.Cutoff.String() }
func (c *IonContact) MaxRCDist() (float32, bool) { return c.reach() + c.Spread, true }

func (c *IonContact) ScorePair(m1, m2 *structure.Mer, _ float32) (Score, error) {
	ion, other := m1, m2
	if ion.Type != structure.Ion {
		ion, other = m2, m1
	}
	if ion.Type != structure.Ion || len(ion.Atoms) == 0 || !ion.Atoms[0].Xyz.Ok() {
		return NoContact, ErrNotApplicable
	}
	x, rc := ion.Atoms[0].Xyz, other.RC()
	if !rc.Ok() {
		return NoContact, fmt.Errorf("%w: no atoms in %s", ErrNotApplicable, other.Pid)
	}
	best, far := float32(math.MaxFloat32), float32(0)
	for _, a := range other.Atoms {
		if a.Xyz.Ok() {
			best = min(best, geom.Dist2(x, a.Xyz))
			far = max(far, geom.Dist2(rc, a.Xyz))
		}
	}
	if far > c.Spread*c.Spread {
		return NoContact, fmt.Errorf("%w: atoms of %s reach %.1f from its rc, more than %g",
			ErrNotApplicable, other.Pid, math.Sqrt(float64(far)), c.Spread)
	}
	return c.Score(float32(math.Sqrt(float64(best)))), nil
}

// RingCenterContact compares the centers of aromatic rings or bases.
// If MaxAngle is above zero, a certain contact between rings tilted by
// more than MaxAngle radians is only uncertain.
type RingCenterContact struct {
	selections
	Cutoff
	MaxAngle float32
	Spread   float32
}

// NewRingCenterContact has a cutoff of 6.5 +/- 0.5 and no angle check.
func NewRingCenterContact() *RingCenterContact {
	return &RingCenterContact{Cutoff: Cutoff{6.5, 0.5}, Spread: 5}
}

func (c *RingCenterContact) String() string {
	s := "ring center contact " + c.Cutoff.String()
	if c.MaxAngle > 0 {
		s += fmt.Sprintf(" max angle %.1f", c.MaxAngle*180/math.Pi)
	}
	return s
}

func (c *RingCenterContact) MaxRCDist() (float32, bool) { return c.reach() + 2*c.Spread, true }

func (c *RingCenterContact) ScorePair(m1, m2 *structure.Mer, _ float32) (Score, error) {
	if !m1.HasRing() || !m2.HasRing() {
		return NoContact, ErrNotApplicable
	}
	x1, err := c.center(m1)
	if err != nil {
		return NoContact, err
	}
	x2, err := c.center(m2)
	if err != nil {
		return NoContact, err
	}
	s := c.Score(geom.Dist(x1, x2))
	if s != Certain || c.MaxAngle <= 0 {
		return s, nil
	}
	p1, err := m1.RingPlane()
	if err != nil {
		return NoContact, notApplicable(err)
	}
	p2, err := m2.RingPlane()
	if err != nil {
		return NoContact, notApplicable(err)
	}
	angle := p1.DihedralAngle(p2)
	if angle > math.Pi/2 {
		angle = math.Pi - angle
	}
	if angle > c.MaxAngle {
		return Uncertain, nil
	}
	return s, nil
}

func (c *RingCenterContact) center(m *structure.Mer) (geom.Xyz, error) {
	x, err := m.RingCenter()
	if err != nil {
		return x, notApplicable(err)
	}
	return x, nearRC(m, x, c.Spread, "ring center")
}

// Always says everything is in contact. It has no MaxRCDist, so every
// pair gets looked at.
type Always struct {
	selections
}

func (c *Always) String() string             { return "all" }
func (c *Always) MaxRCDist() (float32, bool) { return 0, false }

func (c *Always) ScorePair(_, _ *structure.Mer, _ float32) (Score, error) { return Certain, nil }
