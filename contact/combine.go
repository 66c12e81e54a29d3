package contact

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andrew-torda/cmap/structure"
)

// combined is what the n-ary combinators share.
type combined interface {
	Criterion
	children() []Criterion
}

type group struct {
	selections
	crits []Criterion
}

func (g *group) children() []Criterion { return g.crits }

func newGroup(crits []Criterion) (group, error) {
	if len(crits) < 2 {
		return group{}, fmt.Errorf("%w: need at least two criteria to combine, got %d", ErrConfiguration, len(crits))
	}
	for i, c := range crits {
		if c == nil {
			return group{}, fmt.Errorf("%w: criterion %d is nil", ErrConfiguration, i)
		}
	}
	return group{crits: crits}, nil
}

func (g *group) join(op string) string {
	parts := make([]string, len(g.crits))
	for i, c := range g.crits {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, " "+op+" ") + ")"
}

// maxOfAll is the largest MaxRCDist, if every child has one.
func (g *group) maxOfAll() (float32, bool) {
	var d float32
	for _, c := range g.crits {
		cd, ok := c.MaxRCDist()
		if !ok {
			return 0, false
		}
		d = max(d, cd)
	}
	return d, true
}

// fold scores a pair with every child and combines the scores with f.
func (g *group) fold(m1, m2 *structure.Mer, rcDist float32, f func([]Score) Score) (Score, error) {
	scores := make([]Score, len(g.crits))
	for i, c := range g.crits {
		s, err := scoreOrZero(c, m1, m2, rcDist)
		if err != nil {
			return NoContact, err
		}
		scores[i] = s
	}
	return f(scores), nil
}

// matrices gets a contact matrix from every child.
func (g *group) matrices(s *structure.Structure) ([]*Matrix, error) {
	ret := make([]*Matrix, len(g.crits))
	for i, c := range g.crits {
		m, err := CalculateContacts(c, s)
		if err != nil {
			return nil, err
		}
		ret[i] = m
	}
	return ret, nil
}

// Conjunction is a contact if all children say so. The score is the
// lowest of the children's.
type Conjunction struct{ group }

// And builds a Conjunction. Its selections are the intersections of the
// children's.
func And(crits ...Criterion) (*Conjunction, error) {
	g, err := newGroup(crits)
	if err != nil {
		return nil, err
	}
	var s1, s2 []structure.Selection
	for _, c := range crits {
		a, b := c.Selections()
		s1, s2 = append(s1, a), append(s2, b)
	}
	g.SetSelections(structure.Intersect(s1...), structure.Intersect(s2...))
	return &Conjunction{g}, nil
}

func (c *Conjunction) String() string { return c.join("and") }

// MaxRCDist is the smallest bound of the children that have one.
func (c *Conjunction) MaxRCDist() (float32, bool) {
	var d float32
	found := false
	for _, sub := range c.crits {
		if sd, ok := sub.MaxRCDist(); ok && (!found || sd < d) {
			d, found = sd, true
		}
	}
	return d, found
}

func (c *Conjunction) ScorePair(m1, m2 *structure.Mer, rcDist float32) (Score, error) {
	return c.fold(m1, m2, rcDist, minScore)
}

func (c *Conjunction) CalculateContacts(s *structure.Structure) (*Matrix, error) {
	ms, err := c.matrices(s)
	if err != nil {
		return nil, err
	}
	ret := ms[0]
	for _, m := range ms[1:] {
		ret = ret.Minimum(m)
	}
	return ret, nil
}

// Alternative is a contact if any child says so. The score is the
// highest of the children's.
type Alternative struct{ group }

// Or builds an Alternative.
func Or(crits ...Criterion) (*Alternative, error) {
	g, err := newGroup(crits)
	if err != nil {
		return nil, err
	}
	return &Alternative{g}, nil
}

func (c *Alternative) String() string { return c.join("or") }

// MaxRCDist is the largest of the children's, but only if they all
// have one.
func (c *Alternative) MaxRCDist() (float32, bool) { return c.maxOfAll() }

func (c *Alternative) ScorePair(m1, m2 *structure.Mer, rcDist float32) (Score, error) {
	return c.fold(m1, m2, rcDist, maxScore)
}

func (c *Alternative) CalculateContacts(s *structure.Structure) (*Matrix, error) {
	ms, err := c.matrices(s)
	if err != nil {
		return nil, err
	}
	ret := ms[0]
	for _, m := range ms[1:] {
		ret = ret.Maximum(m)
	}
	return ret, nil
}

// ExclusiveDisjunction is a contact if exactly one child says so.
type ExclusiveDisjunction struct{ group }

// Xor builds an ExclusiveDisjunction.
func Xor(crits ...Criterion) (*ExclusiveDisjunction, error) {
	g, err := newGroup(crits)
	if err != nil {
		return nil, err
	}
	return &ExclusiveDisjunction{g}, nil
}

func (c *ExclusiveDisjunction) String() string { return c.join("xor") }

func (c *ExclusiveDisjunction) MaxRCDist() (float32, bool) { return c.maxOfAll() }

func (c *ExclusiveDisjunction) ScorePair(m1, m2 *structure.Mer, rcDist float32) (Score, error) {
	return c.fold(m1, m2, rcDist, xorScore)
}

func (c *ExclusiveDisjunction) CalculateContacts(s *structure.Structure) (*Matrix, error) {
	ms, err := c.matrices(s)
	if err != nil {
		return nil, err
	}
	type count struct{ ones, twos int }
	counts := make(map[cell]count)
	for _, m := range ms {
		for k, sc := range m.cells {
			n := counts[k]
			if sc == Uncertain {
				n.ones++
			} else {
				n.twos++
			}
			counts[k] = n
		}
	}
	ret := NewMatrix(s.MaxInd() + 1)
	for k, n := range counts {
		ret.Set(k.i, k.j, xorCount(n.ones, n.twos))
	}
	return ret, nil
}

// xorCount says what the children's scores make. Any uncertain child
// makes the answer uncertain. Otherwise exactly one certain child is a
// contact, and more than one is uncertain.
func xorCount(ones, twos int) Score {
	switch {
	case ones > 0:
		return Uncertain
	case twos == 1:
		return Certain
	case twos > 1:
		return Uncertain
	}
	return NoContact
}

func xorScore(sc []Score) Score {
	var ones, twos int
	for _, s := range sc {
		switch s {
		case Uncertain:
			ones++
		case Certain:
			twos++
		}
	}
	return xorCount(ones, twos)
}

func minScore(sc []Score) Score {
	ret := Certain
	for _, s := range sc {
		ret = min(ret, s)
	}
	return ret
}

func maxScore(sc []Score) Score {
	ret := NoContact
	for _, s := range sc {
		ret = max(ret, s)
	}
	return ret
}

// Negation flips a criterion in three valued logic.
type Negation struct {
	selections
	crit Criterion
}

// Not wraps c. The new criterion starts with c's selections.
func Not(c Criterion) *Negation {
	n := &Negation{crit: c}
	n.SetSelections(c.Selections())
	return n
}

func (n *Negation) String() string { return "not " + n.crit.String() }

// MaxRCDist is never known, since far apart mers are in contact.
func (n *Negation) MaxRCDist() (float32, bool) { return 0, false }

// ScorePair counts a pair the wrapped criterion cannot judge as no
// contact, so the negation is a certain contact. CalculateContacts gives
// the same answer.
func (n *Negation) ScorePair(m1, m2 *structure.Mer, rcDist float32) (Score, error) {
	s, err := scoreOrZero(n.crit, m1, m2, rcDist)
	if err != nil {
		return NoContact, err
	}
	return s.Negate(), nil
}

// CalculateContacts negates every pair picked by the selections, apart
// from a mer with itself.
func (n *Negation) CalculateContacts(s *structure.Structure) (*Matrix, error) {
	inner, err := CalculateContacts(n.crit, s)
	if err != nil {
		return nil, err
	}
	sel1, sel2 := n.Selections()
	ret := NewMatrix(s.MaxInd() + 1)
	mers2 := sel2.Select(s).Mers()
	for _, m1 := range sel1.Select(s).Mers() {
		for _, m2 := range mers2 {
			if m1.Ind != m2.Ind {
				ret.Set(m1.Ind, m2.Ind, inner.At(m1.Ind, m2.Ind).Negate())
			}
		}
	}
	return ret, nil
}

// Validating says which part of c is responsible for a contact. For an
// alternative, it is the first child in contact, looked at recursively.
// For anything else it is c. If there is no contact, it is nil.
func Validating(c Criterion, m1, m2 *structure.Mer) (Criterion, error) {
	s, err := scoreOrZero(c, m1, m2, -1)
	switch {
	case errors.Is(err, ErrUnimplemented):
		return c, nil
	case err != nil:
		return nil, err
	case s == NoContact:
		return nil, nil
	}
	alt, ok := c.(*Alternative)
	if !ok {
		return c, nil
	}
	for _, sub := range alt.crits {
		if v, err := Validating(sub, m1, m2); err != nil || v != nil {
			return v, err
		}
	}
	return c, nil
}
