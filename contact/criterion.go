package contact

import (
	"errors"
	"fmt"

	"github.com/andrew-torda/cmap/structure"
)

// Criterion is what every contact criterion has. On its own it cannot
// score anything. A criterion also implements at least one of
// PairScorer, MatrixFiller or Calculator.
type Criterion interface {
	// Selections say which mers the criterion is computed for when
	// working on a whole structure.
	Selections() (sel1, sel2 structure.Selection)
	SetSelections(sel1, sel2 structure.Selection)
	// MaxRCDist is a distance between representative centers beyond
	// which the criterion never gives a contact. ok is false if there
	// is no such bound.
	MaxRCDist() (d float32, ok bool)
	String() string
}

// PairScorer scores one pair of mers. rcDist is the distance between
// their representative centers if the caller has it, or negative.
type PairScorer interface {
	Criterion
	ScorePair(m1, m2 *structure.Mer, rcDist float32) (Score, error)
}

// MatrixFiller fills a matrix for every pair from mers1 x mers2 in one
// go, usually faster than pair by pair.
type MatrixFiller interface {
	Criterion
	FillMatrix(mers1, mers2 []*structure.Mer, m *Matrix) error
}

// Calculator works out its own contacts for a whole structure.
type Calculator interface {
	Criterion
	CalculateContacts(s *structure.Structure) (*Matrix, error)
}

// selections is embedded in criteria to carry the two selections.
type selections struct {
	sel1, sel2 structure.Selection
}

func orEverything(s structure.Selection) structure.Selection {
	if s == nil {
		return structure.Everything{}
	}
	return s
}

func (s *selections) Selections() (structure.Selection, structure.Selection) {
	return orEverything(s.sel1), orEverything(s.sel2)
}

func (s *selections) SetSelections(sel1, sel2 structure.Selection) {
	s.sel1, s.sel2 = sel1, sel2
}

// CalculateContacts returns a matrix, indexed by ind and big enough for
// the whole ind space of the structure s was derived from.
func CalculateContacts(c Criterion, s *structure.Structure) (*Matrix, error) {
	if calc, ok := c.(Calculator); ok {
		return calc.CalculateContacts(s)
	}
	sel1, sel2 := c.Selections()
	m := NewMatrix(s.MaxInd() + 1)
	err := FillMatrix(c, sel1.Select(s).Mers(), sel2.Select(s).Mers(), m)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// FillMatrix fills m with scores for mers1 x mers2. A criterion that
// cannot fill a matrix itself is asked pair by pair.
func FillMatrix(c Criterion, mers1, mers2 []*structure.Mer, m *Matrix) error {
	if f, ok := c.(MatrixFiller); ok {
		return f.FillMatrix(mers1, mers2, m)
	}
	ps, ok := c.(PairScorer)
	if !ok {
		return fmt.Errorf("%w: %s fills no matrix", ErrUnimplemented, c)
	}
	for _, m1 := range mers1 {
		for _, m2 := range mers2 {
			if m1.Ind == m2.Ind {
				continue
			}
			s, err := scoreOrZero(ps, m1, m2, -1)
			if err != nil {
				return err
			}
			m.Set(m1.Ind, m2.Ind, s)
		}
	}
	return nil
}

// ScorePair scores a single pair with c.
func ScorePair(c Criterion, m1, m2 *structure.Mer, rcDist float32) (Score, error) {
	ps, ok := c.(PairScorer)
	if !ok {
		return NoContact, fmt.Errorf("%w: %s scores no pairs", ErrUnimplemented, c)
	}
	return ps.ScorePair(m1, m2, rcDist)
}

// scoreOrZero is ScorePair with ErrNotApplicable turned into NoContact.
func scoreOrZero(c Criterion, m1, m2 *structure.Mer, rcDist float32) (Score, error) {
	s, err := ScorePair(c, m1, m2, rcDist)
	if errors.Is(err, ErrNotApplicable) {
		return NoContact, nil
	}
	return s, err
}

// CanScorePairs says if every part of c can score single pairs.
func CanScorePairs(c Criterion) bool {
	switch v := c.(type) {
	case *Negation:
		return CanScorePairs(v.crit)
	case combined:
		for _, sub := range v.children() {
			if !CanScorePairs(sub) {
				return false
			}
		}
		return true
	}
	_, ok := c.(PairScorer)
	return ok
}
