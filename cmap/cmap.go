// Package cmap computes and holds the contact map of a structure. A map
// is computed when it is first asked for, kept on the structure, and
// computed again when the structure's coordinates change.
package cmap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"slices"
	"sync"

	"github.com/andrew-torda/cmap/contact"
	"github.com/andrew-torda/cmap/geom"
	"github.com/andrew-torda/cmap/structure"
)

// Contact is one entry in the map.
type Contact struct {
	Ind1, Ind2 int
	Score      contact.Score
}

// Map is the contact map of a structure under a criterion. Mers from
// the first selection are checked against mers of the second, cut down
// by the criterion's own selections. If both pools hold the same mers,
// the map is symmetric. Selections of criteria nested inside a
// combinator are only used by criteria that fill whole matrices.
type Map struct {
	mu         sync.Mutex
	s          *structure.Structure
	crit       contact.Criterion
	sel1, sel2 structure.Selection
	logger     *log.Logger

	computed bool
	frame    int64
	contacts map[int]map[int]contact.Score
	order    []Contact // in the order they were found
	nCompute int
	err      error // from the last computation
}

// New sets up a map. Nothing is computed until it is needed. A nil
// criterion means contact.Default() and a nil selection means
// everything.
func New(s *structure.Structure, crit contact.Criterion, sel1, sel2 structure.Selection) *Map {
	if crit == nil {
		crit = contact.Default()
	}
	if sel1 == nil {
		sel1 = structure.Everything{}
	}
	if sel2 == nil {
		sel2 = structure.Everything{}
	}
	return &Map{s: s, crit: crit, sel1: sel1, sel2: sel2, logger: log.New(io.Discard, "", 0)}
}

type attachKey struct{}

// For returns the map kept on s, making one with the default criterion
// if there is none.
func For(s *structure.Structure) *Map {
	return s.AttachedOrNew(attachKey{}, func() any { return New(s, nil, nil, nil) }).(*Map)
}

// Set replaces the map kept on s by one using crit.
func Set(s *structure.Structure, crit contact.Criterion) *Map {
	m := New(s, crit, nil, nil)
	s.Attach(attachKey{}, m)
	return m
}

// WithLogger sends messages about computations to l.
func (m *Map) WithLogger(l *log.Logger) *Map {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l != nil {
		m.logger = l
	}
	return m
}

// Criterion is what the map was built with.
func (m *Map) Criterion() contact.Criterion { return m.crit }

// Structure is what the map is about.
func (m *Map) Structure() *structure.Structure { return m.s }

// Compute forces a new computation.
func (m *Map) Compute() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.compute()
}

// Recomputations counts how often contacts were worked out.
func (m *Map) Recomputations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nCompute
}

// Err returns the error from the last computation.
func (m *Map) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// ensure computes if we have nothing or the coordinates moved.
// Call with the lock held.
func (m *Map) ensure() error {
	if m.computed && m.frame == m.s.Frame() {
		return nil
	}
	return m.compute()
}

func sameInds(a, b []*structure.Mer) bool {
	return slices.EqualFunc(a, b, func(x, y *structure.Mer) bool { return x.Ind == y.Ind })
}

func rcs(mers []*structure.Mer) []geom.Xyz {
	ret := make([]geom.Xyz, len(mers))
	for i, mr := range mers {
		ret[i] = mr.RC()
	}
	return ret
}

// compute works out all contacts. Call with the lock held.
func (m *Map) compute() error {
	frame := m.s.Frame()
	m.nCompute++
	m.computed = false
	m.contacts = make(map[int]map[int]contact.Score)
	m.order = m.order[:0]
	c1, c2 := m.crit.Selections()
	l1 := structure.Intersect(m.sel1, c1).Select(m.s).Mers()
	l2 := structure.Intersect(m.sel2, c2).Select(m.s).Mers()
	sym := sameInds(l1, l2)

	var err error
	var nCand int
	if contact.CanScorePairs(m.crit) {
		nCand, err = m.byPairs(l1, l2, sym)
	} else {
		err = m.byMatrix(l1, l2)
	}
	if m.err = err; err != nil {
		m.contacts, m.order = nil, nil
		return err
	}
	m.computed, m.frame = true, frame
	m.logger.Printf("%s frame %d: %d x %d mers, %d candidates, %d contacts with %s",
		m.s.Name(), frame, len(l1), len(l2), nCand, len(m.order), m.crit)
	return nil
}

// byPairs scores candidate pairs one at a time, using the rc distance
// to throw out pairs that are too far apart.
func (m *Map) byPairs(l1, l2 []*structure.Mer, sym bool) (int, error) {
	rc1 := rcs(l1)
	rc2 := rc1
	if !sym {
		rc2 = rcs(l2)
	}
	dm := geom.DistMatrix(rc1, rc2, nil)
	bound, hasBound := m.crit.MaxRCDist()
	nCand := 0
	for i, m1 := range l1 {
		j0 := 0
		if sym {
			j0 = i + 1
		}
		for j := j0; j < len(l2); j++ {
			m2 := l2[j]
			if m1.Ind == m2.Ind {
				continue
			}
			d := float32(-1)
			if rc1[i].Ok() && rc2[j].Ok() {
				d = dm.Mat[i][j]
			}
			if hasBound && d > bound {
				continue
			}
			nCand++
			sc, err := contact.ScorePair(m.crit, m1, m2, d)
			if errors.Is(err, contact.ErrNotApplicable) {
				continue
			}
			if err != nil {
				return nCand, fmt.Errorf("%s %s: %w", m1.Pid, m2.Pid, err)
			}
			if sc == contact.NoContact {
				continue
			}
			m.add(m1.Ind, m2.Ind, sc)
			if sym {
				m.add(m2.Ind, m1.Ind, sc)
			}
		}
	}
	return nCand, nil
}

// byMatrix is for criteria that only work on whole structures. The
// result is cut down to the mers we were asked about.
func (m *Map) byMatrix(l1, l2 []*structure.Mer) error {
	mtx, err := contact.CalculateContacts(m.crit, m.s)
	if err != nil {
		return err
	}
	in := func(l []*structure.Mer) map[int]bool {
		ret := make(map[int]bool, len(l))
		for _, mr := range l {
			ret[mr.Ind] = true
		}
		return ret
	}
	in1, in2 := in(l1), in(l2)
	mtx.Each(func(i, j int, sc contact.Score) {
		if i != j && in1[i] && in2[j] {
			m.add(i, j, sc)
		}
	})
	return nil
}

func (m *Map) add(i, j int, sc contact.Score) {
	row := m.contacts[i]
	if row == nil {
		row = make(map[int]contact.Score)
		m.contacts[i] = row
	}
	row[j] = sc
	m.order = append(m.order, Contact{i, j, sc})
}

// resolve turns references into mers of the map's structure.
func (m *Map) resolve(refs ...any) ([]*structure.Mer, error) {
	ret := make([]*structure.Mer, len(refs))
	for i, r := range refs {
		mr, err := m.s.Resolve(r)
		if err != nil {
			return nil, err
		}
		ret[i] = mr
	}
	return ret, nil
}

// Score is the contact value between two mers, zero if they are not
// in contact. A mer can be given any way structure.Resolve accepts.
func (m *Map) Score(r1, r2 any) (contact.Score, error) {
	mers, err := m.resolve(r1, r2)
	if err != nil {
		return contact.NoContact, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensure(); err != nil {
		return contact.NoContact, err
	}
	return m.contacts[mers[0].Ind][mers[1].Ind], nil
}

// Contacts returns everything in contact with r, sorted by the partner's
// ind.
func (m *Map) Contacts(r any) ([]Contact, error) {
	mers, err := m.resolve(r)
	if err != nil {
		return nil, err
	}
	ind := mers[0].Ind
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensure(); err != nil {
		return nil, err
	}
	row := m.contacts[ind]
	ret := make([]Contact, 0, len(row))
	for j, sc := range row {
		ret = append(ret, Contact{ind, j, sc})
	}
	slices.SortFunc(ret, func(a, b Contact) int { return a.Ind2 - b.Ind2 })
	return ret, nil
}

// ValidatingCriterion says which part of the criterion put two mers in
// contact. It is nil if they are not in contact.
func (m *Map) ValidatingCriterion(r1, r2 any) (contact.Criterion, error) {
	sc, err := m.Score(r1, r2)
	if err != nil || sc == contact.NoContact {
		return nil, err
	}
	mers, _ := m.resolve(r1, r2)
	v, err := contact.Validating(m.crit, mers[0], mers[1])
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = m.crit
	}
	return v, nil
}

// Len is the number of entries. A symmetric map holds each pair twice.
func (m *Map) Len() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensure(); err != nil {
		return 0, err
	}
	return len(m.order), nil
}

// snapshot copies the contacts so callers can look at them without
// holding the lock.
func (m *Map) snapshot() ([]Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensure(); err != nil {
		return nil, err
	}
	return slices.Clone(m.order), nil
}

// All iterates over the contacts in the order they were found. Each
// loop over the sequence starts again from the current coordinates. If
// the computation fails, the sequence is empty and Err says why.
func (m *Map) All() iter.Seq[Contact] {
	return func(yield func(Contact) bool) {
		cs, err := m.snapshot()
		if err != nil {
			m.logger.Println(err)
			return
		}
		for _, c := range cs {
			if !yield(c) {
				return
			}
		}
	}
}

// Dump writes one line per contact, with the PDB names of the two mers
// and the score, separated by tabs. w is closed at the end.
func (m *Map) Dump(w io.WriteCloser) (err error) {
	defer func() {
		if e := w.Close(); err == nil {
			err = e
		}
	}()
	cs, err := m.snapshot()
	if err != nil {
		return err
	}
	conv := m.s.Converter()
	bw := bufio.NewWriter(w)
	for _, c := range cs {
		p1, err := conv.PdbID(c.Ind1)
		if err != nil {
			return err
		}
		p2, err := conv.PdbID(c.Ind2)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%d\n", p1, p2, c.Score); err != nil {
			return err
		}
	}
	return bw.Flush()
}
