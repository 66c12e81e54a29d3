// Package structure holds a macromolecule as an ordered list of mers.
// Each mer gets a dense ind, starting from 1, from the converter of the
// structure it was read into. Sub-structures share mers with the
// structure they came from, so they see the same coordinates and the
// same inds.
package structure

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/andrew-torda/cmap/geom"
)

// Error lets us have constant errors.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrLookupMiss = Error("no such mer")
	ErrDupID      = Error("duplicate mer id")
	ErrNoAtom     = Error("missing atom")
	ErrNoFrame    = Error("no such frame")
	ErrBadFrame   = Error("frame does not match structure")
	ErrBentRing   = Error("ring is not flat")
)

// Structure is an ordered collection of mers.
type Structure struct {
	name  string
	mers  []*Mer
	byInd map[int]*Mer
	root  *Structure // nil if we are the root

	// only used in the root
	conv  *Converter
	frame atomic.Int64
	traj  *trajectory

	mu       sync.Mutex
	attached map[any]any
}

// New builds a root structure from mers in file order and numbers them.
func New(name string, mers []*Mer) (*Structure, error) {
	ids := make([]PdbID, len(mers))
	for i, m := range mers {
		ids[i] = m.Pid
	}
	conv, err := NewConverter(ids)
	if err != nil {
		return nil, fmt.Errorf("structure %s: %w", name, err)
	}
	s := &Structure{name: name, conv: conv}
	for i, m := range mers {
		m.Ind = i + 1
	}
	s.setMers(mers)
	return s, nil
}

func (s *Structure) setMers(mers []*Mer) {
	s.mers = mers
	s.byInd = make(map[int]*Mer, len(mers))
	for _, m := range mers {
		s.byInd[m.Ind] = m
	}
}

// Subset returns the sub-structure with the mers for which keep is true,
// in the same order.
func (s *Structure) Subset(keep func(*Mer) bool) *Structure {
	var mers []*Mer
	for _, m := range s.mers {
		if keep(m) {
			mers = append(mers, m)
		}
	}
	sub := &Structure{name: s.name, root: s.Root()}
	sub.setMers(mers)
	return sub
}

// Root is the structure everything was derived from.
func (s *Structure) Root() *Structure {
	if s.root == nil {
		return s
	}
	return s.root
}

// Name is the name given when the structure was read.
func (s *Structure) Name() string { return s.name }

// Converter maps PDB ids to inds. It belongs to the root.
func (s *Structure) Converter() *Converter { return s.Root().conv }

// MaxInd is the size of the ind space of the root.
func (s *Structure) MaxInd() int { return s.Root().conv.MaxInd() }

// Mers returns the mers in order. Do not change the slice.
func (s *Structure) Mers() []*Mer { return s.mers }

// Len is the number of mers
func (s *Structure) Len() int { return len(s.mers) }

// At returns the i'th mer, counting from zero, in this structure's order.
func (s *Structure) At(i int) *Mer { return s.mers[i] }

// Mer returns the mer with a given ind, if it is in this structure.
func (s *Structure) Mer(ind int) (*Mer, bool) {
	m, ok := s.byInd[ind]
	return m, ok
}

// Resolve finds a mer from a reference. A reference can be an ind
// (int), a PdbID, a string like "A42" or a *Mer.
func (s *Structure) Resolve(ref any) (*Mer, error) {
	var ind int
	switch r := ref.(type) {
	case int:
		ind = r
	case *Mer:
		if r == nil {
			return nil, fmt.Errorf("%w: nil mer", ErrLookupMiss)
		}
		ind = r.Ind
	case PdbID:
		var err error
		if ind, err = s.Converter().Ind(r); err != nil {
			return nil, err
		}
	case string:
		p, err := ParsePdbID(r)
		if err != nil {
			return nil, err
		}
		return s.Resolve(p)
	default:
		return nil, fmt.Errorf("%w: cannot use %T as a mer reference", ErrLookupMiss, ref)
	}
	if m, ok := s.byInd[ind]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: ind %d not in %s", ErrLookupMiss, ind, s.name)
}

// Frame is a token that changes whenever coordinates change. Callers
// holding results computed from coordinates compare it with the value
// they saw when computing.
func (s *Structure) Frame() int64 { return s.Root().frame.Load() }

// Touch says coordinates have been changed by hand.
func (s *Structure) Touch() { s.Root().frame.Add(1) }

// Transform moves every atom of the mers in this structure.
func (s *Structure) Transform(t *geom.TRT) {
	for _, m := range s.mers {
		for i := range m.Atoms {
			m.Atoms[i].Xyz = t.Transform(m.Atoms[i].Xyz)
		}
	}
	s.Touch()
}

// Attach stores a value on the structure under key. Results computed
// from a structure, like contact maps, live here so they go away with it.
func (s *Structure) Attach(key, val any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached == nil {
		s.attached = make(map[any]any)
	}
	s.attached[key] = val
}

// Attached returns what was stored under key.
func (s *Structure) Attached(key any) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.attached[key]
	return v, ok
}

// AttachedOrNew returns the value stored under key. If there is none,
// mk is called and its result stored. Holding the lock means two callers
// always get the same value.
func (s *Structure) AttachedOrNew(key any, mk func() any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.attached[key]; ok {
		return v
	}
	if s.attached == nil {
		s.attached = make(map[any]any)
	}
	v := mk()
	s.attached[key] = v
	return v
}
