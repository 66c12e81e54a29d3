package structure

import (
	"fmt"
	"slices"

	"github.com/andrew-torda/cmap/geom"
)

// ErrModelMismatch is wrapped when a later model does not have the same
// atoms, in the same order, as the first.
const ErrModelMismatch = Error("models have different atoms")

type atomKey struct {
	pid  PdbID
	name string
}

// Builder collects atoms as a file reader finds them. Atoms of the first
// model make the mers. Later models only give coordinates and become
// trajectory frames.
type Builder struct {
	mers   []*Mer
	first  []atomKey
	frames [][]geom.Xyz
	cur    []geom.Xyz
	model  int // number of models started
	open   bool
}

// StartModel says that the atoms which follow belong to a new model.
// Files without models never need to call it.
func (b *Builder) StartModel() error {
	if err := b.EndModel(); err != nil {
		return err
	}
	b.model++
	b.open = true
	b.cur = b.cur[:0]
	return nil
}

// EndModel closes the current model. Calling it twice does no harm.
func (b *Builder) EndModel() error {
	if !b.open {
		return nil
	}
	b.open = false
	if b.model < 2 {
		return nil
	}
	if len(b.cur) != len(b.first) {
		return fmt.Errorf("%w: model %d has %d atoms, first has %d", ErrModelMismatch, b.model, len(b.cur), len(b.first))
	}
	b.frames = append(b.frames, slices.Clone(b.cur))
	return nil
}

// Add puts an atom of mer pid, called resName, into the structure.
func (b *Builder) Add(pid PdbID, resName string, a Atom) error {
	key := atomKey{pid, a.Name}
	if b.model > 1 {
		k := len(b.cur)
		if !b.open || k >= len(b.first) || b.first[k] != key {
			return fmt.Errorf("%w: model %d, atom %s %s", ErrModelMismatch, b.model, pid, a.Name)
		}
		b.cur = append(b.cur, a.Xyz)
		return nil
	}
	b.first = append(b.first, key)
	last := len(b.mers) - 1
	if last < 0 || b.mers[last].Pid != pid || b.mers[last].Name != resName {
		b.mers = append(b.mers, &Mer{Pid: pid, Name: resName})
		last++
	}
	b.mers[last].Atoms = append(b.mers[last].Atoms, a)
	return nil
}

// NMer is the number of mers so far.
func (b *Builder) NMer() int { return len(b.mers) }

// NModel is the number of models started.
func (b *Builder) NModel() int { return b.model }

// Finish classifies the mers and makes the structure. Models after the
// first become its trajectory.
func (b *Builder) Finish(name string) (*Structure, error) {
	if err := b.EndModel(); err != nil {
		return nil, err
	}
	for _, m := range b.mers {
		m.Type = Classify(m.Name, len(m.Atoms))
	}
	s, err := New(name, b.mers)
	if err != nil {
		return nil, err
	}
	if len(b.frames) > 0 {
		if err := s.LinkTrajectory(b.frames); err != nil {
			return nil, err
		}
	}
	return s, nil
}
