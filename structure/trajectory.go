package structure

import (
	"fmt"

	"github.com/andrew-torda/cmap/geom"
)

// trajectory is a set of coordinate frames for the atoms of a root
// structure, flattened in mer then atom order.
type trajectory struct {
	frames [][]geom.Xyz
	cur    int
}

// NAtom is the number of atoms in the structure, which is the length of
// a trajectory frame.
func (s *Structure) NAtom() int {
	n := 0
	for _, m := range s.mers {
		n += len(m.Atoms)
	}
	return n
}

// Coords returns the coordinates of all atoms in frame order.
func (s *Structure) Coords() []geom.Xyz {
	ret := make([]geom.Xyz, 0, s.NAtom())
	for _, m := range s.mers {
		for _, a := range m.Atoms {
			ret = append(ret, a.Xyz)
		}
	}
	return ret
}

// LinkTrajectory gives the root a list of frames. The current
// coordinates become frame 0 and frames follow. Every frame must have
// one point per atom.
func (s *Structure) LinkTrajectory(frames [][]geom.Xyz) error {
	root := s.Root()
	n := root.NAtom()
	all := [][]geom.Xyz{root.Coords()}
	for i, f := range frames {
		if len(f) != n {
			return fmt.Errorf("%w: frame %d has %d points, structure has %d atoms", ErrBadFrame, i+1, len(f), n)
		}
		all = append(all, f)
	}
	root.traj = &trajectory{frames: all}
	return nil
}

// NFrames is the number of frames in the trajectory, including the
// first. A structure without a trajectory has one.
func (s *Structure) NFrames() int {
	if t := s.Root().traj; t != nil {
		return len(t.frames)
	}
	return 1
}

// CurrentFrame is the number of the trajectory frame we are looking at.
func (s *Structure) CurrentFrame() int {
	if t := s.Root().traj; t != nil {
		return t.cur
	}
	return 0
}

// SetFrame copies frame n into the atoms.
func (s *Structure) SetFrame(n int) error {
	root := s.Root()
	t := root.traj
	if n == 0 && t == nil {
		return nil
	}
	if t == nil || n < 0 || n >= len(t.frames) {
		return fmt.Errorf("%w: %d of %d", ErrNoFrame, n, s.NFrames())
	}
	f := t.frames[n]
	k := 0
	for _, m := range root.mers {
		for i := range m.Atoms {
			m.Atoms[i].Xyz = f[k]
			k++
		}
	}
	t.cur = n
	root.Touch()
	return nil
}

// NextFrame moves on one frame. At the end, it returns ErrNoFrame.
func (s *Structure) NextFrame() error { return s.SetFrame(s.CurrentFrame() + 1) }
