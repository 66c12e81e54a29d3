package structure

import (
	"fmt"
)

// Converter maps PDB names of mers to inds and back. Inds are dense and
// start from 1, in the order the mers were given.
type Converter struct {
	ids   []PdbID       // ids[ind-1]
	toInd map[PdbID]int //
}

// NewConverter numbers the ids. A repeated id is an error.
func NewConverter(ids []PdbID) (*Converter, error) {
	c := &Converter{
		ids:   make([]PdbID, len(ids)),
		toInd: make(map[PdbID]int, len(ids)),
	}
	for i, id := range ids {
		if _, dup := c.toInd[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDupID, id)
		}
		c.ids[i] = id
		c.toInd[id] = i + 1
	}
	return c, nil
}

// MaxInd is the biggest ind handed out. Matrices indexed by ind need
// MaxInd+1 rows.
func (c *Converter) MaxInd() int { return len(c.ids) }

// Ind returns the ind for a PDB id.
func (c *Converter) Ind(p PdbID) (int, error) {
	if ind, ok := c.toInd[p]; ok {
		return ind, nil
	}
	if p.ICode == ' ' { // some callers use space for "no insertion code"
		if ind, ok := c.toInd[PdbID{p.Chain, p.Num, 0}]; ok {
			return ind, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrLookupMiss, p)
}

// PdbID goes the other way.
func (c *Converter) PdbID(ind int) (PdbID, error) {
	if ind < 1 || ind > len(c.ids) {
		return PdbID{}, fmt.Errorf("%w: ind %d", ErrLookupMiss, ind)
	}
	return c.ids[ind-1], nil
}
