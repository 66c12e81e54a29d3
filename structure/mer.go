package structure

import (
	"fmt"

	"github.com/andrew-torda/cmap/geom"
)

// MerType says what kind of monomer we have. Criteria use it to decide
// if they can say anything about a pair.
type MerType byte

const (
	Unknown MerType = iota
	Residue
	Nucleotide
	Ion
	Ligand
)

func (t MerType) String() string {
	switch t {
	case Residue:
		return "residue"
	case Nucleotide:
		return "nucleotide"
	case Ion:
		return "ion"
	case Ligand:
		return "ligand"
	}
	return "unknown"
}

// Atom is one named atom with its current coordinates.
type Atom struct {
	Name    string
	Element string
	Xyz     geom.Xyz
}

// Mer is a residue, nucleotide, ion or ligand.
// Ind is set when the mer is put in a structure.
type Mer struct {
	Ind   int
	Pid   PdbID
	Name  string // residue name, like ALA or DG
	Type  MerType
	Atoms []Atom
}

var aminoAcids = map[string]bool{
	"ALA": true, "ARG": true, "ASN": true, "ASP": true, "CYS": true,
	"GLN": true, "GLU": true, "GLY": true, "HIS": true, "ILE": true,
	"LEU": true, "LYS": true, "MET": true, "PHE": true, "PRO": true,
	"SER": true, "THR": true, "TRP": true, "TYR": true, "VAL": true,
	"MSE": true, "SEC": true, "PYL": true,
}

var nucleotides = map[string]bool{
	"A": true, "C": true, "G": true, "U": true, "I": true,
	"DA": true, "DC": true, "DG": true, "DT": true, "DU": true, "DI": true,
}

var ions = map[string]bool{
	"NA": true, "K": true, "MG": true, "CA": true, "ZN": true, "MN": true,
	"FE": true, "FE2": true, "CU": true, "CU1": true, "CO": true, "NI": true,
	"CD": true, "CL": true, "BR": true, "IOD": true, "SR": true, "BA": true,
	"CS": true, "RB": true, "LI": true, "HG": true,
}

// Ring atoms, listed in order round the ring.
var rings = map[string][]string{
	"PHE": {"CG", "CD1", "CE1", "CZ", "CE2", "CD2"},
	"TYR": {"CG", "CD1", "CE1", "CZ", "CE2", "CD2"},
	"TRP": {"CD2", "CE2", "CZ2", "CH2", "CZ3", "CE3"},
	"HIS": {"CG", "ND1", "CE1", "NE2", "CD2"},
}

var (
	pyrimidineRing = []string{"N1", "C2", "N3", "C4", "C5", "C6"}
	purineRing     = []string{"N9", "C8", "N7", "C5", "C6", "N1", "C2", "N3", "C4"}
)

func init() {
	for _, n := range []string{"C", "U", "DC", "DT", "DU"} {
		rings[n] = pyrimidineRing
	}
	for _, n := range []string{"A", "G", "I", "DA", "DG", "DI"} {
		rings[n] = purineRing
	}
}

var water = map[string]bool{"HOH": true, "WAT": true, "DOD": true, "H2O": true}

// Skip says if a file reader should leave out an atom. We drop waters,
// hydrogens and alternative locations other than the first. alt is the
// alternative location code, with ' ', '.' or '?' for none.
func Skip(resName, element string, alt byte) bool {
	switch alt {
	case ' ', '.', '?', 'A', '1':
	default:
		return true
	}
	return water[resName] || element == "H" || element == "D"
}

// Classify decides the type of a mer from its name and number of atoms.
func Classify(name string, nAtom int) MerType {
	switch {
	case aminoAcids[name]:
		return Residue
	case nucleotides[name]:
		return Nucleotide
	case ions[name] && nAtom == 1:
		return Ion
	case nAtom > 0:
		return Ligand
	}
	return Unknown
}

// Atom returns the named atom.
func (m *Mer) Atom(name string) (Atom, bool) {
	for _, a := range m.Atoms {
		if a.Name == name {
			return a, a.Xyz.Ok()
		}
	}
	return Atom{}, false
}

// Coords returns the coordinates of all atoms.
func (m *Mer) Coords() []geom.Xyz {
	ret := make([]geom.Xyz, 0, len(m.Atoms))
	for _, a := range m.Atoms {
		ret = append(ret, a.Xyz)
	}
	return ret
}

// RC is the representative center, the centroid of the atoms. A mer
// without usable atoms gives BrokenXyz.
func (m *Mer) RC() geom.Xyz {
	c, err := geom.Centroid(m.Coords())
	if err != nil {
		return geom.BrokenXyz
	}
	return c
}

// point returns the coordinates of one named atom or ErrNoAtom.
func (m *Mer) point(name string) (geom.Xyz, error) {
	if a, ok := m.Atom(name); ok {
		return a.Xyz, nil
	}
	return geom.BrokenXyz, fmt.Errorf("%w: %s in %s", ErrNoAtom, name, m.Pid)
}

// CA returns the alpha carbon.
func (m *Mer) CA() (geom.Xyz, error) { return m.point("CA") }

// CBX is a pseudo atom, the beta carbon pushed a further ext Angstrom
// away from the alpha carbon. A mer without CB, like glycine, gets the
// alpha carbon.
func (m *Mer) CBX(ext float32) (geom.Xyz, error) {
	ca, err := m.CA()
	if err != nil {
		return ca, err
	}
	cb, err := m.point("CB")
	if err != nil {
		return ca, nil
	}
	v, err := cb.Sub(ca).Extend(ext)
	if err != nil {
		return geom.BrokenXyz, err
	}
	return cb.Add(v), nil
}

// HasRing says if we know about an aromatic ring or base for this mer.
func (m *Mer) HasRing() bool {
	_, ok := rings[m.Name]
	return ok
}

// RingAtoms returns the coordinates of the ring atoms, in order round
// the ring. All of them must be present.
func (m *Mer) RingAtoms() ([]geom.Xyz, error) {
	names, ok := rings[m.Name]
	if !ok {
		return nil, fmt.Errorf("%w: no ring in %s %s", ErrNoAtom, m.Name, m.Pid)
	}
	ret := make([]geom.Xyz, len(names))
	for i, n := range names {
		var err error
		if ret[i], err = m.point(n); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// RingCenter is the centroid of the ring atoms
func (m *Mer) RingCenter() (geom.Xyz, error) {
	r, err := m.RingAtoms()
	if err != nil {
		return geom.BrokenXyz, err
	}
	return geom.Centroid(r)
}

// maxPucker is how far a ring atom may be from the ring plane.
const maxPucker = 0.5

// RingPlane is the plane of the ring. A ring with an atom more than
// maxPucker off the plane gives ErrBentRing.
func (m *Mer) RingPlane() (geom.Plane, error) {
	r, err := m.RingAtoms()
	if err != nil {
		return geom.Plane{}, err
	}
	pl, err := geom.FitPlane(r)
	if err != nil {
		return pl, err
	}
	for i, x := range r {
		if d := pl.Dist(x); d > maxPucker {
			return pl, fmt.Errorf("%w: %s %s is %.2f off the plane of %s", ErrBentRing, m.Name, rings[m.Name][i], d, m.Pid)
		}
	}
	return pl, nil
}
