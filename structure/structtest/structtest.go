// Package structtest builds small structures for tests.
package structtest

import (
	"fmt"
	"math"
	"testing"

	"github.com/andrew-torda/cmap/geom"
	"github.com/andrew-torda/cmap/structure"
)

// Point is a ligand with one atom at x. Useful when only the rc matters.
func Point(chain string, num int, x geom.Xyz) *structure.Mer {
	return &structure.Mer{
		Pid:   structure.PdbID{Chain: chain, Num: num},
		Name:  "UNL",
		Type:  structure.Ligand,
		Atoms: []structure.Atom{{Name: "C1", Element: "C", Xyz: x}},
	}
}

// Ion is a single atom ion at x.
func Ion(chain string, num int, name string, x geom.Xyz) *structure.Mer {
	return &structure.Mer{
		Pid:   structure.PdbID{Chain: chain, Num: num},
		Name:  name,
		Type:  structure.Ion,
		Atoms: []structure.Atom{{Name: name, Element: name, Xyz: x}},
	}
}

// Residue is an alanine with its CA at ca. The other backbone atoms and
// CB sit at fixed offsets, so CA and CB distances between two residues
// are the same as between their CAs.
func Residue(chain string, num int, ca geom.Xyz) *structure.Mer {
	off := func(x, y, z float32) geom.Xyz { return ca.Add(geom.Xyz{X: x, Y: y, Z: z}) }
	return &structure.Mer{
		Pid:  structure.PdbID{Chain: chain, Num: num},
		Name: "ALA",
		Type: structure.Residue,
		Atoms: []structure.Atom{
			{Name: "N", Element: "N", Xyz: off(-0.5, 1.36, 0)},
			{Name: "CA", Element: "C", Xyz: ca},
			{Name: "C", Element: "C", Xyz: off(1.52, 0, 0)},
			{Name: "O", Element: "O", Xyz: off(2.1, -1.0, 0)},
			{Name: "CB", Element: "C", Xyz: off(-0.5, -0.7, 1.2)},
		},
	}
}

// Phe is a phenylalanine whose ring is a flat hexagon of radius 1.39
// round center, lying in the plane with normal along z, or along x if
// tilted is true. The CA sits 3 Angstrom below the ring.
func Phe(chain string, num int, center geom.Xyz, tilted bool) *structure.Mer {
	m := Residue(chain, num, center.Add(geom.Xyz{Z: -3}))
	m.Name = "PHE"
	ring := []string{"CG", "CD1", "CE1", "CZ", "CE2", "CD2"}
	hex := [][2]float32{{1.39, 0}, {0.695, 1.2038}, {-0.695, 1.2038}, {-1.39, 0}, {-0.695, -1.2038}, {0.695, -1.2038}}
	for i, n := range ring {
		v := geom.Xyz{X: hex[i][0], Y: hex[i][1]}
		if tilted {
			v = geom.Xyz{Y: hex[i][0], Z: hex[i][1]}
		}
		m.Atoms = append(m.Atoms, structure.Atom{Name: n, Element: "C", Xyz: center.Add(v)})
	}
	return m
}

// Ligand is a straight chain of n carbons starting at start, each step
// from the one before. Long chains reach far from their rc.
func Ligand(chain string, num int, start, step geom.Xyz, n int) *structure.Mer {
	m := &structure.Mer{
		Pid:  structure.PdbID{Chain: chain, Num: num},
		Name: "LIG",
		Type: structure.Ligand,
	}
	x := start
	for i := range n {
		m.Atoms = append(m.Atoms, structure.Atom{Name: fmt.Sprintf("C%d", i+1), Element: "C", Xyz: x})
		x = x.Add(step)
	}
	return m
}

// Nucleotide is a DG whose purine ring is a flat nonagon of radius 1.9
// round center, normal along z. The sugar and phosphate trail off along
// -x, so the ring center is about 3 Angstrom from the rc.
func Nucleotide(chain string, num int, center geom.Xyz) *structure.Mer {
	m := &structure.Mer{
		Pid:  structure.PdbID{Chain: chain, Num: num},
		Name: "DG",
		Type: structure.Nucleotide,
	}
	add := func(name, elem string, x, y, z float32) {
		m.Atoms = append(m.Atoms, structure.Atom{Name: name, Element: elem, Xyz: center.Add(geom.Xyz{X: x, Y: y, Z: z})})
	}
	for i, n := range []string{"N9", "C8", "N7", "C5", "C6", "N1", "C2", "N3", "C4"} {
		a := 2 * math.Pi * float64(i) / 9
		add(n, n[:1], float32(1.9*math.Cos(a)), float32(1.9*math.Sin(a)), 0)
	}
	for i, n := range []string{"C1'", "C2'", "C3'", "C4'", "O4'"} {
		add(n, n[:1], -3.6-0.4*float32(i), 0.6*float32(i%2), 0.5)
	}
	for i, n := range []string{"O5'", "P", "OP1", "OP2", "O3'"} {
		add(n, n[:1], -6.4-0.3*float32(i), 0.5*float32(i%3), -0.4)
	}
	return m
}

// Build makes a root structure and fails the test if it cannot.
func Build(t testing.TB, mers ...*structure.Mer) *structure.Structure {
	t.Helper()
	s, err := structure.New("test", mers)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// Line puts n ligand points along the x axis, sep apart, in chain A,
// numbered from 1.
func Line(t testing.TB, n int, sep float32) *structure.Structure {
	t.Helper()
	mers := make([]*structure.Mer, n)
	for i := range mers {
		mers[i] = Point("A", i+1, geom.Xyz{X: float32(i) * sep})
	}
	return Build(t, mers...)
}
