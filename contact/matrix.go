package contact

import (
	"fmt"
	"maps"
	"slices"
)

type cell struct{ i, j int }

// Matrix is a sparse square matrix of scores, indexed by mer ind. Only
// non-zero scores are stored.
type Matrix struct {
	n     int
	cells map[cell]Score
}

// NewMatrix returns an empty n x n matrix.
func NewMatrix(n int) *Matrix {
	return &Matrix{n: n, cells: make(map[cell]Score)}
}

// Size is the number of rows (and columns).
func (m *Matrix) Size() int { return m.n }

// Len is the number of non-zero entries.
func (m *Matrix) Len() int { return len(m.cells) }

func (m *Matrix) check(i, j int) {
	if i < 0 || j < 0 || i >= m.n || j >= m.n {
		panic(fmt.Sprintf("contact matrix index %d,%d out of range %d", i, j, m.n))
	}
}

// At returns the score at i, j.
func (m *Matrix) At(i, j int) Score {
	m.check(i, j)
	return m.cells[cell{i, j}]
}

// Set stores a score. Setting zero removes the entry.
func (m *Matrix) Set(i, j int, s Score) {
	m.check(i, j)
	if s == NoContact {
		delete(m.cells, cell{i, j})
		return
	}
	m.cells[cell{i, j}] = s
}

// Each calls f for the non-zero entries in row, then column order.
func (m *Matrix) Each(f func(i, j int, s Score)) {
	keys := slices.SortedFunc(maps.Keys(m.cells), func(a, b cell) int {
		if a.i != b.i {
			return a.i - b.i
		}
		return a.j - b.j
	})
	for _, k := range keys {
		f(k.i, k.j, m.cells[k])
	}
}

// Minimum returns the elementwise minimum of m and other.
func (m *Matrix) Minimum(other *Matrix) *Matrix {
	ret := NewMatrix(max(m.n, other.n))
	for k, s := range m.cells {
		if t, ok := other.cells[k]; ok {
			ret.cells[k] = min(s, t)
		}
	}
	return ret
}

// Maximum returns the elementwise maximum of m and other.
func (m *Matrix) Maximum(other *Matrix) *Matrix {
	ret := NewMatrix(max(m.n, other.n))
	maps.Copy(ret.cells, m.cells)
	for k, t := range other.cells {
		ret.cells[k] = max(ret.cells[k], t)
	}
	return ret
}
