package geom

import (
	"github.com/andrew-torda/matrix"
)

// DistMatrix fills an len(a) x len(b) matrix with the distances between
// the points. If mat is not nil, its storage is reused.
func DistMatrix(a, b []Xyz, mat *matrix.FMatrix2d) *matrix.FMatrix2d {
	if mat == nil {
		mat = matrix.NewFMatrix2d(len(a), len(b))
	} else {
		mat.Resize(len(a), len(b))
	}
	for i, x := range a {
		row := mat.Mat[i]
		for j, y := range b {
			row[j] = Dist(x, y)
		}
	}
	return mat
}
