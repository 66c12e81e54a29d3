package geom

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// TRT is a translation, rotation, translation. A point is first moved by
// Pre, then rotated, then moved by Post.
type TRT struct {
	Pre  Xyz
	Rot  *mat.Dense // 3 x 3
	Post Xyz
}

// NewTRT returns the identity transformation.
func NewTRT() *TRT {
	return &TRT{Rot: identity3()}
}

func identity3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}

// AddRotation applies r after the rotation we already have. r must be 3x3.
func (t *TRT) AddRotation(r mat.Matrix) {
	if nr, nc := r.Dims(); nr != 3 || nc != 3 {
		panic("AddRotation wants a 3x3 matrix")
	}
	var tmp mat.Dense
	tmp.Mul(r, t.rot())
	t.Rot = &tmp
}

// AddTranslation adds v to the post-rotation translation
func (t *TRT) AddTranslation(v Xyz) { t.Post = t.Post.Add(v) }

// AddPrerotationalTranslation adds v to the translation applied before rotating
func (t *TRT) AddPrerotationalTranslation(v Xyz) { t.Pre = t.Pre.Add(v) }

// rot lets the zero value of TRT behave like the identity.
func (t *TRT) rot() *mat.Dense {
	if t.Rot == nil {
		t.Rot = identity3()
	}
	return t.Rot
}

// Transform moves a single point
func (t *TRT) Transform(x Xyz) Xyz {
	if !x.Ok() {
		return x
	}
	return rotate(t.rot(), x.Add(t.Pre)).Add(t.Post)
}

func rotate(r *mat.Dense, p Xyz) Xyz {
	v := mat.NewVecDense(3, []float64{float64(p.X), float64(p.Y), float64(p.Z)})
	var res mat.VecDense
	res.MulVec(r, v)
	return Xyz{float32(res.AtVec(0)), float32(res.AtVec(1)), float32(res.AtVec(2))}
}

// Reset goes back to the identity
func (t *TRT) Reset() {
	t.Pre, t.Post = Xyz{}, Xyz{}
	t.Rot = identity3()
}

// Combine returns the transformation that applies t and then other.
// It keeps t's pre-rotation translation and folds everything else into
// the rotation and the post-rotation translation.
func (t *TRT) Combine(other *TRT) *TRT {
	ret := NewTRT()
	var r mat.Dense
	r.Mul(other.rot(), t.rot())
	ret.Rot = &r
	ret.Pre = t.Pre
	ret.Post = rotate(other.rot(), t.Post.Add(other.Pre)).Add(other.Post)
	return ret
}

// RotZ returns the matrix for a rotation by angle radians about the z axis.
// It is mostly here for tests and for building simple transformations.
func RotZ(angle float64) *mat.Dense {
	c, s := math.Cos(angle), math.Sin(angle)
	return mat.NewDense(3, 3, []float64{c, -s, 0, s, c, 0, 0, 0, 1})
}
