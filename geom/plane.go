package geom

import (
	"math"
)

// Plane is a*x + b*y + c*z + d = 0 with (a, b, c) a unit normal.
type Plane struct {
	Norm Xyz
	D    float32
}

// NewPlane normalises the coefficients.
func NewPlane(a, b, c, d float32) (Plane, error) {
	n := Xyz{a, b, c}
	l := n.Len()
	if l == 0 {
		return Plane{}, errZeroLen
	}
	return Plane{Norm: n.Scale(1 / l), D: d / l}, nil
}

// BuildPlane returns the plane through three points.
func BuildPlane(v1, v2, v3 Xyz) (Plane, error) {
	n := v1.Sub(v2).Cross(v3.Sub(v2))
	return NewPlane(n.X, n.Y, n.Z, -n.Dot(v1))
}

// FitPlane takes a ring or some other roughly flat set of atoms and
// builds the plane through three of them, spread around the ring.
func FitPlane(pts []Xyz) (Plane, error) {
	n := len(pts)
	if n < 3 {
		return Plane{}, errNoPoints
	}
	return BuildPlane(pts[0], pts[n/3], pts[2*n/3])
}

// OrtProjection returns the orthogonal projection of p onto the plane
func (pl Plane) OrtProjection(p Xyz) Xyz {
	r := pl.Norm.Dot(p) + pl.D
	return p.Sub(pl.Norm.Scale(r))
}

// Dist is how far p is from the plane.
func (pl Plane) Dist(p Xyz) float32 { return p.Sub(pl.OrtProjection(p)).Len() }

// DihedralAngle is the angle between the normals, from 0 to pi.
func (pl Plane) DihedralAngle(p2 Plane) float32 {
	c := float64(pl.Norm.Dot(p2.Norm))
	s := float64(pl.Norm.Cross(p2.Norm).Len())
	return float32(math.Atan2(s, c))
}

// Bisection returns the plane halfway between pl and p2.
func (pl Plane) Bisection(p2 Plane) (Plane, error) {
	v, d := pl.Norm.Add(p2.Norm), pl.D+p2.D
	if pl.Norm.Dot(p2.Norm) < 0 {
		v, d = pl.Norm.Sub(p2.Norm), pl.D-p2.D
	}
	return NewPlane(v.X, v.Y, v.Z, d)
}
