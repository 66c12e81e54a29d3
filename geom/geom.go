// Package geom has the small amount of vector arithmetic we need for
// coordinates: points, distances, angles and dihedrals, rigid body
// transformations and planes.
package geom

import (
	"math"
)

// Xyz is a point or a vector. We stay with float32, like the coordinates
// in a PDB file.
type Xyz struct{ X, Y, Z float32 }

// BrokenXyz marks coordinates that were missing or could not be read.
var BrokenXyz = Xyz{math.MaxFloat32, 0, -math.MaxFloat32}

// Error lets us have constant errors.
type Error string

func (e Error) Error() string { return string(e) }

const (
	errZeroLen  = Error("zero length vector")
	errBrkAngle = Error("broken angle")
	errNoPoints = Error("no points")
)

// Ok says whether a point holds real coordinates
func (x Xyz) Ok() bool { return x != BrokenXyz }

// Add returns x + y
func (x Xyz) Add(y Xyz) Xyz { return Xyz{x.X + y.X, x.Y + y.Y, x.Z + y.Z} }

// Sub returns x - y
func (x Xyz) Sub(y Xyz) Xyz { return Xyz{x.X - y.X, x.Y - y.Y, x.Z - y.Z} }

// Scale multiplies each component by f
func (x Xyz) Scale(f float32) Xyz { return Xyz{x.X * f, x.Y * f, x.Z * f} }

// Dot is the scalar product
func (x Xyz) Dot(y Xyz) float32 { return x.X*y.X + x.Y*y.Y + x.Z*y.Z }

// Cross returns the vector product of x and y
func (x Xyz) Cross(y Xyz) (res Xyz) {
	res.X = x.Y*y.Z - x.Z*y.Y
	res.Y = x.Z*y.X - x.X*y.Z
	res.Z = x.X*y.Y - x.Y*y.X
	return res
}

// Len2 gives us the length squared
func (x Xyz) Len2() float32 { return x.X*x.X + x.Y*x.Y + x.Z*x.Z }

// Len returns the vector length
func (x Xyz) Len() float32 { return float32(math.Sqrt(float64(x.Len2()))) }

// Versor returns the unit vector pointing the same way as x.
func (x Xyz) Versor() (Xyz, error) {
	l := x.Len()
	if l == 0 {
		return x, errZeroLen
	}
	return x.Scale(1 / l), nil
}

// Extend returns a vector in the same direction as x, but with length l.
func (x Xyz) Extend(l float32) (Xyz, error) {
	v, err := x.Versor()
	if err != nil {
		return x, err
	}
	return v.Scale(l), nil
}

// Dist is the distance between two points
func Dist(x1, x2 Xyz) float32 { return x2.Sub(x1).Len() }

// Dist2 is the distance squared. Use it when only comparing.
func Dist2(x1, x2 Xyz) float32 { return x2.Sub(x1).Len2() }

// Centroid returns the mean of the points. Broken coordinates are
// skipped. If nothing is left, we return an error.
func Centroid(pts []Xyz) (Xyz, error) {
	var sx, sy, sz float64
	n := 0
	for _, p := range pts {
		if !p.Ok() {
			continue
		}
		sx += float64(p.X)
		sy += float64(p.Y)
		sz += float64(p.Z)
		n++
	}
	if n == 0 {
		return BrokenXyz, errNoPoints
	}
	f := float64(n)
	return Xyz{float32(sx / f), float32(sy / f), float32(sz / f)}, nil
}

// XyzAngle takes three points and returns the angle between them, at b.
func XyzAngle(a, b, c Xyz) (float32, error) {
	x1 := a.Sub(b)
	x2 := c.Sub(b)
	len1 := float64(x1.Len2())
	len2 := float64(x2.Len2())
	if len1 == 0 || len2 == 0 {
		return float32(math.NaN()), errZeroLen
	}
	cosalpha := float64(x1.Dot(x2)) / (math.Sqrt(len1) * math.Sqrt(len2))
	if cosalpha > 1 && cosalpha < 1.01 { // numerical noise
		return 0.0, nil
	}
	if cosalpha < -1 && cosalpha > -1.01 {
		return math.Pi, nil
	}
	if cosalpha < -1 || cosalpha > 1 {
		return float32(math.NaN()), errBrkAngle
	}
	return float32(math.Acos(cosalpha)), nil
}

// XyzDhdrl takes four points and returns the dihedral angle
func XyzDhdrl(ii, jj, kk, ll Xyz) float32 {
	r_ij := jj.Sub(ii)
	r_kj := jj.Sub(kk)
	r_kl := ll.Sub(kk)
	var r_im, r_ln Xyz
	{
		tmp := r_ij.Dot(r_kj) / r_kj.Len2()
		r_im = r_kj.Scale(tmp).Sub(r_ij)
	}
	{
		tmp := r_kl.Dot(r_kj) / r_kj.Len2()
		r_ln = r_kl.Sub(r_kj.Scale(tmp))
	}
	var tau float32
	{
		t_cos := float64(r_im.Dot(r_ln) / (r_im.Len() * r_ln.Len()))
		if t_cos > 1 { // Numerical errors can catch us. If so, no need
			return 0.0 // to call acos()
		}
		if t_cos < -1 {
			return math.Pi
		}
		tau = float32(math.Acos(t_cos))
	}

	if r_ij.Dot(r_kj.Cross(r_kl)) >= 0 {
		return tau
	}
	return -tau
}
