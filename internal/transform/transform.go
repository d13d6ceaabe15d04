// Package transform implements the rigid transforms that place a source's
// local frame in world space: world = R·local + t with R orthonormal.
package transform

import (
	"errors"
	"fmt"
	"math"

	"github.com/partseed/partseed/pkg/core"
)

// ErrDegenerateRotation is returned when a rotation cannot be constructed
// from the given input (zero-norm axis, non-orthonormal matrix).
var ErrDegenerateRotation = errors.New("degenerate rotation")

// orthoTol is the loosest deviation from orthonormality accepted on input
// matrices. Hand-entered matrices (mesh alignment tools tend to print 3-4
// significant digits) pass and are renormalized; genuinely skewed or
// singular input is rejected.
const orthoTol = 5e-3

// Transform is a rotation followed by a translation. The zero value is not
// valid; use Identity or one of the constructors.
type Transform struct {
	r [3][3]float64
	t core.Vec3
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{r: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// New builds a transform from an explicit rotation matrix and translation.
// The matrix must be orthonormal (within orthoTol) with determinant +1; it
// is renormalized before use so downstream compositions start drift-free.
func New(r [3][3]float64, t core.Vec3) (Transform, error) {
	if !isOrthonormal(r, orthoTol) {
		return Transform{}, fmt.Errorf("%w: matrix is not orthonormal", ErrDegenerateRotation)
	}
	if det3(r) < 0 {
		return Transform{}, fmt.Errorf("%w: matrix is a reflection (det -1)", ErrDegenerateRotation)
	}
	return Transform{r: orthonormalize(r), t: t}, nil
}

// FromEuler builds a transform from intrinsic Z-Y-X Euler angles in radians
// (yaw about z, then pitch about y, then roll about x) and a translation.
// The resulting matrix is re-orthonormalized to remove rounding drift.
func FromEuler(roll, pitch, yaw float64, t core.Vec3) Transform {
	cr, sr := math.Cos(roll), math.Sin(roll)
	cp, sp := math.Cos(pitch), math.Sin(pitch)
	cy, sy := math.Cos(yaw), math.Sin(yaw)

	r := [3][3]float64{
		{cy * cp, cy*sp*sr - sy*cr, cy*sp*cr + sy*sr},
		{sy * cp, sy*sp*sr + cy*cr, sy*sp*cr - cy*sr},
		{-sp, cp * sr, cp * cr},
	}
	return Transform{r: orthonormalize(r), t: t}
}

// FromAxisAngle builds a transform rotating by angle radians about the given
// axis (Rodrigues' formula). A near-zero axis is rejected.
func FromAxisAngle(axis core.Vec3, angle float64, t core.Vec3) (Transform, error) {
	n := axis.Norm()
	if n < 1e-12 {
		return Transform{}, fmt.Errorf("%w: zero-norm rotation axis", ErrDegenerateRotation)
	}
	ux, uy, uz := axis.X/n, axis.Y/n, axis.Z/n
	c, s := math.Cos(angle), math.Sin(angle)
	ic := 1 - c

	r := [3][3]float64{
		{c + ux*ux*ic, ux*uy*ic - uz*s, ux*uz*ic + uy*s},
		{uy*ux*ic + uz*s, c + uy*uy*ic, uy*uz*ic - ux*s},
		{uz*ux*ic - uy*s, uz*uy*ic + ux*s, c + uz*uz*ic},
	}
	return Transform{r: orthonormalize(r), t: t}, nil
}

// Apply maps a local-frame point into world space.
func (tr Transform) Apply(p core.Vec3) core.Vec3 {
	return core.Vec3{
		X: tr.r[0][0]*p.X + tr.r[0][1]*p.Y + tr.r[0][2]*p.Z + tr.t.X,
		Y: tr.r[1][0]*p.X + tr.r[1][1]*p.Y + tr.r[1][2]*p.Z + tr.t.Y,
		Z: tr.r[2][0]*p.X + tr.r[2][1]*p.Y + tr.r[2][2]*p.Z + tr.t.Z,
	}
}

// Compose returns the transform equivalent to applying inner first, then
// outer: R = Ro·Ri, t = Ro·ti + to. The composed rotation is
// re-orthonormalized so drift stays bounded across repeated compositions.
func Compose(outer, inner Transform) Transform {
	var r [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = outer.r[i][0]*inner.r[0][j] +
				outer.r[i][1]*inner.r[1][j] +
				outer.r[i][2]*inner.r[2][j]
		}
	}
	ti := outer.Apply(inner.t)
	return Transform{r: orthonormalize(r), t: ti}
}

// Rotation returns a copy of the rotation matrix.
func (tr Transform) Rotation() [3][3]float64 { return tr.r }

// Translation returns the translation vector.
func (tr Transform) Translation() core.Vec3 { return tr.t }

// Translated returns tr with the translation shifted by d.
func (tr Transform) Translated(d core.Vec3) Transform {
	return Transform{r: tr.r, t: tr.t.Add(d)}
}

// orthonormalize applies Gram-Schmidt to the matrix rows.
func orthonormalize(r [3][3]float64) [3][3]float64 {
	row := func(i int) core.Vec3 { return core.Vec3{X: r[i][0], Y: r[i][1], Z: r[i][2]} }

	u0 := row(0)
	u0 = u0.Scale(1 / u0.Norm())

	u1 := row(1).Sub(u0.Scale(row(1).Dot(u0)))
	u1 = u1.Scale(1 / u1.Norm())

	u2 := row(2).Sub(u0.Scale(row(2).Dot(u0))).Sub(u1.Scale(row(2).Dot(u1)))
	u2 = u2.Scale(1 / u2.Norm())

	return [3][3]float64{
		{u0.X, u0.Y, u0.Z},
		{u1.X, u1.Y, u1.Z},
		{u2.X, u2.Y, u2.Z},
	}
}

func isOrthonormal(r [3][3]float64, tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			dot := r[i][0]*r[j][0] + r[i][1]*r[j][1] + r[i][2]*r[j][2]
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(dot-want) > tol {
				return false
			}
		}
	}
	return true
}

func det3(r [3][3]float64) float64 {
	return r[0][0]*(r[1][1]*r[2][2]-r[1][2]*r[2][1]) -
		r[0][1]*(r[1][0]*r[2][2]-r[1][2]*r[2][0]) +
		r[0][2]*(r[1][0]*r[2][1]-r[1][1]*r[2][0])
}
