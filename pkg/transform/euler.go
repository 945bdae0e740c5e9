// Package transform computes cabinet-level rigid transforms: the aggregate
// center + rotation derived from a cabinet's parts, and the re-projection
// of freshly generated blueprints onto a captured placement.
//
// Rotations are Euler angles in radians applied Z·Y·X, matching the
// geometry kernel convention. Matrix math uses the sdfx CAD library.
package transform

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
)

// EulerToMatrix converts Euler angles (radians) to a rotation matrix,
// composed as Rz·Ry·Rx.
func EulerToMatrix(e design.Vec3) sdf.M44 {
	return sdf.RotateZ(e.Z).Mul(sdf.RotateY(e.Y)).Mul(sdf.RotateX(e.X))
}

// InverseEulerMatrix returns the inverse of EulerToMatrix(e),
// composed exactly as Rx(-x)·Ry(-y)·Rz(-z).
func InverseEulerMatrix(e design.Vec3) sdf.M44 {
	return sdf.RotateX(-e.X).Mul(sdf.RotateY(-e.Y)).Mul(sdf.RotateZ(-e.Z))
}

// MatrixToEuler extracts Z·Y·X Euler angles from a rotation matrix.
// Near gimbal lock (|sin(y)| ≈ 1) the X angle is fixed to zero and the
// remaining rotation folds into Z.
func MatrixToEuler(m sdf.M44) design.Vec3 {
	// Read the rotation columns by transforming the basis vectors.
	c0 := m.MulPosition(v3.Vec{X: 1})
	c1 := m.MulPosition(v3.Vec{Y: 1})
	c2 := m.MulPosition(v3.Vec{Z: 1})

	// r20 = -sin(y)
	sy := -c0.Z
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	y := math.Asin(sy)

	if math.Abs(sy) > 1-1e-9 {
		// Gimbal lock: x and z axes align.
		return design.Vec3{
			X: 0,
			Y: y,
			Z: math.Atan2(-c1.X, c1.Y),
		}
	}

	return design.Vec3{
		X: math.Atan2(c1.Z, c2.Z),
		Y: y,
		Z: math.Atan2(c0.Y, c0.X),
	}
}

// RotateVec applies the rotation matrix to a vector.
func RotateVec(m sdf.M44, v design.Vec3) design.Vec3 {
	out := m.MulPosition(v3.Vec{X: v.X, Y: v.Y, Z: v.Z})
	return design.Vec3{X: out.X, Y: out.Y, Z: out.Z}
}

// RotateEuler rotates v by the Euler rotation e.
func RotateEuler(e, v design.Vec3) design.Vec3 {
	return RotateVec(EulerToMatrix(e), v)
}

// ComposeEuler returns the Euler angles of a∘b (a applied after b).
func ComposeEuler(a, b design.Vec3) design.Vec3 {
	return MatrixToEuler(EulerToMatrix(a).Mul(EulerToMatrix(b)))
}
