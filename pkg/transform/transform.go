package transform

import (
	"math"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
)

// DefaultRotation returns the canonical construction rotation for a
// structural role in an unrotated cabinet. Horizontal panels lie in the
// XZ plane, side panels in the ZY plane, fronts and backs face +Z/-Z.
func DefaultRotation(role design.PartRole) design.Vec3 {
	switch role {
	case design.RoleBottom, design.RoleTop, design.RoleShelf:
		return design.Vec3{X: -math.Pi / 2}
	case design.RoleLeftSide, design.RoleRightSide:
		return design.Vec3{Y: math.Pi / 2}
	default:
		return design.Vec3{}
	}
}

// CabinetTransform derives the aggregate world transform of a cabinet
// from its current parts: the center is the arithmetic mean of the part
// positions, and the rotation is read off one reference part — the BOTTOM
// panel when present, else the first part — with its known construction
// rotation factored out. An empty part list yields the zero placement.
func CabinetTransform(parts []*design.Part) design.Placement {
	if len(parts) == 0 {
		return design.Placement{}
	}

	var sum design.Vec3
	for _, p := range parts {
		sum = sum.Add(p.Position)
	}
	center := sum.Scale(1 / float64(len(parts)))

	ref := parts[0]
	for _, p := range parts {
		if p.CabinetMeta != nil && p.CabinetMeta.Role == design.RoleBottom {
			ref = p
			break
		}
	}

	role := design.RoleNone
	if ref.CabinetMeta != nil {
		role = ref.CabinetMeta.Role
	}

	// rotation = currentRotation ∘ inverse(defaultRotationForRole)
	m := EulerToMatrix(ref.Rotation).Mul(InverseEulerMatrix(DefaultRotation(role)))

	return design.Placement{Center: center, Rotation: MatrixToEuler(m)}
}

// BodyTransform is CabinetTransform restricted to carcass parts, so that
// protruding doors and drawer fronts do not skew the centroid. It falls
// back to the full part list when no body parts are present.
func BodyTransform(parts []*design.Part) design.Placement {
	var body []*design.Part
	for _, p := range parts {
		if p.CabinetMeta != nil && p.CabinetMeta.Role.IsBody() {
			body = append(body, p)
		}
	}
	if len(body) == 0 {
		body = parts
	}
	return CabinetTransform(body)
}

// ApplyCabinetTransform re-projects a canonical blueprint part list onto
// the target center and rotation, mutating the parts in place. The
// blueprint's own centroid is rotated, the offset that lands it on
// targetCenter is computed, and every part is rotated about the origin
// and shifted by that offset. Part rotations are composed with the
// cabinet rotation on the left (world rotation first).
func ApplyCabinetTransform(parts []*design.Part, targetCenter, rotation design.Vec3) {
	if len(parts) == 0 {
		return
	}

	var sum design.Vec3
	for _, p := range parts {
		sum = sum.Add(p.Position)
	}
	centroid := sum.Scale(1 / float64(len(parts)))

	rot := EulerToMatrix(rotation)
	offset := targetCenter.Sub(RotateVec(rot, centroid))

	for _, p := range parts {
		p.Position = RotateVec(rot, p.Position).Add(offset)
		p.Rotation = MatrixToEuler(rot.Mul(EulerToMatrix(p.Rotation)))
	}
}

// ApplyRigidDelta moves and rotates the given parts from the current
// placement to the target placement as one rigid body: positions orbit
// the current center by the rotation delta and translate onto the target
// center; part rotations are composed with the delta. Used by the
// cabinet-level transform operation, which must not regenerate geometry.
func ApplyRigidDelta(parts []*design.Part, current, target design.Placement) {
	if current.Rotation == target.Rotation {
		// Pure translation: no matrix trip, part rotations untouched.
		offset := target.Center.Sub(current.Center)
		for _, p := range parts {
			p.Position = p.Position.Add(offset)
		}
		return
	}

	delta := EulerToMatrix(target.Rotation).Mul(InverseEulerMatrix(current.Rotation))

	for _, p := range parts {
		local := p.Position.Sub(current.Center)
		p.Position = RotateVec(delta, local).Add(target.Center)
		p.Rotation = MatrixToEuler(delta.Mul(EulerToMatrix(p.Rotation)))
	}
}
