package inkwell

import "math"

// Mat4 is a 4x4 matrix stored in column-major order.
//
//	| m[0] m[4] m[8]  m[12] |
//	| m[1] m[5] m[9]  m[13] |
//	| m[2] m[6] m[10] m[14] |
//	| m[3] m[7] m[11] m[15] |
type Mat4 [16]float64

// identityMat4 is the identity matrix.
var identityMat4 = Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			r[col*4+row] = m[row]*o[col*4] +
				m[4+row]*o[col*4+1] +
				m[8+row]*o[col*4+2] +
				m[12+row]*o[col*4+3]
		}
	}
	return r
}

// TransformPoint applies m to a point (w = 1).
func (m Mat4) TransformPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12],
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13],
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14],
	}
}

// TransformDir applies the linear part of m to a direction (w = 0).
func (m Mat4) TransformDir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// Translation returns the translation column of m.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// Invert returns the inverse of m, or the identity if m is singular.
func (m Mat4) Invert() Mat4 {
	var inv Mat4
	inv[0] = m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] + m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	inv[4] = -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] - m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	inv[8] = m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] + m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	inv[12] = -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] - m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	inv[1] = -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] - m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	inv[5] = m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] + m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	inv[9] = -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] - m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	inv[13] = m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] + m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	inv[2] = m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] + m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	inv[6] = -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] - m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	inv[10] = m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] + m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	inv[14] = -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] - m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	inv[3] = -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] - m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]
	inv[7] = m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] + m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]
	inv[11] = -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] - m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]
	inv[15] = m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] + m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]

	det := m[0]*inv[0] + m[1]*inv[4] + m[2]*inv[8] + m[3]*inv[12]
	if det > -1e-12 && det < 1e-12 {
		return identityMat4
	}
	invDet := 1.0 / det
	for i := range inv {
		inv[i] *= invDet
	}
	return inv
}

// composeMat4 builds Translate(pos) * Rotate(q) * Scale(s).
func composeMat4(pos Vec3, q Quat, s Vec3) Mat4 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	return Mat4{
		(1 - 2*(yy+zz)) * s.X, 2 * (xy + wz) * s.X, 2 * (xz - wy) * s.X, 0,
		2 * (xy - wz) * s.Y, (1 - 2*(xx+zz)) * s.Y, 2 * (yz + wx) * s.Y, 0,
		2 * (xz + wy) * s.Z, 2 * (yz - wx) * s.Z, (1 - 2*(xx+yy)) * s.Z, 0,
		pos.X, pos.Y, pos.Z, 1,
	}
}

// --- Vec3 ---

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v x o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Len returns the length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length. A zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// --- Quat ---

// Quat is a rotation quaternion.
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity is the no-rotation quaternion.
var QuatIdentity = Quat{0, 0, 0, 1}

// QuatFromAxisAngle returns the rotation of angle radians around axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	axis = axis.Normalize()
	s, c := math.Sincos(angle / 2)
	return Quat{axis.X * s, axis.Y * s, axis.Z * s, c}
}

// QuatFromHPR returns heading (around +Y), pitch (around +X) and roll
// (around +Z) applied in that order, all in radians.
func QuatFromHPR(h, p, r float64) Quat {
	qh := QuatFromAxisAngle(Vec3{0, 1, 0}, h)
	qp := QuatFromAxisAngle(Vec3{1, 0, 0}, p)
	qr := QuatFromAxisAngle(Vec3{0, 0, 1}, r)
	return qh.Mul(qp).Mul(qr)
}

// quatFromBasis converts an orthonormal rotation basis (columns x, y, z) to
// a quaternion.
func quatFromBasis(x, y, z Vec3) Quat {
	m11, m12, m13 := x.X, y.X, z.X
	m21, m22, m23 := x.Y, y.Y, z.Y
	m31, m32, m33 := x.Z, y.Z, z.Z
	trace := m11 + m22 + m33
	var q Quat
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = Quat{(m32 - m23) * s, (m13 - m31) * s, (m21 - m12) * s, 0.25 / s}
	case m11 > m22 && m11 > m33:
		s := 2 * math.Sqrt(1+m11-m22-m33)
		q = Quat{0.25 * s, (m12 + m21) / s, (m13 + m31) / s, (m32 - m23) / s}
	case m22 > m33:
		s := 2 * math.Sqrt(1+m22-m11-m33)
		q = Quat{(m12 + m21) / s, 0.25 * s, (m23 + m32) / s, (m13 - m31) / s}
	default:
		s := 2 * math.Sqrt(1+m33-m11-m22)
		q = Quat{(m13 + m31) / s, (m23 + m32) / s, 0.25 * s, (m21 - m12) / s}
	}
	return q.Normalize()
}

// Mul returns q * o, the rotation o followed by q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat { return Quat{-q.X, -q.Y, -q.Z, q.W} }

// Normalize returns q scaled to unit length. The zero quaternion becomes the identity.
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return QuatIdentity
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// AlmostEqual reports whether q and o describe the same rotation within eps.
// q and -q are the same rotation.
func (q Quat) AlmostEqual(o Quat, eps float64) bool {
	d := math.Abs(q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W)
	return 1-d <= eps
}

// --- Node transform ---

// localMatrix returns the node's cached local matrix.
func (n *Node) localMatrix() Mat4 {
	if n.transformDirty {
		n.local = composeMat4(n.Pos, n.Quat, n.Scale)
		n.transformDirty = false
	}
	return n.local
}

// netMatrix returns the node's transform relative to its top node,
// including the top node's own transform.
func (n *Node) netMatrix() Mat4 {
	if n.Parent == nil {
		return n.localMatrix()
	}
	return n.Parent.netMatrix().Mul(n.localMatrix())
}

// netQuat returns the node's accumulated rotation. Scale is assumed uniform.
func (n *Node) netQuat() Quat {
	if n.Parent == nil {
		return n.Quat
	}
	return n.Parent.netQuat().Mul(n.Quat)
}

// netScale returns the product of the node's and its ancestors' scales.
// Exact only when rotations do not mix non-uniform scales.
func (n *Node) netScale() Vec3 {
	s := n.Scale
	for p := n.Parent; p != nil; p = p.Parent {
		s = Vec3{s.X * p.Scale.X, s.Y * p.Scale.Y, s.Z * p.Scale.Z}
	}
	return s
}

// SetPos sets the node's local position and marks it dirty.
func (n *Node) SetPos(x, y, z float64) {
	n.Pos = Vec3{x, y, z}
	n.transformDirty = true
}

// SetQuat sets the node's local rotation and marks it dirty.
func (n *Node) SetQuat(q Quat) {
	n.Quat = q.Normalize()
	n.transformDirty = true
}

// SetHPR sets the node's local rotation from heading, pitch and roll in radians.
func (n *Node) SetHPR(h, p, r float64) {
	n.SetQuat(QuatFromHPR(h, p, r))
}

// SetScale sets the node's local scale and marks it dirty.
func (n *Node) SetScale(x, y, z float64) {
	n.Scale = Vec3{x, y, z}
	n.transformDirty = true
}

// MarkDirty marks the node's transform as dirty. Useful after bulk-setting
// Pos, Quat or Scale directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// LookAt rotates the node so its -Z axis points at target (in the parent's
// space) with +Y as close to up as possible.
func (n *Node) LookAt(target, up Vec3) {
	fwd := target.Sub(n.Pos).Normalize()
	if fwd.Len() == 0 {
		return
	}
	z := fwd.Scale(-1)
	x := up.Cross(z).Normalize()
	if x.Len() == 0 {
		x = Vec3{1, 0, 0}
	}
	y := z.Cross(x)
	n.SetQuat(quatFromBasis(x, y, z))
}

// Top returns the root of the hierarchy this node belongs to.
func (n *Node) Top() *Node {
	p := n
	for p.Parent != nil {
		p = p.Parent
	}
	return p
}

// relativeMatrix returns n's transform expressed in other's coordinate space.
// A nil other means n's top.
func (n *Node) relativeMatrix(other *Node) Mat4 {
	if other == nil {
		return n.netMatrix()
	}
	return other.netMatrix().Invert().Mul(n.netMatrix())
}

// PosRelativeTo returns the node's position in other's coordinate space.
func (n *Node) PosRelativeTo(other *Node) Vec3 {
	return n.relativeMatrix(other).Translation()
}

// QuatRelativeTo returns the node's rotation in other's coordinate space.
func (n *Node) QuatRelativeTo(other *Node) Quat {
	if other == nil {
		return n.netQuat()
	}
	return other.netQuat().Conjugate().Mul(n.netQuat()).Normalize()
}

// SetPosRelativeTo moves the node so that its position in other's
// coordinate space is p.
func (n *Node) SetPosRelativeTo(other *Node, p Vec3) {
	world := p
	if other != nil {
		world = other.netMatrix().TransformPoint(p)
	}
	if n.Parent != nil {
		world = n.Parent.netMatrix().Invert().TransformPoint(world)
	}
	n.Pos = world
	n.transformDirty = true
}

// SetQuatRelativeTo rotates the node so that its rotation in other's
// coordinate space is q.
func (n *Node) SetQuatRelativeTo(other *Node, q Quat) {
	desired := q
	if other != nil {
		desired = other.netQuat().Mul(q)
	}
	if n.Parent != nil {
		desired = n.Parent.netQuat().Conjugate().Mul(desired)
	}
	n.SetQuat(desired)
}

// ScaleRelativeTo returns the node's scale in other's coordinate space.
// Scales are assumed uniform, as for QuatRelativeTo.
func (n *Node) ScaleRelativeTo(other *Node) Vec3 {
	s := n.netScale()
	if other != nil {
		s = divScale(s, other.netScale())
	}
	return s
}

// SetScaleRelativeTo scales the node so that its scale in other's
// coordinate space is s.
func (n *Node) SetScaleRelativeTo(other *Node, s Vec3) {
	if other != nil {
		o := other.netScale()
		s = Vec3{s.X * o.X, s.Y * o.Y, s.Z * o.Z}
	}
	if n.Parent != nil {
		s = divScale(s, n.Parent.netScale())
	}
	n.Scale = s
	n.transformDirty = true
}

// divScale divides a by b component-wise, leaving components of b that are
// zero alone.
func divScale(a, b Vec3) Vec3 {
	if b.X != 0 {
		a.X /= b.X
	}
	if b.Y != 0 {
		a.Y /= b.Y
	}
	if b.Z != 0 {
		a.Z /= b.Z
	}
	return a
}

// WorldPos returns the node's position relative to its top node.
func (n *Node) WorldPos() Vec3 {
	return n.netMatrix().Translation()
}
