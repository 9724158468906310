package inkwell

import (
	"math"
	"testing"
)

// --- Mat4 ---

func TestMat4InvertRoundTrip(t *testing.T) {
	m := composeMat4(Vec3{3, -2, 5}, QuatFromHPR(0.3, -0.7, 1.1), Vec3{2, 2, 2})
	got := m.Mul(m.Invert())
	if !matApprox(got, identityMat4, 1e-9) {
		t.Errorf("m * m^-1 = %v, want identity", got)
	}
}

func TestMat4InvertSingular(t *testing.T) {
	var zero Mat4
	if zero.Invert() != identityMat4 {
		t.Error("singular matrix should invert to identity")
	}
}

func TestMat4TransformPointAndDir(t *testing.T) {
	m := composeMat4(Vec3{10, 0, 0}, QuatFromAxisAngle(Vec3{0, 1, 0}, math.Pi/2), Vec3{1, 1, 1})
	// +X rotated 90 degrees about Y is -Z.
	if got := m.TransformDir(Vec3{1, 0, 0}); !vecApprox(got, Vec3{0, 0, -1}, 1e-9) {
		t.Errorf("TransformDir = %v, want (0,0,-1)", got)
	}
	if got := m.TransformPoint(Vec3{1, 0, 0}); !vecApprox(got, Vec3{10, 0, -1}, 1e-9) {
		t.Errorf("TransformPoint = %v, want (10,0,-1)", got)
	}
	if got := m.Translation(); got != (Vec3{10, 0, 0}) {
		t.Errorf("Translation = %v", got)
	}
}

// --- Vec3 ---

func TestVec3Ops(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}
	if a.Add(b) != (Vec3{5, 7, 9}) {
		t.Error("Add")
	}
	if b.Sub(a) != (Vec3{3, 3, 3}) {
		t.Error("Sub")
	}
	if a.Dot(b) != 32 {
		t.Error("Dot")
	}
	if (Vec3{1, 0, 0}).Cross(Vec3{0, 1, 0}) != (Vec3{0, 0, 1}) {
		t.Error("Cross")
	}
	if !approxEqual((Vec3{3, 4, 0}).Len(), 5, epsilon) {
		t.Error("Len")
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("Normalize of zero should stay zero")
	}
}

// --- Quat ---

func TestQuatRotate(t *testing.T) {
	tests := []struct {
		name string
		q    Quat
		in   Vec3
		want Vec3
	}{
		{"identity", QuatIdentity, Vec3{1, 2, 3}, Vec3{1, 2, 3}},
		{"heading 90", QuatFromHPR(math.Pi/2, 0, 0), Vec3{0, 0, -1}, Vec3{-1, 0, 0}},
		{"pitch 90", QuatFromHPR(0, math.Pi/2, 0), Vec3{0, 0, -1}, Vec3{0, 1, 0}},
		{"roll 90", QuatFromHPR(0, 0, math.Pi/2), Vec3{1, 0, 0}, Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Rotate(tt.in); !vecApprox(got, tt.want, 1e-9) {
				t.Errorf("Rotate(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestQuatConjugateUndoes(t *testing.T) {
	q := QuatFromHPR(0.4, 1.2, -0.3)
	v := Vec3{1, -2, 0.5}
	if got := q.Conjugate().Rotate(q.Rotate(v)); !vecApprox(got, v, 1e-9) {
		t.Errorf("conj(q) q v = %v, want %v", got, v)
	}
}

func TestQuatAlmostEqualSign(t *testing.T) {
	q := QuatFromHPR(0.5, 0.1, 0)
	neg := Quat{-q.X, -q.Y, -q.Z, -q.W}
	if !q.AlmostEqual(neg, 1e-12) {
		t.Error("q and -q should be the same rotation")
	}
	if q.AlmostEqual(QuatIdentity, 1e-6) {
		t.Error("q should differ from identity")
	}
}

func TestQuatFromBasisMatchesComposed(t *testing.T) {
	q := QuatFromHPR(0.8, -0.4, 0.2)
	x := q.Rotate(Vec3{1, 0, 0})
	y := q.Rotate(Vec3{0, 1, 0})
	z := q.Rotate(Vec3{0, 0, 1})
	if got := quatFromBasis(x, y, z); !got.AlmostEqual(q, 1e-9) {
		t.Errorf("quatFromBasis = %v, want %v", got, q)
	}
}

// --- Node transforms ---

func TestNetMatrixComposesParents(t *testing.T) {
	root := NewNode("root")
	a := root.AttachNewNode("a")
	a.SetPos(10, 0, 0)
	a.SetHPR(math.Pi/2, 0, 0)
	b := a.AttachNewNode("b")
	b.SetPos(0, 0, -1)

	// b sits one unit along a's forward (-Z), which a's heading turns to -X.
	if got := b.WorldPos(); !vecApprox(got, Vec3{9, 0, 0}, 1e-9) {
		t.Errorf("WorldPos = %v, want (9,0,0)", got)
	}
}

func TestPosRelativeTo(t *testing.T) {
	root := NewNode("root")
	a := root.AttachNewNode("a")
	a.SetPos(1, 2, 3)
	b := root.AttachNewNode("b")
	b.SetPos(4, 6, 8)

	if got := b.PosRelativeTo(a); !vecApprox(got, Vec3{3, 4, 5}, 1e-9) {
		t.Errorf("PosRelativeTo = %v, want (3,4,5)", got)
	}
	if got := b.PosRelativeTo(nil); !vecApprox(got, Vec3{4, 6, 8}, 1e-9) {
		t.Errorf("PosRelativeTo(nil) = %v, want (4,6,8)", got)
	}
}

func TestSetRelativeRoundTrip(t *testing.T) {
	root := NewNode("root")
	p := root.AttachNewNode("p")
	p.SetPos(5, -1, 2)
	p.SetHPR(0.3, 0.2, 0.1)
	p.SetScale(2, 2, 2)
	n := p.AttachNewNode("n")
	other := root.AttachNewNode("other")
	other.SetPos(-3, 0, 1)
	other.SetHPR(-1, 0, 0)

	wantPos := Vec3{1, 2, 3}
	wantQuat := QuatFromHPR(1.2, -0.3, 0.4)
	n.SetQuatRelativeTo(other, wantQuat)
	n.SetPosRelativeTo(other, wantPos)

	if got := n.PosRelativeTo(other); !vecApprox(got, wantPos, 1e-9) {
		t.Errorf("PosRelativeTo = %v, want %v", got, wantPos)
	}
	if got := n.QuatRelativeTo(other); !got.AlmostEqual(wantQuat, 1e-9) {
		t.Errorf("QuatRelativeTo = %v, want %v", got, wantQuat)
	}
}

func TestTop(t *testing.T) {
	root := NewNode("root")
	c := root.AttachNewNode("a").AttachNewNode("b")
	if c.Top() != root {
		t.Error("Top should return the root")
	}
	if root.Top() != root {
		t.Error("Top of a root is itself")
	}
}

func TestLookAtFacesTarget(t *testing.T) {
	n := NewNode("cam")
	n.SetPos(0, 5, 10)
	target := Vec3{0, 0, 0}
	n.LookAt(target, Vec3{0, 1, 0})
	fwd := n.Quat.Rotate(Vec3{0, 0, -1})
	want := target.Sub(n.Pos).Normalize()
	if !vecApprox(fwd, want, 1e-9) {
		t.Errorf("forward = %v, want %v", fwd, want)
	}
}

func TestLocalMatrixCache(t *testing.T) {
	n := NewNode("n")
	m1 := n.localMatrix()
	if n.transformDirty {
		t.Error("localMatrix should clear the dirty flag")
	}
	n.Pos.X = 4
	if n.localMatrix() != m1 {
		t.Error("cached matrix should be reused until MarkDirty")
	}
	n.MarkDirty()
	if n.localMatrix().Translation().X != 4 {
		t.Error("MarkDirty should rebuild the matrix")
	}
}
