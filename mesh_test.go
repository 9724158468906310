package inkwell

import "testing"

func TestNewMeshPanics(t *testing.T) {
	verts := make([]MeshVertex, 3)
	tests := []struct {
		name    string
		indices []uint16
	}{
		{"count", []uint16{0, 1}},
		{"range", []uint16{0, 1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			NewMesh(verts, tt.indices)
		})
	}
}

func TestPrimitiveCounts(t *testing.T) {
	tests := []struct {
		name      string
		mesh      *Mesh
		verts     int
		triangles int
	}{
		{"box", NewBoxMesh(1, 2, 3), 24, 12},
		{"plane", NewPlaneMesh(4, 4), 4, 2},
		{"card", NewCardMesh(-1, 1, -1, 1), 4, 2},
		{"sphere", NewSphereMesh(1, 8, 12), 9 * 13, 8 * 12 * 2},
		{"sphere clamped", NewSphereMesh(1, 0, 0), 3 * 4, 2 * 3 * 2},
		{"cylinder", NewCylinderMesh(1, 2, 8), 2*9 + 2*10, 8*2 + 8*2},
	}
	for _, tt := range tests {
		if got := len(tt.mesh.Vertices); got != tt.verts {
			t.Errorf("%s: vertices = %d, want %d", tt.name, got, tt.verts)
		}
		if got := tt.mesh.NumTriangles(); got != tt.triangles {
			t.Errorf("%s: triangles = %d, want %d", tt.name, got, tt.triangles)
		}
	}
}

// Closed primitives centered on the origin must wind counter-clockwise seen
// from outside, so every face normal points away from the center.
func TestPrimitivesWindOutward(t *testing.T) {
	tests := []struct {
		name string
		mesh *Mesh
	}{
		{"box", NewBoxMesh(1, 2, 3)},
		{"sphere", NewSphereMesh(1, 6, 8)},
		{"cylinder", NewCylinderMesh(1, 2, 8)},
	}
	for _, tt := range tests {
		m := tt.mesh
		for i := 0; i < len(m.Indices); i += 3 {
			a := m.Vertices[m.Indices[i]].Pos
			b := m.Vertices[m.Indices[i+1]].Pos
			c := m.Vertices[m.Indices[i+2]].Pos
			n := b.Sub(a).Cross(c.Sub(a))
			centroid := a.Add(b).Add(c).Scale(1.0 / 3)
			if n.Dot(centroid) < -1e-9 {
				t.Errorf("%s: triangle %d winds inward", tt.name, i/3)
			}
		}
	}
}

func TestCardFacesPlusZ(t *testing.T) {
	m := NewCardMesh(0, 2, 0, 1)
	lo, hi := m.Bounds()
	if lo != (Vec3{0, 0, 0}) || hi != (Vec3{2, 1, 0}) {
		t.Errorf("Bounds = %v..%v", lo, hi)
	}
	for _, v := range m.Vertices {
		if v.Normal != (Vec3{0, 0, 1}) {
			t.Fatalf("normal = %v, want +Z", v.Normal)
		}
		// Top-left of the texture sits at (left, top).
		if v.Pos.X == 0 && v.Pos.Y == 1 && (v.U != 0 || v.V != 0) {
			t.Errorf("top-left UV = (%v, %v), want (0, 0)", v.U, v.V)
		}
	}
}

func TestMeshSetColor(t *testing.T) {
	m := NewBoxMesh(1, 1, 1)
	m.SetColor(Color{1, 0, 0, 1})
	for _, v := range m.Vertices {
		if v.Color != (Color{1, 0, 0, 1}) {
			t.Fatalf("color = %v", v.Color)
		}
	}
}

func TestEmptyMeshBounds(t *testing.T) {
	lo, hi := (&Mesh{}).Bounds()
	if lo != (Vec3{}) || hi != (Vec3{}) {
		t.Error("empty mesh should have zero bounds")
	}
}
