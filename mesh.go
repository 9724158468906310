package inkwell

import "math"

// MeshVertex is one vertex of a Mesh. U and V address the node texture with
// (0, 0) at its top-left corner.
type MeshVertex struct {
	Pos    Vec3
	Normal Vec3
	U, V   float64
	Color  Color
}

// Mesh is indexed triangle geometry. Front faces wind counter-clockwise.
type Mesh struct {
	Vertices []MeshVertex
	Indices  []uint16
}

// NewMesh wraps vertices and indices. Panics if the index count is not a
// multiple of three or an index is out of range.
func NewMesh(vertices []MeshVertex, indices []uint16) *Mesh {
	if len(indices)%3 != 0 {
		panic("inkwell: mesh index count must be a multiple of 3")
	}
	for _, i := range indices {
		if int(i) >= len(vertices) {
			panic("inkwell: mesh index out of range")
		}
	}
	return &Mesh{Vertices: vertices, Indices: indices}
}

// NumTriangles returns the triangle count.
func (m *Mesh) NumTriangles() int {
	return len(m.Indices) / 3
}

// SetColor sets every vertex color.
func (m *Mesh) SetColor(c Color) {
	for i := range m.Vertices {
		m.Vertices[i].Color = c
	}
}

// Bounds returns the axis-aligned bounds of the vertex positions.
func (m *Mesh) Bounds() (lo, hi Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	lo, hi = m.Vertices[0].Pos, m.Vertices[0].Pos
	for _, v := range m.Vertices[1:] {
		lo = Vec3{math.Min(lo.X, v.Pos.X), math.Min(lo.Y, v.Pos.Y), math.Min(lo.Z, v.Pos.Z)}
		hi = Vec3{math.Max(hi.X, v.Pos.X), math.Max(hi.Y, v.Pos.Y), math.Max(hi.Z, v.Pos.Z)}
	}
	return
}

// --- Primitives ---

// appendQuad appends a quad centered at c spanning ±u and ±v. The quad faces
// u × v.
func appendQuad(m *Mesh, c, u, v Vec3) {
	n := u.Cross(v).Normalize()
	base := uint16(len(m.Vertices))
	m.Vertices = append(m.Vertices,
		MeshVertex{Pos: c.Sub(u).Sub(v), Normal: n, U: 0, V: 1, Color: ColorWhite},
		MeshVertex{Pos: c.Add(u).Sub(v), Normal: n, U: 1, V: 1, Color: ColorWhite},
		MeshVertex{Pos: c.Add(u).Add(v), Normal: n, U: 1, V: 0, Color: ColorWhite},
		MeshVertex{Pos: c.Sub(u).Add(v), Normal: n, U: 0, V: 0, Color: ColorWhite},
	)
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
}

// NewBoxMesh returns a w x h x d box centered on the origin with flat
// per-face normals.
func NewBoxMesh(w, h, d float64) *Mesh {
	hx, hy, hz := w/2, h/2, d/2
	m := &Mesh{
		Vertices: make([]MeshVertex, 0, 24),
		Indices:  make([]uint16, 0, 36),
	}
	appendQuad(m, Vec3{hx, 0, 0}, Vec3{0, 0, -hz}, Vec3{0, hy, 0})
	appendQuad(m, Vec3{-hx, 0, 0}, Vec3{0, 0, hz}, Vec3{0, hy, 0})
	appendQuad(m, Vec3{0, hy, 0}, Vec3{hx, 0, 0}, Vec3{0, 0, -hz})
	appendQuad(m, Vec3{0, -hy, 0}, Vec3{hx, 0, 0}, Vec3{0, 0, hz})
	appendQuad(m, Vec3{0, 0, hz}, Vec3{hx, 0, 0}, Vec3{0, hy, 0})
	appendQuad(m, Vec3{0, 0, -hz}, Vec3{-hx, 0, 0}, Vec3{0, hy, 0})
	return m
}

// NewPlaneMesh returns a w x d plane in XZ facing +Y.
func NewPlaneMesh(w, d float64) *Mesh {
	m := &Mesh{}
	appendQuad(m, Vec3{}, Vec3{w / 2, 0, 0}, Vec3{0, 0, -d / 2})
	return m
}

// NewCardMesh returns a quad in XY facing +Z spanning left..right and
// bottom..top, with the texture's top-left at (left, top).
func NewCardMesh(left, right, bottom, top float64) *Mesh {
	m := &Mesh{}
	c := Vec3{(left + right) / 2, (bottom + top) / 2, 0}
	appendQuad(m, c, Vec3{(right - left) / 2, 0, 0}, Vec3{0, (top - bottom) / 2, 0})
	return m
}

// NewSphereMesh returns a UV sphere. rings is clamped to at least 2 and
// segments to at least 3.
func NewSphereMesh(radius float64, rings, segments int) *Mesh {
	rings = max(rings, 2)
	segments = max(segments, 3)
	m := &Mesh{
		Vertices: make([]MeshVertex, 0, (rings+1)*(segments+1)),
		Indices:  make([]uint16, 0, rings*segments*6),
	}
	for i := 0; i <= rings; i++ {
		theta := math.Pi * float64(i) / float64(rings)
		st, ct := math.Sincos(theta)
		for j := 0; j <= segments; j++ {
			phi := 2 * math.Pi * float64(j) / float64(segments)
			sp, cp := math.Sincos(phi)
			n := Vec3{st * cp, ct, st * sp}
			m.Vertices = append(m.Vertices, MeshVertex{
				Pos:    n.Scale(radius),
				Normal: n,
				U:      float64(j) / float64(segments),
				V:      float64(i) / float64(rings),
				Color:  ColorWhite,
			})
		}
	}
	stride := uint16(segments + 1)
	for i := 0; i < rings; i++ {
		for j := 0; j < segments; j++ {
			a := uint16(i)*stride + uint16(j)
			b := a + stride
			m.Indices = append(m.Indices, a, b+1, b, a, a+1, b+1)
		}
	}
	return m
}

// NewCylinderMesh returns a capped cylinder along Y centered on the origin.
// segments is clamped to at least 3.
func NewCylinderMesh(radius, height float64, segments int) *Mesh {
	segments = max(segments, 3)
	hy := height / 2
	m := &Mesh{}
	for j := 0; j <= segments; j++ {
		phi := 2 * math.Pi * float64(j) / float64(segments)
		sp, cp := math.Sincos(phi)
		n := Vec3{cp, 0, -sp}
		u := float64(j) / float64(segments)
		m.Vertices = append(m.Vertices,
			MeshVertex{Pos: Vec3{radius * cp, -hy, -radius * sp}, Normal: n, U: u, V: 1, Color: ColorWhite},
			MeshVertex{Pos: Vec3{radius * cp, hy, -radius * sp}, Normal: n, U: u, V: 0, Color: ColorWhite},
		)
	}
	for j := 0; j < segments; j++ {
		a := uint16(j * 2)
		m.Indices = append(m.Indices, a, a+2, a+3, a, a+3, a+1)
	}
	for _, lid := range []struct {
		y float64
		n Vec3
	}{{hy, Vec3{0, 1, 0}}, {-hy, Vec3{0, -1, 0}}} {
		center := uint16(len(m.Vertices))
		m.Vertices = append(m.Vertices, MeshVertex{Pos: Vec3{0, lid.y, 0}, Normal: lid.n, U: 0.5, V: 0.5, Color: ColorWhite})
		for j := 0; j <= segments; j++ {
			phi := 2 * math.Pi * float64(j) / float64(segments)
			sp, cp := math.Sincos(phi)
			m.Vertices = append(m.Vertices, MeshVertex{
				Pos:    Vec3{radius * cp, lid.y, -radius * sp},
				Normal: lid.n,
				U:      0.5 + cp/2,
				V:      0.5 + sp/2,
				Color:  ColorWhite,
			})
		}
		for j := 0; j < segments; j++ {
			r := center + 1 + uint16(j)
			if lid.n.Y > 0 {
				m.Indices = append(m.Indices, center, r, r+1)
			} else {
				m.Indices = append(m.Indices, center, r+1, r)
			}
		}
	}
	return m
}
