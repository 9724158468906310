package inkwell

import (
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"
)

// maxRenderDepth bounds traversal so a hierarchy made cyclic through
// instance links cannot recurse forever.
const maxRenderDepth = 256

// maxBatchVertices keeps a batch addressable with uint16 indices.
const maxBatchVertices = 65535 - 3

// drawState is the draw setup shared by every triangle of one node. States
// with equal contents are interned per pass so triangles from different
// nodes batch together.
type drawState struct {
	shader   *Shader
	texture  *ebiten.Image
	blend    ebiten.Blend
	uniforms map[string]any
}

func (a *drawState) equal(b *drawState) bool {
	if a.shader != b.shader || a.texture != b.texture || a.blend != b.blend {
		return false
	}
	if len(a.uniforms) != len(b.uniforms) {
		return false
	}
	for k, av := range a.uniforms {
		bv, ok := b.uniforms[k]
		if !ok {
			return false
		}
		af, aok := av.([]float32)
		bf, bok := bv.([]float32)
		if !aok || !bok || len(af) != len(bf) {
			return false
		}
		for i := range af {
			if af[i] != bf[i] {
				return false
			}
		}
	}
	return true
}

// renderBin groups triangles. Depth-tested triangles draw first, back to
// front; the rest follow in tree order.
type renderBin uint8

const (
	binDepthSorted renderBin = iota
	binUnsorted
)

// triangle is one projected triangle awaiting submission.
type triangle struct {
	verts [3]ebiten.Vertex
	depth float32
	bin   renderBin
	order int
	state *drawState
}

// renderer turns display regions into draw calls. It keeps its buffers
// between frames so steady-state rendering does not allocate triangles.
type renderer struct {
	tris        []triangle
	sortBuf     []triangle
	groupTris   []triangle
	overlayTris []triangle
	group       depthGroup
	states      []*drawState
	vbuf        []ebiten.Vertex
	ibuf        []uint16

	order int
	pass  passContext

	// drawBatch receives each sorted pass; submit unless replaced in tests.
	drawBatch func(dst *ebiten.Image, tris []triangle)

	debug    bool
	stats    debugStats
	errOut   io.Writer
	reported map[*Shader]bool
}

// passContext is the per-region projection setup.
type passContext struct {
	camera   *Camera
	view     Mat4
	viewProj Mat4
	originX  float32
	originY  float32
	width    float32
	height   float32
}

func newRenderer() *renderer {
	r := &renderer{
		tris:     make([]triangle, 0, defaultTriangleCap),
		sortBuf:  make([]triangle, 0, defaultTriangleCap),
		errOut:   os.Stderr,
		reported: make(map[*Shader]bool),
	}
	r.drawBatch = r.submit
	return r
}

const defaultTriangleCap = 4096

// regionRect returns the pixel rectangle reg covers on a surface with
// bounds b, and whether the region renders at all.
func regionRect(reg *DisplayRegion, b image.Rectangle) (image.Rectangle, bool) {
	cam := reg.camera
	if !reg.Active || cam == nil || cam.node.disposed {
		return image.Rectangle{}, false
	}
	d := reg.dimensions
	rect := image.Rect(
		b.Min.X+int(d.X*float64(b.Dx())),
		b.Min.Y+int(d.Y*float64(b.Dy())),
		b.Min.X+int((d.X+d.Width)*float64(b.Dx())),
		b.Min.Y+int((d.Y+d.Height)*float64(b.Dy())),
	)
	return rect, !rect.Empty()
}

// depthGroup is a run of regions of one surface that share a depth buffer:
// their cameras see the scene from the same viewpoint through the same
// rectangle, so their triangles sort together.
type depthGroup struct {
	open     bool
	pass     passContext
	rect     image.Rectangle
	dst      *ebiten.Image
	nearest  float32
	unsorted bool
	base     int
}

// renderRegions draws regs onto target in order. Consecutive regions whose
// cameras share a viewpoint are merged into one back-to-front sort, so a
// later region's far triangles never cover an earlier region's near ones.
// Overlay regions (no depth-tested triangles) caught between two such
// regions draw at the depth of the nearest triangle before them; overlays
// after the last one simply draw on top.
func (r *renderer) renderRegions(regs []*DisplayRegion, target *ebiten.Image) {
	g := &r.group
	r.groupTris = r.groupTris[:0]
	r.overlayTris = r.overlayTris[:0]
	*g = depthGroup{}
	for _, reg := range regs {
		rect, ok := regionRect(reg, target.Bounds())
		if !ok {
			continue
		}
		dst := target.SubImage(rect).(*ebiten.Image)
		if reg.clearSet {
			r.flushGroup()
			dst.Fill(reg.clearColor.toRGBA())
		}

		var t0 time.Time
		if r.debug {
			t0 = time.Now()
		}
		r.collectPass(reg.camera, rect)
		if r.debug {
			r.stats.traverseTime += time.Since(t0)
			r.stats.triangleCount += len(r.tris)
			r.stats.regionCount++
		}
		pass := r.pass
		r.pass = passContext{}

		sorted, unsorted := binCounts(r.tris)
		switch {
		case g.open && rect == g.rect && sorted > 0 && samePass(&g.pass, &pass):
			for i := range r.overlayTris {
				r.overlayTris[i].bin = binDepthSorted
				r.overlayTris[i].depth = g.nearest
			}
			r.groupTris = append(r.groupTris, r.overlayTris...)
			r.overlayTris = r.overlayTris[:0]
			g.nearest = min(g.nearest, nearestDepth(r.tris))
			g.unsorted = g.unsorted || unsorted > 0
			r.appendGroup(&r.groupTris)
		case g.open && rect == g.rect && sorted == 0 && !g.unsorted:
			r.appendGroup(&r.overlayTris)
		default:
			r.flushGroup()
			if sorted == 0 {
				r.drawPass(dst, r.tris)
				continue
			}
			*g = depthGroup{
				open:     true,
				pass:     pass,
				rect:     rect,
				dst:      dst,
				nearest:  nearestDepth(r.tris),
				unsorted: unsorted > 0,
			}
			r.appendGroup(&r.groupTris)
		}
	}
	r.flushGroup()
}

// appendGroup moves the current pass's triangles onto list, numbering them
// after everything already in the group.
func (r *renderer) appendGroup(list *[]triangle) {
	for i := range r.tris {
		r.tris[i].order += r.group.base
	}
	r.group.base += len(r.tris)
	*list = append(*list, r.tris...)
}

// flushGroup draws the pending depth group, then any overlays that followed
// it.
func (r *renderer) flushGroup() {
	if r.group.open {
		r.drawPass(r.group.dst, r.groupTris)
		if len(r.overlayTris) > 0 {
			r.drawPass(r.group.dst, r.overlayTris)
		}
	}
	r.groupTris = r.groupTris[:0]
	r.overlayTris = r.overlayTris[:0]
	r.group = depthGroup{}
}

// drawPass sorts tris and hands them to the batch drawer.
func (r *renderer) drawPass(dst *ebiten.Image, tris []triangle) {
	var t0 time.Time
	if r.debug {
		t0 = time.Now()
	}
	r.sortBuf = sortTriangles(tris, r.sortBuf)
	if r.debug {
		r.stats.sortTime += time.Since(t0)
		t0 = time.Now()
	}
	r.drawBatch(dst, tris)
	if r.debug {
		r.stats.submitTime += time.Since(t0)
	}
}

// binCounts counts depth-sorted and unsorted triangles.
func binCounts(tris []triangle) (sorted, unsorted int) {
	for i := range tris {
		if tris[i].bin == binDepthSorted {
			sorted++
		} else {
			unsorted++
		}
	}
	return sorted, unsorted
}

// nearestDepth returns the smallest depth among depth-sorted triangles.
func nearestDepth(tris []triangle) float32 {
	n := float32(math.MaxFloat32)
	for i := range tris {
		if tris[i].bin == binDepthSorted && tris[i].depth < n {
			n = tris[i].depth
		}
	}
	return n
}

// samePass reports whether two passes project the scene identically.
func samePass(a, b *passContext) bool {
	if a.originX != b.originX || a.originY != b.originY || a.width != b.width || a.height != b.height {
		return false
	}
	for i := range a.viewProj {
		if math.Abs(a.viewProj[i]-b.viewProj[i]) > 1e-6*(1+math.Abs(a.viewProj[i])) {
			return false
		}
	}
	return true
}

// collectPass sets up the projection for rect and collects the triangles
// cam sees, unsorted.
func (r *renderer) collectPass(cam *Camera, rect image.Rectangle) {
	vw, vh := float64(rect.Dx()), float64(rect.Dy())
	view := cam.viewMatrix()
	r.pass = passContext{
		camera:   cam,
		view:     view,
		viewProj: cam.lens.projection(vw / vh).Mul(view),
		originX:  float32(rect.Min.X),
		originY:  float32(rect.Min.Y),
		width:    float32(vw),
		height:   float32(vh),
	}
	r.tris = r.tris[:0]
	r.states = r.states[:0]
	r.order = 0

	base := defaultResolvedState.compose(cam.initialState)
	r.collect(cam.Scene(), identityMat4, base, false, 0)
}

// collect walks the scene depth-first, composing render state and emitting
// triangles for visible meshes. viaInstance is set for the target of an
// instance link, which renders even when stashed.
func (r *renderer) collect(n *Node, parentWorld Mat4, parent resolvedState, viaInstance bool, depth int) {
	if !n.Visible || n.disposed || (n.stashed && !viaInstance) || n.Type == NodeTypeCamera {
		return
	}
	if depth > maxRenderDepth {
		return
	}
	world := parentWorld.Mul(n.localMatrix())
	st := parent.compose(&n.state)
	if ts := r.pass.camera.tagStateFor(n); ts != nil {
		st = st.compose(ts)
	}

	if n.Type == NodeTypeMesh && n.Mesh != nil && len(n.Mesh.Indices) > 0 {
		r.emitMesh(n, world, &st)
	}

	for _, child := range n.children {
		r.collect(child, world, st, false, depth+1)
	}
	if t := n.InstanceTarget(); t != nil {
		r.collect(t, world, st, true, depth+1)
	}
}

// emitMesh runs the vertex stage for a mesh and appends its visible triangles.
func (r *renderer) emitMesh(n *Node, world Mat4, st *resolvedState) {
	tex := n.texture()
	stage := VertexFlat
	if tex != nil {
		stage = VertexTexture
	}
	if st.shader != nil {
		stage = st.shader.Stage
	}

	blend := BlendNone
	if st.transparency {
		blend = BlendNormal
	}
	ds := &drawState{shader: st.shader, texture: tex, blend: blend.EbitenBlend()}
	if st.shader != nil {
		ds.uniforms = buildUniforms(st.inputs)
	}
	ds = r.intern(ds)

	var lightPos Vec3
	if stage == VertexLit {
		if in, ok := st.input("light"); ok {
			lightPos = resolveInputPos(in)
		}
	}

	var texW, texH, texX, texY float32
	if tex != nil {
		tb := tex.Bounds()
		texX, texY = float32(tb.Min.X), float32(tb.Min.Y)
		texW, texH = float32(tb.Dx()), float32(tb.Dy())
	}

	premultiply := st.shader == nil
	bin := binUnsorted
	if st.depthTest {
		bin = binDepthSorted
	}

	mesh := n.Mesh
	pc := &r.pass
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		var tri triangle
		var clip [3][3]float32 // ndc x, ndc y, view z
		visible := true
		for k := 0; k < 3; k++ {
			v := &mesh.Vertices[mesh.Indices[i+k]]
			wp := world.TransformPoint(v.Pos)
			cx, cy, _, cw := clipPoint(pc.viewProj, wp)
			if cw <= 1e-6 {
				visible = false
				break
			}
			vz := pc.view.TransformPoint(wp).Z
			nx, ny := float32(cx/cw), float32(cy/cw)
			clip[k] = [3]float32{nx, ny, float32(vz)}

			c := v.Color
			if st.hasColor {
				c = st.color
			}
			wn := world.TransformDir(v.Normal)
			out := &tri.verts[k]
			out.DstX = pc.originX + (nx+1)/2*pc.width
			out.DstY = pc.originY + (1-ny)/2*pc.height
			out.SrcX, out.SrcY = 0.5, 0.5
			if tex != nil {
				out.SrcX = texX + float32(v.U)*texW
				out.SrcY = texY + float32(v.V)*texH
			}
			vertexColor(out, stage, c, wn, wp, lightPos, pc.view, premultiply)
		}
		if !visible {
			continue
		}
		area := (clip[1][0]-clip[0][0])*(clip[2][1]-clip[0][1]) -
			(clip[2][0]-clip[0][0])*(clip[1][1]-clip[0][1])
		if area <= 0 && !n.TwoSided {
			continue
		}
		r.order++
		tri.depth = -(clip[0][2] + clip[1][2] + clip[2][2]) / 3
		tri.bin = bin
		tri.order = r.order
		tri.state = ds
		r.tris = append(r.tris, tri)
	}
}

// vertexColor writes the per-vertex outputs of the selected stage into the
// vertex color.
func vertexColor(out *ebiten.Vertex, stage VertexStage, c Color, worldNormal, worldPos, lightPos Vec3, view Mat4, premultiply bool) {
	r, g, b, a := float32(c.R), float32(c.G), float32(c.B), float32(c.A)
	switch stage {
	case VertexLit:
		n := normalize32(worldNormal)
		l := normalize32(lightPos.Sub(worldPos))
		out.ColorR, out.ColorG, out.ColorB = r, g, b
		out.ColorA = math32.Max(0, dot32(n, l))
		return
	case VertexNormal:
		n := normalize32(view.TransformDir(worldNormal))
		out.ColorR = n[0]*0.5 + 0.5
		out.ColorG = n[1]*0.5 + 0.5
		out.ColorB = n[2]*0.5 + 0.5
		out.ColorA = 1
		return
	case VertexFlat:
		n := normalize32(view.TransformDir(worldNormal))
		shade := 0.35 + 0.65*math32.Max(0, n[2])
		r, g, b = r*shade, g*shade, b*shade
	}
	if premultiply {
		r, g, b = r*a, g*a, b*a
	}
	out.ColorR, out.ColorG, out.ColorB, out.ColorA = r, g, b, a
}

func normalize32(v Vec3) [3]float32 {
	x, y, z := float32(v.X), float32(v.Y), float32(v.Z)
	l := math32.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return [3]float32{}
	}
	return [3]float32{x / l, y / l, z / l}
}

func dot32(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// resolveInputPos returns the position an input stands for: the node's
// position relative to its top, or the first three components.
func resolveInputPos(in ShaderInput) Vec3 {
	if in.Node != nil {
		if in.Node.disposed {
			return Vec3{}
		}
		return in.Node.WorldPos()
	}
	return Vec3{in.Value[0], in.Value[1], in.Value[2]}
}

// uniformNames caches exported Kage names for shader input names.
var uniformNames = map[string]string{}

// uniformName maps an input name onto the exported Kage variable holding it.
func uniformName(name string) string {
	if u, ok := uniformNames[name]; ok {
		return u
	}
	ch, size := utf8.DecodeRuneInString(name)
	u := string(unicode.ToUpper(ch)) + name[size:]
	uniformNames[name] = u
	return u
}

// buildUniforms converts numeric inputs to Kage vec4 uniforms. Node inputs
// additionally expose their position as xyz with w = 1.
func buildUniforms(inputs []namedInput) map[string]any {
	u := make(map[string]any, len(inputs))
	for _, ni := range inputs {
		v := ni.in.Value
		if ni.in.Node != nil {
			p := resolveInputPos(ni.in)
			v = Vec4{p.X, p.Y, p.Z, 1}
		}
		u[uniformName(ni.name)] = []float32{float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3])}
	}
	return u
}

// intern returns a state equal to ds from this pass, or records ds.
func (r *renderer) intern(ds *drawState) *drawState {
	for _, s := range r.states {
		if s.equal(ds) {
			return s
		}
	}
	r.states = append(r.states, ds)
	return ds
}

// --- Merge sort ---

// triangleLessOrEqual returns true if a should draw before or with b.
// Using <= for order ensures stability.
func triangleLessOrEqual(a, b *triangle) bool {
	if a.bin != b.bin {
		return a.bin < b.bin
	}
	if a.bin == binDepthSorted && a.depth != b.depth {
		return a.depth > b.depth
	}
	return a.order <= b.order
}

// mergeSort sorts r.tris in-place using r.sortBuf as scratch space.
func (r *renderer) mergeSort() {
	r.sortBuf = sortTriangles(r.tris, r.sortBuf)
}

// sortTriangles sorts tris in-place with a bottom-up merge sort and returns
// the scratch buffer, grown if needed. Zero allocations once the buffer
// reaches its high-water mark.
func sortTriangles(tris, buf []triangle) []triangle {
	n := len(tris)
	if n <= 1 {
		return buf
	}
	if cap(buf) < n {
		buf = make([]triangle, n)
	}
	buf = buf[:n]

	a := tris
	b := buf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(tris, buf)
	}
	return buf
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []triangle, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if triangleLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}

// --- Submission ---

// submit draws sorted triangles, merging runs that share a draw state.
func (r *renderer) submit(dst *ebiten.Image, tris []triangle) {
	r.vbuf = r.vbuf[:0]
	r.ibuf = r.ibuf[:0]
	var cur *drawState
	for i := range tris {
		t := &tris[i]
		if t.state != cur || len(r.vbuf)+3 > maxBatchVertices {
			r.flush(dst, cur)
			cur = t.state
		}
		base := uint16(len(r.vbuf))
		r.vbuf = append(r.vbuf, t.verts[0], t.verts[1], t.verts[2])
		r.ibuf = append(r.ibuf, base, base+1, base+2)
	}
	r.flush(dst, cur)
}

// flush issues one draw call for the pending batch. A program that fails
// to compile is reported once and its triangles fall back to the built-in path.
func (r *renderer) flush(dst *ebiten.Image, ds *drawState) {
	if ds == nil || len(r.ibuf) == 0 {
		r.vbuf = r.vbuf[:0]
		r.ibuf = r.ibuf[:0]
		return
	}
	if ds.shader != nil {
		prog, err := ds.shader.program()
		if err == nil {
			var op ebiten.DrawTrianglesShaderOptions
			op.Uniforms = ds.uniforms
			op.Images[0] = ds.texture
			op.Blend = ds.blend
			dst.DrawTrianglesShader(r.vbuf, r.ibuf, prog, &op)
			r.stats.drawCallCount++
			r.vbuf = r.vbuf[:0]
			r.ibuf = r.ibuf[:0]
			return
		}
		if !r.reported[ds.shader] {
			r.reported[ds.shader] = true
			_, _ = fmt.Fprintf(r.errOut, "[inkwell] %v\n", err)
		}
	}
	src := ds.texture
	if src == nil {
		src = WhitePixel
	}
	var op ebiten.DrawTrianglesOptions
	op.Blend = ds.blend
	dst.DrawTriangles(r.vbuf, r.ibuf, src, &op)
	r.stats.drawCallCount++
	r.vbuf = r.vbuf[:0]
	r.ibuf = r.ibuf[:0]
}
