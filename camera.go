package inkwell

import (
	"math"

	"github.com/tanema/gween/ease"
)

// LensKind selects the projection of a Lens.
type LensKind uint8

const (
	LensPerspective  LensKind = iota // perspective projection with a vertical field of view
	LensOrthographic                 // parallel projection of a fixed film size
)

// Lens describes a camera projection. Lens is a value type: assigning or
// passing it copies it, so cameras never share a lens.
type Lens struct {
	Kind LensKind
	// FOV is the vertical field of view in radians (perspective only).
	FOV float64
	// Aspect is width / height. Zero follows the display region's aspect.
	Aspect float64
	Near   float64
	Far    float64
	// FilmWidth and FilmHeight size the visible area (orthographic only).
	FilmWidth  float64
	FilmHeight float64
}

// NewPerspectiveLens returns a perspective lens with an automatic aspect ratio.
func NewPerspectiveLens(fov, near, far float64) Lens {
	return Lens{Kind: LensPerspective, FOV: fov, Near: near, Far: far}
}

// NewOrthographicLens returns an orthographic lens covering a w x h film
// centered on the camera.
func NewOrthographicLens(w, h, near, far float64) Lens {
	return Lens{Kind: LensOrthographic, FilmWidth: w, FilmHeight: h, Near: near, Far: far}
}

// DefaultLens is the main camera's lens: 40 degree vertical FOV.
var DefaultLens = NewPerspectiveLens(40*math.Pi/180, 0.1, 1000)

// Lens2D is the 2D overlay lens: -1..1 on both axes.
var Lens2D = NewOrthographicLens(2, 2, -1000, 1000)

// projection returns the clip-space projection matrix. viewAspect is used
// when the lens has no aspect of its own.
func (l Lens) projection(viewAspect float64) Mat4 {
	near, far := l.Near, l.Far
	if far == near {
		far = near + 1
	}
	if l.Kind == LensOrthographic {
		w, h := l.FilmWidth, l.FilmHeight
		if w == 0 {
			w = 2
		}
		if h == 0 {
			h = 2
		}
		return Mat4{
			2 / w, 0, 0, 0,
			0, 2 / h, 0, 0,
			0, 0, -2 / (far - near), 0,
			0, 0, -(far + near) / (far - near), 1,
		}
	}
	aspect := l.Aspect
	if aspect <= 0 {
		aspect = viewAspect
	}
	if aspect <= 0 {
		aspect = 1
	}
	f := 1 / math.Tan(l.FOV/2)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) / (near - far), -1,
		0, 0, 2 * far * near / (near - far), 0,
	}
}

// Camera renders a scene from its node's point of view. The camera node can
// be placed anywhere in a hierarchy; by default it renders the hierarchy's top.
type Camera struct {
	node  *Node
	lens  Lens
	scene *Node

	initialState *RenderState
	tagStateKey  string
	tagStates    map[string]*RenderState

	regions []*DisplayRegion
	move    *TweenGroup
}

// NewCamera creates a camera with its own unparented node.
func NewCamera(name string, lens Lens) *Camera {
	n := &Node{Name: name, Type: NodeTypeCamera}
	nodeDefaults(n)
	c := &Camera{node: n, lens: lens}
	n.camera = c
	return c
}

// Node returns the camera's scene graph node.
func (c *Camera) Node() *Node {
	return c.node
}

// Camera returns the camera carried by a camera node, or nil.
func (n *Node) Camera() *Camera {
	return n.camera
}

// Lens returns a copy of the camera's lens.
func (c *Camera) Lens() Lens {
	return c.lens
}

// SetLens copies l into the camera.
func (c *Camera) SetLens(l Lens) {
	c.lens = l
}

// SetScene makes the camera render root instead of its own top node.
func (c *Camera) SetScene(root *Node) {
	c.scene = root
}

// Scene returns the root the camera renders.
func (c *Camera) Scene() *Node {
	if c.scene != nil {
		return c.scene
	}
	return c.node.Top()
}

// SetInitialState sets the state every node of this camera's pass starts from.
func (c *Camera) SetInitialState(s *RenderState) {
	c.initialState = s
}

// InitialState returns the camera's initial state, or nil.
func (c *Camera) InitialState() *RenderState {
	return c.initialState
}

// SetTagStateKey names the node tag this camera consults for tag states.
func (c *Camera) SetTagStateKey(key string) {
	c.tagStateKey = key
}

// TagStateKey returns the tag key set by SetTagStateKey.
func (c *Camera) TagStateKey() string {
	return c.tagStateKey
}

// SetTagState registers s for nodes whose tag-state key equals value. When
// this camera visits such a node, s is composed over the node's own state
// for the node and its subtree.
func (c *Camera) SetTagState(value string, s *RenderState) {
	if c.tagStates == nil {
		c.tagStates = make(map[string]*RenderState)
	}
	c.tagStates[value] = s
}

// TagState returns the state registered for value.
func (c *Camera) TagState(value string) (*RenderState, bool) {
	s, ok := c.tagStates[value]
	return s, ok
}

// ClearTagState removes the state registered for value.
func (c *Camera) ClearTagState(value string) {
	delete(c.tagStates, value)
}

// tagStateFor returns the tag state that applies to n under this camera.
func (c *Camera) tagStateFor(n *Node) *RenderState {
	if c.tagStateKey == "" || len(c.tagStates) == 0 || n.tags == nil {
		return nil
	}
	v, ok := n.tags[c.tagStateKey]
	if !ok {
		return nil
	}
	return c.tagStates[v]
}

// viewMatrix maps the camera's scene space into camera space.
func (c *Camera) viewMatrix() Mat4 {
	return c.node.netMatrix().Invert()
}

// Project maps a point in the camera's scene space to pixel coordinates on a
// w x h surface. ok is false when the point lies behind the camera.
func (c *Camera) Project(p Vec3, w, h int) (x, y float64, ok bool) {
	viewProj := c.lens.projection(float64(w) / float64(max(h, 1))).Mul(c.viewMatrix())
	cx, cy, _, cw := clipPoint(viewProj, p)
	if cw <= 0 {
		return 0, 0, false
	}
	nx, ny := cx/cw, cy/cw
	return (nx + 1) / 2 * float64(w), (1 - ny) / 2 * float64(h), true
}

// clipPoint applies a projection matrix to a point and returns clip coordinates.
func clipPoint(m Mat4, p Vec3) (x, y, z, w float64) {
	x = m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y = m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z = m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w = m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	return
}

// MoveTo animates the camera node's local position to pos over duration
// seconds. The animation advances with Engine.Update.
func (c *Camera) MoveTo(pos Vec3, duration float32, easeFn ease.TweenFunc) {
	c.move = TweenPosition(c.node, pos, duration, easeFn)
}

// IsMoving reports whether a MoveTo animation is running.
func (c *Camera) IsMoving() bool {
	return c.move != nil
}

// update advances the move animation. Called from Engine.Update.
func (c *Camera) update(dt float32) {
	if c.move == nil {
		return
	}
	c.move.Update(dt)
	if c.move.Done {
		c.move = nil
	}
}

// detach unbinds the camera from its display regions. Called when the
// camera node is disposed.
func (c *Camera) detach() {
	for _, r := range c.regions {
		if r.camera == c {
			r.camera = nil
		}
	}
	c.regions = nil
	c.move = nil
}
