package inkwell

import (
	"weak"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic; inkwell is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the fundamental scene graph element. A single flat struct is used for
// all node types to avoid interface dispatch on the hot path.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local, relative to Parent)
	Pos   Vec3
	Quat  Quat
	Scale Vec3

	local          Mat4
	transformDirty bool

	// Visible hides the node and its subtree from every pass. Stash does the
	// same but is reserved for nodes replaced by an instance elsewhere.
	Visible bool
	stashed bool

	// Mesh fields (NodeTypeMesh)
	Mesh          *Mesh
	Texture       *ebiten.Image
	textureBuffer *TextureBuffer
	// TwoSided disables back-face culling for this node's triangles.
	TwoSided bool

	// Camera field (NodeTypeCamera)
	camera *Camera

	// Instance link. A node created by InstanceUnder renders target's
	// subtree beneath itself without owning it.
	instanceOf weak.Pointer[Node]
	instanced  bool

	tags  map[string]string
	state RenderState

	// Metadata
	UserData any

	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Quat = QuatIdentity
	n.Scale = Vec3{1, 1, 1}
	n.Visible = true
	n.transformDirty = true
}

// NewNode creates a container node with no visual representation.
func NewNode(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewMeshNode creates a node that renders the given mesh.
func NewMeshNode(name string, mesh *Mesh) *Node {
	n := &Node{Name: name, Type: NodeTypeMesh, Mesh: mesh}
	nodeDefaults(n)
	return n
}

// NewLightNode creates a light marker. Lights draw nothing; shaders read
// their position through a node shader input.
func NewLightNode(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeLight}
	nodeDefaults(n)
	return n
}

// AttachNewNode creates a container named name under n and returns it.
func (n *Node) AttachNewNode(name string) *Node {
	child := NewNode(name)
	n.AddChild(child)
	return child
}

// --- Tree manipulation ---

// AddChild appends child to this node's children. The child keeps its local
// transform. If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("inkwell: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("inkwell: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// ReparentTo moves n under parent, keeping its local transform.
func (n *Node) ReparentTo(parent *Node) {
	parent.AddChild(n)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("inkwell: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list, stashed children included.
// The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Find returns the first node named name in n's subtree (depth-first,
// n included), or nil.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// --- Stash ---

// Stash removes the node from every render pass without detaching it. The
// node keeps its parent and therefore its net transform.
func (n *Node) Stash() {
	n.stashed = true
}

// Unstash restores a stashed node to normal rendering.
func (n *Node) Unstash() {
	n.stashed = false
}

// IsStashed reports whether the node is stashed.
func (n *Node) IsStashed() bool {
	return n.stashed
}

// --- Tags ---

// SetTag attaches a string tag to the node.
func (n *Node) SetTag(key, value string) {
	if n.tags == nil {
		n.tags = make(map[string]string)
	}
	n.tags[key] = value
}

// Tag returns the value of the tag key, or "" when unset.
func (n *Node) Tag(key string) string {
	return n.tags[key]
}

// HasTag reports whether the tag key is set on the node.
func (n *Node) HasTag(key string) bool {
	_, ok := n.tags[key]
	return ok
}

// ClearTag removes the tag key.
func (n *Node) ClearTag(key string) {
	delete(n.tags, key)
}

// --- Instancing ---

// InstanceUnder creates a node named name under parent that renders n's
// subtree as if it were its own child. n stays where it is; the instance
// holds only a weak reference to it, so it never keeps n alive. Panics if
// parent lies inside n's subtree.
func (n *Node) InstanceUnder(parent *Node, name string) *Node {
	if isAncestor(n, parent) {
		panic("inkwell: instancing would create a cycle")
	}
	inst := NewNode(name)
	inst.instanceOf = weak.Make(n)
	inst.instanced = true
	parent.AddChild(inst)
	return inst
}

// InstanceTarget returns the node an instance renders, or nil when n is not
// an instance or its target has been collected or disposed.
func (n *Node) InstanceTarget() *Node {
	if !n.instanced {
		return nil
	}
	t := n.instanceOf.Value()
	if t == nil || t.disposed {
		return nil
	}
	return t
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants. Nodes reached only through an
// instance link are not affected.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Mesh = nil
	n.Texture = nil
	n.textureBuffer = nil
	n.instanceOf = weak.Pointer[Node]{}
	n.tags = nil
	n.state = RenderState{}
	n.UserData = nil
	if n.camera != nil {
		n.camera.detach()
	}
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
