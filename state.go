package inkwell

// ShaderInput is a named value handed to a shader program. Numeric inputs
// are four components wide; a node input resolves to the node's position in
// the scene being rendered.
type ShaderInput struct {
	Value Vec4
	Node  *Node
}

// Vec4Input returns a four-component shader input.
func Vec4Input(x, y, z, w float64) ShaderInput {
	return ShaderInput{Value: Vec4{x, y, z, w}}
}

// ScalarInput returns an input with v broadcast to all four components.
func ScalarInput(v float64) ShaderInput {
	return ShaderInput{Value: Vec4{v, v, v, v}}
}

// NodeInput returns an input that tracks n's position.
func NodeInput(n *Node) ShaderInput {
	return ShaderInput{Node: n}
}

// stateFlags records which attributes a RenderState overrides.
type stateFlags uint8

const (
	stateShader stateFlags = 1 << iota
	stateColor
	stateTransparency
	stateDepthTest
	stateDepthWrite
)

// RenderState is a set of render attributes. Attributes left unset are
// inherited from the state beneath when states are composed.
type RenderState struct {
	shader       *Shader
	inputs       map[string]ShaderInput
	color        Color
	transparency bool
	depthTest    bool
	depthWrite   bool
	flags        stateFlags
}

// NewRenderState returns an empty state.
func NewRenderState() *RenderState {
	return &RenderState{}
}

// ShaderState returns a state that only sets the shader program.
func ShaderState(s *Shader) *RenderState {
	st := &RenderState{}
	st.SetShader(s)
	return st
}

// SetShader sets the program used to draw. A nil shader selects the
// built-in untextured or textured path.
func (s *RenderState) SetShader(sh *Shader) {
	s.shader = sh
	s.flags |= stateShader
}

// Shader returns the program set on this state, or nil.
func (s *RenderState) Shader() *Shader {
	return s.shader
}

// SetShaderInput binds a named shader input.
func (s *RenderState) SetShaderInput(name string, in ShaderInput) {
	if s.inputs == nil {
		s.inputs = make(map[string]ShaderInput)
	}
	s.inputs[name] = in
}

// ShaderInput returns the input bound under name on this state.
func (s *RenderState) ShaderInput(name string) (ShaderInput, bool) {
	in, ok := s.inputs[name]
	return in, ok
}

// ClearShaderInput removes the input bound under name.
func (s *RenderState) ClearShaderInput(name string) {
	delete(s.inputs, name)
}

// SetColor overrides the vertex color of everything drawn under this state.
func (s *RenderState) SetColor(c Color) {
	s.color = c
	s.flags |= stateColor
}

// Color returns the override color and whether one is set.
func (s *RenderState) Color() (Color, bool) {
	return s.color, s.flags&stateColor != 0
}

// SetTransparency selects alpha blending (true) or opaque copy (false).
func (s *RenderState) SetTransparency(on bool) {
	s.transparency = on
	s.flags |= stateTransparency
}

// SetDepthTest enables or disables depth sorting of triangles.
func (s *RenderState) SetDepthTest(on bool) {
	s.depthTest = on
	s.flags |= stateDepthTest
}

// SetDepthWrite enables or disables depth writes.
func (s *RenderState) SetDepthWrite(on bool) {
	s.depthWrite = on
	s.flags |= stateDepthWrite
}

// DepthTest returns the depth test setting and whether it is set.
func (s *RenderState) DepthTest() (bool, bool) {
	return s.depthTest, s.flags&stateDepthTest != 0
}

// DepthWrite returns the depth write setting and whether it is set.
func (s *RenderState) DepthWrite() (bool, bool) {
	return s.depthWrite, s.flags&stateDepthWrite != 0
}

// Transparency returns the transparency setting and whether it is set.
func (s *RenderState) Transparency() (bool, bool) {
	return s.transparency, s.flags&stateTransparency != 0
}

// IsEmpty reports whether the state sets nothing.
func (s *RenderState) IsEmpty() bool {
	return s.flags == 0 && len(s.inputs) == 0
}

// resolvedState is the composed state of one node during a pass.
type resolvedState struct {
	shader       *Shader
	inputs       []namedInput
	color        Color
	hasColor     bool
	transparency bool
	depthTest    bool
	depthWrite   bool
}

type namedInput struct {
	name string
	in   ShaderInput
}

// defaultResolvedState is the state at the top of every pass.
var defaultResolvedState = resolvedState{depthTest: true, depthWrite: true}

// compose returns base with over applied on top. inputs are copied only
// when over binds any, so sibling subtrees never share a mutated slice.
func (base resolvedState) compose(over *RenderState) resolvedState {
	if over == nil {
		return base
	}
	r := base
	if over.flags&stateShader != 0 {
		r.shader = over.shader
	}
	if over.flags&stateColor != 0 {
		r.color = over.color
		r.hasColor = true
	}
	if over.flags&stateTransparency != 0 {
		r.transparency = over.transparency
	}
	if over.flags&stateDepthTest != 0 {
		r.depthTest = over.depthTest
	}
	if over.flags&stateDepthWrite != 0 {
		r.depthWrite = over.depthWrite
	}
	if len(over.inputs) > 0 {
		inputs := make([]namedInput, len(base.inputs), len(base.inputs)+len(over.inputs))
		copy(inputs, base.inputs)
	next:
		for name, in := range over.inputs {
			for i := range inputs {
				if inputs[i].name == name {
					inputs[i].in = in
					continue next
				}
			}
			inputs = append(inputs, namedInput{name, in})
		}
		r.inputs = inputs
	}
	return r
}

// input looks up a composed input by name.
func (r *resolvedState) input(name string) (ShaderInput, bool) {
	for i := range r.inputs {
		if r.inputs[i].name == name {
			return r.inputs[i].in, true
		}
	}
	return ShaderInput{}, false
}

// --- Node state accessors ---

// State returns the node's own render state for direct editing.
func (n *Node) State() *RenderState {
	return &n.state
}

// SetShader sets the program used to draw this node's subtree.
func (n *Node) SetShader(s *Shader) { n.state.SetShader(s) }

// SetShaderInput binds a named input visible to this node's subtree.
func (n *Node) SetShaderInput(name string, in ShaderInput) { n.state.SetShaderInput(name, in) }

// ShaderInput returns the input bound directly on this node.
func (n *Node) ShaderInput(name string) (ShaderInput, bool) { return n.state.ShaderInput(name) }

// SetColor overrides the color of this node's subtree.
func (n *Node) SetColor(c Color) { n.state.SetColor(c) }

// SetTransparency enables alpha blending for this node's subtree.
func (n *Node) SetTransparency(on bool) { n.state.SetTransparency(on) }

// SetDepthTest enables or disables depth sorting for this node's subtree.
func (n *Node) SetDepthTest(on bool) { n.state.SetDepthTest(on) }

// SetDepthWrite enables or disables depth writes for this node's subtree.
func (n *Node) SetDepthWrite(on bool) { n.state.SetDepthWrite(on) }
