package inkwell

import "testing"

// --- Composition ---

func TestComposeNilKeepsBase(t *testing.T) {
	got := defaultResolvedState.compose(nil)
	if !got.depthTest || !got.depthWrite || got.shader != nil {
		t.Errorf("compose(nil) = %+v, want defaults", got)
	}
}

func TestComposeOverridesOnlySetAttributes(t *testing.T) {
	sh := &Shader{ID: "a"}
	top := NewRenderState()
	top.SetShader(sh)
	top.SetColor(Color{1, 0, 0, 1})

	over := NewRenderState()
	over.SetDepthTest(false)

	got := defaultResolvedState.compose(top).compose(over)
	if got.shader != sh {
		t.Error("shader should be inherited")
	}
	if !got.hasColor || got.color != (Color{1, 0, 0, 1}) {
		t.Errorf("color = %v (set %v), want red", got.color, got.hasColor)
	}
	if got.depthTest {
		t.Error("depth test should be overridden")
	}
	if !got.depthWrite {
		t.Error("depth write should stay at its default")
	}
}

func TestComposeShaderNilOverride(t *testing.T) {
	base := defaultResolvedState.compose(ShaderState(&Shader{ID: "a"}))
	got := base.compose(ShaderState(nil))
	if got.shader != nil {
		t.Error("an explicit nil shader should override")
	}
}

func TestComposeInputs(t *testing.T) {
	parent := NewRenderState()
	parent.SetShaderInput("min", ScalarInput(0.5))
	parent.SetShaderInput("max", ScalarInput(1))

	child := NewRenderState()
	child.SetShaderInput("min", ScalarInput(0.2))
	child.SetShaderInput("steps", ScalarInput(3))

	p := defaultResolvedState.compose(parent)
	c := p.compose(child)

	tests := []struct {
		state *resolvedState
		name  string
		want  float64
		ok    bool
	}{
		{&c, "min", 0.2, true},
		{&c, "max", 1, true},
		{&c, "steps", 3, true},
		{&p, "min", 0.5, true},
		{&p, "steps", 0, false},
	}
	for _, tt := range tests {
		in, ok := tt.state.input(tt.name)
		if ok != tt.ok {
			t.Errorf("input(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && in.Value.X != tt.want {
			t.Errorf("input(%q) = %v, want %v", tt.name, in.Value.X, tt.want)
		}
	}
}

// --- RenderState ---

func TestRenderStateAccessors(t *testing.T) {
	s := NewRenderState()
	if !s.IsEmpty() {
		t.Error("new state should be empty")
	}
	if _, ok := s.Color(); ok {
		t.Error("color should be unset")
	}
	s.SetTransparency(true)
	if v, ok := s.Transparency(); !v || !ok {
		t.Error("transparency not set")
	}
	if s.IsEmpty() {
		t.Error("state with transparency should not be empty")
	}
}

func TestShaderInputConstructors(t *testing.T) {
	if got := ScalarInput(2).Value; got != (Vec4{2, 2, 2, 2}) {
		t.Errorf("ScalarInput = %v", got)
	}
	if got := Vec4Input(1, 0, 1, 0).Value; got != (Vec4{1, 0, 1, 0}) {
		t.Errorf("Vec4Input = %v", got)
	}
	n := NewNode("n")
	if NodeInput(n).Node != n {
		t.Error("NodeInput should carry the node")
	}
}

func TestNodeStateHelpers(t *testing.T) {
	n := NewNode("n")
	n.SetShaderInput("cutoff", ScalarInput(0.3))
	in, ok := n.ShaderInput("cutoff")
	if !ok || in.Value.X != 0.3 {
		t.Errorf("ShaderInput = %v, %v", in, ok)
	}
	n.SetDepthWrite(false)
	if v, ok := n.State().DepthWrite(); v || !ok {
		t.Error("depth write not set through node")
	}
}
