package inkwell

// Node names of the painter's scenes and cameras.
const (
	ToonRenderName     = "toon_render"
	LightNodeName      = "light"
	ToonCameraName     = "toon_camera"
	InkingRender2DName = "inking_render2d"
	InkingCameraName   = "inking_camera"
	NormalsBufferName  = "normals_buf"
	NormalsCameraName  = "normals_camera"
)

// Tags set on every painted instance. The toon camera's tag state key is
// ShadingTag; InkingTag marks instances for outline passes.
const (
	ShadingTag = "Painter.CartoonShading"
	InkingTag  = "Painter.CartoonInking"
	TagOn      = "True"
)

// Shader input names on the shadow scene root and the outline card.
const (
	inputLight      = "light"
	inputMin        = "min"
	inputMax        = "max"
	inputSteps      = "steps"
	inputSeparation = "separation"
	inputCutoff     = "cutoff"
)

// ShadowScene is the auxiliary root holding instances of painted nodes. Its
// root carries the step function and the light as shader inputs, which every
// instance inherits.
type ShadowScene struct {
	root  *Node
	light *Node
}

// newShadowScene creates the root and the light marker at lightPos.
func newShadowScene(lightPos Vec3, steps StepFunction) *ShadowScene {
	s := &ShadowScene{root: NewNode(ToonRenderName)}
	s.light = NewLightNode(LightNodeName)
	s.root.AddChild(s.light)
	s.setLightPos(lightPos)
	s.root.SetShaderInput(inputLight, NodeInput(s.light))
	s.setSteps(steps)
	return s
}

// Root returns the shadow scene root.
func (s *ShadowScene) Root() *Node {
	return s.root
}

// Light returns the light marker node.
func (s *ShadowScene) Light() *Node {
	return s.light
}

func (s *ShadowScene) setLightPos(p Vec3) {
	s.light.SetPos(p.X, p.Y, p.Z)
}

func (s *ShadowScene) setSteps(f StepFunction) {
	s.root.SetShaderInput(inputMin, ScalarInput(f.Min))
	s.root.SetShaderInput(inputMax, ScalarInput(f.Max))
	s.root.SetShaderInput(inputSteps, ScalarInput(f.Steps))
}

// contains reports whether n belongs to the shadow scene.
func (s *ShadowScene) contains(n *Node) bool {
	return n.Top() == s.root
}

func (s *ShadowScene) dispose() {
	s.root.Dispose()
}
