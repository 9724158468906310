package inkwell

import (
	"fmt"
	"io"
	"os"
)

// Default painter parameters.
const (
	DefaultSort       = -1
	DefaultStepMin    = 0.8
	DefaultStepMax    = 1.0
	DefaultStepCount  = 1.0
	DefaultSeparation = 0.001
	DefaultCutoff     = 0.3
)

// DefaultLightPos places the light right of and behind the default viewpoint.
var DefaultLightPos = Vec3{30, 0, 50}

// UpdateTaskName is the name of the painter's per-frame task.
const UpdateTaskName = "Painter.update"

const disabledMessage = "[inkwell] painter disabled: graphics driver reports that shaders are not supported\n"

// StepFunction quantizes toon lighting into Steps bands between Min and Max
// brightness.
type StepFunction struct {
	Min   float64 `yaml:"min" toml:"min"`
	Max   float64 `yaml:"max" toml:"max"`
	Steps float64 `yaml:"steps" toml:"steps"`
}

// clamped returns f with negatives raised to 0 and Min lowered to Max when
// it exceeds it.
func (f StepFunction) clamped() StepFunction {
	f.Min = max(f.Min, 0)
	f.Max = max(f.Max, 0)
	f.Steps = max(f.Steps, 0)
	if f.Min > f.Max {
		f.Min = f.Max
	}
	return f
}

// InkParameters control the outline pass: the sample offset as a fraction
// of the buffer size and the edge threshold.
type InkParameters struct {
	Separation, Cutoff float64
}

// --- Events ---

// PaintEventKind identifies a registry change.
type PaintEventKind uint8

const (
	PaintEventPainted   PaintEventKind = iota // a node was painted
	PaintEventUnpainted                       // a node was unpainted
	PaintEventPruned                          // a stale entry was dropped during sync
)

// String returns the event kind name.
func (k PaintEventKind) String() string {
	switch k {
	case PaintEventPainted:
		return "painted"
	case PaintEventUnpainted:
		return "unpainted"
	case PaintEventPruned:
		return "pruned"
	default:
		return "unknown"
	}
}

// PaintEvent describes a registry change. NodeID and Name identify the
// original node as it was when painted.
type PaintEvent struct {
	Kind   PaintEventKind
	NodeID uint32
	Name   string
}

// PaintEventSink is the interface for optional event forwarding, such as the
// ECS bridge in the ecs package.
type PaintEventSink interface {
	EmitPaintEvent(event PaintEvent)
}

// --- Painter ---

// Painter renders selected nodes of the main scene with toon shading and ink
// outlines. Painted nodes are stashed in the main scene and instanced into a
// shadow scene that two extra window regions render before the main scene.
//
// When the graphics driver lacks shader support the painter is permanently
// disabled and every operation is a no-op.
type Painter struct {
	engine    *Engine
	sort      int
	supported bool
	enabled   bool
	disposed  bool

	shadow  *ShadowScene
	passes  *PassCameras
	normals *NormalBuffer
	outline *OutlineCompositor
	task    *Task

	registry paintRegistry

	steps     StepFunction
	ink       InkParameters
	spotLight bool
	presets   []StepFunction

	sink   PaintEventSink
	errOut io.Writer
}

// NewPainter sets up the shadow scene, both pass cameras, the normal buffer,
// the outline card and the per-frame task. Construction stops after the
// capability check when shaders are unsupported.
func NewPainter(e *Engine, cfg PainterConfig) *Painter {
	return newPainter(e, cfg, os.Stderr)
}

func newPainter(e *Engine, cfg PainterConfig, errOut io.Writer) *Painter {
	p := &Painter{
		engine:    e,
		sort:      cfg.Sort,
		steps:     StepFunction{cfg.StepMin, cfg.StepMax, cfg.StepCount}.clamped(),
		ink:       InkParameters{cfg.Separation, cfg.Cutoff},
		spotLight: cfg.CameraSpotLight,
		errOut:    errOut,
	}
	for _, ps := range cfg.Presets {
		p.presets = append(p.presets, ps.clamped())
	}

	p.supported = e.Window.SupportsShaders()
	if !p.supported {
		_, _ = io.WriteString(errOut, disabledMessage)
		return p
	}

	shading, err1 := e.Loader.LoadShader(ShadingShaderID)
	normals, err2 := e.Loader.LoadShader(NormalsShaderID)
	inking, err3 := e.Loader.LoadShader(InkingShaderID)
	for _, err := range []error{err1, err2, err3} {
		if err != nil {
			p.supported = false
			_, _ = fmt.Fprintf(errOut, "[inkwell] painter disabled: %v\n", err)
			return p
		}
	}

	p.shadow = newShadowScene(cfg.LightPos, p.steps)
	p.passes = newPassCameras(e, p.shadow, shading, p.sort)
	p.normals = newNormalBuffer(e, p.shadow, normals)
	p.outline = newOutlineCompositor(p.normals, p.passes.render2d, inking, p.ink)
	p.task = e.Tasks.Add(UpdateTaskName, p.update)
	p.enabled = true
	return p
}

// SetEventSink sets the optional receiver of paint events.
func (p *Painter) SetEventSink(sink PaintEventSink) {
	p.sink = sink
}

func (p *Painter) emit(kind PaintEventKind, e *paintEntry) {
	if p.sink == nil {
		return
	}
	p.sink.EmitPaintEvent(PaintEvent{Kind: kind, NodeID: e.originalID, Name: e.name})
}

// --- Paint / unpaint ---

// Paint moves n into the shadow scene: an instance of n is created under the
// shadow root and tagged for toon shading and inking, and n is stashed in
// its own scene. Painting an already painted node does nothing.
func (p *Painter) Paint(n *Node) {
	if !p.enabled || n == nil || n.disposed || p.shadow.contains(n) {
		return
	}
	if e := p.registry.lookup(n); e != nil {
		if !e.stale() {
			return
		}
		p.pruneEntry(e)
	}
	inst := n.InstanceUnder(p.shadow.root, n.Name)
	inst.SetTag(ShadingTag, TagOn)
	inst.SetTag(InkingTag, TagOn)
	e := p.registry.add(n, inst)
	p.syncEntry(n, inst)
	n.Stash()
	p.emit(PaintEventPainted, e)
}

// Unpaint disposes n's instance and restores n to normal rendering.
func (p *Painter) Unpaint(n *Node) {
	if !p.enabled || n == nil {
		return
	}
	e := p.registry.lookup(n)
	if e == nil {
		return
	}
	p.registry.remove(e)
	e.instance.Dispose()
	n.Unstash()
	p.emit(PaintEventUnpainted, e)
}

// IsPainted reports whether n has a live registry entry.
func (p *Painter) IsPainted(n *Node) bool {
	if n == nil {
		return false
	}
	e := p.registry.lookup(n)
	return e != nil && !e.stale()
}

// Painted returns the live painted nodes in paint order.
func (p *Painter) Painted() []*Node {
	var out []*Node
	for _, e := range p.registry.entries {
		if e.stale() {
			continue
		}
		out = append(out, e.original.Value())
	}
	return out
}

// Instance returns the shadow-scene instance of n, or nil.
func (p *Painter) Instance(n *Node) *Node {
	if n == nil {
		return nil
	}
	if e := p.registry.lookup(n); e != nil && !e.stale() {
		return e.instance
	}
	return nil
}

// --- Frame sync ---

// update is the per-frame task. It never finishes on its own.
func (p *Painter) update(float64) TaskStatus {
	if p.enabled {
		p.sync()
	}
	return TaskCont
}

// sync mirrors the main camera onto both pass cameras, moves a spot light to
// the camera, prunes stale entries and re-derives every instance transform
// from its original's parent.
func (p *Painter) sync() {
	cam := p.engine.Camera
	camNode := cam.Node()
	camTop := camNode.Top()
	q := camNode.QuatRelativeTo(camTop)
	pos := camNode.PosRelativeTo(camTop)
	lens := cam.Lens()

	for _, c := range [2]*Camera{p.passes.toon, p.normals.camera} {
		n := c.Node()
		top := n.Top()
		n.SetQuatRelativeTo(top, q)
		n.SetPosRelativeTo(top, pos)
		c.SetLens(lens)
	}

	if p.spotLight {
		p.shadow.setLightPos(pos)
	}

	p.prune()
	for _, e := range p.registry.entries {
		if o := e.original.Value(); o != nil {
			p.syncEntry(o, e.instance)
		}
	}
}

// syncEntry places inst so that it stands where orig's parent stands
// relative to orig's top. orig's own local transform applies beneath inst.
func (p *Painter) syncEntry(orig, inst *Node) {
	q, pos, scale := QuatIdentity, Vec3{}, Vec3{1, 1, 1}
	if parent := orig.Parent; parent != nil {
		top := orig.Top()
		q = parent.QuatRelativeTo(top)
		pos = parent.PosRelativeTo(top)
		scale = parent.ScaleRelativeTo(top)
	}
	top := inst.Top()
	inst.SetScaleRelativeTo(top, scale)
	inst.SetQuatRelativeTo(top, q)
	inst.SetPosRelativeTo(top, pos)
}

// prune drops entries whose original is gone or whose instance was disposed
// elsewhere. A surviving original is unstashed.
func (p *Painter) prune() {
	for i := 0; i < len(p.registry.entries); i++ {
		e := p.registry.entries[i]
		if !e.stale() {
			continue
		}
		p.pruneEntry(e)
		i--
	}
}

func (p *Painter) pruneEntry(e *paintEntry) {
	p.registry.remove(e)
	if !e.instance.disposed {
		e.instance.Dispose()
	}
	if o := e.original.Value(); o != nil && !o.disposed {
		o.Unstash()
	}
	p.emit(PaintEventPruned, e)
}

// --- Mutators ---

// SetSeparation sets the outline sample offset.
func (p *Painter) SetSeparation(s float64) {
	if !p.enabled {
		return
	}
	p.ink.Separation = s
	p.outline.setSeparation(s)
}

// SetCutoff sets the outline edge threshold.
func (p *Painter) SetCutoff(c float64) {
	if !p.enabled {
		return
	}
	p.ink.Cutoff = c
	p.outline.setCutoff(c)
}

// SetLightPos moves the light, relative to the shadow scene root.
func (p *Painter) SetLightPos(x, y, z float64) {
	if !p.enabled {
		return
	}
	p.shadow.setLightPos(Vec3{x, y, z})
}

// SetStepFunction sets the toon step function. Negative values clamp to 0
// and min is lowered to max when it exceeds it.
func (p *Painter) SetStepFunction(minLevel, maxLevel, steps float64) {
	if !p.enabled {
		return
	}
	p.steps = StepFunction{minLevel, maxLevel, steps}.clamped()
	p.shadow.setSteps(p.steps)
}

// ApplyPreset applies the i-th configured step function preset. Out of
// range indices wrap.
func (p *Painter) ApplyPreset(i int) {
	if len(p.presets) == 0 {
		return
	}
	i %= len(p.presets)
	if i < 0 {
		i += len(p.presets)
	}
	f := p.presets[i]
	p.SetStepFunction(f.Min, f.Max, f.Steps)
}

// Presets returns the configured step function presets.
func (p *Painter) Presets() []StepFunction {
	return p.presets
}

// EnableCameraSpotLight makes the light follow the main camera.
func (p *Painter) EnableCameraSpotLight(on bool) {
	if !p.enabled {
		return
	}
	p.spotLight = on
}

// Enable resumes the painter. It has no effect when shaders are unsupported
// or the painter was disposed.
func (p *Painter) Enable() {
	if p.supported && !p.disposed {
		p.enabled = true
	}
}

// Disable pauses synchronization and turns every operation into a no-op.
// Painted nodes stay painted.
func (p *Painter) Disable() {
	p.enabled = false
}

// --- Accessors ---

// Enabled reports whether the painter is live.
func (p *Painter) Enabled() bool {
	return p.enabled
}

// Supported reports whether the capability check passed.
func (p *Painter) Supported() bool {
	return p.supported
}

// Sort returns the inking region's sort value.
func (p *Painter) Sort() int {
	return p.sort
}

// Separation returns the outline sample offset.
func (p *Painter) Separation() float64 {
	return p.ink.Separation
}

// Cutoff returns the outline edge threshold.
func (p *Painter) Cutoff() float64 {
	return p.ink.Cutoff
}

// StepFunction returns the current toon step function.
func (p *Painter) StepFunction() StepFunction {
	return p.steps
}

// LightPos returns the light position relative to the shadow scene root.
func (p *Painter) LightPos() Vec3 {
	if p.shadow == nil {
		return Vec3{}
	}
	return p.shadow.light.Pos
}

// CameraSpotLight reports whether the light follows the camera.
func (p *Painter) CameraSpotLight() bool {
	return p.spotLight
}

// ShadowScene returns the shadow scene, or nil when disabled at construction.
func (p *Painter) ShadowScene() *ShadowScene {
	return p.shadow
}

// Passes returns the pass cameras, or nil when disabled at construction.
func (p *Painter) Passes() *PassCameras {
	return p.passes
}

// NormalBuffer returns the normal buffer, or nil when disabled at construction.
func (p *Painter) NormalBuffer() *NormalBuffer {
	return p.normals
}

// Outline returns the outline compositor, or nil when disabled at construction.
func (p *Painter) Outline() *OutlineCompositor {
	return p.outline
}

// Dispose unpaints every node and removes the task, both regions, the
// normal buffer and the shadow scene. The painter stays disabled afterwards.
func (p *Painter) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.enabled = false
	if p.shadow == nil {
		return
	}
	for _, e := range p.registry.entries {
		if !e.instance.disposed {
			e.instance.Dispose()
		}
		if o := e.original.Value(); o != nil && !o.disposed {
			o.Unstash()
		}
		p.emit(PaintEventUnpainted, e)
	}
	p.registry = paintRegistry{}
	p.engine.Tasks.RemoveTask(p.task)
	p.passes.dispose(p.engine.Window)
	p.normals.dispose(p.engine.Window)
	p.shadow.dispose()
}
