package inkwell

// PassCameras are the two virtual cameras of the effect. The toon camera
// renders the shadow scene with toon shading; the inking camera renders the
// outline card over it. Both regions live on the window.
type PassCameras struct {
	toon       *Camera
	toonRegion *DisplayRegion

	render2d  *Node
	ink       *Camera
	inkRegion *DisplayRegion
}

// newPassCameras creates both cameras. The toon region sorts at sort-1 and
// the inking region at sort, so outlines composite over the toon pass.
func newPassCameras(e *Engine, shadow *ShadowScene, shading *Shader, sort int) *PassCameras {
	p := &PassCameras{render2d: NewNode(InkingRender2DName)}
	p.render2d.SetDepthTest(false)
	p.render2d.SetDepthWrite(false)

	p.toon = NewCamera(ToonCameraName, e.Camera.Lens())
	shadow.root.AddChild(p.toon.Node())
	p.toon.SetTagStateKey(ShadingTag)
	p.toon.SetTagState(TagOn, ShaderState(shading))
	p.toonRegion = e.Window.MakeDisplayRegion()
	p.toonRegion.Name = ToonCameraName
	p.toonRegion.SetSort(sort - 1)
	p.toonRegion.SetCamera(p.toon)

	p.ink = NewCamera(InkingCameraName, e.Cam2D.Lens())
	p.render2d.AddChild(p.ink.Node())
	p.inkRegion = e.Window.MakeDisplayRegion()
	p.inkRegion.Name = InkingCameraName
	p.inkRegion.SetSort(sort)
	p.inkRegion.SetCamera(p.ink)
	return p
}

// ToonCamera returns the toon-shading camera.
func (p *PassCameras) ToonCamera() *Camera {
	return p.toon
}

// InkingCamera returns the outline camera.
func (p *PassCameras) InkingCamera() *Camera {
	return p.ink
}

// ToonRegion returns the toon pass's display region.
func (p *PassCameras) ToonRegion() *DisplayRegion {
	return p.toonRegion
}

// InkingRegion returns the outline pass's display region.
func (p *PassCameras) InkingRegion() *DisplayRegion {
	return p.inkRegion
}

// Render2D returns the root of the outline scene.
func (p *PassCameras) Render2D() *Node {
	return p.render2d
}

func (p *PassCameras) dispose(w *Window) {
	w.RemoveDisplayRegion(p.toonRegion)
	w.RemoveDisplayRegion(p.inkRegion)
	p.render2d.Dispose()
}
