package inkwell

// normalsClearColor encodes a zero normal.
var normalsClearColor = Color{0.5, 0.5, 0.5, 1}

// NormalBuffer renders the shadow scene into an offscreen texture with every
// node's view-space normal encoded as its color. The outline pass detects
// edges in this texture.
type NormalBuffer struct {
	buffer *TextureBuffer
	camera *Camera
}

// newNormalBuffer creates a window-sized buffer and a camera rendering the
// shadow scene into it. The normal program is the camera's initial state, so
// it applies to every node regardless of tags.
func newNormalBuffer(e *Engine, shadow *ShadowScene, normals *Shader) *NormalBuffer {
	b := &NormalBuffer{buffer: e.Window.MakeTextureBuffer(NormalsBufferName, 0, 0)}
	b.buffer.SetClearColor(normalsClearColor)
	b.camera = e.MakeCamera(b.buffer, NormalsCameraName, e.Camera.Lens())
	shadow.root.AddChild(b.camera.Node())
	b.camera.SetInitialState(ShaderState(normals))
	return b
}

// Buffer returns the offscreen buffer.
func (b *NormalBuffer) Buffer() *TextureBuffer {
	return b.buffer
}

// Camera returns the camera rendering into the buffer.
func (b *NormalBuffer) Camera() *Camera {
	return b.camera
}

func (b *NormalBuffer) dispose(w *Window) {
	b.camera.Node().Dispose()
	w.RemoveTextureBuffer(b.buffer)
}
