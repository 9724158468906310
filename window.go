package inkwell

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// ShaderSupport overrides the shader capability probe.
type ShaderSupport uint8

const (
	ShaderSupportProbe ShaderSupport = iota // compile a trivial program on first query
	ShaderSupportOn                         // report support without probing
	ShaderSupportOff                        // report no support without probing
)

// WindowConfig configures a Window.
type WindowConfig struct {
	Width, Height int
	ClearColor    Color
	ShaderSupport ShaderSupport
}

// Window is the main render surface. It owns the texture buffers, which are
// rendered first, and its own display regions, rendered onto the screen.
type Window struct {
	width, height int
	clearColor    Color

	regions regionList

	buffers         []*TextureBuffer
	buffersSorted   bool
	nextBufferOrder int

	shaderSupport ShaderSupport
	probed        bool
	supported     bool
}

// NewWindow creates a window surface. Sizes below 1 become 1.
func NewWindow(cfg WindowConfig) *Window {
	return &Window{
		width:         max(cfg.Width, 1),
		height:        max(cfg.Height, 1),
		clearColor:    cfg.ClearColor,
		shaderSupport: cfg.ShaderSupport,
		buffersSorted: true,
	}
}

// Size returns the window size in pixels.
func (w *Window) Size() (width, height int) {
	return w.width, w.height
}

// SetClearColor sets the color the screen is cleared to each frame.
func (w *Window) SetClearColor(c Color) {
	w.clearColor = c
}

// ClearColor returns the screen clear color.
func (w *Window) ClearColor() Color {
	return w.clearColor
}

// SupportsShaders reports whether the graphics driver can run Kage programs.
// The probe runs at most once per window.
func (w *Window) SupportsShaders() bool {
	switch w.shaderSupport {
	case ShaderSupportOn:
		return true
	case ShaderSupportOff:
		return false
	}
	if !w.probed {
		w.probed = true
		w.supported = probeShaderSupport()
	}
	return w.supported
}

// MakeDisplayRegion creates a full-window display region.
func (w *Window) MakeDisplayRegion() *DisplayRegion {
	return w.regions.make("window")
}

// RemoveDisplayRegion removes a region created by MakeDisplayRegion.
func (w *Window) RemoveDisplayRegion(r *DisplayRegion) bool {
	return w.regions.remove(r)
}

// DisplayRegions returns the window's regions in render order.
func (w *Window) DisplayRegions() []*DisplayRegion {
	return w.regions.inOrder()
}

// MakeTextureBuffer creates an offscreen buffer. A size of 0x0 makes the
// buffer follow the window size.
func (w *Window) MakeTextureBuffer(name string, width, height int) *TextureBuffer {
	w.nextBufferOrder++
	b := &TextureBuffer{
		Name:     name,
		Active:   true,
		w:        width,
		h:        height,
		autoSize: width <= 0 && height <= 0,
		order:    w.nextBufferOrder,
		window:   w,
	}
	w.buffers = append(w.buffers, b)
	w.buffersSorted = false
	return b
}

// RemoveTextureBuffer disposes b and drops it from the window. Reports
// whether b belonged to the window.
func (w *Window) RemoveTextureBuffer(b *TextureBuffer) bool {
	for i, wb := range w.buffers {
		if wb == b {
			copy(w.buffers[i:], w.buffers[i+1:])
			w.buffers[len(w.buffers)-1] = nil
			w.buffers = w.buffers[:len(w.buffers)-1]
			b.dispose()
			return true
		}
	}
	return false
}

// TextureBuffers returns the buffers in render order.
// The returned slice MUST NOT be mutated by the caller.
func (w *Window) TextureBuffers() []*TextureBuffer {
	if !w.buffersSorted {
		bs := w.buffers
		for i := 1; i < len(bs); i++ {
			key := bs[i]
			j := i - 1
			for j >= 0 && (bs[j].sort > key.sort || (bs[j].sort == key.sort && bs[j].order > key.order)) {
				bs[j+1] = bs[j]
				j--
			}
			bs[j+1] = key
		}
		w.buffersSorted = true
	}
	return w.buffers
}

// resize records a new window size. Auto-sized buffers reallocate at the
// start of their next frame.
func (w *Window) resize(width, height int) {
	w.width = max(width, 1)
	w.height = max(height, 1)
}

// renderFrame renders every active buffer, then the window's regions onto
// screen.
func (w *Window) renderFrame(screen *ebiten.Image, r *renderer) {
	for _, b := range w.TextureBuffers() {
		if !b.Active || b.disposed {
			continue
		}
		b.beginFrame(w.width, w.height)
		r.renderRegions(b.regions.inOrder(), b.image)
	}
	screen.Fill(w.clearColor.toRGBA())
	r.renderRegions(w.regions.inOrder(), screen)
}

// drawBufferViewer tiles thumbnails of every buffer along the bottom of
// screen.
func (w *Window) drawBufferViewer(screen *ebiten.Image) {
	n := len(w.buffers)
	if n == 0 {
		return
	}
	sb := screen.Bounds()
	tileW := float64(sb.Dx()) / float64(max(n, 4))
	for i, b := range w.TextureBuffers() {
		img := b.image
		if img == nil || b.disposed {
			continue
		}
		ib := img.Bounds()
		s := tileW / float64(ib.Dx())
		var op ebiten.DrawImageOptions
		op.GeoM.Scale(s, s)
		op.GeoM.Translate(float64(i)*tileW, float64(sb.Dy())-float64(ib.Dy())*s)
		screen.DrawImage(img, &op)
	}
}
