package inkwell

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// TextureBuffer is an offscreen render surface owned by a Window. Its
// display regions are rendered into its texture every frame, before the
// window's own regions. A buffer created with size 0x0 follows the window
// size.
type TextureBuffer struct {
	Name string
	// Active buffers render; inactive ones keep their last contents.
	Active bool

	image    *ebiten.Image
	w, h     int
	autoSize bool

	clearColor Color
	clearSet   bool
	sort       int
	order      int

	regions  regionList
	window   *Window
	disposed bool
}

// Image returns the buffer's current texture. The texture is replaced when
// an auto-sized buffer follows a window resize, so hold the buffer, not the
// image.
func (b *TextureBuffer) Image() *ebiten.Image {
	if b.image == nil && b.window != nil {
		b.ensureImage(b.window.width, b.window.height)
	}
	return b.image
}

// Size returns the buffer's current size in pixels.
func (b *TextureBuffer) Size() (w, h int) {
	return b.w, b.h
}

// AutoSize reports whether the buffer follows the window size.
func (b *TextureBuffer) AutoSize() bool {
	return b.autoSize
}

// SetClearColor makes the buffer clear to c at the start of every frame.
func (b *TextureBuffer) SetClearColor(c Color) {
	b.clearColor = c
	b.clearSet = true
}

// ClearColor returns the clear color and whether clearing is active.
func (b *TextureBuffer) ClearColor() (Color, bool) {
	return b.clearColor, b.clearSet
}

// Sort returns the buffer's sort value among the window's buffers.
func (b *TextureBuffer) Sort() int {
	return b.sort
}

// SetSort changes the order in which the window renders its buffers.
func (b *TextureBuffer) SetSort(sort int) {
	b.sort = sort
	if b.window != nil {
		b.window.buffersSorted = false
	}
}

// MakeDisplayRegion creates a full-buffer display region.
func (b *TextureBuffer) MakeDisplayRegion() *DisplayRegion {
	return b.regions.make(b.Name)
}

// RemoveDisplayRegion removes a region created by MakeDisplayRegion.
func (b *TextureBuffer) RemoveDisplayRegion(r *DisplayRegion) bool {
	return b.regions.remove(r)
}

// DisplayRegions returns the buffer's regions in render order.
func (b *TextureBuffer) DisplayRegions() []*DisplayRegion {
	return b.regions.inOrder()
}

// TextureCard returns a new card node covering -1..1 on X and Y that shows
// the buffer's texture. The card follows texture replacement on resize.
func (b *TextureBuffer) TextureCard() *Node {
	n := NewMeshNode(b.Name+"_card", NewCardMesh(-1, 1, -1, 1))
	n.textureBuffer = b
	n.TwoSided = true
	return n
}

// IsDisposed reports whether the buffer has been disposed.
func (b *TextureBuffer) IsDisposed() bool {
	return b.disposed
}

// ensureImage (re)allocates the texture for the given window size.
func (b *TextureBuffer) ensureImage(winW, winH int) {
	w, h := b.w, b.h
	if b.autoSize {
		w, h = winW, winH
	}
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	if b.image != nil && b.w == w && b.h == h {
		return
	}
	if b.image != nil {
		b.image.Deallocate()
	}
	b.image = ebiten.NewImageWithOptions(
		image.Rect(0, 0, w, h),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
	b.w, b.h = w, h
}

// beginFrame sizes and clears the texture for a new frame.
func (b *TextureBuffer) beginFrame(winW, winH int) {
	b.ensureImage(winW, winH)
	if b.clearSet {
		b.image.Fill(b.clearColor.toRGBA())
	} else {
		b.image.Clear()
	}
}

// dispose releases the texture and unbinds every region.
func (b *TextureBuffer) dispose() {
	if b.disposed {
		return
	}
	b.disposed = true
	for len(b.regions.regions) > 0 {
		b.regions.remove(b.regions.regions[0])
	}
	if b.image != nil {
		b.image.Deallocate()
		b.image = nil
	}
	b.window = nil
}

// texture returns the image a mesh node samples, or nil.
func (n *Node) texture() *ebiten.Image {
	if n.textureBuffer != nil {
		if n.textureBuffer.disposed {
			return nil
		}
		return n.textureBuffer.Image()
	}
	return n.Texture
}
