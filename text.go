package inkwell

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// --- Font ---

// Font wraps Ebitengine's text/v2 for TrueType font rendering.
type Font struct {
	face *text.GoTextFace
	lh   float64 // cached line height
}

// LoadFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadFont(ttfData []byte, size float64) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("inkwell: failed to parse TTF data: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &Font{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}, nil
}

// MeasureString returns the width and height of the rendered text.
func (f *Font) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *Font) LineHeight() float64 {
	return f.lh
}

// --- TextCard ---

// TextCard is a fixed-size text image shown on a Render2D card. The card is
// placed in pixels from the window's top-left corner at creation time.
type TextCard struct {
	node  *Node
	img   *ebiten.Image
	font  *Font
	text  string
	Color Color
}

// NewTextCard creates a w x h pixel text card at (x, y) and adds it to
// e.Render2D.
func NewTextCard(e *Engine, name string, font *Font, x, y, w, h int) *TextCard {
	ww, wh := e.Window.Size()
	left, right, bottom, top := pixelCardRect(ww, wh, x, y, w, h)
	c := &TextCard{
		img:   ebiten.NewImage(max(w, 1), max(h, 1)),
		font:  font,
		Color: ColorWhite,
	}
	c.node = NewMeshNode(name, NewCardMesh(left, right, bottom, top))
	c.node.Texture = c.img
	c.node.TwoSided = true
	c.node.SetTransparency(true)
	e.Render2D.AddChild(c.node)
	return c
}

// pixelCardRect converts a pixel rectangle into the -1..1 Render2D space of
// a ww x wh window.
func pixelCardRect(ww, wh, x, y, w, h int) (left, right, bottom, top float64) {
	left = -1 + 2*float64(x)/float64(ww)
	top = 1 - 2*float64(y)/float64(wh)
	right = left + 2*float64(w)/float64(ww)
	bottom = top - 2*float64(h)/float64(wh)
	return
}

// Node returns the card node.
func (c *TextCard) Node() *Node {
	return c.node
}

// Text returns the current text.
func (c *TextCard) Text() string {
	return c.text
}

// SetText redraws the card with s. Text beyond the card is clipped.
func (c *TextCard) SetText(s string) {
	if s == c.text {
		return
	}
	c.text = s
	c.img.Clear()
	op := &text.DrawOptions{}
	op.LineSpacing = c.font.lh
	op.ColorScale.ScaleWithColor(c.Color.toRGBA())
	text.Draw(c.img, s, c.font.face, op)
}
