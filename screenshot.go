package inkwell

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// shotRequest is a pending capture. A nil buffer captures the final frame.
type shotRequest struct {
	label  string
	buffer *TextureBuffer
}

// Screenshot queues a capture of the final frame, written as a PNG to
// ScreenshotDir once the frame is drawn.
func (e *Engine) Screenshot(label string) {
	e.shots = append(e.shots, shotRequest{label: label})
}

// ScreenshotBuffer queues a capture of b's texture as rendered this frame,
// for example the painter's normal buffer.
func (e *Engine) ScreenshotBuffer(label string, b *TextureBuffer) {
	if b == nil {
		return
	}
	e.shots = append(e.shots, shotRequest{label: label, buffer: b})
}

// bufferNamed returns the window's buffer called name, or nil.
func (e *Engine) bufferNamed(name string) *TextureBuffer {
	for _, b := range e.Window.buffers {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// flushScreenshots writes every queued capture. Called at the end of Draw.
func (e *Engine) flushScreenshots(screen *ebiten.Image) {
	if len(e.shots) == 0 {
		return
	}
	shots := e.shots
	e.shots = e.shots[:0]

	if err := os.MkdirAll(e.ScreenshotDir, 0o755); err != nil {
		_, _ = fmt.Fprintf(e.errOut, "[inkwell] screenshot: %v\n", err)
		return
	}
	stamp := time.Now().Format("20060102_150405")
	var frame image.Image
	for _, s := range shots {
		var img image.Image
		switch {
		case s.buffer == nil:
			if frame == nil {
				frame = readStraightAlpha(screen)
			}
			img = frame
		case s.buffer.disposed || s.buffer.image == nil:
			_, _ = fmt.Fprintf(e.errOut, "[inkwell] screenshot %q: buffer %s has no image\n", s.label, s.buffer.Name)
			continue
		default:
			img = readStraightAlpha(s.buffer.image)
		}
		if err := writePNG(filepath.Join(e.ScreenshotDir, shotFileName(stamp, s)), img); err != nil {
			_, _ = fmt.Fprintf(e.errOut, "[inkwell] screenshot: %v\n", err)
		}
	}
}

// shotFileName is "<stamp>_<label>.png", with the buffer name appended for
// buffer captures.
func shotFileName(stamp string, s shotRequest) string {
	name := stamp + "_" + sanitizeLabel(s.label)
	if s.buffer != nil {
		name += "_" + sanitizeLabel(s.buffer.Name)
	}
	return name + ".png"
}

// readStraightAlpha reads src back. Ebitengine stores premultiplied alpha;
// drawing into an NRGBA image converts it.
func readStraightAlpha(src *ebiten.Image) *image.NRGBA {
	b := src.Bounds()
	premul := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	src.ReadPixels(premul.Pix)
	out := image.NewNRGBA(premul.Rect)
	draw.Draw(out, out.Rect, premul, image.Point{}, draw.Src)
	return out
}

// writePNG encodes img to a new file at path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.', replacing everything
// else with '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
