package inkwell

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsCardTask is the name of the task that refreshes the FPS card.
const fpsCardTask = "inkwell.fps"

// NewFPSCard creates a Render2D card in the top-left corner showing the
// current FPS and TPS. A task redraws it every ~0.5 seconds.
func NewFPSCard(e *Engine) *Node {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	img := ebiten.NewImage(100, 32)

	w, h := e.Window.Size()
	sx := 100 / float64(w)
	sy := 32 / float64(h)
	node := NewMeshNode("fps_card", NewCardMesh(-1, -1+2*sx, 1-2*sy, 1))
	node.Texture = img
	node.TwoSided = true
	node.SetTransparency(true)

	var lastUpdate float64
	e.Tasks.AddSorted(fpsCardTask, 1000, func(dt float64) TaskStatus {
		if node.IsDisposed() {
			return TaskDone
		}
		lastUpdate += dt
		if lastUpdate < 0.5 {
			return TaskCont
		}
		lastUpdate = 0

		// Semi-transparent background for readability
		img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
		return TaskCont
	})
	return node
}
