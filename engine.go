package inkwell

import (
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// Config configures an Engine and the window it runs in.
type Config struct {
	Title         string
	Width, Height int
	ClearColor    Color
	// ShaderSupport forces the shader capability answer. The zero value
	// probes the driver.
	ShaderSupport ShaderSupport
	// ShaderDirs are added to the loader's search path in order.
	ShaderDirs []string
	// HotReload watches ShaderDirs and reloads changed programs.
	HotReload     bool
	ScreenshotDir string
	ShowFPS       bool
	Debug         bool
}

// Sort values of the engine's own window regions.
const (
	RenderRegionSort   = 0
	Render2DRegionSort = 10
)

// Engine owns the window, the 3D and 2D scene roots with their cameras, the
// shader loader and the task manager. It implements ebiten.Game.
type Engine struct {
	Window *Window
	// Render is the 3D scene root; Camera renders it.
	Render *Node
	Camera *Camera
	// Render2D is the overlay root with depth test and depth write off; Cam2D
	// renders it with a -1..1 orthographic lens.
	Render2D *Node
	Cam2D    *Camera

	Loader *Loader
	Tasks  *TaskManager

	// ScreenshotDir is the directory where screenshots are saved.
	// Defaults to "screenshots".
	ScreenshotDir string

	title    string
	cameras  []*Camera
	renderer *renderer
	keys     keyRegistry
	script   *ScriptRunner

	shots  []shotRequest
	viewer bool
	debug  bool
	errOut io.Writer
}

// NewEngine creates an engine with its window, scene roots and cameras.
func NewEngine(cfg Config) *Engine {
	w := NewWindow(WindowConfig{
		Width:         cfg.Width,
		Height:        cfg.Height,
		ClearColor:    cfg.ClearColor,
		ShaderSupport: cfg.ShaderSupport,
	})
	e := &Engine{
		Window:        w,
		Render:        NewNode("render"),
		Render2D:      NewNode("render2d"),
		Loader:        NewLoader(),
		Tasks:         &TaskManager{},
		ScreenshotDir: cfg.ScreenshotDir,
		title:         cfg.Title,
		renderer:      newRenderer(),
		errOut:        os.Stderr,
	}
	if e.ScreenshotDir == "" {
		e.ScreenshotDir = "screenshots"
	}

	e.Camera = NewCamera("camera", DefaultLens)
	e.Camera.Node().ReparentTo(e.Render)
	w.MakeDisplayRegion().SetCamera(e.Camera)

	e.Render2D.SetDepthTest(false)
	e.Render2D.SetDepthWrite(false)
	e.Cam2D = NewCamera("cam2d", Lens2D)
	e.Cam2D.Node().ReparentTo(e.Render2D)
	r2d := w.MakeDisplayRegion()
	r2d.SetSort(Render2DRegionSort)
	r2d.SetCamera(e.Cam2D)

	e.cameras = append(e.cameras, e.Camera, e.Cam2D)

	for _, dir := range cfg.ShaderDirs {
		e.Loader.AddSearchDir(dir)
	}
	if cfg.HotReload {
		if err := e.Loader.Watch(); err != nil {
			_, _ = fmt.Fprintf(e.errOut, "[inkwell] %v\n", err)
		}
	}
	if cfg.ShowFPS {
		e.Render2D.AddChild(NewFPSCard(e))
	}
	if cfg.Debug {
		e.SetDebugMode(true)
	}
	return e
}

// MakeCamera creates a camera under Render and binds it to a new display
// region on buffer, or on the window when buffer is nil.
func (e *Engine) MakeCamera(buffer *TextureBuffer, name string, lens Lens) *Camera {
	cam := NewCamera(name, lens)
	cam.Node().ReparentTo(e.Render)
	var reg *DisplayRegion
	if buffer != nil {
		reg = buffer.MakeDisplayRegion()
	} else {
		reg = e.Window.MakeDisplayRegion()
	}
	reg.SetCamera(cam)
	e.cameras = append(e.cameras, cam)
	return cam
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are printed, and per-frame
// timing stats are logged to stderr.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
	globalDebug = enabled
}

// ToggleBufferViewer shows or hides thumbnails of every texture buffer.
func (e *Engine) ToggleBufferViewer() {
	e.viewer = !e.viewer
}

// BufferViewer reports whether buffer thumbnails are shown.
func (e *Engine) BufferViewer() bool {
	return e.viewer
}

// Update advances the script, processes key bindings, advances camera
// animations, applies shader reloads and runs the tasks.
func (e *Engine) Update() error {
	dt := 1.0 / float64(ebiten.TPS())
	e.Loader.PollChanges()
	if e.script != nil {
		e.script.step(e)
	}
	e.keys.process()
	e.stepCameras(float32(dt))
	e.Tasks.Step(dt)
	return nil
}

// stepCameras advances move animations and forgets disposed cameras.
func (e *Engine) stepCameras(dt float32) {
	kept := e.cameras[:0]
	for _, c := range e.cameras {
		if c.node.disposed {
			continue
		}
		c.update(dt)
		kept = append(kept, c)
	}
	clear(e.cameras[len(kept):])
	e.cameras = kept
}

// Draw renders every buffer, then the window regions, onto screen.
func (e *Engine) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	if b.Dx() != e.Window.width || b.Dy() != e.Window.height {
		e.Window.resize(b.Dx(), b.Dy())
	}
	e.renderer.debug = e.debug
	e.renderer.stats = debugStats{}
	e.Window.renderFrame(screen, e.renderer)
	if e.viewer {
		e.Window.drawBufferViewer(screen)
	}
	e.flushScreenshots(screen)
	if e.debug {
		debugLog(e.errOut, e.renderer.stats)
	}
}

// Layout makes the window follow the outside size.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	e.Window.resize(outsideWidth, outsideHeight)
	return e.Window.width, e.Window.height
}

// Run opens the window and runs the engine until it is closed.
func (e *Engine) Run() error {
	if e.title != "" {
		ebiten.SetWindowTitle(e.title)
	}
	ebiten.SetWindowSize(e.Window.width, e.Window.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	defer e.Loader.Close()
	return ebiten.RunGame(e)
}
