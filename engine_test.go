package inkwell

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestNewEngineDefaults(t *testing.T) {
	e := newTestEngine(ShaderSupportOff)

	if e.Camera.Node().Parent != e.Render {
		t.Error("main camera should be under Render")
	}
	if e.Cam2D.Node().Parent != e.Render2D {
		t.Error("2D camera should be under Render2D")
	}
	if e.Camera.Lens() != DefaultLens || e.Cam2D.Lens() != Lens2D {
		t.Error("engine cameras should use the default lenses")
	}
	if on, ok := e.Render2D.State().DepthTest(); on || !ok {
		t.Error("Render2D should disable depth test")
	}

	rs := e.Window.DisplayRegions()
	if len(rs) != 2 {
		t.Fatalf("regions = %d, want 2", len(rs))
	}
	if rs[0].Camera() != e.Camera || rs[0].Sort() != RenderRegionSort {
		t.Error("main region should render first at sort 0")
	}
	if rs[1].Camera() != e.Cam2D || rs[1].Sort() != Render2DRegionSort {
		t.Error("2D region should render last")
	}
}

func TestNewEngineShaderDirs(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	e := NewEngine(Config{Width: 10, Height: 10, ShaderDirs: []string{a, b}})
	if dirs := e.Loader.SearchDirs(); len(dirs) != 2 || dirs[0] != a || dirs[1] != b {
		t.Errorf("SearchDirs = %v", dirs)
	}
}

func TestMakeCamera(t *testing.T) {
	e := newTestEngine(ShaderSupportOff)
	buf := e.Window.MakeTextureBuffer("buf", 64, 64)

	onBuf := e.MakeCamera(buf, "buf_cam", DefaultLens)
	if regs := buf.DisplayRegions(); len(regs) != 1 || regs[0].Camera() != onBuf {
		t.Error("camera should be bound to a region on the buffer")
	}
	if onBuf.Node().Parent != e.Render {
		t.Error("camera should be parented under Render")
	}

	before := len(e.Window.DisplayRegions())
	onWin := e.MakeCamera(nil, "win_cam", DefaultLens)
	if got := len(e.Window.DisplayRegions()); got != before+1 {
		t.Errorf("window regions = %d, want %d", got, before+1)
	}
	if len(onWin.Regions()) != 1 {
		t.Error("window camera should own one region")
	}
}

func TestStepCamerasForgetsDisposed(t *testing.T) {
	e := newTestEngine(ShaderSupportOff)
	cam := e.MakeCamera(nil, "extra", DefaultLens)
	cam.MoveTo(Vec3{0, 0, 1}, 1, ease.Linear)
	n := len(e.cameras)

	e.stepCameras(0.5)
	if !approxEqual(cam.Node().Pos.Z, 0.5, 1e-4) {
		t.Errorf("Pos.Z = %v, want 0.5", cam.Node().Pos.Z)
	}

	cam.Node().Dispose()
	e.stepCameras(0.5)
	if len(e.cameras) != n-1 {
		t.Errorf("cameras = %d, want %d", len(e.cameras), n-1)
	}
}

func TestLayoutResizesWindow(t *testing.T) {
	e := newTestEngine(ShaderSupportOff)
	w, h := e.Layout(1024, 768)
	if w != 1024 || h != 768 {
		t.Errorf("Layout = %dx%d", w, h)
	}
	if gw, gh := e.Window.Size(); gw != 1024 || gh != 768 {
		t.Errorf("window = %dx%d", gw, gh)
	}
}

func TestToggleBufferViewer(t *testing.T) {
	e := newTestEngine(ShaderSupportOff)
	e.ToggleBufferViewer()
	if !e.BufferViewer() {
		t.Error("viewer should be on")
	}
	e.ToggleBufferViewer()
	if e.BufferViewer() {
		t.Error("viewer should be off")
	}
}
