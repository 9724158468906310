package inkwell

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

// --- Projection ---

func TestProjectCenter(t *testing.T) {
	cam := NewCamera("cam", DefaultLens)
	x, y, ok := cam.Project(Vec3{0, 0, -10}, 800, 600)
	if !ok {
		t.Fatal("point in front should project")
	}
	if !approxEqual(x, 400, 1e-6) || !approxEqual(y, 300, 1e-6) {
		t.Errorf("Project = (%v, %v), want (400, 300)", x, y)
	}
}

func TestProjectBehind(t *testing.T) {
	cam := NewCamera("cam", DefaultLens)
	if _, _, ok := cam.Project(Vec3{0, 0, 10}, 800, 600); ok {
		t.Error("point behind the camera should not project")
	}
}

func TestProjectYUp(t *testing.T) {
	cam := NewCamera("cam", DefaultLens)
	_, y, _ := cam.Project(Vec3{0, 1, -10}, 800, 600)
	if y >= 300 {
		t.Errorf("y = %v, want above center", y)
	}
}

func TestProjectFollowsCameraNode(t *testing.T) {
	cam := NewCamera("cam", DefaultLens)
	cam.Node().SetPos(5, 0, 0)
	x, _, ok := cam.Project(Vec3{5, 0, -10}, 800, 600)
	if !ok || !approxEqual(x, 400, 1e-6) {
		t.Errorf("x = %v, want 400", x)
	}
}

func TestOrthographicProjection(t *testing.T) {
	cam := NewCamera("cam", Lens2D)
	tests := []struct {
		p      Vec3
		wx, wy float64
	}{
		{Vec3{0, 0, 0}, 50, 50},
		{Vec3{-1, 1, 0}, 0, 0},
		{Vec3{1, -1, 0}, 100, 100},
	}
	for _, tt := range tests {
		x, y, ok := cam.Project(tt.p, 100, 100)
		if !ok || !approxEqual(x, tt.wx, 1e-9) || !approxEqual(y, tt.wy, 1e-9) {
			t.Errorf("Project(%v) = (%v, %v), want (%v, %v)", tt.p, x, y, tt.wx, tt.wy)
		}
	}
}

func TestPerspectiveFOV(t *testing.T) {
	// A point on the top edge of a 90 degree frustum lands on row 0.
	cam := NewCamera("cam", NewPerspectiveLens(math.Pi/2, 0.1, 100))
	_, y, _ := cam.Project(Vec3{0, 10, -10}, 100, 100)
	if !approxEqual(y, 0, 1e-9) {
		t.Errorf("y = %v, want 0", y)
	}
}

func TestLensIsCopied(t *testing.T) {
	a := NewCamera("a", DefaultLens)
	b := NewCamera("b", DefaultLens)
	b.SetLens(a.Lens())
	l := a.Lens()
	l.FOV = 1
	if a.Lens().FOV == 1 || b.Lens().FOV == 1 {
		t.Error("lens should be a value copy")
	}
}

// --- Scene ---

func TestCameraSceneDefaultsToTop(t *testing.T) {
	root := NewNode("root")
	cam := NewCamera("cam", DefaultLens)
	root.AddChild(cam.Node())
	if cam.Scene() != root {
		t.Error("Scene should default to the camera's top node")
	}
	other := NewNode("other")
	cam.SetScene(other)
	if cam.Scene() != other {
		t.Error("SetScene should override")
	}
}

// --- Tag state ---

func TestTagStateFor(t *testing.T) {
	cam := NewCamera("cam", DefaultLens)
	st := ShaderState(&Shader{ID: "toon"})
	cam.SetTagStateKey("k")
	cam.SetTagState("on", st)

	tagged := NewNode("tagged")
	tagged.SetTag("k", "on")
	other := NewNode("other")
	other.SetTag("k", "off")

	tests := []struct {
		name string
		n    *Node
		want *RenderState
	}{
		{"matching", tagged, st},
		{"other value", other, nil},
		{"untagged", NewNode("plain"), nil},
	}
	for _, tt := range tests {
		if got := cam.tagStateFor(tt.n); got != tt.want {
			t.Errorf("%s: tagStateFor = %p, want %p", tt.name, got, tt.want)
		}
	}

	cam.ClearTagState("on")
	if cam.tagStateFor(tagged) != nil {
		t.Error("cleared tag state should not apply")
	}
}

// --- MoveTo ---

func TestMoveTo(t *testing.T) {
	cam := NewCamera("cam", DefaultLens)
	cam.MoveTo(Vec3{10, 0, 0}, 1, ease.Linear)
	if !cam.IsMoving() {
		t.Fatal("camera should be moving")
	}
	cam.update(0.5)
	if !approxEqual(cam.Node().Pos.X, 5, 1e-4) {
		t.Errorf("Pos.X = %v, want 5", cam.Node().Pos.X)
	}
	cam.update(0.5)
	if cam.IsMoving() {
		t.Error("move should be done")
	}
	if !approxEqual(cam.Node().Pos.X, 10, 1e-4) {
		t.Errorf("Pos.X = %v, want 10", cam.Node().Pos.X)
	}
}
