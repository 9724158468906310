package inkwell

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPosition(t *testing.T) {
	n := NewNode("n")
	g := TweenPosition(n, Vec3{10, 20, -30}, 1, ease.Linear)

	g.Update(0.5)
	if !vecApprox(n.Pos, Vec3{5, 10, -15}, 1e-4) {
		t.Errorf("Pos = %v, want halfway", n.Pos)
	}
	if g.Done {
		t.Error("tween should not be done halfway")
	}
	g.Update(0.5)
	if !g.Done || !vecApprox(n.Pos, Vec3{10, 20, -30}, 1e-4) {
		t.Errorf("Pos = %v, done = %v", n.Pos, g.Done)
	}
	if !n.transformDirty {
		t.Error("tween should mark the node dirty")
	}
}

func TestTweenScale(t *testing.T) {
	n := NewNode("n")
	g := TweenScale(n, Vec3{3, 3, 3}, 2, ease.Linear)
	g.Update(1)
	if !vecApprox(n.Scale, Vec3{2, 2, 2}, 1e-4) {
		t.Errorf("Scale = %v, want (2,2,2)", n.Scale)
	}
}

func TestTweenHeading(t *testing.T) {
	n := NewNode("n")
	g := TweenHeading(n, 0, 2, 1, ease.Linear)
	g.Update(0.5)
	if !n.Quat.AlmostEqual(QuatFromHPR(1, 0, 0), 1e-6) {
		t.Errorf("Quat = %v, want heading 1", n.Quat)
	}
}

func TestTweenValue(t *testing.T) {
	var got []float64
	g := TweenValue(0, 1, 1, ease.Linear, func(v float64) { got = append(got, v) })
	g.Update(0.25)
	g.Update(0.75)
	if len(got) != 2 || !approxEqual(got[0], 0.25, 1e-6) || !approxEqual(got[1], 1, 1e-6) {
		t.Errorf("values = %v", got)
	}
	if !g.Done {
		t.Error("tween should be done")
	}
}

func TestTweenStopsOnDisposedNode(t *testing.T) {
	n := NewNode("n")
	g := TweenPosition(n, Vec3{10, 0, 0}, 1, ease.Linear)
	n.Dispose()
	g.Update(0.5)
	if !g.Done {
		t.Error("tween on a disposed node should finish")
	}
	if n.Pos.X != 0 {
		t.Error("disposed node should not be written")
	}
}

func TestRunTween(t *testing.T) {
	tests := []struct {
		name     string
		loop     bool
		wantTask bool
	}{
		{"once", false, false},
		{"loop", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(ShaderSupportOff)
			var v float64
			g := TweenValue(0, 1, 1, ease.Linear, func(x float64) { v = x })
			e.RunTween("tween", g, tt.loop)

			e.Tasks.Step(1)
			if !approxEqual(v, 1, 1e-6) {
				t.Errorf("v = %v, want 1", v)
			}
			if e.Tasks.Has("tween") != tt.wantTask {
				t.Errorf("task scheduled = %v, want %v", e.Tasks.Has("tween"), tt.wantTask)
			}
			if tt.loop {
				e.Tasks.Step(0.5)
				if !approxEqual(v, 0.5, 1e-6) {
					t.Errorf("looped v = %v, want 0.5", v)
				}
			}
		})
	}
}

func TestRunTweenEndsWithDisposedTarget(t *testing.T) {
	e := newTestEngine(ShaderSupportOff)
	n := e.Render.AttachNewNode("spinner")
	e.RunTween("spin", TweenHeading(n, 0, 6, 1, ease.Linear), true)
	n.Dispose()
	e.Tasks.Step(0.1)
	if e.Tasks.Has("spin") {
		t.Error("looping tween on a disposed node should end")
	}
}
