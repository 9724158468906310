package inkwell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// runFrames drives the script and key bindings the way Update does.
func runFrames(e *Engine, r *ScriptRunner, max int) int {
	frames := 0
	for ; frames < max && !r.Done(); frames++ {
		r.step(e)
		e.keys.process()
	}
	return frames
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"invalid json", `{"steps": [`},
		{"no steps", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "dance"}]}`},
		{"unknown key", `{"steps": [{"action": "key", "key": "NoSuchKey"}]}`},
	}
	for _, tt := range tests {
		if _, err := LoadScript([]byte(tt.src)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestScriptRunnerKeysAndScreenshots(t *testing.T) {
	e := newTestEngine(ShaderSupportOff)
	e.keys.pressed = func(ebiten.Key) bool { return false }

	var log []string
	e.Accept(ebiten.KeyArrowUp, func() { log = append(log, "up") })
	e.Accept(ebiten.KeyX, func() { log = append(log, "x") })

	r, err := LoadScript([]byte(`{"steps": [
		{"action": "key", "key": "ArrowUp"},
		{"action": "wait", "frames": 3},
		{"action": "key", "key": "X"},
		{"action": "screenshot", "label": "after"}
	]}`))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	e.SetScript(r)

	frames := runFrames(e, r, 100)
	if !r.Done() {
		t.Fatal("script should finish")
	}
	if frames < 6 {
		t.Errorf("finished in %d frames, want at least 6", frames)
	}
	if len(log) != 2 || log[0] != "up" || log[1] != "x" {
		t.Errorf("log = %v, want [up x]", log)
	}
	if len(e.shots) != 1 || e.shots[0].label != "after" || e.shots[0].buffer != nil {
		t.Errorf("screenshots = %+v", e.shots)
	}
}

func TestInjectKey(t *testing.T) {
	e := newTestEngine(ShaderSupportOff)
	e.keys.pressed = func(ebiten.Key) bool { return false }
	count := 0
	e.Accept(ebiten.KeyP, func() { count++ })

	e.InjectKey(ebiten.KeyP)
	e.InjectKey(ebiten.KeyQ)
	e.keys.process()
	e.keys.process()
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestScriptBufferScreenshot(t *testing.T) {
	e := newTestEngine(ShaderSupportOff)
	var errs bytes.Buffer
	e.errOut = &errs
	b := e.Window.MakeTextureBuffer("normals", 8, 8)

	r, err := LoadScript([]byte(`{"steps": [
		{"action": "screenshot", "label": "edges", "buffer": "normals"},
		{"action": "screenshot", "label": "lost", "buffer": "nowhere"}
	]}`))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	runFrames(e, r, 10)
	if len(e.shots) != 1 || e.shots[0].buffer != b || e.shots[0].label != "edges" {
		t.Errorf("screenshots = %+v, want the normals buffer capture", e.shots)
	}
	if !strings.Contains(errs.String(), `no buffer named "nowhere"`) {
		t.Errorf("log = %q", errs.String())
	}
}
