package inkwell

import (
	"encoding/json"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// scriptStep is a single action in a script.
type scriptStep struct {
	Action string     `json:"action"`
	Label  string     `json:"label,omitempty"`
	Key    ebiten.Key `json:"key,omitempty"`
	Frames int        `json:"frames,omitempty"`
	// Buffer names a texture buffer to capture instead of the frame.
	Buffer string `json:"buffer,omitempty"`
}

// scriptFile is the top-level JSON structure of a script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner replays key presses and screenshots across frames, for
// recording the effect without a person at the keyboard. Attach it with
// Engine.SetScript.
//
//	{"steps": [
//	  {"action": "wait", "frames": 30},
//	  {"action": "key", "key": "ArrowUp"},
//	  {"action": "screenshot", "label": "thicker"},
//	  {"action": "screenshot", "label": "thicker", "buffer": "normals"}
//	]}
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "key", "screenshot", "wait":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: f.Steps}, nil
}

// SetScript attaches a runner. It advances once per Update, before key
// bindings are processed.
func (e *Engine) SetScript(r *ScriptRunner) {
	e.script = r
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(e *Engine) {
	if r.done {
		return
	}
	// Let injected keys fire before advancing.
	if len(e.keys.injected) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		if st.Buffer == "" {
			e.Screenshot(st.Label)
		} else if b := e.bufferNamed(st.Buffer); b != nil {
			e.ScreenshotBuffer(st.Label, b)
		} else {
			_, _ = fmt.Fprintf(e.errOut, "[inkwell] script: no buffer named %q\n", st.Buffer)
		}
	case "key":
		e.InjectKey(st.Key)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(e.keys.injected) == 0 {
		r.done = true
	}
}
