package inkwell

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// --- Key bindings ---

type keyHandler struct {
	id  uint32
	key ebiten.Key
	fn  func()
}

type keyRegistry struct {
	handlers []keyHandler
	nextID   uint32
	// pressed overrides inpututil in tests.
	pressed func(ebiten.Key) bool
	// injected keys count as pressed on the next process call.
	injected []ebiten.Key
}

// KeyHandle allows removing a key binding.
type KeyHandle struct {
	id  uint32
	reg *keyRegistry
}

// Remove unregisters the binding so it no longer fires.
func (h KeyHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.handlers
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = keyHandler{}
			h.reg.handlers = s[:len(s)-1]
			return
		}
	}
}

// Accept calls fn on the frame key is pressed. Bindings fire in the order
// they were added.
func (e *Engine) Accept(key ebiten.Key, fn func()) KeyHandle {
	e.keys.nextID++
	id := e.keys.nextID
	e.keys.handlers = append(e.keys.handlers, keyHandler{id: id, key: key, fn: fn})
	return KeyHandle{id: id, reg: &e.keys}
}

// InjectKey queues a synthetic press of key. Bindings for it fire on the
// next Update as if the key had gone down.
func (e *Engine) InjectKey(key ebiten.Key) {
	e.keys.injected = append(e.keys.injected, key)
}

// process fires bindings whose key went down this frame, then bindings for
// injected keys.
func (r *keyRegistry) process() {
	pressed := r.pressed
	if pressed == nil {
		pressed = inpututil.IsKeyJustPressed
	}
	for i := 0; i < len(r.handlers); i++ {
		h := r.handlers[i]
		if pressed(h.key) {
			h.fn()
		}
	}
	if len(r.injected) == 0 {
		return
	}
	injected := r.injected
	r.injected = nil
	for _, k := range injected {
		for i := 0; i < len(r.handlers); i++ {
			if h := r.handlers[i]; h.key == k {
				h.fn()
			}
		}
	}
}
