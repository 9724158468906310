package inkwell

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Create one via
// the convenience constructors (TweenPosition, TweenScale, TweenValue) and
// call Update(dt) each frame, or hand it to Engine.RunTween. If the target
// node is disposed, the group stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	set    func(float64)
	target *Node
	Done   bool
}

// Update advances all tweens by dt seconds, writes values to the target fields,
// and marks the node dirty. If the target node has been disposed, Done is set
// to true and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		if g.set != nil {
			g.set(float64(val))
		} else {
			*g.fields[i] = float64(val)
		}
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
}

func tweenVec3(node *Node, v *Vec3, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3, target: node}
	g.tweens[0] = gween.New(float32(v.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(v.Y), float32(to.Y), duration, fn)
	g.tweens[2] = gween.New(float32(v.Z), float32(to.Z), duration, fn)
	g.fields[0] = &v.X
	g.fields[1] = &v.Y
	g.fields[2] = &v.Z
	return g
}

// TweenPosition creates a TweenGroup that animates node.Pos to the given
// target over the specified duration using the easing function.
func TweenPosition(node *Node, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(node, &node.Pos, to, duration, fn)
}

// TweenScale creates a TweenGroup that animates node.Scale to the given
// target over the specified duration using the easing function.
func TweenScale(node *Node, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(node, &node.Scale, to, duration, fn)
}

// TweenHeading creates a TweenGroup that turns node about its Y axis from
// heading `from` to `to` (radians).
func TweenHeading(node *Node, from, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(float32(from), float32(to), duration, fn)
	g.set = func(h float64) { node.SetHPR(h, 0, 0) }
	return g
}

// TweenValue creates a TweenGroup that calls set with values running from
// `from` to `to`. Use it for parameters behind setters, such as
// Painter.SetCutoff.
func TweenValue(from, to float64, duration float32, fn ease.TweenFunc, set func(float64)) *TweenGroup {
	g := &TweenGroup{count: 1, set: set}
	g.tweens[0] = gween.New(float32(from), float32(to), duration, fn)
	return g
}

// RunTween advances g every frame until it is done. loop restarts the group
// when it finishes.
func (e *Engine) RunTween(name string, g *TweenGroup, loop bool) *Task {
	return e.Tasks.Add(name, func(dt float64) TaskStatus {
		g.Update(float32(dt))
		if !g.Done {
			return TaskCont
		}
		if loop && (g.target == nil || !g.target.IsDisposed()) {
			for i := 0; i < g.count; i++ {
				g.tweens[i].Reset()
			}
			g.Done = false
			return TaskCont
		}
		return TaskDone
	})
}
