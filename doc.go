// Package inkwell renders selected nodes of a 3D scene with cartoon shading
// and ink outlines on [Ebitengine].
//
// The package has two layers. The engine layer is a small retained-mode 3D
// scene graph: [Node], [Camera], [DisplayRegion], [TextureBuffer], [Window],
// Kage programs loaded through a [Loader], and a [TaskManager] that runs
// per-frame callbacks. [Engine] ties them together and implements
// [ebiten.Game].
//
// The [Painter] sits on top. Painting a node stashes it in the main scene and
// instances it into a shadow scene, which two extra window regions render
// before the main scene: a toon pass that quantizes lighting into bands, and
// an inking pass that draws outlines detected in a normal-encoded buffer.
//
// # Quick start
//
//	e := inkwell.NewEngine(inkwell.Config{Title: "toon", Width: 800, Height: 600})
//	box := inkwell.NewMeshNode("box", inkwell.NewBoxMesh(1, 1, 1))
//	e.Render.AddChild(box)
//	e.Camera.Node().SetPos(0, 1, 6)
//
//	p := inkwell.NewPainter(e, inkwell.DefaultPainterConfig())
//	p.Paint(box)
//
//	if err := e.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// # Render order
//
// Each frame the window renders its texture buffers first, in ascending
// buffer sort, then clears the screen and renders its own display regions in
// ascending region sort. The painter's toon region sorts at Sort-1 and its
// inking region at Sort, so with the default Sort of -1 both resolve before
// the main 3D region at 0 and the 2D overlay at 10.
//
// # Render state
//
// During a pass a node's state is composed from the camera's initial state,
// then every node state from the root down, then the camera's tag state when
// the node carries the camera's tag-state key. Shader inputs are inherited by
// name.
//
// Paint events can be forwarded to a [Donburi] world with the adapter in
// inkwell/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package inkwell
