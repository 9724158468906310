package inkwell

// OutlineCompositor is the full-screen card that turns the normal buffer into
// ink lines. The card is white with zero alpha; the inking program writes
// alpha only where it detects an edge.
type OutlineCompositor struct {
	card *Node
}

func newOutlineCompositor(normals *NormalBuffer, render2d *Node, inking *Shader, ink InkParameters) *OutlineCompositor {
	o := &OutlineCompositor{card: normals.buffer.TextureCard()}
	o.card.SetTransparency(true)
	o.card.SetColor(Color{1, 1, 1, 0})
	render2d.AddChild(o.card)
	o.card.SetShader(inking)
	o.setSeparation(ink.Separation)
	o.setCutoff(ink.Cutoff)
	return o
}

// Card returns the outline card node.
func (o *OutlineCompositor) Card() *Node {
	return o.card
}

// setSeparation binds the sample offsets (s, 0) and (0, s) as (s, 0, s, 0).
func (o *OutlineCompositor) setSeparation(s float64) {
	o.card.SetShaderInput(inputSeparation, Vec4Input(s, 0, s, 0))
}

func (o *OutlineCompositor) setCutoff(c float64) {
	o.card.SetShaderInput(inputCutoff, ScalarInput(c))
}
