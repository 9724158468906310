package inkwell

import "testing"

func TestNewWindowClampsSize(t *testing.T) {
	w := NewWindow(WindowConfig{Width: 0, Height: -5})
	if gw, gh := w.Size(); gw != 1 || gh != 1 {
		t.Errorf("Size = %dx%d, want 1x1", gw, gh)
	}
}

func TestSupportsShadersOverride(t *testing.T) {
	tests := []struct {
		mode ShaderSupport
		want bool
	}{
		{ShaderSupportOn, true},
		{ShaderSupportOff, false},
	}
	for _, tt := range tests {
		w := NewWindow(WindowConfig{Width: 10, Height: 10, ShaderSupport: tt.mode})
		if got := w.SupportsShaders(); got != tt.want {
			t.Errorf("mode %d: SupportsShaders = %v, want %v", tt.mode, got, tt.want)
		}
		if w.probed {
			t.Errorf("mode %d: override should not probe", tt.mode)
		}
	}
}

func TestMakeTextureBufferAutoSize(t *testing.T) {
	w := NewWindow(WindowConfig{Width: 640, Height: 480})
	tests := []struct {
		name   string
		w, h   int
		wantAS bool
	}{
		{"auto", 0, 0, true},
		{"fixed", 256, 128, false},
		{"half", 256, 0, false},
	}
	for _, tt := range tests {
		b := w.MakeTextureBuffer(tt.name, tt.w, tt.h)
		if b.AutoSize() != tt.wantAS {
			t.Errorf("%s: AutoSize = %v, want %v", tt.name, b.AutoSize(), tt.wantAS)
		}
		if !b.Active {
			t.Errorf("%s: new buffer should be active", tt.name)
		}
	}
}

func TestTextureBuffersOrder(t *testing.T) {
	w := NewWindow(WindowConfig{Width: 10, Height: 10})
	a := w.MakeTextureBuffer("a", 0, 0)
	w.MakeTextureBuffer("b", 0, 0)
	c := w.MakeTextureBuffer("c", 0, 0)
	a.SetSort(5)
	c.SetSort(-1)

	bs := w.TextureBuffers()
	want := []string{"c", "b", "a"}
	for i, name := range want {
		if bs[i].Name != name {
			t.Fatalf("buffer %d = %q, want %q", i, bs[i].Name, name)
		}
	}
}

func TestRemoveTextureBuffer(t *testing.T) {
	w := NewWindow(WindowConfig{Width: 10, Height: 10})
	b := w.MakeTextureBuffer("b", 0, 0)
	r := b.MakeDisplayRegion()
	cam := NewCamera("cam", DefaultLens)
	r.SetCamera(cam)

	if !w.RemoveTextureBuffer(b) {
		t.Fatal("RemoveTextureBuffer should report true")
	}
	if !b.IsDisposed() {
		t.Error("buffer should be disposed")
	}
	if len(cam.Regions()) != 0 {
		t.Error("buffer regions should be unbound")
	}
	if len(w.TextureBuffers()) != 0 {
		t.Error("buffer should leave the window")
	}
	if w.RemoveTextureBuffer(b) {
		t.Error("second remove should report false")
	}
}

func TestTextureCard(t *testing.T) {
	w := NewWindow(WindowConfig{Width: 10, Height: 10})
	b := w.MakeTextureBuffer("buf", 0, 0)
	card := b.TextureCard()
	if card.Type != NodeTypeMesh || card.Mesh == nil {
		t.Fatal("card should be a mesh node")
	}
	if card.textureBuffer != b {
		t.Error("card should track the buffer")
	}
	if !card.TwoSided {
		t.Error("card should be two-sided")
	}
	w.RemoveTextureBuffer(b)
	if card.texture() != nil {
		t.Error("card of a disposed buffer should have no texture")
	}
}

func TestWindowDisplayRegions(t *testing.T) {
	w := NewWindow(WindowConfig{Width: 10, Height: 10})
	a := w.MakeDisplayRegion()
	b := w.MakeDisplayRegion()
	a.SetSort(10)
	rs := w.DisplayRegions()
	if rs[0] != b || rs[1] != a {
		t.Error("regions should be in sort order")
	}
	if !w.RemoveDisplayRegion(a) || len(w.DisplayRegions()) != 1 {
		t.Error("RemoveDisplayRegion failed")
	}
}
