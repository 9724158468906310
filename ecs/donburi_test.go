package ecs

import (
	"testing"

	"github.com/phanxgames/inkwell"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	if NewDonburiSink(world) == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_ImplementsPaintEventSink(t *testing.T) {
	var sink inkwell.PaintEventSink = NewDonburiSink(donburi.NewWorld())
	_ = sink // compile-time interface check
}

func TestDonburiSink_EmitPaintEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []inkwell.PaintEvent
	PaintEventType.Subscribe(world, func(w donburi.World, e inkwell.PaintEvent) {
		received = append(received, e)
	})

	sink.EmitPaintEvent(inkwell.PaintEvent{Kind: inkwell.PaintEventPainted, NodeID: 42, Name: "hero"})
	sink.EmitPaintEvent(inkwell.PaintEvent{Kind: inkwell.PaintEventUnpainted, NodeID: 42, Name: "hero"})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatal("events should not be delivered before processing")
	}
	PaintEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if e := received[0]; e.Kind != inkwell.PaintEventPainted || e.NodeID != 42 || e.Name != "hero" {
		t.Errorf("event 0: %+v", e)
	}
	if received[1].Kind != inkwell.PaintEventUnpainted {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestTrackPainted(t *testing.T) {
	world := donburi.NewWorld()
	TrackPainted(world)
	sink := NewDonburiSink(world)

	tests := []struct {
		name  string
		event inkwell.PaintEvent
		want  int
	}{
		{"paint a", inkwell.PaintEvent{Kind: inkwell.PaintEventPainted, NodeID: 1, Name: "a"}, 1},
		{"paint b", inkwell.PaintEvent{Kind: inkwell.PaintEventPainted, NodeID: 2, Name: "b"}, 2},
		{"repeat a", inkwell.PaintEvent{Kind: inkwell.PaintEventPainted, NodeID: 1, Name: "a"}, 2},
		{"unpaint a", inkwell.PaintEvent{Kind: inkwell.PaintEventUnpainted, NodeID: 1, Name: "a"}, 1},
		{"prune b", inkwell.PaintEvent{Kind: inkwell.PaintEventPruned, NodeID: 2, Name: "b"}, 0},
		{"unpaint unknown", inkwell.PaintEvent{Kind: inkwell.PaintEventUnpainted, NodeID: 9}, 0},
	}
	for _, tt := range tests {
		sink.EmitPaintEvent(tt.event)
		events.ProcessAllEvents(world)
		if got := PaintedCount(world); got != tt.want {
			t.Errorf("%s: PaintedCount = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestTrackPainted_ComponentData(t *testing.T) {
	world := donburi.NewWorld()
	TrackPainted(world)
	NewDonburiSink(world).EmitPaintEvent(inkwell.PaintEvent{Kind: inkwell.PaintEventPainted, NodeID: 7, Name: "figure"})
	PaintEventType.ProcessEvents(world)

	entry := findPainted(world, 7)
	if entry == nil {
		t.Fatal("no entity for node 7")
	}
	if got := PaintedComponent.Get(entry); got.Name != "figure" {
		t.Errorf("component = %+v", *got)
	}
}

func TestTrackPainted_WithPainter(t *testing.T) {
	world := donburi.NewWorld()
	TrackPainted(world)

	e := inkwell.NewEngine(inkwell.Config{Width: 64, Height: 64, ShaderSupport: inkwell.ShaderSupportOn})
	p := inkwell.NewPainter(e, inkwell.DefaultPainterConfig())
	p.SetEventSink(NewDonburiSink(world))

	a := e.Render.AttachNewNode("a")
	b := e.Render.AttachNewNode("b")
	p.Paint(a)
	p.Paint(b)
	PaintEventType.ProcessEvents(world)
	if got := PaintedCount(world); got != 2 {
		t.Fatalf("PaintedCount = %d, want 2", got)
	}

	p.Unpaint(a)
	b.Dispose()
	e.Tasks.Step(1.0 / 60)
	PaintEventType.ProcessEvents(world)
	if got := PaintedCount(world); got != 0 {
		t.Errorf("PaintedCount = %d, want 0 after unpaint and prune", got)
	}
}
