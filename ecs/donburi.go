package ecs

import (
	"github.com/phanxgames/inkwell"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// PaintEventType is the Donburi event type for inkwell paint events.
var PaintEventType = events.NewEventType[inkwell.PaintEvent]()

// PaintedNode is the component data of an entity tracking a painted node.
type PaintedNode struct {
	NodeID uint32
	Name   string
}

// PaintedComponent marks entities created by TrackPainted.
var PaintedComponent = donburi.NewComponentType[PaintedNode]()

var paintedQuery = donburi.NewQuery(filter.Contains(PaintedComponent))

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates a PaintEventSink backed by a Donburi world.
// Events are published to PaintEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) inkwell.PaintEventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitPaintEvent(event inkwell.PaintEvent) {
	PaintEventType.Publish(s.world, event)
}

// TrackPainted subscribes to PaintEventType so that every painted node has
// an entity with PaintedComponent. The entity is removed when the node is
// unpainted or pruned. Entities change when events are processed.
func TrackPainted(world donburi.World) {
	PaintEventType.Subscribe(world, func(w donburi.World, e inkwell.PaintEvent) {
		switch e.Kind {
		case inkwell.PaintEventPainted:
			if findPainted(w, e.NodeID) != nil {
				return
			}
			entry := w.Entry(w.Create(PaintedComponent))
			PaintedComponent.SetValue(entry, PaintedNode{NodeID: e.NodeID, Name: e.Name})
		case inkwell.PaintEventUnpainted, inkwell.PaintEventPruned:
			if entry := findPainted(w, e.NodeID); entry != nil {
				w.Remove(entry.Entity())
			}
		}
	})
}

// PaintedCount returns the number of tracked painted nodes.
func PaintedCount(world donburi.World) int {
	return paintedQuery.Count(world)
}

func findPainted(w donburi.World, id uint32) *donburi.Entry {
	var found *donburi.Entry
	paintedQuery.Each(w, func(entry *donburi.Entry) {
		if found == nil && PaintedComponent.Get(entry).NodeID == id {
			found = entry
		}
	})
	return found
}
