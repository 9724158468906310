// Package ecs provides ECS adapters for inkwell's paint events.
//
// The primary adapter is [NewDonburiSink], which bridges painter events
// (painted, unpainted, pruned) into a [Donburi] world as typed events.
// Subscribe to [PaintEventType] in your ECS systems to receive them, or call
// [TrackPainted] to keep one entity per painted node.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	painter.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
