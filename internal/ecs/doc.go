// Package ecs provides the entity/component store used by the simulation.
//
// An [Entity] is an identity plus a sparse set of components keyed by
// [Kind]. Bodies, anchors and springs all live in the same [World] and are
// visited together by every system, so systems treat a missing component as
// "not applicable" unless they document otherwise.
//
// Components are plain data held by pointer; systems mutate them in place:
//
//	w := ecs.NewWorld()
//	box := w.CreateEntity("box1")
//	box.Add(&ecs.Position{X: 100, Y: 100})
//	if pos, ok := ecs.Get[*ecs.Position](box); ok {
//	    pos.X += 1
//	}
//
// # Force accumulator contract
//
// [Force] is written by force systems through [Force.Add] only. The movement
// system is its single resetter: it snapshots the sum into [AccumulatedForce]
// and zeroes it once per tick after integrating.
//
// # Thread Safety
//
// World and Entity are NOT thread-safe. One tick runs on one goroutine.
package ecs
