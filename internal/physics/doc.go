// Package physics provides the per-tick force and integration systems.
//
// Each system implements [engine.System] and walks every entity of the
// world, acting only on entities that carry the components it needs:
//
//   - [SpringSystem]: spring forces between linked endpoints
//   - [FrictionSystem]: velocity-proportional friction
//   - [DragSystem]: pointer pull toward a drag target
//   - [MovementSystem]: semi-implicit Euler integration and force reset
//
// Force systems only add into [ecs.Force]. [MovementSystem] must run after
// all of them; the engine enforces this through [engine.Phase].
//
// # Example
//
//	eng := engine.New(world)
//	eng.AddSystem(physics.NewSpringSystem())
//	eng.AddSystem(physics.NewFrictionSystem())
//	eng.AddSystem(physics.NewDragSystem(physics.DefaultDragStrength, physics.DefaultDragDamping))
//	eng.AddSystem(physics.NewMovementSystem())
package physics
