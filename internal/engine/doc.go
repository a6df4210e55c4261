// Package engine runs the ordered list of systems over a world, one tick
// at a time.
//
// A tick invokes every registered [System] once, in registration order, on
// the calling goroutine. Nothing decouples ticks from wall-clock time: one
// call to [Engine.Tick] is one simulation step, and the caller decides the
// frame rate.
//
// Systems that implement [Phased] are checked at registration so that force
// accumulation, integration and observation cannot be registered out of
// order.
package engine
