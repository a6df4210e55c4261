// Package sampler exports accumulated-force samples from the simulation to
// chart and recording sinks.
//
// The [Sampler] system runs two independent cadences: it samples every
// SamplingRate ticks, and it flushes the pending buffer to its sinks only
// when UpdateInterval of wall-clock time has passed since the last flush.
// Ticks and flushes are deliberately not tied together.
package sampler
