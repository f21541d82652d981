// Package ringfield implements the tempo-locked multi-ring rotation model.
//
// A Field owns an ordered set of rings. Every ring spins at an integer
// multiple of one base angular frequency derived from the tempo, so the
// whole field returns to its starting configuration once per measure.
// Step advances time, ProjectRing turns a ring into closed 2D contours and
// BeatPulse exposes a decaying envelope synchronized to beat boundaries.
//
// Configuration is mutated only through setters that clamp their inputs,
// which keeps Step and ProjectRing free of runtime error handling.
package ringfield
