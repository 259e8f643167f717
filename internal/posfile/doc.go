// Package posfile parses pos files into validated keyframe sequences.
//
// A pos file is line oriented. The first character of each line decides its
// kind:
//
//	$ s0 s1 ... sN-1        stiffness line: per-joint stiffness or "-"
//	! p0 p1 ... pN-1 D      position line: per-joint degrees or "-", then duration D
//
// Every other line is ignored. Angles are converted to radians. Durations are
// deltas; each KeyFrame stores the running total.
//
// RULES:
//
// Stiffness lines buffer values until the next position line consumes them.
// Without a pending stiffness line, every positioned joint gets the default
// stiffness. With one, its joint indexes must equal the position indexes.
//
// Every position line must name exactly the joints the first one named, in
// the same order.
//
// Parsing is fail-fast: the first error ends the parse and the partial
// keyframe list must be discarded. Parse performs no I/O and keeps no state
// between calls, so independent calls may run concurrently.
package posfile
