// Package player turns keyframe sequences into timed joint commands.
//
// The player stands in for the publishing node of a robot: it walks the
// keyframes of a motion and hands one Command per keyframe to a Sink. A
// keyframe's command is released at the cumulative time of the keyframe
// before it (0 for the first), so the joint controller has the whole frame
// duration to reach the target. The player never interpolates between
// keyframes.
//
// All timing goes through a Clock so playback can be tested without waiting.
// Each playback is tagged with a run ID (UUIDv7 by default) so commands from
// overlapping playbacks can be told apart downstream.
package player
