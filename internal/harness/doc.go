// Package harness runs pos file conformance scenarios.
//
// A scenario is a YAML file holding pos file lines and the expected outcome:
//
//	name: default_stiffness
//	description: joints without a stiffness line get stiffness 1.0
//	joint_count: 3
//	lines:
//	  - "! 0 0 - 100"
//	  - "! 0 0 - 100"
//	expect:
//	  ok: true
//	  keyframes: 2
//	  times: [100, 200]
//
// Failing scenarios name the error code and, optionally, the line:
//
//	expect:
//	  ok: false
//	  error: STIFFNESS_POSITION_MISMATCH
//	  line: 2
//
// Successful parses are also written to an in-memory store and read back,
// so every passing scenario checks storage round-tripping too.
//
// RunWithGolden snapshots the canonical keyframe JSON under
// testdata/golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
