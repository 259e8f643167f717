// Package store provides SQLite-backed storage for parsed motions.
//
// Tables:
//   - motions: one row per motion, keyed by its content-addressed ID
//   - keyframes: cumulative time per keyframe, ordered by seq
//   - joint_values: position and stiffness entries per keyframe, ordered by ord
//
// Writes are idempotent on motion ID. Reads return keyframes in seq order and
// vector entries in their original order, so a motion round-trips unchanged.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity and cascading deletes
package store
