package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"

	"github.com/roach88/posfile/internal/motion"
	"github.com/roach88/posfile/internal/posfile"
)

// Vector kinds stored in joint_values.kind.
const (
	kindPosition  = "position"
	kindStiffness = "stiffness"
)

// WriteMotion stores a motion and all of its keyframes in one transaction.
//
// Uses ON CONFLICT(id) DO NOTHING: writing a motion whose ID already exists
// leaves the stored copy untouched and returns inserted=false.
func (s *Store) WriteMotion(ctx context.Context, m motion.Motion) (inserted bool, err error) {
	if m.ID == "" {
		return false, fmt.Errorf("write motion: empty motion ID")
	}
	duration := m.Duration()
	if duration > math.MaxInt64 {
		return false, fmt.Errorf("write motion: duration %d exceeds storable range", duration)
	}

	jointsJSON, err := json.Marshal(m.Joints)
	if err != nil {
		return false, fmt.Errorf("write motion: marshal joints: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write motion: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	res, err := tx.ExecContext(ctx, `
		INSERT INTO motions (id, name, joints, keyframe_count, duration)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, m.ID, m.Name, string(jointsJSON), len(m.KeyFrames), int64(duration))
	if err != nil {
		return false, fmt.Errorf("write motion: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write motion: rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	for seq, kf := range m.KeyFrames {
		if err := writeKeyFrame(ctx, tx, m.ID, seq, kf); err != nil {
			return false, fmt.Errorf("write motion: keyframe %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write motion: commit: %w", err)
	}
	return true, nil
}

func writeKeyFrame(ctx context.Context, tx *sql.Tx, motionID string, seq int, kf posfile.KeyFrame) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO keyframes (motion_id, seq, time) VALUES (?, ?, ?)
	`, motionID, seq, int64(kf.Time)); err != nil {
		return err
	}

	if err := writeVector(ctx, tx, motionID, seq, kindPosition, kf.Positions); err != nil {
		return err
	}
	return writeVector(ctx, tx, motionID, seq, kindStiffness, kf.Stiffnesses)
}

func writeVector(ctx context.Context, tx *sql.Tx, motionID string, seq int, kind string, v posfile.SparseVector) error {
	for ord, joint := range v.Indexes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO joint_values (motion_id, seq, kind, ord, joint, value)
			VALUES (?, ?, ?, ?, ?, ?)
		`, motionID, seq, kind, ord, joint, v.Values[ord]); err != nil {
			return fmt.Errorf("%s[%d]: %w", kind, ord, err)
		}
	}
	return nil
}

// DeleteMotion removes a motion and its keyframes.
// Returns ErrNotFound if no motion has the given ID.
func (s *Store) DeleteMotion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM motions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete motion: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete motion: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
