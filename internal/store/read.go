package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/posfile/internal/motion"
	"github.com/roach88/posfile/internal/posfile"
)

// Summary describes a stored motion without its keyframes.
type Summary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	JointCount    int    `json:"joint_count"`
	KeyFrameCount int    `json:"keyframe_count"`
	Duration      uint64 `json:"duration"`
}

// ReadMotion loads a motion with all keyframes.
// Returns ErrNotFound if no motion has the given ID.
func (s *Store) ReadMotion(ctx context.Context, id string) (motion.Motion, error) {
	var (
		m          motion.Motion
		jointsJSON string
		count      int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, joints, keyframe_count FROM motions WHERE id = ?
	`, id).Scan(&m.ID, &m.Name, &jointsJSON, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return motion.Motion{}, ErrNotFound
	}
	if err != nil {
		return motion.Motion{}, fmt.Errorf("read motion: %w", err)
	}

	if err := json.Unmarshal([]byte(jointsJSON), &m.Joints); err != nil {
		return motion.Motion{}, fmt.Errorf("read motion: unmarshal joints: %w", err)
	}

	frames, err := s.readKeyFrames(ctx, id, count)
	if err != nil {
		return motion.Motion{}, fmt.Errorf("read motion: %w", err)
	}
	m.KeyFrames = frames

	return m, nil
}

// readKeyFrames loads keyframe times and then fills their vectors.
func (s *Store) readKeyFrames(ctx context.Context, id string, count int) ([]posfile.KeyFrame, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, time FROM keyframes WHERE motion_id = ? ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query keyframes: %w", err)
	}
	defer rows.Close()

	frames := make([]posfile.KeyFrame, 0, count)
	for rows.Next() {
		var seq, t int64
		if err := rows.Scan(&seq, &t); err != nil {
			return nil, fmt.Errorf("scan keyframe: %w", err)
		}
		if int(seq) != len(frames) {
			return nil, fmt.Errorf("keyframe seq gap: got %d, expected %d", seq, len(frames))
		}
		frames = append(frames, posfile.KeyFrame{Time: uint64(t)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keyframes: %w", err)
	}
	if len(frames) != count {
		return nil, fmt.Errorf("expected %d keyframes, found %d", count, len(frames))
	}

	valueRows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, joint, value FROM joint_values
		WHERE motion_id = ?
		ORDER BY seq ASC, kind ASC, ord ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query joint values: %w", err)
	}
	defer valueRows.Close()

	for valueRows.Next() {
		var (
			seq   int
			kind  string
			joint int
			value float64
		)
		if err := valueRows.Scan(&seq, &kind, &joint, &value); err != nil {
			return nil, fmt.Errorf("scan joint value: %w", err)
		}
		if seq < 0 || seq >= len(frames) {
			return nil, fmt.Errorf("joint value for unknown keyframe %d", seq)
		}
		switch kind {
		case kindPosition:
			frames[seq].Positions.Append(joint, value)
		case kindStiffness:
			frames[seq].Stiffnesses.Append(joint, value)
		default:
			return nil, fmt.Errorf("unknown joint value kind %q", kind)
		}
	}
	if err := valueRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate joint values: %w", err)
	}

	return frames, nil
}

// ListMotions returns summaries of all stored motions ordered by name, then ID.
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ListMotions(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, joints, keyframe_count, duration
		FROM motions
		ORDER BY name ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list motions: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var (
			sum        Summary
			jointsJSON string
			duration   int64
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &jointsJSON, &sum.KeyFrameCount, &duration); err != nil {
			return nil, fmt.Errorf("list motions: scan: %w", err)
		}
		var names []string
		if err := json.Unmarshal([]byte(jointsJSON), &names); err != nil {
			return nil, fmt.Errorf("list motions: unmarshal joints: %w", err)
		}
		sum.JointCount = len(names)
		sum.Duration = uint64(duration)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list motions: iterate: %w", err)
	}

	return summaries, nil
}
