package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/roach88/posfile/internal/motion"
	"github.com/roach88/posfile/internal/posfile"
	"github.com/roach88/posfile/internal/store"
)

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Parse the scenario lines against its joint set
//  2. Compare outcome, error code, line, keyframe count and times with Expect
//  3. For successful parses, write the motion to a fresh in-memory store
//     and check that it reads back unchanged
//
// Returns an error only when the scenario cannot be executed at all.
func Run(scenario *Scenario) (*Result, error) {
	set, err := scenario.JointSet()
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	opts := []posfile.Option{
		posfile.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
	}
	if scenario.DefaultStiffness != nil {
		opts = append(opts, posfile.WithDefaultStiffness(*scenario.DefaultStiffness))
	}

	parsed := posfile.New(set, opts...).Parse(scenario.Lines)

	result := NewResult()
	result.Successful = parsed.Successful
	if parsed.Successful {
		result.KeyFrames = parsed.KeyFrames
	} else {
		var pe *posfile.ParseError
		if errors.As(parsed.Err, &pe) {
			result.ErrorCode = pe.Code
			result.ErrorLine = pe.Line
		}
	}

	checkExpect(scenario.Expect, result)

	if parsed.Successful {
		m, err := motion.New(scenario.Name, set, parsed.KeyFrames)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}
		result.MotionID = m.ID

		if err := checkRoundTrip(m, result); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}
	}

	return result, nil
}

func checkExpect(expect Expect, result *Result) {
	if expect.OK != result.Successful {
		result.fail("expected ok=%v, got ok=%v (error %s at line %d)",
			expect.OK, result.Successful, result.ErrorCode, result.ErrorLine)
		return
	}

	if !expect.OK {
		if string(result.ErrorCode) != expect.Error {
			result.fail("expected error %s, got %s", expect.Error, result.ErrorCode)
		}
		if expect.Line != 0 && expect.Line != result.ErrorLine {
			result.fail("expected error at line %d, got line %d", expect.Line, result.ErrorLine)
		}
		return
	}

	if expect.KeyFrames != nil && *expect.KeyFrames != len(result.KeyFrames) {
		result.fail("expected %d keyframes, got %d", *expect.KeyFrames, len(result.KeyFrames))
	}

	if expect.Times != nil {
		got := make([]uint64, len(result.KeyFrames))
		for i, kf := range result.KeyFrames {
			got[i] = kf.Time
		}
		if !reflect.DeepEqual(expect.Times, got) {
			result.fail("expected times %v, got %v", expect.Times, got)
		}
	}
}

// checkRoundTrip stores m in a fresh in-memory database and compares the
// stored copy with the original.
func checkRoundTrip(m motion.Motion, result *Result) error {
	st, err := store.Open(":memory:")
	if err != nil {
		return fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	if _, err := st.WriteMotion(ctx, m); err != nil {
		return err
	}
	stored, err := st.ReadMotion(ctx, m.ID)
	if err != nil {
		return err
	}

	if stored.ID != m.ID || !keyFramesEqual(stored.KeyFrames, m.KeyFrames) {
		result.fail("stored motion differs from parsed motion")
	}
	return nil
}

// keyFramesEqual compares keyframes, treating nil and empty vectors alike.
func keyFramesEqual(a, b []posfile.KeyFrame) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Time != b[i].Time ||
			!vectorsEqual(a[i].Positions, b[i].Positions) ||
			!vectorsEqual(a[i].Stiffnesses, b[i].Stiffnesses) {
			return false
		}
	}
	return true
}

func vectorsEqual(a, b posfile.SparseVector) bool {
	if a.Len() != b.Len() || !a.SameIndexes(b) {
		return false
	}
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			return false
		}
	}
	return true
}
