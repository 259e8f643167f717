package posfile

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadiansToDegrees converts an angle in radians to degrees.
func RadiansToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// handlePosition parses a position line and appends a KeyFrame.
//
// Checks run in this order: token count, joint values, joint set
// consistency, duration, custom stiffness cross-check.
func (p *Parser) handlePosition(st *parseState, lineNo int, tokens []string) error {
	n := p.joints.Len()
	if expected := n + 2; len(tokens) != expected {
		return NewMalformedLineError(lineNo, LinePosition, expected, len(tokens))
	}

	var positions SparseVector
	for joint := 0; joint < n; joint++ {
		token := tokens[joint+1]
		if token == SkipToken {
			continue
		}
		deg, err := parseReal(token)
		if err != nil {
			return NewInvalidPositionError(lineNo, token, joint)
		}
		positions.Append(joint, DegreesToRadians(deg))
		if !st.customStiffness {
			st.stiffness.Append(joint, p.defaultStiffness)
		}
	}

	if !st.firstPosition && !positions.SameIndexes(st.prev) {
		return NewInconsistentJointsError(lineNo, st.prev.Indexes, positions.Indexes)
	}

	durationToken := tokens[len(tokens)-1]
	duration, err := parseDuration(durationToken)
	if err != nil {
		return NewInvalidDurationError(lineNo, durationToken, err.Error())
	}
	if st.time > math.MaxUint64-duration {
		return NewInvalidDurationError(lineNo, durationToken, "cumulative time overflows")
	}
	st.time += duration

	if st.customStiffness && !st.stiffness.SameIndexes(positions) {
		return NewStiffnessMismatchError(lineNo, positions.Indexes, st.stiffness.Indexes)
	}

	frame := KeyFrame{
		Time:        st.time,
		Positions:   positions,
		Stiffnesses: st.stiffness,
	}
	st.keyFrames = append(st.keyFrames, frame)

	p.logger.Debug("keyframe",
		"line", lineNo,
		"time", frame.Time,
		"position_indexes", frame.Positions.Indexes,
		"stiffness_indexes", frame.Stiffnesses.Indexes,
	)

	st.prev = positions
	st.stiffness = SparseVector{}
	st.customStiffness = false
	st.firstPosition = false

	return nil
}

// parseReal parses a finite decimal number. The whole token must be numeric.
func parseReal(token string) (float64, error) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", token)
	}
	return v, nil
}

// parseDuration parses a non-negative base-10 integer.
func parseDuration(token string) (uint64, error) {
	d, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return 0, numErr.Err
		}
		return 0, err
	}
	return d, nil
}
