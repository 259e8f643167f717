package posfile

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes parse failures.
type ErrorCode string

const (
	// ErrCodeMalformedLine indicates a wrong token count.
	ErrCodeMalformedLine ErrorCode = "MALFORMED_LINE"

	// ErrCodeInvalidStiffness indicates a stiffness token that is not a number.
	ErrCodeInvalidStiffness ErrorCode = "INVALID_STIFFNESS_VALUE"

	// ErrCodeInvalidPosition indicates a position token that is not a number.
	ErrCodeInvalidPosition ErrorCode = "INVALID_POSITION_VALUE"

	// ErrCodeInvalidDuration indicates a duration token that is not a non-negative integer.
	ErrCodeInvalidDuration ErrorCode = "INVALID_DURATION"

	// ErrCodeInconsistentJoints indicates a position line whose joint set
	// differs from the previous position line.
	ErrCodeInconsistentJoints ErrorCode = "INCONSISTENT_JOINT_SET"

	// ErrCodeStiffnessMismatch indicates custom stiffness joints that differ
	// from the position joints of the same frame.
	ErrCodeStiffnessMismatch ErrorCode = "STIFFNESS_POSITION_MISMATCH"
)

// ParseError describes the first failure of a parse.
type ParseError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Line is the 1-based input line number.
	Line int

	// Token is the offending token, when one exists.
	Token string

	// Joint is the offending joint index, or -1.
	Joint int

	// Expected and Actual are token counts (MALFORMED_LINE) or vector
	// lengths (STIFFNESS_POSITION_MISMATCH).
	Expected int
	Actual   int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf returns the ErrorCode of a (possibly wrapped) *ParseError, or "".
func CodeOf(err error) ErrorCode {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsCode reports whether err is a *ParseError with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// NewMalformedLineError creates a ParseError for a wrong token count.
func NewMalformedLineError(line int, kind LineKind, expected, actual int) *ParseError {
	return &ParseError{
		Code:     ErrCodeMalformedLine,
		Message:  fmt.Sprintf("%s line has %d elements, but expected %d", kind, actual, expected),
		Line:     line,
		Joint:    -1,
		Expected: expected,
		Actual:   actual,
	}
}

// NewInvalidStiffnessError creates a ParseError for a non-numeric stiffness.
func NewInvalidStiffnessError(line int, token string, joint int) *ParseError {
	return &ParseError{
		Code:    ErrCodeInvalidStiffness,
		Message: fmt.Sprintf("stiffness value %q for joint %d is not a valid number", token, joint),
		Line:    line,
		Token:   token,
		Joint:   joint,
	}
}

// NewInvalidPositionError creates a ParseError for a non-numeric joint angle.
func NewInvalidPositionError(line int, token string, joint int) *ParseError {
	return &ParseError{
		Code:    ErrCodeInvalidPosition,
		Message: fmt.Sprintf("joint value %q for joint %d is not a valid number", token, joint),
		Line:    line,
		Token:   token,
		Joint:   joint,
	}
}

// NewInvalidDurationError creates a ParseError for a bad duration token.
func NewInvalidDurationError(line int, token, reason string) *ParseError {
	return &ParseError{
		Code:    ErrCodeInvalidDuration,
		Message: fmt.Sprintf("duration %q is not a valid duration: %s", token, reason),
		Line:    line,
		Token:   token,
		Joint:   -1,
	}
}

// NewInconsistentJointsError creates a ParseError for a changed joint set.
func NewInconsistentJointsError(line int, prev, cur []int) *ParseError {
	return &ParseError{
		Code:     ErrCodeInconsistentJoints,
		Message:  fmt.Sprintf("joint positions %v differ from previous position line %v", cur, prev),
		Line:     line,
		Joint:    -1,
		Expected: len(prev),
		Actual:   len(cur),
	}
}

// NewStiffnessMismatchError creates a ParseError for custom stiffness joints
// that do not match the position joints.
func NewStiffnessMismatchError(line int, positions, stiffnesses []int) *ParseError {
	return &ParseError{
		Code:     ErrCodeStiffnessMismatch,
		Message:  fmt.Sprintf("joint stiffness indexes %v differ from joint position indexes %v", stiffnesses, positions),
		Line:     line,
		Joint:    -1,
		Expected: len(positions),
		Actual:   len(stiffnesses),
	}
}
