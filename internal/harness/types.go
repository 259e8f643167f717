package harness

import (
	"fmt"

	"github.com/roach88/posfile/internal/posfile"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates all expectations matched.
	Pass bool `json:"pass"`

	// Successful mirrors posfile.Result.Successful.
	Successful bool `json:"successful"`

	// KeyFrames holds the parsed keyframes (only meaningful when Successful).
	KeyFrames []posfile.KeyFrame `json:"keyframes,omitempty"`

	// ErrorCode and ErrorLine describe the parse failure, if any.
	ErrorCode posfile.ErrorCode `json:"error_code,omitempty"`
	ErrorLine int               `json:"error_line,omitempty"`

	// MotionID is the content-addressed ID of a successful parse.
	MotionID string `json:"motion_id,omitempty"`

	// Errors contains expectation mismatches. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// fail records an expectation mismatch.
func (r *Result) fail(format string, args ...any) {
	r.Pass = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
