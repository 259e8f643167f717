package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/posfile/internal/posfile"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Invalid pos file or failed scenarios
	ExitCommandError = 2 // Command error (missing file, bad profile, database error, etc.)
)

// Error codes reported in CLI output.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E002" // File or motion not found
	ErrCodeConfig      = "E003" // Invalid robot profile
	ErrCodeReadFailed  = "E004" // Reading input failed
	ErrCodeStoreFailed = "E005" // Database error
	ErrCodeWriteFailed = "E006" // File write error

	ErrCodeMalformedLine      = "E101" // Wrong token count
	ErrCodeInvalidStiffness   = "E102" // Stiffness token is not a number
	ErrCodeInvalidPosition    = "E103" // Position token is not a number
	ErrCodeInvalidDuration    = "E104" // Duration token is not a non-negative integer
	ErrCodeInconsistentJoints = "E105" // Joint set changed between position lines
	ErrCodeStiffnessMismatch  = "E106" // Stiffness joints differ from position joints
)

// parseErrorCodes maps parser error kinds to CLI error codes.
var parseErrorCodes = map[posfile.ErrorCode]string{
	posfile.ErrCodeMalformedLine:      ErrCodeMalformedLine,
	posfile.ErrCodeInvalidStiffness:   ErrCodeInvalidStiffness,
	posfile.ErrCodeInvalidPosition:    ErrCodeInvalidPosition,
	posfile.ErrCodeInvalidDuration:    ErrCodeInvalidDuration,
	posfile.ErrCodeInconsistentJoints: ErrCodeInconsistentJoints,
	posfile.ErrCodeStiffnessMismatch:  ErrCodeStiffnessMismatch,
}

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E101", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// ParseErrorDetails is the JSON detail payload of a parse failure.
type ParseErrorDetails struct {
	Kind     string `json:"kind"`
	Line     int    `json:"line"`
	Token    string `json:"token,omitempty"`
	Joint    string `json:"joint,omitempty"`
	Expected int    `json:"expected,omitempty"`
	Actual   int    `json:"actual,omitempty"`
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %+v\n", details)
	}
	return nil
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// commandError reports a command-level failure (exit code 2).
func commandError(f *OutputFormatter, code, message string, err error) error {
	exitErr := WrapExitError(ExitCommandError, message, err)
	_ = f.Error(code, exitErr.Error(), nil)
	return exitErr
}
