package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/posfile/internal/motion"
)

// ValidationResult holds the validation result of one file.
type ValidationResult struct {
	File      string             `json:"file"`
	Valid     bool               `json:"valid"`
	KeyFrames int                `json:"keyframes,omitempty"`
	Duration  uint64             `json:"duration,omitempty"`
	Code      string             `json:"code,omitempty"`
	Message   string             `json:"message,omitempty"`
	Details   *ParseErrorDetails `json:"details,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file.pos>...",
		Short: "Check pos files without printing keyframes",
		Long: `Validate one or more pos files against the robot profile.

Each file is parsed fail-fast; the first error of each invalid file is
reported with its line number.

Exit codes:
  0 - All files valid
  1 - One or more files invalid
  2 - Command error (missing file, bad profile, etc.)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	results := make([]ValidationResult, 0, len(paths))
	firstInvalid := -1
	for _, path := range paths {
		loaded, err := LoadPosFile(path, opts.Config)
		if err != nil {
			return commandError(formatter, loadErrorCode(err), "failed to load pos file", err)
		}
		formatter.VerboseLog("Validating %s against %s (%d joints)", path, loaded.Profile.Robot, loaded.Profile.Joints.Len())

		res := ValidationResult{File: path, Valid: loaded.Result.Successful}
		if res.Valid {
			res.KeyFrames = len(loaded.Result.KeyFrames)
			res.Duration = motion.Duration(loaded.Result.KeyFrames)
		} else {
			res.Code, res.Message, res.Details = parseErrorOutput(loaded.Result.Err, loaded.Profile.Joints)
		}
		if !res.Valid && firstInvalid < 0 {
			firstInvalid = len(results)
		}
		results = append(results, res)
	}

	invalid := 0
	for _, res := range results {
		if !res.Valid {
			invalid++
		}
	}

	if formatter.Format == "json" {
		if invalid == 0 {
			return formatter.Success(results)
		}
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   results,
			Error:  &CLIError{Code: results[firstInvalid].Code, Message: results[firstInvalid].Message},
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed for %d file(s)", invalid))
	}

	w := formatter.Writer
	for _, res := range results {
		if res.Valid {
			fmt.Fprintf(w, "✓ %s (%d keyframes, duration %d)\n", res.File, res.KeyFrames, res.Duration)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", res.File)
		if res.Details != nil && res.Details.Line > 0 {
			fmt.Fprintf(w, "  line %d\n", res.Details.Line)
		}
		fmt.Fprintf(w, "  %s: %s\n", res.Code, res.Message)
	}

	if invalid > 0 {
		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed for %d file(s)", invalid))
	}
	return nil
}
