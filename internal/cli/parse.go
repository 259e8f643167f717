package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/posfile/internal/joints"
	"github.com/roach88/posfile/internal/motion"
	"github.com/roach88/posfile/internal/posfile"
)

// JointValue is one joint entry of a keyframe vector.
type JointValue struct {
	Index int     `json:"index"`
	Joint string  `json:"joint"`
	Value float64 `json:"value"`
}

// KeyFrameOutput is a keyframe with joint names resolved.
// Positions are in radians.
type KeyFrameOutput struct {
	Time        uint64       `json:"time"`
	Positions   []JointValue `json:"positions"`
	Stiffnesses []JointValue `json:"stiffnesses"`
}

// ParseOutput is the payload of a successful parse.
type ParseOutput struct {
	File      string           `json:"file"`
	MotionID  string           `json:"motion_id"`
	Duration  uint64           `json:"duration"`
	KeyFrames []KeyFrameOutput `json:"keyframes"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file.pos>",
		Short: "Parse a pos file and print its keyframes",
		Long: `Parse a pos file and print the resulting keyframes.

Text output lists joint angles in degrees; JSON output carries radians.

Examples:
  posfile parse wave.pos
  posfile parse wave.pos --format json
  posfile parse wave.pos --config robot.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runParse(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loaded, err := LoadPosFile(path, opts.Config)
	if err != nil {
		return commandError(formatter, loadErrorCode(err), "failed to load pos file", err)
	}

	set := loaded.Profile.Joints
	if !loaded.Result.Successful {
		return outputParseFailure(formatter, loaded.Result.Err, set)
	}
	formatter.VerboseLog("Parsed %d keyframe(s) from %s", len(loaded.Result.KeyFrames), path)

	m, err := motion.New("", set, loaded.Result.KeyFrames)
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, "failed to compute motion ID", err)
	}

	out := ParseOutput{
		File:      path,
		MotionID:  m.ID,
		Duration:  m.Duration(),
		KeyFrames: keyFrameOutputs(set, m.KeyFrames),
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s: %d keyframe(s), duration %d\n", path, len(out.KeyFrames), out.Duration)
	fmt.Fprintf(w, "motion %s\n", out.MotionID)
	writeKeyFramesText(w, set, m.KeyFrames)
	return nil
}

// outputParseFailure reports an invalid pos file (exit code 1).
func outputParseFailure(formatter *OutputFormatter, parseErr error, set joints.Set) error {
	code, message, details := parseErrorOutput(parseErr, set)

	if formatter.Format == "json" {
		_ = formatter.Error(code, message, details)
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Parse failed")
		if details != nil && details.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", details.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", code, message)
	}

	return WrapExitError(ExitFailure, "invalid pos file", parseErr)
}

// keyFrameOutputs resolves joint names for every keyframe.
func keyFrameOutputs(set joints.Set, frames []posfile.KeyFrame) []KeyFrameOutput {
	out := make([]KeyFrameOutput, len(frames))
	for i, kf := range frames {
		out[i] = KeyFrameOutput{
			Time:        kf.Time,
			Positions:   jointValues(set, kf.Positions),
			Stiffnesses: jointValues(set, kf.Stiffnesses),
		}
	}
	return out
}

func jointValues(set joints.Set, v posfile.SparseVector) []JointValue {
	out := make([]JointValue, v.Len())
	for i, idx := range v.Indexes {
		out[i] = JointValue{Index: idx, Joint: set.Name(idx), Value: v.Values[i]}
	}
	return out
}

// writeKeyFramesText prints one block per keyframe, angles in degrees.
func writeKeyFramesText(w io.Writer, set joints.Set, frames []posfile.KeyFrame) {
	for i, kf := range frames {
		fmt.Fprintf(w, "\n#%d t=%d\n", i, kf.Time)
		for j, idx := range kf.Positions.Indexes {
			deg := posfile.RadiansToDegrees(kf.Positions.Values[j])
			if s, ok := kf.Stiffnesses.Get(idx); ok {
				fmt.Fprintf(w, "  %-16s %10.3f deg  stiffness %.2f\n", set.Name(idx), deg, s)
			} else {
				fmt.Fprintf(w, "  %-16s %10.3f deg\n", set.Name(idx), deg)
			}
		}
	}
}
