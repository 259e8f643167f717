package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/posfile/internal/joints"
	"github.com/roach88/posfile/internal/store"
)

// ShowResult is the payload of the show command.
type ShowResult struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Joints    []string         `json:"joints"`
	Duration  uint64           `json:"duration"`
	KeyFrames []KeyFrameOutput `json:"keyframes"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "show <motion-id>",
		Short:         "Print a stored motion",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *StoreOptions, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openStore(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	m, err := st.ReadMotion(commandContext(cmd), id)
	if errors.Is(err, store.ErrNotFound) {
		return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("motion not found: %s", id), nil)
	}
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, "failed to read motion", err)
	}

	set, err := joints.New(m.Joints...)
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, "stored joint set is invalid", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ShowResult{
			ID:        m.ID,
			Name:      m.Name,
			Joints:    m.Joints,
			Duration:  m.Duration(),
			KeyFrames: keyFrameOutputs(set, m.KeyFrames),
		})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s (%s)\n", m.Name, m.ID)
	fmt.Fprintf(w, "%d joints, %d keyframe(s), duration %d\n", set.Len(), len(m.KeyFrames), m.Duration())
	writeKeyFramesText(w, set, m.KeyFrames)
	return nil
}
