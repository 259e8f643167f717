package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// StoreOptions holds flags shared by commands that only read or modify the library.
type StoreOptions struct {
	*RootOptions
	Database string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List stored motions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runList(opts *StoreOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openStore(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	motions, err := st.ListMotions(commandContext(cmd))
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, "failed to list motions", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(motions)
	}

	w := formatter.Writer
	if len(motions) == 0 {
		fmt.Fprintln(w, "No motions stored.")
		return nil
	}
	fmt.Fprintf(w, "%-12s  %-24s  %6s  %9s  %8s\n", "ID", "NAME", "JOINTS", "KEYFRAMES", "DURATION")
	for _, m := range motions {
		fmt.Fprintf(w, "%-12s  %-24s  %6d  %9d  %8d\n", shortID(m.ID), m.Name, m.JointCount, m.KeyFrameCount, m.Duration)
	}
	return nil
}

// shortID abbreviates a motion ID for tables.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
