package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/posfile/internal/motion"
	"github.com/roach88/posfile/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
	Name     string
}

// ImportResult is the payload of a successful import.
type ImportResult struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Inserted  bool   `json:"inserted"`
	KeyFrames int    `json:"keyframes"`
	Duration  uint64 `json:"duration"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file.pos>",
		Short: "Parse a pos file and store it as a motion",
		Long: `Parse a pos file and store the keyframes in a SQLite motion library.

Motions are content-addressed: importing the same keyframes twice stores
them once. The motion name defaults to the file name without extension.

Example:
  posfile import --db ./motions.db wave.pos
  posfile import --db ./motions.db --name wave-left wave.pos`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "motion name (default: file name)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loaded, err := LoadPosFile(path, opts.Config)
	if err != nil {
		return commandError(formatter, loadErrorCode(err), "failed to load pos file", err)
	}
	if !loaded.Result.Successful {
		return outputParseFailure(formatter, loaded.Result.Err, loaded.Profile.Joints)
	}

	name := opts.Name
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	m, err := motion.New(name, loaded.Profile.Joints, loaded.Result.KeyFrames)
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, "failed to compute motion ID", err)
	}

	st, err := openStore(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	inserted, err := st.WriteMotion(commandContext(cmd), m)
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, "failed to store motion", err)
	}

	result := ImportResult{
		ID:        m.ID,
		Name:      m.Name,
		Inserted:  inserted,
		KeyFrames: len(m.KeyFrames),
		Duration:  m.Duration(),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if inserted {
		fmt.Fprintf(formatter.Writer, "✓ Imported %s as %s\n", path, name)
	} else {
		fmt.Fprintf(formatter.Writer, "✓ %s already stored\n", path)
	}
	fmt.Fprintln(formatter.Writer, m.ID)
	return nil
}

// openStore opens the motion library, reporting failures as command errors.
func openStore(formatter *OutputFormatter, path string) (*store.Store, error) {
	formatter.VerboseLog("Opening database %s", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, commandError(formatter, ErrCodeStoreFailed, "failed to open database", err)
	}
	return st, nil
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
