package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/posfile/internal/player"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Loops int
	Fast  bool

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs player.RunIDGenerator
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play <file.pos>",
		Short: "Stream a pos file's keyframes as timed commands",
		Long: `Play back a pos file, writing one JSON command per keyframe to stdout.

Each command is released when the previous keyframe's time has elapsed and
carries the deadline by which its pose should be reached. Timing follows the
profile's time_unit; --fast releases every command immediately.

Example:
  posfile play wave.pos
  posfile play --loop 3 wave.pos
  posfile play --fast wave.pos | jq .deadline`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Loops, "loop", 1, "number of times to play the motion")
	cmd.Flags().BoolVar(&opts.Fast, "fast", false, "release commands without waiting")

	return cmd
}

func runPlay(opts *PlayOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if opts.Loops < 1 {
		return commandError(formatter, ErrCodeGeneric, fmt.Sprintf("--loop must be at least 1, got %d", opts.Loops), nil)
	}

	loaded, err := LoadPosFile(path, opts.Config)
	if err != nil {
		return commandError(formatter, loadErrorCode(err), "failed to load pos file", err)
	}
	if !loaded.Result.Successful {
		return outputParseFailure(formatter, loaded.Result.Err, loaded.Profile.Joints)
	}

	timeUnit := loaded.Profile.TimeUnit
	if opts.Fast {
		timeUnit = 0
	}
	playerOpts := []player.Option{
		player.WithTimeUnit(timeUnit),
		player.WithLoops(opts.Loops),
		player.WithLogger(logger),
	}
	if opts.RunIDs != nil {
		playerOpts = append(playerOpts, player.WithRunIDGenerator(opts.RunIDs))
	}
	p := player.New(player.NewJSONLSink(cmd.OutOrStdout()), playerOpts...)

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping playback", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	summary, err := p.Play(ctx, loaded.Result.KeyFrames)
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("playback stopped", "run_id", summary.RunID, "commands", summary.Commands)
			return nil
		}
		return WrapExitError(ExitFailure, "playback failed", err)
	}

	formatter.VerboseLog("Played %d command(s) in %d iteration(s), run %s", summary.Commands, summary.Iterations, summary.RunID)
	return nil
}
