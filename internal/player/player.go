package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/roach88/posfile/internal/motion"
	"github.com/roach88/posfile/internal/posfile"
)

// ErrScheduleTooLong is returned by Play when the playback end time cannot
// be represented as a time.Duration.
var ErrScheduleTooLong = errors.New("playback schedule too long")

// Command is one keyframe released to the robot.
type Command struct {
	RunID     string `json:"run_id"`
	Seq       int64  `json:"seq"`
	Iteration int    `json:"iteration"`
	Frame     int    `json:"frame"`

	// Start is when the command is released and Deadline is when the pose
	// should be reached, both in pos file time units since playback start.
	Start    uint64 `json:"start"`
	Deadline uint64 `json:"deadline"`

	Positions   posfile.SparseVector `json:"positions"`
	Stiffnesses posfile.SparseVector `json:"stiffnesses"`
}

// Sink receives commands in release order.
type Sink interface {
	Publish(ctx context.Context, cmd Command) error
}

// Clock abstracts time for playback.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// After wraps time.After.
func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Summary describes a finished playback.
type Summary struct {
	RunID      string `json:"run_id"`
	Commands   int64  `json:"commands"`
	Iterations int    `json:"iterations"`
	Duration   uint64 `json:"duration"`
}

// Player releases keyframe commands on schedule.
//
// A Player is safe for concurrent Play calls as long as its Sink is.
type Player struct {
	sink     Sink
	clock    Clock
	runIDs   RunIDGenerator
	timeUnit time.Duration
	loops    int
	logger   *slog.Logger
}

// Option configures a Player.
type Option func(*Player)

// WithClock sets the clock. Default: SystemClock.
func WithClock(c Clock) Option {
	return func(p *Player) {
		p.clock = c
	}
}

// WithRunIDGenerator sets the run ID source. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(p *Player) {
		p.runIDs = g
	}
}

// WithTimeUnit sets the real duration of one pos file time unit.
// Zero releases every command without waiting.
// Default: time.Millisecond
func WithTimeUnit(unit time.Duration) Option {
	return func(p *Player) {
		p.timeUnit = unit
	}
}

// WithLoops sets how many times the motion is played back to back.
// Values below 1 are treated as 1.
func WithLoops(n int) Option {
	return func(p *Player) {
		p.loops = n
	}
}

// WithLogger sets the logger. Default: slog.Default()
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) {
		p.logger = l
	}
}

// New creates a Player that publishes to sink.
func New(sink Sink, opts ...Option) *Player {
	p := &Player{
		sink:     sink,
		clock:    SystemClock{},
		runIDs:   UUIDv7Generator{},
		timeUnit: time.Millisecond,
		loops:    1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.loops < 1 {
		p.loops = 1
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Play releases every keyframe as a Command and returns when the last one
// has been published, ctx is cancelled, or the sink fails.
//
// Iteration k of a looped playback is offset by k times the motion duration.
func (p *Player) Play(ctx context.Context, frames []posfile.KeyFrame) (Summary, error) {
	sum := Summary{RunID: p.runIDs.Generate()}
	total := motion.Duration(frames)
	if err := p.checkSchedule(total); err != nil {
		return sum, err
	}
	start := p.clock.Now()

	p.logger.Info("playback started",
		"run_id", sum.RunID,
		"keyframes", len(frames),
		"duration", total,
		"loops", p.loops,
	)

	for iter := 0; iter < p.loops; iter++ {
		offset := uint64(iter) * total
		var prev uint64

		for i, kf := range frames {
			cmd := Command{
				RunID:       sum.RunID,
				Seq:         sum.Commands + 1,
				Iteration:   iter,
				Frame:       i,
				Start:       offset + prev,
				Deadline:    offset + kf.Time,
				Positions:   kf.Positions,
				Stiffnesses: kf.Stiffnesses,
			}

			if err := p.waitUntil(ctx, start, cmd.Start); err != nil {
				return sum, err
			}
			if err := p.sink.Publish(ctx, cmd); err != nil {
				return sum, fmt.Errorf("publish command %d: %w", cmd.Seq, err)
			}
			p.logger.Debug("command published", "run_id", sum.RunID, "seq", cmd.Seq, "start", cmd.Start)

			sum.Commands++
			prev = kf.Time
		}
		sum.Iterations++
	}

	// Hold until the final pose is due so callers can chain playbacks.
	sum.Duration = uint64(p.loops) * total
	if err := p.waitUntil(ctx, start, sum.Duration); err != nil {
		return sum, err
	}

	p.logger.Info("playback finished", "run_id", sum.RunID, "commands", sum.Commands)
	return sum, nil
}

// checkSchedule rejects playbacks whose end time overflows, so every
// waitUntil call stays within time.Duration.
func (p *Player) checkSchedule(total uint64) error {
	if total != 0 && uint64(p.loops) > math.MaxUint64/total {
		return fmt.Errorf("%w: %d loops of %d time units", ErrScheduleTooLong, p.loops, total)
	}
	end := uint64(p.loops) * total
	if p.timeUnit > 0 && end > uint64(math.MaxInt64/int64(p.timeUnit)) {
		return fmt.Errorf("%w: %d time units of %s", ErrScheduleTooLong, end, p.timeUnit)
	}
	return nil
}

// waitUntil blocks until units time units have passed since start.
func (p *Player) waitUntil(ctx context.Context, start time.Time, units uint64) error {
	due := start.Add(time.Duration(units) * p.timeUnit)
	wait := due.Sub(p.clock.Now())
	if wait <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.clock.After(wait):
		return nil
	}
}
