package posfile

import (
	"log/slog"

	"github.com/roach88/posfile/internal/joints"
)

// Parser converts pos file lines into keyframes for a fixed joint set.
//
// A Parser holds configuration only. All per-parse state lives in a
// parseState created by Parse, so one Parser may be shared between goroutines.
type Parser struct {
	joints           joints.Set
	defaultStiffness float64
	logger           *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithDefaultStiffness sets the stiffness applied to positioned joints when no
// stiffness line precedes a position line.
//
// Default: 1.0 (DefaultStiffness)
func WithDefaultStiffness(stiffness float64) Option {
	return func(p *Parser) {
		p.defaultStiffness = stiffness
	}
}

// WithLogger sets the logger used for line-level diagnostics.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// New creates a Parser for the given joint set.
func New(set joints.Set, opts ...Option) *Parser {
	p := &Parser{
		joints:           set,
		defaultStiffness: DefaultStiffness,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// parseState is the accumulator for a single Parse call.
type parseState struct {
	// time is the running sum of durations.
	time uint64

	// stiffness buffers custom stiffness values until the next position line.
	stiffness SparseVector

	// customStiffness is set when a stiffness line was seen since the last
	// position line.
	customStiffness bool

	// prev holds the previous position line's vector.
	prev SparseVector

	firstPosition bool

	keyFrames []KeyFrame
}

func newParseState() *parseState {
	return &parseState{firstPosition: true}
}

// Parse processes lines in order and stops at the first error.
//
// On success Result.Successful is true and KeyFrames holds one entry per
// position line. On failure Result.Err is a *ParseError and KeyFrames holds
// whatever was produced before the failing line.
func (p *Parser) Parse(lines []string) Result {
	st := newParseState()

	for i, line := range lines {
		lineNo := i + 1

		var err error
		switch Classify(line) {
		case LineStiffness:
			p.logger.Debug("stiffness line", "line", lineNo, "text", line)
			err = p.handleStiffness(st, lineNo, Tokenize(line))
		case LinePosition:
			p.logger.Debug("position line", "line", lineNo, "text", line)
			err = p.handlePosition(st, lineNo, Tokenize(line))
		default:
			p.logger.Debug("ignoring line", "line", lineNo, "text", line)
		}

		if err != nil {
			return Result{Successful: false, KeyFrames: st.keyFrames, Err: err}
		}
	}

	return Result{Successful: true, KeyFrames: st.keyFrames}
}

// Parse parses lines against set with default options.
func Parse(set joints.Set, lines []string) Result {
	return New(set).Parse(lines)
}
