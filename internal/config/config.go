// Package config loads robot profiles written in CUE.
//
// A profile names the joint set pos files are written against and the
// defaults used by the parser and player:
//
//	robot:             "nao"
//	joints:            ["HeadYaw", "HeadPitch", ...]   // or joint_count: 25
//	default_stiffness: 1.0
//	time_unit:         "ms"
//
// Every field is optional. Omitted fields take the NAO defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/posfile/internal/joints"
	"github.com/roach88/posfile/internal/posfile"
)

// Defaults for fields omitted from a profile.
const (
	DefaultRobot    = "nao"
	DefaultTimeUnit = "ms"
)

// timeUnits maps time_unit values to durations.
var timeUnits = map[string]time.Duration{
	"us": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
}

// knownFields lists the top-level fields a profile may contain.
var knownFields = map[string]bool{
	"robot":             true,
	"joints":            true,
	"joint_count":       true,
	"default_stiffness": true,
	"time_unit":         true,
}

// Config is a resolved robot profile.
type Config struct {
	Robot            string
	Joints           joints.Set
	DefaultStiffness float64

	// TimeUnit is the real duration of one pos file time unit.
	TimeUnit time.Duration
}

// Error describes an invalid profile field.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Default returns the NAO profile.
func Default() Config {
	return Config{
		Robot:            DefaultRobot,
		Joints:           joints.NAO(),
		DefaultStiffness: posfile.DefaultStiffness,
		TimeUnit:         timeUnits[DefaultTimeUnit],
	}
}

// Load reads a CUE profile from path.
// An empty path returns Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(path, data)
}

// Parse compiles CUE source and resolves it against the defaults.
func Parse(filename string, src []byte) (Config, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}
	return fromValue(v)
}

func fromValue(v cue.Value) (Config, error) {
	cfg := Default()

	iter, err := v.Fields()
	if err != nil {
		return Config{}, formatCUEError(err)
	}
	for iter.Next() {
		if !knownFields[iter.Label()] {
			return Config{}, &Error{
				Field:   iter.Label(),
				Message: "unknown field",
				Pos:     iter.Value().Pos(),
			}
		}
	}

	if robot := v.LookupPath(cue.ParsePath("robot")); robot.Exists() {
		s, err := robot.String()
		if err != nil {
			return Config{}, fieldError("robot", robot, err)
		}
		cfg.Robot = s
	}

	set, err := parseJoints(v)
	if err != nil {
		return Config{}, err
	}
	if set != nil {
		cfg.Joints = *set
	}

	if ds := v.LookupPath(cue.ParsePath("default_stiffness")); ds.Exists() {
		f, err := ds.Float64()
		if err != nil {
			return Config{}, fieldError("default_stiffness", ds, err)
		}
		if f < 0 || f > 1 {
			return Config{}, &Error{Field: "default_stiffness", Message: fmt.Sprintf("must be within [0, 1], got %v", f), Pos: ds.Pos()}
		}
		cfg.DefaultStiffness = f
	}

	if tu := v.LookupPath(cue.ParsePath("time_unit")); tu.Exists() {
		s, err := tu.String()
		if err != nil {
			return Config{}, fieldError("time_unit", tu, err)
		}
		unit, ok := timeUnits[s]
		if !ok {
			return Config{}, &Error{Field: "time_unit", Message: fmt.Sprintf("unsupported unit %q (us|ms|s)", s), Pos: tu.Pos()}
		}
		cfg.TimeUnit = unit
	}

	return cfg, nil
}

// parseJoints reads either joints (names) or joint_count.
// Returns nil when neither is present.
func parseJoints(v cue.Value) (*joints.Set, error) {
	namesVal := v.LookupPath(cue.ParsePath("joints"))
	countVal := v.LookupPath(cue.ParsePath("joint_count"))

	if namesVal.Exists() && countVal.Exists() {
		return nil, &Error{Field: "joints", Message: "joints and joint_count are mutually exclusive", Pos: countVal.Pos()}
	}

	if namesVal.Exists() {
		list, err := namesVal.List()
		if err != nil {
			return nil, fieldError("joints", namesVal, err)
		}
		var names []string
		for list.Next() {
			name, err := list.Value().String()
			if err != nil {
				return nil, fieldError("joints", list.Value(), err)
			}
			names = append(names, name)
		}
		set, err := joints.New(names...)
		if err != nil {
			return nil, &Error{Field: "joints", Message: err.Error(), Pos: namesVal.Pos()}
		}
		return &set, nil
	}

	if countVal.Exists() {
		n, err := countVal.Int64()
		if err != nil {
			return nil, fieldError("joint_count", countVal, err)
		}
		set, err := joints.Anonymous(int(n))
		if err != nil {
			return nil, &Error{Field: "joint_count", Message: err.Error(), Pos: countVal.Pos()}
		}
		return &set, nil
	}

	return nil, nil
}

// ParserOptions returns posfile options matching the profile.
func (c Config) ParserOptions() []posfile.Option {
	return []posfile.Option{posfile.WithDefaultStiffness(c.DefaultStiffness)}
}

func fieldError(field string, v cue.Value, err error) *Error {
	return &Error{Field: field, Message: err.Error(), Pos: v.Pos()}
}

// formatCUEError converts the first CUE error into an Error with position info.
func formatCUEError(err error) *Error {
	first := err
	if errs := errors.Errors(err); len(errs) > 0 {
		first = errs[0]
	}
	var pos token.Pos
	if positions := errors.Positions(first); len(positions) > 0 {
		pos = positions[0]
	}
	return &Error{Field: "cue", Message: first.Error(), Pos: pos}
}
