package motion

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/roach88/posfile/internal/joints"
	"github.com/roach88/posfile/internal/posfile"
)

// DomainMotion prefixes motion hashes. The version suffix allows the
// canonical form to change later without colliding with old IDs.
const DomainMotion = "posfile/motion/v2"

// FixedScale is the number of fixed-point units per radian or stiffness unit.
// Fixed-point values are for snapshots only; IDs hash exact values.
const FixedScale = 1e6

// Motion is a named, validated keyframe sequence.
type Motion struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Joints    []string           `json:"joints"`
	KeyFrames []posfile.KeyFrame `json:"keyframes"`
}

// New creates a Motion and computes its ID.
func New(name string, set joints.Set, frames []posfile.KeyFrame) (Motion, error) {
	names := set.Names()
	id, err := ID(names, frames)
	if err != nil {
		return Motion{}, err
	}
	return Motion{
		ID:        id,
		Name:      name,
		Joints:    names,
		KeyFrames: frames,
	}, nil
}

// FromResult creates a Motion from a successful parse.
// Returns the parse error if the result is not successful.
func FromResult(name string, set joints.Set, res posfile.Result) (Motion, error) {
	if !res.Successful {
		if res.Err != nil {
			return Motion{}, res.Err
		}
		return Motion{}, fmt.Errorf("parse of %q was not successful", name)
	}
	return New(name, set, res.KeyFrames)
}

// Duration returns the cumulative time of the last keyframe.
func (m Motion) Duration() uint64 {
	return Duration(m.KeyFrames)
}

// Duration returns the cumulative time of the last keyframe, or 0.
func Duration(frames []posfile.KeyFrame) uint64 {
	if len(frames) == 0 {
		return 0
	}
	return frames[len(frames)-1].Time
}

// Fixed converts a real value to fixed-point units, rounding half away from zero.
// Values outside the int64 range saturate.
func Fixed(v float64) int64 {
	r := math.Round(v * FixedScale)
	switch {
	case r >= math.MaxInt64:
		return math.MaxInt64
	case r <= math.MinInt64:
		return math.MinInt64
	}
	return int64(r)
}

// exactBits returns the IEEE 754 bits of v, with -0 folded into +0.
func exactBits(v float64) uint64 {
	if v == 0 {
		v = 0
	}
	return math.Float64bits(v)
}

// ID computes the content-addressed ID of a keyframe sequence.
// The ID is stable for identical joints and keyframes, and values are
// hashed bit-exactly so any change to a value changes the ID.
func ID(jointNames []string, frames []posfile.KeyFrame) (string, error) {
	obj := map[string]any{
		"joints": jointNames,
		"keyframes": canonicalKeyFrames(frames, func(v float64) any {
			return exactBits(v)
		}),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("motion ID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainMotion, canonical), nil
}

// MustID is like ID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustID(jointNames []string, frames []posfile.KeyFrame) string {
	id, err := ID(jointNames, frames)
	if err != nil {
		panic(err)
	}
	return id
}

// CanonicalKeyFrames converts keyframes into readable canonical-JSON values
// for snapshots. Each vector becomes a list of [joint, fixed] pairs.
func CanonicalKeyFrames(frames []posfile.KeyFrame) []any {
	return canonicalKeyFrames(frames, func(v float64) any {
		return Fixed(v)
	})
}

func canonicalKeyFrames(frames []posfile.KeyFrame, encode func(float64) any) []any {
	out := make([]any, len(frames))
	for i, kf := range frames {
		out[i] = map[string]any{
			"time":        kf.Time,
			"positions":   canonicalVector(kf.Positions, encode),
			"stiffnesses": canonicalVector(kf.Stiffnesses, encode),
		}
	}
	return out
}

func canonicalVector(v posfile.SparseVector, encode func(float64) any) []any {
	out := make([]any, v.Len())
	for i, idx := range v.Indexes {
		out[i] = []any{idx, encode(v.Values[i])}
	}
	return out
}

// hashWithDomain computes SHA256(domain + 0x00 + data) as hex.
// The null separator keeps domain and data unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
