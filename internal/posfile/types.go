package posfile

import "slices"

// LineKind classifies a raw pos file line.
type LineKind int

const (
	// LineIgnored is any line that is neither a stiffness nor a position line.
	LineIgnored LineKind = iota
	// LineStiffness starts with StiffnessMarker.
	LineStiffness
	// LinePosition starts with PositionMarker.
	LinePosition
)

// String returns the lowercase kind name.
func (k LineKind) String() string {
	switch k {
	case LineStiffness:
		return "stiffness"
	case LinePosition:
		return "position"
	default:
		return "ignored"
	}
}

// Line markers and the per-joint skip token.
const (
	StiffnessMarker = '$'
	PositionMarker  = '!'
	SkipToken       = "-"
)

// DefaultStiffness is applied to positioned joints when no stiffness line
// precedes a position line.
const DefaultStiffness = 1.0

// SparseVector is a partial mapping from joint index to value.
// Indexes and Values are parallel; only explicitly mentioned joints appear.
type SparseVector struct {
	Indexes []int     `json:"indexes"`
	Values  []float64 `json:"values"`
}

// Append adds a (joint, value) pair at the end of the vector.
func (v *SparseVector) Append(joint int, value float64) {
	v.Indexes = append(v.Indexes, joint)
	v.Values = append(v.Values, value)
}

// Len returns the number of entries.
func (v SparseVector) Len() int {
	return len(v.Indexes)
}

// Get returns the first value recorded for joint.
func (v SparseVector) Get(joint int) (float64, bool) {
	for i, idx := range v.Indexes {
		if idx == joint {
			return v.Values[i], true
		}
	}
	return 0, false
}

// SameIndexes reports whether both vectors name the same joints in the same order.
func (v SparseVector) SameIndexes(other SparseVector) bool {
	return slices.Equal(v.Indexes, other.Indexes)
}

// KeyFrame is one timestamped pose.
//
// Time is the cumulative end-of-frame time since motion start, in the file's
// time unit. Positions are radians.
type KeyFrame struct {
	Time        uint64       `json:"time"`
	Positions   SparseVector `json:"positions"`
	Stiffnesses SparseVector `json:"stiffnesses"`
}

// Result is the outcome of a parse.
//
// KeyFrames is only meaningful when Successful is true. On failure Err holds
// a *ParseError describing the first problem.
type Result struct {
	Successful bool       `json:"successful"`
	KeyFrames  []KeyFrame `json:"keyframes,omitempty"`
	Err        error      `json:"-"`
}
