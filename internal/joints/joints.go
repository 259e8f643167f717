// Package joints defines the fixed, ordered joint enumerations that pos files
// are written against.
//
// A joint's identity is its position in the Set (0..N-1). Sets are immutable
// once constructed; every accessor returns copies.
package joints

import (
	"fmt"
)

// Set is an immutable ordered enumeration of joint names.
type Set struct {
	names []string
	index map[string]int
}

// NAO joint names in nao_lola command order.
var naoNames = []string{
	"HeadYaw",
	"HeadPitch",
	"LShoulderPitch",
	"LShoulderRoll",
	"LElbowYaw",
	"LElbowRoll",
	"LWristYaw",
	"LHipYawPitch",
	"LHipRoll",
	"LHipPitch",
	"LKneePitch",
	"LAnklePitch",
	"LAnkleRoll",
	"RHipRoll",
	"RHipPitch",
	"RKneePitch",
	"RAnklePitch",
	"RAnkleRoll",
	"RShoulderPitch",
	"RShoulderRoll",
	"RElbowYaw",
	"RElbowRoll",
	"RWristYaw",
	"LHand",
	"RHand",
}

// NAOJointCount is the number of joints on a NAO V6.
const NAOJointCount = 25

// NAO returns the NAO V6 joint set.
func NAO() Set {
	s, err := New(naoNames...)
	if err != nil {
		panic(err) // static table
	}
	return s
}

// New creates a Set from names in index order.
// Returns an error if names is empty, or contains an empty or duplicate name.
func New(names ...string) (Set, error) {
	if len(names) == 0 {
		return Set{}, fmt.Errorf("joint set must contain at least one joint")
	}

	s := Set{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if name == "" {
			return Set{}, fmt.Errorf("joint %d: name must not be empty", i)
		}
		if prev, dup := s.index[name]; dup {
			return Set{}, fmt.Errorf("joint %d: duplicate name %q (first at %d)", i, name, prev)
		}
		s.names[i] = name
		s.index[name] = i
	}
	return s, nil
}

// Anonymous creates a Set of n joints named J0..J{n-1}.
// Useful when only the joint count matters.
func Anonymous(n int) (Set, error) {
	if n <= 0 {
		return Set{}, fmt.Errorf("joint count must be positive, got %d", n)
	}
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("J%d", i)
	}
	return New(names...)
}

// Len returns the number of joints.
func (s Set) Len() int {
	return len(s.names)
}

// Name returns the name of joint i, or "" if i is out of range.
func (s Set) Name(i int) string {
	if i < 0 || i >= len(s.names) {
		return ""
	}
	return s.names[i]
}

// Index returns the index of the named joint.
func (s Set) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Names returns a copy of the joint names in index order.
func (s Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
