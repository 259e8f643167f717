// Package motion gives parsed keyframe sequences a stable identity.
//
// A Motion is a named, validated keyframe list together with the joint
// names it was parsed against. Its ID is content addressed: SHA-256 over the
// canonical JSON of joints and keyframes with a domain prefix. The name is
// not part of the ID, so importing the same file twice under different names
// yields one motion.
//
// Canonical JSON follows RFC 8785 ordering and escaping rules but forbids
// floats. Angles and stiffnesses are converted to fixed-point integers
// (Fixed) before hashing, so IDs do not depend on float formatting.
package motion
