package posfile

import "strings"

// Tokenize splits a line on runs of whitespace.
// Leading and trailing whitespace produce no empty tokens.
func Tokenize(line string) []string {
	return strings.Fields(line)
}

// Classify returns the kind of a raw line from its first character.
// A marker preceded by whitespace does not count.
func Classify(line string) LineKind {
	if line == "" {
		return LineIgnored
	}
	switch line[0] {
	case StiffnessMarker:
		return LineStiffness
	case PositionMarker:
		return LinePosition
	default:
		return LineIgnored
	}
}
