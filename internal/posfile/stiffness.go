package posfile

// handleStiffness buffers the values of a stiffness line.
// Values accumulate until the next position line, even across several
// stiffness lines.
func (p *Parser) handleStiffness(st *parseState, lineNo int, tokens []string) error {
	n := p.joints.Len()
	if expected := n + 1; len(tokens) != expected {
		return NewMalformedLineError(lineNo, LineStiffness, expected, len(tokens))
	}

	st.customStiffness = true

	for joint := 0; joint < n; joint++ {
		token := tokens[joint+1]
		if token == SkipToken {
			continue
		}
		value, err := parseReal(token)
		if err != nil {
			return NewInvalidStiffnessError(lineNo, token, joint)
		}
		st.stiffness.Append(joint, value)
	}

	return nil
}
