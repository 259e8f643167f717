package posfile

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError_Error(t *testing.T) {
	err := NewMalformedLineError(4, LinePosition, 27, 26)
	assert.Equal(t, "line 4: MALFORMED_LINE: position line has 26 elements, but expected 27", err.Error())

	err = &ParseError{Code: ErrCodeInvalidDuration, Message: "bad"}
	assert.Equal(t, "INVALID_DURATION: bad", err.Error())
}

func TestCodeOf_Wrapped(t *testing.T) {
	base := NewInvalidPositionError(2, "x", 0)
	wrapped := fmt.Errorf("parse motion: %w", base)

	assert.Equal(t, ErrCodeInvalidPosition, CodeOf(wrapped))
	assert.True(t, IsCode(wrapped, ErrCodeInvalidPosition))
	assert.False(t, IsCode(wrapped, ErrCodeInvalidDuration))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("other")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}
