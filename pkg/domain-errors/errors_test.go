package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeUnavailable, "store unavailable")

	require.Error(t, err)
	assert.True(t, HasCode(err, CodeUnavailable))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store unavailable: connection refused", err.Error())
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestHasCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("submit: %w", New(CodeStaleState, "application changed"))
	assert.True(t, Is(err, CodeStaleState))
	assert.False(t, Is(err, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
}

func TestIsConflict(t *testing.T) {
	for _, code := range []Code{CodeConflict, CodeStaleState, CodeImmutableField} {
		assert.True(t, IsConflict(New(code, "x")), string(code))
	}
	assert.False(t, IsConflict(New(CodeTerminalState, "x")))
	assert.False(t, IsConflict(New(CodeValidation, "x")))
	assert.False(t, IsConflict(errors.New("x")))
}
