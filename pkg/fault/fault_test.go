package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidArgument_setsCodeAndMessage(t *testing.T) {
	err := InvalidArgument("bad input")
	assert.Equal(t, CodeInvalidArgument, err.Code)
	assert.Equal(t, "bad input", err.Error())
}

func TestUnknownSelector_quotesSelector(t *testing.T) {
	err := UnknownSelector("mocha")
	assert.Equal(t, CodeUnknownSelector, err.Code)
	assert.Contains(t, err.Error(), `"mocha"`)
}

func TestIs_matchesByCodeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("fill supplies: %w", InvalidArgument("water cannot be negative"))

	assert.True(t, errors.Is(wrapped, ErrInvalidArgument))
	assert.False(t, errors.Is(wrapped, ErrUnknownSelector))
	assert.True(t, IsInvalidArgument(wrapped))
	assert.False(t, IsUnknownSelector(wrapped))
	assert.False(t, IsInvalidArgument(errors.New("plain")))
}

func TestNonNegative(t *testing.T) {
	names := []string{"water", "milk"}

	require.NoError(t, NonNegative("fill", names, 0, 5))

	err := NonNegative("fill", names, 3, -1)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
	assert.Equal(t, "fill: milk cannot be negative (got -1)", err.Error())

	err = NonNegative("fill", nil, -2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value cannot be negative")
}

func TestCode_String(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{CodeInvalidArgument, "INVALID_ARGUMENT"},
		{CodeUnknownSelector, "UNKNOWN_SELECTOR"},
		{Code(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.String())
	}
}
