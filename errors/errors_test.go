package errors_test

import (
	"fmt"
	"testing"

	"github.com/contentmigrate/pageheader/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const errTransfer = errors.Error("asset transfer failed")

func TestError_Is_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		target   error
		expected bool
	}{
		{name: "same constant", target: errTransfer, expected: true},
		{name: "message with cause", target: errors.New("asset transfer failed -- disk full"), expected: true},
		{name: "different message", target: errors.New("mapping not found"), expected: false},
		{name: "prefix without separator", target: errors.New("asset transfer failed twice"), expected: false},
		{name: "nil target", target: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, errTransfer.Is(tt.target))
		})
	}
}

func TestError_Wrap_Success(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("open /sites/a/Images/hero.jpg: file does not exist")
	err := errTransfer.Wrap(cause)

	assert.Equal(t, "asset transfer failed -- open /sites/a/Images/hero.jpg: file does not exist", err.Error())
	assert.True(t, errors.Is(err, errTransfer))
	assert.ErrorIs(t, err, cause)

	var target errors.Error
	require.True(t, errors.As(err, &target))
	assert.Equal(t, errTransfer, target)
}

func TestError_Wrapf_Success(t *testing.T) {
	t.Parallel()

	err := errTransfer.Wrapf("no folder in %q", "hero.jpg")
	assert.Equal(t, `asset transfer failed -- no folder in "hero.jpg"`, err.Error())
	assert.True(t, errors.Is(err, errTransfer))
}

func TestWrap_NilCause_Success(t *testing.T) {
	t.Parallel()

	err := errTransfer.Wrap(nil)
	assert.Equal(t, "asset transfer failed", err.Error())
	assert.NoError(t, errors.Unwrap(err))
}

func TestUnwrapErrors_Success(t *testing.T) {
	t.Parallel()

	a := errors.New("page one failed")
	b := errors.New("page two failed")

	assert.Nil(t, errors.UnwrapErrors(nil))
	assert.Equal(t, []error{a}, errors.UnwrapErrors(a))
	assert.Equal(t, []error{a, b}, errors.UnwrapErrors(errors.Join(a, b)))
}
