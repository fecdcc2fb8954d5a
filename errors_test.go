package reactor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	require.Equal(t, CodeOK, CodeOf(nil))
	require.Equal(t, CodeUnknown, CodeOf(errors.New("boom")))

	err := newError(CodeAgain, "recv", errors.New("eagain"))
	require.Equal(t, CodeAgain, CodeOf(err))

	wrapped := fmtErrorf(err)
	require.Equal(t, CodeAgain, CodeOf(wrapped))
}

func TestErrorIs(t *testing.T) {
	a := &Error{Code: CodeAgain}
	b := newError(CodeAgain, "send", errors.New("x"))
	require.True(t, errors.Is(b, a))

	c := newError(CodeInvalid, "send", nil)
	require.False(t, errors.Is(c, a))
}

func fmtErrorf(err error) error {
	return errors.Join(err)
}
