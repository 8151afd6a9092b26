package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	err := Error(ERANGE, "cannot parse %q", "0xZZ")
	assert.Equal(t, ERANGE, Code(err))
	assert.Equal(t, `cannot parse "0xZZ"`, UserMessage(err))
	assert.True(t, Is(err, ERANGE))
	assert.False(t, Is(err, ENAME))
}

func TestWrappedErrorKeepsChain(t *testing.T) {
	base := errors.New("disk full")
	err := WrapError(base, ECONTAINER, "cannot write entry %s", "0x41")
	assert.ErrorIs(t, err, base)
	outer := fmt.Errorf("build failed: %w", err)
	assert.Equal(t, ECONTAINER, Code(outer))
	assert.Equal(t, "cannot write entry 0x41", UserMessage(outer))
	assert.Contains(t, err.Error(), "disk full")
}

func TestCodeOfForeignError(t *testing.T) {
	assert.Equal(t, NOERROR, Code(nil))
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, EINTERNAL, Code(errors.New("x")))
	assert.Equal(t, "internal error", UserMessage(errors.New("x")))
}

func TestErrorWithCodeWrapsNil(t *testing.T) {
	err := ErrorWithCode(nil, EMETRICS)
	assert.Equal(t, EMETRICS, Code(err))
	assert.Equal(t, "font metrics unavailable", UserMessage(err))
}
