package core

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, NOERROR, Code(nil))
	assert.Equal(t, EINTERNAL, Code(io.EOF), "plain errors are internal")
	err := Error(EMISSING, "font %s not found", "cmr10")
	assert.Equal(t, EMISSING, Code(err))
	assert.Equal(t, "font cmr10 not found", UserMessage(err))
	assert.Equal(t, "[122] font cmr10 not found: not found", err.Error())
}

func TestWrapError(t *testing.T) {
	err := WrapError(io.ErrUnexpectedEOF, EFORMAT, "VF file %s", "x.vf")
	assert.Equal(t, EFORMAT, Code(err))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	outer := fmt.Errorf("batch: %w", WrapError(err, Code(err), "cannot resolve"))
	assert.Equal(t, EFORMAT, Code(outer), "code should survive wrapping")
	assert.Equal(t, "cannot resolve", UserMessage(outer))
	assert.Equal(t, "not found", UserMessage(ErrorWithCode(nil, EMISSING)))
	assert.Equal(t, "internal error", UserMessage(io.EOF))
	assert.Equal(t, "", UserMessage(nil))
}
