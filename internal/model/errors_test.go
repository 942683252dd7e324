package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_Wrapped(t *testing.T) {
	base := NewError(KindSymbol, "unknown symbol %s", "XYZ")
	wrapped := fmt.Errorf("fetch: %w", base)

	assert.Equal(t, KindSymbol, KindOf(wrapped))
	assert.Equal(t, "SymbolError: unknown symbol XYZ", base.Error())
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}

func TestWrapError_Unwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapError(KindTransient, cause, "request failed")
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Message, "connection reset")
}

func TestAsError(t *testing.T) {
	classified := NewError(KindAuth, "bad key")
	assert.Same(t, classified, AsError(fmt.Errorf("ctx: %w", classified)))

	got := AsError(errors.New("boom"))
	assert.Equal(t, KindFormat, got.Kind)
	assert.Equal(t, "unexpected failure", got.Message)
}
