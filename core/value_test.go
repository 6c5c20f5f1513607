package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueAsNumber(t *testing.T) {
	v, err := NumberValue(2.5).AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	v, err = BoolValue(true).AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = BoolValue(false).AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = StringValue("oak").AsNumber()
	assert.Error(t, err)
	_, err = NilValue().AsNumber()
	assert.Error(t, err)
}

func TestValueEqual(t *testing.T) {
	assert.True(t, NumberValue(2).Equal(NumberValue(2)))
	assert.False(t, NumberValue(2).Equal(NumberValue(3)))
	assert.True(t, StringValue("a").Equal(StringValue("a")))
	assert.True(t, NilValue().Equal(NilValue()))

	// No cross-kind coercion on equality.
	assert.False(t, NumberValue(1).Equal(BoolValue(true)))
	assert.False(t, NumberValue(0).Equal(NilValue()))
}

func TestErrorKindRoundTrip(t *testing.T) {
	err := Errorf(ErrDivisionByZero, "division by zero in %q", "a / b")
	assert.Equal(t, ErrDivisionByZero, KindOf(err))
	assert.Contains(t, err.Error(), "a / b")

	wrapped := errors.Join(errors.New("outer"), err)
	assert.Equal(t, ErrDivisionByZero, KindOf(wrapped))

	assert.Equal(t, ErrNone, KindOf(errors.New("plain")))
	assert.Equal(t, ErrNone, KindOf(nil))
}

func TestErrorKindNames(t *testing.T) {
	assert.Equal(t, "SyntaxError", ErrSyntax.String())
	assert.Equal(t, "UnknownIdentifier", ErrUnknownIdentifier.String())
	assert.Equal(t, "CircularFunctionReference", ErrCircularFunction.String())
	assert.Equal(t, "ExcessiveExpansionDepth", ErrExpansionDepth.String())
	assert.Equal(t, "ForwardOutputReference", ErrForwardOutputRef.String())
}
