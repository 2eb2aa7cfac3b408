package ast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionFlagFromInt(t *testing.T) {
	tests := []struct {
		in   int
		want ConversionFlag
	}{
		{0, ConversionNone},
		{115, ConversionStr},
		{97, ConversionAscii},
		{114, ConversionRepr},
	}

	for _, tt := range tests {
		flag, err := ConversionFlagFromInt(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, flag)
	}
}

func TestConversionFlagFromIntRejectsUnknown(t *testing.T) {
	for _, in := range []int{1, 98, 'x', 'S', 115 + 256, -1} {
		_, err := ConversionFlagFromInt(in)
		require.Error(t, err)

		var invalid InvalidConversionFlag
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, in, int(invalid))
	}
}

func TestConversionFlagString(t *testing.T) {
	assert.Equal(t, "None", ConversionNone.String())
	assert.Equal(t, "Str", ConversionStr.String())
	assert.Equal(t, "Ascii", ConversionAscii.String())
	assert.Equal(t, "Repr", ConversionRepr.String())
}
