package tx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendCompactU16Widths(t *testing.T) {
	tests := []struct {
		value uint16
		want  []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{0x3FFF, []byte{0xFF, 0x7F}},
		{0x4000, []byte{0x80, 0x80, 0x01}},
		{0xFFFF, []byte{0xFF, 0xFF, 0x03}},
	}
	for _, tt := range tests {
		got := AppendCompactU16(nil, tt.value)
		assert.Equal(t, tt.want, got, "value %d", tt.value)
	}
}

func TestAppendCompactU16AppendsToBuf(t *testing.T) {
	buf := []byte{0xAA}
	buf = AppendCompactU16(buf, 300)
	assert.Equal(t, byte(0xAA), buf[0])
	assert.Len(t, buf, 3)
}

func TestDecodeCompactU16RoundTrip(t *testing.T) {
	values := []uint16{0, 1, 127, 128, 129, 255, 300, 0x3FFF, 0x4000, 0x7000, 0xFFFF}
	for _, v := range values {
		encoded := AppendCompactU16(nil, v)
		got, n, err := DecodeCompactU16(encoded)
		require.NoError(t, err, "value %d", v)
		assert.Equal(t, v, got, "value %d", v)
		assert.Equal(t, len(encoded), n, "value %d", v)
	}
}

func TestDecodeCompactU16TrailingBytes(t *testing.T) {
	// decoding stops at the encoding boundary, trailing bytes are untouched
	buf := append(AppendCompactU16(nil, 200), 0xDE, 0xAD)
	v, n, err := DecodeCompactU16(buf)
	require.NoError(t, err)
	assert.Equal(t, uint16(200), v)
	assert.Equal(t, 2, n)
}

func TestDecodeCompactU16Truncated(t *testing.T) {
	for _, buf := range [][]byte{
		nil,
		{0x80},
		{0x80, 0x80},
	} {
		_, _, err := DecodeCompactU16(buf)
		assert.ErrorIs(t, err, ErrBuildError, "buf %x", buf)
	}
}

func TestDecodeCompactU16OutOfRange(t *testing.T) {
	// three-byte encoding whose raw third byte pushes past 16 bits
	_, _, err := DecodeCompactU16([]byte{0xFF, 0xFF, 0x04})
	assert.ErrorIs(t, err, ErrBuildError)
}
