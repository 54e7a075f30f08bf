package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBody_JSON(t *testing.T) {
	decoded := DecodeBody([]byte(`{"page": 1}`))
	m, ok := decoded.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), m["page"])
}

func TestDecodeBody_PlainText(t *testing.T) {
	decoded := DecodeBody([]byte("hello world"))
	assert.Equal(t, "hello world", decoded)
}

func TestDecodeBody_Empty(t *testing.T) {
	assert.Equal(t, "", DecodeBody(nil))
	assert.Equal(t, "", DecodeBody([]byte{}))
}

func TestDecodeBody_Binary(t *testing.T) {
	raw := []byte{0xff, 0xfe, 0x00, 0x01}
	decoded := DecodeBody(raw)
	require.True(t, IsBinaryBody(decoded))

	// The placeholder must be reversible.
	assert.Equal(t, raw, EncodeBody(decoded))
}

func TestEncodeBody_InvertsDecode(t *testing.T) {
	cases := [][]byte{
		[]byte(`{"a":1}`),
		[]byte("plain"),
		{0xde, 0xad, 0xbe, 0xef},
	}
	for _, raw := range cases {
		assert.Equal(t, raw, EncodeBody(DecodeBody(raw)))
	}
}

func TestBodyLength(t *testing.T) {
	length, ok := BodyLength("hello")
	require.True(t, ok)
	assert.Equal(t, "5", length)

	// Binary placeholders report no length: the recorded form does not
	// match the transported bytes.
	_, ok = BodyLength(DecodeBody([]byte{0xff, 0xfe}))
	assert.False(t, ok)
}
