package hex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByte(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([2]byte{'f', 'f'}, Byte(0xff))
	assert.Equal([2]byte{'0', 'a'}, Byte(0x0a))
	assert.Equal("00", string(Bytes([]byte{0})))
	assert.Equal("deadbeef", string(Bytes([]byte{0xde, 0xad, 0xbe, 0xef})))
	assert.Equal("x01", string(Append([]byte("x"), []byte{1})))
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]byte{0xde, 0xad, 0xbe, 0xef}, Decode([]byte("DE AD\nbe-ef")))
	assert.Equal([]byte{0x12, 0x30}, Decode([]byte("12 3")))
	assert.Empty(Decode([]byte("zz")))

	b := []byte{0, 1, 0x7f, 0x80, 0xff}
	assert.Equal(b, Decode(Bytes(b)))
}
