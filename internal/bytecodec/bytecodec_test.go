package bytecodec

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	buf := new(bytes.Buffer)
	w := NewWriter(buf, binary.BigEndian)
	require.NoError(t, w.PutU8(0xAB))
	require.NoError(t, w.PutU16(0x1234))
	require.NoError(t, w.PutU32(0xDEADBEEF))
	require.NoError(t, w.PutU64(0x0102030405060708))
	require.NoError(t, w.PutI32(-1))

	c := NewCursor(buf.Bytes(), binary.BigEndian)
	require.Equal(t, uint8(0xAB), c.U8())
	require.Equal(t, uint16(0x1234), c.U16())
	require.Equal(t, uint32(0xDEADBEEF), c.U32())
	require.Equal(t, uint64(0x0102030405060708), c.U64())
	require.Equal(t, int32(-1), c.I32())
	require.NoError(t, c.Err())
	require.Equal(t, 0, c.Remaining())
}

func TestCursorShortBuffer(t *testing.T) {
	c := NewCursor([]byte{1, 2}, binary.LittleEndian)
	c.U32()
	require.ErrorIs(t, c.Err(), ErrShortBuffer)

	// Once in error state, further reads stay zero and don't panic.
	require.Equal(t, uint8(0), c.U8())
}

func TestPad4(t *testing.T) {
	cases := map[int]int{0: 0, 1: 3, 2: 2, 3: 1, 4: 0, 5: 3}
	for n, want := range cases {
		require.Equal(t, want, Pad4(n), "Pad4(%d)", n)
	}
}

func TestDecodeUTF8Invalid(t *testing.T) {
	_, err := DecodeUTF8([]byte{0xff, 0xfe})
	require.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestCountingSink(t *testing.T) {
	cs := &CountingSink{}
	w := NewWriter(cs, binary.LittleEndian)
	require.NoError(t, w.PutU32(1))
	require.NoError(t, w.PutBytes([]byte("hello")))
	require.Equal(t, 9, cs.N)
}
