package refill

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

// chunked is an io.Reader that yields its bytes in small fixed-size
// chunks, simulating a real streaming source split across read calls.
type chunked struct {
	data      []byte
	chunkSize int
}

func (c *chunked) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := c.chunkSize
	if n > len(p) {
		n = len(p)
	}
	if n > len(c.data) {
		n = len(c.data)
	}
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}

func parseU32LE(buf []byte) ([]byte, uint32, error) {
	if len(buf) < 4 {
		return nil, 0, ErrIncomplete
	}
	v := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	return buf[4:], v, nil
}

func TestParseWithAcrossChunks(t *testing.T) {
	src := &chunked{data: []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0}, chunkSize: 3}
	b := NewSize(src, 4)

	var got []uint32
	for i := 0; i < 3; i++ {
		v, err := ParseWith(b, parseU32LE)
		require.NoError(t, err)
		got = append(got, v)
	}
	require.Equal(t, []uint32{1, 2, 3}, got)

	_, err := ParseWith(b, parseU32LE)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestHasDataLeft(t *testing.T) {
	b := New(bytes.NewReader([]byte{1, 2, 3}))
	left, err := b.HasDataLeft()
	require.NoError(t, err)
	require.True(t, left)

	_, err = ParseWith(b, func(buf []byte) ([]byte, struct{}, error) {
		if len(buf) < 3 {
			return nil, struct{}{}, ErrIncomplete
		}
		return buf[3:], struct{}{}, nil
	})
	require.NoError(t, err)

	left, err = b.HasDataLeft()
	require.NoError(t, err)
	require.False(t, left)
}

func TestNewAutodetectGzip(t *testing.T) {
	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	payload := []byte("hello pcapfile")
	_, err := gz.Write(payload)
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	b, err := NewAutodetect(bytes.NewReader(compressed.Bytes()))
	require.NoError(t, err)
	require.True(t, b.gzipped)

	require.NoError(t, b.fill(len(payload)))
	require.Equal(t, payload, b.buf[b.start:b.end])
}

func TestNewAutodetectPlain(t *testing.T) {
	b, err := NewAutodetect(bytes.NewReader([]byte{0x0A, 0x0D, 0x0D, 0x0A}))
	require.NoError(t, err)
	require.False(t, b.gzipped)

	v, err := ParseWith(b, parseU32LE)
	require.NoError(t, err)
	require.Equal(t, uint32(0x0A0D0D0A), v)
}
