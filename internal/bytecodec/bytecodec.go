// Package bytecodec provides endian-parameterized reads and writes of
// fixed-width integers, raw byte runs, and UTF-8 validation of a byte slice
// (DecodeUTF8). It has no length-prefixed string reader or writer.
//
// It knows nothing about blocks, options, or any other pcap/pcapng
// semantics; it is the leaf layer every other package in this module
// builds on, in the same spirit as arloliu/mebo's endian package combines
// binary.ByteOrder and binary.AppendByteOrder into one interface.
package bytecodec

import (
	"encoding/binary"
	"errors"
	"unicode/utf8"
)

// ErrShortBuffer is returned when a Cursor read runs past the end of its
// backing slice.
var ErrShortBuffer = errors.New("bytecodec: short buffer")

// ErrInvalidUTF8 is returned by DecodeUTF8 when its input is not valid
// UTF-8.
var ErrInvalidUTF8 = errors.New("bytecodec: invalid utf-8")

// Cursor reads fixed-width fields from a byte slice in a given byte order,
// advancing an internal offset on every read. It never allocates and never
// returns a value on error — the caller must check err after every call
// (or rely on the fact that once an error occurs, further reads return the
// zero value and the same error without touching the slice further out of
// bounds).
type Cursor struct {
	buf   []byte
	off   int
	order binary.ByteOrder
	err   error
}

// NewCursor returns a Cursor over buf using the given byte order.
func NewCursor(buf []byte, order binary.ByteOrder) *Cursor {
	return &Cursor{buf: buf, order: order}
}

// Err returns the first error encountered by this cursor, if any.
func (c *Cursor) Err() error { return c.err }

// Offset returns the current read offset into the backing slice.
func (c *Cursor) Offset() int { return c.off }

// Remaining returns the number of unread bytes left in the backing slice.
func (c *Cursor) Remaining() int { return len(c.buf) - c.off }

func (c *Cursor) take(n int) []byte {
	if c.err != nil {
		return nil
	}
	if c.off+n > len(c.buf) {
		c.err = ErrShortBuffer
		return nil
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b
}

// U8 reads one byte.
func (c *Cursor) U8() uint8 {
	b := c.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// U16 reads a 16-bit unsigned integer.
func (c *Cursor) U16() uint16 {
	b := c.take(2)
	if b == nil {
		return 0
	}
	return c.order.Uint16(b)
}

// U32 reads a 32-bit unsigned integer.
func (c *Cursor) U32() uint32 {
	b := c.take(4)
	if b == nil {
		return 0
	}
	return c.order.Uint32(b)
}

// U64 reads a 64-bit unsigned integer.
func (c *Cursor) U64() uint64 {
	b := c.take(8)
	if b == nil {
		return 0
	}
	return c.order.Uint64(b)
}

// I32 reads a 32-bit signed integer.
func (c *Cursor) I32() int32 {
	return int32(c.U32())
}

// I64 reads a 64-bit signed integer.
func (c *Cursor) I64() int64 {
	return int64(c.U64())
}

// Bytes reads and returns the next n bytes verbatim (still backed by the
// original slice; callers that need to retain it past the next buffer
// reuse must copy it themselves).
func (c *Cursor) Bytes(n int) []byte {
	return c.take(n)
}

// Skip advances the cursor by n bytes without returning them.
func (c *Cursor) Skip(n int) {
	c.take(n)
}

// Sink is anything fixed-width values can be appended to. *bytes.Buffer and
// the counting sink below both satisfy it.
type Sink interface {
	Write(p []byte) (int, error)
}

// Writer appends fixed-width fields to a Sink in a given byte order. Unlike
// Cursor it can fail with an I/O error from the underlying sink (e.g. a
// full disk), not a short-buffer condition.
type Writer struct {
	sink  Sink
	order binary.ByteOrder
	tmp   [8]byte
}

// NewWriter returns a Writer over sink using the given byte order.
func NewWriter(sink Sink, order binary.ByteOrder) *Writer {
	return &Writer{sink: sink, order: order}
}

func (w *Writer) write(p []byte) error {
	_, err := w.sink.Write(p)
	return err
}

// PutU8 writes one byte.
func (w *Writer) PutU8(v uint8) error {
	w.tmp[0] = v
	return w.write(w.tmp[:1])
}

// PutU16 writes a 16-bit unsigned integer.
func (w *Writer) PutU16(v uint16) error {
	w.order.PutUint16(w.tmp[:2], v)
	return w.write(w.tmp[:2])
}

// PutU32 writes a 32-bit unsigned integer.
func (w *Writer) PutU32(v uint32) error {
	w.order.PutUint32(w.tmp[:4], v)
	return w.write(w.tmp[:4])
}

// PutU64 writes a 64-bit unsigned integer.
func (w *Writer) PutU64(v uint64) error {
	w.order.PutUint64(w.tmp[:8], v)
	return w.write(w.tmp[:8])
}

// PutI32 writes a 32-bit signed integer.
func (w *Writer) PutI32(v int32) error { return w.PutU32(uint32(v)) }

// PutI64 writes a 64-bit signed integer.
func (w *Writer) PutI64(v int64) error { return w.PutU64(uint64(v)) }

// PutBytes writes p verbatim.
func (w *Writer) PutBytes(p []byte) error { return w.write(p) }

// PutZeros writes n zero bytes, used for option/block alignment padding.
func (w *Writer) PutZeros(n int) error {
	var zeros [4]byte
	for n > 0 {
		k := n
		if k > len(zeros) {
			k = len(zeros)
		}
		if err := w.write(zeros[:k]); err != nil {
			return err
		}
		n -= k
	}
	return nil
}

// Pad4 returns the number of zero bytes needed to round n up to a 4-byte
// boundary.
func Pad4(n int) int {
	return (4 - (n & 3)) & 3
}

// DecodeUTF8 validates that b is well-formed UTF-8 and returns it as a
// string, or ErrInvalidUTF8.
func DecodeUTF8(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// CountingSink is a Sink that discards bytes but counts how many were
// written. The typed block emit path (spec.md §4.3) uses it for a dry run
// to compute a block's total length before emitting for real.
type CountingSink struct {
	N int
}

// Write implements Sink.
func (c *CountingSink) Write(p []byte) (int, error) {
	c.N += len(p)
	return len(p), nil
}
