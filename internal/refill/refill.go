// Package refill implements the buffered refill reader described in
// spec.md §4.2: a growable byte buffer wrapping a streaming source, with a
// single primitive (ParseWith) that retries a slice parser after
// pulling more bytes whenever the parser reports that it needs more data
// than is currently buffered.
//
// No pack example implements this exact shape; the closest relative is
// sofiworker/gk's gnet/pcapng reader, which reads one io.ReadFull per
// block instead of reusing a single growable buffer across partial reads.
package refill

import (
	"errors"
	"io"

	"github.com/klauspost/compress/gzip"
)

// ErrIncomplete is returned by a slice parser passed to ParseWith to signal
// that it needs more bytes than are currently buffered. It never escapes
// ParseWith to the caller under normal conditions: refill either supplies
// enough bytes and retries, or turns a persistent ErrIncomplete into
// io.ErrUnexpectedEOF once the source is exhausted.
var ErrIncomplete = errors.New("refill: incomplete buffer")

// DefaultCapacity is the initial buffer capacity, matching the ~1 MiB the
// spec calls out.
const DefaultCapacity = 1 << 20

// gzipMagic is the two leading bytes of a gzip stream (RFC 1952).
var gzipMagic = [2]byte{0x1f, 0x8b}

// Buffer is a growable byte buffer over an io.Reader. Parsers never see the
// underlying source directly; they run against buf[start:] and, on
// success, return the unconsumed remainder as a sub-slice of the same
// buffer. ParseWith shifts the returned remainder to the front
// before the next refill so a parser's own slice indices stay valid only
// within a single call.
type Buffer struct {
	src     io.Reader
	buf     []byte
	start   int // index of first unread byte
	end     int // index one past last valid byte
	gzipped bool
}

// New wraps src in a Buffer with the default initial capacity.
func New(src io.Reader) *Buffer {
	return NewSize(src, DefaultCapacity)
}

// NewSize wraps src in a Buffer with the given initial capacity.
func NewSize(src io.Reader, capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{src: src, buf: make([]byte, 0, capacity)}
}

// NewAutodetect wraps src in a Buffer, transparently layering a gzip
// decompressor in front of it if the stream's first two bytes are the
// gzip magic number. This is the domain-stack hook described in
// SPEC_FULL.md: capture files are routinely shipped gzip-compressed and
// comparable pcap tooling decodes them transparently.
func NewAutodetect(src io.Reader) (*Buffer, error) {
	b := New(src)
	if err := b.fill(2); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if b.end-b.start >= 2 && b.buf[b.start] == gzipMagic[0] && b.buf[b.start+1] == gzipMagic[1] {
		gz, err := gzip.NewReader(&residue{b: b})
		if err != nil {
			return nil, err
		}
		return &Buffer{src: gz, buf: make([]byte, 0, DefaultCapacity), gzipped: true}, nil
	}
	return b, nil
}

// residue lets gzip.NewReader read through a Buffer that may already hold
// a couple of probe bytes, without losing them.
type residue struct {
	b *Buffer
}

func (r *residue) Read(p []byte) (int, error) {
	if r.b.start < r.b.end {
		n := copy(p, r.b.buf[r.b.start:r.b.end])
		r.b.start += n
		return n, nil
	}
	return r.b.src.Read(p)
}

// HasDataLeft reports whether there is buffered data, or whether a refill
// read still produces bytes. It returns false only once the buffer is
// empty and the source has signaled EOF.
func (b *Buffer) HasDataLeft() (bool, error) {
	if b.start < b.end {
		return true, nil
	}
	n, err := b.refillOnce()
	if n > 0 {
		return true, nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return false, nil
}

// compact shifts unread bytes to the front of buf.
func (b *Buffer) compact() {
	if b.start == 0 {
		return
	}
	n := copy(b.buf[:cap(b.buf)], b.buf[b.start:b.end])
	b.buf = b.buf[:n]
	b.start = 0
	b.end = n
}

// refillOnce performs a single Read on the source, growing buf if it is
// already full, and appends whatever was read.
func (b *Buffer) refillOnce() (int, error) {
	b.compact()
	if b.end == cap(b.buf) {
		grown := make([]byte, len(b.buf), cap(b.buf)*2)
		copy(grown, b.buf)
		b.buf = grown
	}
	free := b.buf[b.end:cap(b.buf)]
	n, err := b.src.Read(free)
	b.buf = b.buf[:b.end+n]
	b.end += n
	return n, err
}

// fill refills until at least n bytes are buffered or the source errors.
func (b *Buffer) fill(n int) error {
	for b.end-b.start < n {
		read, err := b.refillOnce()
		if read == 0 {
			if err == nil {
				err = io.EOF
			}
			return err
		}
	}
	return nil
}

// SliceParser parses a prefix of buf and returns the unconsumed remainder
// (a sub-slice of buf) plus the decoded value, or ErrIncomplete if buf does
// not yet hold a full value.
type SliceParser[T any] func(buf []byte) (remainder []byte, value T, err error)

// ParseWith runs parse against the buffered bytes, refilling from the
// source and retrying whenever parse reports ErrIncomplete. If a refill
// read returns zero bytes while parse still reports ErrIncomplete, it
// fails with io.ErrUnexpectedEOF. On success the buffer's read cursor
// advances to the start of the returned remainder.
//
// parse must not retain any reference into buf beyond the call: the slice
// backing buf may be copied or resized on the next refill.
func ParseWith[T any](b *Buffer, parse SliceParser[T]) (T, error) {
	var zero T
	for {
		remainder, value, err := parse(b.buf[b.start:b.end])
		if err == nil {
			consumed := (b.end - b.start) - len(remainder)
			b.start += consumed
			return value, nil
		}
		if !errors.Is(err, ErrIncomplete) {
			return zero, err
		}
		n, rerr := b.refillOnce()
		if n == 0 {
			if rerr == nil || errors.Is(rerr, io.EOF) {
				return zero, io.ErrUnexpectedEOF
			}
			return zero, rerr
		}
	}
}
