package pcapng

import (
	"errors"
	"io"

	"github.com/gopcapfile/pcapfile/internal/refill"
)

// ReaderOption configures a PcapNgReader.
type ReaderOption func(*readerConfig)

type readerConfig struct {
	bufferCapacity int
	autodetectGzip bool
	parserOpts     []ParserOption
}

// WithBufferCapacity sets the refill buffer's initial capacity.
func WithBufferCapacity(n int) ReaderOption {
	return func(c *readerConfig) { c.bufferCapacity = n }
}

// WithGzipAutodetect transparently decompresses a gzip-wrapped capture
// stream, per the domain stack's refill.NewAutodetect hook.
func WithGzipAutodetect() ReaderOption {
	return func(c *readerConfig) { c.autodetectGzip = true }
}

// WithReaderCustomBlockInterpreter registers a Custom block interpreter
// for blocks decoded by this reader.
func WithReaderCustomBlockInterpreter(fn CustomBlockInterpreter) ReaderOption {
	return func(c *readerConfig) { c.parserOpts = append(c.parserOpts, WithCustomBlockInterpreter(fn)) }
}

// PcapNgReader is the push-style entry point: it owns a refill buffer over
// a streaming source and hands back one block at a time (spec.md §4.6).
// It delegates all parsing and state tracking to an embedded PcapNgParser,
// the way the original's `reader.rs` wraps `parser.rs`.
type PcapNgReader struct {
	buf    *refill.Buffer
	parser *PcapNgParser
}

// NewReader returns a PcapNgReader over src.
func NewReader(src io.Reader, opts ...ReaderOption) (*PcapNgReader, error) {
	cfg := readerConfig{bufferCapacity: refill.DefaultCapacity}
	for _, o := range opts {
		o(&cfg)
	}

	var buf *refill.Buffer
	if cfg.autodetectGzip {
		b, err := refill.NewAutodetect(src)
		if err != nil {
			return nil, err
		}
		buf = b
	} else {
		buf = refill.NewSize(src, cfg.bufferCapacity)
	}

	return &PcapNgReader{buf: buf, parser: NewParser(cfg.parserOpts...)}, nil
}

// State returns the reader's current stream state.
func (r *PcapNgReader) State() *State { return r.parser.State() }

// ReadBlock returns the next typed block, or io.EOF once the source is
// exhausted with no partial block pending.
func (r *PcapNgReader) ReadBlock() (Block, error) {
	hasData, err := r.buf.HasDataLeft()
	if err != nil {
		return nil, err
	}
	if !hasData {
		return nil, io.EOF
	}
	block, err := refill.ParseWith(r.buf, r.parser.NextBlock)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return block, err
}

// ReadRawBlock returns the next block without typed decoding (spec.md
// §4.6, SPEC_FULL.md supplemented feature #7).
func (r *PcapNgReader) ReadRawBlock() (RawBlock, error) {
	hasData, err := r.buf.HasDataLeft()
	if err != nil {
		return RawBlock{}, err
	}
	if !hasData {
		return RawBlock{}, io.EOF
	}
	return refill.ParseWith(r.buf, r.parser.NextRawBlock)
}
