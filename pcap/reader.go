package pcap

import (
	"errors"
	"io"

	"github.com/gopcapfile/pcapfile/internal/refill"
)

// ReaderOption configures a PcapReader.
type ReaderOption func(*readerConfig)

type readerConfig struct {
	bufferCapacity int
	autodetectGzip bool
}

// WithBufferCapacity sets the refill buffer's initial capacity.
func WithBufferCapacity(n int) ReaderOption {
	return func(c *readerConfig) { c.bufferCapacity = n }
}

// WithGzipAutodetect transparently decompresses a gzip-wrapped capture
// stream before any pcap framing is attempted.
func WithGzipAutodetect() ReaderOption {
	return func(c *readerConfig) { c.autodetectGzip = true }
}

// PcapReader is the push-style entry point: it owns a refill buffer over
// a streaming source, parses the file header once at construction, then
// hands back one packet record at a time.
type PcapReader struct {
	buf    *refill.Buffer
	parser *PcapParser
}

// NewReader parses src's file header and returns a ready-to-use
// PcapReader.
func NewReader(src io.Reader, opts ...ReaderOption) (*PcapReader, error) {
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

	header, err := refill.ParseWith(buf, parseFileHeader)
	if err != nil {
		return nil, err
	}
	return &PcapReader{buf: buf, parser: &PcapParser{Header: header}}, nil
}

// Header returns the file header parsed at construction time.
func (r *PcapReader) Header() FileHeader { return r.parser.Header }

// ReadRecord returns the next packet record, or io.EOF once the source is
// exhausted with no partial record pending.
func (r *PcapReader) ReadRecord() (PacketRecord, error) {
	hasData, err := r.buf.HasDataLeft()
	if err != nil {
		return PacketRecord{}, err
	}
	if !hasData {
		return PacketRecord{}, io.EOF
	}
	rec, err := refill.ParseWith(r.buf, r.parser.NextRecord)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return PacketRecord{}, io.ErrUnexpectedEOF
	}
	return rec, err
}
