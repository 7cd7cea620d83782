package pcap

import (
	"io"

	"github.com/gopcapfile/pcapfile/internal/bytecodec"
)

// WriterOption configures a PcapWriter, mirroring the pcapng writer's
// functional-options constructor.
type WriterOption func(*FileHeader)

// WithFileHeader supplies the file header written immediately by
// NewWriter, in place of the default version 2.4 little-endian header.
func WithFileHeader(h FileHeader) WriterOption {
	return func(cfg *FileHeader) { *cfg = h }
}

// PcapWriter owns an output sink and the file header written to it at
// construction time (spec.md §4.6 "PcapWriter").
type PcapWriter struct {
	sink   io.Writer
	Header FileHeader
}

// NewWriter returns a PcapWriter, having already written a file header to
// sink. The default header is version 2.4, little-endian, microsecond
// resolution, with the given linkType and snapLen.
func NewWriter(sink io.Writer, linkType uint32, snapLen uint32, opts ...WriterOption) (*PcapWriter, error) {
	header := *NewFileHeader(linkType, snapLen)
	for _, o := range opts {
		o(&header)
	}

	w := bytecodec.NewWriter(sink, header.Order)
	if err := emitFileHeader(w, &header); err != nil {
		return nil, err
	}
	return &PcapWriter{sink: sink, Header: header}, nil
}

// WriteRecord validates rec (included ≤ snaplen, included ≤ original,
// timestamp fraction in range) and writes it.
func (w *PcapWriter) WriteRecord(rec PacketRecord) error {
	return emitRecord(bytecodec.NewWriter(w.sink, w.Header.Order), w.Header, rec)
}

// WriteRawRecord writes rec without validation (spec.md §4.6, "Writers
// may also accept a raw packet that is not validated").
func (w *PcapWriter) WriteRawRecord(rec PacketRecord) error {
	return emitRawRecord(bytecodec.NewWriter(w.sink, w.Header.Order), w.Header, rec)
}
