package pcap

import (
	"encoding/binary"
	"fmt"

	"github.com/gopcapfile/pcapfile/internal/bytecodec"
	"github.com/gopcapfile/pcapfile/internal/refill"
)

// magic numbers, spec.md §3 "Classic PCAP entities". Each is the file
// header's magic field interpreted in the file's own byte order; reading
// the on-disk bytes with the wrong assumed order instead yields the
// corresponding swap* constant.
const (
	magicUsecSameEndian uint32 = 0xa1b2c3d4
	magicUsecSwapped    uint32 = 0xd4c3b2a1
	magicNsecSameEndian uint32 = 0xa1b23c4d
	magicNsecSwapped    uint32 = 0x4d3cb2a1
)

// FileHeader is the 24-byte libpcap file header (spec.md §3, "File
// header"). Order and Nanosecond are derived from MagicNumber at parse
// time and fix the interpretation of every subsequent packet record in
// the file.
type FileHeader struct {
	VersionMajor uint16
	VersionMinor uint16
	ThisZone     int32
	SigFigs      uint32
	SnapLen      uint32
	LinkType     uint32

	Order      binary.ByteOrder
	Nanosecond bool
}

// NewFileHeader returns a default little-endian, microsecond-resolution
// file header (version 2.4, the de facto standard), matching the default
// the teacher's Writer constructor emits.
func NewFileHeader(linkType uint32, snapLen uint32) *FileHeader {
	return &FileHeader{
		VersionMajor: 2,
		VersionMinor: 4,
		SnapLen:      snapLen,
		LinkType:     linkType,
		Order:        binary.LittleEndian,
	}
}

// parseFileHeader implements spec.md §3's 24-byte file header parse: the
// magic number fixes both the byte order and the timestamp-fraction unit
// for the rest of the file.
func parseFileHeader(buf []byte) (remainder []byte, header FileHeader, err error) {
	if len(buf) < 24 {
		return nil, FileHeader{}, refill.ErrIncomplete
	}

	magicLE := binary.LittleEndian.Uint32(buf[0:4])
	var order binary.ByteOrder
	var nanosecond bool
	switch magicLE {
	case magicUsecSameEndian:
		order, nanosecond = binary.LittleEndian, false
	case magicNsecSameEndian:
		order, nanosecond = binary.LittleEndian, true
	case magicUsecSwapped:
		order, nanosecond = binary.BigEndian, false
	case magicNsecSwapped:
		order, nanosecond = binary.BigEndian, true
	default:
		return nil, FileHeader{}, fmt.Errorf("%w: bad pcap magic number 0x%08x", ErrInvalidField, magicLE)
	}

	c := bytecodec.NewCursor(buf[4:24], order)
	header = FileHeader{
		VersionMajor: c.U16(),
		VersionMinor: c.U16(),
		ThisZone:     c.I32(),
		SigFigs:      c.U32(),
		SnapLen:      c.U32(),
		LinkType:     c.U32(),
		Order:        order,
		Nanosecond:   nanosecond,
	}
	if err := c.Err(); err != nil {
		return nil, FileHeader{}, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	return buf[24:], header, nil
}

func emitFileHeader(w *bytecodec.Writer, h *FileHeader) error {
	magic := magicUsecSameEndian
	if h.Nanosecond {
		magic = magicNsecSameEndian
	}
	if err := w.PutU32(magic); err != nil {
		return err
	}
	if err := w.PutU16(h.VersionMajor); err != nil {
		return err
	}
	if err := w.PutU16(h.VersionMinor); err != nil {
		return err
	}
	if err := w.PutI32(h.ThisZone); err != nil {
		return err
	}
	if err := w.PutU32(h.SigFigs); err != nil {
		return err
	}
	if err := w.PutU32(h.SnapLen); err != nil {
		return err
	}
	return w.PutU32(h.LinkType)
}
