package pcapng

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/gopcapfile/pcapfile/internal/bytecodec"
)

// NameResolutionRecord is one address-to-name binding inside a Name
// Resolution Block (spec.md §3 "Name Resolution"). Names is one or more
// NUL-terminated names sharing the same address; Unknown holds the raw
// value of any record type this library does not interpret, preserved
// verbatim per spec.md §1 Non-goals.
type NameResolutionRecord struct {
	Type    uint16
	Addr    net.IP
	Names   []string
	Unknown []byte
}

// NameResolutionBlock binds addresses to names (spec.md §3 "Name
// Resolution", SPEC_FULL.md supplemented feature #2).
type NameResolutionBlock struct {
	Records []NameResolutionRecord
	Options []Option
}

// Type implements Block.
func (b *NameResolutionBlock) Type() BlockType { return BlockTypeNameResolution }

// Clone returns a NameResolutionBlock with heap-owned records and options.
func (b *NameResolutionBlock) Clone() *NameResolutionBlock {
	clone := &NameResolutionBlock{Options: cloneOptions(b.Options)}
	clone.Records = make([]NameResolutionRecord, len(b.Records))
	for i, r := range b.Records {
		rc := r
		rc.Addr = append(net.IP(nil), r.Addr...)
		rc.Names = append([]string(nil), r.Names...)
		rc.Unknown = append([]byte(nil), r.Unknown...)
		clone.Records[i] = rc
	}
	return clone
}

func splitNulTerminated(b []byte) []string {
	var names []string
	start := 0
	for i, c := range b {
		if c == 0 {
			if i > start {
				names = append(names, string(b[start:i]))
			}
			start = i + 1
		}
	}
	if start < len(b) {
		names = append(names, string(b[start:]))
	}
	return names
}

func parseNameResolutionBlock(raw RawBlock, order binary.ByteOrder) (*NameResolutionBlock, error) {
	body := raw.Body
	block := &NameResolutionBlock{}
	for len(body) > 0 {
		if len(body) < 4 {
			return nil, fmt.Errorf("%w: name resolution record header truncated", ErrInvalidField)
		}
		c := bytecodec.NewCursor(body, order)
		recType := c.U16()
		length := int(c.U16())
		if recType == nrbRecordEnd {
			body = body[c.Offset():]
			break
		}
		if c.Remaining() < length {
			return nil, fmt.Errorf("%w: name resolution record length %d overruns block", ErrInvalidField, length)
		}
		value := c.Bytes(length)
		pad := bytecodec.Pad4(length)
		if c.Remaining() < pad {
			return nil, fmt.Errorf("%w: name resolution record padding overruns block", ErrInvalidField)
		}
		c.Skip(pad)

		rec := NameResolutionRecord{Type: recType}
		switch recType {
		case nrbRecordIPv4:
			if len(value) < 4 {
				return nil, fmt.Errorf("%w: ipv4 name resolution record too short", ErrInvalidField)
			}
			rec.Addr = net.IP(value[:4])
			rec.Names = splitNulTerminated(value[4:])
		case nrbRecordIPv6:
			if len(value) < 16 {
				return nil, fmt.Errorf("%w: ipv6 name resolution record too short", ErrInvalidField)
			}
			rec.Addr = net.IP(value[:16])
			rec.Names = splitNulTerminated(value[16:])
		default:
			rec.Unknown = value
		}
		block.Records = append(block.Records, rec)
		body = body[c.Offset():]
	}

	// The options, if any, follow the terminator record, whether the
	// loop above stopped by hitting it explicitly or by running out of
	// slice (both leave body holding exactly what remains to parse).
	opts, err := parseOptions(body, order)
	if err != nil {
		return nil, err
	}
	block.Options = opts
	return block, nil
}

func encodeNrbValue(rec NameResolutionRecord) []byte {
	switch rec.Type {
	case nrbRecordIPv4, nrbRecordIPv6:
		addr := rec.Addr
		if rec.Type == nrbRecordIPv4 {
			addr = addr.To4()
		} else {
			addr = addr.To16()
		}
		buf := append([]byte(nil), addr...)
		for _, n := range rec.Names {
			buf = append(buf, []byte(n)...)
			buf = append(buf, 0)
		}
		return buf
	default:
		return rec.Unknown
	}
}

func (b *NameResolutionBlock) writeBody(w bodyWriter, order binary.ByteOrder, _ *State) error {
	for _, rec := range b.Records {
		value := encodeNrbValue(rec)
		if err := w.PutU16(rec.Type); err != nil {
			return err
		}
		if err := w.PutU16(uint16(len(value))); err != nil {
			return err
		}
		if err := w.PutBytes(value); err != nil {
			return err
		}
		if err := w.PutZeros(bytecodec.Pad4(len(value))); err != nil {
			return err
		}
	}
	if err := w.PutU16(nrbRecordEnd); err != nil {
		return err
	}
	if err := w.PutU16(0); err != nil {
		return err
	}
	return emitOptions(w, b.Options)
}
