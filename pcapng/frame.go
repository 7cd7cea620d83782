package pcapng

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gopcapfile/pcapfile/internal/bytecodec"
	"github.com/gopcapfile/pcapfile/internal/refill"
)

// RawBlock is an undecoded block: a type code, its total length (as it
// appeared on the wire, repeated and cross-checked), and its body slice.
// It is what the pull/push "raw" APIs hand back to pass-through rewriters
// that want to copy unknown blocks without paying typed-decode cost
// (spec.md §4.6, "next_raw_block").
type RawBlock struct {
	Type   uint32
	Length uint32
	Body   []byte
}

// Clone returns a RawBlock whose Body is a heap-owned copy.
func (r RawBlock) Clone() RawBlock {
	b := make([]byte, len(r.Body))
	copy(b, r.Body)
	return RawBlock{Type: r.Type, Length: r.Length, Body: b}
}

// parseRawBlock implements spec.md §4.3 "Raw block parse". order is the
// section's current byte order, or nil if no Section Header Block has
// been seen yet. It returns the (possibly newly established) byte order
// alongside the parsed block, since only this function's SHB special case
// can determine it.
func parseRawBlock(buf []byte, order binary.ByteOrder) (remainder []byte, raw RawBlock, newOrder binary.ByteOrder, err error) {
	if len(buf) < 12 {
		return nil, RawBlock{}, order, refill.ErrIncomplete
	}

	// The Section Header Block type code (0x0A0D0D0A) is a byte
	// palindrome, so it reads identically regardless of endianness; this
	// lets us recognize it before we know the section's byte order.
	probeType := binary.BigEndian.Uint32(buf[0:4])
	newOrder = order

	var length uint32
	if probeType == uint32(BlockTypeSectionHeader) {
		bom := binary.BigEndian.Uint32(buf[8:12])
		switch bom {
		case byteOrderMagicBigEndian:
			newOrder = binary.BigEndian
		case byteOrderMagicLittleEndian:
			newOrder = binary.LittleEndian
		default:
			return nil, RawBlock{}, order, fmt.Errorf("%w: bad section header magic 0x%08x", ErrInvalidField, bom)
		}
		length = newOrder.Uint32(buf[4:8])
	} else {
		if order == nil {
			return nil, RawBlock{}, order, fmt.Errorf("first block is not a section header: %w: %w", ErrNoSection, ErrInvalidField)
		}
		length = order.Uint32(buf[4:8])
	}

	if length%4 != 0 || length < 12 {
		return nil, RawBlock{}, newOrder, fmt.Errorf("%w: block length %d is not a multiple of 4 or too small", ErrInvalidField, length)
	}
	if uint32(len(buf)) < length {
		return nil, RawBlock{}, newOrder, refill.ErrIncomplete
	}

	body := buf[8 : length-4]
	trailer := newOrder.Uint32(buf[length-4 : length])
	if trailer != length {
		return nil, RawBlock{}, newOrder, fmt.Errorf("%w: trailing length %d != leading length %d", ErrInvalidField, trailer, length)
	}

	blockType := probeType
	if probeType != uint32(BlockTypeSectionHeader) {
		blockType = newOrder.Uint32(buf[0:4])
	}

	raw = RawBlock{Type: blockType, Length: length, Body: body}
	return buf[length:], raw, newOrder, nil
}

// emitRawBlock implements spec.md §4.3 "Raw block emit": the lengths are
// the caller's responsibility, carried verbatim from RawBlock.Length.
func emitRawBlock(sink io.Writer, order binary.ByteOrder, raw RawBlock) error {
	w := bytecodec.NewWriter(sink, order)
	if err := w.PutU32(raw.Type); err != nil {
		return err
	}
	if err := w.PutU32(raw.Length); err != nil {
		return err
	}
	if err := w.PutBytes(raw.Body); err != nil {
		return err
	}
	return w.PutU32(raw.Length)
}

// parseOptions implements spec.md §4.3 "Options parse": a sequence of
// code/length/value triples with 4-byte alignment padding, terminated by
// code 0 or by running out of slice (the latter tolerated per the Open
// Question in spec.md §9, resolved to "accept").
func parseOptions(buf []byte, order binary.ByteOrder) ([]Option, error) {
	var opts []Option
	for len(buf) > 0 {
		if len(buf) < 4 {
			return nil, fmt.Errorf("%w: option header truncated", ErrInvalidField)
		}
		c := bytecodec.NewCursor(buf, order)
		code := c.U16()
		length := int(c.U16())

		if code == optCodeEndOfOpt {
			return opts, nil
		}

		if c.Remaining() < length {
			return nil, fmt.Errorf("%w: option length %d overruns block", ErrInvalidField, length)
		}
		value := c.Bytes(length)
		pad := bytecodec.Pad4(length)
		if c.Remaining() < pad {
			return nil, fmt.Errorf("%w: option padding overruns block", ErrInvalidField)
		}
		c.Skip(pad)

		opts = append(opts, Option{Code: code, Value: value})
		buf = buf[c.Offset():]
	}
	return opts, nil
}

// emitOptions implements spec.md §4.3 "Options emit".
func emitOptions(w bodyWriter, opts []Option) error {
	for _, o := range opts {
		if err := w.PutU16(o.Code); err != nil {
			return err
		}
		if err := w.PutU16(uint16(len(o.Value))); err != nil {
			return err
		}
		if err := w.PutBytes(o.Value); err != nil {
			return err
		}
		if err := w.PutZeros(bytecodec.Pad4(len(o.Value))); err != nil {
			return err
		}
	}
	if len(opts) > 0 {
		if err := w.PutU16(optCodeEndOfOpt); err != nil {
			return err
		}
		if err := w.PutU16(0); err != nil {
			return err
		}
	}
	return nil
}

// emitBlock implements spec.md §4.3 "Typed block emit": a dry run to a
// counting sink determines the body length, from which the block's total
// length (and any trailing alignment padding) is computed before the real
// emit.
func emitBlock(sink io.Writer, order binary.ByteOrder, state *State, block Block) error {
	cs := &bytecodec.CountingSink{}
	if err := block.writeBody(bytecodec.NewWriter(cs, order), order, state); err != nil {
		return err
	}
	dataLen := cs.N
	pad := bytecodec.Pad4(dataLen)
	blockLen := uint32(dataLen + pad + 12)

	w := bytecodec.NewWriter(sink, order)
	if err := w.PutU32(uint32(block.Type())); err != nil {
		return err
	}
	if err := w.PutU32(blockLen); err != nil {
		return err
	}
	if err := block.writeBody(w, order, state); err != nil {
		return err
	}
	if err := w.PutZeros(pad); err != nil {
		return err
	}
	return w.PutU32(blockLen)
}
