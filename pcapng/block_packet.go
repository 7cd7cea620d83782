package pcapng

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gopcapfile/pcapfile/internal/bytecodec"
)

// PacketBlock is the obsolete Packet Block (type 0x02), superseded by
// EnhancedPacketBlock but still found in older captures (spec.md §3,
// scenario 6 in §8). DropCount has no defined relationship to any other
// counter and is preserved verbatim, never reconciled against Interface
// Statistics Block counters (spec.md §9 Open Questions).
type PacketBlock struct {
	InterfaceID uint16
	DropCount   uint16
	Timestamp   time.Duration
	CapturedLen uint32
	OriginalLen uint32
	PacketData  []byte
	Options     []Option
}

// Type implements Block.
func (b *PacketBlock) Type() BlockType { return BlockTypeObsoletePacket }

// Clone returns a PacketBlock with heap-owned PacketData and Options.
func (b *PacketBlock) Clone() *PacketBlock {
	clone := *b
	clone.PacketData = append([]byte(nil), b.PacketData...)
	clone.Options = cloneOptions(b.Options)
	return &clone
}

func parsePacketBlock(raw RawBlock, order binary.ByteOrder, state *State) (*PacketBlock, error) {
	body := raw.Body
	if len(body) < 20 {
		return nil, fmt.Errorf("%w: packet block body too short", ErrInvalidField)
	}
	c := bytecodec.NewCursor(body, order)
	interfaceID := c.U16()
	dropCount := c.U16()
	tsHigh := c.U32()
	tsLow := c.U32()
	capturedLen := c.U32()
	originalLen := c.U32()
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}

	if _, err := state.Interface(uint32(interfaceID)); err != nil {
		return nil, err
	}
	if originalLen < capturedLen {
		return nil, fmt.Errorf("%w: original length %d < captured length %d", ErrInvalidField, originalLen, capturedLen)
	}

	pad := bytecodec.Pad4(int(capturedLen))
	if c.Remaining() < int(capturedLen)+pad {
		return nil, fmt.Errorf("%w: captured length %d overruns block body", ErrInvalidField, capturedLen)
	}
	packetData := c.Bytes(int(capturedLen))
	c.Skip(pad)

	opts, err := parseOptions(body[c.Offset():], order)
	if err != nil {
		return nil, err
	}

	ts, err := state.DecodeTimestamp(uint32(interfaceID), tsHigh, tsLow)
	if err != nil {
		return nil, err
	}

	return &PacketBlock{
		InterfaceID: interfaceID,
		DropCount:   dropCount,
		Timestamp:   ts,
		CapturedLen: capturedLen,
		OriginalLen: originalLen,
		PacketData:  packetData,
		Options:     opts,
	}, nil
}

func (b *PacketBlock) writeBody(w bodyWriter, order binary.ByteOrder, state *State) error {
	if _, err := state.Interface(uint32(b.InterfaceID)); err != nil {
		return err
	}
	if b.OriginalLen < uint32(len(b.PacketData)) {
		return fmt.Errorf("%w: original length %d < captured length %d", ErrInvalidField, b.OriginalLen, len(b.PacketData))
	}
	tsHigh, tsLow, err := state.EncodeTimestamp(uint32(b.InterfaceID), b.Timestamp)
	if err != nil {
		return err
	}
	if err := w.PutU16(b.InterfaceID); err != nil {
		return err
	}
	if err := w.PutU16(b.DropCount); err != nil {
		return err
	}
	if err := w.PutU32(tsHigh); err != nil {
		return err
	}
	if err := w.PutU32(tsLow); err != nil {
		return err
	}
	if err := w.PutU32(uint32(len(b.PacketData))); err != nil {
		return err
	}
	if err := w.PutU32(b.OriginalLen); err != nil {
		return err
	}
	if err := w.PutBytes(b.PacketData); err != nil {
		return err
	}
	if err := w.PutZeros(bytecodec.Pad4(len(b.PacketData))); err != nil {
		return err
	}
	return emitOptions(w, b.Options)
}
