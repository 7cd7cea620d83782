package pcapng

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gopcapfile/pcapfile/internal/bytecodec"
)

// EnhancedPacketBlock is the modern packet record (spec.md §3 "Enhanced
// Packet", §4.4 "Enhanced Packet parse"/"emit"). Timestamp is already
// normalized to a time.Duration using the owning interface's resolution
// and offset; PacketData borrows from the buffer it was parsed out of
// unless Clone is called.
type EnhancedPacketBlock struct {
	InterfaceID uint32
	Timestamp   time.Duration
	CapturedLen uint32
	OriginalLen uint32
	PacketData  []byte
	Options     []Option
}

// Type implements Block.
func (b *EnhancedPacketBlock) Type() BlockType { return BlockTypeEnhancedPacket }

// Clone returns an EnhancedPacketBlock with heap-owned PacketData and
// Options, per spec.md §3/§9's borrowed-vs-owned split.
func (b *EnhancedPacketBlock) Clone() *EnhancedPacketBlock {
	clone := *b
	clone.PacketData = append([]byte(nil), b.PacketData...)
	clone.Options = cloneOptions(b.Options)
	return &clone
}

func parseEnhancedPacketBlock(raw RawBlock, order binary.ByteOrder, state *State) (*EnhancedPacketBlock, error) {
	body := raw.Body
	if len(body) < 20 {
		return nil, fmt.Errorf("%w: enhanced packet body too short", ErrInvalidField)
	}
	c := bytecodec.NewCursor(body, order)
	interfaceID := c.U32()
	tsHigh := c.U32()
	tsLow := c.U32()
	capturedLen := c.U32()
	originalLen := c.U32()
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}

	if _, err := state.Interface(interfaceID); err != nil {
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

	ts, err := state.DecodeTimestamp(interfaceID, tsHigh, tsLow)
	if err != nil {
		return nil, err
	}

	return &EnhancedPacketBlock{
		InterfaceID: interfaceID,
		Timestamp:   ts,
		CapturedLen: capturedLen,
		OriginalLen: originalLen,
		PacketData:  packetData,
		Options:     opts,
	}, nil
}

func (b *EnhancedPacketBlock) writeBody(w bodyWriter, order binary.ByteOrder, state *State) error {
	if _, err := state.Interface(b.InterfaceID); err != nil {
		return err
	}
	if b.OriginalLen < uint32(len(b.PacketData)) {
		return fmt.Errorf("%w: original length %d < captured length %d", ErrInvalidField, b.OriginalLen, len(b.PacketData))
	}
	tsHigh, tsLow, err := state.EncodeTimestamp(b.InterfaceID, b.Timestamp)
	if err != nil {
		return err
	}
	if err := w.PutU32(b.InterfaceID); err != nil {
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
