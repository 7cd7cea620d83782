package pcapng

import (
	"encoding/binary"
	"fmt"

	"github.com/gopcapfile/pcapfile/internal/bytecodec"
)

// SimplePacketBlock is a packet record with no interface index (implicitly
// interface 0) and no timestamp (spec.md §3 "Simple Packet"). The format
// has no explicit captured-length field; like other pcapng readers, the
// captured length is derived as min(original length, interface 0's
// snapshot length), falling back to "everything left in the block body"
// if interface 0 is not yet known.
type SimplePacketBlock struct {
	OriginalLen uint32
	PacketData  []byte
}

// Type implements Block.
func (b *SimplePacketBlock) Type() BlockType { return BlockTypeSimplePacket }

// Clone returns a SimplePacketBlock with heap-owned PacketData.
func (b *SimplePacketBlock) Clone() *SimplePacketBlock {
	return &SimplePacketBlock{OriginalLen: b.OriginalLen, PacketData: append([]byte(nil), b.PacketData...)}
}

func parseSimplePacketBlock(raw RawBlock, order binary.ByteOrder, state *State) (*SimplePacketBlock, error) {
	body := raw.Body
	if len(body) < 4 {
		return nil, fmt.Errorf("%w: simple packet body too short", ErrInvalidField)
	}
	c := bytecodec.NewCursor(body, order)
	originalLen := c.U32()
	remaining := uint32(c.Remaining())

	capturedLen := originalLen
	if iface, err := state.Interface(0); err == nil && iface.SnapLen != 0 && iface.SnapLen < capturedLen {
		capturedLen = iface.SnapLen
	}
	if capturedLen > remaining {
		capturedLen = remaining
	}

	data := c.Bytes(int(capturedLen))
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	return &SimplePacketBlock{OriginalLen: originalLen, PacketData: data}, nil
}

func (b *SimplePacketBlock) writeBody(w bodyWriter, order binary.ByteOrder, _ *State) error {
	if b.OriginalLen < uint32(len(b.PacketData)) {
		return fmt.Errorf("%w: original length %d < captured length %d", ErrInvalidField, b.OriginalLen, len(b.PacketData))
	}
	if err := w.PutU32(b.OriginalLen); err != nil {
		return err
	}
	if err := w.PutBytes(b.PacketData); err != nil {
		return err
	}
	return w.PutZeros(bytecodec.Pad4(len(b.PacketData)))
}
