package pcapng

import (
	"encoding/binary"

	"github.com/gopcapfile/pcapfile/internal/bytecodec"
)

// UnknownBlock preserves any block whose type code this library does
// not interpret, so that a read-modify-write pass never loses data
// (spec.md §1 Non-goals, §4.3 raw block pass-through).
type UnknownBlock struct {
	BlockType uint32
	Body      []byte
}

// Type implements Block. Recognized BlockType constants never collide
// with an unrecognized one, so this cast back is exact.
func (b *UnknownBlock) Type() BlockType { return BlockType(b.BlockType) }

// Clone returns an UnknownBlock with heap-owned Body.
func (b *UnknownBlock) Clone() *UnknownBlock {
	return &UnknownBlock{BlockType: b.BlockType, Body: append([]byte(nil), b.Body...)}
}

func (b *UnknownBlock) writeBody(w bodyWriter, order binary.ByteOrder, _ *State) error {
	if err := w.PutBytes(b.Body); err != nil {
		return err
	}
	return w.PutZeros(bytecodec.Pad4(len(b.Body)))
}
