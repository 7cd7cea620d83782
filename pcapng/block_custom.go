package pcapng

import (
	"encoding/binary"
	"fmt"

	"github.com/gopcapfile/pcapfile/internal/bytecodec"
)

// CustomBlock carries a Private Enterprise Number plus an opaque payload
// (spec.md §3 "Custom", SPEC_FULL.md supplemented feature #3). Copiable
// distinguishes block type 0x00000BAD (safe for a tool that doesn't
// understand the PEN to copy verbatim) from 0x40000BAD (must be dropped
// by tools that don't understand it); spec.md §9 leaves both in scope.
//
// Interpret is an optional hook: when set, it is handed Payload and may
// return a decoded representation in Decoded. This library never
// registers one itself — the PEN namespace is operator-defined, so there
// is nothing generic to decode without it.
type CustomBlock struct {
	PEN       uint32
	Copiable  bool
	Payload   []byte
	Decoded   interface{}
	Interpret CustomBlockInterpreter
}

// CustomBlockInterpreter decodes a custom block's payload for a known PEN.
// ok is false when the interpreter doesn't recognize pen and leaves
// Payload as the block's only representation. A non-nil err means the
// interpreter recognized pen but failed to decode payload; parseCustomBlock
// wraps it in ErrCustomBlock and fails the whole block.
type CustomBlockInterpreter func(pen uint32, payload []byte) (decoded interface{}, ok bool, err error)

// Type implements Block.
func (b *CustomBlock) Type() BlockType {
	if b.Copiable {
		return BlockTypeCustomCopiable
	}
	return BlockTypeCustomNonCopiable
}

// Clone returns a CustomBlock with heap-owned Payload. Decoded and
// Interpret are copied by reference since their ownership semantics are
// caller-defined.
func (b *CustomBlock) Clone() *CustomBlock {
	clone := *b
	clone.Payload = append([]byte(nil), b.Payload...)
	return &clone
}

func parseCustomBlock(raw RawBlock, order binary.ByteOrder, copiable bool, interpret CustomBlockInterpreter) (*CustomBlock, error) {
	if len(raw.Body) < 4 {
		return nil, fmt.Errorf("%w: custom block body too short", ErrInvalidField)
	}
	c := bytecodec.NewCursor(raw.Body, order)
	pen := c.U32()
	payload := c.Bytes(c.Remaining())
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}

	block := &CustomBlock{PEN: pen, Copiable: copiable, Payload: payload, Interpret: interpret}
	if interpret != nil {
		decoded, ok, err := interpret(pen, payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCustomBlock, err)
		}
		if ok {
			block.Decoded = decoded
		}
	}
	return block, nil
}

func (b *CustomBlock) writeBody(w bodyWriter, order binary.ByteOrder, _ *State) error {
	if err := w.PutU32(b.PEN); err != nil {
		return err
	}
	// Custom blocks carry no options; emitBlock's dry-run length
	// computation owns the block-level alignment padding, so writeBody
	// must not pad the payload itself.
	return w.PutBytes(b.Payload)
}
