package pcapng

import (
	"encoding/binary"
	"fmt"

	"github.com/gopcapfile/pcapfile/internal/bytecodec"
)

// InterfaceDescriptionBlock describes one capture interface's link-layer
// type, snapshot length, and options (spec.md §3 "Interface", §4.4
// "Interface Description parse"). Unknown LinkType values are preserved
// verbatim, per spec.md §1 Non-goals.
type InterfaceDescriptionBlock struct {
	LinkType uint16
	Reserved uint16
	SnapLen  uint32
	Options  []Option
}

// NewInterfaceDescriptionBlock returns an Interface Description Block
// with no options.
func NewInterfaceDescriptionBlock(linkType uint16, snapLen uint32) *InterfaceDescriptionBlock {
	return &InterfaceDescriptionBlock{LinkType: linkType, SnapLen: snapLen}
}

// Type implements Block.
func (b *InterfaceDescriptionBlock) Type() BlockType { return BlockTypeInterfaceDescription }

// Comment returns the block-common opt_comment option, if present.
func (b *InterfaceDescriptionBlock) Comment() (string, bool) { return findComment(b.Options) }

// Name returns the if_name option's value, if present.
func (b *InterfaceDescriptionBlock) Name() (string, bool) {
	for _, o := range b.Options {
		if o.Code == optCodeIfName {
			return string(o.Value), true
		}
	}
	return "", false
}

// Clone returns an InterfaceDescriptionBlock with heap-owned option values.
func (b *InterfaceDescriptionBlock) Clone() *InterfaceDescriptionBlock {
	clone := *b
	clone.Options = cloneOptions(b.Options)
	return &clone
}

func parseInterfaceDescriptionBlock(raw RawBlock, order binary.ByteOrder) (*InterfaceDescriptionBlock, error) {
	body := raw.Body
	if len(body) < 8 {
		return nil, fmt.Errorf("%w: interface description body too short", ErrInvalidField)
	}
	c := bytecodec.NewCursor(body, order)
	linkType := c.U16()
	reserved := c.U16()
	snapLen := c.U32()
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	opts, err := parseOptions(body[c.Offset():], order)
	if err != nil {
		return nil, err
	}
	// Validate if_tsresol eagerly, per spec.md §4.4: "The if_tsresol
	// option's value is validated at parse time."
	for _, o := range opts {
		if o.Code == optCodeIfTsresol {
			if len(o.Value) == 0 {
				return nil, fmt.Errorf("%w: empty if_tsresol value", ErrInvalidTimestampResolution)
			}
			if _, err := tickRateFromTsresol(o.Value[0]); err != nil {
				return nil, err
			}
		}
	}
	return &InterfaceDescriptionBlock{
		LinkType: linkType,
		Reserved: reserved,
		SnapLen:  snapLen,
		Options:  opts,
	}, nil
}

func (b *InterfaceDescriptionBlock) writeBody(w bodyWriter, order binary.ByteOrder, _ *State) error {
	if err := w.PutU16(b.LinkType); err != nil {
		return err
	}
	if err := w.PutU16(b.Reserved); err != nil {
		return err
	}
	if err := w.PutU32(b.SnapLen); err != nil {
		return err
	}
	return emitOptions(w, b.Options)
}
