package pcapng

import (
	"encoding/binary"
	"fmt"

	"github.com/gopcapfile/pcapfile/internal/bytecodec"
)

// SectionHeaderBlock is the first block of each section; it fixes the
// section's endianness (already consumed by frame parsing before this
// type is built) and optionally its length and free-text options.
// spec.md §3 "Section", §4.4 "Section Header parse".
type SectionHeaderBlock struct {
	MajorVersion  uint16
	MinorVersion  uint16
	SectionLength int64 // -1 means "unspecified"
	Options       []Option
}

// NewSectionHeaderBlock returns a version 1.0 section header with
// unspecified length and no options, the default a fresh Writer emits.
func NewSectionHeaderBlock() *SectionHeaderBlock {
	return &SectionHeaderBlock{MajorVersion: 1, MinorVersion: 0, SectionLength: -1}
}

// Type implements Block.
func (b *SectionHeaderBlock) Type() BlockType { return BlockTypeSectionHeader }

// Comment returns the block-common opt_comment option, if present.
func (b *SectionHeaderBlock) Comment() (string, bool) { return findComment(b.Options) }

// Clone returns a SectionHeaderBlock with heap-owned option values.
func (b *SectionHeaderBlock) Clone() *SectionHeaderBlock {
	clone := *b
	clone.Options = cloneOptions(b.Options)
	return &clone
}

func cloneOptions(opts []Option) []Option {
	if opts == nil {
		return nil
	}
	out := make([]Option, len(opts))
	for i, o := range opts {
		out[i] = o.Clone()
	}
	return out
}

func parseSectionHeaderBlock(raw RawBlock, order binary.ByteOrder) (*SectionHeaderBlock, error) {
	body := raw.Body
	// body[0:4] is the byte-order magic, already validated by parseRawBlock.
	if len(body) < 16 {
		return nil, fmt.Errorf("%w: section header body too short", ErrInvalidField)
	}
	c := bytecodec.NewCursor(body, order)
	c.Skip(4)
	major := c.U16()
	minor := c.U16()
	sectionLength := c.I64()
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	opts, err := parseOptions(body[c.Offset():], order)
	if err != nil {
		return nil, err
	}
	return &SectionHeaderBlock{
		MajorVersion:  major,
		MinorVersion:  minor,
		SectionLength: sectionLength,
		Options:       opts,
	}, nil
}

func (b *SectionHeaderBlock) writeBody(w bodyWriter, order binary.ByteOrder, _ *State) error {
	if err := w.PutU32(byteOrderMagicBigEndian); err != nil {
		return err
	}
	if err := w.PutU16(b.MajorVersion); err != nil {
		return err
	}
	if err := w.PutU16(b.MinorVersion); err != nil {
		return err
	}
	if err := w.PutI64(b.SectionLength); err != nil {
		return err
	}
	return emitOptions(w, b.Options)
}
