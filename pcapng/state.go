package pcapng

import (
	"encoding/binary"
	"fmt"
	"time"
)

// State is the mutable context maintained while traversing a PCAP-NG
// stream (spec.md §4.5): the current Section Header Block, the ordered
// interface table, and each interface's precomputed tick rate. It is used
// by Parser, Reader, and Writer alike, and owns copies of everything it
// holds so a parsed block may safely borrow from a transient buffer while
// the state outlives it (spec.md §3 Ownership/lifetime).
type State struct {
	Section    *SectionHeaderBlock
	interfaces []*InterfaceDescriptionBlock
	rates      []tickRate
}

// NewState returns an empty State, as a fresh Parser/Reader/Writer starts
// with (spec.md §4.5: "the only interesting state... is the starting
// state of a fresh writer or parser before the first block is
// processed").
func NewState() *State {
	return &State{}
}

// InterfaceCount returns the number of interfaces described so far in the
// current section.
func (s *State) InterfaceCount() int { return len(s.interfaces) }

// Interface returns the Interface Description Block at the given
// creation-order index, or ErrInvalidInterfaceID if id is out of range.
// Interface identity is always by position in this table, never by any
// block- or option-provided name (spec.md §9 "Interface lookup is by
// creation index").
func (s *State) Interface(id uint32) (*InterfaceDescriptionBlock, error) {
	if int(id) >= len(s.interfaces) {
		return nil, fmt.Errorf("%w: %d (have %d interfaces)", ErrInvalidInterfaceID, id, len(s.interfaces))
	}
	return s.interfaces[id], nil
}

// UpdateFromBlock implements spec.md §4.5 "update_from_block": on a
// Section Header Block it replaces the section and clears the interface
// table; on an Interface Description Block it validates if_tsresol,
// computes the interface's tick rate, and appends it to the table. Every
// other block type is a no-op. order is needed to decode the raw
// if_tsoffset option bytes, which (like all Option values) are stored as
// undecoded wire bytes.
func (s *State) UpdateFromBlock(b Block, order binary.ByteOrder) error {
	switch v := b.(type) {
	case *SectionHeaderBlock:
		s.Section = v.Clone()
		s.interfaces = nil
		s.rates = nil
	case *InterfaceDescriptionBlock:
		rate, err := tickRateForInterface(v.Options, order)
		if err != nil {
			return err
		}
		s.interfaces = append(s.interfaces, v.Clone())
		s.rates = append(s.rates, rate)
	}
	return nil
}

// UpdateFromRawBlock implements spec.md §4.5 "update_from_raw_block": it
// only pays the cost of a typed decode when the raw block's type is
// Section Header or Interface Description; any other block type (in
// particular ordinary packet blocks) is a no-op, since only those two
// kinds affect state.
func (s *State) UpdateFromRawBlock(raw RawBlock, order binary.ByteOrder) error {
	switch BlockType(raw.Type) {
	case BlockTypeSectionHeader:
		b, err := parseSectionHeaderBlock(raw, order)
		if err != nil {
			return err
		}
		return s.UpdateFromBlock(b, order)
	case BlockTypeInterfaceDescription:
		b, err := parseInterfaceDescriptionBlock(raw, order)
		if err != nil {
			return err
		}
		return s.UpdateFromBlock(b, order)
	}
	return nil
}

// tickRateForInterface computes a tick rate from an Interface Description
// Block's options: if_tsresol selects the tick length (default
// microsecond), if_tsoffset adds a whole-second offset.
func tickRateForInterface(opts []Option, order binary.ByteOrder) (tickRate, error) {
	rate := defaultTickRate
	for _, o := range opts {
		switch o.Code {
		case optCodeIfTsresol:
			if len(o.Value) == 0 {
				return tickRate{}, fmt.Errorf("%w: empty if_tsresol value", ErrInvalidTimestampResolution)
			}
			r, err := tickRateFromTsresol(o.Value[0])
			if err != nil {
				return tickRate{}, err
			}
			rate.numerNs, rate.denom = r.numerNs, r.denom
		case optCodeIfTsoffset:
			if len(o.Value) >= 8 {
				seconds := int64(order.Uint64(o.Value))
				rate.offsetNs = seconds * int64(time.Second)
			}
		}
	}
	return rate, nil
}

// DecodeTimestamp implements spec.md §4.5's decode_timestamp helper:
// reads the interface's tick rate and converts raw ticks into a Duration.
func (s *State) DecodeTimestamp(interfaceID uint32, tsHigh, tsLow uint32) (time.Duration, error) {
	if int(interfaceID) >= len(s.rates) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidInterfaceID, interfaceID)
	}
	ticks := uint64(tsHigh)<<32 | uint64(tsLow)
	return s.rates[interfaceID].decode(ticks)
}

// EncodeTimestamp implements spec.md §4.5's encode_timestamp helper.
func (s *State) EncodeTimestamp(interfaceID uint32, d time.Duration) (tsHigh, tsLow uint32, err error) {
	if int(interfaceID) >= len(s.rates) {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidInterfaceID, interfaceID)
	}
	ticks, err := s.rates[interfaceID].encode(d)
	if err != nil {
		return 0, 0, err
	}
	return uint32(ticks >> 32), uint32(ticks), nil
}
