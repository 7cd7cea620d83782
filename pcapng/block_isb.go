package pcapng

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gopcapfile/pcapfile/internal/bytecodec"
)

// InterfaceStatisticsBlock carries periodic counters for one interface
// (spec.md §3 "Interface Statistics"). Timestamp uses the same 64-bit
// tick encoding as EnhancedPacketBlock.
type InterfaceStatisticsBlock struct {
	InterfaceID uint32
	Timestamp   time.Duration
	Options     []Option
}

// Type implements Block.
func (b *InterfaceStatisticsBlock) Type() BlockType { return BlockTypeInterfaceStatistics }

// Clone returns an InterfaceStatisticsBlock with heap-owned Options.
func (b *InterfaceStatisticsBlock) Clone() *InterfaceStatisticsBlock {
	clone := *b
	clone.Options = cloneOptions(b.Options)
	return &clone
}

// uint64Option reads an 8-byte counter option in the block's byte order.
func uint64Option(opts []Option, code uint16, order binary.ByteOrder) (uint64, bool) {
	for _, o := range opts {
		if o.Code == code && len(o.Value) >= 8 {
			return order.Uint64(o.Value), true
		}
	}
	return 0, false
}

// PacketsReceived returns the isb_ifrecv option's value, if present.
func (b *InterfaceStatisticsBlock) PacketsReceived(order binary.ByteOrder) (uint64, bool) {
	return uint64Option(b.Options, optCodeIsbIfrecv, order)
}

// PacketsDropped returns the isb_ifdrop option's value, if present.
func (b *InterfaceStatisticsBlock) PacketsDropped(order binary.ByteOrder) (uint64, bool) {
	return uint64Option(b.Options, optCodeIsbIfdrop, order)
}

// FilterAccepted returns the isb_filteraccept option's value, if present.
func (b *InterfaceStatisticsBlock) FilterAccepted(order binary.ByteOrder) (uint64, bool) {
	return uint64Option(b.Options, optCodeIsbFilterAccept, order)
}

// OSDropped returns the isb_osdrop option's value, if present.
func (b *InterfaceStatisticsBlock) OSDropped(order binary.ByteOrder) (uint64, bool) {
	return uint64Option(b.Options, optCodeIsbOsdrop, order)
}

// DeliveredToUser returns the isb_usrdeliv option's value, if present.
func (b *InterfaceStatisticsBlock) DeliveredToUser(order binary.ByteOrder) (uint64, bool) {
	return uint64Option(b.Options, optCodeIsbUsrdeliv, order)
}

func parseInterfaceStatisticsBlock(raw RawBlock, order binary.ByteOrder, state *State) (*InterfaceStatisticsBlock, error) {
	body := raw.Body
	if len(body) < 12 {
		return nil, fmt.Errorf("%w: interface statistics body too short", ErrInvalidField)
	}
	c := bytecodec.NewCursor(body, order)
	interfaceID := c.U32()
	tsHigh := c.U32()
	tsLow := c.U32()
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}

	if _, err := state.Interface(interfaceID); err != nil {
		return nil, err
	}

	opts, err := parseOptions(body[c.Offset():], order)
	if err != nil {
		return nil, err
	}

	ts, err := state.DecodeTimestamp(interfaceID, tsHigh, tsLow)
	if err != nil {
		return nil, err
	}

	return &InterfaceStatisticsBlock{InterfaceID: interfaceID, Timestamp: ts, Options: opts}, nil
}

func (b *InterfaceStatisticsBlock) writeBody(w bodyWriter, order binary.ByteOrder, state *State) error {
	if _, err := state.Interface(b.InterfaceID); err != nil {
		return err
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
	return emitOptions(w, b.Options)
}
