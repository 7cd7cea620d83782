package pcap

import (
	"fmt"
	"time"

	"github.com/gopcapfile/pcapfile/internal/bytecodec"
	"github.com/gopcapfile/pcapfile/internal/refill"
)

// PacketRecord is one classic PCAP packet record: a 16-byte header
// (timestamp, included length, original length) followed by the included
// bytes (spec.md §3 "Packet record"). Timestamp is normalized from the
// file header's microsecond/nanosecond unit to a time.Duration since the
// Unix epoch truncated to whole seconds is not tracked separately; see
// Clone for the borrowed/owned split.
type PacketRecord struct {
	Timestamp   time.Duration
	OriginalLen uint32
	PacketData  []byte
}

// Clone returns a PacketRecord with heap-owned PacketData.
func (r PacketRecord) Clone() PacketRecord {
	r.PacketData = append([]byte(nil), r.PacketData...)
	return r
}

const nanosPerSecond = 1_000_000_000

func fractionToDuration(sec, frac uint32, nanosecond bool) (time.Duration, error) {
	scale := uint32(1000)
	if nanosecond {
		scale = 1
	}
	if frac >= nanosPerSecond/scale {
		return 0, fmt.Errorf("%w: timestamp fraction %d out of range", ErrInvalidField, frac)
	}
	return time.Duration(sec)*time.Second + time.Duration(frac)*time.Duration(scale), nil
}

func durationToFraction(d time.Duration, nanosecond bool) (sec, frac uint32) {
	sec = uint32(d / time.Second)
	rem := d % time.Second
	if nanosecond {
		return sec, uint32(rem)
	}
	return sec, uint32(rem / time.Microsecond)
}

// parseRecord implements spec.md §3/§4.6's packet record parse, validating
// included ≤ snaplen, included ≤ original, and the timestamp fraction
// range.
func parseRecord(buf []byte, header FileHeader) (remainder []byte, rec PacketRecord, err error) {
	if len(buf) < 16 {
		return nil, PacketRecord{}, refill.ErrIncomplete
	}
	c := bytecodec.NewCursor(buf, header.Order)
	tsSec := c.U32()
	tsFrac := c.U32()
	inclLen := c.U32()
	origLen := c.U32()
	if err := c.Err(); err != nil {
		return nil, PacketRecord{}, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}

	if inclLen > header.SnapLen {
		return nil, PacketRecord{}, fmt.Errorf("%w: included length %d exceeds snaplen %d", ErrInvalidField, inclLen, header.SnapLen)
	}
	if inclLen > origLen {
		return nil, PacketRecord{}, fmt.Errorf("%w: included length %d exceeds original length %d", ErrInvalidField, inclLen, origLen)
	}

	if c.Remaining() < int(inclLen) {
		return nil, PacketRecord{}, refill.ErrIncomplete
	}
	data := c.Bytes(int(inclLen))

	ts, err := fractionToDuration(tsSec, tsFrac, header.Nanosecond)
	if err != nil {
		return nil, PacketRecord{}, err
	}

	return buf[c.Offset():], PacketRecord{Timestamp: ts, OriginalLen: origLen, PacketData: data}, nil
}

// emitRecord implements spec.md §4.6's writer packet-record validation:
// included length (len(rec.PacketData)) must not exceed header.SnapLen or
// rec.OriginalLen.
func emitRecord(w *bytecodec.Writer, header FileHeader, rec PacketRecord) error {
	if uint32(len(rec.PacketData)) > header.SnapLen {
		return fmt.Errorf("%w: included length %d exceeds snaplen %d", ErrPacketTooLarge, len(rec.PacketData), header.SnapLen)
	}
	if uint32(len(rec.PacketData)) > rec.OriginalLen {
		return fmt.Errorf("%w: included length %d exceeds original length %d", ErrInvalidField, len(rec.PacketData), rec.OriginalLen)
	}
	sec, frac := durationToFraction(rec.Timestamp, header.Nanosecond)
	if err := w.PutU32(sec); err != nil {
		return err
	}
	if err := w.PutU32(frac); err != nil {
		return err
	}
	if err := w.PutU32(uint32(len(rec.PacketData))); err != nil {
		return err
	}
	if err := w.PutU32(rec.OriginalLen); err != nil {
		return err
	}
	return w.PutBytes(rec.PacketData)
}

// emitRawRecord writes rec without any validation, for callers that
// accept a "raw packet" per spec.md §4.6 ("Writers may also accept a raw
// packet that is not validated").
func emitRawRecord(w *bytecodec.Writer, header FileHeader, rec PacketRecord) error {
	sec, frac := durationToFraction(rec.Timestamp, header.Nanosecond)
	if err := w.PutU32(sec); err != nil {
		return err
	}
	if err := w.PutU32(frac); err != nil {
		return err
	}
	if err := w.PutU32(uint32(len(rec.PacketData))); err != nil {
		return err
	}
	if err := w.PutU32(rec.OriginalLen); err != nil {
		return err
	}
	return w.PutBytes(rec.PacketData)
}
