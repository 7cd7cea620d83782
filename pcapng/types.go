package pcapng

import "encoding/binary"

// BlockType identifies the kind of a PCAP-NG block. Unknown numeric codes
// are preserved verbatim rather than rejected (spec.md §1 Non-goals).
type BlockType uint32

// Recognized block types, spec.md §3.
const (
	BlockTypeInterfaceDescription BlockType = 0x00000001
	BlockTypeObsoletePacket       BlockType = 0x00000002
	BlockTypeSimplePacket         BlockType = 0x00000003
	BlockTypeNameResolution       BlockType = 0x00000004
	BlockTypeInterfaceStatistics  BlockType = 0x00000005
	BlockTypeEnhancedPacket       BlockType = 0x00000006
	BlockTypeSystemdJournalExport BlockType = 0x00000009
	BlockTypeCustomCopiable       BlockType = 0x00000BAD
	BlockTypeSectionHeader        BlockType = 0x0A0D0D0A
	BlockTypeCustomNonCopiable    BlockType = 0x40000BAD
)

// Section Header Block byte-order magic numbers, spec.md §3.
const (
	byteOrderMagicBigEndian    uint32 = 0x1A2B3C4D
	byteOrderMagicLittleEndian uint32 = 0x4D3C2B1A
)

// Common option code, valid inside every block type.
const optCodeEndOfOpt uint16 = 0
const optCodeComment uint16 = 1

// Section Header Block option codes.
const (
	optCodeShbHardware uint16 = 2
	optCodeShbOS       uint16 = 3
	optCodeShbUserAppl uint16 = 4
)

// Interface Description Block option codes.
const (
	optCodeIfName        uint16 = 2
	optCodeIfDescription uint16 = 3
	optCodeIfIPv4Addr    uint16 = 4
	optCodeIfIPv6Addr    uint16 = 5
	optCodeIfMACAddr     uint16 = 6
	optCodeIfEUIAddr     uint16 = 7
	optCodeIfSpeed       uint16 = 8
	optCodeIfTsresol     uint16 = 9
	optCodeIfTzone       uint16 = 10
	optCodeIfFilter      uint16 = 11
	optCodeIfOS          uint16 = 12
	optCodeIfFCSLen      uint16 = 13
	optCodeIfTsoffset    uint16 = 14
	optCodeIfHardware    uint16 = 15
	optCodeIfTxSpeed     uint16 = 16
	optCodeIfRxSpeed     uint16 = 17
)

// Interface Statistics Block option codes.
const (
	optCodeIsbStarttime    uint16 = 2
	optCodeIsbEndtime      uint16 = 3
	optCodeIsbIfrecv       uint16 = 4
	optCodeIsbIfdrop       uint16 = 5
	optCodeIsbFilterAccept uint16 = 6
	optCodeIsbOsdrop       uint16 = 7
	optCodeIsbUsrdeliv     uint16 = 8
)

// Name Resolution Block record types.
const (
	nrbRecordEnd     uint16 = 0
	nrbRecordIPv4    uint16 = 1
	nrbRecordIPv6    uint16 = 2
	optCodeNsDnsName uint16 = 2
	optCodeNsDnsIPv4 uint16 = 3
	optCodeNsDnsIPv6 uint16 = 4
)

// Custom-option codes, spec.md §3.
const (
	optCodeCustomCopiableUTF8      uint16 = 2988
	optCodeCustomCopiableBinary    uint16 = 2989
	optCodeCustomNonCopiableUTF8   uint16 = 19372
	optCodeCustomNonCopiableBinary uint16 = 19373
)

// Option is a generic code/value pair as parsed off the wire, before any
// type-specific interpretation. Option values never outlive the buffer
// they were parsed from unless copied via Clone.
type Option struct {
	Code  uint16
	Value []byte
}

// Clone returns an Option whose Value is a heap-owned copy, per spec.md's
// borrowed/owned split (§3 Ownership/lifetime, §9 "Borrowed vs owned
// payloads").
func (o Option) Clone() Option {
	v := make([]byte, len(o.Value))
	copy(v, o.Value)
	return Option{Code: o.Code, Value: v}
}

// findComment returns the block-common "opt_comment" option's string value,
// if present.
func findComment(opts []Option) (string, bool) {
	for _, o := range opts {
		if o.Code == optCodeComment {
			return string(o.Value), true
		}
	}
	return "", false
}

// Block is implemented by every typed PCAP-NG block plus UnknownBlock.
type Block interface {
	// Type returns the block's on-wire type code.
	Type() BlockType
	// writeBody writes the block's body (everything between the leading
	// and trailing length fields) using order for multi-byte fields and
	// state for anything that depends on accumulated stream state (the
	// interface table, for blocks that carry a timestamp).
	writeBody(w bodyWriter, order binary.ByteOrder, state *State) error
}

// bodyWriter is satisfied by *bytecodec.Writer; declared here to avoid an
// import cycle hazard between frame.go and the per-block-type files.
type bodyWriter interface {
	PutU8(uint8) error
	PutU16(uint16) error
	PutU32(uint32) error
	PutU64(uint64) error
	PutI64(int64) error
	PutBytes([]byte) error
	PutZeros(int) error
}
