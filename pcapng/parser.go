package pcapng

import "encoding/binary"

// ParserOption configures a PcapNgParser or PcapNgReader.
type ParserOption func(*parserConfig)

type parserConfig struct {
	interpret CustomBlockInterpreter
}

// WithCustomBlockInterpreter registers a decoder for Custom block payloads,
// keyed by Private Enterprise Number (spec.md §3 "Custom").
func WithCustomBlockInterpreter(fn CustomBlockInterpreter) ParserOption {
	return func(c *parserConfig) { c.interpret = fn }
}

// PcapNgParser is the pull-style entry point: the caller owns the byte
// buffer and repeatedly calls NextBlock/NextRawBlock, each of which
// consumes a prefix of the slice it's given and returns the remainder
// (spec.md §4.6). It shares State and byte-order bootstrap with
// PcapNgReader through the same underlying frame codec (parseRawBlock,
// decodeBlock), grounded on how `src/pcapng/parser.rs` and
// `src/pcapng/reader.rs` wrap a single decoder in the original.
type PcapNgParser struct {
	state     *State
	order     binary.ByteOrder
	interpret CustomBlockInterpreter
}

// NewParser returns a PcapNgParser with no established byte order; the
// first call to NextBlock/NextRawBlock must see a Section Header Block.
func NewParser(opts ...ParserOption) *PcapNgParser {
	cfg := parserConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	return &PcapNgParser{state: NewState(), interpret: cfg.interpret}
}

// State returns the parser's current stream state (interface table,
// current section), shared by reference — callers must not mutate it.
func (p *PcapNgParser) State() *State { return p.state }

// NextBlock implements spec.md §4.6 "next_block": parses one typed block
// from the front of src, updates state, and returns the unconsumed
// remainder. Returns refill.ErrIncomplete (via the returned error) if src
// does not yet hold a complete block.
func (p *PcapNgParser) NextBlock(src []byte) (remainder []byte, block Block, err error) {
	remainder, raw, newOrder, err := parseRawBlock(src, p.order)
	if err != nil {
		return nil, nil, err
	}
	p.order = newOrder

	block, err = decodeBlock(raw, p.order, p.state, p.interpret)
	if err != nil {
		return nil, nil, err
	}
	if err := p.state.UpdateFromBlock(block, p.order); err != nil {
		return nil, nil, err
	}
	return remainder, block, nil
}

// NextRawBlock implements spec.md §4.6 "next_raw_block": as NextBlock, but
// without typed decoding, for pass-through rewriters (spec.md §4.6,
// SPEC_FULL.md supplemented feature #7).
func (p *PcapNgParser) NextRawBlock(src []byte) (remainder []byte, raw RawBlock, err error) {
	remainder, raw, newOrder, err := parseRawBlock(src, p.order)
	if err != nil {
		return nil, RawBlock{}, err
	}
	p.order = newOrder
	if err := p.state.UpdateFromRawBlock(raw, p.order); err != nil {
		return nil, RawBlock{}, err
	}
	return remainder, raw, nil
}
