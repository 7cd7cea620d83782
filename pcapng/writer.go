package pcapng

import (
	"encoding/binary"
	"io"
)

// WriterOption configures a PcapNgWriter, grounded on `sofiworker/gk`'s
// `gnet/pcapng` writer's functional-options constructor (SPEC_FULL.md
// ambient stack, "Configuration / construction").
type WriterOption func(*writerConfig) error

type writerConfig struct {
	order   binary.ByteOrder
	section *SectionHeaderBlock
}

// WithByteOrder sets the section's byte order. Defaults to little-endian.
func WithByteOrder(order binary.ByteOrder) WriterOption {
	return func(c *writerConfig) error {
		c.order = order
		return nil
	}
}

// WithSectionHeader supplies the section header block written immediately
// by NewWriter, in place of the default empty one.
func WithSectionHeader(shb *SectionHeaderBlock) WriterOption {
	return func(c *writerConfig) error {
		c.section = shb
		return nil
	}
}

// PcapNgWriter owns an output sink and the state built up from every block
// written through it (spec.md §4.6 "PcapNgWriter"). The constructor writes
// a Section Header Block to the sink immediately, either the one supplied
// via WithSectionHeader or a fresh default one.
type PcapNgWriter struct {
	sink  io.Writer
	order binary.ByteOrder
	state *State
}

// NewWriter returns a PcapNgWriter, having already written a section
// header block to sink.
func NewWriter(sink io.Writer, opts ...WriterOption) (*PcapNgWriter, error) {
	cfg := writerConfig{order: binary.LittleEndian}
	for _, o := range opts {
		if err := o(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.section == nil {
		cfg.section = NewSectionHeaderBlock()
	}

	w := &PcapNgWriter{sink: sink, order: cfg.order, state: NewState()}
	if err := w.WriteBlock(cfg.section); err != nil {
		return nil, err
	}
	return w, nil
}

// State returns the writer's current stream state.
func (w *PcapNgWriter) State() *State { return w.state }

// WriteBlock implements spec.md §4.6 "write_block": runs the same state
// update the reader performs, then emits the block.
func (w *PcapNgWriter) WriteBlock(b Block) error {
	if err := w.state.UpdateFromBlock(b, w.order); err != nil {
		return err
	}
	return emitBlock(w.sink, w.order, w.state, b)
}

// WriteRawBlock implements spec.md §4.6 "write_raw_block": emits the block
// verbatim, but still runs state updates for Section/Interface raw blocks
// so that subsequent typed writes see the correct interface table and tick
// length.
func (w *PcapNgWriter) WriteRawBlock(raw RawBlock) error {
	if err := w.state.UpdateFromRawBlock(raw, w.order); err != nil {
		return err
	}
	return emitRawBlock(w.sink, w.order, raw)
}
