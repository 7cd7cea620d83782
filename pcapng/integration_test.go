package pcapng

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// spec.md §8 scenario 5: write/read symmetry with a copiable custom
// option.
func TestWriterReaderCustomBlockRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf)
	require.NoError(t, err)

	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, writer.WriteBlock(&CustomBlock{PEN: 70000, Copiable: true, Payload: payload}))

	reader, err := NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	// first block is the section header written by NewWriter
	_, err = reader.ReadBlock()
	require.NoError(t, err)

	block, err := reader.ReadBlock()
	require.NoError(t, err)
	custom, ok := block.(*CustomBlock)
	require.True(t, ok)
	require.Equal(t, uint32(70000), custom.PEN)
	require.Equal(t, payload, custom.Payload)
	require.True(t, custom.Copiable)

	_, err = reader.ReadBlock()
	require.ErrorIs(t, err, io.EOF)
}

func TestCustomBlockInterpreterHook(t *testing.T) {
	interpret := func(pen uint32, payload []byte) (interface{}, bool, error) {
		if pen != 70000 {
			return nil, false, nil
		}
		return string(payload), true, nil
	}

	var buf bytes.Buffer
	writer, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, writer.WriteBlock(&CustomBlock{PEN: 70000, Copiable: true, Payload: []byte("hi")}))

	reader, err := NewReader(bytes.NewReader(buf.Bytes()), WithReaderCustomBlockInterpreter(interpret))
	require.NoError(t, err)
	_, err = reader.ReadBlock() // section header
	require.NoError(t, err)

	block, err := reader.ReadBlock()
	require.NoError(t, err)
	custom := block.(*CustomBlock)
	require.Equal(t, "hi", custom.Decoded)
}

// spec.md §7 "Custom conversion error": an interpreter that fails to
// decode a recognized PEN's payload fails the whole block with
// ErrCustomBlock, distinct from ok=false ("PEN not recognized").
func TestCustomBlockInterpreterError(t *testing.T) {
	failWith := errors.New("malformed payload")
	interpret := func(pen uint32, payload []byte) (interface{}, bool, error) {
		return nil, true, failWith
	}

	var buf bytes.Buffer
	writer, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, writer.WriteBlock(&CustomBlock{PEN: 70000, Copiable: true, Payload: []byte("hi")}))

	reader, err := NewReader(bytes.NewReader(buf.Bytes()), WithReaderCustomBlockInterpreter(interpret))
	require.NoError(t, err)
	_, err = reader.ReadBlock() // section header
	require.NoError(t, err)

	_, err = reader.ReadBlock()
	require.ErrorIs(t, err, ErrCustomBlock)
}

// spec.md §8 scenario 6: the obsolete Packet Block parses into its typed
// variant and round-trips.
func TestWriterReaderObsoletePacketBlockRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, writer.WriteBlock(NewInterfaceDescriptionBlock(1, 65535)))

	pkt := &PacketBlock{
		InterfaceID: 0,
		DropCount:   3,
		CapturedLen: 4,
		OriginalLen: 4,
		PacketData:  []byte{0xAA, 0xBB, 0xCC, 0xDD},
	}
	require.NoError(t, writer.WriteBlock(pkt))

	reader, err := NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	_, err = reader.ReadBlock() // SHB
	require.NoError(t, err)
	_, err = reader.ReadBlock() // IDB
	require.NoError(t, err)

	block, err := reader.ReadBlock()
	require.NoError(t, err)
	got, ok := block.(*PacketBlock)
	require.True(t, ok)
	require.Equal(t, uint16(3), got.DropCount)
	require.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, got.PacketData)
}

func TestWriterReaderEnhancedPacketRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, writer.WriteBlock(NewInterfaceDescriptionBlock(1, 65535)))

	epb := &EnhancedPacketBlock{
		InterfaceID: 0,
		OriginalLen: 6,
		PacketData:  []byte{1, 2, 3, 4, 5, 6},
		Options:     []Option{{Code: optCodeComment, Value: []byte("hi")}},
	}
	require.NoError(t, writer.WriteBlock(epb))

	reader, err := NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	_, err = reader.ReadBlock()
	require.NoError(t, err)
	_, err = reader.ReadBlock()
	require.NoError(t, err)

	block, err := reader.ReadBlock()
	require.NoError(t, err)
	got := block.(*EnhancedPacketBlock)
	require.Equal(t, epb.PacketData, got.PacketData)
	comment, ok := findComment(got.Options)
	require.True(t, ok)
	require.Equal(t, "hi", comment)
}

// An Enhanced Packet whose interface ID has not been described is
// rejected, spec.md §8's invalid-interface-id case.
func TestWriterRejectsUnknownInterface(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf)
	require.NoError(t, err)

	err = writer.WriteBlock(&EnhancedPacketBlock{InterfaceID: 0, OriginalLen: 1, PacketData: []byte{1}})
	require.ErrorIs(t, err, ErrInvalidInterfaceID)
}

// spec.md §8 section-boundary scenario: a second Section Header Block
// clears the interface table, so a subsequent Enhanced Packet referencing
// the old interface 0 is rejected.
func TestWriterRejectsPacketAfterSectionReset(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, writer.WriteBlock(NewInterfaceDescriptionBlock(1, 65535)))
	require.NoError(t, writer.WriteBlock(&EnhancedPacketBlock{InterfaceID: 0, OriginalLen: 1, PacketData: []byte{1}}))

	require.NoError(t, writer.WriteBlock(NewSectionHeaderBlock()))
	err = writer.WriteBlock(&EnhancedPacketBlock{InterfaceID: 0, OriginalLen: 1, PacketData: []byte{1}})
	require.ErrorIs(t, err, ErrInvalidInterfaceID)
}

func TestWriterReaderNameResolutionRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf)
	require.NoError(t, err)

	nrb := &NameResolutionBlock{
		Records: []NameResolutionRecord{
			{Type: nrbRecordIPv4, Addr: []byte{192, 0, 2, 1}, Names: []string{"host.example"}},
		},
	}
	require.NoError(t, writer.WriteBlock(nrb))

	reader, err := NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	_, err = reader.ReadBlock()
	require.NoError(t, err)

	block, err := reader.ReadBlock()
	require.NoError(t, err)
	got := block.(*NameResolutionBlock)
	require.Len(t, got.Records, 1)
	require.Equal(t, []string{"host.example"}, got.Records[0].Names)
}

// An NRB's block-common options, following its terminator record, must
// survive a write/read round-trip (spec.md §8's round-trip property).
func TestWriterReaderNameResolutionOptionsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf)
	require.NoError(t, err)

	nrb := &NameResolutionBlock{
		Records: []NameResolutionRecord{
			{Type: nrbRecordIPv4, Addr: []byte{192, 0, 2, 1}, Names: []string{"host.example"}},
		},
		Options: []Option{{Code: optCodeComment, Value: []byte("resolved via DNS")}},
	}
	require.NoError(t, writer.WriteBlock(nrb))

	reader, err := NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	_, err = reader.ReadBlock()
	require.NoError(t, err)

	block, err := reader.ReadBlock()
	require.NoError(t, err)
	got := block.(*NameResolutionBlock)
	comment, ok := findComment(got.Options)
	require.True(t, ok)
	require.Equal(t, "resolved via DNS", comment)
}

func TestRawBlockPassThrough(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, writer.WriteBlock(NewInterfaceDescriptionBlock(1, 65535)))

	parser := NewParser()
	remainder := buf.Bytes()
	var raws []RawBlock
	for len(remainder) > 0 {
		var raw RawBlock
		remainder, raw, err = parser.NextRawBlock(remainder)
		require.NoError(t, err)
		raws = append(raws, raw.Clone())
	}
	require.Len(t, raws, 2)
	require.Equal(t, uint32(BlockTypeSectionHeader), raws[0].Type)
	require.Equal(t, uint32(BlockTypeInterfaceDescription), raws[1].Type)
}
