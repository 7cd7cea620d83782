package pcap

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// scenario 1 in spec.md §8: classic little-endian sample.
func TestParseFileHeaderLittleEndianSample(t *testing.T) {
	buf := []byte{
		0xD4, 0xC3, 0xB2, 0xA1, 0x02, 0x00, 0x04, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x10, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00,
		0x48, 0x32, 0x63, 0x4F, 0x00, 0x00, 0x00, 0x00,
		0x75, 0x00, 0x00, 0x00, 0x75, 0x00, 0x00, 0x00,
	}
	buf = append(buf, make([]byte, 0x75)...) // the record's 0x75 included bytes
	record := buf[24:]

	remainder, header, err := parseFileHeader(buf)
	require.NoError(t, err)
	require.Equal(t, uint32(4096), header.SnapLen)
	require.Equal(t, uint32(1), header.LinkType)
	require.False(t, header.Nanosecond)
	require.Equal(t, record, remainder)

	_, rec, err := parseRecord(remainder, header)
	require.NoError(t, err)
	require.Equal(t, uint32(0x75), rec.OriginalLen)
	require.Len(t, rec.PacketData, 0x75)
}

// scenario 2 in spec.md §8: classic big-endian sample.
func TestParseFileHeaderBigEndianSample(t *testing.T) {
	buf := []byte{
		0xA1, 0xB2, 0xC3, 0xD4, 0x00, 0x02, 0x00, 0x04,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x01,
	}
	_, header, err := parseFileHeader(buf)
	require.NoError(t, err)
	require.Equal(t, uint32(0xFFFF), header.SnapLen)
	require.False(t, header.Nanosecond)
}

func TestParseFileHeaderBadMagic(t *testing.T) {
	buf := make([]byte, 24)
	_, _, err := parseFileHeader(buf)
	require.ErrorIs(t, err, ErrInvalidField)
}

func TestRecordRejectsIncludedExceedsOriginal(t *testing.T) {
	header := *NewFileHeader(1, 65535)
	buf := make([]byte, 16)
	header.Order.PutUint32(buf[8:12], 10) // included
	header.Order.PutUint32(buf[12:16], 4) // original
	_, _, err := parseRecord(buf, header)
	require.ErrorIs(t, err, ErrInvalidField)
}

func TestRecordRejectsIncludedExceedsSnaplen(t *testing.T) {
	header := *NewFileHeader(1, 4)
	buf := make([]byte, 16)
	header.Order.PutUint32(buf[8:12], 10)
	header.Order.PutUint32(buf[12:16], 10)
	_, _, err := parseRecord(buf, header)
	require.ErrorIs(t, err, ErrInvalidField)
}

func TestWriterReaderRoundTrip(t *testing.T) {
	header := *NewFileHeader(1, 65535)
	rec := PacketRecord{
		Timestamp:   12*time.Second + 345*time.Microsecond,
		OriginalLen: 4,
		PacketData:  []byte{0xDE, 0xAD, 0xBE, 0xEF},
	}

	var buf bytes.Buffer
	writer, err := NewWriter(&buf, header.LinkType, header.SnapLen, WithFileHeader(header))
	require.NoError(t, err)
	require.NoError(t, writer.WriteRecord(rec))

	reader, err := NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	got, err := reader.ReadRecord()
	require.NoError(t, err)
	require.Equal(t, rec.OriginalLen, got.OriginalLen)
	require.Equal(t, rec.PacketData, got.PacketData)
	require.Equal(t, rec.Timestamp, got.Timestamp)

	_, err = reader.ReadRecord()
	require.ErrorIs(t, err, io.EOF)
}

func TestWriterRejectsOversizedRecord(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf, 1, 4)
	require.NoError(t, err)

	rec := PacketRecord{OriginalLen: 5, PacketData: []byte{1, 2, 3, 4, 5}}
	err = writer.WriteRecord(rec)
	require.ErrorIs(t, err, ErrPacketTooLarge)
}

func TestWriterRawRecordSkipsValidation(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf, 1, 4)
	require.NoError(t, err)

	rec := PacketRecord{OriginalLen: 5, PacketData: []byte{1, 2, 3, 4, 5}}
	require.NoError(t, writer.WriteRawRecord(rec))
}

func TestGzipAutodetectedReader(t *testing.T) {
	header := *NewFileHeader(1, 65535)
	var plain bytes.Buffer
	writer, err := NewWriter(&plain, header.LinkType, header.SnapLen, WithFileHeader(header))
	require.NoError(t, err)
	require.NoError(t, writer.WriteRecord(PacketRecord{OriginalLen: 2, PacketData: []byte{1, 2}}))

	reader, err := NewReader(bytes.NewReader(plain.Bytes()), WithGzipAutodetect())
	require.NoError(t, err)
	rec, err := reader.ReadRecord()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, rec.PacketData)
}
