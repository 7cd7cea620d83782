package pcapng

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimplePacketCapturedLenDerivedFromSnaplen(t *testing.T) {
	state := NewState()
	require.NoError(t, state.UpdateFromBlock(NewSectionHeaderBlock(), binary.LittleEndian))
	require.NoError(t, state.UpdateFromBlock(NewInterfaceDescriptionBlock(1, 4), binary.LittleEndian))

	raw := RawBlock{Type: uint32(BlockTypeSimplePacket)}
	body := make([]byte, 4+8)
	binary.LittleEndian.PutUint32(body[0:4], 8) // original length
	for i := 0; i < 8; i++ {
		body[4+i] = byte(i)
	}
	raw.Body = body

	spb, err := parseSimplePacketBlock(raw, binary.LittleEndian, state)
	require.NoError(t, err)
	require.Equal(t, uint32(8), spb.OriginalLen)
	require.Len(t, spb.PacketData, 4) // clamped to interface 0's snaplen
}

func TestSimplePacketCapturedLenWithoutKnownInterface(t *testing.T) {
	state := NewState()
	raw := RawBlock{Type: uint32(BlockTypeSimplePacket)}
	body := make([]byte, 4+4)
	binary.LittleEndian.PutUint32(body[0:4], 4)
	copy(body[4:], []byte{1, 2, 3, 4})
	raw.Body = body

	spb, err := parseSimplePacketBlock(raw, binary.LittleEndian, state)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, spb.PacketData)
}

func TestSimplePacketCloneIsIndependent(t *testing.T) {
	spb := &SimplePacketBlock{OriginalLen: 4, PacketData: []byte{1, 2, 3, 4}}
	clone := spb.Clone()
	clone.PacketData[0] = 0xFF
	require.Equal(t, byte(1), spb.PacketData[0])
}
