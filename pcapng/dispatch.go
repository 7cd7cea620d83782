package pcapng

import "encoding/binary"

// decodeBlock converts a RawBlock into its typed representation using the
// accumulated stream state, or an *UnknownBlock for any type code this
// library doesn't interpret (spec.md §1 Non-goals). interpret is consulted
// only for Custom blocks.
func decodeBlock(raw RawBlock, order binary.ByteOrder, state *State, interpret CustomBlockInterpreter) (Block, error) {
	switch BlockType(raw.Type) {
	case BlockTypeSectionHeader:
		return parseSectionHeaderBlock(raw, order)
	case BlockTypeInterfaceDescription:
		return parseInterfaceDescriptionBlock(raw, order)
	case BlockTypeEnhancedPacket:
		return parseEnhancedPacketBlock(raw, order, state)
	case BlockTypeSimplePacket:
		return parseSimplePacketBlock(raw, order, state)
	case BlockTypeObsoletePacket:
		return parsePacketBlock(raw, order, state)
	case BlockTypeInterfaceStatistics:
		return parseInterfaceStatisticsBlock(raw, order, state)
	case BlockTypeNameResolution:
		return parseNameResolutionBlock(raw, order)
	case BlockTypeSystemdJournalExport:
		return parseSystemdJournalExportBlock(raw, order)
	case BlockTypeCustomCopiable:
		return parseCustomBlock(raw, order, true, interpret)
	case BlockTypeCustomNonCopiable:
		return parseCustomBlock(raw, order, false, interpret)
	default:
		return &UnknownBlock{BlockType: raw.Type, Body: append([]byte(nil), raw.Body...)}, nil
	}
}
