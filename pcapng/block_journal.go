package pcapng

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/gopcapfile/pcapfile/internal/bytecodec"
)

// JournalEntry is one systemd journal export entry: a set of
// newline-terminated KEY=value fields terminated by a blank line, as
// produced by `journalctl -o export` (spec.md §3 "Systemd Journal
// Export", SPEC_FULL.md supplemented feature #3). Values are kept as
// raw bytes. Binary fields (length-prefixed rather than KEY=value) are
// not parsed into Fields; see parseJournalEntries.
type JournalEntry struct {
	Fields map[string][]byte
}

// SystemdJournalExportBlock wraps one or more concatenated journal
// export entries (spec.md §3, SPEC_FULL.md supplemented feature #3).
// Raw preserves the exact entry bytes for lossless round-trip; Entries
// is a parsed view derived from Raw.
type SystemdJournalExportBlock struct {
	Raw     []byte
	Entries []JournalEntry
}

// Type implements Block.
func (b *SystemdJournalExportBlock) Type() BlockType { return BlockTypeSystemdJournalExport }

// Clone returns a SystemdJournalExportBlock with heap-owned Raw.
// Entries is recomputed from the cloned Raw.
func (b *SystemdJournalExportBlock) Clone() *SystemdJournalExportBlock {
	raw := append([]byte(nil), b.Raw...)
	entries, _ := parseJournalEntries(raw)
	return &SystemdJournalExportBlock{Raw: raw, Entries: entries}
}

func parseJournalEntries(raw []byte) ([]JournalEntry, error) {
	var entries []JournalEntry
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	current := JournalEntry{Fields: map[string][]byte{}}
	hasFields := false
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			if hasFields {
				entries = append(entries, current)
			}
			current = JournalEntry{Fields: map[string][]byte{}}
			hasFields = false
			continue
		}
		if eq := bytes.IndexByte(line, '='); eq >= 0 {
			name := string(line[:eq])
			current.Fields[name] = append([]byte(nil), line[eq+1:]...)
			hasFields = true
			continue
		}
		// Binary-safe framing: "FIELD\n" followed by an 8-byte
		// little-endian length and that many raw bytes is not
		// reconstructible from a line scanner; such entries are left
		// for the caller to decode from Raw directly.
	}
	if hasFields {
		entries = append(entries, current)
	}
	return entries, scanner.Err()
}

func parseSystemdJournalExportBlock(raw RawBlock, order binary.ByteOrder) (*SystemdJournalExportBlock, error) {
	entries, err := parseJournalEntries(raw.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	return &SystemdJournalExportBlock{Raw: append([]byte(nil), raw.Body...), Entries: entries}, nil
}

func (b *SystemdJournalExportBlock) writeBody(w bodyWriter, order binary.ByteOrder, _ *State) error {
	if err := w.PutBytes(b.Raw); err != nil {
		return err
	}
	return w.PutZeros(bytecodec.Pad4(len(b.Raw)))
}
