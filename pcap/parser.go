package pcap

// PcapParser is the pull-style entry point for classic PCAP (spec.md
// §4.6 "Classic PCAP has the analogous shape"): the caller owns the byte
// buffer, calls NewParser once, then repeatedly calls NextRecord.
type PcapParser struct {
	Header FileHeader
}

// NewParser parses the 24-byte file header from the front of buf and
// returns a PcapParser plus the unconsumed remainder.
func NewParser(buf []byte) (remainder []byte, parser *PcapParser, err error) {
	remainder, header, err := parseFileHeader(buf)
	if err != nil {
		return nil, nil, err
	}
	return remainder, &PcapParser{Header: header}, nil
}

// NextRecord parses one packet record from the front of src and returns
// the unconsumed remainder.
func (p *PcapParser) NextRecord(src []byte) (remainder []byte, rec PacketRecord, err error) {
	return parseRecord(src, p.Header)
}
