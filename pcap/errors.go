package pcap

import "errors"

// ErrInvalidField is returned when a fixed-width field or the packet
// record it belongs to violates a format invariant: bad magic, a
// timestamp fraction outside its resolution's range, or an included
// length that exceeds the original length (spec.md §7).
var ErrInvalidField = errors.New("pcap: invalid field")

// ErrPacketTooLarge is returned by the writer when a record's included
// length would exceed the file header's snaplen (spec.md §7).
var ErrPacketTooLarge = errors.New("pcap: packet exceeds snaplen")
