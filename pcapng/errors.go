package pcapng

import "errors"

// Sentinel errors per spec.md §7's error taxonomy. Wrapped with
// fmt.Errorf("...: %w", ErrX) so callers can branch with errors.Is,
// following the idiom the pack's own pcapng implementation
// (sofiworker/gk's gnet/pcapng) uses rather than adopting a wrapping
// library.
var (
	// ErrInvalidField covers any field that violates a format invariant:
	// bad magic, length not a multiple of 4, length < 12, leading !=
	// trailing length, an option whose declared length overruns its
	// container, original_len < captured_len, and so on.
	ErrInvalidField = errors.New("pcapng: invalid field")

	// ErrInvalidInterfaceID is returned when a packet block references an
	// interface index not present in the current section's interface
	// table.
	ErrInvalidInterfaceID = errors.New("pcapng: invalid interface id")

	// ErrInvalidTimestampResolution is returned when an if_tsresol option
	// byte fails range validation (decimal exponent > 9, binary exponent
	// > 30).
	ErrInvalidTimestampResolution = errors.New("pcapng: invalid timestamp resolution")

	// ErrTimestampTooBig is returned when a caller-supplied duration
	// cannot be represented as ticks at the interface's resolution
	// without overflowing 64 bits.
	ErrTimestampTooBig = errors.New("pcapng: timestamp too big")

	// ErrNoSection is returned when a block other than a Section Header
	// is the first block a parser/reader sees, so no section endianness
	// has been established yet to decode it with.
	ErrNoSection = errors.New("pcapng: no section header seen yet")

	// ErrCustomBlock is returned when a caller-supplied CustomBlockInterpreter
	// returns an error while decoding a custom block's payload.
	ErrCustomBlock = errors.New("pcapng: custom block conversion failed")
)
