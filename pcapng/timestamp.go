package pcapng

import (
	"fmt"
	"math/big"
	"time"
)

// tickRate is the precomputed (nanoseconds-per-tick, offset) pair spec.md
// §4.5 describes, kept as an exact rational (numerNs/denom) rather than a
// float so that binary timestamp resolutions (tick = 2^-n seconds, which
// is not always a whole number of nanoseconds) decode and encode without
// drifting.
type tickRate struct {
	numerNs  int64
	denom    int64
	offsetNs int64
}

// defaultTickRate is used for an interface with no if_tsresol option:
// microsecond resolution, spec.md §3.
var defaultTickRate = tickRate{numerNs: 1000, denom: 1}

// tickRateFromTsresol derives a tick rate from a raw if_tsresol byte,
// validating its range per spec.md §3 and §4.5: high bit clear selects
// decimal (10^-n seconds, n in [0,9]); high bit set selects binary
// (2^-n seconds, n in [0,30]).
func tickRateFromTsresol(b byte) (tickRate, error) {
	if b&0x80 == 0 {
		n := int(b)
		if n > 9 {
			return tickRate{}, fmt.Errorf("%w: decimal exponent %d > 9", ErrInvalidTimestampResolution, n)
		}
		numer := int64(1)
		for i := 0; i < 9-n; i++ {
			numer *= 10
		}
		return tickRate{numerNs: numer, denom: 1}, nil
	}

	n := int(b & 0x7f)
	if n > 30 {
		return tickRate{}, fmt.Errorf("%w: binary exponent %d > 30", ErrInvalidTimestampResolution, n)
	}
	return tickRate{numerNs: 1_000_000_000, denom: int64(1) << uint(n)}, nil
}

func bigU64(v uint64) *big.Int { return new(big.Int).SetUint64(v) }

// decode converts raw ticks into a Duration: ticks * tickLength + offset,
// spec.md §4.4 "Enhanced Packet parse" step 4 / §4.5 decode_timestamp.
func (t tickRate) decode(ticks uint64) (time.Duration, error) {
	prod := new(big.Int).Mul(bigU64(ticks), big.NewInt(t.numerNs))
	prod.Div(prod, big.NewInt(t.denom))
	prod.Add(prod, big.NewInt(t.offsetNs))
	if !prod.IsInt64() {
		return 0, fmt.Errorf("%w: decoded timestamp overflows a duration", ErrTimestampTooBig)
	}
	return time.Duration(prod.Int64()), nil
}

// encode is the inverse of decode, spec.md §4.4 "Enhanced Packet emit" /
// §4.5 encode_timestamp: fails with ErrTimestampTooBig if the scaled
// result does not fit in 64 bits of ticks.
func (t tickRate) encode(d time.Duration) (uint64, error) {
	v := big.NewInt(int64(d) - t.offsetNs)
	v.Mul(v, big.NewInt(t.denom))
	v.Div(v, big.NewInt(t.numerNs))
	if v.Sign() < 0 {
		return 0, fmt.Errorf("%w: duration predates interface epoch", ErrTimestampTooBig)
	}
	maxTicks := new(big.Int).SetUint64(^uint64(0))
	if v.Cmp(maxTicks) > 0 {
		return 0, fmt.Errorf("%w: duration needs more than 2^64-1 ticks", ErrTimestampTooBig)
	}
	return v.Uint64(), nil
}
