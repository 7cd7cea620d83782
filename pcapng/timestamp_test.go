package pcapng

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTickRateFromTsresolDecimal(t *testing.T) {
	rate, err := tickRateFromTsresol(6)
	require.NoError(t, err)
	require.Equal(t, int64(1000), rate.numerNs)
	require.Equal(t, int64(1), rate.denom)

	_, err = tickRateFromTsresol(10)
	require.ErrorIs(t, err, ErrInvalidTimestampResolution)
}

func TestTickRateFromTsresolBinary(t *testing.T) {
	rate, err := tickRateFromTsresol(0x80 | 20)
	require.NoError(t, err)
	require.Equal(t, int64(1_000_000_000), rate.numerNs)
	require.Equal(t, int64(1)<<20, rate.denom)

	_, err = tickRateFromTsresol(0x80 | 31)
	require.ErrorIs(t, err, ErrInvalidTimestampResolution)
}

// spec.md §8 scenario 3: a microsecond-resolution interface's raw ticks
// decode to the expected fractional-second value.
func TestTickRateDecodeMicrosecondScenario(t *testing.T) {
	rate, err := tickRateFromTsresol(6)
	require.NoError(t, err)

	d, err := rate.decode(1_704_187_433_132_051)
	require.NoError(t, err)
	require.Equal(t, 1704187433132051*time.Microsecond, d)
}

// spec.md §8's guaranteed property is decode(encode(d)) == d - (d mod
// tick_length), not encode(decode(ticks)) == ticks: binary resolutions
// have a tick length that isn't a whole number of nanoseconds (e.g.
// 1e9/2^16 ns), so decode then encode of an arbitrary tick count can
// truncate twice and land one tick short. Choosing ticks as a multiple of
// the rate's denominator makes numerNs*ticks/denom exact, landing d
// precisely on a tick boundary (d mod tick_length == 0) so both
// directions round-trip exactly.
func TestTickRateDecodeEncodeRoundTrip(t *testing.T) {
	for _, tsresol := range []byte{0, 3, 6, 9, 0x80 | 16, 0x80 | 30} {
		rate, err := tickRateFromTsresol(tsresol)
		require.NoError(t, err)

		ticks := uint64(rate.denom) * 5
		d, err := rate.decode(ticks)
		require.NoError(t, err)

		back, err := rate.encode(d)
		require.NoError(t, err)
		require.Equal(t, ticks, back)

		redecoded, err := rate.decode(back)
		require.NoError(t, err)
		require.Equal(t, d, redecoded)
	}
}

func TestTickRateDecodeOverflow(t *testing.T) {
	rate := tickRate{numerNs: 1, denom: 1}
	_, err := rate.decode(^uint64(0))
	require.ErrorIs(t, err, ErrTimestampTooBig)
}

func TestTickRateEncodeNegativeDuration(t *testing.T) {
	rate := tickRate{numerNs: 1000, denom: 1, offsetNs: int64(time.Second)}
	_, err := rate.encode(0)
	require.ErrorIs(t, err, ErrTimestampTooBig)
}
