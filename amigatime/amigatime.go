// Package amigatime converts between the AmigaDOS on-disk time triple
// (days since 1978-01-01, minutes past midnight, ticks past the last
// minute) and a wall-clock time.Time.
//
// Conversions are UTC-consistent in both directions. Real Amiga disks
// store local time with no zone information, so interoperability with
// them is the caller's concern when choosing what Time to pass in.
package amigatime

import "time"

const (
	millisPerTick   = 20
	millisPerMinute = 60 * 1000
	millisPerDay    = millisPerMinute * 60 * 24
)

// Epoch is the AmigaDOS reference time, anchored in UTC.
var Epoch = time.Date(1978, time.January, 1, 0, 0, 0, 0, time.UTC)

// ToTime converts an on-disk time triple to a wall-clock time.
func ToTime(daysSinceEpoch, minutesPastMidnight, ticksPastLastMinute uint32) time.Time {
	millis := int64(daysSinceEpoch)*millisPerDay +
		int64(minutesPastMidnight)*millisPerMinute +
		int64(ticksPastLastMinute)*millisPerTick
	return Epoch.Add(time.Duration(millis) * time.Millisecond)
}

// FromTime converts a wall-clock time to an on-disk time triple. t is
// interpreted as UTC (converted if it carries another location).
func FromTime(t time.Time) (daysSinceEpoch, minutesPastMidnight, ticksPastLastMinute uint32) {
	millis := t.UTC().Sub(Epoch).Milliseconds()

	days := millis / millisPerDay
	rem := millis % millisPerDay

	minutes := rem / millisPerMinute
	rem %= millisPerMinute

	ticks := rem / millisPerTick

	return uint32(days), uint32(minutes), uint32(ticks)
}
