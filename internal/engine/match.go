package engine

import "time"

// matchTolerance bounds tier-3 searches: an index entry further than this
// from the weather instant is not a match.
const matchTolerance = 30 * time.Minute

// ToInstant converts a weather record's (month, day, 1-24 hour) to the
// calendar instant expected in the irradiance series for the reference
// year. During the daylight period the weather hour is used unchanged: the
// weather series' fixed MEZ offset and the irradiance series' MESZ offset
// cancel the usual -1 shift. Outside it the hour converts directly from
// 1-24 to 0-23. A daylight hour 24 clamps to hour 23 of the same day
// rather than rolling into the next day.
func ToInstant(rec WeatherRecord, ctx Context) Instant {
	hour := rec.Hour - 1
	if IsDaylightPeriod(rec.Month, rec.Day) {
		hour = rec.Hour
		if hour > 23 {
			hour = 23
		}
	}
	return Instant{Year: ctx.Year, Month: rec.Month, Day: rec.Day, Hour: hour}
}

// matchTier is one strategy for resolving a weather instant against the
// index. Tiers are tried in order; the first hit wins.
type matchTier func(Index, Instant) (float64, bool)

var matchTiers = []matchTier{
	matchExact,
	matchSameDate,
	matchWithinTolerance,
}

// Match resolves the irradiance value for one weather record. A false
// return is not an error: it means no shading adjustment applies to this
// hour, the common case for night hours.
func Match(idx Index, rec WeatherRecord, ctx Context) (float64, bool) {
	want := ToInstant(rec, ctx)
	for _, tier := range matchTiers {
		if v, ok := tier(idx, want); ok {
			return v, true
		}
	}
	return 0, false
}

// matchExact looks the instant up directly.
func matchExact(idx Index, want Instant) (float64, bool) {
	v, ok := idx[want]
	return v, ok
}

// matchSameDate matches month, day and hour regardless of stored year. The
// weather series has no intrinsic year, so the two series can disagree on
// the calendar year without being misaligned. When several stored years
// carry the same date and hour, the smallest year wins so repeated runs
// return the same value.
func matchSameDate(idx Index, want Instant) (float64, bool) {
	var (
		bestYear  int
		bestValue float64
		found     bool
	)
	for in, v := range idx {
		if in.Month != want.Month || in.Day != want.Day || in.Hour != want.Hour {
			continue
		}
		if !found || in.Year < bestYear {
			bestYear = in.Year
			bestValue = v
			found = true
		}
	}
	return bestValue, found
}

// matchWithinTolerance returns the closest entry within matchTolerance of
// the weather instant, after normalizing both sides to the entry's year.
// Equally close entries from different stored years resolve to the
// smallest year, keeping the result independent of map iteration order.
func matchWithinTolerance(idx Index, want Instant) (float64, bool) {
	var (
		bestDiff  time.Duration
		bestYear  int
		bestValue float64
		found     bool
	)
	for in, v := range idx {
		normalized := want
		normalized.Year = in.Year
		diff := normalized.Time().Sub(in.Time())
		if diff < 0 {
			diff = -diff
		}
		if diff > matchTolerance {
			continue
		}
		if !found || diff < bestDiff || (diff == bestDiff && in.Year < bestYear) {
			bestDiff = diff
			bestYear = in.Year
			bestValue = v
			found = true
		}
	}
	return bestValue, found
}
