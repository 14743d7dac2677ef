package cache

import "time"

// MaxCacheAgeInDays is how many calendar days a snapshot stays usable
const MaxCacheAgeInDays = 7

// IsFresh reports whether a snapshot written at timestamp may still be served at now
//
// The age limit is added in calendar days in the local time zone, so a week
// spanning a daylight-saving change is not exactly 168 hours. A timestamp for
// which the limit cannot be computed is treated as stale.
func IsFresh(timestamp, now time.Time) bool {
	if timestamp.IsZero() {
		return false
	}
	maxAge := timestamp.Local().AddDate(0, 0, MaxCacheAgeInDays)

	// out-of-range timestamps wrap or saturate instead of failing
	const day = 24 * time.Hour
	if span := maxAge.Sub(timestamp); span < (MaxCacheAgeInDays-1)*day || span > (MaxCacheAgeInDays+1)*day {
		return false
	}
	return now.Before(maxAge)
}
