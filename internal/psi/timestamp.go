package psi

import (
	"fmt"
	"time"
)

// TimestampLayout is the date_time format accepted by the PSI API.
const TimestampLayout = "2006-01-02T15:04:05"

// Singapore has observed UTC+8 without daylight saving since 1982.
var singapore = time.FixedZone("SGT", 8*60*60)

// SingaporeTimestamp formats t as Singapore local time.
func SingaporeTimestamp(t time.Time) string {
	return t.In(singapore).Format(TimestampLayout)
}

// ValidateTimestamp checks that ts is a date_time in TimestampLayout.
func ValidateTimestamp(ts string) error {
	if _, err := time.ParseInLocation(TimestampLayout, ts, singapore); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimestamp, ts)
	}
	return nil
}
