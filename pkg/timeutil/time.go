package timeutil

import "time"

// Clock supplies the current time
type Clock func() time.Time

// Now returns the current time in UTC
// Always use this instead of time.Now() to ensure timezone consistency
func Now() time.Time {
	return time.Now().UTC()
}

// Fixed returns a clock that always reports t in UTC
func Fixed(t time.Time) Clock {
	t = t.UTC()
	return func() time.Time { return t }
}

// UnixMillis converts t to milliseconds since the epoch, the unit stores report purchase times in
func UnixMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromUnixMillis converts store milliseconds back to a UTC time
func FromUnixMillis(millis int64) time.Time {
	return time.UnixMilli(millis).UTC()
}
