package hmactoken

import "time"

const (
	// ticksPerSecond is the number of 100ns intervals in one second.
	ticksPerSecond = int64(10_000_000)

	// unixEpochTicks is the tick count of 1970-01-01T00:00:00 measured
	// from 0001-01-01T00:00:00.
	unixEpochTicks = int64(621_355_968_000_000_000)

	// MaxTicks is the tick count of 9999-12-31T23:59:59.9999999, the
	// largest timestamp a token may carry.
	MaxTicks = int64(3_155_378_975_999_999_999)
)

// Ticks returns the number of 100ns intervals between 0001-01-01T00:00:00
// and the wall-clock reading of t in loc. A nil loc means UTC.
func Ticks(t time.Time, loc *time.Location) int64 {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	_, offset := t.Zone()
	secs := t.Unix() + int64(offset)
	return unixEpochTicks + secs*ticksPerSecond + int64(t.Nanosecond())/100
}

// FromTicks is the inverse of Ticks: it reads ticks as a wall-clock
// reading in loc. A nil loc means UTC.
func FromTicks(ticks int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	rel := ticks - unixEpochTicks
	secs := rel / ticksPerSecond
	rem := rel % ticksPerSecond
	if rem < 0 {
		secs--
		rem += ticksPerSecond
	}
	wall := time.Unix(secs, rem*100).UTC()
	return time.Date(wall.Year(), wall.Month(), wall.Day(),
		wall.Hour(), wall.Minute(), wall.Second(), wall.Nanosecond(), loc)
}
