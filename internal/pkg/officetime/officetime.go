package officetime

import "time"

// The office operates on Pakistan Standard Time (UTC+5) regardless of where
// the server runs. PKT does not observe daylight saving, so a fixed offset
// is enough and avoids depending on the system tz database.
var office = time.FixedZone("PKT", 5*60*60)

// Location returns the office timezone.
func Location() *time.Location {
	return office
}

// Now returns the current moment in office-local time.
func Now() time.Time {
	return time.Now().UTC().In(office)
}

// Today returns the current office-local calendar date at midnight UTC,
// suitable for comparing against date columns.
func Today() time.Time {
	return DateOf(Now())
}

// DateOf strips the time component of t, evaluated in the office timezone.
func DateOf(t time.Time) time.Time {
	y, m, d := t.In(office).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TimeOfDay returns the duration since office-local midnight for t.
func TimeOfDay(t time.Time) time.Duration {
	local := t.In(office)
	return time.Duration(local.Hour())*time.Hour +
		time.Duration(local.Minute())*time.Minute +
		time.Duration(local.Second())*time.Second
}
