// Package utils provides utility functions for the application.
package utils

import (
	"time"
)

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// UTCNowPtr returns a pointer to the current time in UTC
func UTCNowPtr() *time.Time {
	now := UTCNow()
	return &now
}

// TimeToUTC converts a time to UTC if it's not already
func TimeToUTC(t time.Time) time.Time {
	return t.UTC()
}

// TruncateToUTCDate drops the time-of-day component, keeping the UTC date.
func TruncateToUTCDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// CharterWeekStart normalizes a date to the Saturday opening the charter
// week that contains it. Charter calendars run Saturday to Saturday.
func CharterWeekStart(t time.Time) time.Time {
	d := TruncateToUTCDate(t)
	offset := (int(d.Weekday()) - int(time.Saturday) + 7) % 7
	return d.AddDate(0, 0, -offset)
}

// IsExpired checks if the given time is in the past (expired)
func IsExpired(t time.Time) bool {
	return UTCNow().After(t)
}
