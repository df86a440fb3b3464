// Package dateutils provides the date layouts and helpers used across the service.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// DateLayoutISO is the calendar-date layout sent to the core service.
	DateLayoutISO = "2006-01-02"
	// DateLayoutOFX is the fixed-width OFX timestamp (yyyyMMddHHmmss).
	DateLayoutOFX = "20060102150405"
	// DateLayoutFull is used for human-readable output.
	DateLayoutFull = "2006-01-02 15:04:05"
)

var ofxStamp = regexp.MustCompile(`^\d{14}`)

// ParseOFXTimestamp parses the leading yyyyMMddHHmmss digits of an OFX date.
// Anything after the 14 digits (fraction, "[-3:BRT]" zone suffix) is ignored,
// and the result is a wall-clock time in UTC.
func ParseOFXTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	stamp := ofxStamp.FindString(value)
	if stamp == "" {
		return time.Time{}, fmt.Errorf("expected %d-digit timestamp, got %q", len(DateLayoutOFX), value)
	}
	t, err := time.Parse(DateLayoutOFX, stamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", stamp, err)
	}
	return t, nil
}

// CalendarDate truncates t to midnight UTC of its own calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate formats a time.Time value according to the specified layout.
// If no layout is provided, DateLayoutISO is used.
func FormatDate(date time.Time, layout string) string {
	if layout == "" {
		layout = DateLayoutISO
	}
	return date.Format(layout)
}
