package domain

import (
	"fmt"
	"time"
)

// SessionSummary describes one session directory for listing.
type SessionSummary struct {
	Session Session
	// LogPhotos and LogFailures come from the session log, Unknown without one.
	LogPhotos   int
	LogFailures int
	// First and Last bound the capture times of the photos. Zero when the
	// session holds none or was listed remotely.
	First time.Time
	Last  time.Time
	// Fallbacks counts photos dated by modification time for lack of EXIF.
	Fallbacks int
}

// CaptureRange formats the capture span of a summary for display.
func (s SessionSummary) CaptureRange() string {
	if s.First.IsZero() {
		return "-"
	}
	if s.First.Equal(s.Last) {
		return s.First.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprintf("%s - %s", s.First.Format("2006-01-02 15:04:05"), s.Last.Format("15:04:05"))
}
