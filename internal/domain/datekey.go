package domain

import (
	"regexp"
	"time"
)

// DateKeySource records which rule of the date policy produced a key.
type DateKeySource int

const (
	// DateFromPrefix: eight digits immediately after "session_".
	DateFromPrefix DateKeySource = iota
	// DateFromEmbedded: the first run of eight digits anywhere in the name.
	DateFromEmbedded
	// DateFromClock: no date in the name, the current date was used.
	DateFromClock
)

func (s DateKeySource) String() string {
	switch s {
	case DateFromPrefix:
		return "prefix"
	case DateFromEmbedded:
		return "embedded"
	default:
		return "clock"
	}
}

const DateKeyLayout = "20060102"

var (
	prefixedDate = regexp.MustCompile(`^session_([0-9]{8})`)
	embeddedDate = regexp.MustCompile(`[0-9]{8}`)
	exactDate    = regexp.MustCompile(`^[0-9]{8}$`)
)

// DateKey extracts the YYYYMMDD key of a session directory name.
//
// The order is fixed policy: a date anchored right after the session prefix
// wins, then any eight-digit run in the name, and only then the current date.
// Names like session_20250101_14 and session_20250101143000 both resolve
// through the first rule.
func DateKey(name string, now time.Time) (string, DateKeySource) {
	if m := prefixedDate.FindStringSubmatch(name); m != nil {
		return m[1], DateFromPrefix
	}
	if m := embeddedDate.FindString(name); m != "" {
		return m, DateFromEmbedded
	}
	return now.Format(DateKeyLayout), DateFromClock
}

// EmbeddedDateKey applies the first two rules of DateKey only.
func EmbeddedDateKey(name string) (string, bool) {
	key, src := DateKey(name, time.Time{})
	if src == DateFromClock {
		return "", false
	}
	return key, true
}

// ValidDateKey reports whether value is an eight-digit date filter.
func ValidDateKey(value string) bool {
	if !exactDate.MatchString(value) {
		return false
	}
	_, err := time.Parse(DateKeyLayout, value)
	return err == nil
}
