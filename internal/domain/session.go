package domain

import (
	"regexp"
	"strings"
)

const (
	SessionPrefix = "session_"
	// SessionGlob matches remote session directories.
	SessionGlob    = "session_*"
	SessionLogName = "session_log.json"
	// Unknown marks a count or size that could not be determined.
	Unknown = -1
)

var canonicalSession = regexp.MustCompile(`^session_[0-9]{8}$`)

type Session struct {
	Board      Board
	DateKey    string
	Name       string
	PhotoCount int
	Bytes      int64
	HasLog     bool
}

// NewSession builds a session with unknown statistics. The date key is
// extracted without the current-date fallback, so undated names yield "".
func NewSession(board Board, name string) Session {
	key, _ := EmbeddedDateKey(name)
	return Session{
		Board:      board,
		Name:       name,
		DateKey:    key,
		PhotoCount: Unknown,
		Bytes:      Unknown,
	}
}

func (s Session) Canonical() bool {
	return IsCanonicalName(s.Name)
}

// IsCanonicalName reports whether name is exactly session_<YYYYMMDD>.
func IsCanonicalName(name string) bool {
	return canonicalSession.MatchString(name)
}

func CanonicalName(dateKey string) string {
	return SessionPrefix + dateKey
}

// IsSessionName reports whether name matches the session naming glob.
func IsSessionName(name string) bool {
	return strings.HasPrefix(name, SessionPrefix) && len(name) > len(SessionPrefix)
}
