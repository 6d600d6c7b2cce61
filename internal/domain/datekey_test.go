package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDateKeyPolicyOrder(t *testing.T) {
	now := time.Date(2025, 10, 18, 12, 0, 0, 0, time.Local)
	cases := []struct {
		name string
		key  string
		from DateKeySource
	}{
		{"session_20250101", "20250101", DateFromPrefix},
		{"session_20250101_14", "20250101", DateFromPrefix},
		{"session_20250101143000", "20250101", DateFromPrefix},
		{"session_x_20250203", "20250203", DateFromEmbedded},
		{"session_1234_20250203", "20250203", DateFromEmbedded},
		{"Session-20250304", "20250304", DateFromEmbedded},
		{"session_morning", "20251018", DateFromClock},
		{"session_2025", "20251018", DateFromClock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, from := DateKey(tc.name, now)
			require.Equal(t, tc.key, key)
			require.Equal(t, tc.from, from)
		})
	}
}

func TestEmbeddedDateKeyNeverUsesClock(t *testing.T) {
	_, ok := EmbeddedDateKey("session_morning")
	require.False(t, ok)

	key, ok := EmbeddedDateKey("session20250101")
	require.True(t, ok)
	require.Equal(t, "20250101", key)
}

func TestValidDateKey(t *testing.T) {
	require.True(t, ValidDateKey("20250101"))
	require.False(t, ValidDateKey("2025-01-01"))
	require.False(t, ValidDateKey("20251301"))
	require.False(t, ValidDateKey("202501011"))
}

func TestCanonicalNames(t *testing.T) {
	require.True(t, IsCanonicalName("session_20250101"))
	require.False(t, IsCanonicalName("session_20250101_14"))
	require.False(t, IsCanonicalName("Session_20250101"))
	require.Equal(t, "session_20250101", CanonicalName("20250101"))
	require.True(t, IsSessionName("session_x"))
	require.False(t, IsSessionName("session_"))
	require.False(t, IsSessionName("session20250101"))
}
