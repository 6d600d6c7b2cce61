package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"camsync/internal/domain"
	apperrors "camsync/internal/errors"
	osfs "camsync/internal/infra/fs"
)

const sampleLog = `{
  "camera": 1,
  "start_time": "2025-01-01T10:00:00.000001",
  "end_time": "2025-01-01T10:05:00.000001",
  "photos": [
    {"index": 0, "path": "a.jpg", "timestamp": "2025-01-01T10:00:01"},
    {"index": 1, "path": "b.jpg", "timestamp": "2025-01-01T10:00:02"}
  ],
  "failures": [
    {"index": 2, "reason": "capture_failed", "timestamp": "2025-01-01T10:00:03"}
  ]
}`

func TestCatalogLocalSummaries(t *testing.T) {
	base := t.TempDir()
	b := board(1)
	root := filepath.Join(base, b.Hostname, b.CameraDir())
	a := filepath.Join(root, "session_20250101", "a.jpg")
	bb := filepath.Join(root, "session_20250101", "b.jpg")
	writeFile(t, a, "aaaa")
	writeFile(t, bb, "bb")
	writeFile(t, filepath.Join(root, "session_20250101", "session_log.json"), sampleLog)
	writeFile(t, filepath.Join(root, "session_20250101", "thumb.png"), "x")
	writeFile(t, filepath.Join(root, "session_20250102_08", "c.jpg"), "c")
	writeFile(t, filepath.Join(root, "scratch", "d.jpg"), "d")

	first := time.Date(2025, 1, 1, 10, 0, 1, 0, time.Local)
	last := time.Date(2025, 1, 1, 10, 0, 2, 0, time.Local)
	var progress []int
	c := &Catalog{
		FS:          osfs.OSFS{},
		Exif:        fixedExif{a: first, bb: last},
		ExifWorkers: 2,
		LocalBase:   base,
		OnProgress:  func(current, _ int) { progress = append(progress, current) },
	}

	summaries, err := c.Local(context.Background(), b)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	s := summaries[0]
	require.Equal(t, "session_20250101", s.Session.Name)
	require.True(t, s.Session.Canonical())
	require.Equal(t, 2, s.Session.PhotoCount)
	require.True(t, s.Session.HasLog)
	require.Equal(t, 2, s.LogPhotos)
	require.Equal(t, 1, s.LogFailures)
	require.True(t, s.First.Equal(first))
	require.True(t, s.Last.Equal(last))
	require.Zero(t, s.Fallbacks)

	other := summaries[1]
	require.False(t, other.Session.Canonical())
	require.Equal(t, "20250102", other.Session.DateKey)
	require.Equal(t, domain.Unknown, other.LogPhotos)
	require.Equal(t, 1, other.Fallbacks)
	require.Len(t, progress, 3)
}

func TestCatalogLocalMissingBoard(t *testing.T) {
	c := &Catalog{FS: osfs.OSFS{}, LocalBase: t.TempDir()}
	summaries, err := c.Local(context.Background(), board(3))
	require.NoError(t, err)
	require.Empty(t, summaries)
}

func TestCatalogRemote(t *testing.T) {
	b := board(1)
	rem := newFakeRemote()
	seedSessions(rem, b, "session_20250101")
	c := &Catalog{
		Prober:     fakeProber{b.Hostname: true},
		Enumerator: &Enumerator{Remote: rem, BaseDir: remoteBase},
	}

	summaries, err := c.Remote(context.Background(), b)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, 2, summaries[0].Session.PhotoCount)
	require.Equal(t, "-", summaries[0].CaptureRange())

	_, err = c.Remote(context.Background(), board(2))
	require.True(t, apperrors.Is(err, apperrors.Connectivity))
}

func TestEnumeratorWrapsListingFailure(t *testing.T) {
	b := board(1)
	rem := newFakeRemote()
	rem.listErr[b.Hostname] = context.DeadlineExceeded
	e := &Enumerator{Remote: rem, BaseDir: remoteBase}

	_, err := e.List(context.Background(), b)
	require.True(t, apperrors.Is(err, apperrors.Enumeration))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.False(t, apperrors.Fatal(err))
}
