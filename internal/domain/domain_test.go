package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutcomeFor(t *testing.T) {
	cases := []struct {
		succeeded, total int
		want             Outcome
		exit             int
	}{
		{0, 0, FullSuccess, 0},
		{3, 3, FullSuccess, 0},
		{2, 3, PartialSuccess, 1},
		{0, 3, TotalFailure, 2},
	}
	for _, tc := range cases {
		got := OutcomeFor(tc.succeeded, tc.total)
		require.Equal(t, tc.want, got)
		require.Equal(t, tc.exit, got.ExitCode())
	}
}

func TestCameraIndexFromHostname(t *testing.T) {
	require.Equal(t, 3, CameraIndexFromHostname("rpihelmet3"))
	require.Equal(t, 12, CameraIndexFromHostname("rpihelmet12.local"))
	require.Equal(t, 1, CameraIndexFromHostname("spare"))
	require.Equal(t, 1, CameraIndexFromHostname("rpihelmet0"))
	require.Equal(t, "helmet-cam3", Board{CameraIndex: 3}.CameraDir())
}

func TestFilterBoards(t *testing.T) {
	all := []Board{{Hostname: "rpihelmet1"}, {Hostname: "rpihelmet2"}}
	require.Len(t, FilterBoards(all, ""), 2)
	require.Equal(t, []Board{{Hostname: "rpihelmet2"}}, FilterBoards(all, "rpihelmet2"))
	require.Empty(t, FilterBoards(all, "rpihelmet9"))
}

func TestIsPhotoName(t *testing.T) {
	require.True(t, IsPhotoName("cam1_20250101_100000_0.jpg"))
	require.False(t, IsPhotoName("cam1.JPG"))
	require.False(t, IsPhotoName(".jpg"))
	require.False(t, IsPhotoName("session_log.json"))
}

func TestDeletionTotalsReportUnknown(t *testing.T) {
	job := DeletionJob{Sessions: []Session{
		{PhotoCount: 10, Bytes: 2048},
		{PhotoCount: Unknown, Bytes: 1024},
	}}
	photos, bytes, partial := job.Totals()
	require.Equal(t, 10, photos)
	require.Equal(t, int64(3072), bytes)
	require.True(t, partial)
}

func TestReorgReportOutcome(t *testing.T) {
	ok := ReorgAction{}
	failed := ReorgAction{}
	failed.Fail(StepMovePhotos, nil)
	require.Equal(t, FullSuccess, ReorgReport{}.Outcome())
	require.Equal(t, PartialSuccess, ReorgReport{Actions: []ReorgAction{ok, failed}}.Outcome())
	require.Equal(t, TotalFailure, ReorgReport{Actions: []ReorgAction{failed}}.Outcome())
}

func TestParseSessionLog(t *testing.T) {
	log, err := ParseSessionLog([]byte(`{"camera":2,"start_time":"2025-06-01T14:00:00.123456","end_time":null,"photos":[{"index":0,"path":"/p/a.jpg","timestamp":"x"}],"failures":[]}`))
	require.NoError(t, err)
	require.Equal(t, 2, log.Camera)
	require.Len(t, log.Photos, 1)
	started, ok := log.Started()
	require.True(t, ok)
	require.Equal(t, 14, started.Hour())
	_, ok = log.Ended()
	require.False(t, ok)

	_, err = ParseSessionLog([]byte("{"))
	require.Error(t, err)
}
