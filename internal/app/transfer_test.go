package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"camsync/internal/domain"
	apperrors "camsync/internal/errors"
	osfs "camsync/internal/infra/fs"
)

func newTransferrer(t *testing.T, rem *fakeRemote, reachable ...string) *Transferrer {
	t.Helper()
	prober := fakeProber{}
	for _, host := range reachable {
		prober[host] = true
	}
	tr := &Transferrer{
		FS:         osfs.OSFS{},
		Remote:     rem,
		Prober:     prober,
		Enumerator: &Enumerator{Remote: rem, BaseDir: remoteBase},
		LocalBase:  t.TempDir(),
	}
	require.NoError(t, tr.Prepare())
	t.Cleanup(func() { _ = tr.Cleanup() })
	return tr
}

func TestTransferCopiesSessionsAndIsIdempotent(t *testing.T) {
	b := board(1)
	rem := newFakeRemote()
	rem.put(b.Hostname, remoteBase+"/helmet-cam1/session_20250101/cam1_20250101_100000_0.jpg", "a")
	rem.put(b.Hostname, remoteBase+"/helmet-cam1/session_20250101/cam1_20250101_100001_1.jpg", "b")
	rem.put(b.Hostname, remoteBase+"/helmet-cam1/session_20250101/session_log.json", "{}")
	rem.put(b.Hostname, remoteBase+"/helmet-cam1/session_20250102/cam1_20250102_100000_0.jpg", "c")
	tr := newTransferrer(t, rem, b.Hostname)

	job := tr.Transfer(context.Background(), b, domain.Execute)
	require.Equal(t, domain.Succeeded, job.Outcome, "%v", job.Err)
	require.Equal(t, domain.StrategySessions, job.Strategy)
	require.Equal(t, 3, job.Copied)
	require.Len(t, job.Sessions, 2)
	require.Zero(t, job.SkippedSessions())

	local := filepath.Join(tr.LocalBase, b.Hostname, "helmet-cam1")
	require.Equal(t, "a", readFile(t, filepath.Join(local, "session_20250101", "cam1_20250101_100000_0.jpg")))
	require.Equal(t, "{}", readFile(t, filepath.Join(local, "session_20250101", "session_log.json")))
	require.Equal(t, "c", readFile(t, filepath.Join(local, "session_20250102", "cam1_20250102_100000_0.jpg")))
	require.Len(t, rem.callsWithPrefix("copy "), 2)

	again := tr.Transfer(context.Background(), b, domain.Execute)
	require.Equal(t, domain.Succeeded, again.Outcome)
	require.Equal(t, 2, again.SkippedSessions())
	require.Zero(t, again.Copied)
	require.Len(t, rem.callsWithPrefix("copy "), 2, "second run must not copy again")
}

func TestTransferFailedSessionLeavesNoDestination(t *testing.T) {
	b := board(2)
	rem := newFakeRemote()
	rem.put(b.Hostname, remoteBase+"/helmet-cam2/session_20250101/a.jpg", "a")
	rem.put(b.Hostname, remoteBase+"/helmet-cam2/session_20250102/b.jpg", "b")
	rem.copyErr[remoteBase+"/helmet-cam2/session_20250101"] = errors.New("connection reset")
	tr := newTransferrer(t, rem, b.Hostname)

	job := tr.Transfer(context.Background(), b, domain.Execute)
	require.Equal(t, domain.Failed, job.Outcome)
	require.True(t, apperrors.Is(job.Err, apperrors.Transfer))
	require.Equal(t, 1, job.FailedSessions())
	require.Equal(t, 1, job.Copied)

	local := filepath.Join(tr.LocalBase, b.Hostname, "helmet-cam2")
	require.NoDirExists(t, filepath.Join(local, "session_20250101"))
	require.FileExists(t, filepath.Join(local, "session_20250102", "b.jpg"))
}

func TestTransferSkipsOnlyMateriallyPresentSessions(t *testing.T) {
	b := board(1)
	rem := newFakeRemote()
	rem.put(b.Hostname, remoteBase+"/helmet-cam1/session_20250101/a.jpg", "remote")
	rem.put(b.Hostname, remoteBase+"/helmet-cam1/session_20250101/b.jpg", "remote-b")
	tr := newTransferrer(t, rem, b.Hostname)

	// A directory holding only a log is not present; its file is kept.
	dest := filepath.Join(tr.LocalBase, b.Hostname, "helmet-cam1", "session_20250101")
	writeFile(t, filepath.Join(dest, "session_log.json"), "local log")

	job := tr.Transfer(context.Background(), b, domain.Execute)
	require.Equal(t, domain.Succeeded, job.Outcome)
	require.Zero(t, job.SkippedSessions())
	require.Equal(t, 2, job.Copied)
	require.Equal(t, "local log", readFile(t, filepath.Join(dest, "session_log.json")))
}

func TestTransferFallsBackToWholeDirectory(t *testing.T) {
	b := board(3)
	rem := newFakeRemote()
	rem.put(b.Hostname, remoteBase+"/helmet-cam3/session_20250101/a.jpg", "remote-a")
	rem.put(b.Hostname, remoteBase+"/helmet-cam3/session_20250101/b.jpg", "remote-b")
	rem.listErr[b.Hostname] = errors.New("find: permission denied")
	tr := newTransferrer(t, rem, b.Hostname)

	local := filepath.Join(tr.LocalBase, b.Hostname, "helmet-cam3")
	writeFile(t, filepath.Join(local, "session_20250101", "a.jpg"), "local-a")

	job := tr.Transfer(context.Background(), b, domain.Execute)
	require.Equal(t, domain.Succeeded, job.Outcome, "%v", job.Err)
	require.Equal(t, domain.StrategyFallback, job.Strategy)
	require.Equal(t, 1, job.Copied)
	require.Equal(t, "local-a", readFile(t, filepath.Join(local, "session_20250101", "a.jpg")))
	require.Equal(t, "remote-b", readFile(t, filepath.Join(local, "session_20250101", "b.jpg")))
	require.Equal(t, []string{"copy " + b.Hostname + " " + remoteBase + "/helmet-cam3"}, rem.callsWithPrefix("copy "))
}

func TestTransferFallbackFailureCleansCreatedDestination(t *testing.T) {
	b := board(3)
	rem := newFakeRemote()
	tr := newTransferrer(t, rem, b.Hostname)

	job := tr.Transfer(context.Background(), b, domain.Execute)
	require.Equal(t, domain.Failed, job.Outcome)
	require.Equal(t, domain.StrategyFallback, job.Strategy)
	require.NoDirExists(t, job.LocalDir)
}

func TestTransferUnreachableBoard(t *testing.T) {
	b := board(4)
	rem := newFakeRemote()
	tr := newTransferrer(t, rem)

	job := tr.Transfer(context.Background(), b, domain.Execute)
	require.Equal(t, domain.Failed, job.Outcome)
	require.False(t, job.Board.Reachable)
	require.True(t, apperrors.Is(job.Err, apperrors.Connectivity))
	require.Empty(t, rem.calls)
}

func TestTransferDryRunCopiesNothing(t *testing.T) {
	b := board(1)
	rem := newFakeRemote()
	rem.put(b.Hostname, remoteBase+"/helmet-cam1/session_20250101/a.jpg", "a")
	tr := newTransferrer(t, rem, b.Hostname)

	job := tr.Transfer(context.Background(), b, domain.DryRun)
	require.Equal(t, domain.Succeeded, job.Outcome)
	require.Empty(t, rem.callsWithPrefix("copy "))
	_, err := os.Stat(filepath.Join(tr.LocalBase, b.Hostname))
	require.True(t, os.IsNotExist(err))
}

func TestTransferDeltaMirrorsCameraDirectory(t *testing.T) {
	b := board(1)
	rem := newFakeRemote()
	rem.put(b.Hostname, remoteBase+"/helmet-cam1/session_20250101/a.jpg", "a")
	tr := newTransferrer(t, rem, b.Hostname)
	tr.Delta = true

	job := tr.Transfer(context.Background(), b, domain.Execute)
	require.Equal(t, domain.Succeeded, job.Outcome)
	require.Equal(t, domain.StrategyDelta, job.Strategy)
	require.Equal(t, []string{"mirror " + b.Hostname + " " + remoteBase + "/helmet-cam1 " + job.LocalDir}, rem.callsWithPrefix("mirror "))
	require.FileExists(t, filepath.Join(job.LocalDir, "session_20250101", "a.jpg"))
	require.Empty(t, rem.callsWithPrefix("list "))
}

func TestCleanupRemovesScratch(t *testing.T) {
	tr := &Transferrer{FS: osfs.OSFS{}, LocalBase: t.TempDir()}
	require.NoError(t, tr.Prepare())
	scratch := tr.scratch
	require.DirExists(t, scratch)
	require.NoError(t, tr.Cleanup())
	require.NoDirExists(t, scratch)
}

func TestTransferDateKeyCopiesOnlyThatDate(t *testing.T) {
	b := board(1)
	rem := newFakeRemote()
	rem.put(b.Hostname, remoteBase+"/helmet-cam1/session_20250101/a.jpg", "a")
	rem.put(b.Hostname, remoteBase+"/helmet-cam1/session_20250102_14/b.jpg", "b")
	tr := newTransferrer(t, rem, b.Hostname)
	tr.DateKey = "20250102"

	job := tr.Transfer(context.Background(), b, domain.Execute)
	require.Equal(t, domain.Succeeded, job.Outcome, "%v", job.Err)
	require.Len(t, job.Sessions, 1)
	require.Equal(t, 1, job.Copied)
	require.FileExists(t, filepath.Join(job.LocalDir, "session_20250102_14", "b.jpg"))
	require.NoDirExists(t, filepath.Join(job.LocalDir, "session_20250101"))
	copies := len(rem.callsWithPrefix("copy "))

	tr.DateKey = "20250105"
	job = tr.Transfer(context.Background(), b, domain.Execute)
	require.Equal(t, domain.Succeeded, job.Outcome)
	require.Empty(t, job.Sessions)
	require.Len(t, rem.callsWithPrefix("copy "), copies, "no session on the date and no whole-directory fallback")
}
