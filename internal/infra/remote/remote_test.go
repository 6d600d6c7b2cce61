package remote

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

type fakeCommander struct {
	calls  []call
	stdout string
	err    error
}

func (f *fakeCommander) Run(_ context.Context, name string, args ...string) (Result, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	return Result{Stdout: f.stdout}, f.err
}

func newSSH(runner Commander) SSH {
	return SSH{
		Runner:         runner,
		User:           "pi",
		Port:           2222,
		ConnectTimeout: 10 * time.Second,
		CommandTimeout: time.Minute,
	}
}

func TestProbe(t *testing.T) {
	ok := &fakeCommander{}
	require.True(t, Pinger{Runner: ok, Timeout: 3 * time.Second}.Probe(context.Background(), "rpihelmet1"))
	require.Equal(t, []string{"-c", "1", "-W", "3", "rpihelmet1"}, ok.calls[0].args)

	down := &fakeCommander{err: errors.New("exit status 1")}
	require.False(t, Pinger{Runner: down}.Probe(context.Background(), "rpihelmet1"))
}

func TestListDirsSortsBaseNames(t *testing.T) {
	runner := &fakeCommander{stdout: "/p/helmet-cam1/session_20250602\n/p/helmet-cam1/session_20250601\n\n"}
	names, err := newSSH(runner).ListDirs(context.Background(), "rpihelmet1", "/p/helmet-cam1", "session_*")
	require.NoError(t, err)
	require.Equal(t, []string{"session_20250601", "session_20250602"}, names)

	c := runner.calls[0]
	require.Equal(t, SSHBinary, c.name)
	require.Contains(t, c.args, "pi@rpihelmet1")
	require.Contains(t, c.args, "2222")
	require.True(t, strings.HasPrefix(c.args[len(c.args)-1], "find /p/helmet-cam1 -mindepth 1"))
	require.Contains(t, c.args[len(c.args)-1], "'session_*'")
}

func TestListDirsPropagatesFailure(t *testing.T) {
	runner := &fakeCommander{err: errors.New("exit status 1")}
	_, err := newSSH(runner).ListDirs(context.Background(), "h", "/missing", "session_*")
	require.Error(t, err)
}

func TestParseStats(t *testing.T) {
	st, err := parseStats("412 20480 1\n")
	require.NoError(t, err)
	require.Equal(t, Stats{Photos: 412, Bytes: 20480 * 1024, HasLog: true}, st)

	_, err = parseStats("garbage")
	require.Error(t, err)
}

func TestRemoveDirQuotesPath(t *testing.T) {
	runner := &fakeCommander{}
	require.NoError(t, newSSH(runner).RemoveDir(context.Background(), "h", "/p/helmet-cam1/session_x y"))
	script := runner.calls[0].args[len(runner.calls[0].args)-1]
	require.Equal(t, "rm -rf -- '/p/helmet-cam1/session_x y'", script)
}

func TestCopyDirArgs(t *testing.T) {
	runner := &fakeCommander{}
	require.NoError(t, newSSH(runner).CopyDir(context.Background(), "h", "/p/helmet-cam1/session_1", "/tmp/stage"))
	c := runner.calls[0]
	require.Equal(t, SCPBinary, c.name)
	require.Equal(t, []string{"-r", "-p", "-q", "-O"}, c.args[:4])
	require.Contains(t, c.args, "-P")
	require.Equal(t, "pi@h:/p/helmet-cam1/session_1", c.args[len(c.args)-2])
	require.Equal(t, "/tmp/stage", c.args[len(c.args)-1])
}

func TestCopyDirQuotesRemotePath(t *testing.T) {
	runner := &fakeCommander{}
	require.NoError(t, newSSH(runner).CopyDir(context.Background(), "h", "/p/my photos/session_1;rm -rf ~", "/tmp/stage"))
	c := runner.calls[0]
	require.Equal(t, `pi@h:'/p/my photos/session_1;rm -rf ~'`, c.args[len(c.args)-2])
}

func TestMirrorArgs(t *testing.T) {
	runner := &fakeCommander{}
	require.NoError(t, newSSH(runner).Mirror(context.Background(), "h", "/p/helmet-cam1", "/local/h/helmet-cam1"))
	c := runner.calls[0]
	require.Equal(t, RsyncBinary, c.name)
	require.Contains(t, c.args, "--partial")
	require.Contains(t, c.args, "--partial-dir="+PartialDir)
	require.Equal(t, "pi@h:/p/helmet-cam1/", c.args[len(c.args)-2])
	require.Equal(t, "/local/h/helmet-cam1/", c.args[len(c.args)-1])
}

func TestCommandErrorUsesLastStderrLine(t *testing.T) {
	err := &CommandError{
		Program: "ssh",
		Result:  Result{Stderr: "warning: foo\nssh: connect to host h port 22: No route to host\n"},
		Err:     errors.New("exit status 255"),
	}
	require.Equal(t, "ssh: exit status 255: ssh: connect to host h port 22: No route to host", err.Error())
}
