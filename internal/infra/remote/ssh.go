package remote

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alessio/shellescape"
)

const (
	SSHBinary   = "ssh"
	SCPBinary   = "scp"
	RsyncBinary = "rsync"

	// PartialDir is where rsync keeps interrupted files between runs.
	PartialDir = ".camsync-partial"
)

// SSH talks to boards through the OpenSSH client tools.
type SSH struct {
	Runner         Commander
	User           string
	Port           int
	IdentityFile   string
	ConnectTimeout time.Duration
	CommandTimeout time.Duration
	CopyTimeout    time.Duration
	Options        []string
}

// Stats is the best-effort size of a remote session directory.
type Stats struct {
	Photos int
	Bytes  int64
	HasLog bool
}

func (s SSH) target(host string) string {
	if s.User == "" {
		return host
	}
	return s.User + "@" + host
}

func (s SSH) commonOptions() []string {
	opts := []string{"-o", "BatchMode=yes"}
	if s.ConnectTimeout > 0 {
		opts = append(opts, "-o", fmt.Sprintf("ConnectTimeout=%d", int(s.ConnectTimeout/time.Second)))
	}
	if s.IdentityFile != "" {
		opts = append(opts, "-i", s.IdentityFile)
	}
	for _, o := range s.Options {
		opts = append(opts, "-o", o)
	}
	return opts
}

func (s SSH) sshArgs() []string {
	args := s.commonOptions()
	if s.Port > 0 {
		args = append(args, "-p", strconv.Itoa(s.Port))
	}
	return args
}

// Exec runs a shell script on host.
func (s SSH) Exec(ctx context.Context, host, script string) (Result, error) {
	if s.CommandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.CommandTimeout)
		defer cancel()
	}
	args := append(s.sshArgs(), s.target(host), script)
	return s.Runner.Run(ctx, SSHBinary, args...)
}

// ListDirs returns the names of first-level directories of dir matching
// glob, sorted.
func (s SSH) ListDirs(ctx context.Context, host, dir, glob string) ([]string, error) {
	script := fmt.Sprintf("find %s -mindepth 1 -maxdepth 1 -type d -name %s",
		shellescape.Quote(dir), shellescape.Quote(glob))
	res, err := s.Exec(ctx, host, script)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		names = append(names, path.Base(line))
	}
	sort.Strings(names)
	return names, nil
}

// DirStats counts the photos and disk usage of a session directory.
func (s SSH) DirStats(ctx context.Context, host, dir, photoGlob, logName string) (Stats, error) {
	d := shellescape.Quote(dir)
	script := fmt.Sprintf(
		`test -d %[1]s || exit 3; n=$(find %[1]s -maxdepth 1 -type f -name %[2]s | wc -l); k=$(du -sk %[1]s | cut -f1); l=0; test -f %[3]s && l=1; echo "$n $k $l"`,
		d, shellescape.Quote(photoGlob), shellescape.Quote(path.Join(dir, logName)))
	res, err := s.Exec(ctx, host, script)
	if err != nil {
		return Stats{}, err
	}
	return parseStats(res.Stdout)
}

func parseStats(out string) (Stats, error) {
	fields := strings.Fields(out)
	if len(fields) != 3 {
		return Stats{}, fmt.Errorf("unexpected stats output %q", strings.TrimSpace(out))
	}
	photos, err := strconv.Atoi(fields[0])
	if err != nil {
		return Stats{}, fmt.Errorf("photo count: %w", err)
	}
	kib, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Stats{}, fmt.Errorf("disk usage: %w", err)
	}
	return Stats{Photos: photos, Bytes: kib * 1024, HasLog: fields[2] == "1"}, nil
}

// RemoveDir deletes dir and everything below it on host.
func (s SSH) RemoveDir(ctx context.Context, host, dir string) error {
	_, err := s.Exec(ctx, host, "rm -rf -- "+shellescape.Quote(dir))
	return err
}

// CopyDir pulls remoteDir into localParent with scp, preserving times.
// The result is localParent/<base of remoteDir>. The legacy protocol (-O) is
// forced so the remote shell always expands the path, which is quoted.
func (s SSH) CopyDir(ctx context.Context, host, remoteDir, localParent string) error {
	if s.CopyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.CopyTimeout)
		defer cancel()
	}
	args := []string{"-r", "-p", "-q", "-O"}
	args = append(args, s.commonOptions()...)
	if s.Port > 0 {
		args = append(args, "-P", strconv.Itoa(s.Port))
	}
	args = append(args, s.target(host)+":"+shellescape.Quote(remoteDir), localParent)
	_, err := s.Runner.Run(ctx, SCPBinary, args...)
	return err
}

// Mirror brings localDir up to date with remoteDir using rsync. Interrupted
// files are kept in PartialDir and resumed on the next run.
func (s SSH) Mirror(ctx context.Context, host, remoteDir, localDir string) error {
	if s.CopyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.CopyTimeout)
		defer cancel()
	}
	shell := shellescape.QuoteCommand(append([]string{SSHBinary}, s.sshArgs()...))
	args := []string{
		"-a",
		"--partial",
		"--partial-dir=" + PartialDir,
		"-e", shell,
	}
	if s.CommandTimeout > 0 {
		args = append(args, "--timeout="+strconv.Itoa(int(s.CommandTimeout/time.Second)))
	}
	args = append(args,
		s.target(host)+":"+strings.TrimRight(remoteDir, "/")+"/",
		strings.TrimRight(localDir, "/")+"/",
	)
	_, err := s.Runner.Run(ctx, RsyncBinary, args...)
	return err
}
