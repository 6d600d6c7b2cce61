package app

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"camsync/internal/domain"
	"camsync/internal/infra/remote"
)

const remoteBase = "/home/pi/photos"

type fakeProber map[string]bool

func (f fakeProber) Probe(_ context.Context, host string) bool {
	return f[host]
}

// fakeRemote keeps one in-memory tree per host. Keys of files are absolute
// remote paths.
type fakeRemote struct {
	mu        sync.Mutex
	files     map[string]map[string]string
	listErr   map[string]error
	copyErr   map[string]error
	removeErr map[string]error
	calls     []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		files:     map[string]map[string]string{},
		listErr:   map[string]error{},
		copyErr:   map[string]error{},
		removeErr: map[string]error{},
	}
}

func (f *fakeRemote) put(host, file, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.files[host] == nil {
		f.files[host] = map[string]string{}
	}
	f.files[host][file] = content
}

func (f *fakeRemote) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeRemote) callsWithPrefix(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeRemote) ListDirs(_ context.Context, host, dir, glob string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list " + host + " " + dir)
	if err := f.listErr[host]; err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for file := range f.files[host] {
		rel, ok := strings.CutPrefix(file, dir+"/")
		if !ok {
			continue
		}
		first, _, nested := strings.Cut(rel, "/")
		if !nested {
			continue
		}
		if ok, _ := path.Match(glob, first); ok {
			seen[first] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeRemote) DirStats(_ context.Context, host, dir, photoGlob, logName string) (remote.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stats remote.Stats
	for file, content := range f.files[host] {
		if path.Dir(file) != dir {
			continue
		}
		stats.Bytes += int64(len(content))
		if ok, _ := path.Match(photoGlob, path.Base(file)); ok {
			stats.Photos++
		}
		if path.Base(file) == logName {
			stats.HasLog = true
		}
	}
	return stats, nil
}

func (f *fakeRemote) RemoveDir(_ context.Context, host, dir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("remove " + host + " " + dir)
	if err := f.removeErr[dir]; err != nil {
		return err
	}
	for file := range f.files[host] {
		if strings.HasPrefix(file, dir+"/") {
			delete(f.files[host], file)
		}
	}
	return nil
}

// CopyDir behaves like scp -r: remoteDir lands as localParent/<base>.
func (f *fakeRemote) CopyDir(_ context.Context, host, remoteDir, localParent string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("copy " + host + " " + remoteDir)
	if err := f.copyErr[remoteDir]; err != nil {
		return err
	}
	return f.writeTree(host, remoteDir, filepath.Join(localParent, path.Base(remoteDir)))
}

func (f *fakeRemote) Mirror(_ context.Context, host, remoteDir, localDir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("mirror " + host + " " + remoteDir + " " + localDir)
	return f.writeTree(host, remoteDir, localDir)
}

func (f *fakeRemote) writeTree(host, remoteDir, localDir string) error {
	found := false
	for file, content := range f.files[host] {
		rel, ok := strings.CutPrefix(file, remoteDir+"/")
		if !ok {
			continue
		}
		found = true
		target := filepath.Join(localDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			return err
		}
	}
	if !found {
		return errors.New("No such file or directory")
	}
	return nil
}

type scriptedPrompter struct {
	answers []string
	asked   []string
}

func (p *scriptedPrompter) Ask(_ context.Context, prompt string) (string, error) {
	p.asked = append(p.asked, prompt)
	if len(p.answers) == 0 {
		return "", errors.New("no input")
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

type fixedExif map[string]time.Time

func (f fixedExif) CaptureTime(_ context.Context, path string) (time.Time, bool, error) {
	if ts, ok := f[path]; ok {
		return ts, true, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false, err
	}
	return info.ModTime(), false, nil
}

func board(n int) domain.Board {
	return domain.Board{Hostname: "rpihelmet" + string(rune('0'+n)), CameraIndex: n}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// snapshot maps every file below root to its content.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		if d.IsDir() {
			out[rel+"/"] = ""
			return nil
		}
		out[rel] = readFile(t, p)
		return nil
	})
	require.NoError(t, err)
	return out
}
