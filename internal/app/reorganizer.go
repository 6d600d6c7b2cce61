package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"camsync/internal/domain"
	apperrors "camsync/internal/errors"
	"camsync/internal/logging"
)

// Reorganizer repairs the local session layout of each board so that every
// date has exactly one session_<YYYYMMDD> directory.
type Reorganizer struct {
	FS        FileSystem
	LocalBase string
	Now       func() time.Time
	// DateKey, when set, limits both passes to directories resolving to
	// that YYYYMMDD date.
	DateKey string
	Logger  *slog.Logger
}

func (r *Reorganizer) CameraRoot(board domain.Board) string {
	return filepath.Join(r.LocalBase, board.Hostname, board.CameraDir())
}

// Run reorganizes the boards one after another.
func (r *Reorganizer) Run(ctx context.Context, boards []domain.Board, mode domain.ExecutionMode) domain.ReorgReport {
	report := domain.ReorgReport{Mode: mode}
	stop := logging.Measure(r.logger(), "reorganize")
	defer stop()
	for i, board := range boards {
		if err := ctx.Err(); err != nil {
			r.logger().Warn("reorganization interrupted", logging.Error(err), logging.Int("remaining", len(boards)-i))
			for _, skipped := range boards[i:] {
				root := r.CameraRoot(skipped)
				action := domain.ReorgAction{Board: skipped, Source: root}
				action.Fail(domain.StepDetect, apperrors.Wrap(apperrors.Reorg, "reorganize", root, err))
				report.Actions = append(report.Actions, action)
			}
			break
		}
		report.Actions = append(report.Actions, r.Board(ctx, board, mode)...)
	}
	return report
}

// Board plans and applies both passes for one board. Pass 1 renames every
// non-canonical session_* directory into its canonical date. Pass 2 then
// folds other dated session directories into the canonical one for dates
// that still have more than one directory. Pass 2 always plans against the
// layout pass 1 produced, which in dry-run mode exists only in memory.
func (r *Reorganizer) Board(ctx context.Context, board domain.Board, mode domain.ExecutionMode) []domain.ReorgAction {
	root := r.CameraRoot(board)
	log := logging.ForBoard(r.logger(), board.Hostname)

	l, err := scanLayout(r.FS, root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info("no local camera directory", logging.String("path", root))
			return nil
		}
		action := domain.ReorgAction{Board: board, Source: root}
		action.Fail(domain.StepDetect, apperrors.Wrap(apperrors.Reorg, "scan", root, err))
		log.Error("cannot scan camera directory", logging.Error(err))
		return []domain.ReorgAction{action}
	}

	var actions []domain.ReorgAction
	normalized := map[string]bool{}
	for _, name := range l.names() {
		if !domain.IsSessionName(name) || domain.IsCanonicalName(name) {
			continue
		}
		key, from := domain.DateKey(name, r.now())
		if r.DateKey != "" && key != r.DateKey {
			continue
		}
		if from == domain.DateFromClock {
			log.Warn("no date in session name, using today", logging.String(logging.FieldSession, name), logging.String("date", key))
		}
		normalized[name] = true
		actions = append(actions, r.fold(ctx, l, board, domain.PassNormalize, name, key, from, mode, log))
	}

	groups := map[string][]string{}
	for _, name := range l.names() {
		if normalized[name] || !strings.HasPrefix(strings.ToLower(name), "session") {
			continue
		}
		key, ok := domain.EmbeddedDateKey(name)
		if !ok {
			continue
		}
		groups[key] = append(groups[key], name)
	}
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		members := groups[key]
		if len(members) < 2 || (r.DateKey != "" && key != r.DateKey) {
			continue
		}
		for _, name := range members {
			if name == domain.CanonicalName(key) {
				continue
			}
			actions = append(actions, r.fold(ctx, l, board, domain.PassConsolidate, name, key, domain.DateFromEmbedded, mode, log))
		}
	}
	return actions
}

// fold moves the photos and log of source into the canonical directory for
// key, then removes source if nothing is left in it.
func (r *Reorganizer) fold(ctx context.Context, l *layout, board domain.Board, pass domain.ReorgPass, source, key string, from domain.DateKeySource, mode domain.ExecutionMode, log *slog.Logger) domain.ReorgAction {
	target := domain.CanonicalName(key)
	action := domain.ReorgAction{
		Board:   board,
		Pass:    pass,
		Source:  source,
		Target:  target,
		DateKey: key,
		KeyFrom: from,
	}
	log = log.With(logging.String(logging.FieldSession, source), logging.String("target", target))

	hasLog := false
	for _, name := range l.files(source) {
		if l.dirs[source][name].isDir {
			continue
		}
		switch {
		case name == domain.SessionLogName:
			hasLog = true
			action.Log = filepath.Join(l.root, source, name)
		case domain.IsPhotoName(name):
			action.Photos = append(action.Photos, name)
		}
	}
	action.Complete(domain.StepDetect)

	if err := ctx.Err(); err != nil {
		action.Fail(domain.StepPlanTarget, apperrors.Wrap(apperrors.Reorg, "plan target", target, err))
		return action
	}
	_, action.TargetExisted = l.dirs[target]
	if !action.TargetExisted {
		if mode.Mutates() {
			if err := r.FS.MkdirAll(filepath.Join(l.root, target), 0o755); err != nil {
				action.Fail(domain.StepPlanTarget, apperrors.Wrap(apperrors.Reorg, "create target", filepath.Join(l.root, target), err))
				log.Error("cannot create target", logging.Error(err))
				return action
			}
		}
		l.dirs[target] = map[string]entry{}
	}
	action.Complete(domain.StepPlanTarget)

	photosOK := true
	for _, name := range action.Photos {
		placed, err := r.place(l, source, target, name, mode)
		if err != nil {
			photosOK = false
			action.Fail(domain.StepMovePhotos, apperrors.Wrap(apperrors.Reorg, "move photo", filepath.Join(l.root, source, name), err))
			log.Error("photo move failed", logging.String("photo", name), logging.Error(err))
			continue
		}
		switch {
		case placed.duplicate:
			action.Duplicates++
		case placed.name != name:
			action.Renamed++
			action.Moved++
			log.Info("photo renamed on collision", logging.String("photo", name), logging.String("as", placed.name))
		default:
			action.Moved++
		}
	}
	if photosOK {
		action.Complete(domain.StepMovePhotos)
	}

	if hasLog {
		placed, err := r.place(l, source, target, domain.SessionLogName, mode)
		if err != nil {
			action.Fail(domain.StepMoveLog, apperrors.Wrap(apperrors.Reorg, "move log", action.Log, err))
			log.Error("log move failed", logging.Error(err))
		} else {
			action.LogTarget = filepath.Join(l.root, target, placed.name)
			action.Complete(domain.StepMoveLog)
		}
	} else {
		action.Complete(domain.StepMoveLog)
	}

	if action.Failed() {
		log.Error("action failed, source left in place", logging.Int("failures", len(action.Failures)))
		return action
	}

	if leftovers := l.files(source); len(leftovers) > 0 {
		action.Leftovers = leftovers
		action.Complete(domain.StepRemoveSource)
		log.Warn("source not empty, left in place", logging.String("leftovers", strings.Join(leftovers, ",")))
		return action
	}
	if mode.Mutates() {
		if err := r.FS.Remove(filepath.Join(l.root, source)); err != nil {
			action.Fail(domain.StepRemoveSource, apperrors.Wrap(apperrors.Reorg, "remove source", filepath.Join(l.root, source), err))
			log.Error("cannot remove source", logging.Error(err))
			return action
		}
	}
	delete(l.dirs, source)
	action.SourceRemoved = true
	action.Complete(domain.StepRemoveSource)

	verb := "folded"
	if !mode.Mutates() {
		verb = "would fold"
	}
	log.Info("session "+verb,
		logging.String("pass", pass.String()),
		logging.Int("moved", action.Moved),
		logging.Int("duplicates", action.Duplicates),
		logging.Int("renamed", action.Renamed))
	return action
}

type placement struct {
	name      string
	duplicate bool
}

// place moves one file from srcDir to dstDir. When the name is taken, a file
// with identical content means the source copy is redundant and is dropped;
// otherwise the incoming file gets the next free conflict name.
func (r *Reorganizer) place(l *layout, srcDir, dstDir, name string, mode domain.ExecutionMode) (placement, error) {
	src := l.dirs[srcDir][name]
	candidate := name
	for attempt := 1; ; attempt++ {
		existing, taken := l.dirs[dstDir][candidate]
		if !taken {
			break
		}
		if !existing.isDir {
			same, err := r.FS.SameContent(src.path, existing.path)
			if err != nil {
				return placement{}, err
			}
			if same {
				if mode.Mutates() {
					if err := r.FS.Remove(src.path); err != nil {
						return placement{}, err
					}
				}
				delete(l.dirs[srcDir], name)
				return placement{name: candidate, duplicate: true}, nil
			}
		}
		candidate = conflictName(name, srcDir, attempt)
	}

	dst := entry{path: src.path}
	if mode.Mutates() {
		dst.path = filepath.Join(l.root, dstDir, candidate)
		if err := r.FS.MoveFile(src.path, dst.path); err != nil {
			return placement{}, err
		}
	}
	delete(l.dirs[srcDir], name)
	l.dirs[dstDir][candidate] = dst
	return placement{name: candidate}, nil
}

// conflictName is <stem>_<source><ext>, then <stem>_<source>_2<ext> and so on.
func conflictName(name, source string, attempt int) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if attempt == 1 {
		return fmt.Sprintf("%s_%s%s", stem, source, ext)
	}
	return fmt.Sprintf("%s_%s_%d%s", stem, source, attempt, ext)
}

func (r *Reorganizer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Reorganizer) logger() *slog.Logger {
	if r.Logger == nil {
		return logging.NewNop()
	}
	return r.Logger
}

type entry struct {
	// path is where the content currently lives on disk. In dry-run mode
	// that stays the original location.
	path  string
	isDir bool
}

// layout is the reorganizer's view of one camera directory: session-like
// directories and their direct entries.
type layout struct {
	root string
	dirs map[string]map[string]entry
}

func scanLayout(fsys FileSystem, root string) (*layout, error) {
	top, err := fsys.ReadDir(root)
	if err != nil {
		return nil, err
	}
	l := &layout{root: root, dirs: map[string]map[string]entry{}}
	for _, d := range top {
		if !d.IsDir() || !strings.HasPrefix(strings.ToLower(d.Name()), "session") {
			continue
		}
		children, err := fsys.ReadDir(filepath.Join(root, d.Name()))
		if err != nil {
			return nil, err
		}
		files := make(map[string]entry, len(children))
		for _, c := range children {
			files[c.Name()] = entry{path: filepath.Join(root, d.Name(), c.Name()), isDir: c.IsDir()}
		}
		l.dirs[d.Name()] = files
	}
	return l, nil
}

func (l *layout) names() []string {
	out := make([]string, 0, len(l.dirs))
	for name := range l.dirs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (l *layout) files(dir string) []string {
	out := make([]string, 0, len(l.dirs[dir]))
	for name := range l.dirs[dir] {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
