package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const logTimestampLayout = "2006-01-02 15:04:05"

type styler func(slog.Level) string

// lineHandler renders one human readable line per record:
//
//	2025-06-01 14:03:07 INFO  [rpihelmet2] session copied session=session_20250601 photos=412
//
// The whole line is built first and written with a single Write under a mutex
// shared by all clones, so concurrent board goroutines never interleave.
type lineHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	level  *slog.LevelVar
	label  styler
	attrs  []slog.Attr
	groups []string
}

func newLineHandler(w io.Writer, lvl *slog.LevelVar, label styler) *lineHandler {
	return &lineHandler{mu: &sync.Mutex{}, writer: w, level: lvl, label: label}
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *lineHandler) Handle(_ context.Context, record slog.Record) error {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	flattenAttrs(&kvs, h.groups, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, h.groups, attr)
		return true
	})

	var board string
	fields := kvs[:0]
	for _, kv := range kvs {
		if kv.key == FieldBoard {
			if board == "" {
				board = kv.value.String()
			}
			continue
		}
		fields = append(fields, kv)
	}

	var buf bytes.Buffer
	buf.Grow(128 + len(fields)*24)
	buf.WriteString(ts.In(time.Local).Format(logTimestampLayout))
	buf.WriteByte(' ')
	buf.WriteString(h.label(record.Level))
	buf.WriteByte(' ')
	if board != "" {
		buf.WriteByte('[')
		buf.WriteString(board)
		buf.WriteString("] ")
	}
	if msg := strings.TrimSpace(record.Message); msg != "" {
		buf.WriteString(msg)
	} else {
		buf.WriteString("(no message)")
	}
	for _, kv := range fields {
		if kv.key == "" {
			continue
		}
		buf.WriteByte(' ')
		buf.WriteString(kv.key)
		buf.WriteByte('=')
		buf.WriteString(formatValue(kv.value))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *lineHandler) clone() *lineHandler {
	return &lineHandler{
		mu:     h.mu,
		writer: h.writer,
		level:  h.level,
		label:  h.label,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

type kv struct {
	key   string
	value slog.Value
}

func flattenAttrs(dst *[]kv, prefix []string, attrs []slog.Attr) {
	for _, attr := range attrs {
		flattenAttr(dst, prefix, attr)
	}
}

func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = append(append([]string(nil), prefix...), attr.Key)
		}
		flattenAttrs(dst, next, attr.Value.Group())
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(append(append([]string(nil), prefix...), key), ".")
	}
	*dst = append(*dst, kv{key: key, value: attr.Value})
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			return strconv.Quote(s)
		}
		return s
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return strconv.Quote(err.Error())
		}
		return strconv.Quote(fmt.Sprint(v.Any()))
	default:
		return v.String()
	}
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN "
	case level >= slog.LevelInfo:
		return "INFO "
	default:
		return "DEBUG"
	}
}

func plainStyler(level slog.Level) string {
	return levelLabel(level)
}

var (
	errorLevelColor = lipgloss.Color("#E85D75")
	warnLevelColor  = lipgloss.Color("#F6AE2D")
	infoLevelColor  = lipgloss.Color("#85DCB0")
	debugLevelColor = lipgloss.Color("#6B7280")
)

// consoleStyler colours level labels when w is a terminal.
func consoleStyler(w io.Writer) styler {
	if !IsTerminal(w) {
		return plainStyler
	}
	renderer := lipgloss.NewRenderer(w)
	styles := map[string]lipgloss.Style{
		"ERROR": renderer.NewStyle().Bold(true).Foreground(errorLevelColor),
		"WARN ": renderer.NewStyle().Bold(true).Foreground(warnLevelColor),
		"INFO ": renderer.NewStyle().Foreground(infoLevelColor),
		"DEBUG": renderer.NewStyle().Foreground(debugLevelColor),
	}
	return func(level slog.Level) string {
		label := levelLabel(level)
		return styles[label].Render(label)
	}
}
