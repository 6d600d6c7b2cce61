// Package logging builds the slog logger of one camsync invocation: a
// coloured console stream and a plain per-run log file carrying the same
// timestamped, leveled lines.
package logging
