package presentation

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"camsync/internal/domain"
	apperrors "camsync/internal/errors"
	"camsync/internal/preflight"
)

type Printer struct {
	Writer  io.Writer
	Verbose bool
}

func (p Printer) PrintTransfer(report domain.TransferReport) {
	rows := make([][]string, 0, len(report.Jobs))
	photos := 0
	for _, job := range report.Jobs {
		photos += job.Copied
		rows = append(rows, []string{
			job.Board.Hostname,
			job.Board.CameraDir(),
			strategyLabel(job.Strategy),
			strconv.Itoa(len(job.Sessions)),
			strconv.Itoa(job.SkippedSessions()),
			strconv.Itoa(job.Copied),
			outcomeLabel(job.Outcome, job.Err),
		})
	}
	fmt.Fprintln(p.Writer, renderTable(
		[]string{"Board", "Camera", "Strategy", "Sessions", "Skipped", "Photos", "Result"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))
	if !report.Mode.Mutates() {
		fmt.Fprintln(p.Writer, "Dry run: nothing was copied.")
	}
	fmt.Fprintf(p.Writer, "Transferred %d photos; %d of %d boards succeeded.\n",
		photos, report.Succeeded(), len(report.Jobs))
	p.printErrors(transferErrors(report))
}

func (p Printer) PrintDeletionPlan(jobs []domain.DeletionJob, dateKey string) {
	rows := make([][]string, 0, len(jobs))
	var sessions, photos int
	var bytes int64
	partial := false
	for _, job := range jobs {
		if job.Err != nil {
			rows = append(rows, []string{job.Board.Hostname, "-", "-", "-", apperrors.UserMessage(job.Err)})
			continue
		}
		n, size, unknown := job.Totals()
		sessions += len(job.Sessions)
		photos += n
		bytes += size
		partial = partial || unknown
		rows = append(rows, []string{
			job.Board.Hostname,
			strconv.Itoa(len(job.Sessions)),
			approx(strconv.Itoa(n), unknown),
			approx(humanize.IBytes(uint64(size)), unknown),
			sessionNames(job.Sessions),
		})
	}
	scope := "all sessions"
	if dateKey != "" {
		scope = "sessions dated " + dateKey
	}
	fmt.Fprintf(p.Writer, "Deletion plan (%s):\n", scope)
	fmt.Fprintln(p.Writer, renderTable(
		[]string{"Board", "Sessions", "Photos", "Size", "Names"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))
	fmt.Fprintf(p.Writer, "Matched %d sessions with %s photos (%s).\n",
		sessions, approx(strconv.Itoa(photos), partial), approx(humanize.IBytes(uint64(bytes)), partial))
}

func (p Printer) PrintDeletion(report domain.DeletionReport) {
	if !report.Mode.Mutates() {
		fmt.Fprintf(p.Writer, "Dry run: %d sessions would be deleted. Re-run with --execute to delete.\n", report.Matched())
		return
	}
	rows := make([][]string, 0, len(report.Jobs))
	deleted := 0
	for _, job := range report.Jobs {
		deleted += job.Deleted
		rows = append(rows, []string{
			job.Board.Hostname,
			strconv.Itoa(job.Deleted),
			strconv.Itoa(job.Failed),
			outcomeLabel(job.Outcome, job.Err),
		})
	}
	fmt.Fprintln(p.Writer, renderTable(
		[]string{"Board", "Deleted", "Failed", "Result"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
	))
	fmt.Fprintf(p.Writer, "Deleted %d sessions; %d of %d boards succeeded.\n", deleted, report.Succeeded(), len(report.Jobs))

	var errs []error
	for _, job := range report.Jobs {
		errs = append(errs, job.Errors...)
		if job.Failed == 0 && job.Err != nil {
			errs = append(errs, job.Err)
		}
	}
	p.printErrors(errs)
}

func (p Printer) PrintReorg(report domain.ReorgReport) {
	if len(report.Actions) == 0 {
		fmt.Fprintln(p.Writer, "Nothing to reorganize.")
		return
	}
	rows := make([][]string, 0, len(report.Actions))
	for _, a := range report.Actions {
		result := "ok"
		switch {
		case a.Failed():
			result = fmt.Sprintf("failed at %s", a.Failures[0].Step)
		case !a.SourceRemoved:
			result = fmt.Sprintf("kept source (%d leftovers)", len(a.Leftovers))
		}
		rows = append(rows, []string{
			a.Board.Hostname,
			a.Pass.String(),
			a.Source,
			a.Target,
			strconv.Itoa(a.Moved),
			strconv.Itoa(a.Duplicates),
			strconv.Itoa(a.Renamed),
			result,
		})
	}
	if !report.Mode.Mutates() {
		fmt.Fprintln(p.Writer, "Dry run: planned reorganization (nothing was moved):")
	}
	fmt.Fprintln(p.Writer, renderTable(
		[]string{"Board", "Pass", "Source", "Target", "Moved", "Duplicates", "Renamed", "Result"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))
	fmt.Fprintf(p.Writer, "%d of %d actions succeeded.\n", len(report.Actions)-report.Failed(), len(report.Actions))

	if p.Verbose {
		var errs []error
		for _, a := range report.Actions {
			for _, f := range a.Failures {
				errs = append(errs, f.Err)
			}
		}
		p.printErrors(errs)
	}
}

func (p Printer) PrintSessions(board domain.Board, summaries []domain.SessionSummary, remote bool) {
	where := "local"
	if remote {
		where = "remote"
	}
	fmt.Fprintf(p.Writer, "%s %s sessions:\n", board, where)
	if len(summaries) == 0 {
		fmt.Fprintln(p.Writer, "  none")
		return
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		canonical := "no"
		if s.Session.Canonical() {
			canonical = "yes"
		}
		rows = append(rows, []string{
			s.Session.Name,
			canonical,
			count(s.Session.PhotoCount),
			size(s.Session.Bytes),
			logCounts(s),
			s.CaptureRange(),
		})
	}
	fmt.Fprintln(p.Writer, renderTable(
		[]string{"Session", "Canonical", "Photos", "Size", "Log (ok/failed)", "Captured"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))
}

func (p Printer) PrintCheck(results []preflight.Result, boards []domain.Board) {
	rows := make([][]string, 0, len(results)+len(boards))
	for _, r := range results {
		rows = append(rows, []string{r.Name, passLabel(r.Passed), r.Detail})
	}
	for _, b := range boards {
		detail := "unreachable"
		if b.Reachable {
			detail = "reachable"
		}
		rows = append(rows, []string{b.String(), passLabel(b.Reachable), detail})
	}
	fmt.Fprintln(p.Writer, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))
}

// PrintFooter points at the run log when the run did not fully succeed.
func (p Printer) PrintFooter(outcome domain.Outcome, logPath string) {
	if outcome == domain.FullSuccess || logPath == "" {
		return
	}
	fmt.Fprintf(p.Writer, "Run finished with %s (exit %d). Details in %s\n", outcome, outcome.ExitCode(), logPath)
}

func (p Printer) printErrors(errs []error) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintln(p.Writer)
	fmt.Fprintln(p.Writer, "Errors:")
	for _, err := range errs {
		fmt.Fprintln(p.Writer, "- "+apperrors.UserMessage(err))
	}
}

func transferErrors(report domain.TransferReport) []error {
	var errs []error
	for _, job := range report.Jobs {
		failedSessions := false
		for _, s := range job.Sessions {
			if s.Err != nil {
				errs = append(errs, s.Err)
				failedSessions = true
			}
		}
		if job.Err != nil && !failedSessions {
			errs = append(errs, job.Err)
		}
	}
	return errs
}

func outcomeLabel(outcome domain.JobOutcome, err error) string {
	if outcome == domain.Failed && err != nil {
		return "failed: " + apperrors.UserMessage(err)
	}
	return outcome.String()
}

func strategyLabel(s domain.TransferStrategy) string {
	if s == domain.StrategyNone {
		return "-"
	}
	return string(s)
}

func passLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAIL"
}

func count(n int) string {
	if n == domain.Unknown {
		return "?"
	}
	return strconv.Itoa(n)
}

func size(n int64) string {
	if n == domain.Unknown {
		return "?"
	}
	return humanize.IBytes(uint64(n))
}

func approx(value string, partial bool) string {
	if partial {
		return "≥" + value
	}
	return value
}

func logCounts(s domain.SessionSummary) string {
	if s.LogPhotos == domain.Unknown {
		return "-"
	}
	return fmt.Sprintf("%d/%d", s.LogPhotos, s.LogFailures)
}

func sessionNames(sessions []domain.Session) string {
	names := make([]string, 0, len(sessions))
	for _, s := range sessions {
		names = append(names, s.Name)
	}
	if len(names) > 4 {
		names = append(append(names[:2:2], "..."), names[len(names)-2:]...)
	}
	return strings.Join(names, ", ")
}
