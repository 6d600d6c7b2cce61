package presentation

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"camsync/internal/domain"
	apperrors "camsync/internal/errors"
	"camsync/internal/preflight"
)

func TestSessionNamesTruncates(t *testing.T) {
	var sessions []domain.Session
	for _, name := range []string{"session_a", "session_b", "session_c", "session_d", "session_e", "session_f"} {
		sessions = append(sessions, domain.Session{Name: name})
	}
	got := sessionNames(sessions)
	want := "session_a, session_b, ..., session_e, session_f"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPrintTransferSummarizesJobs(t *testing.T) {
	var buf bytes.Buffer
	b1 := domain.Board{Hostname: "rpihelmet1", CameraIndex: 1}
	b2 := domain.Board{Hostname: "rpihelmet2", CameraIndex: 2}
	report := domain.TransferReport{Mode: domain.Execute, Jobs: []domain.TransferJob{
		{Board: b1, Outcome: domain.Succeeded, Strategy: domain.StrategySessions, Copied: 12,
			Sessions: []domain.SessionTransfer{{Skipped: true}, {Copied: 12}}},
		{Board: b2, Outcome: domain.Failed,
			Err: apperrors.New(apperrors.Connectivity, "probe", "rpihelmet2", "host unreachable")},
	}}

	Printer{Writer: &buf}.PrintTransfer(report)
	output := buf.String()
	for _, want := range []string{"rpihelmet1", "helmet-cam2", "Transferred 12 photos; 1 of 2 boards succeeded.", "Host unreachable: rpihelmet2"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestPrintDeletionPlanMarksPartialTotals(t *testing.T) {
	var buf bytes.Buffer
	jobs := []domain.DeletionJob{{
		Board: domain.Board{Hostname: "rpihelmet1", CameraIndex: 1},
		Sessions: []domain.Session{
			{Name: "session_20250101", PhotoCount: 10, Bytes: 2048},
			{Name: "session_20250101_14", PhotoCount: domain.Unknown, Bytes: domain.Unknown},
		},
	}}

	Printer{Writer: &buf}.PrintDeletionPlan(jobs, "20250101")
	output := buf.String()
	if !strings.Contains(output, "sessions dated 20250101") {
		t.Fatalf("expected date scope, got:\n%s", output)
	}
	if !strings.Contains(output, "Matched 2 sessions with ≥10 photos (≥2.0 KiB).") {
		t.Fatalf("expected partial totals, got:\n%s", output)
	}
}

func TestPrintDeletionDryRun(t *testing.T) {
	var buf bytes.Buffer
	report := domain.DeletionReport{Mode: domain.DryRun, Jobs: []domain.DeletionJob{
		{Sessions: []domain.Session{{Name: "a"}, {Name: "b"}}},
	}}
	Printer{Writer: &buf}.PrintDeletion(report)
	if !strings.Contains(buf.String(), "2 sessions would be deleted") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestPrintReorgResults(t *testing.T) {
	var buf bytes.Buffer
	failed := domain.ReorgAction{Source: "session_x", Target: "session_20250101"}
	failed.Fail(domain.StepMovePhotos, errors.New("disk full"))
	report := domain.ReorgReport{Mode: domain.Execute, Actions: []domain.ReorgAction{
		{Source: "session_20250101_14", Target: "session_20250101", Moved: 3, SourceRemoved: true},
		{Source: "session_20250102_09", Target: "session_20250102", Moved: 1, Leftovers: []string{"notes.txt"}},
		failed,
	}}
	Printer{Writer: &buf}.PrintReorg(report)
	output := buf.String()
	for _, want := range []string{"kept source (1 leftovers)", "failed at move-photos", "2 of 3 actions succeeded."} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestPrintCheckAndFooter(t *testing.T) {
	var buf bytes.Buffer
	p := Printer{Writer: &buf}
	p.PrintCheck(
		[]preflight.Result{{Name: "ssh", Passed: true, Detail: "/usr/bin/ssh"}},
		[]domain.Board{{Hostname: "rpihelmet1", CameraIndex: 1}},
	)
	p.PrintFooter(domain.PartialSuccess, "/tmp/camsync-transfer.log")
	output := buf.String()
	if !strings.Contains(output, "unreachable") || !strings.Contains(output, "FAIL") {
		t.Fatalf("expected unreachable board row, got:\n%s", output)
	}
	if !strings.Contains(output, "exit 1") || !strings.Contains(output, "/tmp/camsync-transfer.log") {
		t.Fatalf("expected footer with log path, got:\n%s", output)
	}

	buf.Reset()
	p.PrintFooter(domain.FullSuccess, "/tmp/x.log")
	if buf.Len() != 0 {
		t.Fatalf("expected no footer on success, got %q", buf.String())
	}
}
