package domain

// JobOutcome is the state of a per-board job.
type JobOutcome int

const (
	Pending JobOutcome = iota
	Succeeded
	Failed
)

func (o JobOutcome) String() string {
	switch o {
	case Succeeded:
		return "success"
	case Failed:
		return "failure"
	default:
		return "pending"
	}
}

// TransferStrategy names how a board's data was pulled.
type TransferStrategy string

const (
	StrategyNone     TransferStrategy = ""
	StrategySessions TransferStrategy = "sessions"
	StrategyFallback TransferStrategy = "whole-directory"
	StrategyDelta    TransferStrategy = "delta"
)

type SessionTransfer struct {
	Session Session
	Skipped bool
	Copied  int
	Err     error
}

func (s SessionTransfer) Succeeded() bool {
	return s.Err == nil
}

type TransferJob struct {
	Board    Board
	Outcome  JobOutcome
	LocalDir string
	Strategy TransferStrategy
	Sessions []SessionTransfer
	// Copied counts photos that landed locally during this run.
	Copied int
	Err    error
}

func (j TransferJob) SkippedSessions() int {
	n := 0
	for _, s := range j.Sessions {
		if s.Skipped {
			n++
		}
	}
	return n
}

func (j TransferJob) FailedSessions() int {
	n := 0
	for _, s := range j.Sessions {
		if !s.Succeeded() {
			n++
		}
	}
	return n
}

type DeletionJob struct {
	Board    Board
	Sessions []Session
	Deleted  int
	Failed   int
	Outcome  JobOutcome
	Err      error
	// Errors holds one entry per failed session removal.
	Errors []error
}

// Totals sums the known photo counts and sizes of the matched sessions.
// Unknown values are left out of the sums and reported as partial.
func (j DeletionJob) Totals() (photos int, bytes int64, partial bool) {
	for _, s := range j.Sessions {
		if s.PhotoCount == Unknown {
			partial = true
		} else {
			photos += s.PhotoCount
		}
		if s.Bytes == Unknown {
			partial = true
		} else {
			bytes += s.Bytes
		}
	}
	return photos, bytes, partial
}

// TransferReport collects the jobs of one transfer run in inventory order.
type TransferReport struct {
	Mode ExecutionMode
	Jobs []TransferJob
}

func (r TransferReport) Succeeded() int {
	n := 0
	for _, j := range r.Jobs {
		if j.Outcome == Succeeded {
			n++
		}
	}
	return n
}

func (r TransferReport) Outcome() Outcome {
	return OutcomeFor(r.Succeeded(), len(r.Jobs))
}

type DeletionReport struct {
	Mode ExecutionMode
	Jobs []DeletionJob
}

func (r DeletionReport) Succeeded() int {
	n := 0
	for _, j := range r.Jobs {
		if j.Outcome == Succeeded {
			n++
		}
	}
	return n
}

func (r DeletionReport) Outcome() Outcome {
	return OutcomeFor(r.Succeeded(), len(r.Jobs))
}

// Matched counts the sessions selected for deletion across all boards.
func (r DeletionReport) Matched() int {
	n := 0
	for _, j := range r.Jobs {
		n += len(j.Sessions)
	}
	return n
}
