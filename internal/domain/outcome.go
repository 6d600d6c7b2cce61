package domain

// Outcome is the aggregate result of a run over several units.
type Outcome int

const (
	FullSuccess Outcome = iota
	PartialSuccess
	TotalFailure
)

// OutcomeFor maps succeeded out of total units to an outcome. An empty run
// counts as a full success.
func OutcomeFor(succeeded, total int) Outcome {
	switch {
	case succeeded >= total:
		return FullSuccess
	case succeeded > 0:
		return PartialSuccess
	default:
		return TotalFailure
	}
}

// ExitCode is the process exit code for the outcome.
func (o Outcome) ExitCode() int {
	return int(o)
}

func (o Outcome) String() string {
	switch o {
	case FullSuccess:
		return "success"
	case PartialSuccess:
		return "partial"
	default:
		return "failure"
	}
}
