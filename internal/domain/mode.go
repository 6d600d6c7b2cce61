package domain

// ExecutionMode decides whether an operation mutates anything. Every
// mutating call takes it explicitly.
type ExecutionMode int

const (
	DryRun ExecutionMode = iota
	Execute
)

func (m ExecutionMode) Mutates() bool {
	return m == Execute
}

func (m ExecutionMode) String() string {
	if m == Execute {
		return "execute"
	}
	return "dry-run"
}
