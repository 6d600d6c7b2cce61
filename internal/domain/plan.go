package domain

// ReorgPass identifies which pass of the reorganization produced an action.
type ReorgPass int

const (
	PassNormalize ReorgPass = iota + 1
	PassConsolidate
)

func (p ReorgPass) String() string {
	if p == PassConsolidate {
		return "consolidate"
	}
	return "normalize"
}

// ReorgStep is a state of a reorganization action, in execution order.
type ReorgStep string

const (
	StepDetect       ReorgStep = "detect"
	StepPlanTarget   ReorgStep = "plan-target"
	StepMovePhotos   ReorgStep = "move-photos"
	StepMoveLog      ReorgStep = "move-log"
	StepRemoveSource ReorgStep = "remove-source-if-empty"
)

// StepError is a failed step of an action.
type StepError struct {
	Step ReorgStep
	Err  error
}

type ReorgAction struct {
	Board   Board
	Pass    ReorgPass
	Source  string
	Target  string
	DateKey string
	KeyFrom DateKeySource
	// Photos lists the photo file names found in the source.
	Photos []string
	// Log is the source log path, LogTarget where it goes. Both empty when
	// the source carries no log.
	Log           string
	LogTarget     string
	TargetExisted bool
	Moved         int
	Duplicates    int
	Renamed       int
	SourceRemoved bool
	// Leftovers are entries still in the source after the moves.
	Leftovers []string
	Completed []ReorgStep
	Failures  []StepError
}

func (a ReorgAction) Failed() bool {
	return len(a.Failures) > 0
}

func (a *ReorgAction) Complete(step ReorgStep) {
	a.Completed = append(a.Completed, step)
}

func (a *ReorgAction) Fail(step ReorgStep, err error) {
	a.Failures = append(a.Failures, StepError{Step: step, Err: err})
}

type ReorgReport struct {
	Mode    ExecutionMode
	Actions []ReorgAction
}

func (r ReorgReport) Failed() int {
	n := 0
	for _, a := range r.Actions {
		if a.Failed() {
			n++
		}
	}
	return n
}

func (r ReorgReport) Outcome() Outcome {
	return OutcomeFor(len(r.Actions)-r.Failed(), len(r.Actions))
}
