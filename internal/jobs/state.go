package jobs

type State int

const (
	// Undefined is the state of an empty slot.
	Undefined State = iota

	// Foreground indicates the job owns the terminal's interrupt and stop
	// signals and the main flow is waiting on it. At most one job is in this
	// state.
	Foreground

	// Background indicates the job is running without the shell waiting on it.
	Background

	// Stopped indicates the job's process group was stopped by a signal. It
	// stays in the table until continued with bg or fg.
	Stopped
)

var stateNames = []string{
	"Undefined",
	"Foreground",
	"Background",
	"Stopped",
}

// String returns the name of the State.
func (s State) String() string {
	if int(s) < 0 || int(s) >= len(stateNames) {
		return stateNames[0]
	}

	return stateNames[s]
}

func (s State) valid() bool {
	return s > Undefined && int(s) < len(stateNames)
}

// Label returns the text shown for the State by the jobs built-in.
func (s State) Label() string {
	switch s {
	case Background:
		return "Running"
	case Foreground:
		return "Foreground"
	case Stopped:
		return "Stopped"
	default:
		return "Undefined"
	}
}
