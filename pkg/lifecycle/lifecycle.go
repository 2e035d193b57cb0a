package lifecycle

// State is a position in a component's run state machine.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// EventEmitter observes state changes of a Manager.
type EventEmitter interface {
	OnStateChange(component string, previous, current State, reason string)
}

// EmitterFunc adapts a function to EventEmitter.
type EmitterFunc func(component string, previous, current State, reason string)

// OnStateChange calls f.
func (f EmitterFunc) OnStateChange(component string, previous, current State, reason string) {
	f(component, previous, current, reason)
}
