package cm

// State is the machine state of one operation instance.
type State int

const (
	// Idle means no operation instance exists for the kind.
	Idle State = iota
	// Active means the data-movement worker is running.
	Active
	// Quiescing means a pause was requested and the worker has not
	// yet acknowledged a safe checkpoint.
	Quiescing
	// Quiesced means the worker is paused at a safe checkpoint.
	Quiesced
	// Stopping means a hard stop was requested and the worker has
	// not yet confirmed teardown.
	Stopping
	// Stopped means the instance ended, either by abort or by
	// finishing its scan. Terminal.
	Stopped
	// Failed means an unrecoverable internal error ended the
	// instance. Terminal.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Quiescing:
		return "quiescing"
	case Quiesced:
		return "quiesced"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends the life of an instance.
func (s State) Terminal() bool {
	return s == Stopped || s == Failed
}

// Verb is a control request verb.
type Verb int

const (
	// Trigger starts an operation, or resumes a quiesced one.
	Trigger Verb = iota
	// Quiesce requests a graceful pause at a safe checkpoint.
	Quiesce
	// Status queries state and progress. Never mutates.
	Status
	// Abort requests a hard stop.
	Abort
)

func (v Verb) String() string {
	switch v {
	case Trigger:
		return "trigger"
	case Quiesce:
		return "quiesce"
	case Status:
		return "status"
	case Abort:
		return "abort"
	default:
		return "unknown"
	}
}

// ResultCode classifies the outcome of a control request.
type ResultCode int

const (
	// Ok means the request was applied, or was an idempotent retry
	// of an already applied request.
	Ok ResultCode = iota
	// InvalidState means the verb is not applicable to the current
	// machine state. The state is left untouched.
	InvalidState
	// OperationBusy means the request lost a race with a transition
	// still in flight. Callers retry after observing a stable state.
	OperationBusy
	// UnsupportedKind means the request named an unknown operation
	// kind. Rejected before any state lookup.
	UnsupportedKind
	// NotFound means no operation instance exists for the kind.
	NotFound
	// Internal means an unexpected fault ended the instance.
	Internal
)

func (r ResultCode) String() string {
	switch r {
	case Ok:
		return "ok"
	case InvalidState:
		return "invalid state"
	case OperationBusy:
		return "operation busy"
	case UnsupportedKind:
		return "unsupported kind"
	case NotFound:
		return "not found"
	case Internal:
		return "internal error"
	default:
		return "unknown"
	}
}

// Transit evaluates the control transition table for one verb against
// the current state. It returns the next state and the result code to
// report. The state is unchanged whenever the code is not Ok.
//
// Retried verbs are idempotent: a verb whose target state is already
// reached, or is being transitioned toward, reports Ok without moving
// the machine again.
func Transit(s State, v Verb) (State, ResultCode) {
	if v == Status {
		if s == Idle {
			return s, NotFound
		}
		return s, Ok
	}

	switch s {
	case Idle:
		if v == Trigger {
			return Active, Ok
		}
		// Nothing exists to quiesce or abort.
		return s, NotFound

	case Active:
		switch v {
		case Trigger:
			return Active, Ok
		case Quiesce:
			return Quiescing, Ok
		case Abort:
			return Stopping, Ok
		}

	case Quiescing:
		switch v {
		case Trigger:
			// A trigger racing with an unacknowledged quiesce is
			// rejected rather than queued.
			return s, OperationBusy
		case Quiesce:
			return Quiescing, Ok
		case Abort:
			return Stopping, Ok
		}

	case Quiesced:
		switch v {
		case Trigger:
			// Resume.
			return Active, Ok
		case Quiesce:
			return Quiesced, Ok
		case Abort:
			return Stopping, Ok
		}

	case Stopping:
		switch v {
		case Trigger:
			return s, OperationBusy
		case Quiesce:
			return s, InvalidState
		case Abort:
			return Stopping, Ok
		}

	case Stopped, Failed:
		switch v {
		case Trigger:
			// A fresh run. The dispatcher reaps the old descriptor
			// and allocates a new instance id.
			return Active, Ok
		case Quiesce, Abort:
			return s, InvalidState
		}
	}

	return s, InvalidState
}
