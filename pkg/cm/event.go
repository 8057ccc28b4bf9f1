package cm

// EventType classifies the asynchronous notifications a data-movement
// worker posts back to the control dispatcher.
type EventType int

const (
	// EventProgress carries a counter delta. No state change.
	EventProgress EventType = iota
	// EventQuiesced acknowledges a pause at a safe checkpoint.
	EventQuiesced
	// EventStopped confirms worker teardown after an abort.
	EventStopped
	// EventDone reports that the worker finished its scan on its own.
	EventDone
	// EventFailed reports an unrecoverable worker fault.
	EventFailed
)

func (e EventType) String() string {
	switch e {
	case EventProgress:
		return "progress"
	case EventQuiesced:
		return "quiesced"
	case EventStopped:
		return "stopped"
	case EventDone:
		return "done"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is one worker notification.
type Event struct {
	Type EventType

	// Delta is the progress accumulated since the last event.
	// Meaningful for EventProgress only.
	Delta Progress

	// Err describes the fault for EventFailed.
	Err string
}

// Advance evaluates a worker event against the current state and
// returns the next state. The second return is false when the event
// does not apply to the state; stale events are dropped that way, for
// example a quiesce acknowledgment arriving after an abort already
// moved the machine to stopping.
func Advance(s State, e EventType) (State, bool) {
	if s.Terminal() || s == Idle {
		return s, false
	}

	switch e {
	case EventProgress:
		return s, true
	case EventQuiesced:
		if s == Quiescing {
			return Quiesced, true
		}
		return s, false
	case EventStopped:
		if s == Stopping {
			return Stopped, true
		}
		return s, false
	case EventDone:
		if s == Active || s == Quiescing {
			return Stopped, true
		}
		return s, false
	case EventFailed:
		return Failed, true
	}

	return s, false
}
