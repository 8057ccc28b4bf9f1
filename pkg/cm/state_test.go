package cm

import "testing"

func TestTransitTable(t *testing.T) {
	testCases := []struct {
		state State
		verb  Verb
		next  State
		rc    ResultCode
	}{
		{Idle, Trigger, Active, Ok},
		{Idle, Quiesce, Idle, NotFound},
		{Idle, Status, Idle, NotFound},
		{Idle, Abort, Idle, NotFound},

		{Active, Trigger, Active, Ok},
		{Active, Quiesce, Quiescing, Ok},
		{Active, Status, Active, Ok},
		{Active, Abort, Stopping, Ok},

		{Quiescing, Trigger, Quiescing, OperationBusy},
		{Quiescing, Quiesce, Quiescing, Ok},
		{Quiescing, Status, Quiescing, Ok},
		{Quiescing, Abort, Stopping, Ok},

		{Quiesced, Trigger, Active, Ok},
		{Quiesced, Quiesce, Quiesced, Ok},
		{Quiesced, Status, Quiesced, Ok},
		{Quiesced, Abort, Stopping, Ok},

		{Stopping, Trigger, Stopping, OperationBusy},
		{Stopping, Quiesce, Stopping, InvalidState},
		{Stopping, Status, Stopping, Ok},
		{Stopping, Abort, Stopping, Ok},

		{Stopped, Trigger, Active, Ok},
		{Stopped, Quiesce, Stopped, InvalidState},
		{Stopped, Status, Stopped, Ok},
		{Stopped, Abort, Stopped, InvalidState},

		{Failed, Trigger, Active, Ok},
		{Failed, Quiesce, Failed, InvalidState},
		{Failed, Status, Failed, Ok},
		{Failed, Abort, Failed, InvalidState},
	}

	for _, c := range testCases {
		next, rc := Transit(c.state, c.verb)
		if rc != c.rc {
			t.Errorf("%s x %s: expected result %s, got %s", c.state, c.verb, c.rc, rc)
		}
		if next != c.next {
			t.Errorf("%s x %s: expected next state %s, got %s", c.state, c.verb, c.next, next)
		}

		// An error outcome never moves the machine.
		if rc != Ok && next != c.state {
			t.Errorf("%s x %s: state moved to %s on error result", c.state, c.verb, next)
		}
	}
}

func TestTransitIdempotency(t *testing.T) {
	// A verb whose target state is reached must hold that state on
	// retry with an Ok result.
	testCases := []struct {
		state State
		verb  Verb
	}{
		{Active, Trigger},
		{Quiescing, Quiesce},
		{Quiesced, Quiesce},
		{Stopping, Abort},
	}

	for _, c := range testCases {
		next, rc := Transit(c.state, c.verb)
		if rc != Ok {
			t.Errorf("%s x %s: expected ok on retry, got %s", c.state, c.verb, rc)
		}
		if next != c.state {
			t.Errorf("%s x %s: retry moved state to %s", c.state, c.verb, next)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	for _, s := range []State{Idle, Active, Quiescing, Quiesced, Stopping} {
		if s.Terminal() {
			t.Errorf("%s reported terminal", s)
		}
	}
	for _, s := range []State{Stopped, Failed} {
		if s.Terminal() == false {
			t.Errorf("%s reported non-terminal", s)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		if err != nil {
			t.Errorf("failed to parse kind %s: %v", k, err)
		}
		if parsed != k {
			t.Errorf("expected kind %s, got %s", k, parsed)
		}
	}

	if _, err := ParseKind("defragment"); err == nil {
		t.Errorf("expected error for unknown kind")
	}
	if Kind(42).Valid() {
		t.Errorf("kind 42 reported valid")
	}
}
