package copymachine

import (
	"time"

	"github.com/pkg/errors"
	"github.com/venkuppu-chn/cortx/pkg/cm"
	"github.com/venkuppu-chn/cortx/pkg/util/mlog"
)

// For state transition.
// The data-movement worker walks its states until meeting nil. Control
// commands arrive through the pause/resume/cancel channels; the worker
// answers out-of-band through its event channel, which the dispatcher
// consumes under the descriptor exclusion.
type fsm func() (next fsm)

// worker relocates the degraded chunks of one operation instance.
// It is the only component which touches the chunk store; the control
// dispatcher only starts it and signals pause, resume or cancel.
type worker struct {
	kind  cm.Kind
	store Repository

	tick  time.Duration
	batch int

	pauseCh  chan interface{}
	resumeCh chan interface{}
	cancelCh chan interface{}
	eventCh  chan cm.Event

	pending []Chunk
}

// newWorker returns a new data-movement worker for one run.
func newWorker(kind cm.Kind, store Repository, tick time.Duration, batch int) *worker {
	return &worker{
		kind:  kind,
		store: store,
		tick:  tick,
		batch: batch,

		pauseCh:  make(chan interface{}, 1),
		resumeCh: make(chan interface{}, 1),
		cancelCh: make(chan interface{}, 1),
		eventCh:  make(chan cm.Event),
	}
}

// events returns the notification channel. It is closed after the
// terminal event is posted.
func (w *worker) events() <-chan cm.Event {
	return w.eventCh
}

// pause, resume and cancel signal the worker without blocking.
// A blocked channel means the same command is already pending.
func (w *worker) pause()  { signal(w.pauseCh) }
func (w *worker) resume() { signal(w.resumeCh) }
func (w *worker) cancel() { signal(w.cancelCh) }

func signal(ch chan interface{}) {
	select {
	case ch <- nil:
	case <-time.After(0):
	}
}

// run is the engine of the dispatched worker.
// Manage the state transitioning until meet the state nil.
func (w *worker) run() {
	defer close(w.eventCh)

	startState := w.scan
	for state := startState; state != nil; {
		state = state()
	}
}

// scan loads the chunks this run has to relocate.
func (w *worker) scan() fsm {
	ctxLogger := mlog.GetMethodLogger(logger, "worker.scan")

	chunks, err := w.store.DegradedChunks(w.kind)
	if err != nil {
		ctxLogger.Error(errors.Wrap(err, "failed to scan degraded chunks"))
		w.eventCh <- cm.Event{Type: cm.EventFailed, Err: err.Error()}
		return nil
	}

	w.pending = chunks
	w.eventCh <- cm.Event{
		Type:  cm.EventProgress,
		Delta: cm.Progress{ObjectsScanned: uint64(len(chunks))},
	}

	return w.wait
}

// wait sleeps one tick between batches, watching for control commands.
// Cancel takes priority over pause.
func (w *worker) wait() fsm {
	select {
	case <-w.cancelCh:
		return w.teardown
	case <-w.pauseCh:
		return w.quiesce
	case <-time.After(w.tick):
		return w.move
	}
}

// move relocates up to one batch of chunks and reports the progress.
func (w *worker) move() fsm {
	ctxLogger := mlog.GetMethodLogger(logger, "worker.move")

	if len(w.pending) == 0 {
		return w.finish
	}

	n := w.batch
	if n > len(w.pending) {
		n = len(w.pending)
	}

	var delta cm.Progress
	for _, c := range w.pending[:n] {
		moved, err := w.store.Relocate(w.kind, c)
		if err != nil {
			// A single chunk failure does not end the run.
			ctxLogger.Error(errors.Wrapf(err, "failed to relocate chunk %s/%s", c.Volume, c.Name))
			delta.Errors++
			continue
		}
		delta.ObjectsRepaired++
		delta.BytesMoved += moved
	}
	w.pending = w.pending[n:]

	w.eventCh <- cm.Event{Type: cm.EventProgress, Delta: delta}

	if len(w.pending) == 0 {
		return w.finish
	}
	return w.wait
}

// quiesce acknowledges the pause and blocks at the safe checkpoint
// until resumed or canceled.
func (w *worker) quiesce() fsm {
	w.eventCh <- cm.Event{Type: cm.EventQuiesced}

	select {
	case <-w.cancelCh:
		return w.teardown
	case <-w.resumeCh:
		return w.wait
	}
}

// teardown confirms the hard stop.
func (w *worker) teardown() fsm {
	w.pending = nil
	w.eventCh <- cm.Event{Type: cm.EventStopped}
	return nil
}

// finish reports the natural end of the scan.
func (w *worker) finish() fsm {
	w.eventCh <- cm.Event{Type: cm.EventDone}
	return nil
}
