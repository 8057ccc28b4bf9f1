package copymachine

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/venkuppu-chn/cortx/pkg/cm"
)

func collect(t *testing.T, w *worker) []cm.Event {
	t.Helper()

	var events []cm.Event
	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev, ok := <-w.events():
			if ok == false {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("worker did not finish, %d events so far", len(events))
		}
	}
}

func TestWorkerNaturalRun(t *testing.T) {
	repo := newTestRepo()
	repo.chunks[cm.Rebalance] = testChunks(5)

	w := newWorker(cm.Rebalance, repo, time.Millisecond, 2)
	go w.run()

	events := collect(t, w)
	if len(events) == 0 {
		t.Fatal("no events")
	}

	if events[0].Type != cm.EventProgress || events[0].Delta.ObjectsScanned != 5 {
		t.Errorf("first event should report the scan, got %+v", events[0])
	}
	if last := events[len(events)-1]; last.Type != cm.EventDone {
		t.Errorf("expected done as last event, got %s", last.Type)
	}

	var total cm.Progress
	for _, ev := range events {
		total.Add(ev.Delta)
	}
	if total.ObjectsRepaired != 5 || total.BytesMoved != 50 {
		t.Errorf("expected 5 repaired/50 bytes, got %d/%d", total.ObjectsRepaired, total.BytesMoved)
	}
}

func TestWorkerScanFailure(t *testing.T) {
	repo := newTestRepo()
	repo.scanErr[cm.Repair] = errors.New("scan blew up")

	w := newWorker(cm.Repair, repo, time.Millisecond, 2)
	go w.run()

	events := collect(t, w)
	if len(events) != 1 {
		t.Fatalf("expected a single event, got %d", len(events))
	}
	if events[0].Type != cm.EventFailed {
		t.Errorf("expected failed, got %s", events[0].Type)
	}
	if events[0].Err != "scan blew up" {
		t.Errorf("expected error detail, got %q", events[0].Err)
	}
}

func TestWorkerPauseResumeCancel(t *testing.T) {
	repo := newTestRepo()
	repo.chunks[cm.Repair] = testChunks(1000)

	w := newWorker(cm.Repair, repo, time.Millisecond, 2)
	go w.run()

	// The scan report always comes first.
	ev := <-w.events()
	if ev.Type != cm.EventProgress || ev.Delta.ObjectsScanned != 1000 {
		t.Fatalf("expected scan report, got %+v", ev)
	}

	w.pause()

	// Progress of batches already in flight may precede the ack.
	sawQuiesced := false
	for ev := range w.events() {
		if ev.Type == cm.EventQuiesced {
			sawQuiesced = true
			break
		}
		if ev.Type != cm.EventProgress {
			t.Fatalf("unexpected event before quiesce ack: %s", ev.Type)
		}
	}
	if sawQuiesced == false {
		t.Fatal("worker never acknowledged the pause")
	}

	w.resume()
	w.cancel()

	var last cm.Event
	for ev := range w.events() {
		last = ev
	}
	if last.Type != cm.EventStopped {
		t.Errorf("expected stopped as last event, got %s", last.Type)
	}
}
