package copymachine

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/venkuppu-chn/cortx/pkg/cm"
	"github.com/venkuppu-chn/cortx/pkg/topology"
	"github.com/venkuppu-chn/cortx/pkg/util/config"
)

// testRepo is a controllable in-memory repository. Relocation can be
// blocked to hold a worker mid-batch, and scans can be forced to fail.
type testRepo struct {
	mu       sync.Mutex
	chunks   map[cm.Kind][]Chunk
	scanErr  map[cm.Kind]error
	bad      map[string]bool
	archived map[cm.Kind][]cm.Snapshot

	blockCh    chan struct{}
	relocating chan struct{}
}

func newTestRepo() *testRepo {
	return &testRepo{
		chunks:   make(map[cm.Kind][]Chunk),
		scanErr:  make(map[cm.Kind]error),
		bad:      make(map[string]bool),
		archived: make(map[cm.Kind][]cm.Snapshot),
	}
}

func (r *testRepo) DegradedChunks(kind cm.Kind) ([]Chunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.scanErr[kind]; err != nil {
		return nil, err
	}
	out := make([]Chunk, len(r.chunks[kind]))
	copy(out, r.chunks[kind])
	return out, nil
}

func (r *testRepo) Relocate(kind cm.Kind, c Chunk) (uint64, error) {
	r.mu.Lock()
	block := r.blockCh
	notify := r.relocating
	r.mu.Unlock()

	if notify != nil {
		select {
		case notify <- struct{}{}:
		default:
		}
	}
	if block != nil {
		<-block
	}

	if r.bad[c.Name] {
		return 0, errors.New("relocation failed")
	}
	return c.Size, nil
}

func (r *testRepo) ArchiveDescriptor(snap cm.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.archived[snap.Kind] = append(r.archived[snap.Kind], snap)
	return nil
}

func (r *testRepo) ArchivedDescriptors(kind cm.Kind) ([]cm.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]cm.Snapshot, len(r.archived[kind]))
	copy(out, r.archived[kind])
	return out, nil
}

func testChunks(n int) []Chunk {
	chunks := make([]Chunk, n)
	for i := range chunks {
		chunks[i] = Chunk{Volume: "vol-1", Name: fmt.Sprintf("chunk-%d", i), Size: 10}
	}
	return chunks
}

func testCfg() *config.Ds {
	return &config.Ds{
		CopyMachine: config.CopyMachine{
			ExclusionWait: "50ms",
			WorkerTick:    "1ms",
			BatchSize:     "2",
		},
	}
}

func testDispatcher(t *testing.T, store Repository) *dispatcher {
	t.Helper()

	topo := topology.NewFromDescr([]topology.Descr{{ID: 0}, {ID: 1}})
	d, err := newDispatcher(testCfg(), topo, store)
	if err != nil {
		t.Fatalf("failed to create dispatcher: %v", err)
	}
	return d
}

func waitState(t *testing.T, d *dispatcher, kind cm.Kind, want cm.State) cm.Snapshot {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	var snap cm.Snapshot
	for time.Now().Before(deadline) {
		snap, _, _ = d.Apply(kind, cm.Status)
		if snap.State == want {
			return snap
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("%s did not reach %s, last state %s", kind, want, snap.State)
	return snap
}

func TestFreshTrigger(t *testing.T) {
	repo := newTestRepo()
	repo.chunks[cm.Repair] = testChunks(1000)
	d := testDispatcher(t, repo)

	snap, rc, _ := d.Apply(cm.Repair, cm.Trigger)
	if rc != cm.Ok {
		t.Fatalf("expected ok, got %s", rc)
	}
	if snap.State != cm.Active {
		t.Fatalf("expected active, got %s", snap.State)
	}
	if snap.InstanceID == "" {
		t.Fatalf("expected instance id")
	}

	// Immediate retrigger is a no-op returning the same instance.
	again, rc, _ := d.Apply(cm.Repair, cm.Trigger)
	if rc != cm.Ok {
		t.Fatalf("expected ok on retrigger, got %s", rc)
	}
	if again.InstanceID != snap.InstanceID {
		t.Errorf("expected instance %s, got %s", snap.InstanceID, again.InstanceID)
	}

	d.Apply(cm.Repair, cm.Abort)
	waitState(t, d, cm.Repair, cm.Stopped)
}

func TestStatusOnIdle(t *testing.T) {
	d := testDispatcher(t, newTestRepo())

	snap, rc, _ := d.Apply(cm.Rebalance, cm.Status)
	if rc != cm.NotFound {
		t.Errorf("expected not found, got %s", rc)
	}
	if snap.State != cm.Idle {
		t.Errorf("expected idle, got %s", snap.State)
	}
	if (snap.Progress != cm.Progress{}) {
		t.Errorf("expected zeroed progress, got %+v", snap.Progress)
	}
}

func TestUnsupportedKind(t *testing.T) {
	d := testDispatcher(t, newTestRepo())

	for _, v := range []cm.Verb{cm.Trigger, cm.Quiesce, cm.Status, cm.Abort} {
		_, rc, _ := d.Apply(cm.Kind(42), v)
		if rc != cm.UnsupportedKind {
			t.Errorf("%s: expected unsupported kind, got %s", v, rc)
		}
	}
}

func TestVerbsWithoutInstance(t *testing.T) {
	d := testDispatcher(t, newTestRepo())

	// Nothing exists yet to pause or stop.
	for _, v := range []cm.Verb{cm.Quiesce, cm.Abort} {
		snap, rc, _ := d.Apply(cm.Repair, v)
		if rc != cm.NotFound {
			t.Errorf("%s on idle: expected not found, got %s", v, rc)
		}
		if snap.State != cm.Idle {
			t.Errorf("%s on idle: state moved to %s", v, snap.State)
		}
	}
}

func TestNaturalCompletion(t *testing.T) {
	repo := newTestRepo()
	repo.chunks[cm.Repair] = testChunks(5)
	d := testDispatcher(t, repo)

	if _, rc, _ := d.Apply(cm.Repair, cm.Trigger); rc != cm.Ok {
		t.Fatalf("trigger failed: %s", rc)
	}

	snap := waitState(t, d, cm.Repair, cm.Stopped)
	if snap.Progress.ObjectsScanned != 5 {
		t.Errorf("expected 5 scanned, got %d", snap.Progress.ObjectsScanned)
	}
	if snap.Progress.ObjectsRepaired != 5 {
		t.Errorf("expected 5 repaired, got %d", snap.Progress.ObjectsRepaired)
	}
	if snap.Progress.BytesMoved != 50 {
		t.Errorf("expected 50 bytes moved, got %d", snap.Progress.BytesMoved)
	}
	if snap.Progress.Errors != 0 {
		t.Errorf("expected no errors, got %d", snap.Progress.Errors)
	}
}

func TestQuiesceAbortReachesStopped(t *testing.T) {
	repo := newTestRepo()
	repo.chunks[cm.Repair] = testChunks(1000)
	d := testDispatcher(t, repo)

	if _, rc, _ := d.Apply(cm.Repair, cm.Trigger); rc != cm.Ok {
		t.Fatalf("trigger failed: %s", rc)
	}

	if _, rc, _ := d.Apply(cm.Repair, cm.Quiesce); rc != cm.Ok {
		t.Fatalf("quiesce failed: %s", rc)
	}
	waitState(t, d, cm.Repair, cm.Quiesced)

	// Quiesce retry on a quiesced machine holds the state.
	snap, rc, _ := d.Apply(cm.Repair, cm.Quiesce)
	if rc != cm.Ok || snap.State != cm.Quiesced {
		t.Errorf("quiesce retry: expected ok/quiesced, got %s/%s", rc, snap.State)
	}

	if _, rc, _ := d.Apply(cm.Repair, cm.Abort); rc != cm.Ok {
		t.Fatalf("abort failed: %s", rc)
	}
	waitState(t, d, cm.Repair, cm.Stopped)

	// Terminal instance rejects further pause or stop requests.
	if _, rc, _ := d.Apply(cm.Repair, cm.Quiesce); rc != cm.InvalidState {
		t.Errorf("quiesce on stopped: expected invalid state, got %s", rc)
	}
	if _, rc, _ := d.Apply(cm.Repair, cm.Abort); rc != cm.InvalidState {
		t.Errorf("abort on stopped: expected invalid state, got %s", rc)
	}
}

func TestResumeAfterQuiesce(t *testing.T) {
	repo := newTestRepo()
	repo.chunks[cm.Repair] = testChunks(1000)
	d := testDispatcher(t, repo)

	first, _, _ := d.Apply(cm.Repair, cm.Trigger)
	d.Apply(cm.Repair, cm.Quiesce)
	waitState(t, d, cm.Repair, cm.Quiesced)

	snap, rc, _ := d.Apply(cm.Repair, cm.Trigger)
	if rc != cm.Ok {
		t.Fatalf("resume failed: %s", rc)
	}
	if snap.State != cm.Active {
		t.Errorf("expected active after resume, got %s", snap.State)
	}
	if snap.InstanceID != first.InstanceID {
		t.Errorf("resume changed instance id: %s != %s", snap.InstanceID, first.InstanceID)
	}

	d.Apply(cm.Repair, cm.Abort)
	waitState(t, d, cm.Repair, cm.Stopped)
}

func TestReapAndRetrigger(t *testing.T) {
	repo := newTestRepo()
	repo.chunks[cm.Repair] = testChunks(2)
	d := testDispatcher(t, repo)

	first, _, _ := d.Apply(cm.Repair, cm.Trigger)
	waitState(t, d, cm.Repair, cm.Stopped)

	second, rc, _ := d.Apply(cm.Repair, cm.Trigger)
	if rc != cm.Ok {
		t.Fatalf("retrigger failed: %s", rc)
	}
	if second.InstanceID == first.InstanceID {
		t.Errorf("expected a fresh instance id after reap")
	}
	if second.State != cm.Active {
		t.Errorf("expected active, got %s", second.State)
	}

	archived, err := d.archived(cm.Repair)
	if err != nil {
		t.Fatalf("archived failed: %v", err)
	}
	if len(archived) != 1 {
		t.Fatalf("expected 1 archived descriptor, got %d", len(archived))
	}
	if archived[0].InstanceID != first.InstanceID {
		t.Errorf("expected archived instance %s, got %s", first.InstanceID, archived[0].InstanceID)
	}

	waitState(t, d, cm.Repair, cm.Stopped)
}

func TestWorkerFailure(t *testing.T) {
	repo := newTestRepo()
	repo.scanErr[cm.Repair] = errors.New("volume metadata corrupted")
	d := testDispatcher(t, repo)

	if _, rc, _ := d.Apply(cm.Repair, cm.Trigger); rc != cm.Ok {
		t.Fatalf("trigger failed: %s", rc)
	}
	waitState(t, d, cm.Repair, cm.Failed)

	_, rc, detail := d.Apply(cm.Repair, cm.Status)
	if rc != cm.Ok {
		t.Errorf("status on failed: expected ok, got %s", rc)
	}
	if detail != "volume metadata corrupted" {
		t.Errorf("expected failure detail, got %q", detail)
	}

	// Recovery is an explicit new trigger.
	repo.mu.Lock()
	repo.scanErr[cm.Repair] = nil
	repo.chunks[cm.Repair] = testChunks(1)
	repo.mu.Unlock()

	snap, rc, _ := d.Apply(cm.Repair, cm.Trigger)
	if rc != cm.Ok {
		t.Fatalf("retrigger after failure failed: %s", rc)
	}
	if snap.State != cm.Active {
		t.Errorf("expected active, got %s", snap.State)
	}
	waitState(t, d, cm.Repair, cm.Stopped)
}

func TestSoftRelocateErrorsCounted(t *testing.T) {
	repo := newTestRepo()
	repo.chunks[cm.Repair] = testChunks(4)
	repo.bad["chunk-1"] = true
	repo.bad["chunk-3"] = true
	d := testDispatcher(t, repo)

	d.Apply(cm.Repair, cm.Trigger)
	snap := waitState(t, d, cm.Repair, cm.Stopped)

	if snap.Progress.Errors != 2 {
		t.Errorf("expected 2 errors, got %d", snap.Progress.Errors)
	}
	if snap.Progress.ObjectsRepaired != 2 {
		t.Errorf("expected 2 repaired, got %d", snap.Progress.ObjectsRepaired)
	}
}

func TestTriggerWhileQuiescing(t *testing.T) {
	repo := newTestRepo()
	repo.chunks[cm.Repair] = testChunks(100)
	repo.blockCh = make(chan struct{})
	repo.relocating = make(chan struct{}, 1)
	d := testDispatcher(t, repo)

	d.Apply(cm.Repair, cm.Trigger)

	// Hold the worker mid-batch so the quiesce stays unacknowledged.
	<-repo.relocating

	snap, rc, _ := d.Apply(cm.Repair, cm.Quiesce)
	if rc != cm.Ok || snap.State != cm.Quiescing {
		t.Fatalf("quiesce: expected ok/quiescing, got %s/%s", rc, snap.State)
	}

	if _, rc, _ := d.Apply(cm.Repair, cm.Trigger); rc != cm.OperationBusy {
		t.Errorf("trigger while quiescing: expected busy, got %s", rc)
	}

	// Abort is accepted from quiescing.
	if _, rc, _ := d.Apply(cm.Repair, cm.Abort); rc != cm.Ok {
		t.Errorf("abort while quiescing: expected ok, got %s", rc)
	}

	close(repo.blockCh)
	waitState(t, d, cm.Repair, cm.Stopped)
}

func TestBusyRejectionAndRetry(t *testing.T) {
	repo := newTestRepo()
	repo.chunks[cm.Repair] = testChunks(1000)
	d := testDispatcher(t, repo)

	d.Apply(cm.Repair, cm.Trigger)

	// Hold the exclusion as an in-flight transition would.
	inst := d.instances[cm.Repair]
	<-inst.token

	snap, rc, _ := d.Apply(cm.Repair, cm.Quiesce)
	if rc != cm.OperationBusy {
		t.Errorf("expected busy, got %s", rc)
	}
	if snap.State != cm.Active {
		t.Errorf("busy reply should carry the pre-transition snapshot, got %s", snap.State)
	}

	// Status is never rejected as busy.
	if _, rc, _ := d.Apply(cm.Repair, cm.Status); rc != cm.Ok {
		t.Errorf("status during held exclusion: expected ok, got %s", rc)
	}

	inst.token <- struct{}{}

	// The retry after the in-flight transition completes succeeds.
	if _, rc, _ := d.Apply(cm.Repair, cm.Quiesce); rc != cm.Ok {
		t.Errorf("quiesce retry: expected ok, got %s", rc)
	}

	d.Apply(cm.Repair, cm.Abort)
	waitState(t, d, cm.Repair, cm.Stopped)
}

func TestConcurrentKindIndependence(t *testing.T) {
	repo := newTestRepo()
	repo.chunks[cm.Repair] = testChunks(1000)
	repo.chunks[cm.Rebalance] = testChunks(1000)
	d := testDispatcher(t, repo)

	var wg sync.WaitGroup
	snaps := make([]cm.Snapshot, 2)
	rcs := make([]cm.ResultCode, 2)

	for i, kind := range []cm.Kind{cm.Repair, cm.Rebalance} {
		wg.Add(1)
		go func(i int, kind cm.Kind) {
			defer wg.Done()
			snaps[i], rcs[i], _ = d.Apply(kind, cm.Trigger)
		}(i, kind)
	}
	wg.Wait()

	for i := range snaps {
		if rcs[i] != cm.Ok {
			t.Errorf("trigger %d failed: %s", i, rcs[i])
		}
		if snaps[i].State != cm.Active {
			t.Errorf("trigger %d: expected active, got %s", i, snaps[i].State)
		}
	}
	if snaps[0].InstanceID == snaps[1].InstanceID {
		t.Errorf("kinds share an instance id")
	}
	if snaps[0].Kind == snaps[1].Kind {
		t.Errorf("kinds collapsed to %s", snaps[0].Kind)
	}

	// Stopping one kind leaves the other untouched.
	d.Apply(cm.Repair, cm.Abort)
	waitState(t, d, cm.Repair, cm.Stopped)

	snap, rc, _ := d.Apply(cm.Rebalance, cm.Status)
	if rc != cm.Ok || snap.State != cm.Active {
		t.Errorf("rebalance affected by repair abort: %s/%s", rc, snap.State)
	}

	d.Apply(cm.Rebalance, cm.Abort)
	waitState(t, d, cm.Rebalance, cm.Stopped)
}
