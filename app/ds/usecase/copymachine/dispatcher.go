package copymachine

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/venkuppu-chn/cortx/pkg/cm"
	"github.com/venkuppu-chn/cortx/pkg/topology"
	"github.com/venkuppu-chn/cortx/pkg/util/config"
	"github.com/venkuppu-chn/cortx/pkg/util/mlog"
	"github.com/venkuppu-chn/cortx/pkg/util/uuid"
)

const (
	// Defaults used when the config leaves the knobs unset.
	defaultExclusionWait = 100 * time.Millisecond
	defaultWorkerTick    = 100 * time.Millisecond
	defaultBatchSize     = 8
)

// instance is the per-kind slot of the dispatcher: the descriptor, its
// exclusion token and the published snapshot. The token channel holds
// one token when the slot is free; taking the token locks the slot.
type instance struct {
	kind cm.Kind

	token chan struct{}

	// Below fields are accessed with the token held only.
	desc   *cm.Descriptor
	worker *worker

	// snap is the last consistent snapshot, published after every
	// mutation. Status reads never block behind a transition. The
	// failure detail of a failed run is published the same way.
	snap       atomic.Value
	failDetail atomic.Value
}

func newInstance(kind cm.Kind) *instance {
	i := &instance{
		kind:  kind,
		token: make(chan struct{}, 1),
	}
	i.token <- struct{}{}
	return i
}

// lock acquires the exclusion, waiting at most the given bound.
func (i *instance) lock(wait time.Duration) bool {
	select {
	case <-i.token:
		return true
	case <-time.After(wait):
		return false
	}
}

// lockWait acquires the exclusion with no bound. Worker events use it;
// they are never rejected as busy.
func (i *instance) lockWait() {
	<-i.token
}

func (i *instance) unlock() {
	i.token <- struct{}{}
}

// publish stores the current snapshot. Call with the token held.
func (i *instance) publish() {
	i.snap.Store(i.desc.Snapshot())
}

// snapshot returns the last published snapshot without locking.
func (i *instance) snapshot() (cm.Snapshot, bool) {
	s, ok := i.snap.Load().(cm.Snapshot)
	return s, ok
}

// dispatcher turns control requests into serialized state transitions
// of the per-kind operation descriptors. It is the single writer of
// descriptor state; workers report back through events which are
// applied under the same exclusion.
type dispatcher struct {
	cfg   *config.Ds
	store Repository

	exclusionWait time.Duration
	workerTick    time.Duration
	batchSize     int

	// pool bounds the number of control requests processed at once.
	// Sized from the processor topology at startup only.
	pool chan struct{}

	instances map[cm.Kind]*instance
}

// newDispatcher creates the control dispatcher with necessary dependencies.
func newDispatcher(cfg *config.Ds, topo topology.Service, store Repository) (*dispatcher, error) {
	if cfg == nil || topo == nil || store == nil {
		return nil, errors.New("invalid nil arguments")
	}

	d := &dispatcher{
		cfg:           cfg,
		store:         store,
		exclusionWait: defaultExclusionWait,
		workerTick:    defaultWorkerTick,
		batchSize:     defaultBatchSize,
		instances:     make(map[cm.Kind]*instance),
	}

	if t, err := time.ParseDuration(cfg.CopyMachine.ExclusionWait); err == nil {
		d.exclusionWait = t
	}
	if t, err := time.ParseDuration(cfg.CopyMachine.WorkerTick); err == nil {
		d.workerTick = t
	}
	if n, err := strconv.Atoi(cfg.CopyMachine.BatchSize); err == nil && n > 0 {
		d.batchSize = n
	}

	online, err := topo.Enumerate(topology.Online)
	if err != nil {
		return nil, errors.Wrap(err, "failed to enumerate online processors")
	}
	poolSize := int(online.Count())
	if poolSize < 1 {
		poolSize = 1
	}
	d.pool = make(chan struct{}, poolSize)
	for i := 0; i < poolSize; i++ {
		d.pool <- struct{}{}
	}

	for _, k := range cm.Kinds() {
		d.instances[k] = newInstance(k)
	}

	return d, nil
}

// Apply evaluates one control request. It returns the resulting
// snapshot, the result code and an optional error detail. Exactly one
// of the listed result codes is reported; the descriptor is unchanged
// whenever the code is not Ok.
func (d *dispatcher) Apply(kind cm.Kind, verb cm.Verb) (cm.Snapshot, cm.ResultCode, string) {
	// Protocol errors are rejected before any state lookup.
	if kind.Valid() == false {
		return cm.IdleSnapshot(kind), cm.UnsupportedKind, "unknown operation kind"
	}

	<-d.pool
	defer func() { d.pool <- struct{}{} }()

	inst := d.instances[kind]

	// Status is served from the published snapshot and never blocks
	// behind a transition in flight.
	if verb == cm.Status {
		return d.status(inst)
	}

	if inst.lock(d.exclusionWait) == false {
		snap, ok := inst.snapshot()
		if ok == false {
			snap = cm.IdleSnapshot(kind)
		}
		return snap, cm.OperationBusy, "exclusion wait exceeded"
	}
	defer inst.unlock()

	cur := cm.Idle
	if inst.desc != nil {
		cur = inst.desc.State
	}

	next, rc := cm.Transit(cur, verb)
	if rc != cm.Ok {
		return d.replySnapshot(inst), rc, ""
	}

	switch verb {
	case cm.Trigger:
		return d.applyTrigger(inst, cur)
	case cm.Quiesce:
		return d.applyMutation(inst, cur, next, (*worker).pause)
	case cm.Abort:
		return d.applyMutation(inst, cur, next, (*worker).cancel)
	}

	return d.replySnapshot(inst), cm.InvalidState, ""
}

func (d *dispatcher) status(inst *instance) (cm.Snapshot, cm.ResultCode, string) {
	snap, ok := inst.snapshot()
	if ok == false || snap.State == cm.Idle {
		return cm.IdleSnapshot(inst.kind), cm.NotFound, ""
	}
	if snap.State == cm.Failed {
		detail, _ := inst.failDetail.Load().(string)
		return snap, cm.Ok, detail
	}
	return snap, cm.Ok, ""
}

// applyTrigger starts a fresh run, resumes a quiesced one, or answers
// the idempotent retry of a running one.
func (d *dispatcher) applyTrigger(inst *instance, cur cm.State) (cm.Snapshot, cm.ResultCode, string) {
	ctxLogger := mlog.GetMethodLogger(logger, "dispatcher.applyTrigger")

	switch {
	case cur == cm.Idle || cur.Terminal():
		// A terminal descriptor is reaped before it is superseded.
		if inst.desc != nil {
			if err := d.store.ArchiveDescriptor(inst.desc.Snapshot()); err != nil {
				ctxLogger.Error(errors.Wrap(err, "failed to archive reaped descriptor"))
			}
		}

		inst.desc = cm.NewDescriptor(inst.kind, uuid.Gen(), time.Now())
		inst.failDetail.Store("")
		inst.worker = newWorker(inst.kind, d.store, d.workerTick, d.batchSize)
		go inst.worker.run()
		go d.consume(inst, inst.worker, inst.desc.InstanceID)

		ctxLogger.Infof("triggered %s, instance %s", inst.kind, inst.desc.InstanceID)

	case cur == cm.Quiesced:
		inst.desc.SetState(cm.Active, time.Now())
		inst.worker.resume()

	default:
		// Already active. Same instance id is returned.
	}

	inst.publish()
	return inst.desc.Snapshot(), cm.Ok, ""
}

// applyMutation records the transition and signals the worker. The
// signal is skipped on idempotent retries which do not move the state.
func (d *dispatcher) applyMutation(inst *instance, cur, next cm.State, signal func(*worker)) (cm.Snapshot, cm.ResultCode, string) {
	if next != cur {
		inst.desc.SetState(next, time.Now())
		signal(inst.worker)
		inst.publish()
	}
	return inst.desc.Snapshot(), cm.Ok, ""
}

// replySnapshot renders the snapshot for an error reply without
// touching the descriptor.
func (d *dispatcher) replySnapshot(inst *instance) cm.Snapshot {
	if inst.desc == nil {
		return cm.IdleSnapshot(inst.kind)
	}
	return inst.desc.Snapshot()
}

// consume applies the worker's event stream to the descriptor. Events
// of a superseded run are dropped: after a reap the instance id no
// longer matches.
func (d *dispatcher) consume(inst *instance, w *worker, instanceID string) {
	ctxLogger := mlog.GetMethodLogger(logger, "dispatcher.consume")

	for ev := range w.events() {
		inst.lockWait()

		if inst.desc == nil || inst.desc.InstanceID != instanceID {
			inst.unlock()
			continue
		}

		next, ok := cm.Advance(inst.desc.State, ev.Type)
		if ok == false {
			inst.unlock()
			continue
		}

		switch ev.Type {
		case cm.EventProgress:
			inst.desc.Progress.Add(ev.Delta)
		case cm.EventFailed:
			inst.failDetail.Store(ev.Err)
			inst.desc.SetState(next, time.Now())
			ctxLogger.Errorf("%s instance %s failed: %s", inst.kind, instanceID, ev.Err)
		default:
			inst.desc.SetState(next, time.Now())
		}

		inst.publish()
		inst.unlock()
	}
}

// archived returns the stored snapshots of finished runs.
func (d *dispatcher) archived(kind cm.Kind) ([]cm.Snapshot, error) {
	if kind.Valid() == false {
		return nil, errors.New("unknown operation kind")
	}
	return d.store.ArchivedDescriptors(kind)
}
