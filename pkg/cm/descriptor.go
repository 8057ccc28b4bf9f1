package cm

import "time"

// Progress holds the counters of one operation instance. Counters only
// grow for the lifetime of an instance.
type Progress struct {
	ObjectsScanned  uint64
	ObjectsRepaired uint64
	BytesMoved      uint64
	Errors          uint64
}

// Add accumulates a progress delta.
func (p *Progress) Add(d Progress) {
	p.ObjectsScanned += d.ObjectsScanned
	p.ObjectsRepaired += d.ObjectsRepaired
	p.BytesMoved += d.BytesMoved
	p.Errors += d.Errors
}

// Descriptor is the authoritative record of one repair or rebalance
// run on one node. It is owned by the control dispatcher and mutated
// only under its exclusion discipline.
type Descriptor struct {
	Kind       Kind
	InstanceID string
	State      State
	Progress   Progress

	StartedAt        time.Time
	LastTransitionAt time.Time
}

// NewDescriptor creates a descriptor for a fresh run.
func NewDescriptor(kind Kind, instanceID string, now time.Time) *Descriptor {
	return &Descriptor{
		Kind:             kind,
		InstanceID:       instanceID,
		State:            Active,
		StartedAt:        now,
		LastTransitionAt: now,
	}
}

// SetState records a state transition.
func (d *Descriptor) SetState(s State, now time.Time) {
	d.State = s
	d.LastTransitionAt = now
}

// Snapshot renders a point-in-time copy of the descriptor. The copy is
// immutable and safe to hand out without further locking.
func (d *Descriptor) Snapshot() Snapshot {
	return Snapshot{
		Kind:             d.Kind,
		InstanceID:       d.InstanceID,
		State:            d.State,
		Progress:         d.Progress,
		StartedAt:        d.StartedAt,
		LastTransitionAt: d.LastTransitionAt,
	}
}

// Snapshot is the state and progress of an instance as observed at one
// point in time. Every control reply carries one.
type Snapshot struct {
	Kind       Kind
	InstanceID string
	State      State
	Progress   Progress

	StartedAt        time.Time
	LastTransitionAt time.Time
}

// IdleSnapshot is the snapshot reported for a kind that has never been
// triggered: state idle, zeroed counters.
func IdleSnapshot(kind Kind) Snapshot {
	return Snapshot{Kind: kind, State: Idle}
}
