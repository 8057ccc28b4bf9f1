package copymachine

import (
	"github.com/venkuppu-chn/cortx/pkg/cm"
)

// Aggregator is the read-only view of the node's copy machines. It
// never mutates state; every snapshot it returns is a consistent
// point-in-time record.
type Aggregator interface {
	// Current returns the snapshot of the given kind. NotFound with
	// an idle, zeroed snapshot when the kind was never triggered.
	Current(kind cm.Kind) (cm.Snapshot, cm.ResultCode, string)

	// CurrentAll returns the snapshot of every kind.
	CurrentAll() []cm.Snapshot

	// History returns the archived snapshots of finished runs of the
	// given kind, oldest first.
	History(kind cm.Kind) ([]cm.Snapshot, error)
}

func (h *handlers) Current(kind cm.Kind) (cm.Snapshot, cm.ResultCode, string) {
	if kind.Valid() == false {
		return cm.IdleSnapshot(kind), cm.UnsupportedKind, "unknown operation kind"
	}
	return h.dispatcher.status(h.dispatcher.instances[kind])
}

func (h *handlers) CurrentAll() []cm.Snapshot {
	snaps := make([]cm.Snapshot, 0, len(cm.Kinds()))
	for _, k := range cm.Kinds() {
		snap, _, _ := h.Current(k)
		snaps = append(snaps, snap)
	}
	return snaps
}

func (h *handlers) History(kind cm.Kind) ([]cm.Snapshot, error) {
	return h.dispatcher.archived(kind)
}
