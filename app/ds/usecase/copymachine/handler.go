package copymachine

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/venkuppu-chn/cortx/pkg/cm"
	"github.com/venkuppu-chn/cortx/pkg/cortxrpc"
	"github.com/venkuppu-chn/cortx/pkg/topology"
	"github.com/venkuppu-chn/cortx/pkg/util/config"
	"github.com/venkuppu-chn/cortx/pkg/util/mlog"
)

var logger *logrus.Entry = mlog.GetPackageLogger("app/ds/usecase/copymachine")

type handlers struct {
	catalog    *cortxrpc.Catalog
	dispatcher *dispatcher
}

// NewHandlers creates copy-machine handlers with necessary dependencies.
func NewHandlers(cfg *config.Ds, catalog *cortxrpc.Catalog, topo topology.Service, store Repository) (Handlers, error) {
	logger = mlog.GetPackageLogger("app/ds/usecase/copymachine")

	if catalog == nil {
		return nil, errors.New("invalid nil catalog")
	}

	d, err := newDispatcher(cfg, topo, store)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create control dispatcher")
	}

	return &handlers{
		catalog:    catalog,
		dispatcher: d,
	}, nil
}

// apply validates the request against the catalog before any state
// lookup, then hands it to the dispatcher.
func (h *handlers) apply(declared cm.Kind, verb cm.Verb, reqKind cm.Kind) (cm.Snapshot, cm.ResultCode, string) {
	if _, ok := h.catalog.Lookup(declared, verb); ok == false {
		return cm.IdleSnapshot(declared), cm.UnsupportedKind, "verb not in catalog"
	}
	if reqKind != declared {
		return cm.IdleSnapshot(declared), cm.UnsupportedKind, "kind does not match opcode"
	}
	return h.dispatcher.Apply(declared, verb)
}

// RepairTrigger starts or resumes the repair operation.
func (h *handlers) RepairTrigger(req *cortxrpc.DCMTriggerRequest, res *cortxrpc.DCMTriggerResponse) error {
	snap, rc, detail := h.apply(cm.Repair, cm.Trigger, req.Kind)
	fillTriggerResponse(req.CorrelationID, snap, rc, detail, res)
	return nil
}

// RepairQuiesce pauses the repair operation at a safe checkpoint.
func (h *handlers) RepairQuiesce(req *cortxrpc.DCMQuiesceRequest, res *cortxrpc.DCMQuiesceResponse) error {
	snap, rc, detail := h.apply(cm.Repair, cm.Quiesce, req.Kind)
	fillQuiesceResponse(req.CorrelationID, snap, rc, detail, res)
	return nil
}

// RepairStatus queries repair state and progress.
func (h *handlers) RepairStatus(req *cortxrpc.DCMStatusRequest, res *cortxrpc.DCMStatusResponse) error {
	snap, rc, detail := h.apply(cm.Repair, cm.Status, req.Kind)
	fillStatusResponse(req.CorrelationID, snap, rc, detail, res)
	return nil
}

// RepairAbort hard-stops the repair operation.
func (h *handlers) RepairAbort(req *cortxrpc.DCMAbortRequest, res *cortxrpc.DCMAbortResponse) error {
	snap, rc, detail := h.apply(cm.Repair, cm.Abort, req.Kind)
	fillAbortResponse(req.CorrelationID, snap, rc, detail, res)
	return nil
}

// RebalanceTrigger starts or resumes the rebalance operation.
func (h *handlers) RebalanceTrigger(req *cortxrpc.DCMTriggerRequest, res *cortxrpc.DCMTriggerResponse) error {
	snap, rc, detail := h.apply(cm.Rebalance, cm.Trigger, req.Kind)
	fillTriggerResponse(req.CorrelationID, snap, rc, detail, res)
	return nil
}

// RebalanceQuiesce pauses the rebalance operation at a safe checkpoint.
func (h *handlers) RebalanceQuiesce(req *cortxrpc.DCMQuiesceRequest, res *cortxrpc.DCMQuiesceResponse) error {
	snap, rc, detail := h.apply(cm.Rebalance, cm.Quiesce, req.Kind)
	fillQuiesceResponse(req.CorrelationID, snap, rc, detail, res)
	return nil
}

// RebalanceStatus queries rebalance state and progress.
func (h *handlers) RebalanceStatus(req *cortxrpc.DCMStatusRequest, res *cortxrpc.DCMStatusResponse) error {
	snap, rc, detail := h.apply(cm.Rebalance, cm.Status, req.Kind)
	fillStatusResponse(req.CorrelationID, snap, rc, detail, res)
	return nil
}

// RebalanceAbort hard-stops the rebalance operation.
func (h *handlers) RebalanceAbort(req *cortxrpc.DCMAbortRequest, res *cortxrpc.DCMAbortResponse) error {
	snap, rc, detail := h.apply(cm.Rebalance, cm.Abort, req.Kind)
	fillAbortResponse(req.CorrelationID, snap, rc, detail, res)
	return nil
}

func fillTriggerResponse(correlationID string, snap cm.Snapshot, rc cm.ResultCode, detail string, res *cortxrpc.DCMTriggerResponse) {
	res.CorrelationID = correlationID
	res.Result = rc
	res.InstanceID = snap.InstanceID
	res.State = snap.State
	res.Progress = snap.Progress
	res.StartedAt = snap.StartedAt
	res.ErrDetail = detail
}

func fillQuiesceResponse(correlationID string, snap cm.Snapshot, rc cm.ResultCode, detail string, res *cortxrpc.DCMQuiesceResponse) {
	res.CorrelationID = correlationID
	res.Result = rc
	res.InstanceID = snap.InstanceID
	res.State = snap.State
	res.Progress = snap.Progress
	res.StartedAt = snap.StartedAt
	res.ErrDetail = detail
}

func fillStatusResponse(correlationID string, snap cm.Snapshot, rc cm.ResultCode, detail string, res *cortxrpc.DCMStatusResponse) {
	res.CorrelationID = correlationID
	res.Result = rc
	res.InstanceID = snap.InstanceID
	res.State = snap.State
	res.Progress = snap.Progress
	res.StartedAt = snap.StartedAt
	res.ErrDetail = detail
}

func fillAbortResponse(correlationID string, snap cm.Snapshot, rc cm.ResultCode, detail string, res *cortxrpc.DCMAbortResponse) {
	res.CorrelationID = correlationID
	res.Result = rc
	res.InstanceID = snap.InstanceID
	res.State = snap.State
	res.Progress = snap.Progress
	res.StartedAt = snap.StartedAt
	res.ErrDetail = detail
}

// Handlers is the interface that provides copy-machine rpc handlers
// and the read-only status aggregation.
type Handlers interface {
	RepairTrigger(req *cortxrpc.DCMTriggerRequest, res *cortxrpc.DCMTriggerResponse) error
	RepairQuiesce(req *cortxrpc.DCMQuiesceRequest, res *cortxrpc.DCMQuiesceResponse) error
	RepairStatus(req *cortxrpc.DCMStatusRequest, res *cortxrpc.DCMStatusResponse) error
	RepairAbort(req *cortxrpc.DCMAbortRequest, res *cortxrpc.DCMAbortResponse) error
	RebalanceTrigger(req *cortxrpc.DCMTriggerRequest, res *cortxrpc.DCMTriggerResponse) error
	RebalanceQuiesce(req *cortxrpc.DCMQuiesceRequest, res *cortxrpc.DCMQuiesceResponse) error
	RebalanceStatus(req *cortxrpc.DCMStatusRequest, res *cortxrpc.DCMStatusResponse) error
	RebalanceAbort(req *cortxrpc.DCMAbortRequest, res *cortxrpc.DCMAbortResponse) error

	Aggregator
}
