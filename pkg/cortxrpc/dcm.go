package cortxrpc

import (
	"time"

	"github.com/venkuppu-chn/cortx/pkg/cm"
)

// DCMTriggerRequest requests to start the operation of the given kind,
// or to resume a quiesced one. Retrying a trigger against an already
// running operation is a no-op which returns the running instance.
type DCMTriggerRequest struct {
	Kind          cm.Kind
	CorrelationID string
}

// DCMTriggerResponse responses the result of trigger.
type DCMTriggerResponse struct {
	CorrelationID string
	Result        cm.ResultCode
	InstanceID    string
	State         cm.State
	Progress      cm.Progress
	StartedAt     time.Time
	ErrDetail     string
}

// DCMQuiesceRequest requests a graceful pause of the running operation
// at its next safe checkpoint.
type DCMQuiesceRequest struct {
	Kind          cm.Kind
	CorrelationID string
}

// DCMQuiesceResponse responses the resulting state of quiesce.
type DCMQuiesceResponse struct {
	CorrelationID string
	Result        cm.ResultCode
	InstanceID    string
	State         cm.State
	Progress      cm.Progress
	StartedAt     time.Time
	ErrDetail     string
}

// DCMStatusRequest queries state and progress of the operation.
// Read-only and always safe to repeat.
type DCMStatusRequest struct {
	Kind          cm.Kind
	CorrelationID string
}

// DCMStatusResponse carries the full status snapshot.
type DCMStatusResponse struct {
	CorrelationID string
	Result        cm.ResultCode
	InstanceID    string
	State         cm.State
	Progress      cm.Progress
	StartedAt     time.Time
	ErrDetail     string
}

// DCMAbortRequest requests a hard stop of the operation.
type DCMAbortRequest struct {
	Kind          cm.Kind
	CorrelationID string
}

// DCMAbortResponse responses the resulting state of abort.
type DCMAbortResponse struct {
	CorrelationID string
	Result        cm.ResultCode
	InstanceID    string
	State         cm.State
	Progress      cm.Progress
	StartedAt     time.Time
	ErrDetail     string
}
