package cortxrpc

import (
	"crypto/tls"
	"net"
	"time"

	"github.com/venkuppu-chn/cortx/pkg/security"
)

// DSRPCPrefix is the prefix for calling ds rpc methods.
const DSRPCPrefix = "DS"

// MethodName indicates what procedure will be called.
type MethodName int

const (
	// DS copy-machine methods. Each operation kind carries its own
	// set of control verbs.
	DsRepairTrigger MethodName = iota
	DsRepairQuiesce
	DsRepairStatus
	DsRepairAbort
	DsRebalanceTrigger
	DsRebalanceQuiesce
	DsRebalanceStatus
	DsRebalanceAbort
)

func (m MethodName) String() string {
	switch m {
	case DsRepairTrigger:
		return DSRPCPrefix + "." + "RepairTrigger"
	case DsRepairQuiesce:
		return DSRPCPrefix + "." + "RepairQuiesce"
	case DsRepairStatus:
		return DSRPCPrefix + "." + "RepairStatus"
	case DsRepairAbort:
		return DSRPCPrefix + "." + "RepairAbort"
	case DsRebalanceTrigger:
		return DSRPCPrefix + "." + "RebalanceTrigger"
	case DsRebalanceQuiesce:
		return DSRPCPrefix + "." + "RebalanceQuiesce"
	case DsRebalanceStatus:
		return DSRPCPrefix + "." + "RebalanceStatus"
	case DsRebalanceAbort:
		return DSRPCPrefix + "." + "RebalanceAbort"
	default:
		return "unknown"
	}
}

// RPCType is the first byte of connection and it implies the type of the RPC.
type RPCType byte

const (
	// RPCControl used when copy-machine control connection.
	RPCControl RPCType = 0x02
)

// Dial dials with the given rpc type connection to the address.
func Dial(addr string, rpcType RPCType, timeout time.Duration) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: timeout}

	config := security.DefaultTLSConfig()

	conn, err := tls.DialWithDialer(dialer, "tcp", addr, config)
	if err != nil {
		return nil, err
	}

	// Write RPC header.
	_, err = conn.Write([]byte{
		byte(rpcType),
	})
	if err != nil {
		conn.Close()
		return nil, err
	}
	return conn, err
}
