// Package cm holds the pure model of a node-local copy machine: the
// kinds of long-running background operations, their per-instance
// state machine and the progress bookkeeping. It does no I/O; the
// control dispatcher in app/ds drives it.
package cm

import "fmt"

// Kind is the category of background operation a copy machine runs.
type Kind int

const (
	// Repair reconstructs data of a failed storage device.
	Repair Kind = iota
	// Rebalance spreads data onto newly added storage devices.
	Rebalance
)

// Valid reports whether k is a known operation kind.
func (k Kind) Valid() bool {
	return k == Repair || k == Rebalance
}

func (k Kind) String() string {
	switch k {
	case Repair:
		return "repair"
	case Rebalance:
		return "rebalance"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind from its string form.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "repair":
		return Repair, nil
	case "rebalance":
		return Rebalance, nil
	default:
		return Kind(-1), fmt.Errorf("unknown operation kind: %s", s)
	}
}

// Kinds returns every known operation kind.
func Kinds() []Kind {
	return []Kind{Repair, Rebalance}
}
