package cortxrpc

import (
	"github.com/venkuppu-chn/cortx/pkg/cm"
)

// CatalogEntry describes one control message pair: the request verb
// for one operation kind, the rpc method that carries it, and its
// retry contract.
type CatalogEntry struct {
	Kind   cm.Kind
	Verb   cm.Verb
	Method MethodName

	// Mutating marks verbs which may move the state machine.
	Mutating bool
	// Idempotent marks verbs which are safe to retry on timeout.
	// Every control verb is; status additionally has no side effect
	// at all.
	Idempotent bool
}

// Catalog is the closed set of control message pairs a node serves.
// It is built once at process start and passed by reference to the
// delivery service and to clients; there is no ambient global table.
type Catalog struct {
	entries map[cm.Kind]map[cm.Verb]CatalogEntry
	order   []CatalogEntry
}

// NewCatalog builds the catalog of every (kind, verb) pair.
func NewCatalog() *Catalog {
	c := &Catalog{
		entries: make(map[cm.Kind]map[cm.Verb]CatalogEntry),
	}

	add := func(k cm.Kind, v cm.Verb, m MethodName) {
		e := CatalogEntry{
			Kind:       k,
			Verb:       v,
			Method:     m,
			Mutating:   v != cm.Status,
			Idempotent: true,
		}
		if c.entries[k] == nil {
			c.entries[k] = make(map[cm.Verb]CatalogEntry)
		}
		c.entries[k][v] = e
		c.order = append(c.order, e)
	}

	add(cm.Repair, cm.Trigger, DsRepairTrigger)
	add(cm.Repair, cm.Quiesce, DsRepairQuiesce)
	add(cm.Repair, cm.Status, DsRepairStatus)
	add(cm.Repair, cm.Abort, DsRepairAbort)
	add(cm.Rebalance, cm.Trigger, DsRebalanceTrigger)
	add(cm.Rebalance, cm.Quiesce, DsRebalanceQuiesce)
	add(cm.Rebalance, cm.Status, DsRebalanceStatus)
	add(cm.Rebalance, cm.Abort, DsRebalanceAbort)

	return c
}

// Lookup finds the entry for the given kind and verb.
func (c *Catalog) Lookup(k cm.Kind, v cm.Verb) (CatalogEntry, bool) {
	verbs, ok := c.entries[k]
	if ok == false {
		return CatalogEntry{}, false
	}
	e, ok := verbs[v]
	return e, ok
}

// Entries returns every catalog entry in registration order.
func (c *Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(c.order))
	copy(out, c.order)
	return out
}
