package cortxrpc

import (
	"testing"

	"github.com/venkuppu-chn/cortx/pkg/cm"
)

func TestCatalogCompleteness(t *testing.T) {
	c := NewCatalog()

	verbs := []cm.Verb{cm.Trigger, cm.Quiesce, cm.Status, cm.Abort}
	for _, k := range cm.Kinds() {
		for _, v := range verbs {
			e, ok := c.Lookup(k, v)
			if ok == false {
				t.Errorf("no catalog entry for %s %s", k, v)
				continue
			}
			if e.Kind != k || e.Verb != v {
				t.Errorf("entry mismatch for %s %s: %+v", k, v, e)
			}
			if e.Idempotent == false {
				t.Errorf("%s %s: every control verb is retry-safe", k, v)
			}
			if (v == cm.Status) == e.Mutating {
				t.Errorf("%s %s: wrong mutating flag %v", k, v, e.Mutating)
			}
		}
	}

	if len(c.Entries()) != len(cm.Kinds())*len(verbs) {
		t.Errorf("expected %d entries, got %d", len(cm.Kinds())*len(verbs), len(c.Entries()))
	}
}

func TestCatalogUnknownKind(t *testing.T) {
	c := NewCatalog()
	if _, ok := c.Lookup(cm.Kind(42), cm.Trigger); ok {
		t.Errorf("expected no entry for unknown kind")
	}
}

func TestMethodNames(t *testing.T) {
	// Each kind carries its own method set; every name routes
	// through the DS rpc prefix.
	testCases := []struct {
		method MethodName
		str    string
	}{
		{DsRepairTrigger, "DS.RepairTrigger"},
		{DsRepairQuiesce, "DS.RepairQuiesce"},
		{DsRepairStatus, "DS.RepairStatus"},
		{DsRepairAbort, "DS.RepairAbort"},
		{DsRebalanceTrigger, "DS.RebalanceTrigger"},
		{DsRebalanceQuiesce, "DS.RebalanceQuiesce"},
		{DsRebalanceStatus, "DS.RebalanceStatus"},
		{DsRebalanceAbort, "DS.RebalanceAbort"},
	}

	for _, c := range testCases {
		if c.method.String() != c.str {
			t.Errorf("expected method name %s, got %s", c.str, c.method.String())
		}
	}

	if MethodName(100).String() != "unknown" {
		t.Errorf("expected unknown method name")
	}
}
