package delivery

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/venkuppu-chn/cortx/app/ds/usecase/copymachine"
	"github.com/venkuppu-chn/cortx/pkg/cm"
)

// snapshotView is the json rendering of one status snapshot.
type snapshotView struct {
	Kind             string    `json:"kind"`
	InstanceID       string    `json:"instance_id,omitempty"`
	State            string    `json:"state"`
	ObjectsScanned   uint64    `json:"objects_scanned"`
	ObjectsRepaired  uint64    `json:"objects_repaired"`
	BytesMoved       uint64    `json:"bytes_moved"`
	Errors           uint64    `json:"errors"`
	StartedAt        time.Time `json:"started_at,omitempty"`
	LastTransitionAt time.Time `json:"last_transition_at,omitempty"`
}

func makeView(s cm.Snapshot) snapshotView {
	return snapshotView{
		Kind:             s.Kind.String(),
		InstanceID:       s.InstanceID,
		State:            s.State.String(),
		ObjectsScanned:   s.Progress.ObjectsScanned,
		ObjectsRepaired:  s.Progress.ObjectsRepaired,
		BytesMoved:       s.Progress.BytesMoved,
		Errors:           s.Progress.Errors,
		StartedAt:        s.StartedAt,
		LastTransitionAt: s.LastTransitionAt,
	}
}

func makeHandler(agg copymachine.Aggregator) http.Handler {
	r := mux.NewRouter()

	// Read-only status routes.
	r.Methods("GET").Path("/v1/copymachine").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		views := make([]snapshotView, 0)
		for _, s := range agg.CurrentAll() {
			views = append(views, makeView(s))
		}
		writeJSON(w, http.StatusOK, views)
	})

	cr := r.PathPrefix("/v1/copymachine").Subrouter()

	cr.Methods("GET").Path("/{kind}").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kind, err := cm.ParseKind(mux.Vars(r)["kind"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		snap, rc, _ := agg.Current(kind)
		status := http.StatusOK
		if rc == cm.NotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, makeView(snap))
	})

	cr.Methods("GET").Path("/{kind}/history").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kind, err := cm.ParseKind(mux.Vars(r)["kind"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		snaps, err := agg.History(kind)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		views := make([]snapshotView, 0, len(snaps))
		for _, s := range snaps {
			views = append(views, makeView(s))
		}
		writeJSON(w, http.StatusOK, views)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// controlTypeBytes returns rpc type bytes which is used to multiplexing.
func controlTypeBytes() []byte {
	return []byte{
		0x02, // rpcControl
	}
}

// httpTypeBytes returns type bytes which is used to multiplexing.
func httpTypeBytes() []byte {
	return []byte{
		0x44, // 'D' of DELETE
		0x47, // 'G' of GET
		0x50, // 'P' of POST, PUT
	}
}
