package cli

import (
	"fmt"
	"log"
	"net/rpc"
	"time"

	"github.com/venkuppu-chn/cortx/pkg/cm"
	"github.com/venkuppu-chn/cortx/pkg/cortxrpc"
	"github.com/venkuppu-chn/cortx/pkg/util/uuid"
)

// sendControl issues one control verb against the ds of the given
// address and prints the reply snapshot.
func sendControl(addr, port string, kind cm.Kind, verb cm.Verb) {
	catalog := cortxrpc.NewCatalog()
	entry, ok := catalog.Lookup(kind, verb)
	if ok == false {
		log.Fatalf("no control message pair for %s %s", kind, verb)
	}

	conn, err := cortxrpc.Dial(addr+":"+port, cortxrpc.RPCControl, time.Duration(2*time.Second))
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	cli := rpc.NewClient(conn)
	corrID := uuid.Gen()

	switch verb {
	case cm.Trigger:
		req := &cortxrpc.DCMTriggerRequest{Kind: kind, CorrelationID: corrID}
		res := &cortxrpc.DCMTriggerResponse{}
		if err := cli.Call(entry.Method.String(), req, res); err != nil {
			log.Fatal(err)
		}
		printReply(res.Result, res.InstanceID, res.State, res.Progress, res.ErrDetail)

	case cm.Quiesce:
		req := &cortxrpc.DCMQuiesceRequest{Kind: kind, CorrelationID: corrID}
		res := &cortxrpc.DCMQuiesceResponse{}
		if err := cli.Call(entry.Method.String(), req, res); err != nil {
			log.Fatal(err)
		}
		printReply(res.Result, res.InstanceID, res.State, res.Progress, res.ErrDetail)

	case cm.Status:
		req := &cortxrpc.DCMStatusRequest{Kind: kind, CorrelationID: corrID}
		res := &cortxrpc.DCMStatusResponse{}
		if err := cli.Call(entry.Method.String(), req, res); err != nil {
			log.Fatal(err)
		}
		printReply(res.Result, res.InstanceID, res.State, res.Progress, res.ErrDetail)

	case cm.Abort:
		req := &cortxrpc.DCMAbortRequest{Kind: kind, CorrelationID: corrID}
		res := &cortxrpc.DCMAbortResponse{}
		if err := cli.Call(entry.Method.String(), req, res); err != nil {
			log.Fatal(err)
		}
		printReply(res.Result, res.InstanceID, res.State, res.Progress, res.ErrDetail)
	}
}

func printReply(rc cm.ResultCode, instanceID string, state cm.State, p cm.Progress, detail string) {
	fmt.Printf("result: %s\n", rc)
	if instanceID != "" {
		fmt.Printf("instance: %s\n", instanceID)
	}
	fmt.Printf("state: %s\n", state)
	fmt.Printf("scanned: %d repaired: %d moved: %dB errors: %d\n",
		p.ObjectsScanned, p.ObjectsRepaired, p.BytesMoved, p.Errors)
	if detail != "" {
		fmt.Printf("detail: %s\n", detail)
	}
}
