// Command demo runs a small Paxos cluster through a contended round:
// several nodes propose different values at roughly the same time, and the
// run ends by printing what every node learned. Whatever the timing, all
// nodes that learned anything agree.
//
// By default the cluster talks over the simulated in-memory transport; with
// -transport=rpc each node serves net/rpc on its own Unix socket instead.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Felipelussi/paxos/internal/node"
	"github.com/Felipelussi/paxos/internal/paxos"
	"github.com/Felipelussi/paxos/internal/sim"
	"github.com/Felipelussi/paxos/internal/storage"
	"github.com/Felipelussi/paxos/internal/transport"
)

func main() {
	var (
		nodes         = flag.Int("nodes", 3, "cluster size")
		delay         = flag.Duration("delay", 100*time.Millisecond, "simulated per-message latency (memory transport)")
		jitter        = flag.Duration("jitter", 50*time.Millisecond, "random extra latency bound (memory transport)")
		stagger       = flag.Duration("stagger", 500*time.Millisecond, "interval between proposal launches")
		transportKind = flag.String("transport", "memory", "message substrate: memory or rpc")
	)
	flag.Parse()
	if *nodes < 1 {
		log.Fatal("need at least one node")
	}

	switch *transportKind {
	case "memory":
		runMemory(*nodes, *delay, *jitter, *stagger)
	case "rpc":
		runRPC(*nodes, *stagger)
	default:
		log.Fatalf("unknown transport %q", *transportKind)
	}
}

func runMemory(n int, delay, jitter, stagger time.Duration) {
	c := sim.New(delay, jitter, stagger)
	for i := 0; i < n; i++ {
		if _, err := c.CreateNode(nodeID(i)); err != nil {
			log.Fatal(err)
		}
	}
	for i := 0; i < n; i++ {
		if err := c.Submit(nodeID(i), paxos.Value(fmt.Sprintf("value_%c", 'A'+i))); err != nil {
			log.Fatal(err)
		}
	}
	printResults(c.Run())
}

func runRPC(n int, stagger time.Duration) {
	addrs := make(map[string]string, n)
	for i := 0; i < n; i++ {
		addrs[nodeID(i)] = fmt.Sprintf("/tmp/paxos-demo-%d-%d.sock", os.Getpid(), i)
	}
	cluster := make(map[string]*node.Node, n)
	transports := make([]*transport.RPC, 0, n)
	for i := 0; i < n; i++ {
		id := nodeID(i)
		t := transport.NewRPC(id, addrs)
		nd := node.New(id, t, storage.NewMemory())
		t.Register(id, nd)
		cluster[id] = nd
		transports = append(transports, t)
	}
	defer func() {
		for _, t := range transports {
			t.Close()
		}
		for _, a := range addrs {
			os.Remove(a)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			time.Sleep(time.Duration(i) * stagger)
			cluster[nodeID(i)].Propose(paxos.Value(fmt.Sprintf("value_%c", 'A'+i)))
		}(i)
	}
	wg.Wait()
	// No global drain over RPC; give in-flight traffic time to settle.
	time.Sleep(2 * time.Second)

	results := make(map[string]map[paxos.ProposalID]paxos.Value, n)
	for id, nd := range cluster {
		results[id] = nd.Learned()
	}
	printResults(results)
}

func printResults(results map[string]map[paxos.ProposalID]paxos.Value) {
	fmt.Println("final learned values:")
	for id, learned := range results {
		if len(learned) == 0 {
			fmt.Printf("  %s: nothing (contention can starve a round; rerun to see it succeed)\n", id)
			continue
		}
		for pid, v := range learned {
			fmt.Printf("  %s: %s = %q\n", id, pid, v)
		}
	}
}

func nodeID(i int) string {
	return fmt.Sprintf("node%d", i)
}
