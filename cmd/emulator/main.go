// Command emulator runs one ILNPv6 node: it loads a YAML config document,
// opens a session on the named OS interface, and blocks until interrupted.
// Driving real traffic through the session (the convergence/throughput/RTT
// test harnesses and the sensor application from the original) is an
// external collaborator's job; this binary only establishes the node and
// keeps it running until interrupted. It does not run the harnesses the
// config's app section selects.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dogmatiq/dodeca/logging"

	"github.com/ilnpnet/ilnpv6/config"
	"github.com/ilnpnet/ilnpv6/session"
)

func main() {
	configPath := flag.String("config", "", "path to the node's YAML configuration")
	ifaceName := flag.String("iface", "eth0", "OS network interface the node binds its sockets to")
	topologyTag := flag.String("topology", "", "identifier attached to this node's PCB when it is emitted on close")
	flag.Parse()

	if *configPath == "" {
		log.Fatal("emulator: -config is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("emulator: %s", err)
	}

	logger := logging.DebugLogger

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sess, err := session.Open(ctx, cfg, *ifaceName, logger)
	if err != nil {
		log.Fatalf("emulator: %s", err)
	}

	logging.Log(logger, "emulator: node %q ready on %s", cfg.Node.Name, *ifaceName)

	<-ctx.Done()

	if err := sess.Close(*topologyTag); err != nil {
		log.Fatalf("emulator: %s", err)
	}
}
