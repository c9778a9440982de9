// Package session exposes the public ILNPv6 session API: Open, Close, Recv,
// and the NID/FQDN send operations, plus the receive pipeline that feeds
// them (spec.md §4.14): two goroutines, a multicast reader and a unicast
// reader that handles each datagram inline. There is no queue between the
// unicast reader and its handling, so the socket is not read while a
// datagram is being delivered or forwarded. It is the Go analogue of
// jtp_network/mod.rs and overlay_network/mod.rs's open_ilnp_socket, rebuilt
// on golang.org/x/sync/errgroup and context.Context in place of the
// original's tokio::spawn/tokio::select! tasks, following the shape of the
// teacher's Responder.Run/receive pair.
package session

import (
	"context"
	"fmt"

	"github.com/dogmatiq/dodeca/logging"
	"golang.org/x/sync/errgroup"

	"github.com/ilnpnet/ilnpv6/clock"
	"github.com/ilnpnet/ilnpv6/config"
	"github.com/ilnpnet/ilnpv6/ifaceenum"
	"github.com/ilnpnet/ilnpv6/overlay"
)

// Packet is a received JTP data packet, the Go analogue of JTPResponse.
type Packet struct {
	SourceLocator      uint64
	SourceNID          uint64
	DestinationLocator uint64
	DestinationNID     uint64
	Payload            []byte
}

// Session is one node's open ILNPv6 session.
type Session struct {
	Engine *overlay.Engine

	recv   chan Packet
	cancel context.CancelFunc
	group  *errgroup.Group
	done   chan struct{}
}

// Open resolves the named underlying interface, opens the underlay sockets,
// and starts the receive pipeline. ifaceName is the physical/virtual
// interface the emulator runs over (e.g. "eth0"), distinct from the
// logical overlay network names ("multi0", "dns", "log") Engine registers.
func Open(ctx context.Context, cfg *config.Config, ifaceName string, logger logging.Logger) (*Session, error) {
	local, err := ifaceenum.Lookup(ifaceName, cfg.Node.NID, cfg.Node.FQDN())
	if err != nil {
		return nil, fmt.Errorf("session.Open: %w", err)
	}

	engine := overlay.New(cfg, local, logger)
	engine.PCB.SetStart(clock.NowMicros())

	if err := engine.Open(ctx); err != nil {
		return nil, fmt.Errorf("session.Open: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	g, runCtx := errgroup.WithContext(runCtx)

	s := &Session{
		Engine: engine,
		recv:   make(chan Packet, 100),
		cancel: cancel,
		group:  g,
		done:   make(chan struct{}),
	}

	g.Go(func() error { return s.receiveMulticast(runCtx) })
	g.Go(func() error { return s.receiveUnicast(runCtx) })

	go func() {
		_ = g.Wait()
		close(s.done)
	}()

	return s, nil
}

// Close stops the receive pipeline, emits the session's PCB to the log
// group tagged with topologyTag, and releases the underlay sockets.
func (s *Session) Close(topologyTag string) error {
	s.cancel()
	<-s.done

	s.Engine.EmitPCB(topologyTag)
	return s.Engine.Close()
}

// Recv waits for the next data packet delivered to this node.
//
//   - timeoutMillis < 0: block until a packet arrives or ctx is canceled.
//   - timeoutMillis == 0: poll — return immediately, even if empty.
//   - timeoutMillis > 0: wait up to that many milliseconds.
func (s *Session) Recv(ctx context.Context, timeoutMillis int64) (Packet, error) {
	if timeoutMillis == 0 {
		select {
		case p := <-s.recv:
			return p, nil
		default:
			return Packet{}, fmt.Errorf("session.Recv: no packets")
		}
	}

	if timeoutMillis < 0 {
		select {
		case p := <-s.recv:
			return p, nil
		case <-ctx.Done():
			return Packet{}, ctx.Err()
		}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, millis(timeoutMillis))
	defer cancel()
	select {
	case p := <-s.recv:
		return p, nil
	case <-timeoutCtx.Done():
		if ctx.Err() != nil {
			return Packet{}, ctx.Err()
		}
		return Packet{}, fmt.Errorf("session.Recv: timed out")
	}
}

func (s *Session) deliver(p Packet) {
	select {
	case s.recv <- p:
	default:
		s.Engine.LogDrop("Recv queue full, dropping packet")
	}
}
