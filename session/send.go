package session

import (
	"context"
	"fmt"
	"net"

	"github.com/ilnpnet/ilnpv6/cache"
	"github.com/ilnpnet/ilnpv6/pcb"
	"github.com/ilnpnet/ilnpv6/wire"
)

// nextHop is the resolved destination of one outbound JTP packet.
type nextHop struct {
	address            net.IP
	port               uint16
	sourceLocator      uint64
	destinationNID     uint64
	destinationLocator uint64
}

var errUnresolved = fmt.Errorf("session: couldn't resolve host")

// SendNID transmits payload to destinationNID, the Go analogue of
// ilnp_nid_tx: try every connected interface for direct address resolution
// first, then fall back to ILV resolution plus forwarding-table/path
// discovery for a router to hand the packet to.
func (s *Session) SendNID(ctx context.Context, destinationNID uint64, payload []byte) error {
	hop, err := s.resolveNextHopByNID(ctx, destinationNID)
	if err != nil {
		return err
	}
	return s.transmit(hop, payload)
}

// SendFQDN transmits payload to destinationFQDN, the Go analogue of
// ilnp_fqdn_tx: resolve the FQDN to its (NID, locator) candidates, then try
// direct reachability, a cached route, and finally path discovery for each
// candidate in turn.
func (s *Session) SendFQDN(ctx context.Context, destinationFQDN string, payload []byte) error {
	entries, err := s.Engine.ResolveFQDN(ctx, destinationFQDN)
	if err != nil {
		return err
	}

	hop, err := s.resolveNextHopByEntries(ctx, entries)
	if err != nil {
		return err
	}
	return s.transmit(hop, payload)
}

func (s *Session) resolveNextHopByNID(ctx context.Context, destinationNID uint64) (nextHop, error) {
	for name, iface := range s.Engine.Interfaces() {
		addr, port, err := s.Engine.ResolveNID(ctx, destinationNID, name)
		if err == nil {
			return nextHop{addr, port, iface.Locator, destinationNID, iface.Locator}, nil
		}
	}

	ilvEntries, err := s.Engine.ResolveILV(ctx, destinationNID)
	if err != nil {
		return nextHop{}, err
	}

	entries := make([]cache.NameILVEntry, len(ilvEntries))
	for i, e := range ilvEntries {
		entries[i] = cache.NameILVEntry{NID: e.NID, Locator: e.Locator}
	}
	return s.resolveNextHopByEntries(ctx, entries)
}

// resolveNextHopByEntries tries, in order: direct reachability on an
// interface already connected to the candidate's locator, a cached
// forwarding-table route, then on-demand path discovery — stopping at the
// first candidate that resolves.
func (s *Session) resolveNextHopByEntries(ctx context.Context, entries []cache.NameILVEntry) (nextHop, error) {
	for _, e := range entries {
		if name, err := s.Engine.InterfaceByLocator(e.Locator); err == nil {
			if iface, ierr := s.Engine.InterfaceByName(name); ierr == nil {
				if addr, port, err := s.Engine.ResolveNID(ctx, e.NID, name); err == nil {
					return nextHop{addr, port, iface.Locator, e.NID, e.Locator}, nil
				}
			}
		}
	}

	for _, e := range entries {
		if route, ok := s.Engine.Forwarding.Route(e.Locator); ok {
			if iface, err := s.Engine.InterfaceByName(route.Interface); err == nil {
				if addr, port, err := s.Engine.ResolveNID(ctx, route.NextHopNID, route.Interface); err == nil {
					return nextHop{addr, port, iface.Locator, e.NID, e.Locator}, nil
				}
			}
		}
	}

	for _, e := range entries {
		entry, err := s.Engine.DiscoverPath(ctx, "", e.Locator, 0)
		if err != nil {
			continue
		}
		iface, err := s.Engine.InterfaceByName(entry.Interface)
		if err != nil {
			continue
		}
		addr, port, err := s.Engine.ResolveNID(ctx, entry.NextHopNID, entry.Interface)
		if err != nil {
			continue
		}
		return nextHop{addr, port, iface.Locator, e.NID, e.Locator}, nil
	}

	return nextHop{}, errUnresolved
}

func (s *Session) transmit(hop nextHop, payload []byte) error {
	header := wire.Header{
		Version:            6,
		NextHeader:         wire.NextHeaderJTP,
		HopLimit:           1,
		PayloadLength:      uint16(len(payload)),
		SourceLocator:      hop.sourceLocator,
		SourceNID:          s.Engine.Local.NID,
		DestinationLocator: hop.destinationLocator,
		DestinationNID:     hop.destinationNID,
	}

	buf := append(header.Encode(), payload...)
	if err := s.Engine.UniSend(hop.address, hop.port, buf); err != nil {
		return err
	}
	s.Engine.PCB.Incr(pcb.DataRequestTx)
	return nil
}
