package overlay

import (
	"context"
	"net"
	"time"

	"github.com/ilnpnet/ilnpv6/cache"
	"github.com/ilnpnet/ilnpv6/pcb"
	"github.com/ilnpnet/ilnpv6/wire"
)

// HandleMulticast parses an ILNPv6 header off buf and, if it carries a JCMP
// payload destined for a locator this node is actually connected to,
// dispatches it. The locator filter exists because IPV6_MULTICAST_LOOP
// delivers every co-resident node's traffic to every socket on the host;
// without it a node would process control packets meant for a sibling
// process on the same machine. It is the Go analogue of
// overlay_handlers.rs's handle_ilnp_multicast_buffer.
func (e *Engine) HandleMulticast(ctx context.Context, buf []byte, src *net.UDPAddr) {
	nextHeader, ok := headerNextHeader(buf)
	if !ok || nextHeader != wire.NextHeaderJCMP {
		return
	}

	header, err := wire.DecodeHeader(buf)
	if err != nil {
		e.logError("HandleMulticast(): failed to parse ILNP header: " + err.Error())
		return
	}

	connected := false
	for _, locator := range e.Locators() {
		if locator == header.DestinationLocator {
			connected = true
			break
		}
	}
	if !connected {
		return
	}

	if len(buf) < wire.HeaderLength+1 {
		e.logError("HandleMulticast(): received invalid JCMP packet: missing code")
		return
	}

	msg, err := wire.DecodeJCMP(buf[wire.HeaderLength:])
	if err != nil {
		e.logError("HandleMulticast(): " + err.Error())
		return
	}

	e.dispatchJCMP(ctx, header, src.IP, msg)
}

func (e *Engine) dispatchJCMP(ctx context.Context, header wire.Header, sourceAddress net.IP, msg wire.Message) {
	switch m := msg.(type) {
	case wire.Solicitation:
		e.handleSolicitation(header)

	case wire.Advertisement:
		e.handleAdvertisement(header, sourceAddress, m)

	case wire.FQDNQuery:
		e.handleFQDNQuery(header, m)

	case wire.FQDNResponse:
		e.handleFQDNResponse(header, m)

	case wire.ILVQuery:
		e.handleILVQuery(header)

	case wire.ILVResponse:
		e.handleILVResponse(header, m)

	case wire.RouterRequest:
		e.handleRouterRequest(ctx, header, m)

	case wire.RouterResponse:
		e.handleRouterResponse(header, m)
	}
}

func (e *Engine) handleSolicitation(header wire.Header) {
	if header.DestinationNID != e.Local.NID || header.SourceNID == e.Local.NID {
		return
	}
	e.PCB.Incr(pcb.NDSolicitationRx)

	ifaceName, err := e.InterfaceByLocator(header.DestinationLocator)
	if err != nil {
		e.logError(err.Error())
		return
	}
	if err := e.TxAdvertisement(header.SourceNID, ifaceName); err != nil {
		e.logError(err.Error())
	}
}

func (e *Engine) handleAdvertisement(header wire.Header, sourceAddress net.IP, m wire.Advertisement) {
	if header.SourceNID == e.Local.NID {
		return
	}
	e.PCB.Incr(pcb.NDAdvertisementRx)

	ifaceName, err := e.InterfaceByLocator(header.SourceLocator)
	if err != nil {
		e.logError(err.Error())
		return
	}

	e.Neighbor.Insert(header.SourceNID,
		cache.NeighborEntry{Interface: ifaceName, Address: sourceAddress.String(), Port: m.DestinationPort},
		time.Duration(e.Config.Network.NDTTLS)*time.Second,
	)
}

func (e *Engine) handleFQDNQuery(header wire.Header, m wire.FQDNQuery) {
	if header.SourceNID == e.Local.NID {
		return
	}
	e.PCB.Incr(pcb.DNSFQDNQueryRx)

	if m.FQDN != e.Config.Node.FQDN() {
		return
	}
	if err := e.TxFQDNResponse(header.SourceNID); err != nil {
		e.logError(err.Error())
	}
}

func (e *Engine) handleFQDNResponse(header wire.Header, m wire.FQDNResponse) {
	if header.SourceNID == e.Local.NID {
		return
	}
	e.PCB.Incr(pcb.DNSFQDNResponseRx)

	e.Names.Insert(m.FQDN, header.SourceNID, header.SourceLocator, time.Duration(m.TTL)*time.Second)
}

func (e *Engine) handleILVQuery(header wire.Header) {
	if header.DestinationNID != e.Local.NID || header.SourceNID == e.Local.NID {
		return
	}
	e.PCB.Incr(pcb.DNSILVQueryRx)

	if err := e.TxILVResponse(header.SourceNID); err != nil {
		e.logError(err.Error())
	}
}

func (e *Engine) handleILVResponse(header wire.Header, m wire.ILVResponse) {
	if header.SourceNID == e.Local.NID {
		return
	}
	e.PCB.Incr(pcb.DNSILVResponseRx)

	e.NIDs.Insert(header.SourceNID, header.SourceLocator, time.Duration(m.TTL)*time.Second)
}

func (e *Engine) handleRouterRequest(ctx context.Context, header wire.Header, m wire.RouterRequest) {
	if header.SourceNID == e.Local.NID || !e.Config.Node.Router {
		return
	}
	e.PCB.Incr(pcb.RouterRequestRx)

	if m.HopCount > e.Config.Network.ADMaxHops {
		return
	}

	sourceInterface, err := e.InterfaceByLocator(header.SourceLocator)
	if err != nil {
		e.logError(err.Error())
		return
	}

	if _, err := e.InterfaceByLocator(m.DestinationLocator); err == nil {
		_ = e.TxRouterResponse(m.DestinationLocator, header.SourceNID, sourceInterface, 1)
		return
	}

	entry, err := e.DiscoverPath(ctx, sourceInterface, m.DestinationLocator, m.HopCount+1)
	if err != nil {
		e.logError(err.Error())
		return
	}
	_ = e.TxRouterResponse(m.DestinationLocator, header.SourceNID, sourceInterface, entry.HopCount+1)
}

func (e *Engine) handleRouterResponse(header wire.Header, m wire.RouterResponse) {
	if header.SourceNID == e.Local.NID {
		return
	}
	e.PCB.Incr(pcb.RouterResponseRx)

	ifaceName, err := e.InterfaceByLocator(header.SourceLocator)
	if err != nil {
		e.logError(err.Error())
		return
	}

	if existing, ok := e.Forwarding.Lookup(header.SourceNID, m.DestinationLocator); ok && existing.HopCount <= m.HopCount {
		return
	}

	e.Forwarding.Insert(cache.ForwardingEntry{
		NextHopNID: header.SourceNID,
		Locator:    m.DestinationLocator,
		Interface:  ifaceName,
		HopCount:   m.HopCount,
	}, time.Duration(m.TTL)*time.Second)
}
