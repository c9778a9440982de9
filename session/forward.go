package session

import (
	"context"
	"fmt"

	"github.com/ilnpnet/ilnpv6/wire"
)

// forward relays a data packet this node isn't the destination of, the Go
// analogue of overlay_handlers.rs's handle_router_forward: try the
// destination locator as a directly-connected network first, otherwise
// discover a next-hop router and hand the packet to it. The header and
// payload are forwarded unchanged; hop accounting lives entirely in the
// RREQ/RRES hop count and AD_MAX_HOPS, not in the data packet itself.
func (s *Session) forward(ctx context.Context, header wire.Header, payload []byte) error {
	if name, err := s.Engine.InterfaceByLocator(header.DestinationLocator); err == nil {
		addr, port, err := s.Engine.ResolveNID(ctx, header.DestinationNID, name)
		if err != nil {
			return fmt.Errorf("forward: directly-connected locator 0x%016X: %w", header.DestinationLocator, err)
		}
		return s.Engine.UniSend(addr, port, append(header.Encode(), payload...))
	}

	entry, err := s.Engine.DiscoverPath(ctx, "", header.DestinationLocator, 0)
	if err != nil {
		return fmt.Errorf("forward: %w", err)
	}

	addr, port, err := s.Engine.ResolveNID(ctx, entry.NextHopNID, entry.Interface)
	if err != nil {
		return fmt.Errorf("forward: next hop 0x%016X: %w", entry.NextHopNID, err)
	}

	return s.Engine.UniSend(addr, port, append(header.Encode(), payload...))
}
