package overlay

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/ilnpnet/ilnpv6/cache"
)

// ResolveNID resolves destinationNID to a reachable (address, port) on
// interfaceName, retrying a Neighbor Solicitation up to
// Network.NDRetransmitLimit times with an Network.NDRTOMS pause between
// attempts. It is the Go analogue of overlay_handlers.rs's
// handle_destination_nid (spec.md §4.8).
func (e *Engine) ResolveNID(ctx context.Context, destinationNID uint64, interfaceName string) (net.IP, uint16, error) {
	for attempt := uint64(0); attempt < e.Config.Network.NDRetransmitLimit; attempt++ {
		if entry, ok := e.Neighbor.Lookup(destinationNID); ok {
			return net.ParseIP(entry.Address), entry.Port, nil
		}

		_ = e.TxSolicitation(destinationNID, interfaceName)

		if err := sleepCtx(ctx, time.Duration(e.Config.Network.NDRTOMS)*time.Millisecond); err != nil {
			return nil, 0, err
		}
	}

	if entry, ok := e.Neighbor.Lookup(destinationNID); ok {
		return net.ParseIP(entry.Address), entry.Port, nil
	}

	return nil, 0, fmt.Errorf("overlay: host 0x%016X unreachable", destinationNID)
}

// ResolveFQDN resolves destinationFQDN to its candidate (NID, locator)
// pairs, retrying a DNS FQDN Query up to Network.NDRetransmitLimit times.
// The name is normalized with dns.Fqdn first, so "node2" and "node2." resolve
// identically. It is the Go analogue of handle_destination_fqdn.
func (e *Engine) ResolveFQDN(ctx context.Context, destinationFQDN string) ([]cache.NameILVEntry, error) {
	destinationFQDN = dns.Fqdn(destinationFQDN)
	for attempt := uint64(0); attempt < e.Config.Network.NDRetransmitLimit; attempt++ {
		if entries := e.Names.LookupFQDN(destinationFQDN); len(entries) > 0 {
			return entries, nil
		}

		_ = e.TxFQDNQuery(destinationFQDN)

		if err := sleepCtx(ctx, time.Duration(e.Config.Network.NDRTOMS)*time.Millisecond); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("overlay: could not establish %s's locator and identifier", destinationFQDN)
}

// ResolveILV resolves destinationNID to its candidate locators, retrying a
// DNS ILV Query up to Network.NDRetransmitLimit times. It is the Go
// analogue of handle_destination_ilv.
func (e *Engine) ResolveILV(ctx context.Context, destinationNID uint64) ([]cache.NIDILVEntry, error) {
	for attempt := uint64(0); attempt < e.Config.Network.NDRetransmitLimit; attempt++ {
		if entries := e.NIDs.LookupNID(destinationNID); len(entries) > 0 {
			return entries, nil
		}

		_ = e.TxILVQuery(destinationNID)

		if err := sleepCtx(ctx, time.Duration(e.Config.Network.NDRTOMS)*time.Millisecond); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("overlay: could not establish 0x%016X's locator and identifier", destinationNID)
}

// DiscoverPath resolves lookupLocator to a forwarding entry, flooding a
// Router Request on every connected network (other than excludeInterface,
// when set — used to suppress re-flooding the interface an RREQ arrived on)
// and polling the forwarding table until Network.ADHocTimeoutMS elapses.
// It is the Go analogue of handle_path_discovery.
func (e *Engine) DiscoverPath(ctx context.Context, excludeInterface string, lookupLocator uint64, currentHopCount uint8) (cache.ForwardingEntry, error) {
	deadline := time.Now().Add(time.Duration(e.Config.Network.ADHocTimeoutMS) * time.Millisecond)
	floodSent := false

	for time.Now().Before(deadline) {
		if entry, ok := e.Forwarding.Route(lookupLocator); ok {
			return entry, nil
		}

		if !floodSent {
			for name := range e.Interfaces() {
				if name == excludeInterface {
					continue
				}
				_ = e.TxRouterRequest(lookupLocator, name, currentHopCount)
			}
			floodSent = true
		}

		if err := sleepCtx(ctx, time.Duration(e.Config.Network.ADHocRTONS)); err != nil {
			return cache.ForwardingEntry{}, err
		}
	}

	return cache.ForwardingEntry{}, fmt.Errorf("overlay: failed to resolve route for locator 0x%016X", lookupLocator)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
