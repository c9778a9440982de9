// Package overlay implements the ILNPv6 overlay network layer: the
// interface registry, JCMP control-plane transmit/receive, and the cache
// tables and PCB counters those handlers drive (spec.md §4). It is
// translated from overlay_network/mod.rs and overlay_network/jcmp_tx.rs /
// overlay_handlers.rs, reusing the teacher's transport.IPv6Transport /
// errgroup responder loop shape for the receive pipeline.
package overlay

import (
	"fmt"
	"net"
	"sync"

	"github.com/dogmatiq/dodeca/logging"

	"github.com/ilnpnet/ilnpv6/cache"
	"github.com/ilnpnet/ilnpv6/config"
	"github.com/ilnpnet/ilnpv6/ifaceenum"
	"github.com/ilnpnet/ilnpv6/pcb"
)

// dnsPlaceholderNID is the well-known stand-in NID/locator used to address
// the fictitious DNS resolver (spec.md's supplemented data model), matching
// network_packets.rs's dns_holder 0x0000000053535353.
const dnsPlaceholderNID = 0x0000000053535353

// routerBroadcastNID is the destination NID router requests carry (router
// responses are addressed to the requesting NID), matching jcmp_tx.rs's destination_nid 0x00000000ff02ff02.
const routerBroadcastNID = 0x00000000ff02ff02

// Interface is one entry in the interface registry: the locator (L64) and
// multicast group address bound to a logical network name, the Go analogue
// of INTERFACES's (u64, Ipv6Addr) value tuple.
type Interface struct {
	Locator   uint64
	Multicast net.IP
}

// Engine is a single node's overlay-layer state: its interface registry,
// the four resolution/forwarding tables, its PCB, and the underlay sockets
// those tables and counters are driven from.
type Engine struct {
	Config *config.Config
	Local  *ifaceenum.LocalInterface
	Logger logging.Logger

	Neighbor   *cache.NeighborTable
	Names      *cache.NameTable
	NIDs       *cache.NIDTable
	Forwarding *cache.ForwardingTable
	PCB        *pcb.Counters

	mu         sync.Mutex
	interfaces map[string]Interface
	closed     bool

	under *underlay
}

// New constructs an Engine with empty tables bounded by cfg.Network.NDCacheSize.
func New(cfg *config.Config, local *ifaceenum.LocalInterface, logger logging.Logger) *Engine {
	size := cfg.Network.NDCacheSize
	return &Engine{
		Config:     cfg,
		Local:      local,
		Logger:     logger,
		Neighbor:   cache.NewNeighborTable(size),
		Names:      cache.NewNameTable(size),
		NIDs:       cache.NewNIDTable(size),
		Forwarding: cache.NewForwardingTable(size),
		PCB:        &pcb.Counters{},
		interfaces: make(map[string]Interface),
	}
}

// registerInterface adds or replaces an entry in the interface registry.
func (e *Engine) registerInterface(name string, iface Interface) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.interfaces[name] = iface
}

// InterfaceByName is the Go analogue of get_over_interface_by_name.
func (e *Engine) InterfaceByName(name string) (Interface, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	iface, ok := e.interfaces[name]
	if !ok {
		return Interface{}, fmt.Errorf("overlay: interface not found: %s", name)
	}
	return iface, nil
}

// InterfaceByLocator is the Go analogue of get_over_interface_by_locator.
func (e *Engine) InterfaceByLocator(locator uint64) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for name, iface := range e.interfaces {
		if iface.Locator == locator {
			return name, nil
		}
	}
	return "", fmt.Errorf("overlay: no interface for locator 0x%016X", locator)
}

// Interfaces is the Go analogue of get_over_interfaces: every registered
// interface except the reserved "dns" and "log" names.
func (e *Engine) Interfaces() map[string]Interface {
	e.mu.Lock()
	defer e.mu.Unlock()
	result := make(map[string]Interface, len(e.interfaces))
	for name, iface := range e.interfaces {
		if name == "dns" || name == "log" {
			continue
		}
		result[name] = iface
	}
	return result
}

// Locators is the Go analogue of get_over_locators: every locator this node
// is connected to, except the "log" group.
func (e *Engine) Locators() []uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	result := make([]uint64, 0, len(e.interfaces))
	for name, iface := range e.interfaces {
		if name == "log" {
			continue
		}
		result = append(result, iface.Locator)
	}
	return result
}
