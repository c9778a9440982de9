package overlay

import (
	"context"
	"fmt"
	"net"

	"github.com/ilnpnet/ilnpv6/clock"
)

// multicastGroup builds the ff02:0:0:<uid>:0:0:<hi>:<lo> group address a
// network number, or the DNS/log groups, map onto (spec.md §4.1).
func multicastGroup(uid, hi, lo uint16) net.IP {
	return net.IP{
		0xff, 0x02, 0x00, 0x00,
		0x00, 0x00, byte(uid >> 8), byte(uid),
		0x00, 0x00, 0x00, 0x00,
		byte(hi >> 8), byte(hi), byte(lo >> 8), byte(lo),
	}
}

// Open binds the underlay sockets, registers every configured network group
// plus the reserved "dns" and "log" groups, and joins them, the Go analogue
// of underlay_network::open_underlay_socket.
func (e *Engine) Open(ctx context.Context) error {
	uid := e.Local.UserID

	groups := make(map[string]Interface)
	if !e.Config.App.Logger {
		for i, n := range e.Config.Node.Networks {
			name := fmt.Sprintf("multi%d", i)
			locator := uint64(n)
			groups[name] = Interface{Locator: locator, Multicast: multicastGroup(uid, 0, n)}
		}
		groups["dns"] = Interface{Locator: dnsPlaceholderNID, Multicast: multicastGroup(uid, 0x5353, 0x5353)}
	}

	logLocator := (e.Local.NID << 16) | e.Local.NID
	groups["log"] = Interface{Locator: logLocator, Multicast: multicastGroup(uid, uid, uid)}

	u, err := openUnderlay(ctx, &net.Interface{Index: e.Local.InterfaceIndex, Name: e.Local.FQDN}, uid, groups)
	if err != nil {
		return err
	}

	port, err := u.LocalPort()
	if err != nil {
		u.close()
		return err
	}
	e.Local.SetLocalPort(port)
	e.under = u

	for name, iface := range groups {
		e.registerInterface(name, iface)
	}

	e.PCB.SetReady(clock.NowMicros())
	return nil
}

// Close leaves every joined group and releases the underlay sockets, the Go
// analogue of underlay_network::close_underlay_socket.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.under == nil || e.closed {
		e.mu.Unlock()
		return nil
	}
	groups := make([]Interface, 0, len(e.interfaces))
	for _, iface := range e.interfaces {
		groups = append(groups, iface)
	}
	e.closed = true
	e.mu.Unlock()

	for _, iface := range groups {
		if err := e.under.leaveGroup(iface.Multicast); err != nil {
			e.logError(fmt.Sprintf("Close(): error leaving network %s: %s", iface.Multicast, err))
		}
	}

	e.PCB.SetFinish(clock.NowMicros())
	e.under.close()
	return nil
}

// ReadMulticast reads the next datagram off the multicast socket.
func (e *Engine) ReadMulticast(buf []byte) (int, net.Addr, error) {
	return e.under.readMulticast(buf)
}

// ReadUnicast reads the next datagram off the unicast socket.
func (e *Engine) ReadUnicast(buf []byte) (int, net.Addr, error) {
	return e.under.readUnicast(buf)
}

// UniSend sends pck to a specific node's unicast socket, the exported entry
// point session uses to transmit and forward JTP data packets.
func (e *Engine) UniSend(destination net.IP, port uint16, pck []byte) error {
	return e.under.uniSend(destination, port, pck)
}

// CloseUnderlayForShutdown closes the underlay sockets without leaving
// multicast groups, used to unblock a goroutine parked in ReadMulticast or
// ReadUnicast when its context is canceled. The full Close (which leaves
// groups) still runs afterwards; closing twice is a no-op the second time.
func (e *Engine) CloseUnderlayForShutdown() {
	e.mu.Lock()
	u := e.under
	closed := e.closed
	e.mu.Unlock()
	if u != nil && !closed {
		u.close()
	}
}
