package overlay

import (
	"context"
	"fmt"
	"net"
	"syscall"

	"golang.org/x/net/ipv6"
	"golang.org/x/sys/unix"

	"github.com/ilnpnet/ilnpv6/wire"
)

// underlay is the pair of sockets every node opens: a multicast socket
// carrying JCMP control traffic per overlay network, and a unicast socket
// carrying JTP data traffic, translated from under_socket.rs's
// create_multi_socket/create_unicast_socket.
type underlay struct {
	multicast *ipv6.PacketConn
	unicast   *net.UDPConn

	iface *net.Interface
}

// reuseControl sets SO_REUSEADDR and SO_REUSEPORT on the listening socket,
// the Go analogue of under_socket.rs's libc::setsockopt calls for the same
// two options — needed because every emulated node process binds the same
// well-known multicast port on the loopback/test interface.
func reuseControl(_, _ string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
			sockErr = fmt.Errorf("underlay: SO_REUSEADDR: %w", err)
			return
		}
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
			sockErr = fmt.Errorf("underlay: SO_REUSEPORT: %w", err)
			return
		}
	})
	if err != nil {
		return err
	}
	return sockErr
}

// openUnderlay binds the multicast and unicast sockets for iface and joins
// every multicast group in groups (Engine.Open passes the log group, plus the
// DNS group and every configured network group unless the node is the
// logger). It returns the opened underlay; registering the groups is left to
// the caller.
func openUnderlay(ctx context.Context, iface *net.Interface, uid uint16, groups map[string]Interface) (*underlay, error) {
	lc := net.ListenConfig{Control: reuseControl}

	multiConn, err := lc.ListenPacket(ctx, "udp6", fmt.Sprintf("[::]:%d", uid))
	if err != nil {
		return nil, fmt.Errorf("underlay: open multicast socket: %w", err)
	}
	multi := ipv6.NewPacketConn(multiConn)
	if err := multi.SetControlMessage(ipv6.FlagInterface, true); err != nil {
		multiConn.Close()
		return nil, fmt.Errorf("underlay: enable interface control messages: %w", err)
	}
	if err := multi.SetMulticastInterface(iface); err != nil {
		multiConn.Close()
		return nil, fmt.Errorf("underlay: set multicast interface: %w", err)
	}
	if err := multi.SetMulticastHopLimit(2); err != nil {
		multiConn.Close()
		return nil, fmt.Errorf("underlay: set multicast hop limit: %w", err)
	}
	if err := multi.SetMulticastLoopback(true); err != nil {
		multiConn.Close()
		return nil, fmt.Errorf("underlay: enable multicast loopback: %w", err)
	}

	for _, g := range groups {
		if err := multi.JoinGroup(iface, &net.UDPAddr{IP: g.Multicast}); err != nil {
			multiConn.Close()
			return nil, fmt.Errorf("underlay: join group %s: %w", g.Multicast, err)
		}
	}

	uniConn, err := lc.ListenPacket(ctx, "udp6", "[::]:0")
	if err != nil {
		multiConn.Close()
		return nil, fmt.Errorf("underlay: open unicast socket: %w", err)
	}
	udpConn, ok := uniConn.(*net.UDPConn)
	if !ok {
		multiConn.Close()
		uniConn.Close()
		return nil, fmt.Errorf("underlay: unexpected unicast connection type %T", uniConn)
	}

	return &underlay{multicast: multi, unicast: udpConn, iface: iface}, nil
}

// LocalPort returns the ephemeral port the unicast socket was bound to, the
// Go analogue of under_socket.rs's getsockname()-derived ephemeral port.
func (u *underlay) LocalPort() (uint16, error) {
	addr, ok := u.unicast.LocalAddr().(*net.UDPAddr)
	if !ok {
		return 0, fmt.Errorf("underlay: unexpected local address type %T", u.unicast.LocalAddr())
	}
	return uint16(addr.Port), nil
}

// joinGroup joins an additional multicast group after the initial open.
func (u *underlay) joinGroup(group net.IP) error {
	return u.multicast.JoinGroup(u.iface, &net.UDPAddr{IP: group})
}

// leaveGroup leaves a multicast group, the Go analogue of leave_multicast.
func (u *underlay) leaveGroup(group net.IP) error {
	return u.multicast.LeaveGroup(u.iface, &net.UDPAddr{IP: group})
}

// multiSend sends pck (an encoded ILNPv6 header plus JCMP payload) to the
// multicast group bound at destination, the Go analogue of underlay_multi_tx.
func (u *underlay) multiSend(destination net.IP, uid uint16, pck []byte) error {
	_, err := u.multicast.WriteTo(pck, &ipv6.ControlMessage{IfIndex: u.iface.Index}, &net.UDPAddr{IP: destination, Port: int(uid)})
	return err
}

// uniSend sends pck to a specific node's unicast socket, the Go analogue of
// underlay_uni_tx.
func (u *underlay) uniSend(destination net.IP, port uint16, pck []byte) error {
	_, err := u.unicast.WriteToUDP(pck, &net.UDPAddr{IP: destination, Port: int(port), Zone: u.iface.Name})
	return err
}

func (u *underlay) close() {
	u.multicast.Close()
	u.unicast.Close()
}

// readMulticast reads one datagram from the multicast socket.
func (u *underlay) readMulticast(buf []byte) (n int, src net.Addr, err error) {
	n, _, src, err = u.multicast.ReadFrom(buf)
	return
}

// readUnicast reads one datagram from the unicast socket.
func (u *underlay) readUnicast(buf []byte) (n int, src net.Addr, err error) {
	return u.unicast.ReadFromUDP(buf)
}

// headerNextHeader extracts the next-header byte without a full decode, used
// by the receive dispatcher to cheaply discard non-JCMP/non-JTP multicast
// chatter before paying for wire.DecodeHeader.
func headerNextHeader(buf []byte) (uint8, bool) {
	if len(buf) < wire.HeaderLength {
		return 0, false
	}
	return buf[6], true
}
