// Package ifaceenum is the Interface Enumerator collaborator named in
// spec.md §6: given an OS interface name it returns the node's link-local
// address, OS interface index, user ID, and configured identity. It is
// deliberately thin — the core depends only on the LocalInterface struct, so
// tests can construct one without touching a real NIC.
package ifaceenum

import (
	"fmt"
	"net"
	"os"
)

// LocalInterface is the record returned by Lookup and consumed once at
// session Open. LocalPort starts at zero and is filled in by the underlay
// socket pair after the unicast socket binds to its ephemeral port.
type LocalInterface struct {
	UserID         uint16
	InterfaceIndex int
	NID            uint64
	FQDN           string
	LinkLocal      net.IP
	LocalPort      uint16
}

// SetLocalPort records the ephemeral port assigned to the unicast socket.
func (l *LocalInterface) SetLocalPort(port uint16) {
	l.LocalPort = port
}

// Lookup resolves the named OS network interface to a LocalInterface,
// filling in its link-local IPv6 address and OS index. NID and FQDN are
// supplied by the caller (ordinarily sourced from config.NodeConfig) since
// the OS interface carries no notion of either.
func Lookup(name string, nid uint64, fqdn string) (*LocalInterface, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, fmt.Errorf("ifaceenum.Lookup(%q): %w", name, err)
	}

	addrs, err := iface.Addrs()
	if err != nil {
		return nil, fmt.Errorf("ifaceenum.Lookup(%q): %w", name, err)
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipNet.IP.To16()
		if ip == nil || ip.To4() != nil || !ip.IsLinkLocalUnicast() {
			continue
		}

		return &LocalInterface{
			UserID:         uint16(os.Getuid()),
			InterfaceIndex: iface.Index,
			NID:            nid,
			FQDN:           fqdn,
			LinkLocal:      ip,
		}, nil
	}

	return nil, fmt.Errorf("ifaceenum.Lookup(%q): no link-local IPv6 address found", name)
}
