package overlay

import (
	"github.com/ilnpnet/ilnpv6/pcb"
	"github.com/ilnpnet/ilnpv6/wire"
)

// send wraps a JCMP message in an ILNPv6 header and multicasts it on
// interfaceName, the Go analogue of jcmp_tx.rs's jcmp_tx.
func (e *Engine) send(destinationNID, sourceLocator uint64, interfaceName string, msg wire.Message) error {
	iface, err := e.InterfaceByName(interfaceName)
	if err != nil {
		return err
	}

	payload := msg.Encode()
	header := wire.Header{
		Version:            6,
		NextHeader:         wire.NextHeaderJCMP,
		HopLimit:           1,
		PayloadLength:      uint16(len(payload)),
		SourceLocator:      sourceLocator,
		SourceNID:          e.Local.NID,
		DestinationLocator: iface.Locator,
		DestinationNID:     destinationNID,
	}

	buf := append(header.Encode(), payload...)
	return e.under.multiSend(iface.Multicast, e.Local.UserID, buf)
}

// TxSolicitation sends a Neighbor Solicitation (JCMP 0).
func (e *Engine) TxSolicitation(destinationNID uint64, interfaceName string) error {
	iface, err := e.InterfaceByName(interfaceName)
	if err != nil {
		return err
	}
	if err := e.send(destinationNID, iface.Locator, interfaceName, wire.Solicitation{}); err != nil {
		return err
	}
	e.PCB.Incr(pcb.NDSolicitationTx)
	return nil
}

// TxAdvertisement sends a Neighbor Advertisement (JCMP 1) carrying the local
// unicast ephemeral port.
func (e *Engine) TxAdvertisement(destinationNID uint64, interfaceName string) error {
	iface, err := e.InterfaceByName(interfaceName)
	if err != nil {
		return err
	}
	msg := wire.Advertisement{DestinationPort: e.Local.LocalPort}
	if err := e.send(destinationNID, iface.Locator, interfaceName, msg); err != nil {
		return err
	}
	e.PCB.Incr(pcb.NDAdvertisementTx)
	return nil
}

// TxFQDNQuery sends a DNS FQDN Query (JCMP 4) over the dns group.
func (e *Engine) TxFQDNQuery(fqdn string) error {
	msg := wire.FQDNQuery{FQDN: fqdn}
	if err := e.send(dnsPlaceholderNID, dnsPlaceholderNID, "dns", msg); err != nil {
		return err
	}
	e.PCB.Incr(pcb.DNSFQDNQueryTx)
	return nil
}

// TxFQDNResponse sends a DNS FQDN Response (JCMP 5) over the dns group once
// for each overlay network this node is connected to, with that network's
// locator as the source locator, since the requester may be reachable on any
// of them.
func (e *Engine) TxFQDNResponse(destinationNID uint64) error {
	msg := wire.FQDNResponse{TTL: e.Config.Network.DNSTTLS, FQDN: e.Config.Node.FQDN()}
	for _, iface := range e.Interfaces() {
		if err := e.send(destinationNID, iface.Locator, "dns", msg); err != nil {
			return err
		}
		e.PCB.Incr(pcb.DNSFQDNResponseTx)
	}
	return nil
}

// TxILVQuery sends a DNS ILV Query (JCMP 6) over the dns group.
func (e *Engine) TxILVQuery(destinationNID uint64) error {
	if err := e.send(destinationNID, dnsPlaceholderNID, "dns", wire.ILVQuery{}); err != nil {
		return err
	}
	e.PCB.Incr(pcb.DNSILVQueryTx)
	return nil
}

// TxILVResponse sends a DNS ILV Response (JCMP 7) over the dns group once
// for each overlay network this node is connected to, with that network's
// locator as the source locator.
func (e *Engine) TxILVResponse(destinationNID uint64) error {
	msg := wire.ILVResponse{TTL: e.Config.Network.DNSTTLS}
	for _, iface := range e.Interfaces() {
		if err := e.send(destinationNID, iface.Locator, "dns", msg); err != nil {
			return err
		}
		e.PCB.Incr(pcb.DNSILVResponseTx)
	}
	return nil
}

// TxRouterRequest sends an RREQ (JCMP 8) for lookupLocator on interfaceName.
func (e *Engine) TxRouterRequest(lookupLocator uint64, interfaceName string, hopCount uint8) error {
	iface, err := e.InterfaceByName(interfaceName)
	if err != nil {
		return err
	}
	msg := wire.RouterRequest{HopCount: hopCount, DestinationLocator: lookupLocator}
	if err := e.send(routerBroadcastNID, iface.Locator, interfaceName, msg); err != nil {
		return err
	}
	e.PCB.Incr(pcb.RouterRequestTx)
	return nil
}

// TxRouterResponse sends an RRES (JCMP 9) for lookupLocator back to
// destinationNID on interfaceName.
func (e *Engine) TxRouterResponse(lookupLocator, destinationNID uint64, interfaceName string, hopCount uint8) error {
	iface, err := e.InterfaceByName(interfaceName)
	if err != nil {
		return err
	}
	msg := wire.RouterResponse{HopCount: hopCount, DestinationLocator: lookupLocator, TTL: e.Config.Network.ADHocTTLS}
	if err := e.send(destinationNID, iface.Locator, interfaceName, msg); err != nil {
		return err
	}
	e.PCB.Incr(pcb.RouterResponseTx)
	return nil
}
