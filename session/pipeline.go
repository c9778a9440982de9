package session

import (
	"context"
	"net"
	"time"

	"github.com/ilnpnet/ilnpv6/pcb"
	"github.com/ilnpnet/ilnpv6/wire"
)

func millis(n int64) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// receiveMulticast reads JCMP control traffic off the multicast socket and
// dispatches each datagram on its own goroutine, the Go analogue of
// open_ilnp_socket's first tokio::spawn task.
func (s *Session) receiveMulticast(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.Engine.CloseUnderlayForShutdown()
	}()

	buf := make([]byte, 1024)
	for {
		n, addr, err := s.Engine.ReadMulticast(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		udpAddr, ok := addr.(*net.UDPAddr)
		if !ok {
			continue
		}

		packet := append([]byte(nil), buf[:n]...)
		go s.Engine.HandleMulticast(ctx, packet, udpAddr)
	}
}

// receiveUnicast reads JTP data traffic off the unicast socket, sequentially
// delivering to self or forwarding, the Go analogue of open_ilnp_socket's
// second and third tokio::spawn tasks collapsed into one goroutine (the
// original's intermediate mpsc queue exists only to decouple socket reads
// from packet handling; a single loop gives the same ordering guarantee
// without the extra hop).
func (s *Session) receiveUnicast(ctx context.Context) error {
	mtu := 40 + 8 + 40 + int(s.Engine.Config.Network.MTU)
	buf := make([]byte, mtu)

	for {
		n, _, err := s.Engine.ReadUnicast(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		if n < wire.HeaderLength {
			s.Engine.LogDrop("receiveUnicast(): packet too small")
			continue
		}

		header, err := wire.DecodeHeader(buf[:n])
		if err != nil {
			s.Engine.LogDrop("receiveUnicast(): failed to parse ILNP header: " + err.Error())
			continue
		}
		if header.NextHeader != wire.NextHeaderJTP {
			s.Engine.LogDrop("receiveUnicast(): received invalid packet: wrong header or type")
			continue
		}

		payload := append([]byte(nil), buf[wire.HeaderLength:n]...)

		if header.DestinationNID == s.Engine.Local.NID {
			s.Engine.PCB.Incr(pcb.DataRequestRx)
			s.deliver(Packet{
				SourceLocator:      header.SourceLocator,
				SourceNID:          header.SourceNID,
				DestinationLocator: header.DestinationLocator,
				DestinationNID:     header.DestinationNID,
				Payload:            payload,
			})
			continue
		}

		if !s.Engine.Config.Node.Router {
			s.Engine.LogDrop("receiveUnicast(): received packet not intended for us")
			continue
		}

		if err := s.forward(ctx, header, payload); err != nil {
			s.Engine.LogDrop("forward(): " + err.Error())
			continue
		}
		s.Engine.PCB.Incr(pcb.DataRequestForwardRx)
		s.Engine.PCB.Incr(pcb.DataRequestForwardTx)
	}
}
