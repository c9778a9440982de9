package wire_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/ilnpnet/ilnpv6/wire"
)

var _ = Describe("DecodeJCMP", func() {
	roundTrip := func(desc string, msg wire.Message) {
		It(desc, func() {
			decoded, err := wire.DecodeJCMP(msg.Encode())
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded).To(Equal(msg))
		})
	}

	roundTrip("round-trips a Solicitation", wire.Solicitation{})
	roundTrip("round-trips an Advertisement", wire.Advertisement{DestinationPort: 4242})
	roundTrip("round-trips an FQDNQuery", wire.FQDNQuery{FQDN: "node2.local."})
	roundTrip("round-trips an FQDNResponse", wire.FQDNResponse{TTL: 60, FQDN: "node1.local."})
	roundTrip("round-trips an ILVQuery", wire.ILVQuery{})
	roundTrip("round-trips an ILVResponse", wire.ILVResponse{TTL: 30})
	roundTrip("round-trips a RouterRequest", wire.RouterRequest{HopCount: 2, DestinationLocator: 0xBB})
	roundTrip("round-trips a RouterResponse", wire.RouterResponse{HopCount: 3, DestinationLocator: 0xBB, TTL: 30})

	It("rejects an empty payload", func() {
		_, err := wire.DecodeJCMP(nil)
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unsupported code", func() {
		_, err := wire.DecodeJCMP([]byte{42})
		Expect(err).To(HaveOccurred())
	})

	It("rejects a too-short Advertisement payload", func() {
		_, err := wire.DecodeJCMP([]byte{wire.CodeNDAdvertisement, 0x00})
		Expect(err).To(HaveOccurred())
	})

	It("rejects a too-short RouterRequest payload", func() {
		_, err := wire.DecodeJCMP([]byte{wire.CodeRouterRequest, 0x01})
		Expect(err).To(HaveOccurred())
	})

	It("rejects a too-short RouterResponse payload", func() {
		_, err := wire.DecodeJCMP(append([]byte{wire.CodeRouterResponse}, make([]byte, 9)...))
		Expect(err).To(HaveOccurred())
	})

	It("accepts an empty FQDN in an FQDNQuery (minimum length 1)", func() {
		decoded, err := wire.DecodeJCMP([]byte{wire.CodeDNSFQDNQuery})
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded).To(Equal(wire.FQDNQuery{FQDN: ""}))
	})
})
