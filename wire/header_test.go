package wire_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/ilnpnet/ilnpv6/wire"
)

var _ = Describe("Header", func() {
	It("round-trips through Encode/DecodeHeader", func() {
		h := wire.Header{
			Version:            6,
			TrafficClass:       7,
			FlowLabel:          0xABCDE,
			PayloadLength:      1412,
			NextHeader:         wire.NextHeaderJTP,
			HopLimit:           1,
			SourceLocator:      0x00000000000000AA,
			SourceNID:          0x0000000000000001,
			DestinationLocator: 0x00000000000000BB,
			DestinationNID:     0x0000000000000002,
		}

		buf := h.Encode()
		Expect(buf).To(HaveLen(wire.HeaderLength))

		decoded, err := wire.DecodeHeader(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded).To(Equal(h))
	})

	It("rejects buffers shorter than 40 bytes", func() {
		_, err := wire.DecodeHeader(make([]byte, 39))
		Expect(err).To(HaveOccurred())
	})

	It("packs version, traffic class, and flow label into the first word", func() {
		h := wire.Header{Version: 0xF, TrafficClass: 0xFF, FlowLabel: 0xFFFFF}
		buf := h.Encode()
		Expect(buf[0:4]).To(Equal([]byte{0xFF, 0xFF, 0xFF, 0xFF}))
	})

	It("masks version to 4 bits and flow label to 20 bits on encode", func() {
		h := wire.Header{Version: 0x16, FlowLabel: 0xFFFFFFF}
		decoded, err := wire.DecodeHeader(h.Encode())
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.Version).To(Equal(uint8(0x6)))
		Expect(decoded.FlowLabel).To(Equal(uint32(0xFFFFF)))
	})
})
