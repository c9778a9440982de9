package overlay

import (
	"net"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dogmatiq/dodeca/logging"

	"github.com/ilnpnet/ilnpv6/config"
	"github.com/ilnpnet/ilnpv6/ifaceenum"
	"github.com/ilnpnet/ilnpv6/wire"
)

func testEngine() *Engine {
	cfg := &config.Config{
		Node: config.NodeConfig{NID: 0x01, Name: "node1"},
		Network: config.NetworkConfig{
			NDCacheSize: 16,
			NDTTLS:      60,
			ADHocTTLS:   60,
		},
	}
	local := &ifaceenum.LocalInterface{NID: 0x01, LocalPort: 4000}
	e := New(cfg, local, logging.SilentLogger)
	e.registerInterface("multi0", Interface{Locator: 0x10, Multicast: net.ParseIP("ff02::1")})
	return e
}

var _ = Describe("Engine.handleAdvertisement", func() {
	It("records a neighbor entry for a remote advertisement", func() {
		e := testEngine()
		header := wire.Header{SourceNID: 0x02, SourceLocator: 0x10}
		msg := wire.Advertisement{DestinationPort: 5000}

		e.handleAdvertisement(header, net.ParseIP("fe80::2"), msg)

		entry, ok := e.Neighbor.Lookup(0x02)
		Expect(ok).To(BeTrue())
		Expect(entry.Interface).To(Equal("multi0"))
		Expect(entry.Port).To(Equal(uint16(5000)))
	})

	It("ignores a self-advertisement", func() {
		e := testEngine()
		header := wire.Header{SourceNID: e.Local.NID, SourceLocator: 0x10}

		e.handleAdvertisement(header, net.ParseIP("fe80::1"), wire.Advertisement{})

		_, ok := e.Neighbor.Lookup(e.Local.NID)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Engine.handleRouterResponse", func() {
	It("only replaces a cached route when the new hop count is strictly lower", func() {
		e := testEngine()
		header := wire.Header{SourceNID: 0x02, SourceLocator: 0x10}

		e.handleRouterResponse(header, wire.RouterResponse{DestinationLocator: 0x20, HopCount: 3, TTL: 60})
		entry, ok := e.Forwarding.Lookup(0x02, 0x20)
		Expect(ok).To(BeTrue())
		Expect(entry.HopCount).To(Equal(uint8(3)))

		e.handleRouterResponse(header, wire.RouterResponse{DestinationLocator: 0x20, HopCount: 5, TTL: 60})
		entry, ok = e.Forwarding.Lookup(0x02, 0x20)
		Expect(ok).To(BeTrue())
		Expect(entry.HopCount).To(Equal(uint8(3)))

		e.handleRouterResponse(header, wire.RouterResponse{DestinationLocator: 0x20, HopCount: 1, TTL: 60})
		entry, ok = e.Forwarding.Lookup(0x02, 0x20)
		Expect(ok).To(BeTrue())
		Expect(entry.HopCount).To(Equal(uint8(1)))
	})
})

var _ = Describe("Engine.Interfaces", func() {
	It("excludes the reserved dns and log groups", func() {
		e := testEngine()
		e.registerInterface("dns", Interface{Locator: dnsPlaceholderNID})
		e.registerInterface("log", Interface{Locator: 0x99})

		ifaces := e.Interfaces()
		Expect(ifaces).NotTo(HaveKey("dns"))
		Expect(ifaces).NotTo(HaveKey("log"))
		Expect(ifaces).To(HaveKey("multi0"))
	})
})

var _ = Describe("Engine.Locators", func() {
	It("excludes the log group's locator", func() {
		e := testEngine()
		e.registerInterface("log", Interface{Locator: 0x99})

		Expect(e.Locators()).NotTo(ContainElement(uint64(0x99)))
	})
})
