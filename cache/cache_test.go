package cache_test

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/ilnpnet/ilnpv6/cache"
)

var _ = Describe("Table", func() {
	It("returns a value inserted within its TTL", func() {
		t := cache.NewTable[string](0)
		t.Insert(1, "a", time.Minute)

		v, ok := t.Lookup(1)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("a"))
	})

	It("expires a value after its TTL elapses", func() {
		t := cache.NewTable[string](0)
		t.Insert(1, "a", -time.Second)

		_, ok := t.Lookup(1)
		Expect(ok).To(BeFalse())
	})

	It("evicts the soonest-to-expire entry when at capacity", func() {
		t := cache.NewTable[string](2)
		t.Insert(1, "a", time.Second)
		t.Insert(2, "b", time.Hour)
		t.Insert(3, "c", time.Hour)

		Expect(t.Len()).To(Equal(2))
		_, ok := t.Lookup(1)
		Expect(ok).To(BeFalse())
	})

	It("derives the same hash for the same pair and a different hash otherwise", func() {
		Expect(cache.HashPair(1, 2)).To(Equal(cache.HashPair(1, 2)))
		Expect(cache.HashPair(1, 2)).NotTo(Equal(cache.HashPair(2, 1)))
	})
})

var _ = Describe("NameTable", func() {
	It("returns every entry recorded for an FQDN", func() {
		t := cache.NewNameTable(0)
		t.Insert("node1.local.", 0x1, 0xA, time.Minute)
		t.Insert("node1.local.", 0x2, 0xB, time.Minute)
		t.Insert("node2.local.", 0x3, 0xC, time.Minute)

		entries := t.LookupFQDN("node1.local.")
		Expect(entries).To(HaveLen(2))
	})
})

var _ = Describe("ForwardingTable", func() {
	It("routes via the next hop with the lowest hop count", func() {
		t := cache.NewForwardingTable(0)
		t.Insert(cache.ForwardingEntry{NextHopNID: 1, Locator: 0xAA, Interface: "eth0", HopCount: 3}, time.Minute)

		best, ok := t.Route(0xAA)
		Expect(ok).To(BeTrue())
		Expect(best.HopCount).To(Equal(uint8(3)))

		t.Insert(cache.ForwardingEntry{NextHopNID: 2, Locator: 0xAA, Interface: "eth1", HopCount: 1}, time.Minute)
		best, ok = t.Route(0xAA)
		Expect(ok).To(BeTrue())
		Expect(best.HopCount).To(Equal(uint8(1)))
		Expect(best.Interface).To(Equal("eth1"))
	})

	It("looks up an exact next-hop/locator pair", func() {
		t := cache.NewForwardingTable(0)
		t.Insert(cache.ForwardingEntry{NextHopNID: 1, Locator: 0xAA, Interface: "eth0", HopCount: 2}, time.Minute)

		entry, ok := t.Lookup(1, 0xAA)
		Expect(ok).To(BeTrue())
		Expect(entry.Interface).To(Equal("eth0"))

		_, ok = t.Lookup(9, 0xAA)
		Expect(ok).To(BeFalse())
	})
})
