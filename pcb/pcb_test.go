package pcb_test

import (
	"encoding/json"
	"sync"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/ilnpnet/ilnpv6/pcb"
)

var _ = Describe("Counters", func() {
	It("counts concurrent Incr callers without losing updates", func() {
		c := &pcb.Counters{}

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Incr(pcb.NDSolicitationRx)
			}()
		}
		wg.Wait()

		Expect(c.NDSolicitationRx).To(Equal(uint64(100)))
	})

	It("round-trips through ToJSONString", func() {
		c := &pcb.Counters{}
		c.SetStart(10)
		c.Incr(pcb.RouterRequestTx)

		s, err := c.ToJSONString()
		Expect(err).NotTo(HaveOccurred())

		var decoded map[string]uint64
		Expect(json.Unmarshal([]byte(s), &decoded)).To(Succeed())
		Expect(decoded["start_time"]).To(Equal(uint64(10)))
		Expect(decoded["router_request_jcmp_tx"]).To(Equal(uint64(1)))
	})
})
