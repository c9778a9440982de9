package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/ilnpnet/ilnpv6/config"
)

const sample = `
app:
  logger: false
  test_convergence: true
  test_single: false
  test_flow: false
  test_throughput: false
  test_latency: false
  sensor_application: false
node:
  router: true
  networks: [1, 2]
  nid: 1
  name: node1
network:
  mtu: 1412
  nd_rto_ms: 100
  nd_retransmit_limit: 3
  nd_ttl_s: 30
  nd_cache_size: 1024
  dns_ttl_s: 60
  ad_hoc_timeout_ms: 500
  ad_hoc_rto_ns: 10000000
  ad_hoc_ttl_s: 30
  ad_max_hops: 8
`

func writeSample() string {
	dir, err := os.MkdirTemp("", "config-test")
	Expect(err).NotTo(HaveOccurred())
	path := filepath.Join(dir, "config.yaml")
	Expect(os.WriteFile(path, []byte(sample), 0o644)).To(Succeed())
	return path
}

var _ = Describe("Load", func() {
	It("parses all three config groups", func() {
		cfg, err := config.Load(writeSample())
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.App.TestConvergence).To(BeTrue())
		Expect(cfg.Node.Router).To(BeTrue())
		Expect(cfg.Node.Networks).To(Equal([]uint16{1, 2}))
		Expect(cfg.Node.NID).To(Equal(uint64(1)))
		Expect(cfg.Network.NDRetransmitLimit).To(Equal(uint64(3)))
		Expect(cfg.Network.ADMaxHops).To(Equal(uint8(8)))
	})

	It("returns an error for a missing file", func() {
		dir, err := os.MkdirTemp("", "config-test-missing")
		Expect(err).NotTo(HaveOccurred())

		_, err = config.Load(filepath.Join(dir, "missing.yaml"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NodeConfig.FQDN", func() {
	It("normalizes a name without a trailing dot", func() {
		n := config.NodeConfig{Name: "node1"}
		Expect(n.FQDN()).To(Equal("node1."))
	})

	It("leaves an already-qualified name unchanged", func() {
		n := config.NodeConfig{Name: "node1."}
		Expect(n.FQDN()).To(Equal("node1."))
	})
})
