// Package config loads the emulator's node, network, and harness-selection
// settings. It is the Go counterpart of the original emulator's
// services/config_services.rs + models/config_models.rs, ported from TOML to
// YAML (gopkg.in/yaml.v2, already part of the dependency graph via
// onsi/ginkgo) since that's the more common serialization for Go config
// files.
package config

import (
	"fmt"
	"os"

	"github.com/miekg/dns"
	"gopkg.in/yaml.v2"
)

// Config is the root configuration document.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Node    NodeConfig    `yaml:"node"`
	Network NetworkConfig `yaml:"network"`
}

// AppConfig selects which harness the process runs. The harnesses
// themselves (convergence/throughput/RTT/sensor test apps and the separate
// logger process) are external collaborators, out of scope for this module;
// only the selection flags are part of the core's configuration surface.
type AppConfig struct {
	Logger bool `yaml:"logger"`

	TestConvergence bool `yaml:"test_convergence"`
	TestSingle      bool `yaml:"test_single"`
	TestFlow        bool `yaml:"test_flow"`
	TestThroughput  bool `yaml:"test_throughput"`
	TestLatency     bool `yaml:"test_latency"`

	SensorApplication bool `yaml:"sensor_application"`
}

// NodeConfig describes this node's identity and the networks it joins.
type NodeConfig struct {
	Router   bool     `yaml:"router"`
	Networks []uint16 `yaml:"networks"`
	NID      uint64   `yaml:"nid"`
	Name     string   `yaml:"name"`
}

// FQDN returns the node's name normalized to a fully-qualified DNS name
// (trailing dot), so that "node2" and "node2." compare equal.
func (n NodeConfig) FQDN() string {
	return dns.Fqdn(n.Name)
}

// NetworkConfig carries the protocol timing and sizing constants named in
// spec.md §6.
type NetworkConfig struct {
	MTU uint32 `yaml:"mtu"`

	NDRTOMS           uint64 `yaml:"nd_rto_ms"`
	NDRetransmitLimit uint64 `yaml:"nd_retransmit_limit"`
	NDTTLS            uint64 `yaml:"nd_ttl_s"`
	NDCacheSize       int    `yaml:"nd_cache_size"`
	DNSTTLS           uint8  `yaml:"dns_ttl_s"`

	ADHocTimeoutMS uint64 `yaml:"ad_hoc_timeout_ms"`
	ADHocRTONS     uint64 `yaml:"ad_hoc_rto_ns"`
	ADHocTTLS      uint8  `yaml:"ad_hoc_ttl_s"`
	ADMaxHops      uint8  `yaml:"ad_max_hops"`
}

// Load reads and parses a YAML configuration document from path.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", path, err)
	}

	return &cfg, nil
}
