// Package pcb implements the per-session protocol control block: a set of
// packet counters plus lifecycle timestamps, serialised to JSON when a
// session closes and emitted to the log multicast group (spec.md §4.13).
// It is a direct translation of protocol_control_block.rs's ILNP_PCB_S,
// guarded by a sync.Mutex the way overlay_handlers.rs guards PCB.lock().
package pcb

import (
	"encoding/json"
	"sync"
)

// Counters mirrors ILNP_PCB_S field-for-field. JSON tags match the
// snake_case field names the original serialises, so PCB dumps read the
// same across the ILNP node population regardless of which side emitted them.
type Counters struct {
	mu sync.Mutex

	StartTime  uint64 `json:"start_time"`
	ReadyTime  uint64 `json:"ready_time"`
	FinishTime uint64 `json:"finish_time"`

	DataRequestRx        uint64 `json:"data_request_rx"`
	DataRequestTx        uint64 `json:"data_request_tx"`
	DataRequestForwardRx uint64 `json:"data_request_forward_rx"`
	DataRequestForwardTx uint64 `json:"data_request_forward_tx"`

	NDSolicitationRx  uint64 `json:"nd_solicitation_jcmp_rx"`
	NDSolicitationTx  uint64 `json:"nd_solicitation_jcmp_tx"`
	NDAdvertisementRx uint64 `json:"nd_advertisement_jcmp_rx"`
	NDAdvertisementTx uint64 `json:"nd_advertisement_jcmp_tx"`

	DNSFQDNQueryRx    uint64 `json:"dns_fqdn_query_jcmp_rx"`
	DNSFQDNQueryTx    uint64 `json:"dns_fqdn_query_jcmp_tx"`
	DNSFQDNResponseRx uint64 `json:"dns_fqdn_response_jcmp_rx"`
	DNSFQDNResponseTx uint64 `json:"dns_fqdn_response_jcmp_tx"`

	DNSILVQueryRx    uint64 `json:"dns_ilv_query_jcmp_rx"`
	DNSILVQueryTx    uint64 `json:"dns_ilv_query_jcmp_tx"`
	DNSILVResponseRx uint64 `json:"dns_ilv_response_jcmp_rx"`
	DNSILVResponseTx uint64 `json:"dns_ilv_response_jcmp_tx"`

	RouterRequestRx  uint64 `json:"router_request_jcmp_rx"`
	RouterRequestTx  uint64 `json:"router_request_jcmp_tx"`
	RouterResponseRx uint64 `json:"router_response_jcmp_rx"`
	RouterResponseTx uint64 `json:"router_response_jcmp_tx"`
}

// Field selects one counter by the JCMP/JTP event it records, so callers on
// the hot path don't need a field-name switch of their own.
type Field int

const (
	DataRequestRx Field = iota
	DataRequestTx
	DataRequestForwardRx
	DataRequestForwardTx
	NDSolicitationRx
	NDSolicitationTx
	NDAdvertisementRx
	NDAdvertisementTx
	DNSFQDNQueryRx
	DNSFQDNQueryTx
	DNSFQDNResponseRx
	DNSFQDNResponseTx
	DNSILVQueryRx
	DNSILVQueryTx
	DNSILVResponseRx
	DNSILVResponseTx
	RouterRequestRx
	RouterRequestTx
	RouterResponseRx
	RouterResponseTx
)

// Incr increments the named counter by one.
func (c *Counters) Incr(f Field) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch f {
	case DataRequestRx:
		c.DataRequestRx++
	case DataRequestTx:
		c.DataRequestTx++
	case DataRequestForwardRx:
		c.DataRequestForwardRx++
	case DataRequestForwardTx:
		c.DataRequestForwardTx++
	case NDSolicitationRx:
		c.NDSolicitationRx++
	case NDSolicitationTx:
		c.NDSolicitationTx++
	case NDAdvertisementRx:
		c.NDAdvertisementRx++
	case NDAdvertisementTx:
		c.NDAdvertisementTx++
	case DNSFQDNQueryRx:
		c.DNSFQDNQueryRx++
	case DNSFQDNQueryTx:
		c.DNSFQDNQueryTx++
	case DNSFQDNResponseRx:
		c.DNSFQDNResponseRx++
	case DNSFQDNResponseTx:
		c.DNSFQDNResponseTx++
	case DNSILVQueryRx:
		c.DNSILVQueryRx++
	case DNSILVQueryTx:
		c.DNSILVQueryTx++
	case DNSILVResponseRx:
		c.DNSILVResponseRx++
	case DNSILVResponseTx:
		c.DNSILVResponseTx++
	case RouterRequestRx:
		c.RouterRequestRx++
	case RouterRequestTx:
		c.RouterRequestTx++
	case RouterResponseRx:
		c.RouterResponseRx++
	case RouterResponseTx:
		c.RouterResponseTx++
	}
}

// SetStart records the session start timestamp.
func (c *Counters) SetStart(micros uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.StartTime = micros
}

// SetReady records the timestamp at which the session's underlay sockets
// became usable.
func (c *Counters) SetReady(micros uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ReadyTime = micros
}

// SetFinish records the session close timestamp.
func (c *Counters) SetFinish(micros uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.FinishTime = micros
}

// MarshalJSON serialises a consistent snapshot of c under lock.
func (c *Counters) MarshalJSON() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	type snapshot Counters
	return json.Marshal((*snapshot)(c))
}

// ToJSONString is the Go analogue of ILNP_PCB_S::to_json_string.
func (c *Counters) ToJSONString() (string, error) {
	buf, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
