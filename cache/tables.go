package cache

import "time"

// NeighborEntry is a resolved NID→interface binding, the Go analogue of
// network_services.rs's NID_ADDRESS_RESOLUTION_TABLE value tuple
// (String, Ipv6Addr, u16).
type NeighborEntry struct {
	Interface string
	Address   string // link-local IPv6 address, textual form
	Port      uint16
}

// NeighborTable resolves NID to the interface/address/port a node last
// advertised itself on (spec.md §4.4, ND Advertisement handling).
type NeighborTable struct {
	*Table[NeighborEntry]
}

func NewNeighborTable(capacity int) *NeighborTable {
	return &NeighborTable{Table: NewTable[NeighborEntry](capacity)}
}

func (t *NeighborTable) Insert(nid uint64, entry NeighborEntry, ttl time.Duration) {
	t.Table.Insert(nid, entry, ttl)
}

func (t *NeighborTable) Lookup(nid uint64) (NeighborEntry, bool) {
	return t.Table.Lookup(nid)
}

// NameILVEntry binds an FQDN to the (NID, locator) pair it resolved to,
// network_services.rs's NAME_ILV_TABLE value tuple (String, u64, u64).
type NameILVEntry struct {
	FQDN    string
	NID     uint64
	Locator uint64
}

// NameTable resolves an FQDN to the candidate (NID, locator) pairs a DNS
// FQDN Response has taught this node (spec.md §4.5).
type NameTable struct {
	*Table[NameILVEntry]
}

func NewNameTable(capacity int) *NameTable {
	return &NameTable{Table: NewTable[NameILVEntry](capacity)}
}

// Insert stores the entry under the FNV-1a hash of (nid, locator), matching
// insert_into_name_ilv_table's key = hash((entry.1, entry.2)).
func (t *NameTable) Insert(fqdn string, nid, locator uint64, ttl time.Duration) {
	t.Table.Insert(HashPair(nid, locator), NameILVEntry{FQDN: fqdn, NID: nid, Locator: locator}, ttl)
}

// LookupFQDN returns every unexpired entry recorded for fqdn.
func (t *NameTable) LookupFQDN(fqdn string) []NameILVEntry {
	var result []NameILVEntry
	t.Scan(func(_ uint64, e NameILVEntry) {
		if e.FQDN == fqdn {
			result = append(result, e)
		}
	})
	return result
}

// NIDILVEntry binds a NID to a locator it was last seen reachable at,
// network_services.rs's NID_ILV_TABLE value tuple (u64, u64).
type NIDILVEntry struct {
	NID     uint64
	Locator uint64
}

// NIDTable resolves a NID to the locator(s) a DNS ILV Response has taught
// this node (spec.md §4.6).
type NIDTable struct {
	*Table[NIDILVEntry]
}

func NewNIDTable(capacity int) *NIDTable {
	return &NIDTable{Table: NewTable[NIDILVEntry](capacity)}
}

// Insert stores the entry under the FNV-1a hash of (nid, locator), matching
// insert_into_nid_ilv_table's key = hash((nid, locator)).
func (t *NIDTable) Insert(nid, locator uint64, ttl time.Duration) {
	t.Table.Insert(HashPair(nid, locator), NIDILVEntry{NID: nid, Locator: locator}, ttl)
}

// LookupNID returns every unexpired entry recorded for nid.
func (t *NIDTable) LookupNID(nid uint64) []NIDILVEntry {
	var result []NIDILVEntry
	t.Scan(func(_ uint64, e NIDILVEntry) {
		if e.NID == nid {
			result = append(result, e)
		}
	})
	return result
}

// ForwardingEntry is one row of the locator forwarding table,
// network_services.rs's LOCATOR_FORWARDING_TABLE value tuple
// (u64, u64, String, u8): next-hop NID, target locator, egress interface,
// and hop count to that target.
type ForwardingEntry struct {
	NextHopNID uint64
	Locator    uint64
	Interface  string
	HopCount   uint8
}

// ForwardingTable maps (next-hop NID, target locator) to the interface and
// hop count to reach that locator (spec.md §4.7, RREQ/RRES handling).
type ForwardingTable struct {
	*Table[ForwardingEntry]
}

func NewForwardingTable(capacity int) *ForwardingTable {
	return &ForwardingTable{Table: NewTable[ForwardingEntry](capacity)}
}

// Insert stores entry under the FNV-1a hash of (nextHopNID, locator),
// matching insert_into_forwarding_table's key = hash((entry.0, entry.1)).
func (t *ForwardingTable) Insert(entry ForwardingEntry, ttl time.Duration) {
	t.Table.Insert(HashPair(entry.NextHopNID, entry.Locator), entry, ttl)
}

// Lookup returns the entry for the exact (nextHopNID, locator) pair, the Go
// analogue of lookup_forwarding_table.
func (t *ForwardingTable) Lookup(nextHopNID, locator uint64) (ForwardingEntry, bool) {
	var found ForwardingEntry
	var ok bool
	t.Scan(func(_ uint64, e ForwardingEntry) {
		if e.NextHopNID == nextHopNID && e.Locator == locator {
			found, ok = e, true
		}
	})
	return found, ok
}

// Route returns the lowest-hop-count entry reaching locator by any next
// hop, the Go analogue of lookup_forwarding_table_route. Ties keep the
// first entry scanned, matching the original's strict "<" comparison.
func (t *ForwardingTable) Route(locator uint64) (ForwardingEntry, bool) {
	var best ForwardingEntry
	haveBest := false
	t.Scan(func(_ uint64, e ForwardingEntry) {
		if e.Locator != locator {
			return
		}
		if !haveBest || e.HopCount < best.HopCount {
			best = e
			haveBest = true
		}
	})
	return best, haveBest
}
