// Package wire implements bit-exact, allocation-minimal encode/decode for
// the 40-byte ILNPv6 header and the JCMP message variants layered on top of
// it, per spec.md §3/§4.2. Every function here is pure: it allocates only
// the output buffer and never touches a cache, socket, or logger.
package wire

import (
	"encoding/binary"
	"fmt"
)

// HeaderLength is the fixed, wire size of an ILNPv6 header in bytes.
const HeaderLength = 40

// Next-header values identifying the payload that follows an ILNPv6 header.
const (
	NextHeaderJCMP = 150
	NextHeaderJTP  = 151
)

// Header is the fixed-layout ILNPv6 header described in spec.md §3:
// version(4) | traffic class(8) | flow label(20) | payload length(16) |
// next header(8) | hop limit(8) | source locator(64) | source NID(64) |
// destination locator(64) | destination NID(64), all big-endian.
type Header struct {
	Version            uint8 // low 4 bits significant
	TrafficClass       uint8
	FlowLabel          uint32 // low 20 bits significant
	PayloadLength      uint16
	NextHeader         uint8
	HopLimit           uint8
	SourceLocator      uint64
	SourceNID          uint64
	DestinationLocator uint64
	DestinationNID     uint64
}

// Encode serializes h into a freshly allocated 40-byte buffer.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderLength)

	word := uint32(h.Version&0xF)<<28 | uint32(h.TrafficClass)<<20 | (h.FlowLabel & 0xFFFFF)
	binary.BigEndian.PutUint32(buf[0:4], word)
	binary.BigEndian.PutUint16(buf[4:6], h.PayloadLength)
	buf[6] = h.NextHeader
	buf[7] = h.HopLimit
	binary.BigEndian.PutUint64(buf[8:16], h.SourceLocator)
	binary.BigEndian.PutUint64(buf[16:24], h.SourceNID)
	binary.BigEndian.PutUint64(buf[24:32], h.DestinationLocator)
	binary.BigEndian.PutUint64(buf[32:40], h.DestinationNID)

	return buf
}

// DecodeHeader parses the first 40 bytes of buf as an ILNPv6 header. It
// rejects buffers shorter than HeaderLength.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderLength {
		return Header{}, fmt.Errorf("wire.DecodeHeader: buffer too short: %d bytes", len(buf))
	}

	word := binary.BigEndian.Uint32(buf[0:4])

	return Header{
		Version:            uint8(word >> 28),
		TrafficClass:       uint8(word >> 20),
		FlowLabel:          word & 0xFFFFF,
		PayloadLength:      binary.BigEndian.Uint16(buf[4:6]),
		NextHeader:         buf[6],
		HopLimit:           buf[7],
		SourceLocator:      binary.BigEndian.Uint64(buf[8:16]),
		SourceNID:          binary.BigEndian.Uint64(buf[16:24]),
		DestinationLocator: binary.BigEndian.Uint64(buf[24:32]),
		DestinationNID:     binary.BigEndian.Uint64(buf[32:40]),
	}, nil
}
