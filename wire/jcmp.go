package wire

import (
	"encoding/binary"
	"fmt"
)

// JCMP message codes, per spec.md §3.
const (
	CodeNDSolicitation  = 0
	CodeNDAdvertisement = 1
	CodeDNSFQDNQuery    = 4
	CodeDNSFQDNResponse = 5
	CodeDNSILVQuery     = 6
	CodeDNSILVResponse  = 7
	CodeRouterRequest   = 8
	CodeRouterResponse  = 9
)

// minPayloadLength is the minimum legal payload length (including the code
// byte) for each JCMP code, per spec.md §4.2.
var minPayloadLength = map[uint8]int{
	CodeNDSolicitation:  1,
	CodeNDAdvertisement: 3,
	CodeDNSFQDNQuery:    1,
	CodeDNSFQDNResponse: 2,
	CodeDNSILVQuery:     1,
	CodeDNSILVResponse:  2,
	CodeRouterRequest:   10,
	CodeRouterResponse:  11,
}

// Message is a JCMP payload. Code drives the receive-path switch directly;
// no dynamic dispatch is needed there (spec.md §9).
type Message interface {
	Code() uint8
	Encode() []byte
}

// Solicitation is JCMP code 0 (ND Solicitation). It carries no fields beyond
// the code byte.
type Solicitation struct{}

func (Solicitation) Code() uint8    { return CodeNDSolicitation }
func (Solicitation) Encode() []byte { return []byte{CodeNDSolicitation} }

// Advertisement is JCMP code 1 (ND Advertisement).
type Advertisement struct {
	DestinationPort uint16
}

func (Advertisement) Code() uint8 { return CodeNDAdvertisement }

func (a Advertisement) Encode() []byte {
	buf := make([]byte, 3)
	buf[0] = CodeNDAdvertisement
	binary.BigEndian.PutUint16(buf[1:3], a.DestinationPort)
	return buf
}

// FQDNQuery is JCMP code 4 (DNS FQDN Query).
type FQDNQuery struct {
	FQDN string
}

func (FQDNQuery) Code() uint8 { return CodeDNSFQDNQuery }

func (q FQDNQuery) Encode() []byte {
	buf := make([]byte, 1+len(q.FQDN))
	buf[0] = CodeDNSFQDNQuery
	copy(buf[1:], q.FQDN)
	return buf
}

// FQDNResponse is JCMP code 5 (DNS FQDN Response).
type FQDNResponse struct {
	TTL  uint8
	FQDN string
}

func (FQDNResponse) Code() uint8 { return CodeDNSFQDNResponse }

func (r FQDNResponse) Encode() []byte {
	buf := make([]byte, 2+len(r.FQDN))
	buf[0] = CodeDNSFQDNResponse
	buf[1] = r.TTL
	copy(buf[2:], r.FQDN)
	return buf
}

// ILVQuery is JCMP code 6 (DNS ILV Query). It carries no fields beyond the
// code byte.
type ILVQuery struct{}

func (ILVQuery) Code() uint8    { return CodeDNSILVQuery }
func (ILVQuery) Encode() []byte { return []byte{CodeDNSILVQuery} }

// ILVResponse is JCMP code 7 (DNS ILV Response).
type ILVResponse struct {
	TTL uint8
}

func (ILVResponse) Code() uint8 { return CodeDNSILVResponse }

func (r ILVResponse) Encode() []byte {
	return []byte{CodeDNSILVResponse, r.TTL}
}

// RouterRequest is JCMP code 8 (RREQ).
type RouterRequest struct {
	HopCount           uint8
	DestinationLocator uint64
}

func (RouterRequest) Code() uint8 { return CodeRouterRequest }

func (r RouterRequest) Encode() []byte {
	buf := make([]byte, 10)
	buf[0] = CodeRouterRequest
	buf[1] = r.HopCount
	binary.BigEndian.PutUint64(buf[2:10], r.DestinationLocator)
	return buf
}

// RouterResponse is JCMP code 9 (RRES).
type RouterResponse struct {
	HopCount           uint8
	DestinationLocator uint64
	TTL                uint8
}

func (RouterResponse) Code() uint8 { return CodeRouterResponse }

func (r RouterResponse) Encode() []byte {
	buf := make([]byte, 11)
	buf[0] = CodeRouterResponse
	buf[1] = r.HopCount
	binary.BigEndian.PutUint64(buf[2:10], r.DestinationLocator)
	buf[10] = r.TTL
	return buf
}

// DecodeJCMP parses a JCMP payload (the bytes following the ILNPv6 header).
// It rejects empty payloads and payloads shorter than the minimum length for
// their code.
func DecodeJCMP(payload []byte) (Message, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("wire.DecodeJCMP: empty payload")
	}

	code := payload[0]
	min, known := minPayloadLength[code]
	if !known {
		return nil, fmt.Errorf("wire.DecodeJCMP: unsupported code %d", code)
	}
	if len(payload) < min {
		return nil, fmt.Errorf("wire.DecodeJCMP: payload too short for code %d: %d bytes", code, len(payload))
	}

	switch code {
	case CodeNDSolicitation:
		return Solicitation{}, nil

	case CodeNDAdvertisement:
		return Advertisement{
			DestinationPort: binary.BigEndian.Uint16(payload[1:3]),
		}, nil

	case CodeDNSFQDNQuery:
		return FQDNQuery{FQDN: string(payload[1:])}, nil

	case CodeDNSFQDNResponse:
		return FQDNResponse{
			TTL:  payload[1],
			FQDN: string(payload[2:]),
		}, nil

	case CodeDNSILVQuery:
		return ILVQuery{}, nil

	case CodeDNSILVResponse:
		return ILVResponse{TTL: payload[1]}, nil

	case CodeRouterRequest:
		return RouterRequest{
			HopCount:           payload[1],
			DestinationLocator: binary.BigEndian.Uint64(payload[2:10]),
		}, nil

	case CodeRouterResponse:
		return RouterResponse{
			HopCount:           payload[1],
			DestinationLocator: binary.BigEndian.Uint64(payload[2:10]),
			TTL:                payload[10],
		}, nil
	}

	// unreachable: code is validated against minPayloadLength above
	return nil, fmt.Errorf("wire.DecodeJCMP: unsupported code %d", code)
}
