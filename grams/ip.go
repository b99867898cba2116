package grams

import (
	"encoding/binary"
	"net"
)

// IP header data.

const (
	IPHEADER_FLAG_DONTFRAGMENT  = 0x4000
	IPHEADER_FLAG_MOREFRAGMENTS = 0x2000
	IPHEADER_VERSION_4          = 0x45
	IPHEADER_PROTOCOL_ICMP      = 1
	IPHEADER_PROTOCOL_TCP       = 6
	IPHEADER_PROTOCOL_UDP       = 17
)

// See https://hpd.gasmi.net/ to decode Hex Frames

// IPv4 is an IPv4 header without options.
type IPv4 [20]byte

// DecodeIPv4 copies the fixed part of the IPv4 header at the start of b.
// It fails if b is shorter than the header length announced by IHL.
func DecodeIPv4(b []byte) (ip IPv4, e error) {
	if len(b) < len(ip) {
		return ip, ErrShortFrame
	}
	copy(ip[:], b)
	if hl := ip.HeaderLength(); hl < len(ip) || len(b) < hl {
		return ip, ErrShortFrame
	}
	return ip, nil
}

func (ip *IPv4) Version() uint8 { return ip[0] >> 4 }
func (ip *IPv4) IHL() uint8     { return ip[0] & 0x0f }
func (ip *IPv4) TOS() uint8     { return ip[1] }

// HeaderLength returns the header length in octets, options included.
func (ip *IPv4) HeaderLength() int { return int(ip.IHL()) * 4 }

// TotalLength IPv4 field indicating the combined length of the IP header and payload length in octets.
func (ip *IPv4) TotalLength() uint16 { return binary.BigEndian.Uint16(ip[2:4]) }
func (ip *IPv4) ID() uint16          { return binary.BigEndian.Uint16(ip[4:6]) }
func (ip *IPv4) Flags() IPFlags      { return IPFlags(binary.BigEndian.Uint16(ip[6:8])) }
func (ip *IPv4) TTL() uint8          { return ip[8] }
func (ip *IPv4) Protocol() uint8     { return ip[9] }
func (ip *IPv4) Checksum() uint16    { return binary.BigEndian.Uint16(ip[10:12]) }

// Source IPv4 Address
func (ip *IPv4) Source() net.IP { return ip[12:16] }

// Destination IPv4 Address
func (ip *IPv4) Destination() net.IP { return ip[16:20] }

func (ip *IPv4) Put(b []byte) int { return copy(b, ip[:]) }

func (ip *IPv4) String() string {
	return "IPv4 " + ip.Source().String() + "->" + ip.Destination().String()
}

type IPFlags uint16

func (f IPFlags) DontFragment() bool     { return f&IPHEADER_FLAG_DONTFRAGMENT != 0 }
func (f IPFlags) MoreFragments() bool    { return f&IPHEADER_FLAG_MOREFRAGMENTS != 0 }
func (f IPFlags) FragmentOffset() uint16 { return uint16(f) & 0x1fff }

func (ip *IPv4) Set() IPv4Set { return IPv4Set{ip} }

// IPv4Set is a helper struct to set fields of IPv4 data buffer.
type IPv4Set struct {
	ip *IPv4
}

func (s IPv4Set) Reset() {
	*(s.ip) = IPv4{}
}

// VersionIHL sets the version and header length octet.
func (s IPv4Set) VersionIHL(v uint8)      { s.ip[0] = v }
func (s IPv4Set) TOS(tos uint8)           { s.ip[1] = tos }
func (s IPv4Set) TotalLength(plen uint16) { binary.BigEndian.PutUint16(s.ip[2:4], plen) }
func (s IPv4Set) ID(id uint16)            { binary.BigEndian.PutUint16(s.ip[4:6], id) }
func (s IPv4Set) Flags(ORFlags uint16)    { binary.BigEndian.PutUint16(s.ip[6:8], ORFlags) }
func (s IPv4Set) TTL(ttl uint8)           { s.ip[8] = ttl }
func (s IPv4Set) Protocol(p uint8)        { s.ip[9] = p }
func (s IPv4Set) Checksum(c uint16)       { binary.BigEndian.PutUint16(s.ip[10:12], c) }

// Source sets the source IPv4 Address
func (s IPv4Set) Source(ip net.IP) { copy(s.ip[12:16], ip) }

// Destination sets the destination IPv4 Address
func (s IPv4Set) Destination(ip net.IP) { copy(s.ip[16:20], ip) }
