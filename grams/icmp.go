package grams

import "encoding/binary"

// ICMP types handled by the responder.
const (
	ICMPV4_TYPE_ECHOREPLY   = 0
	ICMPV4_TYPE_ECHOREQUEST = 8
)

// ICMPv4Echo is the header of an ICMP echo request or reply.
// The echo data follows it.
type ICMPv4Echo [8]byte

// DecodeICMPv4Echo copies the ICMP header at the start of b.
func DecodeICMPv4Echo(b []byte) (icmp ICMPv4Echo, e error) {
	if len(b) < len(icmp) {
		return icmp, ErrShortFrame
	}
	copy(icmp[:], b)
	return icmp, nil
}

func (icmp *ICMPv4Echo) Type() uint8        { return icmp[0] }
func (icmp *ICMPv4Echo) Code() uint8        { return icmp[1] }
func (icmp *ICMPv4Echo) Checksum() uint16   { return binary.BigEndian.Uint16(icmp[2:4]) }
func (icmp *ICMPv4Echo) Identifier() uint16 { return binary.BigEndian.Uint16(icmp[4:6]) }
func (icmp *ICMPv4Echo) Sequence() uint16   { return binary.BigEndian.Uint16(icmp[6:8]) }
func (icmp *ICMPv4Echo) Put(b []byte) int   { return copy(b, icmp[:]) }

func (icmp *ICMPv4Echo) Set() ICMPv4EchoSet { return ICMPv4EchoSet{icmp} }

type ICMPv4EchoSet struct {
	icmp *ICMPv4Echo
}

func (s ICMPv4EchoSet) Type(t uint8)         { s.icmp[0] = t }
func (s ICMPv4EchoSet) Code(c uint8)         { s.icmp[1] = c }
func (s ICMPv4EchoSet) Checksum(c uint16)    { binary.BigEndian.PutUint16(s.icmp[2:4], c) }
func (s ICMPv4EchoSet) Identifier(id uint16) { binary.BigEndian.PutUint16(s.icmp[4:6], id) }
func (s ICMPv4EchoSet) Sequence(seq uint16)  { binary.BigEndian.PutUint16(s.icmp[6:8], seq) }
