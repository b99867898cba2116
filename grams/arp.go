package grams

import (
	"encoding/binary"
	"net"
)

/* ARP Frame (Address resolution protocol)
see https://www.youtube.com/watch?v=aamG4-tH_m8

Legend:
	HW:    Hardware
	AT:    Address type
	AL:    Address Length
	AoS:   Address of sender
	AoT:   Address of Target
	Proto: Protocol (below is ipv4 example)
0      2          4       5          6         8       14          18       24          28
| HW AT | Proto AT | HW AL | Proto AL | OP Code | HW AoS | Proto AoS | HW AoT | Proto AoT |
|  2B   |  2B      |  1B   |  1B      | 2B      |   6B   |    4B     |  6B    |   4B
| ethern| IP       |macaddr|          |ask|reply|                    |for op=1|
| = 1   |=0x0800   |=6     |=4        | 1 | 2   |       known        |=0      |
*/

// ARP operation codes.
const (
	ARPRequest = 1
	ARPReply   = 2
)

const arpHWEthernet = 1

type ARPv4 [28]byte

// DecodeARPv4 copies the ARP message at the start of b.
func DecodeARPv4(b []byte) (a ARPv4, e error) {
	if len(b) < len(a) {
		return a, ErrShortFrame
	}
	copy(a[:], b)
	return a, nil
}

func (a *ARPv4) HWType() uint16    { return binary.BigEndian.Uint16(a[0:2]) }
func (a *ARPv4) ProtoType() uint16 { return binary.BigEndian.Uint16(a[2:4]) }

// HWSize Hardware addresss size
func (a *ARPv4) HWSize() uint8 { return a[4] }

// ProtoSize Protocol address size (IPv4 is 4, should always return 4)
func (a *ARPv4) ProtoSize() uint8 { return a[5] }

func (a *ARPv4) Operation() uint16 { return binary.BigEndian.Uint16(a[6:8]) }

func (a *ARPv4) HWSender() net.HardwareAddr { return a[8:14] }
func (a *ARPv4) ProtoSender() net.IP        { return a[14:18] }
func (a *ARPv4) HWTarget() net.HardwareAddr { return a[18:24] }
func (a *ARPv4) ProtoTarget() net.IP        { return a[24:28] }
func (a *ARPv4) FrameLength() uint16        { return uint16(len(a)) }
func (a *ARPv4) Put(b []byte) int           { return copy(b, a[:]) }

// IsEthernetIPv4 reports whether a maps IPv4 addresses to Ethernet addresses.
func (a *ARPv4) IsEthernetIPv4() bool {
	return a.HWType() == arpHWEthernet && EtherType(a.ProtoType()) == EtherTypeIPv4 &&
		a.HWSize() == 6 && a.ProtoSize() == 4
}

func (a *ARPv4) String() string {
	if a.Operation() == ARPRequest {
		return "ARP " + a.HWSender().String() + "->" +
			"who has " + a.ProtoTarget().String() + "?" + " Tell " + a.ProtoSender().String()
	}
	return "ARP " + a.HWSender().String() + "->" +
		"I have " + a.ProtoSender().String() + "! Tell " + a.ProtoTarget().String() + ", aka " + a.HWTarget().String()
}

func (a *ARPv4) Set() ARPv4Set {
	return ARPv4Set{ARP: a}
}

type ARPv4Set struct {
	ARP *ARPv4
}

func (a ARPv4Set) Reset() {
	*(a.ARP) = ARPv4{}
}

// EthernetIPv4 fills the address type and size fields for IPv4 over Ethernet.
func (a ARPv4Set) EthernetIPv4() {
	binary.BigEndian.PutUint16(a.ARP[0:2], arpHWEthernet)
	binary.BigEndian.PutUint16(a.ARP[2:4], uint16(EtherTypeIPv4))
	a.ARP[4], a.ARP[5] = 6, 4
}

func (a ARPv4Set) Operation(op uint16)           { binary.BigEndian.PutUint16(a.ARP[6:8], op) }
func (a ARPv4Set) HWSender(MAC net.HardwareAddr) { copy(a.ARP[8:14], MAC) }
func (a ARPv4Set) ProtoSender(ip net.IP)         { copy(a.ARP[14:18], ip) }
func (a ARPv4Set) HWTarget(MAC net.HardwareAddr) { copy(a.ARP[18:24], MAC) }
func (a ARPv4Set) ProtoTarget(ip net.IP)         { copy(a.ARP[24:28], ip) }
