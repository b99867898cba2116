// Package poll drives an etherdev.Device once per poll cycle and answers ARP and
// ICMP echo requests addressed to it.
//
// A reply is composed into a scratch buffer owned by the Interface while the
// receive token holds the frame buffer, and transmitted with the paired transmit
// token after the receive claim is released.
package poll

import (
	"bytes"
	"errors"
	"time"

	"github.com/soypat/etherdev"
	"github.com/soypat/etherdev/grams"
	"github.com/soypat/etherdev/lax"
	"github.com/soypat/etherdev/rfc791"
	"go.uber.org/zap"
)

var logger = lax.New("poll")

// Stats contains Interface counters.
type Stats struct {
	RxFrames    uint64
	ARPReplies  uint64
	EchoReplies uint64
	Dropped     uint64
}

// Interface is a minimal IPv4 host on top of a Device.
// It is not safe for concurrent use.
type Interface struct {
	dev   *etherdev.Device
	mac   [6]byte
	ip    [4]byte
	icmp  bool
	stats Stats

	reply    [etherdev.BufferSize]byte
	replyLen int
}

// New creates an Interface.
func New(dev *etherdev.Device, cfg Config) (*Interface, error) {
	if e := cfg.Validate(); e != nil {
		return nil, e
	}
	ifc := &Interface{
		dev:  dev,
		ip:   cfg.IP.As4(),
		icmp: cfg.EnableICMP,
	}
	copy(ifc.mac[:], cfg.HardwareAddr)
	return ifc, nil
}

// Stats returns a snapshot of the counters.
func (ifc *Interface) Stats() Stats {
	return ifc.stats
}

// Poll runs one poll cycle: it receives at most one frame and sends at most one reply.
// handled is true if a frame was received.
//
// A busy device is not an error; the cycle is skipped. Controller failures are returned.
func (ifc *Interface) Poll(now time.Time) (handled bool, e error) {
	rx, tx := ifc.dev.Receive()
	ifc.replyLen = 0
	var rxLen int
	e = rx.Consume(now, func(frame []byte) error {
		rxLen = len(frame)
		if rxLen > 0 {
			ifc.stats.RxFrames++
			ifc.process(frame)
		}
		return nil
	})
	switch {
	case errors.Is(e, etherdev.ErrExhausted):
		return false, nil
	case e != nil:
		return false, e
	}
	if ifc.replyLen == 0 {
		return rxLen > 0, nil
	}

	e = tx.Consume(now, ifc.replyLen, ifc.fillReply)
	if errors.Is(e, etherdev.ErrExhausted) {
		ifc.stats.Dropped++
		return true, nil
	}
	return true, e
}

// Announce transmits a gratuitous ARP request for the configured address.
func (ifc *Interface) Announce(now time.Time) error {
	var eth grams.Ethernet
	es := eth.Set()
	es.Destination(grams.Broadcast)
	es.Source(ifc.mac[:])
	es.EtherType(grams.EtherTypeARP)

	var arp grams.ARPv4
	as := arp.Set()
	as.EthernetIPv4()
	as.Operation(grams.ARPRequest)
	as.HWSender(ifc.mac[:])
	as.ProtoSender(ifc.ip[:])
	as.HWTarget(grams.None)
	as.ProtoTarget(ifc.ip[:])

	n := eth.Put(ifc.reply[:])
	n += arp.Put(ifc.reply[n:])
	ifc.setReplyLen(n)

	tx := ifc.dev.Transmit()
	return tx.Consume(now, ifc.replyLen, ifc.fillReply)
}

func (ifc *Interface) fillReply(frame []byte) error {
	copy(frame, ifc.reply[:ifc.replyLen])
	return nil
}

// setReplyLen pads the reply to the minimum frame length.
func (ifc *Interface) setReplyLen(n int) {
	if n < grams.MinFrameLength {
		for i := n; i < grams.MinFrameLength; i++ {
			ifc.reply[i] = 0
		}
		n = grams.MinFrameLength
	}
	ifc.replyLen = n
}

func (ifc *Interface) process(frame []byte) {
	eth, e := grams.DecodeEthernet(frame)
	if e != nil {
		ifc.drop("ethernet", frame, e)
		return
	}
	if dst := eth.Destination(); !bytes.Equal(dst, ifc.mac[:]) && !bytes.Equal(dst, grams.Broadcast) {
		ifc.drop("not for us", frame, nil)
		return
	}
	payload := frame[eth.HeaderLength():]
	switch {
	case eth.IsVLAN():
		ifc.drop("vlan", frame, nil)
	case eth.EtherType() == grams.EtherTypeARP:
		ifc.processARP(payload, frame)
	case eth.EtherType() == grams.EtherTypeIPv4 && ifc.icmp:
		ifc.processIPv4(&eth, payload, frame)
	default:
		ifc.drop("ethertype", frame, nil)
	}
}

func (ifc *Interface) processARP(payload, frame []byte) {
	req, e := grams.DecodeARPv4(payload)
	switch {
	case e != nil:
		ifc.drop("arp", frame, e)
		return
	case !req.IsEthernetIPv4(), req.Operation() != grams.ARPRequest,
		!bytes.Equal(req.ProtoTarget(), ifc.ip[:]):
		ifc.drop("arp not for us", frame, nil)
		return
	}

	var eth grams.Ethernet
	es := eth.Set()
	es.Destination(req.HWSender())
	es.Source(ifc.mac[:])
	es.EtherType(grams.EtherTypeARP)

	var arp grams.ARPv4
	as := arp.Set()
	as.EthernetIPv4()
	as.Operation(grams.ARPReply)
	as.HWSender(ifc.mac[:])
	as.ProtoSender(ifc.ip[:])
	as.HWTarget(req.HWSender())
	as.ProtoTarget(req.ProtoSender())

	n := eth.Put(ifc.reply[:])
	n += arp.Put(ifc.reply[n:])
	ifc.setReplyLen(n)
	ifc.stats.ARPReplies++
}

func (ifc *Interface) processIPv4(rxEth *grams.Ethernet, payload, frame []byte) {
	ip, e := grams.DecodeIPv4(payload)
	if e != nil {
		ifc.drop("ipv4", frame, e)
		return
	}
	hl, tl := ip.HeaderLength(), int(ip.TotalLength())
	switch {
	case ip.Version() != 4, ip.Protocol() != grams.IPHEADER_PROTOCOL_ICMP,
		!bytes.Equal(ip.Destination(), ifc.ip[:]):
		ifc.drop("ipv4 not for us", frame, nil)
		return
	case rfc791.Sum16(payload[:hl]) != 0:
		ifc.drop("ipv4 checksum", frame, nil)
		return
	case tl < hl+len(grams.ICMPv4Echo{}) || tl > len(payload):
		ifc.drop("ipv4 length", frame, nil)
		return
	case ip.Flags().MoreFragments(), ip.Flags().FragmentOffset() != 0:
		ifc.drop("ipv4 fragment", frame, nil)
		return
	}

	msg := payload[hl:tl]
	req, _ := grams.DecodeICMPv4Echo(msg)
	switch {
	case req.Type() != grams.ICMPV4_TYPE_ECHOREQUEST:
		ifc.drop("icmp type", frame, nil)
		return
	case rfc791.Sum16(msg) != 0:
		ifc.drop("icmp checksum", frame, nil)
		return
	}

	var eth grams.Ethernet
	es := eth.Set()
	es.Destination(rxEth.Source())
	es.Source(ifc.mac[:])
	es.EtherType(grams.EtherTypeIPv4)

	var hdr grams.IPv4
	hs := hdr.Set()
	hs.VersionIHL(grams.IPHEADER_VERSION_4)
	hs.TotalLength(uint16(len(hdr) + len(msg)))
	hs.ID(ip.ID())
	hs.TTL(64)
	hs.Protocol(grams.IPHEADER_PROTOCOL_ICMP)
	hs.Source(ifc.ip[:])
	hs.Destination(ip.Source())
	hs.Checksum(rfc791.Sum16(hdr[:]))

	n := eth.Put(ifc.reply[:])
	nIP := n + hdr.Put(ifc.reply[n:])
	n = nIP + copy(ifc.reply[nIP:], msg)

	echo := req
	set := echo.Set()
	set.Type(grams.ICMPV4_TYPE_ECHOREPLY)
	set.Checksum(0)
	echo.Put(ifc.reply[nIP:])
	set.Checksum(rfc791.Sum16(ifc.reply[nIP:n]))
	echo.Put(ifc.reply[nIP:])

	ifc.setReplyLen(n)
	ifc.stats.EchoReplies++
}

func (ifc *Interface) drop(reason string, frame []byte, e error) {
	ifc.stats.Dropped++
	if ce := logger.Check(zap.DebugLevel, "drop"); ce != nil {
		ce.Write(zap.String("reason", reason), zap.Error(e), lax.Frame("frame", frame))
	}
}
