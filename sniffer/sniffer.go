// Package sniffer provides a Controller decorator that logs frames as they
// traverse it.
package sniffer

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/soypat/etherdev"
	"github.com/soypat/etherdev/lax"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// LogPackets enables frame logging. It may be toggled at any time.
var LogPackets = atomic.NewBool(true)

type controller struct {
	lower  etherdev.Controller
	logger *zap.Logger
}

// New wraps lower so that every received and transmitted frame is logged at
// debug level and every controller error at warn level.
// Results of lower are returned unchanged.
func New(lower etherdev.Controller, logger *zap.Logger) etherdev.Controller {
	return &controller{
		lower:  lower,
		logger: logger,
	}
}

func (c *controller) Receive(buf []byte) (int, error) {
	n, e := c.lower.Receive(buf)
	if e != nil {
		c.logger.Warn("receive error", zap.Error(e))
	} else if n > 0 && n <= len(buf) {
		c.logFrame("recv", buf[:n])
	}
	return n, e
}

func (c *controller) Transmit(buf []byte) error {
	if e := c.lower.Transmit(buf); e != nil {
		c.logger.Warn("transmit error", zap.Error(e), zap.Int("len", len(buf)))
		return e
	}
	c.logFrame("send", buf)
	return nil
}

func (c *controller) logFrame(dir string, frame []byte) {
	if !LogPackets.Load() {
		return
	}
	ce := c.logger.Check(zap.DebugLevel, dir)
	if ce == nil {
		return
	}
	ce.Write(Summarize(frame)...)
}

// Summarize decodes an Ethernet frame and returns log fields describing it.
func Summarize(frame []byte) []zap.Field {
	pkt := gopacket.NewPacket(frame, layers.LayerTypeEthernet, gopacket.DecodeOptions{Lazy: true, NoCopy: true})
	var names []string
	for _, l := range pkt.Layers() {
		names = append(names, l.LayerType().String())
	}
	fields := []zap.Field{zap.Int("len", len(frame)), zap.Strings("layers", names)}

	if eth, ok := pkt.LinkLayer().(*layers.Ethernet); ok {
		fields = append(fields, zap.Stringer("src", eth.SrcMAC), zap.Stringer("dst", eth.DstMAC))
	}
	if ip, ok := pkt.NetworkLayer().(*layers.IPv4); ok {
		fields = append(fields, zap.Stringer("ip-src", ip.SrcIP), zap.Stringer("ip-dst", ip.DstIP))
	}
	if arp, ok := pkt.Layer(layers.LayerTypeARP).(*layers.ARP); ok {
		fields = append(fields, zap.Uint16("arp-op", arp.Operation))
	}
	if el := pkt.ErrorLayer(); el != nil {
		fields = append(fields, zap.NamedError("decode", el.Error()), lax.Frame("frame", frame))
	}
	return fields
}
