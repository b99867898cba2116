//go:build linux
// +build linux

// Command etherdev-tap runs the poll-cycle responder on a TAP interface.
// The responder answers ARP and, optionally, ping for its address.
package main

import (
	"errors"
	"net"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soypat/etherdev"
	"github.com/soypat/etherdev/lax"
	"github.com/soypat/etherdev/poll"
	"github.com/soypat/etherdev/sniffer"
	"github.com/soypat/etherdev/tapctl"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var logger = lax.New("main")

var app = &cli.App{
	Name:  "etherdev-tap",
	Usage: "Answer ARP and ICMP echo through a single-buffer device on a TAP interface.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "ifname",
			Value:   "tap0",
			Usage:   "TAP interface `name`.",
			EnvVars: []string{"ETHERDEV_IFNAME"},
		},
		&cli.StringFlag{
			Name:  "mac",
			Value: "02:00:00:00:00:01",
			Usage: "Responder MAC `address`.",
		},
		&cli.StringFlag{
			Name:  "host-mac",
			Usage: "MAC `address` assigned to the host side of the TAP interface.",
		},
		&cli.StringFlag{
			Name:     "ip",
			Usage:    "Responder IPv4 `address`.",
			Required: true,
			EnvVars:  []string{"ETHERDEV_IP"},
		},
		&cli.BoolFlag{
			Name:  "icmp",
			Value: true,
			Usage: "Answer ICMP echo requests.",
		},
		&cli.BoolFlag{
			Name:  "sniff",
			Usage: "Log every frame (needs ETHERDEV_LOG_sniffer=D).",
		},
		&cli.BoolFlag{
			Name:  "announce",
			Value: true,
			Usage: "Send a gratuitous ARP at startup.",
		},
		&cli.DurationFlag{
			Name:  "interval",
			Value: time.Millisecond,
			Usage: "Idle poll `interval`.",
		},
	},
	Action: run,
}

func run(c *cli.Context) error {
	mac, e := net.ParseMAC(c.String("mac"))
	if e != nil {
		return e
	}
	ip, e := netip.ParseAddr(c.String("ip"))
	if e != nil {
		return e
	}
	tcfg := tapctl.Config{Name: c.String("ifname")}
	if s := c.String("host-mac"); s != "" {
		if tcfg.HardwareAddr, e = net.ParseMAC(s); e != nil {
			return e
		}
	}

	tap, e := tapctl.Open(tcfg)
	if e != nil {
		return e
	}
	defer tap.Close()

	var ctl etherdev.Controller = tap
	if c.Bool("sniff") {
		ctl = sniffer.New(ctl, lax.New("sniffer"))
	}
	dev := etherdev.New(ctl)
	ifc, e := poll.New(dev, poll.Config{HardwareAddr: mac, IP: ip, EnableICMP: c.Bool("icmp")})
	if e != nil {
		return e
	}
	caps := dev.Capabilities()
	logger.Info("device ready",
		zap.String("ifname", tap.Name()),
		zap.Stringer("mac", mac),
		zap.Stringer("ip", ip),
		zap.Stringer("medium", caps.Medium),
		zap.Int("mtu", caps.MTU),
	)

	if c.Bool("announce") {
		if e := ifc.Announce(time.Now()); e != nil {
			logger.Warn("announce error", zap.Error(e))
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	ticker := time.NewTicker(c.Duration("interval"))
	defer ticker.Stop()

	for {
		handled, e := ifc.Poll(time.Now())
		if e != nil {
			if errors.Is(e, tapctl.ErrClosed) {
				return e
			}
			logger.Warn("poll error", zap.Error(e))
		}
		var wait <-chan time.Time
		if !handled {
			wait = ticker.C
		} else if len(interrupt) == 0 {
			continue
		}
		select {
		case <-interrupt:
			logStats(ifc.Stats(), dev.Counters())
			return nil
		case <-wait:
		}
	}
}

func logStats(st poll.Stats, cnt etherdev.Counters) {
	logger.Info("stopping",
		zap.Uint64("rx-frames", st.RxFrames),
		zap.Uint64("arp-replies", st.ARPReplies),
		zap.Uint64("echo-replies", st.EchoReplies),
		zap.Uint64("dropped", st.Dropped),
		zap.Uint64("tx-frames", cnt.TxFrames),
		zap.Uint64("exhausted", cnt.Exhausted),
		zap.Uint64("illegal", cnt.Illegal),
	)
}

func main() {
	if e := app.Run(os.Args); e != nil {
		logger.Fatal("exit", zap.Error(e))
	}
}
