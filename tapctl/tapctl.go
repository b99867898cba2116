//go:build linux
// +build linux

package tapctl

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/songgao/water"
	"github.com/vishvananda/netlink"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Errors.
var (
	ErrClosed       = errors.New("tapctl: controller closed")
	ErrFrameTooLong = errors.New("tapctl: frame exceeds buffer")
)

// readBufferSize fits any frame the TAP can deliver.
const readBufferSize = 1 << 16

// Controller is an etherdev.Controller that exchanges frames with a TAP interface.
// Receive and Transmit must not be called concurrently with each other, which
// etherdev.Device guarantees.
type Controller struct {
	ifc     *water.Interface
	logger  *zap.Logger
	link    netlink.Link
	setUp   bool
	timeout time.Duration
	timer   *time.Timer

	frames  chan []byte
	free    chan []byte
	readErr error
}

// Open creates or attaches to a TAP interface.
func Open(cfg Config) (*Controller, error) {
	cfg.applyDefaults()
	if e := cfg.Validate(); e != nil {
		return nil, e
	}

	wcfg := water.Config{DeviceType: water.TAP}
	wcfg.Name = cfg.Name
	ifc, e := water.New(wcfg)
	if e != nil {
		return nil, fmt.Errorf("water.New(%s): %w", cfg.Name, e)
	}

	c := &Controller{
		ifc:     ifc,
		logger:  logger.With(zap.String("ifname", ifc.Name())),
		timeout: cfg.ReadTimeout,
		timer:   time.NewTimer(time.Hour),
		frames:  make(chan []byte, 1),
		free:    make(chan []byte, 2),
	}
	c.timer.Stop()
	if e := c.configureLink(cfg); e != nil {
		return nil, multierr.Append(e, ifc.Close())
	}

	for i := 0; i < cap(c.free); i++ {
		c.free <- make([]byte, readBufferSize)
	}
	go c.readLoop()
	c.logger.Info("opened")
	return c, nil
}

func (c *Controller) configureLink(cfg Config) error {
	name := c.ifc.Name()
	link, e := netlink.LinkByName(name)
	if e != nil {
		return fmt.Errorf("netlink.LinkByName(%s): %w", name, e)
	}
	c.link = link

	if len(cfg.HardwareAddr) > 0 {
		if e := netlink.LinkSetHardwareAddr(link, cfg.HardwareAddr); e != nil {
			return fmt.Errorf("netlink.LinkSetHardwareAddr(%s): %w", name, e)
		}
	}
	if cfg.SkipBringUp || link.Attrs().Flags&net.FlagUp != 0 {
		return nil
	}
	if e := netlink.LinkSetUp(link); e != nil {
		c.logger.Error("netlink.LinkSetUp error", zap.Error(e))
		return fmt.Errorf("netlink.LinkSetUp(%s): %w", name, e)
	}
	c.setUp = true
	c.logger.Info("brought up the interface")
	return nil
}

// Name returns the interface name.
func (c *Controller) Name() string {
	return c.ifc.Name()
}

func (c *Controller) readLoop() {
	for buf := range c.free {
		n, e := c.ifc.Read(buf[:cap(buf)])
		if e != nil {
			c.readErr = e
			close(c.frames)
			return
		}
		c.frames <- buf[:n]
	}
}

// Receive copies one frame into buf. It returns 0 bytes if no frame arrives
// within the read timeout.
func (c *Controller) Receive(buf []byte) (n int, e error) {
	c.timer.Reset(c.timeout)
	defer func() {
		if !c.timer.Stop() {
			select {
			case <-c.timer.C:
			default:
			}
		}
	}()

	select {
	case frame, ok := <-c.frames:
		if !ok {
			return 0, multierr.Append(ErrClosed, c.readErr)
		}
		n = copy(buf, frame)
		if len(frame) > len(buf) {
			e = ErrFrameTooLong
		}
		c.free <- frame[:cap(frame)]
		return n, e
	case <-c.timer.C:
		return 0, nil
	}
}

// Transmit writes buf as one frame.
func (c *Controller) Transmit(buf []byte) error {
	_, e := c.ifc.Write(buf)
	return e
}

// Close restores the link state and closes the interface.
func (c *Controller) Close() error {
	var e error
	if c.setUp {
		if e = netlink.LinkSetDown(c.link); e != nil {
			e = fmt.Errorf("netlink.LinkSetDown(%s): %w", c.Name(), e)
		}
	}
	e = multierr.Append(e, c.ifc.Close())
	c.logger.Info("closed", zap.Error(e))
	return e
}
