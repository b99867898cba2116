// Package tapctl provides an etherdev.Controller backed by a Linux TAP interface,
// so the adapter and a stack on top of it can be exercised without hardware.
package tapctl

import (
	"errors"
	"net"
	"time"

	"github.com/soypat/etherdev/lax"
)

var logger = lax.New("tapctl")

// Defaults and limits.
const (
	DefaultReadTimeout = 10 * time.Millisecond
	// MaxNameLength is IFNAMSIZ minus the terminating NUL.
	MaxNameLength = 15
)

// Config contains Controller configuration.
type Config struct {
	// Name is the interface name. The kernel picks a name if it is empty.
	Name string
	// HardwareAddr, if set, is assigned to the host side of the interface.
	HardwareAddr net.HardwareAddr
	// SkipBringUp leaves the link state unchanged.
	SkipBringUp bool
	// ReadTimeout is how long Receive waits for a frame before reporting none.
	ReadTimeout time.Duration
}

func (cfg *Config) applyDefaults() {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
}

// Validate checks the configuration.
func (cfg Config) Validate() error {
	if len(cfg.Name) > MaxNameLength {
		return errors.New("tapctl: interface name too long")
	}
	if n := len(cfg.HardwareAddr); n != 0 && n != 6 {
		return errors.New("tapctl: HardwareAddr must be a 48-bit MAC address")
	}
	return nil
}
