package poll

import (
	"errors"
	"net"
	"net/netip"
)

// Config contains Interface configuration.
type Config struct {
	// HardwareAddr is the unicast MAC address answered for.
	HardwareAddr net.HardwareAddr
	// IP is the IPv4 address answered for.
	IP netip.Addr
	// EnableICMP enables answering ICMP echo requests.
	EnableICMP bool
}

// Validate checks the configuration.
func (cfg Config) Validate() error {
	if len(cfg.HardwareAddr) != 6 {
		return errors.New("poll: HardwareAddr must be a 48-bit MAC address")
	}
	if cfg.HardwareAddr[0]&0x01 != 0 {
		return errors.New("poll: HardwareAddr must be unicast")
	}
	if !cfg.IP.Is4() {
		return errors.New("poll: IP must be IPv4")
	}
	return nil
}
