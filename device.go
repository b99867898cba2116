// Package etherdev adapts a single-buffer blocking Ethernet controller, such as
// the ENC28J60, to a polling network stack.
//
// The stack asks the Device for tokens once per poll cycle. Creating a token never
// fails because it holds no resource. The controller and the one frame buffer are
// claimed when the token is consumed and released when Consume returns, so only
// one frame is ever in flight. A claim attempt that finds the buffer in use fails
// with ErrExhausted instead of waiting.
package etherdev

import (
	"github.com/soypat/etherdev/lax"
	"go.uber.org/atomic"
)

var logger = lax.New("etherdev")

// Controller is the Ethernet controller driver.
// Both methods block for the whole transfer of one frame.
type Controller interface {
	// Receive reads one frame into buf and returns the number of bytes written.
	Receive(buf []byte) (int, error)
	// Transmit sends buf as one frame.
	Transmit(buf []byte) error
}

// Device owns the controller handle and the frame buffer.
// It must not be copied after first use.
type Device struct {
	guard guard
	ctl   Controller
	buf   frameBuffer
	cnt   counters
}

// New creates a Device that takes sole ownership of ctl.
// ctl must not be used by other code afterwards.
func New(ctl Controller) *Device {
	return &Device{ctl: ctl}
}

// Capabilities reports what the device supports. It has no side effects.
func (d *Device) Capabilities() Capabilities {
	return Capabilities{
		Medium:       MediumEthernet,
		MTU:          BufferSize,
		MaxBurstSize: 1,
		Checksum:     stackChecksums,
	}
}

// Receive returns a token pair for one poll cycle.
// The transmit token allows replying to the received frame.
func (d *Device) Receive() (RxToken, TxToken) {
	return RxToken{dev: d}, TxToken{dev: d}
}

// Transmit returns a token for sending one frame.
func (d *Device) Transmit() TxToken {
	return TxToken{dev: d}
}

// Counters contains device counters.
type Counters struct {
	RxFrames  uint64 // frames handed to a receive callback
	TxFrames  uint64 // frames accepted by the controller
	Exhausted uint64 // claims refused and oversize transmit requests
	Illegal   uint64 // controller failures
}

// Counters returns a snapshot of the device counters.
func (d *Device) Counters() Counters {
	return Counters{
		RxFrames:  d.cnt.rxFrames.Load(),
		TxFrames:  d.cnt.txFrames.Load(),
		Exhausted: d.cnt.exhausted.Load(),
		Illegal:   d.cnt.illegal.Load(),
	}
}

type counters struct {
	rxFrames  atomic.Uint64
	txFrames  atomic.Uint64
	exhausted atomic.Uint64
	illegal   atomic.Uint64
}
