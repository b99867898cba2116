package etherdev

import "go.uber.org/atomic"

// guard arbitrates access to the controller handle and the frame buffer.
// Both are claimed together or not at all. It never blocks.
type guard struct {
	ctlBusy atomic.Bool
	bufBusy atomic.Bool
}

// claim is an exclusive hold on the controller and the frame buffer.
// It must be released exactly once.
type claim struct {
	g   *guard
	ctl Controller
	buf *frameBuffer
}

// tryClaim returns ok=false immediately if either resource is held.
func (d *Device) tryClaim() (c claim, ok bool) {
	g := &d.guard
	if !g.ctlBusy.CAS(false, true) {
		return claim{}, false
	}
	if !g.bufBusy.CAS(false, true) {
		g.ctlBusy.Store(false)
		return claim{}, false
	}
	return claim{g: g, ctl: d.ctl, buf: &d.buf}, true
}

func (c claim) release() {
	c.g.bufBusy.Store(false)
	c.g.ctlBusy.Store(false)
}

// idle reports whether no claim is held.
func (g *guard) idle() bool {
	return !g.ctlBusy.Load() && !g.bufBusy.Load()
}
