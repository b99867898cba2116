package etherdev

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

var errBadCount = errors.New("etherdev: controller reported invalid byte count")

// RxToken permits one attempt to receive a frame.
// Dropping it without calling Consume has no effect on the device.
type RxToken struct {
	dev *Device
}

// Consume claims the frame buffer, has the controller receive one frame into it,
// and passes the received bytes to f. The timestamp is informational.
//
// It returns ErrExhausted if the buffer is claimed, a *DriverError if the
// controller fails, and otherwise the value returned by f.
// f is not called on failure. frame is only valid until f returns.
func (t *RxToken) Consume(now time.Time, f func(frame []byte) error) error {
	d := t.dev
	if d == nil {
		return ErrIllegal
	}
	t.dev = nil

	c, ok := d.tryClaim()
	if !ok {
		d.refused("receive")
		return ErrExhausted
	}
	defer c.release()

	n, e := c.ctl.Receive(c.buf[:])
	if e == nil && (n < 0 || n > len(c.buf)) {
		e = errBadCount
	}
	if e != nil {
		return d.driverFailed(&DriverError{Op: "receive", Err: e})
	}
	if n > 0 {
		d.cnt.rxFrames.Inc()
	}
	return f(c.buf[:n])
}

// TxToken permits one attempt to transmit a frame.
// Dropping it without calling Consume has no effect on the device.
type TxToken struct {
	dev *Device
}

// Consume claims the frame buffer, lets f write a frame of length bytes into it,
// and has the controller transmit those bytes. The timestamp is informational.
//
// It returns ErrExhausted if length exceeds BufferSize or the buffer is claimed;
// f is not called then. Once the buffer is claimed the frame is always
// transmitted, even when f fails. A controller failure takes precedence over the
// error from f, which is kept in DriverError.Superseded.
func (t *TxToken) Consume(now time.Time, length int, f func(frame []byte) error) error {
	d := t.dev
	if d == nil {
		return ErrIllegal
	}
	t.dev = nil

	if length < 0 || length > BufferSize {
		d.cnt.exhausted.Inc()
		return ErrExhausted
	}

	c, ok := d.tryClaim()
	if !ok {
		d.refused("transmit")
		return ErrExhausted
	}
	defer c.release()

	frame := c.buf[:length]
	fillErr := f(frame)
	if e := c.ctl.Transmit(frame); e != nil {
		return d.driverFailed(&DriverError{Op: "transmit", Err: e, Superseded: fillErr})
	}
	d.cnt.txFrames.Inc()
	return fillErr
}

func (d *Device) refused(op string) {
	d.cnt.exhausted.Inc()
	if ce := logger.Check(zap.DebugLevel, "claim refused"); ce != nil {
		ce.Write(zap.String("op", op))
	}
}

func (d *Device) driverFailed(e *DriverError) error {
	d.cnt.illegal.Inc()
	if ce := logger.Check(zap.DebugLevel, "controller error"); ce != nil {
		fields := []zap.Field{zap.String("op", e.Op), zap.Error(e.Err)}
		if e.Superseded != nil {
			fields = append(fields, zap.NamedError("superseded", e.Superseded))
		}
		ce.Write(fields...)
	}
	return e
}
