package etherdev

import (
	"errors"
	"testing"
	"time"

	"github.com/soypat/etherdev/hex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var (
	now      = time.Unix(1600000000, 0)
	errWire  = errors.New("spi: transfer timeout")
	errParse = errors.New("stack: bad frame")
)

// ARP request from 192.168.1.112 asking for 192.168.1.5.
var arpRequest = hex.Decode([]byte(`ff ff ff ff ff ff 28 d2 44 9a 2f f3 08 06 00 01
08 00 06 04 00 01 28 d2 44 9a 2f f3 c0 a8 01 70
00 00 00 00 00 00 c0 a8 01 05`))

func TestRxPassThrough(t *testing.T) {
	assert, require := assert.New(t), require.New(t)
	ctl := &fakeController{rxFrame: arpRequest}
	dev := New(ctl)

	rx, _ := dev.Receive()
	var seen []byte
	e := rx.Consume(now, func(frame []byte) error {
		seen = append(seen, frame...)
		return errParse
	})
	assert.Equal(errParse, e)
	require.Equal(1, ctl.rxCalls)
	assert.Equal(arpRequest, seen)
	assert.Zero(ctl.txCalls)
	assert.True(dev.guard.idle())
}

func TestRxDriverError(t *testing.T) {
	assert, require := assert.New(t), require.New(t)
	ctl := &fakeController{rxErr: errWire}
	dev := New(ctl)

	rx, _ := dev.Receive()
	called := false
	e := rx.Consume(now, func([]byte) error {
		called = true
		return nil
	})
	assert.False(called)
	assert.ErrorIs(e, ErrIllegal)
	assert.NotErrorIs(e, ErrExhausted)

	var de *DriverError
	require.True(errors.As(e, &de))
	assert.Equal("receive", de.Op)
	assert.Equal(errWire, errors.Unwrap(e))
	assert.True(dev.guard.idle())

	ctl.rxErr = nil
	ctl.rxFrame = []byte{0xaa}
	rx, _ = dev.Receive()
	assert.NoError(rx.Consume(now, func(frame []byte) error {
		assert.Equal([]byte{0xaa}, frame)
		return nil
	}))
}

func TestRxBadCount(t *testing.T) {
	assert := assert.New(t)
	for _, n := range []int{-1, BufferSize + 1} {
		dev := New(&fakeController{rxCount: n})
		rx, _ := dev.Receive()
		e := rx.Consume(now, func([]byte) error {
			t.Error("callback invoked")
			return nil
		})
		assert.ErrorIs(e, ErrIllegal, n)
		assert.ErrorIs(e, errBadCount, n)
	}
}

func TestRxFullBuffer(t *testing.T) {
	assert := assert.New(t)
	frame := make([]byte, BufferSize)
	for i := range frame {
		frame[i] = byte(i)
	}
	dev := New(&fakeController{rxFrame: frame})
	rx, _ := dev.Receive()
	assert.NoError(rx.Consume(now, func(b []byte) error {
		assert.Equal(frame, b)
		return nil
	}))
}

func TestTxOversize(t *testing.T) {
	assert := assert.New(t)
	ctl := &fakeController{}
	dev := New(ctl)

	for _, length := range []int{BufferSize + 1, -1} {
		tx := dev.Transmit()
		e := tx.Consume(now, length, func([]byte) error {
			t.Error("fill invoked")
			return nil
		})
		assert.Equal(ErrExhausted, e, length)
	}
	assert.Zero(ctl.txCalls)
	assert.True(dev.guard.idle())
}

func TestTxFrame(t *testing.T) {
	assert := assert.New(t)
	ctl := &fakeController{}
	dev := New(ctl)

	tx := dev.Transmit()
	assert.NoError(tx.Consume(now, len(arpRequest), func(frame []byte) error {
		assert.Len(frame, len(arpRequest))
		copy(frame, arpRequest)
		return nil
	}))
	assert.Equal(1, ctl.txCalls)
	assert.Equal(arpRequest, ctl.txFrame)

	tx = dev.Transmit()
	assert.NoError(tx.Consume(now, BufferSize, func(frame []byte) error { return nil }))
	assert.Len(ctl.txFrame, BufferSize)
}

func TestTxFlushOnFillError(t *testing.T) {
	assert := assert.New(t)
	ctl := &fakeController{}
	dev := New(ctl)

	tx := dev.Transmit()
	e := tx.Consume(now, 4, func(frame []byte) error {
		frame[0], frame[1] = 0xde, 0xad
		return errParse
	})
	assert.Equal(errParse, e)
	assert.Equal(1, ctl.txCalls)
	assert.Equal([]byte{0xde, 0xad}, ctl.txFrame[:2])
	assert.True(dev.guard.idle())
}

func TestTxDriverErrorPrecedence(t *testing.T) {
	assert, require := assert.New(t), require.New(t)
	ctl := &fakeController{txErr: errWire}
	dev := New(ctl)

	tx := dev.Transmit()
	e := tx.Consume(now, 60, func([]byte) error { return errParse })
	assert.ErrorIs(e, ErrIllegal)
	assert.ErrorIs(e, errWire)
	assert.NotErrorIs(e, errParse)

	var de *DriverError
	require.True(errors.As(e, &de))
	assert.Equal("transmit", de.Op)
	assert.Equal(errParse, de.Superseded)
	assert.True(dev.guard.idle())

	ctl.txErr = nil
	tx = dev.Transmit()
	assert.NoError(tx.Consume(now, 60, func([]byte) error { return nil }))
}

func TestMutualExclusion(t *testing.T) {
	assert := assert.New(t)
	ctl := &fakeController{rxFrame: arpRequest}
	dev := New(ctl)

	rx, tx := dev.Receive()
	e := rx.Consume(now, func(frame []byte) error {
		before := append([]byte(nil), frame...)

		e := tx.Consume(now, 42, func([]byte) error {
			t.Error("nested fill invoked")
			return nil
		})
		assert.Equal(ErrExhausted, e)

		rx2, _ := dev.Receive()
		e = rx2.Consume(now, func([]byte) error {
			t.Error("nested receive callback invoked")
			return nil
		})
		assert.Equal(ErrExhausted, e)

		assert.Equal(before, frame)
		return nil
	})
	assert.NoError(e)
	assert.Equal(1, ctl.rxCalls)
	assert.Zero(ctl.txCalls)

	tx = dev.Transmit()
	assert.NoError(tx.Consume(now, 42, func([]byte) error { return nil }))
	assert.Equal(1, ctl.txCalls)
}

func TestReentryFromController(t *testing.T) {
	assert := assert.New(t)
	ctl := &fakeController{}
	dev := New(ctl)
	var nested error
	ctl.onTx = func() {
		rx, _ := dev.Receive()
		nested = rx.Consume(now, func([]byte) error { return nil })
	}

	tx := dev.Transmit()
	assert.NoError(tx.Consume(now, 60, func([]byte) error { return nil }))
	assert.Equal(ErrExhausted, nested)
	assert.Zero(ctl.rxCalls)
}

func TestTokenSingleUse(t *testing.T) {
	assert := assert.New(t)
	ctl := &fakeController{rxFrame: []byte{1}}
	dev := New(ctl)

	rx, tx := dev.Receive()
	assert.NoError(rx.Consume(now, func([]byte) error { return nil }))
	assert.Equal(ErrIllegal, rx.Consume(now, func([]byte) error { return nil }))
	assert.NoError(tx.Consume(now, 1, func([]byte) error { return nil }))
	assert.Equal(ErrIllegal, tx.Consume(now, 1, func([]byte) error { return nil }))
	assert.Equal(1, ctl.rxCalls)
	assert.Equal(1, ctl.txCalls)

	var zeroRx RxToken
	var zeroTx TxToken
	assert.Equal(ErrIllegal, zeroRx.Consume(now, nil))
	assert.Equal(ErrIllegal, zeroTx.Consume(now, 0, nil))
}

func TestGuardBothOrNeither(t *testing.T) {
	assert := assert.New(t)
	dev := New(&fakeController{})

	dev.guard.bufBusy.Store(true)
	_, ok := dev.tryClaim()
	assert.False(ok)
	assert.False(dev.guard.ctlBusy.Load())
	dev.guard.bufBusy.Store(false)

	dev.guard.ctlBusy.Store(true)
	_, ok = dev.tryClaim()
	assert.False(ok)
	assert.False(dev.guard.bufBusy.Load())
	dev.guard.ctlBusy.Store(false)

	c, ok := dev.tryClaim()
	assert.True(ok)
	_, ok = dev.tryClaim()
	assert.False(ok)
	c.release()
	assert.True(dev.guard.idle())
}

func TestDebugLog(t *testing.T) {
	assert, require := assert.New(t), require.New(t)
	core, logs := observer.New(zap.DebugLevel)
	defer func(l *zap.Logger) { logger = l }(logger)
	logger = zap.New(core)

	ctl := &fakeController{txErr: errWire}
	dev := New(ctl)
	tx, nested := dev.Transmit(), dev.Transmit()
	tx.Consume(now, 1, func([]byte) error {
		nested.Consume(now, 1, nil)
		return errParse
	})

	require.Equal(2, logs.Len())
	entries := logs.All()
	assert.Equal("claim refused", entries[0].Message)
	assert.Equal("transmit", entries[0].ContextMap()["op"])
	assert.Equal("controller error", entries[1].Message)
	assert.Equal(errWire.Error(), entries[1].ContextMap()["error"])
	assert.Equal(errParse.Error(), entries[1].ContextMap()["superseded"])
}
