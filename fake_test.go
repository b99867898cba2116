package etherdev

// fakeController is a Controller that records calls.
type fakeController struct {
	rxFrame []byte // copied into buf on Receive
	rxCount int    // overrides the count when nonzero
	rxErr   error
	txErr   error

	rxCalls int
	txCalls int
	txFrame []byte // copy of what Transmit got
	onRx    func()
	onTx    func()
}

func (c *fakeController) Receive(buf []byte) (int, error) {
	c.rxCalls++
	if c.onRx != nil {
		c.onRx()
	}
	if c.rxErr != nil {
		return 0, c.rxErr
	}
	n := copy(buf, c.rxFrame)
	if c.rxCount != 0 {
		n = c.rxCount
	}
	return n, nil
}

func (c *fakeController) Transmit(buf []byte) error {
	c.txCalls++
	if c.onTx != nil {
		c.onTx()
	}
	c.txFrame = append([]byte(nil), buf...)
	return c.txErr
}
