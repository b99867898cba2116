// Package rfc791 implements the Internet checksum used by IPv4 headers and ICMP.
package rfc791

import "encoding/binary"

// Sum16 returns the checksum of data as defined by RFC 791: the 16-bit ones'
// complement of the ones' complement sum of all 16-bit words. An odd trailing
// byte is padded with zero.
// A header whose checksum field is filled in sums to zero.
func Sum16(data []byte) uint16 {
	var c Checksum
	c.Write(data)
	return c.Sum()
}

// Checksum accumulates the Internet checksum over successive writes.
// Writes may have any length; a byte left over from an odd write is paired
// with the first byte of the next one. The zero value is ready to use.
type Checksum struct {
	sum      uint32
	excedent uint8
	needsPad bool
}

func New() *Checksum {
	return &Checksum{}
}

// Write adds buff to the sum. It never fails.
func (c *Checksum) Write(buff []byte) (n int, err error) {
	n = len(buff)
	if c.needsPad && len(buff) > 0 {
		c.sum += uint32(c.excedent)<<8 + uint32(buff[0])
		buff = buff[1:]
		c.needsPad = false
	}
	if len(buff)%2 != 0 {
		c.excedent = buff[len(buff)-1]
		buff = buff[:len(buff)-1]
		c.needsPad = true
	}
	for i := 0; i+1 < len(buff); i += 2 {
		c.sum += uint32(binary.BigEndian.Uint16(buff[i : i+2]))
	}
	return n, nil
}

// Sum returns the checksum of all data written so far.
// It does not modify the accumulated state.
func (c *Checksum) Sum() uint16 {
	sum := c.sum
	if c.needsPad {
		sum += uint32(c.excedent) << 8
	}
	for sum > 0xffff {
		sum = sum&0xffff + sum>>16
	}
	return ^uint16(sum)
}

func (c *Checksum) Reset() {
	*c = Checksum{}
}
