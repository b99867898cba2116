// Package hex converts between binary data and its ASCII hexadecimal form
// without relying on fmt, so it stays cheap on small targets.
package hex

const digits = "0123456789abcdef"

// Byte converts a single byte to its two character representation.
//
// Example:
//  string(hex.Byte(0xff))
//  Output: "ff"
func Byte(b byte) [2]byte {
	return [2]byte{digits[b>>4], digits[b&0x0f]}
}

// Bytes converts a binary slice to hexadecimal.
//
// Example:
//  string(hex.Bytes([]byte{0xff,0xaa}))
//  Output: "ffaa"
func Bytes(b []byte) []byte {
	return Append(make([]byte, 0, len(b)*2), b)
}

// Append appends the hexadecimal form of b to dst and returns the extended slice.
func Append(dst, b []byte) []byte {
	for _, c := range b {
		h := Byte(c)
		dst = append(dst, h[0], h[1])
	}
	return dst
}

// Decode turns an ASCII hexadecimal dump into binary, ignoring every character
// that is not a hex digit. This allows pasting wireshark style dumps with spacing
// and newlines. A trailing odd nibble is kept as the high half of the last byte.
func Decode(b []byte) []byte {
	out := make([]byte, 0, len(b)/2)
	var nibbles int
	for _, char := range b {
		var v byte
		switch {
		case char >= 'A' && char <= 'F':
			v = char - 'A' + 10
		case char >= 'a' && char <= 'f':
			v = char - 'a' + 10
		case char >= '0' && char <= '9':
			v = char - '0'
		default:
			continue
		}
		if nibbles%2 == 1 {
			out[nibbles/2] |= v
		} else {
			out = append(out, v<<4)
		}
		nibbles++
	}
	return out
}
