// Package conv formats integers into caller-owned buffers. No fmt or
// strconv, so the firmware image stays small and the hot paths stay
// allocation-free.
package conv

// Itoa writes the base-10 representation of n into buf and returns the
// used slice. buf should be length >= 20 for int64; too-small buffers
// yield a truncated result rather than a panic.
func Itoa(buf []byte, n int64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	neg := n < 0
	var u uint64
	if neg {
		u = uint64(-n)
	} else {
		u = uint64(n)
	}
	if u == 0 {
		i--
		buf[i] = '0'
	} else {
		for u > 0 && i > 0 {
			i--
			buf[i] = byte('0' + (u % 10))
			u /= 10
		}
	}
	if neg && i > 0 {
		i--
		buf[i] = '-'
	}
	return buf[i:]
}
