package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Min/Max for convenience.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Abs for signed integers.
func Abs[T ~int | ~int8 | ~int16 | ~int32 | ~int64](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// CeilDiv returns ceil(a/b) for positive integers; 0 when b is 0.
func CeilDiv[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// LerpU16 interpolates between a and b with t in [0..65535] (Q16).
// The result never leaves [min(a,b), max(a,b)].
func LerpU16(a, b, t uint16) uint16 {
	da := int32(b) - int32(a)
	res := int32(a) + (da*int32(t))/65535
	if res < 0 {
		return 0
	}
	if res > 65535 {
		return 65535
	}
	return uint16(res)
}
