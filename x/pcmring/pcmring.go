// Package pcmring is a single-producer single-consumer byte ring used to
// move microphone PCM from the capture path to the recogniser without
// allocation. The producer may run in an interrupt-adjacent context, so
// both sides are lock-free; edge-notification channels let the consumer
// sleep instead of spinning.
package pcmring

import "sync/atomic"

// Ring is a power-of-two sized SPSC byte ring. Indices are monotonic
// uint32s; position is index & mask.
type Ring struct {
	buf  []byte
	mask uint32
	rd   atomic.Uint32 // consumer index
	wr   atomic.Uint32 // producer index

	readable chan struct{} // coalesced data-available signal
	writable chan struct{} // 0 -> >0 space edge
}

// New allocates a ring of the given power-of-two size (>= 2).
func New(size int) *Ring {
	if size < 2 || (size&(size-1)) != 0 {
		panic("pcmring: size must be power of two >= 2")
	}
	return &Ring{
		buf:      make([]byte, size),
		mask:     uint32(size - 1),
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
	}
}

func (r *Ring) size() uint32 { return uint32(len(r.buf)) }

// Space returns the writable byte count.
func (r *Ring) Space() int {
	return int(r.size() - (r.wr.Load() - r.rd.Load()))
}

// Available returns the readable byte count.
func (r *Ring) Available() int {
	return int(r.wr.Load() - r.rd.Load())
}

// TryWrite copies as much of src as fits and returns the count. Producer
// side only.
func (r *Ring) TryWrite(src []byte) (n int) {
	if len(src) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load()
	beforeAvail := wr - rd
	space := int(r.size() - beforeAvail)
	if space <= 0 {
		return 0
	}
	if len(src) < space {
		space = len(src)
	}
	n = space

	wrIdx := wr & r.mask
	first := int(r.size() - wrIdx)
	if first > n {
		first = n
	}
	copy(r.buf[wrIdx:wrIdx+uint32(first)], src[:first])
	if second := n - first; second > 0 {
		copy(r.buf[:second], src[first:n])
	}
	r.wr.Store(wr + uint32(n)) // release

	// Notify on every write, not just the empty transition: a consumer
	// that drains in fixed-size frames may leave a partial frame behind
	// and still needs to wake for the next chunk.
	select {
	case r.readable <- struct{}{}:
	default:
	}
	return n
}

// TryRead copies up to len(dst) available bytes and returns the count.
// Consumer side only.
func (r *Ring) TryRead(dst []byte) (n int) {
	if len(dst) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load() // acquire
	avail := int(wr - rd)
	if avail <= 0 {
		return 0
	}
	if len(dst) < avail {
		avail = len(dst)
	}
	n = avail

	rdIdx := rd & r.mask
	first := int(r.size() - rdIdx)
	if first > n {
		first = n
	}
	copy(dst[:first], r.buf[rdIdx:rdIdx+uint32(first)])
	if second := n - first; second > 0 {
		copy(dst[first:n], r.buf[:second])
	}
	r.rd.Store(rd + uint32(n)) // release

	if int(r.size()-(wr-rd)) == 0 {
		select {
		case r.writable <- struct{}{}:
		default:
		}
	}
	return n
}

// Readable signals, coalesced, whenever a write lands.
func (r *Ring) Readable() <-chan struct{} { return r.readable }

// Writable signals the full->non-full transition.
func (r *Ring) Writable() <-chan struct{} { return r.writable }
