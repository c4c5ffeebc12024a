// Package protocol defines the framed link between the device bridge
// and the host tool: a type byte, a big-endian 16-bit length, then the
// payload. Pub and Cfg payloads are JSON telemetry records.
package protocol

import (
	"fmt"
	"io"
)

const (
	FramePing  byte = 0x01
	FramePong  byte = 0x02
	FramePub   byte = 0x10 // device -> host telemetry record
	FrameCfg   byte = 0x20 // host -> device config record
	FrameClose byte = 0x7f
)

// MaxPayload is the largest frame body the 16-bit length allows.
const MaxPayload = 0xFFFF

// Frame is a single length-prefixed frame.
type Frame struct {
	Type    byte
	Payload []byte
}

type Reader struct{ r io.Reader }
type Writer struct{ w io.Writer }

func NewReader(r io.Reader) *Reader { return &Reader{r: r} }
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (fr *Reader) ReadFrame() (Frame, error) {
	var hdr [3]byte
	if _, err := io.ReadFull(fr.r, hdr[:]); err != nil {
		return Frame{}, err
	}
	typ := hdr[0]
	n := int(hdr[1])<<8 | int(hdr[2])
	var buf []byte
	if n > 0 {
		buf = make([]byte, n)
		if _, err := io.ReadFull(fr.r, buf); err != nil {
			return Frame{}, err
		}
	}
	return Frame{Type: typ, Payload: buf}, nil
}

func (fw *Writer) WriteFrame(f Frame) error {
	if len(f.Payload) > MaxPayload {
		return fmt.Errorf("frame too large: %d", len(f.Payload))
	}
	hdr := []byte{f.Type, byte(len(f.Payload) >> 8), byte(len(f.Payload) & 0xFF)}
	if _, err := fw.w.Write(hdr); err != nil {
		return err
	}
	if len(f.Payload) > 0 {
		_, err := fw.w.Write(f.Payload)
		return err
	}
	return nil
}
