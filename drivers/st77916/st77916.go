// Package st77916 provides a driver for the ST77916 LCD controller
// behind the 360x360 round panel.
//
// The controller has no D/C line. On its serial interface every write
// is one chip-select assertion carrying a write opcode, the command in
// the 24-bit address phase, then the parameter or pixel bytes. Long
// pixel streams continue across transactions with the memory-write-
// continue command.
//
// The panel has no readable framebuffer, so the driver is write-only:
// callers stream pixel data into a window (SetWindow + Data) or use the
// convenience fills. SetPixel/Display satisfy the displayer contract for
// code that draws pixel-at-a-time; bulk paths are much faster.
//
// NOTE: the controller needs its vendor register pages programmed before
// the standard sleep-out sequence; Configure runs the full table and must
// complete before any drawing.
package st77916

import (
	"errors"
	"image/color"
	"time"

	"tinygo.org/x/drivers"
)

// Panel dimensions.
const (
	Width  = 360
	Height = 360
)

// opWrite opens every transaction; the command rides in the following
// 24-bit address phase as 0x00 cmd 0x00.
const opWrite = 0x02

// Standard DCS commands.
const (
	cmdSWReset = 0x01
	cmdSlpIn   = 0x10
	cmdSlpOut  = 0x11
	cmdInvOn   = 0x21
	cmdDispOff = 0x28
	cmdDispOn  = 0x29
	cmdCASet   = 0x2A
	cmdRASet   = 0x2B
	cmdRAMWr   = 0x2C
	cmdMADCtl  = 0x36
	cmdRAMWrC  = 0x3C
	cmdColMod  = 0x3A
)

// MADCTL bits for rotation.
const (
	madMY  = 0x80
	madMX  = 0x40
	madMV  = 0x20
	madRGB = 0x00
)

// Errors returned by the driver.
var (
	ErrBadWindow = errors.New("st77916: window outside panel")
	ErrShortData = errors.New("st77916: pixel data shorter than window")
)

// Pin drives one output line; wire to machine.Pin.Set on device builds.
type Pin func(high bool)

// Rotation selects one of the four panel orientations.
type Rotation uint8

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// Config controls non-wiring behaviour.
type Config struct {
	Rotation Rotation
}

// Device is an ST77916 connection. The SPI bus must already be
// configured; cs is the chip-select line, asserted low for the whole of
// each command+data transaction. rst is the hardware reset line
// (optional, may be nil), bl the backlight enable (optional).
type Device struct {
	bus drivers.SPI
	cs  Pin
	rst Pin
	bl  Pin

	rotation  Rotation
	streaming bool    // a RAMWR is open; continue with RAMWRC
	buf       [4]byte // coordinate/pixel scratch, avoids per-call allocation
	hdr       [4]byte // transaction header scratch
}

// New creates a device. It does not touch the hardware.
func New(bus drivers.SPI, cs, rst, bl Pin) *Device {
	return &Device{bus: bus, cs: cs, rst: rst, bl: bl}
}

// Configure resets the panel and programs the vendor init table, then
// wakes it and turns the display on. Takes ~200ms due to mandated
// post-reset and sleep-out delays.
func (d *Device) Configure(cfg Config) error {
	d.rotation = cfg.Rotation

	if d.rst != nil {
		d.rst(false)
		time.Sleep(10 * time.Millisecond)
		d.rst(true)
		time.Sleep(50 * time.Millisecond)
	} else {
		if err := d.command(cmdSWReset, nil); err != nil {
			return err
		}
		time.Sleep(120 * time.Millisecond)
	}

	for _, c := range initCmds {
		if err := d.command(c.cmd, c.data); err != nil {
			return err
		}
		if c.delayMs > 0 {
			time.Sleep(time.Duration(c.delayMs) * time.Millisecond)
		}
	}

	if err := d.command(cmdMADCtl, []byte{d.madctl()}); err != nil {
		return err
	}
	// 16-bit RGB565.
	if err := d.command(cmdColMod, []byte{0x55}); err != nil {
		return err
	}
	if err := d.command(cmdInvOn, nil); err != nil {
		return err
	}
	if err := d.command(cmdSlpOut, nil); err != nil {
		return err
	}
	time.Sleep(120 * time.Millisecond)
	if err := d.command(cmdDispOn, nil); err != nil {
		return err
	}
	time.Sleep(20 * time.Millisecond)

	if d.bl != nil {
		d.bl(true)
	}
	return nil
}

func (d *Device) madctl() byte {
	switch d.rotation {
	case Rotation90:
		return madMV | madMX | madRGB
	case Rotation180:
		return madMX | madMY | madRGB
	case Rotation270:
		return madMV | madMY | madRGB
	default:
		return madRGB
	}
}

// command runs one transaction: CS asserted across the opcode+address
// header and any parameter bytes, released afterwards.
func (d *Device) command(cmd byte, data []byte) error {
	d.cs(false)
	defer d.cs(true)
	d.hdr[0], d.hdr[1], d.hdr[2], d.hdr[3] = opWrite, 0x00, cmd, 0x00
	if err := d.bus.Tx(d.hdr[:], nil); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return d.bus.Tx(data, nil)
}

// Size implements the displayer contract.
func (d *Device) Size() (int16, int16) {
	if d.rotation == Rotation90 || d.rotation == Rotation270 {
		return Height, Width
	}
	return Width, Height
}

// SetWindow selects the target rectangle for subsequent pixel data. The
// first Data call after SetWindow opens the memory write.
func (d *Device) SetWindow(x, y, w, h int16) error {
	sw, sh := d.Size()
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > sw || y+h > sh {
		return ErrBadWindow
	}
	d.buf[0], d.buf[1] = byte(uint16(x)>>8), byte(x)
	x1 := x + w - 1
	d.buf[2], d.buf[3] = byte(uint16(x1)>>8), byte(x1)
	if err := d.command(cmdCASet, d.buf[:4]); err != nil {
		return err
	}
	d.buf[0], d.buf[1] = byte(uint16(y)>>8), byte(y)
	y1 := y + h - 1
	d.buf[2], d.buf[3] = byte(uint16(y1)>>8), byte(y1)
	if err := d.command(cmdRASet, d.buf[:4]); err != nil {
		return err
	}
	d.streaming = false
	return nil
}

// Data streams raw big-endian RGB565 bytes into the current window.
// The first call after SetWindow issues RAMWR; further calls continue
// the write with RAMWRC.
func (d *Device) Data(pix []byte) error {
	cmd := byte(cmdRAMWr)
	if d.streaming {
		cmd = cmdRAMWrC
	}
	d.streaming = true
	return d.command(cmd, pix)
}

// DrawRGBBitmap writes a w*h block of big-endian RGB565 data at (x, y).
func (d *Device) DrawRGBBitmap(x, y, w, h int16, pix []byte) error {
	if len(pix) < int(w)*int(h)*2 {
		return ErrShortData
	}
	if err := d.SetWindow(x, y, w, h); err != nil {
		return err
	}
	return d.Data(pix[:int(w)*int(h)*2])
}

// FillRectangle paints a solid rectangle, chunking the pixel stream
// through a fixed scratch buffer.
func (d *Device) FillRectangle(x, y, w, h int16, c color.RGBA) error {
	if err := d.SetWindow(x, y, w, h); err != nil {
		return err
	}
	v := rgb565(c)
	var chunk [512]byte
	for i := 0; i < len(chunk); i += 2 {
		chunk[i], chunk[i+1] = byte(v>>8), byte(v)
	}
	remaining := int(w) * int(h) * 2
	for remaining > 0 {
		n := remaining
		if n > len(chunk) {
			n = len(chunk)
		}
		if err := d.Data(chunk[:n]); err != nil {
			return err
		}
		remaining -= n
	}
	return nil
}

// FillScreen paints the whole panel.
func (d *Device) FillScreen(c color.RGBA) error {
	w, h := d.Size()
	return d.FillRectangle(0, 0, w, h, c)
}

// SetPixel implements the displayer contract via a 1x1 window. Bulk
// callers should prefer DrawRGBBitmap.
func (d *Device) SetPixel(x, y int16, c color.RGBA) {
	if err := d.SetWindow(x, y, 1, 1); err != nil {
		return
	}
	v := rgb565(c)
	d.buf[0], d.buf[1] = byte(v>>8), byte(v)
	_ = d.Data(d.buf[:2])
}

// Display is a no-op; pixel writes reach the panel immediately.
func (d *Device) Display() error { return nil }

// Sleep puts the panel to sleep (or wakes it) to save power.
func (d *Device) Sleep(on bool) error {
	if on {
		if err := d.command(cmdDispOff, nil); err != nil {
			return err
		}
		return d.command(cmdSlpIn, nil)
	}
	if err := d.command(cmdSlpOut, nil); err != nil {
		return err
	}
	time.Sleep(120 * time.Millisecond)
	return d.command(cmdDispOn, nil)
}

// Backlight toggles the backlight line, if wired.
func (d *Device) Backlight(on bool) {
	if d.bl != nil {
		d.bl(on)
	}
}

func rgb565(c color.RGBA) uint16 {
	return uint16(c.R&0xf8)<<8 | uint16(c.G&0xfc)<<3 | uint16(c.B)>>3
}
