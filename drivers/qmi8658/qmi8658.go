// Package qmi8658 provides a driver for the QMI8658 6-axis IMU
// (3-axis accelerometer + 3-axis gyroscope) over I2C.
//
// The hot path avoids floating point: samples are exposed raw and in
// fixed-point units (milli-g, centi-degrees/second). Conversion factors
// depend on the configured ranges and are resolved once in Configure.
package qmi8658

import (
	"errors"

	"tinygo.org/x/drivers"
)

// I2C addresses (SA0 low / high).
const (
	Address     = 0x6A
	AddressHigh = 0x6B
)

// Registers.
const (
	regWhoAmI = 0x00
	regCtrl1  = 0x02
	regCtrl2  = 0x03 // accelerometer range + ODR
	regCtrl3  = 0x04 // gyroscope range + ODR
	regCtrl7  = 0x08 // sensor enable
	regReset  = 0x60
	regTempL  = 0x33
	regAxL    = 0x35 // 12 data bytes: ax..az, gx..gz, little-endian
)

const (
	whoAmIValue = 0x05

	ctrl1AutoInc = 0x40 // address auto-increment for burst reads

	enableAccel = 0x01
	enableGyro  = 0x02

	resetValue = 0xB0
)

// Errors returned by the driver.
var (
	ErrWrongChip = errors.New("qmi8658: unexpected who-am-i")
	ErrNoSample  = errors.New("qmi8658: sensors not enabled")
)

// AccelRange selects full scale in g.
type AccelRange uint8

const (
	Accel2G AccelRange = iota
	Accel4G
	Accel8G
	Accel16G
)

// lsbPerG for each range (32768 / full-scale).
func (r AccelRange) lsbPerG() int32 {
	return 16384 >> uint(r)
}

// GyroRange selects full scale in degrees/second.
type GyroRange uint8

const (
	Gyro32DPS GyroRange = iota
	Gyro64DPS
	Gyro128DPS
	Gyro256DPS
	Gyro512DPS
	Gyro1024DPS
	Gyro2048DPS
	Gyro4096DPS
)

// lsbPerDPS in Q4 (x16) so small full scales keep precision.
func (r GyroRange) lsbPer16DPS() int32 {
	return 16384 >> uint(r) // 32768/32*16 = 16384 at ±32dps
}

// ODR selects the output data rate for both sensors.
type ODR uint8

const (
	ODR1000Hz ODR = 0x03
	ODR500Hz  ODR = 0x04
	ODR250Hz  ODR = 0x05
	ODR125Hz  ODR = 0x06
	ODR62Hz   ODR = 0x07
	ODR31Hz   ODR = 0x08
)

// Config controls measurement ranges and rate. A zero ODR selects
// 125Hz; ranges map directly to the register encodings, so the zero
// values are ±2g and ±32dps.
type Config struct {
	Address    uint16
	AccelRange AccelRange
	GyroRange  GyroRange
	ODR        ODR
}

// Sample is one burst read, raw plus fixed-point conversions.
type Sample struct {
	AxRaw, AyRaw, AzRaw int16
	GxRaw, GyRaw, GzRaw int16

	// AxMG..AzMG are accelerations in milli-g.
	AxMG, AyMG, AzMG int32
	// GxCDPS..GzCDPS are angular rates in centi-degrees/second.
	GxCDPS, GyCDPS, GzCDPS int32
}

// Device wraps an I2C connection to a QMI8658.
type Device struct {
	bus     drivers.I2C
	Address uint16

	accelLSBPerG  int32
	gyroLSBPer16D int32
	enabled       bool
	buf           [12]byte // burst scratch
}

// New creates a device. The I2C bus must already be configured.
func New(bus drivers.I2C) *Device {
	return &Device{bus: bus, Address: Address}
}

// Configure verifies the chip identity and programs ranges, rate and
// sensor enables.
func (d *Device) Configure(cfg Config) error {
	if cfg.Address != 0 {
		d.Address = cfg.Address
	}
	if cfg.ODR == 0 {
		cfg.ODR = ODR125Hz
	}

	id, err := d.readReg(regWhoAmI)
	if err != nil {
		return err
	}
	if id != whoAmIValue {
		return ErrWrongChip
	}

	if err := d.writeReg(regCtrl1, ctrl1AutoInc); err != nil {
		return err
	}
	if err := d.writeReg(regCtrl2, byte(cfg.AccelRange)<<4|byte(cfg.ODR)); err != nil {
		return err
	}
	if err := d.writeReg(regCtrl3, byte(cfg.GyroRange)<<4|byte(cfg.ODR)); err != nil {
		return err
	}
	if err := d.writeReg(regCtrl7, enableAccel|enableGyro); err != nil {
		return err
	}

	d.accelLSBPerG = cfg.AccelRange.lsbPerG()
	d.gyroLSBPer16D = cfg.GyroRange.lsbPer16DPS()
	d.enabled = true
	return nil
}

// Connected reports whether a QMI8658 answers at the address.
func (d *Device) Connected() bool {
	id, err := d.readReg(regWhoAmI)
	return err == nil && id == whoAmIValue
}

// Reset issues a soft reset; reconfigure afterwards.
func (d *Device) Reset() error {
	d.enabled = false
	return d.writeReg(regReset, resetValue)
}

// ReadSample burst-reads all six axes and fills in the conversions.
func (d *Device) ReadSample(s *Sample) error {
	if !d.enabled {
		return ErrNoSample
	}
	if err := d.bus.Tx(d.Address, []byte{regAxL}, d.buf[:]); err != nil {
		return err
	}
	s.AxRaw = int16(uint16(d.buf[0]) | uint16(d.buf[1])<<8)
	s.AyRaw = int16(uint16(d.buf[2]) | uint16(d.buf[3])<<8)
	s.AzRaw = int16(uint16(d.buf[4]) | uint16(d.buf[5])<<8)
	s.GxRaw = int16(uint16(d.buf[6]) | uint16(d.buf[7])<<8)
	s.GyRaw = int16(uint16(d.buf[8]) | uint16(d.buf[9])<<8)
	s.GzRaw = int16(uint16(d.buf[10]) | uint16(d.buf[11])<<8)

	s.AxMG = int32(s.AxRaw) * 1000 / d.accelLSBPerG
	s.AyMG = int32(s.AyRaw) * 1000 / d.accelLSBPerG
	s.AzMG = int32(s.AzRaw) * 1000 / d.accelLSBPerG

	s.GxCDPS = int32(s.GxRaw) * 1600 / d.gyroLSBPer16D
	s.GyCDPS = int32(s.GyRaw) * 1600 / d.gyroLSBPer16D
	s.GzCDPS = int32(s.GzRaw) * 1600 / d.gyroLSBPer16D
	return nil
}

// Temperature returns the die temperature in centi-degrees Celsius.
func (d *Device) Temperature() (int32, error) {
	var t [2]byte
	if err := d.bus.Tx(d.Address, []byte{regTempL}, t[:]); err != nil {
		return 0, err
	}
	raw := int16(uint16(t[0]) | uint16(t[1])<<8)
	return int32(raw) * 100 / 256, nil
}

func (d *Device) readReg(reg byte) (byte, error) {
	var b [1]byte
	if err := d.bus.Tx(d.Address, []byte{reg}, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Device) writeReg(reg, val byte) error {
	return d.bus.Tx(d.Address, []byte{reg, val}, nil)
}
