//go:build tinygo

package main

import (
	"context"
	"io"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"displaycode-go/drivers/qmi8658"
	"displaycode-go/drivers/st77916"
	"displaycode-go/types"
)

// Board wiring for the round-panel build. The panel reset line sits
// behind an IO expander and stays unwired; the driver falls back to a
// software reset.
const (
	pinLCDSCK = machine.Pin(40)
	pinLCDCS  = machine.Pin(21)
	pinLCDSDA = machine.Pin(46)
	pinLCDBL  = machine.Pin(5)

	pinIMUSDA = machine.Pin(11)
	pinIMUSCL = machine.Pin(10)

	pinButton = machine.Pin(0) // boot button doubles as the user button
)

func openPlatform() (*platform, error) {
	// Panel SPI. The display is write-only; no SDI line.
	spi := machine.SPI2
	if err := spi.Configure(machine.SPIConfig{
		Frequency: 40_000_000,
		SCK:       pinLCDSCK,
		SDO:       pinLCDSDA,
	}); err != nil {
		return nil, err
	}
	pinLCDCS.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinLCDBL.Configure(machine.PinConfig{Mode: machine.PinOutput})

	display := st77916.New(spi,
		func(high bool) { pinLCDCS.Set(high) },
		nil,
		func(high bool) { pinLCDBL.Set(high) },
	)
	if err := display.Configure(st77916.Config{}); err != nil {
		return nil, err
	}

	// IMU I2C.
	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		SDA:       pinIMUSDA,
		SCL:       pinIMUSCL,
		Frequency: 400_000,
	}); err != nil {
		return nil, err
	}
	imu := qmi8658.New(i2c)
	// 4g keeps headroom over the 1g gravity vector and 512dps covers
	// the shake gesture without clipping.
	if err := imu.Configure(qmi8658.Config{
		AccelRange: qmi8658.Accel4G,
		GyroRange:  qmi8658.Gyro512DPS,
	}); err != nil {
		return nil, err
	}

	pinButton.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	return &platform{
		Display:   display,
		Backlight: func(level uint16) { pinLCDBL.Set(level > 0) },

		IMU:        imu,
		ReadButton: func() bool { return !pinButton.Get() }, // active low

		// No on-device inference engine yet; the null recognizer keeps
		// the speech service alive for config and timers.
		Recognizer: nullRecognizer{},
		Ring:       newPCMRing(),

		// Radio bring-up needs the vendor blob; report link-down until
		// a netdev driver lands.
		Wifi: unavailableRadio{},

		Dial: dialUART,
	}, nil
}

// dialUART opens the bridge link on a hardware UART.
func dialUART(ctx context.Context, u types.UARTConfig) (io.ReadWriteCloser, error) {
	hw := uartx.UART0
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: uint32(u.Baud),
		TX:       machine.Pin(u.TxPin),
		RX:       machine.Pin(u.RxPin),
	}); err != nil {
		return nil, err
	}
	return &uartPort{u: hw}, nil
}

type uartPort struct{ u *uartx.UART }

func (p *uartPort) Read(b []byte) (int, error) {
	return p.u.RecvSomeContext(context.Background(), b)
}
func (p *uartPort) Write(b []byte) (int, error) { return p.u.Write(b) }
func (p *uartPort) Close() error                { return nil }
