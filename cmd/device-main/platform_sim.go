//go:build !tinygo

package main

import (
	"context"
	"image/color"
	"io"
	"net"
	"sync/atomic"

	"displaycode-go/conf"
	"displaycode-go/drivers/qmi8658"
	"displaycode-go/protocol"
	"displaycode-go/types"
)

// Host-simulation platform: every peripheral is a fake, so the full
// service stack runs on a workstation for development.

func openPlatform() (*platform, error) {
	return &platform{
		Display:   &simDisplay{},
		Backlight: func(uint16) {},

		IMU:        &simIMU{},
		ReadButton: func() bool { return false },

		Recognizer: nullRecognizer{},
		Ring:       newPCMRing(),

		Wifi: simWifi{},

		Dial: dialLoopback,
	}, nil
}

// simDisplay swallows pixels and counts flushes. It reports the resolved
// build resolution so the renderer lays out the same as on the panel.
type simDisplay struct {
	flushes uint32
}

func (d *simDisplay) Size() (int16, int16) {
	c := conf.Get()
	return int16(c.HorRes), int16(c.VerRes)
}
func (d *simDisplay) SetPixel(x, y int16, c color.RGBA) {}
func (d *simDisplay) Display() error {
	atomic.AddUint32(&d.flushes, 1)
	return nil
}

// simIMU reports the device at rest with a small wobble so the motion
// service has something to chew on.
type simIMU struct {
	n uint32
}

func (f *simIMU) ReadSample(s *qmi8658.Sample) error {
	f.n++
	wobble := int32(f.n%8) - 4
	s.AxMG, s.AyMG, s.AzMG = wobble*3, -wobble*2, 1000+wobble
	s.GxCDPS, s.GyCDPS, s.GzCDPS = wobble*10, 0, -wobble*10
	return nil
}

type simWifi struct{}

func (simWifi) Connect(ctx context.Context, ssid, password string) (string, error) {
	return "192.168.4.2", nil
}
func (simWifi) Disconnect() error { return nil }

// dialLoopback stands in for the UART: an in-memory pipe whose far end
// answers pings and discards telemetry, like a quiet host tool.
func dialLoopback(ctx context.Context, _ types.UARTConfig) (io.ReadWriteCloser, error) {
	local, remote := net.Pipe()
	go func() {
		defer remote.Close()
		fr := protocol.NewReader(remote)
		fw := protocol.NewWriter(remote)
		for {
			f, err := fr.ReadFrame()
			if err != nil {
				return
			}
			if f.Type == protocol.FramePing {
				if err := fw.WriteFrame(protocol.Frame{Type: protocol.FramePong}); err != nil {
					return
				}
			}
		}
	}()
	return local, nil
}
