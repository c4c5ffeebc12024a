package main

import (
	"context"
	"errors"
	"io"

	"tinygo.org/x/drivers"

	"displaycode-go/services/motion"
	"displaycode-go/services/speech"
	"displaycode-go/services/wifi"
	"displaycode-go/types"
	"displaycode-go/x/pcmring"
)

// platform is everything the board (or the host simulation) has to
// provide before the services can start.
type platform struct {
	Display   drivers.Displayer
	Backlight func(level uint16)

	IMU        motion.Sampler
	ReadButton func() bool

	Recognizer speech.Recognizer
	Ring       *pcmring.Ring

	Wifi wifi.Manager

	// Dial opens the bridge UART; nil leaves bridge.UARTDial alone.
	Dial func(ctx context.Context, u types.UARTConfig) (io.ReadWriteCloser, error)
}

// pcmRingBytes holds ~1s of 16 kHz 16-bit mono.
const pcmRingBytes = 32 * 1024

func newPCMRing() *pcmring.Ring { return pcmring.New(pcmRingBytes) }

// nullRecognizer accepts config and audio but never detects anything.
// It stands in until an inference engine is wired to the ring.
type nullRecognizer struct{}

func (nullRecognizer) Configure(types.SpeechConfig) error { return nil }
func (nullRecognizer) Feed([]byte) (speech.Result, bool)  { return speech.Result{}, false }
func (nullRecognizer) Reset()                             {}

// unavailableRadio fails every association attempt so the supervisor
// reports a clean disconnected state instead of hanging.
type unavailableRadio struct{}

func (unavailableRadio) Connect(context.Context, string, string) (string, error) {
	return "", errRadioUnavailable
}
func (unavailableRadio) Disconnect() error { return nil }

var errRadioUnavailable = errors.New("wifi radio not wired on this build")
