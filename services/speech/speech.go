// Package speech feeds microphone PCM to an external recognizer and
// publishes wake/command events on the bus.
//
// The recognizer SDK is an opaque collaborator behind the Recognizer
// interface; this service owns the PCM plumbing, the listen window
// after a wake word, and the bus surface.
package speech

import (
	"context"
	"time"

	"displaycode-go/bus"
	"displaycode-go/conf"
	"displaycode-go/tick"
	"displaycode-go/types"
	"displaycode-go/x/pcmring"
)

var (
	topicConfigSpeech = bus.Topic{"config", "speech"}
	topicSpeechEvent  = bus.Topic{"speech", "event"}
)

const (
	defaultListenMs  = 5000
	defaultFrameSize = 512
)

// Result is what the recognizer reports for one PCM frame.
type Result struct {
	Wake      bool
	CommandID int    // valid when Command != ""
	Command   string // recognised vocabulary entry
}

// Recognizer wraps the wake word and command engine.
type Recognizer interface {
	// Configure installs the wake word and command vocabulary.
	Configure(cfg types.SpeechConfig) error
	// Feed processes one PCM frame and reports any detection.
	Feed(pcm []byte) (Result, bool)
	// Reset abandons any partial detection state.
	Reset()
}

type Service struct {
	Rec  Recognizer
	Ring *pcmring.Ring
}

func NewService(rec Recognizer, ring *pcmring.Ring) *Service {
	return &Service{Rec: rec, Ring: ring}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigSpeech)
	defer conn.Unsubscribe(cfgSub)

	cfg := types.SpeechConfig{ListenMs: defaultListenMs, FrameSize: defaultFrameSize}
	frame := make([]byte, cfg.FrameSize)

	listenTimer := time.NewTimer(time.Hour)
	if !listenTimer.Stop() {
		<-listenTimer.C
	}
	listening := false

	emit := func(ev types.SpeechEvent) {
		ev.TS = tick.Ms()
		conn.Publish(&bus.Message{Topic: topicSpeechEvent, Payload: ev})
	}

	drainFrames := func() {
		for s.Ring.Available() >= len(frame) {
			if n := s.Ring.TryRead(frame); n < len(frame) {
				return
			}
			res, ok := s.Rec.Feed(frame)
			if !ok {
				continue
			}
			switch {
			case res.Command != "":
				emit(types.SpeechEvent{
					Kind:      types.SpeechCommand,
					CommandID: res.CommandID,
					Command:   res.Command,
				})
				if listening {
					listening = false
					stopTimer(listenTimer)
				}
			case res.Wake:
				emit(types.SpeechEvent{Kind: types.SpeechWake})
				listening = true
				resetTimer(listenTimer, time.Duration(cfg.ListenMs)*time.Millisecond)
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			if conf.Logs(conf.LogInfo) {
				println("Info: speech service stopping")
			}
			return
		case <-s.Ring.Readable():
			drainFrames()
		case <-listenTimer.C:
			if listening {
				listening = false
				s.Rec.Reset()
				emit(types.SpeechEvent{Kind: types.SpeechTimeout})
			}
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			if m, ok := msg.Payload.(map[string]any); ok {
				cfg = speechConfigFromMap(m)
				if cfg.ListenMs == 0 {
					cfg.ListenMs = defaultListenMs
				}
				if cfg.FrameSize <= 0 {
					cfg.FrameSize = defaultFrameSize
				}
				frame = make([]byte, cfg.FrameSize)
				listening = false
				stopTimer(listenTimer)
				if err := s.Rec.Configure(cfg); err != nil {
					if conf.Logs(conf.LogError) {
						println("Error: speech: configure:", err.Error())
					}
				}
			}
		}
	}
}

func speechConfigFromMap(m map[string]any) types.SpeechConfig {
	var cfg types.SpeechConfig
	if v, ok := m["wake_word"].(string); ok {
		cfg.WakeWord = v
	}
	if v, ok := m["commands"].([]any); ok {
		for _, c := range v {
			if s, ok := c.(string); ok {
				cfg.Commands = append(cfg.Commands, s)
			}
		}
	}
	if v, ok := m["listen_ms"].(float64); ok {
		cfg.ListenMs = uint32(v)
	}
	if v, ok := m["sample_hz"].(float64); ok {
		cfg.SampleHz = uint32(v)
	}
	if v, ok := m["frame_size"].(float64); ok {
		cfg.FrameSize = int(v)
	}
	return cfg
}

func resetTimer(t *time.Timer, d time.Duration) {
	stopTimer(t)
	if d < 0 {
		d = 0
	}
	t.Reset(d)
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

// Start launches the recognizer pump.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
