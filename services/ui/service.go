// Package ui owns the screen: an application state machine fed by bus
// events and a renderer paced by the frame timer.
package ui

import (
	"context"
	"time"

	"displaycode-go/bus"
	"displaycode-go/conf"
	"displaycode-go/tick"
	"displaycode-go/types"
	"displaycode-go/x/ramp"
	"displaycode-go/x/timex"

	"tinygo.org/x/drivers"
)

var (
	topicConfigUI    = bus.Topic{"config", "ui"}
	topicMotionState = bus.Topic{"motion", "state"}
	topicSpeechEvent = bus.Topic{"speech", "event"}
	topicButton      = bus.Topic{"input", "button"}
	topicWifiState   = bus.Topic{"wifi", "state"}
	topicSystemError = bus.Topic{"system", "error"}
)

const backlightTop = 255

type Service struct {
	Display drivers.Displayer
	// Backlight applies a PWM duty in [0..255]; nil disables fades.
	Backlight func(level uint16)
}

func NewService(display drivers.Displayer) *Service {
	return &Service{Display: display}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigUI)
	motionSub := conn.Subscribe(topicMotionState)
	speechSub := conn.Subscribe(topicSpeechEvent)
	buttonSub := conn.Subscribe(topicButton)
	wifiSub := conn.Subscribe(topicWifiState)
	errorSub := conn.Subscribe(topicSystemError)
	defer conn.Disconnect()

	m := NewMachine(types.UIConfig{}, tick.Ms())
	r := NewRenderer(s.Display)
	var st Status

	s.fadeBacklight(ctx, 0, m.Config().Backlight)

	frame := time.NewTicker(time.Duration(timex.FrameIntervalMs(m.Config().FrameRate)) * time.Millisecond)
	defer frame.Stop()

	for {
		select {
		case <-ctx.Done():
			if conf.Logs(conf.LogInfo) {
				println("Info: ui service stopping")
			}
			return
		case <-frame.C:
			now := tick.Ms()
			m.Tick(now)
			st.UptimeMs = now
			if err := r.Render(m, st, now); err != nil {
				if conf.Logs(conf.LogError) {
					println("Error: ui: render:", err.Error())
				}
			}
		case msg, ok := <-motionSub.Channel():
			if !ok {
				return
			}
			if ev, ok := msg.Payload.(types.MotionEvent); ok {
				m.OnMotion(ev, tick.Ms())
			}
		case msg, ok := <-speechSub.Channel():
			if !ok {
				return
			}
			if ev, ok := msg.Payload.(types.SpeechEvent); ok {
				m.OnSpeech(ev, tick.Ms())
			}
		case msg, ok := <-buttonSub.Channel():
			if !ok {
				return
			}
			if ev, ok := msg.Payload.(types.ButtonEvent); ok {
				m.OnButton(ev, tick.Ms())
			}
		case msg, ok := <-wifiSub.Channel():
			if !ok {
				return
			}
			if ev, ok := msg.Payload.(types.WifiEvent); ok {
				st.Wifi = ev.State
				st.WifiIP = ev.IP
			}
		case msg, ok := <-errorSub.Channel():
			if !ok {
				return
			}
			if text, ok := msg.Payload.(string); ok {
				m.OnError(text, tick.Ms())
			}
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			if mp, ok := msg.Payload.(map[string]any); ok {
				cfg := uiConfigFromMap(mp)
				old := m
				m = NewMachine(cfg, tick.Ms())
				// Config changes must not bounce the user back to the
				// welcome screen.
				if old.Screen() != ScreenWelcome {
					m.enter(old.Screen(), old.EnteredAt())
				}
				frame.Reset(time.Duration(timex.FrameIntervalMs(m.Config().FrameRate)) * time.Millisecond)
				s.fadeBacklight(ctx, old.Config().Backlight, m.Config().Backlight)
			}
		}
	}
}

// fadeBacklight ramps the duty over 250ms without blocking the frame
// loop for longer than the ramp itself.
func (s *Service) fadeBacklight(ctx context.Context, from, to uint16) {
	if s.Backlight == nil {
		return
	}
	if to == 0 {
		to = backlightTop
	}
	ramp.Linear(from, to, backlightTop, 250, 16, func(d time.Duration) bool {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(d):
			return true
		}
	}, s.Backlight)
}

func uiConfigFromMap(m map[string]any) types.UIConfig {
	var cfg types.UIConfig
	if v, ok := m["frame_rate"].(float64); ok {
		cfg.FrameRate = uint32(v)
	}
	if v, ok := m["welcome_dwell_ms"].(float64); ok {
		cfg.WelcomeDwellMs = uint32(v)
	}
	if v, ok := m["dizzy_dwell_ms"].(float64); ok {
		cfg.DizzyDwellMs = uint32(v)
	}
	if v, ok := m["backlight"].(float64); ok {
		cfg.Backlight = uint16(v)
	}
	return cfg
}

// Start launches the screen loop.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
