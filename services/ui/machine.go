package ui

import (
	"displaycode-go/types"
	"displaycode-go/x/timex"
)

// Screen identifies what the renderer should draw.
type Screen string

const (
	ScreenWelcome   Screen = "welcome"
	ScreenHome      Screen = "home"
	ScreenSettings  Screen = "settings"
	ScreenThinking  Screen = "thinking"
	ScreenDizziness Screen = "dizziness"
	ScreenTilting   Screen = "tilting"
	ScreenError     Screen = "error"
)

const (
	defaultFrameRate      = 25
	defaultWelcomeDwellMs = 2000
	defaultDizzyDwellMs   = 1500
)

// Machine is the application state machine. It is pure: callers feed it
// events and tick timestamps; it never touches the bus or the display.
//
// Motion outranks everything except a latched error: shaking drags any
// screen into Dizziness, which holds for a minimum dwell so a brief
// wobble still reads on screen. Tilt only interrupts Home, so a user
// leaning the device does not lose a settings or thinking session.
type Machine struct {
	cfg types.UIConfig

	screen    Screen
	enteredAt uint32

	lastMotion types.MotionState
	tiltDeg    int16
	errMsg     string
}

// NewMachine starts on the welcome screen.
func NewMachine(cfg types.UIConfig, nowMs uint32) *Machine {
	if cfg.FrameRate == 0 {
		cfg.FrameRate = defaultFrameRate
	}
	if cfg.WelcomeDwellMs == 0 {
		cfg.WelcomeDwellMs = defaultWelcomeDwellMs
	}
	if cfg.DizzyDwellMs == 0 {
		cfg.DizzyDwellMs = defaultDizzyDwellMs
	}
	return &Machine{cfg: cfg, screen: ScreenWelcome, enteredAt: nowMs}
}

func (m *Machine) Screen() Screen         { return m.screen }
func (m *Machine) Config() types.UIConfig { return m.cfg }
func (m *Machine) TiltDeg() int16         { return m.tiltDeg }
func (m *Machine) ErrorMessage() string   { return m.errMsg }

// EnteredAt returns the tick at which the current screen was entered.
func (m *Machine) EnteredAt() uint32 { return m.enteredAt }

func (m *Machine) enter(s Screen, nowMs uint32) bool {
	if m.screen == s {
		return false
	}
	m.screen = s
	m.enteredAt = nowMs
	return true
}

// Tick handles time-driven transitions. Returns true when the screen
// changed.
func (m *Machine) Tick(nowMs uint32) bool {
	switch m.screen {
	case ScreenWelcome:
		if timex.Elapsed(m.enteredAt, nowMs, m.cfg.WelcomeDwellMs) {
			return m.enter(ScreenHome, nowMs)
		}
	case ScreenDizziness:
		if m.lastMotion != types.MotionShaking &&
			timex.Elapsed(m.enteredAt, nowMs, m.cfg.DizzyDwellMs) {
			if m.lastMotion == types.MotionTilting {
				return m.enter(ScreenTilting, nowMs)
			}
			return m.enter(ScreenHome, nowMs)
		}
	}
	return false
}

// OnMotion handles motion state transitions.
func (m *Machine) OnMotion(ev types.MotionEvent, nowMs uint32) bool {
	m.lastMotion = ev.State
	m.tiltDeg = ev.TiltDeg

	if m.screen == ScreenError || m.screen == ScreenWelcome {
		return false
	}
	switch ev.State {
	case types.MotionShaking:
		return m.enter(ScreenDizziness, nowMs)
	case types.MotionTilting:
		if m.screen == ScreenHome {
			return m.enter(ScreenTilting, nowMs)
		}
	case types.MotionStill:
		if m.screen == ScreenTilting {
			return m.enter(ScreenHome, nowMs)
		}
		// Dizziness exits on Tick once its dwell has elapsed.
	}
	return false
}

// OnSpeech handles wake word and command events.
func (m *Machine) OnSpeech(ev types.SpeechEvent, nowMs uint32) bool {
	switch ev.Kind {
	case types.SpeechWake:
		if m.screen == ScreenHome || m.screen == ScreenSettings {
			return m.enter(ScreenThinking, nowMs)
		}
	case types.SpeechCommand, types.SpeechTimeout:
		if m.screen == ScreenThinking {
			return m.enter(ScreenHome, nowMs)
		}
	}
	return false
}

// OnButton handles debounced button events. A short press toggles
// settings and dismisses a latched error; a long press always comes
// home.
func (m *Machine) OnButton(ev types.ButtonEvent, nowMs uint32) bool {
	switch ev.Action {
	case types.ButtonLongPress:
		m.errMsg = ""
		return m.enter(ScreenHome, nowMs)
	case types.ButtonPress:
		switch m.screen {
		case ScreenHome:
			return m.enter(ScreenSettings, nowMs)
		case ScreenSettings:
			return m.enter(ScreenHome, nowMs)
		case ScreenError:
			m.errMsg = ""
			return m.enter(ScreenHome, nowMs)
		}
	}
	return false
}

// OnError latches the error screen until the user dismisses it.
func (m *Machine) OnError(msg string, nowMs uint32) bool {
	m.errMsg = msg
	return m.enter(ScreenError, nowMs)
}
