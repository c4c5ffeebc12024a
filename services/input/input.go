// Package input debounces the boot button and publishes press events.
package input

import (
	"context"
	"time"

	"displaycode-go/bus"
	"displaycode-go/conf"
	"displaycode-go/tick"
	"displaycode-go/types"
)

var topicButton = bus.Topic{"input", "button"}

const (
	defaultPollMs      = 10
	defaultLongPressMs = 800
	debounceSamples    = 2
)

// machine is the debounce and press classifier, one step per poll.
// A short press reports on release; a long press reports while still
// held, and swallows the release.
type machine struct {
	longPressMs uint32

	stable    bool
	raw       bool
	rawCount  int
	downAt    uint32
	longFired bool
}

func (m *machine) step(level bool, nowMs uint32) (types.ButtonAction, bool) {
	if level != m.raw {
		m.raw = level
		m.rawCount = 1
		return "", false
	}
	if m.rawCount < debounceSamples {
		m.rawCount++
		return "", false
	}
	if m.raw == m.stable {
		if m.stable && !m.longFired && nowMs-m.downAt >= m.longPressMs {
			m.longFired = true
			return types.ButtonLongPress, true
		}
		return "", false
	}
	m.stable = m.raw
	if m.stable {
		m.downAt = nowMs
		m.longFired = false
		return "", false
	}
	if m.longFired {
		return "", false
	}
	return types.ButtonPress, true
}

// Service polls a level-read function. ReadPin returns true while the
// button is held down.
type Service struct {
	ReadPin     func() bool
	PollMs      uint32
	LongPressMs uint32
}

func NewService(readPin func() bool) *Service {
	return &Service{ReadPin: readPin}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	pollMs := s.PollMs
	if pollMs == 0 {
		pollMs = defaultPollMs
	}
	m := machine{longPressMs: s.LongPressMs}
	if m.longPressMs == 0 {
		m.longPressMs = defaultLongPressMs
	}

	ticker := time.NewTicker(time.Duration(pollMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if conf.Logs(conf.LogInfo) {
				println("Info: input service stopping")
			}
			return
		case <-ticker.C:
			if action, ok := m.step(s.ReadPin(), tick.Ms()); ok {
				conn.Publish(&bus.Message{
					Topic:   topicButton,
					Payload: types.ButtonEvent{Action: action, TS: tick.Ms()},
				})
			}
		}
	}
}

// Start launches the button poller.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
