// Package monitor drives the host side of the bridge link: it decodes
// telemetry frames coming off the device, keeps the link alive by
// answering pings, and lets the host push config records down.
package monitor

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"displaycode-go/protocol"
	"displaycode-go/types"
)

// Handler receives every telemetry record the device publishes upstream.
// It is called from the monitor's read goroutine.
type Handler func(rec types.TelemetryRecord)

// Monitor owns a framed link to the device. One goroutine reads frames;
// writers share the port behind a mutex.
type Monitor struct {
	rwc     io.ReadWriteCloser
	fw      *protocol.Writer
	wmu     sync.Mutex
	handler Handler

	pong chan struct{}
	done chan struct{}

	closeOnce sync.Once

	mu  sync.Mutex
	err error
}

// New starts a monitor over rwc. handler may be nil when the caller only
// wants ping/config traffic. Close the monitor (or the port) to stop it.
func New(rwc io.ReadWriteCloser, handler Handler) *Monitor {
	m := &Monitor{
		rwc:     rwc,
		fw:      protocol.NewWriter(rwc),
		handler: handler,
		pong:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go m.readLoop()
	return m
}

// Done is closed when the read loop exits (link lost or Close called).
func (m *Monitor) Done() <-chan struct{} { return m.done }

// Err reports why the read loop exited. nil until Done is closed.
func (m *Monitor) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Close shuts the link down. The device sees a Close frame when the
// write still succeeds, then the port is closed.
func (m *Monitor) Close() error {
	m.closeOnce.Do(func() {
		_ = m.write(protocol.Frame{Type: protocol.FrameClose})
		_ = m.rwc.Close()
	})
	return nil
}

// Ping sends a ping and waits up to timeout for the device's pong.
func (m *Monitor) Ping(timeout time.Duration) error {
	// Drain a stale pong left over from an earlier timeout.
	select {
	case <-m.pong:
	default:
	}
	if err := m.write(protocol.Frame{Type: protocol.FramePing}); err != nil {
		return err
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-m.pong:
		return nil
	case <-m.done:
		return fmt.Errorf("link closed: %v", m.Err())
	case <-timer.C:
		return fmt.Errorf("ping timeout after %s", timeout)
	}
}

// SendConfig pushes a retained config record to the device. topic is a
// slash-joined path under config/, e.g. "config/ui" or just "ui".
func (m *Monitor) SendConfig(topic string, payload any) error {
	parts := splitTopic(topic)
	if len(parts) == 0 {
		return fmt.Errorf("empty config topic")
	}
	if parts[0] != "config" {
		parts = append([]string{"config"}, parts...)
	}
	rec := types.TelemetryRecord{Topic: parts, Payload: payload}
	body, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("encode config record: %w", err)
	}
	return m.write(protocol.Frame{Type: protocol.FrameCfg, Payload: body})
}

func (m *Monitor) write(f protocol.Frame) error {
	m.wmu.Lock()
	defer m.wmu.Unlock()
	return m.fw.WriteFrame(f)
}

func (m *Monitor) readLoop() {
	fr := protocol.NewReader(m.rwc)
	var exitErr error
	for {
		f, err := fr.ReadFrame()
		if err != nil {
			exitErr = err
			break
		}
		switch f.Type {
		case protocol.FramePub:
			if m.handler == nil {
				continue
			}
			var rec types.TelemetryRecord
			if err := json.Unmarshal(f.Payload, &rec); err != nil {
				// Corrupt record; keep the link up.
				continue
			}
			m.handler(rec)
		case protocol.FramePing:
			if err := m.write(protocol.Frame{Type: protocol.FramePong}); err != nil {
				exitErr = err
			}
		case protocol.FramePong:
			select {
			case m.pong <- struct{}{}:
			default:
			}
		case protocol.FrameClose:
			exitErr = io.EOF
		}
		if exitErr != nil {
			break
		}
	}
	m.mu.Lock()
	m.err = exitErr
	m.mu.Unlock()
	close(m.done)
}

func splitTopic(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "/")
}
