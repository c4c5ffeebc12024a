// bridge/bridge.go
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"displaycode-go/bus"
	"displaycode-go/protocol"
	"displaycode-go/tick"
	"displaycode-go/types"
)

// -----------------------------------------------------------------------------
// Public entry point
// -----------------------------------------------------------------------------

// Start starts the bridge service. It blocks until ctx is cancelled.
// It listens for JSON config on topic {"config","bridge"} and (re)configures
// the link; while a link is up, the configured bus topics are mirrored
// upstream as length-prefixed JSON telemetry records.
func Start(ctx context.Context, conn *bus.Connection) {
	s := &Service{
		conn:       conn,
		stateTopic: bus.Topic{"bridge", "state"},
	}
	s.run(ctx)
}

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

// Config is the JSON-encoded configuration expected on "config/bridge".
type Config = types.BridgeConfig

func pingInterval(c Config) time.Duration {
	if c.PingMs == 0 {
		return 5 * time.Second
	}
	return time.Duration(c.PingMs) * time.Millisecond
}

// -----------------------------------------------------------------------------
// Service
// -----------------------------------------------------------------------------

type Service struct {
	conn       *bus.Connection
	stateTopic bus.Topic

	mu     sync.Mutex
	curRun context.CancelFunc
	curCfg atomic.Value // stores Config
}

// run waits for config and supervises a single link instance.
func (s *Service) run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(bus.Topic{"config", "bridge"})
	defer s.conn.Unsubscribe(cfgSub)

	s.publishState("idle", "awaiting_config", nil)

	for {
		select {
		case <-ctx.Done():
			s.stopCurrent()
			return
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				s.publishState("error", "config_subscription_closed", nil)
				return
			}
			cfg, err := decodeConfig(msg.Payload)
			if err != nil {
				s.publishState("error", "config_decode_failed", err)
				continue
			}
			s.reconfigure(ctx, cfg)
		}
	}
}

func (s *Service) stopCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.curRun != nil {
		s.curRun()
		s.curRun = nil
	}
}

func (s *Service) reconfigure(parent context.Context, cfg Config) {
	s.mu.Lock()
	// Cancel any existing run.
	if s.curRun != nil {
		s.curRun()
		s.curRun = nil
	}
	ctx, cancel := context.WithCancel(parent)
	s.curRun = cancel
	s.mu.Unlock()

	s.curCfg.Store(cfg)
	go s.runLink(ctx, cfg)
}

// -----------------------------------------------------------------------------
// Link supervision and I/O
// -----------------------------------------------------------------------------

func (s *Service) runLink(ctx context.Context, cfg Config) {
	tr, err := newTransport(cfg.Transport)
	if err != nil {
		s.publishState("error", "transport_init_failed", err)
		return
	}

	backoff := backoffSeq(250*time.Millisecond, 5*time.Second)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		rwc, err := tr.Open(ctx)
		if err != nil {
			delay := backoff()
			s.publishState("degraded", "dial_failed_retrying", fmt.Errorf("%v (retry in %s)", err, delay))
			if !sleep(ctx, delay) {
				return
			}
			continue
		}

		s.publishState("up", "link_established", nil)
		err = s.handleLink(ctx, cfg, rwc)
		_ = rwc.Close()
		if err != nil {
			delay := backoff()
			s.publishState("degraded", "link_lost_retrying", fmt.Errorf("%v (retry in %s)", err, delay))
			if !sleep(ctx, delay) {
				return
			}
			continue
		}
		// Clean close: restart only on new config.
		return
	}
}

// handleLink owns the active link lifetime: it mirrors the configured
// topics upstream, answers host pings, applies host config records, and
// keeps the link alive with its own pings.
func (s *Service) handleLink(ctx context.Context, cfg Config, rwc io.ReadWriteCloser) error {
	rd := protocol.NewReader(rwc)
	wr := protocol.NewWriter(rwc)

	// One subscription per forward pattern, funnelled into a single
	// channel so the write loop stays selectable.
	fwd := make(chan *bus.Message, 16)
	fwdCtx, cancelFwd := context.WithCancel(ctx)
	defer cancelFwd()
	for _, pattern := range cfg.Forward {
		topic := splitTopic(pattern)
		if len(topic) == 0 {
			continue
		}
		sub := s.conn.Subscribe(topic)
		go func() {
			defer s.conn.Unsubscribe(sub)
			for {
				select {
				case <-fwdCtx.Done():
					return
				case m, ok := <-sub.Channel():
					if !ok {
						return
					}
					select {
					case fwd <- m:
					case <-fwdCtx.Done():
						return
					}
				}
			}
		}()
	}

	// Reader: pongs keep the link healthy; pings and config records are
	// handed to the write loop, which owns the writer.
	errCh := make(chan error, 1)
	pongReq := make(chan struct{}, 1)
	cfgRec := make(chan []byte, 4)
	go func() {
		defer close(errCh)
		for {
			f, err := rd.ReadFrame()
			if err != nil {
				errCh <- err
				return
			}
			switch f.Type {
			case protocol.FramePong:
				// Keepalive answered; nothing to do.
			case protocol.FramePing:
				select {
				case pongReq <- struct{}{}:
				default:
				}
			case protocol.FrameCfg:
				select {
				case cfgRec <- f.Payload:
				default:
					// Host is flooding config; drop rather than stall.
				}
			}
		}
	}()

	ping := time.NewTicker(pingInterval(cfg))
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			// Best-effort close.
			_ = wr.WriteFrame(protocol.Frame{Type: protocol.FrameClose})
			return nil
		case err := <-errCh:
			if err != nil {
				return err
			}
			return nil
		case <-pongReq:
			if err := wr.WriteFrame(protocol.Frame{Type: protocol.FramePong}); err != nil {
				return err
			}
		case body := <-cfgRec:
			s.applyConfigRecord(body)
		case m := <-fwd:
			rec := types.TelemetryRecord{Topic: []string(m.Topic), Payload: m.Payload, TS: tick.Ms()}
			body, err := json.Marshal(rec)
			if err != nil {
				s.publishState("up", "record_encode_failed", err)
				continue
			}
			if err := wr.WriteFrame(protocol.Frame{Type: protocol.FramePub, Payload: body}); err != nil {
				return err
			}
		case <-ping.C:
			if err := wr.WriteFrame(protocol.Frame{Type: protocol.FramePing}); err != nil {
				return err
			}
		}
	}
}

// applyConfigRecord publishes a host-sent record onto the local bus.
// Only the config subtree is accepted so a compromised host link cannot
// spoof sensor topics.
func (s *Service) applyConfigRecord(body []byte) {
	var rec types.TelemetryRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		s.publishState("up", "config_record_invalid", err)
		return
	}
	if len(rec.Topic) < 2 || rec.Topic[0] != "config" {
		s.publishState("up", "config_record_rejected", fmt.Errorf("topic %v", rec.Topic))
		return
	}
	s.conn.Publish(s.conn.NewMessage(bus.Topic(rec.Topic), rec.Payload, true))
}

// splitTopic turns "system/#" into bus.Topic{"system", "#"}.
func splitTopic(s string) bus.Topic {
	var t bus.Topic
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '/' {
			if i > start {
				t = append(t, s[start:i])
			}
			start = i + 1
		}
	}
	return t
}

// -----------------------------------------------------------------------------
// Transport registry
// -----------------------------------------------------------------------------

// Transport is a pluggable link dialler/owner.
type Transport interface {
	Open(ctx context.Context) (io.ReadWriteCloser, error)
	String() string
}

type transportFactory func(types.TransportConfig) (Transport, error)

var (
	regMu     sync.RWMutex
	registry  = map[string]transportFactory{}
	errNoDial = errors.New("UARTDial not implemented")
)

// RegisterTransport allows external packages to add transports (eg. "ws", "tcp").
func RegisterTransport(name string, f transportFactory) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[name] = f
}

func newTransport(cfg types.TransportConfig) (Transport, error) {
	regMu.RLock()
	f, ok := registry[cfg.Type]
	regMu.RUnlock()
	if ok {
		return f(cfg)
	}
	switch cfg.Type {
	case "uart":
		return newUARTTransport(cfg)
	default:
		return nil, fmt.Errorf("unknown transport type: %q", cfg.Type)
	}
}

// UARTDial is injected by platform code (eg. in main or a tinygo_uart.go).
// It must open and return an io.ReadWriteCloser over the configured UART.
var UARTDial func(ctx context.Context, u types.UARTConfig) (io.ReadWriteCloser, error)

// uartTransport implements Transport via an injected dial function.
type uartTransport struct {
	cfg types.TransportConfig
}

func newUARTTransport(cfg types.TransportConfig) (Transport, error) {
	if cfg.UART == nil {
		return nil, errors.New("uart transport requires uart config")
	}
	return &uartTransport{cfg: cfg}, nil
}

func (u *uartTransport) Open(ctx context.Context) (io.ReadWriteCloser, error) {
	if UARTDial == nil {
		return nil, errNoDial
	}
	return UARTDial(ctx, *u.cfg.UART)
}

func (u *uartTransport) String() string { return "uart" }

// -----------------------------------------------------------------------------
// Utilities
// -----------------------------------------------------------------------------

func decodeConfig(p any) (Config, error) {
	var cfg Config
	switch v := p.(type) {
	case []byte:
		if err := json.Unmarshal(v, &cfg); err != nil {
			return cfg, err
		}
	case string:
		if err := json.Unmarshal([]byte(v), &cfg); err != nil {
			return cfg, err
		}
	case map[string]any:
		// Already a decoded object (e.g. from the config service);
		// re-marshal for simplicity.
		b, err := json.Marshal(v)
		if err != nil {
			return cfg, err
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config payload type: %T", p)
	}
	return cfg, nil
}

func (s *Service) publishState(level, status string, err error) {
	payload := map[string]any{
		"level":  level,  // "up", "degraded", "error", "idle"
		"status": status, // short machine string
		"ts_ms":  tick.Ms(),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	msg := s.conn.NewMessage(s.stateTopic, payload, true)
	s.conn.Publish(msg)
}

func backoffSeq(min, max time.Duration) func() time.Duration {
	if min <= 0 {
		min = 100 * time.Millisecond
	}
	if max < min {
		max = min
	}
	var cur = min
	return func() time.Duration {
		d := cur
		cur *= 2
		if cur > max {
			cur = max
		}
		return d
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
