// Package wifi supervises the network link through an injected Manager
// and publishes retained state transitions on "wifi/state".
package wifi

import (
	"context"
	"time"

	"displaycode-go/bus"
	"displaycode-go/conf"
	"displaycode-go/tick"
	"displaycode-go/types"
)

var (
	topicConfigWifi = bus.Topic{"config", "wifi"}
	topicWifiState  = bus.Topic{"wifi", "state"}
)

const defaultRetryMs = 5000

// Manager is the slice of the network stack the supervisor drives. A
// Connect call blocks until the association either completes or fails.
type Manager interface {
	Connect(ctx context.Context, ssid, password string) (ip string, err error)
	Disconnect() error
}

type Service struct {
	Mgr Manager
}

func NewService(mgr Manager) *Service {
	return &Service{Mgr: mgr}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigWifi)
	defer conn.Unsubscribe(cfgSub)

	publish := func(ev types.WifiEvent) {
		ev.TS = tick.Ms()
		conn.Publish(&bus.Message{Topic: topicWifiState, Payload: ev, Retained: true})
	}

	publish(types.WifiEvent{State: types.WifiDisconnected})

	var (
		cfg      types.WifiConfig
		haveCfg  bool
		attempts int
		retry    = time.NewTimer(time.Hour)
	)
	if !retry.Stop() {
		<-retry.C
	}
	defer retry.Stop()

	connect := func() {
		if cfg.SSID == "" {
			return
		}
		publish(types.WifiEvent{State: types.WifiConnecting})
		ip, err := s.Mgr.Connect(ctx, cfg.SSID, cfg.Password)
		if err != nil {
			attempts++
			publish(types.WifiEvent{State: types.WifiError, Error: err.Error()})
			if cfg.MaxRetries > 0 && attempts >= cfg.MaxRetries {
				publish(types.WifiEvent{State: types.WifiDisconnected, Error: "retries exhausted"})
				return
			}
			retryMs := cfg.RetryMs
			if retryMs == 0 {
				retryMs = defaultRetryMs
			}
			resetTimer(retry, time.Duration(retryMs)*time.Millisecond)
			return
		}
		attempts = 0
		publish(types.WifiEvent{State: types.WifiConnected, IP: ip})
	}

	for {
		select {
		case <-ctx.Done():
			if haveCfg {
				_ = s.Mgr.Disconnect()
			}
			if conf.Logs(conf.LogInfo) {
				println("Info: wifi service stopping")
			}
			return
		case <-retry.C:
			connect()
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			m, ok := msg.Payload.(map[string]any)
			if !ok {
				continue
			}
			cfg = wifiConfigFromMap(m)
			attempts = 0
			if haveCfg {
				_ = s.Mgr.Disconnect()
			}
			haveCfg = true
			connect()
		}
	}
}

func wifiConfigFromMap(m map[string]any) types.WifiConfig {
	var cfg types.WifiConfig
	if v, ok := m["ssid"].(string); ok {
		cfg.SSID = v
	}
	if v, ok := m["password"].(string); ok {
		cfg.Password = v
	}
	if v, ok := m["retry_ms"].(float64); ok {
		cfg.RetryMs = uint32(v)
	}
	if v, ok := m["max_retries"].(float64); ok {
		cfg.MaxRetries = int(v)
	}
	return cfg
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

// Start launches the supervisor.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
