package heartbeat

import (
	"context"
	"time"

	"displaycode-go/bus"
	"displaycode-go/conf"
	"displaycode-go/tick"
	"displaycode-go/types"
)

var (
	topicConfigHeartbeat = bus.Topic{"config", "heartbeat"}
	topicHeartbeat       = bus.Topic{"system", "heartbeat"}
)

type Service struct{}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	var seq uint32

	// loop until context is cancelled, respond to tick and config changes
	for {
		select {
		case <-ctx.Done():
			if conf.Logs(conf.LogInfo) {
				println("Info: heartbeat service stopping")
			}
			return
		case <-ticker.C:
			seq++
			conn.Publish(&bus.Message{
				Topic:    topicHeartbeat,
				Payload:  types.Heartbeat{UptimeMs: tick.Ms(), Seq: seq},
				Retained: true,
			})
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			if m, ok := msg.Payload.(map[string]any); ok {
				if iv, ok := m["interval"].(float64); ok && iv > 0 {
					ticker.Reset(time.Duration(iv * float64(time.Second)))
					if conf.Logs(conf.LogInfo) {
						println("Info: heartbeat interval updated")
					}
				}
			}
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
