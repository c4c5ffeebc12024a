// Package motion polls the IMU and publishes retained motion state
// transitions (still, shaking, tilting) on the bus.
package motion

import (
	"context"
	"time"

	"displaycode-go/bus"
	"displaycode-go/conf"
	"displaycode-go/drivers/qmi8658"
	"displaycode-go/tick"
	"displaycode-go/types"
)

var (
	topicConfigMotion = bus.Topic{"config", "motion"}
	topicMotionState  = bus.Topic{"motion", "state"}
)

// Sampler is the slice of the IMU driver the service needs.
type Sampler interface {
	ReadSample(*qmi8658.Sample) error
}

type Service struct {
	IMU Sampler
}

func NewService(imu Sampler) *Service {
	return &Service{IMU: imu}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigMotion)
	defer conn.Unsubscribe(cfgSub)

	cfg := types.MotionConfig{}
	det := NewDetector(cfg)

	ticker := time.NewTicker(defaultPollMs * time.Millisecond)
	defer ticker.Stop()

	var sample qmi8658.Sample
	publish := func() {
		conn.Publish(&bus.Message{
			Topic: topicMotionState,
			Payload: types.MotionEvent{
				State:   det.State(),
				TiltDeg: det.TiltDeg(),
				TS:      tick.Ms(),
				AccelMilli: types.AccelMilli{
					X: sample.AxMG, Y: sample.AyMG, Z: sample.AzMG,
				},
			},
			Retained: true,
		})
	}

	// Seed subscribers so the UI never waits for the first transition.
	publish()

	for {
		select {
		case <-ctx.Done():
			if conf.Logs(conf.LogInfo) {
				println("Info: motion service stopping")
			}
			return
		case <-ticker.C:
			if err := s.IMU.ReadSample(&sample); err != nil {
				if conf.Logs(conf.LogError) {
					println("Error: motion: imu read:", err.Error())
				}
				continue
			}
			_, changed := det.Update(Reading{
				Accel: types.AccelMilli{X: sample.AxMG, Y: sample.AyMG, Z: sample.AzMG},
				GyroX: sample.GxCDPS,
				GyroY: sample.GyCDPS,
				GyroZ: sample.GzCDPS,
			})
			if changed {
				publish()
			}
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			if m, ok := msg.Payload.(map[string]any); ok {
				cfg = motionConfigFromMap(m)
				det = NewDetector(cfg)
				if cfg.PollMs > 0 {
					ticker.Reset(time.Duration(cfg.PollMs) * time.Millisecond)
				}
				if conf.Logs(conf.LogInfo) {
					println("Info: motion config applied")
				}
			}
		}
	}
}

func motionConfigFromMap(m map[string]any) types.MotionConfig {
	var cfg types.MotionConfig
	if v, ok := m["poll_ms"].(float64); ok {
		cfg.PollMs = uint32(v)
	}
	if v, ok := m["accel_thresh_mg"].(float64); ok {
		cfg.AccelThreshMG = int32(v)
	}
	if v, ok := m["gyro_thresh_cdps"].(float64); ok {
		cfg.GyroThreshCDPS = int32(v)
	}
	if v, ok := m["tilt_thresh_deg"].(float64); ok {
		cfg.TiltThreshDeg = int16(v)
	}
	return cfg
}

// Start launches the motion poller.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
