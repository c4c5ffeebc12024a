package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Populate embeddedConfigs at build time (e.g. via code generation) or
// manually during development.
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgCompanion = `{
  "ui": {
      "frame_rate": 30,
      "welcome_dwell_ms": 2000,
      "dizzy_dwell_ms": 1500,
      "backlight": 100
  },
  "motion": {
      "poll_ms": 100,
      "accel_thresh_mg": 800,
      "gyro_thresh_cdps": 12000,
      "tilt_thresh_deg": 45
  },
  "speech": {
      "wake_word": "hi esp",
      "listen_ms": 5000,
      "sample_hz": 16000,
      "frame_size": 512
  },
  "bridge": {
      "transport": {"type": "uart", "uart": {"baud": 115200, "rx_pin": 44, "tx_pin": 43}},
      "forward": ["system/#", "motion/state", "wifi/state", "assistant/reply"],
      "ping_ms": 5000
  },
  "wifi": {
      "ssid": "",
      "password": ""
  },
  "api": {
      "base_url": "http://192.168.1.10:8080",
      "model": "companion-s",
      "timeout_ms": 10000
  },
  "heartbeat": {
      "interval": 2
  }
}`

var embeddedConfigs = map[string][]byte{
	"companion": []byte(cfgCompanion),
}
