package types

// Per-service configuration sections, supplied as retained messages on
// "config/<section>" by the config service.

type UIConfig struct {
	FrameRate      uint32 `json:"frame_rate"`       // target fps, default 25
	WelcomeDwellMs uint32 `json:"welcome_dwell_ms"` // auto-advance delay
	DizzyDwellMs   uint32 `json:"dizzy_dwell_ms"`   // minimum dizziness hold
	Backlight      uint16 `json:"backlight"`        // 0..255 steady level
}

type SpeechConfig struct {
	WakeWord  string   `json:"wake_word"`
	Commands  []string `json:"commands"`   // index == command id
	ListenMs  uint32   `json:"listen_ms"`  // command window after wake
	SampleHz  uint32   `json:"sample_hz"`  // pcm rate fed to recogniser
	FrameSize int      `json:"frame_size"` // pcm bytes per inference frame
}

type BridgeConfig struct {
	Transport TransportConfig `json:"transport"`
	// Forward lists slash-joined topic patterns ("system/#") to mirror
	// upstream as telemetry records.
	Forward []string `json:"forward,omitempty"`
	PingMs  uint32   `json:"ping_ms,omitempty"`
}

type TransportConfig struct {
	// "uart" (built in) or other names registered via RegisterTransport.
	Type string      `json:"type"`
	UART *UARTConfig `json:"uart,omitempty"`
}

// UARTConfig carries enough information for an injected dialler to open
// the link. Pin mapping and UART instance selection happen in the dialler.
type UARTConfig struct {
	Baud  int `json:"baud"`
	RxPin int `json:"rx_pin"` // platform-specific numeric IDs
	TxPin int `json:"tx_pin"`
}

type WifiConfig struct {
	SSID       string `json:"ssid"`
	Password   string `json:"password,omitempty"`
	RetryMs    uint32 `json:"retry_ms,omitempty"`
	MaxRetries int    `json:"max_retries,omitempty"`
}

type APIConfig struct {
	BaseURL     string `json:"base_url"`
	Model       string `json:"model,omitempty"`       // backend model for new sessions
	Fingerprint string `json:"fingerprint,omitempty"` // device identity header
	TimeoutMs   uint32 `json:"timeout_ms,omitempty"`
}
