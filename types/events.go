package types

// Speech, input and system event payloads. These mirror the bus topics
// ("speech/event", "input/button", "system/...") that the UI consumes.

// ---- Speech ----

type SpeechKind string

const (
	SpeechWake    SpeechKind = "wake"    // wake word detected
	SpeechCommand SpeechKind = "command" // command recognised
	SpeechTimeout SpeechKind = "timeout" // listening window elapsed
)

type SpeechEvent struct {
	Kind      SpeechKind `json:"kind"`
	CommandID int        `json:"command_id,omitempty"`
	Command   string     `json:"command,omitempty"`
	TS        uint32     `json:"ts_ms"`
}

// ---- Assistant ----

// AssistantReply carries the backend's answer to a spoken command.
type AssistantReply struct {
	Command string `json:"command"`
	Text    string `json:"text"`
	TS      uint32 `json:"ts_ms"`
}

// ---- Button input ----

type ButtonAction string

const (
	ButtonPress     ButtonAction = "press"
	ButtonLongPress ButtonAction = "long_press"
)

type ButtonEvent struct {
	Action ButtonAction `json:"action"`
	TS     uint32       `json:"ts_ms"`
}

// ---- Wifi ----

type WifiState string

const (
	WifiDisconnected WifiState = "disconnected"
	WifiConnecting   WifiState = "connecting"
	WifiConnected    WifiState = "connected"
	WifiError        WifiState = "error"
)

type WifiEvent struct {
	State WifiState `json:"state"`
	IP    string    `json:"ip,omitempty"`
	Error string    `json:"error,omitempty"`
	TS    uint32    `json:"ts_ms"`
}

// ---- Telemetry records the bridge forwards upstream ----

type TelemetryRecord struct {
	Topic   []string `json:"topic"`
	Payload any      `json:"payload"`
	TS      uint32   `json:"ts_ms"`
}
