// Package assistant turns recognised voice commands into backend chat
// calls and publishes the replies on the bus.
package assistant

import (
	"context"

	"displaycode-go/api"
	"displaycode-go/bus"
	"displaycode-go/conf"
	"displaycode-go/errcode"
	"displaycode-go/tick"
	"displaycode-go/types"
)

var (
	topicConfigAPI   = bus.Topic{"config", "api"}
	topicSpeechEvent = bus.Topic{"speech", "event"}
	topicReply       = bus.Topic{"assistant", "reply"}
	topicSystemError = bus.Topic{"system", "error"}
)

// Chat is the slice of the backend client the assistant drives.
type Chat interface {
	CreateSession(ctx context.Context, model string) (string, error)
	PromptSync(ctx context.Context, sessionID, message string) (string, error)
}

// NewChat builds the backend client for a config section. Tests swap in
// a scripted fake.
var NewChat = func(cfg types.APIConfig) Chat { return api.New(cfg) }

type Service struct{}

func NewService() *Service { return &Service{} }

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigAPI)
	defer conn.Unsubscribe(cfgSub)
	spSub := conn.Subscribe(topicSpeechEvent)
	defer conn.Unsubscribe(spSub)

	var (
		chat    Chat
		model   string
		session string
	)

	for {
		select {
		case <-ctx.Done():
			if conf.Logs(conf.LogInfo) {
				println("Info: assistant service stopping")
			}
			return
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			mp, ok := msg.Payload.(map[string]any)
			if !ok {
				continue
			}
			cfg := apiConfigFromMap(mp)
			if cfg.BaseURL == "" {
				chat = nil
				continue
			}
			chat = NewChat(cfg)
			model = cfg.Model
			session = ""
			if conf.Logs(conf.LogInfo) {
				println("Info: assistant: backend", cfg.BaseURL)
			}
		case msg, ok := <-spSub.Channel():
			if !ok {
				return
			}
			ev, ok := msg.Payload.(types.SpeechEvent)
			if !ok || ev.Kind != types.SpeechCommand {
				continue
			}
			if chat == nil {
				if conf.Logs(conf.LogInfo) {
					println("Info: assistant: no backend configured, dropping", ev.Command)
				}
				continue
			}
			// The call blocks this loop; the client's timeout bounds it
			// and queued speech events wait their turn.
			text, err := s.ask(ctx, chat, model, &session, ev.Command)
			if err != nil {
				if conf.Logs(conf.LogError) {
					println("Error: assistant:", err.Error())
				}
				conn.Publish(conn.NewMessage(topicSystemError,
					"assistant: "+string(errcode.Of(err)), false))
				continue
			}
			conn.Publish(conn.NewMessage(topicReply, types.AssistantReply{
				Command: ev.Command,
				Text:    text,
				TS:      tick.Ms(),
			}, false))
		}
	}
}

// ask runs one prompt, creating the session on demand and recreating it
// once if the backend reports it expired.
func (s *Service) ask(ctx context.Context, chat Chat, model string, session *string, command string) (string, error) {
	for attempt := 0; ; attempt++ {
		if *session == "" {
			id, err := chat.CreateSession(ctx, model)
			if err != nil {
				return "", err
			}
			*session = id
		}
		text, err := chat.PromptSync(ctx, *session, command)
		if err == nil {
			return text, nil
		}
		if errcode.Of(err) == errcode.SessionExpired && attempt == 0 {
			*session = ""
			continue
		}
		return "", err
	}
}

func apiConfigFromMap(m map[string]any) types.APIConfig {
	var cfg types.APIConfig
	if v, ok := m["base_url"].(string); ok {
		cfg.BaseURL = v
	}
	if v, ok := m["model"].(string); ok {
		cfg.Model = v
	}
	if v, ok := m["fingerprint"].(string); ok {
		cfg.Fingerprint = v
	}
	if v, ok := m["timeout_ms"].(float64); ok {
		cfg.TimeoutMs = uint32(v)
	}
	return cfg
}

// Start launches the assistant loop.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
