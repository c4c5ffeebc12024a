// Package api is the HTTP client for the companion chat backend: create
// a session, send messages, and consume the streamed reply.
//
// Every response body is wrapped in a common envelope; streamed replies
// are line-delimited JSON events terminated by a "done" event.
package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"displaycode-go/errcode"
	"displaycode-go/types"
)

const defaultTimeoutMs = 10000

type Client struct {
	cfg types.APIConfig
	hc  *http.Client
}

func New(cfg types.APIConfig) *Client {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if cfg.TimeoutMs == 0 {
		timeout = defaultTimeoutMs * time.Millisecond
	}
	return &Client{cfg: cfg, hc: &http.Client{Timeout: timeout}}
}

// envelope is the common response wrapper.
type envelope struct {
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

type sessionInfo struct {
	SessionID string `json:"session_id"`
}

type messageRequest struct {
	Message string   `json:"message"`
	Files   []string `json:"files,omitempty"`
}

// StreamEvent is one line of a streamed reply.
type StreamEvent struct {
	Type      string `json:"type"` // "delta", "done", "error"
	Content   string `json:"content,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

// CreateSession opens a chat session, optionally pinning a model.
func (c *Client) CreateSession(ctx context.Context, model string) (string, error) {
	url := c.cfg.BaseURL + "/chat/create"
	if model != "" {
		url += "?model=" + model
	}
	body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	var info sessionInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return "", &errcode.E{C: errcode.InvalidPayload, Op: "api.CreateSession", Err: err}
	}
	return info.SessionID, nil
}

// SendMessage posts a message without waiting for the reply content.
func (c *Client) SendMessage(ctx context.Context, sessionID, message string) error {
	url := c.cfg.BaseURL + "/chat/message/" + sessionID
	_, err := c.do(ctx, http.MethodPost, url, &messageRequest{Message: message})
	return err
}

// PromptSync sends a prompt and returns the complete reply text.
func (c *Client) PromptSync(ctx context.Context, sessionID, message string) (string, error) {
	url := c.cfg.BaseURL + "/chat/prompt/" + sessionID
	body, err := c.do(ctx, http.MethodPost, url, &messageRequest{Message: message})
	if err != nil {
		return "", err
	}
	var reply string
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", &errcode.E{C: errcode.InvalidPayload, Op: "api.PromptSync", Err: err}
	}
	return reply, nil
}

// PromptStream sends a prompt and returns the streamed reply. The caller
// must Close the stream.
func (c *Client) PromptStream(ctx context.Context, sessionID, message string) (*Stream, error) {
	url := c.cfg.BaseURL + "/chat/stream/" + sessionID
	resp, err := c.request(ctx, http.MethodPost, url, &messageRequest{Message: message})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, c.statusError("api.PromptStream", resp)
	}
	return &Stream{sc: bufio.NewScanner(resp.Body), body: resp.Body}, nil
}

// Stream iterates the line-delimited events of one reply.
type Stream struct {
	sc   *bufio.Scanner
	body io.Closer
	done bool
}

// Next returns the next event; io.EOF after the "done" event or the end
// of the body.
func (s *Stream) Next() (StreamEvent, error) {
	if s.done {
		return StreamEvent{}, io.EOF
	}
	for s.sc.Scan() {
		line := bytes.TrimSpace(s.sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var ev StreamEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return StreamEvent{}, &errcode.E{C: errcode.InvalidPayload, Op: "api.Stream", Err: err}
		}
		if ev.Type == "done" {
			s.done = true
		}
		return ev, nil
	}
	if err := s.sc.Err(); err != nil {
		return StreamEvent{}, &errcode.E{C: errcode.NetDown, Op: "api.Stream", Err: err}
	}
	s.done = true
	return StreamEvent{}, io.EOF
}

func (s *Stream) Close() error { return s.body.Close() }

// do runs a request and unwraps the envelope's data field.
func (c *Client) do(ctx context.Context, method, url string, payload any) (json.RawMessage, error) {
	resp, err := c.request(ctx, method, url, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError("api."+method, resp)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &errcode.E{C: errcode.InvalidPayload, Op: "api." + method, Err: err}
	}
	return env.Data, nil
}

func (c *Client) request(ctx context.Context, method, url string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, &errcode.E{C: errcode.InvalidParams, Op: "api.request", Err: err}
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "api.request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Fingerprint != "" {
		req.Header.Set("X-Fingerprint", c.cfg.Fingerprint)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &errcode.E{C: errcode.NetDown, Op: "api.request", Err: err}
	}
	return resp, nil
}

// statusError maps an HTTP failure to a typed error, preferring the
// envelope's message when the body parses.
func (c *Client) statusError(op string, resp *http.Response) error {
	code := errcode.Error
	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		code = errcode.SessionExpired
	case http.StatusUnauthorized, http.StatusForbidden:
		code = errcode.InvalidParams
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		code = errcode.Timeout
	}
	msg := resp.Status
	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&env); err == nil && env.Message != "" {
		msg = env.Message
	}
	return &errcode.E{C: code, Op: op, Msg: msg}
}
