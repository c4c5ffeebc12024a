package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"displaycode-go/errcode"
	"displaycode-go/types"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := New(types.APIConfig{
		BaseURL:     srv.URL,
		Fingerprint: "test-device",
		TimeoutMs:   2000,
	})
	return c, srv
}

func TestCreateSession(t *testing.T) {
	var gotFingerprint, gotModel string
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/create" {
			t.Errorf("path = %q, want /chat/create", r.URL.Path)
		}
		gotFingerprint = r.Header.Get("X-Fingerprint")
		gotModel = r.URL.Query().Get("model")
		json.NewEncoder(w).Encode(map[string]any{
			"status": 200,
			"data":   map[string]any{"session_id": "sess-1"},
		})
	}))
	defer srv.Close()

	id, err := c.CreateSession(context.Background(), "tiny")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if id != "sess-1" {
		t.Fatalf("session id = %q, want sess-1", id)
	}
	if gotFingerprint != "test-device" {
		t.Errorf("fingerprint header = %q", gotFingerprint)
	}
	if gotModel != "tiny" {
		t.Errorf("model query = %q", gotModel)
	}
}

func TestSendMessagePostsBody(t *testing.T) {
	var gotPath, gotMessage string
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("body decode: %v", err)
		}
		gotMessage = req.Message
		json.NewEncoder(w).Encode(map[string]any{"status": 200, "data": nil})
	}))
	defer srv.Close()

	if err := c.SendMessage(context.Background(), "sess-1", "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if gotPath != "/chat/message/sess-1" {
		t.Errorf("path = %q", gotPath)
	}
	if gotMessage != "hello" {
		t.Errorf("message = %q", gotMessage)
	}
}

func TestPromptSync(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status": 200,
			"data":   "why did the gopher cross the road",
		})
	}))
	defer srv.Close()

	reply, err := c.PromptSync(context.Background(), "sess-1", "tell me a joke")
	if err != nil {
		t.Fatalf("PromptSync: %v", err)
	}
	if reply != "why did the gopher cross the road" {
		t.Fatalf("reply = %q", reply)
	}
}

func TestPromptStreamDeltasUntilDone(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/stream/sess-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		io.WriteString(w, `{"type":"delta","content":"hel"}`+"\n")
		io.WriteString(w, "\n") // keepalive blank line
		io.WriteString(w, `{"type":"delta","content":"lo"}`+"\n")
		io.WriteString(w, `{"type":"done","message_id":"m-9"}`+"\n")
	}))
	defer srv.Close()

	st, err := c.PromptStream(context.Background(), "sess-1", "hi")
	if err != nil {
		t.Fatalf("PromptStream: %v", err)
	}
	defer st.Close()

	var text string
	var doneID string
	for {
		ev, err := st.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		switch ev.Type {
		case "delta":
			text += ev.Content
		case "done":
			doneID = ev.MessageID
		}
	}
	if text != "hello" {
		t.Fatalf("assembled text = %q, want hello", text)
	}
	if doneID != "m-9" {
		t.Fatalf("done message id = %q, want m-9", doneID)
	}
	// The stream stays EOF after done.
	if _, err := st.Next(); err != io.EOF {
		t.Fatalf("Next after done = %v, want io.EOF", err)
	}
}

func TestStatusMapsToTypedErrors(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   errcode.Code
	}{
		{http.StatusNotFound, `{"status":404,"message":"session not found"}`, errcode.SessionExpired},
		{http.StatusUnauthorized, `{"status":401,"message":"invalid fingerprint"}`, errcode.InvalidParams},
		{http.StatusGatewayTimeout, ``, errcode.Timeout},
		{http.StatusInternalServerError, `not json`, errcode.Error},
	}
	for _, tc := range cases {
		c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			io.WriteString(w, tc.body)
		}))
		_, err := c.CreateSession(context.Background(), "")
		srv.Close()
		if err == nil {
			t.Fatalf("status %d: no error", tc.status)
		}
		if got := errcode.Of(err); got != tc.want {
			t.Errorf("status %d: code = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestNetworkFailureIsNetDown(t *testing.T) {
	c := New(types.APIConfig{BaseURL: "http://127.0.0.1:1", TimeoutMs: 200})
	_, err := c.CreateSession(context.Background(), "")
	if err == nil {
		t.Fatal("no error from unreachable server")
	}
	if got := errcode.Of(err); got != errcode.NetDown {
		t.Fatalf("code = %q, want net_down", got)
	}
}
