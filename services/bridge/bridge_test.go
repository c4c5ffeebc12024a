// bridge/bridge_test.go
package bridge

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"testing"
	"time"

	"displaycode-go/bus"
	"displaycode-go/protocol"
	"displaycode-go/types"
)

func TestBridge_EstablishesUARTLinkAndReportsState(t *testing.T) {
	b := bus.NewBus(16)
	conn := b.NewConnection("bridge_test")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Start(ctx, conn)

	// Subscribe to bridge/state (retained) and verify initial status.
	stateSub := conn.Subscribe(bus.Topic{"bridge", "state"})
	defer conn.Unsubscribe(stateSub)

	first := nextStatePayload(t, stateSub, 500*time.Millisecond)
	assertLevelStatus(t, first, "idle", "awaiting_config")

	// Inject a UART dialler that returns a net.Pipe; keep the remote end
	// to simulate link loss.
	prevDial := UARTDial
	defer func() { UARTDial = prevDial }()
	var remote io.ReadWriteCloser
	UARTDial = func(ctx context.Context, _ types.UARTConfig) (io.ReadWriteCloser, error) {
		lc, rc := net.Pipe()
		remote = rc
		go remotePeer(rc, nil)
		return lc, nil
	}

	// Publish a valid UART config.
	cfg := `{"transport":{"type":"uart","uart":{"baud":115200,"rx_pin":1,"tx_pin":0}}}`
	conn.Publish(conn.NewMessage(bus.Topic{"config", "bridge"}, cfg, false))

	up := nextStatePayload(t, stateSub, time.Second)
	assertLevelStatus(t, up, "up", "link_established")

	// Close the remote to force link loss; expect degraded state.
	if remote != nil {
		_ = remote.Close()
	}

	degraded := nextStatePayload(t, stateSub, time.Second)
	assertLevelStatus(t, degraded, "degraded", "link_lost_retrying")
}

func TestBridge_ForwardsConfiguredTopicsAsTelemetry(t *testing.T) {
	b := bus.NewBus(16)
	conn := b.NewConnection("bridge_test_fwd")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Start(ctx, conn)

	stateSub := conn.Subscribe(bus.Topic{"bridge", "state"})
	defer conn.Unsubscribe(stateSub)
	_ = nextStatePayload(t, stateSub, 500*time.Millisecond) // awaiting_config

	records := make(chan []byte, 8)
	prevDial := UARTDial
	defer func() { UARTDial = prevDial }()
	UARTDial = func(ctx context.Context, _ types.UARTConfig) (io.ReadWriteCloser, error) {
		lc, rc := net.Pipe()
		go remotePeer(rc, records)
		return lc, nil
	}

	cfg := `{
		"transport":{"type":"uart","uart":{"baud":115200,"rx_pin":1,"tx_pin":0}},
		"forward":["motion/state","system/#"],
		"ping_ms":60000
	}`
	conn.Publish(conn.NewMessage(bus.Topic{"config", "bridge"}, cfg, false))
	up := nextStatePayload(t, stateSub, time.Second)
	assertLevelStatus(t, up, "up", "link_established")

	// Give the forward subscriptions a moment to register.
	time.Sleep(50 * time.Millisecond)
	conn.Publish(conn.NewMessage(bus.Topic{"motion", "state"},
		map[string]any{"state": "shaking"}, false))

	select {
	case body := <-records:
		var rec types.TelemetryRecord
		if err := json.Unmarshal(body, &rec); err != nil {
			t.Fatalf("record decode: %v (%q)", err, body)
		}
		if len(rec.Topic) != 2 || rec.Topic[0] != "motion" || rec.Topic[1] != "state" {
			t.Fatalf("record topic = %v, want motion/state", rec.Topic)
		}
		payload, ok := rec.Payload.(map[string]any)
		if !ok || payload["state"] != "shaking" {
			t.Fatalf("record payload = %#v", rec.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no telemetry record reached the remote peer")
	}
}

// On shutdown the bridge announces the close to the host and then
// releases the transport, so the far end sees CLOSE followed by EOF
// rather than a wedged pipe.
func TestBridge_ClosesLinkOnShutdown(t *testing.T) {
	b := bus.NewBus(8)
	conn := b.NewConnection("bridge_test_close")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Start(ctx, conn)

	stateSub := conn.Subscribe(bus.Topic{"bridge", "state"})
	defer conn.Unsubscribe(stateSub)
	_ = nextStatePayload(t, stateSub, 500*time.Millisecond) // awaiting_config

	frames := make(chan byte, 4)
	done := make(chan struct{})
	prevDial := UARTDial
	defer func() { UARTDial = prevDial }()
	UARTDial = func(ctx context.Context, _ types.UARTConfig) (io.ReadWriteCloser, error) {
		lc, rc := net.Pipe()
		go func() {
			defer close(done)
			fr := protocol.NewReader(rc)
			for {
				f, err := fr.ReadFrame()
				if err != nil {
					return
				}
				frames <- f.Type
			}
		}()
		return lc, nil
	}

	cfg := `{"transport":{"type":"uart","uart":{"baud":115200,"rx_pin":1,"tx_pin":0}},"ping_ms":60000}`
	conn.Publish(conn.NewMessage(bus.Topic{"config", "bridge"}, cfg, false))
	up := nextStatePayload(t, stateSub, time.Second)
	assertLevelStatus(t, up, "up", "link_established")

	cancel()

	select {
	case typ := <-frames:
		if typ != protocol.FrameClose {
			t.Fatalf("frame type = %#x, want CLOSE", typ)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no CLOSE frame after shutdown")
	}
	select {
	case <-done:
		// Reader unblocked: the bridge closed its end of the pipe.
	case <-time.After(2 * time.Second):
		t.Fatal("transport not closed after shutdown")
	}
}

func TestBridge_UnknownTransportYieldsErrorState(t *testing.T) {
	b := bus.NewBus(8)
	conn := b.NewConnection("bridge_test_bad")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Start(ctx, conn)

	stateSub := conn.Subscribe(bus.Topic{"bridge", "state"})
	defer conn.Unsubscribe(stateSub)

	_ = nextStatePayload(t, stateSub, 500*time.Millisecond) // initial awaiting_config

	// Publish a config with an unknown transport type.
	cfg := `{"transport":{"type":"bogus"}}`
	conn.Publish(conn.NewMessage(bus.Topic{"config", "bridge"}, cfg, false))

	errState := nextStatePayload(t, stateSub, time.Second)
	assertLevelStatus(t, errState, "error", "transport_init_failed")
}

func TestSplitTopic(t *testing.T) {
	cases := []struct {
		in   string
		want bus.Topic
	}{
		{"system/#", bus.Topic{"system", "#"}},
		{"motion/state", bus.Topic{"motion", "state"}},
		{"a", bus.Topic{"a"}},
		{"", nil},
	}
	for _, c := range cases {
		if got := splitTopic(c.in); !got.Equal(c.want) {
			t.Errorf("splitTopic(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// remotePeer minimally services the framing used by the bridge: it replies
// PONG to PING, forwards PUB payloads into records (when non-nil), and
// drains anything else. It exits on read/write error.
func remotePeer(c io.ReadWriteCloser, records chan<- []byte) {
	defer c.Close()
	hdr := make([]byte, 3)
	for {
		if _, err := io.ReadFull(c, hdr); err != nil {
			return
		}
		typ := hdr[0]
		n := int(hdr[1])<<8 | int(hdr[2])
		var buf []byte
		if n > 0 {
			buf = make([]byte, n)
			if _, err := io.ReadFull(c, buf); err != nil {
				return
			}
		}
		switch typ {
		case protocol.FramePing:
			if _, err := c.Write([]byte{protocol.FramePong, 0x00, 0x00}); err != nil {
				return
			}
		case protocol.FramePub:
			if records != nil {
				records <- buf
			}
		}
	}
}

func nextStatePayload(t *testing.T, sub *bus.Subscription, d time.Duration) map[string]any {
	t.Helper()
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case m := <-sub.Channel():
		p, ok := m.Payload.(map[string]any)
		if !ok {
			t.Fatalf("state payload type: got %T, want map[string]any", m.Payload)
		}
		return p
	case <-timer.C:
		t.Fatalf("timeout waiting for bridge/state")
		return nil
	}
}

func assertLevelStatus(t *testing.T, payload map[string]any, wantLevel, wantStatus string) {
	t.Helper()
	gotLevel, _ := payload["level"].(string)
	gotStatus, _ := payload["status"].(string)
	if gotLevel != wantLevel || gotStatus != wantStatus {
		t.Fatalf("unexpected state: level=%q status=%q, want level=%q status=%q (payload=%v)",
			gotLevel, gotStatus, wantLevel, wantStatus, payload)
	}
}
