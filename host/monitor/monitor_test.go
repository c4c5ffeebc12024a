package monitor

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"displaycode-go/protocol"
	"displaycode-go/types"
)

func TestMonitor_DeliversTelemetryRecords(t *testing.T) {
	local, remote := net.Pipe()

	recs := make(chan types.TelemetryRecord, 4)
	m := New(local, func(rec types.TelemetryRecord) { recs <- rec })
	defer m.Close()

	fw := protocol.NewWriter(remote)
	body, _ := json.Marshal(types.TelemetryRecord{
		Topic:   []string{"motion", "state"},
		Payload: map[string]any{"state": "shaking"},
		TS:      1234,
	})
	if err := fw.WriteFrame(protocol.Frame{Type: protocol.FramePub, Payload: body}); err != nil {
		t.Fatalf("write pub frame: %v", err)
	}

	select {
	case rec := <-recs:
		if len(rec.Topic) != 2 || rec.Topic[0] != "motion" || rec.Topic[1] != "state" {
			t.Fatalf("record topic = %v, want motion/state", rec.Topic)
		}
		p, ok := rec.Payload.(map[string]any)
		if !ok || p["state"] != "shaking" {
			t.Fatalf("record payload = %#v", rec.Payload)
		}
		if rec.TS != 1234 {
			t.Fatalf("record ts = %d, want 1234", rec.TS)
		}
	case <-time.After(time.Second):
		t.Fatal("no telemetry record delivered")
	}
}

func TestMonitor_AnswersDevicePings(t *testing.T) {
	local, remote := net.Pipe()
	m := New(local, nil)
	defer m.Close()

	fw := protocol.NewWriter(remote)
	fr := protocol.NewReader(remote)
	if err := fw.WriteFrame(protocol.Frame{Type: protocol.FramePing}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	f, err := fr.ReadFrame()
	if err != nil {
		t.Fatalf("read pong: %v", err)
	}
	if f.Type != protocol.FramePong {
		t.Fatalf("frame type = %#02x, want pong", f.Type)
	}
}

func TestMonitor_PingRoundTrip(t *testing.T) {
	local, remote := net.Pipe()
	m := New(local, nil)
	defer m.Close()

	// Remote answers one ping, like the device write loop does.
	go func() {
		fr := protocol.NewReader(remote)
		fw := protocol.NewWriter(remote)
		f, err := fr.ReadFrame()
		if err != nil || f.Type != protocol.FramePing {
			return
		}
		_ = fw.WriteFrame(protocol.Frame{Type: protocol.FramePong})
	}()

	if err := m.Ping(time.Second); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestMonitor_PingTimesOutWithoutPeer(t *testing.T) {
	local, remote := net.Pipe()
	m := New(local, nil)
	defer m.Close()

	// Remote swallows the ping and never replies.
	go func() {
		fr := protocol.NewReader(remote)
		_, _ = fr.ReadFrame()
	}()

	if err := m.Ping(30 * time.Millisecond); err == nil {
		t.Fatal("ping succeeded with a silent peer")
	}
}

func TestMonitor_SendConfigPrefixesTopic(t *testing.T) {
	local, remote := net.Pipe()
	m := New(local, nil)
	defer m.Close()

	got := make(chan types.TelemetryRecord, 1)
	go func() {
		fr := protocol.NewReader(remote)
		f, err := fr.ReadFrame()
		if err != nil || f.Type != protocol.FrameCfg {
			return
		}
		var rec types.TelemetryRecord
		if json.Unmarshal(f.Payload, &rec) == nil {
			got <- rec
		}
	}()

	if err := m.SendConfig("ui", map[string]any{"frame_rate": 25}); err != nil {
		t.Fatalf("send config: %v", err)
	}

	select {
	case rec := <-got:
		if len(rec.Topic) != 2 || rec.Topic[0] != "config" || rec.Topic[1] != "ui" {
			t.Fatalf("config topic = %v, want config/ui", rec.Topic)
		}
	case <-time.After(time.Second):
		t.Fatal("config record never reached the peer")
	}
}

func TestMonitor_DoneOnPeerClose(t *testing.T) {
	local, remote := net.Pipe()
	m := New(local, nil)
	defer m.Close()

	_ = remote.Close()

	select {
	case <-m.Done():
		if m.Err() == nil {
			t.Fatal("done with nil error after peer close")
		}
	case <-time.After(time.Second):
		t.Fatal("monitor never noticed the closed peer")
	}
}
