package wifi

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"displaycode-go/bus"
	"displaycode-go/types"
)

// fakeManager fails the first failures attempts, then connects.
type fakeManager struct {
	failures    int32
	attempts    atomic.Int32
	disconnects atomic.Int32
}

func (f *fakeManager) Connect(ctx context.Context, ssid, password string) (string, error) {
	n := f.attempts.Add(1)
	if n <= f.failures {
		return "", errors.New("association failed")
	}
	if ssid == "" {
		return "", errors.New("empty ssid")
	}
	return "10.0.0.42", nil
}

func (f *fakeManager) Disconnect() error {
	f.disconnects.Add(1)
	return nil
}

func startWifi(t *testing.T, mgr Manager) (*bus.Connection, *bus.Subscription) {
	t.Helper()
	b := bus.NewBus(16)
	conn := b.NewConnection("test-wifi")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	svc := NewService(mgr)
	if err := svc.Start(ctx, conn); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return conn, conn.Subscribe(topicWifiState)
}

func expectState(t *testing.T, sub *bus.Subscription, want types.WifiState) types.WifiEvent {
	t.Helper()
	select {
	case msg := <-sub.Channel():
		ev, ok := msg.Payload.(types.WifiEvent)
		if !ok {
			t.Fatalf("payload type = %T, want types.WifiEvent", msg.Payload)
		}
		if ev.State != want {
			t.Fatalf("state = %q (%q), want %q", ev.State, ev.Error, want)
		}
		if !msg.Retained {
			t.Error("wifi state message not retained")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
	return types.WifiEvent{}
}

func pushConfig(conn *bus.Connection, m map[string]any) {
	conn.Publish(&bus.Message{Topic: topicConfigWifi, Payload: m})
}

func TestWifi_ConnectsOnConfig(t *testing.T) {
	conn, sub := startWifi(t, &fakeManager{})

	expectState(t, sub, types.WifiDisconnected)
	pushConfig(conn, map[string]any{"ssid": "lab", "password": "hunter2"})

	expectState(t, sub, types.WifiConnecting)
	ev := expectState(t, sub, types.WifiConnected)
	if ev.IP != "10.0.0.42" {
		t.Fatalf("ip = %q, want 10.0.0.42", ev.IP)
	}
}

func TestWifi_RetriesAfterFailure(t *testing.T) {
	mgr := &fakeManager{failures: 1}
	conn, sub := startWifi(t, mgr)

	expectState(t, sub, types.WifiDisconnected)
	pushConfig(conn, map[string]any{"ssid": "lab", "retry_ms": float64(20)})

	expectState(t, sub, types.WifiConnecting)
	expectState(t, sub, types.WifiError)
	expectState(t, sub, types.WifiConnecting)
	expectState(t, sub, types.WifiConnected)
}

func TestWifi_StopsAfterMaxRetries(t *testing.T) {
	mgr := &fakeManager{failures: 100}
	conn, sub := startWifi(t, mgr)

	expectState(t, sub, types.WifiDisconnected)
	pushConfig(conn, map[string]any{
		"ssid": "lab", "retry_ms": float64(10), "max_retries": float64(2),
	})

	expectState(t, sub, types.WifiConnecting)
	expectState(t, sub, types.WifiError)
	expectState(t, sub, types.WifiConnecting)
	expectState(t, sub, types.WifiError)
	ev := expectState(t, sub, types.WifiDisconnected)
	if ev.Error != "retries exhausted" {
		t.Fatalf("error = %q, want retries exhausted", ev.Error)
	}

	// No further attempts without new config.
	before := mgr.attempts.Load()
	time.Sleep(60 * time.Millisecond)
	if mgr.attempts.Load() != before {
		t.Fatal("supervisor kept retrying past the limit")
	}
}

func TestWifi_ReconnectsOnNewConfig(t *testing.T) {
	mgr := &fakeManager{}
	conn, sub := startWifi(t, mgr)

	expectState(t, sub, types.WifiDisconnected)
	pushConfig(conn, map[string]any{"ssid": "lab"})
	expectState(t, sub, types.WifiConnecting)
	expectState(t, sub, types.WifiConnected)

	pushConfig(conn, map[string]any{"ssid": "lab-5g"})
	expectState(t, sub, types.WifiConnecting)
	expectState(t, sub, types.WifiConnected)
	if mgr.disconnects.Load() != 1 {
		t.Fatalf("disconnects = %d, want 1 before reconnect", mgr.disconnects.Load())
	}
}
