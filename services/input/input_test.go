package input

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"displaycode-go/bus"
	"displaycode-go/types"
)

// drive feeds n identical samples at 10ms virtual spacing and returns
// the last emitted action, if any.
func drive(m *machine, level bool, n int, nowMs *uint32) (types.ButtonAction, bool) {
	var action types.ButtonAction
	var fired bool
	for i := 0; i < n; i++ {
		*nowMs += 10
		if a, ok := m.step(level, *nowMs); ok {
			action, fired = a, ok
		}
	}
	return action, fired
}

func TestMachine_PressOnRelease(t *testing.T) {
	m := &machine{longPressMs: 800}
	var now uint32

	if _, fired := drive(m, true, 5, &now); fired {
		t.Fatal("event fired while button still held")
	}
	action, fired := drive(m, false, 5, &now)
	if !fired || action != types.ButtonPress {
		t.Fatalf("got (%q, %v), want press on release", action, fired)
	}
}

func TestMachine_LongPressWhileHeld(t *testing.T) {
	m := &machine{longPressMs: 800}
	var now uint32

	// 100 samples at 10ms spacing is a full second of hold.
	action, fired := drive(m, true, 100, &now)
	if !fired || action != types.ButtonLongPress {
		t.Fatalf("got (%q, %v), want long press while held", action, fired)
	}
	// The release after a long press must stay silent.
	if a, fired := drive(m, false, 10, &now); fired {
		t.Fatalf("release after long press emitted %q", a)
	}
}

func TestMachine_GlitchIsDebouncedAway(t *testing.T) {
	m := &machine{longPressMs: 800}
	var now uint32

	drive(m, false, 3, &now)
	// One sample high then back low: under the debounce count.
	if _, fired := drive(m, true, 1, &now); fired {
		t.Fatal("single-sample glitch emitted an event")
	}
	if a, fired := drive(m, false, 10, &now); fired {
		t.Fatalf("glitch recovery emitted %q", a)
	}
}

func TestMachine_HoldTimeCountsFromDebouncedEdge(t *testing.T) {
	m := &machine{longPressMs: 800}
	var now uint32

	// 50 samples held is 500ms, short of the threshold.
	if a, fired := drive(m, true, 50, &now); fired {
		t.Fatalf("early long press %q at 500ms", a)
	}
	if action, fired := drive(m, true, 40, &now); !fired || action != types.ButtonLongPress {
		t.Fatal("long press missing past the threshold")
	}
}

func TestService_PublishesButtonEvents(t *testing.T) {
	var pressed atomic.Bool
	b := bus.NewBus(8)
	conn := b.NewConnection("test-input")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := NewService(pressed.Load)
	svc.PollMs = 2
	svc.LongPressMs = 50
	if err := svc.Start(ctx, conn); err != nil {
		t.Fatalf("Start: %v", err)
	}
	sub := conn.Subscribe(topicButton)

	pressed.Store(true)
	select {
	case msg := <-sub.Channel():
		ev, ok := msg.Payload.(types.ButtonEvent)
		if !ok {
			t.Fatalf("payload type = %T, want types.ButtonEvent", msg.Payload)
		}
		if ev.Action != types.ButtonLongPress {
			t.Fatalf("action = %q, want long press for a held pin", ev.Action)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for button event")
	}
}
