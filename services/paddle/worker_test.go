package paddle

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"cwkeyer-go/bus"
	"cwkeyer-go/hal/halcore"
	"cwkeyer-go/hal/platform"
	"cwkeyer-go/keyer"
	"cwkeyer-go/types"
)

type manualClock struct{ now atomic.Int64 }

func (c *manualClock) Now() keyer.Instant { return keyer.Instant(c.now.Load()) }
func (c *manualClock) set(ms int)         { c.now.Store(int64(time.Duration(ms) * time.Millisecond)) }

func setup(t *testing.T, activeHigh bool) (*Worker, *keyer.PaddleState, *manualClock, *platform.FakePin, *platform.FakePin) {
	t.Helper()
	state := keyer.NewPaddleState(10 * time.Millisecond)
	clk := &manualClock{}
	w := New(state, clk, 8)
	dit, dah := platform.NewFakePin(2), platform.NewFakePin(3)
	if _, err := w.Register(keyer.SideDit, dit, activeHigh); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Register(keyer.SideDah, dah, activeHigh); err != nil {
		t.Fatal(err)
	}
	return w, state, clk, dit, dah
}

func TestActiveLowPaddlesUpdateState(t *testing.T) {
	_, state, clk, dit, dah := setup(t, false)
	if state.Dit() || state.Dah() {
		t.Fatal("paddles pressed at rest")
	}

	clk.set(100)
	dit.Set(false) // close to ground
	if !state.Dit() || state.Dah() {
		t.Fatalf("dit=%v dah=%v after dit press", state.Dit(), state.Dah())
	}
	clk.set(105)
	dah.Set(false)
	if !state.BothPressed() {
		t.Fatal("squeeze not seen")
	}
	clk.set(150)
	dit.Set(true)
	if state.Dit() || !state.Dah() {
		t.Fatal("dit release not seen")
	}
}

func TestBounceCountedAndIgnored(t *testing.T) {
	w, state, clk, dit, _ := setup(t, true)

	clk.set(0)
	dit.Set(true)
	clk.set(3)
	dit.Set(false) // bounce
	if !state.Dit() {
		t.Fatal("bounce released the paddle")
	}
	if w.Debounced() != 1 {
		t.Fatalf("debounced = %d, want 1", w.Debounced())
	}
}

// heldPin keeps its level across ConfigureInput, like a paddle held at boot.
type heldPin struct{ *platform.FakePin }

func (heldPin) ConfigureInput(halcore.Pull) error { return nil }

func TestHeldAtRegistration(t *testing.T) {
	state := keyer.NewPaddleState(0)
	w := New(state, &manualClock{}, 4)
	pin := heldPin{platform.NewFakePin(3)}
	_ = pin.ConfigureOutput(true)
	if _, err := w.Register(keyer.SideDah, pin, true); err != nil {
		t.Fatal(err)
	}
	if !state.Dah() {
		t.Fatal("paddle held at registration not recorded")
	}
}

func TestEventsPublishedAndDropsCounted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := bus.NewBus(8)
	conn := b.NewConnection("test")
	sub := conn.Subscribe(bus.T("keyer", "paddle"))

	state := keyer.NewPaddleState(0)
	clk := &manualClock{}
	w := New(state, clk, 1)
	pin := platform.NewFakePin(2)
	if _, err := w.Register(keyer.SideDit, pin, true); err != nil {
		t.Fatal(err)
	}

	// Worker not started yet: the second edge overflows the ISR queue.
	clk.set(1)
	pin.Set(true)
	clk.set(2)
	pin.Set(false)
	if w.ISRDrops() != 1 {
		t.Fatalf("drops = %d, want 1", w.ISRDrops())
	}

	w.Start(ctx, conn)
	select {
	case m := <-sub.Channel():
		ev := m.Payload.(types.PaddleEvent)
		if ev.Side != "dit" || !ev.Pressed {
			t.Fatalf("event = %+v", ev)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for paddle event")
	}

	cancel()
	select {
	case <-w.Done():
	case <-time.After(200 * time.Millisecond):
		t.Fatal("worker did not stop")
	}
	pin.Set(true)
	if state.Dit() {
		t.Fatal("handler still installed after stop")
	}
}
