// Package paddle connects the paddle GPIO interrupts to keyer.PaddleState.
package paddle

import (
	"context"
	"sync"
	"sync/atomic"

	"cwkeyer-go/bus"
	"cwkeyer-go/hal/halcore"
	"cwkeyer-go/keyer"
	"cwkeyer-go/types"
	"cwkeyer-go/x/timex"
)

var topicPaddle = bus.T("keyer", "paddle")

// Event is an accepted paddle edge.
type Event struct {
	Side    keyer.PaddleSide
	Pressed bool
	At      keyer.Instant
}

// Worker owns the IRQ handlers for both paddles. The handler is the only
// writer of its side of PaddleState; it then posts a diagnostic event without
// blocking.
type Worker struct {
	state *keyer.PaddleState
	clock keyer.Clock

	// Written by ISR; MUST NOT block the ISR.
	isrQ    chan Event
	stopped chan struct{}

	mu      sync.Mutex
	cancels map[keyer.PaddleSide]func()

	drops     atomic.Uint32 // diagnostic queue full
	debounced atomic.Uint32 // edges rejected inside the debounce window
}

func New(state *keyer.PaddleState, clock keyer.Clock, isrBuf int) *Worker {
	if isrBuf <= 0 {
		isrBuf = 32
	}
	return &Worker{
		state:   state,
		clock:   clock,
		isrQ:    make(chan Event, isrBuf),
		stopped: make(chan struct{}),
		cancels: map[keyer.PaddleSide]func(){},
	}
}

// Register configures pin as side's paddle and installs the edge handler.
// Paddles that close to ground (activeHigh false) get the pull-up.
func (w *Worker) Register(side keyer.PaddleSide, pin halcore.IRQPin, activeHigh bool) (func(), error) {
	pull := halcore.PullUp
	if activeHigh {
		pull = halcore.PullDown
	}
	w.mu.Lock()
	old := w.cancels[side]
	w.mu.Unlock()
	if old != nil {
		old()
	}
	if err := pin.ConfigureInput(pull); err != nil {
		return nil, err
	}

	// A paddle already held at boot is recorded straight away.
	if pin.Get() == activeHigh {
		w.state.Update(side, true, w.clock.Now())
	}

	handler := func() {
		pressed := pin.Get() == activeHigh
		now := w.clock.Now()
		if !w.state.Update(side, pressed, now) {
			w.debounced.Add(1)
			return
		}
		select {
		case w.isrQ <- Event{Side: side, Pressed: pressed, At: now}:
		default:
			w.drops.Add(1)
		}
	}
	if err := pin.SetIRQ(halcore.EdgeBoth, handler); err != nil {
		return nil, err
	}

	cancel := func() {
		w.mu.Lock()
		if _, ok := w.cancels[side]; ok {
			_ = pin.ClearIRQ()
			delete(w.cancels, side)
		}
		w.mu.Unlock()
	}
	w.mu.Lock()
	w.cancels[side] = cancel
	w.mu.Unlock()
	return cancel, nil
}

// Start drains diagnostic events and publishes them on keyer/paddle.
// conn may be nil, in which case events are only consumed.
func (w *Worker) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		defer close(w.stopped)
		for {
			select {
			case <-ctx.Done():
				w.clearAll()
				return
			case ev := <-w.isrQ:
				if conn == nil {
					continue
				}
				conn.Publish(conn.NewMessage(topicPaddle, types.PaddleEvent{
					Side:    ev.Side.String(),
					Pressed: ev.Pressed,
					TS:      timex.NowMs(),
				}, false))
			}
		}
	}()
}

func (w *Worker) clearAll() {
	w.mu.Lock()
	cancels := make([]func(), 0, len(w.cancels))
	for _, c := range w.cancels {
		cancels = append(cancels, c)
	}
	w.mu.Unlock()
	for _, c := range cancels {
		c()
	}
}

// Done is closed once the worker goroutine has exited.
func (w *Worker) Done() <-chan struct{} { return w.stopped }

func (w *Worker) ISRDrops() uint32  { return w.drops.Load() }
func (w *Worker) Debounced() uint32 { return w.debounced.Load() }
