//go:build !rp2040 && !rp2350

package platform

import (
	"context"
	"io"
	"sync"
	"time"

	"cwkeyer-go/hal/halcore"
)

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements IRQPin for host builds and tests. Set runs the IRQ
// handler synchronously when the edge matches.
type FakePin struct {
	mu      sync.RWMutex
	number  int
	level   bool
	modeOut bool
	pull    halcore.Pull
	irqEdge halcore.Edge
	irqFunc func()
}

func NewFakePin(n int) *FakePin { return &FakePin{number: n} }

// ConfigureInput sets the idle level implied by the pull.
func (p *FakePin) ConfigureInput(pull halcore.Pull) error {
	p.mu.Lock()
	p.modeOut = false
	p.pull = pull
	p.level = pull == halcore.PullUp
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	edge := edgeFrom(p.level, level)
	p.level = level
	irq := p.irqFunc
	want := irqWanted(p.irqEdge, edge)
	p.mu.Unlock()
	if want && irq != nil {
		irq()
	}
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

func (p *FakePin) Toggle()     { p.Set(!p.Get()) }
func (p *FakePin) Number() int { return p.number }

func (p *FakePin) IsOutput() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modeOut
}

func (p *FakePin) SetIRQ(edge halcore.Edge, handler func()) error {
	p.mu.Lock()
	p.irqEdge = edge
	p.irqFunc = handler
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ClearIRQ() error {
	p.mu.Lock()
	p.irqEdge = halcore.EdgeNone
	p.irqFunc = nil
	p.mu.Unlock()
	return nil
}

func edgeFrom(old, new bool) halcore.Edge {
	switch {
	case !old && new:
		return halcore.EdgeRising
	case old && !new:
		return halcore.EdgeFalling
	default:
		return halcore.EdgeNone
	}
}

func irqWanted(cfg, seen halcore.Edge) bool {
	if seen == halcore.EdgeNone {
		return false
	}
	return cfg == halcore.EdgeBoth || cfg == seen
}

// HostPinFactory returns stable *FakePin instances per number.
type HostPinFactory struct {
	mu   sync.Mutex
	pins map[int]*FakePin
}

func (f *HostPinFactory) ByNumber(n int) (halcore.GPIOPin, bool) {
	if n < 0 {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pins == nil {
		f.pins = make(map[int]*FakePin)
	}
	p, ok := f.pins[n]
	if !ok {
		p = NewFakePin(n)
		f.pins[n] = p
	}
	return p, true
}

// Get exposes the underlying *FakePin so tests can drive paddle edges.
func (f *HostPinFactory) Get(n int) (*FakePin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pins[n]
	return p, ok
}

func DefaultPinFactory() halcore.PinFactory { return &HostPinFactory{} }

// ----------------------------- Sidetone (host) -------------------------------

// ToneEvent is one Start or Stop seen by a RecordingSidetone.
type ToneEvent struct {
	On bool
	At time.Time
}

// RecordingSidetone logs every Start/Stop.
type RecordingSidetone struct {
	mu     sync.Mutex
	Hz     uint32
	on     bool
	events []ToneEvent
}

func (s *RecordingSidetone) Start() { s.set(true) }
func (s *RecordingSidetone) Stop()  { s.set(false) }

func (s *RecordingSidetone) set(on bool) {
	s.mu.Lock()
	s.on = on
	s.events = append(s.events, ToneEvent{On: on, At: time.Now()})
	s.mu.Unlock()
}

func (s *RecordingSidetone) On() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.on
}

func (s *RecordingSidetone) Events() []ToneEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ToneEvent(nil), s.events...)
}

// NewSidetone returns a recording tone; pin is ignored on host.
func NewSidetone(pin int, hz uint32) (halcore.Sidetone, error) {
	if pin < 0 {
		return halcore.NopSidetone{}, nil
	}
	return &RecordingSidetone{Hz: hz}, nil
}

// ----------------------------- Console (host) --------------------------------

// PipeSerial is an in-memory SerialPort. Tests write operator input with
// Feed and read replies with Output.
type PipeSerial struct {
	in      chan []byte
	pending []byte

	mu  sync.Mutex
	out []byte
}

func NewPipeSerial() *PipeSerial { return &PipeSerial{in: make(chan []byte, 16)} }

// Feed queues bytes for RecvSomeContext. It blocks when 16 chunks are waiting.
func (s *PipeSerial) Feed(p []byte) { s.in <- append([]byte(nil), p...) }

// Close makes further reads return io.EOF once queued input is drained.
func (s *PipeSerial) Close() { close(s.in) }

// RecvSomeContext has a single reader.
func (s *PipeSerial) RecvSomeContext(ctx context.Context, p []byte) (int, error) {
	if len(s.pending) == 0 {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case b, ok := <-s.in:
			if !ok {
				return 0, io.EOF
			}
			s.pending = b
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *PipeSerial) Write(p []byte) (int, error) {
	s.mu.Lock()
	s.out = append(s.out, p...)
	s.mu.Unlock()
	return len(p), nil
}

func (s *PipeSerial) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.out)
}

// NewConsolePort has no UART on host; the returned pipe is never fed.
func NewConsolePort(tx, rx int, baud uint32) (halcore.SerialPort, error) {
	return NewPipeSerial(), nil
}
