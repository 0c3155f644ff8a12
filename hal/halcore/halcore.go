// Package halcore holds the hardware contracts the keyer services depend on.
package halcore

import "context"

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Toggle()
	Number() int
}

// Edge selection for IRQ.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

func EdgeToString(e Edge) string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// IRQPin extends GPIOPin with interrupts. The handler runs in interrupt
// context on MCU builds: no allocation, no blocking.
type IRQPin interface {
	GPIOPin
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}

// PinFactory supplies GPIO pins by board GP number.
type PinFactory interface {
	ByNumber(n int) (GPIOPin, bool)
}

// ---- Outputs ----

// Key is the transmitter keying line. Only the sender calls it.
type Key interface {
	Set(down bool)
	Get() bool
}

// Toggle flips k and returns the new level.
func Toggle(k Key) bool {
	v := !k.Get()
	k.Set(v)
	return v
}

// Sidetone is the local monitor tone.
type Sidetone interface {
	Start()
	Stop()
}

// NopSidetone is used when the board has no sidetone pin.
type NopSidetone struct{}

func (NopSidetone) Start() {}
func (NopSidetone) Stop()  {}

// ---- Serial ----

// SerialPort is the operator console transport.
type SerialPort interface {
	Write(p []byte) (int, error)
	RecvSomeContext(ctx context.Context, p []byte) (int, error)
}
