//go:build rp2040 || rp2350

package platform

import (
	"context"
	"machine"

	"github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/tone"

	"cwkeyer-go/errcode"
	"cwkeyer-go/hal/halcore"
	"cwkeyer-go/x/timex"
)

// ---- GPIO (includes IRQ support) ----

// DefaultPinFactory maps GP numbers directly to machine.Pin(n).
func DefaultPinFactory() halcore.PinFactory { return rp2PinFactory{} }

type rp2PinFactory struct{}

func (rp2PinFactory) ByNumber(n int) (halcore.GPIOPin, bool) {
	if n < 0 || n > 28 {
		return nil, false
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, true
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureInput(pull halcore.Pull) error {
	mode := machine.PinInput
	switch pull {
	case halcore.PullUp:
		mode = machine.PinInputPullup
	case halcore.PullDown:
		mode = machine.PinInputPulldown
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }
func (r *rp2Pin) Toggle()        { r.p.Set(!r.p.Get()) }
func (r *rp2Pin) Number() int    { return r.n }

func (r *rp2Pin) SetIRQ(edge halcore.Edge, handler func()) error {
	return r.p.SetInterrupt(toPinChange(edge), func(machine.Pin) { handler() })
}

func (r *rp2Pin) ClearIRQ() error {
	var zero machine.PinChange
	return r.p.SetInterrupt(zero, nil)
}

func toPinChange(e halcore.Edge) machine.PinChange {
	switch e {
	case halcore.EdgeRising:
		return machine.PinRising
	case halcore.EdgeFalling:
		return machine.PinFalling
	case halcore.EdgeBoth:
		return machine.PinToggle
	}
	var zero machine.PinChange
	return zero
}

// ---- Sidetone ----

// pwmForPin returns the PWM slice that drives pin (GP0..GP28).
func pwmForPin(pin int) tone.PWM {
	switch (pin >> 1) & 7 {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

type rp2Sidetone struct {
	spk    tone.Speaker
	period uint64
}

func (s *rp2Sidetone) Start() { s.spk.SetPeriod(s.period) }
func (s *rp2Sidetone) Stop()  { s.spk.Stop() }

// NewSidetone drives a square wave at hz on pin through the pin's PWM slice.
func NewSidetone(pin int, hz uint32) (halcore.Sidetone, error) {
	if pin < 0 {
		return halcore.NopSidetone{}, nil
	}
	if pin > 28 {
		return nil, errcode.New(errcode.UnknownPin, "platform.NewSidetone", "sidetone pin out of range")
	}
	spk, err := tone.New(pwmForPin(pin), machine.Pin(pin))
	if err != nil {
		return nil, err
	}
	spk.Stop()
	return &rp2Sidetone{spk: spk, period: timex.PeriodFromHz(hz)}, nil
}

// ---- Console ----

type rp2SerialPort struct{ u *uartx.UART }

func (p *rp2SerialPort) Write(b []byte) (int, error) { return p.u.Write(b) }
func (p *rp2SerialPort) RecvSomeContext(ctx context.Context, buf []byte) (int, error) {
	return p.u.RecvSomeContext(ctx, buf)
}

// NewConsolePort configures UART0 on tx/rx. Zero baud uses the uartx default.
func NewConsolePort(tx, rx int, baud uint32) (halcore.SerialPort, error) {
	hw := uartx.UART0
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       machine.Pin(tx),
		RX:       machine.Pin(rx),
	}); err != nil {
		return nil, err
	}
	return &rp2SerialPort{u: hw}, nil
}
