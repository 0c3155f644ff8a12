// cmd/boardtest/main.go
package main

import (
	"context"
	"fmt"
	"time"

	"cwkeyer-go/bus"
	"cwkeyer-go/hal/halcore"
	"cwkeyer-go/hal/platform"
	"cwkeyer-go/keyer"
	"cwkeyer-go/services/paddle"
	"cwkeyer-go/types"
	"cwkeyer-go/x/timex"
)

// ---------- Configuration ----------

const (
	// Key/sidetone blips at the start of each cycle
	blips    = 3
	blipOn   = 150 * time.Millisecond
	blipOff  = 150 * time.Millisecond
	echoTime = 10 * time.Second

	// Cycles: 0 = loop forever
	cyclesToRun = 0
)

var tPaddle = bus.T("keyer", "paddle")

// ---------- Output to USB console + UART console ----------

type out struct {
	port halcore.SerialPort
}

func (o *out) println(a ...any) {
	line := fmt.Sprintln(a...)
	print(line)
	if o.port != nil {
		_, _ = o.port.Write([]byte(line))
	}
}

// ---------- Edge tally ----------

// edgeTally counts press and release edges per paddle.
type edgeTally struct {
	ditDown, ditUp int
	dahDown, dahUp int
}

func (t *edgeTally) add(ev types.PaddleEvent) {
	switch {
	case ev.Side == "dit" && ev.Pressed:
		t.ditDown++
	case ev.Side == "dit":
		t.ditUp++
	case ev.Pressed:
		t.dahDown++
	default:
		t.dahUp++
	}
}

// missing lists the edges never observed.
func (t edgeTally) missing() []string {
	var m []string
	if t.ditDown == 0 {
		m = append(m, "dit press")
	}
	if t.ditUp == 0 {
		m = append(m, "dit release")
	}
	if t.dahDown == 0 {
		m = append(m, "dah press")
	}
	if t.dahUp == 0 {
		m = append(m, "dah release")
	}
	return m
}

// ---------- Helpers ----------

func outputKey(pins halcore.PinFactory, n int, invert bool) halcore.Key {
	gp, ok := pins.ByNumber(n)
	if !ok {
		return nil
	}
	k, err := halcore.NewPinKey(gp, invert)
	if err != nil {
		println("[boardtest] pin", n, "output failed:", err.Error())
		return nil
	}
	return k
}

func blip(key halcore.Key, tone halcore.Sidetone, on time.Duration) {
	key.Set(true)
	tone.Start()
	time.Sleep(on)
	key.Set(false)
	tone.Stop()
}

func flashPassFail(led halcore.Key, pass bool) {
	if led == nil {
		return
	}
	if pass {
		// Double short
		for i := 0; i < 2; i++ {
			blip(led, halcore.NopSidetone{}, 120*time.Millisecond)
			time.Sleep(200 * time.Millisecond)
		}
		return
	}
	// Single long
	blip(led, halcore.NopSidetone{}, 400*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
}

// echo mirrors paddle state onto the key until the window closes.
func echo(sub *bus.Subscription, paddles *keyer.PaddleState, key halcore.Key, tone halcore.Sidetone, window time.Duration, o *out) edgeTally {
	var tally edgeTally
	deadline := time.After(window)
	for {
		select {
		case m := <-sub.Channel():
			ev, ok := m.Payload.(types.PaddleEvent)
			if !ok {
				continue
			}
			tally.add(ev)
			down := !paddles.BothReleased()
			key.Set(down)
			if down {
				tone.Start()
			} else {
				tone.Stop()
			}
			o.println("paddle", ev.Side, "pressed:", ev.Pressed)
		case <-deadline:
			key.Set(false)
			tone.Stop()
			return tally
		}
	}
}

// ---------- Main ----------

func main() {
	time.Sleep(2 * time.Second)
	ctx := context.Background()

	setup := platform.Setup()
	pins := platform.DefaultPinFactory()

	var o out
	if setup.ConsoleTX != types.NoPin {
		if p, err := platform.NewConsolePort(setup.ConsoleTX, setup.ConsoleRX, setup.ConsoleBaud); err == nil {
			o.port = p
		}
	}
	o.println("[boardtest]", setup.Name)

	key := outputKey(pins, setup.KeyPin, setup.InvertKey)
	if key == nil {
		o.println("[FAIL] key output pin", setup.KeyPin, "unavailable; halting")
		select {}
	}
	var led halcore.Key
	if setup.LEDPin != types.NoPin {
		led = outputKey(pins, setup.LEDPin, false)
	}
	tone, err := platform.NewSidetone(setup.SidetonePin, setup.SidetoneHz)
	if err != nil {
		o.println("sidetone unavailable:", err.Error())
		tone = halcore.NopSidetone{}
	}

	b := bus.NewBus(16)
	ui := b.NewConnection("ui")
	sub := ui.Subscribe(tPaddle)
	defer ui.Unsubscribe(sub)

	paddles := keyer.NewPaddleState(timex.Ms(setup.Settings.DebounceMs))
	w := paddle.New(paddles, keyer.NewMonotonicClock(), 32)
	for _, p := range []struct {
		side keyer.PaddleSide
		pin  int
	}{{keyer.SideDit, setup.DitPin}, {keyer.SideDah, setup.DahPin}} {
		gp, ok := pins.ByNumber(p.pin)
		irq, isIRQ := gp.(halcore.IRQPin)
		if !ok || !isIRQ {
			o.println("[FAIL]", p.side.String(), "paddle pin", p.pin, "has no interrupt")
			continue
		}
		if _, err := w.Register(p.side, irq, setup.PaddleActiveHigh); err != nil {
			o.println("[FAIL]", p.side.String(), "paddle:", err.Error())
		}
	}
	w.Start(ctx, b.NewConnection("paddle"))

	cycle := 0
	for {
		cycle++
		o.println("=== boardtest: cycle", cycle, "===")

		for i := 0; i < blips; i++ {
			blip(key, tone, blipOn)
			time.Sleep(blipOff)
		}
		o.println("key blipped; work both paddles for", echoTime.String())

		tally := echo(sub, paddles, key, tone, echoTime, &o)
		miss := tally.missing()
		pass := len(miss) == 0
		if pass {
			o.println("[PASS] both paddles seen; debounced:", w.Debounced(), "drops:", w.ISRDrops())
		} else {
			o.println("[FAIL] not seen:", fmt.Sprintf("%v", miss))
		}
		flashPassFail(led, pass)

		if cyclesToRun > 0 && cycle >= cyclesToRun {
			o.println("completed", cycle, "cycles; halting")
			return
		}
	}
}
