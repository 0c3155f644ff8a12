package main

import (
	"context"
	"time"

	"cwkeyer-go/bus"
	"cwkeyer-go/errcode"
	"cwkeyer-go/hal/halcore"
	"cwkeyer-go/hal/platform"
	"cwkeyer-go/keyer"
	"cwkeyer-go/services/config"
	"cwkeyer-go/services/console"
	"cwkeyer-go/services/evaluator"
	"cwkeyer-go/services/heartbeat"
	"cwkeyer-go/services/paddle"
	"cwkeyer-go/services/sender"
	"cwkeyer-go/types"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot")

	setup := platform.Setup()
	if _, err := start(context.Background(), setup, platform.DefaultPinFactory()); err != nil {
		println("[main] start failed:", err.Error())
	}
	select {}
}

// keyerApp holds the long-lived pieces shared between services.
type keyerApp struct {
	bus       *bus.Bus
	paddles   *keyer.PaddleState
	queue     *keyer.Queue
	worker    *paddle.Worker
	evaluator *evaluator.Service
	sender    *sender.Service
}

func irqPin(pins halcore.PinFactory, n int) (halcore.IRQPin, error) {
	gp, ok := pins.ByNumber(n)
	if !ok {
		return nil, errcode.New(errcode.UnknownPin, "main", "no such pin")
	}
	p, ok := gp.(halcore.IRQPin)
	if !ok {
		return nil, errcode.New(errcode.Unsupported, "main", "pin has no interrupt")
	}
	return p, nil
}

func outputKey(pins halcore.PinFactory, n int, invert bool) (*halcore.PinKey, error) {
	gp, ok := pins.ByNumber(n)
	if !ok {
		return nil, errcode.New(errcode.UnknownPin, "main", "no such pin")
	}
	return halcore.NewPinKey(gp, invert)
}

func start(ctx context.Context, setup types.KeyerSetup, pins halcore.PinFactory) (*keyerApp, error) {
	b := bus.NewBus(8)

	cfgSvc := config.NewConfigService(setup)
	set, cfg := cfgSvc.Boot()
	clock := keyer.NewMonotonicClock()

	app := &keyerApp{
		bus:     b,
		paddles: keyer.NewPaddleState(cfg.Debounce),
		queue:   keyer.NewQueue(cfg),
	}

	// Outputs first so the key is up before paddles can fire.
	key, err := outputKey(pins, setup.KeyPin, setup.InvertKey)
	if err != nil {
		return nil, err
	}
	var out halcore.Key = key
	if setup.LEDPin != types.NoPin {
		led, err := outputKey(pins, setup.LEDPin, false)
		if err != nil {
			return nil, err
		}
		out = halcore.MultiKey{key, led}
	}
	tone, err := platform.NewSidetone(setup.SidetonePin, setup.SidetoneHz)
	if err != nil {
		return nil, err
	}

	app.worker = paddle.New(app.paddles, clock, 32)
	for _, p := range []struct {
		side keyer.PaddleSide
		pin  int
	}{{keyer.SideDit, setup.DitPin}, {keyer.SideDah, setup.DahPin}} {
		pin, err := irqPin(pins, p.pin)
		if err != nil {
			return nil, err
		}
		if _, err := app.worker.Register(p.side, pin, setup.PaddleActiveHigh); err != nil {
			return nil, err
		}
	}

	cfgSvc.Start(ctx, b.NewConnection("config"))
	app.worker.Start(ctx, b.NewConnection("paddle"))

	app.evaluator = evaluator.New(cfg, set.Lookahead, app.paddles, app.queue, clock)
	app.evaluator.Start(ctx, b.NewConnection("evaluator"))

	app.sender = sender.New(app.queue, out, tone, cfg.Unit)
	app.sender.Start(ctx, b.NewConnection("sender"))

	hb := &heartbeat.Service{}
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	if setup.ConsoleTX != types.NoPin {
		port, err := platform.NewConsolePort(setup.ConsoleTX, setup.ConsoleRX, setup.ConsoleBaud)
		if err != nil {
			println("[main] console unavailable:", err.Error())
		} else {
			console.New(port, set).Start(ctx, b.NewConnection("console"))
		}
	}

	println("[main] keyer up on", setup.Name, "mode:", cfg.Mode.String(), "wpm:", cfg.WPM())
	return app, nil
}
