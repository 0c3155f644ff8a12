// Package sender turns queued elements into timed key and sidetone output.
package sender

import (
	"context"
	"time"

	"cwkeyer-go/bus"
	"cwkeyer-go/hal/halcore"
	"cwkeyer-go/keyer"
	"cwkeyer-go/types"
	"cwkeyer-go/x/timex"
)

var (
	topicConfigKeyer = bus.T("config", "keyer")
	topicElement     = bus.T("keyer", "element")
	topicReset       = bus.T("keyer", "control", "reset")
)

// Timing is the key-down time of e followed by the key-up time after it.
// Every element is followed by one unit; CharSpace has no key-down part.
func Timing(e keyer.Element, unit time.Duration) (down, space time.Duration) {
	if !e.IsKeyed() {
		return 0, unit
	}
	return time.Duration(e.Units()) * unit, unit
}

// Source is the consumer end of the element queue. The element being sent
// stays queued until it is finished, so queue depth counts it.
type Source interface {
	Peek() (keyer.Element, bool)
	TryPop() (keyer.Element, bool)
	Readable() <-chan struct{}
	Drain() int
}

// Service is the only consumer of the element queue and the only caller of
// the key output.
type Service struct {
	src  Source
	key  halcore.Key
	tone halcore.Sidetone
	unit time.Duration
	seq  uint32
}

func New(src Source, key halcore.Key, tone halcore.Sidetone, unit time.Duration) *Service {
	if tone == nil {
		tone = halcore.NopSidetone{}
	}
	return &Service{src: src, key: key, tone: tone, unit: unit}
}

func (s *Service) Unit() time.Duration { return s.unit }

func (s *Service) SetUnit(u time.Duration) {
	if u > 0 {
		s.unit = u
	}
}

func (s *Service) keyDown(on bool) {
	s.key.Set(on)
	if on {
		s.tone.Start()
	} else {
		s.tone.Stop()
	}
}

// Send keys one element and waits out its trailing space. On cancellation the
// key is released before returning.
func (s *Service) Send(ctx context.Context, e keyer.Element) (types.ElementEvent, error) {
	down, space := Timing(e, s.unit)
	if down > 0 {
		s.keyDown(true)
		err := sleep(ctx, down)
		s.keyDown(false)
		if err != nil {
			return types.ElementEvent{}, err
		}
	}
	if err := sleep(ctx, space); err != nil {
		return types.ElementEvent{}, err
	}
	s.seq++
	return types.ElementEvent{
		Element: e.String(),
		DownMs:  uint32(down.Milliseconds()),
		SpaceMs: uint32(space.Milliseconds()),
		Seq:     s.seq,
		TS:      timex.NowMs(),
	}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Service) run(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigKeyer)
	defer conn.Unsubscribe(cfgSub)
	resetSub := conn.Subscribe(topicReset)
	defer conn.Unsubscribe(resetSub)
	defer s.keyDown(false)

	// Fallback poll in case a readable edge is missed.
	poll := time.NewTicker(max(s.unit/8, time.Millisecond))
	defer poll.Stop()

	println("[sender] started unit ms:", s.unit.Milliseconds())
	for {
		select {
		case msg := <-cfgSub.Channel():
			s.applyConfig(msg, poll)
		case <-resetSub.Channel():
			s.flush()
		default:
		}

		if e, ok := s.src.Peek(); ok {
			ev, err := s.Send(ctx, e)
			if err != nil {
				println("[sender] stopping")
				return
			}
			s.src.TryPop()
			conn.Publish(conn.NewMessage(topicElement, ev, false))
			continue
		}

		select {
		case <-ctx.Done():
			println("[sender] stopping")
			return
		case <-s.src.Readable():
		case <-poll.C:
		case msg := <-cfgSub.Channel():
			s.applyConfig(msg, poll)
		case <-resetSub.Channel():
			s.flush()
		}
	}
}

// flush drops elements queued before a reset. Only called between elements.
func (s *Service) flush() {
	if n := s.src.Drain(); n > 0 {
		println("[sender] reset dropped:", n)
	}
}

// applyConfig follows the unit; invalid settings are left to the evaluator
// to report.
func (s *Service) applyConfig(msg *bus.Message, poll *time.Ticker) {
	set, ok := msg.Payload.(types.KeyerSettings)
	if !ok {
		return
	}
	cfg, err := set.Config()
	if err != nil {
		return
	}
	s.SetUnit(cfg.Unit)
	poll.Reset(max(s.unit/8, time.Millisecond))
}

// Start launches the drain loop.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go s.run(ctx, conn)
}
