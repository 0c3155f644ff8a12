// Package evaluator runs the keyer FSM on a fixed cadence.
package evaluator

import (
	"context"
	"time"

	"cwkeyer-go/bus"
	"cwkeyer-go/errcode"
	"cwkeyer-go/keyer"
	"cwkeyer-go/types"
	"cwkeyer-go/x/timex"
)

var (
	topicConfigKeyer = bus.T("config", "keyer")
	topicControl     = bus.T("keyer", "control", "+")
	topicState       = bus.T("keyer", "state")
)

// Control verbs accepted on keyer/control/<verb>.
const (
	CtrlReset  = "reset"
	CtrlStatus = "status"
)

// Service owns the FSM. It is the only producer on the element queue.
type Service struct {
	fsm     *keyer.FSM
	paddles *keyer.PaddleState
	queue   keyer.DepthQueue
	clock   keyer.Clock
	gate    keyer.Lookahead

	enqueued uint32
}

func New(cfg keyer.Config, lookahead int, paddles *keyer.PaddleState, q keyer.DepthQueue, clock keyer.Clock) *Service {
	return &Service{
		fsm:     keyer.NewFSM(cfg),
		paddles: paddles,
		queue:   q,
		clock:   clock,
		gate:    keyer.Lookahead{Q: q, Depth: lookahead},
	}
}

// Step runs one FSM update at now and returns how many elements it queued.
func (s *Service) Step(now keyer.Instant) int {
	n := s.fsm.Update(s.paddles, now, s.gate)
	s.enqueued += uint32(n)
	return n
}

func (s *Service) FSM() *keyer.FSM { return s.fsm }

// Apply installs new settings. The queue was sized at boot, so a different
// capacity is rejected; everything else takes effect on the next poll.
func (s *Service) Apply(set types.KeyerSettings) (keyer.Config, error) {
	cfg, err := set.Config()
	if err != nil {
		return s.fsm.Config(), err
	}
	if cur := s.fsm.Config().QueueCapacity; cfg.QueueCapacity != cur {
		return s.fsm.Config(), errcode.New(errcode.InvalidQueueCapacity, "evaluator.Apply",
			"queue capacity is fixed at boot")
	}
	s.fsm.SetConfig(cfg)
	s.paddles.SetDebounce(cfg.Debounce)
	s.gate.Depth = set.Lookahead
	return cfg, nil
}

// Reset returns the FSM to Idle and forgets SuperKeyer memory.
func (s *Service) Reset() { s.fsm.Reset() }

func (s *Service) Status() types.KeyerStatus {
	cfg := s.fsm.Config()
	return types.KeyerStatus{
		Mode:      cfg.Mode.String(),
		WPM:       cfg.WPM(),
		State:     s.fsm.State().String(),
		Dit:       s.paddles.Dit(),
		Dah:       s.paddles.Dah(),
		Enqueued:  s.enqueued,
		QueueLen:  s.queue.Len(),
		Lookahead: s.gate.Depth,
		TS:        timex.NowMs(),
	}
}

func (s *Service) publishStatus(conn *bus.Connection) {
	conn.Publish(conn.NewMessage(topicState, s.Status(), true))
}

func (s *Service) run(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigKeyer)
	defer conn.Unsubscribe(cfgSub)
	ctrlSub := conn.Subscribe(topicControl)
	defer conn.Unsubscribe(ctrlSub)

	tick := time.NewTicker(s.fsm.Config().PollInterval())
	defer tick.Stop()

	s.publishStatus(conn)
	println("[evaluator] started mode:", s.fsm.Config().Mode.String(), "wpm:", s.fsm.Config().WPM())

	for {
		select {
		case <-ctx.Done():
			println("[evaluator] stopping")
			return

		case <-tick.C:
			prev := s.fsm.State()
			n := s.Step(s.clock.Now())
			if n > 0 || s.fsm.State() != prev {
				s.publishStatus(conn)
			}

		case msg := <-cfgSub.Channel():
			set, ok := msg.Payload.(types.KeyerSettings)
			if !ok {
				println("[evaluator] ignoring config payload of unexpected type")
				continue
			}
			cfg, err := s.Apply(set)
			if err != nil {
				println("[evaluator] config rejected:", err.Error())
				continue
			}
			tick.Reset(cfg.PollInterval())
			println("[evaluator] config applied mode:", cfg.Mode.String(), "wpm:", cfg.WPM())
			s.publishStatus(conn)

		case msg := <-ctrlSub.Channel():
			s.handleControl(conn, msg)
		}
	}
}

func (s *Service) handleControl(conn *bus.Connection, msg *bus.Message) {
	verb, _ := msg.Topic.At(msg.Topic.Len() - 1).(string)
	switch verb {
	case CtrlReset:
		s.Reset()
		println("[evaluator] reset")
		s.publishStatus(conn)
		_ = conn.Reply(msg, errcode.OK, false)
	case CtrlStatus:
		_ = conn.Reply(msg, s.Status(), false)
	default:
		_ = conn.Reply(msg, errcode.UnknownCommand, false)
	}
}

// Start launches the polling loop.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go s.run(ctx, conn)
}
