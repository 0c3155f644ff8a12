package sim

import (
	"strings"
	"time"

	"cwkeyer-go/keyer"
	"cwkeyer-go/services/sender"
)

// Mark is one element as the sender produced it.
type Mark struct {
	Element keyer.Element
	Start   time.Duration // when the sender took it off the queue
	Down    time.Duration // key-down time, zero for CharSpace
}

// Options control a run. Zero Step means 1 ms; zero Tail means 20 units.
type Options struct {
	Config    keyer.Config
	Lookahead int
	Step      time.Duration
	Tail      time.Duration
}

// Result is the outcome of one run.
type Result struct {
	Marks     []Mark
	Rejected  int // paddle edges lost to debounce
	Enqueued  int
	MaxQueued int
	End       time.Duration
}

// Run drives PaddleState, FSM and a sender model through p on virtual time.
// Each step applies due paddle events, retires the element in flight if its
// time is up, polls the FSM (every PollInterval) and then lets an idle sender
// start the next element. Like the sender service, the element in flight
// stays queued until it is finished.
func Run(p Pattern, opt Options) Result {
	cfg := opt.Config
	step := opt.Step
	if step <= 0 {
		step = time.Millisecond
	}
	tail := opt.Tail
	if tail <= 0 {
		tail = 20 * cfg.Unit
	}
	p.sort()

	paddles := keyer.NewPaddleState(cfg.Debounce)
	q := keyer.NewQueue(cfg)
	fsm := keyer.NewFSM(cfg)
	gate := keyer.Lookahead{Q: q, Depth: opt.Lookahead}
	poll := cfg.PollInterval()

	var res Result
	var nextPoll, busyUntil time.Duration
	busy := false
	next := 0
	end := p.Duration() + tail

	for now := time.Duration(0); now <= end; now += step {
		at := keyer.At(now)
		for next < len(p.Events) && p.Events[next].At <= now {
			ev := p.Events[next]
			if !paddles.Update(ev.Side, ev.Pressed, at) {
				res.Rejected++
			}
			next++
		}

		if busy && now >= busyUntil {
			q.TryPop()
			busy = false
		}

		if now >= nextPoll {
			res.Enqueued += fsm.Update(paddles, at, gate)
			res.MaxQueued = max(res.MaxQueued, q.Len())
			nextPoll = now + poll
		}

		if !busy {
			if e, ok := q.Peek(); ok {
				down, space := sender.Timing(e, cfg.Unit)
				res.Marks = append(res.Marks, Mark{Element: e, Start: now, Down: down})
				busy, busyUntil = true, now+down+space
				end = max(end, busyUntil)
			}
		}
	}
	res.End = end
	return res
}

// Elements is the sent element sequence.
func (r Result) Elements() []keyer.Element {
	out := make([]keyer.Element, len(r.Marks))
	for i, m := range r.Marks {
		out[i] = m.Element
	}
	return out
}

// Morse renders the sequence as dots, dashes and spaces.
func (r Result) Morse() string {
	var sb strings.Builder
	for _, m := range r.Marks {
		switch m.Element {
		case keyer.Dit:
			sb.WriteByte('.')
		case keyer.Dah:
			sb.WriteByte('-')
		default:
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
