package keyer

// PaddleReader is the read side of PaddleState the FSM needs.
type PaddleReader interface {
	Dit() bool
	Dah() bool
}

// Producer is the write end of the element queue.
type Producer interface {
	// TryPush reports false when the element was not accepted.
	TryPush(e Element) bool
}

// FSM turns paddle state into elements.
//
// Queue-full policy: a rejected push never advances the state, so the same
// transition is retried on the next Update. Transitions that push nothing
// always proceed.
type FSM struct {
	state  State
	cfg    Config
	memory PriorityMemory
}

func NewFSM(cfg Config) *FSM {
	return &FSM{state: Idle{}, cfg: cfg}
}

func (f *FSM) State() State   { return f.state }
func (f *FSM) Config() Config { return f.cfg }

// Memory exposes the SuperKeyer controller for inspection.
func (f *FSM) Memory() *PriorityMemory { return &f.memory }

// SetConfig swaps the configuration. Press history and memory are dropped
// when the mode changes or the new mode has no priority logic.
func (f *FSM) SetConfig(cfg Config) {
	if cfg.Mode != f.cfg.Mode || cfg.Mode != SuperKeyer {
		f.memory.ClearHistory()
	}
	f.cfg = cfg
}

// Reset forces Idle and clears all memory.
func (f *FSM) Reset() {
	f.state = Idle{}
	f.memory.ClearHistory()
}

// Update runs one decision step and returns the number of elements enqueued.
// It must be called periodically (Config.PollInterval) by the owner.
func (f *FSM) Update(p PaddleReader, now Instant, q Producer) int {
	dit, dah := p.Dit(), p.Dah()

	if f.cfg.Mode == SuperKeyer {
		f.memory.RecordPress(dit, dah, now)
	}

	switch st := f.state.(type) {
	case Idle:
		return f.idle(dit, dah, q)
	case DitHold:
		return f.hold(Dit, dit, dah, now, q)
	case DahHold:
		return f.hold(Dah, dah, dit, now, q)
	case Squeeze:
		return f.squeeze(st.Last, dit, dah, now, q)
	case MemoryPending:
		return f.memoryPending(st.Element, now, q)
	case CharSpacePending:
		return f.charSpacePending(st.Start, dit, dah, now, q)
	}
	return 0
}

func (f *FSM) idle(dit, dah bool, q Producer) int {
	switch {
	case dit && dah:
		start := f.squeezeStart()
		return f.push(q, start, Squeeze{Last: start})
	case dit:
		return f.push(q, Dit, DitHold{})
	case dah:
		return f.push(q, Dah, DahHold{})
	}
	return 0
}

// hold covers DitHold and DahHold: own is the held side, other the opposite.
func (f *FSM) hold(e Element, own, other bool, now Instant, q Producer) int {
	switch {
	case own && other:
		f.state = Squeeze{Last: e}
		return 0
	case !own:
		f.idleOrCharSpace(now)
		return 0
	}
	if q.TryPush(e) {
		return 1
	}
	return 0
}

func (f *FSM) squeeze(last Element, dit, dah bool, now Instant, q Producer) int {
	switch {
	case dit && dah:
		next := f.squeezeNext(last)
		return f.push(q, next, Squeeze{Last: next})
	case dit:
		return f.push(q, Dit, DitHold{})
	case dah:
		return f.push(q, Dah, DahHold{})
	}
	f.squeezeRelease(last, now)
	return 0
}

func (f *FSM) memoryPending(e Element, now Instant, q Producer) int {
	if !q.TryPush(e) {
		return 0
	}
	f.memory.ClearHistory()
	f.idleOrCharSpace(now)
	return 1
}

func (f *FSM) charSpacePending(start Instant, dit, dah bool, now Instant, q Producer) int {
	done := now.Sub(start) >= f.cfg.CharSpaceDuration()
	if !done {
		// Input arriving inside the gap is swallowed.
		return 0
	}
	if dit || dah {
		return f.idle(dit, dah, q)
	}
	f.state = Idle{}
	return 0
}

func (f *FSM) squeezeStart() Element {
	if f.cfg.Mode == SuperKeyer {
		if e, ok := f.memory.DeterminePriority(); ok {
			return e
		}
	}
	return Dit
}

func (f *FSM) squeezeNext(last Element) Element {
	if f.cfg.Mode == SuperKeyer {
		if e, ok := f.memory.DeterminePriority(); ok {
			return e
		}
	}
	return last.Opposite()
}

func (f *FSM) squeezeRelease(last Element, now Instant) {
	switch f.cfg.Mode {
	case ModeB:
		f.state = MemoryPending{Element: last.Opposite()}
	case SuperKeyer:
		f.memory.HandleSqueezeRelease(last)
		if e, ok := f.memory.TakeMemory(); ok {
			f.state = MemoryPending{Element: e}
			return
		}
		f.idleOrCharSpace(now)
	default:
		f.idleOrCharSpace(now)
	}
}

func (f *FSM) idleOrCharSpace(now Instant) {
	if f.cfg.CharSpaceEnabled {
		f.state = CharSpacePending{Start: now}
		return
	}
	f.state = Idle{}
}

// push enqueues e and moves to next only if the queue accepted it.
func (f *FSM) push(q Producer, e Element, next State) int {
	if !q.TryPush(e) {
		return 0
	}
	f.state = next
	return 1
}
