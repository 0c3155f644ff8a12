package keyer

// State is the FSM's current state. The set of implementations is closed:
// Idle, DitHold, DahHold, Squeeze, MemoryPending and CharSpacePending.
type State interface {
	isState()
	String() string
}

// Idle: no paddle input, nothing pending.
type Idle struct{}

// DitHold: the Dit paddle alone is held.
type DitHold struct{}

// DahHold: the Dah paddle alone is held.
type DahHold struct{}

// Squeeze: both paddles held; Last is the element most recently enqueued.
type Squeeze struct{ Last Element }

// MemoryPending: Element goes out on the next poll.
type MemoryPending struct{ Element Element }

// CharSpacePending: waiting for the character gap that began at Start.
type CharSpacePending struct{ Start Instant }

func (Idle) isState()             {}
func (DitHold) isState()          {}
func (DahHold) isState()          {}
func (Squeeze) isState()          {}
func (MemoryPending) isState()    {}
func (CharSpacePending) isState() {}

func (Idle) String() string             { return "idle" }
func (DitHold) String() string          { return "dit_hold" }
func (DahHold) String() string          { return "dah_hold" }
func (Squeeze) String() string          { return "squeeze" }
func (MemoryPending) String() string    { return "memory_pending" }
func (CharSpacePending) String() string { return "char_space_pending" }

// HasPaddleInput reports whether s is driven by a held paddle.
func HasPaddleInput(s State) bool {
	switch s.(type) {
	case DitHold, DahHold, Squeeze:
		return true
	}
	return false
}

// CurrentElement is the element s is sending or about to send.
func CurrentElement(s State) (Element, bool) {
	switch st := s.(type) {
	case DitHold:
		return Dit, true
	case DahHold:
		return Dah, true
	case Squeeze:
		return st.Last, true
	case MemoryPending:
		return st.Element, true
	}
	return CharSpace, false
}
