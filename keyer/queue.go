package keyer

import "cwkeyer-go/x/shmring"

// Queue is the bounded SPSC element queue between the FSM and the sender.
type Queue = shmring.Ring[Element]

// NewQueue sizes a queue from cfg.QueueCapacity.
func NewQueue(cfg Config) *Queue { return shmring.New[Element](cfg.QueueCapacity) }

// DepthQueue is a Producer that can report how many elements are waiting.
type DepthQueue interface {
	Producer
	Len() int
}

// Lookahead refuses pushes while Depth or more elements are already queued.
// Combined with the FSM's retry-on-full policy this paces element generation
// to the sender instead of filling the queue at poll rate. Depth <= 0
// disables the gate.
type Lookahead struct {
	Q     DepthQueue
	Depth int
}

func (l Lookahead) TryPush(e Element) bool {
	if l.Depth > 0 && l.Q.Len() >= l.Depth {
		return false
	}
	return l.Q.TryPush(e)
}
