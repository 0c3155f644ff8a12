package keyer

import (
	"math"
	"sync/atomic"
	"time"
)

// noEdge marks a side that has never seen an accepted edge; the first edge
// after boot is always accepted.
const noEdge = math.MinInt64

type paddleSide struct {
	pressed  atomic.Bool
	lastEdge atomic.Int64
}

// PaddleState is the debounced record of both paddle levers.
//
// Each side has exactly one writer (its edge handler), so plain atomics are
// enough; the polling task only reads. Reads may race with an update and see
// the previous value, which the next poll picks up.
type PaddleState struct {
	dit      paddleSide
	dah      paddleSide
	debounce atomic.Int64
}

func NewPaddleState(debounce time.Duration) *PaddleState {
	p := &PaddleState{}
	p.dit.lastEdge.Store(noEdge)
	p.dah.lastEdge.Store(noEdge)
	p.debounce.Store(int64(debounce))
	return p
}

func (p *PaddleState) side(s PaddleSide) *paddleSide {
	if s == SideDit {
		return &p.dit
	}
	return &p.dah
}

// Update applies a new level for one side. Within the debounce window since
// the last accepted edge the call is discarded, not deferred, and false is
// returned.
func (p *PaddleState) Update(side PaddleSide, pressed bool, now Instant) bool {
	s := p.side(side)
	last := s.lastEdge.Load()
	if last != noEdge && now.Sub(Instant(last)) < time.Duration(p.debounce.Load()) {
		return false
	}
	s.pressed.Store(pressed)
	s.lastEdge.Store(int64(now))
	return true
}

func (p *PaddleState) Dit() bool { return p.dit.pressed.Load() }
func (p *PaddleState) Dah() bool { return p.dah.pressed.Load() }

func (p *PaddleState) Pressed(side PaddleSide) bool { return p.side(side).pressed.Load() }

func (p *PaddleState) BothPressed() bool  { return p.Dit() && p.Dah() }
func (p *PaddleState) BothReleased() bool { return !p.Dit() && !p.Dah() }

// CurrentSingleElement reports the element for exactly one pressed side.
func (p *PaddleState) CurrentSingleElement() (Element, bool) {
	dit, dah := p.Dit(), p.Dah()
	switch {
	case dit && !dah:
		return Dit, true
	case dah && !dit:
		return Dah, true
	}
	return CharSpace, false
}

// LastEdge returns the time of the last accepted edge on side.
func (p *PaddleState) LastEdge(side PaddleSide) (Instant, bool) {
	v := p.side(side).lastEdge.Load()
	if v == noEdge {
		return 0, false
	}
	return Instant(v), true
}

func (p *PaddleState) Debounce() time.Duration { return time.Duration(p.debounce.Load()) }

// SetDebounce changes the hold-off window for subsequent edges.
func (p *PaddleState) SetDebounce(d time.Duration) { p.debounce.Store(int64(d)) }

// Reset releases both sides and forgets edge history.
func (p *PaddleState) Reset() {
	for _, s := range []*paddleSide{&p.dit, &p.dah} {
		s.pressed.Store(false)
		s.lastEdge.Store(noEdge)
	}
}
