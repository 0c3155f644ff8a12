package keyer

import (
	"testing"
	"time"
)

func ms(n int) Instant { return At(time.Duration(n) * time.Millisecond) }

func TestPaddleDebounceHoldOff(t *testing.T) {
	for _, side := range []PaddleSide{SideDit, SideDah} {
		for _, state := range []bool{true, false} {
			p := NewPaddleState(10 * time.Millisecond)
			// Establish a known level first, then an edge to state.
			p.Update(side, !state, ms(0))
			if !p.Update(side, state, ms(50)) {
				t.Fatalf("%v: edge after window rejected", side)
			}
			for _, dt := range []int{0, 1, 5, 9} {
				if p.Update(side, !state, ms(50+dt)) {
					t.Fatalf("%v: edge %dms after last accepted", side, dt)
				}
				if p.Pressed(side) != state {
					t.Fatalf("%v: level changed inside debounce window", side)
				}
			}
			if !p.Update(side, !state, ms(60)) || p.Pressed(side) == state {
				t.Fatalf("%v: edge at window boundary rejected", side)
			}
		}
	}
}

func TestPaddleDebounceIsPerSide(t *testing.T) {
	p := NewPaddleState(10 * time.Millisecond)
	p.Update(SideDit, true, ms(100))
	if !p.Update(SideDah, true, ms(101)) {
		t.Fatal("dah edge blocked by dit debounce")
	}
	if !p.BothPressed() {
		t.Fatal("expected squeeze")
	}
}

func TestPaddleFirstEdgeAlwaysAccepted(t *testing.T) {
	p := NewPaddleState(10 * time.Millisecond)
	if _, ok := p.LastEdge(SideDit); ok {
		t.Fatal("fresh paddle reports an edge")
	}
	if !p.Update(SideDit, true, ms(1)) {
		t.Fatal("first edge inside window after boot rejected")
	}
	if at, ok := p.LastEdge(SideDit); !ok || at != ms(1) {
		t.Fatalf("LastEdge = %v, %v", at, ok)
	}
}

func TestPaddleReadAccessors(t *testing.T) {
	cases := []struct {
		dit, dah       bool
		both, released bool
		single         Element
		singleOK       bool
	}{
		{false, false, false, true, CharSpace, false},
		{true, false, false, false, Dit, true},
		{false, true, false, false, Dah, true},
		{true, true, true, false, CharSpace, false},
	}
	for _, c := range cases {
		p := NewPaddleState(0)
		p.Update(SideDit, c.dit, ms(0))
		p.Update(SideDah, c.dah, ms(0))
		if p.Dit() != c.dit || p.Dah() != c.dah {
			t.Fatalf("levels = %v/%v, want %v/%v", p.Dit(), p.Dah(), c.dit, c.dah)
		}
		if p.BothPressed() != c.both || p.BothReleased() != c.released {
			t.Fatalf("dit=%v dah=%v: both=%v released=%v", c.dit, c.dah, p.BothPressed(), p.BothReleased())
		}
		e, ok := p.CurrentSingleElement()
		if ok != c.singleOK || (ok && e != c.single) {
			t.Fatalf("dit=%v dah=%v: single = %v, %v", c.dit, c.dah, e, ok)
		}
	}
}

func TestPaddleSetDebounceAndReset(t *testing.T) {
	p := NewPaddleState(50 * time.Millisecond)
	p.Update(SideDah, true, ms(0))
	if p.Update(SideDah, false, ms(20)) {
		t.Fatal("edge inside 50ms window accepted")
	}
	p.SetDebounce(5 * time.Millisecond)
	if p.Debounce() != 5*time.Millisecond {
		t.Fatalf("Debounce = %v", p.Debounce())
	}
	if !p.Update(SideDah, false, ms(20)) {
		t.Fatal("edge outside shortened window rejected")
	}
	p.Update(SideDit, true, ms(30))
	p.Reset()
	if !p.BothReleased() {
		t.Fatal("Reset left a paddle pressed")
	}
	if _, ok := p.LastEdge(SideDit); ok {
		t.Fatal("Reset kept edge history")
	}
}
