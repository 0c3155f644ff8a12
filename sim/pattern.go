// Package sim runs the keyer core against scripted paddle input on a virtual
// clock and records the resulting key-down timeline.
package sim

import (
	"sort"
	"time"

	"cwkeyer-go/keyer"
)

// Event is one paddle transition at an offset from the start of a pattern.
type Event struct {
	At      time.Duration
	Side    keyer.PaddleSide
	Pressed bool
}

// Pattern is a named, time-ordered list of paddle events.
type Pattern struct {
	Name   string
	Events []Event
}

func press(at time.Duration, s keyer.PaddleSide) Event   { return Event{At: at, Side: s, Pressed: true} }
func release(at time.Duration, s keyer.PaddleSide) Event { return Event{At: at, Side: s, Pressed: false} }

// Dit taps the dit paddle for one unit.
func Dit(unit time.Duration) Pattern {
	return Pattern{Name: "dit", Events: []Event{
		press(0, keyer.SideDit),
		release(unit, keyer.SideDit),
	}}
}

// Dah holds the dah paddle for three units.
func Dah(unit time.Duration) Pattern {
	return Pattern{Name: "dah", Events: []Event{
		press(0, keyer.SideDah),
		release(3*unit, keyer.SideDah),
	}}
}

// Squeeze presses dit then dah 10 ms later and holds both for hold.
func Squeeze(hold time.Duration) Pattern {
	const lag = 10 * time.Millisecond
	return Pattern{Name: "squeeze", Events: []Event{
		press(0, keyer.SideDit),
		press(lag, keyer.SideDah),
		release(hold, keyer.SideDit),
		release(hold+lag, keyer.SideDah),
	}}
}

// LetterA is a dit, one unit of space, then a dah.
func LetterA(unit time.Duration) Pattern {
	return Pattern{Name: "letter_a", Events: []Event{
		press(0, keyer.SideDit),
		release(unit, keyer.SideDit),
		press(2*unit, keyer.SideDah),
		release(5*unit, keyer.SideDah),
	}}
}

// Step places a pattern in a sequence; the next step starts Gap later.
type Step struct {
	Pattern Pattern
	Gap     time.Duration
}

// Sequence concatenates steps into one pattern.
func Sequence(name string, steps ...Step) Pattern {
	out := Pattern{Name: name}
	var offset time.Duration
	for _, s := range steps {
		for _, ev := range s.Pattern.Events {
			ev.At += offset
			out.Events = append(out.Events, ev)
		}
		offset += s.Gap
	}
	out.sort()
	return out
}

func (p *Pattern) sort() {
	sort.SliceStable(p.Events, func(i, j int) bool { return p.Events[i].At < p.Events[j].At })
}

// Duration is the offset of the last event.
func (p Pattern) Duration() time.Duration {
	var d time.Duration
	for _, ev := range p.Events {
		d = max(d, ev.At)
	}
	return d
}

// ByName builds one of the stock patterns for unit.
func ByName(name string, unit time.Duration) (Pattern, bool) {
	switch name {
	case "dit":
		return Dit(unit), true
	case "dah":
		return Dah(unit), true
	case "squeeze":
		return Squeeze(8 * unit), true
	case "letter_a", "a":
		return LetterA(unit), true
	case "dit_dah":
		return Sequence("dit_dah",
			Step{Pattern: Dit(unit), Gap: 2 * unit},
			Step{Pattern: Dah(unit)}), true
	}
	return Pattern{}, false
}

// Names lists the stock patterns accepted by ByName.
func Names() []string { return []string{"dit", "dah", "squeeze", "letter_a", "dit_dah"} }
