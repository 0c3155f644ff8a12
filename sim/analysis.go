package sim

import (
	"time"

	"cwkeyer-go/keyer"
)

// Analysis collects keyed lengths and the key-up gaps between keyed elements.
type Analysis struct {
	Unit time.Duration
	Dits []time.Duration
	Dahs []time.Duration
	Gaps []time.Duration
}

func (r Result) Analyze(unit time.Duration) Analysis {
	a := Analysis{Unit: unit}
	var prevEnd time.Duration
	havePrev := false
	for _, m := range r.Marks {
		if !m.Element.IsKeyed() {
			continue
		}
		if m.Element == keyer.Dit {
			a.Dits = append(a.Dits, m.Down)
		} else {
			a.Dahs = append(a.Dahs, m.Down)
		}
		if havePrev {
			a.Gaps = append(a.Gaps, m.Start-prevEnd)
		}
		prevEnd = m.Start + m.Down
		havePrev = true
	}
	return a
}

// errorPct is |mean-want|/want in percent, 0 for no samples.
func errorPct(ds []time.Duration, want time.Duration) float64 {
	if len(ds) == 0 || want <= 0 {
		return 0
	}
	diff := mean(ds) - float64(want)
	if diff < 0 {
		diff = -diff
	}
	return diff / float64(want) * 100
}

func (a Analysis) DitError() float64 { return errorPct(a.Dits, a.Unit) }
func (a Analysis) DahError() float64 { return errorPct(a.Dahs, 3*a.Unit) }

// GapError compares the mean gap to one unit. Gaps that include a character
// space are expected to be longer and raise the figure.
func (a Analysis) GapError() float64 { return errorPct(a.Gaps, a.Unit) }

// DahDitRatio is mean dah length over mean dit length, 0 if either is absent.
func (a Analysis) DahDitRatio() float64 {
	if len(a.Dits) == 0 || len(a.Dahs) == 0 {
		return 0
	}
	return mean(a.Dahs) / mean(a.Dits)
}

func mean(ds []time.Duration) float64 {
	var sum time.Duration
	for _, d := range ds {
		sum += d
	}
	return float64(sum) / float64(len(ds))
}
