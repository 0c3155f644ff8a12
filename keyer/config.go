package keyer

import (
	"time"

	"cwkeyer-go/errcode"
	"cwkeyer-go/x/mathx"
)

// Validation bounds.
const (
	MinWPM           = 1
	MaxWPM           = 100
	MaxDebounce      = 100 * time.Millisecond
	MinQueueCapacity = 8
	MaxQueueCapacity = 1024

	// PARIS: one unit in milliseconds is 1200/WPM.
	parisUnitMs = 1200
)

// Config holds the keyer's timing and policy parameters.
type Config struct {
	Mode             Mode
	CharSpaceEnabled bool
	Unit             time.Duration // dit length
	Debounce         time.Duration
	QueueCapacity    int
}

// DefaultConfig is Mode B, character spacing on, 20 WPM, 10 ms debounce.
func DefaultConfig() Config {
	return Config{
		Mode:             ModeB,
		CharSpaceEnabled: true,
		Unit:             60 * time.Millisecond,
		Debounce:         10 * time.Millisecond,
		QueueCapacity:    64,
	}
}

// NewConfig validates the user-facing parameters and derives the unit from wpm.
func NewConfig(mode Mode, charSpace bool, wpm uint32, debounceMs uint32, queueCapacity int) (Config, error) {
	const op = "keyer.NewConfig"
	if !mode.Valid() {
		return Config{}, errcode.New(errcode.InvalidMode, op, "unknown keyer mode")
	}
	if !mathx.Between(wpm, MinWPM, MaxWPM) {
		return Config{}, errcode.New(errcode.InvalidWPM, op, "wpm must be in [1,100]")
	}
	debounce := time.Duration(debounceMs) * time.Millisecond
	if debounce > MaxDebounce {
		return Config{}, errcode.New(errcode.InvalidDebounce, op, "debounce must be <= 100ms")
	}
	if !mathx.Between(queueCapacity, MinQueueCapacity, MaxQueueCapacity) {
		return Config{}, errcode.New(errcode.InvalidQueueCapacity, op, "queue capacity must be in [8,1024]")
	}
	return Config{
		Mode:             mode,
		CharSpaceEnabled: charSpace,
		Unit:             UnitForWPM(wpm),
		Debounce:         debounce,
		QueueCapacity:    queueCapacity,
	}, nil
}

// UnitForWPM returns the PARIS dit length, truncated to whole milliseconds.
func UnitForWPM(wpm uint32) time.Duration {
	if wpm == 0 {
		wpm = 1
	}
	return time.Duration(parisUnitMs/wpm) * time.Millisecond
}

// Validate checks a Config that was assembled field by field.
func (c Config) Validate() error {
	const op = "keyer.Config"
	switch {
	case !c.Mode.Valid():
		return errcode.New(errcode.InvalidMode, op, "unknown keyer mode")
	case c.Unit <= 0:
		return errcode.New(errcode.InvalidWPM, op, "unit must be positive")
	case !mathx.Between(c.WPM(), MinWPM, MaxWPM):
		return errcode.New(errcode.InvalidWPM, op, "wpm must be in [1,100]")
	case c.Debounce < 0 || c.Debounce > MaxDebounce:
		return errcode.New(errcode.InvalidDebounce, op, "debounce must be <= 100ms")
	case !mathx.Between(c.QueueCapacity, MinQueueCapacity, MaxQueueCapacity):
		return errcode.New(errcode.InvalidQueueCapacity, op, "queue capacity must be in [8,1024]")
	}
	return nil
}

// WPM derives words per minute from the unit, never less than 1.
func (c Config) WPM() uint32 {
	ms := c.Unit.Milliseconds()
	if ms <= 0 {
		return parisUnitMs
	}
	return max(uint32(parisUnitMs/ms), 1)
}

func (c Config) InterElementSpace() time.Duration { return c.Unit }
func (c Config) CharSpaceDuration() time.Duration { return 3 * c.Unit }
func (c Config) WordSpaceDuration() time.Duration { return 7 * c.Unit }

// PollInterval is the recommended FSM cadence (unit/4).
func (c Config) PollInterval() time.Duration {
	return max(c.Unit/4, time.Millisecond)
}
