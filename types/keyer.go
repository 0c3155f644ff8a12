package types

import (
	"cwkeyer-go/errcode"
	"cwkeyer-go/keyer"
	"cwkeyer-go/x/strx"
)

// ---- Keyer settings (retained on config/keyer) ----

// KeyerSettings is the user-facing form of keyer.Config carried on the bus.
type KeyerSettings struct {
	Mode          string `json:"mode" toml:"mode"` // "a", "b" or "super"
	WPM           uint32 `json:"wpm" toml:"wpm"`
	DebounceMs    uint32 `json:"debounce_ms" toml:"debounce_ms"`
	CharSpace     bool   `json:"char_space" toml:"char_space"`
	QueueCapacity int    `json:"queue_capacity" toml:"queue_capacity"`
	// Lookahead is how many elements, counting the one being sent, may be
	// queued before the evaluator stops generating; 0 disables the gate.
	Lookahead int `json:"lookahead" toml:"lookahead"`
}

const DefaultLookahead = 1

// DefaultKeyerSettings mirrors keyer.DefaultConfig.
func DefaultKeyerSettings() KeyerSettings {
	return SettingsFromConfig(keyer.DefaultConfig(), DefaultLookahead)
}

// Config validates s into a keyer.Config. An empty mode means Mode B.
func (s KeyerSettings) Config() (keyer.Config, error) {
	mode, ok := keyer.ParseMode(strx.Coalesce(s.Mode, keyer.ModeB.String()))
	if !ok {
		return keyer.Config{}, errcode.New(errcode.InvalidMode, "types.KeyerSettings", "unknown mode "+s.Mode)
	}
	return keyer.NewConfig(mode, s.CharSpace, s.WPM, s.DebounceMs, s.QueueCapacity)
}

// SettingsFromConfig is the inverse of KeyerSettings.Config.
func SettingsFromConfig(c keyer.Config, lookahead int) KeyerSettings {
	return KeyerSettings{
		Mode:          c.Mode.String(),
		WPM:           c.WPM(),
		DebounceMs:    uint32(c.Debounce.Milliseconds()),
		CharSpace:     c.CharSpaceEnabled,
		QueueCapacity: c.QueueCapacity,
		Lookahead:     lookahead,
	}
}

// ---- Board setup ----

// NoPin marks an optional pin as absent.
const NoPin = -1

// KeyerSetup is a board's pin map plus its boot-time settings.
type KeyerSetup struct {
	Name string

	DitPin      int
	DahPin      int
	KeyPin      int
	SidetonePin int // NoPin disables the sidetone
	LEDPin      int // NoPin disables the activity LED

	// UART0 operator console; NoPin on ConsoleTX disables it.
	ConsoleTX   int
	ConsoleRX   int
	ConsoleBaud uint32

	// Paddles close to ground with the pull-up enabled unless PaddleActiveHigh.
	PaddleActiveHigh bool
	InvertKey        bool
	SidetoneHz       uint32

	Settings           KeyerSettings
	HeartbeatIntervalS uint32
}

// ---- Heartbeat (retained on config/heartbeat) ----

type HeartbeatConfig struct {
	IntervalS uint32 `json:"interval"`
}

// ---- Runtime telemetry ----

// KeyerStatus is retained on keyer/state.
type KeyerStatus struct {
	Mode      string `json:"mode"`
	WPM       uint32 `json:"wpm"`
	State     string `json:"state"`
	Dit       bool   `json:"dit"`
	Dah       bool   `json:"dah"`
	Enqueued  uint32 `json:"enqueued"`
	QueueLen  int    `json:"queue_len"`
	Lookahead int    `json:"lookahead"`
	TS        int64  `json:"ts_ms"`
}

// ElementEvent is published on keyer/element after the sender finishes one.
type ElementEvent struct {
	Element string `json:"element"`
	DownMs  uint32 `json:"down_ms"`
	SpaceMs uint32 `json:"space_ms"`
	Seq     uint32 `json:"seq"`
	TS      int64  `json:"ts_ms"`
}

// PaddleEvent is published on keyer/paddle for accepted edges.
type PaddleEvent struct {
	Side    string `json:"side"`
	Pressed bool   `json:"pressed"`
	TS      int64  `json:"ts_ms"`
}
