//go:build pico && sk_proto

package setups

import "cwkeyer-go/types"

// SuperKeyer prototype: no sidetone, console disabled.
var Selected = types.KeyerSetup{
	Name:        "pico_sk_proto",
	DitPin:      2,
	DahPin:      3,
	KeyPin:      15,
	SidetonePin: types.NoPin,
	LEDPin:      25,
	ConsoleTX:   types.NoPin,
	ConsoleRX:   types.NoPin,

	Settings: types.KeyerSettings{
		Mode:          "super",
		WPM:           25,
		DebounceMs:    5,
		CharSpace:     true,
		QueueCapacity: 32,
		Lookahead:     1,
	},
	HeartbeatIntervalS: 60,
}
