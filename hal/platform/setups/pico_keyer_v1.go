//go:build pico && keyer_v1

package setups

import "cwkeyer-go/types"

// keyer_v1 PCB: opto-isolated key output (active low), 700 Hz sidetone.
var Selected = types.KeyerSetup{
	Name:        "pico_keyer_v1",
	DitPin:      6,
	DahPin:      7,
	KeyPin:      14,
	InvertKey:   true,
	SidetonePin: 20,
	LEDPin:      25,
	ConsoleTX:   0,
	ConsoleRX:   1,
	ConsoleBaud: 115200,
	SidetoneHz:  700,

	Settings: types.KeyerSettings{
		Mode:          "b",
		WPM:           22,
		DebounceMs:    8,
		CharSpace:     true,
		QueueCapacity: 64,
		Lookahead:     1,
	},
	HeartbeatIntervalS: 30,
}
