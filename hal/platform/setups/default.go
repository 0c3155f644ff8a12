// Package setups holds the typed board setups. Exactly one is selected per
// build by tags; Default applies when no board tag is given.
package setups

import "cwkeyer-go/types"

// Default matches a bare Pico on a breadboard: paddles to ground on GP2/GP3,
// key transistor on GP15, piezo on GP16, console on the default UART0 pins.
func Default() types.KeyerSetup {
	return types.KeyerSetup{
		Name:        "pico_default",
		DitPin:      2,
		DahPin:      3,
		KeyPin:      15,
		SidetonePin: 16,
		LEDPin:      25,
		ConsoleTX:   0,
		ConsoleRX:   1,
		ConsoleBaud: 115200,
		SidetoneHz:  600,

		Settings:           types.DefaultKeyerSettings(),
		HeartbeatIntervalS: 10,
	}
}
