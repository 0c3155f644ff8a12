package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"cwkeyer-go/keyer"
	"cwkeyer-go/sim"
	"cwkeyer-go/types"
	"cwkeyer-go/x/timex"
)

// File is the TOML layout accepted by --config. Unset keyer fields fall back
// to the flag defaults.
type File struct {
	Name  string      `toml:"name"`
	Keyer KeyerFields `toml:"keyer"`
	// Events form a paddle script: at_ms offsets, side "dit" or "dah".
	Events []EventLine `toml:"event"`
}

type KeyerFields struct {
	Mode      *string `toml:"mode"`
	WPM       *uint32 `toml:"wpm"`
	Debounce  *uint32 `toml:"debounce_ms"`
	CharSpace *bool   `toml:"char_space"`
	Lookahead *int    `toml:"lookahead"`
}

type EventLine struct {
	AtMs    int64  `toml:"at_ms"`
	Side    string `toml:"side"`
	Pressed bool   `toml:"pressed"`
}

// LoadFile decodes path. An empty path yields an empty File.
func LoadFile(path string) (File, error) {
	if path == "" {
		return File{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		return File{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return File{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return f, nil
}

// Pattern converts the [[event]] script.
func (f File) Pattern() (sim.Pattern, error) {
	p := sim.Pattern{Name: f.Name}
	if p.Name == "" {
		p.Name = "script"
	}
	for i, e := range f.Events {
		var side keyer.PaddleSide
		switch e.Side {
		case "dit":
			side = keyer.SideDit
		case "dah":
			side = keyer.SideDah
		default:
			return sim.Pattern{}, fmt.Errorf("event %d: unknown side %q", i, e.Side)
		}
		if e.AtMs < 0 {
			return sim.Pattern{}, fmt.Errorf("event %d: negative at_ms", i)
		}
		p.Events = append(p.Events, sim.Event{
			At:      timex.Ms(e.AtMs),
			Side:    side,
			Pressed: e.Pressed,
		})
	}
	return p, nil
}

// resolveSettings layers flags over file values over flag defaults: an
// explicitly set flag always wins.
func resolveSettings(cmd *cobra.Command, f File) types.KeyerSettings {
	applyConfig(cmd, "mode", &flagMode, f.Keyer.Mode)
	applyConfig(cmd, "wpm", &flagWPM, f.Keyer.WPM)
	applyConfig(cmd, "debounce", &flagDebounce, f.Keyer.Debounce)
	applyConfig(cmd, "charspace", &flagCharSpace, f.Keyer.CharSpace)
	applyConfig(cmd, "lookahead", &flagLookahead, f.Keyer.Lookahead)

	set := types.DefaultKeyerSettings()
	set.Mode = flagMode
	set.WPM = flagWPM
	set.DebounceMs = flagDebounce
	set.CharSpace = flagCharSpace
	set.Lookahead = flagLookahead
	return set
}

func applyConfig[T any](cmd *cobra.Command, name string, dst *T, v *T) {
	if v == nil || cmd.Flags().Changed(name) {
		return
	}
	*dst = *v
}
