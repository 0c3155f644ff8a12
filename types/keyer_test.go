package types

import (
	"errors"
	"testing"
	"time"

	"cwkeyer-go/errcode"
	"cwkeyer-go/keyer"
)

func TestKeyerSettingsConfig(t *testing.T) {
	cases := []struct {
		name string
		in   KeyerSettings
		code errcode.Code
		mode keyer.Mode
	}{
		{"defaults", DefaultKeyerSettings(), "", keyer.ModeB},
		{"empty mode is b", KeyerSettings{WPM: 20, QueueCapacity: 64}, "", keyer.ModeB},
		{"super", KeyerSettings{Mode: "super", WPM: 25, DebounceMs: 5, QueueCapacity: 16}, "", keyer.SuperKeyer},
		{"bad mode", KeyerSettings{Mode: "c", WPM: 20, QueueCapacity: 64}, errcode.InvalidMode, 0},
		{"bad wpm", KeyerSettings{Mode: "a", WPM: 0, QueueCapacity: 64}, errcode.InvalidWPM, 0},
		{"bad capacity", KeyerSettings{Mode: "a", WPM: 20, QueueCapacity: 4}, errcode.InvalidQueueCapacity, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := tc.in.Config()
			if tc.code != "" {
				if !errors.Is(err, tc.code) {
					t.Fatalf("err = %v, want %s", err, tc.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Mode != tc.mode {
				t.Fatalf("mode = %v, want %v", cfg.Mode, tc.mode)
			}
		})
	}
}

func TestSettingsRoundTripThroughConfig(t *testing.T) {
	cfg, err := keyer.NewConfig(keyer.ModeA, false, 30, 7, 32)
	if err != nil {
		t.Fatal(err)
	}
	s := SettingsFromConfig(cfg, 2)
	if s.Mode != "a" || s.WPM != 30 || s.DebounceMs != 7 || s.CharSpace || s.QueueCapacity != 32 || s.Lookahead != 2 {
		t.Fatalf("settings = %+v", s)
	}
	back, err := s.Config()
	if err != nil || back != cfg {
		t.Fatalf("back = %+v, %v; want %+v", back, err, cfg)
	}
	if back.Unit != 40*time.Millisecond {
		t.Fatalf("unit = %v", back.Unit)
	}
}
