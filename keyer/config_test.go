package keyer

import (
	"errors"
	"testing"
	"time"

	"cwkeyer-go/errcode"
)

func TestNewConfigValidation(t *testing.T) {
	cases := []struct {
		name     string
		mode     Mode
		wpm      uint32
		debounce uint32
		capacity int
		want     errcode.Code
	}{
		{"wpm zero", ModeB, 0, 10, 64, errcode.InvalidWPM},
		{"wpm too high", ModeB, 101, 10, 64, errcode.InvalidWPM},
		{"debounce too long", ModeB, 20, 101, 64, errcode.InvalidDebounce},
		{"queue too small", ModeB, 20, 10, 7, errcode.InvalidQueueCapacity},
		{"queue too large", ModeB, 20, 10, 1025, errcode.InvalidQueueCapacity},
		{"unknown mode", Mode(9), 20, 10, 64, errcode.InvalidMode},
		{"lower bounds", ModeA, 1, 0, 8, errcode.OK},
		{"upper bounds", SuperKeyer, 100, 100, 1024, errcode.OK},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewConfig(c.mode, true, c.wpm, c.debounce, c.capacity)
			if got := errcode.Of(err); got != c.want {
				t.Fatalf("code = %q, want %q (err=%v)", got, c.want, err)
			}
			if c.want != errcode.OK && !errors.Is(err, c.want) {
				t.Fatalf("errors.Is(%v, %q) = false", err, c.want)
			}
		})
	}
}

func TestNewConfigDerivesUnit(t *testing.T) {
	cfg, err := NewConfig(ModeB, true, 20, 10, 64)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Unit != 60*time.Millisecond {
		t.Fatalf("unit = %v, want 60ms", cfg.Unit)
	}
	if cfg.WPM() != 20 {
		t.Fatalf("WPM = %d, want 20", cfg.WPM())
	}
	if cfg.Debounce != 10*time.Millisecond {
		t.Fatalf("debounce = %v", cfg.Debounce)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestTimingRatios(t *testing.T) {
	cfg := DefaultConfig()
	u := cfg.Unit
	if cfg.InterElementSpace() != u || cfg.CharSpaceDuration() != 3*u || cfg.WordSpaceDuration() != 7*u {
		t.Fatalf("ratios broken: %v %v %v", cfg.InterElementSpace(), cfg.CharSpaceDuration(), cfg.WordSpaceDuration())
	}
	if time.Duration(Dah.Units())*u != 3*time.Duration(Dit.Units())*u {
		t.Fatal("dah is not three dits")
	}
	if cfg.PollInterval() != 15*time.Millisecond {
		t.Fatalf("poll interval = %v", cfg.PollInterval())
	}
}

func TestValidateFieldByField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Unit = 0
	if errcode.Of(cfg.Validate()) != errcode.InvalidWPM {
		t.Fatalf("zero unit accepted")
	}
	cfg = DefaultConfig()
	cfg.Debounce = 150 * time.Millisecond
	if errcode.Of(cfg.Validate()) != errcode.InvalidDebounce {
		t.Fatalf("long debounce accepted")
	}
	cfg = DefaultConfig()
	cfg.QueueCapacity = 2048
	if errcode.Of(cfg.Validate()) != errcode.InvalidQueueCapacity {
		t.Fatalf("huge queue accepted")
	}
}

func TestElementAndModeHelpers(t *testing.T) {
	if Dit.Opposite() != Dah || Dah.Opposite() != Dit || CharSpace.Opposite() != CharSpace {
		t.Fatal("Opposite mapping broken")
	}
	if !Dit.IsKeyed() || !Dah.IsKeyed() || CharSpace.IsKeyed() {
		t.Fatal("IsKeyed mapping broken")
	}
	if Dit.Units() != 1 || Dah.Units() != 3 || CharSpace.Units() != 3 {
		t.Fatal("Units mapping broken")
	}
	if SideDit.Element() != Dit || SideDah.Element() != Dah || SideDit.Opposite() != SideDah {
		t.Fatal("PaddleSide mapping broken")
	}
	if ModeA.HasMemory() || !ModeB.HasMemory() || !SuperKeyer.HasMemory() {
		t.Fatal("HasMemory mapping broken")
	}
	if ModeA.HasPriority() || ModeB.HasPriority() || !SuperKeyer.HasPriority() {
		t.Fatal("HasPriority mapping broken")
	}
	for _, s := range []string{"a", "b", "super"} {
		m, ok := ParseMode(s)
		if !ok || m.String() != s {
			t.Fatalf("ParseMode(%q) = %v, %v", s, m, ok)
		}
	}
	if _, ok := ParseMode("c"); ok {
		t.Fatal("ParseMode accepted c")
	}
}
