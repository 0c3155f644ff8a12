// Package keyer is the decision core of an iambic CW keyer: paddle state
// tracking, SuperKeyer priority/memory and the element-generating FSM.
package keyer

// Element is one keying element placed on the output queue.
type Element uint8

const (
	Dit Element = iota
	Dah
	CharSpace
)

// Units is the element's length in timing units.
func (e Element) Units() uint32 {
	switch e {
	case Dah, CharSpace:
		return 3
	default:
		return 1
	}
}

// IsKeyed reports whether the element closes the key.
func (e Element) IsKeyed() bool { return e == Dit || e == Dah }

// Opposite swaps Dit and Dah; CharSpace maps to itself.
func (e Element) Opposite() Element {
	switch e {
	case Dit:
		return Dah
	case Dah:
		return Dit
	default:
		return CharSpace
	}
}

func (e Element) String() string {
	switch e {
	case Dit:
		return "dit"
	case Dah:
		return "dah"
	case CharSpace:
		return "space"
	default:
		return "unknown"
	}
}

// PaddleSide identifies one lever of the paddle.
type PaddleSide uint8

const (
	SideDit PaddleSide = iota
	SideDah
)

func (s PaddleSide) Opposite() PaddleSide {
	if s == SideDit {
		return SideDah
	}
	return SideDit
}

func (s PaddleSide) Element() Element {
	if s == SideDit {
		return Dit
	}
	return Dah
}

func (s PaddleSide) String() string {
	if s == SideDit {
		return "dit"
	}
	return "dah"
}

// Mode selects the squeeze policy.
type Mode uint8

const (
	ModeA Mode = iota
	ModeB
	SuperKeyer
)

// HasMemory reports whether a squeeze release can leave an element pending.
func (m Mode) HasMemory() bool { return m == ModeB || m == SuperKeyer }

// HasPriority reports whether squeeze start uses press-order priority.
func (m Mode) HasPriority() bool { return m == SuperKeyer }

func (m Mode) Valid() bool { return m <= SuperKeyer }

func (m Mode) String() string {
	switch m {
	case ModeA:
		return "a"
	case ModeB:
		return "b"
	case SuperKeyer:
		return "super"
	default:
		return "unknown"
	}
}

// ParseMode accepts the short names used on the console and in config files.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "a", "A", "modea", "mode_a":
		return ModeA, true
	case "b", "B", "modeb", "mode_b":
		return ModeB, true
	case "super", "superkeyer", "sk", "SK":
		return SuperKeyer, true
	}
	return 0, false
}
