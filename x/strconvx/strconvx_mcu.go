//go:build rp2040 || rp2350

package strconvx

// Allocation-aware integer helpers with strconv signatures.
// Supported bases: 2..36.

type parseError struct{}

func (parseError) Error() string { return "invalid syntax" }

type rangeError struct{}

func (rangeError) Error() string { return "value out of range" }

func Itoa(i int) string {
	if i < 0 {
		return "-" + formatUint(uint64(-int64(i)), 10)
	}
	return formatUint(uint64(i), 10)
}

func Atoi(s string) (int, error) {
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	u, err := ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if neg {
		return -int(u), nil
	}
	return int(u), nil
}

func FormatUint(u uint64, base int) string {
	if base < 2 || base > 36 {
		base = 10
	}
	return formatUint(u, base)
}

func formatUint(u uint64, base int) string {
	if u == 0 {
		return "0"
	}
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	var buf [64]byte
	i := len(buf)
	b := uint64(base)
	for u > 0 {
		i--
		buf[i] = digits[u%b]
		u /= b
	}
	return string(buf[i:])
}

// bitSize: 0 maps to 64.
func ParseUint(s string, base, bitSize int) (uint64, error) {
	if base < 2 || base > 36 || len(s) == 0 {
		return 0, parseError{}
	}
	if bitSize <= 0 || bitSize > 64 {
		bitSize = 64
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d byte
		switch {
		case '0' <= c && c <= '9':
			d = c - '0'
		case 'a' <= c && c <= 'z':
			d = c - 'a' + 10
		case 'A' <= c && c <= 'Z':
			d = c - 'A' + 10
		default:
			return 0, parseError{}
		}
		if int(d) >= base {
			return 0, parseError{}
		}
		next := v*uint64(base) + uint64(d)
		if next < v {
			return 0, rangeError{}
		}
		v = next
	}
	if bitSize < 64 && v >= 1<<uint(bitSize) {
		return 0, rangeError{}
	}
	return v, nil
}
