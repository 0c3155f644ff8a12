//go:build !(rp2040 || rp2350)

package strconvx

import "strconv"

// Signature parity with strconv; delegate straight through on host.

func Itoa(i int) string                                     { return strconv.Itoa(i) }
func Atoi(s string) (int, error)                            { return strconv.Atoi(s) }
func FormatUint(u uint64, base int) string                  { return strconv.FormatUint(u, base) }
func ParseUint(s string, base, bitSize int) (uint64, error) { return strconv.ParseUint(s, base, bitSize) }
