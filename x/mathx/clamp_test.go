package mathx

import (
	"testing"
	"time"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 1, 10); got != 5 {
		t.Fatalf("Clamp inside = %d", got)
	}
	if got := Clamp(0, 1, 10); got != 1 {
		t.Fatalf("Clamp low = %d", got)
	}
	if got := Clamp(11, 10, 1); got != 10 {
		t.Fatalf("Clamp swapped bounds = %d", got)
	}
	if got := Clamp(3*time.Second, time.Second, 2*time.Second); got != 2*time.Second {
		t.Fatalf("Clamp duration = %v", got)
	}
}

func TestBetweenInclusive(t *testing.T) {
	for _, c := range []struct {
		v    uint32
		want bool
	}{{0, false}, {1, true}, {100, true}, {101, false}} {
		if got := Between(c.v, 1, 100); got != c.want {
			t.Fatalf("Between(%d,1,100) = %v, want %v", c.v, got, c.want)
		}
	}
}
