package keyer

import "time"

// Instant is a timestamp in nanoseconds on a monotonic time base. It shares
// units with Config.Unit and Config.Debounce.
type Instant int64

// At builds an Instant from an offset; handy for fixed-time tests.
func At(d time.Duration) Instant { return Instant(d) }

func (t Instant) Add(d time.Duration) Instant { return t + Instant(d) }

// Sub returns t-u.
func (t Instant) Sub(u Instant) time.Duration { return time.Duration(t - u) }

func (t Instant) Millis() int64 { return int64(t) / int64(time.Millisecond) }

// Clock supplies the current Instant.
type Clock interface {
	Now() Instant
}

// MonotonicClock measures from the moment it was created.
type MonotonicClock struct{ start time.Time }

func NewMonotonicClock() MonotonicClock { return MonotonicClock{start: time.Now()} }

func (c MonotonicClock) Now() Instant { return Instant(time.Since(c.start)) }
