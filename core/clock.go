package core

import "time"

// Clock abstracts "now" so date-window and quota checks are deterministic in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func NewClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now().UTC() }

// ClockFunc adapts a func into a Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
