package service

import "time"

// Clock supplies the current time. Every expiry and lockout decision reads it,
// so tests can pin or advance time deterministically.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// NewClock returns the wall clock.
func NewClock() Clock { return realClock{} }
