// Package clock injects "now" so due dates and coupon expiry are
// testable without the wall clock.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// Real reads the wall clock in UTC.
type Real struct{}

func (Real) Now() time.Time { return time.Now().UTC() }

// Func adapts a plain function, handy for fixing time in tests.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }
