// Package backoff provides delay strategies for use with the retry package.
package backoff

import (
	"math"
	"time"
)

// Strategy returns the delay that should be induced before the n'th attempt,
// where attempts start at 1.
type Strategy func(attempts uint) time.Duration

// Constant returns a strategy with a fixed delay between attempts.
func Constant(delay time.Duration) Strategy {
	return func(attempts uint) time.Duration {
		return delay
	}
}

// Linear returns a strategy whose delay grows linearly with each attempt.
func Linear(delay time.Duration) Strategy {
	return func(attempts uint) time.Duration {
		return time.Duration(attempts) * delay
	}
}

// BinaryExponential returns a strategy whose delay doubles with each attempt,
// starting at base.
func BinaryExponential(base time.Duration) Strategy {
	return func(attempts uint) time.Duration {
		return time.Duration(float64(base) * math.Pow(2, float64(attempts-1)))
	}
}
