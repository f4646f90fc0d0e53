package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cascade-protocol/splits-go/pkg/retry/backoff"
)

func TestRetry_HappyPath(t *testing.T) {
	attempts, err := Retry(func() error { return nil }, Limit(5))
	assert.NoError(t, err)
	assert.Equal(t, uint(1), attempts)
}

func TestRetry_Limit(t *testing.T) {
	expected := errors.New("err")

	attempts, err := Retry(func() error { return expected }, Limit(3))
	assert.Equal(t, expected, err)
	assert.Equal(t, uint(3), attempts)
}

func TestRetrier(t *testing.T) {
	retriableErr := errors.New("retriable")
	r := NewRetrier(Limit(5), RetriableErrors(retriableErr))

	// Happy path always goes through
	attempts, err := r.Retry(func() error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, uint(1), attempts)

	// Test ordering does not matter, by triggering 1 filter, then the other.
	attempts, err = r.Retry(func() error { return errors.New("unknown") })
	assert.Error(t, err)
	assert.Equal(t, uint(1), attempts)

	attempts, err = r.Retry(func() error { return retriableErr })
	assert.EqualError(t, retriableErr, err.Error())
	assert.Equal(t, uint(5), attempts)
}

func TestRetry_NonRetriableErrors(t *testing.T) {
	fatal := errors.New("fatal")

	var calls int
	attempts, err := Retry(
		func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return fatal
		},
		Limit(10),
		NonRetriableErrors(fatal),
	)

	assert.Equal(t, fatal, err)
	assert.Equal(t, uint(3), attempts)
}

func TestRetry_Backoff(t *testing.T) {
	start := time.Now()

	attempts, err := Retry(
		func() error { return errors.New("err") },
		Limit(3),
		Backoff(backoff.Constant(50*time.Millisecond), 50*time.Millisecond),
	)

	assert.Error(t, err)
	assert.Equal(t, uint(3), attempts)
	assert.True(t, time.Since(start) >= 100*time.Millisecond)
}
