package apiclient

import (
	"math/rand/v2"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds the attempts made for a single request.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxJitter   time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxJitter:   150 * time.Millisecond,
	}
}

// jitteredBackOff waits BaseDelay * 2^attempt plus up to MaxJitter.
type jitteredBackOff struct {
	base      time.Duration
	maxJitter time.Duration
	attempt   int
	jitter    func(n int64) int64
}

var _ backoff.BackOff = (*jitteredBackOff)(nil)

func newJitteredBackOff(policy RetryPolicy) *jitteredBackOff {
	return &jitteredBackOff{
		base:      policy.BaseDelay,
		maxJitter: policy.MaxJitter,
		jitter:    rand.Int64N,
	}
}

func (b *jitteredBackOff) NextBackOff() time.Duration {
	delay := b.base * time.Duration(1<<b.attempt)
	if b.maxJitter > 0 {
		delay += time.Duration(b.jitter(int64(b.maxJitter)))
	}
	b.attempt++

	return delay
}

func (b *jitteredBackOff) Reset() {
	b.attempt = 0
}

func (p RetryPolicy) backOff() backoff.BackOff {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	return backoff.WithMaxRetries(newJitteredBackOff(p), uint64(attempts-1))
}
