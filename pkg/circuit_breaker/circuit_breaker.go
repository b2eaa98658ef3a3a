package circuit_breaker

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

type Status uint8

const (
	Closed   Status = 1
	Open     Status = 2
	HalfOpen Status = 3
)

type Config struct {
	// RecordLength is the size of the sliding window of call outcomes.
	RecordLength int `envconfig:"CB_RECORD_LENGTH" default:"20"`
	// Timeout is how long the breaker stays open before letting a trial call through.
	Timeout time.Duration `envconfig:"CB_TIMEOUT" default:"5s"`
	// Percentile of failed calls in the window that opens the breaker.
	Percentile float64 `envconfig:"CB_PERCENTILE" default:"0.5"`
	// RecoveryRequests successful half-open calls close the breaker again.
	RecoveryRequests int `envconfig:"CB_RECOVERY_REQUESTS" default:"3"`
}

type CircuitBreaker interface {
	Call(service func() error) error
	State() Status
	Reset()
}

type circuitBreaker struct {
	mu  sync.Mutex
	cfg Config

	state           Status
	lastAttemptedAt time.Time
	buffer          []bool
	pos             int
	successCount    int
	// failed decides whether an error counts against the breaker.
	failed func(error) bool
}

var ErrOpenCB = errors.New("circuit breaker is open")

type Option func(cb *circuitBreaker)

// WithFailurePredicate limits which errors trip the breaker; business errors usually should not.
func WithFailurePredicate(fn func(error) bool) Option {
	return func(cb *circuitBreaker) {
		cb.failed = fn
	}
}

func New(cfg Config, opts ...Option) CircuitBreaker {
	if cfg.RecordLength <= 0 {
		cfg.RecordLength = 1
	}
	cb := &circuitBreaker{
		cfg:    cfg,
		state:  Closed,
		buffer: make([]bool, cfg.RecordLength),
		failed: func(err error) bool { return err != nil },
	}
	for _, opt := range opts {
		opt(cb)
	}
	return cb
}

func (cb *circuitBreaker) State() Status {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *circuitBreaker) Call(service func() error) error {
	cb.mu.Lock()
	if cb.state == Open {
		if time.Since(cb.lastAttemptedAt) <= cb.cfg.Timeout {
			cb.mu.Unlock()
			return ErrOpenCB
		}
		cb.state = HalfOpen
		cb.successCount = 0
	}
	cb.mu.Unlock()

	err := service()
	failed := cb.failed(err)

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.buffer[cb.pos] = failed
	cb.pos = (cb.pos + 1) % cb.cfg.RecordLength

	if cb.state == HalfOpen {
		if failed {
			cb.trip()
			return err
		}
		cb.successCount++
		if cb.successCount >= cb.cfg.RecoveryRequests {
			cb.reset()
		}
		return err
	}

	fails := 0
	for _, f := range cb.buffer {
		if f {
			fails++
		}
	}
	if float64(fails)/float64(cb.cfg.RecordLength) >= cb.cfg.Percentile {
		cb.trip()
	}
	return err
}

func (cb *circuitBreaker) trip() {
	cb.state = Open
	cb.successCount = 0
	cb.lastAttemptedAt = time.Now()
}

func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.reset()
}

func (cb *circuitBreaker) reset() {
	for i := range cb.buffer {
		cb.buffer[i] = false
	}
	cb.successCount = 0
	cb.pos = 0
	cb.state = Closed
}
