package model

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerOptions configures a BreakerModel.
type BreakerOptions struct {
	// Name identifies the breaker in Info and logs. Defaults to the wrapped
	// model's name.
	Name string

	// MaxRequests allowed through while half-open.
	MaxRequests uint32

	// Timeout before an open breaker transitions to half-open.
	Timeout time.Duration

	// ConsecutiveFailures that trip the breaker.
	ConsecutiveFailures uint32
}

// BreakerModel wraps a Model with a circuit breaker so a flapping provider
// fails fast instead of burning the run's turn budget on doomed calls. While
// the circuit is open, Generate reports gobreaker.ErrOpenState on the error
// channel without touching the wrapped model.
type BreakerModel struct {
	inner Model
	name  string
	cb    *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerModel wraps inner with a circuit breaker.
func NewBreakerModel(inner Model, optFns ...func(o *BreakerOptions)) *BreakerModel {
	opts := BreakerOptions{
		Name:                inner.Info().Name,
		MaxRequests:         1,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 3,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	st := gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: opts.MaxRequests,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.ConsecutiveFailures
		},
	}

	return &BreakerModel{
		inner: inner,
		name:  opts.Name,
		cb:    gobreaker.NewCircuitBreaker[struct{}](st),
	}
}

// Generate implements Model. The whole wrapped stream counts as one breaker
// request: it succeeds if the stream completes without a terminal error.
func (m *BreakerModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	out := make(chan Response, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		_, err := m.cb.Execute(func() (struct{}, error) {
			respCh, innerErrCh := m.inner.Generate(ctx, req)

			var terminalErr error
			for respCh != nil || innerErrCh != nil {
				select {
				case resp, ok := <-respCh:
					if !ok {
						respCh = nil
						continue
					}
					select {
					case out <- resp:
					case <-ctx.Done():
						return struct{}{}, ctx.Err()
					}
				case innerErr, ok := <-innerErrCh:
					if !ok {
						innerErrCh = nil
						continue
					}
					if terminalErr == nil {
						terminalErr = innerErr
					}
				}
			}

			return struct{}{}, terminalErr
		})
		if err != nil {
			errCh <- err
		}
	}()

	return out, errCh
}

// Info implements Model.
func (m *BreakerModel) Info() Info {
	info := m.inner.Info()
	info.Name = m.name
	return info
}

// State returns the breaker's current state for observability.
func (m *BreakerModel) State() gobreaker.State { return m.cb.State() }
