package breaker

import (
	"context"
	"errors"
	"time"

	"admissions-scheduler/core/config"
	apperrors "admissions-scheduler/core/errors"
	"admissions-scheduler/core/logger"

	"github.com/sony/gobreaker/v2"
)

// Class selects which breaker guards a downstream call. Every persistence or
// notification call goes through exactly one class.
type Class string

const (
	// ClassSimple guards short single-row reads.
	ClassSimple Class = "simple"
	// ClassMedium guards multi-row reads and calendar projections.
	ClassMedium Class = "medium"
	// ClassWrite guards persistence writes.
	ClassWrite Class = "write"
	// ClassExternal guards notification dispatch and other external calls.
	ClassExternal Class = "external"
)

type classSettings struct {
	callTimeout  time.Duration
	resetTimeout time.Duration
	errorRate    float64
}

// Guard owns one circuit breaker per workload class. Breakers are explicit,
// injected state machines (CLOSED/OPEN/HALF_OPEN with a rolling failure
// window) rather than package-level globals, so tests can construct and
// discard them freely.
type Guard struct {
	breakers   map[Class]*gobreaker.CircuitBreaker[any]
	timeouts   map[Class]time.Duration
	retryAfter int
}

func New(cfg config.BreakerConfig) *Guard {
	settings := map[Class]classSettings{
		ClassSimple:   {cfg.SimpleTimeout, cfg.SimpleReset, cfg.SimpleErrorRate},
		ClassMedium:   {cfg.MediumTimeout, cfg.MediumReset, cfg.MediumErrorRate},
		ClassWrite:    {cfg.WriteTimeout, cfg.WriteReset, cfg.WriteErrorRate},
		ClassExternal: {cfg.ExternalTimeout, cfg.ExternalReset, cfg.ExternalErrRate},
	}

	g := &Guard{
		breakers:   make(map[Class]*gobreaker.CircuitBreaker[any], len(settings)),
		timeouts:   make(map[Class]time.Duration, len(settings)),
		retryAfter: cfg.RetryAfterSecond,
	}
	if g.retryAfter <= 0 {
		g.retryAfter = 15
	}

	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 5
	}

	for class, s := range settings {
		s := s
		g.timeouts[class] = s.callTimeout
		g.breakers[class] = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
			Name:     string(class),
			Interval: cfg.RollingWindow,
			Timeout:  s.resetTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < minRequests {
					return false
				}
				return float64(counts.TotalFailures)/float64(counts.Requests) >= s.errorRate
			},
			// Domain outcomes (conflicts, rejected transitions, bad input)
			// are not downstream failures and must not open the breaker.
			IsSuccessful: func(err error) bool {
				if err == nil {
					return true
				}
				var ae *apperrors.AppError
				if errors.As(err, &ae) {
					switch ae.Code {
					case apperrors.ErrConflict,
						apperrors.ErrInvalidTransition,
						apperrors.ErrInvalidInput,
						apperrors.ErrNotFound,
						apperrors.ErrAlreadyExists:
						return true
					}
				}
				return false
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("Breaker:StateChange", "breaker", name, "from", from.String(), "to", to.String())
			},
		})
	}
	return g
}

// Execute runs fn under the class breaker with the class call timeout. An
// open breaker surfaces as a GuardRejection, never as a domain result.
func (g *Guard) Execute(ctx context.Context, class Class, fn func(ctx context.Context) error) error {
	_, err := Do(ctx, g, class, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})
	return err
}

// Do runs fn under the class breaker and returns its result.
func Do[T any](ctx context.Context, g *Guard, class Class, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	cb, ok := g.breakers[class]
	if !ok {
		return zero, apperrors.NewAppError(apperrors.ErrInternalServer, "unknown breaker class", nil)
	}

	result, err := cb.Execute(func() (any, error) {
		callCtx := ctx
		if timeout := g.timeouts[class]; timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return fn(callCtx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, apperrors.NewGuardRejection(g.retryAfter, err)
		}
		return zero, err
	}

	value, ok := result.(T)
	if !ok && result != nil {
		return zero, apperrors.NewAppError(apperrors.ErrInternalServer, "breaker result type mismatch", nil)
	}
	return value, nil
}

// State exposes the current breaker state for a class.
func (g *Guard) State(class Class) gobreaker.State {
	if cb, ok := g.breakers[class]; ok {
		return cb.State()
	}
	return gobreaker.StateClosed
}
