package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stylesphere/backend/internal/domain"
	"github.com/stylesphere/backend/internal/logging"
	"github.com/stylesphere/backend/internal/metrics"
)

// BreakerModel wraps a VisionModel with a circuit breaker.
// The circuit opens after 5 consecutive failures and probes again after Timeout.
type BreakerModel struct {
	next domain.VisionModel
	cb   *gobreaker.CircuitBreaker[string]
}

// NewBreakerModel wraps next. timeout is how long the circuit stays open.
func NewBreakerModel(next domain.VisionModel, timeout time.Duration) *BreakerModel {
	const name = "gemini-api"
	if timeout <= 0 {
		timeout = time.Minute
	}
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// caller cancellations say nothing about the API's health
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &BreakerModel{next: next, cb: cb}
}

// Generate forwards to the wrapped model unless the circuit is open.
func (b *BreakerModel) Generate(ctx context.Context, prompt string, images []domain.Image) (string, error) {
	text, err := b.cb.Execute(func() (string, error) {
		return b.next.Generate(ctx, prompt, images)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", domain.ErrModelFailure, err)
	}
	return text, err
}

// State returns the breaker state.
func (b *BreakerModel) State() gobreaker.State {
	return b.cb.State()
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
