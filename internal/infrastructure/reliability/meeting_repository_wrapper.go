package reliability

import (
	"context"
	"errors"

	"meetlive/internal/core/domain"
	"meetlive/internal/core/ports"
	"meetlive/pkg/circuitbreaker"
	"meetlive/pkg/retry"

	"go.uber.org/zap"
)

// MeetingRepositoryWrapper wraps a MeetingRepository with retry logic and a
// circuit breaker. Domain errors are terminal: they end the retry loop
// immediately and do not count against the breaker.
type MeetingRepositoryWrapper struct {
	repo   ports.MeetingRepository
	logger *zap.SugaredLogger

	retryConfig    retry.Config
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewMeetingRepositoryWrapper creates a new wrapper with retry and circuit breaker
func NewMeetingRepositoryWrapper(
	repo ports.MeetingRepository,
	retryConfig retry.Config,
	cbConfig circuitbreaker.Config,
	logger *zap.SugaredLogger,
) *MeetingRepositoryWrapper {
	wrapper := &MeetingRepositoryWrapper{
		repo:           repo,
		logger:         logger,
		retryConfig:    retryConfig,
		circuitBreaker: circuitbreaker.New(cbConfig),
	}

	wrapper.circuitBreaker.OnStateChange(func(from, to circuitbreaker.State) {
		logger.Infow("meeting repository circuit breaker state changed",
			"from", from.String(),
			"to", to.String(),
		)
	})

	return wrapper
}

// terminal reports whether the error carries meaning the caller must see
// unchanged. Retrying these would only repeat the same answer.
func terminal(err error) bool {
	return errors.Is(err, domain.ErrMeetingNotFound) || errors.Is(err, domain.ErrMeetingExists)
}

// execute runs fn through retry and the breaker, short-circuiting on terminal
// domain errors and returning them unwrapped.
func (w *MeetingRepositoryWrapper) execute(ctx context.Context, fn func() error) error {
	if !w.retryConfig.Enabled {
		return fn()
	}

	var termErr error
	err := retry.Retry(ctx, w.retryConfig, func() error {
		return w.circuitBreaker.Execute(ctx, func() error {
			err := fn()
			if terminal(err) {
				termErr = err
				return nil
			}
			return err
		})
	})
	if termErr != nil {
		return termErr
	}
	return err
}

// Create creates a meeting record with retry logic
func (w *MeetingRepositoryWrapper) Create(ctx context.Context, meeting *domain.Meeting) error {
	return w.execute(ctx, func() error {
		return w.repo.Create(ctx, meeting)
	})
}

// GetByCode reads a meeting record with retry logic
func (w *MeetingRepositoryWrapper) GetByCode(ctx context.Context, code domain.SessionCode) (*domain.Meeting, error) {
	var meeting *domain.Meeting
	err := w.execute(ctx, func() error {
		m, err := w.repo.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		meeting = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return meeting, nil
}

// Update updates a meeting record with retry logic
func (w *MeetingRepositoryWrapper) Update(ctx context.Context, meeting *domain.Meeting) error {
	return w.execute(ctx, func() error {
		return w.repo.Update(ctx, meeting)
	})
}

// Delete removes a meeting record with retry logic
func (w *MeetingRepositoryWrapper) Delete(ctx context.Context, code domain.SessionCode) error {
	return w.execute(ctx, func() error {
		return w.repo.Delete(ctx, code)
	})
}

// List reads all meeting records with retry logic
func (w *MeetingRepositoryWrapper) List(ctx context.Context) ([]*domain.Meeting, error) {
	var meetings []*domain.Meeting
	err := w.execute(ctx, func() error {
		ms, err := w.repo.List(ctx)
		if err != nil {
			return err
		}
		meetings = ms
		return nil
	})
	if err != nil {
		return nil, err
	}
	return meetings, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (w *MeetingRepositoryWrapper) GetCircuitBreakerStats() circuitbreaker.Stats {
	return w.circuitBreaker.GetStats()
}
