// Package location supplies the user's current coordinates to commands that
// need a point but were not given one.
package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/smnshzh/MarketVisit/internal/domain"
)

// ErrUnavailable is returned when a provider has no position to offer.
var ErrUnavailable = errors.New("location unavailable")

// Provider yields the current position.
type Provider interface {
	Current(ctx context.Context) (domain.Coordinates, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (domain.Coordinates, error)

func (f ProviderFunc) Current(ctx context.Context) (domain.Coordinates, error) { return f(ctx) }

// Static always returns the same point. The zero point is treated as unset.
type Static domain.Coordinates

func (s Static) Current(context.Context) (domain.Coordinates, error) {
	p := domain.Coordinates(s)
	if p.IsZero() {
		return p, ErrUnavailable
	}
	return p, nil
}

// LastLocationStore is the persistence the Stored provider reads from.
type LastLocationStore interface {
	LastLocation() (domain.Coordinates, bool, error)
}

// Stored returns the last location saved by a previous run.
type Stored struct {
	Store LastLocationStore
}

func (s Stored) Current(context.Context) (domain.Coordinates, error) {
	if s.Store == nil {
		return domain.Coordinates{}, ErrUnavailable
	}
	p, ok, err := s.Store.LastLocation()
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("read stored location: %w", err)
	}
	if !ok || p.IsZero() {
		return domain.Coordinates{}, ErrUnavailable
	}
	return p, nil
}

// Chain tries each provider in order and returns the first position found.
type Chain []Provider

func (c Chain) Current(ctx context.Context) (domain.Coordinates, error) {
	var errs []error
	for _, p := range c {
		if p == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return domain.Coordinates{}, err
		}
		pos, err := p.Current(ctx)
		if err == nil {
			return pos, nil
		}
		if !errors.Is(err, ErrUnavailable) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return domain.Coordinates{}, errors.Join(append([]error{ErrUnavailable}, errs...)...)
	}
	return domain.Coordinates{}, ErrUnavailable
}
