package location

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smnshzh/MarketVisit/internal/domain"
)

type fakeStore struct {
	p   domain.Coordinates
	ok  bool
	err error
}

func (f fakeStore) LastLocation() (domain.Coordinates, bool, error) { return f.p, f.ok, f.err }

func TestStatic(t *testing.T) {
	p, err := Static{Lat: 1, Lng: 2}.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lat: 1, Lng: 2}, p)

	_, err = Static{}.Current(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStored(t *testing.T) {
	want := domain.Coordinates{Lat: 35, Lng: 51}
	p, err := Stored{Store: fakeStore{p: want, ok: true}}.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, p)

	_, err = Stored{Store: fakeStore{}}.Current(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = Stored{}.Current(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestChainFirstSuccessWins(t *testing.T) {
	boom := errors.New("disk broken")
	chain := Chain{
		Static{},
		Stored{Store: fakeStore{err: boom}},
		Static{Lat: 3, Lng: 4},
		ProviderFunc(func(context.Context) (domain.Coordinates, error) {
			t.Fatal("later providers must not run")
			return domain.Coordinates{}, nil
		}),
	}
	p, err := chain.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lat: 3, Lng: 4}, p)
}

func TestChainAggregatesFailures(t *testing.T) {
	boom := errors.New("disk broken")
	_, err := Chain{Static{}, Stored{Store: fakeStore{err: boom}}}.Current(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, boom)

	_, err = Chain{}.Current(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestChainHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Chain{Static{Lat: 1, Lng: 1}}.Current(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
