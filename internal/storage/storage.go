package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/smnshzh/MarketVisit/internal/domain"
)

// Package storage provides local DB/cache abstraction.

// Store persists the client session, the last known user location and the
// per-area set of stores already announced by the watcher.
type Store interface {
	Close() error

	SeenStore(areaID string, storeID int64) (bool, error)
	MarkStore(areaID string, storeID int64) error

	SaveSession(token string) error
	Session() (string, bool, error)
	ClearSession() error

	SaveLocation(p domain.Coordinates) error
	LastLocation() (domain.Coordinates, bool, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	StoreTTL        time.Duration
	SessionTTL      time.Duration
	CleanupInterval time.Duration
	// OpTimeout bounds each round trip of network backends.
	OpTimeout time.Duration
}

const (
	defaultStoreTTL        = 7 * 24 * time.Hour
	defaultSessionTTL      = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
	defaultOpTimeout       = 5 * time.Second
)

// NewStore creates the configured storage backend. target is the database
// file for bbolt and the server address for valkey.
func NewStore(typ, target string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(target) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(target, opts)
	case "valkey", "redis":
		if strings.TrimSpace(target) == "" {
			return nil, fmt.Errorf("valkey storage requires an address")
		}
		return openValkey(target, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.StoreTTL <= 0 {
		opts.StoreTTL = defaultStoreTTL
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = defaultOpTimeout
	}
	return opts
}

// storeKey identifies a store within an area.
func storeKey(areaID string, storeID int64) string {
	return strings.ToLower(strings.TrimSpace(areaID)) + "/" + strconv.FormatInt(storeID, 10)
}

type noopStore struct{}

func (noopStore) Close() error                                   { return nil }
func (noopStore) SeenStore(string, int64) (bool, error)          { return false, nil }
func (noopStore) MarkStore(string, int64) error                  { return nil }
func (noopStore) SaveSession(string) error                       { return nil }
func (noopStore) Session() (string, bool, error)                 { return "", false, nil }
func (noopStore) ClearSession() error                            { return nil }
func (noopStore) SaveLocation(domain.Coordinates) error          { return nil }
func (noopStore) LastLocation() (domain.Coordinates, bool, error) { return domain.Coordinates{}, false, nil }
