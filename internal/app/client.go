package app

import (
	"fmt"
	"strings"

	"github.com/smnshzh/MarketVisit/internal/config"
	"github.com/smnshzh/MarketVisit/internal/logger"
	"github.com/smnshzh/MarketVisit/internal/storage"
	"github.com/smnshzh/MarketVisit/pkg/api"
	"github.com/smnshzh/MarketVisit/pkg/geocode"
	"github.com/smnshzh/MarketVisit/pkg/httpclient"
	"github.com/smnshzh/MarketVisit/pkg/location"
)

// Runtime bundles the components a one-shot command needs.
type Runtime struct {
	Client   *api.Client
	Store    storage.Store
	Geocoder *geocode.Resolver
	// Location resolves the user's position when a command was given none.
	Location location.Provider
	log      logger.Logger
}

// NewRuntime opens storage and builds the backend client from cfg.
func NewRuntime(cfg *config.Config, log logger.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Client:   NewAPIClient(cfg, store, nil, log),
		Store:    store,
		Geocoder: geocode.NewResolver(httpclient.NewRestyClient(cfg.GeocodingTimeout), cfg.GeocodingURL, log),
		// the last saved position wins over the configured default
		Location: location.Chain{
			location.Stored{Store: store},
			location.Static{Lat: cfg.DefaultLat, Lng: cfg.DefaultLng},
		},
		log: log,
	}, nil
}

// Close releases the storage backend.
func (r *Runtime) Close() error {
	if r == nil || r.Store == nil {
		return nil
	}
	return r.Store.Close()
}

// NewAPIClient builds the backend client. sessions and observer may be nil.
func NewAPIClient(cfg *config.Config, sessions api.SessionStore, observer api.Observer, log logger.Logger) *api.Client {
	opts := api.Options{
		Locations: Locations(cfg),
		Timeout:   cfg.APITimeout,
		Sessions:  sessions,
		Messages:  api.MessagesFor(cfg.APIMessages),
		Logger:    logger.Ensure(log),
	}
	if cfg.APIFallback == config.FallbackDisabled {
		opts.Fallback = api.NeverFallback
	}
	if observer != nil {
		opts.Observer = observer
	}
	return api.NewClient(opts)
}

// Locations maps the api_* settings onto the client's location configuration.
func Locations(cfg *config.Config) api.Locations {
	return api.Locations{
		PrimaryOverride:  cfg.APIURL,
		LocalDefault:     cfg.APILocalURL,
		HostedDefault:    cfg.APIHostedURL,
		Hosted:           cfg.APIHosted,
		UseProxy:         cfg.APIUseProxy,
		ProxyOrigin:      cfg.APIProxyOrigin,
		FallbackOverride: cfg.APIFallbackURL,
	}
}

// OpenStore opens the configured storage backend.
func OpenStore(cfg *config.Config) (storage.Store, error) {
	store, err := storage.NewStore(cfg.StorageType, storageTarget(cfg), storage.Options{
		StoreTTL:        cfg.StorageTTL,
		SessionTTL:      cfg.SessionTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	return store, nil
}

func storageTarget(cfg *config.Config) string {
	switch strings.ToLower(strings.TrimSpace(cfg.StorageType)) {
	case "valkey", "redis":
		return cfg.ValkeyAddr
	default:
		return cfg.BBoltPath
	}
}
