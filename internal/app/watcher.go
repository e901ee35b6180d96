package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/smnshzh/MarketVisit/internal/config"
	"github.com/smnshzh/MarketVisit/internal/logger"
	"github.com/smnshzh/MarketVisit/internal/metrics"
	"github.com/smnshzh/MarketVisit/internal/storage"
	"github.com/smnshzh/MarketVisit/internal/watcher"
	"github.com/smnshzh/MarketVisit/pkg/areas"
	"github.com/smnshzh/MarketVisit/pkg/publishers"
)

// Watcher represents the store watcher runtime. It manages the poll loop,
// coordinating between the area registry, the watcher service and publishers.
// It also owns storage and the optional metrics endpoint.
type Watcher struct {
	cfg           *config.Config
	fanout        *publishers.Fanout
	service       *watcher.Service
	recorder      *metrics.Recorder
	watchInterval time.Duration
	log           logger.Logger
	store         storage.Store
}

// NewWatcher builds a watcher runtime from config files.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	if err := areas.LoadAreas(cfg.AreasFile); err != nil {
		return nil, fmt.Errorf("load areas registry: %w", err)
	}
	areaList := areas.Areas()
	areaIDs := make([]string, 0, len(areaList))
	for _, a := range areaList {
		areaIDs = append(areaIDs, a.ID)
	}
	log.InfoObj("areas registry loaded", "areas_meta", map[string]any{
		"count": len(areaIDs),
		"ids":   areaIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := OpenStore(cfg)
	if err != nil {
		_ = fanout.Close()
		return nil, err
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"target":                   storageTarget(cfg),
		"store_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	recorder := metrics.NewRecorder(nil)
	client := NewAPIClient(cfg, store, recorder, log)
	log.InfoObj("api client configured", "api_locations", map[string]any{
		"primary":   client.Locations().Primary(),
		"secondary": client.Locations().Secondary(),
		"hosted":    cfg.APIHosted,
		"fallback":  cfg.APIFallback,
	})

	return &Watcher{
		cfg:           cfg,
		fanout:        fanout,
		service:       watcher.NewService(client, fanout, log, store, recorder),
		recorder:      recorder,
		watchInterval: cfg.WatchInterval,
		log:           log,
		store:         store,
	}, nil
}

// Run starts the poll loop until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.service == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.close()

	if w.cfg.MetricsAddr != "" {
		stop := w.serveMetrics(w.cfg.MetricsAddr)
		defer stop()
	}

	list := areas.Areas()
	if len(list) == 0 {
		w.log.WarnObj("no areas configured; watcher idle", "areas_file", w.cfg.AreasFile)
		<-ctx.Done()
		return ctx.Err()
	}

	w.log.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"areas_count":      len(list),
		"publishers_count": w.fanout.Size(),
		"watch_interval":   w.watchInterval.String(),
	})

	if err := w.runOnce(ctx, list); err != nil {
		w.log.ErrorObj("initial poll failed", "error", err)
	}

	ticker := time.NewTicker(w.watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watcher loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx, list); err != nil {
				w.log.ErrorObj("scheduled poll failed", "error", err)
			}
		}
	}
}

// runOnce performs a single poll pass across all areas.
func (w *Watcher) runOnce(ctx context.Context, list []areas.Area) error {
	start := time.Now()
	w.log.InfoObj("poll started", "poll_meta", map[string]any{
		"areas_count": len(list),
		"started_at":  start.UTC(),
	})
	if err := w.service.Run(ctx, list); err != nil {
		return err
	}
	w.log.InfoObj("poll completed", "poll_meta", map[string]any{
		"areas_count": len(list),
		"elapsed_ms":  time.Since(start).Milliseconds(),
	})
	return nil
}

func (w *Watcher) serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", w.recorder.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			w.log.ErrorObj("metrics server failed", "error", err)
		}
	}()
	w.log.InfoObj("metrics endpoint listening", "metrics_addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// close releases publishers and storage, logging any errors encountered.
func (w *Watcher) close() {
	if w == nil {
		return
	}
	if err := w.fanout.Close(); err != nil {
		w.log.ErrorObj("publisher close failed", "error", err)
	}
	if w.store == nil {
		return
	}
	if err := w.store.Close(); err != nil {
		w.log.ErrorObj("storage close failed", "error", err)
	}
}
