package watcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/smnshzh/MarketVisit/internal/domain"
	"github.com/smnshzh/MarketVisit/internal/logger"
	"github.com/smnshzh/MarketVisit/internal/metrics"
	"github.com/smnshzh/MarketVisit/pkg/api"
	"github.com/smnshzh/MarketVisit/pkg/areas"
	"github.com/smnshzh/MarketVisit/pkg/publishers"
)

// AreaProcessor polls one area and publishes the stores it has not announced yet.
type AreaProcessor struct {
	source    StoreSource
	publisher EventPublisher
	log       logger.Logger
	deduper   Deduper
	recorder  Recorder
}

// NewAreaProcessor wires a processor. deduper and recorder may be nil.
func NewAreaProcessor(source StoreSource, publisher EventPublisher, log logger.Logger, deduper Deduper, recorder Recorder) *AreaProcessor {
	return &AreaProcessor{
		source:    source,
		publisher: publisher,
		log:       logger.Ensure(log),
		deduper:   deduper,
		recorder:  recorder,
	}
}

// Process runs one poll for area. Publish failures of individual stores are
// joined into the returned error; the remaining stores are still processed.
func (p *AreaProcessor) Process(ctx context.Context, area areas.Area) error {
	stores, err := p.fetch(ctx, area)
	if err != nil {
		p.observePoll(area.ID, 0, 0, err)
		return fmt.Errorf("fetch area %s: %w", area.ID, err)
	}

	fresh := p.filterNewStores(area, stores)
	p.observePoll(area.ID, len(stores), len(fresh), nil)

	var errs []error
	for _, store := range fresh {
		if err := p.publish(ctx, area, store); err != nil {
			errs = append(errs, err)
		}
	}

	p.log.InfoObj("area poll completed", "area_result", map[string]any{
		"area_id":      area.ID,
		"stores_found": len(stores),
		"stores_new":   len(fresh),
		"failed":       len(errs),
	})
	return errors.Join(errs...)
}

func (p *AreaProcessor) fetch(ctx context.Context, area areas.Area) ([]domain.Store, error) {
	if p.source == nil {
		return nil, errors.New("store source is not configured")
	}
	switch area.Mode {
	case areas.ModeNeighborhood:
		q := api.NeighborhoodQuery{
			Neighborhood: area.Neighborhood,
			City:         area.City,
			Limit:        area.Limit,
		}
		if !area.Point().IsZero() {
			lat, lng := area.Lat, area.Lng
			q.Lat, q.Lng = &lat, &lng
		}
		resp, err := p.source.StoresByNeighborhood(ctx, q)
		if err != nil {
			return nil, err
		}
		return resp.Stores, nil
	default:
		resp, err := p.source.NearbyStores(ctx, api.NearbyQuery{
			Lat:          area.Lat,
			Lng:          area.Lng,
			MaxDistance:  area.MaxDistance,
			Category:     area.Category,
			City:         area.City,
			Neighborhood: area.Neighborhood,
		})
		if err != nil {
			return nil, err
		}
		return resp.Stores, nil
	}
}

// filterNewStores drops stores already announced for the area. Lookup errors
// keep the store so a broken deduper never hides new stores.
func (p *AreaProcessor) filterNewStores(area areas.Area, stores []domain.Store) []domain.Store {
	if p.deduper == nil {
		return stores
	}
	out := make([]domain.Store, 0, len(stores))
	for _, s := range stores {
		seen, err := p.deduper.SeenStore(area.ID, s.ID)
		if err != nil {
			p.log.WarnObj("dedupe lookup failed", "dedupe_error", map[string]any{
				"area_id":  area.ID,
				"store_id": s.ID,
				"error":    err.Error(),
			})
			out = append(out, s)
			continue
		}
		if !seen {
			out = append(out, s)
		}
	}
	return out
}

// publish announces one store. A store is marked as seen once at least one
// publisher accepted it, so total failures are retried on the next poll.
func (p *AreaProcessor) publish(ctx context.Context, area areas.Area, store domain.Store) error {
	if p.publisher == nil {
		return errors.New("publisher is not configured")
	}
	n, err := p.publisher.Publish(ctx, publishers.NewEvent(area.ID, area.Name, store))
	if n > 0 && p.deduper != nil {
		if markErr := p.deduper.MarkStore(area.ID, store.ID); markErr != nil {
			p.log.WarnObj("dedupe mark failed", "dedupe_error", map[string]any{
				"area_id":  area.ID,
				"store_id": store.ID,
				"error":    markErr.Error(),
			})
		}
	}
	if err != nil {
		p.observePublish(area.ID, metrics.PublishFailed)
		return fmt.Errorf("publish store %d (%s): %w", store.ID, store.Name, err)
	}
	p.observePublish(area.ID, metrics.PublishDelivered)
	return nil
}

func (p *AreaProcessor) observePoll(area string, found, fresh int, err error) {
	if p.recorder != nil {
		p.recorder.ObservePoll(area, found, fresh, err)
	}
}

func (p *AreaProcessor) observePublish(area string, outcome metrics.PublishOutcome) {
	if p.recorder != nil {
		p.recorder.ObservePublish(area, outcome)
	}
}
