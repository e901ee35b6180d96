package watcher

import (
	"context"

	"github.com/smnshzh/MarketVisit/internal/metrics"
	"github.com/smnshzh/MarketVisit/pkg/api"
	"github.com/smnshzh/MarketVisit/pkg/publishers"
)

// StoreSource lists stores from the backend. *api.Client satisfies it.
type StoreSource interface {
	NearbyStores(ctx context.Context, q api.NearbyQuery) (*api.NearbyStoresResponse, error)
	StoresByNeighborhood(ctx context.Context, q api.NeighborhoodQuery) (*api.NeighborhoodStoresResponse, error)
}

// EventPublisher fans store events out downstream and reports how many
// publishers accepted the event.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which stores were already announced per area.
type Deduper interface {
	SeenStore(areaID string, storeID int64) (bool, error)
	MarkStore(areaID string, storeID int64) error
}

// Recorder receives watcher metrics. *metrics.Recorder satisfies it.
type Recorder interface {
	ObservePoll(area string, found, fresh int, err error)
	ObservePublish(area string, outcome metrics.PublishOutcome)
}
