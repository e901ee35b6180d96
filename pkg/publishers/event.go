package publishers

import (
	"strconv"
	"time"

	"github.com/smnshzh/MarketVisit/internal/domain"
	"github.com/smnshzh/MarketVisit/pkg/jalali"
)

// EventStoreDiscovered is the only event type the watcher emits.
const EventStoreDiscovered = "store.discovered"

// Event announces a store that appeared in a watched area.
type Event struct {
	Type string `json:"type"`
	// Key is <area_id>/<store_id>. A store re-announced after a failed
	// delivery carries the same key, so sinks can drop duplicates.
	Key      string       `json:"key"`
	AreaID   string       `json:"area_id"`
	AreaName string       `json:"area_name"`
	Store    domain.Store `json:"store"`
	SeenAt   time.Time    `json:"seen_at"`
	// SeenAtLocal is SeenAt in Tehran time on the Jalali calendar.
	SeenAtLocal string `json:"seen_at_local"`
}

// NewEvent builds the discovery event for store in the given area.
func NewEvent(areaID, areaName string, store domain.Store) Event {
	now := time.Now().UTC()
	return Event{
		Type:        EventStoreDiscovered,
		Key:         EventKey(areaID, store.ID),
		AreaID:      areaID,
		AreaName:    areaName,
		Store:       store,
		SeenAt:      now,
		SeenAtLocal: jalali.FormatDateTime(now.In(jalali.Tehran)),
	}
}

// EventKey is the dedupe key of a store within an area.
func EventKey(areaID string, storeID int64) string {
	return areaID + "/" + strconv.FormatInt(storeID, 10)
}

func (e Event) dedupeKey() string {
	if e.Key != "" {
		return e.Key
	}
	return EventKey(e.AreaID, e.Store.ID)
}

// attributes are the routing fields copied onto broker messages so
// subscribers can filter without decoding the body.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{
		"event_type": e.Type,
		"event_key":  e.dedupeKey(),
		"area_id":    e.AreaID,
		"store_id":   strconv.FormatInt(e.Store.ID, 10),
	}
	if attrs["event_type"] == "" {
		attrs["event_type"] = EventStoreDiscovered
	}
	if e.Store.CategorySlug != "" {
		attrs["category"] = e.Store.CategorySlug
	}
	if e.Store.City != "" {
		attrs["city"] = e.Store.City
	}
	return attrs
}
