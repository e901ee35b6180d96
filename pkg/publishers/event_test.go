package publishers

import (
	"strings"
	"testing"

	"github.com/smnshzh/MarketVisit/internal/domain"
)

func domainStore(id int64) domain.Store {
	return domain.Store{ID: id, Name: "Store"}
}

func TestNewEventCarriesDedupeKey(t *testing.T) {
	evt := NewEvent("vanak", "Vanak", domain.Store{ID: 42, CategorySlug: "bakery", City: "Tehran"})

	if evt.Type != EventStoreDiscovered {
		t.Fatalf("Type = %q", evt.Type)
	}
	if evt.Key != "vanak/42" || EventKey("vanak", 42) != evt.Key {
		t.Fatalf("Key = %q", evt.Key)
	}
	if !strings.HasPrefix(evt.SeenAtLocal, "14") {
		t.Fatalf("SeenAtLocal should be a Jalali timestamp, got %q", evt.SeenAtLocal)
	}

	attrs := evt.attributes()
	want := map[string]string{
		"event_type": EventStoreDiscovered,
		"event_key":  "vanak/42",
		"area_id":    "vanak",
		"store_id":   "42",
		"category":   "bakery",
		"city":       "Tehran",
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Fatalf("attribute %s = %q, want %q", k, attrs[k], v)
		}
	}
}

func TestEventAttributesFillKeyForHandBuiltEvents(t *testing.T) {
	attrs := Event{AreaID: "tajrish", Store: domain.Store{ID: 3}}.attributes()
	if attrs["event_key"] != "tajrish/3" || attrs["event_type"] != EventStoreDiscovered {
		t.Fatalf("unexpected attributes: %#v", attrs)
	}
	if _, ok := attrs["category"]; ok {
		t.Fatalf("empty category must be omitted")
	}
}
