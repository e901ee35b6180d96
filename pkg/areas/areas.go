package areas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/smnshzh/MarketVisit/internal/domain"
)

// Package areas holds the watched-area registry loaded from YAML/JSON.

// Area lookup modes.
const (
	ModeNearby       = "nearby"
	ModeNeighborhood = "neighborhood"
)

// Area is a region the watcher polls for stores.
type Area struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	// Mode selects the store query: radius around Lat/Lng, or a named neighborhood.
	Mode           string  `json:"mode" yaml:"mode"`
	Lat            float64 `json:"lat" yaml:"lat"`
	Lng            float64 `json:"lng" yaml:"lng"`
	MaxDistance    int     `json:"max_distance" yaml:"max_distance"`
	Category       string  `json:"category" yaml:"category"`
	City           string  `json:"city" yaml:"city"`
	Neighborhood   string  `json:"neighborhood" yaml:"neighborhood"`
	Limit          int     `json:"limit" yaml:"limit"`
	RequestDelayMs int     `json:"request_delay_ms" yaml:"request_delay_ms"`
}

type registry struct {
	Areas []Area `json:"areas" yaml:"areas"`
}

var (
	regMu                 sync.RWMutex
	currentReg            registry
	areasIdx              map[string]Area
	defaultRequestDelayMs = 500
	defaultMaxDistance    = 1000
)

// Areas returns a copy of the currently loaded area registry.
func Areas() []Area {
	regMu.RLock()
	defer regMu.RUnlock()

	if len(currentReg.Areas) == 0 {
		return nil
	}

	out := make([]Area, len(currentReg.Areas))
	copy(out, currentReg.Areas)
	return out
}

// AreaByID returns the area entry for the given id, if loaded.
func AreaByID(id string) (Area, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Area{}, false
	}

	regMu.RLock()
	defer regMu.RUnlock()

	if areasIdx == nil {
		return Area{}, false
	}

	a, ok := areasIdx[id]
	return a, ok
}

// LoadAreas loads the area registry from file.
func LoadAreas(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("areas file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open areas file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read areas file: %w", err)
	}

	reg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return err
	}

	if len(reg.Areas) == 0 {
		return errors.New("areas file contains no areas entries")
	}

	idx := make(map[string]Area, len(reg.Areas))
	for i := range reg.Areas {
		a := sanitizeArea(reg.Areas[i])
		if err := validateArea(a); err != nil {
			return fmt.Errorf("area[%d]: %w", i, err)
		}
		if _, exists := idx[a.ID]; exists {
			return fmt.Errorf("duplicate area id %q", a.ID)
		}
		reg.Areas[i] = a
		idx[a.ID] = a
	}

	regMu.Lock()
	currentReg = reg
	areasIdx = idx
	regMu.Unlock()

	return nil
}

func parseRegistry(data []byte, ext string) (registry, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return registry{}, errors.New("areas file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (registry, error) {
	var reg registry
	if err := fn(data, &reg); err != nil {
		return registry{}, fmt.Errorf("decode %s areas: %w", name, err)
	}
	return reg, nil
}

func sanitizeArea(a Area) Area {
	a.ID = strings.TrimSpace(a.ID)
	a.Name = strings.TrimSpace(a.Name)
	a.Mode = strings.ToLower(strings.TrimSpace(a.Mode))
	a.Category = strings.TrimSpace(a.Category)
	a.City = strings.TrimSpace(a.City)
	a.Neighborhood = strings.TrimSpace(a.Neighborhood)

	if a.Mode == "" {
		a.Mode = ModeNearby
	}
	if a.Name == "" {
		a.Name = a.ID
	}
	if a.Mode == ModeNearby && a.MaxDistance <= 0 {
		a.MaxDistance = defaultMaxDistance
	}
	if a.RequestDelayMs <= 0 {
		a.RequestDelayMs = defaultRequestDelayMs
	}
	return a
}

func validateArea(a Area) error {
	if a.ID == "" {
		return errors.New("id is required")
	}
	switch a.Mode {
	case ModeNearby:
		if a.Lat < -90 || a.Lat > 90 || a.Lng < -180 || a.Lng > 180 {
			return fmt.Errorf("coordinates out of range for area %q", a.ID)
		}
		if a.Point().IsZero() {
			return fmt.Errorf("lat/lng are required for nearby area %q", a.ID)
		}
	case ModeNeighborhood:
		if a.Neighborhood == "" {
			return fmt.Errorf("neighborhood is required for area %q", a.ID)
		}
	default:
		return fmt.Errorf("unknown mode %q for area %q", a.Mode, a.ID)
	}
	return nil
}

// Point returns the area's center.
func (a Area) Point() domain.Coordinates {
	return domain.Coordinates{Lat: a.Lat, Lng: a.Lng}
}

// RequestDelay returns the per-request throttle duration for the area.
func (a Area) RequestDelay() time.Duration {
	if a.RequestDelayMs <= 0 {
		return time.Duration(defaultRequestDelayMs) * time.Millisecond
	}
	return time.Duration(a.RequestDelayMs) * time.Millisecond
}
