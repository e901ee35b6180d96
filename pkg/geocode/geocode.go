// Package geocode resolves city and neighborhood names for coordinates using
// the raah.ir reverse geocoding service. Lookups are best effort: any failure
// yields an empty name.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/smnshzh/MarketVisit/internal/domain"
	"github.com/smnshzh/MarketVisit/pkg/httpclient"
)

const (
	DefaultBaseURL = "https://reverse-geocoding.raah.ir/v1/features"
	DefaultTimeout = 10 * time.Second

	resultCity         = "city"
	resultNeighborhood = "neighborhood"
)

// Logger is the structured logging surface used for swallowed failures.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
}

type nopLogger struct{}

func (nopLogger) DebugObj(string, string, interface{}) {}

// Resolver performs reverse geocoding lookups.
type Resolver struct {
	client  httpclient.Client
	baseURL string
	log     Logger
}

// NewResolver builds a Resolver. Empty baseURL and nil client use the defaults.
func NewResolver(client httpclient.Client, baseURL string, log Logger) *Resolver {
	if client == nil {
		client = httpclient.NewRestyClient(DefaultTimeout)
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Resolver{client: client, baseURL: strings.TrimSpace(baseURL), log: log}
}

// City returns the city name at p, or "".
func (r *Resolver) City(ctx context.Context, p domain.Coordinates) string {
	return r.bestEffort(ctx, resultCity, p)
}

// Neighborhood returns the neighborhood name at p, or "".
func (r *Resolver) Neighborhood(ctx context.Context, p domain.Coordinates) string {
	return r.bestEffort(ctx, resultNeighborhood, p)
}

func (r *Resolver) bestEffort(ctx context.Context, resultType string, p domain.Coordinates) string {
	if r == nil {
		return ""
	}
	name, err := r.Lookup(ctx, resultType, p)
	if err != nil {
		r.log.DebugObj("reverse geocoding failed", "geocode_error", map[string]any{
			"result_type": resultType,
			"lat":         p.Lat,
			"lng":         p.Lng,
			"error":       err.Error(),
		})
		return ""
	}
	return name
}

// Lookup queries one result type and reports failures instead of hiding them.
func (r *Resolver) Lookup(ctx context.Context, resultType string, p domain.Coordinates) (string, error) {
	resp, err := r.client.Get(ctx, r.lookupURL(resultType, p), map[string]string{"Accept": "application/json"})
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", resultType, err)
	}
	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("%s lookup returned status %d body: %s", resultType, resp.StatusCode(), snippet(body))
	}
	var payload featureCollection
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode %s lookup: %w", resultType, err)
	}
	name := payload.name()
	if name == "" {
		return "", fmt.Errorf("%s lookup returned no name", resultType)
	}
	return name, nil
}

func (r *Resolver) lookupURL(resultType string, p domain.Coordinates) string {
	q := url.Values{}
	q.Set("result_type", resultType)
	// the service expects lng,lat
	q.Set("location", formatCoord(p.Lng)+","+formatCoord(p.Lat))
	sep := "?"
	if strings.Contains(r.baseURL, "?") {
		sep = "&"
	}
	return r.baseURL + sep + q.Encode()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type properties struct {
	Name string `json:"name"`
}

type feature struct {
	Name       string      `json:"name"`
	Properties *properties `json:"properties"`
}

type featureCollection struct {
	Features   []feature   `json:"features"`
	Name       string      `json:"name"`
	Properties *properties `json:"properties"`
}

// name picks features[0].properties.name, then features[0].name, then the
// root name, then the root properties.name.
func (fc featureCollection) name() string {
	var candidates []string
	if len(fc.Features) > 0 {
		f := fc.Features[0]
		if f.Properties != nil {
			candidates = append(candidates, f.Properties.Name)
		}
		candidates = append(candidates, f.Name)
	}
	candidates = append(candidates, fc.Name)
	if fc.Properties != nil {
		candidates = append(candidates, fc.Properties.Name)
	}
	for _, c := range candidates {
		if s := strings.TrimSpace(c); s != "" {
			return s
		}
	}
	return ""
}

func snippet(body []byte) string {
	const maxLen = 256
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
