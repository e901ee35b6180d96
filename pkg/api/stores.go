package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/smnshzh/MarketVisit/internal/domain"
)

// NearbyQuery filters /api/nearby-stores. MaxDistance is in meters.
type NearbyQuery struct {
	Lat          float64 `url:"lat"`
	Lng          float64 `url:"lng"`
	MaxDistance  int     `url:"maxDistance,omitempty"`
	Category     string  `url:"category,omitempty"`
	City         string  `url:"city,omitempty"`
	Neighborhood string  `url:"neighborhood,omitempty"`
}

type NearbyStoresResponse struct {
	Success      bool               `json:"success"`
	Stores       []domain.Store     `json:"stores"`
	Count        int                `json:"count"`
	UserLocation domain.Coordinates `json:"userLocation"`
	MaxDistance  int                `json:"maxDistance"`
}

// NeighborhoodQuery filters /api/stores-by-neighborhood.
type NeighborhoodQuery struct {
	Neighborhood string   `url:"neighborhood"`
	City         string   `url:"city,omitempty"`
	Lat          *float64 `url:"lat,omitempty"`
	Lng          *float64 `url:"lng,omitempty"`
	Limit        int      `url:"limit,omitempty"`
}

type NeighborhoodStoresResponse struct {
	Success      bool           `json:"success"`
	Stores       []domain.Store `json:"stores"`
	Count        int            `json:"count"`
	TotalCount   int            `json:"totalCount"`
	Neighborhood string         `json:"neighborhood"`
	HasMore      bool           `json:"hasMore"`
}

type RegisterStoreRequest struct {
	Name          string         `json:"name"`
	Address       string         `json:"address"`
	Lat           *float64       `json:"lat,omitempty"`
	Lng           *float64       `json:"lng,omitempty"`
	Category      string         `json:"category"`
	CategorySlug  string         `json:"categorySlug,omitempty"`
	Phone         string         `json:"phone,omitempty"`
	City          string         `json:"city,omitempty"`
	Province      string         `json:"province,omitempty"`
	PlateNumber   string         `json:"plateNumber,omitempty"`
	PostalCode    string         `json:"postalCode,omitempty"`
	IsActive      *bool          `json:"isActive,omitempty"`
	ImageURLs     []string       `json:"imageUrls,omitempty"`
	PlaceFullData map[string]any `json:"placeFullData,omitempty"`
}

type RegisterStoreResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Store   domain.Store `json:"store"`
}

type CategoriesResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message,omitempty"`
	Results []domain.Category `json:"results"`
	Count   int               `json:"count"`
}

type WorkshopResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	StoreID     int64  `json:"storeId"`
	HasWorkshop bool   `json:"hasWorkshop"`
}

// NearbyStores lists active stores within MaxDistance of a point, nearest first.
func (c *Client) NearbyStores(ctx context.Context, q NearbyQuery) (*NearbyStoresResponse, error) {
	if q.MaxDistance < 0 {
		return nil, fmt.Errorf("%w: maxDistance must not be negative", ErrInvalidRequest)
	}
	endpoint, err := withQuery("/api/nearby-stores", q)
	if err != nil {
		return nil, err
	}
	var out NearbyStoresResponse
	if err := c.Call(ctx, endpoint, RequestOptions{Method: http.MethodGet}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StoresByNeighborhood lists stores of one neighborhood, by distance when a point is given.
func (c *Client) StoresByNeighborhood(ctx context.Context, q NeighborhoodQuery) (*NeighborhoodStoresResponse, error) {
	if strings.TrimSpace(q.Neighborhood) == "" {
		return nil, fmt.Errorf("%w: neighborhood is required", ErrInvalidRequest)
	}
	endpoint, err := withQuery("/api/stores-by-neighborhood", q)
	if err != nil {
		return nil, err
	}
	var out NeighborhoodStoresResponse
	if err := c.Call(ctx, endpoint, RequestOptions{Method: http.MethodGet}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterStore submits a new store.
func (c *Client) RegisterStore(ctx context.Context, req RegisterStoreRequest) (*RegisterStoreResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: store name is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, fmt.Errorf("%w: store category is required", ErrInvalidRequest)
	}
	var out RegisterStoreResponse
	if err := c.Call(ctx, "/api/register-store", RequestOptions{Method: http.MethodPost, Body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Categories returns the main categories with their sub-categories.
func (c *Client) Categories(ctx context.Context) (*CategoriesResponse, error) {
	var out CategoriesResponse
	if err := c.Call(ctx, "/api/store-categories", RequestOptions{Method: http.MethodGet}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateWorkshop sets whether a store has a workshop.
func (c *Client) UpdateWorkshop(ctx context.Context, storeID int64, hasWorkshop bool) (*WorkshopResponse, error) {
	body := map[string]any{"storeId": storeID, "hasWorkshop": hasWorkshop}
	var out WorkshopResponse
	if err := c.Call(ctx, "/api/store-workshop", RequestOptions{Method: http.MethodPatch, Body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
