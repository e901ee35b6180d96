package api

import (
	"context"
	"net/http"

	"github.com/smnshzh/MarketVisit/internal/domain"
)

type pointQuery struct {
	Lat float64 `url:"lat"`
	Lng float64 `url:"lng"`
}

type LocationResponse struct {
	Success  bool               `json:"success"`
	Message  string             `json:"message"`
	Location domain.Coordinates `json:"location"`
}

type NeighborhoodResponse struct {
	Success      bool               `json:"success"`
	Neighborhood *string            `json:"neighborhood"`
	Message      string             `json:"message,omitempty"`
	Error        string             `json:"error,omitempty"`
	Location     domain.Coordinates `json:"location"`
}

type AddressComponents struct {
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
	Street       string `json:"street"`
	Province     string `json:"province"`
}

type AddressResponse struct {
	Success          bool              `json:"success"`
	Address          string            `json:"address"`
	FormattedAddress string            `json:"formattedAddress"`
	Components       AddressComponents `json:"components"`
	Message          string            `json:"message,omitempty"`
	Error            string            `json:"error,omitempty"`
}

// UpdateLocation reports the user's current position to the backend.
func (c *Client) UpdateLocation(ctx context.Context, p domain.Coordinates) (*LocationResponse, error) {
	endpoint, err := withQuery("/api/update-user-location", pointQuery{Lat: p.Lat, Lng: p.Lng})
	if err != nil {
		return nil, err
	}
	var out LocationResponse
	if err := c.Call(ctx, endpoint, RequestOptions{Method: http.MethodPost}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Neighborhood resolves the neighborhood name of a point. A miss is reported
// by the backend as Success=false with a nil Neighborhood, not as an error.
func (c *Client) Neighborhood(ctx context.Context, p domain.Coordinates) (*NeighborhoodResponse, error) {
	endpoint, err := withQuery("/api/get-neighborhood", pointQuery{Lat: p.Lat, Lng: p.Lng})
	if err != nil {
		return nil, err
	}
	var out NeighborhoodResponse
	if err := c.Call(ctx, endpoint, RequestOptions{Method: http.MethodGet}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Address resolves a formatted postal address for a point.
func (c *Client) Address(ctx context.Context, p domain.Coordinates) (*AddressResponse, error) {
	endpoint, err := withQuery("/api/get-address", pointQuery{Lat: p.Lat, Lng: p.Lng})
	if err != nil {
		return nil, err
	}
	var out AddressResponse
	if err := c.Call(ctx, endpoint, RequestOptions{Method: http.MethodGet}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
