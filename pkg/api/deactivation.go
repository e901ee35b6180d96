package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/smnshzh/MarketVisit/internal/domain"
)

// Review actions accepted by ReviewDeactivation.
const (
	ReviewApprove = "approve"
	ReviewReject  = "reject"
)

type DeactivationResponse struct {
	// Success is false with a Message when a request for the store is already pending.
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID int64  `json:"requestId"`
}

type ReviewRequest struct {
	RequestID int64  `json:"requestId"`
	Action    string `json:"action"`
	Notes     string `json:"notes,omitempty"`
}

type DeactivationListResponse struct {
	Success  bool                         `json:"success"`
	Requests []domain.DeactivationRequest `json:"requests"`
	Count    int                          `json:"count"`
}

type deactivationBody struct {
	StoreID int64  `json:"storeId"`
	Reason  string `json:"reason,omitempty"`
}

type statusQuery struct {
	Status string `url:"status,omitempty"`
}

// RequestDeactivation asks reviewers to deactivate a store.
func (c *Client) RequestDeactivation(ctx context.Context, storeID int64, reason string) (*DeactivationResponse, error) {
	if storeID <= 0 {
		return nil, fmt.Errorf("%w: storeId is required", ErrInvalidRequest)
	}
	body := deactivationBody{StoreID: storeID, Reason: strings.TrimSpace(reason)}
	var out DeactivationResponse
	if err := c.Call(ctx, "/api/store-deactivation-request", RequestOptions{Method: http.MethodPost, Body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReviewDeactivation approves or rejects a pending request.
func (c *Client) ReviewDeactivation(ctx context.Context, req ReviewRequest) (*StatusResponse, error) {
	req.Action = strings.ToLower(strings.TrimSpace(req.Action))
	if req.Action != ReviewApprove && req.Action != ReviewReject {
		return nil, fmt.Errorf("%w: action must be %q or %q", ErrInvalidRequest, ReviewApprove, ReviewReject)
	}
	if req.RequestID <= 0 {
		return nil, fmt.Errorf("%w: requestId is required", ErrInvalidRequest)
	}
	var out StatusResponse
	if err := c.Call(ctx, "/api/review-deactivation-request", RequestOptions{Method: http.MethodPost, Body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeactivationRequests lists requests, optionally filtered by status (pending, approved, rejected).
func (c *Client) DeactivationRequests(ctx context.Context, status string) (*DeactivationListResponse, error) {
	endpoint, err := withQuery("/api/deactivation-requests", statusQuery{Status: strings.TrimSpace(status)})
	if err != nil {
		return nil, err
	}
	var out DeactivationListResponse
	if err := c.Call(ctx, endpoint, RequestOptions{Method: http.MethodGet}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
