package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/smnshzh/MarketVisit/internal/domain"
	"github.com/smnshzh/MarketVisit/pkg/jalali"
)

// AssignmentsQuery filters /api/assigned-stores. UserID 0 means the current user.
type AssignmentsQuery struct {
	UserID int64 `url:"userId,omitempty"`
	// AssignedDate accepts either calendar; Jalali input is converted before sending.
	AssignedDate string `url:"assignedDate,omitempty"`
	Status       string `url:"status,omitempty"`
}

type AssignmentsResponse struct {
	Success        bool                `json:"success"`
	AssignedStores []domain.Assignment `json:"assignedStores"`
	Count          int                 `json:"count"`
}

type SubmitVisitRequest struct {
	AssignmentID int64 `json:"assignmentId"`
	// VisitDate may be Jalali (YYYY/MM/DD) or Gregorian (YYYY-MM-DD).
	VisitDate      string         `json:"visitDate"`
	VisitTime      string         `json:"visitTime,omitempty"`
	ImageURLs      []string       `json:"imageUrls,omitempty"`
	AdditionalInfo map[string]any `json:"additionalInfo,omitempty"`
	Latitude       *float64       `json:"latitude,omitempty"`
	Longitude      *float64       `json:"longitude,omitempty"`
}

type SubmittedVisit struct {
	ID           int64   `json:"id"`
	AssignmentID int64   `json:"assignmentId"`
	VisitDate    string  `json:"visitDate"`
	CreatedAt    *string `json:"createdAt"`
}

type SubmitVisitResponse struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	VisitData SubmittedVisit `json:"visitData"`
}

type VisitsQuery struct {
	AssignmentID int64 `url:"assignmentId,omitempty"`
	StoreID      int64 `url:"storeId,omitempty"`
	UserID       int64 `url:"userId,omitempty"`
}

type VisitsResponse struct {
	Success   bool           `json:"success"`
	VisitData []domain.Visit `json:"visitData"`
	Count     int            `json:"count"`
}

func (c *Client) AssignedStores(ctx context.Context, q AssignmentsQuery) (*AssignmentsResponse, error) {
	q.AssignedDate = jalali.ToGregorianFromLocal(strings.TrimSpace(q.AssignedDate))
	endpoint, err := withQuery("/api/assigned-stores", q)
	if err != nil {
		return nil, err
	}
	var out AssignmentsResponse
	if err := c.Call(ctx, endpoint, RequestOptions{Method: http.MethodGet}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitVisit records the outcome of a market visit for an assignment.
func (c *Client) SubmitVisit(ctx context.Context, req SubmitVisitRequest) (*SubmitVisitResponse, error) {
	if req.AssignmentID <= 0 {
		return nil, fmt.Errorf("%w: assignmentId is required", ErrInvalidRequest)
	}
	req.VisitDate = jalali.ToGregorianFromLocal(strings.TrimSpace(req.VisitDate))
	if req.VisitDate == "" {
		req.VisitDate = jalali.ToGregorianFromLocal(jalali.Today())
	}
	var out SubmitVisitResponse
	if err := c.Call(ctx, "/api/store-visit-data", RequestOptions{Method: http.MethodPost, Body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Visits(ctx context.Context, q VisitsQuery) (*VisitsResponse, error) {
	endpoint, err := withQuery("/api/store-visit-data", q)
	if err != nil {
		return nil, err
	}
	var out VisitsResponse
	if err := c.Call(ctx, endpoint, RequestOptions{Method: http.MethodGet}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
