package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type CreateGroupRequest struct {
	StoreIDs  []int64 `json:"storeIds"`
	GroupCode string  `json:"groupCode,omitempty"`
	GroupName string  `json:"groupName,omitempty"`
}

type GroupInfo struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	CreatedAt *string `json:"createdAt"`
}

type CreateGroupResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Group   GroupInfo        `json:"group"`
	Stores  []map[string]any `json:"stores"`
}

// GroupsQuery selects a single group (GroupCode), the groups containing a
// store (StoreID), or every group when both are empty.
type GroupsQuery struct {
	GroupCode string `url:"groupCode,omitempty"`
	StoreID   int64  `url:"storeId,omitempty"`
}

// GroupsResponse mirrors the three shapes of GET /api/store-groups; rows are
// kept as raw column maps.
type GroupsResponse struct {
	Success bool             `json:"success"`
	Group   map[string]any   `json:"group,omitempty"`
	Groups  []map[string]any `json:"groups,omitempty"`
	Stores  []map[string]any `json:"stores,omitempty"`
}

// CreateGroup groups stores under a code; the backend generates one when GroupCode is empty.
func (c *Client) CreateGroup(ctx context.Context, req CreateGroupRequest) (*CreateGroupResponse, error) {
	if len(req.StoreIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one store id is required", ErrInvalidRequest)
	}
	var out CreateGroupResponse
	if err := c.Call(ctx, "/api/store-groups", RequestOptions{Method: http.MethodPost, Body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Groups(ctx context.Context, q GroupsQuery) (*GroupsResponse, error) {
	endpoint, err := withQuery("/api/store-groups", q)
	if err != nil {
		return nil, err
	}
	var out GroupsResponse
	if err := c.Call(ctx, endpoint, RequestOptions{Method: http.MethodGet}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteGroup removes one store from a group, or the whole group when storeID is 0.
func (c *Client) DeleteGroup(ctx context.Context, groupCode string, storeID int64) (*StatusResponse, error) {
	if strings.TrimSpace(groupCode) == "" {
		return nil, fmt.Errorf("%w: groupCode is required", ErrInvalidRequest)
	}
	endpoint, err := withQuery("/api/store-groups", GroupsQuery{GroupCode: groupCode, StoreID: storeID})
	if err != nil {
		return nil, err
	}
	var out StatusResponse
	if err := c.Call(ctx, endpoint, RequestOptions{Method: http.MethodDelete}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
