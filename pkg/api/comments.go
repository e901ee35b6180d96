package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/smnshzh/MarketVisit/internal/domain"
)

type CreateCommentRequest struct {
	StoreID   int64    `json:"storeId"`
	Comment   string   `json:"comment"`
	Rating    *int     `json:"rating,omitempty"`
	UserLat   *float64 `json:"userLat,omitempty"`
	UserLng   *float64 `json:"userLng,omitempty"`
	ImageURLs []string `json:"imageUrls,omitempty"`
}

type CreatedComment struct {
	ID        int64  `json:"id"`
	StoreID   int64  `json:"storeId"`
	Comment   string `json:"comment"`
	Rating    *int   `json:"rating"`
	CreatedAt string `json:"createdAt"`
}

type CreateCommentResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Comment CreatedComment `json:"comment"`
}

type CommentsResponse struct {
	Success  bool             `json:"success"`
	Comments []domain.Comment `json:"comments"`
	Count    int              `json:"count"`
}

type UploadResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type commentsQuery struct {
	StoreID int64 `url:"storeId"`
}

// CreateComment posts a rating/comment for a store.
func (c *Client) CreateComment(ctx context.Context, req CreateCommentRequest) (*CreateCommentResponse, error) {
	if req.StoreID <= 0 {
		return nil, fmt.Errorf("%w: storeId is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Comment) == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrInvalidRequest)
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidRequest)
	}
	var out CreateCommentResponse
	if err := c.Call(ctx, "/api/store-comments", RequestOptions{Method: http.MethodPost, Body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Comments lists a store's comments, newest first.
func (c *Client) Comments(ctx context.Context, storeID int64) (*CommentsResponse, error) {
	endpoint, err := withQuery("/api/store-comments", commentsQuery{StoreID: storeID})
	if err != nil {
		return nil, err
	}
	var out CommentsResponse
	if err := c.Call(ctx, endpoint, RequestOptions{Method: http.MethodGet}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadCommentImage posts an image as multipart form data to the primary
// location. It never falls back, and every failure carries the fixed upload message.
func (c *Client) UploadCommentImage(ctx context.Context, fileName string, r io.Reader) (*UploadResponse, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r == nil {
		return nil, fmt.Errorf("%w: image reader is nil", ErrInvalidRequest)
	}
	if strings.TrimSpace(fileName) == "" {
		fileName = "image.jpg"
	}

	base := c.locations.Primary()
	headers := map[string]string{"Accept": "application/json"}
	if token, ok, err := c.sessions.Session(); err == nil && ok {
		headers["Authorization"] = "Bearer " + token
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.transport.Upload(attemptCtx, uploadRequest(base, fileName, headers, r))
	if err != nil {
		c.log.WarnObj("comment image upload failed", "upload_error", err.Error())
		return nil, &Error{Kind: KindNetwork, Message: c.messages.Upload, Location: base, Err: err}
	}
	if status := resp.StatusCode(); status < 200 || status > 299 {
		return nil, &Error{Kind: KindHTTP, StatusCode: status, Message: c.messages.Upload, Location: base}
	}

	var out UploadResponse
	if err := c.decode(base, resp.Body(), &out); err != nil {
		if apiErr, ok := AsError(err); ok {
			apiErr.Message = c.messages.Upload
		}
		return nil, err
	}
	return &out, nil
}
