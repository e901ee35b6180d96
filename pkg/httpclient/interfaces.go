package httpclient

import (
	"context"
	"io"
	"net/http"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header() http.Header
}

// Request describes a single outbound call. Body is sent as-is.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// UploadRequest describes a multipart/form-data file submission.
type UploadRequest struct {
	URL       string
	Headers   map[string]string
	FieldName string
	FileName  string
	Reader    io.Reader
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Do(ctx context.Context, req Request) (Response, error)
	Upload(ctx context.Context, req UploadRequest) (Response, error)
}
