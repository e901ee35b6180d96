package api

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/smnshzh/MarketVisit/pkg/httpclient"
)

type fakeResponse struct {
	status int
	body   []byte
	header http.Header
}

func (r *fakeResponse) Body() []byte        { return r.body }
func (r *fakeResponse) StatusCode() int     { return r.status }
func (r *fakeResponse) Header() http.Header { return r.header }

func jsonResponse(status int, body string) *fakeResponse {
	return &fakeResponse{
		status: status,
		body:   []byte(body),
		header: http.Header{"Content-Type": []string{"application/json"}},
	}
}

// fakeTransport answers each request through handle and records it.
type fakeTransport struct {
	mu       sync.Mutex
	requests []httpclient.Request
	uploads  []httpclient.UploadRequest
	handle   func(ctx context.Context, req httpclient.Request) (httpclient.Response, error)
}

func (f *fakeTransport) Get(ctx context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	return f.Do(ctx, httpclient.Request{Method: http.MethodGet, URL: url, Headers: headers})
}

func (f *fakeTransport) Do(ctx context.Context, req httpclient.Request) (httpclient.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.handle == nil {
		return jsonResponse(http.StatusOK, `{}`), nil
	}
	return f.handle(ctx, req)
}

func (f *fakeTransport) Upload(ctx context.Context, req httpclient.UploadRequest) (httpclient.Response, error) {
	f.mu.Lock()
	f.uploads = append(f.uploads, req)
	f.mu.Unlock()
	return f.Do(ctx, httpclient.Request{Method: http.MethodPost, URL: req.URL, Headers: req.Headers})
}

func (f *fakeTransport) urls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.requests))
	for _, r := range f.requests {
		out = append(out, r.URL)
	}
	return out
}

func (f *fakeTransport) last() httpclient.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")

type recordingObserver struct {
	mu  sync.Mutex
	obs []CallObservation
}

func (r *recordingObserver) ObserveCall(obs CallObservation) {
	r.mu.Lock()
	r.obs = append(r.obs, obs)
	r.mu.Unlock()
}

type failingSessions struct{ MemorySessions }

func (f *failingSessions) SaveSession(string) error { return errors.New("disk full") }
