package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smnshzh/MarketVisit/pkg/httpclient"
)

const (
	testPrimary   = "http://primary.test"
	testSecondary = "http://secondary.test"
)

func newTestClient(t *testing.T, transport httpclient.Client, mutate ...func(*Options)) *Client {
	t.Helper()
	opts := Options{
		Locations: Locations{PrimaryOverride: testPrimary, FallbackOverride: testSecondary},
		Transport: transport,
	}
	for _, m := range mutate {
		m(&opts)
	}
	return NewClient(opts)
}

func TestCallFallsBackOnceOnNetworkFailure(t *testing.T) {
	ft := &fakeTransport{handle: func(_ context.Context, req httpclient.Request) (httpclient.Response, error) {
		if strings.HasPrefix(req.URL, testPrimary) {
			return nil, errConnRefused
		}
		return jsonResponse(http.StatusOK, `{"value":42}`), nil
	}}
	obs := &recordingObserver{}
	c := newTestClient(t, ft, func(o *Options) { o.Observer = obs })

	var out struct{ Value int }
	require.NoError(t, c.Call(context.Background(), "/api/thing", RequestOptions{}, &out))

	assert.Equal(t, 42, out.Value)
	assert.Equal(t, []string{testPrimary + "/api/thing", testSecondary + "/api/thing"}, ft.urls())
	require.Len(t, obs.obs, 1)
	assert.True(t, obs.obs[0].FellBack)
	assert.Equal(t, 2, obs.obs[0].Attempts)
	assert.Equal(t, "ok", obs.obs[0].Outcome)
}

func TestCallBothLocationsUnreachable(t *testing.T) {
	ft := &fakeTransport{handle: func(context.Context, httpclient.Request) (httpclient.Response, error) {
		return nil, errConnRefused
	}}
	c := newTestClient(t, ft)

	err := c.Call(context.Background(), "/api/thing", RequestOptions{}, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork))
	assert.Equal(t, DefaultMessages().Unreachable, err.Error())
	assert.Len(t, ft.urls(), 2)
	assert.ErrorIs(t, err, errConnRefused)
}

func TestCallPersianMessages(t *testing.T) {
	ft := &fakeTransport{handle: func(context.Context, httpclient.Request) (httpclient.Response, error) {
		return nil, errConnRefused
	}}
	c := newTestClient(t, ft, func(o *Options) { o.Messages = MessagesFor("fa") })

	err := c.Call(context.Background(), "/api/thing", RequestOptions{}, nil)
	require.Error(t, err)
	assert.Equal(t, "مشکل در سرور با ادمین تماس بگیرید", err.Error())
}

func TestCallHTTPErrorIsNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer srv.Close()

	c := NewClient(Options{
		Locations: Locations{PrimaryOverride: srv.URL, FallbackOverride: testSecondary},
		Transport: httpclient.NewRestyClient(0),
	})

	err := c.Call(context.Background(), "/api/auth/login", RequestOptions{Method: http.MethodPut, Body: map[string]string{"username": "a"}}, nil)
	require.Error(t, err)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindHTTP, apiErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid credentials", apiErr.Message)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestCallTimeoutIsNotRetried(t *testing.T) {
	ft := &fakeTransport{handle: func(ctx context.Context, _ httpclient.Request) (httpclient.Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	c := newTestClient(t, ft, func(o *Options) {
		o.Timeout = 20 * time.Millisecond
		o.Fallback = AlwaysFallback
	})

	err := c.Call(context.Background(), "/api/thing", RequestOptions{}, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTimeout))
	assert.Equal(t, DefaultMessages().Timeout, err.Error())
	assert.Len(t, ft.urls(), 1)
}

func TestCallHostedNeverFallsBack(t *testing.T) {
	ft := &fakeTransport{handle: func(context.Context, httpclient.Request) (httpclient.Response, error) {
		return nil, errConnRefused
	}}
	c := newTestClient(t, ft, func(o *Options) { o.Locations.Hosted = true })

	err := c.Call(context.Background(), "/api/thing", RequestOptions{}, nil)
	assert.True(t, IsKind(err, KindNetwork))
	assert.Len(t, ft.urls(), 1)
}

func TestCallNoFallbackWhenLocationsMatch(t *testing.T) {
	ft := &fakeTransport{handle: func(context.Context, httpclient.Request) (httpclient.Response, error) {
		return nil, errConnRefused
	}}
	c := newTestClient(t, ft, func(o *Options) { o.Locations.FallbackOverride = testPrimary + "/" })

	require.Error(t, c.Call(context.Background(), "/api/thing", RequestOptions{}, nil))
	assert.Len(t, ft.urls(), 1)
}

func TestCallPolicyCanDisableFallback(t *testing.T) {
	ft := &fakeTransport{handle: func(context.Context, httpclient.Request) (httpclient.Response, error) {
		return nil, errConnRefused
	}}
	c := newTestClient(t, ft, func(o *Options) { o.Fallback = NeverFallback })

	require.Error(t, c.Call(context.Background(), "/api/thing", RequestOptions{}, nil))
	assert.Len(t, ft.urls(), 1)
}

func TestCallCancelledParentSkipsFallback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ft := &fakeTransport{handle: func(context.Context, httpclient.Request) (httpclient.Response, error) {
		cancel()
		return nil, context.Canceled
	}}
	c := newTestClient(t, ft)

	err := c.Call(ctx, "/api/thing", RequestOptions{}, nil)
	assert.True(t, IsKind(err, KindNetwork))
	assert.Len(t, ft.urls(), 1)
}

func TestCallFallbackHTTPErrorSurfacesVerbatim(t *testing.T) {
	ft := &fakeTransport{handle: func(_ context.Context, req httpclient.Request) (httpclient.Response, error) {
		if strings.HasPrefix(req.URL, testPrimary) {
			return nil, errConnRefused
		}
		return jsonResponse(http.StatusNotFound, `{"detail":"Group not found"}`), nil
	}}
	c := newTestClient(t, ft)

	err := c.Call(context.Background(), "/api/store-groups", RequestOptions{}, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindHTTP))
	assert.Equal(t, "Group not found", err.Error())
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	apiErr, _ := AsError(err)
	assert.Equal(t, testSecondary, apiErr.Location)
}

func TestCallDecodeFailure(t *testing.T) {
	ft := &fakeTransport{handle: func(context.Context, httpclient.Request) (httpclient.Response, error) {
		return &fakeResponse{status: http.StatusOK, body: []byte("<html>oops</html>")}, nil
	}}
	c := newTestClient(t, ft)

	var out map[string]any
	err := c.Call(context.Background(), "/api/thing", RequestOptions{}, &out)
	assert.True(t, IsKind(err, KindDecode))
	assert.Equal(t, DefaultMessages().Decode, err.Error())

	err = c.Call(context.Background(), "/api/thing", RequestOptions{}, nil)
	assert.True(t, IsKind(err, KindDecode))
	assert.Len(t, ft.urls(), 2)
}

func TestCallNoContentSkipsDecode(t *testing.T) {
	ft := &fakeTransport{handle: func(context.Context, httpclient.Request) (httpclient.Response, error) {
		return &fakeResponse{status: http.StatusNoContent}, nil
	}}
	c := newTestClient(t, ft)

	var out map[string]any
	assert.NoError(t, c.Call(context.Background(), "/api/thing", RequestOptions{Method: http.MethodDelete}, &out))
}

func TestCallCredentials(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(t, ft)
	require.NoError(t, c.Sessions().SaveSession("tok-1"))

	require.NoError(t, c.Call(context.Background(), "/api/auth/me", RequestOptions{}, nil))
	assert.Equal(t, "Bearer tok-1", ft.last().Headers["Authorization"])
	assert.Equal(t, "application/json", ft.last().Headers["Content-Type"])

	require.NoError(t, c.Call(context.Background(), "/api/store-comments", RequestOptions{Credentials: CredentialsOmit}, nil))
	_, has := ft.last().Headers["Authorization"]
	assert.False(t, has)
}

func TestCallCallerHeadersOverrideDefaults(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(t, ft)

	require.NoError(t, c.Call(context.Background(), "/x", RequestOptions{Headers: map[string]string{"Accept": "text/plain"}}, nil))
	assert.Equal(t, "text/plain", ft.last().Headers["Accept"])
}

func TestCallRejectsInvalidRequests(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(t, ft)

	err := c.Call(context.Background(), "/x", RequestOptions{Method: "BREW"}, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	err = c.Call(context.Background(), "/x", RequestOptions{Method: http.MethodPost, Body: make(chan int)}, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	err = c.Call(context.Background(), "  ", RequestOptions{}, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, isAPI := AsError(err)
	assert.False(t, isAPI)
	assert.Empty(t, ft.urls())
}

func TestCallEncodesBody(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(t, ft)

	require.NoError(t, c.Call(context.Background(), "/x", RequestOptions{Method: "post", Body: map[string]int{"a": 1}}, nil))
	assert.Equal(t, http.MethodPost, ft.last().Method)
	assert.JSONEq(t, `{"a":1}`, string(ft.last().Body))

	require.NoError(t, c.Call(context.Background(), "/x", RequestOptions{Method: http.MethodPost, Body: []byte(`raw`)}, nil))
	assert.Equal(t, "raw", string(ft.last().Body))
}

func TestCallObserverStripsQuery(t *testing.T) {
	ft := &fakeTransport{handle: func(context.Context, httpclient.Request) (httpclient.Response, error) {
		return jsonResponse(http.StatusBadRequest, `{"message":"bad"}`), nil
	}}
	obs := &recordingObserver{}
	c := newTestClient(t, ft, func(o *Options) { o.Observer = obs })

	require.Error(t, c.Call(context.Background(), "/api/nearby-stores?lat=1&lng=2", RequestOptions{}, nil))
	require.Len(t, obs.obs, 1)
	assert.Equal(t, "/api/nearby-stores", obs.obs[0].Endpoint)
	assert.Equal(t, "http", obs.obs[0].Outcome)
	assert.Equal(t, http.StatusBadRequest, obs.obs[0].StatusCode)
	assert.Equal(t, 1, obs.obs[0].Attempts)
}

func TestTransportTimeoutErrorClassified(t *testing.T) {
	c := newTestClient(t, &fakeTransport{})
	err := c.transportError(testPrimary, context.DeadlineExceeded)
	assert.True(t, IsKind(err, KindTimeout))
	err = c.transportError(testPrimary, errors.New("no route to host"))
	assert.True(t, IsKind(err, KindNetwork))
}

func TestCallAgainstClosedServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var hits int32
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer up.Close()

	c := NewClient(Options{
		Locations: Locations{PrimaryOverride: url, FallbackOverride: up.URL},
		Transport: httpclient.NewRestyClient(0),
	})
	var out StatusResponse
	require.NoError(t, c.Call(context.Background(), "/api/auth/me", RequestOptions{}, &out))
	assert.True(t, out.Success)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}
