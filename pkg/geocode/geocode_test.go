package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smnshzh/MarketVisit/internal/domain"
	"github.com/smnshzh/MarketVisit/pkg/httpclient"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Resolver {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewResolver(httpclient.NewRestyClient(0), srv.URL+"/v1/features", nil)
}

func TestNeighborhoodFromFeatureProperties(t *testing.T) {
	var gotType, gotLocation string
	r := newServer(t, func(w http.ResponseWriter, req *http.Request) {
		gotType = req.URL.Query().Get("result_type")
		gotLocation = req.URL.Query().Get("location")
		_, _ = w.Write([]byte(`{"features":[{"name":"outer","properties":{"name":"ونک"}}]}`))
	})

	name := r.Neighborhood(context.Background(), domain.Coordinates{Lat: 35.75, Lng: 51.4})
	assert.Equal(t, "ونک", name)
	assert.Equal(t, "neighborhood", gotType)
	assert.Equal(t, "51.4,35.75", gotLocation)
}

func TestNamePrecedence(t *testing.T) {
	cases := map[string]string{
		`{"features":[{"name":"feature"}],"name":"root"}`: "feature",
		`{"features":[],"name":"root"}`:                   "root",
		`{"properties":{"name":"props"}}`:                 "props",
		`{"features":[{"properties":{"name":" "}}],"name":"root"}`: "root",
	}
	for body, want := range cases {
		body := body
		r := newServer(t, func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(body)) })
		assert.Equal(t, want, r.City(context.Background(), domain.Coordinates{Lat: 1, Lng: 2}), body)
	}
}

func TestFailuresReturnEmpty(t *testing.T) {
	bad := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	assert.Equal(t, "", bad.City(context.Background(), domain.Coordinates{}))

	garbage := newServer(t, func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("<html>")) })
	assert.Equal(t, "", garbage.Neighborhood(context.Background(), domain.Coordinates{}))

	empty := newServer(t, func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{}`)) })
	_, err := empty.Lookup(context.Background(), "city", domain.Coordinates{})
	require.Error(t, err)

	var nilResolver *Resolver
	assert.Equal(t, "", nilResolver.City(context.Background(), domain.Coordinates{}))
}
