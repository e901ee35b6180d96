package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationsPrimaryPrecedence(t *testing.T) {
	cases := []struct {
		name string
		loc  Locations
		want string
	}{
		{"local default", DefaultLocations(false), DefaultLocalLocation},
		{"hosted default", DefaultLocations(true), DefaultHostedLocation},
		{"override wins", Locations{PrimaryOverride: "https://api.example.com/", UseProxy: true, ProxyOrigin: "http://localhost:5173"}, "https://api.example.com"},
		{"proxy when local", Locations{UseProxy: true, ProxyOrigin: "http://localhost:5173"}, "http://localhost:5173"},
		{"proxy ignored when hosted", Locations{Hosted: true, UseProxy: true, ProxyOrigin: "http://localhost:5173"}, DefaultHostedLocation},
		{"proxy without origin", Locations{UseProxy: true}, DefaultLocalLocation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.loc.Primary())
		})
	}
}

func TestLocationsSecondary(t *testing.T) {
	assert.Equal(t, DefaultHostedLocation, DefaultLocations(false).Secondary())
	assert.Equal(t, DefaultLocalLocation, DefaultLocations(true).Secondary())

	proxy := Locations{UseProxy: true, ProxyOrigin: "http://localhost:5173"}
	assert.Equal(t, DefaultLocalLocation, proxy.Secondary())

	explicit := Locations{FallbackOverride: " http://backup:8000/ "}
	assert.Equal(t, "http://backup:8000", explicit.Secondary())
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "http://a/api/x?y=1", joinURL("http://a/", "/api/x?y=1"))
	assert.Equal(t, "http://a/api/x", joinURL("http://a", "api/x"))
}

func TestSameLocation(t *testing.T) {
	assert.True(t, sameLocation("HTTP://Localhost:8000/", "http://localhost:8000"))
	assert.False(t, sameLocation("http://localhost:8000", "http://localhost:8001"))
}
