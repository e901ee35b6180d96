package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smnshzh/MarketVisit/internal/config"
	"github.com/smnshzh/MarketVisit/internal/logger"
	"github.com/smnshzh/MarketVisit/pkg/api"
)

func testCLI(t *testing.T, backendURL string) (*cli, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		APIURL:                 backendURL,
		APIHosted:              true,
		APIFallback:            config.FallbackAuto,
		APIMessages:            "en",
		APITimeout:             2 * time.Second,
		GeocodingTimeout:       time.Second,
		StorageType:            "bbolt",
		BBoltPath:              filepath.Join(dir, "cli.db"),
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
		SessionTTL:             time.Hour,
		DefaultLat:             35.7,
		DefaultLng:             51.4,
	}
	out := &bytes.Buffer{}
	c := newCLI(out)
	c.loadConfig = func() (*config.Config, error) { return cfg, nil }
	c.initLogger = func(*config.Config) (logger.Logger, error) { return logger.NopLogger{}, nil }
	t.Cleanup(func() { _ = c.close() })
	return c, out
}

func execute(c *cli, args ...string) error {
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestDateCommands(t *testing.T) {
	c, out := testCLI(t, "")

	require.NoError(t, execute(c, "date", "to-jalali", "2024-03-20"))
	assert.Equal(t, "1403/01/01\n", out.String())

	out.Reset()
	require.NoError(t, execute(c, "date", "to-gregorian", "1403/01/01"))
	assert.Equal(t, "2024-03-20\n", out.String())

	out.Reset()
	require.NoError(t, execute(c, "date", "to-jalali", "--time", "2024-03-20T08:15:00"))
	assert.Equal(t, "1403/01/01 08:15:00\n", out.String())

	assert.Nil(t, c.rt, "date commands must not open the runtime")
}

func TestNearbyUsesDefaultPosition(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"stores":[{"id":3,"name":"Bakery"}],"count":1}`))
	}))
	defer srv.Close()

	c, out := testCLI(t, srv.URL)
	require.NoError(t, execute(c, "stores", "nearby", "--max-distance", "250", "--category", "bakery"))

	assert.Contains(t, query, "lat=35.7")
	assert.Contains(t, query, "lng=51.4")
	assert.Contains(t, query, "maxDistance=250")
	assert.Contains(t, query, "category=bakery")

	var stores []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &stores))
	require.Len(t, stores, 1)
	assert.Equal(t, "Bakery", stores[0]["name"])
}

func TestLoginKeepsSessionForLaterCommands(t *testing.T) {
	var authHeaders []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/login":
			_, _ = w.Write([]byte(`{"success":true,"user":{"id":1,"username":"sara"},"sessionToken":"tok-9"}`))
		default:
			_, _ = w.Write([]byte(`{"success":true,"user":{"id":1,"username":"sara"}}`))
		}
	}))
	defer srv.Close()

	c, out := testCLI(t, srv.URL)
	require.NoError(t, execute(c, "auth", "login", "--username", "sara", "--password", "secret"))
	require.NoError(t, execute(c, "auth", "me"))

	require.Len(t, authHeaders, 2)
	assert.Equal(t, "Bearer tok-9", authHeaders[1])
	assert.True(t, strings.Contains(out.String(), `"username": "sara"`))
}

func TestBackendErrorMessageIsPrintedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer srv.Close()

	c, _ := testCLI(t, srv.URL)
	err := execute(c, "auth", "login", "--username", "sara", "--password", "wrong")
	require.Error(t, err)
	assert.Equal(t, 401, api.StatusCode(err))
	assert.Equal(t, "invalid credentials", errorText(err))
	assert.Equal(t, "marketvisit: boom", errorText(errors.New("boom")))
}

func TestArgumentValidation(t *testing.T) {
	c, _ := testCLI(t, "http://127.0.0.1:1")

	assert.Error(t, execute(c, "comments", "list", "abc"))
	assert.Error(t, execute(c, "stores", "workshop", "5", "maybe"))

	ids, err := parseIDs([]string{"1,2", "3"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)
	_, err = parseIDs([]string{"0"})
	assert.Error(t, err)
}
