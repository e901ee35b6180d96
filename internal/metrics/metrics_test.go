package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smnshzh/MarketVisit/pkg/api"
)

func TestObserveCallCountsOutcomeAndFallback(t *testing.T) {
	rec := NewRecorder(nil)
	rec.ObserveCall(api.CallObservation{
		Endpoint: "/api/nearby-stores",
		Method:   "GET",
		Outcome:  "ok",
		Attempts: 2,
		FellBack: true,
		Duration: 250 * time.Millisecond,
	})
	rec.ObserveCall(api.CallObservation{
		Endpoint:   "/api/auth/login",
		Method:     "PUT",
		Outcome:    "http",
		StatusCode: 401,
		Attempts:   1,
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.apiCalls.WithLabelValues("/api/nearby-stores", "GET", "ok", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.apiCalls.WithLabelValues("/api/auth/login", "PUT", "http", "401")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.apiFallbacks.WithLabelValues("/api/nearby-stores", "ok")))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.apiFallbacks))
	assert.Equal(t, 2, testutil.CollectAndCount(rec.apiLatency))
}

func TestRecorderSatisfiesObserver(t *testing.T) {
	var _ api.Observer = NewRecorder(nil)
}

func TestObservePollAndPublish(t *testing.T) {
	rec := NewRecorder(nil)
	rec.ObservePoll("vanak", 5, 2, nil)
	rec.ObservePoll("vanak", 0, 0, errors.New("boom"))
	rec.ObservePublish("vanak", PublishDelivered)
	rec.ObservePublish("vanak", "")

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.pollRuns.WithLabelValues("vanak", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.pollRuns.WithLabelValues("vanak", "error")))
	assert.Equal(t, 5.0, testutil.ToFloat64(rec.storesFound.WithLabelValues("vanak")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.storesNew.WithLabelValues("vanak")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.publishEvents.WithLabelValues("vanak", "delivered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.publishEvents.WithLabelValues("vanak", "failed")))
}

func TestHandlerServesRegistry(t *testing.T) {
	rec := NewRecorder(nil)
	rec.ObservePoll("tajrish", 1, 1, nil)

	srv := httptest.NewServer(rec.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `marketvisit_watcher_polls_total{area="tajrish",result="ok"} 1`))
}

func TestNilRecorder(t *testing.T) {
	var rec *Recorder
	rec.ObserveCall(api.CallObservation{})
	rec.ObservePoll("a", 1, 1, nil)
	rec.ObservePublish("a", PublishDelivered)

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	families, err := rec.Gatherer().Gather()
	require.NoError(t, err)
	assert.Empty(t, families)
}
