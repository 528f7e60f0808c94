package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounters(t *testing.T) {
	r := New()
	r.TaskCaptured("shopping", "ok")
	r.TaskCaptured("shopping", "ok")
	r.Refit("fallback", true)
	r.SuggestionServed("default")
	r.CompletionsServed(2)
	r.SetProfiles(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.tasksCaptured.WithLabelValues("shopping", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.refits.WithLabelValues("fallback", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.suggestions.WithLabelValues("default")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.completions))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.profilesTracked))
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.SuggestionServed("default")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.suggestions.WithLabelValues("default")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New()
	r.HTTPRequest(http.MethodGet, "/health", "200", 5*time.Millisecond)
	r.TrackerRequest("ok", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `taskbrain_http_requests_total{code="200",method="GET",route="/health"} 1`))
	assert.Contains(t, text, "taskbrain_tracker_request_duration_seconds_count")
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.TaskCaptured("work", "ok")
	r.Refit("clustered", false)
	r.HTTPRequest(http.MethodGet, "/", "200", time.Millisecond)
}
