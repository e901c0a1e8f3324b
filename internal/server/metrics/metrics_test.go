package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.RecordServed("objects", 3)

	assert.Equal(t, 3.0, testutil.ToFloat64(a.ObjectsServedTotal.WithLabelValues("objects")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ObjectsServedTotal.WithLabelValues("objects")))
}

func TestRecordHTTPRequest(t *testing.T) {
	m := New()
	m.RecordHTTPRequest("objects", http.StatusOK, 20*time.Millisecond)
	m.RecordHTTPRequest("objects", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("objects", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("objects", "404")))
}

func TestRecordHydration(t *testing.T) {
	m := New()
	at := time.Unix(1700000000, 0)

	m.RecordHydration(10, nil, at)
	m.RecordHydration(5, errors.New("s3 down"), at.Add(time.Hour))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HydrationRunsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HydrationRunsTotal.WithLabelValues("error")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.HydrationObjectsTotal))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.HydrationLastSuccess))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	m.PagesOutOfRange.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "taxii_pages_out_of_range_total 1")
}
