package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltInInstruments(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "tasksearch-test"})

	m.IncrementRequests("201")
	m.IncrementRequests("201")
	m.IncrementRequests("503")
	m.ObserveEmbedding(time.Now(), OutcomeSuccess)
	m.ObserveEmbedding(time.Now(), OutcomeFailure)
	m.IncrementTasksCreated()
	m.ObserveSearchResults(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("503")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.embeddingRequests.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksCreatedTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.searchResultsCounts))
}

func TestServiceLabelAndEndpoint(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "tasksearch-test", Namespace: "ts"})
	m.IncrementTasksCreated()
	m.RecordRequestDuration(time.Now(), "/tasks")

	rec := httptest.NewRecorder()
	m.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `ts_tasks_created_total{service="tasksearch-test"} 1`)
	assert.True(t, strings.Contains(body, "ts_request_duration_seconds_bucket"))
}

func TestDynamicFactories(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "tasksearch-test"})

	counter := m.CreateCounter("store_errors_total", "store errors", []string{"op"})
	counter.WithLabelValues("create").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("create")))

	gauge := m.CreateGauge("pool_in_use", "connections in use", []string{"pool"})
	gauge.WithLabelValues("primary").Set(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(gauge.WithLabelValues("primary")))

	hist := m.CreateHistogram("query_seconds", "query latency", []string{"op"}, []float64{0.1, 1})
	hist.WithLabelValues("nearest").Observe(0.2)
	assert.Equal(t, 1, testutil.CollectAndCount(hist))
}

func TestDefaultAddress(t *testing.T) {
	m := NewMetrics(Config{})
	assert.Equal(t, DefaultMetricsAddress, m.Server.Addr)
}
