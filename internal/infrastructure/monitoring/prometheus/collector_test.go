package prometheus

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RegisterAndServe(t *testing.T) {
	c := NewCollector(CollectorConfig{Namespace: "rxndb"})

	counter := c.RegisterCounter("test_total", "test counter", "op")
	counter.WithLabelValues("filter").Inc()
	counter.WithLabelValues("filter").Inc()

	gauge := c.RegisterGauge("test_rows", "test gauge", "source")
	gauge.WithLabelValues("yaml").Set(42)

	assert.Equal(t, 2.0, testutil.ToFloat64(counter.WithLabelValues("filter")))
	assert.Equal(t, 42.0, testutil.ToFloat64(gauge.WithLabelValues("yaml")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "rxndb_test_total")
	assert.Contains(t, rec.Body.String(), "rxndb_test_rows")
}

func TestCollector_RegisterTwiceReturnsSameVec(t *testing.T) {
	c := NewCollector(CollectorConfig{Namespace: "rxndb"})

	a := c.RegisterCounter("dup_total", "dup", "op")
	b := c.RegisterCounter("dup_total", "dup", "op")
	assert.Same(t, a, b)
}

func TestNewAppMetrics(t *testing.T) {
	c := NewCollector(CollectorConfig{Namespace: "rxndb"})
	m := NewAppMetrics(c)

	m.FilterRequestsTotal.WithLabelValues("reactants_and_products", "and").Inc()
	m.ReactionRows.WithLabelValues("yaml").Set(123)
	m.GroupCount.WithLabelValues("and").Set(7)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.FilterRequestsTotal.WithLabelValues("reactants_and_products", "and")))
	assert.Equal(t, 123.0, testutil.ToFloat64(m.ReactionRows.WithLabelValues("yaml")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.GroupCount.WithLabelValues("and")))
}
