package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := New()

	r.Webhook("UK", http.StatusOK)
	r.Webhook("UK", http.StatusOK)
	r.Webhook("", http.StatusBadRequest)
	r.TagWrite("order", "ok")
	r.TagWrite("customer", "error")
	r.SubscriptionsFound(3)
	r.SubscriptionsFound(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.webhooksTotal.WithLabelValues("UK", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.webhooksTotal.WithLabelValues("unknown", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.tagWritesTotal.WithLabelValues("order", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.tagWritesTotal.WithLabelValues("customer", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.subscriptionsFoundTotal))
}

func TestRecorder_Upstream(t *testing.T) {
	r := New()

	r.Upstream("app.sealsubscriptions.com", 200, 20*time.Millisecond)
	r.Upstream("app.sealsubscriptions.com", 0, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.upstreamRequestsTotal.WithLabelValues("app.sealsubscriptions.com", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.upstreamRequestsTotal.WithLabelValues("app.sealsubscriptions.com", "error")))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder

	assert.NotPanics(t, func() {
		r.Webhook("UK", 200)
		r.Upstream("host", 200, time.Millisecond)
		r.TagWrite("order", "ok")
		r.SubscriptionsFound(1)
	})
	assert.NotNil(t, r.Handler())
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.Webhook("US", http.StatusUnauthorized)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `flow_seal_proxy_webhooks_total{region="US",status="401"} 1`)
}
