package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/magiconair/properties/assert"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStatusBucket(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{301, "3xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, StatusBucket(tt.code), tt.want)
	}
}

func TestJobsFinishedByStatus(t *testing.T) {
	before := testutil.ToFloat64(JobsFinished.WithLabelValues("FAILED"))
	JobsFinished.WithLabelValues("FAILED").Inc()
	assert.Equal(t, testutil.ToFloat64(JobsFinished.WithLabelValues("FAILED")), before+1)
}

func TestMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", Handler())
	JobsSubmitted.Inc()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, strings.Contains(w.Body.String(), "rugscope_jobs_submitted_total"), true)
}
