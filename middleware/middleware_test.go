package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exvulsec/rugscope/metrics"
	"github.com/exvulsec/rugscope/model"
)

func newRouter(apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestMetrics(), CheckAPIKEY(apiKey))
	r.GET("/ping", func(c *gin.Context) {
		SetCode(c, http.StatusNotFound)
		c.JSON(http.StatusOK, model.Message{Code: http.StatusNotFound})
	})
	return r
}

func decodeCode(t *testing.T, w *httptest.ResponseRecorder) int64 {
	t.Helper()
	msg := model.Message{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	return msg.Code
}

func TestCheckAPIKEY(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		target string
		header string
		code   int64
	}{
		{name: "disabled", apiKey: "", target: "/ping", code: http.StatusNotFound},
		{name: "missing", apiKey: "secret", target: "/ping", code: http.StatusUnauthorized},
		{name: "wrong", apiKey: "secret", target: "/ping?apikey=nope", code: http.StatusUnauthorized},
		{name: "query", apiKey: "secret", target: "/ping?apikey=secret", code: http.StatusNotFound},
		{name: "header", apiKey: "secret", target: "/ping", header: "secret", code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set(APIKeyHeader, tt.header)
			}
			w := httptest.NewRecorder()
			newRouter(tt.apiKey).ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.code, decodeCode(t, w))
		})
	}
}

func TestRequestMetricsUsesEnvelopeCode(t *testing.T) {
	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/ping", "4xx")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	newRouter("").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
