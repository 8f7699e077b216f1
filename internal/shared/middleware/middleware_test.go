package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookstore-graphql/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	return r
}

func TestRequestID_Generated(t *testing.T) {
	r := newEngine(RequestID())
	var fromGin, fromCtx string
	r.GET("/", func(c *gin.Context) {
		fromGin = c.GetString(RequestIDKey)
		fromCtx = RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	header := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(header)
	require.NoError(t, err)
	assert.Equal(t, header, fromGin)
	assert.Equal(t, header, fromCtx)
}

func TestRequestID_Propagated(t *testing.T) {
	r := newEngine(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "trace-123", w.Header().Get(RequestIDHeader))
}

func TestRequestIDFromContext_Missing(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		method     string
		wantOrigin string
		wantStatus int
	}{
		{"any origin", nil, "http://a.test", http.MethodPost, "*", http.StatusOK},
		{"listed origin", []string{"http://a.test"}, "http://a.test", http.MethodPost, "http://a.test", http.StatusOK},
		{"unlisted origin", []string{"http://a.test"}, "http://b.test", http.MethodPost, "", http.StatusOK},
		{"preflight", nil, "http://a.test", http.MethodOptions, "*", http.StatusNoContent},
		{"no origin", nil, "", http.MethodPost, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(CORS(tt.allowed...))
			r.POST("/graphql", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(tt.method, "/graphql", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRecovery(t *testing.T) {
	r := newEngine(RequestID(), Recovery(), Logger())
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Error.Code)
}

func TestLogger_PassesThrough(t *testing.T) {
	r := newEngine(Logger())
	r.GET("/missing", func(c *gin.Context) { c.String(http.StatusNotFound, "nope") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "nope", w.Body.String())
}
