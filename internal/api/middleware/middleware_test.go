package middleware

import (
	"bytes"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"syscall"
	"testing"

	"storefront/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRecoveryRendersJSON(t *testing.T) {
	var logs bytes.Buffer
	r := gin.New()
	r.Use(Recovery(logger.NewWithWriter("error", &logs)))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	assert.Contains(t, logs.String(), "kaboom")
}

func TestBrokenConnection(t *testing.T) {
	pipe := &net.OpError{Op: "write", Err: os.NewSyscallError("write", syscall.EPIPE)}
	assert.True(t, brokenConnection(pipe))
	assert.False(t, brokenConnection("plain string"))
	assert.False(t, brokenConnection(&net.OpError{Op: "dial", Err: os.ErrDeadlineExceeded}))
}

func TestAdminKey(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		given      string
		want       int
	}{
		{"match", "k", "k", http.StatusOK},
		{"mismatch", "k", "x", http.StatusUnauthorized},
		{"missing header", "k", "", http.StatusUnauthorized},
		{"unconfigured", "", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/admin", AdminKey(tt.configured), func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			if tt.given != "" {
				req.Header.Set(AdminKeyHeader, tt.given)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCORSRestrictsOrigins(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://shop.example"}))
	r.GET("/api/products", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "https://shop.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
