package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/risport-go/api/middlewares"
)

func TestGatewayOnlyAllowsLoopback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewServer(0).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/self/v1/status", nil)
	req.RemoteAddr = "192.0.2.10:40000"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("remote caller: expected 403, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/self/v1/status", nil)
	req.RemoteAddr = "127.0.0.1:40000"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("local caller: expected 200, got %d", w.Code)
	}
	if w.Header().Get(middlewares.RequestIDHeader) == "" {
		t.Fatal("response is missing the request id")
	}
}
