package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"near-rpc-relay/internal/config"
)

var testCORS = config.CORSConfig{
	AllowOrigin:  "*",
	AllowMethods: "GET, POST, OPTIONS",
	AllowHeaders: "Content-Type",
}

func assertCORS(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	want := map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestCORS_SetsHeadersOnSuccess(t *testing.T) {
	e := echo.New()
	e.Use(CORS(testCORS))
	e.POST("/rpc", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodPost, "/rpc", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "ok")
	}
	assertCORS(t, rec)
}

func TestCORS_SetsHeadersOnError(t *testing.T) {
	e := echo.New()
	e.Use(CORS(testCORS))
	e.POST("/rpc", func(c echo.Context) error {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "boom"})
	})

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"handler error", http.MethodPost, "/rpc", http.StatusInternalServerError},
		{"router not found", http.MethodPost, "/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			assertCORS(t, rec)
		})
	}
}

func TestCORS_HandlesPreflightOnAnyPath(t *testing.T) {
	e := echo.New()
	e.Use(CORS(testCORS))
	e.POST("/rpc", func(c echo.Context) error {
		t.Error("handler should not be called for OPTIONS preflight")
		return nil
	})

	for _, path := range []string{"/rpc", "/", "/not/registered"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, path, http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if rec.Body.Len() != 0 {
				t.Errorf("body = %q, want empty", rec.Body.String())
			}
			assertCORS(t, rec)
		})
	}
}

func TestCORS_CustomOrigin(t *testing.T) {
	e := echo.New()
	e.Use(CORS(config.CORSConfig{
		AllowOrigin:  "http://localhost:8080",
		AllowMethods: "POST, OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	req := httptest.NewRequest(http.MethodOptions, "/rpc", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:8080" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "http://localhost:8080")
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Errorf("Access-Control-Allow-Methods = %q, want %q", got, "POST, OPTIONS")
	}
}
