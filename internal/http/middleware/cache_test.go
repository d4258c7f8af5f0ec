package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNoStoreSetsHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NoStore())
	r.GET("/api/jobs/:jobId", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/x", nil))
	if got := rec.Header().Get("Cache-Control"); !strings.Contains(got, "no-store") {
		t.Fatalf("unexpected Cache-Control: %q", got)
	}
	if rec.Header().Get("Pragma") != "no-cache" || rec.Header().Get("Expires") != "0" {
		t.Fatalf("missing legacy cache headers: %v", rec.Header())
	}
}

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	for _, tc := range []struct {
		body string
		want int
	}{
		{"small", http.StatusOK},
		{"much larger than eight bytes", http.StatusRequestEntityTooLarge},
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(tc.body)))
		if rec.Code != tc.want {
			t.Fatalf("body %q: got=%d want=%d", tc.body, rec.Code, tc.want)
		}
	}
}
