package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/http/response"
)

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		ping   func(context.Context) error
		status int
		code   string
	}{
		{"all pings succeed", func(context.Context) error { return nil }, http.StatusOK, ""},
		{"database down", func(context.Context) error { return errors.New("dial tcp: refused") }, http.StatusServiceUnavailable, "unhealthy_database"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(HealthCheck{Name: "database", Ping: tc.ping})
			r := gin.New()
			r.GET("/healthcheck", h.HealthCheck)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
			if rec.Code != tc.status {
				t.Fatalf("status: want=%d got=%d", tc.status, rec.Code)
			}
			if tc.code == "" {
				if rec.Body.String() != "ok" {
					t.Fatalf("body: got=%q", rec.Body.String())
				}
				return
			}
			var body response.ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error.Code != tc.code {
				t.Fatalf("code: want=%q got=%q", tc.code, body.Error.Code)
			}
		})
	}
}
