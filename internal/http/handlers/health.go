package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/http/response"
)

// HealthCheck pings one dependency. It must return quickly.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthHandler struct {
	checks  []HealthCheck
	timeout time.Duration
}

func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// HealthCheck answers "ok" when every ping succeeds and 503 naming the first
// failing dependency otherwise.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()
	for _, chk := range h.checks {
		if chk.Ping == nil {
			continue
		}
		if err := chk.Ping(ctx); err != nil {
			response.RespondError(c, http.StatusServiceUnavailable, "unhealthy_"+chk.Name, err)
			return
		}
	}
	c.String(http.StatusOK, "ok")
}
