package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/http/response"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/modules/profile"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/ctxutil"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/services"
)

type ProfileHandler struct {
	log      *logger.Logger
	insights services.InsightsService
}

func NewProfileHandler(log *logger.Logger, insights services.InsightsService) *ProfileHandler {
	return &ProfileHandler{
		log:      log.With("handler", "ProfileHandler"),
		insights: insights,
	}
}

func requireUser(c *gin.Context) (*ctxutil.RequestData, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return nil, false
	}
	return rd, true
}

// GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	rd, ok := requireUser(c)
	if !ok {
		return
	}
	view, err := h.insights.GetProfile(c.Request.Context(), rd.UserID, services.ProfileSeed{
		Email:       rd.Email,
		DisplayName: rd.DisplayName,
		AvatarURL:   rd.AvatarURL,
	})
	if err != nil {
		response.RespondServiceError(c, "load_profile_failed", err)
		return
	}
	response.RespondOK(c, view)
}

// POST /api/profile/synthesize
func (h *ProfileHandler) Synthesize(c *gin.Context) {
	rd, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.insights.Synthesize(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, "synthesis_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"report": out.Report,
		"tiles":  out.Tiles,
		"state":  profile.StateTilesPendingReview,
	})
}

// GET /api/profile/tiles
func (h *ProfileHandler) GetTiles(c *gin.Context) {
	rd, ok := requireUser(c)
	if !ok {
		return
	}
	view, err := h.insights.GetTiles(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, "load_tiles_failed", err)
		return
	}
	response.RespondOK(c, view)
}

// POST /api/profile/tiles/confirm
// body: the kept tags in the flat tiles shape, {"<Category>": ["tag", ...], ...}.
// Reason keys are ignored.
func (h *ProfileHandler) ConfirmTiles(c *gin.Context) {
	rd, ok := requireUser(c)
	if !ok {
		return
	}
	var req types.PersonalityTiles
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	selections := profile.Selections{}
	for cat, tags := range req.Tags {
		selections[cat] = tags
	}
	p, err := h.insights.ConfirmTiles(c.Request.Context(), rd.UserID, selections)
	if err != nil {
		response.RespondServiceError(c, "confirm_tiles_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p, "state": profile.StateOf(p)})
}

// GET /api/profile/insights
func (h *ProfileHandler) GetInsights(c *gin.Context) {
	rd, ok := requireUser(c)
	if !ok {
		return
	}
	view, err := h.insights.GetInsights(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, "load_insights_failed", err)
		return
	}
	response.RespondOK(c, view)
}

// POST /api/profile/onboarding/complete
func (h *ProfileHandler) CompleteOnboarding(c *gin.Context) {
	rd, ok := requireUser(c)
	if !ok {
		return
	}
	p, err := h.insights.CompleteOnboarding(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, "complete_onboarding_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}

// DELETE /api/profile/insights
func (h *ProfileHandler) ResetInsights(c *gin.Context) {
	rd, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.insights.Reset(c.Request.Context(), rd.UserID); err != nil {
		response.RespondServiceError(c, "reset_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true, "state": profile.StateNoTiles, "redirect": profile.RouteUpload})
}
