package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/modules/activity"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/modules/profile"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/apierr"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/locks"
)

// RespondServiceError maps a service error onto the API envelope. Errors
// without a known type become a 500 with fallbackCode.
func RespondServiceError(c *gin.Context, fallbackCode string, err error) {
	var (
		validation *activity.ValidationError
		selection  *profile.SelectionError
		stage      *profile.StageError
		redirect   *profile.RedirectError
	)
	switch {
	case errors.As(err, &validation):
		RespondError(c, http.StatusBadRequest, "invalid_activity_export", err)
	case errors.As(err, &selection):
		RespondError(c, http.StatusBadRequest, "invalid_tile_selection", err)
	case errors.As(err, &redirect):
		RespondRedirect(c, "preferences_not_confirmed", err, redirect.To)
	case errors.As(err, &stage) && stage.Stage == profile.StagePersist:
		RespondError(c, http.StatusInternalServerError, "persist_failed",
			&apierr.Error{Status: http.StatusInternalServerError, Code: "persist_failed", Err: err, Internal: true})
	case errors.As(err, &stage):
		RespondError(c, http.StatusBadGateway, "synthesis_failed", err)
	case errors.Is(err, locks.ErrUserBusy):
		RespondError(c, http.StatusConflict, "user_busy", err)
	default:
		ae := apierr.From(err, fallbackCode)
		RespondError(c, ae.Status, ae.Code, ae)
	}
}
