package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope is the body of every non-2xx response. Redirect is set only
// on precondition failures the client settles by navigating.
type ErrorEnvelope struct {
	Error    APIError `json:"error"`
	Redirect string   `json:"redirect,omitempty"`
}

// RespondError aborts with the error envelope and attaches err to the gin
// context for the request logger. An internal *apierr.Error contributes only
// a generic message to the body.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		_ = c.Error(err)
		msg = err.Error()
		var ae *apierr.Error
		if errors.As(err, &ae) {
			msg = ae.PublicMessage()
		}
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// RespondRedirect is a 409 naming the route that settles the precondition.
func RespondRedirect(c *gin.Context, code string, err error, to string) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusConflict, ErrorEnvelope{
		Error:    APIError{Message: err.Error(), Code: code},
		Redirect: to,
	})
}

// RespondOK writes payload without HTML escaping so tile category names
// such as "Food & Drink Favorites" reach clients verbatim.
func RespondOK(c *gin.Context, payload any) {
	c.PureJSON(http.StatusOK, payload)
}
