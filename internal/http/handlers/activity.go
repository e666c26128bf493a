package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/http/response"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/ctxutil"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/services"
)

// DefaultMaxUploadBytes bounds an activity export upload.
const DefaultMaxUploadBytes int64 = 64 << 20

type ActivityHandler struct {
	log      *logger.Logger
	insights services.InsightsService
	maxBytes int64
}

func NewActivityHandler(log *logger.Logger, insights services.InsightsService, maxBytes int64) *ActivityHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &ActivityHandler{
		log:      log.With("handler", "ActivityHandler"),
		insights: insights,
		maxBytes: maxBytes,
	}
}

// POST /api/activity/upload
// body: multipart form with a "file" part, or the raw export JSON.
func (h *ActivityHandler) Upload(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	raw, err := h.readExport(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_upload", err)
		return
	}
	res, err := h.insights.Aggregate(c.Request.Context(), userID, raw)
	if err != nil {
		response.RespondServiceError(c, "aggregate_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"result": res})
}

func (h *ActivityHandler) readExport(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("missing file part: %w", err)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()
		return io.ReadAll(f)
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("upload exceeds %d bytes", h.maxBytes)
		}
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("empty body")
	}
	return raw, nil
}
