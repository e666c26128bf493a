package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/http/response"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/services"
)

type ChatHandler struct {
	chat services.ChatService
}

func NewChatHandler(chat services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// POST /api/chat
// body: { "message": "...", "history": [{"role": "user"|"assistant", "content": "..."}] }
func (h *ChatHandler) Reply(c *gin.Context) {
	rd, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		Message string              `json:"message"`
		History []services.ChatTurn `json:"history"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	reply, err := h.chat.Reply(c.Request.Context(), rd.UserID, req.Message, req.History)
	if err != nil {
		response.RespondServiceError(c, "chat_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"reply": reply})
}
