package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/data/repos"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/modules/profile"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/observability"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/apierr"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/dbctx"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
)

const maxChatMessageChars = 4000

// ChatTurn is one prior exchange line supplied by the client.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatService interface {
	Reply(ctx context.Context, userID string, message string, history []ChatTurn) (string, error)
}

type chatService struct {
	log         *logger.Logger
	profileRepo repos.UserProfileRepo
	gen         profile.TextGenerator
	timeout     time.Duration
}

func NewChatService(log *logger.Logger, profileRepo repos.UserProfileRepo, gen profile.TextGenerator, timeout time.Duration) ChatService {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &chatService{
		log:         log.With("service", "ChatService"),
		profileRepo: profileRepo,
		gen:         gen,
		timeout:     timeout,
	}
}

func (s *chatService) Reply(ctx context.Context, userID string, message string, history []ChatTurn) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apierr.BadRequest("empty_message", errors.New("message is required"))
	}
	if utf8.RuneCountInString(message) > maxChatMessageChars {
		return "", apierr.BadRequest("message_too_long", fmt.Errorf("message exceeds %d characters", maxChatMessageChars))
	}

	p, err := s.profileRepo.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return "", fmt.Errorf("load profile: %w", err)
	}
	if err := (profile.Gate{}).Require(p); err != nil {
		return "", err
	}
	tiles, err := p.Tiles()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	ctx, span := observability.StartSpan(ctx, "chat.reply")
	reply, err := s.gen.GenerateText(ctx, profile.ChatSystemPrompt(tiles), renderConversation(history, message))
	observability.EndSpan(span, err)
	if err != nil {
		s.log.Warn("Chat generation failed", "user_id", userID, "error", err)
		return "", apierr.BadGateway("chat_failed", fmt.Errorf("chat reply: %w", err))
	}
	return strings.TrimSpace(reply), nil
}

func renderConversation(history []ChatTurn, message string) string {
	if len(history) == 0 {
		return message
	}
	var b strings.Builder
	b.WriteString("Conversation so far:\n")
	for _, turn := range history {
		role := "User"
		if strings.EqualFold(turn.Role, "assistant") {
			role = "CityScout"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, strings.TrimSpace(turn.Content))
	}
	b.WriteString("\nUser: ")
	b.WriteString(message)
	return b.String()
}
