package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/data/repos/testutil"
	types "github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/modules/profile"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/apierr"
)

func confirmAll(t *testing.T, h *harness, uid string) {
	t.Helper()
	ctx := context.Background()
	if _, err := h.svc.Aggregate(ctx, uid, recentExport(t)); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if _, err := h.svc.Synthesize(ctx, uid); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	view, err := h.svc.GetTiles(ctx, uid)
	if err != nil {
		t.Fatalf("GetTiles: %v", err)
	}
	sel := profile.Selections{}
	for _, c := range types.Categories {
		sel[c] = view.Tiles.Tags[c]
	}
	if _, err := h.svc.ConfirmTiles(ctx, uid, sel); err != nil {
		t.Fatalf("ConfirmTiles: %v", err)
	}
}

func TestChatReplyRequiresConfirmedTiles(t *testing.T) {
	h := newHarness(t)
	chat := NewChatService(testutil.Logger(t), h.profiles, h.gen, time.Second)
	ctx := context.Background()

	if _, err := h.svc.GetProfile(ctx, "chat-1", ProfileSeed{}); err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	_, err := chat.Reply(ctx, "chat-1", "Where should I eat tonight?", nil)
	var redirect *profile.RedirectError
	if !errors.As(err, &redirect) || redirect.To != profile.RouteUpload {
		t.Fatalf("want upload redirect, got %v", err)
	}
	if h.gen.chatSystem != "" {
		t.Fatalf("generator reached before gate")
	}
}

func TestChatReplyUsesConfirmedTiles(t *testing.T) {
	h := newHarness(t)
	confirmAll(t, h, "chat-2")
	chat := NewChatService(testutil.Logger(t), h.profiles, h.gen, time.Second)

	reply, err := chat.Reply(context.Background(), "chat-2", "Where should I eat tonight?", []ChatTurn{
		{Role: "user", Content: "Hi"},
		{Role: "assistant", Content: "Hello!"},
	})
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply != "Try the Musée Rodin." {
		t.Fatalf("reply: got=%q", reply)
	}
	if !strings.Contains(h.gen.chatSystem, "Bakeries") {
		t.Fatalf("system prompt missing confirmed tags: %q", h.gen.chatSystem)
	}
}

func TestChatReplyErrors(t *testing.T) {
	h := newHarness(t)
	confirmAll(t, h, "chat-3")
	chat := NewChatService(testutil.Logger(t), h.profiles, h.gen, time.Second)
	ctx := context.Background()

	_, err := chat.Reply(ctx, "chat-3", "   ", nil)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != http.StatusBadRequest {
		t.Fatalf("empty message: want 400 got %v", err)
	}

	h.gen.chatErr = errors.New("upstream 500")
	_, err = chat.Reply(ctx, "chat-3", "Coffee?", nil)
	if !errors.As(err, &ae) || ae.Status != http.StatusBadGateway {
		t.Fatalf("generator failure: want 502 got %v", err)
	}
}

func TestChatReplyLengthCountsCharacters(t *testing.T) {
	h := newHarness(t)
	confirmAll(t, h, "chat-4")
	chat := NewChatService(testutil.Logger(t), h.profiles, h.gen, time.Second)
	ctx := context.Background()

	if _, err := chat.Reply(ctx, "chat-4", strings.Repeat("é", maxChatMessageChars), nil); err != nil {
		t.Fatalf("%d two-byte characters: want accepted got %v", maxChatMessageChars, err)
	}
	_, err := chat.Reply(ctx, "chat-4", strings.Repeat("é", maxChatMessageChars+1), nil)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != "message_too_long" {
		t.Fatalf("over limit: want message_too_long got %v", err)
	}
}

func TestRenderConversation(t *testing.T) {
	if got := renderConversation(nil, "hello"); got != "hello" {
		t.Fatalf("no history: got=%q", got)
	}
	got := renderConversation([]ChatTurn{{Role: "assistant", Content: "Bonjour"}}, "hello")
	if !strings.Contains(got, "CityScout: Bonjour") || !strings.HasSuffix(got, "User: hello") {
		t.Fatalf("rendered: %q", got)
	}
}
