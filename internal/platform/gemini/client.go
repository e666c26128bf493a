// Package gemini implements text generation on Google's Gemini models.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/envutil"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
)

type Config struct {
	APIKey      string
	Model       string
	Project     string
	Location    string
	Temperature float32
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:      envutil.String("GEMINI_API_KEY", ""),
		Model:       envutil.String("GEMINI_MODEL", "gemini-2.5-flash"),
		Project:     envutil.String("GOOGLE_CLOUD_PROJECT", ""),
		Location:    envutil.String("GOOGLE_CLOUD_LOCATION", "us-central1"),
		Temperature: 0.7,
	}
}

// contentGenerator is the slice of *genai.Models the client needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	log         *logger.Logger
	models      contentGenerator
	model       string
	temperature float32
}

// NewClient uses the Gemini API when an API key is set and Vertex AI with
// application default credentials otherwise.
func NewClient(ctx context.Context, log *logger.Logger, cfg Config) (*Client, error) {
	var cc *genai.ClientConfig
	if cfg.APIKey != "" {
		cc = &genai.ClientConfig{Backend: genai.BackendGeminiAPI, APIKey: cfg.APIKey}
	} else {
		if cfg.Project == "" {
			return nil, fmt.Errorf("missing GEMINI_API_KEY or GOOGLE_CLOUD_PROJECT")
		}
		cc = &genai.ClientConfig{Backend: genai.BackendVertexAI, Project: cfg.Project, Location: cfg.Location}
	}
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	c := newClient(log, gc.Models, cfg)
	c.log.Info("Gemini client initialized", "model", c.model, "vertex", cfg.APIKey == "")
	return c, nil
}

func newClient(log *logger.Logger, models contentGenerator, cfg Config) *Client {
	model := strings.TrimPrefix(strings.TrimSpace(cfg.Model), "models/")
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Client{
		log:         log.With("client", "GeminiClient"),
		models:      models,
		model:       model,
		temperature: cfg.Temperature,
	}
}

func (c *Client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	return c.generate(ctx, system, user, "")
}

func (c *Client) GenerateJSONObject(ctx context.Context, system string, user string) (string, error) {
	return c.generate(ctx, system, user, "application/json")
}

func (c *Client) generate(ctx context.Context, system, user, mimeType string) (string, error) {
	temperature := c.temperature
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: mimeType,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
	}
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: user}}},
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini API")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", fmt.Errorf("no content in Gemini response")
	}
	var out strings.Builder
	for _, p := range candidate.Content.Parts {
		if p != nil && !p.Thought {
			out.WriteString(p.Text)
		}
	}
	if strings.TrimSpace(out.String()) == "" {
		return "", fmt.Errorf("empty text in Gemini response")
	}
	return out.String(), nil
}
