package provider

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/BerylCAtieno/rankrent-factory/internal/planschema"
	"google.golang.org/genai"
)

// GenAIClient talks to the Gemini API through google.golang.org/genai. It is
// the only backend that can ground answers with Google Maps.
type GenAIClient struct {
	client *genai.Client
}

func NewGenAI(ctx context.Context, apiKey string) (*GenAIClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GenAIClient{client: client}, nil
}

func (g *GenAIClient) Name() string { return BackendGenAI }

func (g *GenAIClient) Close() error { return nil }

func (g *GenAIClient) Generate(ctx context.Context, req Request) (string, error) {
	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		parts = append(parts, genai.NewPartFromText(p))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	log.Printf("LLM request (%s, grounding=%s): %d bytes", req.Model, req.Grounding, len(req.Prompt()))
	resp, err := g.client.Models.GenerateContent(ctx, req.Model, contents, buildConfig(req))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func buildConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: req.Temperature,
	}
	if req.Grounding == GroundingMaps {
		cfg.Tools = []*genai.Tool{{GoogleMaps: &genai.GoogleMaps{}}}
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = planschema.ToGenAI(req.Schema)
	}
	return cfg
}
