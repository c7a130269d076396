package provider

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/BerylCAtieno/rankrent-factory/internal/planschema"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// LegacyClient uses the github.com/google/generative-ai-go SDK. It supports
// schema-constrained JSON but has no Maps tool, so grounded requests fail
// with ErrGroundingUnsupported.
type LegacyClient struct {
	client *genai.Client
}

func NewLegacy(ctx context.Context, apiKey string) (*LegacyClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &LegacyClient{client: client}, nil
}

func (l *LegacyClient) Name() string { return BackendLegacy }

func (l *LegacyClient) Close() error {
	return l.client.Close()
}

func (l *LegacyClient) Generate(ctx context.Context, req Request) (string, error) {
	if req.Grounding != GroundingNone {
		return "", fmt.Errorf("%w: %s", ErrGroundingUnsupported, req.Grounding)
	}

	model := l.client.GenerativeModel(req.Model)
	if req.Temperature != nil {
		model.SetTemperature(*req.Temperature)
	}
	if req.Schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = planschema.ToLegacy(req.Schema)
	}

	parts := make([]genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		parts = append(parts, genai.Text(p))
	}

	log.Printf("LLM request (%s, legacy): %d bytes", req.Model, len(req.Prompt()))
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
