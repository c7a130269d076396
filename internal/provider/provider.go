// Package provider is the transport to the generative model. Stages build a
// Request; a backend turns it into one blocking round-trip.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BerylCAtieno/rankrent-factory/internal/planschema"
)

var (
	ErrMissingAPIKey        = errors.New("provider: API key is not configured")
	ErrEmptyResponse        = errors.New("provider: empty response")
	ErrGroundingUnsupported = errors.New("provider: grounding tool not supported by backend")
)

// Grounding selects a retrieval tool the model may use while answering.
type Grounding int

const (
	GroundingNone Grounding = iota
	GroundingMaps
)

func (g Grounding) String() string {
	switch g {
	case GroundingMaps:
		return "maps"
	default:
		return "none"
	}
}

// Request is one generation call. Parts are sent in order as a single user
// turn. A non-nil Schema asks for JSON constrained to it.
type Request struct {
	Model       string
	Parts       []string
	Grounding   Grounding
	Schema      *planschema.Node
	Temperature *float32
}

// Prompt joins the parts, for logging and for backends with a single text input.
func (r Request) Prompt() string {
	return strings.Join(r.Parts, "\n\n")
}

// Provider performs generation calls against a model backend.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
	Close() error
}

// Backend names accepted by New.
const (
	BackendGenAI   = "genai"
	BackendLegacy  = "legacy"
	BackendOffline = "offline"
)

// New builds the configured backend. Real backends need an API key.
func New(ctx context.Context, backend, apiKey string) (Provider, error) {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == BackendOffline {
		return NewOffline(), nil
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	switch backend {
	case "", BackendGenAI:
		return NewGenAI(ctx, apiKey)
	case BackendLegacy:
		return NewLegacy(ctx, apiKey)
	default:
		return nil, fmt.Errorf("provider: unknown backend %q", backend)
	}
}

// Float32 returns a pointer to v, for Request.Temperature.
func Float32(v float32) *float32 { return &v }
