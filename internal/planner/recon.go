package planner

import (
	"context"
	"log"
	"strings"

	"github.com/BerylCAtieno/rankrent-factory/internal/models"
	"github.com/BerylCAtieno/rankrent-factory/internal/provider"
)

// ReconFallback replaces recon text whenever the grounded call fails.
const ReconFallback = "Simulated data fallback due to API error."

// recon gathers competitors and sub-areas with Maps grounding. It is best
// effort: every failure degrades to ReconFallback and is reported as a warning.
func (p *Planner) recon(ctx context.Context, location, niche string, emit func(string, models.LogType)) string {
	emit("Initializing Map Recon for: "+niche+" in "+location, models.LogInfo)

	req := provider.Request{
		Model:     p.cfg.ReconModel,
		Parts:     []string{buildReconPrompt(location, niche)},
		Grounding: provider.GroundingMaps,
	}

	emit("Querying Google Maps API...", models.LogInfo)
	text, err := p.provider.Generate(ctx, req)
	if err == nil && strings.TrimSpace(text) == "" {
		err = provider.ErrEmptyResponse
	}
	if err != nil {
		log.Printf("WARN: recon degraded: %v", err)
		emit("Recon API Failed. Falling back to simulation.", models.LogWarning)
		return ReconFallback
	}

	emit("Map Data Received. Extracted Neighbors & Competitors.", models.LogSuccess)
	return text
}
