package a2a

import (
	"strings"

	"github.com/BerylCAtieno/rankrent-factory/internal/models"
)

const (
	AgentName    = "Rank & Rent Factory"
	AgentVersion = "1.0.0"
	BlueprintRPC = "/a2a/blueprint"
)

type AgentCard struct {
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	URL                string         `json:"url"`
	Version            string         `json:"version"`
	DefaultInputModes  []string       `json:"defaultInputModes"`
	DefaultOutputModes []string       `json:"defaultOutputModes"`
	Capabilities       Capabilities   `json:"capabilities"`
	Skills             []Skill        `json:"skills"`
	Provider           *AgentProvider `json:"provider,omitempty"`
}

type Capabilities struct {
	Streaming         bool `json:"streaming"`
	PushNotifications bool `json:"pushNotifications"`
}

type AgentProvider struct {
	Organization string `json:"organization"`
}

type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Examples    []string `json:"examples"`
}

// NewAgentCard describes the blueprint skill served at baseURL.
func NewAgentCard(baseURL string) AgentCard {
	return AgentCard{
		Name: AgentName,
		Description: "Turns a location and a service niche into a lead-generation business plan " +
			"with a deployable Astro site bundle, using Google Maps grounded market recon.",
		URL:                strings.TrimRight(baseURL, "/") + BlueprintRPC,
		Version:            AgentVersion,
		DefaultInputModes:  []string{"text/plain", "application/json"},
		DefaultOutputModes: []string{"text/markdown", "application/json"},
		Capabilities:       Capabilities{},
		Skills: []Skill{{
			ID:   "rank-rent-blueprint",
			Name: "Rank & Rent blueprint",
			Description: "Send \"<niche> in <location> [" + strings.Join(models.LanguageCodes(), "|") + "]\" " +
				"or a data part {location, niche, language}.",
			Tags:     []string{"seo", "local-business", "lead-generation", "astro"},
			Examples: []string{"Emergency Plumber in Milano, IT it", "Roofing in Austin, TX"},
		}},
	}
}
