// Package planner runs the two-stage generation: grounded recon, then
// schema-constrained synthesis of the business plan.
package planner

import (
	"context"
	"log"
	"strings"

	"github.com/BerylCAtieno/rankrent-factory/internal/models"
	"github.com/BerylCAtieno/rankrent-factory/internal/provider"
)

const (
	DefaultModel         = "gemini-2.5-flash"
	SynthesisTemperature = float32(0.7)
)

// Config tunes the stages. APIKey is only checked for presence, the provider
// already holds it; Keyless skips that check for the offline backend.
type Config struct {
	APIKey         string
	Keyless        bool
	ReconModel     string
	SynthesisModel string
}

// Input is a validated generation request.
type Input struct {
	Location string
	Niche    string
	Language models.Language
}

// NewInput trims and checks raw form values.
func NewInput(location, niche, language string) (Input, error) {
	in := Input{
		Location: strings.TrimSpace(location),
		Niche:    strings.TrimSpace(niche),
	}
	if in.Location == "" {
		return Input{}, &InputError{Field: "location", Reason: "must not be empty"}
	}
	if in.Niche == "" {
		return Input{}, &InputError{Field: "niche", Reason: "must not be empty"}
	}
	lang, err := models.ParseLanguage(language)
	if err != nil {
		return Input{}, &InputError{Field: "language", Reason: err.Error()}
	}
	in.Language = lang
	return in, nil
}

// LogFunc receives progress entries synchronously, in emission order.
type LogFunc func(models.LogEntry)

type Planner struct {
	provider provider.Provider
	cfg      Config
}

func New(p provider.Provider, cfg Config) *Planner {
	if cfg.ReconModel == "" {
		cfg.ReconModel = DefaultModel
	}
	if cfg.SynthesisModel == "" {
		cfg.SynthesisModel = DefaultModel
	}
	return &Planner{provider: p, cfg: cfg}
}

// Ready reports a *ConfigurationError when no run can be attempted.
func (p *Planner) Ready() error {
	if p.provider == nil || (!p.cfg.Keyless && strings.TrimSpace(p.cfg.APIKey) == "") {
		return &ConfigurationError{Err: provider.ErrMissingAPIKey}
	}
	return nil
}

// GeneratePlan runs recon then synthesis. It either returns a fully valid plan
// or fails as a whole with a *ConfigurationError, *InputError or *SynthesisFailure.
func (p *Planner) GeneratePlan(ctx context.Context, location, niche string, lang models.Language, onLog LogFunc) (*models.BusinessPlan, error) {
	if err := p.Ready(); err != nil {
		return nil, err
	}
	in, err := NewInput(location, niche, string(lang))
	if err != nil {
		return nil, err
	}

	emit := func(message string, typ models.LogType) {
		if onLog != nil {
			onLog(models.NewLogEntry(message, typ))
		}
	}

	log.Printf("STATE: generating plan for %q in %q (%s) via %s", in.Niche, in.Location, in.Language, p.provider.Name())
	reconText := p.recon(ctx, in.Location, in.Niche, emit)

	plan, err := p.synthesize(ctx, in, reconText, emit)
	if err != nil {
		return nil, err
	}
	log.Printf("STATE: plan ready for %q in %q with %d site asset(s)", in.Niche, in.Location, len(plan.SiteAssets))
	return plan, nil
}
