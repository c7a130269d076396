package planner

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/BerylCAtieno/rankrent-factory/internal/models"
	"github.com/BerylCAtieno/rankrent-factory/internal/planschema"
	"github.com/BerylCAtieno/rankrent-factory/internal/provider"
)

// synthesize asks for the full plan as schema-constrained JSON and validates
// it. Any failure is a *SynthesisFailure; there is no fallback and no retry.
func (p *Planner) synthesize(ctx context.Context, in Input, reconText string, emit func(string, models.LogType)) (*models.BusinessPlan, error) {
	emit("Analyzing Competitor Weaknesses from data...", models.LogInfo)
	emit(fmt.Sprintf("Calculating \"Money\" Keywords for %s market...", in.Language), models.LogInfo)

	req := provider.Request{
		Model: p.cfg.SynthesisModel,
		Parts: []string{
			buildSystemPrompt(in.Language, reconText),
			buildUserPrompt(in.Location, in.Niche, in.Language),
		},
		Schema:      planschema.Plan(),
		Temperature: provider.Float32(SynthesisTemperature),
	}

	emit("Synthesizing Master Blueprint...", models.LogInfo)
	emit("Generating Astro/React \"ProntoPro\" Clone Template...", models.LogInfo)
	emit("Writing Localized Content in "+in.Language.Upper()+"...", models.LogInfo)

	plan, err := p.generateAndValidate(ctx, req, in)
	if err != nil {
		log.Printf("ERROR: synthesis failed for %q in %q: %v", in.Niche, in.Location, err)
		emit("CRITICAL FAILURE in Synthesis Engine.", models.LogError)
		return nil, &SynthesisFailure{Err: err}
	}

	emit("Blueprint Generation Complete.", models.LogSuccess)
	return plan, nil
}

func (p *Planner) generateAndValidate(ctx context.Context, req provider.Request, in Input) (*models.BusinessPlan, error) {
	text, err := p.provider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, provider.ErrEmptyResponse
	}

	plan, err := planschema.Validate([]byte(text))
	if err != nil {
		return nil, err
	}
	if err := checkEcho(plan, in); err != nil {
		return nil, err
	}
	return plan, nil
}

// checkEcho requires the plan to restate the request inputs. Surrounding
// whitespace is ignored and trimmed from the plan.
func checkEcho(plan *models.BusinessPlan, in Input) error {
	plan.Location = strings.TrimSpace(plan.Location)
	plan.Niche = strings.TrimSpace(plan.Niche)
	var issues []planschema.Issue
	if plan.Location != in.Location {
		issues = append(issues, planschema.Issue{Path: "location", Reason: fmt.Sprintf("got %q, want %q", plan.Location, in.Location)})
	}
	if plan.Niche != in.Niche {
		issues = append(issues, planschema.Issue{Path: "niche", Reason: fmt.Sprintf("got %q, want %q", plan.Niche, in.Niche)})
	}
	if plan.Language != in.Language {
		issues = append(issues, planschema.Issue{Path: "language", Reason: fmt.Sprintf("got %q, want %q", plan.Language, in.Language)})
	}
	if len(issues) > 0 {
		return &planschema.SchemaViolation{Issues: issues}
	}
	return nil
}
