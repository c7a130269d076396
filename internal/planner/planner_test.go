package planner

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/BerylCAtieno/rankrent-factory/internal/models"
	"github.com/BerylCAtieno/rankrent-factory/internal/planschema"
	"github.com/BerylCAtieno/rankrent-factory/internal/provider"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	milano  = "Milano, IT"
	plumber = "Emergency Plumber"
)

type logLine struct {
	Type    models.LogType
	Message string
}

type recorder struct {
	lines []logLine
}

func (r *recorder) log(e models.LogEntry) {
	r.lines = append(r.lines, logLine{Type: e.Type, Message: e.Message})
}

func planJSON(t *testing.T, location, niche string, lang models.Language) string {
	t.Helper()
	b, err := json.Marshal(provider.SamplePlan(location, niche, lang))
	require.NoError(t, err)
	return string(b)
}

func newPlanner(fake *provider.Fake) *Planner {
	return New(fake, Config{APIKey: "test-key"})
}

func TestGeneratePlan_Milano(t *testing.T) {
	fake := provider.NewFake(
		provider.Reply{Text: "Competitors: Idraulico Rossi (4.1), Pronto Tubi (3.8)"},
		provider.Reply{Text: planJSON(t, milano, plumber, models.LanguageItalian)},
	)
	rec := &recorder{}

	plan, err := newPlanner(fake).GeneratePlan(context.Background(), milano, plumber, models.LanguageItalian, rec.log)
	require.NoError(t, err)

	assert.Equal(t, milano, plan.Location)
	assert.Equal(t, plumber, plan.Niche)
	assert.Equal(t, models.LanguageItalian, plan.Language)
	_, ok := plan.Asset("src/pages/index.astro")
	assert.True(t, ok, "index.astro asset missing")

	want := []logLine{
		{models.LogInfo, "Initializing Map Recon for: Emergency Plumber in Milano, IT"},
		{models.LogInfo, "Querying Google Maps API..."},
		{models.LogSuccess, "Map Data Received. Extracted Neighbors & Competitors."},
		{models.LogInfo, "Analyzing Competitor Weaknesses from data..."},
		{models.LogInfo, `Calculating "Money" Keywords for it market...`},
		{models.LogInfo, "Synthesizing Master Blueprint..."},
		{models.LogInfo, `Generating Astro/React "ProntoPro" Clone Template...`},
		{models.LogInfo, "Writing Localized Content in IT..."},
		{models.LogSuccess, "Blueprint Generation Complete."},
	}
	if diff := cmp.Diff(want, rec.lines); diff != "" {
		t.Fatalf("log lines mismatch (-want +got):\n%s", diff)
	}

	reqs := fake.Requests()
	require.Len(t, reqs, 2)

	recon := reqs[0]
	assert.Equal(t, provider.GroundingMaps, recon.Grounding)
	assert.Nil(t, recon.Schema)
	assert.Equal(t, DefaultModel, recon.Model)
	assert.Contains(t, recon.Prompt(), `"Emergency Plumber" in "Milano, IT"`)

	synth := reqs[1]
	assert.Equal(t, provider.GroundingNone, synth.Grounding)
	require.NotNil(t, synth.Schema)
	require.NotNil(t, synth.Temperature)
	assert.InDelta(t, 0.7, *synth.Temperature, 1e-6)
	require.Len(t, synth.Parts, 2)
	assert.Contains(t, synth.Parts[0], "TARGET LANGUAGE: IT")
	assert.Contains(t, synth.Parts[0], "Idraulico Rossi")
	for _, path := range SiteFiles {
		assert.Contains(t, synth.Parts[0], path)
	}
	assert.Contains(t, synth.Parts[1], "Target Location: Milano, IT")
	assert.Contains(t, synth.Parts[1], "Target Niche: Emergency Plumber")
	assert.Contains(t, synth.Parts[1], "Language: it")
}

func TestGeneratePlan_ReconFailureDegrades(t *testing.T) {
	cases := map[string]provider.Reply{
		"error": {Err: errors.New("quota exceeded")},
		"empty": {Text: "  \n"},
	}
	for name, reconReply := range cases {
		t.Run(name, func(t *testing.T) {
			fake := provider.NewFake(
				reconReply,
				provider.Reply{Text: planJSON(t, "Austin, TX", "Roofing", models.LanguageEnglish)},
			)
			rec := &recorder{}

			plan, err := newPlanner(fake).GeneratePlan(context.Background(), "Austin, TX", "Roofing", models.LanguageEnglish, rec.log)
			require.NoError(t, err)
			require.NotNil(t, plan)

			require.GreaterOrEqual(t, len(rec.lines), 3)
			assert.Equal(t, logLine{models.LogWarning, "Recon API Failed. Falling back to simulation."}, rec.lines[2])
			for _, l := range rec.lines {
				assert.NotEqual(t, models.LogError, l.Type)
			}
			assert.Equal(t, logLine{models.LogSuccess, "Blueprint Generation Complete."}, rec.lines[len(rec.lines)-1])

			reqs := fake.Requests()
			require.Len(t, reqs, 2)
			assert.Contains(t, reqs[1].Parts[0], ReconFallback)
		})
	}
}

func TestGeneratePlan_InvalidSynthesisJSON(t *testing.T) {
	fake := provider.NewFake(
		provider.Reply{Text: "recon"},
		provider.Reply{Text: `{"location": "Milano, IT"`},
	)
	rec := &recorder{}

	plan, err := newPlanner(fake).GeneratePlan(context.Background(), milano, plumber, models.LanguageItalian, rec.log)
	assert.Nil(t, plan)

	var sf *SynthesisFailure
	require.ErrorAs(t, err, &sf)
	var sv *planschema.SchemaViolation
	assert.ErrorAs(t, err, &sv)

	last := rec.lines[len(rec.lines)-1]
	assert.Equal(t, logLine{models.LogError, "CRITICAL FAILURE in Synthesis Engine."}, last)
	for _, l := range rec.lines {
		assert.NotEqual(t, "Blueprint Generation Complete.", l.Message)
	}
}

func TestGeneratePlan_SynthesisProviderError(t *testing.T) {
	boom := errors.New("503 from model")
	fake := provider.NewFake(
		provider.Reply{Text: "recon"},
		provider.Reply{Err: boom},
	)

	_, err := newPlanner(fake).GeneratePlan(context.Background(), milano, plumber, models.LanguageItalian, nil)
	var sf *SynthesisFailure
	require.ErrorAs(t, err, &sf)
	assert.ErrorIs(t, err, boom)
}

func TestGeneratePlan_EchoMismatch(t *testing.T) {
	fake := provider.NewFake(
		provider.Reply{Text: "recon"},
		provider.Reply{Text: planJSON(t, "Roma, IT", plumber, models.LanguageItalian)},
	)

	_, err := newPlanner(fake).GeneratePlan(context.Background(), milano, plumber, models.LanguageItalian, nil)
	var sv *planschema.SchemaViolation
	require.ErrorAs(t, err, &sv)
	assert.Equal(t, []string{"location"}, sv.Paths())
}

func TestGeneratePlan_EchoIgnoresSurroundingSpace(t *testing.T) {
	fake := provider.NewFake(
		provider.Reply{Text: "recon"},
		provider.Reply{Text: planJSON(t, milano+" ", " "+plumber, models.LanguageItalian)},
	)

	plan, err := newPlanner(fake).GeneratePlan(context.Background(), milano, plumber, models.LanguageItalian, nil)
	require.NoError(t, err)
	assert.Equal(t, milano, plan.Location)
	assert.Equal(t, plumber, plan.Niche)
}

func TestGeneratePlan_MissingCredential(t *testing.T) {
	fake := provider.NewFake()
	rec := &recorder{}

	_, err := New(fake, Config{}).GeneratePlan(context.Background(), milano, plumber, models.LanguageItalian, rec.log)
	assert.True(t, IsConfiguration(err), "got %v", err)
	assert.ErrorIs(t, err, provider.ErrMissingAPIKey)
	assert.Zero(t, fake.Calls())
	assert.Empty(t, rec.lines)
}

func TestGeneratePlan_NilProvider(t *testing.T) {
	_, err := New(nil, Config{APIKey: "k"}).GeneratePlan(context.Background(), milano, plumber, models.LanguageItalian, nil)
	assert.True(t, IsConfiguration(err), "got %v", err)
}

func TestGeneratePlan_InvalidInput(t *testing.T) {
	cases := []struct {
		name     string
		location string
		niche    string
		lang     models.Language
		field    string
	}{
		{"empty location", "  ", plumber, models.LanguageEnglish, "location"},
		{"empty niche", milano, "", models.LanguageEnglish, "niche"},
		{"unsupported language", milano, plumber, "pt", "language"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := provider.NewFake()
			_, err := newPlanner(fake).GeneratePlan(context.Background(), tc.location, tc.niche, tc.lang, nil)
			var ie *InputError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tc.field, ie.Field)
			assert.Zero(t, fake.Calls())
		})
	}
}

func TestGeneratePlan_TrimsInputs(t *testing.T) {
	fake := provider.NewFake(
		provider.Reply{Text: "recon"},
		provider.Reply{Text: planJSON(t, milano, plumber, models.LanguageItalian)},
	)
	plan, err := newPlanner(fake).GeneratePlan(context.Background(), "  Milano, IT ", " Emergency Plumber\t", models.LanguageItalian, nil)
	require.NoError(t, err)
	assert.Equal(t, milano, plan.Location)
}

func TestGeneratePlan_Offline(t *testing.T) {
	p := New(provider.NewOffline(), Config{Keyless: true})
	plan, err := p.GeneratePlan(context.Background(), "Lyon, FR", "Serrurier", models.LanguageFrench, nil)
	require.NoError(t, err)
	assert.Equal(t, "Lyon, FR", plan.Location)
	assert.Equal(t, models.LanguageFrench, plan.Language)
}
