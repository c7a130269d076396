package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BerylCAtieno/rankrent-factory/internal/models"
)

// Offline answers without network access: canned recon text and a sample plan
// echoing the target lines of the synthesis prompt. Used for demos and smoke tests.
type Offline struct{}

func NewOffline() *Offline { return &Offline{} }

func (o *Offline) Name() string { return BackendOffline }
func (o *Offline) Close() error { return nil }

func (o *Offline) Generate(_ context.Context, req Request) (string, error) {
	if req.Schema == nil {
		return "Competitors: none found (offline mode).\nAreas: Centro, Nord, Sud, Est, Ovest, Porto.", nil
	}
	prompt := req.Prompt()
	location := promptValue(prompt, "Target Location:")
	niche := promptValue(prompt, "Target Niche:")
	lang, err := models.ParseLanguage(promptValue(prompt, "Language:"))
	if err != nil {
		lang = models.LanguageEnglish
	}
	b, err := json.Marshal(SamplePlan(location, niche, lang))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func promptValue(prompt, label string) string {
	for _, line := range strings.Split(prompt, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, label); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// SamplePlan returns a small but schema-valid plan for the given inputs.
func SamplePlan(location, niche string, lang models.Language) models.BusinessPlan {
	slug := strings.ToLower(strings.Join(strings.Fields(niche), "-"))
	city := strings.TrimSpace(strings.Split(location, ",")[0])
	domain := fmt.Sprintf("%s-%s.com", slug, strings.ToLower(strings.Join(strings.Fields(city), "")))

	return models.BusinessPlan{
		Location:         location,
		Niche:            niche,
		Language:         lang,
		ExecutiveSummary: fmt.Sprintf("Demand for %s in %s outstrips the quality of local supply.", niche, location),
		GMBAnalysis: models.GMBAnalysis{
			PrimaryCategory:     niche,
			SecondaryCategories: []string{niche + " emergency service"},
		},
		GeoGridStrategy: []models.GeoGridPoint{
			{Name: "Centro", Type: "District", TargetValue: "High"},
			{Name: "Porto", Type: "Neighborhood", TargetValue: "Medium"},
		},
		CompetitorAnalysis: []models.CompetitorAnalysis{
			{Name: "Local Leader", Weakness: "Slow response times", ContentGap: []string{"weekend service"}},
		},
		Keywords: []models.KeywordMetric{
			{Keyword: niche + " " + city, AvgMonthlySearches: 880, Competition: "Medium", CPCLow: 1.2, CPCHigh: 4.5},
		},
		DomainStrategy: models.DomainStrategy{
			SelectedDomain: domain,
			DomainType:     "EMD",
			Alternatives:   []string{"best-" + domain},
			Rationale:      "Exact match on the money keyword.",
		},
		LeadFunnel: models.LeadFunnel{
			Strategy: "Qualify urgency before contact details.",
			Questions: []models.QualifyingQuestion{
				{Question: "How urgent is the job?", Options: []string{"Today", "This week"}, Rationale: "Urgent leads sell higher."},
			},
		},
		WebsiteStructure: models.WebsiteStructure{
			Strategy: "One silo per service.",
			ServiceSilos: []models.SiloPage{
				{PageTitle: niche + " " + city, URLSlug: "/" + slug, TargetKeyword: niche + " " + city, ContentFocus: "Core service"},
			},
		},
		GoogleAdsPlan: models.GoogleAdsPlan{
			AdGroups: []models.AdGroup{{Name: "Core", TargetKeywords: []string{niche + " " + city}}},
			ExampleAd: models.AdCopy{
				Headline1:   niche + " in " + city,
				Headline2:   "Free Quote Today",
				Description: "Trusted local professionals.",
			},
		},
		ProfitProjection: models.ProfitProjection{
			EstimatedAdSpend:       500,
			TargetSalePricePerLead: 40,
			TotalPotentialRevenue:  2000,
			NetProfit:              1500,
			LeadsCount:             50,
		},
		AstroStack: models.AstroStack{
			Framework:    "Astro",
			Styling:      "Tailwind CSS",
			Deployment:   "Netlify",
			CMS:          "Markdown",
			TemplateRepo: "withastro/astro",
			Rationale:    "Static pages rank and load fast.",
		},
		SiteAssets: []models.GeneratedFile{
			{Path: "src/pages/index.astro", Content: "---\nimport Layout from '../layouts/Layout.astro';\n---\n<Layout />\n", Language: "html", Description: "Homepage"},
			{Path: "src/layouts/Layout.astro", Content: "<html><body><slot /></body></html>\n", Language: "html", Description: "Layout"},
			{Path: "package.json", Content: "{\"name\":\"" + slug + "\"}\n", Language: "json", Description: "Project manifest"},
		},
	}
}
