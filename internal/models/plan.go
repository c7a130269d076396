package models

// BusinessPlan is the structured blueprint returned by the synthesis stage.
// Every field is required; a plan is immutable once validated.
type BusinessPlan struct {
	Location           string               `json:"location" validate:"required"`
	Niche              string               `json:"niche" validate:"required"`
	Language           Language             `json:"language" validate:"required,oneof=en it es fr de"`
	ExecutiveSummary   string               `json:"executiveSummary"`
	GMBAnalysis        GMBAnalysis          `json:"gmbAnalysis"`
	GeoGridStrategy    []GeoGridPoint       `json:"geoGridStrategy" validate:"dive"`
	CompetitorAnalysis []CompetitorAnalysis `json:"competitorAnalysis"`
	Keywords           []KeywordMetric      `json:"keywords" validate:"dive"`
	DomainStrategy     DomainStrategy       `json:"domainStrategy"`
	LeadFunnel         LeadFunnel           `json:"leadFunnel"`
	WebsiteStructure   WebsiteStructure     `json:"websiteStructure"`
	GoogleAdsPlan      GoogleAdsPlan        `json:"googleAdsPlan"`
	ProfitProjection   ProfitProjection     `json:"profitProjection"`
	AstroStack         AstroStack           `json:"astroStack"`
	SiteAssets         []GeneratedFile      `json:"siteAssets" validate:"unique=Path,dive"`
}

type GMBAnalysis struct {
	PrimaryCategory     string   `json:"primaryCategory"`
	SecondaryCategories []string `json:"secondaryCategories"`
}

type GeoGridPoint struct {
	Name        string `json:"name"`
	Type        string `json:"type" validate:"oneof=Neighborhood Suburb District"`
	TargetValue string `json:"targetValue" validate:"oneof=High Medium Low"`
}

type CompetitorAnalysis struct {
	Name       string   `json:"name"`
	Weakness   string   `json:"weakness"`
	ContentGap []string `json:"contentGap"`
}

type KeywordMetric struct {
	Keyword            string  `json:"keyword"`
	AvgMonthlySearches float64 `json:"avgMonthlySearches" validate:"gte=0"`
	Competition        string  `json:"competition" validate:"oneof=High Medium Low"`
	CPCLow             float64 `json:"cpcLow" validate:"gte=0"`
	CPCHigh            float64 `json:"cpcHigh" validate:"gte=0,gtefield=CPCLow"`
}

type DomainStrategy struct {
	SelectedDomain string   `json:"selectedDomain"`
	DomainType     string   `json:"domainType"`
	Alternatives   []string `json:"alternatives"`
	Rationale      string   `json:"rationale"`
}

type QualifyingQuestion struct {
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Rationale string   `json:"rationale"`
}

type LeadFunnel struct {
	Strategy  string               `json:"strategy"`
	Questions []QualifyingQuestion `json:"questions"`
}

type SiloPage struct {
	PageTitle     string `json:"pageTitle"`
	URLSlug       string `json:"urlSlug"`
	TargetKeyword string `json:"targetKeyword"`
	ContentFocus  string `json:"contentFocus"`
}

type WebsiteStructure struct {
	Strategy     string     `json:"strategy"`
	ServiceSilos []SiloPage `json:"serviceSilos"`
}

type AdGroup struct {
	Name           string   `json:"name"`
	TargetKeywords []string `json:"targetKeywords"`
}

type AdCopy struct {
	Headline1   string `json:"headline1"`
	Headline2   string `json:"headline2"`
	Description string `json:"description"`
}

type GoogleAdsPlan struct {
	AdGroups  []AdGroup `json:"adGroups"`
	ExampleAd AdCopy    `json:"exampleAd"`
}

// ProfitProjection figures are monthly. NetProfit may be negative.
type ProfitProjection struct {
	EstimatedAdSpend       float64 `json:"estimatedAdSpend" validate:"gte=0"`
	TargetSalePricePerLead float64 `json:"targetSalePricePerLead" validate:"gte=0"`
	TotalPotentialRevenue  float64 `json:"totalPotentialRevenue" validate:"gte=0"`
	NetProfit              float64 `json:"netProfit"`
	LeadsCount             float64 `json:"leadsCount" validate:"gte=0"`
}

type AstroStack struct {
	Framework    string `json:"framework"`
	Styling      string `json:"styling"`
	Deployment   string `json:"deployment"`
	CMS          string `json:"cms"`
	TemplateRepo string `json:"templateRepo"`
	Rationale    string `json:"rationale"`
}

// GeneratedFile is one source file of the generated site bundle.
type GeneratedFile struct {
	Path        string `json:"path" validate:"required,sitepath"`
	Content     string `json:"content"`
	Language    string `json:"language" validate:"oneof=typescript markdown json html css"`
	Description string `json:"description"`
}

// Asset returns the site asset stored under path, if any.
func (p *BusinessPlan) Asset(path string) (GeneratedFile, bool) {
	if p == nil {
		return GeneratedFile{}, false
	}
	for _, f := range p.SiteAssets {
		if f.Path == path {
			return f, true
		}
	}
	return GeneratedFile{}, false
}
