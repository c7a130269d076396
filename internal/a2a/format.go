package a2a

import (
	"fmt"
	"strings"

	"github.com/BerylCAtieno/rankrent-factory/internal/models"
)

// FormatPlan renders the headline sections of a plan as markdown.
func FormatPlan(plan *models.BusinessPlan, planID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Rank & Rent Blueprint: %s in %s\n\n", plan.Niche, plan.Location)
	if planID != "" {
		fmt.Fprintf(&b, "_Plan id: %s_\n\n", planID)
	}
	b.WriteString(strings.TrimSpace(plan.ExecutiveSummary))
	b.WriteString("\n\n")

	d := plan.DomainStrategy
	b.WriteString("**Domain:**\n")
	fmt.Fprintf(&b, "- %s (%s)\n", d.SelectedDomain, d.DomainType)
	if len(d.Alternatives) > 0 {
		fmt.Fprintf(&b, "- Alternatives: %s\n", strings.Join(d.Alternatives, ", "))
	}

	if len(plan.GeoGridStrategy) > 0 {
		b.WriteString("\n**Geo Grid:**\n")
		for _, g := range plan.GeoGridStrategy {
			fmt.Fprintf(&b, "- %s (%s, %s value)\n", g.Name, g.Type, g.TargetValue)
		}
	}

	if len(plan.Keywords) > 0 {
		b.WriteString("\n**Keywords:**\n")
		for _, k := range plan.Keywords {
			fmt.Fprintf(&b, "- %s: %.0f searches/mo, %s competition, CPC %.2f-%.2f\n",
				k.Keyword, k.AvgMonthlySearches, k.Competition, k.CPCLow, k.CPCHigh)
		}
	}

	p := plan.ProfitProjection
	b.WriteString("\n**Profit Projection (monthly):**\n")
	fmt.Fprintf(&b, "- Ad spend: %.2f\n", p.EstimatedAdSpend)
	fmt.Fprintf(&b, "- Leads: %.0f at %.2f per lead\n", p.LeadsCount, p.TargetSalePricePerLead)
	fmt.Fprintf(&b, "- Revenue: %.2f\n", p.TotalPotentialRevenue)
	fmt.Fprintf(&b, "- Net profit: %.2f\n", p.NetProfit)

	if len(plan.SiteAssets) > 0 {
		b.WriteString("\n**Site Assets:**\n")
		for _, f := range plan.SiteAssets {
			fmt.Fprintf(&b, "- `%s` %s\n", f.Path, strings.TrimSpace(f.Description))
		}
	}
	return b.String()
}
