// Package planschema holds the single definition of what a generated
// business plan must look like. The same tree constrains the provider's
// output and validates the payload that comes back.
package planschema

import (
	"github.com/BerylCAtieno/rankrent-factory/internal/models"
)

// Type is a primitive or container kind in the schema tree.
type Type string

const (
	TypeObject Type = "object"
	TypeArray  Type = "array"
	TypeString Type = "string"
	TypeNumber Type = "number"
)

// Node is a provider-neutral schema node.
type Node struct {
	Type        Type             `json:"type"`
	Description string           `json:"description,omitempty"`
	Enum        []string         `json:"enum,omitempty"`
	Items       *Node            `json:"items,omitempty"`
	Properties  map[string]*Node `json:"properties,omitempty"`
	// Order keeps property declaration order; providers emit fields in it.
	Order    []string `json:"propertyOrdering,omitempty"`
	Required []string `json:"required,omitempty"`
}

type field struct {
	name string
	node *Node
}

func prop(name string, node *Node) field { return field{name: name, node: node} }

// object builds an object node where every property is required.
func object(fields ...field) *Node {
	n := &Node{
		Type:       TypeObject,
		Properties: make(map[string]*Node, len(fields)),
	}
	for _, f := range fields {
		n.Properties[f.name] = f.node
		n.Order = append(n.Order, f.name)
		n.Required = append(n.Required, f.name)
	}
	return n
}

func str() *Node                  { return &Node{Type: TypeString} }
func num() *Node                  { return &Node{Type: TypeNumber} }
func enum(values ...string) *Node { return &Node{Type: TypeString, Enum: values} }
func array(items *Node) *Node     { return &Node{Type: TypeArray, Items: items} }
func strList() *Node              { return array(str()) }

func describe(n *Node, d string) *Node {
	n.Description = d
	return n
}

var (
	levels        = []string{"High", "Medium", "Low"}
	areaTypes     = []string{"Neighborhood", "Suburb", "District"}
	fileLanguages = []string{"typescript", "markdown", "json", "html", "css"}
)

// Plan returns a fresh copy of the BusinessPlan schema.
func Plan() *Node {
	return object(
		prop("location", str()),
		prop("niche", str()),
		prop("language", enum(models.LanguageCodes()...)),
		prop("executiveSummary", describe(str(),
			"A punchy, direct-response style paragraph summarizing why this is a money-making opportunity.")),
		prop("gmbAnalysis", object(
			prop("primaryCategory", str()),
			prop("secondaryCategories", strList()),
		)),
		prop("geoGridStrategy", array(object(
			prop("name", str()),
			prop("type", enum(areaTypes...)),
			prop("targetValue", enum(levels...)),
		))),
		prop("competitorAnalysis", array(object(
			prop("name", str()),
			prop("weakness", describe(str(), "The primary complaint found in 1-star reviews.")),
			prop("contentGap", describe(strList(), "Keywords/Services they are failing to target.")),
		))),
		prop("keywords", array(object(
			prop("keyword", str()),
			prop("avgMonthlySearches", num()),
			prop("competition", enum(levels...)),
			prop("cpcLow", num()),
			prop("cpcHigh", describe(num(), "Never lower than cpcLow.")),
		))),
		prop("domainStrategy", object(
			prop("selectedDomain", str()),
			prop("domainType", str()),
			prop("alternatives", strList()),
			prop("rationale", str()),
		)),
		prop("leadFunnel", object(
			prop("strategy", str()),
			prop("questions", array(object(
				prop("question", str()),
				prop("options", strList()),
				prop("rationale", str()),
			))),
		)),
		prop("websiteStructure", object(
			prop("strategy", str()),
			prop("serviceSilos", array(object(
				prop("pageTitle", str()),
				prop("urlSlug", str()),
				prop("targetKeyword", str()),
				prop("contentFocus", str()),
			))),
		)),
		prop("googleAdsPlan", object(
			prop("adGroups", array(object(
				prop("name", str()),
				prop("targetKeywords", strList()),
			))),
			prop("exampleAd", object(
				prop("headline1", str()),
				prop("headline2", str()),
				prop("description", str()),
			)),
		)),
		prop("profitProjection", object(
			prop("estimatedAdSpend", num()),
			prop("targetSalePricePerLead", num()),
			prop("totalPotentialRevenue", num()),
			prop("netProfit", num()),
			prop("leadsCount", num()),
		)),
		prop("astroStack", object(
			prop("framework", str()),
			prop("styling", str()),
			prop("deployment", str()),
			prop("cms", str()),
			prop("templateRepo", str()),
			prop("rationale", str()),
		)),
		prop("siteAssets", describe(array(object(
			prop("path", describe(str(), "e.g. src/pages/index.astro")),
			prop("content", str()),
			prop("language", enum(fileLanguages...)),
			prop("description", str()),
		)), "The complete source code for the Astro project.")),
	)
}
