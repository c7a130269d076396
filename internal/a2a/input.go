package a2a

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"

	"github.com/BerylCAtieno/rankrent-factory/internal/models"
	"github.com/BerylCAtieno/rankrent-factory/internal/planner"
)

// BlueprintRequest is the raw form of a blueprint ask, before validation.
type BlueprintRequest struct {
	Location string `json:"location"`
	Niche    string `json:"niche"`
	Language string `json:"language"`
}

// Input validates the request. An empty language means English.
func (r BlueprintRequest) Input() (planner.Input, error) {
	lang := strings.ToLower(strings.TrimSpace(r.Language))
	if lang == "" {
		lang = string(models.LanguageEnglish)
	}
	return planner.NewInput(r.Location, r.Niche, lang)
}

var (
	htmlTag     = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	langSuffix  = regexp.MustCompile(`(?:[\[(]\s*([a-zA-Z]{2})\s*[\])]|lang(?:uage)?\s*[:=]\s*([a-zA-Z]{2})|\s([a-z]{2}))\s*$`)
	inSeparator = regexp.MustCompile(`(?i)\s+in\s+`)
)

// ParseText reads "<niche> in <location> [lang]". The language may be given
// as [it], (it), lang:it or a trailing lower-case code; upper-case codes such
// as "Milano, IT" are left to the location.
func ParseText(text string) BlueprintRequest {
	s := strings.TrimSpace(htmlTag.ReplaceAllString(text, " "))
	var req BlueprintRequest

	if m := langSuffix.FindStringSubmatchIndex(s); m != nil {
		for g := 1; g <= 3; g++ {
			if m[2*g] < 0 {
				continue
			}
			code := models.Language(strings.ToLower(s[m[2*g]:m[2*g+1]]))
			if code.Valid() {
				req.Language = string(code)
				s = strings.TrimSpace(s[:m[0]])
			}
			break
		}
	}

	loc := inSeparator.FindStringIndex(s)
	if loc == nil {
		req.Niche = s
		return req
	}
	req.Niche = strings.TrimSpace(s[:loc[0]])
	req.Location = strings.TrimRight(strings.TrimSpace(s[loc[1]:]), ",.;")
	return req
}

// extractRequest prefers a structured data part, then the most recent text
// that names a location.
func extractRequest(msg A2AMessage) BlueprintRequest {
	var texts []string
	for _, part := range msg.Parts {
		switch part.Kind {
		case "data":
			if req, ok := requestFromData(part.Data); ok {
				return req
			}
			texts = append(texts, historyTexts(part.Data)...)
		case "text":
			if t := strings.TrimSpace(part.Text); t != "" {
				texts = append(texts, t)
			}
		}
	}

	var fallback BlueprintRequest
	for i := len(texts) - 1; i >= 0; i-- {
		req := ParseText(texts[i])
		if req.Location != "" && req.Niche != "" {
			return req
		}
		if fallback.Niche == "" {
			fallback = req
		}
	}
	return fallback
}

func requestFromData(data any) (BlueprintRequest, bool) {
	raw, err := json.Marshal(data)
	if err != nil {
		return BlueprintRequest{}, false
	}
	var req BlueprintRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return BlueprintRequest{}, false
	}
	if strings.TrimSpace(req.Location) == "" && strings.TrimSpace(req.Niche) == "" {
		return BlueprintRequest{}, false
	}
	return req, true
}

// historyTexts pulls text items out of a conversation-history data part.
func historyTexts(data any) []string {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	var items []MessagePart
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Printf("WARN: ignoring data part: %v", err)
		return nil
	}
	var out []string
	for _, item := range items {
		if item.Kind == "text" && strings.TrimSpace(item.Text) != "" {
			out = append(out, item.Text)
		}
	}
	return out
}
