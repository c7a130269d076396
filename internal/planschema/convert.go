package planschema

import (
	legacy "github.com/google/generative-ai-go/genai"
	"google.golang.org/genai"
)

// ToGenAI renders n as a google.golang.org/genai response schema.
func ToGenAI(n *Node) *genai.Schema {
	if n == nil {
		return nil
	}
	s := &genai.Schema{
		Description: n.Description,
		Enum:        n.Enum,
		Items:       ToGenAI(n.Items),
		Required:    n.Required,
	}
	switch n.Type {
	case TypeObject:
		s.Type = genai.TypeObject
		s.PropertyOrdering = n.Order
	case TypeArray:
		s.Type = genai.TypeArray
	case TypeNumber:
		s.Type = genai.TypeNumber
	default:
		s.Type = genai.TypeString
	}
	if len(n.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(n.Properties))
		for name, child := range n.Properties {
			s.Properties[name] = ToGenAI(child)
		}
	}
	return s
}

// ToLegacy renders n for the github.com/google/generative-ai-go client.
func ToLegacy(n *Node) *legacy.Schema {
	if n == nil {
		return nil
	}
	s := &legacy.Schema{
		Description: n.Description,
		Enum:        n.Enum,
		Items:       ToLegacy(n.Items),
		Required:    n.Required,
	}
	switch n.Type {
	case TypeObject:
		s.Type = legacy.TypeObject
	case TypeArray:
		s.Type = legacy.TypeArray
	case TypeNumber:
		s.Type = legacy.TypeNumber
	default:
		s.Type = legacy.TypeString
		if len(n.Enum) > 0 {
			s.Format = "enum"
		}
	}
	if len(n.Properties) > 0 {
		s.Properties = make(map[string]*legacy.Schema, len(n.Properties))
		for name, child := range n.Properties {
			s.Properties[name] = ToLegacy(child)
		}
	}
	return s
}
