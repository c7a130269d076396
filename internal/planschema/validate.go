package planschema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"reflect"
	"slices"
	"strings"

	"github.com/BerylCAtieno/rankrent-factory/internal/models"
	"github.com/go-playground/validator/v10"
)

// Issue is one offending location in a payload.
type Issue struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (i Issue) String() string { return i.Path + ": " + i.Reason }

// SchemaViolation reports every issue found while checking a payload.
type SchemaViolation struct {
	Issues []Issue
}

func (e *SchemaViolation) Error() string {
	const shown = 5
	parts := make([]string, 0, shown)
	for i, is := range e.Issues {
		if i == shown {
			break
		}
		parts = append(parts, is.String())
	}
	msg := "schema violation: " + strings.Join(parts, "; ")
	if extra := len(e.Issues) - shown; extra > 0 {
		msg += fmt.Sprintf(" (and %d more)", extra)
	}
	return msg
}

// Paths returns the offending paths in report order.
func (e *SchemaViolation) Paths() []string {
	out := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		out = append(out, is.Path)
	}
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("sitepath", func(fl validator.FieldLevel) bool {
		return ValidAssetPath(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidAssetPath reports whether p is a clean, relative, slash-separated path
// that stays inside the bundle root.
func ValidAssetPath(p string) bool {
	if p == "" || strings.ContainsRune(p, '\\') || strings.HasPrefix(p, "/") {
		return false
	}
	if path.Clean(p) != p {
		return false
	}
	return p != "." && p != ".." && !strings.HasPrefix(p, "../")
}

// Validate parses raw provider output and checks it against the plan schema.
// It returns a typed plan or a *SchemaViolation; values are never coerced.
func Validate(raw []byte) (*models.BusinessPlan, error) {
	body := CleanJSON(raw)
	if len(body) == 0 {
		return nil, &SchemaViolation{Issues: []Issue{{Path: "$", Reason: "empty payload"}}}
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&doc); err != nil {
		return nil, &SchemaViolation{Issues: []Issue{{Path: "$", Reason: "unparsable JSON: " + err.Error()}}}
	}
	if dec.More() {
		return nil, &SchemaViolation{Issues: []Issue{{Path: "$", Reason: "trailing data after JSON document"}}}
	}

	if issues := Check(Plan(), doc); len(issues) > 0 {
		return nil, &SchemaViolation{Issues: issues}
	}

	var plan models.BusinessPlan
	if err := json.Unmarshal(body, &plan); err != nil {
		return nil, &SchemaViolation{Issues: []Issue{{Path: "$", Reason: "decode: " + err.Error()}}}
	}
	if err := CheckPlan(&plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// CheckPlan runs the semantic rules that a structural schema cannot express:
// non-negative figures, cpcHigh >= cpcLow, unique and contained asset paths.
func CheckPlan(plan *models.BusinessPlan) error {
	err := validate.Struct(plan)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &SchemaViolation{Issues: []Issue{{Path: "$", Reason: err.Error()}}}
	}
	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, Issue{
			Path:   fieldPath(fe),
			Reason: reason(fe, plan),
		})
	}
	return &SchemaViolation{Issues: issues}
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func reason(fe validator.FieldError, plan *models.BusinessPlan) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "oneof":
		return fmt.Sprintf("value %q not in [%s]", fmt.Sprint(fe.Value()), fe.Param())
	case "gte":
		return "must be >= " + fe.Param()
	case "gtefield":
		return "must be >= cpcLow"
	case "unique":
		return "duplicate paths: " + strings.Join(duplicatePaths(plan.SiteAssets), ", ")
	case "sitepath":
		return fmt.Sprintf("%q is not a clean relative path", fmt.Sprint(fe.Value()))
	default:
		return "failed " + fe.Tag()
	}
}

func duplicatePaths(files []models.GeneratedFile) []string {
	seen := make(map[string]int, len(files))
	var dups []string
	for _, f := range files {
		seen[f.Path]++
		if seen[f.Path] == 2 {
			dups = append(dups, f.Path)
		}
	}
	slices.Sort(dups)
	return dups
}

// Check walks a decoded JSON document against node and collects every
// missing field, wrong primitive type and out-of-enum value.
func Check(node *Node, doc any) []Issue {
	var issues []Issue
	check(node, doc, "", &issues)
	return issues
}

func check(node *Node, v any, at string, issues *[]Issue) {
	where := at
	if where == "" {
		where = "$"
	}
	if v == nil {
		*issues = append(*issues, Issue{Path: where, Reason: "null is not allowed"})
		return
	}

	switch node.Type {
	case TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			*issues = append(*issues, Issue{Path: where, Reason: "expected object, got " + kindOf(v)})
			return
		}
		for _, name := range node.Order {
			child, present := obj[name]
			if !present {
				if slices.Contains(node.Required, name) {
					*issues = append(*issues, Issue{Path: join(at, name), Reason: "missing required field"})
				}
				continue
			}
			check(node.Properties[name], child, join(at, name), issues)
		}
	case TypeArray:
		arr, ok := v.([]any)
		if !ok {
			*issues = append(*issues, Issue{Path: where, Reason: "expected array, got " + kindOf(v)})
			return
		}
		for i, item := range arr {
			check(node.Items, item, fmt.Sprintf("%s[%d]", at, i), issues)
		}
	case TypeString:
		s, ok := v.(string)
		if !ok {
			*issues = append(*issues, Issue{Path: where, Reason: "expected string, got " + kindOf(v)})
			return
		}
		if len(node.Enum) > 0 && !slices.Contains(node.Enum, s) {
			*issues = append(*issues, Issue{
				Path:   where,
				Reason: fmt.Sprintf("value %q not in [%s]", s, strings.Join(node.Enum, " ")),
			})
		}
	case TypeNumber:
		if _, ok := v.(float64); !ok {
			*issues = append(*issues, Issue{Path: where, Reason: "expected number, got " + kindOf(v)})
		}
	}
}

func join(at, name string) string {
	if at == "" {
		return name
	}
	return at + "." + name
}

func kindOf(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// CleanJSON strips surrounding whitespace and a markdown code fence, which
// models occasionally add even in JSON mode.
func CleanJSON(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "json")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	return []byte(s)
}
