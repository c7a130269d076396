// Package artifact stores the generated site assets of archived plans and
// packages them for download.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

var ErrNotFound = errors.New("artifact not found")

// Store persists site asset files grouped by plan id.
type Store interface {
	Put(ctx context.Context, planID, path string, content []byte) error
	Get(ctx context.Context, planID, path string) ([]byte, error)
	GetURL(ctx context.Context, planID, path string) (string, error)
	List(ctx context.Context, planID string) ([]string, error)
}

func normalize(planID, p string) (string, string, error) {
	planID = strings.TrimSpace(planID)
	p = strings.TrimLeft(strings.TrimSpace(p), "/")
	if planID == "" {
		return "", "", fmt.Errorf("plan id is required")
	}
	if p == "" {
		return "", "", fmt.Errorf("path is required")
	}
	return planID, p, nil
}

func objectKey(planID, p string) string {
	return planID + "/" + p
}

// ContentType guesses the MIME type served for an asset path.
func ContentType(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown; charset=utf-8"
	case ".html", ".astro":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".ts", ".mjs", ".js":
		return "text/javascript; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
