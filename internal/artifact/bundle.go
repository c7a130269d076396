package artifact

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BerylCAtieno/rankrent-factory/internal/models"
	"golang.org/x/sync/errgroup"
)

const publishConcurrency = 4

// Publish uploads every asset of a plan under planID.
func Publish(ctx context.Context, store Store, planID string, assets []models.GeneratedFile) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(publishConcurrency)
	for _, f := range assets {
		g.Go(func() error {
			if err := store.Put(ctx, planID, f.Path, []byte(f.Content)); err != nil {
				return fmt.Errorf("publish %s: %w", f.Path, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// WriteZip writes the assets as a zip archive, one entry per path.
func WriteZip(w io.Writer, assets []models.GeneratedFile) error {
	zw := zip.NewWriter(w)
	modified := time.Now().UTC()
	for _, f := range assets {
		name := strings.TrimLeft(f.Path, "/")
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return fmt.Errorf("zip entry %s: %w", name, err)
		}
		if _, err := io.WriteString(fw, f.Content); err != nil {
			return fmt.Errorf("zip write %s: %w", name, err)
		}
	}
	return zw.Close()
}

// WriteDir materializes the assets under dir. Paths that would land outside
// dir are rejected before anything is written.
func WriteDir(dir string, assets []models.GeneratedFile) error {
	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}
	targets := make([]string, len(assets))
	for i, f := range assets {
		target := filepath.Join(root, filepath.FromSlash(f.Path))
		rel, err := filepath.Rel(root, target)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return fmt.Errorf("asset path %q escapes %s", f.Path, dir)
		}
		targets[i] = target
	}
	for i, f := range assets {
		if err := os.MkdirAll(filepath.Dir(targets[i]), 0o755); err != nil {
			return fmt.Errorf("create dir for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(targets[i], []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
	}
	return nil
}
