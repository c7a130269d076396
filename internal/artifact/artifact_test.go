package artifact

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/BerylCAtieno/rankrent-factory/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var assets = []models.GeneratedFile{
	{Path: "package.json", Content: `{"name":"site"}`},
	{Path: "src/pages/index.astro", Content: "---\n---\n<h1>Idraulico</h1>"},
	{Path: "src/layouts/Layout.astro", Content: "<slot />"},
}

func TestMemoryStore_PutGetList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "p1", "/src/pages/index.astro", []byte("a")))
	require.NoError(t, s.Put(ctx, "p1", "package.json", []byte("b")))
	require.NoError(t, s.Put(ctx, "p2", "package.json", []byte("c")))

	got, err := s.Get(ctx, "p1", "src/pages/index.astro")
	require.NoError(t, err)
	assert.Equal(t, "a", string(got))

	got[0] = 'z'
	again, _ := s.Get(ctx, "p1", "src/pages/index.astro")
	assert.Equal(t, "a", string(again))

	paths, err := s.List(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"package.json", "src/pages/index.astro"}, paths)

	_, err = s.Get(ctx, "p1", "missing.ts")
	assert.ErrorIs(t, err, ErrNotFound)

	u, err := s.GetURL(ctx, "p1", "package.json")
	require.NoError(t, err)
	assert.Empty(t, u)
}

func TestMemoryStore_RejectsEmptyKeys(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	assert.Error(t, s.Put(ctx, "", "a.ts", nil))
	assert.Error(t, s.Put(ctx, "p1", " / ", nil))
	_, err := s.List(ctx, " ")
	assert.Error(t, err)
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, Publish(ctx, s, "plan-1", assets))

	paths, err := s.List(ctx, "plan-1")
	require.NoError(t, err)
	assert.Len(t, paths, len(assets))
	for _, f := range assets {
		got, err := s.Get(ctx, "plan-1", f.Path)
		require.NoError(t, err)
		assert.Equal(t, f.Content, string(got))
	}
}

type failingStore struct{ *MemoryStore }

func (failingStore) Put(context.Context, string, string, []byte) error {
	return errors.New("bucket offline")
}

func TestPublish_ReportsFailure(t *testing.T) {
	err := Publish(context.Background(), failingStore{NewMemoryStore()}, "plan-1", assets)
	assert.ErrorContains(t, err, "bucket offline")
}

func TestWriteZip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteZip(&buf, assets))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	got := map[string]string{}
	var names []string
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		got[f.Name] = string(body)
		names = append(names, f.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"package.json", "src/layouts/Layout.astro", "src/pages/index.astro"}, names)
	for _, f := range assets {
		assert.Equal(t, f.Content, got[f.Path])
	}
}

func TestWriteDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDir(dir, assets))

	body, err := os.ReadFile(filepath.Join(dir, "src", "pages", "index.astro"))
	require.NoError(t, err)
	assert.Equal(t, assets[1].Content, string(body))
}

func TestWriteDir_RejectsEscapingPaths(t *testing.T) {
	dir := t.TempDir()
	bad := append([]models.GeneratedFile{{Path: "ok.txt", Content: "x"}}, models.GeneratedFile{Path: "../../evil.sh", Content: "rm"})

	err := WriteDir(dir, bad)
	assert.ErrorContains(t, err, "escapes")

	_, statErr := os.Stat(filepath.Join(dir, "ok.txt"))
	assert.True(t, os.IsNotExist(statErr), "nothing should be written when any path escapes")
}

func TestContentType(t *testing.T) {
	cases := map[string]string{
		"package.json":          "application/json",
		"src/pages/index.astro": "text/html; charset=utf-8",
		"tailwind.config.mjs":   "text/javascript; charset=utf-8",
		"src/data/siteData.ts":  "text/javascript; charset=utf-8",
		"README.MD":             "text/markdown; charset=utf-8",
		"LeadForm.tsx":          "text/plain; charset=utf-8",
	}
	for p, want := range cases {
		assert.Equal(t, want, ContentType(p), p)
	}
}

func TestS3Config_Enabled(t *testing.T) {
	assert.False(t, S3Config{}.Enabled())
	assert.False(t, S3Config{Endpoint: "localhost:9000"}.Enabled())
	assert.True(t, S3Config{Endpoint: "localhost:9000", Bucket: "sites"}.Enabled())
}

func TestNewS3Store_RequiresSettings(t *testing.T) {
	_, err := NewS3Store(S3Config{Bucket: "sites", AccessKey: "a", SecretKey: "b"})
	assert.ErrorContains(t, err, "endpoint")
	_, err = NewS3Store(S3Config{Endpoint: "localhost:9000", Bucket: "sites"})
	assert.ErrorContains(t, err, "access key")

	s, err := NewS3Store(S3Config{Endpoint: "localhost:9000", Bucket: "sites", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", s.region)
}
