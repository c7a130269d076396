package api

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BerylCAtieno/rankrent-factory/internal/a2a"
	"github.com/BerylCAtieno/rankrent-factory/internal/artifact"
	"github.com/BerylCAtieno/rankrent-factory/internal/models"
	"github.com/BerylCAtieno/rankrent-factory/internal/planner"
	"github.com/BerylCAtieno/rankrent-factory/internal/provider"
	"github.com/BerylCAtieno/rankrent-factory/internal/session"
	"github.com/BerylCAtieno/rankrent-factory/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server   *Server
	router   *gin.Engine
	sessions *session.Registry
	archiver *store.Archiver
}

func newEnv(t *testing.T, gen *planner.Planner) *testEnv {
	t.Helper()
	return newEnvWithAssets(t, gen, artifact.NewMemoryStore())
}

func newEnvWithAssets(t *testing.T, gen *planner.Planner, assets artifact.Store) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	archiver := store.NewArchiver(store.NewMemoryStore(), assets)
	sessions, err := session.NewRegistry(8, gen, archiver)
	require.NoError(t, err)
	srv := NewServer(sessions, gen, archiver, a2a.NewA2AHandler(gen, archiver, ""))
	return &testEnv{server: srv, router: srv.Router(), sessions: sessions, archiver: archiver}
}

func offline() *planner.Planner {
	return planner.New(provider.NewOffline(), planner.Config{Keyless: true})
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	} else {
		r = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (e *testEnv) createSession(t *testing.T) sessionResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	return decode[sessionResponse](t, w)
}

func (e *testEnv) waitSession(t *testing.T, id string) {
	t.Helper()
	sess, ok := e.sessions.Get(id)
	require.True(t, ok)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sess.Wait(ctx))
}

var milano = GenerateRequest{Location: "Milano, IT", Niche: "Emergency Plumber", Language: "it"}

func TestHealth(t *testing.T) {
	e := newEnv(t, offline())
	w := e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestCORS_Preflight(t *testing.T) {
	e := newEnv(t, offline())
	req := httptest.NewRequest(http.MethodOptions, "/api/sessions", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSessionFlow(t *testing.T) {
	e := newEnv(t, offline())
	created := e.createSession(t)
	assert.Equal(t, session.StepInput, created.State.Step)
	assert.Equal(t, models.LanguageEnglish, created.State.Language)
	assert.NotNil(t, created.State.Logs)

	base := "/api/sessions/" + created.ID
	w := e.do(t, http.MethodPost, base+"/submit", milano)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	e.waitSession(t, created.ID)

	w = e.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[sessionResponse](t, w)
	require.Equal(t, session.StepResults, got.State.Step)
	require.NotNil(t, got.State.Plan)
	assert.Equal(t, "Milano, IT", got.State.Plan.Location)
	assert.NotEmpty(t, got.State.PlanID)
	assert.NotEmpty(t, got.State.Logs)

	w = e.do(t, http.MethodPost, base+"/submit", milano)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(t, http.MethodGet, "/api/plans/"+got.State.PlanID+"/assets/src/pages/index.astro", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<Layout />")

	w = e.do(t, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got = decode[sessionResponse](t, w)
	assert.Equal(t, session.StepInput, got.State.Step)
	assert.Equal(t, models.LanguageItalian, got.State.Language)
	assert.Empty(t, got.State.Logs)
}

func TestSubmit_BadInput(t *testing.T) {
	e := newEnv(t, offline())
	id := e.createSession(t).ID

	w := e.do(t, http.MethodPost, "/api/sessions/"+id+"/submit", GenerateRequest{Location: "Milano", Niche: "Plumber", Language: "pt"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "unsupported language")

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/submit", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmit_NotConfigured(t *testing.T) {
	e := newEnv(t, planner.New(provider.NewFake(), planner.Config{}))
	id := e.createSession(t).ID

	w := e.do(t, http.MethodPost, "/api/sessions/"+id+"/submit", milano)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	got := decode[sessionResponse](t, w)
	assert.Equal(t, session.StepInput, got.State.Step)
	assert.Equal(t, session.UserFacingError, got.State.Error)

	w = e.do(t, http.MethodDelete, "/api/sessions/"+id+"/error", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[sessionResponse](t, w).State.Error)
}

func TestSession_NotFound(t *testing.T) {
	e := newEnv(t, offline())
	w := e.do(t, http.MethodGet, "/api/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGeneratePlan_SyncAndArchive(t *testing.T) {
	e := newEnv(t, offline())

	w := e.do(t, http.MethodPost, "/api/plans", GenerateRequest{Location: "Austin, TX", Niche: "Roofing"})
	require.Equal(t, http.StatusBadRequest, w.Code, "language is required on the plans endpoint")

	w = e.do(t, http.MethodPost, "/api/plans", GenerateRequest{Location: "Austin, TX", Niche: "Roofing", Language: "en"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[generateResponse](t, w)
	require.NotEmpty(t, created.ID)
	require.NotNil(t, created.Plan)
	assert.Len(t, created.Logs, 9)

	w = e.do(t, http.MethodGet, "/api/plans", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Plans []store.Summary `json:"plans"`
	}](t, w)
	require.Len(t, list.Plans, 1)
	assert.Equal(t, created.ID, list.Plans[0].ID)
	assert.Equal(t, "Roofing", list.Plans[0].Niche)

	w = e.do(t, http.MethodGet, "/api/plans?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/api/plans/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rec := decode[store.Record](t, w)
	assert.Equal(t, "Austin, TX", rec.Plan.Location)

	w = e.do(t, http.MethodGet, "/api/plans/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodGet, "/api/plans/"+created.ID+"/assets/missing.ts", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (e *testEnv) archivePlan(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/plans", milano)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[generateResponse](t, w).ID
}

// urlStore hands out direct links the way a presigning bucket does.
type urlStore struct {
	*artifact.MemoryStore
}

func (s urlStore) GetURL(_ context.Context, planID, path string) (string, error) {
	return "https://cdn.example.com/" + planID + "/" + path, nil
}

func TestListAssets(t *testing.T) {
	e := newEnv(t, offline())
	id := e.archivePlan(t)

	w := e.do(t, http.MethodGet, "/api/plans/"+id+"/assets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[assetList](t, w)
	assert.Equal(t, id, got.PlanID)
	assert.Equal(t, []string{"package.json", "src/layouts/Layout.astro", "src/pages/index.astro"}, got.Assets)

	w = e.do(t, http.MethodGet, "/api/plans/missing/assets", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAssets_WithoutAssetStore(t *testing.T) {
	e := newEnvWithAssets(t, offline(), nil)
	id := e.archivePlan(t)

	w := e.do(t, http.MethodGet, "/api/plans/"+id+"/assets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"package.json", "src/layouts/Layout.astro", "src/pages/index.astro"}, decode[assetList](t, w).Assets)

	w = e.do(t, http.MethodGet, "/api/plans/"+id+"/assets/package.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestGetAsset_RedirectsToStoreURL(t *testing.T) {
	e := newEnvWithAssets(t, offline(), urlStore{artifact.NewMemoryStore()})
	id := e.archivePlan(t)

	w := e.do(t, http.MethodGet, "/api/plans/"+id+"/assets/src/pages/index.astro", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://cdn.example.com/"+id+"/src/pages/index.astro", w.Header().Get("Location"))

	w = e.do(t, http.MethodGet, "/api/plans/"+id+"/assets/missing.ts", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteSession(t *testing.T) {
	e := newEnv(t, offline())
	id := e.createSession(t).ID

	w := e.do(t, http.MethodDelete, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = e.do(t, http.MethodDelete, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGeneratePlan_Failure(t *testing.T) {
	fake := provider.NewFake(provider.Reply{Text: "recon"}, provider.Reply{Text: "{}"})
	e := newEnv(t, planner.New(fake, planner.Config{APIKey: "k"}))

	w := e.do(t, http.MethodPost, "/api/plans", milano)
	require.Equal(t, http.StatusBadGateway, w.Code)
	var body struct {
		Error string            `json:"error"`
		Logs  []models.LogEntry `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, session.UserFacingError, body.Error)
	require.NotEmpty(t, body.Logs)
	assert.Equal(t, models.LogError, body.Logs[len(body.Logs)-1].Type)

	list, err := e.archiver.Plans().List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGeneratePlan_NotConfigured(t *testing.T) {
	e := newEnv(t, planner.New(nil, planner.Config{}))
	w := e.do(t, http.MethodPost, "/api/plans", milano)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDownloadBundle(t *testing.T) {
	e := newEnv(t, offline())
	w := e.do(t, http.MethodPost, "/api/plans", milano)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[generateResponse](t, w).ID

	w = e.do(t, http.MethodGet, "/api/plans/"+id+"/bundle.zip", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "rankrent-"+id+".zip")

	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"src/pages/index.astro", "src/layouts/Layout.astro", "package.json"}, names)
}

func TestPlans_ArchiveDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gen := offline()
	sessions, err := session.NewRegistry(2, gen, nil)
	require.NoError(t, err)
	router := NewServer(sessions, gen, nil, nil).Router()

	req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/.well-known/agent.json", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAgentRoutesMounted(t *testing.T) {
	e := newEnv(t, offline())
	w := e.do(t, http.MethodGet, "/.well-known/agent.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, a2a.AgentName, decode[a2a.AgentCard](t, w).Name)
}

func TestStreamEvents_SendsSnapshotFirst(t *testing.T) {
	e := newEnv(t, offline())
	id := e.createSession(t).ID

	ts := httptest.NewServer(e.router)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/sessions/"+id+"/events", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event:state\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "data:"), line)
	assert.Contains(t, line, `"step":"input"`)
}

func TestStreamWebsocket(t *testing.T) {
	e := newEnv(t, offline())
	id := e.createSession(t).ID

	ts := httptest.NewServer(e.router)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first session.Event
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, session.EventState, first.Kind)
	assert.Equal(t, session.StepInput, first.State.Step)

	sess, _ := e.sessions.Get(id)
	require.NoError(t, sess.Submit(milano.Location, milano.Niche, milano.Language))

	var last session.Event
	logs := 0
	for {
		var evt session.Event
		require.NoError(t, conn.ReadJSON(&evt))
		if evt.Kind == session.EventLog {
			logs++
		}
		if evt.Kind == session.EventState && evt.State.Step == session.StepResults {
			last = evt
			break
		}
	}
	assert.Equal(t, 9, logs)
	assert.Equal(t, "Milano, IT", last.State.Plan.Location)
}
