package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ahnaineh/GITGAME/internal/level"
	"github.com/ahnaineh/GITGAME/internal/session"
	"github.com/ahnaineh/GITGAME/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	store store.Store
}

func newTestServer(t *testing.T, cfg *Config) *testServer {
	t.Helper()
	st, err := store.Open(store.DriverBolt, filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)

	game := session.NewGame(level.DefaultPack(), nil)
	h, cleanup := Handler(st, game, cfg, nil)
	ts := httptest.NewServer(h)
	t.Cleanup(func() {
		ts.Close()
		cleanup()
		st.Close()
	})
	return &testServer{Server: ts, store: st}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (ts *testServer) createSession(t *testing.T, levelID int) *session.Session {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/api/v1/sessions", map[string]int{"level": levelID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	s := decode[session.Session](t, resp)
	return &s
}

type commandReply struct {
	OK            bool     `json:"ok"`
	Output        []string `json:"output"`
	Actions       []string `json:"actions"`
	LevelComplete bool     `json:"level_complete"`
	Repository    struct {
		Initialized bool   `json:"is_initialized"`
		Head        string `json:"head"`
	} `json:"repository"`
}

func (ts *testServer) command(t *testing.T, id, line string) commandReply {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/commands", map[string]string{"command": line})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[commandReply](t, resp)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp = ts.do(t, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLevels(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(t, http.MethodGet, "/api/v1/levels", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[struct {
		Levels []levelSummary `json:"levels"`
	}](t, resp)
	require.Len(t, body.Levels, len(level.DefaultPack().Levels))
	assert.Equal(t, 1, body.Levels[0].ID)

	resp = ts.do(t, http.MethodGet, "/api/v1/levels/3", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	l := decode[level.Level](t, resp)
	assert.Equal(t, 3, l.ID)

	resp = ts.do(t, http.MethodGet, "/api/v1/levels/99", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = ts.do(t, http.MethodGet, "/api/v1/levels/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateAndGetSession(t *testing.T) {
	ts := newTestServer(t, nil)
	s := ts.createSession(t, 0)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, 1, s.LevelID)

	resp := ts.do(t, http.MethodGet, "/api/v1/sessions/"+s.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[session.Session](t, resp)
	assert.Equal(t, s.ID, got.ID)

	resp = ts.do(t, http.MethodGet, "/api/v1/sessions/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/api/v1/sessions", map[string]int{"level": 99})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCommands_CompleteLevelOne(t *testing.T) {
	ts := newTestServer(t, nil)
	s := ts.createSession(t, 1)

	reply := ts.command(t, s.ID, "git status")
	assert.False(t, reply.OK)

	reply = ts.command(t, s.ID, "git init")
	assert.True(t, reply.OK)
	assert.True(t, reply.Repository.Initialized)
	assert.Contains(t, reply.Actions, "init")

	ts.command(t, s.ID, "git status")
	ts.command(t, s.ID, "git add map.txt")
	reply = ts.command(t, s.ID, `git commit -m "Anchor the island"`)
	assert.True(t, reply.LevelComplete)
	assert.Equal(t, "c001", reply.Repository.Head)

	stored, err := ts.store.GetSession(s.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, stored.CompletedLevels)
	assert.True(t, stored.IsUnlocked(2))

	resp := ts.do(t, http.MethodGet, "/api/v1/sessions/"+s.ID+"/progress", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	progress := decode[map[string]any](t, resp)
	assert.EqualValues(t, 4, progress["completed"])
	assert.EqualValues(t, -1, progress["next_step"])

	resp = ts.do(t, http.MethodGet, "/api/v1/sessions/"+s.ID+"/graph", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	graph := decode[struct {
		Head  string `json:"head"`
		Nodes []struct {
			ID       string   `json:"id"`
			Branches []string `json:"branches"`
		} `json:"nodes"`
	}](t, resp)
	assert.Equal(t, "c001", graph.Head)
	require.Len(t, graph.Nodes, 1)
	assert.Equal(t, []string{"main"}, graph.Nodes[0].Branches)
}

func TestCommands_BadJSON(t *testing.T) {
	ts := newTestServer(t, nil)
	s := ts.createSession(t, 1)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/sessions/"+s.ID+"/commands", bytes.NewBufferString("{"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResetAdvanceSelect(t *testing.T) {
	ts := newTestServer(t, nil)
	s := ts.createSession(t, 1)
	ts.command(t, s.ID, "git init")

	resp := ts.do(t, http.MethodPost, "/api/v1/sessions/"+s.ID+"/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	reset := decode[session.Session](t, resp)
	assert.False(t, reset.Repo.Initialized)
	assert.Empty(t, reset.CommandHistory)

	resp = ts.do(t, http.MethodPut, "/api/v1/sessions/"+s.ID+"/level", map[string]int{"level": 5})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/api/v1/sessions/"+s.ID+"/advance", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	advanced := decode[session.Session](t, resp)
	assert.Equal(t, 2, advanced.LevelID)

	resp = ts.do(t, http.MethodPut, "/api/v1/sessions/"+s.ID+"/level", map[string]int{"level": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	selected := decode[session.Session](t, resp)
	assert.Equal(t, 1, selected.LevelID)

	last := ts.createSession(t, 12)
	resp = ts.do(t, http.MethodPost, "/api/v1/sessions/"+last.ID+"/advance", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestWriteFile(t *testing.T) {
	ts := newTestServer(t, nil)
	s := ts.createSession(t, 3)

	resp := ts.do(t, http.MethodPut, "/api/v1/sessions/"+s.ID+"/files", map[string]string{"path": "logbook.md", "content": "notes"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[struct {
		WorkingTree map[string]string `json:"working_tree"`
	}](t, resp)
	assert.Equal(t, "notes", body.WorkingTree["logbook.md"])

	stored, err := ts.store.GetSession(s.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.Actions, "worktree:create:logbook.md")

	resp = ts.do(t, http.MethodPut, "/api/v1/sessions/"+s.ID+"/files", map[string]string{"path": " ", "content": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminEndpoints(t *testing.T) {
	ts := newTestServer(t, &Config{MaxRequestBody: 1 << 20, AdminToken: "secret"})
	s := ts.createSession(t, 1)

	resp := ts.do(t, http.MethodGet, "/admin/sessions", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/admin/sessions", nil, "Authorization", "Bearer secret")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[struct {
		Sessions []store.Summary `json:"sessions"`
	}](t, resp)
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, s.ID, list.Sessions[0].ID)

	resp = ts.do(t, http.MethodDelete, "/admin/sessions/"+s.ID, nil, "Authorization", "Bearer secret")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ts.do(t, http.MethodDelete, "/admin/sessions/"+s.ID, nil, "Authorization", "Bearer secret")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminEndpoints_DisabledWithoutToken(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := ts.do(t, http.MethodGet, "/admin/sessions", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, &Config{MaxRequestBody: 1 << 20, RequestsPerMinute: 2})

	for i := 0; i < 2; i++ {
		resp := ts.do(t, http.MethodGet, "/api/v1/levels", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp := ts.do(t, http.MethodGet, "/api/v1/levels", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))

	// Health checks are not limited
	resp = ts.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
