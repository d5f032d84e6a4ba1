package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalyses "github.com/bryanwahyu/cv-analyzer/internal/application/analyses"
	"github.com/bryanwahyu/cv-analyzer/internal/domain/analysis"
	"github.com/bryanwahyu/cv-analyzer/internal/infra/ai/heuristic"
	"github.com/bryanwahyu/cv-analyzer/internal/middleware"
	"github.com/bryanwahyu/cv-analyzer/internal/schemas"
)

type memRepo struct {
	mu      sync.Mutex
	results []*analysis.Result
	texts   []string
	err     error
	limit   int
}

func (r *memRepo) Save(ctx context.Context, rec *analysis.Record) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res := rec.Result
	r.texts = append(r.texts, rec.Text)
	r.results = append([]*analysis.Result{&res}, r.results...)
	return nil
}

func (r *memRepo) Latest(ctx context.Context, limit int) ([]*analysis.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limit = limit
	return r.results[:min(limit, len(r.results))], nil
}

func newServer(t *testing.T, repo *memRepo, opts Options) *httptest.Server {
	t.Helper()
	svc := &appanalyses.Service{Analyzer: heuristic.Analyzer{}, Repo: repo}
	srv := httptest.NewServer(NewRouter(svc, opts))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	var sb bytes.Buffer
	_, err := sb.ReadFrom(resp.Body)
	require.NoError(t, err)
	return sb.String()
}

func TestAnalyze(t *testing.T) {
	repo := &memRepo{}
	srv := newServer(t, repo, Options{})

	resp := post(t, srv.URL+"/api/analyze", `{"text":"Skills: React, TypeScript, Docker"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body := readBody(t, resp)
	require.NoError(t, schemas.ValidateAnalysisResult([]byte(body)))
	var res analysis.Result
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	assert.NotEmpty(t, res.Identifier())
	assert.NotNil(t, res.CreatedAt)
	assert.Equal(t, []string{"Docker", "React", "TypeScript"}, res.SkillList())
	assert.Equal(t, []string{"Full-Stack Developer"}, res.RoleList())
	assert.Len(t, repo.results, 1)
}

func TestAnalyze_BadRequests(t *testing.T) {
	srv := newServer(t, &memRepo{}, Options{})
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing text", `{}`, "text is required"},
		{"blank text", `{"text":"   "}`, "text is required"},
		{"empty body", ``, "text is required"},
		{"not json", `text=hello`, "invalid JSON body"},
		{"only control characters", `{"text":"\u0000\u0007 "}`, "text is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/api/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, readBody(t, resp), tt.want)
		})
	}
}

func TestAnalyze_StripsNULBytesBeforeStoring(t *testing.T) {
	repo := &memRepo{}
	srv := newServer(t, repo, Options{})

	resp := post(t, srv.URL+"/api/analyze", `{"text":"Python\u0000 and SQL\u0000\nDocker"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, repo.texts, 1)
	assert.Equal(t, "Python and SQL\nDocker", repo.texts[0])
	assert.NotContains(t, repo.texts[0], "\x00")
}

func TestAnalyze_StoreFailureIs500WithPlainBody(t *testing.T) {
	srv := newServer(t, &memRepo{err: errors.New("db down")}, Options{})
	resp := post(t, srv.URL+"/api/analyze", `{"text":"Python"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "db down")
}

func TestRewriteSummary(t *testing.T) {
	srv := newServer(t, &memRepo{}, Options{})
	resp := post(t, srv.URL+"/api/rewrite-summary", `{"text":"Docker Linux Git"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out["rewritten"], "DevOps Intern")
}

func TestHistory(t *testing.T) {
	repo := &memRepo{}
	srv := newServer(t, repo, Options{})
	for _, text := range []string{"Python", "SQL"} {
		require.Equal(t, http.StatusOK, post(t, srv.URL+"/api/analyze", `{"text":"`+text+`"}`).StatusCode)
	}

	resp, err := http.Get(srv.URL + "/api/history?limit=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []analysis.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, []string{"SQL"}, list[0].SkillList())

	resp2, err := http.Get(srv.URL + "/api/history?limit=5000")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, 100, repo.limit)

	resp3, err := http.Get(srv.URL + "/api/history?limit=abc")
	require.NoError(t, err)
	resp3.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp3.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv := newServer(t, &memRepo{}, Options{AllowedOrigins: []string{"http://localhost:5173"}})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/analyze", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHealthAndMetrics(t *testing.T) {
	m := middleware.NewMetrics()
	srv := newServer(t, &memRepo{}, Options{
		Metrics:        m,
		HealthCheckers: map[string]middleware.HealthChecker{"database": middleware.CheckerFunc(func(context.Context) error { return nil })},
	})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	post(t, srv.URL+"/api/analyze", `{"text":"Go"}`)
	assert.EqualValues(t, 1, m.AnalysesTotal.Load())

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var snap map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.EqualValues(t, 1, snap["analyses_total"])
}

func TestRateLimit(t *testing.T) {
	srv := newServer(t, &memRepo{}, Options{Limiter: middleware.NewRateLimiter(1, 0)})

	resp, err := http.Get(srv.URL + "/api/history")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/history")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
