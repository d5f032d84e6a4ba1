package upload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/cv-analyzer/internal/domain/analysis"
	"github.com/bryanwahyu/cv-analyzer/internal/domain/intake"
	"github.com/bryanwahyu/cv-analyzer/internal/infra/analyzeclient"
	"github.com/bryanwahyu/cv-analyzer/internal/infra/cache"
)

type recorder struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	r.notes = append(r.notes, n)
	r.mu.Unlock()
}

type countingStore struct {
	analysis.ResultStore
	saves   atomic.Int32
	failing bool
}

func (s *countingStore) Save(ctx context.Context, r *analysis.Result) error {
	s.saves.Add(1)
	if s.failing {
		return assert.AnError
	}
	return s.ResultStore.Save(ctx, r)
}

func newStore(t *testing.T) *countingStore {
	t.Helper()
	kv, err := cache.NewMemoryKV(1)
	require.NoError(t, err)
	return &countingStore{ResultStore: cache.NewResultStore(kv)}
}

func service(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestFlow_ScenarioA_Success(t *testing.T) {
	srv, calls := service(t, http.StatusOK, `{"ats_score":78,"skills":["React","TypeScript","AWS","Docker","SQL","Git"],
		"strengths":["Strong with React"],"gaps":[],"recommended_roles":["Senior Frontend Developer"],"summary_rewrite":"ok"}`)
	store := newStore(t)
	notes := &recorder{}
	flow := NewFlow(analyzeclient.New(srv.URL, srv.Client()), store, notes)

	flow.SelectFile(intake.FromBytes("cv.txt", "text/plain", []byte("React TypeScript AWS Docker SQL Git")))
	require.True(t, flow.CanAnalyze())

	nav, err := flow.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceUpload, nav.Source)
	assert.Equal(t, 78, nav.Analysis.Score())
	assert.EqualValues(t, 1, calls.Load())
	assert.EqualValues(t, 1, store.saves.Load())

	cached, ok := store.Load(context.Background())
	require.True(t, ok)
	assert.Equal(t, nav.Analysis, cached)

	assert.False(t, flow.Analyzing())
	assert.Empty(t, flow.InlineError())
	assert.Nil(t, flow.Selected())
	assert.False(t, flow.CanAnalyze())
	assert.Empty(t, notes.notes)
}

func TestFlow_ScenarioB_EmptyFile(t *testing.T) {
	srv, calls := service(t, http.StatusOK, `{}`)
	store := newStore(t)
	notes := &recorder{}
	flow := NewFlow(analyzeclient.New(srv.URL, srv.Client()), store, notes)

	flow.SelectFile(intake.FromBytes("empty.txt", "text/plain", nil))
	_, err := flow.Analyze(context.Background())
	require.Error(t, err)

	assert.EqualValues(t, 0, calls.Load())
	assert.Equal(t, analysis.MsgUnreadableText, flow.InlineError())
	assert.False(t, flow.Analyzing())
	assert.EqualValues(t, 0, store.saves.Load())
	require.Len(t, notes.notes, 1)
	assert.Equal(t, "Analysis failed", notes.notes[0].Title)
	assert.Equal(t, VariantDestructive, notes.notes[0].Variant)

	// the file stays selected so the user can retry
	assert.True(t, flow.CanAnalyze())
}

func TestFlow_ScenarioC_ServerError(t *testing.T) {
	srv, calls := service(t, http.StatusInternalServerError, "Internal error")
	store := newStore(t)
	notes := &recorder{}
	flow := NewFlow(analyzeclient.New(srv.URL, srv.Client()), store, notes)

	flow.SelectFile(intake.FromBytes("cv.txt", "text/plain", []byte("Python SQL")))
	_, err := flow.Analyze(context.Background())
	require.Error(t, err)

	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, "Internal error", flow.InlineError())
	assert.EqualValues(t, 0, store.saves.Load())
	_, ok := store.Load(context.Background())
	assert.False(t, ok)
	require.Len(t, notes.notes, 1)
	assert.Equal(t, "Internal error", notes.notes[0].Description)
}

func TestFlow_NoFileSelected(t *testing.T) {
	notes := &recorder{}
	flow := NewFlow(nil, newStore(t), notes)

	_, err := flow.Analyze(context.Background())
	assert.ErrorIs(t, err, ErrNoFileSelected)
	require.Len(t, notes.notes, 1)
	assert.Equal(t, "No file selected", notes.notes[0].Title)
	assert.False(t, flow.Analyzing())
}

func TestFlow_NotifierMayReadFlowState(t *testing.T) {
	var flow *Flow
	var seen []bool
	notes := NotifierFunc(func(n Notification) {
		seen = append(seen, flow.CanAnalyze(), flow.Analyzing())
		_ = flow.InlineError()
	})
	flow = NewFlow(nil, newStore(t), notes)

	done := make(chan error, 1)
	go func() {
		_, err := flow.Analyze(context.Background())
		done <- err
	}()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrNoFileSelected)
	case <-time.After(2 * time.Second):
		t.Fatal("Analyze did not return while the notifier read flow state")
	}
	assert.Equal(t, []bool{false, false}, seen)
}

type blockingClient struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (c *blockingClient) Analyze(ctx context.Context, f *intake.SelectedFile) (*analysis.Result, error) {
	c.calls.Add(1)
	close(c.started)
	select {
	case <-c.release:
		return &analysis.Result{ATSScore: analysis.Int(50)}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestFlow_SingleRequestInFlight(t *testing.T) {
	client := &blockingClient{started: make(chan struct{}), release: make(chan struct{})}
	flow := NewFlow(client, newStore(t), nil)
	flow.SelectFile(intake.FromBytes("cv.txt", "text/plain", []byte("Go")))

	done := make(chan error, 1)
	go func() {
		_, err := flow.Analyze(context.Background())
		done <- err
	}()
	<-client.started

	assert.True(t, flow.Analyzing())
	assert.False(t, flow.CanAnalyze())
	_, err := flow.Analyze(context.Background())
	assert.ErrorIs(t, err, ErrAnalysisInProgress)

	close(client.release)
	require.NoError(t, <-done)
	assert.EqualValues(t, 1, client.calls.Load())
	assert.False(t, flow.Analyzing())
}

func TestFlow_AbortIsSilent(t *testing.T) {
	client := &blockingClient{started: make(chan struct{}), release: make(chan struct{})}
	store := newStore(t)
	notes := &recorder{}
	flow := NewFlow(client, store, notes)
	flow.SelectFile(intake.FromBytes("cv.txt", "text/plain", []byte("Go")))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := flow.Analyze(ctx)
		done <- err
	}()
	<-client.started
	cancel()

	err := <-done
	assert.True(t, analysis.IsAborted(err))
	assert.Empty(t, flow.InlineError())
	assert.Empty(t, notes.notes)
	assert.EqualValues(t, 0, store.saves.Load())
	assert.False(t, flow.Analyzing())
}

func TestFlow_CacheWriteFailureStillNavigates(t *testing.T) {
	srv, _ := service(t, http.StatusOK, `{"ats_score": 61}`)
	store := newStore(t)
	store.failing = true
	flow := NewFlow(analyzeclient.New(srv.URL, srv.Client()), store, nil)
	flow.SelectFile(intake.FromBytes("cv.txt", "text/plain", []byte("Go")))

	nav, err := flow.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 61, nav.Analysis.Score())
	assert.EqualValues(t, 1, store.saves.Load())
}

func TestFlow_ClearResetsInlineError(t *testing.T) {
	srv, _ := service(t, http.StatusBadRequest, "bad")
	flow := NewFlow(analyzeclient.New(srv.URL, srv.Client()), newStore(t), nil)
	flow.SelectFile(intake.FromBytes("cv.txt", "text/plain", []byte("Go")))
	_, _ = flow.Analyze(context.Background())
	require.Equal(t, "bad", flow.InlineError())

	flow.SelectFile(nil)
	assert.Empty(t, flow.InlineError())
	assert.False(t, flow.CanAnalyze())
}
