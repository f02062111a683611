package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/syllabus"
	"github.com/aretw0/syllabus/internal/metrics"
	httpAdapter "github.com/aretw0/syllabus/pkg/adapters/http"
	"github.com/aretw0/syllabus/pkg/adapters/memory"
	"github.com/aretw0/syllabus/pkg/domain"
)

type fixture struct {
	handler http.Handler
	ledger  *memory.Store
	streams *httpAdapter.StreamManager
}

func newFixture(t *testing.T, topics ...domain.Topic) fixture {
	t.Helper()
	if len(topics) == 0 {
		topics = []domain.Topic{
			{ID: "sql-1-ac1", Category: "sql", Description: "Select rows"},
			{ID: "git-1-ac1", Category: "git", Description: "Commit a change"},
		}
	}
	catalog, err := memory.NewCatalog(topics)
	require.NoError(t, err)
	ledger := memory.NewStore()
	streams := httpAdapter.NewStreamManager(nil)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	eng, err := syllabus.New(t.TempDir(),
		syllabus.WithCatalog(catalog),
		syllabus.WithLedger(ledger),
		syllabus.WithLessons(memory.NewLessons(map[string]string{"sql-1-ac1": "# SELECT"})),
		syllabus.WithLifecycleHooks(streams.Hooks()),
		syllabus.WithLifecycleHooks(m.Hooks()),
	)
	require.NoError(t, err)

	handler := httpAdapter.NewHandler(eng,
		httpAdapter.WithStreams(streams),
		httpAdapter.WithGatherer(reg),
	)
	return fixture{handler: handler, ledger: ledger, streams: streams}
}

func (f fixture) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) domain.Session {
	t.Helper()
	var s domain.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	return s
}

func TestServer_SessionFlow(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/sessions")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	s := decodeSession(t, w)
	assert.Equal(t, domain.StateAwaitingLearnerWork, s.State)
	assert.Equal(t, "sql-1-ac1", s.Topic.ID)
	assert.Equal(t, "# SELECT", s.Lesson)

	w = f.do(t, http.MethodGet, "/sessions/current")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, s.ID, decodeSession(t, w).ID)

	w = f.do(t, http.MethodGet, "/sessions/"+s.ID)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/sessions/"+s.ID+"/confirm")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.StateIdle, decodeSession(t, w).State)

	ledger, err := f.ledger.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ledger.Contains("sql-1-ac1"))

	w = f.do(t, http.MethodPost, "/sessions/"+s.ID+"/confirm")
	assert.Equal(t, http.StatusNotFound, w.Code, "a confirmed session is closed")

	w = f.do(t, http.MethodGet, "/sessions/current")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_CurriculumComplete(t *testing.T) {
	f := newFixture(t, domain.Topic{ID: "sql-1-ac1", Category: "sql"})
	_, err := f.ledger.Append(context.Background(), domain.LedgerEntry{TopicID: "sql-1-ac1"})
	require.NoError(t, err)

	w := f.do(t, http.MethodPost, "/sessions")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StateDone, decodeSession(t, w).State)
}

func TestServer_UnclassifiedCategory(t *testing.T) {
	f := newFixture(t, domain.Topic{ID: "legacy-1", Category: "cobol"})

	w := f.do(t, http.MethodPost, "/sessions")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "cobol")
}

func TestServer_Status(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/status")
	require.Equal(t, http.StatusOK, w.Code)

	var st syllabus.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, 2, st.Progress.Total)
	assert.Equal(t, "sql-1-ac1", st.Next.ID)
}

func TestServer_Lesson(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/lessons/sql-1-ac1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# SELECT", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")

	w = f.do(t, http.MethodGet, "/lessons/git-1-ac1")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_HealthInfoAndMetrics(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/health")
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/info")
	assert.Contains(t, w.Body.String(), "syllabus-http")

	f.do(t, http.MethodPost, "/sessions")
	w = f.do(t, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `syllabus_session_transitions_total{to="awaiting_learner_work"} 1`)
}

func TestServer_CORSPreflight(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodOptions, "/sessions")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_SubscribeEvents(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wSub := httptest.NewRecorder()
	reqSub := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.handler.ServeHTTP(wSub, reqSub)
	}()

	time.Sleep(100 * time.Millisecond) // Wait for subscription to register

	w := f.do(t, http.MethodPost, "/sessions")
	require.Equal(t, http.StatusCreated, w.Code)

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	output := wSub.Body.String()
	assert.Contains(t, output, "event: ping")
	assert.Contains(t, output, `"type":"transition"`)
	assert.Contains(t, output, `"type":"mutation"`)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, httpAdapter.StatusCode(domain.ErrLessonNotFound))
	assert.Equal(t, http.StatusConflict, httpAdapter.StatusCode(domain.ErrCurriculumComplete))
	assert.Equal(t, http.StatusUnprocessableEntity, httpAdapter.StatusCode(domain.ErrUnsafePath))
	assert.Equal(t, http.StatusInternalServerError, httpAdapter.StatusCode(domain.NewIOError("append", "x", context.Canceled)))
}
