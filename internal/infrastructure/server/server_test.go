package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noruno/platform/internal/adapters/filestore"
	"github.com/noruno/platform/internal/adapters/mail"
	"github.com/noruno/platform/internal/application/services"
	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/infrastructure/config"
	"github.com/noruno/platform/internal/infrastructure/logger"
	"github.com/noruno/platform/internal/infrastructure/metrics"
)

type stubMailer struct {
	err  error
	sent int
}

func (m *stubMailer) Send(_ context.Context, settings entities.MailSettings, _, _, _ string) error {
	if !settings.Configured() {
		return entities.ErrMailNotConfigured
	}
	if m.err != nil {
		return m.err
	}
	m.sent++
	return nil
}

type stubHealth struct{ err error }

func (h stubHealth) HealthCheck(context.Context) error { return h.err }

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Version: "test"},
		Security: config.SecurityConfig{CORSAllowedOrigins: "*", APITokenTTL: time.Hour},
		Metrics:  config.MetricsConfig{Enabled: true},
	}
}

type testServer struct {
	handler http.Handler
	mailer  *stubMailer
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T, cfg *config.Config, health HealthChecker) *testServer {
	t.Helper()
	mailer := &stubMailer{}
	m := metrics.New()
	app, err := services.NewApp(context.Background(), filestore.NewRepositories(t.TempDir()), mailer, logger.NewNop(), m)
	require.NoError(t, err)

	srv := New(cfg, app, services.NewTokenService(cfg.Security), m, health, logger.NewNop())
	return &testServer{handler: srv.Handler(), mailer: mailer, metrics: m}
}

func (ts *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestTaskRoutes(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)

	rec := ts.do(t, http.MethodPost, "/api/v1/tasks", `{"description":"Write report","due_date":"2025-01-01 10:00","group":"work"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tasks := decode[[]entities.Task](t, rec)
	require.Len(t, tasks, 1)
	assert.Equal(t, 1, tasks[0].ID)

	rec = ts.do(t, http.MethodPost, "/api/v1/tasks/1/subtasks", `{"description":"outline"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/v1/tasks/1/subtasks/1/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	tasks = decode[[]entities.Task](t, rec)
	assert.True(t, tasks[0].Subtasks[0].Completed)

	rec = ts.do(t, http.MethodPost, "/api/v1/tasks/1/complete", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[[]entities.Task](t, rec)[0].Completed)

	rec = ts.do(t, http.MethodGet, "/api/v1/tasks/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Write report", decode[entities.Task](t, rec).Description)

	rec = ts.do(t, http.MethodPut, "/api/v1/tasks/42", `{"description":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "task not found")

	rec = ts.do(t, http.MethodGet, "/api/v1/tasks/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/tasks", `{"due_date":"2025-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/v1/tasks/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]entities.Task](t, rec))
}

func TestGroupRoutes(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)

	ts.do(t, http.MethodPost, "/api/v1/groups", `{"name":"deep work"}`)
	ts.do(t, http.MethodPost, "/api/v1/tasks", `{"description":"focus","group":"deep work"}`)

	rec := ts.do(t, http.MethodDelete, "/api/v1/groups/deep%20work", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{}, decode[[]string](t, rec))

	rec = ts.do(t, http.MethodGet, "/api/v1/tasks", "")
	assert.Equal(t, "", decode[[]entities.Task](t, rec)[0].Group)

	rec = ts.do(t, http.MethodPost, "/api/v1/groups", `{"name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMemoAndFolderRoutes(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)

	rec := ts.do(t, http.MethodPost, "/api/v1/folders", `{"name":"Ideas"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	folderID := decode[[]entities.Folder](t, rec)[0].ID

	rec = ts.do(t, http.MethodPost, "/api/v1/memos", `{"title":"Shed","content":"build it","folder_id":"`+folderID+`","tags":["b","a"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	ts.do(t, http.MethodPost, "/api/v1/memos", `{"title":"Other","tags":["a","c"]}`)

	rec = ts.do(t, http.MethodGet, "/api/v1/memos/tags", "")
	assert.Equal(t, []string{"a", "b", "c"}, decode[[]string](t, rec))

	rec = ts.do(t, http.MethodGet, "/api/v1/memos/search?q=BUILD", "")
	found := decode[[]entities.Memo](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, "Shed", found[0].Title)

	rec = ts.do(t, http.MethodDelete, "/api/v1/folders/"+folderID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/memos/"+found[0].ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[entities.Memo](t, rec).FolderID)

	rec = ts.do(t, http.MethodPost, "/api/v1/folders", `{"name":"child","parent_id":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFolderCycleIsBadRequest(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)

	rec := ts.do(t, http.MethodPost, "/api/v1/folders", `{"name":"a"}`)
	id := decode[[]entities.Folder](t, rec)[0].ID

	rec = ts.do(t, http.MethodPut, "/api/v1/folders/"+id, `{"name":"a","parent_id":"`+id+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFolderRenameKeepsParent(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)

	rec := ts.do(t, http.MethodPost, "/api/v1/folders", `{"name":"parent"}`)
	parentID := decode[[]entities.Folder](t, rec)[0].ID
	rec = ts.do(t, http.MethodPost, "/api/v1/folders", `{"name":"child","parent_id":"`+parentID+`"}`)
	childID := decode[[]entities.Folder](t, rec)[1].ID

	rec = ts.do(t, http.MethodPut, "/api/v1/folders/"+childID, `{"name":"renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	child := decode[[]entities.Folder](t, rec)[1]
	assert.Equal(t, "renamed", child.Name)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parentID, *child.ParentID)
}

func TestReadingRoutes(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)

	rec := ts.do(t, http.MethodPost, "/api/v1/books", `{"title":"Dune"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	book := decode[[]entities.ReadingBook](t, rec)[0]
	assert.Equal(t, entities.ReadingStatusWantToRead, book.Status)

	rec = ts.do(t, http.MethodPut, "/api/v1/books/"+book.ID, `{"title":"Dune","status":"reading","total_pages":400,"current_page":100}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 25, *decode[[]entities.ReadingBook](t, rec)[0].ProgressPercent)

	rec = ts.do(t, http.MethodPut, "/api/v1/books/"+book.ID, `{"title":"Dune","status":"lost"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/books/"+book.ID+"/sessions", `{"session_date":"2025-01-01T20:00:00Z","pages_read":30}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sessionID := decode[[]entities.ReadingBook](t, rec)[0].ReadingSessions[0].ID

	rec = ts.do(t, http.MethodDelete, "/api/v1/books/"+book.ID+"/sessions/"+sessionID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]entities.ReadingBook](t, rec)[0].ReadingSessions)

	rec = ts.do(t, http.MethodPut, "/api/v1/books/"+book.ID+"/notes/missing", `{"comment":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalendarRoutes(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)

	rec := ts.do(t, http.MethodPost, "/api/v1/events", `{"title":"Standup","start_datetime":"2025-01-02T09:00","recurrence_rule":"FREQ=DAILY"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	event := decode[[]entities.CalendarEvent](t, rec)[0]
	assert.Equal(t, "FREQ=DAILY", *event.RecurrenceRule)

	rec = ts.do(t, http.MethodPut, "/api/v1/events/"+event.ID, `{"title":"Daily","start_datetime":"2025-01-02T09:30"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[[]entities.CalendarEvent](t, rec)[0]
	assert.True(t, event.CreatedAt.Equal(updated.CreatedAt))

	rec = ts.do(t, http.MethodPost, "/api/v1/events", `{"title":"no start"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotificationRoutes(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)

	rec := ts.do(t, http.MethodPost, "/api/v1/notifications/check", "")
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/v1/notifications/test-email", "")
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/v1/settings/mail", `{"email":"not-an-address","app_password":"pw","notification_minutes":30}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/v1/settings/mail", `{"email":"me@example.com","app_password":"pw","notification_minutes":30}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/settings/mail", "")
	assert.Equal(t, 30, decode[entities.MailSettings](t, rec).NotificationMinutes)

	rec = ts.do(t, http.MethodPost, "/api/v1/notifications/test-email", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Email sent successfully", decode[map[string]string](t, rec)["message"])

	rec = ts.do(t, http.MethodPost, "/api/v1/notifications/check", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Notification check complete.\n\nSent 0 email(s)."))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

	ts.mailer.err = &mail.TransportError{Op: "send", Err: errors.New("connection refused")}
	rec = ts.do(t, http.MethodPost, "/api/v1/notifications/test-email", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestTokenGuard(t *testing.T) {
	cfg := testConfig()
	cfg.Security.APITokenSecret = "s3cret"
	ts := newTestServer(t, cfg, nil)

	rec := ts.do(t, http.MethodGet, "/api/v1/tasks", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/tasks", "", "Authorization", "Bearer nonsense")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := services.NewTokenService(cfg.Security).Issue("test")
	require.NoError(t, err)
	rec = ts.do(t, http.MethodGet, "/api/v1/tasks", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Operational endpoints stay open.
	rec = ts.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, testConfig(), stubHealth{})

	rec := ts.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", decode[map[string]string](t, rec)["version"])

	rec = ts.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	ts.do(t, http.MethodGet, "/api/v1/tasks", "")
	rec = ts.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/api/v1/tasks",status="200"} 1`)

	down := newTestServer(t, testConfig(), stubHealth{err: errors.New("db gone")})
	rec = down.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
