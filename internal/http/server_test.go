package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitieu/internal/api"
	"chitieu/internal/api/memory"
	"chitieu/internal/core"
	"chitieu/internal/log"
	"chitieu/internal/storage"
)

var testNow = func() time.Time { return time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC) }

// stubBackend is the seeded memory store with call counting and injectable
// failures per method name.
type stubBackend struct {
	*memory.Store
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]error
	// beforeReport runs ahead of every ReportData call.
	beforeReport func(core.ReportFilter)
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		Store: memory.NewSeeded(memory.WithClock(testNow)),
		calls: map[string]int{},
		fail:  map[string]error{},
	}
}

func (b *stubBackend) hit(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[name]++
	return b.fail[name]
}

func (b *stubBackend) count(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[name]
}

func (b *stubBackend) failWith(name string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[name] = err
}

func (b *stubBackend) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	if err := b.hit("ListTransactions"); err != nil {
		return nil, err
	}
	return b.Store.ListTransactions(ctx)
}

func (b *stubBackend) ListWallets(ctx context.Context) ([]core.Wallet, error) {
	if err := b.hit("ListWallets"); err != nil {
		return nil, err
	}
	return b.Store.ListWallets(ctx)
}

func (b *stubBackend) ListCategories(ctx context.Context) ([]core.Category, error) {
	if err := b.hit("ListCategories"); err != nil {
		return nil, err
	}
	return b.Store.ListCategories(ctx)
}

func (b *stubBackend) DeleteTransaction(ctx context.Context, id string) error {
	if err := b.hit("DeleteTransaction"); err != nil {
		return err
	}
	return b.Store.DeleteTransaction(ctx, id)
}

func (b *stubBackend) DeleteWallet(ctx context.Context, id string) error {
	if err := b.hit("DeleteWallet"); err != nil {
		return err
	}
	return b.Store.DeleteWallet(ctx, id)
}

func (b *stubBackend) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	if err := b.hit("ListBudgets"); err != nil {
		return nil, err
	}
	return b.Store.ListBudgets(ctx)
}

func (b *stubBackend) CreateBudget(ctx context.Context, in api.BudgetInput) error {
	if err := b.hit("CreateBudget"); err != nil {
		return err
	}
	return b.Store.CreateBudget(ctx, in)
}

func (b *stubBackend) DeleteBudget(ctx context.Context, id string) error {
	if err := b.hit("DeleteBudget"); err != nil {
		return err
	}
	return b.Store.DeleteBudget(ctx, id)
}

func (b *stubBackend) ReportData(ctx context.Context, f core.ReportFilter) (core.Report, error) {
	if b.beforeReport != nil {
		b.beforeReport(f)
	}
	if err := b.hit("ReportData"); err != nil {
		return core.Report{}, err
	}
	return b.Store.ReportData(ctx, f)
}

func (b *stubBackend) Chat(ctx context.Context, message string) (string, error) {
	if err := b.hit("Chat"); err != nil {
		return "", err
	}
	return b.Store.Chat(ctx, message)
}

func (b *stubBackend) ChatHistory(ctx context.Context) ([]core.ChatMessage, error) {
	if err := b.hit("ChatHistory"); err != nil {
		return nil, err
	}
	return b.Store.ChatHistory(ctx)
}

func (b *stubBackend) PredictCategory(ctx context.Context, description string) (api.Prediction, error) {
	if err := b.hit("PredictCategory"); err != nil {
		return api.Prediction{}, err
	}
	return b.Store.PredictCategory(ctx, description)
}

type fakeJournal struct {
	entries []storage.ActivityEntry
	err     error
}

func (j fakeJournal) Recent(_ context.Context, limit int) ([]storage.ActivityEntry, error) {
	if j.err != nil {
		return nil, j.err
	}
	if len(j.entries) > limit {
		return j.entries[:limit], nil
	}
	return j.entries, nil
}

func (j fakeJournal) Ping(context.Context) error { return j.err }

func discardLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func newTestServer(t *testing.T, b api.Backend, mutate ...func(*Options)) *Server {
	t.Helper()
	opts := Options{Backend: b, Logger: discardLogger(), Now: testNow}
	for _, m := range mutate {
		m(&opts)
	}
	srv, err := NewServer(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

var viewIDPattern = regexp.MustCompile(`"X-View-ID": "([0-9a-f-]{36})"`)

// openPage loads a full page and returns its view id and chat view id.
func openPage(t *testing.T, srv *Server, path string) (string, string) {
	t.Helper()
	rr := send(srv, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	m := viewIDPattern.FindAllStringSubmatch(rr.Body.String(), -1)
	require.Len(t, m, 2, "page carries the page view and the chat view")
	return m[0][1], m[1][1]
}

func send(srv *Server, method, path, view string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("HX-Request", "true")
	if view != "" {
		req.Header.Set(ViewHeader, view)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

type shownNotification struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// notification decodes the toast a response asks for; ok is false when
// there is none.
func notification(t *testing.T, rr *httptest.ResponseRecorder) (shownNotification, bool) {
	t.Helper()
	raw := rr.Header().Get("HX-Trigger")
	if raw == "" {
		return shownNotification{}, false
	}
	var triggers map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &triggers))
	data, ok := triggers["show-notification"]
	if !ok {
		return shownNotification{}, false
	}
	var n shownNotification
	require.NoError(t, json.Unmarshal(data, &n))
	return n, true
}

func TestNewServerRequiresBackend(t *testing.T) {
	_, err := NewServer(Options{Logger: discardLogger()})
	assert.Error(t, err)
}

func TestPagesRender(t *testing.T) {
	srv := newTestServer(t, newStubBackend())

	tests := []struct {
		path string
		want string
	}{
		{"/transactions", "Lưu Giao dịch"},
		{"/foundations", "Vietcombank"},
		{"/budgets", "Bạn chưa có ngân sách nào. Hãy tạo mới!"},
		{"/reports", "Tất cả Nguồn tiền"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := send(srv, http.MethodGet, tt.path, "", nil)
			require.Equal(t, http.StatusOK, rr.Code)
			body := rr.Body.String()
			assert.Contains(t, body, tt.want)
			assert.Contains(t, body, "Xin chào! Tôi là trợ lý tài chính.")
			assert.Equal(t, 2, len(viewIDPattern.FindAllString(body, -1)))
		})
	}
}

func TestRootRedirectsToTransactions(t *testing.T) {
	srv := newTestServer(t, newStubBackend())
	rr := send(srv, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/transactions", rr.Header().Get("Location"))
}

func TestEachPageLoadGetsItsOwnView(t *testing.T) {
	srv := newTestServer(t, newStubBackend())
	first, firstChat := openPage(t, srv, "/transactions")
	second, secondChat := openPage(t, srv, "/transactions")
	assert.NotEqual(t, first, second)
	assert.NotEqual(t, firstChat, secondChat)
}

func TestUnknownViewRefreshesPage(t *testing.T) {
	srv := newTestServer(t, newStubBackend())
	for _, path := range []string{"/transactions/list", "/budgets/form", "/reports/data", "/wallets/form"} {
		rr := send(srv, http.MethodGet, path, "no-such-view", nil)
		assert.Equal(t, "true", rr.Header().Get("HX-Refresh"), path)
	}
}

func TestHealthAndReady(t *testing.T) {
	b := newStubBackend()
	srv := newTestServer(t, b)

	rr := send(srv, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)

	rr = send(srv, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"journal":"not_configured"`)

	b.failWith("ListWallets", api.ErrTransport)
	rr = send(srv, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestReadyProbesJournal(t *testing.T) {
	srv := newTestServer(t, newStubBackend(), func(o *Options) {
		o.Journal = fakeJournal{err: errors.New("database is closed")}
	})
	rr := send(srv, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "database is closed")
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t, newStubBackend())
	openPage(t, srv, "/transactions")

	rr := send(srv, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, `view_entries{page="transactions"} 1`)
	assert.Contains(t, body, `view_entries{page="chat"} 1`)
}

func TestActivity(t *testing.T) {
	t.Run("without journal", func(t *testing.T) {
		srv := newTestServer(t, newStubBackend())
		rr := send(srv, http.MethodGet, "/activity", "", nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("lists recent entries", func(t *testing.T) {
		journal := fakeJournal{entries: []storage.ActivityEntry{
			{Resource: "transaction", Operation: "create", Summary: "Thêm chi tiêu 50000", OccurredAt: testNow()},
			{Resource: "budget", Operation: "delete", ResourceID: "B1", Summary: "Xóa ngân sách", OccurredAt: testNow(), Mirrored: true},
		}}
		srv := newTestServer(t, newStubBackend(), func(o *Options) { o.Journal = journal })
		rr := send(srv, http.MethodGet, "/activity", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "Thêm Giao dịch")
		assert.Contains(t, body, "Xóa Ngân sách")
		assert.Contains(t, body, "Thêm chi tiêu 50000")
	})
}

func TestMutationsAreRateLimited(t *testing.T) {
	srv := newTestServer(t, newStubBackend(), func(o *Options) { o.RateLimit = 2 })
	view, _ := openPage(t, srv, "/transactions")

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = send(srv, http.MethodPost, "/transactions/predict", view, url.Values{"description": {"phở"}})
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	n, ok := notification(t, last)
	require.True(t, ok)
	assert.Equal(t, "error", n.Type)

	// Reads are never throttled.
	rr := send(srv, http.MethodGet, "/transactions/list", view, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestStaticAssets(t *testing.T) {
	srv := newTestServer(t, newStubBackend())
	rr := send(srv, http.MethodGet, "/static/app.js", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "show-notification")
}
