package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"chitieu/internal/api"
	"chitieu/internal/api/rest"
	"chitieu/internal/cache"
	"chitieu/internal/log"
	"chitieu/internal/middleware/ratelimit"
	"chitieu/internal/middleware/security"
	"chitieu/internal/middleware/trace"
	"chitieu/internal/storage"
	"chitieu/internal/ui"
	appweb "chitieu/web"
)

// ActivityJournal is the read side of the mutation journal.
type ActivityJournal interface {
	Recent(ctx context.Context, limit int) ([]storage.ActivityEntry, error)
	Ping(ctx context.Context) error
}

// Options configures a Server. Backend is required.
type Options struct {
	Addr         string
	Backend      api.Backend
	Journal      ActivityJournal
	Logger       *log.Logger
	ViewTTL      time.Duration
	ViewCapacity int
	RateLimit    int
	// Now overrides the clock used for form defaults.
	Now func() time.Time
}

type Server struct {
	http.Server
	templates *template.Template
	backend   api.Backend
	journal   ActivityJournal
	logger    *log.Logger
	events    *log.MutationLogger
	now       func() time.Time

	txViews     views[txView]
	ledgerViews views[ledgerView]
	budgetViews views[budgetView]
	reportViews views[reportView]
	chatViews   views[ui.Transcript]
	caches      *cache.Manager

	limiter    *ratelimit.Limiter
	detector   *security.Detector
	tracer     *trace.Middleware
	appMetrics *appMetrics

	shutdownOnce sync.Once
}

// NewServer parses the embedded templates and wires routes, returning a
// ready-to-run server.
func NewServer(opts Options) (*Server, error) {
	if opts.Backend == nil {
		return nil, errors.New("http server: backend is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.ViewTTL <= 0 {
		opts.ViewTTL = 30 * time.Minute
	}
	if opts.ViewCapacity <= 0 {
		opts.ViewCapacity = 500
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	logger := opts.Logger.WithComponent(log.ComponentHTTP)
	s := &Server{
		templates:   tmpl,
		backend:     opts.Backend,
		journal:     opts.Journal,
		logger:      logger,
		events:      log.NewMutationLogger(opts.Logger),
		now:         opts.Now,
		txViews:     newViews[txView](opts.ViewCapacity, opts.ViewTTL),
		ledgerViews: newViews[ledgerView](opts.ViewCapacity, opts.ViewTTL),
		budgetViews: newViews[budgetView](opts.ViewCapacity, opts.ViewTTL),
		reportViews: newViews[reportView](opts.ViewCapacity, opts.ViewTTL),
		chatViews:   newViews[ui.Transcript](opts.ViewCapacity, opts.ViewTTL),
		caches:      cache.NewManager(opts.Logger.WithComponent(log.ComponentCache).Logger),
		limiter:     ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimit}),
		detector:    security.NewDetector(),
		appMetrics:  newAppMetrics(),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, opts.Logger.Logger)
	s.registerGauges()

	s.caches.Register("transactions", s.txViews)
	s.caches.Register("foundations", s.ledgerViews)
	s.caches.Register("budgets", s.budgetViews)
	s.caches.Register("reports", s.reportViews)
	s.caches.Register("chat", s.chatViews)
	s.caches.StartCleanup(opts.ViewTTL / 2)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.tracer.Middleware)
	r.Use(s.metricsMiddleware)
	r.Use(log.ViewMiddleware(ViewHeader))
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.detector.Middleware(s.logger.Logger))
	r.Use(s.limiter.Middleware(s.detector.ExtractClientIP, ratelimit.Mutating, s.handleRateLimited))
	r.Use(middleware.Compress(5))
	r.Use(forwardCookies)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.With(security.StaticAssetMiddleware(time.Hour)).Handle("/static/*", static)
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", s.metricsHandler())
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/transactions", http.StatusSeeOther)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", s.handleTransactionsPage)
		r.Post("/", s.handleSubmitTransaction)
		r.Get("/list", s.handleFilterTransactions)
		r.Get("/list/reset", s.handleResetFilter)
		r.Get("/form", s.handleSwitchTab)
		r.Get("/form/cancel", s.handleCancelEdit)
		r.Post("/predict", s.handlePredictCategory)
		r.Get("/{id}/edit", s.handleEditTransaction)
		r.Delete("/{id}", s.handleDeleteTransaction)
	})

	r.Get("/foundations", s.handleFoundationsPage)
	r.Route("/wallets", func(r chi.Router) {
		r.Get("/form", s.handleWalletForm)
		r.Post("/", s.handleSaveWallet)
		r.Delete("/{id}", s.handleDeleteWallet)
	})
	r.Route("/categories", func(r chi.Router) {
		r.Get("/form", s.handleCategoryForm)
		r.Post("/", s.handleSaveCategory)
		r.Delete("/{id}", s.handleDeleteCategory)
	})
	r.Get("/modal/close", s.handleCloseModal)

	r.Route("/budgets", func(r chi.Router) {
		r.Get("/", s.handleBudgetsPage)
		r.Get("/form", s.handleBudgetForm)
		r.Post("/", s.handleCreateBudget)
		r.Delete("/{id}", s.handleDeleteBudget)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/", s.handleReportsPage)
		r.Get("/data", s.handleReportData)
		r.Get("/export/{kind}", s.handleExportReport)
	})

	r.Route("/chat", func(r chi.Router) {
		r.Get("/history", s.handleChatHistory)
		r.Post("/messages", s.handleSendChat)
		r.Get("/replies/{id}", s.handleChatReply)
	})

	r.Get("/activity", s.handleActivity)
	return r
}

// forwardCookies hands the browser's cookies to the backend client so the
// backend sees the same session.
func forwardCookies(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(rest.WithCookies(r.Context(), r.Cookies())))
	})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	Rejected("Bạn thao tác quá nhanh. Vui lòng thử lại sau.").
		Status(http.StatusTooManyRequests).
		Header("Retry-After", "60").
		Write(w)
}

// Shutdown stops background cleanup and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

