package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"expensetracker/internal/cache"
	"expensetracker/internal/config"
	"expensetracker/internal/core"
	"expensetracker/internal/events"
	"expensetracker/internal/form"
	"expensetracker/internal/log"
	"expensetracker/internal/middleware/ratelimit"
	"expensetracker/internal/middleware/security"
	"expensetracker/internal/middleware/trace"
	"expensetracker/internal/session"
	appweb "expensetracker/web"
)

// Options wires a Server.
type Options struct {
	Addr     string
	API      Gateway
	Sessions *session.Manager
	// Expenses caches the last ViewExpenses list per session. Defaults to
	// an in-memory LRU.
	Expenses           cache.Cache[core.ExpenseListResult]
	Events             *events.Notifier
	AnalyticsSource    string
	RateLimitPerMinute int
	Logger             *log.Logger
	// Assets overrides the embedded templates and static files.
	Assets fs.FS
}

type Server struct {
	http.Server
	templates *template.Template
	api       Gateway
	sessions  *session.Manager
	expenses  cache.Cache[core.ExpenseListResult]
	events    *events.Notifier
	validator *form.Validator
	logger    *log.Logger

	analyticsSource string

	traceMiddleware  *trace.Middleware
	securityDetector *security.Detector
	rateLimiter      *ratelimit.Limiter

	appMetrics *appMetrics
}

// appMetrics tracks application-level counters for /metrics.
type appMetrics struct {
	uptime          time.Time
	logins          int64
	signups         int64
	expensesCreated int64
	expensesDeleted int64
	upstreamErrors  int64
	cacheHits       int64
	cacheMisses     int64
}

// DefaultExpenseCache returns the cache used when Options.Expenses is nil.
func DefaultExpenseCache() *cache.LRUCache[core.ExpenseListResult] {
	return cache.NewLRUCache[core.ExpenseListResult](1000, 30*time.Minute)
}

// NewServer parses templates and configures routes.
func NewServer(opts Options) (*Server, error) {
	if opts.API == nil || opts.Sessions == nil {
		return nil, fmt.Errorf("http server: API and Sessions are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	assets := opts.Assets
	if assets == nil {
		assets = appweb.FS
	}
	templates, err := parseTemplates(assets)
	if err != nil {
		return nil, err
	}
	expenses := opts.Expenses
	if expenses == nil {
		expenses = DefaultExpenseCache()
	}
	source := opts.AnalyticsSource
	if source == "" {
		source = config.AnalyticsRecords
	}

	s := &Server{
		templates:       templates,
		api:             opts.API,
		sessions:        opts.Sessions,
		expenses:        expenses,
		events:          opts.Events,
		validator:       form.NewValidator(),
		logger:          logger.WithComponent(log.ComponentHTTP),
		analyticsSource: source,
		rateLimiter:     ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		appMetrics:      &appMetrics{uptime: time.Now()},
	}
	s.securityDetector = security.NewDetector(logger)
	s.traceMiddleware = trace.NewMiddleware(s.securityDetector.ExtractClientIP, logger)

	static, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(http.FileServer(http.FS(static))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(static http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.traceMiddleware.Middleware)
	r.Use(log.Middleware(s.logger))
	r.Use(log.RequestIDMiddleware(trace.RequestID))
	r.Use(s.securityDetector.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", s.handleMetrics)
	r.With(security.StaticAssetMiddleware(3600)).
		Handle("/static/*", http.StripPrefix("/static/", static))

	r.Group(func(r chi.Router) {
		r.Use(security.NoStore)
		r.Use(s.withSession)

		r.Get(RouteLogin, s.handleLoginPage)
		r.Get(RouteSignup, s.handleSignupPage)
		r.Get(RouteDashboard, s.handleDashboard)
		r.Get(RouteDashboard+"/{tab}", s.handleDashboardTab)
		r.Get(RouteAnalytics, s.handleAnalyticsPage)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.handleRateLimited))

			r.Post("/login", s.handleLogin)
			r.Post(RouteSignup, s.handleSignup)
			r.Post("/logout", s.handleLogout)
			r.With(s.requireLiveToken).Post(RouteDashboard+"/expenses", s.handleCreateExpense)
			r.With(s.requireLiveToken).Delete(RouteDashboard+"/expenses/{id}", s.handleDeleteExpense)
		})
	})

	r.NotFound(s.handleNotFound)
	return r
}

// RunBackground runs the rate limiter cleanup until ctx is done.
func (s *Server) RunBackground(ctx context.Context) {
	s.rateLimiter.Run(ctx)
}

func (s *Server) countCache(hit bool) {
	if hit {
		atomic.AddInt64(&s.appMetrics.cacheHits, 1)
	} else {
		atomic.AddInt64(&s.appMetrics.cacheMisses, 1)
	}
}
