package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"admindash/internal/cache"
	"admindash/internal/log"
	"admindash/internal/middleware/ratelimit"
	"admindash/internal/middleware/security"
	"admindash/internal/middleware/trace"
	"admindash/internal/records"
	"admindash/internal/services"
	"admindash/internal/store"
)

const (
	sessionCacheSize = 10_000
	sessionTTL       = 12 * time.Hour
	readyTimeout     = 2 * time.Second
	streamHeartbeat  = 15 * time.Second
)

// Pinger is implemented by stores that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the API is served from. Reports may have no
// writer configured; Pinger may be nil.
type Deps struct {
	Dashboard  *services.DashboardService
	Employees  *services.EmployeeService
	Projects   *services.ProjectService
	Reports    *services.ReportService
	Records    *records.Fetcher
	Subscriber store.Subscriber
	Pinger     Pinger
	Caches     *cache.Manager
	Logger     *log.Logger

	RateLimit      ratelimit.Config
	TrustedProxies []string
}

type Server struct {
	http.Server

	dashboard  *services.DashboardService
	employees  *services.EmployeeService
	projects   *services.ProjectService
	reports    *services.ReportService
	records    *records.Fetcher
	subscriber store.Subscriber
	pinger     Pinger
	logger     *log.Logger

	sessions *cache.LRUCache[*session]
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		dashboard:  deps.Dashboard,
		employees:  deps.Employees,
		projects:   deps.Projects,
		reports:    deps.Reports,
		records:    deps.Records,
		subscriber: deps.Subscriber,
		pinger:     deps.Pinger,
		logger:     logger,
		sessions:   cache.NewLRUCache[*session](sessionCacheSize, sessionTTL),
		limiter:    ratelimit.NewLimiter(deps.RateLimit),
		detector:   security.NewDetector(logger.WithComponent(log.ComponentSecurity)),
	}
	for _, cidr := range deps.TrustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring trusted proxy", log.FieldError, err)
		}
	}
	s.tracer = trace.NewMiddleware(logger.WithComponent(log.ComponentTrace), s.detector.ExtractClientIP)
	if deps.Caches != nil {
		deps.Caches.Register(s.sessions)
	}

	mux := http.NewServeMux()
	s.routes(mux)

	var handler http.Handler = mux
	handler = s.limiter.Middleware(s.detector.ExtractClientIP, ratelimit.Mutating, s.handleRateLimited)(handler)
	handler = s.detector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = log.RequestIDMiddleware(trace.RequestID)(handler)
	handler = s.tracer.Middleware(handler)
	handler = log.Middleware(logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("POST /api/dashboard/select", s.handleSelectCard)
	mux.HandleFunc("POST /api/dashboard/toggle", s.handleToggleCategory)
	mux.HandleFunc("POST /api/dashboard/filter", s.handleFilter)

	mux.HandleFunc("GET /api/employees", s.handleListEmployees)
	mux.HandleFunc("GET /api/employees/{id}", s.handleGetEmployee)
	mux.HandleFunc("POST /api/employees", s.handleCreateEmployee)
	mux.HandleFunc("PUT /api/employees/{id}", s.handleUpdateEmployee)

	mux.HandleFunc("GET /api/projects", s.handleListProjects)
	mux.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	mux.HandleFunc("PUT /api/projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)
	mux.HandleFunc("GET /api/projects/{id}/financials/stream", s.handleProjectStream)

	mux.HandleFunc("GET /api/clients", s.handleListClients)
	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("GET /api/roles", s.handleListRoles)

	mux.HandleFunc("POST /api/reports/export", s.handleExportReport)
}

// Shutdown stops background routines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			ErrorResponse(http.StatusServiceUnavailable, "store unavailable").Write(w)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldErrorType, log.ErrorTypeRateLimited,
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(w)
}
