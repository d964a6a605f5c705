package server

import (
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"plantdash/internal/charts"
	"plantdash/internal/dashboard"
	"plantdash/internal/logger"
	"plantdash/internal/reports"
	"plantdash/internal/storage"
)

// Server exposes one dashboard over HTTP
type Server struct {
	Dashboard *dashboard.Dashboard
	Storage   storage.StorageClient
	Builder   *reports.HTMLBuilder
	Capturer  charts.Capturer
	Version   string

	// mu serializes every dashboard access so each request runs to completion
	mu sync.Mutex
	// exportMutex rejects a second export while one is rendering
	exportMutex sync.Mutex

	now func() time.Time
	log *logger.Logger
}

// NewServer creates a server around a loaded dashboard. Storage may be nil, in
// which case exports are served but not archived.
func NewServer(dash *dashboard.Dashboard, store storage.StorageClient, version string) *Server {
	return &Server{
		Dashboard: dash,
		Storage:   store,
		Builder:   reports.NewHTMLBuilder(),
		Capturer:  charts.NewPNGRenderer(),
		Version:   version,
		now:       time.Now,
		log:       logger.Component("server"),
	}
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)

	r.Get("/health", s.HandleHealth)
	r.Get("/", s.HandleRoot)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.HandleDashboard)
		r.Get("/detail", s.HandleDetail)

		r.Post("/period", s.HandleSelectPeriod)
		r.Post("/period/prev", s.HandlePrev)
		r.Post("/period/next", s.HandleNext)

		r.Post("/comparison", s.HandleComparison)
		r.Post("/detail/comparison", s.HandleDetailComparison)
		r.Post("/cost-view", s.HandleCostView)
		r.Post("/legend/{group}/{index}", s.HandleLegend)

		r.Get("/export/{format}", s.HandleExport)
		r.Get("/exports", s.HandleListExports)
	})

	return r
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
