package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nguyentantai21042004/caption-lens/internal/config"
	"github.com/nguyentantai21042004/caption-lens/internal/logger"
	"github.com/nguyentantai21042004/caption-lens/internal/pipeline"
)

// maxJSONBody bounds JSON request bodies such as translate requests.
const maxJSONBody = 10 << 20

// Server is the HTTP front end: uploads become analysis jobs that run in the
// background, at most performance.max_concurrent at a time.
type Server struct {
	cfg       *config.Config
	processor pipeline.Processor
	logger    logger.Logger
	jobs      *jobStore
	slots     chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu guards closed and orders wg.Add against Close's Wait.
	mu     sync.Mutex
	closed bool
}

// New creates a Server. Close must be called to stop running jobs.
func New(cfg *config.Config, processor pipeline.Processor, log logger.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	n := cfg.Performance.MaxConcurrent
	if n <= 0 {
		n = 1
	}
	return &Server{
		cfg:       cfg,
		processor: processor,
		logger:    log,
		jobs:      newJobStore(),
		slots:     make(chan struct{}, n),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(cors.Handler(corsOptions(s.cfg.Server.CORSOrigins)))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)

		r.With(maxBodySize(s.cfg.Server.MaxUploadMB<<20)).Post("/analyze", s.analyze)

		r.Group(func(r chi.Router) {
			r.Use(maxBodySize(maxJSONBody))
			r.Post("/translate", s.translate)
		})

		r.Get("/jobs", s.listJobs)
		r.Get("/jobs/{id}", s.getJob)
		r.Delete("/jobs/{id}", s.cancelJob)
		r.Get("/jobs/{id}/subtitles.{format}", s.jobSubtitles)
	})

	return r
}

// Close cancels every pending or running job and waits for them to stop.
// Uploads arriving afterwards are refused.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// track registers a background job, unless Close has been called.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}
