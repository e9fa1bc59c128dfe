package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"crowdwatch-worker-go/internal/api/handlers"
	"crowdwatch-worker-go/internal/config"
	"crowdwatch-worker-go/internal/worker"
)

type Server struct {
	config *config.Config
	router *gin.Engine
	server *http.Server

	healthHandler      *handlers.HealthHandler
	systemHandler      *handlers.SystemHandler
	workerHandler      *handlers.WorkerHandler
	zoneHandler        *handlers.ZoneHandler
	alertHandler       *handlers.AlertHandler
	instructionHandler *handlers.InstructionHandler
}

// Option customizes a Server
type Option func(*options)

type options struct {
	now       handlers.Clock
	messaging func() bool
}

// WithClock pins the time source used by alert and classification handlers
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithMessagingStatus reports bus connectivity on /health
func WithMessagingStatus(connected func() bool) Option {
	return func(o *options) { o.messaging = connected }
}

func NewServer(cfg *config.Config, w *worker.Worker, opts ...Option) (*Server, error) {
	if w == nil {
		return nil, errors.New("worker is required")
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:             cfg,
		router:             gin.New(),
		healthHandler:      handlers.NewHealthHandler(cfg.WorkerID, cfg.Version, o.messaging),
		systemHandler:      handlers.NewSystemHandler(w),
		workerHandler:      handlers.NewWorkerHandler(cfg),
		zoneHandler:        handlers.NewZoneHandler(w, o.now),
		alertHandler:       handlers.NewAlertHandler(w, o.now, cfg.AlertsActiveWindow, cfg.AlertsMaxAge),
		instructionHandler: handlers.NewInstructionHandler(w),
	}

	s.setupMiddleware()

	s.setupRoutes()

	s.setupSwagger()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Handler exposes the router, mainly for httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown is called
func (s *Server) Start() error {
	log.Info().Int("port", s.config.Port).Msg("🚀 Starting CrowdWatch worker API")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("🛑 Stopping CrowdWatch worker API...")
	return s.server.Shutdown(ctx)
}
