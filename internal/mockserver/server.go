package mockserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// DefaultLegacyMonths is the window served to requests without period
// parameters.
const DefaultLegacyMonths = 60

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Generator       GeneratorConfig
	LegacyMonths    int
}

// Server is a stand-in for the statistics service with canned, seeded data.
type Server struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server

	series          Series
	now             time.Time
	legacyMonths    int
	shutdownTimeout time.Duration
}

func New(logger zerolog.Logger, config Config) *Server {
	if config.Generator.Now.IsZero() {
		config.Generator.Now = time.Now()
	}
	if config.LegacyMonths <= 0 {
		config.LegacyMonths = DefaultLegacyMonths
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		logger:          &logger,
		series:          Generate(config.Generator),
		now:             config.Generator.Now,
		legacyMonths:    config.LegacyMonths,
		shutdownTimeout: config.ShutdownTimeout,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Get("/statistics", s.statistics)
		r.Get("/press-release", s.pressRelease)
		r.Get("/download-data", s.downloadData)
		r.Post("/pdf-to-docx", s.convert)
		r.Post("/upload", s.upload)
	})

	s.router = router
	s.server = &http.Server{
		Addr:    config.Addr,
		Handler: router,
	}
	return s
}

// Handler exposes the router, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Series returns the generated data backing the server.
func (s *Server) Series() Series {
	return s.series
}

// Start serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("starting mock backend")
		serverErrors <- s.server.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		err := s.server.Shutdown(shutdownCtx)
		if err != nil {
			s.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = s.server.Close()
		}
		return err
	}
}
