// Package web serves the site shell and the appearance API over gin.
//
// Every request gets its own server-side appearance Context seeded from the
// request cookies. Preference changes made through it are written back to the
// response as Set-Cookie headers.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	appearanceapp "github.com/alexisbeaulieu97/conservancy/internal/appearance"
	"github.com/alexisbeaulieu97/conservancy/internal/cachetags"
	"github.com/alexisbeaulieu97/conservancy/internal/config"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/metrics"
	"github.com/alexisbeaulieu97/conservancy/internal/ports"
	"github.com/alexisbeaulieu97/conservancy/internal/tokens"
)

// Options configures a Server. Nil fields get defaults.
type Options struct {
	Config  *config.Config
	Logger  ports.Logger
	Metrics *metrics.Metrics
	// Events receives appearance and cache events. The server subscribes its
	// metrics to it.
	Events ports.EventPublisher
}

// Server owns the gin engine and its dependencies.
type Server struct {
	cfg        *config.Config
	logger     ports.Logger
	metrics    *metrics.Metrics
	publisher  ports.EventPublisher
	factory    *appearanceapp.Factory
	engine     *gin.Engine
	stylesheet []byte
}

// New builds a Server and registers its routes. It fails only when the
// metrics cannot subscribe to the event publisher.
func New(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	logger = logger.With("component", "web")
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	publisher := opts.Events
	if publisher == nil {
		publisher = events.NewLoggingPublisher(logger)
	}
	if err := recordEvents(publisher, m); err != nil {
		return nil, fmt.Errorf("subscribe metrics: %w", err)
	}

	s := &Server{
		cfg:        cfg,
		logger:     logger,
		metrics:    m,
		publisher:  publisher,
		factory:    appearanceapp.NewFactory(appearanceapp.Server, appearanceapp.Dependencies{Logger: logger}),
		stylesheet: []byte(tokens.Stylesheet()),
	}
	s.engine = s.routes()
	return s, nil
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadTimeout:       s.cfg.Server.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.Server.ReadTimeout(),
		WriteTimeout:      s.cfg.Server.WriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info(ctx, "server listening", "address", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout())
	defer cancel()

	s.logger.Info(shutdownCtx, "server shutting down", "timeout", s.cfg.Server.ShutdownTimeout().String())
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() *gin.Engine {
	registerBindings()

	r := gin.New()
	r.Use(correlationID(), recovery(s.logger), requestLogger(s.logger, s.metrics))
	r.SetHTMLTemplate(pageTemplate)

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	r.GET("/tokens.css", s.tokens)
	r.POST("/api/revalidate", s.revalidate)

	site := r.Group("/", appearanceMiddleware(s.factory, s.publisher))
	{
		site.GET("/", s.home)

		api := site.Group("/api")
		{
			api.GET("/appearance", s.getAppearance)
			api.PUT("/appearance", s.putAppearance)
		}
	}

	return r
}

func (s *Server) cachePolicy() cachetags.Policy {
	return cachetags.Policy{
		SMaxAge:              s.cfg.Cache.SMaxAgeSeconds,
		StaleWhileRevalidate: s.cfg.Cache.StaleWhileRevalidateSeconds,
	}
}
