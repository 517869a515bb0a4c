package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/wesleysambacht/booking/api"
	"github.com/wesleysambacht/booking/config"
	"github.com/wesleysambacht/booking/internal/logger"
	"github.com/wesleysambacht/booking/internal/metrics"
)

// Handlers are the API handlers mounted under /api/v1.
type Handlers struct {
	Availability *api.AvailabilityHandler
	Sessions     *api.SessionHandler
}

type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// Run serves HTTP and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, h Handlers, gatherer prometheus.Gatherer, m *metrics.Metrics, log *logger.Logger) error {
	s := NewServer(cfg, h, gatherer, m, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening on %s", cfg.HTTP.Address)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		log.Info("http server stopped")
		return nil
	}
}

func NewServer(cfg *config.Config, h Handlers, gatherer prometheus.Gatherer, m *metrics.Metrics, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           NewRouter(cfg, h, gatherer, m, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: time.Duration(cfg.HTTP.ShutdownSeconds) * time.Second,
	}
}

// NewRouter wires middleware, API routes and the ops endpoints.
func NewRouter(cfg *config.Config, h Handlers, gatherer prometheus.Gatherer, m *metrics.Metrics, log *logger.Logger) *gin.Engine {
	if log.GetLevel() != logger.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.RecoveryWithWriter(log.Writer()), api.RequestLogger(log), api.Instrument(m))

	v1 := router.Group("/api/v1")
	if h.Availability != nil {
		h.Availability.Register(v1.Group("/availability"))
	}
	if h.Sessions != nil {
		h.Sessions.Register(v1.Group("/sessions"))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/docs/openapi.json", api.OpenAPI)
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/docs/openapi.json"))))

	if cfg.Metrics.Enabled && gatherer != nil {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	return router
}
