package server

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/greenburghlibrary/deskcheck/internal/config"
	"github.com/greenburghlibrary/deskcheck/pkg/core/services"
	"github.com/greenburghlibrary/deskcheck/pkg/metrics"
)

// Server exposes the aggregation engine over HTTP
type Server struct {
	cfg      *config.Config
	staffing services.StaffingSource
	calendar services.CalendarSource
	logger   *zap.Logger
}

func New(cfg *config.Config, staffing services.StaffingSource, calendar services.CalendarSource, logger *zap.Logger) *Server {
	return &Server{
		cfg:      cfg,
		staffing: staffing,
		calendar: calendar,
		logger:   logger,
	}
}

// Router builds the route table. Kept separate from Run so tests can drive
// the engine through httptest.
func (s *Server) Router() *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "deskcheck",
			"window":  s.cfg.WindowDays,
		})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	r.GET("/conflicts", s.getConflicts)
	r.GET("/suggestions", s.getSuggestions)
	r.GET("/simulations", s.getSimulations)

	return r
}

// Run serves until the listener fails
func (s *Server) Run(port string) error {
	if port == "" {
		port = "8000"
	}
	s.logger.Info("Server starting", zap.String("port", port))
	return s.Router().Run(":" + port)
}
