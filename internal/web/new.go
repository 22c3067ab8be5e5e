package web

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

type implServer struct {
	cfg          *config.Config
	orchestrator session.Orchestrator
	logger       logger.Logger
	router       *gin.Engine
}

// New builds the router and registers every route
func New(cfg *config.Config, orch session.Orchestrator, log logger.Logger) Server {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &implServer{
		cfg:          cfg,
		orchestrator: orch,
		logger:       log,
	}

	router := gin.New()
	router.Use(requestID())
	router.Use(requestLogger(log))
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/", s.index)
	router.POST("/", s.uploadPage)
	router.POST("/export/docx", s.exportDocx)

	api := router.Group("/api/v1")
	{
		api.POST("/sessions", s.createSession)
	}

	s.router = router
	return s
}
