package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/tasksearch/tasksearch/v1/logger"
	"github.com/tasksearch/tasksearch/v1/metrics"
	"github.com/tasksearch/tasksearch/v1/tracer"
)

// ServerParams groups the dependencies of the HTTP server.
type ServerParams struct {
	fx.In

	Config  Config
	Service TaskService
	Checks  []ReadinessCheck
	Metrics metrics.MetricsCollector
	Tracer  *tracer.Tracer
	Logger  logger.Logger
}

// Server is the HTTP front of the task service.
type Server struct {
	// Engine is exposed for tests, which can drive it with httptest.
	Engine *gin.Engine
	HTTP   *http.Server

	cfg    Config
	logger logger.Logger
}

// NewServer builds the gin engine with its middleware and routes. It does not
// start listening; see RegisterServerLifecycle.
func NewServer(params ServerParams) *Server {
	gin.SetMode(params.Config.GinMode)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		securityHeaders(),
		corsHandler(),
		tracing(params.Tracer),
		requestLogger(params.Logger),
		requestMetrics(params.Metrics),
	)

	h := &handler{
		service:          params.Service,
		checks:           params.Checks,
		readinessTimeout: params.Config.ReadinessTimeout,
		logger:           params.Logger,
	}
	registerRoutes(engine, h)

	return &Server{
		Engine: engine,
		HTTP: &http.Server{
			Addr:         params.Config.Addr(),
			Handler:      engine,
			ReadTimeout:  params.Config.ReadTimeout,
			WriteTimeout: params.Config.WriteTimeout,
		},
		cfg:    params.Config,
		logger: params.Logger,
	}
}

func registerRoutes(engine *gin.Engine, h *handler) {
	engine.GET("/", h.root)
	engine.GET("/health", h.health)
	engine.GET("/health/ready", h.ready)

	t := engine.Group("/tasks")
	{
		t.GET("", h.listTasks)
		t.POST("", h.createTask)
		t.GET("/search", h.searchTasks)
		t.DELETE("/:id", h.deleteTask)
	}

	engine.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, msgNotFound)
	})
}
