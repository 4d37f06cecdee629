package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/blockslide/internal/app"
	"github.com/annel0/blockslide/internal/eventbus"
	"github.com/annel0/blockslide/internal/logging"
	"github.com/annel0/blockslide/internal/middleware"
)

const (
	serverName    = "Blockslide Level Server"
	serverVersion = "v0.1.0"
)

// RestServer представляет REST API сервер
type RestServer struct {
	router     *gin.Engine
	levels     *app.LevelService
	bus        eventbus.EventBus
	port       string
	metrics    *ServerMetrics
	log        *logging.Logger
	httpServer *http.Server
	streams    *streamHandler
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port        string                // порт для запуска сервера
	Levels      *app.LevelService     // сервис уровней
	Bus         eventbus.EventBus     // шина событий, для статистики (необязательна)
	Logger      *logging.Logger       // логгер API (nil - GetAPILogger)
	Registerer  prometheus.Registerer // регистр HTTP-метрик (nil - глобальный)
	Gatherer    prometheus.Gatherer   // источник /metrics (nil - глобальный)
	ServiceName string                // имя сервиса для otelgin
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) (*RestServer, error) {
	if config.Levels == nil {
		return nil, fmt.Errorf("level service is required")
	}
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.Logger == nil {
		config.Logger = logging.GetAPILogger()
	}
	if config.ServiceName == "" {
		config.ServiceName = "blockslide"
	}

	// Устанавливаем режим релиза для gin
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware(config.ServiceName))
	router.Use(middleware.NewRequestLogger(config.Logger).Handler())
	router.Use(middleware.CORS())

	promMw := middleware.NewPrometheusMiddleware("rest_api", config.Registerer)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, config.Gatherer)

	server := &RestServer{
		router:  router,
		levels:  config.Levels,
		bus:     config.Bus,
		port:    config.Port,
		metrics: NewServerMetrics(),
		log:     config.Logger,
		streams: newStreamHandler(config.Levels, config.Logger),
	}

	// Настраиваем маршруты
	server.setupRoutes()

	return server, nil
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	rs.router.GET("/health", rs.handleHealth)

	api := rs.router.Group("/api")
	api.GET("/server", rs.handleServerInfo)

	levels := api.Group("/levels")
	{
		levels.GET("", rs.handleListLevels)
		levels.POST("", rs.handleGenerateLevel)
		levels.POST("/import", rs.handleImportLevel)
		levels.GET("/:id", rs.handleGetLevel)
		levels.DELETE("/:id", rs.handleDeleteLevel)
		levels.GET("/:id/literal", rs.handleLevelLiteral)
		levels.POST("/:id/moves", rs.handleMove)
		levels.GET("/:id/stream", rs.streams.handle)
	}
}

// Handler возвращает http.Handler сервера
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

func (rs *RestServer) handleServerInfo(c *gin.Context) {
	data := gin.H{"server": rs.metrics.Snapshot(serverName, serverVersion)}
	if rs.bus != nil {
		data["eventbus"] = rs.bus.Metrics()
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Информация о сервере",
		Data:    data,
	})
}

// Start запускает REST сервер и блокируется до остановки
func (rs *RestServer) Start() error {
	rs.httpServer = &http.Server{
		Addr:              rs.port,
		Handler:           rs.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	rs.log.Info("🌐 REST API слушает %s", rs.port)
	if err := rs.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop корректно останавливает сервер, закрывая открытые потоки событий
func (rs *RestServer) Stop(ctx context.Context) error {
	rs.streams.closeAll()
	if rs.httpServer == nil {
		return nil
	}
	return rs.httpServer.Shutdown(ctx)
}
