package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"workflow-builder/backend/internal/logging"
)

// BasePath is where the REST API is mounted.
const BasePath = "/api/v1"

// NewRouter builds the echo instance with middleware, the REST API, the
// websocket event stream and the docs endpoints.
func NewRouter(server *Server, hub *Hub, logger *logging.Logger) *echo.Echo {
	if logger == nil {
		logger = logging.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("workflow-builder"))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []interface{}{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				args = append(args, "error", v.Error)
			}
			logger.Info("request", args...)
			return nil
		},
	}))

	e.GET("/health", HandleHealth)
	e.GET("/openapi.yaml", SpecHandler)
	e.GET("/docs", SwaggerHandler("/openapi.yaml"))

	apiGroup := e.Group(BasePath)
	RegisterHandlers(apiGroup, server)
	if hub != nil {
		apiGroup.GET("/ws", hub.HandleWebsocket)
	}

	return e
}
