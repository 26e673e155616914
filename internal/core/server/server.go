package server

import (
	"context"
	"errors"
	"fmt"

	"flow-seal-proxy/internal/core/config"
	"flow-seal-proxy/internal/core/logger"
	"flow-seal-proxy/internal/core/metrics"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "flow-seal-proxy/docs/swagger"
)

const (
	// BodyLimit caps webhook bodies at 200 KB.
	BodyLimit = 200 * 1024
	// RequestIDHeader carries the ray id echoed in error responses.
	RequestIDHeader = "X-Ray-ID"
)

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
}

// New creates a new Server instance with configured middleware.
// GET /metrics exposes m, which may be nil.
func New(cfg *config.AppConfig, m *metrics.Recorder) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               logger.ServiceName,
		BodyLimit:             BodyLimit,
		ErrorHandler:          errorHandler,
	})

	app.Use(requestid.New(requestid.Config{
		Header:    RequestIDHeader,
		Generator: uuid.NewString,
	}))

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logger.Get().Error("Panic recovered",
				zap.Any("panic", e),
				zap.String("path", c.Path()),
				zap.Stack("stack"),
			)
		},
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
		Fields: []string{"status", "method", "url", "latency", "requestId"},
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	return &Server{
		App: app,
		cfg: cfg,
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}

// errorHandler renders errors no handler dealt with, panics included, as a generic JSON body.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		logger.Get().Error("Unhandled request error", zap.String("path", c.Path()), zap.Error(err))
	}

	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	return c.Status(code).JSON(fiber.Map{
		"message": msg,
		"ray_id":  rayID,
	})
}
