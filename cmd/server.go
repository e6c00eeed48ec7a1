package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Abraxas-365/matchhub/pkg/asyncx"
	"github.com/Abraxas-365/matchhub/pkg/config"
	"github.com/Abraxas-365/matchhub/pkg/errx"
	"github.com/Abraxas-365/matchhub/pkg/kernel"
	"github.com/Abraxas-365/matchhub/pkg/logx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 1. Logger
	logx.SetDefaultLogger(logx.NewLogger(logx.LoadFromEnv()))

	logx.Info("🚀 Starting MatchHub API Server...")

	// 2. Configuration
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}

	// 3. Dependency container
	container := NewContainer(cfg)
	defer container.Cleanup()

	// 4. Fiber app
	app := newApp(cfg)

	// 5. Health & metrics
	app.Get("/health", healthCheckHandler(cfg, container.HealthChecks()))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 6. Routes
	container.IAM.AuthHandlers.RegisterRoutes(app, container.IAM.AuthMiddleware)
	logx.Info("✓ Auth routes registered")

	// 7. 404 Handler
	app.Use(notFoundHandler)

	startServer(app, cfg)
}

func newApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Server.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler,
		BodyLimit:             1 * 1024 * 1024,
		IdleTimeout:           120 * time.Second,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.Server.Debug,
	}))

	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))
	app.Use(requestContext)

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:  "GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS",
		ExposeHeaders: "X-Request-ID",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip} | ${respHeader:X-Request-ID}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	return app
}

// requestContext copies the request ID into the user context so services
// can log it.
func requestContext(c *fiber.Ctx) error {
	if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
		c.SetUserContext(context.WithValue(c.UserContext(), kernel.RequestIDKey, id))
	}
	return c.Next()
}

// ============================================================================
// Handler Functions
// ============================================================================

// healthCheckHandler pings every dependency with a short deadline.
func healthCheckHandler(cfg *config.Config, checks map[string]func(context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := fiber.Map{
			"status":  "healthy",
			"service": cfg.Server.AppName,
			"version": cfg.Server.Version,
		}

		for name, check := range checks {
			_, err := asyncx.WithTimeout(c.UserContext(), 2*time.Second, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, check(ctx)
			})
			if err != nil {
				logx.WithField("dependency", name).WithError(err).Warn("Health check failed")
				health[name] = "unhealthy"
				health["status"] = "degraded"
				continue
			}
			health[name] = "healthy"
		}

		status := fiber.StatusOK
		if health["status"] == "degraded" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(health)
	}
}

func notFoundHandler(c *fiber.Ctx) error {
	return errx.NotFound("The requested endpoint does not exist").
		WithDetail("path", c.Path()).
		WithDetail("method", c.Method())
}

// ============================================================================
// Error Handler
// ============================================================================

// globalErrorHandler converts returned errors to the standard failure body.
// Causes are logged here and never sent to clients.
func globalErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(errx.Response{
			Status:  false,
			Code:    "HTTP_ERROR",
			Message: e.Message,
		})
	}

	status, resp := errx.ToResponse(err)

	entry := logx.WithFields(logx.Fields{
		"path":       c.Path(),
		"method":     c.Method(),
		"ip":         c.IP(),
		"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
		"code":       resp.Code,
		"status":     status,
	}).WithError(err)
	if status >= fiber.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request rejected")
	}

	return c.Status(status).JSON(resp)
}

// ============================================================================
// Lifecycle
// ============================================================================

func startServer(app *fiber.App, cfg *config.Config) {
	port := cfg.Server.Port

	asyncx.Do(func() {
		logx.Info(strings.Repeat("=", 61))
		logx.Infof("🚀 Server listening on port %s", port)
		logx.Infof("💚 Health Check: http://localhost:%s/health", port)
		logx.Infof("📈 Metrics: http://localhost:%s/metrics", port)
		logx.Info(strings.Repeat("=", 61))

		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}, func(r any) {
		logx.Fatalf("Server panicked: %v", r)
	})

	gracefulShutdown(app, cfg.Server.ShutdownTimeout)
}

func gracefulShutdown(app *fiber.App, timeout time.Duration) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logx.Infof("🛑 Received signal: %v", sig)
	logx.Info("Shutting down gracefully...")

	if err := app.ShutdownWithTimeout(timeout); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("✅ Server exited successfully")
}
