// Package health exposes liveness, readiness and run counters over HTTP.
package health

import (
	"context"

	"poupeai/statement-ingestion/internal/logging"

	"github.com/gofiber/fiber/v2"
)

// ReadinessCheck reports whether a dependency is usable.
type ReadinessCheck func() error

// Server serves /health and /ready.
type Server struct {
	app    *fiber.App
	stats  *Stats
	checks map[string]ReadinessCheck
	logger logging.Logger
}

// NewServer creates a health server reporting stats. Checks are evaluated on
// every /ready request.
func NewServer(stats *Stats, checks map[string]ReadinessCheck, logger logging.Logger) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			AppName:               "statement-ingestion",
		}),
		stats:  stats,
		checks: checks,
		logger: logger,
	}
	s.app.Get("/health", s.handleHealth)
	s.app.Get("/ready", s.handleReady)
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on address until Shutdown is called.
func (s *Server) Listen(address string) error {
	s.logger.Info("Health server listening", logging.F(logging.FieldEndpoint, address))
	return s.app.Listen(address)
}

// Shutdown stops the server, waiting for open requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "UP",
		"stats":  s.stats.Snapshot(),
	})
}

func (s *Server) handleReady(c *fiber.Ctx) error {
	failures := fiber.Map{}
	for name, check := range s.checks {
		if err := check(); err != nil {
			failures[name] = err.Error()
		}
	}
	if len(failures) > 0 {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "DOWN",
			"checks": failures,
		})
	}
	return c.JSON(fiber.Map{"status": "UP"})
}
