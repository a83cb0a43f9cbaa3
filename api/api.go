package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/flowwed/emily/pkg/chat"
)

// Server is the HTTP server fronting the chat orchestrator.
type Server struct {
	config Config
	orch   *chat.Orchestrator
	logger *zap.Logger
	app    *fiber.App
}

// NewServer creates a new API server.
// The orchestrator is injected to allow sharing with other front ends
// (e.g., the interactive CLI client).
func NewServer(config Config, orch *chat.Orchestrator, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// The studio frontend is served from a different origin.
	app.Use(cors.New())

	s := &Server{
		config: config,
		orch:   orch,
		logger: logger,
		app:    app,
	}

	app.Get("/", s.handleStatus)
	app.Post("/chat", s.handleChat)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
