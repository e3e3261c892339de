package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/papercomputeco/uigen/pkg/generate"
	"github.com/papercomputeco/uigen/pkg/prompt"
)

// RequestIDHeader carries the per-request id on every response.
const RequestIDHeader = "X-Uigen-Request-Id"

// Server is the API server for generating components over HTTP.
type Server struct {
	config    Config
	generator *generate.Generator
	logger    *slog.Logger
	app       *fiber.App
}

// NewServer creates a new API server around generator.
func NewServer(config Config, generator *generate.Generator, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:    config,
		generator: generator,
		logger:    logger,
		app:       app,
	}

	origins := config.AllowOrigins
	if origins == "" {
		origins = "*"
	}

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:    RequestIDHeader,
		Generator: uuid.NewString,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  "GET,POST,OPTIONS",
		ExposeHeaders: RequestIDHeader,
	}))

	app.Get("/ping", s.handlePing)
	app.Get("/v1/components", s.handleComponents)
	app.Post("/v1/generate", s.handleGenerate)

	return s
}

// SetCatalog swaps the component catalog used by later generations.
func (s *Server) SetCatalog(c *prompt.Catalog) {
	s.generator.SetCatalog(c)
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
		"model", s.generator.Model(),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
