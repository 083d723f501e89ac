package web

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/gofiber/template/html/v3"

	"github.com/keywordpulse/keywordpulse/internal/config"
)

// Server wraps the Fiber app and configuration.
type Server struct {
	App *fiber.App
	Cfg *config.Global
}

// New creates the single-page app with middleware and routes configured.
func New(cfg *config.Global) *Server {
	return newServer(cfg, NewRunHandler(cfg))
}

func newServer(cfg *config.Global, h *RunHandler) *Server {
	engine := html.New(cfg.ViewsDir, ".html")

	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/main",
		// Uploads are kept in memory for the duration of one run only.
		BodyLimit: 32 << 20,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return c.Status(code).Render("error", fiber.Map{
				"Title":   "Error",
				"Message": message,
			})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/static/*", static.New(cfg.StaticDir))

	app.Get("/", h.Index)
	app.Post("/analyze", h.Analyze)

	return &Server{App: app, Cfg: cfg}
}

// Start starts the server on the configured address.
func (s *Server) Start() error {
	return s.App.Listen(s.Cfg.ListenAddr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}
