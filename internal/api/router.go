package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/api/docs"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/api/handler"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/api/middleware"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/config"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/metrics"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/ws"
)

// formOverhead is the body allowance for multipart framing and text fields
// on top of the image itself.
const formOverhead = 1 << 20

type Dependencies struct {
	Config     *config.Config
	Gallery    handler.GalleryService
	Recognizer handler.RecognitionService
	Metrics    *metrics.Metrics
	Checks     []handler.Check
	Version    string
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
	wsHub  *ws.Hub
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "IDentifyMe API",
		BodyLimit:    deps.Config.MaxUploadBytes() + formOverhead,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
		wsHub:  ws.NewHub(),
	}
}

func (r *Router) Setup() {
	cfg := r.deps.Config

	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(middleware.Metrics(r.deps.Metrics))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept",
		ExposeHeaders: "X-Person-Name,X-Person-Id,X-Request-ID",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health and metrics
	healthHandler := handler.NewHealthHandler(r.deps.Version, r.deps.Checks...)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)
	r.app.Get("/metrics", adaptor.HTTPHandler(r.deps.Metrics.Handler()))

	// Event hub for /v1/events
	go r.wsHub.Run()

	v1 := r.app.Group("/v1")

	infoHandler := handler.NewInfoHandler(handler.InfoResponse{
		PicturePrompt: cfg.PicturePrompt,
		WebcamPrompt:  cfg.WebcamPrompt,
		Tolerance:     cfg.Tolerance,
	})
	v1.Get("/info", infoHandler.Info)

	// Recognition routes
	recognizeHandler := handler.NewRecognizeHandler(r.deps.Recognizer, r.deps.Metrics, cfg.Tolerance, cfg.MaxUploadBytes(), r.logger)
	v1.Post("/recognize", recognizeHandler.Recognize)
	v1.Post("/recognize/annotated", recognizeHandler.Annotated)

	// People routes
	peopleHandler := handler.NewPeopleHandler(r.deps.Gallery, r.wsHub, r.deps.Metrics, cfg.MaxUploadBytes(), r.logger)
	v1.Get("/people", peopleHandler.List)
	v1.Post("/people", peopleHandler.Create)
	v1.Get("/people/:id", peopleHandler.Get)
	v1.Get("/people/:id/image", peopleHandler.Image)
	v1.Put("/people/:id", peopleHandler.Update)
	v1.Delete("/people/:id", peopleHandler.Delete)

	// Gallery routes
	galleryHandler := handler.NewGalleryHandler(r.deps.Gallery, r.wsHub, r.deps.Metrics, cfg.DatasetDir, r.logger)
	v1.Post("/gallery/rebuild", galleryHandler.Rebuild)

	// WebSocket endpoints
	v1.Get("/live", ws.UpgradeMiddleware(), ws.LiveHandler(ws.LiveConfig{
		Recognizer: r.deps.Recognizer,
		Tolerance:  cfg.Tolerance,
		Logger:     r.logger,
	}))
	v1.Get("/events", ws.UpgradeMiddleware(), ws.EventsHandler(r.wsHub))
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Hub() *ws.Hub {
	return r.wsHub
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop WebSocket hub
	r.wsHub.Stop()

	return r.app.Shutdown()
}
