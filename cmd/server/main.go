package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/reserva/internal/config"
	"github.com/localnerve/reserva/internal/database"
	gql "github.com/localnerve/reserva/internal/graphql"
	"github.com/localnerve/reserva/internal/handlers"
	"github.com/localnerve/reserva/internal/middleware"
	"github.com/localnerve/reserva/internal/services"
	"github.com/localnerve/reserva/internal/types"
	"github.com/localnerve/reserva/views"

	_ "github.com/localnerve/reserva/docs/api" // Swagger docs
)

// @title Reserva API
// @version 1.0.0
// @description Reservation and booking web service
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/reserva
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name reserva_session

func main() {
	appLog := log.New(os.Stdout, "", log.LstdFlags)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		appLog.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		appLog.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		appLog.Fatalf("Failed to run migrations: %v", err)
	}

	// Parse templates once at start
	renderer, err := views.New()
	if err != nil {
		appLog.Fatalf("Failed to load templates: %v", err)
	}

	// Session manager, constructed once and passed down
	sessions := services.NewSessionManager(cfg.SessionSecret)

	// Build the GraphQL schema once and hand it to the handler
	schema, err := gql.NewSchema(db)
	if err != nil {
		appLog.Fatalf("Failed to build GraphQL schema: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("reserva")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Version + principal resolution on every remaining route
	app.Use(middleware.VersionMiddleware())
	app.Use(middleware.LoadPrincipal(cfg.CookieName, sessions))

	// Create handlers
	authHandler := &handlers.AuthHandler{
		DB: db, Sessions: sessions, Views: renderer, Log: appLog, CookieName: cfg.CookieName,
	}
	orderHandler := &handlers.OrderHandler{DB: db, Views: renderer, Log: appLog}
	numberHandler := &handlers.NumberPhoneHandler{DB: db, Views: renderer, Log: appLog}
	graphqlHandler := &handlers.GraphQLHandler{Schema: schema, Log: appLog}
	healthHandler := &handlers.HealthHandler{Cfg: cfg, DB: db, Log: appLog}

	// Health
	app.Get("/healthz", healthHandler.Get)

	// Auth flow (signup/login are public; already-authenticated users
	// are redirected by the handlers themselves)
	app.Get("/signup", authHandler.ShowSignup)
	app.Post("/signup", authHandler.Signup)
	app.Get("/login", authHandler.ShowLogin)
	app.Post("/login", authHandler.Login)
	app.Get("/logout", middleware.RequireUser(), authHandler.Logout)
	app.Get("/edit-profile", middleware.RequireUser(), authHandler.ShowEditProfile)
	app.Post("/edit-profile", middleware.RequireUser(), authHandler.EditProfile)
	app.Get("/delete-account", middleware.RequireUser(), authHandler.ShowDeleteAccount)
	app.Post("/delete-account", middleware.RequireUser(), authHandler.DeleteAccount)

	// Orders (list is a soft read; mutations are guarded)
	app.Get("/order", middleware.RequireUser(), orderHandler.ShowAddOrder)
	app.Post("/order", middleware.RequireUser(), orderHandler.AddOrder)
	app.Get("/orders", orderHandler.ListOrders)

	// Phone number (read is soft; add/update/delete are guarded).
	// Register /add before /:id so it isn't captured by the parameter.
	app.Get("/number-phone/add", middleware.RequireUser(), numberHandler.ShowAddNumberPhone)
	app.Post("/number-phone/add", middleware.RequireUser(), numberHandler.AddNumberPhone)
	app.Get("/number-phone/:id", middleware.RequireUser(), numberHandler.ShowUpdateNumberPhone)
	app.Post("/number-phone/:id", middleware.RequireUser(), numberHandler.UpdateNumberPhone)
	app.Post("/number-phone/:id/delete", middleware.RequireUser(), numberHandler.DeleteNumberPhone)
	app.Get("/number-phone", numberHandler.ReadNumberPhone)

	// GraphQL surface
	app.Post("/graphql", graphqlHandler.Post)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		appLog.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	appLog.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLog.Fatalf("Failed to start server: %v", err)
	}

	appLog.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Check for middleware errors carrying their own status
	var custom *types.CustomError
	if errors.As(err, &custom) {
		code = custom.Code
		message = custom.Message
		errorType = custom.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
