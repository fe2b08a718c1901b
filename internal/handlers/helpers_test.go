package handlers_test

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	gql "github.com/localnerve/reserva/internal/graphql"
	"github.com/localnerve/reserva/internal/handlers"
	"github.com/localnerve/reserva/internal/middleware"
	"github.com/localnerve/reserva/internal/models"
	"github.com/localnerve/reserva/internal/services"
	"github.com/localnerve/reserva/views"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testCookieName = "reserva_session"

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Order{},
		&models.NumberPhone{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

type testServer struct {
	App      *fiber.App
	DB       *gorm.DB
	Sessions *services.SessionManager
}

// newTestServer builds a Fiber app with the same route table and
// middleware arrangement as the server binary.
func newTestServer(t *testing.T) *testServer {
	db := setupTestDB(t)

	renderer, err := views.New()
	if err != nil {
		t.Fatalf("Failed to load templates: %v", err)
	}

	schema, err := gql.NewSchema(db)
	if err != nil {
		t.Fatalf("Failed to build GraphQL schema: %v", err)
	}

	sessions := services.NewSessionManager("test-secret")
	logger := log.New(io.Discard, "", 0)

	app := fiber.New()
	app.Use(middleware.LoadPrincipal(testCookieName, sessions))

	authHandler := &handlers.AuthHandler{
		DB: db, Sessions: sessions, Views: renderer, Log: logger, CookieName: testCookieName,
	}
	orderHandler := &handlers.OrderHandler{DB: db, Views: renderer, Log: logger}
	numberHandler := &handlers.NumberPhoneHandler{DB: db, Views: renderer, Log: logger}
	graphqlHandler := &handlers.GraphQLHandler{Schema: schema, Log: logger}

	app.Get("/signup", authHandler.ShowSignup)
	app.Post("/signup", authHandler.Signup)
	app.Get("/login", authHandler.ShowLogin)
	app.Post("/login", authHandler.Login)
	app.Get("/logout", middleware.RequireUser(), authHandler.Logout)
	app.Get("/edit-profile", middleware.RequireUser(), authHandler.ShowEditProfile)
	app.Post("/edit-profile", middleware.RequireUser(), authHandler.EditProfile)
	app.Get("/delete-account", middleware.RequireUser(), authHandler.ShowDeleteAccount)
	app.Post("/delete-account", middleware.RequireUser(), authHandler.DeleteAccount)

	app.Get("/order", middleware.RequireUser(), orderHandler.ShowAddOrder)
	app.Post("/order", middleware.RequireUser(), orderHandler.AddOrder)
	app.Get("/orders", orderHandler.ListOrders)

	app.Get("/number-phone/add", middleware.RequireUser(), numberHandler.ShowAddNumberPhone)
	app.Post("/number-phone/add", middleware.RequireUser(), numberHandler.AddNumberPhone)
	app.Get("/number-phone/:id", middleware.RequireUser(), numberHandler.ShowUpdateNumberPhone)
	app.Post("/number-phone/:id", middleware.RequireUser(), numberHandler.UpdateNumberPhone)
	app.Post("/number-phone/:id/delete", middleware.RequireUser(), numberHandler.DeleteNumberPhone)
	app.Get("/number-phone", numberHandler.ReadNumberPhone)

	app.Post("/graphql", graphqlHandler.Post)

	return &testServer{App: app, DB: db, Sessions: sessions}
}

// createUser registers a user directly through the identity service.
func (s *testServer) createUser(t *testing.T, username, password string) *models.User {
	user, err := services.SignupUser(s.DB, username, password)
	if err != nil {
		t.Fatalf("Failed to create user %q: %v", username, err)
	}
	return user
}

// sessionFor issues a session token for a user, for use as a cookie value.
func (s *testServer) sessionFor(t *testing.T, user *models.User) string {
	token, _, err := s.Sessions.Issue(user.ID, user.Username, false)
	if err != nil {
		t.Fatalf("Failed to issue session for %q: %v", user.Username, err)
	}
	return token
}

// formRequest builds a POST with urlencoded form fields.
func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func withSession(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	return req
}

func readBody(t *testing.T, resp *http.Response) string {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return string(body)
}

func assertRedirect(t *testing.T, resp *http.Response, target string) {
	t.Helper()
	if resp.StatusCode != 302 {
		t.Fatalf("Expected status 302, got %d", resp.StatusCode)
	}
	if location := resp.Header.Get("Location"); location != target {
		t.Errorf("Expected redirect to %q, got %q", target, location)
	}
}
