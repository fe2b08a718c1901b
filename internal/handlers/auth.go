package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/reserva/internal/middleware"
	"github.com/localnerve/reserva/internal/models"
	"github.com/localnerve/reserva/internal/services"
	"github.com/localnerve/reserva/internal/types"
	"github.com/localnerve/reserva/views"
	"gorm.io/gorm"
)

// AuthHandler serves the signup/login/logout/profile/delete-account
// form flow.
type AuthHandler struct {
	DB         *gorm.DB
	Sessions   *services.SessionManager
	Views      *views.Renderer
	Log        *log.Logger
	CookieName string
}

type authPage struct {
	Flash    string
	Username string
	Profile  string
}

// ShowSignup handles GET /signup
func (h *AuthHandler) ShowSignup(c *fiber.Ctx) error {
	if middleware.Principal(c).Authenticated {
		return flashRedirect(c, "/order", "You are already registered and logged in.")
	}
	return renderPage(c, h.Views, h.Log, "signup.html", authPage{Flash: takeFlash(c)})
}

// Signup handles POST /signup
// @Summary Register a new account
// @Description Creates an identity record; the user must still log in afterwards
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 302
// @Router /signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	if middleware.Principal(c).Authenticated {
		return flashRedirect(c, "/order", "You are already registered and logged in.")
	}

	username := c.FormValue("username")
	password := c.FormValue("password")

	if _, err := services.SignupUser(h.DB, username, password); err != nil {
		if errors.Is(err, types.ErrValidation) {
			return renderPage(c, h.Views, h.Log, "signup.html", authPage{Flash: err.Error()})
		}
		h.Log.Printf("Signup failed for %q: %v", username, err)
		return renderPage(c, h.Views, h.Log, "signup.html", authPage{Flash: "Registration failed. Please try again."})
	}

	return flashRedirect(c, "/login", "Registration successful. Please log in.")
}

// ShowLogin handles GET /login
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	if middleware.Principal(c).Authenticated {
		return c.Redirect("/order", fiber.StatusFound)
	}
	return renderPage(c, h.Views, h.Log, "login.html", authPage{Flash: takeFlash(c)})
}

// Login handles POST /login
// @Summary Log in
// @Description Issues a session cookie; remember_me extends the session to 14 days
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Param remember_me formData boolean false "Extend session lifetime"
// @Success 302
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	if middleware.Principal(c).Authenticated {
		return c.Redirect("/order", fiber.StatusFound)
	}

	username := c.FormValue("username")
	password := c.FormValue("password")
	remember := c.FormValue("remember_me") == "true" || c.FormValue("remember_me") == "on"

	user, err := services.AuthenticateUser(h.DB, username, password)
	if err != nil {
		if errors.Is(err, types.ErrUnauthenticated) {
			return renderPage(c, h.Views, h.Log, "login.html", authPage{Flash: "Invalid username or password."})
		}
		h.Log.Printf("Login failed for %q: %v", username, err)
		return renderPage(c, h.Views, h.Log, "login.html", authPage{Flash: "Login failed. Please try again."})
	}

	token, expires, err := h.Sessions.Issue(user.ID, user.Username, remember)
	if err != nil {
		h.Log.Printf("Session issue failed for %q: %v", username, err)
		return renderPage(c, h.Views, h.Log, "login.html", authPage{Flash: "Login failed. Please try again."})
	}

	cookie := &fiber.Cookie{
		Name:     h.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
	}
	// Without remember_me the cookie gets no Expires attribute and ends
	// with the browser session.
	if !expires.IsZero() {
		cookie.Expires = expires
	}
	c.Cookie(cookie)

	setFlash(c, "Login successful.")
	return c.Redirect("/order", fiber.StatusFound)
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearSession(c)
	return flashRedirect(c, "/login", "You have been logged out.")
}

// ShowEditProfile handles GET /edit-profile
func (h *AuthHandler) ShowEditProfile(c *fiber.Ctx) error {
	if !h.Views.Has("edit_profile.html") {
		h.Log.Printf("Template %q does not exist.", "edit_profile.html")
		return c.Status(fiber.StatusInternalServerError).SendString("Template not found.")
	}

	principal := middleware.Principal(c)

	var user models.User
	if err := h.DB.Where("id = ?", principal.UserID).First(&user).Error; err != nil {
		h.clearSession(c)
		return c.Redirect("/login", fiber.StatusFound)
	}

	return renderPage(c, h.Views, h.Log, "edit_profile.html", authPage{
		Flash:    takeFlash(c),
		Username: user.Username,
		Profile:  string(user.Profile.JSON),
	})
}

// EditProfile handles POST /edit-profile
func (h *AuthHandler) EditProfile(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	username := c.FormValue("username")
	profile := c.FormValue("profile")

	var attrs []byte
	if profile != "" {
		if !json.Valid([]byte(profile)) {
			return renderPage(c, h.Views, h.Log, "edit_profile.html", authPage{
				Flash:    "Profile attributes must be valid JSON.",
				Username: username,
				Profile:  profile,
			})
		}
		attrs = []byte(profile)
	}

	if _, err := services.UpdateProfile(h.DB, principal, username, attrs); err != nil {
		if errors.Is(err, types.ErrValidation) {
			return renderPage(c, h.Views, h.Log, "edit_profile.html", authPage{
				Flash:    err.Error(),
				Username: username,
				Profile:  profile,
			})
		}
		h.Log.Printf("Profile update failed for user %s: %v", principal.UserID, err)
		return flashRedirect(c, "/edit-profile", "Profile update failed. Please try again.")
	}

	return flashRedirect(c, "/edit-profile", "Profile updated successfully.")
}

// ShowDeleteAccount handles GET /delete-account
func (h *AuthHandler) ShowDeleteAccount(c *fiber.Ctx) error {
	return renderPage(c, h.Views, h.Log, "delete_account.html", authPage{Flash: takeFlash(c)})
}

// DeleteAccount handles POST /delete-account. A storage failure is
// logged and redirects back to the confirmation page; it never crashes
// the request.
func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	if err := services.DeleteAccount(h.DB, h.Log, principal); err != nil {
		if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrUnauthenticated) {
			h.clearSession(c)
			return c.Redirect("/login", fiber.StatusFound)
		}
		return flashRedirect(c, "/delete-account", "An error occurred while deleting your account.")
	}

	h.clearSession(c)
	return flashRedirect(c, "/login", "Account deleted successfully.")
}

func (h *AuthHandler) clearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Unix(0, 0),
	})
}
