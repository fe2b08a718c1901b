package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/reserva/internal/middleware"
	"github.com/localnerve/reserva/internal/models"
	"github.com/localnerve/reserva/internal/services"
	"github.com/localnerve/reserva/internal/types"
	"github.com/localnerve/reserva/views"
	"gorm.io/gorm"
)

// NumberPhoneHandler serves the phone-number form routes.
type NumberPhoneHandler struct {
	DB    *gorm.DB
	Views *views.Renderer
	Log   *log.Logger
}

type numberPage struct {
	Flash string
	Phone *models.NumberPhone
}

// ShowAddNumberPhone handles GET /number-phone/add
func (h *NumberPhoneHandler) ShowAddNumberPhone(c *fiber.Ctx) error {
	return renderPage(c, h.Views, h.Log, "add_number_phone.html", numberPage{Flash: takeFlash(c)})
}

// AddNumberPhone handles POST /number-phone/add
// @Summary Register a phone number
// @Description Creates the user's single phone record; a second attempt is rejected
// @Tags NumberPhone
// @Accept x-www-form-urlencoded
// @Param number_phone formData string true "Phone number, 9 characters max"
// @Success 302
// @Router /number-phone/add [post]
func (h *NumberPhoneHandler) AddNumberPhone(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	_, err := services.CreateNumberPhone(h.DB, principal, c.FormValue("number_phone"))
	if err != nil {
		switch {
		case errors.Is(err, types.ErrDuplicateOwner):
			return flashRedirect(c, "/number-phone", "You already have a phone number registered.")
		case errors.Is(err, types.ErrValidation):
			return renderPage(c, h.Views, h.Log, "add_number_phone.html", numberPage{Flash: err.Error()})
		default:
			h.Log.Printf("Phone creation failed for user %s: %v", principal.UserID, err)
			return renderPage(c, h.Views, h.Log, "add_number_phone.html", numberPage{Flash: "Saving failed. Please try again."})
		}
	}

	return c.Redirect("/number-phone", fiber.StatusFound)
}

// ShowUpdateNumberPhone handles GET /number-phone/:id
func (h *NumberPhoneHandler) ShowUpdateNumberPhone(c *fiber.Ctx) error {
	if !h.Views.Has("update_number_phone.html") {
		h.Log.Printf("Template %q does not exist.", "update_number_phone.html")
		return c.Status(fiber.StatusInternalServerError).SendString("Template not found.")
	}

	phoneID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/number-phone", fiber.StatusFound)
	}

	phone, err := services.GetNumberPhoneByID(h.DB, middleware.Principal(c), phoneID)
	if err != nil {
		// Missing and not-yours look identical here.
		return flashRedirect(c, "/number-phone", "Phone number not found.")
	}

	return renderPage(c, h.Views, h.Log, "update_number_phone.html", numberPage{
		Flash: takeFlash(c),
		Phone: phone,
	})
}

// UpdateNumberPhone handles POST /number-phone/:id
func (h *NumberPhoneHandler) UpdateNumberPhone(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	phoneID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/number-phone", fiber.StatusFound)
	}

	_, svcErr := services.UpdateNumberPhone(h.DB, principal, phoneID, c.FormValue("number_phone"))
	if svcErr != nil {
		switch {
		case errors.Is(svcErr, types.ErrNotFound):
			return flashRedirect(c, "/number-phone", "Phone number not found.")
		case errors.Is(svcErr, types.ErrValidation):
			current, getErr := services.GetNumberPhoneByID(h.DB, principal, phoneID)
			if getErr != nil {
				return c.Redirect("/number-phone", fiber.StatusFound)
			}
			return renderPage(c, h.Views, h.Log, "update_number_phone.html", numberPage{
				Flash: svcErr.Error(),
				Phone: current,
			})
		default:
			h.Log.Printf("Phone update failed for user %s: %v", principal.UserID, svcErr)
			return flashRedirect(c, "/number-phone", "Saving failed. Please try again.")
		}
	}

	return c.Redirect("/number-phone", fiber.StatusFound)
}

// DeleteNumberPhone handles POST /number-phone/:id/delete
func (h *NumberPhoneHandler) DeleteNumberPhone(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	phoneID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/number-phone", fiber.StatusFound)
	}

	if err := services.DeleteNumberPhone(h.DB, principal, phoneID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return flashRedirect(c, "/number-phone", "Phone number not found.")
		}
		h.Log.Printf("Phone deletion failed for user %s: %v", principal.UserID, err)
		return flashRedirect(c, "/number-phone", "Deletion failed. Please try again.")
	}

	return c.Redirect("/number-phone", fiber.StatusFound)
}

// ReadNumberPhone handles GET /number-phone. Soft read: anonymous
// requests see the empty page.
func (h *NumberPhoneHandler) ReadNumberPhone(c *fiber.Ctx) error {
	if !h.Views.Has("read_number_phone.html") {
		h.Log.Printf("Template %q does not exist.", "read_number_phone.html")
		return c.Status(fiber.StatusInternalServerError).SendString("Template not found.")
	}

	phone, err := services.GetNumberPhone(h.DB, middleware.Principal(c))
	if err != nil {
		h.Log.Printf("Failed to read phone number: %v", err)
		phone = nil
	}

	return renderPage(c, h.Views, h.Log, "read_number_phone.html", numberPage{
		Flash: takeFlash(c),
		Phone: phone,
	})
}
