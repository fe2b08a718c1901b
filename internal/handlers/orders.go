package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/reserva/internal/middleware"
	"github.com/localnerve/reserva/internal/models"
	"github.com/localnerve/reserva/internal/services"
	"github.com/localnerve/reserva/internal/types"
	"github.com/localnerve/reserva/views"
	"gorm.io/gorm"
)

// OrderHandler serves the order form routes.
type OrderHandler struct {
	DB    *gorm.DB
	Views *views.Renderer
	Log   *log.Logger
}

type orderPage struct {
	Flash      string
	Categories []models.Category
	Orders     []models.Order
}

// ShowAddOrder handles GET /order
func (h *OrderHandler) ShowAddOrder(c *fiber.Ctx) error {
	if !h.Views.Has("add_order.html") {
		h.Log.Printf("Template %q does not exist.", "add_order.html")
		return c.Status(fiber.StatusInternalServerError).SendString("Template not found.")
	}

	categories, err := services.ListCategories(h.DB)
	if err != nil {
		h.Log.Printf("Failed to list categories: %v", err)
		categories = nil
	}

	return renderPage(c, h.Views, h.Log, "add_order.html", orderPage{
		Flash:      takeFlash(c),
		Categories: categories,
	})
}

// AddOrder handles POST /order
// @Summary Create an order
// @Description Creates an order owned by the requesting user
// @Tags Orders
// @Accept x-www-form-urlencoded
// @Param category_id formData integer true "Category id"
// @Success 302
// @Router /order [post]
func (h *OrderHandler) AddOrder(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	categoryID, err := strconv.ParseUint(c.FormValue("category_id"), 10, 64)
	if err != nil {
		return h.addOrderError(c, "Please choose a category.")
	}

	if _, err := services.CreateOrder(h.DB, principal, categoryID); err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			return h.addOrderError(c, "That category does not exist.")
		case errors.Is(err, types.ErrValidation):
			return h.addOrderError(c, "Please choose a category.")
		default:
			h.Log.Printf("Order creation failed for user %s: %v", principal.UserID, err)
			return h.addOrderError(c, "Order creation failed. Please try again.")
		}
	}

	return c.Redirect("/number-phone", fiber.StatusFound)
}

// ListOrders handles GET /orders. This read is soft: an anonymous
// request gets the page with an empty list, not a redirect.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	if !h.Views.Has("read_orders.html") {
		h.Log.Printf("Template %q does not exist.", "read_orders.html")
		return c.Status(fiber.StatusInternalServerError).SendString("Template not found.")
	}

	orders, err := services.ListOrders(h.DB, middleware.Principal(c))
	if err != nil {
		h.Log.Printf("Failed to list orders: %v", err)
		orders = nil
	}

	return renderPage(c, h.Views, h.Log, "read_orders.html", orderPage{Orders: orders})
}

func (h *OrderHandler) addOrderError(c *fiber.Ctx, message string) error {
	categories, err := services.ListCategories(h.DB)
	if err != nil {
		categories = nil
	}
	return renderPage(c, h.Views, h.Log, "add_order.html", orderPage{
		Flash:      message,
		Categories: categories,
	})
}
