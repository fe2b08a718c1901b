// common.go
//
// A reservation and booking web service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of reserva.
// reserva is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// reserva is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with reserva.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"bytes"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/reserva/views"
)

const flashCookie = "reserva_flash"

// setFlash stores a one-shot message for the next rendered page.
func setFlash(c *fiber.Ctx, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    message,
		Path:     "/",
		HTTPOnly: true,
	})
}

// takeFlash reads and clears the pending flash message.
func takeFlash(c *fiber.Ctx) string {
	message := c.Cookies(flashCookie)
	if message != "" {
		c.Cookie(&fiber.Cookie{
			Name:     flashCookie,
			Value:    "",
			Path:     "/",
			HTTPOnly: true,
			Expires:  time.Unix(0, 0),
		})
	}
	return message
}

// flashRedirect sets a flash message and redirects.
func flashRedirect(c *fiber.Ctx, target, message string) error {
	setFlash(c, message)
	return c.Redirect(target, fiber.StatusFound)
}

// renderPage checks that the template exists before doing anything
// else, then executes it. A missing template is a deployment defect
// and yields a plain 500 body.
func renderPage(c *fiber.Ctx, r *views.Renderer, logger *log.Logger, name string, data interface{}) error {
	if !r.Has(name) {
		logger.Printf("Template %q does not exist.", name)
		return c.Status(fiber.StatusInternalServerError).SendString("Template not found.")
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		logger.Printf("Failed to render template %q: %v", name, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Template error.")
	}

	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// parseIDParam parses a numeric id route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint64, error) {
	return strconv.ParseUint(c.Params(name), 10, 64)
}
