package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// wantsJSON is true when the app has no view engine or the client prefers
// JSON over HTML.
func wantsJSON(c *fiber.Ctx) bool {
	if c.App().Config().Views == nil {
		return true
	}
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	return renderStatus(c, fiber.StatusOK, tmpl, data)
}

func renderStatus(c *fiber.Ctx, status int, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	c.Status(status)
	if wantsJSON(c) {
		if msgs := takeFlashes(c); len(msgs) > 0 {
			data["Flashes"] = msgs
		}
		return c.JSON(data)
	}
	if u := currentUser(c); u != nil {
		data["User"] = u
	}
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		data["CSRFToken"] = tok
	}
	msgs := takeFlashes(c)
	if extra, ok := data["Flashes"].([]Flash); ok {
		msgs = append(msgs, extra...)
	}
	data["Flashes"] = msgs
	return c.Render(tmpl, data)
}

// done finishes a successful POST: JSON clients get data plus the message,
// browsers get a flash and a redirect.
func done(c *fiber.Ctx, to, msg string, data fiber.Map) error {
	if wantsJSON(c) {
		if data == nil {
			data = fiber.Map{}
		}
		data["message"] = msg
		data["redirect"] = to
		if msgs := takeFlashes(c); len(msgs) > 0 {
			data["Flashes"] = msgs
		}
		return c.JSON(data)
	}
	flash(c, "success", msg)
	return c.Redirect(to)
}
