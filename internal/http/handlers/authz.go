package handlers

import (
	"github.com/gofiber/fiber/v2"

	"rapidxcel/internal/authz"
	applog "rapidxcel/internal/log"
)

// Require gates a route on the policy table. Anonymous browsers are sent to
// the login page; everyone else without op gets 403.
func Require(policy authz.Policy, op authz.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			applog.Security(c, "access.denied.anonymous", map[string]any{"op": op})
			if wantsJSON(c) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Please log in to continue."})
			}
			flash(c, "info", "Please log in to continue.")
			return c.Redirect("/login")
		}
		if !policy.Allows(u.Role, op) {
			applog.Security(c, "access.denied", map[string]any{"op": op})
			if wantsJSON(c) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
			}
			return renderStatus(c, fiber.StatusForbidden, "error", fiber.Map{"Message": "Access denied"})
		}
		return c.Next()
	}
}
