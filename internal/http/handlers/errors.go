package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"rapidxcel/internal/domain"
	applog "rapidxcel/internal/log"
)

// statusOf maps domain errors to an HTTP status and a message that is safe
// to show. ok is false for unexpected errors.
func statusOf(err error) (status int, msg string, ok bool) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, ve.Message, true
	case errors.Is(err, domain.ErrBadCredentials):
		return fiber.StatusUnauthorized, "Invalid credentials. Please try again.", true
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized, "Please log in to continue.", true
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "Access denied", true
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "Not found", true
	case errors.Is(err, domain.ErrUnserviceable):
		return fiber.StatusUnprocessableEntity, "Invalid or unserviceable pin code.", true
	case errors.Is(err, domain.ErrEmptyCart):
		return fiber.StatusUnprocessableEntity, "Your cart is empty.", true
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, detail(err, domain.ErrInsufficientStock), true
	case errors.Is(err, domain.ErrIllegalTransition):
		return fiber.StatusConflict, detail(err, domain.ErrIllegalTransition), true
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, detail(err, domain.ErrConflict), true
	}
	return fiber.StatusInternalServerError, "Something went wrong. Please try again.", false
}

// detail strips the sentinel suffix pkg/errors appends to wrapped messages.
func detail(err, sentinel error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
	if msg == "" {
		return sentinel.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// fail reports err to the client. Browsers are sent back to the form with a
// flash for input problems; unexpected errors go to the app ErrorHandler.
func fail(c *fiber.Ctx, action, back string, err error) error {
	status, msg, ok := statusOf(err)
	if !ok {
		return err
	}
	fields := map[string]any{"reason": err.Error()}
	switch status {
	case fiber.StatusUnauthorized, fiber.StatusForbidden:
		applog.Security(c, "access.denied", fields)
	case fiber.StatusBadRequest:
		applog.Security(c, "validation.fail", fields)
	default:
		applog.Info(c, action+".rejected", fields)
	}

	if wantsJSON(c) {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	switch status {
	case fiber.StatusUnauthorized:
		if !errors.Is(err, domain.ErrBadCredentials) {
			return c.Redirect("/login")
		}
	case fiber.StatusForbidden, fiber.StatusNotFound:
		return renderStatus(c, status, "error", fiber.Map{"Message": msg})
	}
	if back == "" {
		return renderStatus(c, status, "error", fiber.Map{"Message": msg})
	}
	flash(c, "danger", msg)
	return c.Redirect(back)
}

// ErrorHandler logs unexpected errors and shows a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status, msg = fe.Code, fe.Message
	}
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	if wantsJSON(c) {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	if rerr := c.Status(status).Render("error", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(status).SendString(msg)
	}
	return nil
}

// malformed turns a body parse failure into a ValidationError; the parser's
// message is kept for the log.
func malformed(err error) error {
	return errors.Wrap(domain.NewValidationError("", "Malformed request."), err.Error())
}
