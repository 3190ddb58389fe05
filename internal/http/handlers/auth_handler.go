package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"rapidxcel/internal/domain"
	applog "rapidxcel/internal/log"
	"rapidxcel/internal/services"
	"rapidxcel/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) Index(c *fiber.Ctx) error {
	return render(c, "index", fiber.Map{"Roles": domain.Roles})
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{"Roles": domain.Roles})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in validate.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, "auth.register", "/register", domain.NewValidationError("", "All fields are required!"))
	}
	u, err := h.Auth.Register(in)
	if err != nil {
		return fail(c, "auth.register", "/register", err)
	}
	if err := login(c, u); err != nil {
		return err
	}
	applog.Audit(c, "auth.register", map[string]any{"username": u.Username})
	return done(c, u.Role.Home(), "Registration successful!", fiber.Map{"user": u})
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in struct {
		Username string `form:"username" json:"username"`
		Password string `form:"password" json:"password"`
	}
	_ = c.BodyParser(&in)
	username := strings.ToLower(strings.TrimSpace(in.Username))

	u, err := h.Auth.Login(username, in.Password)
	if err != nil {
		status, msg, ok := statusOf(err)
		if !ok {
			return err
		}
		applog.Security(c, "auth.login.fail", map[string]any{"username": username})
		return renderStatus(c, status, "login", fiber.Map{"Err": msg, "error": msg})
	}
	if err := login(c, u); err != nil {
		return err
	}
	applog.Audit(c, "auth.login.success", map[string]any{"username": u.Username})
	return done(c, u.Role.Home(), "Login successful!", fiber.Map{"user": u})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := logout(c); err != nil {
		return err
	}
	applog.Audit(c, "auth.logout", nil)
	return done(c, "/", "You have been logged out.", nil)
}
