package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/claims-service/internal/api/dto"
	"github.com/spec-kit/claims-service/internal/service"
)

// AuthHandler exposes the signup and login endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid payload"})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "missing field"})
	}
	if !strings.Contains(req.Email, "@") || !strings.Contains(req.Email, ".") {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid email address"})
	}

	if err := h.auth.SignUp(c.Context(), req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			// duplicate email is reported in-band, not as an HTTP failure
			return c.JSON(fiber.Map{"success": false, "message": "email already exists"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "message": "user signed up successfully"})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid payload"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "missing values"})
	}

	token, _, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid credentials"})
	}

	return c.JSON(fiber.Map{"access_token": token})
}
