package handlers

import (
	"errors"

	"eshop/internal/models"
	"eshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    models.NewValidator(),
	}
}

// RegisterRoutes registers the public authentication routes under /users.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/users")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	user, err := h.authService.RegisterUser(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return respondError(c, fiber.StatusConflict, "Registration failed", err)
		case errors.Is(err, services.ErrValidation):
			return respondError(c, fiber.StatusBadRequest, "Registration failed", err)
		}
		log.WithError(err).Error("Error registering user")
		return respondError(c, fiber.StatusInternalServerError, "Could not register user", err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	user, token, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.WithField("email", req.Email).Info("Rejected login")
			return respondError(c, fiber.StatusUnauthorized, "Authentication failed", err)
		}
		log.WithError(err).Error("Error during login")
		return respondError(c, fiber.StatusInternalServerError, "Could not log in", err)
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}
