package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/KOTTAGENVH/courier-service-app/internal/auth"
	"github.com/KOTTAGENVH/courier-service-app/internal/domain"
	"github.com/KOTTAGENVH/courier-service-app/internal/service"
)

// AuthService is what the auth handlers need from the service layer.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.User, auth.TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, auth.TokenPair, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	Profile(ctx context.Context, email string) (*domain.User, error)
}

type AuthHandler struct {
	svc           AuthService
	log           *zap.Logger
	accessTTL     time.Duration
	refreshTTL    time.Duration
	secureCookies bool
}

func NewAuthHandler(svc AuthService, log *zap.Logger, accessTTL, refreshTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		svc:           svc,
		log:           log,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		secureCookies: secureCookies,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// UserProfile is the public projection of a user record.
type UserProfile struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Telephone string `json:"telephone"`
}

func profileOf(u *domain.User) UserProfile {
	return UserProfile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Address:   u.Address,
		Telephone: u.Telephone,
	}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in service.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	user, pair, err := h.svc.Register(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}

	h.setTokenCookies(c, pair)
	return CreatedResponse(c, "Account created successfully.", profileOf(user))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := c.BodyParser(&in); err != nil {
		return BadRequestResponse(c, "Invalid request body", nil)
	}

	user, pair, err := h.svc.Login(c.Context(), in.Email, in.Password)
	if err != nil {
		return respondError(c, h.log, err)
	}

	h.setTokenCookies(c, pair)
	return SuccessResponse(c, "Login successful.", profileOf(user))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	clearAuthCookie(c, accessCookie, h.secureCookies)
	clearAuthCookie(c, refreshCookie, h.secureCookies)
	return SuccessResponse(c, "Logout successful.", nil)
}

// ForgotPassword always answers with the same neutral message so the
// endpoint cannot be used to probe which emails exist.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in forgotPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return BadRequestResponse(c, "Invalid request body", nil)
	}

	if err := h.svc.ForgotPassword(c.Context(), in.Email); err != nil {
		return respondError(c, h.log, err)
	}
	return SuccessResponse(c, "If that email is in our system, you'll receive a reset link.", nil)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in resetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return BadRequestResponse(c, "Invalid request body", nil)
	}

	if err := h.svc.ResetPassword(c.Context(), in.Token, in.Password); err != nil {
		return respondError(c, h.log, err)
	}
	return SuccessResponse(c, "Password updated successfully.", nil)
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	caller := CallerFromCtx(c)
	user, err := h.svc.Profile(c.Context(), caller.Email)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return SuccessResponse(c, "Profile retrieved successfully", profileOf(user))
}

func (h *AuthHandler) setTokenCookies(c *fiber.Ctx, pair auth.TokenPair) {
	setAuthCookie(c, accessCookie, pair.AccessToken, h.accessTTL, h.secureCookies)
	setAuthCookie(c, refreshCookie, pair.RefreshToken, h.refreshTTL, h.secureCookies)
}
