package httpapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/KOTTAGENVH/courier-service-app/internal/auth"
	"github.com/KOTTAGENVH/courier-service-app/internal/domain"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
	callerKey     = "caller"
)

// AuthMiddleware resolves the caller identity from the access cookie.
// An expired access token is silently re-issued from a valid refresh
// token; the admin role comes from comparing the configured admin
// email, never from the token itself.
func AuthMiddleware(tokens *auth.Manager, adminEmail string, secureCookies bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		access := c.Cookies(accessCookie)
		if access == "" {
			return UnauthorizedResponse(c, "Access token missing")
		}

		email, err := tokens.VerifyAccess(access)
		if errors.Is(err, domain.ErrTokenExpired) {
			refresh := c.Cookies(refreshCookie)
			if refresh == "" {
				return UnauthorizedResponse(c, "Refresh token missing")
			}
			email, err = tokens.VerifyRefresh(refresh)
			if err != nil {
				return ForbiddenResponse(c, "Invalid refresh token")
			}
			newAccess, err := tokens.IssueAccess(email)
			if err != nil {
				return InternalServerErrorResponse(c, "Server error", nil)
			}
			setAuthCookie(c, accessCookie, newAccess, tokens.AccessTTL(), secureCookies)
		} else if err != nil {
			return ForbiddenResponse(c, "Invalid access token")
		}

		c.Locals(callerKey, domain.CallerContext{
			Email:   email,
			IsAdmin: adminEmail != "" && email == adminEmail,
		})
		return c.Next()
	}
}

// CallerFromCtx returns the identity stored by AuthMiddleware.
func CallerFromCtx(c *fiber.Ctx) domain.CallerContext {
	caller, _ := c.Locals(callerKey).(domain.CallerContext)
	return caller
}

func setAuthCookie(c *fiber.Ctx, name, value string, ttl time.Duration, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func clearAuthCookie(c *fiber.Ctx, name string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
