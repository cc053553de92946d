package httpapi

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes wires the full HTTP surface. Every route except the
// health check and the pre-auth endpoints sits behind authRequired.
func RegisterRoutes(app *fiber.App, authRequired fiber.Handler, authH *AuthHandler, shipH *ShipmentHandler, noteH *NotificationHandler) {
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return SuccessResponse(c, "Courier service is healthy", map[string]interface{}{
			"service": "courier-service",
			"status":  "healthy",
		})
	})

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", authH.Signup)
	authGroup.Post("/login", authH.Login)
	authGroup.Post("/forgot-password", authH.ForgotPassword)
	authGroup.Post("/reset-password", authH.ResetPassword)
	authGroup.Post("/logout", authRequired, authH.Logout)
	authGroup.Get("/profile", authRequired, authH.Profile)

	ship := app.Group("/ship", authRequired)
	ship.Post("/shipments", shipH.Create)
	ship.Get("/admin/shipments", shipH.ListAdmin)
	ship.Get("/admin/shipments/:id", shipH.GetAdmin)
	ship.Patch("/admin/shipments/status/:id", shipH.UpdateStatus)
	ship.Delete("/admin/shipments/:id", shipH.ForceCancel)
	ship.Get("/users/shipments", shipH.ListUser)
	ship.Get("/users/shipments/:id", shipH.GetUser)
	ship.Patch("/users/shipments/cancel/:id", shipH.Cancel)
	ship.Patch("/users/shipments/delay/:id", shipH.ToggleDelay)

	notifications := app.Group("/notifications", authRequired)
	notifications.Get("/admin", noteH.ListAllAdmin)
	notifications.Get("/users/unread", noteH.ListUnread)
	notifications.Patch("/users/:id/read", noteH.MarkViewed)

	app.Use(func(c *fiber.Ctx) error {
		return NotFoundResponse(c, "Route not found")
	})
}
