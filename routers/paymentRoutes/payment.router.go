package paymentRoutes

import (
	paymentControllers "lms/controllers/payment"
	"lms/middleware"
	"lms/models"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	app.Post("/api/courses/:courseId/checkout",
		middleware.JWTMiddleware,
		middleware.CheckPermissionMiddleware(models.PermissionPurchaseCourse),
		validators.IDParams("courseId"),
		paymentControllers.Checkout,
	)

	// Stripe signs the raw body, so no JWT here
	app.Post("/api/webhook", paymentControllers.Webhook)
}
