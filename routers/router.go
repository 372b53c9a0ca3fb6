package routers

import (
	"lms/config"
	"lms/middleware"
	"lms/routers/authRoutes"
	"lms/routers/courseRoutes"
	"lms/routers/paymentRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupApp builds the fiber app with middleware and every route group
func SetupApp() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: (config.AppConfig.MaxUploadMB + 1) * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization,Stripe-Signature",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded files
	app.Static("/uploads", config.AppConfig.UploadDir)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authRoutes.SetupAuthRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)

	// one JWT check for every /api/courses route
	courses := app.Group("/api/courses", middleware.JWTMiddleware)
	courseRoutes.SetupTeacherRoutes(app, courses)
	courseRoutes.SetupStudentRoutes(app, courses)

	return app
}
