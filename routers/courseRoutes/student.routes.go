package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	"lms/validators"
	courseValidators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupStudentRoutes sets up catalog, dashboard and learning routes
func SetupStudentRoutes(app *fiber.App, courses fiber.Router) {
	view := middleware.CheckPermissionMiddleware(models.PermissionViewCourse)
	track := middleware.CheckPermissionMiddleware(models.PermissionTrackProgress)

	app.Get("/api/categories", middleware.JWTMiddleware, controllers.ListCategories)
	app.Get("/api/dashboard", middleware.JWTMiddleware, view, controllers.GetDashboard)

	courses.Get("/", view, courseValidators.SearchCourses(), controllers.GetCourses)
	courses.Get("/:courseId", view, validators.IDParams("courseId"), controllers.GetCourseOverview)
	courses.Get("/:courseId/progress", track, validators.IDParams("courseId"), controllers.GetCourseProgress)
	courses.Get("/:courseId/chapters/:chapterId", view, validators.IDParams("courseId", "chapterId"), controllers.GetChapter)
	courses.Put("/:courseId/chapters/:chapterId/progress", track, validators.IDParams("courseId", "chapterId"), courseValidators.UpdateProgress(), controllers.UpdateProgress)
}
