package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	"lms/validators"
	courseValidators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupTeacherRoutes sets up course authoring routes. courses is the authenticated
// /api/courses group. Every handler checks course ownership.
func SetupTeacherRoutes(app *fiber.App, courses fiber.Router) {
	manage := middleware.CheckPermissionMiddleware(models.PermissionManageCourse)
	courseID := validators.IDParams("courseId")
	chapterIDs := validators.IDParams("courseId", "chapterId")

	courses.Post("/", middleware.CheckPermissionMiddleware(models.PermissionCreateCourse), courseValidators.CreateCourse(), controllers.CreateCourse)
	courses.Patch("/:courseId", manage, courseID, courseValidators.UpdateCourse(), controllers.UpdateCourse)
	courses.Delete("/:courseId", manage, courseID, controllers.DeleteCourse)
	courses.Patch("/:courseId/publish", manage, courseID, controllers.PublishCourse)
	courses.Patch("/:courseId/unpublish", manage, courseID, controllers.UnpublishCourse)

	// Attachments
	courses.Post("/:courseId/attachments", manage, courseID, courseValidators.CreateAttachment(), controllers.CreateAttachment)
	courses.Delete("/:courseId/attachments/:attachmentId", manage, validators.IDParams("courseId", "attachmentId"), controllers.DeleteAttachment)

	// Chapters
	courses.Post("/:courseId/chapters", manage, courseID, courseValidators.CreateChapter(), controllers.CreateChapter)
	courses.Put("/:courseId/chapters/reorder", manage, courseID, courseValidators.ReorderChapters(), controllers.ReorderChapters)
	courses.Patch("/:courseId/chapters/:chapterId", manage, chapterIDs, courseValidators.UpdateChapter(), controllers.UpdateChapter)
	courses.Delete("/:courseId/chapters/:chapterId", manage, chapterIDs, controllers.DeleteChapter)
	courses.Patch("/:courseId/chapters/:chapterId/publish", manage, chapterIDs, controllers.PublishChapter)
	courses.Patch("/:courseId/chapters/:chapterId/unpublish", manage, chapterIDs, controllers.UnpublishChapter)

	// Editor views
	teacher := app.Group("/api/teacher", middleware.JWTMiddleware, manage)
	teacher.Get("/courses", controllers.ListTeacherCourses)
	teacher.Get("/courses/:courseId", courseID, controllers.GetCourseSetup)
	teacher.Get("/courses/:courseId/chapters/:chapterId", chapterIDs, controllers.GetChapterForEdit)

	app.Get("/api/analytics", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermissionViewAnalytics), controllers.GetAnalytics)
	app.Post("/api/uploads/:kind", middleware.JWTMiddleware, manage, controllers.UploadFile)
}
