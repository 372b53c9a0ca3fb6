package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseValidator "lms/validators/course"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// attachmentName is the last path segment of the uploaded file URL
func attachmentName(url string) string {
	url = strings.TrimRight(url, "/")
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return url[strings.LastIndex(url, "/")+1:]
}

func CreateAttachment(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	reqData, ok := c.Locals("validatedAttachment").(*courseValidator.CreateAttachmentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if _, err := findOwnedCourse(db, ids[0], userID); err != nil {
		return ownerError(c, err, "[COURSE_ID_ATTACHMENTS]", fiber.StatusUnauthorized)
	}

	attachment := models.Attachment{
		URL:      reqData.URL,
		Name:     attachmentName(reqData.URL),
		CourseID: ids[0],
	}
	if err := db.Create(&attachment).Error; err != nil {
		return internalError(c, err, "[COURSE_ID_ATTACHMENTS]")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Attachment added successfully!", attachment)
}

func DeleteAttachment(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId", "attachmentId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	db := database.Database.Db

	if _, err := findOwnedCourse(db, ids[0], userID); err != nil {
		return ownerError(c, err, "[ATTACHMENT_ID]", fiber.StatusUnauthorized)
	}

	result := db.Where("id = ? AND course_id = ?", ids[1], ids[0]).Delete(&models.Attachment{})
	if result.Error != nil {
		return internalError(c, result.Error, "[ATTACHMENT_ID]")
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attachment not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attachment deleted successfully!", nil)
}
