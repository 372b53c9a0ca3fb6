package controllers

import (
	"errors"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// routeIDs reads the authenticated user and the validated route ids
func routeIDs(c *fiber.Ctx, params ...string) (uint, []uint, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return 0, nil, false
	}

	ids := make([]uint, len(params))
	for i, param := range params {
		id, ok := c.Locals(param).(uint)
		if !ok {
			return 0, nil, false
		}
		ids[i] = id
	}
	return userID, ids, true
}

// findOwnedCourse returns gorm.ErrRecordNotFound when the course is missing or owned by someone else
func findOwnedCourse(db *gorm.DB, courseID, userID uint) (*models.Course, error) {
	var course models.Course
	if err := db.Where("id = ? AND user_id = ?", courseID, userID).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// ownerError answers a failed findOwnedCourse. Missing courses get missingStatus.
func ownerError(c *fiber.Ctx, err error, tag string, missingStatus int) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if missingStatus == fiber.StatusNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not found", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}
	return internalError(c, err, tag)
}

func internalError(c *fiber.Ctx, err error, tag string) error {
	log.Error().Err(err).Str("path", c.Path()).Msg(tag)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal Error", nil)
}

// unpublishCourseIfEmpty unpublishes the course when it has no published chapter left
func unpublishCourseIfEmpty(db *gorm.DB, courseID uint) error {
	var published int64
	if err := db.Model(&models.Chapter{}).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Count(&published).Error; err != nil {
		return err
	}
	if published > 0 {
		return nil
	}
	return db.Model(&models.Course{}).Where("id = ?", courseID).Update("is_published", false).Error
}
