package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetProgress returns the percentage of the course's published chapters the
// user completed, or 0 when the course has none.
func GetProgress(db *gorm.DB, userID, courseID uint) (float64, error) {
	var publishedChapterIDs []uint
	if err := db.Model(&models.Chapter{}).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Pluck("id", &publishedChapterIDs).Error; err != nil {
		return 0, err
	}
	if len(publishedChapterIDs) == 0 {
		return 0, nil
	}

	var completed int64
	if err := db.Model(&models.UserProgress{}).
		Where("user_id = ? AND chapter_id IN ? AND is_completed = ?", userID, publishedChapterIDs, true).
		Count(&completed).Error; err != nil {
		return 0, err
	}

	return float64(completed) / float64(len(publishedChapterIDs)) * 100, nil
}

// UpdateProgress upserts the caller's completion state for a chapter
func UpdateProgress(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId", "chapterId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	reqData, ok := c.Locals("validatedProgress").(*courseValidator.UpdateProgressRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if _, err := findCourseChapter(db, ids[0], ids[1]); err != nil {
		return chapterError(c, err, "[CHAPTER_ID_PROGRESS]")
	}

	progress := models.UserProgress{
		UserID:      userID,
		ChapterID:   ids[1],
		IsCompleted: reqData.Value(),
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "chapter_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_completed", "updated_at"}),
	}).Create(&progress).Error
	if err != nil {
		return internalError(c, err, "[CHAPTER_ID_PROGRESS]")
	}

	var saved models.UserProgress
	if err := db.Where("user_id = ? AND chapter_id = ?", userID, ids[1]).First(&saved).Error; err != nil {
		return internalError(c, err, "[CHAPTER_ID_PROGRESS]")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", saved)
}

func GetCourseProgress(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	progress, err := GetProgress(database.Database.Db, userID, ids[0])
	if err != nil {
		return internalError(c, err, "[GET_PROGRESS]")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"progress": progress,
	})
}
