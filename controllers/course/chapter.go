package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func findCourseChapter(db *gorm.DB, courseID, chapterID uint) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := db.Preload("MuxData").
		Where("id = ? AND course_id = ?", chapterID, courseID).
		First(&chapter).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

func chapterError(c *fiber.Ctx, err error, tag string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}
	return internalError(c, err, tag)
}

// CreateChapter appends a chapter after the course's last position
func CreateChapter(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	reqData, ok := c.Locals("validatedChapter").(*courseValidator.CreateChapterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if _, err := findOwnedCourse(db, ids[0], userID); err != nil {
		return ownerError(c, err, "[CHAPTERS]", fiber.StatusUnauthorized)
	}

	var chapter models.Chapter
	err := db.Transaction(func(tx *gorm.DB) error {
		var lastChapter models.Chapter
		position := 1
		err := tx.Where("course_id = ?", ids[0]).Order("position desc").First(&lastChapter).Error
		if err == nil {
			position = lastChapter.Position + 1
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		chapter = models.Chapter{
			Title:    reqData.Title,
			CourseID: ids[0],
			Position: position,
		}
		return tx.Create(&chapter).Error
	})
	if err != nil {
		return internalError(c, err, "[CHAPTERS]")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Chapter created successfully!", chapter)
}

// ReorderChapters writes every position in one transaction. Ids outside the course are skipped.
func ReorderChapters(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	reqData, ok := c.Locals("validatedReorder").(*courseValidator.ReorderChaptersRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if _, err := findOwnedCourse(db, ids[0], userID); err != nil {
		return ownerError(c, err, "[REORDER]", fiber.StatusUnauthorized)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, item := range reqData.List {
			if err := tx.Model(&models.Chapter{}).
				Where("id = ? AND course_id = ?", item.ID, ids[0]).
				Update("position", item.Position).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return internalError(c, err, "[REORDER]")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Success", nil)
}

// GetChapterForEdit returns the chapter with its video data for the course owner
func GetChapterForEdit(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId", "chapterId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	db := database.Database.Db

	if _, err := findOwnedCourse(db, ids[0], userID); err != nil {
		return ownerError(c, err, "[CHAPTER_ID]", fiber.StatusNotFound)
	}

	chapter, err := findCourseChapter(db, ids[0], ids[1])
	if err != nil {
		return chapterError(c, err, "[CHAPTER_ID]")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter fetched successfully!", fiber.Map{
		"chapter":    chapter,
		"completion": ChapterCompletion(chapter),
	})
}

// UpdateChapter saves the editable fields. A new videoUrl replaces the Mux asset.
func UpdateChapter(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId", "chapterId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	reqData, ok := c.Locals("validatedChapterUpdate").(*courseValidator.UpdateChapterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if _, err := findOwnedCourse(db, ids[0], userID); err != nil {
		return ownerError(c, err, "[CHAPTER_ID]", fiber.StatusUnauthorized)
	}

	chapter, err := findCourseChapter(db, ids[0], ids[1])
	if err != nil {
		return chapterError(c, err, "[CHAPTER_ID]")
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.IsFree != nil {
		updates["is_free"] = *reqData.IsFree
	}

	if len(updates) > 0 {
		if err := db.Model(&models.Chapter{}).Where("id = ?", chapter.ID).Updates(updates).Error; err != nil {
			return internalError(c, err, "[CHAPTER_ID]")
		}
	}

	if reqData.VideoURL != nil {
		if err := replaceChapterVideo(c, db, chapter, *reqData.VideoURL); err != nil {
			return internalError(c, err, "[CHAPTER_ID]")
		}
	}

	updated, err := findCourseChapter(db, ids[0], ids[1])
	if err != nil {
		return internalError(c, err, "[CHAPTER_ID]")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter updated successfully!", updated)
}

// replaceChapterVideo drops the chapter's current asset and ingests videoURL as a new one.
// video_url is only written once the new asset exists.
func replaceChapterVideo(c *fiber.Ctx, db *gorm.DB, chapter *models.Chapter, videoURL string) error {
	ctx := c.UserContext()

	if chapter.MuxData != nil {
		if err := utils.Video.DeleteAsset(ctx, chapter.MuxData.AssetID); err != nil {
			return err
		}
		// hard delete frees the unique chapter_id slot
		if err := db.Unscoped().Where("chapter_id = ?", chapter.ID).Delete(&models.MuxData{}).Error; err != nil {
			return err
		}
		chapter.MuxData = nil
	}

	asset, err := utils.Video.CreateAsset(ctx, videoURL)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Chapter{}).Where("id = ?", chapter.ID).Update("video_url", videoURL).Error; err != nil {
			return err
		}

		muxData := models.MuxData{
			ChapterID: chapter.ID,
			AssetID:   asset.ID,
		}
		if asset.PlaybackID != "" {
			playbackID := asset.PlaybackID
			muxData.PlaybackID = &playbackID
		}
		return tx.Create(&muxData).Error
	})
}

// DeleteChapter removes the chapter and its video and unpublishes the course
// when no published chapter remains.
func DeleteChapter(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId", "chapterId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	db := database.Database.Db

	if _, err := findOwnedCourse(db, ids[0], userID); err != nil {
		return ownerError(c, err, "[CHAPTER_ID_DELETE]", fiber.StatusUnauthorized)
	}

	chapter, err := findCourseChapter(db, ids[0], ids[1])
	if err != nil {
		return chapterError(c, err, "[CHAPTER_ID_DELETE]")
	}

	if chapter.VideoURL != nil && chapter.MuxData != nil {
		if err := utils.Video.DeleteAsset(c.UserContext(), chapter.MuxData.AssetID); err != nil {
			return internalError(c, err, "[CHAPTER_ID_DELETE]")
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("chapter_id = ?", chapter.ID).Delete(&models.MuxData{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chapter_id = ?", chapter.ID).Delete(&models.UserProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Chapter{}, chapter.ID).Error; err != nil {
			return err
		}
		return unpublishCourseIfEmpty(tx, ids[0])
	})
	if err != nil {
		return internalError(c, err, "[CHAPTER_ID_DELETE]")
	}

	log.Info().Uint("courseId", ids[0]).Uint("chapterId", chapter.ID).Msg("[CHAPTER_ID_DELETE] chapter deleted")
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter deleted successfully!", chapter)
}

// PublishChapter needs a title, a description and a processed video
func PublishChapter(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId", "chapterId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	db := database.Database.Db

	if _, err := findOwnedCourse(db, ids[0], userID); err != nil {
		return ownerError(c, err, "[CHAPTER_PUBLISH]", fiber.StatusUnauthorized)
	}

	chapter, err := findCourseChapter(db, ids[0], ids[1])
	if err != nil {
		return chapterError(c, err, "[CHAPTER_PUBLISH]")
	}

	if chapter.Title == "" || chapter.Description == nil || *chapter.Description == "" ||
		chapter.VideoURL == nil || *chapter.VideoURL == "" || chapter.MuxData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing required fields", nil)
	}

	if err := db.Model(&models.Chapter{}).Where("id = ?", chapter.ID).Update("is_published", true).Error; err != nil {
		return internalError(c, err, "[CHAPTER_PUBLISH]")
	}
	chapter.IsPublished = true

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter published successfully!", chapter)
}

func UnpublishChapter(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId", "chapterId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	db := database.Database.Db

	if _, err := findOwnedCourse(db, ids[0], userID); err != nil {
		return ownerError(c, err, "[CHAPTER_UNPUBLISH]", fiber.StatusUnauthorized)
	}

	chapter, err := findCourseChapter(db, ids[0], ids[1])
	if err != nil {
		return chapterError(c, err, "[CHAPTER_UNPUBLISH]")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Chapter{}).Where("id = ?", chapter.ID).Update("is_published", false).Error; err != nil {
			return err
		}
		return unpublishCourseIfEmpty(tx, ids[0])
	})
	if err != nil {
		return internalError(c, err, "[CHAPTER_UNPUBLISH]")
	}
	chapter.IsPublished = false

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter unpublished successfully!", chapter)
}
