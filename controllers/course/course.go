package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	courseValidator "lms/validators/course"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SetupCompletion counts the filled required fields of a course or chapter
type SetupCompletion struct {
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
	Ratio      string `json:"ratio"`
	IsComplete bool   `json:"isComplete"`
}

// CourseCompletion scores title, description, imageUrl, price and categoryId.
// IsComplete also requires a published chapter.
func CourseCompletion(course *models.Course) SetupCompletion {
	return completionOf([]bool{
		course.Title != "",
		course.Description != nil && *course.Description != "",
		course.ImageURL != nil && *course.ImageURL != "",
		course.Price != nil,
		course.CategoryID != nil,
	}, hasPublishedChapter(course.Chapters))
}

// ChapterCompletion scores title, description and videoUrl
func ChapterCompletion(chapter *models.Chapter) SetupCompletion {
	return completionOf([]bool{
		chapter.Title != "",
		chapter.Description != nil && *chapter.Description != "",
		chapter.VideoURL != nil && *chapter.VideoURL != "",
	}, true)
}

func completionOf(required []bool, ready bool) SetupCompletion {
	completed := 0
	for _, filled := range required {
		if filled {
			completed++
		}
	}

	return SetupCompletion{
		Completed:  completed,
		Total:      len(required),
		Ratio:      strconv.Itoa(completed) + "/" + strconv.Itoa(len(required)),
		IsComplete: completed == len(required) && ready,
	}
}

func hasPublishedChapter(chapters []models.Chapter) bool {
	for _, chapter := range chapters {
		if chapter.IsPublished {
			return true
		}
	}
	return false
}

func CreateCourse(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := models.Course{
		UserID: userID,
		Title:  reqData.Title,
	}
	if err := database.Database.Db.Create(&course).Error; err != nil {
		return internalError(c, err, "[COURSES]")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func ListTeacherCourses(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	var courses []models.Course
	if err := database.Database.Db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		return internalError(c, err, "[TEACHER_COURSES]")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// GetCourseSetup returns the course editor view for its owner
func GetCourseSetup(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	var course models.Course
	err := database.Database.Db.
		Preload("Chapters", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Where("id = ? AND user_id = ?", ids[0], userID).
		First(&course).Error
	if err != nil {
		return ownerError(c, err, "[COURSE_ID]", fiber.StatusNotFound)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":     course,
		"completion": CourseCompletion(&course),
	})
}

func UpdateCourse(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	course, err := findOwnedCourse(db, ids[0], userID)
	if err != nil {
		return ownerError(c, err, "[COURSE_ID]", fiber.StatusUnauthorized)
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.ImageURL != nil {
		updates["image_url"] = *reqData.ImageURL
	}
	if reqData.Price != nil {
		updates["price"] = *reqData.Price
	}
	if reqData.CategoryID != nil {
		var category models.Category
		if err := db.First(&category, *reqData.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Category not found!", nil)
			}
			return internalError(c, err, "[COURSE_ID]")
		}
		updates["category_id"] = category.ID
	}

	if len(updates) > 0 {
		if err := db.Model(course).Updates(updates).Error; err != nil {
			return internalError(c, err, "[COURSE_ID]")
		}
	}

	if err := db.First(course, course.ID).Error; err != nil {
		return internalError(c, err, "[COURSE_ID]")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// DeleteCourse removes the course videos from Mux, then the course with its
// chapters and attachments. Purchases are kept for revenue history.
func DeleteCourse(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	db := database.Database.Db

	var course models.Course
	err := db.Preload("Chapters.MuxData").
		Where("id = ? AND user_id = ?", ids[0], userID).
		First(&course).Error
	if err != nil {
		return ownerError(c, err, "[COURSE_ID_DELETE]", fiber.StatusNotFound)
	}

	chapterIDs := make([]uint, 0, len(course.Chapters))
	for _, chapter := range course.Chapters {
		chapterIDs = append(chapterIDs, chapter.ID)
		if chapter.MuxData == nil {
			continue
		}
		if err := utils.Video.DeleteAsset(c.UserContext(), chapter.MuxData.AssetID); err != nil {
			return internalError(c, err, "[COURSE_ID_DELETE]")
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(chapterIDs) > 0 {
			if err := tx.Where("chapter_id IN ?", chapterIDs).Delete(&models.MuxData{}).Error; err != nil {
				return err
			}
			if err := tx.Where("chapter_id IN ?", chapterIDs).Delete(&models.UserProgress{}).Error; err != nil {
				return err
			}
			if err := tx.Where("course_id = ?", course.ID).Delete(&models.Chapter{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&course).Error
	})
	if err != nil {
		return internalError(c, err, "[COURSE_ID_DELETE]")
	}

	log.Info().Uint("courseId", course.ID).Int("chapters", len(chapterIDs)).Msg("[COURSE_ID_DELETE] course deleted")
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", course)
}

func PublishCourse(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	db := database.Database.Db

	var course models.Course
	err := db.Preload("Chapters").
		Where("id = ? AND user_id = ?", ids[0], userID).
		First(&course).Error
	if err != nil {
		return ownerError(c, err, "[COURSE_ID_PUBLISH]", fiber.StatusNotFound)
	}

	if course.Title == "" || course.Description == nil || *course.Description == "" ||
		course.ImageURL == nil || *course.ImageURL == "" || course.CategoryID == nil ||
		!hasPublishedChapter(course.Chapters) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing required fields", nil)
	}

	if err := db.Model(&course).Update("is_published", true).Error; err != nil {
		return internalError(c, err, "[COURSE_ID_PUBLISH]")
	}

	course.Chapters = nil
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", course)
}

func UnpublishCourse(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	db := database.Database.Db

	course, err := findOwnedCourse(db, ids[0], userID)
	if err != nil {
		return ownerError(c, err, "[COURSE_ID_UNPUBLISH]", fiber.StatusNotFound)
	}

	if err := db.Model(course).Update("is_published", false).Error; err != nil {
		return internalError(c, err, "[COURSE_ID_UNPUBLISH]")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course unpublished successfully!", course)
}

func ListCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := database.Database.Db.Order("name asc").Find(&categories).Error; err != nil {
		return internalError(c, err, "[CATEGORIES]")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Categories fetched successfully!", categories)
}
