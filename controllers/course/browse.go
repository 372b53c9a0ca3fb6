package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseValidator "lms/validators/course"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CourseWithProgress is a catalog entry. Progress is nil until the course is purchased.
type CourseWithProgress struct {
	models.Course
	Progress *float64 `json:"progress"`
}

func publishedChapterIDs(db *gorm.DB) *gorm.DB {
	return db.Select("id", "course_id").Where("is_published = ?", true).Order("position asc")
}

// GetCourses searches published courses by title and category
func GetCourses(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	query, ok := c.Locals("validatedSearch").(*courseValidator.SearchCoursesQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	tx := db.Preload("Category").
		Preload("Chapters", publishedChapterIDs).
		Where("is_published = ?", true)
	if query.Title != "" {
		tx = tx.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(query.Title)+"%")
	}
	if query.CategoryID != nil {
		tx = tx.Where("category_id = ?", *query.CategoryID)
	}

	var courses []models.Course
	if err := tx.Order("created_at desc").Find(&courses).Error; err != nil {
		return internalError(c, err, "[GET_COURSES]")
	}

	courseIDs := make([]uint, 0, len(courses))
	for _, course := range courses {
		courseIDs = append(courseIDs, course.ID)
	}

	purchased := map[uint]bool{}
	if len(courseIDs) > 0 {
		var purchasedIDs []uint
		if err := db.Model(&models.Purchase{}).
			Where("user_id = ? AND course_id IN ?", userID, courseIDs).
			Pluck("course_id", &purchasedIDs).Error; err != nil {
			return internalError(c, err, "[GET_COURSES]")
		}
		for _, id := range purchasedIDs {
			purchased[id] = true
		}
	}

	result := make([]CourseWithProgress, 0, len(courses))
	for _, course := range courses {
		entry := CourseWithProgress{Course: course}
		if purchased[course.ID] {
			progress, err := GetProgress(db, userID, course.ID)
			if err != nil {
				return internalError(c, err, "[GET_COURSES]")
			}
			entry.Progress = &progress
		}
		result = append(result, entry)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", result)
}

// GetDashboard splits the caller's purchased courses by completion
func GetDashboard(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	db := database.Database.Db

	var purchases []models.Purchase
	err := db.Preload("Course").
		Preload("Course.Category").
		Preload("Course.Chapters", publishedChapterIDs).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&purchases).Error
	if err != nil {
		return internalError(c, err, "[GET_DASHBOARD_COURSES]")
	}

	completedCourses := []CourseWithProgress{}
	coursesInProgress := []CourseWithProgress{}
	for _, purchase := range purchases {
		// deleted courses are not preloaded
		if purchase.Course == nil {
			continue
		}

		progress, err := GetProgress(db, userID, purchase.CourseID)
		if err != nil {
			return internalError(c, err, "[GET_DASHBOARD_COURSES]")
		}

		entry := CourseWithProgress{Course: *purchase.Course, Progress: &progress}
		if progress == 100 {
			completedCourses = append(completedCourses, entry)
		} else {
			coursesInProgress = append(coursesInProgress, entry)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"completedCourses":  completedCourses,
		"coursesInProgress": coursesInProgress,
	})
}

// GetChapter is the student chapter view. Video data and the next chapter are
// only returned for free chapters or purchased courses.
func GetChapter(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId", "chapterId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}
	courseID, chapterID := ids[0], ids[1]

	db := database.Database.Db

	var purchase *models.Purchase
	var found models.Purchase
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&found).Error; err == nil {
		purchase = &found
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return internalError(c, err, "[GET_CHAPTER]")
	}

	var course models.Course
	if err := db.Select("id", "price").
		Where("id = ? AND is_published = ?", courseID, true).
		First(&course).Error; err != nil {
		return chapterError(c, err, "[GET_CHAPTER]")
	}

	var chapter models.Chapter
	if err := db.Where("id = ? AND course_id = ? AND is_published = ?", chapterID, courseID, true).
		First(&chapter).Error; err != nil {
		return chapterError(c, err, "[GET_CHAPTER]")
	}

	attachments := []models.Attachment{}
	var muxData *models.MuxData
	var nextChapter *models.Chapter

	if purchase != nil {
		if err := db.Where("course_id = ?", courseID).Order("created_at desc").Find(&attachments).Error; err != nil {
			return internalError(c, err, "[GET_CHAPTER]")
		}
	}

	if chapter.IsFree || purchase != nil {
		var mux models.MuxData
		if err := db.Where("chapter_id = ?", chapterID).First(&mux).Error; err == nil {
			muxData = &mux
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return internalError(c, err, "[GET_CHAPTER]")
		}

		var next models.Chapter
		if err := db.Where("course_id = ? AND is_published = ? AND position > ?", courseID, true, chapter.Position).
			Order("position asc").
			First(&next).Error; err == nil {
			nextChapter = &next
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return internalError(c, err, "[GET_CHAPTER]")
		}
	}

	var userProgress *models.UserProgress
	var progress models.UserProgress
	if err := db.Where("user_id = ? AND chapter_id = ?", userID, chapterID).First(&progress).Error; err == nil {
		userProgress = &progress
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return internalError(c, err, "[GET_CHAPTER]")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter fetched successfully!", fiber.Map{
		"chapter":      chapter,
		"course":       fiber.Map{"price": course.Price},
		"muxData":      muxData,
		"attachments":  attachments,
		"nextChapter":  nextChapter,
		"userProgress": userProgress,
		"purchase":     purchase,
	})
}

// CourseChapter is a published chapter as listed in the student course view
type CourseChapter struct {
	models.Chapter
	IsCompleted bool `json:"isCompleted"`
	IsLocked    bool `json:"isLocked"`
}

// GetCourseOverview returns a course with its published chapters, the caller's
// completion of each chapter and the overall progress. Paid chapters are locked
// until the course is purchased.
func GetCourseOverview(c *fiber.Ctx) error {
	userID, ids, ok := routeIDs(c, "courseId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}
	courseID := ids[0]

	db := database.Database.Db

	var purchase *models.Purchase
	var found models.Purchase
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&found).Error; err == nil {
		purchase = &found
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return internalError(c, err, "[GET_COURSE]")
	}

	var course models.Course
	err := db.Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Where("is_published = ?", true).Order("position asc")
	}).
		Preload("Chapters.UserProgress", "user_id = ?", userID).
		First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not found", nil)
		}
		return internalError(c, err, "[GET_COURSE]")
	}
	// buyers keep access after the course is unpublished
	if !course.IsPublished && purchase == nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not found", nil)
	}

	chapters := make([]CourseChapter, 0, len(course.Chapters))
	for _, chapter := range course.Chapters {
		entry := CourseChapter{
			Chapter:  chapter,
			IsLocked: !chapter.IsFree && purchase == nil,
		}
		for _, progress := range chapter.UserProgress {
			if progress.IsCompleted {
				entry.IsCompleted = true
			}
		}
		entry.UserProgress = nil
		chapters = append(chapters, entry)
	}
	course.Chapters = nil

	progress, err := GetProgress(db, userID, courseID)
	if err != nil {
		return internalError(c, err, "[GET_COURSE]")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":   course,
		"chapters": chapters,
		"purchase": purchase,
		"progress": progress,
	})
}
