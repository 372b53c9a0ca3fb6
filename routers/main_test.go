package routers_test

import (
	"lms/database/dbtest"
	"lms/models"
	"lms/routers"
	"lms/testhelpers"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	app      *fiber.App
	db       *gorm.DB
	video    *testhelpers.FakeVideo
	payments *testhelpers.FakePayments
	mailer   *testhelpers.RecordingMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testhelpers.SetupConfig(t)
	db := dbtest.Setup(t)
	video, payments, mailer := testhelpers.InstallFakes(t)

	return &testEnv{
		app:      routers.SetupApp(),
		db:       db,
		video:    video,
		payments: payments,
		mailer:   mailer,
	}
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

// publishedCourse creates a published course owned by teacherID with one published free
// chapter and one published paid chapter.
func (e *testEnv) publishedCourse(t *testing.T, teacherID uint, title string, price float64) (models.Course, []models.Chapter) {
	t.Helper()

	category := models.Category{Name: "Category " + title}
	require.NoError(t, e.db.Create(&category).Error)

	course := models.Course{
		UserID:      teacherID,
		Title:       title,
		Description: strPtr("About " + title),
		ImageURL:    strPtr("http://lms.test/uploads/cover.png"),
		Price:       floatPtr(price),
		CategoryID:  &category.ID,
		IsPublished: true,
	}
	require.NoError(t, e.db.Create(&course).Error)

	chapters := []models.Chapter{
		{Title: "Intro", Description: strPtr("intro"), VideoURL: strPtr("http://videos.test/1.mp4"), Position: 1, IsPublished: true, IsFree: true, CourseID: course.ID},
		{Title: "Deep dive", Description: strPtr("deep"), VideoURL: strPtr("http://videos.test/2.mp4"), Position: 2, IsPublished: true, CourseID: course.ID},
	}
	require.NoError(t, e.db.Create(&chapters).Error)

	for i, chapter := range chapters {
		mux := models.MuxData{ChapterID: chapter.ID, AssetID: "seed-asset-" + chapter.Title, PlaybackID: strPtr("seed-playback")}
		require.NoError(t, e.db.Create(&mux).Error)
		chapters[i].MuxData = &mux
	}

	return course, chapters
}

func (e *testEnv) purchase(t *testing.T, userID, courseID uint) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.Purchase{UserID: userID, CourseID: courseID}).Error)
}
