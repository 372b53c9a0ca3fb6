package routers_test

import (
	"context"
	"errors"
	"fmt"
	controllers "lms/controllers/course"
	"lms/models"
	"lms/testhelpers"
	"lms/utils"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChapter_AppendsPosition(t *testing.T) {
	env := newTestEnv(t)
	teacher, token := testhelpers.CreateUser(t, env.db, "teacher@example.com", models.RoleTeacher)
	course := models.Course{UserID: teacher.ID, Title: "History"}
	require.NoError(t, env.db.Create(&course).Error)
	path := fmt.Sprintf("/api/courses/%d/chapters", course.ID)

	for i, title := range []string{"Antiquity", "Middle Ages"} {
		status, res := testhelpers.DoJSON(t, env.app, http.MethodPost, path, token, map[string]string{"title": title})
		require.Equal(t, http.StatusCreated, status, res.Message)

		var chapter models.Chapter
		testhelpers.Decode(t, res, &chapter)
		assert.Equal(t, i+1, chapter.Position)
		assert.Equal(t, course.ID, chapter.CourseID)
	}

	_, otherToken := testhelpers.CreateUser(t, env.db, "other@example.com", models.RoleTeacher)
	status, _ := testhelpers.DoJSON(t, env.app, http.MethodPost, path, otherToken, map[string]string{"title": "Intruder"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestReorderChapters_OnlyTouchesOwnCourse(t *testing.T) {
	env := newTestEnv(t)
	teacher, token := testhelpers.CreateUser(t, env.db, "teacher@example.com", models.RoleTeacher)

	course := models.Course{UserID: teacher.ID, Title: "Economics"}
	other := models.Course{UserID: teacher.ID, Title: "Other"}
	require.NoError(t, env.db.Create(&course).Error)
	require.NoError(t, env.db.Create(&other).Error)

	a := models.Chapter{Title: "A", Position: 1, CourseID: course.ID}
	b := models.Chapter{Title: "B", Position: 2, CourseID: course.ID}
	foreign := models.Chapter{Title: "X", Position: 1, CourseID: other.ID}
	require.NoError(t, env.db.Create(&a).Error)
	require.NoError(t, env.db.Create(&b).Error)
	require.NoError(t, env.db.Create(&foreign).Error)

	status, res := testhelpers.DoJSON(t, env.app, http.MethodPut, fmt.Sprintf("/api/courses/%d/chapters/reorder", course.ID), token, map[string]interface{}{
		"list": []map[string]interface{}{
			{"id": a.ID, "position": 2},
			{"id": b.ID, "position": 1},
			{"id": foreign.ID, "position": 7},
		},
	})
	require.Equal(t, http.StatusOK, status, res.Message)
	assert.Equal(t, "Success", res.Message)

	var positions []models.Chapter
	require.NoError(t, env.db.Order("id asc").Find(&positions).Error)
	assert.Equal(t, 2, positions[0].Position)
	assert.Equal(t, 1, positions[1].Position)
	assert.Equal(t, 1, positions[2].Position)

	status, _ = testhelpers.DoJSON(t, env.app, http.MethodPut, fmt.Sprintf("/api/courses/%d/chapters/reorder", course.ID), token, map[string]interface{}{
		"list": []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestUpdateChapter_ReplacesVideo(t *testing.T) {
	env := newTestEnv(t)
	teacher, token := testhelpers.CreateUser(t, env.db, "teacher@example.com", models.RoleTeacher)
	course, chapters := env.publishedCourse(t, teacher.ID, "Philosophy", 25)
	chapter := chapters[1]
	path := fmt.Sprintf("/api/courses/%d/chapters/%d", course.ID, chapter.ID)

	status, res := testhelpers.DoJSON(t, env.app, http.MethodPatch, path, token, map[string]interface{}{
		"title":       "Ethics",
		"isFree":      true,
		"videoUrl":    "http://lms.test/uploads/ethics.mp4",
		"isPublished": false,
	})
	require.Equal(t, http.StatusOK, status, res.Message)

	var updated models.Chapter
	testhelpers.Decode(t, res, &updated)
	assert.Equal(t, "Ethics", updated.Title)
	assert.True(t, updated.IsFree)
	assert.True(t, updated.IsPublished)
	require.NotNil(t, updated.MuxData)
	assert.Equal(t, "asset-1", updated.MuxData.AssetID)
	assert.Equal(t, "playback-1", *updated.MuxData.PlaybackID)

	assert.Equal(t, []string{"seed-asset-Deep dive"}, env.video.DeletedAssets())
	assert.Equal(t, []string{"http://lms.test/uploads/ethics.mp4"}, env.video.Created)

	var muxRows int64
	env.db.Unscoped().Model(&models.MuxData{}).Where("chapter_id = ?", chapter.ID).Count(&muxRows)
	assert.Equal(t, int64(1), muxRows)
}

func TestUpdateChapter_VideoProviderFailure(t *testing.T) {
	env := newTestEnv(t)
	teacher, token := testhelpers.CreateUser(t, env.db, "teacher@example.com", models.RoleTeacher)
	course, chapters := env.publishedCourse(t, teacher.ID, "Physics", 15)
	chapter := chapters[1]
	path := fmt.Sprintf("/api/courses/%d/chapters/%d", course.ID, chapter.ID)

	env.video.CreateFn = func(context.Context, string) (*utils.VideoAsset, error) {
		return nil, errors.New("mux unavailable")
	}

	status, res := testhelpers.DoJSON(t, env.app, http.MethodPatch, path, token, map[string]interface{}{
		"videoUrl": "http://lms.test/uploads/motion.mp4",
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal Error", res.Message)
	assert.Equal(t, []string{"seed-asset-Deep dive"}, env.video.DeletedAssets())

	var muxRows int64
	env.db.Unscoped().Model(&models.MuxData{}).Where("chapter_id = ?", chapter.ID).Count(&muxRows)
	assert.Zero(t, muxRows, "the deleted asset must not stay linked")

	var reloaded models.Chapter
	require.NoError(t, env.db.First(&reloaded, chapter.ID).Error)
	require.NotNil(t, reloaded.VideoURL)
	assert.Equal(t, "http://videos.test/2.mp4", *reloaded.VideoURL)

	status, res = testhelpers.DoJSON(t, env.app, http.MethodPatch, path+"/publish", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required fields", res.Message)
}

func TestPublishChapter_RequiresVideo(t *testing.T) {
	env := newTestEnv(t)
	teacher, token := testhelpers.CreateUser(t, env.db, "teacher@example.com", models.RoleTeacher)
	course := models.Course{UserID: teacher.ID, Title: "Biology"}
	require.NoError(t, env.db.Create(&course).Error)
	chapter := models.Chapter{Title: "Cells", Description: strPtr("The unit of life"), Position: 1, CourseID: course.ID}
	require.NoError(t, env.db.Create(&chapter).Error)
	path := fmt.Sprintf("/api/courses/%d/chapters/%d/publish", course.ID, chapter.ID)

	status, res := testhelpers.DoJSON(t, env.app, http.MethodPatch, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required fields", res.Message)

	status, _ = testhelpers.DoJSON(t, env.app, http.MethodPatch, fmt.Sprintf("/api/courses/%d/chapters/%d", course.ID, chapter.ID), token, map[string]interface{}{
		"videoUrl": "http://lms.test/uploads/cells.mp4",
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = testhelpers.DoJSON(t, env.app, http.MethodPatch, path, token, nil)
	require.Equal(t, http.StatusOK, status)

	var published models.Chapter
	require.NoError(t, env.db.First(&published, chapter.ID).Error)
	assert.True(t, published.IsPublished)
}

func TestUnpublishLastChapter_UnpublishesCourse(t *testing.T) {
	env := newTestEnv(t)
	teacher, token := testhelpers.CreateUser(t, env.db, "teacher@example.com", models.RoleTeacher)
	course, chapters := env.publishedCourse(t, teacher.ID, "Art", 5)

	status, _ := testhelpers.DoJSON(t, env.app, http.MethodPatch, fmt.Sprintf("/api/courses/%d/chapters/%d/unpublish", course.ID, chapters[0].ID), token, nil)
	require.Equal(t, http.StatusOK, status)

	var reloaded models.Course
	require.NoError(t, env.db.First(&reloaded, course.ID).Error)
	assert.True(t, reloaded.IsPublished, "one published chapter remains")

	status, _ = testhelpers.DoJSON(t, env.app, http.MethodPatch, fmt.Sprintf("/api/courses/%d/chapters/%d/unpublish", course.ID, chapters[1].ID), token, nil)
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, env.db.First(&reloaded, course.ID).Error)
	assert.False(t, reloaded.IsPublished)
}

func TestDeleteChapter_RemovesVideoAndUnpublishesCourse(t *testing.T) {
	env := newTestEnv(t)
	teacher, token := testhelpers.CreateUser(t, env.db, "teacher@example.com", models.RoleTeacher)
	course, chapters := env.publishedCourse(t, teacher.ID, "Mathematics", 5)
	require.NoError(t, env.db.Model(&models.Chapter{}).Where("id = ?", chapters[1].ID).Update("is_published", false).Error)

	status, _ := testhelpers.DoJSON(t, env.app, http.MethodDelete, fmt.Sprintf("/api/courses/%d/chapters/%d", course.ID, chapters[0].ID), token, nil)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, []string{chapters[0].MuxData.AssetID}, env.video.DeletedAssets())

	var count int64
	env.db.Model(&models.Chapter{}).Where("id = ?", chapters[0].ID).Count(&count)
	assert.Zero(t, count)

	var reloaded models.Course
	require.NoError(t, env.db.First(&reloaded, course.ID).Error)
	assert.False(t, reloaded.IsPublished)

	status, _ = testhelpers.DoJSON(t, env.app, http.MethodDelete, fmt.Sprintf("/api/courses/%d/chapters/%d", course.ID, chapters[0].ID), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetChapterForEdit(t *testing.T) {
	env := newTestEnv(t)
	teacher, token := testhelpers.CreateUser(t, env.db, "teacher@example.com", models.RoleTeacher)
	course, chapters := env.publishedCourse(t, teacher.ID, "Photography", 5)

	status, res := testhelpers.DoJSON(t, env.app, http.MethodGet, fmt.Sprintf("/api/teacher/courses/%d/chapters/%d", course.ID, chapters[0].ID), token, nil)
	require.Equal(t, http.StatusOK, status)

	var body struct {
		Chapter    models.Chapter              `json:"chapter"`
		Completion controllers.SetupCompletion `json:"completion"`
	}
	testhelpers.Decode(t, res, &body)
	assert.Equal(t, "Intro", body.Chapter.Title)
	require.NotNil(t, body.Chapter.MuxData)
	assert.Equal(t, chapters[0].MuxData.AssetID, body.Chapter.MuxData.AssetID)
	assert.Equal(t, controllers.SetupCompletion{Completed: 3, Total: 3, Ratio: "3/3", IsComplete: true}, body.Completion)
}
