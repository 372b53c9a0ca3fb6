package routers_test

import (
	"bytes"
	"fmt"
	"lms/config"
	"lms/models"
	"lms/testhelpers"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachments_CreateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	teacher, token := testhelpers.CreateUser(t, env.db, "teacher@example.com", models.RoleTeacher)
	course := models.Course{UserID: teacher.ID, Title: "Computer Science"}
	require.NoError(t, env.db.Create(&course).Error)

	status, res := testhelpers.DoJSON(t, env.app, http.MethodPost, fmt.Sprintf("/api/courses/%d/attachments", course.ID), token, map[string]string{
		"url": "http://lms.test/uploads/syllabus.pdf",
	})
	require.Equal(t, http.StatusCreated, status, res.Message)

	var attachment models.Attachment
	testhelpers.Decode(t, res, &attachment)
	assert.Equal(t, "syllabus.pdf", attachment.Name)
	assert.Equal(t, course.ID, attachment.CourseID)

	status, _ = testhelpers.DoJSON(t, env.app, http.MethodPost, fmt.Sprintf("/api/courses/%d/attachments", course.ID), token, map[string]string{
		"url": "not a url",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	_, otherToken := testhelpers.CreateUser(t, env.db, "other@example.com", models.RoleTeacher)
	deletePath := fmt.Sprintf("/api/courses/%d/attachments/%d", course.ID, attachment.ID)
	status, _ = testhelpers.DoJSON(t, env.app, http.MethodDelete, deletePath, otherToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = testhelpers.DoJSON(t, env.app, http.MethodDelete, deletePath, token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = testhelpers.DoJSON(t, env.app, http.MethodDelete, deletePath, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func uploadRequest(t *testing.T, path, token, filename string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUpload_StoresSniffedFile(t *testing.T) {
	env := newTestEnv(t)
	_, token := testhelpers.CreateUser(t, env.db, "teacher@example.com", models.RoleTeacher)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	status, res := testhelpers.Do(t, env.app, uploadRequest(t, "/api/uploads/courseImage", token, "cover.png", png))
	require.Equal(t, http.StatusCreated, status, res.Message)

	var uploaded struct {
		URL  string `json:"url"`
		Key  string `json:"key"`
		Name string `json:"name"`
	}
	testhelpers.Decode(t, res, &uploaded)
	assert.Equal(t, "cover.png", uploaded.Name)
	assert.True(t, strings.HasPrefix(uploaded.URL, "http://lms.test/uploads/"))
	assert.True(t, strings.HasSuffix(uploaded.Key, ".png"))

	_, err := os.Stat(filepath.Join(config.AppConfig.UploadDir, uploaded.Key))
	assert.NoError(t, err)
}

func TestUpload_RejectsWrongType(t *testing.T) {
	env := newTestEnv(t)
	_, token := testhelpers.CreateUser(t, env.db, "teacher@example.com", models.RoleTeacher)
	_, studentToken := testhelpers.CreateUser(t, env.db, "student@example.com", models.RoleStudent)

	status, _ := testhelpers.Do(t, env.app, uploadRequest(t, "/api/uploads/courseImage", token, "notes.txt", []byte("plain text notes")))
	assert.Equal(t, http.StatusUnsupportedMediaType, status)

	status, _ = testhelpers.Do(t, env.app, uploadRequest(t, "/api/uploads/avatar", token, "a.png", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = testhelpers.Do(t, env.app, uploadRequest(t, "/api/uploads/courseAttachment", studentToken, "notes.txt", []byte("plain text notes")))
	assert.Equal(t, http.StatusForbidden, status)
}
