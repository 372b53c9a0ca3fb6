package routers_test

import (
	"errors"
	"fmt"
	"io"
	"lms/metrics"
	"lms/models"
	"lms/testhelpers"
	"lms/utils"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckout_CreatesSessionAndReusesCustomer(t *testing.T) {
	env := newTestEnv(t)
	teacher, _ := testhelpers.CreateUser(t, env.db, "teacher@example.com", models.RoleTeacher)
	student, token := testhelpers.CreateUser(t, env.db, "student@example.com", models.RoleStudent)
	course, _ := env.publishedCourse(t, teacher.ID, "Biology", 19.99)
	second, _ := env.publishedCourse(t, teacher.ID, "Chemistry", 5)

	status, res := testhelpers.DoJSON(t, env.app, http.MethodPost, fmt.Sprintf("/api/courses/%d/checkout", course.ID), token, nil)
	require.Equal(t, http.StatusOK, status, res.Message)

	var body struct {
		URL string `json:"url"`
	}
	testhelpers.Decode(t, res, &body)
	assert.Equal(t, "https://checkout.stripe.test/cs_test_1", body.URL)

	require.Len(t, env.payments.Sessions, 1)
	params := env.payments.Sessions[0]
	assert.Equal(t, "cus_1", params.CustomerID)
	assert.Equal(t, "Biology", params.ProductName)
	assert.Equal(t, int64(1999), params.UnitAmount)
	assert.Equal(t, "usd", params.Currency)
	assert.Equal(t, fmt.Sprintf("http://lms.test/courses/%d?success=1", course.ID), params.SuccessURL)
	assert.Equal(t, fmt.Sprintf("http://lms.test/courses/%d?canceled=1", course.ID), params.CancelURL)
	assert.Equal(t, map[string]string{
		"courseId": fmt.Sprint(course.ID),
		"userId":   fmt.Sprint(student.ID),
	}, params.Metadata)

	var session models.CheckoutSession
	require.NoError(t, env.db.Where("session_id = ?", "cs_test_1").First(&session).Error)
	assert.Equal(t, models.CheckoutStatusPending, session.Status)
	assert.Equal(t, int64(1999), session.AmountCents)

	status, _ = testhelpers.DoJSON(t, env.app, http.MethodPost, fmt.Sprintf("/api/courses/%d/checkout", second.ID), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, env.payments.Customers, 1)
	assert.Equal(t, "cus_1", env.payments.Sessions[1].CustomerID)
}

func TestCheckout_Rejections(t *testing.T) {
	env := newTestEnv(t)
	teacher, _ := testhelpers.CreateUser(t, env.db, "teacher@example.com", models.RoleTeacher)
	student, token := testhelpers.CreateUser(t, env.db, "student@example.com", models.RoleStudent)
	course, _ := env.publishedCourse(t, teacher.ID, "Art", 10)
	draft := models.Course{UserID: teacher.ID, Title: "Draft"}
	require.NoError(t, env.db.Create(&draft).Error)

	status, res := testhelpers.DoJSON(t, env.app, http.MethodPost, fmt.Sprintf("/api/courses/%d/checkout", draft.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not found", res.Message)

	env.purchase(t, student.ID, course.ID)
	status, res = testhelpers.DoJSON(t, env.app, http.MethodPost, fmt.Sprintf("/api/courses/%d/checkout", course.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Already purchased", res.Message)

	// a buyer is told about the purchase even after the course is unpublished
	require.NoError(t, env.db.Model(&models.Course{}).Where("id = ?", course.ID).Update("is_published", false).Error)
	status, res = testhelpers.DoJSON(t, env.app, http.MethodPost, fmt.Sprintf("/api/courses/%d/checkout", course.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Already purchased", res.Message)

	assert.Empty(t, env.payments.Sessions)
}

func webhookRequest(payload string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", "t=1,v1=test")
	return req
}

func TestWebhook_CompletedCheckoutRecordsPurchaseOnce(t *testing.T) {
	env := newTestEnv(t)
	teacher, _ := testhelpers.CreateUser(t, env.db, "teacher@example.com", models.RoleTeacher)
	student, _ := testhelpers.CreateUser(t, env.db, "student@example.com", models.RoleStudent)
	course, _ := env.publishedCourse(t, teacher.ID, "Photography", 49)

	require.NoError(t, env.db.Create(&models.CheckoutSession{
		SessionID: "cs_test_9", UserID: student.ID, CourseID: course.ID, Status: models.CheckoutStatusPending,
	}).Error)

	env.payments.WebhookFn = func(payload []byte, signature string) (*utils.WebhookEvent, error) {
		assert.Equal(t, "t=1,v1=test", signature)
		return &utils.WebhookEvent{
			ID:        "evt_1",
			Type:      utils.EventCheckoutSessionCompleted,
			SessionID: "cs_test_9",
			Metadata: map[string]string{
				"userId":   fmt.Sprint(student.ID),
				"courseId": fmt.Sprint(course.ID),
			},
			Raw: payload,
		}, nil
	}

	before := testutil.ToFloat64(metrics.PurchasesTotal)

	for i := 0; i < 2; i++ {
		status, res := testhelpers.Do(t, env.app, webhookRequest(`{"id":"evt_1"}`))
		require.Equal(t, http.StatusOK, status, res.Message)
	}

	var purchases int64
	env.db.Model(&models.Purchase{}).Where("user_id = ? AND course_id = ?", student.ID, course.ID).Count(&purchases)
	assert.Equal(t, int64(1), purchases)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.PurchasesTotal))

	var session models.CheckoutSession
	require.NoError(t, env.db.Where("session_id = ?", "cs_test_9").First(&session).Error)
	assert.Equal(t, models.CheckoutStatusCompleted, session.Status)
	assert.NotNil(t, session.CompletedAt)

	var events int64
	env.db.Model(&models.PaymentEvent{}).Where("event_id = ?", "evt_1").Count(&events)
	assert.Equal(t, int64(1), events)

	assert.Eventually(t, func() bool {
		sent := env.mailer.Sent()
		return len(sent) == 1 && sent[0].ToEmail == "student@example.com"
	}, time.Second, 10*time.Millisecond)
}

func TestWebhook_Errors(t *testing.T) {
	env := newTestEnv(t)

	env.payments.WebhookFn = func([]byte, string) (*utils.WebhookEvent, error) {
		return nil, errors.New("signature mismatch")
	}
	status, res := testhelpers.Do(t, env.app, webhookRequest(`{}`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Webhook Error: signature mismatch", res.Message)

	env.payments.WebhookFn = func(payload []byte, _ string) (*utils.WebhookEvent, error) {
		return &utils.WebhookEvent{ID: "evt_2", Type: utils.EventCheckoutSessionCompleted, Metadata: map[string]string{"userId": "1"}, Raw: payload}, nil
	}
	status, res = testhelpers.Do(t, env.app, webhookRequest(`{}`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Webhook Error: Missing metadata", res.Message)

	var recorded int64
	env.db.Model(&models.PaymentEvent{}).Where("event_id = ?", "evt_2").Count(&recorded)
	assert.Equal(t, int64(1), recorded)

	env.payments.WebhookFn = func(payload []byte, _ string) (*utils.WebhookEvent, error) {
		return &utils.WebhookEvent{ID: "evt_3", Type: "invoice.paid", Raw: payload}, nil
	}
	status, res = testhelpers.Do(t, env.app, webhookRequest(`{}`))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Webhook Error: Unhandled event type invoice.paid", res.Message)

	var purchases int64
	env.db.Model(&models.Purchase{}).Count(&purchases)
	assert.Zero(t, purchases)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	metrics.CheckoutSessionsTotal.WithLabelValues("created").Add(0)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "lms_checkout_sessions_total")
}
