// Package testhelpers holds config, fakes and request helpers shared by handler tests.
package testhelpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"lms/config"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SetupConfig installs a test configuration as config.AppConfig
func SetupConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Port:                "3000",
		AppEnv:              "test",
		AppURL:              "http://lms.test",
		DBDriver:            "sqlite",
		JWTKey:              "test-secret",
		SaltRound:           bcrypt.MinCost,
		UploadDir:           t.TempDir(),
		MaxUploadMB:         8,
		CheckoutCurrency:    "usd",
		CheckoutExpiryHours: 24,
		EmailSender:         "no-reply@lms.test",
		EmailSenderName:     "LMS",
		LogLevel:            "disabled",
	}

	previous := config.AppConfig
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = previous })
	return cfg
}

// --- Fakes ---

type FakeVideo struct {
	mu       sync.Mutex
	Created  []string
	Deleted  []string
	CreateFn func(ctx context.Context, inputURL string) (*utils.VideoAsset, error)
	DeleteFn func(ctx context.Context, assetID string) error
}

func (f *FakeVideo) CreateAsset(ctx context.Context, inputURL string) (*utils.VideoAsset, error) {
	f.mu.Lock()
	f.Created = append(f.Created, inputURL)
	n := len(f.Created)
	f.mu.Unlock()

	if f.CreateFn != nil {
		return f.CreateFn(ctx, inputURL)
	}
	return &utils.VideoAsset{ID: fmt.Sprintf("asset-%d", n), PlaybackID: fmt.Sprintf("playback-%d", n)}, nil
}

func (f *FakeVideo) DeleteAsset(ctx context.Context, assetID string) error {
	f.mu.Lock()
	f.Deleted = append(f.Deleted, assetID)
	f.mu.Unlock()

	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, assetID)
	}
	return nil
}

func (f *FakeVideo) DeletedAssets() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Deleted...)
}

type FakePayments struct {
	mu        sync.Mutex
	Customers []string
	Sessions  []utils.CheckoutParams
	WebhookFn func(payload []byte, signature string) (*utils.WebhookEvent, error)
}

func (f *FakePayments) CreateCustomer(_ context.Context, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Customers = append(f.Customers, email)
	return fmt.Sprintf("cus_%d", len(f.Customers)), nil
}

func (f *FakePayments) CreateCheckoutSession(_ context.Context, params utils.CheckoutParams) (*utils.CheckoutResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sessions = append(f.Sessions, params)
	id := fmt.Sprintf("cs_test_%d", len(f.Sessions))
	return &utils.CheckoutResult{SessionID: id, URL: "https://checkout.stripe.test/" + id}, nil
}

func (f *FakePayments) ParseWebhook(payload []byte, signature string) (*utils.WebhookEvent, error) {
	if f.WebhookFn != nil {
		return f.WebhookFn(payload, signature)
	}
	return nil, fmt.Errorf("no webhook handler")
}

type RecordingMailer struct {
	mu   sync.Mutex
	sent []utils.EmailMessage
}

func (m *RecordingMailer) Send(msg utils.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *RecordingMailer) Sent() []utils.EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]utils.EmailMessage(nil), m.sent...)
}

// InstallFakes swaps the vendor clients for fakes until the test ends
func InstallFakes(t *testing.T) (*FakeVideo, *FakePayments, *RecordingMailer) {
	t.Helper()

	video, payments, mailer := &FakeVideo{}, &FakePayments{}, &RecordingMailer{}

	prevVideo, prevPayments, prevMailer := utils.Video, utils.Payments, utils.Mailer
	utils.Video, utils.Payments, utils.Mailer = video, payments, mailer
	t.Cleanup(func() {
		utils.Video, utils.Payments, utils.Mailer = prevVideo, prevPayments, prevMailer
	})

	return video, payments, mailer
}

// --- Fixtures ---

// CreateUser stores a user with the default permissions of role and returns a bearer token
func CreateUser(t *testing.T, db *gorm.DB, email, role string) (models.User, string) {
	t.Helper()

	user := models.User{Name: "Test " + role, Email: email, Role: role, Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, middleware.SeedPermissions(db, role, user.ID))

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return user, token
}

// --- Requests ---

// Response is the decoded JSON envelope
type Response struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// DoJSON sends body as JSON (nil for no body) and decodes the envelope
func DoJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, Response) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return Do(t, app, req)
}

// Do runs req against app and decodes the envelope
func Do(t *testing.T, app *fiber.App, req *http.Request) (int, Response) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out Response
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

// Decode unmarshals the envelope data into v
func Decode(t *testing.T, res Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(res.Data, v))
}
