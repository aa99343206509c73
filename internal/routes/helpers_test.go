package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/database"
	"github.com/example/storefront/internal/middleware"
)

const testSecret = "routes-test-secret"

// captureNotifier records codes instead of delivering them; fail makes every
// send return an error.
type captureNotifier struct {
	mu    sync.Mutex
	fail  bool
	codes map[uuid.UUID]string
}

func (n *captureNotifier) Send(_ context.Context, _, code string, otpID uuid.UUID) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("mailer offline")
	}
	if n.codes == nil {
		n.codes = make(map[uuid.UUID]string)
	}
	n.codes[otpID] = code
	return nil
}

func (n *captureNotifier) code(otpID uuid.UUID) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[otpID]
}

type testServer struct {
	t        testing.TB
	app      *fiber.App
	db       *gorm.DB
	notifier *captureNotifier
}

func newTestServer(t testing.TB) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), database.Config(logger.Silent))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:            testSecret,
		OTPTTL:               5 * time.Minute,
		VerificationTokenTTL: 15 * time.Minute,
	}
	notifier := &captureNotifier{}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(nil)})
	Register(app, db, cfg, Options{Notifier: notifier})

	return &testServer{t: t, app: app, db: db, notifier: notifier}
}

type apiResponse struct {
	Status  int             `json:"-"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// call performs a request and decodes the response envelope.
func (s *testServer) call(method, path string, body interface{}, headers ...string) apiResponse {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	out := apiResponse{Status: resp.StatusCode}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &out), string(raw))
	}
	return out
}

func (r apiResponse) decode(t testing.TB, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, out), string(r.Data))
}

func (s *testServer) createProduct(id string, cents int64) {
	s.t.Helper()
	resp := s.call("POST", "/api/products", map[string]interface{}{
		"id":         id,
		"name":       "Product " + id,
		"priceCents": cents,
		"rating":     map[string]interface{}{"stars": 4.5, "count": 12},
		"keywords":   []string{"sample", id},
	})
	require.Equal(s.t, fiber.StatusCreated, resp.Status, resp.Error)
}

func (s *testServer) registerUser(email string) uuid.UUID {
	s.t.Helper()
	resp := s.call("POST", "/api/users", map[string]interface{}{
		"name":     "Test User",
		"email":    email,
		"password": "secret1",
	})
	require.Equal(s.t, fiber.StatusCreated, resp.Status, resp.Error)

	var user struct {
		ID uuid.UUID `json:"id"`
	}
	resp.decode(s.t, &user)
	return user.ID
}
