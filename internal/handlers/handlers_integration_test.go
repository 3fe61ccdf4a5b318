package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"userapi/internal/config"
	"userapi/internal/database"
	"userapi/internal/handlers"
	"userapi/internal/middleware"
	"userapi/internal/repositories"
	"userapi/internal/services"
)

// setupApp builds the full Fiber app against a per-test in-memory SQLite
// database, mirroring the production wiring minus the message broker.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		AppEnv:          "test",
		APIVersion:      "v1",
		RateLimitWindow: time.Minute,
		RateLimitMax:    100,
		CORSOrigin:      "*",
	}

	userRepo := repositories.NewGORMUserRepository(db)
	userService := services.NewUserService(userRepo, nil)
	userHandler := handlers.NewUserHandler(userService)
	healthHandler := handlers.NewHealthHandler(db, "1.0.0")

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(false),
	})
	middleware.Register(app, cfg)
	healthHandler.RegisterRoutes(app)
	api := app.Group("/api/" + cfg.APIVersion)
	userHandler.RegisterRoutes(api)
	app.Use(middleware.NotFoundHandler)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
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

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	if len(raw) == 0 {
		return resp, nil
	}
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

func createUser(t *testing.T, app *fiber.App, email, name string) map[string]any {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/users", map[string]string{
		"email":    email,
		"name":     name,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["data"].(map[string]any)
}

func TestUserLifecycle(t *testing.T) {
	app, _ := setupApp(t)

	// Create on empty storage.
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/users", map[string]string{
		"email":    "a@b.com",
		"name":     "Ann",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "a@b.com", data["email"])
	assert.Equal(t, true, data["isActive"])
	_, hasPassword := data["password"]
	assert.False(t, hasPassword, "password must never appear in a response")
	id := data["id"].(string)
	assert.NotEmpty(t, id)

	// Repeating the same create conflicts.
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/users", map[string]string{
		"email":    "a@b.com",
		"name":     "Ann",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	// Read it back.
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/users/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id, body["data"].(map[string]any)["id"])

	// Partial update via PATCH.
	resp, body = doJSON(t, app, http.MethodPatch, "/api/v1/users/"+id, map[string]string{
		"name": "Ann Lee",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ann Lee", body["data"].(map[string]any)["name"])

	// Delete returns 204 with an empty body.
	resp, body = doJSON(t, app, http.MethodDelete, "/api/v1/users/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Nil(t, body)

	// Gone afterwards.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/users/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateValidationErrors(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/users", map[string]string{
		"email":    "invalid-email",
		"name":     "T",
		"password": "short",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Validation failed", body["message"])

	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "password")
	for field, msgs := range errs {
		assert.NotEmpty(t, msgs.([]any), "field %s should carry at least one message", field)
	}
}

func TestMalformedIDReturns422NotFound404(t *testing.T) {
	app, _ := setupApp(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		var payload any
		if method == http.MethodPut || method == http.MethodPatch {
			payload = map[string]string{}
		}
		resp, body := doJSON(t, app, method, "/api/v1/users/invalid-id", payload)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "%s with malformed id", method)
		errs := body["errors"].(map[string]any)
		assert.Contains(t, errs, "id")
	}

	// A well-formed but absent id is a 404, not a 422.
	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/users/123e4567-e89b-12d3-a456-426614174000", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListPagination(t *testing.T) {
	app, _ := setupApp(t)

	for i := 0; i < 7; i++ {
		createUser(t, app, fmt.Sprintf("user%d@example.com", i), fmt.Sprintf("User %d", i))
	}

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/users?page=1&limit=5", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]any), 5)

	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["page"])
	assert.Equal(t, float64(5), meta["limit"])
	assert.Equal(t, float64(7), meta["total"])
	assert.Equal(t, float64(2), meta["totalPages"], "ceil(7/5)")

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/users?page=2&limit=5", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]any), 2)
}

func TestListSearchCaseInsensitive(t *testing.T) {
	app, _ := setupApp(t)

	createUser(t, app, "alice@example.com", "Alice")
	createUser(t, app, "bob@example.com", "Bob")
	createUser(t, app, "carol@example.com", "Carola")

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/users?search=ALICE", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "alice@example.com", data[0].(map[string]any)["email"])

	// Substring match against the name column.
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/users?search=rol", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "carol@example.com", data[0].(map[string]any)["email"])
}

func TestListInvalidQueryRejected(t *testing.T) {
	app, _ := setupApp(t)

	for _, path := range []string{
		"/api/v1/users?page=0",
		"/api/v1/users?page=abc",
		"/api/v1/users?limit=0",
		"/api/v1/users?limit=101",
	} {
		resp, body := doJSON(t, app, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, path)
		assert.Equal(t, false, body["success"])
	}
}

func TestUpdateEmailConflictLeavesRecordUnchanged(t *testing.T) {
	app, _ := setupApp(t)

	createUser(t, app, "first@example.com", "First")
	second := createUser(t, app, "second@example.com", "Second")
	secondID := second["id"].(string)

	resp, _ := doJSON(t, app, http.MethodPut, "/api/v1/users/"+secondID, map[string]string{
		"email": "first@example.com",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/users/"+secondID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "second@example.com", body["data"].(map[string]any)["email"])
}

func TestEmptyUpdateBodyAccepted(t *testing.T) {
	app, _ := setupApp(t)

	user := createUser(t, app, "ann@example.com", "Ann")
	id := user["id"].(string)

	resp, body := doJSON(t, app, http.MethodPut, "/api/v1/users/"+id, map[string]string{})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ann@example.com", body["data"].(map[string]any)["email"])
	assert.Equal(t, "Ann", body["data"].(map[string]any)["name"])
}

func TestHealthEndpoints(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "connected", data["database"])
	assert.Equal(t, "1.0.0", data["version"])

	resp, body = doJSON(t, app, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["data"].(map[string]any)["ready"])

	resp, body = doJSON(t, app, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["data"].(map[string]any)["alive"])
}

func TestHealthUnhealthyWhenStorageUnreachable(t *testing.T) {
	app, db := setupApp(t)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	resp, body := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	resp, _ = doJSON(t, app, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	// Liveness never depends on storage.
	resp, _ = doJSON(t, app, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownRouteReturnsEnvelope(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/unknown", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Resource not found", body["message"])
}
