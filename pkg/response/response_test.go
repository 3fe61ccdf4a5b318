package response_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userapi/pkg/response"
)

func serve(t *testing.T, handler fiber.Handler) (*http.Response, map[string]any) {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	if len(raw) == 0 {
		return resp, nil
	}
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp, body
}

func TestSuccessEnvelope(t *testing.T) {
	resp, body := serve(t, func(c *fiber.Ctx) error {
		return response.Success(c, fiber.StatusOK, "ok", fiber.Map{"id": "u1"})
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ok", body["message"])
	assert.Equal(t, "u1", body["data"].(map[string]any)["id"])
	_, hasMeta := body["meta"]
	assert.False(t, hasMeta, "meta only appears on paginated responses")
}

func TestSuccessWithMetaEnvelope(t *testing.T) {
	resp, body := serve(t, func(c *fiber.Ctx) error {
		return response.SuccessWithMeta(c, "ok", []string{}, response.Meta{
			Page: 1, Limit: 5, Total: 7, TotalPages: 2,
		})
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(7), meta["total"])
	assert.Equal(t, float64(2), meta["totalPages"])
}

func TestErrorEnvelope(t *testing.T) {
	resp, body := serve(t, func(c *fiber.Ctx) error {
		return response.Error(c, fiber.StatusConflict, "conflict", map[string][]string{
			"email": {"already taken"},
		})
	})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "conflict", body["message"])
	assert.Contains(t, body["errors"].(map[string]any), "email")
}

func TestNoContent(t *testing.T) {
	resp, body := serve(t, func(c *fiber.Ctx) error {
		return response.NoContent(c)
	})

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Nil(t, body)
}
