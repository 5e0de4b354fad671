package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"gigworks/backend/config"
	"gigworks/backend/routes"
	"gigworks/backend/services/advisor"
	"gigworks/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeLLM stands in for the Gemini backend in handler tests.
type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) GenerateText(_ context.Context, _ string) (string, error) {
	return f.reply, f.err
}

// newTestApp builds a Fiber app wired like production, backed by an
// in-memory sqlite database unique to the test.
func newTestApp(t *testing.T, llm advisor.LLMClient) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, utils.AutoMigrate(db))

	cfg := &config.Config{
		JWTSecret:         "testsecret",
		GeminiModel:       "test-model",
		LLMTimeoutSeconds: 5,
	}

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg, llm)

	return app, db
}

// registerUser creates an account through the API and returns its token.
func registerUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})

	resp := doJSON(t, app, "POST", "/api/auth/register", body, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	token, _ := result["token"].(string)
	require.NotEmpty(t, token)

	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body []byte, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// uploadCSV posts csvData as a multipart dataset upload.
func uploadCSV(t *testing.T, app *fiber.App, token, name, csvData string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = io.WriteString(part, csvData)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/datasets", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decodeData unwraps the {success, data} envelope.
func decodeData(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	return data
}
