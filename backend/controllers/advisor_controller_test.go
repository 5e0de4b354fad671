package controllers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gigworks/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReport(t *testing.T) {
	app, db := newTestApp(t, &fakeLLM{reply: "Work Fridays."})
	token := registerUser(t, app, "reporter")

	resp := uploadCSV(t, app, token, "earnings.csv", validCSV)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body, _ := json.Marshal(map[string]uint{"dataset_id": 1})
	resp = doJSON(t, app, "POST", "/api/advisor/report", body, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := decodeData(t, resp)
	assert.Equal(t, "Work Fridays.", data["content"])
	assert.Equal(t, "test-model", data["model"])

	var report models.Report
	require.NoError(t, db.First(&report).Error)
	assert.Equal(t, "Work Fridays.", report.Content)
	assert.Equal(t, uint(1), report.DatasetID)
}

func TestGenerateReportUnknownDataset(t *testing.T) {
	app, _ := newTestApp(t, &fakeLLM{reply: "ok"})
	token := registerUser(t, app, "reporter")

	body, _ := json.Marshal(map[string]uint{"dataset_id": 42})
	resp := doJSON(t, app, "POST", "/api/advisor/report", body, token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestChat(t *testing.T) {
	app, db := newTestApp(t, &fakeLLM{reply: "Drive evenings."})
	token := registerUser(t, app, "chatter")

	body, _ := json.Marshal(map[string]string{"message": "When should I drive?"})
	resp := doJSON(t, app, "POST", "/api/advisor/chat", body, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := decodeData(t, resp)
	assert.Equal(t, "assistant", data["role"])
	assert.Equal(t, "Drive evenings.", data["content"])

	var messages []models.ChatMessage
	require.NoError(t, db.Order("created_at asc").Find(&messages).Error)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "When should I drive?", messages[0].Content)
	assert.Equal(t, "assistant", messages[1].Role)
}

func TestChatEmptyMessage(t *testing.T) {
	app, _ := newTestApp(t, &fakeLLM{reply: "ok"})
	token := registerUser(t, app, "chatter")

	body, _ := json.Marshal(map[string]string{"message": "   "})
	resp := doJSON(t, app, "POST", "/api/advisor/chat", body, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestChatLLMFailureKeepsQuestion(t *testing.T) {
	app, db := newTestApp(t, &fakeLLM{err: errors.New("quota exceeded")})
	token := registerUser(t, app, "chatter")

	body, _ := json.Marshal(map[string]string{"message": "Will this fail?"})
	resp := doJSON(t, app, "POST", "/api/advisor/chat", body, token)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	// The question survives the failed call
	var count int64
	db.Model(&models.ChatMessage{}).Where("role = ?", "user").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAdvisorNotConfigured(t *testing.T) {
	app, _ := newTestApp(t, nil)
	token := registerUser(t, app, "chatter")

	body, _ := json.Marshal(map[string]string{"message": "Anyone there?"})
	resp := doJSON(t, app, "POST", "/api/advisor/chat", body, token)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

// wsUpgradeRequest builds a websocket handshake request for path.
func wsUpgradeRequest(path string) *http.Request {
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	return req
}

func TestChatSocketUpgrade(t *testing.T) {
	app, _ := newTestApp(t, &fakeLLM{reply: "ok"})
	token := registerUser(t, app, "socketeer")

	resp, err := app.Test(wsUpgradeRequest("/api/advisor/chat/ws?token="+token), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSwitchingProtocols, resp.StatusCode)
}

func TestChatSocketRejectsBadToken(t *testing.T) {
	app, _ := newTestApp(t, &fakeLLM{reply: "ok"})
	registerUser(t, app, "socketeer")

	resp, err := app.Test(wsUpgradeRequest("/api/advisor/chat/ws"), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(wsUpgradeRequest("/api/advisor/chat/ws?token=not-a-token"), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestChatSocketRequiresUpgrade(t *testing.T) {
	app, _ := newTestApp(t, &fakeLLM{reply: "ok"})
	token := registerUser(t, app, "socketeer")

	resp := doJSON(t, app, "GET", "/api/advisor/chat/ws?token="+token, nil, "")
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestChatHistory(t *testing.T) {
	app, _ := newTestApp(t, &fakeLLM{reply: "Answer."})
	token := registerUser(t, app, "historian")
	other := registerUser(t, app, "someoneelse")

	body, _ := json.Marshal(map[string]string{"message": "First question"})
	resp := doJSON(t, app, "POST", "/api/advisor/chat", body, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// History is scoped per user
	resp = doJSON(t, app, "GET", "/api/advisor/chat", nil, other)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var envelope struct {
		Data []models.ChatMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Empty(t, envelope.Data)

	resp = doJSON(t, app, "GET", "/api/advisor/chat", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Len(t, envelope.Data, 2)
}
