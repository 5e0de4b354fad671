package controllers_test

import (
	"encoding/json"
	"testing"

	"gigworks/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	app, db := newTestApp(t, nil)

	token := registerUser(t, app, "newworker")
	assert.NotEmpty(t, token)

	var user models.User
	require.NoError(t, db.Where("username = ?", "newworker").First(&user).Error)
	assert.Equal(t, "newworker@example.com", user.Email)
	// Password is stored hashed
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestRegisterMissingFields(t *testing.T) {
	app, _ := newTestApp(t, nil)

	body, _ := json.Marshal(map[string]string{"username": "incomplete"})
	resp := doJSON(t, app, "POST", "/api/auth/register", body, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	app, db := newTestApp(t, nil)
	registerUser(t, app, "driver")

	body, _ := json.Marshal(map[string]string{
		"username": "driver",
		"password": "password123",
	})
	resp := doJSON(t, app, "POST", "/api/auth/login", body, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.NotEmpty(t, result["token"])

	var count int64
	db.Model(&models.LoginHistory{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLoginWrongPassword(t *testing.T) {
	app, _ := newTestApp(t, nil)
	registerUser(t, app, "driver")

	body, _ := json.Marshal(map[string]string{
		"username": "driver",
		"password": "not-the-password",
	})
	resp := doJSON(t, app, "POST", "/api/auth/login", body, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp := doJSON(t, app, "GET", "/api/user/profile", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGetProfile(t *testing.T) {
	app, _ := newTestApp(t, nil)
	token := registerUser(t, app, "profiled")

	resp := doJSON(t, app, "GET", "/api/user/profile", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := decodeData(t, resp)
	assert.Equal(t, "profiled", data["username"])
	assert.Equal(t, float64(0), data["datasets"])
}
