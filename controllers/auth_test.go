package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peer-review-api/models"
)

func TestRegisterAndLogin(t *testing.T) {
	db, router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/register", "", map[string]interface{}{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"password":   "correct horse",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "ada@example.com").Error)
	assert.Equal(t, models.RoleUser, user.RoleID)
	assert.NotEqual(t, "correct horse", user.Password, "password must be stored hashed")

	w = doJSON(t, router, http.MethodPost, "/api/v1/login", "", map[string]interface{}{
		"email":    "ada@example.com",
		"password": "correct horse",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["token"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/login", "", map[string]interface{}{
		"email":    "ada@example.com",
		"password": "wrong horse",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	_, router := setupRouter(t)

	register := func(email, password string) int {
		w := doJSON(t, router, http.MethodPost, "/api/v1/register", "", map[string]interface{}{
			"first_name": "Ada",
			"last_name":  "Lovelace",
			"email":      email,
			"password":   password,
		})
		return w.Code
	}

	assert.Equal(t, http.StatusBadRequest, register("ada@example.com", "short"))
	assert.Equal(t, http.StatusBadRequest, register("not-an-email", "long enough"))

	require.Equal(t, http.StatusCreated, register("ada@example.com", "long enough"))
	assert.Equal(t, http.StatusConflict, register("ada@example.com", "long enough"))
}

func TestChangePassword(t *testing.T) {
	_, router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/register", "", map[string]interface{}{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"password":   "first password",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	token := decodeBody(t, w)["token"].(string)

	w = doJSON(t, router, http.MethodPut, "/api/v1/change-password", token, map[string]interface{}{
		"current_password": "not it",
		"new_password":     "second password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/v1/change-password", token, map[string]interface{}{
		"current_password": "first password",
		"new_password":     "second password",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// The old password no longer works.
	w = doJSON(t, router, http.MethodPost, "/api/v1/login", "", map[string]interface{}{
		"email":    "ada@example.com",
		"password": "first password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/login", "", map[string]interface{}{
		"email":    "ada@example.com",
		"password": "second password",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetProfile(t *testing.T) {
	db, router := setupRouter(t)

	user := createUser(t, db, "user@example.com", models.RoleUser)

	w := doJSON(t, router, http.MethodGet, "/api/v1/profile", authToken(t, user), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "user@example.com", got["email"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
